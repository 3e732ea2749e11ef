package progress

import "cquiz/internal/domain"

// ComputeStats derives display statistics from p without modifying it.
func ComputeStats(p *domain.StudentProgress) domain.Stats {
	stats := domain.Stats{
		TotalQuestions:   p.TotalQuestions,
		CorrectAnswers:   p.CorrectAnswers,
		LearningStreak:   p.LearningStreak,
		MaxStreak:        p.MaxStreak,
		QuizzesCompleted: p.QuizzesCompleted,
		TopicAccuracy:    make(map[string]float64, len(p.TopicScores)),
		SkillLevel:       SkillLevel(p),
	}
	if p.TotalQuestions > 0 {
		stats.Accuracy = float64(p.CorrectAnswers) / float64(p.TotalQuestions) * 100
	}

	weakest, strongest := -1.0, -1.0
	for _, topic := range p.SortedTopics() {
		score := p.TopicScores[topic]
		if score.Attempted == 0 {
			continue
		}
		stats.TopicAccuracy[topic] = score.Accuracy() * 100
		if weakest < 0 || score.Mastery < weakest {
			weakest = score.Mastery
			stats.WeakestTopic = topic
		}
		if strongest < 0 || score.Mastery > strongest {
			strongest = score.Mastery
			stats.StrongestTopic = topic
		}
	}
	return stats
}

// SkillLevel grades overall performance; volume gates the higher levels.
func SkillLevel(p *domain.StudentProgress) domain.SkillLevel {
	if p.TotalQuestions == 0 {
		return domain.Beginner
	}
	accuracy := float64(p.CorrectAnswers) / float64(p.TotalQuestions)
	switch {
	case p.TotalQuestions >= 100 && accuracy >= 0.9:
		return domain.Expert
	case p.TotalQuestions >= 50 && accuracy >= 0.75:
		return domain.Advanced
	case p.TotalQuestions >= 20 && accuracy >= 0.6:
		return domain.Intermediate
	default:
		return domain.Beginner
	}
}
