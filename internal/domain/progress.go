package domain

import (
	"sort"
	"time"
)

// SkillLevel is the coarse level derived from overall performance.
type SkillLevel string

const (
	Beginner     SkillLevel = "beginner"
	Intermediate SkillLevel = "intermediate"
	Advanced     SkillLevel = "advanced"
	Expert       SkillLevel = "expert"
)

// TopicScore aggregates a student's results on one topic.
type TopicScore struct {
	Attempted int     `json:"attempted"`
	Correct   int     `json:"correct"`
	Mastery   float64 `json:"mastery"` // moving average of outcomes, 0.0 ~ 1.0
}

// Accuracy returns Correct/Attempted, or 0 when nothing was attempted.
func (t TopicScore) Accuracy() float64 {
	if t.Attempted == 0 {
		return 0
	}
	return float64(t.Correct) / float64(t.Attempted)
}

// StudentProgress is the persisted, process-wide learning record.
type StudentProgress struct {
	TotalQuestions   int                   `json:"total_questions"`
	CorrectAnswers   int                   `json:"correct_answers"`
	TopicScores      map[string]TopicScore `json:"topic_scores"`
	LearningStreak   int                   `json:"learning_streak"`
	MaxStreak        int                   `json:"max_streak"`
	QuizzesCompleted int                   `json:"quizzes_completed"`
	LastPractice     *time.Time            `json:"last_practice,omitempty"`
}

// NewStudentProgress returns the all-zero default progress.
func NewStudentProgress() *StudentProgress {
	return &StudentProgress{TopicScores: make(map[string]TopicScore)}
}

// Clone returns a deep copy.
func (p *StudentProgress) Clone() *StudentProgress {
	c := *p
	c.TopicScores = make(map[string]TopicScore, len(p.TopicScores))
	for k, v := range p.TopicScores {
		c.TopicScores[k] = v
	}
	if p.LastPractice != nil {
		t := *p.LastPractice
		c.LastPractice = &t
	}
	return &c
}

// Validate rejects progress that could not have been produced by the tracker.
func (p *StudentProgress) Validate() error {
	if p.TotalQuestions < 0 || p.CorrectAnswers < 0 || p.LearningStreak < 0 || p.MaxStreak < 0 || p.QuizzesCompleted < 0 {
		return NewValidationError("progress counters must not be negative")
	}
	if p.CorrectAnswers > p.TotalQuestions {
		return NewValidationError("correct answers exceed total questions")
	}
	if p.LearningStreak > p.MaxStreak {
		return NewValidationError("learning streak exceeds max streak")
	}
	for topic, score := range p.TopicScores {
		if score.Attempted < 0 || score.Correct < 0 || score.Correct > score.Attempted {
			return NewValidationError("invalid counters for topic " + topic)
		}
		if score.Mastery < 0 || score.Mastery > 1 {
			return NewValidationError("mastery out of range for topic " + topic)
		}
	}
	return nil
}

// Stats are display statistics derived from StudentProgress.
type Stats struct {
	TotalQuestions   int                `json:"total_questions"`
	CorrectAnswers   int                `json:"correct_answers"`
	Accuracy         float64            `json:"accuracy"` // percent
	LearningStreak   int                `json:"learning_streak"`
	MaxStreak        int                `json:"max_streak"`
	QuizzesCompleted int                `json:"quizzes_completed"`
	TopicAccuracy    map[string]float64 `json:"topic_accuracy"` // percent
	WeakestTopic     string             `json:"weakest_topic,omitempty"`
	StrongestTopic   string             `json:"strongest_topic,omitempty"`
	SkillLevel       SkillLevel         `json:"skill_level"`
}

// SortedTopics returns the topic keys in lexical order.
func (p *StudentProgress) SortedTopics() []string {
	topics := make([]string, 0, len(p.TopicScores))
	for topic := range p.TopicScores {
		topics = append(topics, topic)
	}
	sort.Strings(topics)
	return topics
}
