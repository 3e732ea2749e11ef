package bank

import (
	"math"
	"sort"

	"cquiz/internal/domain"
)

// AdaptivePolicy parameterises GenerateAdaptive.
type AdaptivePolicy struct {
	QuestionCount  int
	MinWeight      float64 // floor for a topic's weight, keeps mastered topics in rotation
	InitialMastery float64 // mastery assumed for topics never attempted
}

// DefaultAdaptivePolicy mirrors the defaults of the configuration file.
func DefaultAdaptivePolicy() AdaptivePolicy {
	return AdaptivePolicy{
		QuestionCount:  10,
		MinWeight:      0.1,
		InitialMastery: 0.5,
	}
}

type topicPlan struct {
	topic     string
	mastery   float64
	weight    float64
	quota     int
	questions []domain.Question
}

// TargetDifficulty maps a mastery in [0,1] onto the difficulty scale.
func TargetDifficulty(mastery float64) int {
	mastery = math.Max(0, math.Min(1, mastery))
	return domain.MinDifficulty + int(math.Round(mastery*float64(domain.MaxDifficulty-domain.MinDifficulty)))
}

// GenerateAdaptive picks questions biased toward the student's weakest topics.
// Each topic gets a share of QuestionCount proportional to max(1-mastery, MinWeight);
// inside a topic, questions closest to the topic's target difficulty come first.
// The result depends only on the bank, the progress snapshot and the policy.
func (b *Bank) GenerateAdaptive(progress *domain.StudentProgress, policy AdaptivePolicy) ([]domain.Question, error) {
	if policy.QuestionCount <= 0 {
		return nil, domain.NewInvalidInputError("adaptive question count must be positive")
	}
	if progress == nil {
		progress = domain.NewStudentProgress()
	}

	count := policy.QuestionCount
	if count > b.Size() {
		count = b.Size()
	}

	plans := make([]*topicPlan, 0, len(b.order))
	for _, topic := range b.order {
		mastery := policy.InitialMastery
		if score, ok := progress.TopicScores[topic]; ok && score.Attempted > 0 {
			mastery = score.Mastery
		}
		plans = append(plans, &topicPlan{
			topic:     topic,
			mastery:   mastery,
			weight:    math.Max(1-mastery, policy.MinWeight),
			questions: orderByTarget(b.topics[topic], TargetDifficulty(mastery)),
		})
	}
	sort.SliceStable(plans, func(i, j int) bool {
		if plans[i].mastery != plans[j].mastery {
			return plans[i].mastery < plans[j].mastery
		}
		return plans[i].topic < plans[j].topic
	})

	allocate(plans, count)

	selected := make([]domain.Question, 0, count)
	for round := 0; len(selected) < count; round++ {
		for _, p := range plans {
			if round < p.quota {
				selected = append(selected, p.questions[round].Clone())
			}
		}
	}
	return selected, nil
}

// allocate distributes count over plans with the largest remainder method,
// then moves quota a topic cannot fill to the next topics in priority order.
func allocate(plans []*topicPlan, count int) {
	var total float64
	for _, p := range plans {
		total += p.weight
	}
	if total <= 0 {
		for _, p := range plans {
			p.weight = 1
		}
		total = float64(len(plans))
	}

	type remainder struct {
		idx  int
		frac float64
	}
	rems := make([]remainder, len(plans))
	assigned := 0
	for i, p := range plans {
		exact := float64(count) * p.weight / total
		p.quota = int(math.Floor(exact + 1e-9))
		assigned += p.quota
		rems[i] = remainder{idx: i, frac: exact - float64(p.quota)}
	}
	sort.SliceStable(rems, func(i, j int) bool { return rems[i].frac > rems[j].frac })
	for i := 0; assigned < count && i < len(rems); i++ {
		plans[rems[i].idx].quota++
		assigned++
	}

	spill := 0
	for _, p := range plans {
		if p.quota > len(p.questions) {
			spill += p.quota - len(p.questions)
			p.quota = len(p.questions)
		}
	}
	for _, p := range plans {
		if spill == 0 {
			break
		}
		room := len(p.questions) - p.quota
		if room > spill {
			room = spill
		}
		p.quota += room
		spill -= room
	}
}

func orderByTarget(questions []domain.Question, target int) []domain.Question {
	out := append([]domain.Question(nil), questions...)
	sort.SliceStable(out, func(i, j int) bool {
		di := abs(out[i].Difficulty - target)
		dj := abs(out[j].Difficulty - target)
		if di != dj {
			return di < dj
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
