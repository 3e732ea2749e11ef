// Package progress accumulates StudentProgress across sessions and persists
// it through the storage collaborator.
package progress

import (
	"context"
	"errors"
	"sync"
	"time"

	"cquiz/internal/domain"
	"cquiz/internal/logger"

	"go.uber.org/zap"
)

// Policy controls how topic mastery moves after each answer.
type Policy struct {
	InitialMastery float64 // mastery of a topic before its first answer
	Retention      float64 // weight kept from the previous mastery, in [0, 1)
}

// DefaultPolicy starts topics at 0.5 and keeps 80% of the previous mastery.
func DefaultPolicy() Policy {
	return Policy{InitialMastery: 0.5, Retention: 0.8}
}

// UpdateMastery folds one outcome into the moving average.
func (p Policy) UpdateMastery(current float64, correct bool) float64 {
	outcome := 0.0
	if correct {
		outcome = 1.0
	}
	return current*p.Retention + outcome*(1-p.Retention)
}

// Tracker is the single writer of StudentProgress.
type Tracker struct {
	mu             sync.RWMutex
	storage        domain.Storage
	key            string
	policy         Policy
	persistTimeout time.Duration
	knownTopic     func(string) bool
	now            func() time.Time

	progress *domain.StudentProgress
}

// NewTracker creates a Tracker holding default progress until Load is called.
func NewTracker(storage domain.Storage, key string, policy Policy, persistTimeout time.Duration) *Tracker {
	return &Tracker{
		storage:        storage,
		key:            key,
		policy:         policy,
		persistTimeout: persistTimeout,
		now:            func() time.Time { return time.Now().UTC() },
		progress:       domain.NewStudentProgress(),
	}
}

// SetTopicFilter makes Load drop topic scores for topics the filter rejects.
func (t *Tracker) SetTopicFilter(known func(string) bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.knownTopic = known
}

// Load restores persisted progress. Missing or corrupt data yields defaults.
func (t *Tracker) Load(ctx context.Context) *domain.StudentProgress {
	loaded := t.load(ctx)

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.knownTopic != nil {
		for topic := range loaded.TopicScores {
			if !t.knownTopic(topic) {
				logger.Get().Warn("Dropping progress for unknown topic", zap.String("topic", topic))
				delete(loaded.TopicScores, topic)
			}
		}
	}
	t.progress = loaded
	return loaded.Clone()
}

func (t *Tracker) load(ctx context.Context) *domain.StudentProgress {
	if t.storage == nil {
		return domain.NewStudentProgress()
	}
	value, err := t.storage.Load(ctx, t.key)
	if err != nil {
		if errors.Is(err, domain.ErrStorageMiss) {
			logger.Get().Info("No saved progress, starting fresh", zap.String("key", t.key))
		} else {
			logger.Get().Error("Failed to load progress, using defaults",
				zap.String("key", t.key), zap.Error(domain.NewPersistenceError("load failed", err)))
		}
		return domain.NewStudentProgress()
	}
	p, err := Decode(value)
	if err != nil {
		logger.Get().Warn("Saved progress is corrupt, using defaults", zap.String("key", t.key), zap.Error(err))
		return domain.NewStudentProgress()
	}
	logger.Get().Info("Progress loaded",
		zap.String("key", t.key),
		zap.Int("totalQuestions", p.TotalQuestions),
		zap.Int("learningStreak", p.LearningStreak))
	return p
}

// RecordAnswer folds one answered question into the progress and persists it.
func (t *Tracker) RecordAnswer(ctx context.Context, question domain.Question, correct bool) error {
	t.mu.Lock()
	p := t.progress
	p.TotalQuestions++
	if correct {
		p.CorrectAnswers++
		p.LearningStreak++
		if p.LearningStreak > p.MaxStreak {
			p.MaxStreak = p.LearningStreak
		}
	} else {
		p.LearningStreak = 0
	}

	score, ok := p.TopicScores[question.Topic]
	if !ok {
		score.Mastery = t.policy.InitialMastery
	}
	score.Attempted++
	if correct {
		score.Correct++
	}
	score.Mastery = t.policy.UpdateMastery(score.Mastery, correct)
	p.TopicScores[question.Topic] = score

	now := t.now()
	p.LastPractice = &now
	snapshot := p.Clone()
	t.mu.Unlock()

	return t.save(ctx, snapshot)
}

// CompleteQuiz counts a finished quiz and persists.
func (t *Tracker) CompleteQuiz(ctx context.Context) error {
	t.mu.Lock()
	t.progress.QuizzesCompleted++
	snapshot := t.progress.Clone()
	t.mu.Unlock()

	return t.save(ctx, snapshot)
}

// Persist writes the current progress to storage.
func (t *Tracker) Persist(ctx context.Context) error {
	return t.save(ctx, t.Snapshot())
}

// Snapshot returns a copy of the current progress.
func (t *Tracker) Snapshot() *domain.StudentProgress {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.progress.Clone()
}

// UpdateStats recomputes the derived statistics.
func (t *Tracker) UpdateStats() domain.Stats {
	return ComputeStats(t.Snapshot())
}

func (t *Tracker) save(ctx context.Context, p *domain.StudentProgress) error {
	if t.storage == nil {
		return nil
	}
	value, err := Encode(p)
	if err != nil {
		logger.Get().Error("Failed to encode progress", zap.Error(err))
		return domain.NewPersistenceError("failed to encode progress", err)
	}
	if t.persistTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.persistTimeout)
		defer cancel()
	}
	if err := t.storage.Save(ctx, t.key, value); err != nil {
		logger.Get().Error("Failed to persist progress", zap.String("key", t.key), zap.Error(err))
		return domain.NewPersistenceError("failed to persist progress", err)
	}
	logger.Get().Debug("Progress persisted", zap.String("key", t.key))
	return nil
}
