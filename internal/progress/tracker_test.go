package progress

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"cquiz/internal/adapter"
	"cquiz/internal/config"
	"cquiz/internal/domain"
	"cquiz/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	if err := logger.Initialize(config.LoggerConfig{Env: "test"}); err != nil {
		panic("Failed to initialize logger for tests: " + err.Error())
	}
	code := m.Run()
	_ = logger.Sync()
	os.Exit(code)
}

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) Save(ctx context.Context, key string, value string) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *MockStorage) Load(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

const testKey = "cquiz:progress:student:default"

var fixedNow = time.Date(2024, 3, 9, 18, 30, 0, 0, time.UTC)

func newTestTracker(storage domain.Storage) *Tracker {
	tracker := NewTracker(storage, testKey, DefaultPolicy(), time.Second)
	tracker.now = func() time.Time { return fixedNow }
	return tracker
}

func q(id int64, topic string) domain.Question {
	return domain.Question{ID: id, Topic: topic}
}

func TestTracker_LoadMissingReturnsDefaults(t *testing.T) {
	tracker := newTestTracker(adapter.NewMemoryStorage())

	p := tracker.Load(context.Background())
	assert.Equal(t, domain.NewStudentProgress(), p)
}

func TestTracker_LoadFallsBackToDefaults(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{name: "not json", value: "{{{"},
		{name: "unknown version", value: `{"version":7,"progress":{"total_questions":3}}`},
		{name: "missing payload", value: `{"version":1}`},
		{name: "inconsistent counters", value: `{"version":1,"progress":{"total_questions":1,"correct_answers":4}}`},
		{name: "mastery out of range", value: `{"version":1,"progress":{"topic_scores":{"pointers":{"attempted":1,"correct":1,"mastery":3}}}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage := adapter.NewMemoryStorage()
			require.NoError(t, storage.Save(context.Background(), testKey, tt.value))
			tracker := newTestTracker(storage)

			p := tracker.Load(context.Background())
			assert.Equal(t, domain.NewStudentProgress(), p)
		})
	}
}

func TestTracker_LoadStorageError(t *testing.T) {
	storage := new(MockStorage)
	storage.On("Load", mock.Anything, testKey).Return("", errors.New("connection refused"))
	tracker := newTestTracker(storage)

	p := tracker.Load(context.Background())
	assert.Equal(t, 0, p.TotalQuestions)
	assert.NotNil(t, p.TopicScores)
	storage.AssertExpectations(t)
}

func TestTracker_LoadDropsUnknownTopics(t *testing.T) {
	storage := adapter.NewMemoryStorage()
	saved := domain.NewStudentProgress()
	saved.TotalQuestions = 2
	saved.TopicScores["pointers"] = domain.TopicScore{Attempted: 1, Mastery: 0.4}
	saved.TopicScores["cobol"] = domain.TopicScore{Attempted: 1, Mastery: 0.6}
	value, err := Encode(saved)
	require.NoError(t, err)
	require.NoError(t, storage.Save(context.Background(), testKey, value))

	tracker := newTestTracker(storage)
	tracker.SetTopicFilter(func(topic string) bool { return topic == "pointers" })
	p := tracker.Load(context.Background())

	assert.Equal(t, 2, p.TotalQuestions)
	assert.Contains(t, p.TopicScores, "pointers")
	assert.NotContains(t, p.TopicScores, "cobol")
}

func TestTracker_RecordAnswer(t *testing.T) {
	storage := adapter.NewMemoryStorage()
	tracker := newTestTracker(storage)
	ctx := context.Background()
	tracker.Load(ctx)

	require.NoError(t, tracker.RecordAnswer(ctx, q(1, "pointers"), true))
	require.NoError(t, tracker.RecordAnswer(ctx, q(2, "pointers"), true))
	require.NoError(t, tracker.RecordAnswer(ctx, q(3, "c_basics"), true))
	require.NoError(t, tracker.RecordAnswer(ctx, q(4, "pointers"), false))
	require.NoError(t, tracker.RecordAnswer(ctx, q(5, "c_basics"), true))

	p := tracker.Snapshot()
	assert.Equal(t, 5, p.TotalQuestions)
	assert.Equal(t, 4, p.CorrectAnswers)
	assert.Equal(t, 1, p.LearningStreak)
	assert.Equal(t, 3, p.MaxStreak)
	require.NotNil(t, p.LastPractice)
	assert.Equal(t, fixedNow, *p.LastPractice)

	pointers := p.TopicScores["pointers"]
	assert.Equal(t, 3, pointers.Attempted)
	assert.Equal(t, 2, pointers.Correct)
	// 0.5 -> 0.6 -> 0.68 -> 0.544
	assert.InDelta(t, 0.544, pointers.Mastery, 1e-9)

	basics := p.TopicScores["c_basics"]
	assert.Equal(t, 2, basics.Correct)
	assert.InDelta(t, 0.68, basics.Mastery, 1e-9)

	// Every answer is persisted immediately.
	value, err := storage.Load(ctx, testKey)
	require.NoError(t, err)
	decoded, err := Decode(value)
	require.NoError(t, err)
	assert.Equal(t, p, decoded)
}

func TestTracker_IncorrectAnswerResetsStreak(t *testing.T) {
	tracker := newTestTracker(nil)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		require.NoError(t, tracker.RecordAnswer(ctx, q(int64(i+1), "arrays"), true))
	}
	require.NoError(t, tracker.RecordAnswer(ctx, q(5, "arrays"), false))

	p := tracker.Snapshot()
	assert.Equal(t, 0, p.LearningStreak)
	assert.Equal(t, 4, p.MaxStreak)
}

func TestTracker_MasteryStaysInRange(t *testing.T) {
	tracker := newTestTracker(nil)
	ctx := context.Background()

	for i := 0; i < 200; i++ {
		require.NoError(t, tracker.RecordAnswer(ctx, q(1, "recursion"), i%7 != 0))
		m := tracker.Snapshot().TopicScores["recursion"].Mastery
		require.GreaterOrEqual(t, m, 0.0)
		require.LessOrEqual(t, m, 1.0)
	}
}

func TestTracker_PersistFailure(t *testing.T) {
	storage := new(MockStorage)
	storage.On("Save", mock.Anything, testKey, mock.Anything).Return(errors.New("disk full"))
	tracker := newTestTracker(storage)
	ctx := context.Background()

	err := tracker.RecordAnswer(ctx, q(1, "pointers"), true)
	assert.True(t, domain.IsCode(err, domain.ErrPersistence))
	assert.Equal(t, 1, tracker.Snapshot().TotalQuestions, "in-memory progress survives a failed save")

	err = tracker.Persist(ctx)
	assert.True(t, domain.IsCode(err, domain.ErrPersistence))
	storage.AssertNumberOfCalls(t, "Save", 2)
}

func TestTracker_PersistUsesTimeout(t *testing.T) {
	storage := new(MockStorage)
	storage.On("Save", mock.MatchedBy(func(ctx context.Context) bool {
		_, ok := ctx.Deadline()
		return ok
	}), testKey, mock.Anything).Return(nil).Once()
	tracker := newTestTracker(storage)

	assert.NoError(t, tracker.Persist(context.Background()))
	storage.AssertExpectations(t)
}

func TestTracker_CompleteQuiz(t *testing.T) {
	storage := adapter.NewMemoryStorage()
	tracker := newTestTracker(storage)
	ctx := context.Background()

	require.NoError(t, tracker.CompleteQuiz(ctx))
	require.NoError(t, tracker.CompleteQuiz(ctx))
	assert.Equal(t, 2, tracker.Snapshot().QuizzesCompleted)

	reloaded := newTestTracker(storage)
	assert.Equal(t, 2, reloaded.Load(ctx).QuizzesCompleted)
}

func TestTracker_SnapshotIsACopy(t *testing.T) {
	tracker := newTestTracker(nil)
	require.NoError(t, tracker.RecordAnswer(context.Background(), q(1, "pointers"), true))

	snap := tracker.Snapshot()
	snap.TopicScores["pointers"] = domain.TopicScore{}
	snap.TotalQuestions = 42

	again := tracker.Snapshot()
	assert.Equal(t, 1, again.TotalQuestions)
	assert.Equal(t, 1, again.TopicScores["pointers"].Attempted)
}

func TestTracker_UpdateStats(t *testing.T) {
	tracker := newTestTracker(nil)
	ctx := context.Background()
	require.NoError(t, tracker.RecordAnswer(ctx, q(1, "pointers"), false))
	require.NoError(t, tracker.RecordAnswer(ctx, q(2, "c_basics"), true))
	require.NoError(t, tracker.RecordAnswer(ctx, q(3, "c_basics"), true))
	require.NoError(t, tracker.RecordAnswer(ctx, q(4, "structures"), true))

	stats := tracker.UpdateStats()
	assert.Equal(t, 4, stats.TotalQuestions)
	assert.Equal(t, 75.0, stats.Accuracy)
	assert.Equal(t, 0.0, stats.TopicAccuracy["pointers"])
	assert.Equal(t, 100.0, stats.TopicAccuracy["c_basics"])
	assert.Equal(t, "pointers", stats.WeakestTopic)
	assert.Equal(t, "c_basics", stats.StrongestTopic)
	assert.Equal(t, domain.Beginner, stats.SkillLevel)
}

func TestPolicy_UpdateMastery(t *testing.T) {
	p := Policy{InitialMastery: 0.5, Retention: 0.8}
	assert.InDelta(t, 0.6, p.UpdateMastery(0.5, true), 1e-9)
	assert.InDelta(t, 0.4, p.UpdateMastery(0.5, false), 1e-9)
	assert.InDelta(t, 1.0, p.UpdateMastery(1.0, true), 1e-9)
	assert.InDelta(t, 0.0, p.UpdateMastery(0.0, false), 1e-9)
}
