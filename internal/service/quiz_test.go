package service

import (
	"context"
	"os"
	"testing"
	"time"

	"cquiz/internal/adapter"
	"cquiz/internal/bank"
	"cquiz/internal/config"
	"cquiz/internal/domain"
	"cquiz/internal/dto"
	"cquiz/internal/logger"
	"cquiz/internal/progress"
	"cquiz/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMain will be used to initialize the logger for all tests in this package
func TestMain(m *testing.M) {
	if err := logger.Initialize(config.LoggerConfig{}); err != nil {
		panic("Failed to initialize logger for tests: " + err.Error())
	}
	code := m.Run()
	_ = logger.Sync()
	os.Exit(code)
}

// idleScheduler never ticks; countdown behaviour is covered in the session package.
type idleScheduler struct{}

func (idleScheduler) Every(time.Duration, func()) func() { return func() {} }

func newTestService(t *testing.T) (QuizService, *progress.Tracker) {
	t.Helper()
	b, err := bank.Default()
	require.NoError(t, err)
	tracker := progress.NewTracker(adapter.NewMemoryStorage(), "test", progress.DefaultPolicy(), time.Second)
	engine := session.NewEngine(tracker, nil, idleScheduler{}, 0)
	t.Cleanup(engine.Close)
	return NewQuizService(b, engine, tracker, bank.DefaultAdaptivePolicy()), tracker
}

func TestQuizService_GetTopics(t *testing.T) {
	svc, _ := newTestService(t)

	resp := svc.GetTopics()
	require.Len(t, resp.Topics, 3)
	assert.Equal(t, dto.TopicResponse{Key: "c_basics", Name: "C Basics & Syntax", QuestionCount: 3}, resp.Topics[0])
}

func TestQuizService_GetTopicQuestions(t *testing.T) {
	svc, _ := newTestService(t)

	questions, err := svc.GetTopicQuestions("pointers")
	require.NoError(t, err)
	require.Len(t, questions, 2)
	assert.Equal(t, int64(4), questions[0].ID)
	assert.Equal(t, "hard", questions[0].DifficultyName)

	_, err = svc.GetTopicQuestions("nonexistent_topic")
	assert.True(t, domain.IsCode(err, domain.ErrNotFound))
}

func TestQuizService_TopicQuizFlow(t *testing.T) {
	svc, tracker := newTestService(t)
	ctx := context.Background()

	sess, err := svc.StartQuiz(ctx, &dto.StartQuizRequest{Topic: "memory_management"})
	require.NoError(t, err)
	assert.Equal(t, "running", sess.State)
	assert.Equal(t, 2, sess.Total)
	require.NotNil(t, sess.Question)
	assert.Equal(t, int64(6), sess.Question.ID)
	assert.Equal(t, 120, sess.TimeRemaining)

	option := 1
	sess, err = svc.SelectAnswer(&dto.SelectAnswerRequest{Option: &option})
	require.NoError(t, err)
	require.NotNil(t, sess.Selected)
	assert.Equal(t, 1, *sess.Selected)

	answer, err := svc.SubmitAnswer(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(6), answer.QuestionID)
	assert.NotEmpty(t, answer.Explanation)
	assert.Equal(t, answer.Selected == answer.CorrectOption, answer.Correct)

	next, err := svc.NextQuestion(ctx)
	require.NoError(t, err)
	assert.False(t, next.Finished)
	require.NotNil(t, next.Session)
	assert.Equal(t, int64(7), next.Session.Question.ID)
	assert.Len(t, next.Session.Answers, 1)

	summary, err := svc.FinishQuiz(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Total)
	assert.Equal(t, 1, summary.Answered)
	assert.Equal(t, "finished", svc.GetSession().State)
	assert.Nil(t, svc.GetSession().Question)

	p := tracker.Snapshot()
	assert.Equal(t, 1, p.TotalQuestions)
	assert.Equal(t, 1, p.QuizzesCompleted)
}

func TestQuizService_StartUnknownTopic(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.StartQuiz(context.Background(), &dto.StartQuizRequest{Topic: "file_io"})
	assert.True(t, domain.IsCode(err, domain.ErrNotFound))
	assert.Equal(t, "idle", svc.GetSession().State)
}

func TestQuizService_StartAdaptive(t *testing.T) {
	svc, _ := newTestService(t)

	sess, err := svc.StartQuiz(context.Background(), &dto.StartQuizRequest{Adaptive: true})
	require.NoError(t, err)
	assert.Equal(t, 7, sess.Total, "the bank holds fewer questions than the policy asks for")
}

func TestQuizService_GetProgress(t *testing.T) {
	svc, tracker := newTestService(t)
	ctx := context.Background()
	require.NoError(t, tracker.RecordAnswer(ctx, domain.Question{ID: 4, Topic: "pointers"}, true))
	require.NoError(t, tracker.RecordAnswer(ctx, domain.Question{ID: 1, Topic: "c_basics"}, false))

	resp := svc.GetProgress()
	assert.Equal(t, 50.0, resp.Stats.Accuracy)
	require.Len(t, resp.Topics, 2)
	assert.Equal(t, "c_basics", resp.Topics[0].Topic)
	assert.Equal(t, "Pointers & Memory", resp.Topics[1].Name)
	assert.Equal(t, 100.0, resp.Topics[1].Accuracy)
	assert.NotEmpty(t, resp.LastPractice)
}
