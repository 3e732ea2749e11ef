// Package session implements the quiz session state machine:
// Idle -> Running(i) -> AnswerLocked(i) -> Running(i+1) -> ... -> Finished.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"cquiz/internal/domain"
	"cquiz/internal/logger"
	"cquiz/internal/notify"
	"cquiz/internal/util"

	"go.uber.org/zap"
)

// ProgressRecorder receives the outcome of every answered question.
type ProgressRecorder interface {
	RecordAnswer(ctx context.Context, question domain.Question, correct bool) error
	CompleteQuiz(ctx context.Context) error
}

type quizSession struct {
	id                string
	questions         []domain.Question
	index             int
	selected          *int
	score             int
	answers           []domain.UserAnswer
	timeRemaining     int
	expired           bool
	state             domain.SessionState
	startedAt         time.Time
	questionStartedAt time.Time
}

// Engine drives a single quiz session at a time. It is safe for concurrent
// use; the countdown fires on the scheduler's goroutine.
type Engine struct {
	mu              sync.Mutex
	recorder        ProgressRecorder
	notifier        domain.Notifier
	scheduler       Scheduler
	timePerQuestion time.Duration
	now             func() time.Time

	session     *quizSession
	summary     *domain.Summary
	cancelTimer func()
	timerGen    uint64
}

// NewEngine creates an idle Engine. A nil notifier discards notifications,
// a nil scheduler uses time.Ticker, and a non-positive timePerQuestion
// falls back to domain.DefaultTimePerQuestion.
func NewEngine(recorder ProgressRecorder, notifier domain.Notifier, scheduler Scheduler, timePerQuestion time.Duration) *Engine {
	if notifier == nil {
		notifier = domain.NotifierFunc(func(string, domain.Severity) {})
	}
	if scheduler == nil {
		scheduler = NewTickerScheduler()
	}
	if timePerQuestion < time.Second {
		timePerQuestion = domain.DefaultTimePerQuestion
	}
	return &Engine{
		recorder:        recorder,
		notifier:        notifier,
		scheduler:       scheduler,
		timePerQuestion: timePerQuestion,
		now:             time.Now,
	}
}

// Start discards any session in progress and begins a new one.
func (e *Engine) Start(ctx context.Context, questions []domain.Question) error {
	if len(questions) == 0 {
		return e.fail(domain.NewEmptyQuestionSetError())
	}
	for i := range questions {
		if err := questions[i].Validate(); err != nil {
			return e.fail(domain.NewError(domain.ErrInvalidInput, "Invalid question in quiz", err))
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session != nil && e.session.state != domain.StateFinished {
		logger.Get().Info("Discarding unfinished quiz session",
			zap.String("sessionID", e.session.id),
			zap.Int("answered", len(e.session.answers)))
	}
	e.stopTimerLocked()

	copied := make([]domain.Question, len(questions))
	for i, q := range questions {
		copied[i] = q.Clone()
	}
	now := e.now()
	e.summary = nil
	e.session = &quizSession{
		id:                util.NewULID(),
		questions:         copied,
		answers:           make([]domain.UserAnswer, 0, len(copied)),
		state:             domain.StateRunning,
		startedAt:         now,
		questionStartedAt: now,
		timeRemaining:     e.secondsPerQuestion(),
	}
	e.startTimerLocked()

	logger.Get().Info("Quiz session started",
		zap.String("sessionID", e.session.id),
		zap.Int("questions", len(copied)),
		zap.Duration("timePerQuestion", e.timePerQuestion))
	e.notifier.Notify(fmt.Sprintf("Quiz started: %d questions", len(copied)), domain.SeveritySuccess)
	return nil
}

// SelectAnswer records a tentative choice for the current question.
func (e *Engine) SelectAnswer(optionIndex int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := e.session
	if s == nil || s.state != domain.StateRunning {
		return e.fail(domain.NewInvalidStateError("No question is awaiting an answer"))
	}
	q := s.questions[s.index]
	if !q.ValidOption(optionIndex) {
		return e.fail(domain.NewInvalidInputError(
			fmt.Sprintf("Option %d is out of range for question %d", optionIndex, q.ID)))
	}
	idx := optionIndex
	s.selected = &idx
	return nil
}

// SubmitAnswer locks in the selected answer for the current question.
func (e *Engine) SubmitAnswer(ctx context.Context) (domain.UserAnswer, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	answer, err := e.submitLocked(ctx)
	if err != nil {
		return domain.UserAnswer{}, e.fail(err)
	}
	return answer, nil
}

// NextQuestion advances past a locked answer. When the last question has
// been answered the session finishes and its summary is returned.
func (e *Engine) NextQuestion(ctx context.Context) (*domain.Summary, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	summary, err := e.nextLocked(ctx)
	if err != nil {
		return nil, e.fail(err)
	}
	return summary, nil
}

// Finish ends the session early or after the last answer.
func (e *Engine) Finish(ctx context.Context) (domain.Summary, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := e.session
	if s == nil || (s.state != domain.StateRunning && s.state != domain.StateAnswerLocked) {
		return domain.Summary{}, e.fail(domain.NewInvalidStateError("No active quiz to finish"))
	}
	return e.finishLocked(ctx), nil
}

// Snapshot returns a copy of the session for rendering.
func (e *Engine) Snapshot() domain.SessionSnapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := e.session
	if s == nil {
		return domain.SessionSnapshot{State: domain.StateIdle}
	}
	snap := domain.SessionSnapshot{
		SessionID:     s.id,
		State:         s.state,
		Questions:     make([]domain.Question, len(s.questions)),
		CurrentIndex:  s.index,
		Score:         s.score,
		Answers:       append([]domain.UserAnswer(nil), s.answers...),
		TimeRemaining: s.timeRemaining,
		Running:       s.state == domain.StateRunning || s.state == domain.StateAnswerLocked,
		StartedAt:     s.startedAt,
	}
	for i, q := range s.questions {
		snap.Questions[i] = q.Clone()
	}
	if s.selected != nil {
		idx := *s.selected
		snap.Selected = &idx
	}
	return snap
}

// State returns the current lifecycle state.
func (e *Engine) State() domain.SessionState {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session == nil {
		return domain.StateIdle
	}
	return e.session.state
}

// LastSummary returns the summary of the most recently finished session.
func (e *Engine) LastSummary() (domain.Summary, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.summary == nil {
		return domain.Summary{}, false
	}
	return *e.summary, true
}

// Close cancels the countdown. The session stays readable.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopTimerLocked()
}

func (e *Engine) submitLocked(ctx context.Context) (domain.UserAnswer, *domain.DomainError) {
	s := e.session
	if s == nil || s.state != domain.StateRunning {
		return domain.UserAnswer{}, domain.NewInvalidStateError("No question is awaiting an answer")
	}
	if s.selected == nil && !s.expired {
		return domain.UserAnswer{}, domain.NewInvalidStateError("Select an answer before submitting")
	}

	q := s.questions[s.index]
	now := e.now()
	answer := domain.UserAnswer{
		QuestionID: q.ID,
		Selected:   domain.NoAnswer,
		TimedOut:   s.selected == nil,
		TimeTaken:  now.Sub(s.questionStartedAt),
		AnsweredAt: now,
	}
	if s.selected != nil {
		answer.Selected = *s.selected
		answer.Correct = q.IsCorrect(*s.selected)
	}

	e.stopTimerLocked()
	s.answers = append(s.answers, answer)
	if answer.Correct {
		s.score++
	}
	s.state = domain.StateAnswerLocked

	logger.Get().Debug("Answer submitted",
		zap.String("sessionID", s.id),
		zap.Int64("questionID", q.ID),
		zap.Int("selected", answer.Selected),
		zap.Bool("correct", answer.Correct),
		zap.Bool("timedOut", answer.TimedOut))

	switch {
	case answer.Correct:
		e.notifier.Notify("Correct! "+q.Explanation, domain.SeveritySuccess)
	case answer.TimedOut:
		e.notifier.Notify(fmt.Sprintf("Time's up! The correct answer is: %s", q.Options[q.Correct]), domain.SeverityWarning)
	default:
		e.notifier.Notify(fmt.Sprintf("Incorrect. The correct answer is: %s. %s", q.Options[q.Correct], q.Explanation), domain.SeverityWarning)
	}

	if e.recorder != nil {
		if err := e.recorder.RecordAnswer(ctx, q, answer.Correct); err != nil {
			e.notifier.Notify("Progress could not be saved", domain.SeverityWarning)
		}
	}
	return answer, nil
}

func (e *Engine) nextLocked(ctx context.Context) (*domain.Summary, *domain.DomainError) {
	s := e.session
	if s == nil || s.state != domain.StateAnswerLocked {
		return nil, domain.NewInvalidStateError("Submit an answer before moving on")
	}

	s.index++
	s.selected = nil
	s.expired = false
	if s.index >= len(s.questions) {
		summary := e.finishLocked(ctx)
		return &summary, nil
	}

	s.state = domain.StateRunning
	s.timeRemaining = e.secondsPerQuestion()
	s.questionStartedAt = e.now()
	e.startTimerLocked()
	return nil, nil
}

func (e *Engine) finishLocked(ctx context.Context) domain.Summary {
	s := e.session
	e.stopTimerLocked()
	s.state = domain.StateFinished
	s.selected = nil

	summary := domain.Summary{
		SessionID: s.id,
		Score:     s.score,
		Total:     len(s.questions),
		Answered:  len(s.answers),
		Duration:  e.now().Sub(s.startedAt),
		Answers:   append([]domain.UserAnswer(nil), s.answers...),
	}
	if summary.Total > 0 {
		summary.Accuracy = float64(summary.Score) / float64(summary.Total) * 100
	}
	e.summary = &summary

	if e.recorder != nil {
		if err := e.recorder.CompleteQuiz(ctx); err != nil {
			e.notifier.Notify("Progress could not be saved", domain.SeverityWarning)
		}
	}

	logger.Get().Info("Quiz session finished",
		zap.String("sessionID", s.id),
		zap.Int("score", summary.Score),
		zap.Int("total", summary.Total),
		zap.Duration("duration", summary.Duration))
	e.notifier.Notify(notify.Summary(summary), domain.SeveritySuccess)
	return summary
}

// tick is the countdown task of timer generation gen.
func (e *Engine) tick(gen uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := e.session
	if gen != e.timerGen || s == nil || s.state != domain.StateRunning {
		return
	}
	if s.timeRemaining > 0 {
		s.timeRemaining--
	}
	if s.timeRemaining > 0 {
		return
	}

	// Expiry runs outside any request, so it gets its own context.
	ctx := context.Background()
	s.expired = true
	logger.Get().Info("Question timed out",
		zap.String("sessionID", s.id),
		zap.Int64("questionID", s.questions[s.index].ID),
		zap.Bool("hadSelection", s.selected != nil))
	if _, err := e.submitLocked(ctx); err != nil {
		logger.Get().Error("Failed to submit on timeout", zap.Error(err))
		return
	}
	if _, err := e.nextLocked(ctx); err != nil {
		logger.Get().Error("Failed to advance on timeout", zap.Error(err))
	}
}

func (e *Engine) startTimerLocked() {
	e.stopTimerLocked()
	gen := e.timerGen
	e.cancelTimer = e.scheduler.Every(time.Second, func() { e.tick(gen) })
}

// stopTimerLocked cancels the countdown and invalidates ticks already in flight.
func (e *Engine) stopTimerLocked() {
	if e.cancelTimer != nil {
		e.cancelTimer()
		e.cancelTimer = nil
	}
	e.timerGen++
}

func (e *Engine) secondsPerQuestion() int {
	return int(e.timePerQuestion / time.Second)
}

// fail reports err to the user and returns it unchanged.
func (e *Engine) fail(err *domain.DomainError) error {
	severity := domain.SeverityError
	if err.Code == domain.ErrInvalidInput {
		severity = domain.SeverityWarning
	}
	e.notifier.Notify(err.Message, severity)
	return err
}
