package service

import (
	"context"
	"time"

	"cquiz/internal/bank"
	"cquiz/internal/domain"
	"cquiz/internal/dto"
	"cquiz/internal/logger"
	"cquiz/internal/progress"
	"cquiz/internal/session"

	"go.uber.org/zap"
)

// QuizService defines the interface for quiz-related operations
type QuizService interface {
	GetTopics() *dto.TopicsResponse
	GetTopicQuestions(topic string) ([]dto.QuestionResponse, error)
	StartQuiz(ctx context.Context, req *dto.StartQuizRequest) (*dto.SessionResponse, error)
	SelectAnswer(req *dto.SelectAnswerRequest) (*dto.SessionResponse, error)
	SubmitAnswer(ctx context.Context) (*dto.AnswerResponse, error)
	NextQuestion(ctx context.Context) (*dto.NextQuestionResponse, error)
	FinishQuiz(ctx context.Context) (*dto.SummaryResponse, error)
	GetSession() *dto.SessionResponse
	GetProgress() *dto.ProgressResponse
}

// quizService implements QuizService
type quizService struct {
	bank     *bank.Bank
	engine   *session.Engine
	tracker  *progress.Tracker
	adaptive bank.AdaptivePolicy
}

// NewQuizService creates a new instance of quizService
func NewQuizService(b *bank.Bank, engine *session.Engine, tracker *progress.Tracker, adaptive bank.AdaptivePolicy) QuizService {
	return &quizService{
		bank:     b,
		engine:   engine,
		tracker:  tracker,
		adaptive: adaptive,
	}
}

// GetTopics implements QuizService
func (s *quizService) GetTopics() *dto.TopicsResponse {
	topics := s.bank.Topics()
	resp := &dto.TopicsResponse{Topics: make([]dto.TopicResponse, 0, len(topics))}
	for _, topic := range topics {
		questions, _ := s.bank.QuestionsForTopic(topic)
		resp.Topics = append(resp.Topics, dto.TopicResponse{
			Key:           topic,
			Name:          bank.TopicName(topic),
			QuestionCount: len(questions),
		})
	}
	return resp
}

// GetTopicQuestions implements QuizService
func (s *quizService) GetTopicQuestions(topic string) ([]dto.QuestionResponse, error) {
	questions, err := s.bank.QuestionsForTopic(topic)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.QuestionResponse, len(questions))
	for i, q := range questions {
		resp[i] = toQuestionResponse(q)
	}
	return resp, nil
}

// StartQuiz implements QuizService
func (s *quizService) StartQuiz(ctx context.Context, req *dto.StartQuizRequest) (*dto.SessionResponse, error) {
	var (
		questions []domain.Question
		err       error
	)
	if req.Adaptive {
		questions, err = s.bank.GenerateAdaptive(s.tracker.Snapshot(), s.adaptive)
	} else {
		questions, err = s.bank.QuestionsForTopic(req.Topic)
	}
	if err != nil {
		return nil, err
	}

	if err := s.engine.Start(ctx, questions); err != nil {
		return nil, err
	}
	logger.Get().Info("Quiz started",
		zap.String("topic", req.Topic),
		zap.Bool("adaptive", req.Adaptive),
		zap.Int("questions", len(questions)))
	return s.GetSession(), nil
}

// SelectAnswer implements QuizService
func (s *quizService) SelectAnswer(req *dto.SelectAnswerRequest) (*dto.SessionResponse, error) {
	if err := s.engine.SelectAnswer(*req.Option); err != nil {
		return nil, err
	}
	return s.GetSession(), nil
}

// SubmitAnswer implements QuizService
func (s *quizService) SubmitAnswer(ctx context.Context) (*dto.AnswerResponse, error) {
	answer, err := s.engine.SubmitAnswer(ctx)
	if err != nil {
		return nil, err
	}
	resp := s.toAnswerResponse(answer)
	return &resp, nil
}

// NextQuestion implements QuizService
func (s *quizService) NextQuestion(ctx context.Context) (*dto.NextQuestionResponse, error) {
	summary, err := s.engine.NextQuestion(ctx)
	if err != nil {
		return nil, err
	}
	if summary != nil {
		return &dto.NextQuestionResponse{Finished: true, Summary: s.toSummaryResponse(*summary)}, nil
	}
	return &dto.NextQuestionResponse{Session: s.GetSession()}, nil
}

// FinishQuiz implements QuizService
func (s *quizService) FinishQuiz(ctx context.Context) (*dto.SummaryResponse, error) {
	summary, err := s.engine.Finish(ctx)
	if err != nil {
		return nil, err
	}
	return s.toSummaryResponse(summary), nil
}

// GetSession implements QuizService
func (s *quizService) GetSession() *dto.SessionResponse {
	snap := s.engine.Snapshot()
	resp := &dto.SessionResponse{
		SessionID:     snap.SessionID,
		State:         string(snap.State),
		CurrentIndex:  snap.CurrentIndex,
		Total:         len(snap.Questions),
		Selected:      snap.Selected,
		Score:         snap.Score,
		TimeRemaining: snap.TimeRemaining,
		Answers:       make([]dto.AnswerResponse, 0, len(snap.Answers)),
	}
	if q, ok := snap.Current(); ok {
		qr := toQuestionResponse(q)
		resp.Question = &qr
	}
	for _, answer := range snap.Answers {
		resp.Answers = append(resp.Answers, s.toAnswerResponse(answer))
	}
	return resp
}

// GetProgress implements QuizService
func (s *quizService) GetProgress() *dto.ProgressResponse {
	p := s.tracker.Snapshot()
	resp := &dto.ProgressResponse{
		Stats:  progress.ComputeStats(p),
		Topics: make([]dto.TopicProgressResponse, 0, len(p.TopicScores)),
	}
	for _, topic := range p.SortedTopics() {
		score := p.TopicScores[topic]
		resp.Topics = append(resp.Topics, dto.TopicProgressResponse{
			Topic:     topic,
			Name:      bank.TopicName(topic),
			Attempted: score.Attempted,
			Correct:   score.Correct,
			Accuracy:  score.Accuracy() * 100,
			Mastery:   score.Mastery,
		})
	}
	if p.LastPractice != nil {
		resp.LastPractice = p.LastPractice.Format(time.RFC3339)
	}
	return resp
}

func (s *quizService) toAnswerResponse(answer domain.UserAnswer) dto.AnswerResponse {
	resp := dto.AnswerResponse{
		QuestionID: answer.QuestionID,
		Selected:   answer.Selected,
		Correct:    answer.Correct,
		TimedOut:   answer.TimedOut,
		TimeTaken:  answer.TimeTaken.Seconds(),
	}
	if q, err := s.bank.Question(answer.QuestionID); err == nil {
		resp.CorrectOption = q.Correct
		resp.Explanation = q.Explanation
	}
	return resp
}

func (s *quizService) toSummaryResponse(summary domain.Summary) *dto.SummaryResponse {
	resp := &dto.SummaryResponse{
		SessionID: summary.SessionID,
		Score:     summary.Score,
		Total:     summary.Total,
		Answered:  summary.Answered,
		Accuracy:  summary.Accuracy,
		Duration:  summary.Duration.Seconds(),
		Answers:   make([]dto.AnswerResponse, 0, len(summary.Answers)),
	}
	for _, answer := range summary.Answers {
		resp.Answers = append(resp.Answers, s.toAnswerResponse(answer))
	}
	return resp
}

func toQuestionResponse(q domain.Question) dto.QuestionResponse {
	return dto.QuestionResponse{
		ID:             q.ID,
		Question:       q.Question,
		Code:           q.Code,
		Options:        q.Options,
		Topic:          q.Topic,
		TopicName:      bank.TopicName(q.Topic),
		Difficulty:     q.Difficulty,
		DifficultyName: domain.DifficultyName(q.Difficulty),
		Type:           string(q.Type),
		Hints:          q.Hints,
	}
}
