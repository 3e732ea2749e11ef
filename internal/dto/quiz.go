package dto

import "cquiz/internal/domain"

// TopicResponse describes one topic of the question bank
// @Description Topic information
type TopicResponse struct {
	Key           string `json:"key"`
	Name          string `json:"name"`
	QuestionCount int    `json:"question_count"`
}

// TopicsResponse lists the bank's topics
type TopicsResponse struct {
	Topics []TopicResponse `json:"topics"`
}

// QuestionResponse is a question without its answer
// @Description Question shown to the student
type QuestionResponse struct {
	ID             int64    `json:"id"`
	Question       string   `json:"question"`
	Code           string   `json:"code,omitempty"`
	Options        []string `json:"options"`
	Topic          string   `json:"topic"`
	TopicName      string   `json:"topic_name"`
	Difficulty     int      `json:"difficulty"`
	DifficultyName string   `json:"difficulty_name"`
	Type           string   `json:"type"`
	Hints          []string `json:"hints,omitempty"`
}

// StartQuizRequest starts a quiz on a topic, or an adaptive quiz
// @Description Request body for starting a quiz
type StartQuizRequest struct {
	Topic    string `json:"topic"`
	Adaptive bool   `json:"adaptive"`
}

// SelectAnswerRequest carries the tentative option
type SelectAnswerRequest struct {
	Option *int `json:"option"`
}

// AnswerResponse is one answered question of the session
type AnswerResponse struct {
	QuestionID    int64   `json:"question_id"`
	Selected      int     `json:"selected"`
	Correct       bool    `json:"correct"`
	TimedOut      bool    `json:"timed_out"`
	CorrectOption int     `json:"correct_option"`
	Explanation   string  `json:"explanation"`
	TimeTaken     float64 `json:"time_taken"` // seconds
}

// SessionResponse is the renderable state of the quiz session
// @Description Current quiz session
type SessionResponse struct {
	SessionID     string            `json:"session_id,omitempty"`
	State         string            `json:"state"`
	CurrentIndex  int               `json:"current_index"`
	Total         int               `json:"total"`
	Question      *QuestionResponse `json:"question,omitempty"`
	Selected      *int              `json:"selected,omitempty"`
	Score         int               `json:"score"`
	TimeRemaining int               `json:"time_remaining"`
	Answers       []AnswerResponse  `json:"answers"`
}

// SummaryResponse is the result of a finished quiz
type SummaryResponse struct {
	SessionID string           `json:"session_id"`
	Score     int              `json:"score"`
	Total     int              `json:"total"`
	Answered  int              `json:"answered"`
	Accuracy  float64          `json:"accuracy"`
	Duration  float64          `json:"duration"` // seconds
	Answers   []AnswerResponse `json:"answers"`
}

// NextQuestionResponse holds either the next question or the final summary
type NextQuestionResponse struct {
	Finished bool             `json:"finished"`
	Session  *SessionResponse `json:"session,omitempty"`
	Summary  *SummaryResponse `json:"summary,omitempty"`
}

// TopicProgressResponse is the student's standing on one topic
type TopicProgressResponse struct {
	Topic     string  `json:"topic"`
	Name      string  `json:"name"`
	Attempted int     `json:"attempted"`
	Correct   int     `json:"correct"`
	Accuracy  float64 `json:"accuracy"` // percent
	Mastery   float64 `json:"mastery"`
}

// ProgressResponse is the student's overall progress
// @Description Student progress and statistics
type ProgressResponse struct {
	Stats        domain.Stats            `json:"stats"`
	Topics       []TopicProgressResponse `json:"topics"`
	LastPractice string                  `json:"last_practice,omitempty"`
}
