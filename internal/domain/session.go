package domain

import "time"

// NoAnswer marks a UserAnswer whose question timed out unanswered.
const NoAnswer = -1

// DefaultTimePerQuestion is the countdown given for every question.
const DefaultTimePerQuestion = 120 * time.Second

// SessionState is the position of a quiz session in its lifecycle.
type SessionState string

const (
	StateIdle         SessionState = "idle"
	StateRunning      SessionState = "running"
	StateAnswerLocked SessionState = "answer_locked"
	StateFinished     SessionState = "finished"
)

// UserAnswer is one answered (or timed out) question of a session.
type UserAnswer struct {
	QuestionID int64         `json:"question_id"`
	Selected   int           `json:"selected"`
	TimedOut   bool          `json:"timed_out"`
	Correct    bool          `json:"correct"`
	TimeTaken  time.Duration `json:"time_taken"`
	AnsweredAt time.Time     `json:"answered_at"`
}

// SessionSnapshot is a read-only copy of a session handed to renderers.
type SessionSnapshot struct {
	SessionID     string       `json:"session_id,omitempty"`
	State         SessionState `json:"state"`
	Questions     []Question   `json:"questions,omitempty"`
	CurrentIndex  int          `json:"current_index"`
	Selected      *int         `json:"selected,omitempty"`
	Score         int          `json:"score"`
	Answers       []UserAnswer `json:"answers,omitempty"`
	TimeRemaining int          `json:"time_remaining"`
	Running       bool         `json:"running"`
	StartedAt     time.Time    `json:"started_at"`
}

// Current returns the active question, if any.
func (s SessionSnapshot) Current() (Question, bool) {
	if s.CurrentIndex < 0 || s.CurrentIndex >= len(s.Questions) || s.State == StateFinished {
		return Question{}, false
	}
	return s.Questions[s.CurrentIndex], true
}

// Summary is the final result of a finished session.
type Summary struct {
	SessionID string        `json:"session_id"`
	Score     int           `json:"score"`
	Total     int           `json:"total"`
	Answered  int           `json:"answered"`
	Accuracy  float64       `json:"accuracy"` // percent of total
	Duration  time.Duration `json:"duration"`
	Answers   []UserAnswer  `json:"answers"`
}
