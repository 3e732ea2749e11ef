package domain

import (
	"fmt"
	"strings"
)

const (
	// OptionCount is the number of options every question carries.
	OptionCount = 4
	// MinDifficulty and MaxDifficulty bound Question.Difficulty.
	MinDifficulty = 1
	MaxDifficulty = 5
)

// QuestionType describes how a question is presented.
type QuestionType string

const (
	MultipleChoice QuestionType = "multiple_choice"
	CodeOutput     QuestionType = "code_output"
	FillBlank      QuestionType = "fill_blank"
	DebugCode      QuestionType = "debug_code"
	TrueFalse      QuestionType = "true_false"
	CodeCompletion QuestionType = "code_completion"
	AlgorithmTrace QuestionType = "algorithm_trace"
)

// ValidationError represents a validation error
type ValidationError struct {
	message string
}

func (e *ValidationError) Error() string {
	return e.message
}

func NewValidationError(message string) error {
	return &ValidationError{message: message}
}

// Question is a single multiple-choice item of the bank. Immutable once loaded.
type Question struct {
	ID          int64        `json:"id"`
	Question    string       `json:"question"`
	Code        string       `json:"code,omitempty"`
	Options     []string     `json:"options"`
	Correct     int          `json:"correct"`
	Explanation string       `json:"explanation"`
	Topic       string       `json:"topic"`
	Difficulty  int          `json:"difficulty"`
	Type        QuestionType `json:"type,omitempty"`
	Hints       []string     `json:"hints,omitempty"`
}

// Validate validates the question
func (q *Question) Validate() error {
	if q.ID <= 0 {
		return NewValidationError("question id must be positive")
	}
	if strings.TrimSpace(q.Question) == "" {
		return NewValidationError(fmt.Sprintf("question %d: text is required", q.ID))
	}
	if len(q.Options) != OptionCount {
		return NewValidationError(fmt.Sprintf("question %d: expected %d options, got %d", q.ID, OptionCount, len(q.Options)))
	}
	if !q.ValidOption(q.Correct) {
		return NewValidationError(fmt.Sprintf("question %d: correct index %d is out of range", q.ID, q.Correct))
	}
	if q.Topic == "" {
		return NewValidationError(fmt.Sprintf("question %d: topic is required", q.ID))
	}
	if q.Difficulty < MinDifficulty || q.Difficulty > MaxDifficulty {
		return NewValidationError(fmt.Sprintf("question %d: difficulty must be between %d and %d", q.ID, MinDifficulty, MaxDifficulty))
	}
	return nil
}

// ValidOption reports whether idx addresses one of the question's options.
func (q *Question) ValidOption(idx int) bool {
	return idx >= 0 && idx < len(q.Options)
}

// IsCorrect reports whether idx is the right answer.
func (q *Question) IsCorrect(idx int) bool {
	return idx == q.Correct
}

// Clone returns a copy that shares no slices with q.
func (q Question) Clone() Question {
	q.Options = append([]string(nil), q.Options...)
	q.Hints = append([]string(nil), q.Hints...)
	return q
}

// DifficultyName maps the 1-5 scale to a label.
func DifficultyName(difficulty int) string {
	switch difficulty {
	case 1:
		return "very easy"
	case 2:
		return "easy"
	case 3:
		return "medium"
	case 4:
		return "hard"
	case 5:
		return "very hard"
	default:
		return "unknown"
	}
}
