package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validQuestion() Question {
	return Question{
		ID:          1,
		Question:    "Which of the following is the correct way to include a standard library in C?",
		Options:     []string{"#include <stdio.h>", "include stdio.h", "#include stdio.h", "using stdio.h"},
		Correct:     0,
		Explanation: "Standard libraries are included using #include <library_name.h> syntax",
		Topic:       "c_basics",
		Difficulty:  1,
		Hints:       []string{"Think about preprocessor directives"},
	}
}

func TestQuestion_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(q *Question)
		wantErr string
	}{
		{"valid question", func(q *Question) {}, ""},
		{"zero id", func(q *Question) { q.ID = 0 }, "question id must be positive"},
		{"missing text", func(q *Question) { q.Question = "  " }, "text is required"},
		{"three options", func(q *Question) { q.Options = q.Options[:3] }, "expected 4 options"},
		{"negative correct", func(q *Question) { q.Correct = -1 }, "out of range"},
		{"correct past options", func(q *Question) { q.Correct = 4 }, "out of range"},
		{"missing topic", func(q *Question) { q.Topic = "" }, "topic is required"},
		{"difficulty too high", func(q *Question) { q.Difficulty = 6 }, "difficulty must be between"},
		{"difficulty zero", func(q *Question) { q.Difficulty = 0 }, "difficulty must be between"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := validQuestion()
			tt.mutate(&q)
			err := q.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestQuestion_CloneDoesNotShareSlices(t *testing.T) {
	q := validQuestion()
	c := q.Clone()
	c.Options[0] = "changed"
	c.Hints[0] = "changed"

	assert.Equal(t, "#include <stdio.h>", q.Options[0])
	assert.Equal(t, "Think about preprocessor directives", q.Hints[0])
}

func TestQuestion_IsCorrect(t *testing.T) {
	q := validQuestion()
	assert.True(t, q.IsCorrect(0))
	assert.False(t, q.IsCorrect(1))
	assert.False(t, q.ValidOption(4))
	assert.True(t, q.ValidOption(3))
}

func TestDifficultyName(t *testing.T) {
	assert.Equal(t, "very easy", DifficultyName(1))
	assert.Equal(t, "medium", DifficultyName(3))
	assert.Equal(t, "unknown", DifficultyName(9))
}
