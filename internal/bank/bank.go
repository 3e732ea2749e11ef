// Package bank holds the read-only question bank and the adaptive selection policy.
package bank

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"cquiz/internal/domain"
)

//go:embed seed/questions.json
var seedQuestions []byte

// Bank is an immutable mapping from topic key to an ordered question list.
type Bank struct {
	topics map[string][]domain.Question
	byID   map[int64]domain.Question
	order  []string
}

// New validates questions and groups them by topic, keeping their order.
func New(questions []domain.Question) (*Bank, error) {
	b := &Bank{
		topics: make(map[string][]domain.Question),
		byID:   make(map[int64]domain.Question, len(questions)),
	}
	for i := range questions {
		q := questions[i].Clone()
		if q.Type == "" {
			q.Type = domain.MultipleChoice
		}
		if err := q.Validate(); err != nil {
			return nil, fmt.Errorf("invalid question at position %d: %w", i, err)
		}
		if _, dup := b.byID[q.ID]; dup {
			return nil, fmt.Errorf("duplicate question id %d", q.ID)
		}
		if _, seen := b.topics[q.Topic]; !seen {
			b.order = append(b.order, q.Topic)
		}
		b.topics[q.Topic] = append(b.topics[q.Topic], q)
		b.byID[q.ID] = q
	}
	sort.Strings(b.order)
	return b, nil
}

// Parse builds a bank from a JSON array of questions.
func Parse(data []byte) (*Bank, error) {
	var questions []domain.Question
	if err := json.Unmarshal(data, &questions); err != nil {
		return nil, fmt.Errorf("failed to decode question bank: %w", err)
	}
	return New(questions)
}

// Default returns the embedded C programming question bank.
func Default() (*Bank, error) {
	return Parse(seedQuestions)
}

// Load reads a JSON question bank from path.
func Load(path string) (*Bank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read question bank %s: %w", path, err)
	}
	return Parse(data)
}

// QuestionsForTopic returns the topic's questions in bank order.
func (b *Bank) QuestionsForTopic(topic string) ([]domain.Question, error) {
	questions, ok := b.topics[topic]
	if !ok {
		return nil, domain.NewTopicNotFoundError(topic)
	}
	out := make([]domain.Question, len(questions))
	for i, q := range questions {
		out[i] = q.Clone()
	}
	return out, nil
}

// Question looks a question up by id.
func (b *Bank) Question(id int64) (domain.Question, error) {
	q, ok := b.byID[id]
	if !ok {
		return domain.Question{}, domain.NewNotFoundError(fmt.Sprintf("Question not found with ID: %d", id))
	}
	return q.Clone(), nil
}

// Topics returns every topic key in lexical order.
func (b *Bank) Topics() []string {
	return append([]string(nil), b.order...)
}

// HasTopic reports whether the bank knows topic.
func (b *Bank) HasTopic(topic string) bool {
	_, ok := b.topics[topic]
	return ok
}

// Size is the total number of questions.
func (b *Bank) Size() int {
	return len(b.byID)
}

// All returns every question, grouped by topic in Topics order.
func (b *Bank) All() []domain.Question {
	out := make([]domain.Question, 0, len(b.byID))
	for _, topic := range b.order {
		for _, q := range b.topics[topic] {
			out = append(out, q.Clone())
		}
	}
	return out
}
