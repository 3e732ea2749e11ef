package progress

import (
	"encoding/json"
	"fmt"

	"cquiz/internal/domain"
)

const codecVersion = 1

type envelope struct {
	Version  int                     `json:"version"`
	Progress *domain.StudentProgress `json:"progress"`
}

// Encode serialises progress for the storage collaborator.
func Encode(p *domain.StudentProgress) (string, error) {
	data, err := json.Marshal(envelope{Version: codecVersion, Progress: p})
	if err != nil {
		return "", fmt.Errorf("failed to encode progress: %w", err)
	}
	return string(data), nil
}

// Decode parses a value produced by Encode and validates it.
func Decode(value string) (*domain.StudentProgress, error) {
	var env envelope
	if err := json.Unmarshal([]byte(value), &env); err != nil {
		return nil, fmt.Errorf("failed to decode progress: %w", err)
	}
	if env.Version != codecVersion {
		return nil, fmt.Errorf("unsupported progress version %d", env.Version)
	}
	if env.Progress == nil {
		return nil, fmt.Errorf("progress payload is missing")
	}
	if env.Progress.TopicScores == nil {
		env.Progress.TopicScores = make(map[string]domain.TopicScore)
	}
	if err := env.Progress.Validate(); err != nil {
		return nil, fmt.Errorf("invalid progress: %w", err)
	}
	return env.Progress, nil
}
