package validation

import (
	"fmt"
	"regexp"
	"strings"

	"cquiz/internal/domain"
	"cquiz/internal/dto"
)

var topicPattern = regexp.MustCompile(`^[a-z0-9_]{1,64}$`)

// Validator provides request validation functionality
type Validator struct{}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateTopic checks the shape of a topic key. Whether the topic exists
// is for the bank to decide.
func (v *Validator) ValidateTopic(topic string) error {
	if strings.TrimSpace(topic) == "" {
		return domain.NewInvalidInputError("topic is required")
	}
	if !topicPattern.MatchString(topic) {
		return domain.NewInvalidInputError(fmt.Sprintf("invalid topic format: %q", topic))
	}
	return nil
}

// ValidateStartQuizRequest requires exactly one of topic and adaptive.
func (v *Validator) ValidateStartQuizRequest(req *dto.StartQuizRequest) error {
	if req.Adaptive {
		if req.Topic != "" {
			return domain.NewInvalidInputError("topic and adaptive are mutually exclusive")
		}
		return nil
	}
	return v.ValidateTopic(req.Topic)
}

// ValidateSelectAnswerRequest requires an option. Range is checked by the engine.
func (v *Validator) ValidateSelectAnswerRequest(req *dto.SelectAnswerRequest) error {
	if req.Option == nil {
		return domain.NewInvalidInputError("option is required")
	}
	return nil
}
