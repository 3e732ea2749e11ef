package middleware

import (
	"cquiz/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// ValidatedTopicKey is the fiber.Locals key holding a validated topic.
const ValidatedTopicKey = "validated_topic"

// ValidationMiddleware provides request validation middleware
type ValidationMiddleware struct {
	validator *validation.Validator
}

// NewValidationMiddleware creates a new validation middleware instance
func NewValidationMiddleware() *ValidationMiddleware {
	return &ValidationMiddleware{
		validator: validation.NewValidator(),
	}
}

// ValidateTopic validates the :topic path parameter
func (vm *ValidationMiddleware) ValidateTopic() fiber.Handler {
	return func(c *fiber.Ctx) error {
		topic := c.Params("topic")
		if err := vm.validator.ValidateTopic(topic); err != nil {
			return err // This will be handled by ErrorHandler middleware
		}

		c.Locals(ValidatedTopicKey, topic)
		return c.Next()
	}
}
