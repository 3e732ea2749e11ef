package handler

import (
	"cquiz/internal/domain"
	"cquiz/internal/dto"
	"cquiz/internal/middleware"
	"cquiz/internal/service"
	"cquiz/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// QuizHandler handles quiz-related HTTP requests
type QuizHandler struct {
	service   service.QuizService
	validator *validation.Validator
}

// NewQuizHandler creates a new QuizHandler instance
func NewQuizHandler(service service.QuizService) *QuizHandler {
	return &QuizHandler{
		service:   service,
		validator: validation.NewValidator(),
	}
}

// RegisterRoutes mounts the quiz endpoints under router.
func (h *QuizHandler) RegisterRoutes(router fiber.Router) {
	vm := middleware.NewValidationMiddleware()

	router.Get("/topics", h.GetTopics)
	router.Get("/topics/:topic/questions", vm.ValidateTopic(), h.GetTopicQuestions)

	router.Get("/quiz", h.GetSession)
	quiz := router.Group("/quiz")
	quiz.Post("/start", h.StartQuiz)
	quiz.Post("/select", h.SelectAnswer)
	quiz.Post("/submit", h.SubmitAnswer)
	quiz.Post("/next", h.NextQuestion)
	quiz.Post("/finish", h.FinishQuiz)

	router.Get("/progress", h.GetProgress)
}

// GetTopics godoc
// @Summary List topics
// @Description Returns every topic of the question bank
// @Tags topics
// @Produce json
// @Success 200 {object} dto.TopicsResponse
// @Router /topics [get]
func (h *QuizHandler) GetTopics(c *fiber.Ctx) error {
	return c.JSON(h.service.GetTopics())
}

// GetTopicQuestions godoc
// @Summary List a topic's questions
// @Description Returns the questions of one topic without their answers
// @Tags topics
// @Produce json
// @Param topic path string true "Topic key"
// @Success 200 {array} dto.QuestionResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /topics/{topic}/questions [get]
func (h *QuizHandler) GetTopicQuestions(c *fiber.Ctx) error {
	topic, _ := c.Locals(middleware.ValidatedTopicKey).(string)
	if topic == "" {
		topic = c.Params("topic")
	}

	questions, err := h.service.GetTopicQuestions(topic)
	if err != nil {
		return err
	}
	return c.JSON(questions)
}

// StartQuiz godoc
// @Summary Start a quiz
// @Description Starts a quiz on a topic, or an adaptive quiz built from the student's progress
// @Tags quiz
// @Accept json
// @Produce json
// @Param request body dto.StartQuizRequest true "Topic or adaptive"
// @Success 201 {object} dto.SessionResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /quiz/start [post]
func (h *QuizHandler) StartQuiz(c *fiber.Ctx) error {
	var req dto.StartQuizRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("Invalid request body")
	}
	if err := h.validator.ValidateStartQuizRequest(&req); err != nil {
		return err
	}

	sess, err := h.service.StartQuiz(c.UserContext(), &req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(sess)
}

// SelectAnswer godoc
// @Summary Select an option
// @Tags quiz
// @Accept json
// @Produce json
// @Param request body dto.SelectAnswerRequest true "Option index"
// @Success 200 {object} dto.SessionResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Router /quiz/select [post]
func (h *QuizHandler) SelectAnswer(c *fiber.Ctx) error {
	var req dto.SelectAnswerRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("Invalid request body")
	}
	if err := h.validator.ValidateSelectAnswerRequest(&req); err != nil {
		return err
	}

	sess, err := h.service.SelectAnswer(&req)
	if err != nil {
		return err
	}
	return c.JSON(sess)
}

// SubmitAnswer godoc
// @Summary Submit the selected option
// @Tags quiz
// @Produce json
// @Success 200 {object} dto.AnswerResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Router /quiz/submit [post]
func (h *QuizHandler) SubmitAnswer(c *fiber.Ctx) error {
	answer, err := h.service.SubmitAnswer(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(answer)
}

// NextQuestion godoc
// @Summary Move to the next question
// @Tags quiz
// @Produce json
// @Success 200 {object} dto.NextQuestionResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Router /quiz/next [post]
func (h *QuizHandler) NextQuestion(c *fiber.Ctx) error {
	next, err := h.service.NextQuestion(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(next)
}

// FinishQuiz godoc
// @Summary Finish the quiz
// @Tags quiz
// @Produce json
// @Success 200 {object} dto.SummaryResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Router /quiz/finish [post]
func (h *QuizHandler) FinishQuiz(c *fiber.Ctx) error {
	summary, err := h.service.FinishQuiz(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(summary)
}

// GetSession godoc
// @Summary Current quiz session
// @Tags quiz
// @Produce json
// @Success 200 {object} dto.SessionResponse
// @Router /quiz [get]
func (h *QuizHandler) GetSession(c *fiber.Ctx) error {
	return c.JSON(h.service.GetSession())
}

// GetProgress godoc
// @Summary Student progress
// @Tags progress
// @Produce json
// @Success 200 {object} dto.ProgressResponse
// @Router /progress [get]
func (h *QuizHandler) GetProgress(c *fiber.Ctx) error {
	return c.JSON(h.service.GetProgress())
}
