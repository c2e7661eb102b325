package handler

import (
	"io"

	"pdf-study-agent/internal/domain"
	"pdf-study-agent/internal/dto"
	"pdf-study-agent/internal/logger"
	"pdf-study-agent/internal/middleware"
	"pdf-study-agent/internal/service"
	"pdf-study-agent/internal/validation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// SessionHandler handles study session HTTP requests
type SessionHandler struct {
	service        service.StudyService
	tokens         service.TokenService
	validator      *validation.Validator
	maxUploadBytes int
}

// NewSessionHandler creates a new SessionHandler instance
func NewSessionHandler(studyService service.StudyService, tokens service.TokenService, maxUploadBytes int) *SessionHandler {
	return &SessionHandler{
		service:        studyService,
		tokens:         tokens,
		validator:      validation.NewValidator(),
		maxUploadBytes: maxUploadBytes,
	}
}

// CreateSession godoc
// @Summary Start a study session
// @Description Creates an idle session and returns the bearer token that addresses it
// @Tags session
// @Produce json
// @Success 201 {object} dto.CreateSessionResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Router /sessions [post]
func (h *SessionHandler) CreateSession(c *fiber.Ctx) error {
	state, err := h.service.StartSession(c.Context())
	if err != nil {
		return err
	}
	token, err := h.tokens.Issue(state.ID)
	if err != nil {
		logger.Get().Error("Failed to issue session token", zap.String("session_id", state.ID), zap.Error(err))
		return domain.NewInternalError("Failed to issue session token", err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.CreateSessionResponse{
		SessionID: state.ID,
		Token:     token,
		State:     dto.NewSessionResponse(state),
	})
}

// GetSession godoc
// @Summary Get the current session
// @Description Returns the session state: summary, quiz and results as far as the workflow has progressed
// @Tags session
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.SessionResponse
// @Failure 401 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /session [get]
func (h *SessionHandler) GetSession(c *fiber.Ctx) error {
	state, err := h.service.GetSession(c.Context(), middleware.SessionID(c))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewSessionResponse(state))
}

// UploadDocument godoc
// @Summary Upload a document
// @Description Resets the session, extracts the document text and summarizes it
// @Tags session
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "PDF, text or markdown document"
// @Success 200 {object} dto.SessionResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 422 {object} middleware.ErrorResponse
// @Failure 502 {object} middleware.ErrorResponse
// @Failure 503 {object} middleware.ErrorResponse
// @Router /session/document [post]
func (h *SessionHandler) UploadDocument(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return domain.ValidationErrors{domain.NewMissingFieldError("file")}
	}
	if errs := h.validator.ValidateUpload(fileHeader.Filename, fileHeader.Size, h.maxUploadBytes); len(errs) > 0 {
		return errs
	}

	file, err := fileHeader.Open()
	if err != nil {
		return domain.NewInternalError("Failed to open uploaded file", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return domain.NewInternalError("Failed to read uploaded file", err)
	}

	state, err := h.service.UploadDocument(c.Context(), middleware.SessionID(c), fileHeader.Filename, data)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewSessionResponse(state))
}

// RegenerateSummary godoc
// @Summary Regenerate the summary
// @Description Asks the model for a new summary of the uploaded document; any quiz is dropped
// @Tags session
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.SessionResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Failure 502 {object} middleware.ErrorResponse
// @Router /session/summary [post]
func (h *SessionHandler) RegenerateSummary(c *fiber.Ctx) error {
	state, err := h.service.RegenerateSummary(c.Context(), middleware.SessionID(c))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewSessionResponse(state))
}

// GenerateQuiz godoc
// @Summary Generate a quiz
// @Description Generates a fresh quiz of at least 15 questions from the uploaded document
// @Tags session
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.SessionResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Failure 502 {object} middleware.ErrorResponse
// @Router /session/quiz [post]
func (h *SessionHandler) GenerateQuiz(c *fiber.Ctx) error {
	state, err := h.service.GenerateQuiz(c.Context(), middleware.SessionID(c))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewSessionResponse(state))
}

// SubmitAnswers godoc
// @Summary Submit quiz answers
// @Description Freezes the answers and scores them. Unanswered questions count as "Not Answered".
// @Tags session
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param answers body dto.SubmitAnswersRequest true "Answers keyed by question number"
// @Success 200 {object} dto.ResultResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Router /session/answers [post]
func (h *SessionHandler) SubmitAnswers(c *fiber.Ctx) error {
	var req dto.SubmitAnswersRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("Invalid request body")
	}

	selections, errs := h.validator.ValidateSubmitAnswers(req.Answers)
	if len(errs) > 0 {
		return errs
	}

	state, err := h.service.SubmitAnswers(c.Context(), middleware.SessionID(c), selections)
	if err != nil {
		return err
	}
	if state.Result == nil {
		return domain.NewInternalError("Submitted session has no result", nil)
	}
	return c.JSON(dto.NewResultResponse(*state.Result))
}

// GetResults godoc
// @Summary Get quiz results
// @Description Returns the score and per-question feedback of a scored session
// @Tags session
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.ResultResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Router /session/results [get]
func (h *SessionHandler) GetResults(c *fiber.Ctx) error {
	result, err := h.service.Results(c.Context(), middleware.SessionID(c))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewResultResponse(*result))
}

// ResetSession godoc
// @Summary Reset the session
// @Description Clears the document, summary, quiz and answers
// @Tags session
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.SessionResponse
// @Router /session/reset [post]
func (h *SessionHandler) ResetSession(c *fiber.Ctx) error {
	state, err := h.service.Reset(c.Context(), middleware.SessionID(c))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewSessionResponse(state))
}

// EndSession godoc
// @Summary End the session
// @Description Deletes the session. The token stops working afterwards.
// @Tags session
// @Security BearerAuth
// @Success 204
// @Failure 404 {object} middleware.ErrorResponse
// @Router /session [delete]
func (h *SessionHandler) EndSession(c *fiber.Ctx) error {
	if err := h.service.EndSession(c.Context(), middleware.SessionID(c)); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
