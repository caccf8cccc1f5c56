package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/abhisek/codetrainer/internal/llm"
	"github.com/abhisek/codetrainer/internal/questiongen"
	"github.com/abhisek/codetrainer/internal/quiz"
)

// questionBody accepts the browser client's numQuestions alongside
// totalQuestions.
type questionBody struct {
	questiongen.Request
	NumQuestions int `json:"numQuestions"`
}

func (s *Server) handleQuestion(c *fiber.Ctx) error {
	switch c.Method() {
	case fiber.MethodOptions:
		return c.SendStatus(fiber.StatusOK)
	case fiber.MethodPost:
	default:
		return fail(c, fiber.StatusMethodNotAllowed, "Method not allowed", "")
	}

	if s.gen == nil {
		return fail(c, fiber.StatusInternalServerError, "LLM provider not configured", "")
	}

	var body questionBody
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body", err.Error())
	}
	req := body.Request
	if req.TotalQuestions == 0 {
		req.TotalQuestions = body.NumQuestions
	}
	if req.Topic == "" || req.Difficulty == "" || req.TotalQuestions <= 0 {
		return fail(c, fiber.StatusBadRequest, "Missing required parameters: topic, difficulty, totalQuestions", "")
	}
	if d, err := quiz.ParseDifficulty(string(req.Difficulty)); err == nil {
		req.Difficulty = d
	}
	if req.QuestionIndex < 0 || req.QuestionIndex >= req.TotalQuestions {
		return fail(c, fiber.StatusBadRequest,
			fmt.Sprintf("questionIndex must be between 0 and %d", req.TotalQuestions-1), "")
	}

	q, err := s.gen.Generate(c.UserContext(), req)
	if err != nil {
		status, msg := classify(err)
		s.log.Warn("question generation failed",
			zap.String("topic", req.Topic),
			zap.Int("question_index", req.QuestionIndex),
			zap.Int("status", status),
			zap.Error(err))
		return fail(c, status, msg, err.Error())
	}
	return c.JSON(questiongen.Reply{Question: q})
}

// classify picks the status and headline for a generation failure.
func classify(err error) (int, string) {
	status := llm.HTTPStatus(err)
	if status != http.StatusInternalServerError {
		return status, fmt.Sprintf("LLM API error: %d", status)
	}

	var (
		verr    *questiongen.ValidationError
		invalid *llm.ErrInvalidResponse
		trunc   *llm.ErrMaxTokensExceeded
	)
	if errors.As(err, &verr) || errors.As(err, &invalid) || errors.As(err, &trunc) {
		return status, "Failed to parse question from LLM response"
	}
	return status, "Internal server error"
}

func fail(c *fiber.Ctx, status int, msg, details string) error {
	return c.Status(status).JSON(questiongen.ErrorReply{Error: msg, Details: details})
}

// handleError renders errors that escape handlers (unknown routes, panics
// turned into errors by recover) in the same JSON shape.
func (s *Server) handleError(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := "Internal server error"
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		msg = fe.Message
	}
	if code >= fiber.StatusInternalServerError {
		s.log.Error("request failed", zap.String("path", c.Path()), zap.Error(err))
	}
	return fail(c, code, msg, "")
}
