package serverutils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"ai-agrichat-be/internal/constant"
	"ai-agrichat-be/internal/service"
	"ai-agrichat-be/pkg/chat"
	"ai-agrichat-be/pkg/llm"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newErrorApp(handlerErr error) *fiber.App {
	app := fiber.New()
	app.Use(ErrorHandlerMiddleware())
	app.Get("/boom", func(ctx *fiber.Ctx) error {
		return handlerErr
	})
	return app
}

func requestBody(t *testing.T, app *fiber.App) (int, string, string) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest("GET", "/boom", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var envelope struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(raw, &envelope))
	assert.False(t, envelope.Success)
	return resp.StatusCode, envelope.Message, string(raw)
}

func TestErrorHandlerHidesTurnFailureDetail(t *testing.T) {
	internal := fmt.Errorf("%w: %v", chat.ErrTurnFailed, errors.New("router exploded: dial tcp refused"))
	app := newErrorApp(internal)

	code, message, raw := requestBody(t, app)
	assert.Equal(t, fiber.StatusBadGateway, code)
	assert.Equal(t, constant.TurnFailureReply, message)
	assert.NotContains(t, raw, "router exploded")
	assert.NotContains(t, raw, "dial tcp")
}

func TestErrorHandlerStatusMapping(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		code    int
		message string
	}{
		{"rate limited", fmt.Errorf("gateway: %w", llm.ErrRateLimited), fiber.StatusTooManyRequests, constant.RateLimitedReply},
		{"session not found", service.ErrSessionNotFound, fiber.StatusNotFound, constant.SessionNotFoundReply},
		{"session terminated", chat.ErrSessionTerminated, fiber.StatusConflict, constant.SessionTerminatedReply},
		{"session busy", chat.ErrSessionBusy, fiber.StatusConflict, constant.SessionBusyReply},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := newErrorApp(tc.err)
			code, message, _ := requestBody(t, app)
			assert.Equal(t, tc.code, code)
			assert.Equal(t, tc.message, message)
		})
	}
}

func TestErrorHandlerGenericErrorsStaySafe(t *testing.T) {
	app := newErrorApp(errors.New("pq: connection reset by peer"))

	code, message, raw := requestBody(t, app)
	assert.Equal(t, fiber.StatusInternalServerError, code)
	assert.Equal(t, constant.InternalErrorReply, message)
	assert.NotContains(t, raw, "pq:")
}

func TestErrorHandlerKeepsFiberErrorMessage(t *testing.T) {
	app := newErrorApp(fiber.NewError(fiber.StatusBadRequest, "Invalid session id"))

	code, message, _ := requestBody(t, app)
	assert.Equal(t, fiber.StatusBadRequest, code)
	assert.Equal(t, "Invalid session id", message)
}
