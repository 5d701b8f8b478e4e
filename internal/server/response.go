package server

import (
	"context"
	"errors"

	"github.com/goccy/go-json"
	"github.com/rpgo/financial-freedom/internal/calculation"
	"github.com/rpgo/financial-freedom/internal/domain"
	"github.com/valyala/fasthttp"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// SessionResponse is returned when a session is opened.
type SessionResponse struct {
	SessionID string `json:"session_id"`
}

func writeJSON(ctx *fasthttp.RequestCtx, status int, v interface{}) {
	body, err := json.Marshal(v)
	if err != nil {
		writeError(ctx, fasthttp.StatusInternalServerError, "failed to encode response: "+err.Error())
		return
	}
	ctx.SetContentType("application/json")
	ctx.SetStatusCode(status)
	ctx.SetBody(body)
}

func writeError(ctx *fasthttp.RequestCtx, status int, message string) {
	body, _ := json.Marshal(ErrorResponse{Status: status, Message: message})
	ctx.SetContentType("application/json")
	ctx.SetStatusCode(status)
	ctx.SetBody(body)
}

// statusFor maps engine and session errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidParameter):
		return fasthttp.StatusBadRequest
	case errors.Is(err, domain.ErrUnseededOverlay), errors.Is(err, calculation.ErrBaselineChanged):
		return fasthttp.StatusConflict
	case errors.Is(err, errSessionNotFound):
		return fasthttp.StatusNotFound
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return fasthttp.StatusServiceUnavailable
	default:
		return fasthttp.StatusInternalServerError
	}
}

func writeErr(ctx *fasthttp.RequestCtx, err error) {
	writeError(ctx, statusFor(err), err.Error())
}

// outcome labels a projection result for metrics.
func outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, domain.ErrInvalidParameter), errors.Is(err, domain.ErrUnseededOverlay):
		return "invalid"
	default:
		return "error"
	}
}
