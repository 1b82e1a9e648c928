package api

import (
	"context"
	stderrors "errors"
	"net/http"

	"github.com/vytor/karrito/internal/errors"
	"github.com/vytor/karrito/internal/logger"
)

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Op      string `json:"op,omitempty"`
	Message string `json:"message"`
}

// handleError centralizes error handling for HTTP responses
func handleError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContext(r.Context())

	appErr, ok := errors.As(err)
	if !ok {
		if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
			appErr = &errors.AppError{Code: "UNAVAILABLE", Message: "request abandoned before completion", Status: http.StatusServiceUnavailable, Err: err}
		} else {
			appErr = errors.NewStorageError("internal error", err)
		}
	}

	if appErr.Status >= 500 {
		log.Error("server error: %v", appErr)
	} else {
		log.Warn("client error: %v", appErr)
	}

	writeJSON(w, r, appErr.Status, errorBody{Error: errorDetail{
		Code:    appErr.Code,
		Op:      appErr.Op,
		Message: appErr.Message,
	}})
}
