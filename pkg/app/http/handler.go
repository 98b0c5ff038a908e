// Package http provides chi-compatible handler helpers shared by the HTTP
// surfaces of the transfer watcher.
package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	apperrors "github.com/chainsafe/near-eth-transfer/pkg/app/errors"
)

const unexpectedError = "Unexpected Service Error"

// HandlerFunc is an http handler that reports failures by returning them.
type HandlerFunc func(http.ResponseWriter, *http.Request) error

type errorResponse struct {
	Message string `json:"error"`
	Code    int    `json:"code"`
}

// HandleError adapts h to an http.HandlerFunc. Returned errors are rendered
// as a JSON error body; server side failures are also logged.
//
//	r.Post("/transfers", http.HandleError(logger, h.initiate))
func HandleError(logger *zap.Logger, h HandlerFunc) http.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(w http.ResponseWriter, r *http.Request) {
		err := h(w, r)
		if err == nil {
			return
		}
		status := WriteError(w, err)
		if status >= http.StatusInternalServerError {
			logger.Error("Request failed",
				zap.String("request_id", middleware.GetReqID(r.Context())),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", status),
				zap.Error(err))
		}
	}
}

// WriteError renders err and returns the status code that was written.
// Errors that are not ServiceErrors are reported as a generic 500.
func WriteError(w http.ResponseWriter, err error) int {
	resp := errorResponse{Message: unexpectedError, Code: http.StatusInternalServerError}

	var svcErr *apperrors.ServiceError
	if errors.As(err, &svcErr) {
		resp = errorResponse{Message: svcErr.Message, Code: svcErr.StatusCode()}
	}

	_ = WriteJSON(w, resp.Code, &resp)
	return resp.Code
}

// WriteJSON writes data as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}
