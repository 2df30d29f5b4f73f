package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/polisai/skillicons/pkg/domain"
	"github.com/polisai/skillicons/pkg/telemetry"
)

func errNothingResolved() error {
	return &domain.UserInputError{
		Code:    domain.CodeNothingResolved,
		Message: msgNothingResolved,
		Err:     domain.ErrNothingResolved,
	}
}

// writeError maps err to a status code and writes an ErrorResponse. User
// input errors become 400 with their message; everything else is logged and
// reported as 500 without internal detail.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	resp := domain.ErrorResponse{
		Code:    domain.CodeInternal,
		Message: http.StatusText(http.StatusInternalServerError),
	}

	var inputErr *domain.UserInputError
	if errors.As(err, &inputErr) {
		status = http.StatusBadRequest
		resp.Code = inputErr.Code
		resp.Message = inputErr.Message
		s.logger.Debug("Rejected request",
			"request_id", RequestIDFromContext(r.Context()),
			"code", inputErr.Code,
			"error", err,
		)
	} else {
		s.logger.Error("Request failed",
			"request_id", RequestIDFromContext(r.Context()),
			"path", r.URL.Path,
			"error", err,
		)
	}
	resp.TraceID = telemetry.TraceID(r.Context())

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Warn("Failed to write error response", "error", err)
	}
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("Failed to write response", "error", err)
	}
}
