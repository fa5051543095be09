package response

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/shinonomekazan/akashic-game-drive/internal/apperror"
)

// Meta holds the outcome of every API response.
type Meta struct {
	Status    int    `json:"status"`
	ErrorCode string `json:"errorCode,omitempty"`
	Message   string `json:"message,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

// Envelope is the standard API response wrapper.
type Envelope struct {
	Meta Meta `json:"meta"`
	Data any  `json:"data,omitempty"`
}

// JSON writes a JSON response with the given status code and envelope.
func JSON(w http.ResponseWriter, status int, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// Success writes a successful JSON response.
func Success(w http.ResponseWriter, status int, data any, requestID string) {
	JSON(w, status, Envelope{
		Meta: Meta{Status: status, RequestID: requestID},
		Data: data,
	})
}

// Err writes an error JSON response.
func Err(w http.ResponseWriter, status int, code string, message string, requestID string) {
	JSON(w, status, Envelope{
		Meta: Meta{
			Status:    status,
			ErrorCode: code,
			Message:   message,
			RequestID: requestID,
		},
	})
}

// ErrWithData writes an error JSON response with additional data for the client.
func ErrWithData(w http.ResponseWriter, status int, code string, message string, data any, requestID string) {
	JSON(w, status, Envelope{
		Meta: Meta{
			Status:    status,
			ErrorCode: code,
			Message:   message,
			RequestID: requestID,
		},
		Data: data,
	})
}

// Error renders err. Domain failures carry their own status, code, message
// and data; anything else is logged and rendered as a generic 500.
func Error(w http.ResponseWriter, r *http.Request, err error, requestID string) {
	appErr, ok := apperror.As(err)
	if !ok || appErr.Kind == apperror.KindInternal {
		slog.Error("untrapped error",
			"error", err,
			"requestId", requestID,
			"method", r.Method,
			"path", r.URL.Path,
		)
		internal := apperror.Internal("")
		Err(w, internal.Status(), internal.Code(), internal.Message, requestID)
		return
	}

	if appErr.Data != nil {
		ErrWithData(w, appErr.Status(), appErr.Code(), appErr.Message, appErr.Data, requestID)
		return
	}
	Err(w, appErr.Status(), appErr.Code(), appErr.Message, requestID)
}
