package httputil

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	apperrors "github.com/chrimztech/unza-counseling-console/pkg/errors"
	"github.com/chrimztech/unza-counseling-console/pkg/logger"
)

// Response is the JSON envelope returned by every console endpoint.
type Response struct {
	Data  any            `json:"data,omitempty"`
	Error *ErrorResponse `json:"error,omitempty"`
}

// ErrorResponse represents an error in the standard response format.
type ErrorResponse struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Headers are already sent; nothing meaningful can be done if encoding fails.
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError translates err into the error envelope. Backend statuses are
// passed through, a missing backend response becomes 502, and local
// validation failures carry their field map. It prefers the request-scoped
// logger from context over fallback.
func WriteError(w http.ResponseWriter, r *http.Request, err error, fallback *slog.Logger) {
	l := logger.FromContext(r.Context())
	if l == slog.Default() && fallback != nil {
		l = fallback
	}
	requestID := logger.CorrelationIDFromContext(r.Context())

	var (
		validationErr *apperrors.ValidationError
		appErr        *apperrors.AppError
		httpErr       *apperrors.HTTPError
	)
	switch {
	case errors.As(err, &validationErr):
		WriteJSON(w, http.StatusBadRequest, Response{Error: &ErrorResponse{
			Code:      "VALIDATION_ERROR",
			Message:   validationErr.Message,
			Fields:    validationErr.Fields,
			RequestID: requestID,
		}})
		return
	case errors.As(err, &appErr):
		if appErr.Status >= http.StatusInternalServerError {
			logInternal(l, r, err)
		}
		WriteJSON(w, appErr.Status, Response{Error: &ErrorResponse{
			Code: appErr.Code, Message: appErr.Message, RequestID: requestID,
		}})
		return
	case errors.As(err, &httpErr):
		code := httpErr.Code
		if code == "" {
			code = "BACKEND_" + strconv.Itoa(httpErr.Status)
		}
		WriteJSON(w, httpErr.Status, Response{Error: &ErrorResponse{
			Code:      code,
			Message:   apperrors.UserMessage(httpErr, http.StatusText(httpErr.Status)),
			RequestID: requestID,
		}})
		return
	case errors.Is(err, apperrors.ErrNetwork):
		l.WarnContext(r.Context(), "backend unreachable",
			slog.String("error", err.Error()),
			slog.String("path", r.URL.Path),
		)
		WriteJSON(w, http.StatusBadGateway, Response{Error: &ErrorResponse{
			Code: "BACKEND_UNREACHABLE", Message: "the backend could not be reached", RequestID: requestID,
		}})
		return
	}

	status := apperrors.HTTPStatus(err)
	code := "INTERNAL_ERROR"
	message := "an internal error occurred"
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		code, message = "NOT_FOUND", "resource not found"
	case errors.Is(err, apperrors.ErrInvalidInput):
		code, message = "INVALID_INPUT", err.Error()
	case errors.Is(err, apperrors.ErrUnauthorized):
		code, message = "UNAUTHORIZED", "not signed in"
	}

	if status == http.StatusInternalServerError {
		logInternal(l, r, err)
	}
	WriteJSON(w, status, Response{
		Error: &ErrorResponse{Code: code, Message: message, RequestID: requestID},
	})
}

func logInternal(l *slog.Logger, r *http.Request, err error) {
	l.ErrorContext(r.Context(), "internal error",
		slog.String("error", err.Error()),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
	)
}

// ParseInt64 parses a numeric path parameter. On failure it writes 400
// INVALID_PARAMETER and returns false, signaling the caller to return early.
func ParseInt64(w http.ResponseWriter, name, param string) (int64, bool) {
	id, err := strconv.ParseInt(param, 10, 64)
	if err != nil || id <= 0 {
		WriteJSON(w, http.StatusBadRequest, Response{
			Error: &ErrorResponse{
				Code:    "INVALID_PARAMETER",
				Message: "invalid " + name + ": " + param,
			},
		})
		return 0, false
	}
	return id, true
}
