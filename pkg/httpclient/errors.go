package httpclient

import (
	"encoding/json"
	"strings"

	apperrors "github.com/chrimztech/unza-counseling-console/pkg/errors"
)

// errorBody covers the error shapes the backend produces: the API envelope
// ({success, message, errors}), the framework default ({error, message,
// status}) and the nested {error: {code, message}} form.
type errorBody struct {
	Message string          `json:"message"`
	Error   json.RawMessage `json:"error"`
	Code    string          `json:"code"`
}

type nestedError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// parseErrorBody translates a non-2xx status and its body into an
// *errors.HTTPError, keeping the backend message when one can be found.
func parseErrorBody(status int, body []byte) *apperrors.HTTPError {
	httpErr := &apperrors.HTTPError{Status: status, Body: body}

	var parsed errorBody
	if len(body) == 0 || json.Unmarshal(body, &parsed) != nil {
		return httpErr
	}

	httpErr.Code = parsed.Code
	httpErr.Message = strings.TrimSpace(parsed.Message)

	if len(parsed.Error) > 0 {
		var nested nestedError
		var plain string
		switch {
		case json.Unmarshal(parsed.Error, &nested) == nil:
			if httpErr.Message == "" {
				httpErr.Message = nested.Message
			}
			if httpErr.Code == "" {
				httpErr.Code = nested.Code
			}
		case json.Unmarshal(parsed.Error, &plain) == nil:
			if httpErr.Message == "" {
				httpErr.Message = plain
			}
		}
	}
	return httpErr
}

// IsClientError returns true if the HTTP status code is a 4xx client error.
func IsClientError(status int) bool {
	return status >= 400 && status < 500
}
