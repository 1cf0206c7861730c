package udlai

import (
	"encoding/json"
	"fmt"
	"strings"
)

// APIError is returned when the API responds with a non-2xx status.
// When the body carried the structured error/details/status payload,
// Code, Details and Status hold it; otherwise Body holds the raw
// response text.
type APIError struct {
	Code       string // server-reported error code
	Details    any    // server-reported details, a string or a list
	Status     int    // server-reported status from the body
	HTTPStatus int
	Body       string // raw body when the payload was not structured
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return e.Body
	}
	return fmt.Sprintf("%s: %s [status %d]", e.Code, detailString(e.Details), e.Status)
}

// detailString renders details for the error message; list-valued
// details are joined rather than printed in slice syntax.
func detailString(details any) string {
	if list, ok := details.([]any); ok {
		parts := make([]string, len(list))
		for i, item := range list {
			parts[i] = fmt.Sprint(item)
		}
		return strings.Join(parts, ", ")
	}
	return fmt.Sprint(details)
}

// translateError turns a failed response body into an *APIError. A body
// that does not decode as the structured error payload falls back to
// the raw text.
func translateError(httpStatus int, body []byte) error {
	var payload struct {
		Error   string `json:"error"`
		Details any    `json:"details"`
		Status  int    `json:"status"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || payload.Error == "" {
		return &APIError{HTTPStatus: httpStatus, Body: string(body)}
	}

	return &APIError{
		Code:       payload.Error,
		Details:    payload.Details,
		Status:     payload.Status,
		HTTPStatus: httpStatus,
	}
}
