package tutor

import (
	"encoding/json"
	"fmt"
)

// StatusError indicates the backend answered with a non-2xx status.
// Body is the raw response body, echoed back to callers that need it.
type StatusError struct {
	Code    int
	Message string
	Body    []byte
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend returned %d: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("backend returned %d", e.Code)
}

// UnavailableError indicates the backend could not be reached.
type UnavailableError struct {
	Op  string
	Err error
}

func (e *UnavailableError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("tutor backend unavailable (%s)", e.Op)
	}
	return fmt.Sprintf("tutor backend unavailable (%s): %v", e.Op, e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }

// InvalidResponseError indicates the backend returned a payload that does
// not match the expected shape or carries out-of-range values.
type InvalidResponseError struct {
	Op      string
	Content json.RawMessage
	Err     error
}

func (e *InvalidResponseError) Error() string {
	return fmt.Sprintf("invalid %s response: %v", e.Op, e.Err)
}

func (e *InvalidResponseError) Unwrap() error { return e.Err }

// errorMessage extracts a human-readable message from an error body. The
// backend uses "error", "detail" or "message" depending on the route.
func errorMessage(body []byte) string {
	var fields struct {
		Error   string `json:"error"`
		Detail  any    `json:"detail"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &fields); err != nil {
		return ""
	}
	switch {
	case fields.Error != "":
		return fields.Error
	case fields.Message != "":
		return fields.Message
	}
	if s, ok := fields.Detail.(string); ok {
		return s
	}
	return ""
}
