package backend

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrUnavailable      = errors.New("backend unavailable")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrNotFound         = errors.New("not found")
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrSessionMissing   = errors.New("session missing")
	ErrTagsNotSaved     = errors.New("tags were not saved")
)

// APIError is a rejection reported by the backend.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s (status %d, %s)", e.Message, e.Status, e.Code)
	}
	return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
}

func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	}
	return false
}

// IsRejection reports whether err was asserted by the backend itself, as
// opposed to a transport or local failure.
func IsRejection(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) || errors.Is(err, ErrSessionMissing)
}

// errorBody covers both GoTrue and PostgREST error payloads.
type errorBody struct {
	Code             json.RawMessage `json:"code"`
	ErrorCode        string          `json:"error_code"`
	Msg              string          `json:"msg"`
	Message          string          `json:"message"`
	Error            string          `json:"error"`
	ErrorDescription string          `json:"error_description"`
}

func decodeAPIError(status int, body []byte) *APIError {
	e := &APIError{Status: status}

	var b errorBody
	if err := json.Unmarshal(body, &b); err != nil {
		e.Message = strings.TrimSpace(string(body))
		if e.Message == "" {
			e.Message = http.StatusText(status)
		}
		return e
	}

	e.Message = firstNonEmpty(b.Msg, b.Message, b.ErrorDescription, b.Error, http.StatusText(status))
	e.Code = firstNonEmpty(b.ErrorCode, stringCode(b.Code), b.Error)
	if e.Code == e.Message {
		e.Code = ""
	}
	return e
}

// stringCode keeps PostgREST's string codes and drops GoTrue's numeric
// ones, which only repeat the status.
func stringCode(raw json.RawMessage) string {
	var code string
	if err := json.Unmarshal(raw, &code); err != nil {
		return ""
	}
	return code
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
