package darksky

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrMissingToken is returned when a client is built without an API token.
	ErrMissingToken = errors.New("darksky: missing API token")

	// ErrInvalidCoordinate is returned before any request is made when a
	// latitude or longitude is out of range.
	ErrInvalidCoordinate = errors.New("darksky: invalid coordinate")
)

// APIError is returned when the API responds with a non-2xx status.
type APIError struct {
	StatusCode int    // HTTP status
	Code       *int   // "code" of the error payload, when present
	Message    string // "error" of the error payload, or the raw body
	Body       []byte
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("darksky: API error (status %d)", e.StatusCode)
	}
	return fmt.Sprintf("darksky: API error (status %d): %s", e.StatusCode, e.Message)
}

// newAPIError builds an APIError from a failed response, decoding the
// {"code": 400, "error": "..."} payload when the body carries one.
func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status, Body: body}

	var payload struct {
		Code  *int    `json:"code"`
		Error *string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != nil {
		apiErr.Code = payload.Code
		apiErr.Message = *payload.Error
		return apiErr
	}

	apiErr.Message = string(body)
	return apiErr
}

// DecodeError is returned when a successful response is not a valid forecast.
type DecodeError struct {
	Err  error
	Body []byte
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("darksky: failed to parse response: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
