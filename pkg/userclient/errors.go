package userclient

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"user-directory-api/pkg/userschema"
)

const FallbackMessage = "Something went wrong, please try again"

// APIError is a failed call: either a transport failure (StatusCode 0) or a
// non-2xx response decoded from the server's error envelope.
type APIError struct {
	StatusCode int
	Status     string                  `json:"status"`
	Message    string                  `json:"message"`
	Code       string                  `json:"code"`
	Errors     []userschema.FieldError `json:"errors"`

	cause error
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.StatusCode != 0 {
		return http.StatusText(e.StatusCode)
	}
	return FallbackMessage
}

func (e *APIError) Unwrap() error { return e.cause }

func (e *APIError) IsConflict() bool { return e.StatusCode == http.StatusConflict }

func (e *APIError) IsNotFound() bool { return e.StatusCode == http.StatusNotFound }

// Message is the text to notify a user with: the server's message when it
// sent one, the first local validation message, or fallback.
func Message(err error, fallback string) string {
	if fallback == "" {
		fallback = FallbackMessage
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	var ve userschema.ValidationErrors
	if errors.As(err, &ve) && len(ve) > 0 {
		return ve[0].Message
	}
	return fallback
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err == nil && len(raw) > 0 {
		_ = json.Unmarshal(raw, apiErr)
	}

	return apiErr
}
