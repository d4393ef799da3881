package genai

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptyResponse is returned when the model produced no usable content.
	ErrEmptyResponse = errors.New("model returned no content")

	// ErrMalformedResponse is returned when the model content does not parse
	// as the requested shape. Not retried.
	ErrMalformedResponse = errors.New("model response does not match the expected shape")

	// ErrEmptyAnalysis is returned when a document analysis yields no text.
	ErrEmptyAnalysis = errors.New("analysis returned no text")

	// ErrHighTraffic is surfaced after the retry budget is exhausted on
	// rate-limit failures, so the client can show a "try again later"
	// message instead of a generic error.
	ErrHighTraffic = errors.New("the service is experiencing high traffic, please try again in a moment")
)

// APIError is a non-200 answer from the Gemini API.
type APIError struct {
	StatusCode int
	Status     string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("gemini api error: status %d (%s): %s", e.StatusCode, e.Status, e.Message)
}

// Transient reports whether this failure carries the rate-limit signature
// and is therefore safe to retry.
func (e *APIError) Transient() bool {
	if e.StatusCode == 429 || e.StatusCode == 503 {
		return true
	}
	if strings.Contains(e.Message, "RESOURCE_EXHAUSTED") {
		return true
	}
	return strings.Contains(strings.ToLower(e.Message), "quota")
}
