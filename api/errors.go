package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

const (
	// GenerationFailedMessage is shown for every non-success generation status
	GenerationFailedMessage = "Failed to generate README"
	// ValidationFailedMessage describes a non-success validation status
	ValidationFailedMessage = "Invalid API key"
)

// ErrEmptyReadme is returned when the generation service answers without text
var ErrEmptyReadme = errors.New("generation response contained no readme")

// maxDetailBytes caps how much of an error body is kept for logging
const maxDetailBytes = 4 << 10

// StatusError is a non-success HTTP response from the backend. Its message is
// fixed; Detail keeps what the server said for the logs.
type StatusError struct {
	StatusCode int
	Detail     string
	message    string
}

func (e *StatusError) Error() string {
	return e.message
}

func newStatusError(resp *http.Response, message string) *StatusError {
	se := &StatusError{StatusCode: resp.StatusCode, message: message}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxDetailBytes))
	if err != nil {
		return se
	}

	// FastAPI reports failures as {"detail": "..."}
	var body struct {
		Detail any `json:"detail"`
	}
	if json.Unmarshal(raw, &body) == nil && body.Detail != nil {
		if s, ok := body.Detail.(string); ok {
			se.Detail = s
		} else {
			se.Detail = fmt.Sprint(body.Detail)
		}
		return se
	}

	se.Detail = string(raw)
	return se
}
