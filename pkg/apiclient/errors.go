package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// RequestFailure is a non-2xx answer from the API, or a transport failure
// (reported as 502).
type RequestFailure struct {
	Status  int
	Message string
	Err     error
}

func (e *RequestFailure) Error() string {
	return fmt.Sprintf("request failed (%d): %s", e.Status, e.Message)
}

func (e *RequestFailure) Unwrap() error {
	return e.Err
}

// IsStatus reports whether err is a RequestFailure with the given status.
func IsStatus(err error, status int) bool {
	var rf *RequestFailure
	return errors.As(err, &rf) && rf.Status == status
}

// StatusOf returns the status carried by err, or 0.
func StatusOf(err error) int {
	var rf *RequestFailure
	if errors.As(err, &rf) {
		return rf.Status
	}
	return 0
}

func newRequestFailure(status int, body []byte, fallback string) *RequestFailure {
	var payload struct {
		Message string `json:"message"`
		Error   any    `json:"error"`
	}
	msg := fallback
	if err := json.Unmarshal(body, &payload); err == nil {
		switch {
		case strings.TrimSpace(payload.Message) != "":
			msg = payload.Message
		case payload.Error != nil:
			if s, ok := payload.Error.(string); ok && strings.TrimSpace(s) != "" {
				msg = s
			}
		}
	}
	return &RequestFailure{Status: status, Message: msg}
}
