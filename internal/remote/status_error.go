package remote

import (
	"fmt"
	"strings"
)

// StatusError is a summary of an inference API response with a status
// outside the accepted [100, 300) range.
type StatusError struct {
	Op         string
	StatusCode int

	// Snippet is a short, single-line hint from the response body.
	Snippet string
}

func (e *StatusError) Error() string {
	if e == nil {
		return "api status error"
	}
	msg := fmt.Sprintf("api error: op=%s status=%d", strings.TrimSpace(e.Op), e.StatusCode)
	if e.Snippet != "" {
		msg += " body=" + e.Snippet
	}
	return msg
}

func newStatusError(op string, statusCode int, body []byte) error {
	return &StatusError{
		Op:         op,
		StatusCode: statusCode,
		Snippet:    truncate(body),
	}
}

func truncate(body []byte) string {
	const max = 256
	b := body
	if len(b) > max {
		b = b[:max]
	}
	s := strings.ReplaceAll(string(b), "\n", " ")
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.TrimSpace(s)
	if s != "" && len(body) > max {
		s += "..."
	}
	return s
}
