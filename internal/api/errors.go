package api

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	// maxErrorBody caps how much of a failed response body is kept on HTTPError.
	maxErrorBody = 64 << 10
	// maxErrorText caps the body excerpt in Error(), in bytes.
	maxErrorText = 200
)

// HTTPError is returned for any non-2xx response. There is no separate
// not-found type; callers branch on StatusCode.
type HTTPError struct {
	StatusCode int
	Method     string
	URL        string
	Body       []byte
}

func (e *HTTPError) Error() string {
	msg := fmt.Sprintf("%s %s: http %d", e.Method, e.URL, e.StatusCode)
	if body := strings.TrimSpace(string(e.Body)); body != "" {
		msg += ": " + truncate(body, maxErrorText)
	}
	return msg
}

// StatusCode returns the HTTP status carried by err, or 0 if err is not an HTTPError.
func StatusCode(err error) int {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode
	}
	return 0
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
