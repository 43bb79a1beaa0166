package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestHTTPErrorMessage(t *testing.T) {
	t.Run("ShortBody", func(t *testing.T) {
		err := &HTTPError{StatusCode: http.StatusBadRequest, Method: "POST", URL: "http://x/api/reservations/", Body: []byte(` {"detail":"Horário inválido"} `)}
		assert.Equal(t, `POST http://x/api/reservations/: http 400: {"detail":"Horário inválido"}`, err.Error())
	})

	t.Run("LongBodyCutOnRuneBoundary", func(t *testing.T) {
		body := "a" + strings.Repeat("ã", 150)
		err := &HTTPError{StatusCode: http.StatusConflict, Method: "POST", URL: "u", Body: []byte(body)}

		msg := err.Error()
		assert.True(t, utf8.ValidString(msg))
		assert.True(t, strings.HasSuffix(msg, "..."))
		assert.LessOrEqual(t, len(strings.TrimPrefix(msg, "POST u: http 409: ")), maxErrorText+len("..."))
	})

	t.Run("EmptyBody", func(t *testing.T) {
		err := &HTTPError{StatusCode: http.StatusGatewayTimeout, Method: "DELETE", URL: "u"}
		assert.Equal(t, "DELETE u: http 504", err.Error())
	})
}

func TestStatusCode(t *testing.T) {
	wrapped := fmt.Errorf("get room: %w", &HTTPError{StatusCode: http.StatusNotFound})
	assert.Equal(t, http.StatusNotFound, StatusCode(wrapped))
	assert.Equal(t, 0, StatusCode(errors.New("dial tcp: refused")))
	assert.Equal(t, 0, StatusCode(nil))
}
