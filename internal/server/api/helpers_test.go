package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dmitrijs2005/chirp/internal/logging"
	"github.com/dmitrijs2005/chirp/internal/server/config"
	"github.com/stretchr/testify/require"
)

const (
	annID = "11111111-1111-1111-1111-111111111111"
	bobID = "22222222-2222-2222-2222-222222222222"
)

func testConfig() *config.Config {
	return &config.Config{
		HTTPAddr:        "127.0.0.1:0",
		AllowedOrigins:  []string{"http://localhost:3000"},
		ShutdownTimeout: time.Second,
	}
}

func newTestServer(t *testing.T) (*Server, *backend, *fakeVerifier) {
	t.Helper()
	b := newBackend()
	b.addUser(annID, "Ann", "ann@example.org")
	b.addUser(bobID, "Bob", "bob@example.org")
	v := &fakeVerifier{b: b}
	return NewServer(testConfig(), nopLogger(), b, b, v, NewMetrics()), b, v
}

func do(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func message(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decodeBody[messageResponse](t, rec).Message
}

func nopLogger() logging.Logger { return logging.Nop{} }
