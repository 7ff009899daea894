package httpserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SajidCurious/starflix/internal/httpx"
)

func testServer() *Server {
	return New(func(r chi.Router) {
		r.Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
			httpx.OK(w, map[string]any{"pong": true})
		})
	})
}

func TestUnknownPathIs404WithEnvelope(t *testing.T) {
	srv := testServer()

	w := httptest.NewRecorder()
	srv.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/nope", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "API endpoint not found", body["error"])
}

func TestWrongMethodIs405(t *testing.T) {
	srv := testServer()

	w := httptest.NewRecorder()
	srv.Router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/ping", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestPreflightShortCircuitsWith200(t *testing.T) {
	srv := testServer()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/api/anything/at/all", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	srv.Router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSHeadersOnNormalResponses(t *testing.T) {
	srv := testServer()

	w := httptest.NewRecorder()
	srv.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/ping", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))
}

func TestPanicBecomes500(t *testing.T) {
	srv := New(func(r chi.Router) {
		r.Get("/boom", func(http.ResponseWriter, *http.Request) {
			panic("boom")
		})
	})

	w := httptest.NewRecorder()
	srv.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
}
