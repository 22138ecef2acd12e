package main

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"groceryhelper/internal/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBackend(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost && r.URL.Path == "/api/recipes/4/favorite" {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"message":"Recipe 4 favorited"}`))
			return
		}
		http.NotFound(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestServer(t *testing.T, backendURL string) *httptest.Server {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html><body></body></html>"), 0o644))

	mux, err := newMux(&config.Config{Server: config.ServerConfig{StaticDir: dir, BackendURL: backendURL}})
	require.NoError(t, err)
	srv := httptest.NewServer(WithMiddleware(mux, prometheus.NewRegistry()))
	t.Cleanup(srv.Close)
	return srv
}

func TestProxyForwardsAPICalls(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t, newBackend(t).URL)

	resp, err := http.Post(srv.URL+"/api/recipes/4/favorite", "application/json", nil)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"message":"Recipe 4 favorited"}`, string(body))
}

func TestProxyReportsUnreachableBackend(t *testing.T) {
	t.Parallel()
	dead := httptest.NewServer(http.NotFoundHandler())
	deadURL := dead.URL
	dead.Close()
	srv := newTestServer(t, deadURL)

	resp, err := http.Post(srv.URL+"/api/recipes/4/favorite", "application/json", nil)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.JSONEq(t, `{"message":"Recipe service unavailable"}`, string(body))

	ready, err := http.Get(srv.URL + "/ready")
	require.NoError(t, err)
	_ = ready.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, ready.StatusCode)
}

func TestReadyWithBackendUp(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t, newBackend(t).URL)

	resp, err := http.Get(srv.URL + "/ready")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestServesIndex(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t, "")

	resp, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	api, err := http.Post(srv.URL+"/api/recipes/1/favorite", "application/json", nil)
	require.NoError(t, err)
	_ = api.Body.Close()
	assert.Equal(t, http.StatusNotFound, api.StatusCode)
}

func TestRecovererHandlesPanics(t *testing.T) {
	t.Parallel()
	h := WithMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}), prometheus.NewRegistry())

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}
