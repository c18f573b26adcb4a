package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/phrazzld/study-buddy/internal/config"
	"github.com/phrazzld/study-buddy/internal/mocks"
	"github.com/phrazzld/study-buddy/internal/platform/logger"
	"github.com/phrazzld/study-buddy/internal/platform/redisstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(backend string) *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Port: 8080, LogLevel: "debug", MaxUploadMB: 1},
		LLM:    config.LLMConfig{GeminiAPIKey: "test-key", ModelName: "gemini-2.5-flash"},
		Session: config.SessionConfig{
			Backend:                backend,
			TTLMinutes:             60,
			CleanupIntervalMinutes: 5,
			NotificationBuffer:     8,
		},
		Cache: config.CacheConfig{Enabled: true, TTLMinutes: 10},
	}
}

func post(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func put(t *testing.T, url, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodPut, url, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

// studyFlow runs one session through the router: create, paste notes, generate twice.
func studyFlow(t *testing.T, srv *httptest.Server, gen *mocks.MockGenerator) {
	t.Helper()

	resp := post(t, srv.URL+"/api/sessions", "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var session struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&session))
	base := srv.URL + "/api/sessions/" + session.ID

	resp = put(t, base+"/notes", `{"text":"Mitochondria make ATP"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	for i := 0; i < 2; i++ {
		resp = post(t, base+"/artifacts/summary", "")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var artifact struct {
			Succeeded bool   `json:"succeeded"`
			Content   string `json:"content"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&artifact))
		assert.True(t, artifact.Succeeded)
		assert.Contains(t, artifact.Content, "Mitochondria make ATP")
	}

	assert.Equal(t, 1, gen.CallCount(), "second summary is served from the memo")
	assert.NotEmpty(t, resp.Header.Get("X-Trace-Id"))
}

func TestApplication_MemoryBackend(t *testing.T) {
	_, log := logger.NewTestLogger(t)
	gen := mocks.NewEchoGenerator()

	app, err := newApplicationWithGenerator(context.Background(), testConfig(backendMemory), log, gen)
	require.NoError(t, err)
	assert.Nil(t, app.redisClient)
	assert.True(t, app.pipeline.Memoized())

	srv := httptest.NewServer(app.setupRouter())
	t.Cleanup(srv.Close)

	studyFlow(t, srv, gen)
}

func TestApplication_RedisBackend(t *testing.T) {
	mr := miniredis.RunT(t)
	_, log := logger.NewTestLogger(t)
	gen := mocks.NewEchoGenerator()

	cfg := testConfig(backendRedis)
	cfg.Redis.Addr = mr.Addr()

	app, err := newApplicationWithGenerator(context.Background(), cfg, log, gen)
	require.NoError(t, err)
	require.NotNil(t, app.redisClient)
	t.Cleanup(app.cleanup)

	srv := httptest.NewServer(app.setupRouter())
	t.Cleanup(srv.Close)

	studyFlow(t, srv, gen)

	keys := mr.Keys()
	require.Len(t, keys, 1)
	assert.True(t, strings.HasPrefix(keys[0], redisstore.KeyPrefix))
}

func TestApplication_SetupErrors(t *testing.T) {
	_, log := logger.NewTestLogger(t)

	t.Run("unknown backend", func(t *testing.T) {
		_, err := newApplicationWithGenerator(context.Background(), testConfig("sqlite"), log, mocks.NewEchoGenerator())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown session backend")
	})

	t.Run("unreachable redis", func(t *testing.T) {
		mr := miniredis.RunT(t)
		cfg := testConfig(backendRedis)
		cfg.Redis.Addr = mr.Addr()
		mr.Close()

		_, err := newApplicationWithGenerator(context.Background(), cfg, log, mocks.NewEchoGenerator())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to connect to redis")
	})

	t.Run("missing generator", func(t *testing.T) {
		_, err := newApplicationWithGenerator(context.Background(), testConfig(backendMemory), log, nil)
		require.Error(t, err)
	})

	t.Run("empty template directory", func(t *testing.T) {
		cfg := testConfig(backendMemory)
		cfg.LLM.PromptTemplateDir = t.TempDir()
		// An empty override directory falls back to the built-in templates.
		_, err := newApplicationWithGenerator(context.Background(), cfg, log, mocks.NewEchoGenerator())
		require.NoError(t, err)
	})
}

func TestHealthCheck(t *testing.T) {
	_, log := logger.NewTestLogger(t)
	app, err := newApplicationWithGenerator(context.Background(), testConfig(backendMemory), log, mocks.NewEchoGenerator())
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	app.setupRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, "OK", string(body))
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	_, log := logger.NewTestLogger(t)
	cfg := testConfig(backendMemory)
	cfg.Server.Port = 0

	app, err := newApplicationWithGenerator(context.Background(), cfg, log, mocks.NewEchoGenerator())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	cancel()
	require.NoError(t, <-done)
}

func TestRunJanitor_StopsOnContextCancel(t *testing.T) {
	_, log := logger.NewTestLogger(t)
	app, err := newApplicationWithGenerator(context.Background(), testConfig(backendMemory), log, mocks.NewEchoGenerator())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		app.runJanitor(ctx, time.Millisecond)
		close(done)
	}()

	time.Sleep(5 * time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("janitor did not stop")
	}

	// A non-positive interval disables the janitor.
	app.runJanitor(context.Background(), 0)
}
