package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/phrazzld/taskgate/internal/config"
	"github.com/phrazzld/taskgate/internal/parse/mocks"
	"github.com/phrazzld/taskgate/internal/platform/logger"
)

func testConfig() *config.Config {
	defaults := make(map[string]string, len(config.DefaultInputPaths))
	for op, path := range config.DefaultInputPaths {
		defaults[op] = path
	}
	return &config.Config{
		Server: config.ServerConfig{
			Port:                   8000,
			LogLevel:               "debug",
			ShutdownTimeoutSeconds: 2,
		},
		LLM: config.LLMConfig{
			Provider:       "openai",
			APIKey:         "test-key",
			ModelName:      "gpt-4o-mini",
			TimeoutSeconds: 5,
		},
		Task: config.TaskConfig{
			WorkerCount: 2,
			QueueSize:   10,
		},
		Dispatch: config.DispatchConfig{Defaults: defaults},
	}
}

func newTestApp(t *testing.T, answers ...string) *application {
	t.Helper()
	log, _ := logger.GetTestLogger(t)

	ctrl := gomock.NewController(t)
	backend := mocks.NewMockBackend(ctrl)
	backend.EXPECT().Name().Return("mock").AnyTimes()
	for _, raw := range answers {
		backend.EXPECT().ExtractArguments(gomock.Any(), gomock.Any()).Return([]byte(raw), nil)
	}

	app, err := newApplication(testConfig(), log, backend)
	require.NoError(t, err)
	return app
}

func TestNewBackend(t *testing.T) {
	log, _ := logger.GetTestLogger(t)
	cfg := testConfig().LLM

	b, err := newBackend(context.Background(), cfg, log)
	require.NoError(t, err)
	assert.Equal(t, "openai", b.Name())

	cfg.Provider = "carrier-pigeon"
	_, err = newBackend(context.Background(), cfg, log)
	assert.ErrorContains(t, err, "unsupported llm provider")
}

func TestRouter_TaskLifecycle(t *testing.T) {
	dir := t.TempDir()
	dates := filepath.Join(dir, "dates.txt")
	out := filepath.Join(dir, "wednesdays.txt")
	require.NoError(t, os.WriteFile(dates, []byte("2024-01-03\n2024-01-10\n2024-01-11\n"), 0o644))

	app := newTestApp(t, fmt.Sprintf(`{"input_files": [%q], "operation": "count_weekdays",
		"parameters": {"weekday": "wednesday"}, "output_file": %q}`, dates, out))
	app.taskRunner.Start()
	t.Cleanup(app.cleanup)

	router, err := app.setupRouter()
	require.NoError(t, err)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	resp, err := http.Post(srv.URL+"/tasks", "application/json",
		strings.NewReader(`{"task_description":"Count the Wednesdays in the dates file"}`))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusAccepted, resp.StatusCode)

	var created struct {
		TaskID string `json:"task_id"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	require.NotEmpty(t, created.TaskID)

	var status struct {
		Status string  `json:"status"`
		Error  *string `json:"error"`
	}
	require.Eventually(t, func() bool {
		r, err := http.Get(srv.URL + "/tasks/" + created.TaskID)
		if err != nil {
			return false
		}
		defer func() { _ = r.Body.Close() }()
		if r.StatusCode != http.StatusOK {
			return false
		}
		if err := json.NewDecoder(r.Body).Decode(&status); err != nil {
			return false
		}
		return status.Status != "pending"
	}, 3*time.Second, 10*time.Millisecond)

	assert.Equal(t, "completed", status.Status)
	assert.Nil(t, status.Error)

	r, err := http.Get(srv.URL + "/read?path=" + url.QueryEscape(out))
	require.NoError(t, err)
	defer func() { _ = r.Body.Close() }()
	require.Equal(t, http.StatusOK, r.StatusCode)

	var file struct {
		Content string `json:"content"`
	}
	require.NoError(t, json.NewDecoder(r.Body).Decode(&file))
	assert.Equal(t, "2", file.Content)
}

func TestRouter_RejectsInvalidTasks(t *testing.T) {
	app := newTestApp(t, `{"operation": "fly_to_moon", "output_file": "/tmp/x"}`)
	app.taskRunner.Start()
	t.Cleanup(app.cleanup)

	router, err := app.setupRouter()
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/tasks", strings.NewReader(`{"task_description":"go to the moon"}`))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, app.registry.Len())
}

func TestRouter_Health(t *testing.T) {
	app := newTestApp(t)
	t.Cleanup(app.cleanup)

	router, err := app.setupRouter()
	require.NoError(t, err)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())
}

func TestServe_GracefulShutdown(t *testing.T) {
	app := newTestApp(t)
	app.taskRunner.Start()

	router, err := app.setupRouter()
	require.NoError(t, err)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.serve(ctx, ln, router) }()

	require.Eventually(t, func() bool {
		r, err := http.Get("http://" + ln.Addr().String() + "/health")
		if err != nil {
			return false
		}
		_ = r.Body.Close()
		return r.StatusCode == http.StatusOK
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestCLI_Parse(t *testing.T) {
	app := newTestApp(t, `{"input_files": ["/tmp/in.md"], "operation": "format_markdown", "output_file": "/tmp/out.md"}`)
	provider := func(context.Context, io.Writer) (*application, error) { return app, nil }

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"parse", "format the markdown file"}, &stdout, &stderr, provider)
	require.Equal(t, 0, code, stderr.String())

	var plan map[string]any
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &plan))
	assert.Equal(t, "format_markdown", plan["operation"])
	assert.Equal(t, "/tmp/in.md", plan["input_path"])
	assert.Equal(t, "file", plan["input_kind"])
	assert.Equal(t, false, plan["input_defaulted"])
	assert.Zero(t, app.registry.Len())
}

func TestCLI_Errors(t *testing.T) {
	provider := func(context.Context, io.Writer) (*application, error) {
		return nil, fmt.Errorf("failed to load configuration: missing api key")
	}

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"provider failure", []string{"serve"}, "missing api key"},
		{"parse needs a description", []string{"parse"}, "accepts 1 arg"},
		{"unknown command", []string{"frobnicate"}, "unknown command"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			code := run(context.Background(), tc.args, &stdout, &stderr, provider)
			assert.Equal(t, 1, code)
			assert.Contains(t, stderr.String(), tc.want)
		})
	}
}
