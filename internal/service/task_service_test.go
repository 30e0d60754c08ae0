package service_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/phrazzld/taskgate/internal/config"
	"github.com/phrazzld/taskgate/internal/dispatch"
	"github.com/phrazzld/taskgate/internal/domain"
	"github.com/phrazzld/taskgate/internal/operations"
	"github.com/phrazzld/taskgate/internal/parse"
	"github.com/phrazzld/taskgate/internal/parse/mocks"
	"github.com/phrazzld/taskgate/internal/platform/logger"
	"github.com/phrazzld/taskgate/internal/service"
	"github.com/phrazzld/taskgate/internal/task"
)

type fixture struct {
	svc      service.TaskService
	backend  *mocks.MockBackend
	registry *task.MemoryRegistry
	runner   *task.TaskRunner
}

func newFixture(t *testing.T, defaults map[string]string, runnerCfg task.TaskRunnerConfig, start bool) *fixture {
	t.Helper()
	log, _ := logger.GetTestLogger(t)

	ctrl := gomock.NewController(t)
	backend := mocks.NewMockBackend(ctrl)
	backend.EXPECT().Name().Return("mock").AnyTimes()

	parser, err := parse.NewParser(backend, parse.Config{Timeout: time.Second}, log)
	require.NoError(t, err)

	dispatcher, err := dispatch.New(operations.NewSet().Handlers(), defaults)
	require.NoError(t, err)

	registry := task.NewMemoryRegistry()
	runner := task.NewTaskRunner(registry, runnerCfg, log)
	if start {
		runner.Start()
	}
	t.Cleanup(runner.Stop)

	svc, err := service.NewTaskService(parser, dispatcher, runner, log)
	require.NoError(t, err)

	return &fixture{svc: svc, backend: backend, registry: registry, runner: runner}
}

func (f *fixture) answer(raw string) {
	f.backend.EXPECT().ExtractArguments(gomock.Any(), gomock.Any()).Return([]byte(raw), nil)
}

func waitTerminal(t *testing.T, svc service.TaskService, id uuid.UUID) task.Record {
	t.Helper()
	var rec task.Record
	require.Eventually(t, func() bool {
		var err error
		rec, err = svc.GetTask(context.Background(), id)
		return err == nil && rec.Status.Terminal()
	}, 3*time.Second, 5*time.Millisecond)
	return rec
}

func TestNewTaskService(t *testing.T) {
	log, _ := logger.GetTestLogger(t)
	_, err := service.NewTaskService(nil, nil, nil, log)
	assert.Error(t, err)
}

func TestSubmitTaskCountsWednesdays(t *testing.T) {
	dir := t.TempDir()
	dates := filepath.Join(dir, "dates.txt")
	out := filepath.Join(dir, "out.txt")
	require.NoError(t, os.WriteFile(dates, []byte("2024-01-03\n2024-01-10\n2024-01-11\n"), 0o644))

	f := newFixture(t, config.DefaultInputPaths, task.TaskRunnerConfig{WorkerCount: 1, QueueSize: 4}, true)
	f.answer(fmt.Sprintf(`{"input_files": [%q], "operation": "count_weekdays",
		"parameters": {"weekday": "wednesday"}, "output_file": %q}`, dates, out))

	rec, err := f.svc.SubmitTask(context.Background(), "count Wednesdays in dates.txt, write to out.txt")
	require.NoError(t, err)
	assert.Equal(t, task.TaskStatusPending, rec.Status)
	assert.Equal(t, out, rec.OutputPath)

	final := waitTerminal(t, f.svc, rec.ID)
	assert.Equal(t, task.TaskStatusCompleted, final.Status)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "2", string(data))
}

func TestSubmitTaskRecordsOperationError(t *testing.T) {
	dir := t.TempDir()
	f := newFixture(t, config.DefaultInputPaths, task.TaskRunnerConfig{WorkerCount: 1, QueueSize: 4}, true)
	f.answer(fmt.Sprintf(`{"input_files": [%q], "operation": "extract_email_sender", "output_file": %q}`,
		filepath.Join(dir, "missing.txt"), filepath.Join(dir, "sender.json")))

	// Execution failures are not synchronous
	rec, err := f.svc.SubmitTask(context.Background(), "extract the sender")
	require.NoError(t, err)

	final := waitTerminal(t, f.svc, rec.ID)
	assert.Equal(t, task.TaskStatusError, final.Status)
	assert.Contains(t, final.Error, "operation failed")
}

func TestSubmitTaskValidationFailures(t *testing.T) {
	defaults := map[string]string{}
	for k, v := range config.DefaultInputPaths {
		defaults[k] = v
	}
	defaults["create_markdown_index"] = ""

	tests := []struct {
		name    string
		raw     string
		err     error
		wantErr error
	}{
		{name: "upstream fault", err: errors.New("502 bad gateway"), wantErr: domain.ErrParse},
		{name: "unknown operation", raw: `{"operation": "run_script", "output_file": "o"}`, wantErr: domain.ErrSchemaViolation},
		{name: "missing output", raw: `{"operation": "sort_json"}`, wantErr: domain.ErrSchemaViolation},
		{name: "no default input", raw: `{"operation": "create_markdown_index", "output_file": "index.md"}`, wantErr: domain.ErrUnresolvableInput},
		{name: "bad weekday", raw: `{"operation": "count_weekdays", "output_file": "o", "parameters": {"weekday": "someday"}}`, wantErr: domain.ErrSchemaViolation},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t, defaults, task.TaskRunnerConfig{WorkerCount: 1, QueueSize: 4}, false)
			call := f.backend.EXPECT().ExtractArguments(gomock.Any(), gomock.Any())
			if tc.err != nil {
				call.Return(nil, tc.err)
			} else {
				call.Return([]byte(tc.raw), nil)
			}

			_, err := f.svc.SubmitTask(context.Background(), "do it")

			assert.ErrorIs(t, err, tc.wantErr)
			assert.Equal(t, 0, f.registry.Len(), "no task may be registered")
		})
	}
}

func TestSubmitTaskEmptyDescription(t *testing.T) {
	f := newFixture(t, config.DefaultInputPaths, task.TaskRunnerConfig{WorkerCount: 1, QueueSize: 4}, false)

	_, err := f.svc.SubmitTask(context.Background(), "  ")

	assert.ErrorIs(t, err, service.ErrEmptyDescription)
}

func TestSubmitTaskQueueFull(t *testing.T) {
	f := newFixture(t, config.DefaultInputPaths, task.TaskRunnerConfig{WorkerCount: 1, QueueSize: 1}, false)
	f.answer(`{"operation": "sort_json", "output_file": "a.json"}`)
	f.answer(`{"operation": "sort_json", "output_file": "b.json"}`)

	_, err := f.svc.SubmitTask(context.Background(), "sort contacts")
	require.NoError(t, err)

	_, err = f.svc.SubmitTask(context.Background(), "sort contacts again")
	assert.ErrorIs(t, err, task.ErrQueueFull)
	assert.Equal(t, 1, f.registry.Len())
}

func TestPlanTask(t *testing.T) {
	f := newFixture(t, config.DefaultInputPaths, task.TaskRunnerConfig{WorkerCount: 1, QueueSize: 1}, false)
	f.answer(`{"operation": "create_markdown_index", "output_file": "/data/docs/index.md"}`)

	plan, err := f.svc.PlanTask(context.Background(), "index the docs")

	require.NoError(t, err)
	assert.Equal(t, domain.OperationCreateMarkdownIndex, plan.Operation)
	assert.Equal(t, "/data/docs", plan.InputPath)
	assert.Equal(t, "directory", plan.InputKind)
	assert.True(t, plan.Defaulted)
	assert.Equal(t, 0, f.registry.Len(), "planning registers nothing")
}

func TestGetAndCancelTask(t *testing.T) {
	f := newFixture(t, config.DefaultInputPaths, task.TaskRunnerConfig{WorkerCount: 1, QueueSize: 4}, false)
	f.answer(`{"operation": "sort_json", "output_file": "a.json"}`)

	rec, err := f.svc.SubmitTask(context.Background(), "sort contacts")
	require.NoError(t, err)

	got, err := f.svc.GetTask(context.Background(), rec.ID)
	require.NoError(t, err)
	assert.Equal(t, task.TaskStatusPending, got.Status)

	require.NoError(t, f.svc.CancelTask(context.Background(), rec.ID))
	got, err = f.svc.GetTask(context.Background(), rec.ID)
	require.NoError(t, err)
	assert.Equal(t, task.TaskStatusError, got.Status)
	assert.Equal(t, task.MessageCanceled, got.Error)

	assert.ErrorIs(t, f.svc.CancelTask(context.Background(), rec.ID), task.ErrTaskTerminal)

	_, err = f.svc.GetTask(context.Background(), uuid.New())
	assert.ErrorIs(t, err, task.ErrTaskNotFound)
}
