package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/phrazzld/taskgate/internal/config"
	"github.com/phrazzld/taskgate/internal/dispatch"
	"github.com/phrazzld/taskgate/internal/events"
	"github.com/phrazzld/taskgate/internal/operations"
	"github.com/phrazzld/taskgate/internal/parse"
	"github.com/phrazzld/taskgate/internal/platform/gemini"
	"github.com/phrazzld/taskgate/internal/platform/logger"
	"github.com/phrazzld/taskgate/internal/platform/openai"
	"github.com/phrazzld/taskgate/internal/service"
	"github.com/phrazzld/taskgate/internal/task"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger

	backend    parse.Backend
	parser     *parse.Parser
	dispatcher *dispatch.Dispatcher

	registry     *task.MemoryRegistry
	taskRunner   *task.TaskRunner
	eventEmitter *events.InMemoryEventEmitter

	taskService service.TaskService
}

// newApplicationFromEnv loads configuration, sets up logging and selects the
// configured language model backend.
func newApplicationFromEnv(ctx context.Context, logOut io.Writer) (*application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.SetupWithWriter(cfg.Server, logOut)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	log.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"llm_provider", cfg.LLM.Provider,
		"llm_model", cfg.LLM.ModelName,
		"worker_count", cfg.Task.WorkerCount,
		"queue_size", cfg.Task.QueueSize)

	backend, err := newBackend(ctx, cfg.LLM, log)
	if err != nil {
		return nil, err
	}

	return newApplication(cfg, log, backend)
}

// newBackend creates the function-calling backend named by cfg.Provider.
func newBackend(ctx context.Context, cfg config.LLMConfig, log *slog.Logger) (parse.Backend, error) {
	switch cfg.Provider {
	case "openai":
		b, err := openai.NewBackend(cfg, log.With("component", "llm_backend"))
		if err != nil {
			return nil, fmt.Errorf("failed to initialize openai backend: %w", err)
		}
		return b, nil
	case "gemini":
		b, err := gemini.NewBackend(ctx, cfg, log.With("component", "llm_backend"))
		if err != nil {
			return nil, fmt.Errorf("failed to initialize gemini backend: %w", err)
		}
		return b, nil
	default:
		return nil, fmt.Errorf("unsupported llm provider %q", cfg.Provider)
	}
}

// newApplication wires the task pipeline around backend. The task runner is
// not started until Run.
func newApplication(
	cfg *config.Config,
	log *slog.Logger,
	backend parse.Backend,
	opts ...operations.Option,
) (*application, error) {
	app := &application{
		config:  cfg,
		logger:  log,
		backend: backend,
	}

	var err error
	app.parser, err = parse.NewParser(backend, parse.Config{
		Timeout:            cfg.LLM.Timeout(),
		PromptTemplatePath: cfg.LLM.PromptTemplatePath,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create parser: %w", err)
	}

	app.dispatcher, err = dispatch.New(operations.NewSet(opts...).Handlers(), cfg.Dispatch.Defaults)
	if err != nil {
		return nil, fmt.Errorf("failed to create dispatcher: %w", err)
	}

	app.eventEmitter = events.NewInMemoryEventEmitter(log)
	app.eventEmitter.RegisterHandler(events.NewLoggingHandler(log))

	app.registry = task.NewMemoryRegistry()
	app.taskRunner = task.NewTaskRunner(app.registry, task.TaskRunnerConfig{
		WorkerCount:      cfg.Task.WorkerCount,
		QueueSize:        cfg.Task.QueueSize,
		ExecutionTimeout: cfg.Task.ExecutionTimeout(),
	}, log)
	app.taskRunner.SetEventEmitter(app.eventEmitter)

	app.taskService, err = service.NewTaskService(app.parser, app.dispatcher, app.taskRunner, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create task service: %w", err)
	}

	log.Info("Application initialized successfully", "llm_backend", backend.Name())
	return app, nil
}

// Run starts the task runner and serves HTTP until ctx is canceled.
func (app *application) Run(ctx context.Context) error {
	router, err := app.setupRouter()
	if err != nil {
		return err
	}

	app.taskRunner.Start()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.taskRunner == nil {
		return
	}
	app.taskRunner.Stop()

	stats := app.taskRunner.QueueStats()
	app.logger.Info("Application shutdown completed",
		"tasks_accepted", stats.Accepted,
		"tasks_rejected", stats.Rejected)
}
