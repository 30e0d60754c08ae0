package task

import (
	"context"
	"log/slog"
	"os"

	"github.com/google/uuid"
)

func setupTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

func newMockTask() *FuncTask {
	return NewFuncTask(uuid.New(), "mock", nil)
}

func newFuncTask(fn func(ctx context.Context) error) *FuncTask {
	return NewFuncTask(uuid.New(), "mock", fn)
}
