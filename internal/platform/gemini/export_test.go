package gemini

import (
	"log/slog"
)

// NewBackendForTest builds a Backend on a fake content generator.
func NewBackendForTest(models generateContenter, model string, logger *slog.Logger) *Backend {
	return newBackend(models, model, logger)
}

// GenerateContenter exposes the client seam to external tests.
type GenerateContenter = generateContenter
