package api

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/phrazzld/taskgate/internal/api/shared"
)

// FileHandler serves GET /read, a raw passthrough independent of the task
// pipeline.
type FileHandler struct {
	root   string
	logger *slog.Logger
}

// NewFileHandler creates a FileHandler. An empty root allows any path
// readable by the process.
func NewFileHandler(root string, logger *slog.Logger) (*FileHandler, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if root != "" {
		abs, err := filepath.Abs(root)
		if err != nil {
			return nil, fmt.Errorf("invalid read root %q: %w", root, err)
		}
		root = abs
	}
	return &FileHandler{
		root:   root,
		logger: logger.With("component", "file_handler"),
	}, nil
}

// ReadFile handles GET /read?path=<path>
func (h *FileHandler) ReadFile(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if strings.TrimSpace(path) == "" {
		HandleAPIError(w, r, ErrPathRequired, "")
		return
	}

	resolved, err := h.resolve(path)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	content, err := os.ReadFile(resolved)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			shared.RespondWithError(w, r, http.StatusNotFound, "File not found")
			return
		}
		HandleAPIError(w, r, err, "Failed to read file")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, ReadFileResponse{Content: string(content)})
}

// resolve confines path beneath the configured root, if any.
func (h *FileHandler) resolve(path string) (string, error) {
	if h.root == "" {
		return path, nil
	}

	candidate := path
	if !filepath.IsAbs(candidate) {
		candidate = filepath.Join(h.root, candidate)
	}
	candidate = filepath.Clean(candidate)

	rel, err := filepath.Rel(h.root, candidate)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", ErrPathForbidden
	}
	return candidate, nil
}
