package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/taskgate/internal/platform/logger"
)

func readRequest(t *testing.T, h *FileHandler, path string) *httptest.ResponseRecorder {
	t.Helper()
	target := "/read"
	if path != "" {
		target += "?path=" + url.QueryEscape(path)
	}
	w := httptest.NewRecorder()
	h.ReadFile(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestFileHandler_ReadFile(t *testing.T) {
	log, _ := logger.GetTestLogger(t)
	dir := t.TempDir()
	file := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(file, []byte("hello\nworld"), 0o644))

	h, err := NewFileHandler("", log)
	require.NoError(t, err)

	t.Run("existing file", func(t *testing.T) {
		w := readRequest(t, h, file)
		require.Equal(t, http.StatusOK, w.Code)

		var resp ReadFileResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "hello\nworld", resp.Content)
	})

	t.Run("missing file", func(t *testing.T) {
		w := readRequest(t, h, filepath.Join(dir, "absent.txt"))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("missing path parameter", func(t *testing.T) {
		w := readRequest(t, h, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("directory is an io fault", func(t *testing.T) {
		w := readRequest(t, h, dir)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestFileHandler_ReadRoot(t *testing.T) {
	log, _ := logger.GetTestLogger(t)
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "in.txt"), []byte("inside"), 0o644))

	outside := filepath.Join(t.TempDir(), "out.txt")
	require.NoError(t, os.WriteFile(outside, []byte("outside"), 0o644))

	h, err := NewFileHandler(root, log)
	require.NoError(t, err)

	tests := []struct {
		name string
		path string
		want int
	}{
		{"relative inside root", "in.txt", http.StatusOK},
		{"absolute inside root", filepath.Join(root, "in.txt"), http.StatusOK},
		{"absolute outside root", outside, http.StatusForbidden},
		{"traversal", "../" + filepath.Base(root) + "/../etc/passwd", http.StatusForbidden},
		{"missing inside root", "nope.txt", http.StatusNotFound},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, readRequest(t, h, tc.path).Code)
		})
	}
}
