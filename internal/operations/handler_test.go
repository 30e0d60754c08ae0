package operations

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/taskgate/internal/domain"
)

func TestHandlersCoverEveryOperation(t *testing.T) {
	t.Parallel()

	handlers := NewSet().Handlers()
	assert.Len(t, handlers, len(domain.Operations()))
	for _, op := range domain.Operations() {
		assert.NotNil(t, handlers[op], "no handler for %s", op)
	}
}

func TestWriteOutput(t *testing.T) {
	dir := t.TempDir()

	err := writeOutput(context.Background(), "", []byte("x"))
	assert.ErrorIs(t, err, domain.ErrOperation)

	path := filepath.Join(dir, "a", "b", "out.txt")
	require.NoError(t, writeOutput(context.Background(), path, []byte("x")))
	assert.Equal(t, "x", readFile(t, path))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = writeOutput(ctx, filepath.Join(dir, "canceled.txt"), []byte("x"))
	assert.ErrorIs(t, err, context.Canceled)
	assert.NoFileExists(t, filepath.Join(dir, "canceled.txt"))
}
