package operations

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/taskgate/internal/domain"
)

func TestExtractEmailSender(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "email.txt", "To: team@example.com\nFrom: \"Jane Doe\" <jane@example.com>\nSubject: hi\n")
	output := filepath.Join(dir, "sender.json")

	err := ExtractEmailSender(context.Background(), Args{InputPath: input, OutputPath: output})
	require.NoError(t, err)

	var got Sender
	require.NoError(t, json.Unmarshal([]byte(readFile(t, output)), &got))
	assert.Equal(t, Sender{Name: "Jane Doe", Email: "jane@example.com"}, got)
}

func TestExtractEmailSenderMissingHeader(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "email.txt", "From: jane@example.com\n")

	err := ExtractEmailSender(context.Background(), Args{InputPath: input, OutputPath: filepath.Join(dir, "o.json")})

	assert.ErrorIs(t, err, domain.ErrOperation)
}
