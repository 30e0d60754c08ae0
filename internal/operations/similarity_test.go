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

func TestMostSimilar(t *testing.T) {
	t.Parallel()

	docs := []string{
		"The delivery was late and the package was damaged",
		"Great customer support, very helpful staff",
		"Package arrived damaged and delivery was late",
		"I love the color of this jacket",
	}

	pair := MostSimilar(docs)

	assert.Equal(t, docs[0], pair.Comment1)
	assert.Equal(t, docs[2], pair.Comment2)
	assert.Greater(t, pair.Similarity, 0.5)
	assert.Less(t, pair.Similarity, 1.0)
}

func TestTFIDFNormalized(t *testing.T) {
	t.Parallel()

	vecs := TFIDF([]string{"apple banana apple", "banana cherry", "the and of"})
	require.Len(t, vecs, 3)

	assert.InDelta(t, 1.0, dot(vecs[0], vecs[0]), 1e-9)
	assert.InDelta(t, 1.0, dot(vecs[1], vecs[1]), 1e-9)
	assert.Empty(t, vecs[2], "stop words only")
	assert.Greater(t, vecs[0]["apple"], vecs[0]["banana"])
}

func TestFindSimilarComments(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "comments.txt", "fast shipping great price\n\nterrible app crashes\ngreat price fast shipping!\n")
	output := filepath.Join(dir, "similar.json")

	require.NoError(t, FindSimilarComments(context.Background(), Args{InputPath: input, OutputPath: output}))

	var got SimilarPair
	require.NoError(t, json.Unmarshal([]byte(readFile(t, output)), &got))
	assert.Equal(t, "fast shipping great price", got.Comment1)
	assert.Equal(t, "great price fast shipping!", got.Comment2)
}

func TestFindSimilarCommentsTooFew(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "comments.txt", "only one\n\n")

	err := FindSimilarComments(context.Background(), Args{InputPath: input, OutputPath: filepath.Join(dir, "o.json")})

	assert.ErrorIs(t, err, domain.ErrOperation)
}
