package operations

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/phrazzld/taskgate/internal/domain"
)

var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)

// SimilarPair is the result of FindSimilarComments.
type SimilarPair struct {
	Comment1   string  `json:"comment1"`
	Comment2   string  `json:"comment2"`
	Similarity float64 `json:"similarity"`
}

// FindSimilarComments writes the pair of lines with the highest TF-IDF cosine
// similarity. Blank lines are ignored; ties keep the earliest pair.
func FindSimilarComments(ctx context.Context, args Args) error {
	data, err := readInput(ctx, args.InputPath)
	if err != nil {
		return err
	}

	var comments []string
	for _, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(line) != "" {
			comments = append(comments, strings.TrimRight(line, "\r"))
		}
	}
	if len(comments) < 2 {
		return fmt.Errorf("%w: need at least two comments in %s, found %d",
			domain.ErrOperation, args.InputPath, len(comments))
	}

	pair := MostSimilar(comments)
	out, err := encodeIndented(pair)
	if err != nil {
		return err
	}
	return writeOutput(ctx, args.OutputPath, out)
}

// MostSimilar returns the most similar pair among at least two documents.
func MostSimilar(docs []string) SimilarPair {
	vectors := TFIDF(docs)

	best := SimilarPair{Comment1: docs[0], Comment2: docs[1], Similarity: -1}
	for i := 0; i < len(docs); i++ {
		for j := i + 1; j < len(docs); j++ {
			if sim := dot(vectors[i], vectors[j]); sim > best.Similarity {
				best = SimilarPair{Comment1: docs[i], Comment2: docs[j], Similarity: sim}
			}
		}
	}
	return best
}

// TFIDF returns an L2 normalized vector per document using raw term counts
// and smoothed inverse document frequency, ln((1+n)/(1+df)) + 1.
func TFIDF(docs []string) []map[string]float64 {
	counts := make([]map[string]float64, len(docs))
	df := make(map[string]int)
	for i, doc := range docs {
		counts[i] = make(map[string]float64)
		for _, tok := range tokenize(doc) {
			if counts[i][tok] == 0 {
				df[tok]++
			}
			counts[i][tok]++
		}
	}

	n := float64(len(docs))
	for _, vec := range counts {
		var norm float64
		for term, tf := range vec {
			w := tf * (math.Log((1+n)/(1+float64(df[term]))) + 1)
			vec[term] = w
			norm += w * w
		}
		if norm == 0 {
			continue
		}
		norm = math.Sqrt(norm)
		for term := range vec {
			vec[term] /= norm
		}
	}
	return counts
}

func tokenize(doc string) []string {
	raw := tokenPattern.FindAllString(strings.ToLower(doc), -1)
	tokens := raw[:0]
	for _, tok := range raw {
		if _, stop := stopWords[tok]; !stop {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

func dot(a, b map[string]float64) float64 {
	if len(b) < len(a) {
		a, b = b, a
	}
	var sum float64
	for term, w := range a {
		sum += w * b[term]
	}
	return sum
}
