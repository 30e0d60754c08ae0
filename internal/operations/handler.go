package operations

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/phrazzld/taskgate/internal/domain"
)

// Args carries the resolved inputs of one handler run.
type Args struct {
	// InputPath is the file or directory the handler reads.
	InputPath string
	// OutputPath is the only file the handler writes.
	OutputPath string
	// Parameters holds the operation-specific extras (weekday, etc.).
	Parameters domain.TaskParameters
}

// Handler transforms one input into one output file.
type Handler interface {
	Handle(ctx context.Context, args Args) error
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context, args Args) error

// Handle calls f(ctx, args).
func (f HandlerFunc) Handle(ctx context.Context, args Args) error {
	return f(ctx, args)
}

// Set is the full table of operation handlers.
type Set struct {
	recognizer TextRecognizer
}

// Option configures a Set.
type Option func(*Set)

// WithTextRecognizer replaces the OCR engine used for credit card extraction.
func WithTextRecognizer(r TextRecognizer) Option {
	return func(s *Set) {
		s.recognizer = r
	}
}

// NewSet creates the handler set with the given options.
func NewSet(opts ...Option) *Set {
	s := &Set{recognizer: NewTesseractRecognizer()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handlers returns a fresh map holding a handler for every operation.
func (s *Set) Handlers() map[domain.Operation]Handler {
	return map[domain.Operation]Handler{
		domain.OperationFormatMarkdown:      HandlerFunc(FormatMarkdown),
		domain.OperationCountWeekdays:       HandlerFunc(CountWeekdays),
		domain.OperationSortJSON:            HandlerFunc(SortContacts),
		domain.OperationExtractRecentLogs:   HandlerFunc(ExtractRecentLogs),
		domain.OperationCreateMarkdownIndex: HandlerFunc(CreateMarkdownIndex),
		domain.OperationExtractEmailSender:  HandlerFunc(ExtractEmailSender),
		domain.OperationExtractCreditCard:   HandlerFunc(s.extractCreditCard),
		domain.OperationCalculateGoldSales:  HandlerFunc(CalculateGoldSales),
		domain.OperationFindSimilarComments: HandlerFunc(FindSimilarComments),
	}
}

func readInput(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read %s: %w", domain.ErrOperation, path, err)
	}
	return data, nil
}

// writeOutput writes data to path, creating parent directories as needed.
func writeOutput(ctx context.Context, path string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if path == "" {
		return fmt.Errorf("%w: output path is empty", domain.ErrOperation)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("%w: failed to create output directory %s: %w", domain.ErrOperation, dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("%w: failed to write %s: %w", domain.ErrOperation, path, err)
	}
	return nil
}
