package operations

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/phrazzld/taskgate/internal/domain"
)

var cardNumber = regexp.MustCompile(`\b\d{4}[\s-]?\d{4}[\s-]?\d{4}[\s-]?\d{4}\b`)

// ExtractCardNumber returns the first card-like 16 digit group in text with
// spaces removed.
func ExtractCardNumber(text string) (string, bool) {
	m := cardNumber.FindString(text)
	if m == "" {
		return "", false
	}
	return strings.Join(strings.Fields(m), ""), true
}

func (s *Set) extractCreditCard(ctx context.Context, args Args) error {
	if _, err := os.Stat(args.InputPath); err != nil {
		return fmt.Errorf("%w: failed to open image %s: %w", domain.ErrOperation, args.InputPath, err)
	}

	text, err := s.recognizer.Recognize(ctx, args.InputPath)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrOperation, err)
	}

	number, ok := ExtractCardNumber(text)
	if !ok {
		return fmt.Errorf("%w: could not find credit card number in %s", domain.ErrOperation, args.InputPath)
	}
	return writeOutput(ctx, args.OutputPath, []byte(number))
}
