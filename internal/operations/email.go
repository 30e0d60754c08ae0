package operations

import (
	"context"
	"fmt"
	"regexp"

	"github.com/phrazzld/taskgate/internal/domain"
)

var fromHeader = regexp.MustCompile(`From: "([^"]+)" <([^>]+)>`)

// Sender is the result of ExtractEmailSender.
type Sender struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ExtractEmailSender writes the display name and address of the first
// `From: "Name" <address>` header as JSON.
func ExtractEmailSender(ctx context.Context, args Args) error {
	data, err := readInput(ctx, args.InputPath)
	if err != nil {
		return err
	}

	m := fromHeader.FindSubmatch(data)
	if m == nil {
		return fmt.Errorf("%w: could not find sender information in %s", domain.ErrOperation, args.InputPath)
	}

	out, err := encodeIndented(Sender{Name: string(m[1]), Email: string(m[2])})
	if err != nil {
		return err
	}
	return writeOutput(ctx, args.OutputPath, out)
}
