package operations

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/phrazzld/taskgate/internal/domain"
)

type contactName struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
}

// SortContacts sorts a JSON array of contacts by last name, then first name.
// Every other field of each contact is preserved in its original order.
func SortContacts(ctx context.Context, args Args) error {
	data, err := readInput(ctx, args.InputPath)
	if err != nil {
		return err
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %s is not a JSON array: %w", domain.ErrOperation, args.InputPath, err)
	}

	type entry struct {
		first, last string
		raw         json.RawMessage
	}
	entries := make([]entry, len(raw))
	for i, r := range raw {
		var name contactName
		if err := json.Unmarshal(r, &name); err != nil {
			return fmt.Errorf("%w: contact %d: %w", domain.ErrOperation, i, err)
		}
		if name.FirstName == nil || name.LastName == nil {
			return fmt.Errorf("%w: contact %d is missing first_name or last_name", domain.ErrOperation, i)
		}
		entries[i] = entry{first: *name.FirstName, last: *name.LastName, raw: r}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].last != entries[j].last {
			return entries[i].last < entries[j].last
		}
		return entries[i].first < entries[j].first
	})

	sorted := make([]json.RawMessage, len(entries))
	for i, e := range entries {
		sorted[i] = e.raw
	}

	out, err := encodeIndented(sorted)
	if err != nil {
		return err
	}
	return writeOutput(ctx, args.OutputPath, out)
}

// encodeIndented renders v as two-space indented JSON without HTML escaping.
func encodeIndented(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("%w: failed to encode result: %w", domain.ErrOperation, err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
