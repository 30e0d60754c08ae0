package operations

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/phrazzld/taskgate/internal/domain"
)

// DefaultWeekday is counted when a task names no weekday.
const DefaultWeekday = "Wednesday"

// dateLayouts are tried in order for each line.
var dateLayouts = []string{
	"2006-1-2",
	"2-Jan-2006",
	"Jan 2, 2006",
	"2006/1/2 15:04:05",
}

var weekdays = map[string]time.Weekday{}

func init() {
	for d := time.Sunday; d <= time.Saturday; d++ {
		weekdays[d.String()] = d
	}
}

// NormalizeWeekday title-cases a weekday name and checks it is a real day.
// An empty name yields DefaultWeekday.
func NormalizeWeekday(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return DefaultWeekday, nil
	}
	normalized := cases.Title(language.English).String(strings.ToLower(name))
	if _, ok := weekdays[normalized]; !ok {
		return "", fmt.Errorf("unknown weekday %q", name)
	}
	return normalized, nil
}

// CountWeekdays writes the number of lines whose date falls on the requested
// weekday. Lines that match none of the known layouts are skipped.
func CountWeekdays(ctx context.Context, args Args) error {
	weekday, err := NormalizeWeekday(args.Parameters.Weekday)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrOperation, err)
	}
	want := weekdays[weekday]

	data, err := readInput(ctx, args.InputPath)
	if err != nil {
		return err
	}

	count := 0
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		if d, ok := parseDate(strings.TrimSpace(scanner.Text())); ok && d.Weekday() == want {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("%w: failed to scan %s: %w", domain.ErrOperation, args.InputPath, err)
	}

	return writeOutput(ctx, args.OutputPath, []byte(strconv.Itoa(count)))
}

func parseDate(line string) (time.Time, bool) {
	if line == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, line); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
