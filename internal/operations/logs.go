package operations

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/phrazzld/taskgate/internal/domain"
)

// RecentLogCount is the number of log files ExtractRecentLogs concatenates.
const RecentLogCount = 3

const logSeparator = "\n---\n"

// ExtractRecentLogs concatenates the most recently modified *.log files in
// InputPath, newest first.
func ExtractRecentLogs(ctx context.Context, args Args) error {
	matches, err := filepath.Glob(filepath.Join(args.InputPath, "*.log"))
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrOperation, err)
	}

	type logFile struct {
		path    string
		modTime time.Time
	}
	files := make([]logFile, 0, len(matches))
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil {
			return fmt.Errorf("%w: failed to stat %s: %w", domain.ErrOperation, m, err)
		}
		if info.IsDir() {
			continue
		}
		files = append(files, logFile{path: m, modTime: info.ModTime()})
	}
	if len(files) == 0 {
		return fmt.Errorf("%w: no log files found in %s", domain.ErrOperation, args.InputPath)
	}

	sort.SliceStable(files, func(i, j int) bool {
		return files[i].modTime.After(files[j].modTime)
	})
	if len(files) > RecentLogCount {
		files = files[:RecentLogCount]
	}

	contents := make([]string, 0, len(files))
	for _, f := range files {
		data, err := readInput(ctx, f.path)
		if err != nil {
			return err
		}
		contents = append(contents, string(data))
	}

	return writeOutput(ctx, args.OutputPath, []byte(strings.Join(contents, logSeparator)))
}
