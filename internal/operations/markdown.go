package operations

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/phrazzld/taskgate/internal/domain"
)

var (
	headingSpacing = regexp.MustCompile(`(?m)^(#+)[ \t]*(\S[^\n]*)`)
	listBullet     = regexp.MustCompile(`(?m)^[-+*][ \t]+`)
	firstHeading   = regexp.MustCompile(`(?m)^#+[ \t]*(\S[^\n]*?)[ \t]*$`)
)

// FormatMarkdown normalizes heading spacing to a single space after the
// hash run and rewrites every list bullet to "- ".
func FormatMarkdown(ctx context.Context, args Args) error {
	data, err := readInput(ctx, args.InputPath)
	if err != nil {
		return err
	}

	content := headingSpacing.ReplaceAllString(string(data), "$1 $2")
	content = listBullet.ReplaceAllString(content, "- ")

	return writeOutput(ctx, args.OutputPath, []byte(content))
}

// CreateMarkdownIndex lists every .md file beneath InputPath, sorted by path,
// as "- [heading](relative/path.md)" lines.
func CreateMarkdownIndex(ctx context.Context, args Args) error {
	root := args.InputPath
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("%w: failed to open docs directory %s: %w", domain.ErrOperation, root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", domain.ErrOperation, root)
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), ".md") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: failed to walk %s: %w", domain.ErrOperation, root, err)
	}
	sort.Strings(files)

	lines := make([]string, 0, len(files))
	for _, path := range files {
		data, err := readInput(ctx, path)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return fmt.Errorf("%w: %w", domain.ErrOperation, err)
		}
		lines = append(lines, fmt.Sprintf("- [%s](%s)", headingOf(data), filepath.ToSlash(rel)))
	}

	return writeOutput(ctx, args.OutputPath, []byte(strings.Join(lines, "\n")))
}

func headingOf(content []byte) string {
	m := firstHeading.FindSubmatch(content)
	if m == nil {
		return "Untitled"
	}
	return string(m[1])
}
