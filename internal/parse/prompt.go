package parse

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"strings"
	"text/template"
)

//go:embed prompts/task.tmpl
var defaultPromptTemplate string

// promptData represents the data passed to the prompt template
type promptData struct {
	FunctionName string
	Operations   []string
}

// loadPromptTemplate parses the template at path, or the embedded default when
// path is empty.
func loadPromptTemplate(path string) (*template.Template, error) {
	content := defaultPromptTemplate
	name := "default"
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read prompt template from %s: %w", path, err)
		}
		content = string(raw)
		name = path
	}

	tmpl, err := template.New(name).Funcs(template.FuncMap{"join": strings.Join}).Parse(content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse prompt template: %w", err)
	}
	return tmpl, nil
}

// renderInstruction executes tmpl with the current schema.
func renderInstruction(tmpl *template.Template) (string, error) {
	data := promptData{
		FunctionName: FunctionName,
		Operations:   OperationEnum(),
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute prompt template: %w", err)
	}
	return strings.TrimSpace(buf.String()), nil
}
