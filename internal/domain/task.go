package domain

import (
	"fmt"
	"strings"
)

// TaskParameters is the sparse set of optional operation arguments. Every field
// defaults to absent; each operation reads only the fields it needs.
type TaskParameters struct {
	Weekday        string `json:"weekday,omitempty"`
	ScriptURL      string `json:"script_url,omitempty"`
	LLMInstruction string `json:"llm_instruction,omitempty"`
}

// ParsedTask is the structured command extracted from a free-text description.
type ParsedTask struct {
	InputFiles []string       `json:"input_files"`
	Operation  Operation      `json:"operation"`
	Parameters TaskParameters `json:"parameters"`
	OutputFile string         `json:"output_file"`
}

// Validate checks the schema invariants of a parsed task: the operation must be
// a member of the closed set and the output file must be non-empty.
func (t *ParsedTask) Validate() error {
	if t == nil {
		return fmt.Errorf("%w: task is nil", ErrSchemaViolation)
	}

	if !t.Operation.Valid() {
		return fmt.Errorf("%w: unknown operation %q", ErrSchemaViolation, t.Operation)
	}

	if strings.TrimSpace(t.OutputFile) == "" {
		return fmt.Errorf("%w: output_file is required", ErrSchemaViolation)
	}

	return nil
}

// HasExplicitInput reports whether the description named at least one input file.
func (t *ParsedTask) HasExplicitInput() bool {
	return len(t.InputFiles) > 0
}

// PrimaryInput returns the first explicit input file, or "" when none was given.
func (t *ParsedTask) PrimaryInput() string {
	if len(t.InputFiles) == 0 {
		return ""
	}
	return strings.TrimSpace(t.InputFiles[0])
}
