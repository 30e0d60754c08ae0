package parse

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/phrazzld/taskgate/internal/domain"
	"github.com/phrazzld/taskgate/internal/redact"
)

// DefaultTimeout bounds a single upstream call when Config.Timeout is unset.
const DefaultTimeout = 30 * time.Second

// ErrEmptyDescription is returned when the task description is blank.
var ErrEmptyDescription = errors.New("task description cannot be empty")

// Config holds Parser settings.
type Config struct {
	// Timeout bounds the upstream call. Zero means DefaultTimeout.
	Timeout time.Duration
	// PromptTemplatePath overrides the embedded system instruction template.
	PromptTemplatePath string
}

// Parser converts task descriptions into validated parsed tasks.
type Parser struct {
	backend     Backend
	timeout     time.Duration
	instruction string
	logger      *slog.Logger
}

// NewParser creates a Parser over backend.
func NewParser(backend Backend, cfg Config, logger *slog.Logger) (*Parser, error) {
	if backend == nil {
		return nil, errors.New("backend cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	tmpl, err := loadPromptTemplate(cfg.PromptTemplatePath)
	if err != nil {
		return nil, err
	}
	instruction, err := renderInstruction(tmpl)
	if err != nil {
		return nil, err
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Parser{
		backend:     backend,
		timeout:     timeout,
		instruction: instruction,
		logger:      logger.With("component", "task_parser", "backend", backend.Name()),
	}, nil
}

// Instruction returns the rendered system instruction sent with every call.
func (p *Parser) Instruction() string {
	return p.instruction
}

// Parse performs one bounded extraction call and validates the answer.
// Failures wrap domain.ErrParse (upstream fault) or domain.ErrSchemaViolation
// (malformed or out-of-schema answer).
func (p *Parser) Parse(ctx context.Context, description string) (*domain.ParsedTask, error) {
	if strings.TrimSpace(description) == "" {
		return nil, fmt.Errorf("%w: %w", domain.ErrParse, ErrEmptyDescription)
	}

	callCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	start := time.Now()
	raw, err := p.backend.ExtractArguments(callCtx, Request{
		Description: description,
		Instruction: p.instruction,
	})
	if err != nil {
		p.logger.WarnContext(ctx, "task extraction call failed",
			"error", redact.Error(err),
			"duration_ms", time.Since(start).Milliseconds())

		if errors.Is(err, ErrNoFunctionCall) {
			return nil, fmt.Errorf("%w: %v", domain.ErrSchemaViolation, err)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrParse, err)
	}

	task, err := DecodeArguments(raw)
	if err != nil {
		p.logger.WarnContext(ctx, "model answer rejected", "error", err)
		return nil, err
	}

	p.logger.DebugContext(ctx, "task description parsed",
		"operation", task.Operation,
		"input_count", len(task.InputFiles),
		"duration_ms", time.Since(start).Milliseconds())

	return task, nil
}

// taskArguments mirrors the function schema; pointers distinguish absent from empty.
type taskArguments struct {
	InputFiles []string            `json:"input_files"`
	Operation  *string             `json:"operation"`
	Parameters *parameterArguments `json:"parameters"`
	OutputFile *string             `json:"output_file"`
}

type parameterArguments struct {
	Weekday        string `json:"weekday"`
	ScriptURL      string `json:"script_url"`
	LLMInstruction string `json:"llm_instruction"`
}

// DecodeArguments converts raw function-call arguments into a parsed task,
// rejecting anything outside the schema with domain.ErrSchemaViolation.
func DecodeArguments(raw []byte) (*domain.ParsedTask, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, fmt.Errorf("%w: empty function arguments", domain.ErrSchemaViolation)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()

	var args taskArguments
	if err := dec.Decode(&args); err != nil {
		return nil, fmt.Errorf("%w: malformed function arguments: %v", domain.ErrSchemaViolation, err)
	}

	if args.Operation == nil {
		return nil, fmt.Errorf("%w: missing %s", domain.ErrSchemaViolation, FieldOperation)
	}
	op, err := domain.ParseOperation(strings.TrimSpace(*args.Operation))
	if err != nil {
		return nil, err
	}

	if args.OutputFile == nil || strings.TrimSpace(*args.OutputFile) == "" {
		return nil, fmt.Errorf("%w: missing %s", domain.ErrSchemaViolation, FieldOutputFile)
	}

	task := &domain.ParsedTask{
		InputFiles: args.InputFiles,
		Operation:  op,
		OutputFile: strings.TrimSpace(*args.OutputFile),
	}
	if task.InputFiles == nil {
		task.InputFiles = []string{}
	}
	if args.Parameters != nil {
		task.Parameters = domain.TaskParameters{
			Weekday:        strings.TrimSpace(args.Parameters.Weekday),
			ScriptURL:      strings.TrimSpace(args.Parameters.ScriptURL),
			LLMInstruction: args.Parameters.LLMInstruction,
		}
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}
	return task, nil
}
