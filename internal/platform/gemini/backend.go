package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"google.golang.org/genai"

	"github.com/phrazzld/taskgate/internal/config"
	"github.com/phrazzld/taskgate/internal/parse"
)

// ErrInvalidConfig is returned when the backend configuration is invalid.
var ErrInvalidConfig = errors.New("invalid gemini backend configuration")

// generateContenter is the subset of genai.Models used by Backend.
type generateContenter interface {
	GenerateContent(
		ctx context.Context,
		model string,
		contents []*genai.Content,
		config *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error)
}

// Backend implements parse.Backend using the Gemini API.
type Backend struct {
	models generateContenter
	model  string
	tool   *genai.Tool
	logger *slog.Logger
}

// NewBackend creates a Backend with a live genai client.
func NewBackend(ctx context.Context, cfg config.LLMConfig, logger *slog.Logger) (*Backend, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", ErrInvalidConfig)
	}
	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", ErrInvalidConfig)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v", ErrInvalidConfig, err)
	}

	return newBackend(client.Models, cfg.ModelName, logger), nil
}

func newBackend(models generateContenter, model string, logger *slog.Logger) *Backend {
	return &Backend{
		models: models,
		model:  model,
		tool:   TaskTool(),
		logger: logger.With("component", "gemini_backend"),
	}
}

// Name implements parse.Backend.
func (b *Backend) Name() string {
	return "gemini"
}

// ExtractArguments implements parse.Backend with one GenerateContent call.
func (b *Backend) ExtractArguments(ctx context.Context, req parse.Request) ([]byte, error) {
	temperature := float32(0)
	genConfig := &genai.GenerateContentConfig{
		Temperature: &temperature,
		Tools:       []*genai.Tool{b.tool},
		ToolConfig: &genai.ToolConfig{
			FunctionCallingConfig: &genai.FunctionCallingConfig{
				Mode:                 genai.FunctionCallingConfigModeAny,
				AllowedFunctionNames: []string{parse.FunctionName},
			},
		},
	}
	if req.Instruction != "" {
		genConfig.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: req.Instruction}},
		}
	}

	contents := []*genai.Content{{
		Role:  "user",
		Parts: []*genai.Part{{Text: req.Description}},
	}}

	b.logger.DebugContext(ctx, "Making Gemini API call", "model", b.model)

	resp, err := b.models.GenerateContent(ctx, b.model, contents, genConfig)
	if err != nil {
		return nil, fmt.Errorf("gemini generate content failed: %w", err)
	}

	return argumentsFromResponse(resp)
}

func argumentsFromResponse(resp *genai.GenerateContentResponse) ([]byte, error) {
	if resp == nil {
		return nil, fmt.Errorf("%w: empty response", parse.ErrNoFunctionCall)
	}
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return nil, fmt.Errorf("%w: %w: %s", parse.ErrNoFunctionCall, parse.ErrBlocked, resp.PromptFeedback.BlockReason)
	}
	if len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("%w: no candidates in response", parse.ErrNoFunctionCall)
	}

	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return nil, fmt.Errorf("%w: %w", parse.ErrNoFunctionCall, parse.ErrBlocked)
	}
	if candidate.Content == nil {
		return nil, parse.ErrNoFunctionCall
	}

	for _, part := range candidate.Content.Parts {
		if part == nil || part.FunctionCall == nil || part.FunctionCall.Name != parse.FunctionName {
			continue
		}
		args := part.FunctionCall.Args
		if args == nil {
			args = map[string]any{}
		}
		raw, err := json.Marshal(args)
		if err != nil {
			return nil, fmt.Errorf("failed to encode function call arguments: %w", err)
		}
		return raw, nil
	}

	return nil, parse.ErrNoFunctionCall
}

// TaskTool returns the parse_task function declaration as a genai tool.
func TaskTool() *genai.Tool {
	params := make(map[string]*genai.Schema, len(parse.ParameterFields))
	for _, f := range parse.ParameterFields {
		params[f.Name] = &genai.Schema{Type: genai.TypeString, Description: f.Description}
	}

	return &genai.Tool{
		FunctionDeclarations: []*genai.FunctionDeclaration{{
			Name:        parse.FunctionName,
			Description: parse.FunctionDescription,
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					parse.FieldInputFiles: {
						Type:        genai.TypeArray,
						Items:       &genai.Schema{Type: genai.TypeString},
						Description: parse.InputFilesDescription,
					},
					parse.FieldOperation: {
						Type:        genai.TypeString,
						Format:      "enum",
						Enum:        parse.OperationEnum(),
						Description: parse.OperationDescription,
					},
					parse.FieldParameters: {
						Type:       genai.TypeObject,
						Properties: params,
					},
					parse.FieldOutputFile: {
						Type:        genai.TypeString,
						Description: parse.OutputFileDescription,
					},
				},
				Required: parse.RequiredFields,
			},
		}},
	}
}
