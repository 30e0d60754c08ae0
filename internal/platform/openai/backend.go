package openai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	goopenai "github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"

	"github.com/phrazzld/taskgate/internal/config"
	"github.com/phrazzld/taskgate/internal/parse"
)

// ErrInvalidConfig is returned when the backend configuration is invalid.
var ErrInvalidConfig = errors.New("invalid openai backend configuration")

// chatClient is the subset of the go-openai client used by Backend.
type chatClient interface {
	CreateChatCompletion(ctx context.Context, req goopenai.ChatCompletionRequest) (goopenai.ChatCompletionResponse, error)
}

// Backend implements parse.Backend on the chat completions API.
type Backend struct {
	client chatClient
	model  string
	tool   goopenai.Tool
	logger *slog.Logger
}

// Option customizes a Backend.
type Option func(*goopenai.ClientConfig)

// WithHTTPClient sets the HTTP client used for API calls.
func WithHTTPClient(c *http.Client) Option {
	return func(cc *goopenai.ClientConfig) {
		cc.HTTPClient = c
	}
}

// NewBackend creates a Backend from LLM configuration.
func NewBackend(cfg config.LLMConfig, logger *slog.Logger, opts ...Option) (*Backend, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: api key cannot be empty", ErrInvalidConfig)
	}
	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", ErrInvalidConfig)
	}

	clientConfig := goopenai.DefaultConfig(cfg.APIKey)
	clientConfig.BaseURL = config.DefaultOpenAIBaseURL
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	for _, opt := range opts {
		opt(&clientConfig)
	}

	return &Backend{
		client: goopenai.NewClientWithConfig(clientConfig),
		model:  cfg.ModelName,
		tool:   TaskTool(),
		logger: logger.With("component", "openai_backend"),
	}, nil
}

// Name implements parse.Backend.
func (b *Backend) Name() string {
	return "openai"
}

// ExtractArguments implements parse.Backend with a single chat completion call.
func (b *Backend) ExtractArguments(ctx context.Context, req parse.Request) ([]byte, error) {
	messages := make([]goopenai.ChatCompletionMessage, 0, 2)
	if req.Instruction != "" {
		messages = append(messages, goopenai.ChatCompletionMessage{
			Role:    goopenai.ChatMessageRoleSystem,
			Content: req.Instruction,
		})
	}
	messages = append(messages, goopenai.ChatCompletionMessage{
		Role:    goopenai.ChatMessageRoleUser,
		Content: req.Description,
	})

	b.logger.DebugContext(ctx, "calling chat completions", "model", b.model)

	resp, err := b.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model:    b.model,
		Messages: messages,
		Tools:    []goopenai.Tool{b.tool},
		ToolChoice: goopenai.ToolChoice{
			Type:     goopenai.ToolTypeFunction,
			Function: goopenai.ToolFunction{Name: parse.FunctionName},
		},
	})
	if err != nil {
		var apiErr *goopenai.APIError
		if errors.As(err, &apiErr) {
			return nil, fmt.Errorf("chat completion failed with status %d: %s", apiErr.HTTPStatusCode, apiErr.Message)
		}
		return nil, fmt.Errorf("chat completion failed: %w", err)
	}

	return argumentsFromResponse(resp)
}

// argumentsFromResponse extracts the parse_task arguments from the first
// choice, accepting both tool calls and the legacy function_call field.
func argumentsFromResponse(resp goopenai.ChatCompletionResponse) ([]byte, error) {
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: no choices in response", parse.ErrNoFunctionCall)
	}

	msg := resp.Choices[0].Message
	for _, call := range msg.ToolCalls {
		if call.Function.Name == parse.FunctionName {
			return []byte(call.Function.Arguments), nil
		}
	}
	if msg.FunctionCall != nil && msg.FunctionCall.Name == parse.FunctionName {
		return []byte(msg.FunctionCall.Arguments), nil
	}

	if resp.Choices[0].FinishReason == goopenai.FinishReasonContentFilter {
		return nil, fmt.Errorf("%w: %w", parse.ErrNoFunctionCall, parse.ErrBlocked)
	}
	return nil, parse.ErrNoFunctionCall
}

// TaskTool returns the parse_task function declaration as an OpenAI tool.
func TaskTool() goopenai.Tool {
	params := make(map[string]jsonschema.Definition, len(parse.ParameterFields))
	for _, f := range parse.ParameterFields {
		params[f.Name] = jsonschema.Definition{
			Type:        jsonschema.String,
			Description: f.Description,
		}
	}

	schema := jsonschema.Definition{
		Type: jsonschema.Object,
		Properties: map[string]jsonschema.Definition{
			parse.FieldInputFiles: {
				Type:        jsonschema.Array,
				Items:       &jsonschema.Definition{Type: jsonschema.String},
				Description: parse.InputFilesDescription,
			},
			parse.FieldOperation: {
				Type:        jsonschema.String,
				Enum:        parse.OperationEnum(),
				Description: parse.OperationDescription,
			},
			parse.FieldParameters: {
				Type:       jsonschema.Object,
				Properties: params,
			},
			parse.FieldOutputFile: {
				Type:        jsonschema.String,
				Description: parse.OutputFileDescription,
			},
		},
		Required: parse.RequiredFields,
	}

	return goopenai.Tool{
		Type: goopenai.ToolTypeFunction,
		Function: &goopenai.FunctionDefinition{
			Name:        parse.FunctionName,
			Description: parse.FunctionDescription,
			Parameters:  schema,
		},
	}
}
