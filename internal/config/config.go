package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	LLM      LLMConfig      `mapstructure:"llm" validate:"required"`
	Task     TaskConfig     `mapstructure:"task" validate:"required"`
	Dispatch DispatchConfig `mapstructure:"dispatch"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port                   int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel               string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	ShutdownTimeoutSeconds int    `mapstructure:"shutdown_timeout_seconds" validate:"gte=1"`
	// ReadRoot confines the raw file-read endpoint beneath a directory when set.
	ReadRoot string `mapstructure:"read_root"`
}

// ShutdownTimeout returns the graceful shutdown window as a duration.
func (c ServerConfig) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutSeconds) * time.Second
}

// LLMConfig contains the settings of the language model used to parse task
// descriptions.
type LLMConfig struct {
	Provider  string `mapstructure:"provider" validate:"required,oneof=openai gemini"`
	APIKey    string `mapstructure:"api_key" validate:"required"`
	ModelName string `mapstructure:"model_name" validate:"required"`
	// BaseURL overrides the provider endpoint (OpenAI-compatible proxies).
	BaseURL        string `mapstructure:"base_url" validate:"omitempty,url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" validate:"gte=1,lte=300"`
	// PromptTemplatePath points at a text/template file used as the system
	// instruction. The embedded default is used when empty.
	PromptTemplatePath string `mapstructure:"prompt_template_path"`
}

// Timeout returns the bound applied to a single upstream parse call.
func (c LLMConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// TaskConfig contains settings for background task execution.
type TaskConfig struct {
	WorkerCount int `mapstructure:"worker_count" validate:"gte=1"`
	QueueSize   int `mapstructure:"queue_size" validate:"gte=1"`
	// ExecutionTimeoutSeconds bounds a single handler run. Zero disables the bound.
	ExecutionTimeoutSeconds int `mapstructure:"execution_timeout_seconds" validate:"gte=0"`
}

// ExecutionTimeout returns the per-task execution bound, or 0 when unbounded.
func (c TaskConfig) ExecutionTimeout() time.Duration {
	return time.Duration(c.ExecutionTimeoutSeconds) * time.Second
}

// DispatchConfig contains the per-operation default input paths used when a
// task description names no input file. Keys are operation names.
type DispatchConfig struct {
	Defaults map[string]string `mapstructure:"defaults"`
}
