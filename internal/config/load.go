package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of every environment variable read by Load.
const EnvPrefix = "TASKGATE"

// ConfigPathEnv names an explicit configuration file to read.
const ConfigPathEnv = "TASKGATE_CONFIG"

// DefaultOpenAIBaseURL is the OpenAI-compatible proxy used when no base URL is configured.
const DefaultOpenAIBaseURL = "https://aiproxy.sanand.workers.dev/openai/v1/"

// DefaultInputPaths are the default input locations per operation. Directory
// operations carry a trailing separator so that reducing the path to its
// containing directory yields the directory itself.
var DefaultInputPaths = map[string]string{
	"format_markdown":       "./data/docs/agent/director.md",
	"count_weekdays":        "./data/dates",
	"sort_json":             "./data/contacts.json",
	"extract_recent_logs":   "/data/logs/",
	"create_markdown_index": "/data/docs/",
	"extract_email_sender":  "/data/emails",
	"extract_credit_card":   "/data/images",
	"calculate_gold_sales":  "/data/databases",
	"find_similar_comments": "/data/comments",
}

// Load configuration from environment variables and optionally a config file.
// Environment variables take precedence over values from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if path := os.Getenv(ConfigPathEnv); path != "" {
		v.SetConfigFile(path)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// The API key may also come from the token variables used by the proxy.
	if err := v.BindEnv("llm.api_key", EnvPrefix+"_LLM_API_KEY", "API_TOKEN", "AIPROXY_TOKEN"); err != nil {
		return nil, fmt.Errorf("failed to bind api key environment: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks cfg against its struct validation rules.
func Validate(cfg *Config) error {
	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.shutdown_timeout_seconds", 10)
	v.SetDefault("server.read_root", "")

	v.SetDefault("llm.provider", "openai")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.model_name", "gpt-4o-mini")
	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.timeout_seconds", 30)
	v.SetDefault("llm.prompt_template_path", "")

	v.SetDefault("task.worker_count", 4)
	v.SetDefault("task.queue_size", 100)
	v.SetDefault("task.execution_timeout_seconds", 0)

	for op, path := range DefaultInputPaths {
		v.SetDefault("dispatch.defaults."+op, path)
	}
}
