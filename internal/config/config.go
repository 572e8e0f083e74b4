// Package config loads application settings from an optional YAML file
// with environment variable overrides on top.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration accepts Go duration strings ("30m", "24h") in YAML.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	parsed, err := time.ParseDuration(node.Value)
	if err != nil {
		return fmt.Errorf("config: bad duration %q: %w", node.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

// OpenAIConfig holds the chat completion API settings.
type OpenAIConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
}

// LogConfig controls log output.
type LogConfig struct {
	Mode string `yaml:"mode"`
	File string `yaml:"file"`
}

// Config is the full application configuration.
type Config struct {
	TemplatesDir string       `yaml:"templates_dir"`
	OutputDir    string       `yaml:"output_dir"`
	RegistryPath string       `yaml:"registry_path"`
	DataPath     string       `yaml:"data_path"`
	RedisAddr    string       `yaml:"redis_addr"`
	SessionTTL   Duration     `yaml:"session_ttl"`
	OpenAI       OpenAIConfig `yaml:"openai"`
	Log          LogConfig    `yaml:"log"`
}

// Default returns the configuration used when no file or env is present.
func Default() Config {
	return Config{
		TemplatesDir: "templates",
		OutputDir:    "output",
		RegistryPath: "templates/templates.yaml",
		DataPath:     "data/documents.yaml",
		SessionTTL:   Duration(24 * time.Hour),
		OpenAI: OpenAIConfig{
			Model: "gpt-4o-mini",
		},
		Log: LogConfig{
			Mode: "dev",
		},
	}
}

// Load reads settings from path (skipped when empty or missing) and then
// applies environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
			}
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	setString(&cfg.TemplatesDir, "DOCWIZARD_TEMPLATES_DIR")
	setString(&cfg.OutputDir, "DOCWIZARD_OUTPUT_DIR")
	setString(&cfg.RegistryPath, "DOCWIZARD_REGISTRY_PATH")
	setString(&cfg.DataPath, "DOCWIZARD_DATA_PATH")
	setString(&cfg.RedisAddr, "DOCWIZARD_REDIS_ADDR")
	setString(&cfg.OpenAI.APIKey, "OPENAI_API_KEY")
	setString(&cfg.OpenAI.BaseURL, "OPENAI_BASE_URL")
	setString(&cfg.OpenAI.Model, "OPENAI_MODEL")
	setString(&cfg.Log.Mode, "DOCWIZARD_LOG_MODE")
	setString(&cfg.Log.File, "DOCWIZARD_LOG_FILE")

	if raw := os.Getenv("DOCWIZARD_SESSION_TTL_SECONDS"); raw != "" {
		if seconds, err := strconv.Atoi(raw); err == nil && seconds > 0 {
			cfg.SessionTTL = Duration(time.Duration(seconds) * time.Second)
		}
	}
}

func setString(target *string, key string) {
	if value := os.Getenv(key); value != "" {
		*target = value
	}
}
