// Package config handles application configuration loading from YAML files.
// Supports environment variable expansion in string values.
package config

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Telegram TelegramConfig `yaml:"telegram"`
	Auth     AuthConfig     `yaml:"auth"`
	Database DatabaseConfig `yaml:"database"`
	LLM      LLMConfig      `yaml:"llm"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// TelegramConfig holds Telegram bot settings.
type TelegramConfig struct {
	Token       string `yaml:"token"`
	PollTimeout int    `yaml:"poll_timeout"`
	MarkAsReply bool   `yaml:"mark_as_reply"`
}

// AuthConfig holds chat authorization settings. An empty activation code
// disables the gate: every chat may use the bot.
type AuthConfig struct {
	ActivationCode string `yaml:"activation_code"`
}

// DatabaseConfig selects the authorization persistence backend. An empty
// URL selects the in-memory registry.
type DatabaseConfig struct {
	URL      string `yaml:"url"`
	Provider string `yaml:"provider"`
}

// LLMConfig holds settings for the message review model.
type LLMConfig struct {
	APIKey     string `yaml:"api_key"`
	BaseURL    string `yaml:"base_url"`
	Model      string `yaml:"model"`
	Prompt     string `yaml:"prompt"` // extra system prompt instructions
	TargetLang string `yaml:"target_lang"`
	NativeLang string `yaml:"native_lang"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load reads configuration from the specified YAML file path.
// Supports ${ENV_VAR} expansion in string values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	expanded := expandEnvVars(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.setDefaults(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// setDefaults applies default values for unset fields.
func (c *Config) setDefaults() error {
	if c.Telegram.Token == "" {
		return fmt.Errorf("telegram.token is required")
	}

	if c.LLM.APIKey == "" {
		return fmt.Errorf("llm.api_key is required")
	}

	if c.Telegram.PollTimeout == 0 {
		c.Telegram.PollTimeout = 30
	}

	if c.LLM.Model == "" {
		c.LLM.Model = "gpt-4o-mini"
	}

	if c.LLM.TargetLang == "" {
		c.LLM.TargetLang = "English"
	}

	if c.LLM.NativeLang == "" {
		c.LLM.NativeLang = "Spanish"
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}

	return nil
}

// envVarPattern matches ${VAR} or $VAR patterns.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}|\$([A-Za-z_][A-Za-z0-9_]*)`)

// expandEnvVars replaces ${VAR} and $VAR with environment variable values.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		var name string
		if match[1] == '{' {
			name = match[2 : len(match)-1]
		} else {
			name = match[1:]
		}
		if val, ok := os.LookupEnv(name); ok {
			return val
		}
		return match
	})
}
