package config

import "time"

// Config is the full vitals configuration tree, loaded from
// ~/.vitals/config.yaml with VITALS_-prefixed environment overrides.
type Config struct {
	Server     ServerConfig     `mapstructure:"server" yaml:"server"`
	Whoop      WhoopConfig      `mapstructure:"whoop" yaml:"whoop"`
	Eve        EveConfig        `mapstructure:"eve" yaml:"eve"`
	Extraction ExtractionConfig `mapstructure:"extraction" yaml:"extraction"`
	Logging    LoggingConfig    `mapstructure:"logging" yaml:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `mapstructure:"host" yaml:"host"`
	Port int    `mapstructure:"port" yaml:"port"`
}

// WhoopConfig holds WHOOP API access settings. AccessToken supports the
// ${ENV_VAR} reference syntax.
type WhoopConfig struct {
	AccessToken       string        `mapstructure:"access_token" yaml:"access_token"`
	BaseURL           string        `mapstructure:"base_url" yaml:"base_url,omitempty"`
	RequestsPerMinute int           `mapstructure:"requests_per_minute" yaml:"requests_per_minute"`
	MaxRetries        uint          `mapstructure:"max_retries" yaml:"max_retries"`
	SyncInterval      time.Duration `mapstructure:"sync_interval" yaml:"sync_interval"`
}

// EveConfig holds the assistant's LLM settings. APIKey supports the
// ${ENV_VAR} reference syntax.
type EveConfig struct {
	APIKey  string `mapstructure:"api_key" yaml:"api_key"`
	BaseURL string `mapstructure:"base_url" yaml:"base_url,omitempty"`
	Model   string `mapstructure:"model" yaml:"model"`
}

// ExtractionConfig holds report extraction settings.
type ExtractionConfig struct {
	// VocabularyFile overrides the taxonomy vocabulary location. Empty
	// means ~/.vitals/taxonomy.yaml.
	VocabularyFile string `mapstructure:"vocabulary_file" yaml:"vocabulary_file,omitempty"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 8590,
		},
		Whoop: WhoopConfig{
			AccessToken:       "${WHOOP_ACCESS_TOKEN}",
			RequestsPerMinute: 100,
			MaxRetries:        4,
			SyncInterval:      6 * time.Hour,
		},
		Eve: EveConfig{
			APIKey: "${OPENAI_API_KEY}",
			Model:  "gpt-4o-mini",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
