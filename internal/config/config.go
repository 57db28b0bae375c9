// Package config loads and validates MentorLab configuration.
// Config lives at <data dir>/config.yaml; environment variables override
// file values. The data directory defaults to ~/.mentorlab.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all MentorLab configuration.
type Config struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// Gemini backend configuration
	Gemini GeminiConfig `yaml:"gemini"`

	// Voice I/O configuration
	Voice VoiceConfig `yaml:"voice"`

	// Storage configuration
	Storage StorageConfig `yaml:"storage"`

	// Tool panel configuration
	Tools ToolsConfig `yaml:"tools"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// GeminiConfig configures the AI backend.
type GeminiConfig struct {
	APIKey     string `yaml:"api_key"`
	ChatModel  string `yaml:"chat_model"`
	ImageModel string `yaml:"image_model"`
	Timeout    string `yaml:"timeout"`
}

// VoiceConfig configures voice input/output.
type VoiceConfig struct {
	// Preferred synthesizer voice id; empty selects by language+gender.
	VoiceID string `yaml:"voice_id"`
	// TTS autoplay for finalized mentor messages.
	Autoplay bool `yaml:"autoplay"`
	// Audio capture MIME type handed to the transport.
	CaptureMIMEType string `yaml:"capture_mime_type"`
}

// StorageConfig configures the local repository.
type StorageConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// ToolsConfig configures the interactive tool panel.
type ToolsConfig struct {
	// Code runner execution timeout.
	RunTimeout string `yaml:"run_timeout"`
	// Maximum interpretable-text-file bytes inlined into a turn.
	MaxInlineTextBytes int `yaml:"max_inline_text_bytes"`
}

// LoggingConfig configures categorized debug logging.
type LoggingConfig struct {
	DebugMode  bool            `yaml:"debug_mode"`
	Categories map[string]bool `yaml:"categories"`
	Level      string          `yaml:"level"`
}

// DefaultDataDir returns ~/.mentorlab, falling back to .mentorlab in the
// working directory when the home directory cannot be resolved.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".mentorlab"
	}
	return filepath.Join(home, ".mentorlab")
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:    "MentorLab",
		Version: "1.0.0",

		Gemini: GeminiConfig{
			ChatModel:  "gemini-2.5-flash",
			ImageModel: "imagen-3.0-generate-002",
			Timeout:    "120s",
		},

		Voice: VoiceConfig{
			CaptureMIMEType: "audio/ogg; codecs=opus",
		},

		Storage: StorageConfig{
			DatabasePath: filepath.Join(DefaultDataDir(), "mentorlab.db"),
		},

		Tools: ToolsConfig{
			RunTimeout:         "5s",
			MaxInlineTextBytes: 20000,
		},

		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from a YAML file, applying env overrides.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Return defaults if config file doesn't exist
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		c.Gemini.APIKey = key
	}
	if key := os.Getenv("API_KEY"); key != "" && c.Gemini.APIKey == "" {
		c.Gemini.APIKey = key
	}
	if model := os.Getenv("MENTORLAB_CHAT_MODEL"); model != "" {
		c.Gemini.ChatModel = model
	}
	if path := os.Getenv("MENTORLAB_DB"); path != "" {
		c.Storage.DatabasePath = path
	}
}

// GetGeminiTimeout returns the backend timeout as a duration.
func (c *Config) GetGeminiTimeout() time.Duration {
	d, err := time.ParseDuration(c.Gemini.Timeout)
	if err != nil {
		return 120 * time.Second
	}
	return d
}

// GetRunTimeout returns the code-runner timeout as a duration.
func (c *Config) GetRunTimeout() time.Duration {
	d, err := time.ParseDuration(c.Tools.RunTimeout)
	if err != nil {
		return 5 * time.Second
	}
	return d
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Gemini.ChatModel == "" {
		return fmt.Errorf("gemini.chat_model is required")
	}
	if c.Gemini.ImageModel == "" {
		return fmt.Errorf("gemini.image_model is required")
	}
	if c.Storage.DatabasePath == "" {
		return fmt.Errorf("storage.database_path is required")
	}
	if c.Tools.MaxInlineTextBytes <= 0 {
		return fmt.Errorf("tools.max_inline_text_bytes must be positive")
	}
	return nil
}
