package common

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EditorConfig controls the editor session's timers and input behavior.
// Delays are in milliseconds; both timers are debounced (last keystroke wins).
type EditorConfig struct {
	AutoSave         bool `koanf:"auto_save"`
	AutoSaveDelayMs  int  `koanf:"auto_save_delay_ms"`
	AISuggestions    bool `koanf:"ai_suggestions"`
	AISuggestDelayMs int  `koanf:"ai_suggest_delay_ms"`
	TabSize          int  `koanf:"tab_size"`
	InsertSpaces     bool `koanf:"insert_spaces"`
}

// AIConfig configures the conversation orchestrator and its provider. BaseURL
// points at any OpenAI-compatible chat-completions endpoint. HistoryWindow is
// the number of prior messages included per request; HistoryCap bounds the
// retained conversation history.
type AIConfig struct {
	BaseURL       string  `koanf:"base_url"`
	Model         string  `koanf:"model"`
	SystemPrompt  string  `koanf:"system_prompt"`
	Temperature   float64 `koanf:"temperature"`
	MaxTokens     int     `koanf:"max_tokens"`
	HistoryWindow int     `koanf:"history_window"`
	HistoryCap    int     `koanf:"history_cap"`
}

// LocalConfig represents the local configuration file structure.
type LocalConfig struct {
	Editor  EditorConfig `koanf:"editor"`
	AI      AIConfig     `koanf:"ai"`
	Storage string       `koanf:"storage"`
}

const defaultSystemPrompt = "You are an expert programming assistant. Help users with coding questions, provide clean code examples, and explain programming concepts clearly."

func defaultLocalConfig() LocalConfig {
	return LocalConfig{
		Editor: EditorConfig{
			AutoSave:         true,
			AutoSaveDelayMs:  2000,
			AISuggestions:    false,
			AISuggestDelayMs: 1000,
			TabSize:          4,
			InsertSpaces:     true,
		},
		AI: AIConfig{
			BaseURL:       "https://openrouter.ai/api/v1",
			Model:         "qwen/qwen3-coder:free",
			SystemPrompt:  defaultSystemPrompt,
			Temperature:   0.7,
			MaxTokens:     1000,
			HistoryWindow: 8,
			HistoryCap:    20,
		},
		Storage: "sqlite",
	}
}

// LocalConfigPath returns the location of the yaml config file, which may or
// may not exist. Can be overridden with STUDIO_CONFIG_PATH.
func LocalConfigPath() string {
	if p := os.Getenv("STUDIO_CONFIG_PATH"); p != "" {
		return p
	}
	return filepath.Join(xdg.ConfigHome, "codestudio", "config.yml")
}

// LoadLocalConfig reads the yaml config file if present and merges it over
// built-in defaults. A missing file is not an error. STUDIO_STORAGE
// overrides the storage backend selection last.
func LoadLocalConfig() (LocalConfig, error) {
	config := defaultLocalConfig()

	configPath := LocalConfigPath()
	if _, err := os.Stat(configPath); err == nil {
		k := koanf.New(".")
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return config, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		if err := k.Unmarshal("", &config); err != nil {
			return config, fmt.Errorf("failed to unmarshal config file %s: %w", configPath, err)
		}
	}

	if storage := os.Getenv("STUDIO_STORAGE"); storage != "" {
		config.Storage = storage
	}

	return config, nil
}
