package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Config holds all configuration for nertune
type Config struct {
	LLM        LLMConfig      `json:"llm"`
	Reflection LLMConfig      `json:"reflection"`
	Corpus     CorpusConfig   `json:"corpus"`
	Eval       EvalConfig     `json:"eval"`
	Optimize   OptimizeConfig `json:"optimize"`
}

// LLMConfig holds an OpenAI-compatible chat endpoint configuration
type LLMConfig struct {
	URL         string  `json:"url"`
	APIKey      string  `json:"api_key"`
	Model       string  `json:"model"`
	MaxTokens   int     `json:"max_tokens"`
	Temperature float64 `json:"temperature"`
	// AllowAnonymous permits an empty API key, for self-hosted endpoints.
	AllowAnonymous bool `json:"allow_anonymous"`
}

// CorpusConfig holds dataset loading configuration
type CorpusConfig struct {
	Dataset     string `json:"dataset"`
	Config      string `json:"config"`
	ServerURL   string `json:"server_url"`
	CacheDir    string `json:"cache_dir"`
	MaxRows     int    `json:"max_rows"`
	PersonCodes []int  `json:"person_codes"`
}

// EvalConfig holds evaluation harness configuration
type EvalConfig struct {
	// Concurrency bounds parallel prediction calls across examples.
	Concurrency int `json:"concurrency"`
}

// OptimizeConfig holds prompt optimizer tuning knobs
type OptimizeConfig struct {
	// Effort selects the search budget: light, medium or heavy.
	Effort string `json:"effort"`
	// MaxDemos caps few-shot demonstrations attached to the tuned prompt.
	MaxDemos int `json:"max_demos"`
	// AutoAccept skips the interactive confirmation before a run.
	AutoAccept bool `json:"auto_accept"`
	// DisableMinibatch evaluates candidates on the full trainset.
	DisableMinibatch bool `json:"disable_minibatch"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	homeDir, _ := os.UserHomeDir()
	cacheDir := filepath.Join(homeDir, ".cache", "nertune")

	return &Config{
		LLM: LLMConfig{
			URL:         "https://api.openai.com/v1",
			APIKey:      "",
			Model:       "gpt-4o-mini",
			MaxTokens:   512,
			Temperature: 0.0,
		},
		Reflection: LLMConfig{
			// Empty URL means: reuse the task LLM for optimizer reflection.
			URL:         "",
			Model:       "",
			MaxTokens:   1024,
			Temperature: 0.7,
		},
		Corpus: CorpusConfig{
			Dataset:     "conll2003",
			Config:      "conll2003",
			ServerURL:   "",
			CacheDir:    cacheDir,
			MaxRows:     0,
			PersonCodes: []int{1, 2},
		},
		Eval: EvalConfig{
			Concurrency: 4,
		},
		Optimize: OptimizeConfig{
			Effort:           "light",
			MaxDemos:         4,
			AutoAccept:       false,
			DisableMinibatch: false,
		},
	}
}

// envString loads a string environment variable into the target pointer if set
func envString(key string, target *string) {
	if v := os.Getenv(key); v != "" {
		*target = v
	}
}

// envInt loads an integer environment variable into the target pointer if set and valid
func envInt(key string, target *int) {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			*target = i
		}
	}
}

// envFloat loads a float64 environment variable into the target pointer if set and valid
func envFloat(key string, target *float64) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*target = f
		}
	}
}

// envBool loads a boolean environment variable into the target pointer if set and valid
func envBool(key string, target *bool) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*target = b
		}
	}
}

// envIntSlice loads a comma-separated list of integers
func envIntSlice(key string, target *[]int) {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]int, 0, len(parts))
		for _, part := range parts {
			if i, err := strconv.Atoi(strings.TrimSpace(part)); err == nil {
				result = append(result, i)
			}
		}
		if len(result) > 0 {
			*target = result
		}
	}
}

// Load loads configuration from environment variables and config file
func Load() (*Config, error) {
	cfg := DefaultConfig()

	configPath := getConfigPath()
	if data, err := os.ReadFile(configPath); err == nil {
		if err := json.Unmarshal(data, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to parse config file %s: %v\n", configPath, err)
		}
	}

	envString("NERTUNE_LLM_URL", &cfg.LLM.URL)
	envString("NERTUNE_LLM_API_KEY", &cfg.LLM.APIKey)
	envString("NERTUNE_LLM_MODEL", &cfg.LLM.Model)
	envInt("NERTUNE_LLM_MAX_TOKENS", &cfg.LLM.MaxTokens)
	envFloat("NERTUNE_LLM_TEMPERATURE", &cfg.LLM.Temperature)
	envBool("NERTUNE_LLM_ALLOW_ANONYMOUS", &cfg.LLM.AllowAnonymous)
	// OPENAI_API_KEY is honored when the nertune-specific variable is unset.
	if cfg.LLM.APIKey == "" {
		envString("OPENAI_API_KEY", &cfg.LLM.APIKey)
	}

	envString("NERTUNE_REFLECTION_URL", &cfg.Reflection.URL)
	envString("NERTUNE_REFLECTION_API_KEY", &cfg.Reflection.APIKey)
	envString("NERTUNE_REFLECTION_MODEL", &cfg.Reflection.Model)
	envInt("NERTUNE_REFLECTION_MAX_TOKENS", &cfg.Reflection.MaxTokens)
	envFloat("NERTUNE_REFLECTION_TEMPERATURE", &cfg.Reflection.Temperature)

	envString("NERTUNE_DATASET", &cfg.Corpus.Dataset)
	envString("NERTUNE_DATASET_CONFIG", &cfg.Corpus.Config)
	envString("NERTUNE_DATASET_SERVER_URL", &cfg.Corpus.ServerURL)
	envString("NERTUNE_CACHE_DIR", &cfg.Corpus.CacheDir)
	envInt("NERTUNE_MAX_ROWS", &cfg.Corpus.MaxRows)
	envIntSlice("NERTUNE_PERSON_CODES", &cfg.Corpus.PersonCodes)

	envInt("NERTUNE_EVAL_CONCURRENCY", &cfg.Eval.Concurrency)

	envString("NERTUNE_OPTIMIZE_EFFORT", &cfg.Optimize.Effort)
	envInt("NERTUNE_OPTIMIZE_MAX_DEMOS", &cfg.Optimize.MaxDemos)
	envBool("NERTUNE_OPTIMIZE_AUTO_ACCEPT", &cfg.Optimize.AutoAccept)
	envBool("NERTUNE_OPTIMIZE_NO_MINIBATCH", &cfg.Optimize.DisableMinibatch)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// HasReflectionLM reports whether a separate reflection model is configured
func (c *Config) HasReflectionLM() bool {
	return c.Reflection.URL != "" && c.Reflection.Model != ""
}

// isValidURL validates that a URL has proper format
func isValidURL(urlStr string) bool {
	u, err := url.Parse(urlStr)
	return err == nil && u.Scheme != "" && u.Host != ""
}

// Validate checks that the configuration has valid values
func (c *Config) Validate() error {
	var errs []string

	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		errs = append(errs, "LLM temperature must be between 0 and 2")
	}
	if c.LLM.MaxTokens < 1 {
		errs = append(errs, "LLM max_tokens must be positive")
	}
	if c.LLM.URL == "" {
		errs = append(errs, "LLM URL is required")
	} else if !isValidURL(c.LLM.URL) {
		errs = append(errs, "LLM URL must be a valid URL")
	}

	if c.Reflection.URL != "" && !isValidURL(c.Reflection.URL) {
		errs = append(errs, "reflection URL must be a valid URL")
	}

	if c.Corpus.Dataset == "" {
		errs = append(errs, "corpus dataset is required")
	}
	if c.Corpus.ServerURL != "" && !isValidURL(c.Corpus.ServerURL) {
		errs = append(errs, "corpus server URL must be a valid URL")
	}
	if c.Corpus.MaxRows < 0 {
		errs = append(errs, "corpus max_rows cannot be negative")
	}
	if len(c.Corpus.PersonCodes) == 0 {
		errs = append(errs, "at least one person tag code is required")
	}

	if c.Eval.Concurrency < 1 {
		errs = append(errs, "eval concurrency must be at least 1")
	}

	switch c.Optimize.Effort {
	case "light", "medium", "heavy":
	default:
		errs = append(errs, "optimize effort must be light, medium or heavy")
	}
	if c.Optimize.MaxDemos < 0 {
		errs = append(errs, "optimize max_demos cannot be negative")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}
	return nil
}

// getConfigPath returns the path to the config file
func getConfigPath() string {
	if path := os.Getenv("NERTUNE_CONFIG"); path != "" {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "config.json"
	}

	return filepath.Join(homeDir, ".config", "nertune", "config.json")
}
