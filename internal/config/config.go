package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
)

// Providers accepted in LLM_PROVIDER.
const (
	ProviderGroq   = "groq"
	ProviderOpenAI = "openai"
	ProviderArk    = "ark"
)

// APIKeyEnv is the variable the Groq key is exported under after loading.
const APIKeyEnv = "GROQ_API_KEY"

// ErrMissingAPIKey is returned when the key file has no usable key.
var ErrMissingAPIKey = errors.New("API key is missing in the config file")

// Config aggregates every setting of the service.
type Config struct {
	Server    ServerConfig
	AI        AIConfig
	Session   SessionConfig
	Sentiment SentimentConfig
	Persona   PersonaConfig
}

// Load reads the environment and, for providers that need it, the API key file.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}
	cfg.Server = server

	cfg.AI.Provider = strings.ToLower(strings.TrimSpace(cfg.AI.Provider))
	switch cfg.AI.Provider {
	case ProviderGroq:
		key, err := LoadAPIKey(cfg.AI.APIConfigPath)
		if err != nil {
			return nil, err
		}
		cfg.AI.APIKey = key
		if err := os.Setenv(APIKeyEnv, key); err != nil {
			return nil, fmt.Errorf("export %s: %w", APIKeyEnv, err)
		}
		if cfg.AI.BaseURL == "" {
			cfg.AI.BaseURL = GroqBaseURL
		}
	case ProviderOpenAI:
		cfg.AI.APIKey = cfg.AI.OpenAIAPIKey
	case ProviderArk:
		cfg.AI.APIKey = cfg.AI.ArkAPIKey
	default:
		return nil, fmt.Errorf("unknown LLM_PROVIDER %q", cfg.AI.Provider)
	}

	if cfg.AI.OpeningMaxTokens < 1 || cfg.AI.TurnMaxTokens < 1 {
		return nil, fmt.Errorf("token caps must be positive (opening=%d turn=%d)", cfg.AI.OpeningMaxTokens, cfg.AI.TurnMaxTokens)
	}
	if cfg.Session.PacingDelay < 0 {
		return nil, fmt.Errorf("invalid CHAT_PACING_DELAY %s", cfg.Session.PacingDelay)
	}

	return cfg, nil
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr string
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, ":") {
		// ":8080" and "127.0.0.1:8080" are taken verbatim.
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

// GroqBaseURL mirrors llm.GroqBaseURL; config must not import llm.
const GroqBaseURL = "https://api.groq.com/openai/v1"

// AIConfig describes the completion model.
type AIConfig struct {
	Provider      string `env:"LLM_PROVIDER" envDefault:"groq"`
	Model         string `env:"LLM_MODEL" envDefault:"llama3-8b-8192"`
	BaseURL       string `env:"LLM_BASE_URL"`
	APIConfigPath string `env:"API_CONFIG_PATH" envDefault:"api.json"`

	// APIKey is resolved by Load from the provider-specific source.
	APIKey       string
	OpenAIAPIKey string `env:"OPENAI_API_KEY"`
	ArkAPIKey    string `env:"ARK_API_KEY"`
	ArkAccessKey string `env:"ARK_ACCESS_KEY"`
	ArkSecretKey string `env:"ARK_SECRET_KEY"`
	ArkRegion    string `env:"ARK_REGION" envDefault:"cn-beijing"`

	Temperature      float32       `env:"LLM_TEMPERATURE"`
	RequestTimeout   time.Duration `env:"AI_REQUEST_TIMEOUT"`
	OpeningMaxTokens int           `env:"OPENING_MAX_TOKENS" envDefault:"50"`
	TurnMaxTokens    int           `env:"TURN_MAX_TOKENS" envDefault:"100"`
}

// Enabled reports whether credentials for the selected provider are present.
func (c AIConfig) Enabled() bool {
	if c.Model == "" {
		return false
	}
	if c.Provider == ProviderArk {
		return c.APIKey != "" || (c.ArkAccessKey != "" && c.ArkSecretKey != "")
	}
	return c.APIKey != ""
}

// SessionConfig controls conversation pacing and idle-session eviction.
type SessionConfig struct {
	PacingDelay   time.Duration `env:"CHAT_PACING_DELAY" envDefault:"2s"`
	IdleTTL       time.Duration `env:"SESSION_IDLE_TTL" envDefault:"2h"`
	SweepSchedule string        `env:"SESSION_SWEEP_SCHEDULE" envDefault:"@every 10m"`
}

// SentimentConfig selects the polarity scorer.
type SentimentConfig struct {
	Analyzer string `env:"SENTIMENT_ANALYZER" envDefault:"vader"`
}

// PersonaConfig points at an optional preset file.
type PersonaConfig struct {
	PresetsPath string `env:"PERSONA_PRESETS_PATH"`
}

type apiFile struct {
	GroqAPIKey string `json:"GROQ_API_KEY"`
}

// LoadAPIKey reads the Groq key from a JSON file shaped like
// {"GROQ_API_KEY": "..."}.
func LoadAPIKey(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: %s not found", ErrMissingAPIKey, path)
		}
		return "", fmt.Errorf("read %s: %w", path, err)
	}

	var file apiFile
	if err := json.Unmarshal(data, &file); err != nil {
		return "", fmt.Errorf("parse %s: %w", path, err)
	}

	key := strings.TrimSpace(file.GroqAPIKey)
	if key == "" {
		return "", ErrMissingAPIKey
	}
	return key, nil
}
