package llm

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/model"

	"github.com/zhouzirui/charbot/internal/config"
)

// NewChatModel creates the chat model for the configured provider.
func NewChatModel(ctx context.Context, cfg config.AIConfig) (model.BaseChatModel, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("credentials or model missing for provider %q", cfg.Provider)
	}

	switch cfg.Provider {
	case config.ProviderGroq, config.ProviderOpenAI:
		return NewOpenAIChatModel(OpenAIConfig{
			APIKey:      cfg.APIKey,
			BaseURL:     cfg.BaseURL,
			Model:       cfg.Model,
			Temperature: cfg.Temperature,
			Timeout:     cfg.RequestTimeout,
		})
	case config.ProviderArk:
		return newArkChatModel(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", cfg.Provider)
	}
}

func newArkChatModel(ctx context.Context, cfg config.AIConfig) (model.BaseChatModel, error) {
	// Failures surface to the user; they retry by resending.
	noRetry := 0
	arkCfg := &ark.ChatModelConfig{
		BaseURL:    cfg.BaseURL,
		Region:     cfg.ArkRegion,
		APIKey:     cfg.APIKey,
		AccessKey:  cfg.ArkAccessKey,
		SecretKey:  cfg.ArkSecretKey,
		Model:      cfg.Model,
		RetryTimes: &noRetry,
	}
	if cfg.Temperature != 0 {
		temperature := cfg.Temperature
		arkCfg.Temperature = &temperature
	}
	if cfg.RequestTimeout > 0 {
		timeout := cfg.RequestTimeout
		arkCfg.Timeout = &timeout
	}
	return ark.NewChatModel(ctx, arkCfg)
}
