package cli

import (
	"fmt"

	"github.com/nwbvt/congressbot/appconfig"
	"github.com/nwbvt/congressbot/embed"
	"github.com/nwbvt/congressbot/llm"
	"github.com/ollama/ollama/api"
)

func newLLMClient(cfg *appconfig.AppConfig, creds appconfig.Credentials) (llm.LLMClient, error) {
	switch cfg.LLMProvider {
	case appconfig.ProviderGemini:
		return llm.NewGeminiClient(creds.LLMKey, cfg.LLMModel), nil
	case appconfig.ProviderGroq:
		return llm.NewGroqClient(creds.LLMKey, cfg.LLMModel), nil
	case appconfig.ProviderOllama:
		client, err := api.ClientFromEnvironment()
		if err != nil {
			return nil, fmt.Errorf("create ollama client: %w", err)
		}
		return llm.NewOllamaClient(client, cfg.LLMModel), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.LLMProvider)
	}
}

// newEmbedder returns the configured embedder wrapped with retries.
func newEmbedder(cfg *appconfig.AppConfig, creds appconfig.Credentials) (embed.Embedder, error) {
	var base embed.Embedder
	switch cfg.EmbeddingProvider {
	case appconfig.ProviderGemini:
		base = embed.NewGeminiEmbedder(creds.EmbeddingKey, cfg.EmbeddingModel)
	case appconfig.ProviderOllama:
		client, err := api.ClientFromEnvironment()
		if err != nil {
			return nil, fmt.Errorf("create ollama client: %w", err)
		}
		base = embed.NewOllamaEmbedder(client, cfg.EmbeddingModel)
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.EmbeddingProvider)
	}
	return embed.WithRetry(base, embed.DefaultRetryPolicy()), nil
}
