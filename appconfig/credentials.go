package appconfig

import (
	"fmt"
	"os"
)

// Credentials are read once at startup and handed to each client.
type Credentials struct {
	LLMKey       string
	EmbeddingKey string
	CongressKey  string
}

var providerKeyEnv = map[string]string{
	ProviderGemini: "GOOGLE_API_KEY",
	ProviderGroq:   "GROQ_API_KEY",
}

// LoadCredentials returns an error naming the first required variable that
// is unset. Ollama needs no key.
func LoadCredentials(c *AppConfig, needLLM bool) (Credentials, error) {
	var creds Credentials
	var err error

	if needLLM {
		if creds.LLMKey, err = providerKey(c.LLMProvider); err != nil {
			return creds, err
		}
	}
	if creds.EmbeddingKey, err = providerKey(c.EmbeddingProvider); err != nil {
		return creds, err
	}
	if needLLM {
		if creds.CongressKey, err = requireEnv("CONGRESS_API_KEY"); err != nil {
			return creds, err
		}
	}
	return creds, nil
}

func providerKey(provider string) (string, error) {
	if provider == ProviderOllama {
		return "", nil
	}
	name, ok := providerKeyEnv[provider]
	if !ok {
		return "", fmt.Errorf("unknown provider %q", provider)
	}
	return requireEnv(name)
}

func requireEnv(name string) (string, error) {
	value := os.Getenv(name)
	if value == "" {
		return "", fmt.Errorf("environment variable %s is not set", name)
	}
	return value, nil
}
