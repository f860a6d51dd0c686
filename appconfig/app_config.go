package appconfig

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/SaiNageswarS/go-api-boot/config"
)

const (
	ProviderGemini = "gemini"
	ProviderGroq   = "groq"
	ProviderOllama = "ollama"
)

type AppConfig struct {
	config.BootConfig `ini:",extends"`

	LLMProvider       string `env:"LLM-PROVIDER" ini:"llm_provider"`
	LLMModel          string `env:"LLM-MODEL" ini:"llm_model"`
	EmbeddingProvider string `env:"EMBEDDING-PROVIDER" ini:"embedding_provider"`
	EmbeddingModel    string `env:"EMBEDDING-MODEL" ini:"embedding_model"`
	Temperature       string `env:"TEMPERATURE" ini:"temperature"`
	MaxTurns          string `env:"MAX-TURNS" ini:"max_turns"`
	DBPath            string `env:"DB-PATH" ini:"db_path"`
	Congress          string `env:"CONGRESS" ini:"congress"`
	CongressBaseURL   string `env:"CONGRESS-BASE-URL" ini:"congress_base_url"`
	BulkDataURL       string `env:"BULK-DATA-URL" ini:"bulk_data_url"`
	IngestProfile     string `env:"INGEST-PROFILE" ini:"ingest_profile"`
}

// Load reads path when it exists and fills every unset key with its default.
func Load(path string) (*AppConfig, error) {
	cfg := &AppConfig{}
	if _, err := os.Stat(path); err == nil {
		if err := config.LoadConfig(path, cfg); err != nil {
			return nil, err
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	cfg.ApplyDefaults()
	return cfg, nil
}

func (c *AppConfig) ApplyDefaults() {
	setDefault(&c.LLMProvider, ProviderGemini)
	setDefault(&c.EmbeddingProvider, ProviderGemini)
	if c.LLMModel == "" {
		c.LLMModel = defaultLLMModels[c.LLMProvider]
	}
	if c.EmbeddingModel == "" {
		c.EmbeddingModel = defaultEmbeddingModels[c.EmbeddingProvider]
	}
	setDefault(&c.Temperature, "1.0")
	setDefault(&c.MaxTurns, "16")
	setDefault(&c.DBPath, ".chroma")
	setDefault(&c.Congress, "119")
	setDefault(&c.CongressBaseURL, "https://api.congress.gov/v3")
	setDefault(&c.BulkDataURL, "https://www.govinfo.gov/bulkdata/json")
	setDefault(&c.IngestProfile, "billsum")
}

var defaultLLMModels = map[string]string{
	ProviderGemini: "gemini-2.0-flash",
	ProviderGroq:   "llama-3.3-70b-versatile",
	ProviderOllama: "llama3.1",
}

var defaultEmbeddingModels = map[string]string{
	ProviderGemini: "text-embedding-004",
	ProviderOllama: "nomic-embed-text",
}

func (c *AppConfig) TemperatureValue() (float64, error) {
	t, err := strconv.ParseFloat(c.Temperature, 64)
	if err != nil {
		return 0, fmt.Errorf("temperature %q: %w", c.Temperature, err)
	}
	return t, nil
}

func (c *AppConfig) MaxTurnsValue() (int, error) {
	n, err := strconv.Atoi(c.MaxTurns)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("max_turns must be a positive integer, got %q", c.MaxTurns)
	}
	return n, nil
}

func (c *AppConfig) CongressNumber() (int, error) {
	n, err := strconv.Atoi(c.Congress)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("congress must be a positive integer, got %q", c.Congress)
	}
	return n, nil
}

func setDefault(field *string, value string) {
	if *field == "" {
		*field = value
	}
}
