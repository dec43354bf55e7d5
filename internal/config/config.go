package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// AppInfo holds basic information about the application.
type AppInfo struct {
	Name        string `yaml:"name"`        // application name
	Version     string `yaml:"version"`     // application version
	Environment string `yaml:"environment"` // e.g. "development", "production"
}

// LoggerConfig configures the logger.
type LoggerConfig struct {
	Level string `yaml:"level"` // "debug", "info", "warn", "error"
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Address   string `yaml:"address"`   // listen address, e.g. ":8080"
	UploadDir string `yaml:"uploadDir"` // directory used to stage uploaded files
}

// EmbeddingConfig selects and configures the embedding provider.
type EmbeddingConfig struct {
	Provider    string `yaml:"provider"`    // "openai" or "ollama"
	Model       string `yaml:"model"`       // embedding model name
	APIKey      string `yaml:"apiKey"`      // provider API key; falls back to OPENAI_API_KEY
	BaseURL     string `yaml:"baseURL"`     // provider base URL (used by ollama)
	Dimension   int    `yaml:"dimension"`   // vector dimension produced by the model
	HTTPTimeout string `yaml:"httpTimeout"` // per-call bounding timeout, e.g. "120s"
}

// LLMConfig selects and configures the chat model provider.
type LLMConfig struct {
	Provider    string  `yaml:"provider"`    // "openai" or "ollama"
	Model       string  `yaml:"model"`       // chat model name
	APIKey      string  `yaml:"apiKey"`      // provider API key; falls back to OPENAI_API_KEY
	BaseURL     string  `yaml:"baseURL"`     // provider base URL (used by ollama)
	MaxTokens   int     `yaml:"maxTokens"`   // generation token cap, also scales progress
	Temperature float32 `yaml:"temperature"` // sampling temperature
	HTTPTimeout string  `yaml:"httpTimeout"` // per-call bounding timeout, e.g. "120s"
}

// ChunkingConfig fixes the splitting policy for ingestion.
type ChunkingConfig struct {
	ChunkSize    int `yaml:"chunkSize"`    // maximum chunk length in characters
	ChunkOverlap int `yaml:"chunkOverlap"` // characters shared between adjacent chunks
}

// RetrievalConfig fixes the defaults for similarity search.
type RetrievalConfig struct {
	Threshold float64 `yaml:"threshold"` // minimum similarity in [0,1]
	TopK      int     `yaml:"topK"`      // maximum number of records returned
}

// MilvusConfig configures the Milvus connection and collection.
type MilvusConfig struct {
	Address    string `yaml:"address"`    // Milvus service address
	Collection string `yaml:"collection"` // collection name holding the records
}

// VectorStoreConfig selects the vector store backend.
type VectorStoreConfig struct {
	Provider string       `yaml:"provider"` // "milvus" or "memory"
	Milvus   MilvusConfig `yaml:"milvus"`   // Milvus settings when provider is "milvus"
}

// AppConfig is the root of the YAML configuration file.
type AppConfig struct {
	App         AppInfo           `yaml:"app"`
	Logger      LoggerConfig      `yaml:"logger"`
	Server      ServerConfig      `yaml:"server"`
	Embedding   EmbeddingConfig   `yaml:"embedding"`
	LLM         LLMConfig         `yaml:"llm"`
	Chunking    ChunkingConfig    `yaml:"chunking"`
	Retrieval   RetrievalConfig   `yaml:"retrieval"`
	VectorStore VectorStoreConfig `yaml:"vectorStore"`
}

// LoadConfig reads and parses the YAML configuration file at path.
// Provider API keys left empty in the file are taken from the environment,
// so secrets never need to live in the config file itself.
func LoadConfig(path string) (*AppConfig, error) {
	yamlFile, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(yamlFile, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file '%s': %w", path, err)
	}

	if cfg.Embedding.APIKey == "" {
		cfg.Embedding.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
	}

	return &cfg, nil
}
