package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
app:
  name: "docuchat"
  version: "0.1.0"
  environment: "test"
logger:
  level: "debug"
server:
  address: ":9090"
  uploadDir: "staging"
embedding:
  provider: "openai"
  model: "text-embedding-3-small"
  dimension: 1536
  httpTimeout: "60s"
llm:
  provider: "ollama"
  model: "llama3"
  baseURL: "http://localhost:11434"
  maxTokens: 1000
  temperature: 0.5
chunking:
  chunkSize: 1000
  chunkOverlap: 200
retrieval:
  threshold: 0.78
  topK: 10
vectorStore:
  provider: "memory"
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "docuchat", cfg.App.Name)
	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.Equal(t, ":9090", cfg.Server.Address)
	assert.Equal(t, "openai", cfg.Embedding.Provider)
	assert.Equal(t, 1536, cfg.Embedding.Dimension)
	assert.Equal(t, "ollama", cfg.LLM.Provider)
	assert.Equal(t, float32(0.5), cfg.LLM.Temperature)
	assert.Equal(t, 1000, cfg.Chunking.ChunkSize)
	assert.Equal(t, 200, cfg.Chunking.ChunkOverlap)
	assert.Equal(t, 0.78, cfg.Retrieval.Threshold)
	assert.Equal(t, 10, cfg.Retrieval.TopK)
	assert.Equal(t, "memory", cfg.VectorStore.Provider)
}

func TestLoadConfig_APIKeyFromEnvironment(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-from-env")

	cfg, err := LoadConfig(writeConfig(t, sampleConfig))
	require.NoError(t, err)
	assert.Equal(t, "sk-from-env", cfg.Embedding.APIKey)
	assert.Equal(t, "sk-from-env", cfg.LLM.APIKey)
}

func TestLoadConfig_ExplicitKeyWins(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-from-env")

	withKey := sampleConfig + `
`
	withKey = strings.Replace(withKey, `provider: "openai"`, `provider: "openai"
  apiKey: "sk-explicit"`, 1)
	cfg, err := LoadConfig(writeConfig(t, withKey))
	require.NoError(t, err)
	// Only empty keys fall back to the environment.
	assert.Equal(t, "sk-explicit", cfg.Embedding.APIKey)
	assert.Equal(t, "sk-from-env", cfg.LLM.APIKey)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadConfig_MalformedYAML(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "app: [unclosed"))
	require.Error(t, err)
}
