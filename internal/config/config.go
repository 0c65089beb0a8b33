package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

type Config struct {
	RAG       RAGConfig       `yaml:"rag"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Store     StoreConfig     `yaml:"store"`
	Log       LogConfig       `yaml:"log"`
}

type RAGConfig struct {
	ChunkSize    int `yaml:"chunk_size" validate:"gt=0"`
	ChunkOverlap int `yaml:"chunk_overlap" validate:"gte=0,ltfield=ChunkSize"`
	// FetchTimeout bounds URL fetches, in seconds.
	FetchTimeout int `yaml:"fetch_timeout" validate:"gt=0"`
}

type EmbeddingConfig struct {
	Provider string `yaml:"provider" validate:"oneof=ollama openai"`
	Model    string `yaml:"model" validate:"required"`
	BaseURL  string `yaml:"base_url"`
	APIKey   string `yaml:"api_key"`
}

type StoreConfig struct {
	// PersistDirectory holds the on-disk database. Empty selects the
	// in-memory database.
	PersistDirectory string `yaml:"persist_directory"`
	Collection       string `yaml:"collection" validate:"required"`
	Compress         bool   `yaml:"compress"`
	EncryptionKey    string `yaml:"encryption_key"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	// File receives a copy of the log stream in addition to the console.
	File string `yaml:"file"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		RAG: RAGConfig{
			ChunkSize:    1000,
			ChunkOverlap: 200,
			FetchTimeout: 30,
		},
		Embedding: EmbeddingConfig{
			Provider: "ollama",
			Model:    "nomic-embed-text",
			BaseURL:  "http://localhost:11434",
		},
		Store: StoreConfig{
			PersistDirectory: "./data/chromem_db",
			Collection:       "documents",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load builds the configuration in three layers: defaults, then the YAML
// file at path if it exists, then environment variables. A missing file is
// not an error, a malformed one is.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config file %s: %w", path, err)
			}
		case errors.Is(err, fs.ErrNotExist):
		default:
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	envStr("EMBEDDING_PROVIDER", &c.Embedding.Provider)
	envStr("EMBEDDING_MODEL", &c.Embedding.Model)
	envStr("OLLAMA_BASE_URL", &c.Embedding.BaseURL)
	envStr("OPENAI_API_KEY", &c.Embedding.APIKey)
	if c.Embedding.Provider == "openai" {
		envStr("OPENAI_BASE_URL", &c.Embedding.BaseURL)
	}
	envStr("PERSIST_DIRECTORY", &c.Store.PersistDirectory)
	envStr("COLLECTION_NAME", &c.Store.Collection)
	envStr("ENCRYPTION_KEY", &c.Store.EncryptionKey)
	envInt("CHUNK_SIZE", &c.RAG.ChunkSize)
	envInt("CHUNK_OVERLAP", &c.RAG.ChunkOverlap)
	envInt("FETCH_TIMEOUT", &c.RAG.FetchTimeout)
	envStr("LOG_LEVEL", &c.Log.Level)
	envStr("LOG_FILE", &c.Log.File)
}

func envStr(key string, target *string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*target = v
	}
}

func envInt(key string, target *int) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*target = n
		}
	}
}

// Validate rejects configurations the pipeline cannot run with. The overlap
// check is spelled out separately because a stride of zero or less would make
// the chunker loop forever.
func (c *Config) Validate() error {
	if c.RAG.ChunkOverlap >= c.RAG.ChunkSize {
		return fmt.Errorf("chunk_overlap (%d) must be smaller than chunk_size (%d)", c.RAG.ChunkOverlap, c.RAG.ChunkSize)
	}
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
