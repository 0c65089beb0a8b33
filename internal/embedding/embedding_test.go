package embedding

import (
	"testing"

	"github.com/naveenvivek/aiagentrag/internal/config"
)

func TestNewUnknownProvider(t *testing.T) {
	_, err := New(config.EmbeddingConfig{Provider: "bogus", Model: "m"})
	if err == nil {
		t.Fatal("unknown provider should be rejected")
	}
}

func TestNewDefaultsToOllama(t *testing.T) {
	cfg := config.EmbeddingConfig{Model: "nomic-embed-text", BaseURL: "http://localhost:11434"}
	for _, provider := range []string{"", "ollama"} {
		cfg.Provider = provider
		if _, err := New(cfg); err != nil {
			t.Errorf("provider %q: %v", provider, err)
		}
	}
}

func TestNewOpenAIRequiresKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	_, err := NewOpenAI(config.EmbeddingConfig{Model: "text-embedding-3-small"})
	if err == nil {
		t.Fatal("missing api key should be an error")
	}
}

func TestNewOpenAIStripsBearerPrefix(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	cfg := config.EmbeddingConfig{
		Provider: "openai",
		Model:    "text-embedding-3-small",
		APIKey:   "Bearer sk-test",
	}
	if _, err := New(cfg); err != nil {
		t.Fatalf("constructing openai embedder: %v", err)
	}
}
