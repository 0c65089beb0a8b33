package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nothing.yaml"))
	if err != nil {
		t.Fatalf("missing config file should not be an error: %v", err)
	}
	if cfg.RAG.ChunkSize != 1000 || cfg.RAG.ChunkOverlap != 200 {
		t.Errorf("got chunk_size=%d overlap=%d, want defaults 1000/200", cfg.RAG.ChunkSize, cfg.RAG.ChunkOverlap)
	}
	if cfg.Store.Collection != "documents" {
		t.Errorf("collection = %q, want %q", cfg.Store.Collection, "documents")
	}
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := strings.Join([]string{
		"rag:",
		"  chunk_size: 64",
		"  chunk_overlap: 16",
		"embedding:",
		"  provider: openai",
		"  model: text-embedding-3-small",
		"store:",
		"  collection: papers",
	}, "\n")
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.RAG.ChunkSize != 64 || cfg.RAG.ChunkOverlap != 16 {
		t.Errorf("got chunk_size=%d overlap=%d, want 64/16", cfg.RAG.ChunkSize, cfg.RAG.ChunkOverlap)
	}
	if cfg.Embedding.Provider != "openai" || cfg.Embedding.Model != "text-embedding-3-small" {
		t.Errorf("embedding config not applied: %+v", cfg.Embedding)
	}
	if cfg.Store.Collection != "papers" {
		t.Errorf("collection = %q, want %q", cfg.Store.Collection, "papers")
	}
	if cfg.RAG.FetchTimeout != 30 {
		t.Errorf("fetch_timeout = %d, want default 30", cfg.RAG.FetchTimeout)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("rag: [not a mapping"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("malformed yaml should be an error")
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("rag:\n  chunk_size: 64\n  chunk_overlap: 16\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CHUNK_SIZE", "128")
	t.Setenv("EMBEDDING_MODEL", "all-minilm")
	t.Setenv("COLLECTION_NAME", "notes")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.RAG.ChunkSize != 128 {
		t.Errorf("chunk_size = %d, want env override 128", cfg.RAG.ChunkSize)
	}
	if cfg.RAG.ChunkOverlap != 16 {
		t.Errorf("chunk_overlap = %d, want file value 16", cfg.RAG.ChunkOverlap)
	}
	if cfg.Embedding.Model != "all-minilm" {
		t.Errorf("model = %q, want env override", cfg.Embedding.Model)
	}
	if cfg.Store.Collection != "notes" {
		t.Errorf("collection = %q, want env override", cfg.Store.Collection)
	}
}

func TestValidateRejectsOverlapNotBelowSize(t *testing.T) {
	for _, tc := range []struct{ size, overlap int }{
		{100, 100},
		{100, 150},
		{1, 1},
	} {
		cfg := Default()
		cfg.RAG.ChunkSize = tc.size
		cfg.RAG.ChunkOverlap = tc.overlap
		if err := cfg.Validate(); err == nil {
			t.Errorf("size=%d overlap=%d should be rejected", tc.size, tc.overlap)
		}
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := Default()
	cfg.RAG.ChunkSize = 0
	if err := cfg.Validate(); err == nil {
		t.Error("chunk_size=0 should be rejected")
	}

	cfg = Default()
	cfg.Embedding.Provider = "bogus"
	if err := cfg.Validate(); err == nil {
		t.Error("unknown provider should be rejected")
	}

	cfg = Default()
	cfg.Embedding.Model = ""
	if err := cfg.Validate(); err == nil {
		t.Error("empty model should be rejected")
	}
}

func TestEnvOverlapRejectedAtLoad(t *testing.T) {
	t.Setenv("CHUNK_SIZE", "50")
	t.Setenv("CHUNK_OVERLAP", "50")
	if _, err := Load(""); err == nil {
		t.Fatal("overlap >= size from env should fail Load")
	}
}
