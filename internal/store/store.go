package store

import (
	"context"
	"fmt"
	"runtime"
	"strconv"

	"github.com/google/uuid"
	"github.com/philippgille/chromem-go"
	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/embeddings"

	"github.com/naveenvivek/aiagentrag/internal/config"
	"github.com/naveenvivek/aiagentrag/internal/models"
)

// Store wraps one chromem-go collection. Ranking is cosine distance, and a
// collection must only ever see vectors from one embedding model, so the
// model is fixed at construction and recorded in the collection metadata.
type Store struct {
	db         *chromem.DB
	collection *chromem.Collection
	embedder   embeddings.Embedder
	name       string
	model      string
	compress   bool
}

// New opens the persistent database under cfg.Store.PersistDirectory and the
// configured collection inside it, creating both as needed. An empty persist
// directory selects the in-memory database.
func New(cfg *config.Config, embedder embeddings.Embedder) (*Store, error) {
	var (
		db  *chromem.DB
		err error
	)
	if cfg.Store.PersistDirectory == "" {
		db = chromem.NewDB()
	} else {
		db, err = chromem.NewPersistentDB(cfg.Store.PersistDirectory, cfg.Store.Compress)
		if err != nil {
			return nil, fmt.Errorf("opening vector database: %w", err)
		}
	}

	s := &Store{
		db:       db,
		embedder: embedder,
		name:     cfg.Store.Collection,
		model:    cfg.Embedding.Model,
		compress: cfg.Store.Compress,
	}
	if err := s.open(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) open() error {
	c, err := s.db.GetOrCreateCollection(s.name, map[string]string{"embedding_model": s.model}, s.embeddingFunc())
	if err != nil {
		return fmt.Errorf("opening collection %s: %w", s.name, err)
	}
	s.collection = c
	return nil
}

func (s *Store) embeddingFunc() chromem.EmbeddingFunc {
	return func(ctx context.Context, text string) ([]float32, error) {
		return s.embedder.EmbedQuery(ctx, text)
	}
}

// Add embeds the chunk contents in one batch call and inserts them under
// fresh ids, which are returned in chunk order. An empty slice is a no-op
// and never reaches the embedder. Chunks with empty content are rejected.
func (s *Store) Add(ctx context.Context, chunks []models.Chunk) ([]string, error) {
	if len(chunks) == 0 {
		return nil, nil
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		if c.Content == "" {
			return nil, fmt.Errorf("chunk %d has empty content", i)
		}
		texts[i] = c.Content
	}

	vectors, err := s.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embedding %d chunks: %w", len(chunks), err)
	}
	if len(vectors) != len(chunks) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d chunks", len(vectors), len(chunks))
	}

	ids := make([]string, len(chunks))
	docs := make([]chromem.Document, len(chunks))
	for i, c := range chunks {
		meta := c.Metadata.Flatten()
		meta["chunk_index"] = strconv.Itoa(c.Index)
		meta["chunk_size"] = strconv.Itoa(c.Size)
		meta["start_word_index"] = strconv.Itoa(c.StartWord)
		meta["end_word_index"] = strconv.Itoa(c.EndWord)

		ids[i] = uuid.NewString()
		docs[i] = chromem.Document{
			ID:        ids[i],
			Content:   c.Content,
			Metadata:  meta,
			Embedding: vectors[i],
		}
	}

	if err := s.collection.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return nil, fmt.Errorf("adding documents: %w", err)
	}

	log.Info().Int("count", len(docs)).Str("collection", s.name).Msg("added documents")
	return ids, nil
}

// Search embeds the query and returns up to k stored chunks ordered by
// ascending distance. filter restricts candidates to entries whose metadata
// matches every given key exactly; nil means no restriction. Searching an
// empty collection returns no results and no error, and k is capped at the
// collection size.
func (s *Store) Search(ctx context.Context, query string, k int, filter map[string]string) ([]models.SearchResult, error) {
	if k <= 0 {
		return nil, fmt.Errorf("k must be positive, got %d", k)
	}
	count := s.collection.Count()
	if count == 0 {
		return nil, nil
	}
	if k > count {
		k = count
	}

	vector, err := s.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	results, err := s.collection.QueryWithOptions(ctx, chromem.QueryOptions{
		QueryEmbedding: vector,
		NResults:       k,
		Where:          filter,
	})
	if err != nil {
		return nil, fmt.Errorf("querying collection: %w", err)
	}

	out := make([]models.SearchResult, len(results))
	for i, r := range results {
		out[i] = models.SearchResult{
			ID:       r.ID,
			Content:  r.Content,
			Metadata: r.Metadata,
			Distance: 1 - r.Similarity,
		}
	}

	log.Debug().Int("results", len(out)).Str("collection", s.name).Msg("similarity search done")
	return out, nil
}

// Delete removes entries by id. Ids that are not present are ignored.
func (s *Store) Delete(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	if err := s.collection.Delete(ctx, nil, nil, ids...); err != nil {
		return fmt.Errorf("deleting documents: %w", err)
	}
	log.Info().Int("count", len(ids)).Str("collection", s.name).Msg("deleted documents")
	return nil
}

// DeleteWhere removes every entry whose metadata matches all of where
// exactly and reports how many were removed.
func (s *Store) DeleteWhere(ctx context.Context, where map[string]string) (int, error) {
	if len(where) == 0 {
		return 0, fmt.Errorf("delete filter must not be empty")
	}
	before := s.collection.Count()
	if before == 0 {
		return 0, nil
	}
	if err := s.collection.Delete(ctx, where, nil); err != nil {
		return 0, fmt.Errorf("deleting by filter: %w", err)
	}
	removed := before - s.collection.Count()
	if removed > 0 {
		log.Info().Int("count", removed).Str("collection", s.name).Msg("deleted documents by filter")
	}
	return removed, nil
}

// Clear drops the collection and recreates it empty.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.db.DeleteCollection(s.name); err != nil {
		return fmt.Errorf("dropping collection %s: %w", s.name, err)
	}
	if err := s.open(); err != nil {
		return err
	}
	log.Info().Str("collection", s.name).Msg("cleared collection")
	return nil
}

// Count returns the number of stored chunks.
func (s *Store) Count() int {
	return s.collection.Count()
}

// Stats describes the backing collection.
func (s *Store) Stats() models.Stats {
	return models.Stats{
		CollectionName: s.name,
		DocumentCount:  s.collection.Count(),
		EmbeddingModel: s.model,
	}
}

// Export writes the collection to a single backup file. An empty key writes
// the backup unencrypted.
func (s *Store) Export(path, encryptionKey string) error {
	if err := s.db.ExportToFile(path, s.compress, encryptionKey, s.name); err != nil {
		return fmt.Errorf("exporting collection %s: %w", s.name, err)
	}
	log.Info().Str("path", path).Str("collection", s.name).Msg("exported collection")
	return nil
}

// Import restores a collection previously written by Export, replacing the
// in-memory handle with the imported one.
func (s *Store) Import(path, encryptionKey string) error {
	if err := s.db.ImportFromFile(path, encryptionKey, s.name); err != nil {
		return fmt.Errorf("importing collection %s: %w", s.name, err)
	}
	c := s.db.GetCollection(s.name, s.embeddingFunc())
	if c == nil {
		return fmt.Errorf("collection %s missing after import", s.name)
	}
	s.collection = c
	log.Info().Str("path", path).Str("collection", s.name).Msg("imported collection")
	return nil
}
