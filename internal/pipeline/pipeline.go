package pipeline

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/naveenvivek/aiagentrag/internal/chunker"
	"github.com/naveenvivek/aiagentrag/internal/config"
	"github.com/naveenvivek/aiagentrag/internal/document"
	"github.com/naveenvivek/aiagentrag/internal/models"
	"github.com/naveenvivek/aiagentrag/internal/store"
)

// NoContextFound is what ContextForQuery returns when the search comes back
// empty.
const NoContextFound = "No relevant context found."

// Pipeline wires the document processor, the chunker and the vector store
// into the two paths the system offers: ingest (process, chunk, embed,
// store) and retrieve (search, format context).
type Pipeline struct {
	processor *document.Processor
	chunker   *chunker.Chunker
	store     *store.Store
}

// New builds a Pipeline from the configured chunk geometry and fetch
// timeout.
func New(cfg *config.Config, st *store.Store) (*Pipeline, error) {
	ch, err := chunker.New(cfg.RAG.ChunkSize, cfg.RAG.ChunkOverlap)
	if err != nil {
		return nil, err
	}
	return &Pipeline{
		processor: document.NewProcessor(cfg.RAG.FetchTimeout),
		chunker:   ch,
		store:     st,
	}, nil
}

// AddText chunks raw text and stores it. extra carries caller tags that
// become filterable metadata, e.g. a topic label.
func (p *Pipeline) AddText(ctx context.Context, content string, extra map[string]string) ([]string, error) {
	meta := models.Metadata{
		ContentType: "raw_text",
		Size:        int64(len(content)),
		Extra:       extra,
	}
	ids, err := p.store.Add(ctx, p.chunker.Chunk(content, meta))
	if err != nil {
		return nil, err
	}
	log.Info().Int("chunks", len(ids)).Msg("added text content")
	return ids, nil
}

// AddFile processes one file and stores its chunks.
func (p *Pipeline) AddFile(ctx context.Context, path string) ([]string, error) {
	doc, err := p.processor.ProcessFile(path)
	if err != nil {
		return nil, err
	}
	meta := models.Metadata{
		FileName:     doc.FileName,
		FilePath:     doc.FilePath,
		Extension:    doc.Extension,
		Size:         doc.Size,
		ModifiedTime: doc.ModifiedTime,
	}
	ids, err := p.store.Add(ctx, p.chunker.Chunk(doc.Content, meta))
	if err != nil {
		return nil, err
	}
	log.Info().Int("chunks", len(ids)).Str("path", path).Msg("added file")
	return ids, nil
}

// AddURL fetches a page and stores its visible text.
func (p *Pipeline) AddURL(ctx context.Context, url string) ([]string, error) {
	doc, err := p.processor.ProcessURL(ctx, url)
	if err != nil {
		return nil, err
	}
	meta := models.Metadata{
		SourceURL:   doc.URL,
		Title:       doc.Title,
		ContentType: "web_content",
		Size:        int64(len(doc.Content)),
	}
	ids, err := p.store.Add(ctx, p.chunker.Chunk(doc.Content, meta))
	if err != nil {
		return nil, err
	}
	log.Info().Int("chunks", len(ids)).Str("url", url).Msg("added web content")
	return ids, nil
}

// AddDirectory ingests every supported file in dir, descending into
// subdirectories when recursive is set. A file that fails to process is
// logged and skipped, so the rest of the batch still lands; the returned
// ids cover the files that made it.
func (p *Pipeline) AddDirectory(ctx context.Context, dir string, recursive bool) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("directory %s: %w", dir, document.ErrNotFound)
	}

	var all []string
	ingest := func(path string) {
		if !document.Supported(filepath.Ext(path)) {
			return
		}
		ids, err := p.AddFile(ctx, path)
		if err != nil {
			log.Error().Err(err).Str("path", path).Msg("failed to ingest file")
			return
		}
		all = append(all, ids...)
	}

	if recursive {
		err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				log.Warn().Err(err).Str("path", path).Msg("skipping unreadable entry")
				return nil
			}
			if !d.IsDir() {
				ingest(path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walking %s: %w", dir, err)
		}
	} else {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", dir, err)
		}
		for _, e := range entries {
			if !e.IsDir() {
				ingest(filepath.Join(dir, e.Name()))
			}
		}
	}

	log.Info().Int("chunks", len(all)).Str("directory", dir).Msg("ingested directory")
	return all, nil
}

// Search returns up to k stored chunks relevant to query, best match first.
func (p *Pipeline) Search(ctx context.Context, query string, k int, filter map[string]string) ([]models.SearchResult, error) {
	return p.store.Search(ctx, query, k, filter)
}

// ContextForQuery formats the top k matches as a context block for a
// downstream generator. An empty result set yields the NoContextFound
// sentinel, not an error.
func (p *Pipeline) ContextForQuery(ctx context.Context, query string, k int) (string, error) {
	results, err := p.store.Search(ctx, query, k, nil)
	if err != nil {
		return "", err
	}
	if len(results) == 0 {
		return NoContextFound, nil
	}

	parts := make([]string, len(results))
	for i, r := range results {
		source := r.Metadata["file_name"]
		if source == "" {
			source = r.Metadata["source_url"]
		}
		if source != "" {
			parts[i] = fmt.Sprintf("[Context %d] (Source: %s):\n%s", i+1, source, r.Content)
		} else {
			parts[i] = fmt.Sprintf("[Context %d]:\n%s", i+1, r.Content)
		}
	}
	return strings.Join(parts, "\n\n"), nil
}

// DeleteBySource removes every chunk that came from the given file path or
// URL and reports how many entries went away.
func (p *Pipeline) DeleteBySource(ctx context.Context, source string) (int, error) {
	byPath, err := p.store.DeleteWhere(ctx, map[string]string{"file_path": source})
	if err != nil {
		return 0, err
	}
	byURL, err := p.store.DeleteWhere(ctx, map[string]string{"source_url": source})
	if err != nil {
		return byPath, err
	}
	removed := byPath + byURL
	log.Info().Int("chunks", removed).Str("source", source).Msg("deleted by source")
	return removed, nil
}

// Stats reports the backing collection's state.
func (p *Pipeline) Stats() models.Stats {
	return p.store.Stats()
}

// Clear removes every stored chunk.
func (p *Pipeline) Clear(ctx context.Context) error {
	return p.store.Clear(ctx)
}
