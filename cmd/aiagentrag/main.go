package main

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/naveenvivek/aiagentrag/internal/config"
	"github.com/naveenvivek/aiagentrag/internal/embedding"
	"github.com/naveenvivek/aiagentrag/internal/logging"
	"github.com/naveenvivek/aiagentrag/internal/models"
	"github.com/naveenvivek/aiagentrag/internal/pipeline"
	"github.com/naveenvivek/aiagentrag/internal/store"
)

const defaultConfigPath = "./configs/config.yaml"

func main() {
	_ = godotenv.Load()
	_ = logging.Setup(config.LogConfig{})

	configPath := flag.String("config", defaultConfigPath, "Path to the config file")
	text := flag.String("text", "", "Raw text content to add")
	file := flag.String("file", "", "Path to a document file to add")
	dir := flag.String("dir", "", "Directory of documents to add")
	url := flag.String("url", "", "URL to fetch and add")
	search := flag.String("search", "", "Search query")
	k := flag.Int("k", 5, "Number of search results")
	showContext := flag.Bool("context", false, "Print the formatted context for the search query")
	stats := flag.Bool("stats", false, "Show collection statistics")
	clearAll := flag.Bool("clear", false, "Remove all documents from the collection")
	deleteSource := flag.String("delete-source", "", "Delete documents by file path or URL")
	collection := flag.String("collection", "", "Collection name (overrides config)")
	recursive := flag.Bool("recursive", true, "Recurse into subdirectories with -dir")
	exportPath := flag.String("export", "", "Export the collection to a backup file")
	importPath := flag.String("import", "", "Import a collection from a backup file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Error loading config")
	}
	if *collection != "" {
		cfg.Store.Collection = *collection
	}
	if err := logging.Setup(cfg.Log); err != nil {
		log.Fatal().Err(err).Msg("Error configuring logging")
	}

	if *text == "" && *file == "" && *dir == "" && *url == "" && *search == "" &&
		*deleteSource == "" && *exportPath == "" && *importPath == "" && !*stats && !*clearAll {
		flag.Usage()
		return
	}

	embedder, err := embedding.New(cfg.Embedding)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing embedder")
	}
	st, err := store.New(cfg, embedder)
	if err != nil {
		log.Fatal().Err(err).Msg("Error opening vector store")
	}
	rag, err := pipeline.New(cfg, st)
	if err != nil {
		log.Fatal().Err(err).Msg("Error building pipeline")
	}

	ctx := context.Background()

	if *importPath != "" {
		if err := st.Import(*importPath, cfg.Store.EncryptionKey); err != nil {
			log.Fatal().Err(err).Msg("Error importing collection")
		}
		fmt.Printf("Imported collection %s from %s\n", cfg.Store.Collection, *importPath)
	}

	if *clearAll {
		if err := rag.Clear(ctx); err != nil {
			log.Fatal().Err(err).Msg("Error clearing collection")
		}
		fmt.Printf("Cleared collection %s\n", cfg.Store.Collection)
	}

	if *text != "" {
		ids, err := rag.AddText(ctx, *text, nil)
		if err != nil {
			log.Fatal().Err(err).Msg("Error adding text content")
		}
		fmt.Printf("Added %d chunks from text content\n", len(ids))
	}

	if *file != "" {
		ids, err := rag.AddFile(ctx, *file)
		if err != nil {
			log.Fatal().Err(err).Msg("Error adding file")
		}
		fmt.Printf("Added %d chunks from file: %s\n", len(ids), *file)
	}

	if *dir != "" {
		ids, err := rag.AddDirectory(ctx, *dir, *recursive)
		if err != nil {
			log.Fatal().Err(err).Msg("Error adding directory")
		}
		fmt.Printf("Added %d chunks from directory: %s\n", len(ids), *dir)
	}

	if *url != "" {
		ids, err := rag.AddURL(ctx, *url)
		if err != nil {
			log.Fatal().Err(err).Msg("Error adding URL")
		}
		fmt.Printf("Added %d chunks from URL: %s\n", len(ids), *url)
	}

	if *deleteSource != "" {
		removed, err := rag.DeleteBySource(ctx, *deleteSource)
		if err != nil {
			log.Fatal().Err(err).Msg("Error deleting by source")
		}
		fmt.Printf("Deleted %d chunks from source: %s\n", removed, *deleteSource)
	}

	if *search != "" {
		runSearch(ctx, rag, *search, *k, *showContext)
	}

	if *stats {
		printStats(rag.Stats())
	}

	if *exportPath != "" {
		if err := st.Export(*exportPath, cfg.Store.EncryptionKey); err != nil {
			log.Fatal().Err(err).Msg("Error exporting collection")
		}
		fmt.Printf("Exported collection %s to %s\n", cfg.Store.Collection, *exportPath)
	}
}

func runSearch(ctx context.Context, rag *pipeline.Pipeline, query string, k int, showContext bool) {
	results, err := rag.Search(ctx, query, k, nil)
	if err != nil {
		log.Fatal().Err(err).Msg("Error searching")
	}

	fmt.Printf("\nSearch results for: %q\n", query)
	fmt.Println(strings.Repeat("-", 50))

	if len(results) == 0 {
		fmt.Println("No results found.")
	}
	for i, r := range results {
		content := r.Content
		if len(content) > 200 {
			content = content[:200] + "..."
		}
		source := r.Metadata["file_name"]
		if source == "" {
			source = r.Metadata["source_url"]
		}
		if source == "" {
			source = "unknown"
		}
		fmt.Printf("\n[Result %d]\n", i+1)
		fmt.Printf("Source: %s\n", source)
		fmt.Printf("Score: %.4f\n", 1-r.Distance)
		fmt.Printf("Content: %s\n", content)
	}

	if showContext {
		formatted, err := rag.ContextForQuery(ctx, query, k)
		if err != nil {
			log.Fatal().Err(err).Msg("Error building context")
		}
		fmt.Printf("\nContext for query:\n")
		fmt.Println(strings.Repeat("-", 50))
		fmt.Println(formatted)
	}
}

func printStats(s models.Stats) {
	fmt.Println("\nRAG system statistics")
	fmt.Println(strings.Repeat("-", 30))
	fmt.Printf("Collection: %s\n", s.CollectionName)
	fmt.Printf("Documents: %d\n", s.DocumentCount)
	fmt.Printf("Embedding model: %s\n", s.EmbeddingModel)
}
