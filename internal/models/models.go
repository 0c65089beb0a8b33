package models

import (
	"strconv"
	"time"
)

// Chunk is one overlapping word window of a source document, the unit that
// gets embedded, stored and retrieved.
type Chunk struct {
	Content   string
	Index     int // position within a single ingestion, starting at 0
	Size      int // number of words in this window
	StartWord int
	EndWord   int
	Metadata  Metadata
}

// Metadata describes where a chunk came from. File ingestion fills the file
// fields, URL ingestion the web fields; Extra carries caller-supplied tags
// such as a topic label.
type Metadata struct {
	FileName     string
	FilePath     string
	SourceURL    string
	Extension    string
	ContentType  string
	Title        string
	Size         int64
	ModifiedTime time.Time
	Extra        map[string]string
}

// Flatten renders the metadata as the flat string map the vector store
// accepts. Numbers become decimal strings, zero-valued fields are omitted,
// and the typed fields win over Extra on key collisions.
func (m Metadata) Flatten() map[string]string {
	flat := make(map[string]string, len(m.Extra)+8)
	for k, v := range m.Extra {
		flat[k] = v
	}
	set := func(k, v string) {
		if v != "" {
			flat[k] = v
		}
	}
	set("file_name", m.FileName)
	set("file_path", m.FilePath)
	set("source_url", m.SourceURL)
	set("extension", m.Extension)
	set("content_type", m.ContentType)
	set("title", m.Title)
	if m.Size > 0 {
		flat["size"] = strconv.FormatInt(m.Size, 10)
	}
	if !m.ModifiedTime.IsZero() {
		flat["modified_time"] = strconv.FormatInt(m.ModifiedTime.Unix(), 10)
	}
	return flat
}

// SearchResult is one retrieved chunk. Distance is cosine distance, so lower
// means more similar.
type SearchResult struct {
	ID       string
	Content  string
	Metadata map[string]string
	Distance float32
}

// Stats describes the state of the backing collection.
type Stats struct {
	CollectionName string
	DocumentCount  int
	EmbeddingModel string
}
