package document

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Document is the result of processing one source: the extracted plain text
// plus everything known about where it came from. File ingestion fills the
// file fields, URL ingestion fills URL, Title, StatusCode and ContentType.
type Document struct {
	FilePath     string
	FileName     string
	Extension    string
	Content      string
	Size         int64
	ModifiedTime time.Time

	URL         string
	Title       string
	StatusCode  int
	ContentType string
}

var supportedFormats = map[string]bool{
	".txt":  true,
	".md":   true,
	".pdf":  true,
	".docx": true,
	".html": true,
	".xlsx": true,
}

// Supported reports whether files with the given extension (leading dot,
// any case) can be processed.
func Supported(ext string) bool {
	return supportedFormats[strings.ToLower(ext)]
}

// Processor turns files, directories and URLs into Documents by dispatching
// to format-specific text extractors.
type Processor struct {
	client *http.Client
}

// NewProcessor returns a Processor whose URL fetches time out after
// fetchTimeout seconds.
func NewProcessor(fetchTimeoutSec int) *Processor {
	if fetchTimeoutSec <= 0 {
		fetchTimeoutSec = 30
	}
	return &Processor{
		client: &http.Client{Timeout: time.Duration(fetchTimeoutSec) * time.Second},
	}
}

// ProcessFile extracts the text of a single file. The error is ErrNotFound
// for missing paths, ErrUnsupportedFormat for unknown extensions and an
// *ExtractionError when the file exists but cannot be parsed.
func (p *Processor) ProcessFile(path string) (*Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("file %s: %w", path, ErrNotFound)
		}
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory, not a file", path)
	}

	ext := strings.ToLower(filepath.Ext(path))
	if !Supported(ext) {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	log.Debug().Str("path", path).Str("format", ext).Msg("processing file")

	var content string
	switch ext {
	case ".txt":
		content, err = extractText(path)
	case ".md":
		content, err = extractMarkdown(path)
	case ".pdf":
		content, err = extractPDF(path)
	case ".docx":
		content, err = extractDOCX(path)
	case ".html":
		content, err = extractHTML(path)
	case ".xlsx":
		content, err = extractXLSX(path)
	}
	if err != nil {
		return nil, err
	}

	return &Document{
		FilePath:     path,
		FileName:     filepath.Base(path),
		Extension:    ext,
		Content:      content,
		Size:         info.Size(),
		ModifiedTime: info.ModTime(),
	}, nil
}

// ProcessDirectory walks dir and processes every supported file under it.
// Files that fail to parse are logged and skipped, so one bad document does
// not abort the batch.
func (p *Processor) ProcessDirectory(dir string) ([]*Document, error) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("directory %s: %w", dir, ErrNotFound)
	}

	var docs []*Document
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("skipping unreadable entry")
			return nil
		}
		if d.IsDir() || !Supported(filepath.Ext(path)) {
			return nil
		}
		doc, perr := p.ProcessFile(path)
		if perr != nil {
			log.Error().Err(perr).Str("path", path).Msg("failed to process file")
			return nil
		}
		docs = append(docs, doc)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", dir, err)
	}

	log.Info().Int("count", len(docs)).Str("directory", dir).Msg("processed directory")
	return docs, nil
}
