package document

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestProcessURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(`<html><head><title>Release Notes</title>
<script>track();</script><style>body{margin:0}</style></head>
<body>
  <h1>What changed</h1>
  <p>Bug fixes   and
  performance improvements.</p>
</body></html>`))
	}))
	defer srv.Close()

	doc, err := NewProcessor(5).ProcessURL(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("ProcessURL: %v", err)
	}
	if doc.URL != srv.URL {
		t.Errorf("url = %q, want %q", doc.URL, srv.URL)
	}
	if doc.Title != "Release Notes" {
		t.Errorf("title = %q", doc.Title)
	}
	if doc.StatusCode != http.StatusOK {
		t.Errorf("status = %d", doc.StatusCode)
	}
	if !strings.HasPrefix(doc.ContentType, "text/html") {
		t.Errorf("content type = %q", doc.ContentType)
	}
	for _, want := range []string{"What changed", "Bug fixes and performance improvements."} {
		if !strings.Contains(doc.Content, want) {
			t.Errorf("content missing %q: %q", want, doc.Content)
		}
	}
	if strings.Contains(doc.Content, "track()") {
		t.Errorf("script text leaked: %q", doc.Content)
	}
	if strings.Contains(doc.Content, "\n") || strings.Contains(doc.Content, "  ") {
		t.Errorf("whitespace not collapsed: %q", doc.Content)
	}
}

func TestProcessURLNoTitle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body><p>bare page</p></body></html>"))
	}))
	defer srv.Close()

	doc, err := NewProcessor(5).ProcessURL(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("ProcessURL: %v", err)
	}
	if doc.Title != "No title" {
		t.Errorf("title = %q, want %q", doc.Title, "No title")
	}
}

func TestProcessURLBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewProcessor(5).ProcessURL(context.Background(), srv.URL)
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("err = %v, want *FetchError", err)
	}
	if fetchErr.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", fetchErr.StatusCode)
	}
}

func TestProcessURLUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewProcessor(1).ProcessURL(context.Background(), url)
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("err = %v, want *FetchError", err)
	}
	if fetchErr.StatusCode != 0 {
		t.Errorf("status = %d, want 0 for transport failure", fetchErr.StatusCode)
	}
	if fetchErr.Unwrap() == nil {
		t.Error("transport failure should carry the underlying error")
	}
}

func TestCollapseWhitespace(t *testing.T) {
	in := "  Heading  \n\n\n  two  phrases   here \n\ttail  "
	got := collapseWhitespace(in)
	want := "Heading two phrases here tail"
	if got != want {
		t.Errorf("collapseWhitespace = %q, want %q", got, want)
	}
}
