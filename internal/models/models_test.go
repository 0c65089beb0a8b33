package models

import (
	"testing"
	"time"
)

func TestFlatten(t *testing.T) {
	m := Metadata{
		FileName:     "report.pdf",
		FilePath:     "/docs/report.pdf",
		Extension:    ".pdf",
		Size:         2048,
		ModifiedTime: time.Unix(1700000000, 0),
		Extra:        map[string]string{"topic": "nlp"},
	}
	flat := m.Flatten()

	want := map[string]string{
		"file_name":     "report.pdf",
		"file_path":     "/docs/report.pdf",
		"extension":     ".pdf",
		"size":          "2048",
		"modified_time": "1700000000",
		"topic":         "nlp",
	}
	if len(flat) != len(want) {
		t.Fatalf("got %d keys, want %d: %v", len(flat), len(want), flat)
	}
	for k, v := range want {
		if flat[k] != v {
			t.Errorf("flat[%q] = %q, want %q", k, flat[k], v)
		}
	}
}

func TestFlattenOmitsZeroValues(t *testing.T) {
	flat := Metadata{ContentType: "raw_text", Size: 11}.Flatten()
	for _, k := range []string{"file_name", "file_path", "source_url", "extension", "title", "modified_time"} {
		if _, ok := flat[k]; ok {
			t.Errorf("zero-valued field %q should be absent, got %q", k, flat[k])
		}
	}
	if flat["content_type"] != "raw_text" || flat["size"] != "11" {
		t.Errorf("unexpected map: %v", flat)
	}
}

func TestFlattenTypedFieldsWinOverExtra(t *testing.T) {
	m := Metadata{
		FileName: "real.txt",
		Extra:    map[string]string{"file_name": "spoofed.txt", "topic": "go"},
	}
	flat := m.Flatten()
	if flat["file_name"] != "real.txt" {
		t.Errorf("file_name = %q, want %q", flat["file_name"], "real.txt")
	}
	if flat["topic"] != "go" {
		t.Errorf("topic = %q, want %q", flat["topic"], "go")
	}
}

func TestFlattenEmpty(t *testing.T) {
	if flat := (Metadata{}).Flatten(); len(flat) != 0 {
		t.Errorf("empty metadata should flatten to an empty map, got %v", flat)
	}
}
