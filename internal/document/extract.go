package document

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
	"github.com/rs/zerolog/log"
	"github.com/tealeg/xlsx"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
	"golang.org/x/text/encoding/charmap"
)

// extractText reads a plain-text file, falling back to Latin-1 when the
// bytes are not valid UTF-8.
func extractText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	if !utf8.Valid(data) {
		decoded, derr := charmap.ISO8859_1.NewDecoder().Bytes(data)
		if derr != nil {
			return "", &ExtractionError{Path: path, Format: "text", Err: derr}
		}
		data = decoded
	}
	return string(data), nil
}

// extractMarkdown parses the file and keeps only the text content, so
// heading markers, emphasis asterisks and link targets stay out of the word
// stream.
func extractMarkdown(path string) (string, error) {
	raw, err := extractText(path)
	if err != nil {
		return "", err
	}
	source := []byte(raw)
	root := goldmark.New(goldmark.WithExtensions(extension.GFM)).Parser().Parse(text.NewReader(source))

	var b strings.Builder
	err = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := n.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(source))
			if t.SoftLineBreak() || t.HardLineBreak() {
				b.WriteByte('\n')
			}
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			lines := n.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				b.Write(seg.Value(source))
			}
			return ast.WalkSkipChildren, nil
		default:
			if n.Type() == ast.TypeBlock && b.Len() > 0 {
				b.WriteByte('\n')
			}
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return "", &ExtractionError{Path: path, Format: "markdown", Err: err}
	}
	return b.String(), nil
}

func extractPDF(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", path, err)
	}
	reader, err := pdf.NewReader(f, stat.Size())
	if err != nil {
		return "", &ExtractionError{Path: path, Format: "pdf", Err: err}
	}

	var b strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			log.Warn().Str("path", path).Int("page", i).Msg("skipping null pdf page")
			continue
		}
		pageText, err := pdfPageText(page)
		if err != nil {
			log.Warn().Err(err).Str("path", path).Int("page", i).Msg("failed to extract pdf page")
			continue
		}
		b.WriteString(pageText)
		b.WriteByte('\n')
	}
	return b.String(), nil
}

// pdfPageText wraps GetPlainText because the pdf library panics on some
// malformed content streams.
func pdfPageText(page pdf.Page) (s string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("page extraction panicked: %v", r)
		}
	}()
	return page.GetPlainText(nil)
}

func extractDOCX(path string) (string, error) {
	r, err := docx.ReadDocxFile(path)
	if err != nil {
		return "", &ExtractionError{Path: path, Format: "docx", Err: err}
	}
	defer r.Close()
	return docxText(r.Editable().GetContent()), nil
}

// docxText walks the document XML and collects the character data inside
// <w:t> runs, one line per paragraph. The decoder also resolves entities,
// which plain tag splitting would leave escaped.
func docxText(content string) string {
	dec := xml.NewDecoder(strings.NewReader(content))
	var b strings.Builder
	inText := false
	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				b.WriteByte('\t')
			case "br":
				b.WriteByte('\n')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				b.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				b.Write(t)
			}
		}
	}
	return b.String()
}

func extractHTML(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	content, _, err := htmlText(f)
	if err != nil {
		return "", &ExtractionError{Path: path, Format: "html", Err: err}
	}
	return content, nil
}

// htmlText returns the visible text and the <title> of an HTML document.
// Script, style and noscript subtrees are removed first.
func htmlText(r io.Reader) (content, title string, err error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", "", err
	}
	title = strings.TrimSpace(doc.Find("title").First().Text())
	doc.Find("script, style, noscript").Remove()
	return doc.Text(), title, nil
}

func extractXLSX(path string) (string, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return "", &ExtractionError{Path: path, Format: "xlsx", Err: err}
	}

	var b strings.Builder
	for _, sheet := range f.Sheets {
		b.WriteString("Sheet: ")
		b.WriteString(sheet.Name)
		b.WriteByte('\n')
		for _, row := range sheet.Rows {
			for j, cell := range row.Cells {
				if j > 0 {
					b.WriteByte('\t')
				}
				b.WriteString(cell.String())
			}
			b.WriteByte('\n')
		}
	}
	return b.String(), nil
}
