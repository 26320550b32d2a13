package textextract

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Unit is one extracted piece of text tagged with where it came from.
// Page is 1-based for paged formats and 0 for formats without pages.
type Unit struct {
	Text     string
	Filename string
	Page     int
}

// ExtractPDF returns one unit per page. Pages whose text layer is empty
// still produce a unit with empty Text so the caller can decide to OCR
// them; pages the reader cannot parse are skipped.
func ExtractPDF(data io.ReaderAt, size int64, filename string) ([]Unit, error) {
	reader, err := pdf.NewReader(data, size)
	if err != nil {
		return nil, fmt.Errorf("open PDF: %w", err)
	}

	var units []Unit
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			text = ""
		}
		units = append(units, Unit{
			Text:     strings.TrimSpace(text),
			Filename: filename,
			Page:     i,
		})
	}
	return units, nil
}

// ExtractDOCX concatenates all paragraph text into a single unit.
func ExtractDOCX(data io.ReaderAt, size int64, filename string) (Unit, error) {
	reader, err := zip.NewReader(data, size)
	if err != nil {
		return Unit{}, fmt.Errorf("open DOCX: %w", err)
	}

	for _, f := range reader.File {
		if f.Name != "word/document.xml" {
			continue
		}
		content, err := readZipFile(f)
		if err != nil {
			return Unit{}, fmt.Errorf("read document.xml: %w", err)
		}
		return Unit{Text: stripXMLTags(content), Filename: filename}, nil
	}
	return Unit{}, fmt.Errorf("DOCX has no word/document.xml")
}

// ExtractPPTX concatenates the text of every slide into a single unit.
func ExtractPPTX(data io.ReaderAt, size int64, filename string) (Unit, error) {
	reader, err := zip.NewReader(data, size)
	if err != nil {
		return Unit{}, fmt.Errorf("open PPTX: %w", err)
	}

	var slides []string
	for _, f := range reader.File {
		dir, base := path.Split(f.Name)
		if dir != "ppt/slides/" || !strings.HasPrefix(base, "slide") || !strings.HasSuffix(base, ".xml") {
			continue
		}
		slides = append(slides, f.Name)
	}
	sort.Strings(slides)

	var parts []string
	for _, name := range slides {
		for _, f := range reader.File {
			if f.Name != name {
				continue
			}
			content, err := readZipFile(f)
			if err != nil {
				return Unit{}, fmt.Errorf("read %s: %w", name, err)
			}
			if text := stripXMLTags(content); text != "" {
				parts = append(parts, text)
			}
		}
	}
	return Unit{Text: strings.Join(parts, "\n"), Filename: filename}, nil
}

// ExtractTXT decodes the whole file as UTF-8.
func ExtractTXT(data io.ReaderAt, size int64, filename string) (Unit, error) {
	buf := make([]byte, size)
	if _, err := data.ReadAt(buf, 0); err != nil && err != io.EOF {
		return Unit{}, fmt.Errorf("read TXT: %w", err)
	}
	return Unit{Text: string(bytes.TrimSpace(buf)), Filename: filename}, nil
}

func readZipFile(f *zip.File) (string, error) {
	rc, err := f.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()
	content, err := io.ReadAll(rc)
	if err != nil {
		return "", err
	}
	return string(content), nil
}

// stripXMLTags drops markup and collapses whitespace. Good enough for
// OOXML bodies where all visible text lives between tags.
func stripXMLTags(s string) string {
	var result strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
			result.WriteRune(' ')
		case !inTag:
			result.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(result.String()), " ")
}
