package document

import (
	"archive/zip"
	"bytes"
	"context"
	"testing"
)

func zipWith(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

func TestExtractTXT(t *testing.T) {
	e := NewExtractor()
	units := e.Extract(context.Background(), []byte("The sky is blue.\n"), "text/plain", "sky.txt")
	if len(units) != 1 {
		t.Fatalf("expected 1 unit, got %d", len(units))
	}
	if units[0].Text != "The sky is blue." {
		t.Fatalf("unexpected text: %q", units[0].Text)
	}
	if units[0].Filename != "sky.txt" {
		t.Fatalf("unexpected filename: %q", units[0].Filename)
	}
}

func TestExtractDOCX(t *testing.T) {
	data := zipWith(t, map[string]string{
		"word/document.xml": `<w:document><w:body><w:p><w:r><w:t>Hello</w:t></w:r></w:p><w:p><w:r><w:t>world</w:t></w:r></w:p></w:body></w:document>`,
	})

	e := NewExtractor()
	units := e.Extract(context.Background(), data, "", "notes.docx")
	if len(units) != 1 {
		t.Fatalf("expected 1 unit, got %d", len(units))
	}
	if units[0].Text != "Hello world" {
		t.Fatalf("unexpected text: %q", units[0].Text)
	}
	if units[0].Page != 0 {
		t.Fatalf("DOCX has no page granularity, got page %d", units[0].Page)
	}
}

func TestExtractPPTX(t *testing.T) {
	data := zipWith(t, map[string]string{
		"ppt/slides/slide1.xml": `<p:sld><a:t>First slide</a:t></p:sld>`,
		"ppt/slides/slide2.xml": `<p:sld><a:t>Second slide</a:t></p:sld>`,
		"ppt/media/image1.png":  "binary",
	})

	e := NewExtractor()
	units := e.Extract(context.Background(), data, "", "deck.pptx")
	if len(units) != 1 {
		t.Fatalf("expected 1 unit, got %d", len(units))
	}
	if units[0].Text != "First slide\nSecond slide" {
		t.Fatalf("unexpected text: %q", units[0].Text)
	}
}

func TestExtractNeverFails(t *testing.T) {
	e := NewExtractor()
	garbage := []byte{0xde, 0xad, 0xbe, 0xef}

	cases := []struct {
		name     string
		mime     string
		filename string
	}{
		{"unsupported type", "application/x-msdownload", "tool.exe"},
		{"corrupt pdf", "application/pdf", "broken.pdf"},
		{"corrupt docx", "", "broken.docx"},
		{"corrupt pptx", "", "broken.pptx"},
		{"corrupt image", "image/png", "broken.png"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			units := e.Extract(context.Background(), garbage, tc.mime, tc.filename)
			if len(units) != 0 {
				t.Fatalf("expected no units, got %d", len(units))
			}
		})
	}
}

func TestDetectKind(t *testing.T) {
	cases := []struct {
		mime, filename, want string
	}{
		{"application/pdf", "x", "pdf"},
		{"", "report.PDF", "pdf"},
		{"application/vnd.openxmlformats-officedocument.wordprocessingml.document", "x", "docx"},
		{"", "deck.pptx", "pptx"},
		{"text/plain; charset=utf-8", "x", "txt"},
		{"image/jpeg", "x", "image"},
		{"", "scan.PNG", "image"},
		{"application/zip", "data.zip", ""},
	}
	for _, tc := range cases {
		if got := detectKind(tc.mime, tc.filename); got != tc.want {
			t.Fatalf("detectKind(%q, %q) = %q, want %q", tc.mime, tc.filename, got, tc.want)
		}
	}
}
