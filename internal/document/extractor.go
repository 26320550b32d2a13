package document

import (
	"bytes"
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/Shreya728/pdfbot/pkg/textextract"
)

// Extractor turns uploaded file bytes into text units. It never returns
// an error: anything unreadable degrades to "no content" with a log
// line, so a bad file can neither fail an upload nor poison the index.
type Extractor struct {
	ocr *OCRService
}

func NewExtractor() *Extractor {
	return &Extractor{ocr: NewOCRService()}
}

func (e *Extractor) Extract(ctx context.Context, data []byte, mimeType, filename string) []textextract.Unit {
	kind := detectKind(mimeType, filename)
	reader := bytes.NewReader(data)
	size := int64(len(data))

	switch kind {
	case "pdf":
		return e.extractPDF(ctx, data, reader, size, filename)

	case "docx":
		unit, err := textextract.ExtractDOCX(reader, size, filename)
		if err != nil {
			slog.Warn("DOCX extraction failed", "filename", filename, "error", err)
			return nil
		}
		return []textextract.Unit{unit}

	case "pptx":
		unit, err := textextract.ExtractPPTX(reader, size, filename)
		if err != nil {
			slog.Warn("PPTX extraction failed", "filename", filename, "error", err)
			return nil
		}
		return []textextract.Unit{unit}

	case "txt":
		unit, err := textextract.ExtractTXT(reader, size, filename)
		if err != nil {
			slog.Warn("TXT extraction failed", "filename", filename, "error", err)
			return nil
		}
		return []textextract.Unit{unit}

	case "image":
		text, err := e.ocr.ImageText(ctx, data)
		if err != nil {
			slog.Warn("image OCR failed", "filename", filename, "error", err)
			return nil
		}
		if text == "" {
			return nil
		}
		return []textextract.Unit{{Text: text, Filename: filename}}

	default:
		slog.Warn("unsupported file type", "filename", filename, "mime_type", mimeType)
		return nil
	}
}

// extractPDF keeps pages with a text layer and falls back to OCR for
// pages without one. A page that fails OCR is skipped silently.
func (e *Extractor) extractPDF(ctx context.Context, raw []byte, reader *bytes.Reader, size int64, filename string) []textextract.Unit {
	pages, err := textextract.ExtractPDF(reader, size, filename)
	if err != nil {
		slog.Warn("PDF extraction failed", "filename", filename, "error", err)
		return nil
	}

	var units []textextract.Unit
	for _, page := range pages {
		if page.Text == "" && e.ocr.IsAvailable() {
			text, err := e.ocr.PDFPageText(ctx, raw, page.Page)
			if err != nil {
				slog.Warn("OCR failed for page", "filename", filename, "page", page.Page, "error", err)
				continue
			}
			page.Text = text
		}
		if page.Text != "" {
			units = append(units, page)
		}
	}
	return units
}

func detectKind(mimeType, filename string) string {
	mt := strings.ToLower(mimeType)
	ext := strings.ToLower(filepath.Ext(filename))

	switch {
	case mt == "application/pdf" || ext == ".pdf":
		return "pdf"
	case mt == "application/vnd.openxmlformats-officedocument.wordprocessingml.document" || ext == ".docx":
		return "docx"
	case mt == "application/vnd.openxmlformats-officedocument.presentationml.presentation" || ext == ".pptx":
		return "pptx"
	case strings.HasPrefix(mt, "text/plain") || ext == ".txt":
		return "txt"
	case mt == "image/jpeg" || mt == "image/png" || ext == ".jpg" || ext == ".jpeg" || ext == ".png":
		return "image"
	default:
		return ""
	}
}

// SupportedExtensions lists the formats the extractor understands.
func SupportedExtensions() []string {
	return []string{".pdf", ".docx", ".pptx", ".txt", ".jpg", ".jpeg", ".png"}
}
