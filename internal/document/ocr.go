package document

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// OCRService shells out to tesseract, with pdftoppm to rasterize PDF
// pages first. Both tools are optional at runtime; when missing, OCR
// simply reports unavailability and callers degrade to empty text.
type OCRService struct {
	tesseractPath string
	pdftoppmPath  string
}

func NewOCRService() *OCRService {
	tess, _ := exec.LookPath("tesseract")
	if tess == "" {
		tess = "tesseract"
	}
	ppm, _ := exec.LookPath("pdftoppm")
	if ppm == "" {
		ppm = "pdftoppm"
	}
	return &OCRService{tesseractPath: tess, pdftoppmPath: ppm}
}

func (o *OCRService) IsAvailable() bool {
	cmd := exec.Command(o.tesseractPath, "--version")
	return cmd.Run() == nil
}

// ImageText runs OCR over raw image bytes.
func (o *OCRService) ImageText(ctx context.Context, image []byte) (string, error) {
	tmp, err := os.CreateTemp("", "ocr-*.img")
	if err != nil {
		return "", fmt.Errorf("temp image: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(image); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write temp image: %w", err)
	}
	tmp.Close()

	return o.fileText(ctx, tmp.Name())
}

// PDFPageText rasterizes one page of a PDF and runs OCR over it.
func (o *OCRService) PDFPageText(ctx context.Context, pdfBytes []byte, page int) (string, error) {
	dir, err := os.MkdirTemp("", "ocr-pdf-")
	if err != nil {
		return "", fmt.Errorf("temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	pdfPath := filepath.Join(dir, "page.pdf")
	if err := os.WriteFile(pdfPath, pdfBytes, 0o600); err != nil {
		return "", fmt.Errorf("write temp pdf: %w", err)
	}

	prefix := filepath.Join(dir, "raster")
	cmd := exec.CommandContext(ctx, o.pdftoppmPath,
		"-f", strconv.Itoa(page), "-l", strconv.Itoa(page),
		"-r", "300", "-png", pdfPath, prefix,
	)
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("pdftoppm page %d: %w", page, err)
	}

	rasters, err := filepath.Glob(prefix + "*.png")
	if err != nil || len(rasters) == 0 {
		return "", fmt.Errorf("no raster produced for page %d", page)
	}

	return o.fileText(ctx, rasters[0])
}

func (o *OCRService) fileText(ctx context.Context, imagePath string) (string, error) {
	cmd := exec.CommandContext(ctx, o.tesseractPath, imagePath, "stdout", "-l", "eng")
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("tesseract OCR: %w", err)
	}
	return strings.TrimSpace(string(output)), nil
}
