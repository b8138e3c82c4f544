package extract

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/johanvictor/FinDocAPI/internal/config"
	"github.com/johanvictor/FinDocAPI/internal/domain/docModel"
	"github.com/johanvictor/FinDocAPI/internal/metrics"
)

// ExtractWithVision renders the document to page images and hands all of them
// to the vision collaborator in a single call. Rendered artifacts are removed
// on every exit path. Failures degrade to a visible marker, mirroring the OCR
// strategy, because this path already is the fallback wrapper.
func (s *service) ExtractWithVision(ctx context.Context, doc docModel.UploadedDocument) string {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("vision_model", time.Since(start)) }()

	imagePaths, cleanup, err := s.renderToImages(ctx, doc)
	defer cleanup()
	if err != nil {
		s.logger.Error("vision render failed", "filename", doc.Filename, "error", err)
		return fmt.Sprintf("[ERRO NA CONVERSÃO: %v]", err)
	}

	encoded := make([]string, 0, len(imagePaths))
	for _, p := range imagePaths {
		raw, err := os.ReadFile(p)
		if err != nil {
			s.logger.Error("could not read rendered page", "path", p, "error", err)
			return fmt.Sprintf("[ERRO NO PROCESSAMENTO DA IMAGEM: %v]", err)
		}
		encoded = append(encoded, base64.StdEncoding.EncodeToString(raw))
	}

	s.logger.Debug("submitting pages to vision model", "filename", doc.Filename, "pages", len(encoded))
	text, err := s.vision.Transcribe(ctx, doc.Filename, encoded)
	if err != nil {
		s.logger.Error("vision transcription failed", "filename", doc.Filename, "error", err)
		return fmt.Sprintf("[ERRO NO PROCESSAMENTO DA IMAGEM: %v]", err)
	}
	return text
}

// renderToImages rasterizes a PDF with pdftoppm, or treats any other payload
// as a single image. The returned cleanup func is always safe to call.
func (s *service) renderToImages(ctx context.Context, doc docModel.UploadedDocument) ([]string, func(), error) {
	tmpID := uuid.New().String()[:8]

	if doc.ContentType != docModel.ContentTypePDF {
		imgPath := filepath.Join(os.TempDir(), fmt.Sprintf("doc_image_%s.png", tmpID))
		if err := os.WriteFile(imgPath, doc.Bytes, 0600); err != nil {
			return nil, func() {}, err
		}
		return []string{imgPath}, func() { os.Remove(imgPath) }, nil
	}

	pdfPath := filepath.Join(os.TempDir(), fmt.Sprintf("doc_%s.pdf", tmpID))
	if err := os.WriteFile(pdfPath, doc.Bytes, 0600); err != nil {
		return nil, func() {}, err
	}
	defer os.Remove(pdfPath)

	pagesDir, err := os.MkdirTemp("", "doc_pages_"+tmpID+"_*")
	if err != nil {
		return nil, func() {}, err
	}
	cleanup := func() { os.RemoveAll(pagesDir) }

	// pdftoppm -r 150 -png <in.pdf> <dir/page>
	prefix := filepath.Join(pagesDir, "page")
	_, stderr, err := s.runner.Run(ctx, config.PdfToPpmBinary, "-r", fmt.Sprintf("%d", config.VisionRenderDPI), "-png", pdfPath, prefix)
	if err != nil {
		return nil, cleanup, fmt.Errorf("pdftoppm: %w (%s)", err, truncate(string(stderr), 512))
	}

	matches, _ := filepath.Glob(prefix + "-*.png")
	sort.Strings(matches)
	if len(matches) == 0 {
		return nil, cleanup, fmt.Errorf("no pages rendered for %s", doc.Filename)
	}
	return matches, cleanup, nil
}
