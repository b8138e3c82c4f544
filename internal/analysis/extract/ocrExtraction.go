package extract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/johanvictor/FinDocAPI/internal/config"
	"github.com/johanvictor/FinDocAPI/internal/domain/docModel"
)

// extractImageOCR runs tesseract (Portuguese) over the decoded image. OCR
// failures are common on user photos, so a failure never aborts the request:
// the document's text becomes a visible failure marker instead.
func (s *service) extractImageOCR(ctx context.Context, doc docModel.UploadedDocument) string {
	ext := ".png"
	if doc.ContentType == docModel.ContentTypeJPEG {
		ext = ".jpg"
	}
	imgPath := filepath.Join(os.TempDir(), fmt.Sprintf("ocr_%s%s", uuid.New().String()[:8], ext))
	if err := os.WriteFile(imgPath, doc.Bytes, 0600); err != nil {
		s.logger.Error("could not stage image for ocr", "filename", doc.Filename, "error", err)
		return ocrFailureMarker(err)
	}
	defer os.Remove(imgPath)

	// tesseract <file> stdout -l por
	out, _, err := s.runner.Run(ctx, config.TesseractBinary, imgPath, "stdout", "-l", config.TesseractLanguage)
	if err != nil {
		s.logger.Error("ocr failed", "filename", doc.Filename, "error", err)
		return ocrFailureMarker(err)
	}
	s.logger.Debug("ocr ok", "filename", doc.Filename, "chars", len(out))
	return string(out)
}

func ocrFailureMarker(err error) string {
	return fmt.Sprintf("[Erro ao processar imagem: %v]", err)
}
