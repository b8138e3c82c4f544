package extract

import (
	"context"
	"fmt"

	"github.com/johanvictor/FinDocAPI/internal/domain/docModel"
	"github.com/johanvictor/FinDocAPI/pkg/logger_i"
)

// VisionModel is the vision-capable collaborator: ordered base64 page images
// in, transcribed text out. One call per document.
type VisionModel interface {
	Transcribe(ctx context.Context, filename string, base64Images []string) (string, error)
}

// TextExtractor recovers raw text from one uploaded document.
type TextExtractor interface {
	Extract(ctx context.Context, doc docModel.UploadedDocument) (string, error)
	ExtractWithVision(ctx context.Context, doc docModel.UploadedDocument) string
}

type service struct {
	runner Runner
	vision VisionModel
	logger *logger_i.Logger
}

// NewService constructor
func NewService(runner Runner, vision VisionModel) TextExtractor {
	return &service{
		runner: runner,
		vision: vision,
		logger: logger_i.NewLogger("Text Extraction "),
	}
}

// Extract picks a strategy by content type. PDF and word-processing failures
// are fatal for the request; image OCR degrades to a visible marker instead.
func (s *service) Extract(ctx context.Context, doc docModel.UploadedDocument) (string, error) {
	log := s.logger.With("filename", doc.Filename, "contentType", string(doc.ContentType))
	log.Debug("extracting document")

	switch doc.ContentType {
	case docModel.ContentTypePDF:
		text, err := s.extractPDF(doc)
		if err != nil {
			return "", docModel.NewExtractionError(doc.Filename, err)
		}
		return text, nil
	case docModel.ContentTypeJPEG, docModel.ContentTypePNG:
		return s.extractImageOCR(ctx, doc), nil
	case docModel.ContentTypeDOC, docModel.ContentTypeDOCX:
		text, err := s.extractWord(doc)
		if err != nil {
			return "", docModel.NewExtractionError(doc.Filename, err)
		}
		return text, nil
	default:
		return "", fmt.Errorf("%w: %s", docModel.ErrUnsupportedFormat, doc.ContentType)
	}
}
