package extract

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dslipak/pdf"

	"github.com/johanvictor/FinDocAPI/internal/domain/docModel"
)

// extractPDF walks the native text layer page by page, skipping pages with no
// usable text and prefixing each retained page with its number.
func (s *service) extractPDF(doc docModel.UploadedDocument) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(doc.Bytes), int64(len(doc.Bytes)))
	if err != nil {
		s.logger.Error("failed opening pdf stream", "filename", doc.Filename, "error", err)
		return "", fmt.Errorf("failed to open pdf: %w", err)
	}

	var b strings.Builder
	numPages := reader.NumPage()
	s.logger.Debug("extractPDF", "filename", doc.Filename, "pages", numPages)
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		content, err := protectExtract(page)
		if err != nil {
			//keep going, a single unreadable page should not kill the dump
			s.logger.Error("error parsing page content", "filename", doc.Filename, "page", i, "error", err)
			continue
		}
		if strings.TrimSpace(content) == "" {
			continue
		}

		b.WriteString(fmt.Sprintf("\n--- Página %d ---\n", i))
		b.WriteString(content)
	}
	return b.String(), nil
}

// protectExtract guards against the pdf library hanging on weird content streams.
func protectExtract(page pdf.Page) (string, error) {
	type result struct {
		content string
		err     error
	}
	resChan := make(chan result, 1)

	go func() {
		content, err := page.GetPlainText(nil)
		resChan <- result{content, err}
	}()
	select {
	case r := <-resChan:
		return r.content, r.err
	case <-time.After(time.Second * 10):
		return "", errors.New("timeout")
	}
}
