package extract

import (
	"fmt"
	"strings"

	"github.com/lu4p/cat/docxtxt"

	"github.com/johanvictor/FinDocAPI/internal/domain/docModel"
)

// extractWord parses the payload with the docx reader and joins the non-blank
// paragraphs with newlines. The docx reader is called directly rather than
// through cat's MIME sniffing, which treats unrecognized bytes as plain text;
// a structurally invalid document must be a hard error.
func (s *service) extractWord(doc docModel.UploadedDocument) (string, error) {
	text, err := docxtxt.BytesToStr(doc.Bytes)
	if err != nil {
		s.logger.Error("error extracting content from word document", "filename", doc.Filename, "error", err)
		return "", fmt.Errorf("failed to extract word document: %w", err)
	}

	var paragraphs []string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			paragraphs = append(paragraphs, line)
		}
	}
	return strings.Join(paragraphs, "\n"), nil
}
