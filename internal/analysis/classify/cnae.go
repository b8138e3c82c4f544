package classify

import (
	"regexp"
	"strconv"

	"github.com/johanvictor/FinDocAPI/internal/domain/docModel"
)

// The CNAE code shows up in a handful of shapes on registry cards
// (47.51-2-01, 47-5/12, 47-5, 47.5), always near one of a few label phrases.
// Patterns are tried in priority order and only the first match is used.
var cnaePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)CNAE\s*principal\s*:?\s*(\d{2})[.\-]\d(?:[./\-]\d{1,2})*`),
	regexp.MustCompile(`(?i)atividade\s+econ[ôo]mica\s+principal\s*:?\s*\(?(\d{2})[.\-]\d(?:[./\-]\d{1,2})*`),
	regexp.MustCompile(`C[ÓO]DIGO\s+E\s+DESCRI[ÇC][ÃA]O\s+DA\s+ATIVIDADE\s+ECON[ÔO]MICA\s+PRINCIPAL\s*:?\s*\(?(\d{2})[.\-]\d(?:[./\-]\d{1,2})*`),
	regexp.MustCompile(`(?i)principal\s*:\s*(\d{2})[.\-]\d(?:[./\-]\d{1,2})*`),
}

// ClassifySegment scans the registry-card text for a CNAE activity code and
// maps its division (the leading two digits) onto a business segment.
// Anything unmatched or unparsable is "Outro".
func ClassifySegment(text string) docModel.SegmentLabel {
	for _, re := range cnaePatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		division, err := strconv.Atoi(m[1])
		if err != nil {
			return docModel.SegmentOther
		}
		return segmentForDivision(division)
	}
	return docModel.SegmentOther
}

func segmentForDivision(division int) docModel.SegmentLabel {
	switch {
	case division >= 5 && division <= 33:
		return docModel.SegmentIndustry
	case division >= 45 && division <= 47:
		return docModel.SegmentRetail
	case (division >= 58 && division <= 63) || division == 72:
		return docModel.SegmentTechnology
	case division == 85:
		return docModel.SegmentEducation
	case division >= 86 && division <= 88:
		return docModel.SegmentHealth
	case division >= 1 && division <= 99:
		return docModel.SegmentServices
	default:
		return docModel.SegmentOther
	}
}
