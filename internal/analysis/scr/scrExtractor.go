package scr

import (
	"context"
	"regexp"
	"strings"

	"github.com/johanvictor/FinDocAPI/internal/analysis/extract"
	"github.com/johanvictor/FinDocAPI/internal/domain/docModel"
	"github.com/johanvictor/FinDocAPI/pkg/logger_i"
)

// Processor recovers the structured debt and identity fields of a
// credit-bureau (SCR) statement.
type Processor interface {
	Process(ctx context.Context, doc docModel.UploadedDocument) docModel.SCRExtraction
}

type processor struct {
	runner      extract.Runner
	textService extract.TextExtractor
	logger      *logger_i.Logger
}

// NewProcessor constructor
func NewProcessor(runner extract.Runner, textService extract.TextExtractor) Processor {
	return &processor{
		runner:      runner,
		textService: textService,
		logger:      logger_i.NewLogger("SCR Extractor "),
	}
}

var (
	companyNameRe  = regexp.MustCompile(`(?i)raz[ãa]o\s+social\s*:\s*([^\n]+)`)
	companyTaxIDRe = regexp.MustCompile(`(?i)cnpj\s*:\s*([^\n]+)`)
	currencyLikeRe = regexp.MustCompile(`\d{1,3}(\.\d{3})*,\d{2}`)
)

// Grid positions of the debt figures in the registrato statement table.
const (
	debtRow        = 2
	debtCurrentCol = 1
	debtOverdueCol = 2
)

// Process never returns an error: every field degrades to its default so the
// caller can always render a partial report.
func (p *processor) Process(ctx context.Context, doc docModel.UploadedDocument) docModel.SCRExtraction {
	log := p.logger.With("filename", doc.Filename)

	result := docModel.SCRExtraction{
		CompanyName:  docModel.Unidentified,
		CompanyTaxID: docModel.Unidentified,
	}

	// Identity fields come from the free text dump: the detected grid splits
	// header lines unpredictably, raw text is the more reliable source.
	rawText, err := p.textService.Extract(ctx, doc)
	if err != nil {
		log.Error("could not extract raw text for identity fields", "error", err)
	} else {
		if m := companyNameRe.FindStringSubmatch(rawText); m != nil {
			result.CompanyName = strings.TrimSpace(m[1])
		}
		if m := companyTaxIDRe.FindStringSubmatch(rawText); m != nil {
			result.CompanyTaxID = strings.TrimSpace(m[1])
		}
	}

	grid, err := extractGrid(ctx, p.runner, doc.Bytes, p.logger)
	if err != nil {
		log.Error("table detection failed", "error", err)
		result.Error = "falha na detecção de tabelas: " + err.Error()
		return result
	}
	if len(grid) == 0 {
		log.Warn("no tables detected in registrato document")
		result.Error = "nenhuma tabela detectada no documento"
		return result
	}

	if cell, ok := grid.Cell(debtRow, debtCurrentCol); ok {
		result.DebtCurrent = ParseBrazilianNumber(cell)
	}
	if cell, ok := grid.Cell(debtRow, debtOverdueCol); ok {
		result.DebtOverdue = ParseBrazilianNumber(cell)
	}
	result.DebtTotal = result.DebtCurrent + result.DebtOverdue

	if result.DebtTotal == 0 {
		// Diagnostics only: when the fixed positions came up empty, log any
		// currency-looking cell nearby so segmentation drift is visible.
		p.scanForCurrencyCells(grid, log)
	}

	log.Debug("scr extraction finished", "debt_total", result.DebtTotal, "company", result.CompanyName)
	return result
}

func (p *processor) scanForCurrencyCells(grid docModel.PositionalGrid, log *logger_i.Logger) {
	for r := 0; r < 10 && r < len(grid); r++ {
		for c := 0; c < 10 && c < len(grid[r]); c++ {
			if currencyLikeRe.MatchString(grid[r][c]) {
				log.Debug("currency-like cell outside expected position", "row", r, "col", c, "value", grid[r][c])
			}
		}
	}
}
