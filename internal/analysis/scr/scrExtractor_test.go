package scr

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/johanvictor/FinDocAPI/internal/domain/docModel"
)

type stubRunner struct {
	OnRun func(ctx context.Context, name string, args ...string) ([]byte, []byte, error)
}

func (s stubRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	if s.OnRun != nil {
		return s.OnRun(ctx, name, args...)
	}
	return nil, nil, nil
}

type stubTextExtractor struct {
	OnExtract func(ctx context.Context, doc docModel.UploadedDocument) (string, error)
}

func (s stubTextExtractor) Extract(ctx context.Context, doc docModel.UploadedDocument) (string, error) {
	if s.OnExtract != nil {
		return s.OnExtract(ctx, doc)
	}
	return "", nil
}

func (s stubTextExtractor) ExtractWithVision(ctx context.Context, doc docModel.UploadedDocument) string {
	return ""
}

// detectorWritingCSV simulates the table detector binary: it locates the
// --output directory in the argument list and drops one CSV table there.
func detectorWritingCSV(t *testing.T, csvContent string) stubRunner {
	t.Helper()
	return stubRunner{
		OnRun: func(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
			outDir := ""
			for i, a := range args {
				if a == "--output" && i+1 < len(args) {
					outDir = args[i+1]
				}
			}
			if outDir == "" {
				t.Fatal("detector invoked without --output directory")
			}
			if err := os.WriteFile(filepath.Join(outDir, "page-1-table-1.csv"), []byte(csvContent), 0600); err != nil {
				t.Fatalf("could not write stub table: %v", err)
			}
			return nil, nil, nil
		},
	}
}

const registratoText = "Relatório SCR\nRazão Social: ACME COMERCIO LTDA\nCNPJ: 12.345.678/0001-90\n"

var registratoDoc = docModel.UploadedDocument{
	Filename:    "registrato_scr.pdf",
	ContentType: docModel.ContentTypePDF,
	Bytes:       []byte("%PDF-fake"),
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestSCRProcess_FullExtraction(t *testing.T) {
	csvContent := "Modalidade,Valor a vencer,Valor vencido\n" +
		"Empréstimos,indicador,indicador\n" +
		"Total,\"R$ 1.234,56\",\"789,01\"\n"

	runner := detectorWritingCSV(t, csvContent)
	text := stubTextExtractor{
		OnExtract: func(ctx context.Context, doc docModel.UploadedDocument) (string, error) {
			return registratoText, nil
		},
	}

	result := NewProcessor(runner, text).Process(context.Background(), registratoDoc)

	if result.CompanyName != "ACME COMERCIO LTDA" {
		t.Errorf("CompanyName got %q", result.CompanyName)
	}
	if result.CompanyTaxID != "12.345.678/0001-90" {
		t.Errorf("CompanyTaxID got %q", result.CompanyTaxID)
	}
	if !almostEqual(result.DebtCurrent, 1234.56) {
		t.Errorf("DebtCurrent got %v, want 1234.56", result.DebtCurrent)
	}
	if !almostEqual(result.DebtOverdue, 789.01) {
		t.Errorf("DebtOverdue got %v, want 789.01", result.DebtOverdue)
	}
	if !almostEqual(result.DebtTotal, 2023.57) {
		t.Errorf("DebtTotal got %v, want 2023.57", result.DebtTotal)
	}
	if result.Error != "" {
		t.Errorf("unexpected error field: %q", result.Error)
	}
}

func TestSCRProcess_DetectorFailure(t *testing.T) {
	runner := stubRunner{
		OnRun: func(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
			return nil, []byte("segfault"), errors.New("exit status 1")
		},
	}
	text := stubTextExtractor{
		OnExtract: func(ctx context.Context, doc docModel.UploadedDocument) (string, error) {
			return registratoText, nil
		},
	}

	result := NewProcessor(runner, text).Process(context.Background(), registratoDoc)

	if result.Error == "" {
		t.Error("expected error field when detector fails")
	}
	// identity fields still come from the raw text
	if result.CompanyName != "ACME COMERCIO LTDA" {
		t.Errorf("CompanyName got %q", result.CompanyName)
	}
	if result.DebtTotal != 0 {
		t.Errorf("DebtTotal got %v, want 0", result.DebtTotal)
	}
}

func TestSCRProcess_NoTablesDetected(t *testing.T) {
	// detector succeeds but writes nothing
	runner := stubRunner{}
	result := NewProcessor(runner, stubTextExtractor{}).Process(context.Background(), registratoDoc)

	if result.Error == "" {
		t.Error("expected error field when no tables are detected")
	}
	if result.CompanyName != docModel.Unidentified {
		t.Errorf("CompanyName got %q, want default", result.CompanyName)
	}
	if result.CompanyTaxID != docModel.Unidentified {
		t.Errorf("CompanyTaxID got %q, want default", result.CompanyTaxID)
	}
}

func TestSCRProcess_TextExtractionFailureDegrades(t *testing.T) {
	csvContent := "a,b,c\nd,e,f\ng,\"100,00\",\"200,00\"\n"
	runner := detectorWritingCSV(t, csvContent)
	text := stubTextExtractor{
		OnExtract: func(ctx context.Context, doc docModel.UploadedDocument) (string, error) {
			return "", errors.New("corrupt text layer")
		},
	}

	result := NewProcessor(runner, text).Process(context.Background(), registratoDoc)

	if result.CompanyName != docModel.Unidentified {
		t.Errorf("CompanyName got %q, want default", result.CompanyName)
	}
	if !almostEqual(result.DebtTotal, 300.00) {
		t.Errorf("DebtTotal got %v, want 300", result.DebtTotal)
	}
}

func TestSCRProcess_ShortGridMeansZeroDebt(t *testing.T) {
	// only two rows: the fixed debt row does not exist
	runner := detectorWritingCSV(t, "a,b\nc,d\n")
	result := NewProcessor(runner, stubTextExtractor{}).Process(context.Background(), registratoDoc)

	if result.DebtTotal != 0 {
		t.Errorf("DebtTotal got %v, want 0", result.DebtTotal)
	}
	if result.Error != "" {
		t.Errorf("out-of-range cells must not set the error field, got %q", result.Error)
	}
}
