package analysis_test

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/johanvictor/FinDocAPI/internal/analysis"
	"github.com/johanvictor/FinDocAPI/internal/analysis/assemble"
	"github.com/johanvictor/FinDocAPI/internal/analysis/llm"
	"github.com/johanvictor/FinDocAPI/internal/config"
	"github.com/johanvictor/FinDocAPI/internal/domain/docModel"
	"github.com/johanvictor/FinDocAPI/internal/domain/jobModel"
)

type runeTokenizer struct{}

func (runeTokenizer) Encode(text string) []int {
	runes := []rune(text)
	tokens := make([]int, len(runes))
	for i, r := range runes {
		tokens[i] = int(r)
	}
	return tokens
}

func (runeTokenizer) Decode(tokens []int) string {
	runes := make([]rune, len(tokens))
	for i, tk := range tokens {
		runes[i] = rune(tk)
	}
	return string(runes)
}

func stageFile(t *testing.T, dir, filename, contentType, content string) jobModel.UploadedFileRef {
	t.Helper()
	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("could not stage test file: %v", err)
	}
	return jobModel.UploadedFileRef{Filename: filename, ContentType: contentType, Path: path}
}

func newTestService(extractor *MockExtractor, scrProc *MockSCRProcessor, mockLLM *MockLLM,
	reports *MockReportStore, credits *MockCreditStore) analysis.Service {
	return analysis.NewService(
		extractor,
		scrProc,
		mockLLM,
		assemble.NewAssembler(runeTokenizer{}, 100_000),
		reports,
		credits,
		"system prompt",
	)
}

func testContext() context.Context {
	return context.WithValue(context.Background(), config.TRACE_ID_KEY, "test-trace")
}

func TestProcessAnalysis_SuccessFullFlow(t *testing.T) {
	dir := t.TempDir()
	files := []jobModel.UploadedFileRef{
		stageFile(t, dir, "extrato_janeiro.pdf", string(docModel.ContentTypePDF), "saldo"),
		stageFile(t, dir, "cartao_cnpj.pdf", string(docModel.ContentTypePDF), "registro"),
	}

	extractor := &MockExtractor{
		OnExtract: func(ctx context.Context, doc docModel.UploadedDocument) (string, error) {
			if doc.Filename == "cartao_cnpj.pdf" {
				return "CNAE principal: 47.51-2-01 Comércio varejista", nil
			}
			return "movimentações bancárias do período", nil
		},
	}
	scrProc := &MockSCRProcessor{}
	mockLLM := &MockLLM{}
	reports := &MockReportStore{}
	credits := &MockCreditStore{}

	s := newTestService(extractor, scrProc, mockLLM, reports, credits)
	result := s.ProcessAnalysis(testContext(), jobModel.Job{
		Id:     "job-1",
		UserId: "user-1",
		JobPayload: jobModel.JobPayload{
			Files:        files,
			PlanningData: "faturamento estimado 500 mil",
		},
	})

	if result.Status == jobModel.JobStatusError {
		t.Fatalf("unexpected error: %+v", result.Error)
	}
	if result.CurrentStep != jobModel.Complete {
		t.Errorf("CurrentStep got %v, want Complete", result.CurrentStep)
	}
	if result.JobPayload.Analysis != "mocked analysis" {
		t.Errorf("Analysis got %q", result.JobPayload.Analysis)
	}
	if result.JobPayload.Segment != docModel.SegmentRetail {
		t.Errorf("Segment got %v, want %v", result.JobPayload.Segment, docModel.SegmentRetail)
	}
	if result.JobPayload.Usage.TotalTokens != 15 {
		t.Errorf("Usage got %+v", result.JobPayload.Usage)
	}
	if len(result.JobPayload.ProcessedFiles) != 2 {
		t.Fatalf("ProcessedFiles got %d entries", len(result.JobPayload.ProcessedFiles))
	}
	for _, pf := range result.JobPayload.ProcessedFiles {
		if pf.Status != docModel.StatusProcessed {
			t.Errorf("file %s status got %v", pf.Filename, pf.Status)
		}
	}
	if scrProc.Calls != 0 {
		t.Error("scr processor must not run without a registrato document")
	}

	// corpus carries planning data and both labeled blocks, in upload order
	if !strings.Contains(mockLLM.LastCorpus, "=== DADOS DE PLANEJAMENTO ===") {
		t.Error("planning preamble missing from corpus")
	}
	first := strings.Index(mockLLM.LastCorpus, "extrato_janeiro.pdf")
	second := strings.Index(mockLLM.LastCorpus, "cartao_cnpj.pdf")
	if first == -1 || second == -1 || first > second {
		t.Error("corpus blocks missing or out of upload order")
	}

	// report persisted, credit consumed
	if len(reports.Saved) != 1 {
		t.Fatalf("expected 1 saved report, got %d", len(reports.Saved))
	}
	if reports.Saved[0].Segment != docModel.SegmentRetail {
		t.Errorf("report segment got %v", reports.Saved[0].Segment)
	}
	if !reports.Saved[0].DocumentFlags[string(docModel.CategoryCNPJCard)] {
		t.Error("report flags missing the registry card")
	}
	if credits.Consumed != 1 {
		t.Errorf("credits consumed got %d, want 1", credits.Consumed)
	}

	// staged uploads are removed on completion
	for _, f := range files {
		if _, err := os.Stat(f.Path); !os.IsNotExist(err) {
			t.Errorf("staged file %s still exists", f.Path)
		}
	}
}

func TestProcessAnalysis_DeferredRegistratoFlow(t *testing.T) {
	dir := t.TempDir()
	files := []jobModel.UploadedFileRef{
		stageFile(t, dir, "registrato_scr.pdf", string(docModel.ContentTypePDF), "scr"),
		stageFile(t, dir, "extrato.pdf", string(docModel.ContentTypePDF), "saldo"),
	}

	extractor := &MockExtractor{
		OnExtract: func(ctx context.Context, doc docModel.UploadedDocument) (string, error) {
			if doc.Filename == "registrato_scr.pdf" {
				t.Error("standard extraction must not run for the deferred route")
			}
			return "texto do extrato", nil
		},
		OnVision: func(ctx context.Context, doc docModel.UploadedDocument) string {
			return "transcrição das páginas"
		},
	}
	scrProc := &MockSCRProcessor{
		OnProcess: func(ctx context.Context, doc docModel.UploadedDocument) docModel.SCRExtraction {
			return docModel.SCRExtraction{
				DebtCurrent:  1000.50,
				DebtOverdue:  200,
				DebtTotal:    1200.50,
				CompanyName:  "ACME LTDA",
				CompanyTaxID: "12.345.678/0001-90",
			}
		},
	}
	mockLLM := &MockLLM{}

	s := newTestService(extractor, scrProc, mockLLM, &MockReportStore{}, &MockCreditStore{})
	result := s.ProcessAnalysis(testContext(), jobModel.Job{
		Id:         "job-scr",
		UserId:     "user-1",
		JobPayload: jobModel.JobPayload{Files: files},
	})

	if result.Status == jobModel.JobStatusError {
		t.Fatalf("unexpected error: %+v", result.Error)
	}
	if scrProc.Calls != 1 {
		t.Errorf("scr processor calls got %d, want 1", scrProc.Calls)
	}
	if result.JobPayload.SCR == nil {
		t.Fatal("payload SCR extraction missing")
	}
	if result.JobPayload.SCR.DebtTotal != 1200.50 {
		t.Errorf("DebtTotal got %v", result.JobPayload.SCR.DebtTotal)
	}

	// the placeholder must be replaced by the structured block
	if strings.Contains(mockLLM.LastCorpus, "[DOCUMENTO AGUARDANDO PROCESSAMENTO ESTRUTURADO") {
		t.Error("placeholder block leaked into the corpus")
	}
	if !strings.Contains(mockLLM.LastCorpus, "ACME LTDA") {
		t.Error("structured SCR fields missing from corpus")
	}
	if !strings.Contains(mockLLM.LastCorpus, "transcrição das páginas") {
		t.Error("vision transcript missing from corpus")
	}

	// registrato block keeps its original (first) position
	scrPos := strings.Index(mockLLM.LastCorpus, "registrato_scr.pdf")
	extratoPos := strings.Index(mockLLM.LastCorpus, "extrato.pdf")
	if scrPos == -1 || extratoPos == -1 || scrPos > extratoPos {
		t.Error("deferred block lost its upload-order position")
	}
}

func TestProcessAnalysis_ErrorScenarios(t *testing.T) {
	tests := []struct {
		name          string
		contentType   string
		setupMocks    func(e *MockExtractor, l *MockLLM, c *MockCreditStore)
		expectedCode  int
		expectedRetry bool
		messagePart   string
	}{
		{
			name:        "No_Credit",
			contentType: string(docModel.ContentTypePDF),
			setupMocks: func(e *MockExtractor, l *MockLLM, c *MockCreditStore) {
				c.OnHasCredit = func(ctx context.Context, userId string) (bool, error) {
					return false, nil
				}
			},
			expectedCode: http.StatusPaymentRequired,
			messagePart:  "Sem créditos",
		},
		{
			name:        "Credit_Check_Failure_Is_Retryable",
			contentType: string(docModel.ContentTypePDF),
			setupMocks: func(e *MockExtractor, l *MockLLM, c *MockCreditStore) {
				c.OnHasCredit = func(ctx context.Context, userId string) (bool, error) {
					return false, errors.New("redis timeout")
				}
			},
			expectedCode:  http.StatusInternalServerError,
			expectedRetry: true,
		},
		{
			name:         "Unsupported_Format",
			contentType:  "application/zip",
			setupMocks:   func(e *MockExtractor, l *MockLLM, c *MockCreditStore) {},
			expectedCode: http.StatusBadRequest,
			messagePart:  "Formato de arquivo não suportado",
		},
		{
			name:        "Extraction_Failure_Names_The_File",
			contentType: string(docModel.ContentTypePDF),
			setupMocks: func(e *MockExtractor, l *MockLLM, c *MockCreditStore) {
				e.OnExtract = func(ctx context.Context, doc docModel.UploadedDocument) (string, error) {
					return "", docModel.NewExtractionError(doc.Filename, errors.New("bad xref"))
				}
			},
			expectedCode: http.StatusBadRequest,
			messagePart:  "Erro ao processar documento.pdf",
		},
		{
			name:        "Empty_Corpus",
			contentType: string(docModel.ContentTypePDF),
			setupMocks: func(e *MockExtractor, l *MockLLM, c *MockCreditStore) {
				e.OnExtract = func(ctx context.Context, doc docModel.UploadedDocument) (string, error) {
					return "   \n ", nil
				}
			},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:        "LLM_Failure_Is_Retryable",
			contentType: string(docModel.ContentTypePDF),
			setupMocks: func(e *MockExtractor, l *MockLLM, c *MockCreditStore) {
				l.OnAnalyze = func(ctx context.Context, sp string, corpus string) (string, llm.Usage, error) {
					return "", llm.Usage{}, errors.New("provider down")
				}
			},
			expectedCode:  http.StatusInternalServerError,
			expectedRetry: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			files := []jobModel.UploadedFileRef{
				stageFile(t, dir, "documento.pdf", tt.contentType, "conteúdo"),
			}

			extractor := &MockExtractor{}
			mockLLM := &MockLLM{}
			credits := &MockCreditStore{}
			tt.setupMocks(extractor, mockLLM, credits)

			s := newTestService(extractor, &MockSCRProcessor{}, mockLLM, &MockReportStore{}, credits)
			result := s.ProcessAnalysis(testContext(), jobModel.Job{
				Id:         "job-err",
				UserId:     "user-1",
				JobPayload: jobModel.JobPayload{Files: files},
			})

			if result.Status != jobModel.JobStatusError {
				t.Fatalf("Status got %v, want error", result.Status)
			}
			if result.Error.Code != tt.expectedCode {
				t.Errorf("Error Code got %d, want %d", result.Error.Code, tt.expectedCode)
			}
			if result.Error.Retry != tt.expectedRetry {
				t.Errorf("Retry got %v, want %v", result.Error.Retry, tt.expectedRetry)
			}
			if tt.messagePart != "" && !strings.Contains(result.Error.Message, tt.messagePart) {
				t.Errorf("Message got %q, want substring %q", result.Error.Message, tt.messagePart)
			}
			if credits.Consumed != 0 {
				t.Errorf("failed job must not consume credit, consumed %d", credits.Consumed)
			}

			// staged uploads are removed even on failure
			for _, f := range files {
				if _, err := os.Stat(f.Path); !os.IsNotExist(err) {
					t.Errorf("staged file %s still exists", f.Path)
				}
			}
		})
	}
}

func TestProcessAnalysis_PersistenceFailureIsNotFatal(t *testing.T) {
	dir := t.TempDir()
	files := []jobModel.UploadedFileRef{
		stageFile(t, dir, "extrato.pdf", string(docModel.ContentTypePDF), "saldo"),
	}

	reports := &MockReportStore{
		OnSave: func(ctx context.Context, report jobModel.ReportRecord) error {
			return errors.New("redis write failed")
		},
	}

	s := newTestService(&MockExtractor{}, &MockSCRProcessor{}, &MockLLM{}, reports, &MockCreditStore{})
	result := s.ProcessAnalysis(testContext(), jobModel.Job{
		Id:         "job-persist",
		UserId:     "user-1",
		JobPayload: jobModel.JobPayload{Files: files},
	})

	if result.Status == jobModel.JobStatusError {
		t.Fatalf("persistence failure must not fail the job: %+v", result.Error)
	}
	if result.JobPayload.Analysis == "" {
		t.Error("analysis missing from payload")
	}
}

func TestProcessAnalysis_EmptyDocumentExcludedFromCorpus(t *testing.T) {
	dir := t.TempDir()
	files := []jobModel.UploadedFileRef{
		stageFile(t, dir, "vazio.pdf", string(docModel.ContentTypePDF), "a"),
		stageFile(t, dir, "extrato.pdf", string(docModel.ContentTypePDF), "b"),
	}

	extractor := &MockExtractor{
		OnExtract: func(ctx context.Context, doc docModel.UploadedDocument) (string, error) {
			if doc.Filename == "vazio.pdf" {
				return "", nil
			}
			return "texto útil", nil
		},
	}
	mockLLM := &MockLLM{}

	s := newTestService(extractor, &MockSCRProcessor{}, mockLLM, &MockReportStore{}, &MockCreditStore{})
	result := s.ProcessAnalysis(testContext(), jobModel.Job{
		Id:         "job-empty",
		UserId:     "user-1",
		JobPayload: jobModel.JobPayload{Files: files},
	})

	if result.Status == jobModel.JobStatusError {
		t.Fatalf("unexpected error: %+v", result.Error)
	}
	if strings.Contains(mockLLM.LastCorpus, "vazio.pdf") {
		t.Error("empty document leaked into the corpus")
	}

	var emptyResult *docModel.ExtractionResult
	for i := range result.JobPayload.ProcessedFiles {
		if result.JobPayload.ProcessedFiles[i].Filename == "vazio.pdf" {
			emptyResult = &result.JobPayload.ProcessedFiles[i]
		}
	}
	if emptyResult == nil {
		t.Fatal("empty document missing from processed files")
	}
	if emptyResult.Status != docModel.StatusEmpty {
		t.Errorf("empty document status got %v, want %v", emptyResult.Status, docModel.StatusEmpty)
	}
}
