package analysis_test

import (
	"context"

	"github.com/johanvictor/FinDocAPI/internal/analysis/llm"
	"github.com/johanvictor/FinDocAPI/internal/domain/docModel"
	"github.com/johanvictor/FinDocAPI/internal/domain/jobModel"
)

// MockExtractor implements extract.TextExtractor
type MockExtractor struct {
	// Control fields to simulate different behaviors
	OnExtract func(ctx context.Context, doc docModel.UploadedDocument) (string, error)
	OnVision  func(ctx context.Context, doc docModel.UploadedDocument) string
}

func (m *MockExtractor) Extract(ctx context.Context, doc docModel.UploadedDocument) (string, error) {
	if m.OnExtract != nil {
		return m.OnExtract(ctx, doc)
	}
	return "default extracted text", nil
}

func (m *MockExtractor) ExtractWithVision(ctx context.Context, doc docModel.UploadedDocument) string {
	if m.OnVision != nil {
		return m.OnVision(ctx, doc)
	}
	return "default vision transcript"
}

// MockSCRProcessor implements scr.Processor
type MockSCRProcessor struct {
	OnProcess func(ctx context.Context, doc docModel.UploadedDocument) docModel.SCRExtraction
	Calls     int
}

func (m *MockSCRProcessor) Process(ctx context.Context, doc docModel.UploadedDocument) docModel.SCRExtraction {
	m.Calls++
	if m.OnProcess != nil {
		return m.OnProcess(ctx, doc)
	}
	return docModel.SCRExtraction{
		CompanyName:  docModel.Unidentified,
		CompanyTaxID: docModel.Unidentified,
	}
}

// MockLLM implements llm.Provider
type MockLLM struct {
	OnAnalyze  func(ctx context.Context, systemPrompt string, corpus string) (string, llm.Usage, error)
	LastCorpus string
}

func (m *MockLLM) Analyze(ctx context.Context, systemPrompt string, corpus string) (string, llm.Usage, error) {
	m.LastCorpus = corpus
	if m.OnAnalyze != nil {
		return m.OnAnalyze(ctx, systemPrompt, corpus)
	}
	return "mocked analysis", llm.Usage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15}, nil
}

type MockReportStore struct {
	OnSave func(ctx context.Context, report jobModel.ReportRecord) error
	Saved  []jobModel.ReportRecord
}

func (m *MockReportStore) SaveReport(ctx context.Context, report jobModel.ReportRecord) error {
	m.Saved = append(m.Saved, report)
	if m.OnSave != nil {
		return m.OnSave(ctx, report)
	}
	return nil
}

func (m *MockReportStore) GetReport(ctx context.Context, reportId string) (jobModel.ReportRecord, bool) {
	for _, r := range m.Saved {
		if r.ReportId == reportId {
			return r, true
		}
	}
	return jobModel.ReportRecord{}, false
}

type MockCreditStore struct {
	OnHasCredit func(ctx context.Context, userId string) (bool, error)
	Consumed    int
}

func (m *MockCreditStore) HasRemainingCredit(ctx context.Context, userId string) (bool, error) {
	if m.OnHasCredit != nil {
		return m.OnHasCredit(ctx, userId)
	}
	return true, nil
}

func (m *MockCreditStore) ConsumeCredit(ctx context.Context, userId string) error {
	m.Consumed++
	return nil
}
