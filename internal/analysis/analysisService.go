package analysis

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/johanvictor/FinDocAPI/internal/analysis/assemble"
	"github.com/johanvictor/FinDocAPI/internal/analysis/classify"
	"github.com/johanvictor/FinDocAPI/internal/analysis/extract"
	"github.com/johanvictor/FinDocAPI/internal/analysis/llm"
	"github.com/johanvictor/FinDocAPI/internal/analysis/scr"
	"github.com/johanvictor/FinDocAPI/internal/domain/docModel"
	"github.com/johanvictor/FinDocAPI/internal/domain/jobModel"
	"github.com/johanvictor/FinDocAPI/internal/metrics"
	"github.com/johanvictor/FinDocAPI/pkg/logger_i"
)

// Service is what the worker calls. It doesn't need to know the extraction
// strategies or the model clients behind it.
type Service interface {
	ProcessAnalysis(ctx context.Context, job jobModel.Job) jobModel.Job
}

type service struct {
	extractor    extract.TextExtractor
	scrProcessor scr.Processor
	llmProvider  llm.Provider
	assembler    *assemble.Assembler
	reportStore  jobModel.ReportStore
	creditStore  jobModel.CreditStore
	systemPrompt string
	logger       *logger_i.Logger
}

// NewService constructor
func NewService(
	extractor extract.TextExtractor,
	scrProcessor scr.Processor,
	llmProvider llm.Provider,
	assembler *assemble.Assembler,
	reportStore jobModel.ReportStore,
	creditStore jobModel.CreditStore,
	systemPrompt string,
) Service {
	return &service{
		extractor:    extractor,
		scrProcessor: scrProcessor,
		llmProvider:  llmProvider,
		assembler:    assembler,
		reportStore:  reportStore,
		creditStore:  creditStore,
		systemPrompt: systemPrompt,
		logger:       logger_i.NewLogger("Analysis Service "),
	}
}

// classifiedDocument carries one upload through both pipeline passes.
type classifiedDocument struct {
	doc    docModel.UploadedDocument
	class  classify.Classification
	result docModel.ExtractionResult
	block  assemble.DocumentBlock
}

// ProcessAnalysis runs the whole pipeline for one request: credit gate, load,
// classify, extract (standard pass then deferred structured pass), segment
// inference, corpus assembly, the analysis-model call and report persistence.
// Extraction is all-or-nothing at the request level; OCR and SCR field
// failures degrade locally instead.
func (s *service) ProcessAnalysis(ctx context.Context, job jobModel.Job) jobModel.Job {
	inMethodLogger := s.logger.With("traceId", job.TraceId, "JobId", job.Id)
	defer s.removeStagedFiles(job.JobPayload.Files, inMethodLogger)

	// Credit gate
	job.CurrentStep = jobModel.CreditCheck
	hasCredit, err := s.creditStore.HasRemainingCredit(ctx, job.UserId)
	if err != nil {
		return s.jobError(job, err, "CREDIT_CHECK_FAILURE", http.StatusInternalServerError, true)
	}
	if !hasCredit {
		return s.jobError(job, errors.New("no remaining report credit"), "NO_CREDIT", http.StatusPaymentRequired, false)
	}

	docs, err := s.loadDocuments(job.JobPayload.Files)
	if err != nil {
		return s.jobError(job, err, "UPLOAD_LOAD_FAILURE", http.StatusBadRequest, false)
	}

	// First pass: classify and extract every standard-route document in upload
	// order. Deferred-route documents get an ordered placeholder block so the
	// second pass can substitute content without reordering.
	job.CurrentStep = jobModel.TextExtraction
	classified, err := s.runStandardPass(ctx, docs, inMethodLogger)
	if err != nil {
		return s.jobError(job, err, "EXTRACTION_FAILURE", http.StatusBadRequest, false)
	}

	job.JobPayload.Segment = s.inferSegment(classified, inMethodLogger)

	// Second pass: deferred structured route (registrato / SCR documents).
	job.CurrentStep = jobModel.StructuredExtraction
	s.runDeferredPass(ctx, classified, &job, inMethodLogger)

	// Corpus assembly under the token ceiling.
	job.CurrentStep = jobModel.CorpusAssembly
	blocks := make([]assemble.DocumentBlock, 0, len(classified))
	totalTextLen := 0
	for _, cd := range classified {
		if cd.result.Status == docModel.StatusEmpty {
			continue
		}
		blocks = append(blocks, cd.block)
		totalTextLen += len(cd.block.Text)
	}
	if len(blocks) == 0 {
		return s.jobError(job, errors.New("no text extracted from any uploaded file"), "EMPTY_CORPUS", http.StatusBadRequest, false)
	}
	preamble := planningPreamble(job.JobPayload)
	corpus := s.assembler.Assemble(s.systemPrompt+llm.UserPromptPrefix, llm.UserPromptSuffix, preamble, blocks)

	// Analysis model call
	job.CurrentStep = jobModel.LLMCall
	analysisText, usage, err := s.executeLLMStep(ctx, corpus)
	if err != nil {
		return s.jobError(job, err, "LLM_ANALYSIS_FAILURE", http.StatusInternalServerError, true)
	}

	job.JobPayload.Analysis = analysisText
	job.JobPayload.Usage = usage
	job.JobPayload.TotalTextLen = totalTextLen
	job.JobPayload.ProcessedFiles = collectResults(classified)

	// Persist the report metadata and consume the credit.
	job.CurrentStep = jobModel.Persistence
	if err := s.persistReport(ctx, job); err != nil {
		inMethodLogger.Error("failed to persist report metadata", "error", err)
	}
	if err := s.creditStore.ConsumeCredit(ctx, job.UserId); err != nil {
		inMethodLogger.Error("failed to consume report credit", "error", err)
	}

	job.CurrentStep = jobModel.Complete
	return job
}

func (s *service) loadDocuments(files []jobModel.UploadedFileRef) ([]docModel.UploadedDocument, error) {
	docs := make([]docModel.UploadedDocument, 0, len(files))
	for _, f := range files {
		if !docModel.IsSupportedContentType(f.ContentType) {
			return nil, fmt.Errorf("%w: %s (%s)", docModel.ErrUnsupportedFormat, f.Filename, f.ContentType)
		}
		raw, err := os.ReadFile(f.Path)
		if err != nil {
			return nil, fmt.Errorf("could not read staged upload %s: %w", f.Filename, err)
		}
		docs = append(docs, docModel.UploadedDocument{
			Filename:    f.Filename,
			ContentType: docModel.ContentType(f.ContentType),
			Bytes:       raw,
		})
	}
	return docs, nil
}

func (s *service) runStandardPass(ctx context.Context, docs []docModel.UploadedDocument, log *logger_i.Logger) ([]*classifiedDocument, error) {
	classified := make([]*classifiedDocument, 0, len(docs))
	for _, doc := range docs {
		cd := &classifiedDocument{
			doc:   doc,
			class: classify.ClassifyFilename(doc.Filename),
		}
		cd.result = docModel.ExtractionResult{
			Filename: doc.Filename,
			Category: cd.class.Category,
		}
		log.Debug("classified document", "filename", doc.Filename, "category", cd.class.Category, "route", cd.class.Route)

		if cd.class.Route == docModel.RouteDeferredStructured {
			cd.result.Status = docModel.StatusPending
			cd.block = assemble.DocumentBlock{
				Filename: doc.Filename,
				Category: cd.class.Category,
				Text:     fmt.Sprintf("[DOCUMENTO AGUARDANDO PROCESSAMENTO ESTRUTURADO: %s]", doc.Filename),
			}
			classified = append(classified, cd)
			continue
		}

		text, err := s.extractor.Extract(ctx, doc)
		if err != nil {
			// fatal for the whole request, by contract
			metrics.CountDocumentProcessed(string(cd.class.Category), string(docModel.StatusError))
			return nil, err
		}
		if strings.TrimSpace(text) == "" {
			cd.result.Status = docModel.StatusEmpty
			log.Warn("document produced no text", "filename", doc.Filename)
		} else {
			cd.result.Status = docModel.StatusProcessed
			cd.result.Text = text
			cd.result.TextLength = len(text)
		}
		metrics.CountDocumentProcessed(string(cd.class.Category), string(cd.result.Status))

		cd.block = assemble.DocumentBlock{
			Filename: doc.Filename,
			Category: cd.class.Category,
			Text:     text,
		}
		classified = append(classified, cd)
	}
	return classified, nil
}

// inferSegment reads the business segment off the first CNPJ-card document.
func (s *service) inferSegment(classified []*classifiedDocument, log *logger_i.Logger) docModel.SegmentLabel {
	for _, cd := range classified {
		if cd.class.Category != docModel.CategoryCNPJCard {
			continue
		}
		segment := classify.ClassifySegment(cd.result.Text)
		log.Info("segment inferred from registry card", "filename", cd.doc.Filename, "segment", segment)
		return segment
	}
	log.Debug("no registry card uploaded, segment defaults")
	return docModel.SegmentOther
}

func (s *service) runDeferredPass(ctx context.Context, classified []*classifiedDocument, job *jobModel.Job, log *logger_i.Logger) {
	for _, cd := range classified {
		if cd.class.Route != docModel.RouteDeferredStructured {
			continue
		}

		extraction := s.scrProcessor.Process(ctx, cd.doc)
		transcript := s.extractor.ExtractWithVision(ctx, cd.doc)

		text := formatSCRBlock(extraction, transcript)
		cd.result.Status = docModel.StatusProcessed
		cd.result.Text = text
		cd.result.TextLength = len(text)
		if extraction.Error != "" {
			cd.result.Error = extraction.Error
		}
		cd.block.Text = text
		metrics.CountDocumentProcessed(string(cd.class.Category), string(cd.result.Status))

		if job.JobPayload.SCR == nil {
			scrCopy := extraction
			job.JobPayload.SCR = &scrCopy
		}
		log.Debug("deferred structured extraction finished", "filename", cd.doc.Filename, "debt_total", extraction.DebtTotal)
	}
}

func formatSCRBlock(extraction docModel.SCRExtraction, transcript string) string {
	var b strings.Builder
	b.WriteString("Resumo do Registrato (SCR):\n")
	fmt.Fprintf(&b, "Razão Social: %s\n", extraction.CompanyName)
	fmt.Fprintf(&b, "CNPJ: %s\n", extraction.CompanyTaxID)
	fmt.Fprintf(&b, "Dívida a vencer: R$ %.2f\n", extraction.DebtCurrent)
	fmt.Fprintf(&b, "Dívida vencida: R$ %.2f\n", extraction.DebtOverdue)
	fmt.Fprintf(&b, "Dívida total: R$ %.2f\n", extraction.DebtTotal)
	if extraction.Error != "" {
		fmt.Fprintf(&b, "Observação: %s\n", extraction.Error)
	}
	if transcript != "" {
		b.WriteString("\nConteúdo transcrito do documento:\n")
		b.WriteString(transcript)
	}
	return b.String()
}

func planningPreamble(payload jobModel.JobPayload) string {
	var parts []string
	if payload.PlanningData != "" {
		parts = append(parts, payload.PlanningData)
	}
	if payload.Segment != "" && payload.Segment != docModel.SegmentOther {
		parts = append(parts, "Segmento de atuação identificado: "+string(payload.Segment))
	}
	return strings.Join(parts, "\n")
}

func (s *service) executeLLMStep(ctx context.Context, corpus string) (string, llm.Usage, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("llm_analysis", time.Since(start)) }()
	return s.llmProvider.Analyze(ctx, s.systemPrompt, corpus)
}

func (s *service) persistReport(ctx context.Context, job jobModel.Job) error {
	flags := make(map[string]bool)
	for _, pf := range job.JobPayload.ProcessedFiles {
		if pf.Status == docModel.StatusProcessed {
			flags[string(pf.Category)] = true
		}
	}
	return s.reportStore.SaveReport(ctx, jobModel.ReportRecord{
		ReportId:      job.Id,
		UserId:        job.UserId,
		Segment:       job.JobPayload.Segment,
		DocumentFlags: flags,
		PlanningData:  job.JobPayload.PlanningData,
		Analysis:      job.JobPayload.Analysis,
		CreatedAt:     time.Now(),
	})
}

func collectResults(classified []*classifiedDocument) []docModel.ExtractionResult {
	results := make([]docModel.ExtractionResult, 0, len(classified))
	for _, cd := range classified {
		results = append(results, cd.result)
	}
	return results
}

func (s *service) removeStagedFiles(files []jobModel.UploadedFileRef, log *logger_i.Logger) {
	for _, f := range files {
		if err := os.Remove(f.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Error("error removing staged upload", "path", f.Path, "error", err)
		}
	}
}

func (s *service) jobError(job jobModel.Job, err error, message string, httpCode int, canRetry bool) jobModel.Job {
	s.logger.Error(message, "error", err)

	public := "Internal Server Error"
	var extractionErr *docModel.ExtractionError
	switch {
	case errors.As(err, &extractionErr):
		public = fmt.Sprintf("Erro ao processar %s", extractionErr.Filename)
	case errors.Is(err, docModel.ErrUnsupportedFormat):
		public = "Formato de arquivo não suportado. Formatos aceitos: PDF, JPEG, PNG, DOC, DOCX."
	case httpCode == http.StatusPaymentRequired:
		public = "Sem créditos de relatório disponíveis"
	}

	job.Error = jobModel.JobError{
		Code:    httpCode,
		Message: public,
		Retry:   canRetry,
	}
	job.Status = jobModel.JobStatusError
	return job
}
