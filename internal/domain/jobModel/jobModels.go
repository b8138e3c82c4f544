package jobModel

import (
	"context"
	"time"

	"github.com/johanvictor/FinDocAPI/internal/analysis/llm"
	"github.com/johanvictor/FinDocAPI/internal/domain/docModel"
)

type JobStatus string
type InternalStatus string

const (
	JobStatusQueued   JobStatus = "QUEUED"
	JobStatusRunning  JobStatus = "RUNNING"
	JobStatusComplete JobStatus = "COMPLETE"
	JobStatusError    JobStatus = "Error"

	AnalysisInit         InternalStatus = "Init"
	CreditCheck          InternalStatus = "CreditCheck"
	TextExtraction       InternalStatus = "TextExtraction"
	StructuredExtraction InternalStatus = "StructuredExtraction"
	CorpusAssembly       InternalStatus = "CorpusAssembly"
	LLMCall              InternalStatus = "LLM"
	Persistence          InternalStatus = "Persistence"
	Error                InternalStatus = "Error"

	Complete InternalStatus = "Complete"
)

// UploadedFileRef points at one staged upload on disk. The bytes only live in
// memory while the pipeline runs.
type UploadedFileRef struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Path        string `json:"path"`
}

type Job struct {
	Id          string         `json:"id"`
	UserId      string         `json:"user_id"`
	TraceId     string         `json:"trace_id"`
	JobPayload  JobPayload     `json:"job_payload"`
	Error       JobError       `json:"error,omitempty"`
	CreatedTime time.Time      `json:"created_time"`
	EndTime     time.Time      `json:"end_time,omitempty"`
	Status      JobStatus      `json:"status"`
	CurrentStep InternalStatus `json:"current_step"`
}

type JobError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Retry   bool   `json:"retry"`
}

type JobPayload struct {
	Files        []UploadedFileRef `json:"files,omitempty"`
	PlanningData string            `json:"planning_data,omitempty"`

	Analysis       string                      `json:"analysis,omitempty"`
	ProcessedFiles []docModel.ExtractionResult `json:"processed_files,omitempty"`
	Segment        docModel.SegmentLabel       `json:"segment,omitempty"`
	SCR            *docModel.SCRExtraction     `json:"scr,omitempty"`
	Usage          llm.Usage                   `json:"usage,omitempty"`
	TotalTextLen   int                         `json:"total_text_length,omitempty"`
}

// ReportRecord is the metadata this core hands to the document-store
// collaborator. No binary content, only what the frontend needs to list
// finished reports.
type ReportRecord struct {
	ReportId      string                `json:"report_id"`
	UserId        string                `json:"user_id"`
	Segment       docModel.SegmentLabel `json:"segment"`
	DocumentFlags map[string]bool       `json:"document_flags"`
	PlanningData  string                `json:"planning_data,omitempty"`
	Analysis      string                `json:"analysis"`
	CreatedAt     time.Time             `json:"created_at"`
}

type JobStore interface {
	GetJob(ctx context.Context, jobId string) (Job, bool)
	SaveJob(ctx context.Context, job Job) error
	DeleteJob(ctx context.Context, jobID string)
}

type ReportStore interface {
	SaveReport(ctx context.Context, report ReportRecord) error
	GetReport(ctx context.Context, reportId string) (ReportRecord, bool)
}

// CreditStore is the payment collaborator boundary: a yes/no gate before the
// pipeline runs, a consume on success. Billing itself lives elsewhere.
type CreditStore interface {
	HasRemainingCredit(ctx context.Context, userId string) (bool, error)
	ConsumeCredit(ctx context.Context, userId string) error
}
