package api

import "time"

type JobExternalStatus string

const (
	JobStatusError JobExternalStatus = "Error"
)

type JobResponse struct {
	Id        string            `json:"id" example:"job_cz109"`
	UserId    string            `json:"user_id" example:"user_550"`
	Result    Result            `json:"result"`
	Error     *JobOutgoingError `json:"error,omitempty"`
	StartTime time.Time         `json:"start_time"`
	EndTime   time.Time         `json:"end_time,omitempty"`
}

type JobOutgoingError struct {
	Code    int    `json:"code" example:"400"`
	Message string `json:"message" example:"Job not found"`
	Retry   bool   `json:"can_retry" example:"false"`
}

type ProcessedFile struct {
	Filename string `json:"filename"`
	Category string `json:"category"`
	Status   string `json:"status"`
}

type SCRSummary struct {
	DebtCurrent float64 `json:"debt_current"`
	DebtOverdue float64 `json:"debt_overdue"`
	DebtTotal   float64 `json:"debt_total"`
	CompanyName string  `json:"company_name"`
	CompanyID   string  `json:"company_tax_id"`
	Error       string  `json:"error,omitempty"`
}

type TokenUsage struct {
	PromptTokens     int64 `json:"prompt_tokens"`
	CompletionTokens int64 `json:"completion_tokens"`
	TotalTokens      int64 `json:"total_tokens"`
}

type AnalysisResponse struct {
	Analysis       string          `json:"analysis"`
	Segment        string          `json:"segment"`
	ProcessedFiles []ProcessedFile `json:"processed_files"`
	SCR            *SCRSummary     `json:"scr,omitempty"`
	Usage          *TokenUsage     `json:"usage,omitempty"`
}

type Result struct {
	Status           string            `json:"status"`
	AnalysisResponse *AnalysisResponse `json:"analysis_response,omitempty"`
}

type InitJobResponse struct {
	Id        string `json:"id"`
	StatusURL string `json:"status_url"`
}

type HealthResponse struct {
	Status           string `json:"status"`
	OpenAIConfigured bool   `json:"openai_configured"`
}

// requests---------------------

type JobStatusRequest struct {
	JobId string `json:"job_id" validate:"required"`
}
