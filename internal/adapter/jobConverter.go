package adapter

import (
	"fmt"
	"time"

	"github.com/johanvictor/FinDocAPI/internal/api"
	"github.com/johanvictor/FinDocAPI/internal/domain/jobModel"
)

func ToInitJobResponse(id string) api.InitJobResponse {
	return api.InitJobResponse{
		Id:        id,
		StatusURL: fmt.Sprintf("status/%s", id), //pass "status/job.Id"
	}
}

func ToAPIResponse(job jobModel.Job) api.JobResponse {

	var errorPtr *api.JobOutgoingError
	if job.Error.Message != "" || job.Error.Code != 0 {
		errorPtr = &api.JobOutgoingError{
			Code:    job.Error.Code,
			Message: job.Error.Message,
			Retry:   job.Error.Retry,
		}
	}

	result := api.Result{
		Status:           string(job.Status),
		AnalysisResponse: ToAnalysisExternal(job.JobPayload),
	}

	return api.JobResponse{
		Id:        job.Id,
		UserId:    job.UserId,
		StartTime: job.CreatedTime,
		EndTime:   job.EndTime,
		Error:     errorPtr,
		Result:    result,
	}
}

func ToAnalysisExternal(payload jobModel.JobPayload) *api.AnalysisResponse {
	if payload.Analysis == "" && len(payload.ProcessedFiles) == 0 {
		return nil
	}

	files := make([]api.ProcessedFile, 0, len(payload.ProcessedFiles))
	for _, file := range payload.ProcessedFiles {
		files = append(files, api.ProcessedFile{
			Filename: file.Filename,
			Category: string(file.Category),
			Status:   string(file.Status),
		})
	}

	var scrPtr *api.SCRSummary
	if payload.SCR != nil {
		scrPtr = &api.SCRSummary{
			DebtCurrent: payload.SCR.DebtCurrent,
			DebtOverdue: payload.SCR.DebtOverdue,
			DebtTotal:   payload.SCR.DebtTotal,
			CompanyName: payload.SCR.CompanyName,
			CompanyID:   payload.SCR.CompanyTaxID,
			Error:       payload.SCR.Error,
		}
	}

	var usagePtr *api.TokenUsage
	if payload.Usage.TotalTokens > 0 {
		usagePtr = &api.TokenUsage{
			PromptTokens:     payload.Usage.PromptTokens,
			CompletionTokens: payload.Usage.CompletionTokens,
			TotalTokens:      payload.Usage.TotalTokens,
		}
	}

	return &api.AnalysisResponse{
		Analysis:       payload.Analysis,
		Segment:        string(payload.Segment),
		ProcessedFiles: files,
		SCR:            scrPtr,
		Usage:          usagePtr,
	}
}

func BadRequest(id string, error string, code int) api.JobResponse {
	return api.JobResponse{
		Id:        id,
		UserId:    "",
		StartTime: time.Time{},
		EndTime:   time.Time{},
		Result: api.Result{
			Status: string(api.JobStatusError),
		},
		Error: &api.JobOutgoingError{
			Code:    code,
			Message: error,
			Retry:   false,
		},
	}
}
