package handlers

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/johanvictor/FinDocAPI/internal/adapter"
	"github.com/johanvictor/FinDocAPI/internal/adapter/utils"
	"github.com/johanvictor/FinDocAPI/internal/api"
	"github.com/johanvictor/FinDocAPI/internal/config"
	"github.com/johanvictor/FinDocAPI/internal/domain/docModel"
	"github.com/johanvictor/FinDocAPI/internal/domain/jobModel"
	"github.com/johanvictor/FinDocAPI/pkg/logger_i"
)

var logRH *logger_i.Logger

// technically i dont need this
// but i want to eventually remove jobHandler from handlers and set it in another package
// so in anticipation for that this struct exists
type newJobData struct {
	id           string
	userId       string
	traceId      string
	planningData string
	files        []jobModel.UploadedFileRef
}

func GetHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	return
}

// HealthHandler godoc
// @Summary      Service health
// @Description  Reports whether the service is up and whether an analysis provider key is configured.
// @Tags         Health
// @Produce      json
// @Success      200  {object}  api.HealthResponse
// @Router       /health [get]
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJsonResponse(w, http.StatusOK, api.HealthResponse{
		Status:           "ok",
		OpenAIConfigured: os.Getenv("OPENAI_API_KEY") != "",
	})
}

// AnalyzeHandler godoc
// @Summary      Submit documents for analysis
// @Description  Receives financial documents via multipart/form-data, stages them, and queues an asynchronous analysis job. Returns a job ID to poll.
// @Tags         Analysis
// @Accept       multipart/form-data
// @Produce      json
// @Param        user_id        formData  string  false  "User identifier (generated when absent)"
// @Param        planning_data  formData  string  false  "Free-form planning answers to include in the analysis"
// @Param        files          formData  file    true   "One or more documents (PDF, DOCX, PNG, JPEG)"
// @Success      202  {object}  api.InitJobResponse  "Job successfully created"
// @Failure      400  {object}  api.JobResponse      "Missing files, oversize upload or unsupported format"
// @Failure      500  {object}  api.JobResponse      "Storage or write error"
// @Router       /analyze [post]
func AnalyzeHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		logRH.Warn("Invalid Context by request ", r.RemoteAddr)
		return
	}

	if err := r.ParseMultipartForm(config.MaxUploadSize); err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "", "File too large or bad request")
		return
	}

	fileHeaders := r.MultipartForm.File["files"]
	if len(fileHeaders) == 0 {
		WriteErrorResponse(w, http.StatusBadRequest, "", "At least one file is required")
		return
	}

	// rejecting before anything is staged keeps the queue free of jobs that
	// can only fail
	for _, header := range fileHeaders {
		contentType := header.Header.Get("Content-Type")
		if !docModel.IsSupportedContentType(contentType) {
			logRH.Warn("Unsupported upload", "filename", header.Filename, "content type", contentType)
			WriteErrorResponse(w, http.StatusBadRequest, "",
				fmt.Sprintf("Formato não suportado: %s (%s)", header.Filename, contentType))
			return
		}
	}

	targetDir, errString := getTargetDirectory()
	if errString != "" {
		logRH.Error("Couldn't get target directory :", "err", errString)
		WriteErrorResponse(w, http.StatusInternalServerError, "", errString)
		return
	}

	stagedFiles := make([]jobModel.UploadedFileRef, 0, len(fileHeaders))
	for _, header := range fileHeaders {
		staged, err := stageUpload(targetDir, header)
		if err != nil {
			removeStaged(stagedFiles)
			WriteErrorResponse(w, http.StatusInternalServerError, "", "Storage error")
			return
		}
		stagedFiles = append(stagedFiles, staged)
	}

	userId := r.FormValue("user_id")
	if userId == "" {
		userId = utils.GetNewUUID()
		logRH.Debug(" New user request : ", "userId:", userId)
	}

	newJob := newJobData{
		id:           utils.GetNewUUID(),
		userId:       userId,
		traceId:      r.Context().Value(config.TRACE_ID_KEY).(string),
		planningData: r.FormValue("planning_data"),
		files:        stagedFiles,
	}
	CreateNewJob(newJob)
	res := adapter.ToInitJobResponse(newJob.id)
	writeJsonResponse(w, http.StatusAccepted, res)
}

// GetStatusHandler godoc
// @Summary      Get job status
// @Description  Retrieves the current status of a specific job using its ID.
// @Tags         Job Status
// @Accept       json
// @Produce      json
// @Param        id   path      string  true  "Job ID "
// @Success      200  {object}  api.JobResponse   "Successful retrieval of job status"
// @Failure      404  {object}  api.JobResponse   "Job not found (returns Error object within JobResponse)"
// @Router       /status/{id} [get]
func GetStatusHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {
		//use chi get the url id
		idString := utils.GetChiURLParam(r, "id")
		result, isFound := validateId(idString, r.Context().Value(config.TRACE_ID_KEY).(string))

		logRH.Debug("Get Status Request:", "URL path", r.URL.Path)
		if !isFound {
			WriteErrorResponse(w, http.StatusNotFound, idString, "Job not found")
			return
		}

		writeJsonResponse(w, http.StatusOK, adapter.ToAPIResponse(result))
	}
}

func stageUpload(targetDir string, header *multipart.FileHeader) (jobModel.UploadedFileRef, error) {
	fileReader, err := header.Open()
	if err != nil {
		return jobModel.UploadedFileRef{}, err
	}
	defer fileReader.Close()

	stagedName := fmt.Sprintf("%d-%s", time.Now().UnixNano(), filepath.Base(header.Filename))
	stagedPath := filepath.Join(targetDir, stagedName)
	destination, err := os.Create(stagedPath)
	if err != nil {
		return jobModel.UploadedFileRef{}, err
	}
	defer destination.Close()

	if _, err := io.Copy(destination, fileReader); err != nil {
		return jobModel.UploadedFileRef{}, err
	}

	return jobModel.UploadedFileRef{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Path:        stagedPath,
	}, nil
}

func removeStaged(files []jobModel.UploadedFileRef) {
	for _, file := range files {
		if err := os.Remove(file.Path); err != nil {
			logRH.Warn("Couldn't remove staged file", "path", file.Path, "error", err)
		}
	}
}
