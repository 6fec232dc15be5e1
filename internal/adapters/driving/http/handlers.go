package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/weavelabs/ragcore/internal/core/domain"
)

// ErrorResponse represents an API error response
// @Description API error response
type ErrorResponse struct {
	Error string `json:"error" example:"invalid request body"`
}

// StatusResponse represents a simple status response
// @Description Simple status response
type StatusResponse struct {
	Status string `json:"status" example:"ok"`
}

// VersionResponse represents the API version response
// @Description API version response
type VersionResponse struct {
	Version string `json:"version" example:"1.0.0"`
}

// IngestURLRequest is the body for submitting a URL for ingestion
// @Description URL ingestion request
type IngestURLRequest struct {
	URL string `json:"url" example:"https://en.wikipedia.org/wiki/Go_(programming_language)"`
}

// IngestURLResponse acknowledges an accepted ingestion job
// @Description Accepted ingestion job
type IngestURLResponse struct {
	JobID   string `json:"job_id" example:"7f9c8e5a-4a0d-4cf8-9f2b-0a6e1c2d3e4f"`
	Status  string `json:"status" example:"PENDING"`
	Message string `json:"message" example:"URL accepted for processing"`
}

// JobStatusResponse reports the state of an ingestion job
// @Description Ingestion job status
type JobStatusResponse struct {
	JobID       string `json:"job_id"`
	SourceURL   string `json:"source_url"`
	Status      string `json:"status" example:"COMPLETED"`
	ErrorDetail string `json:"error_detail,omitempty"`
	ChunkCount  int    `json:"chunk_count"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// QueryRequest is the body for asking a question
// @Description Question over ingested content
type QueryRequest struct {
	Query string `json:"query" example:"What is Go?"`
}

// QueryResponse carries the grounded answer
// @Description Grounded answer
type QueryResponse struct {
	Answer     string   `json:"answer"`
	SourceURLs []string `json:"source_urls"`
	Grounded   bool     `json:"grounded"`
}

// Health endpoints

// handleHealth godoc
// @Summary      Health check
// @Description  Returns the health status of the API
// @Tags         Health
// @Produce      json
// @Success      200  {object}  StatusResponse
// @Router       /health [get]
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReady godoc
// @Summary      Readiness check
// @Description  Returns readiness, checking database and queue connectivity
// @Tags         Health
// @Produce      json
// @Success      200  {object}  StatusResponse
// @Failure      503  {object}  ErrorResponse  "A dependency is unreachable"
// @Router       /ready [get]
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.db != nil {
		if err := s.db.Ping(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
	}
	if s.queue != nil {
		if err := s.queue.Ping(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "queue unavailable")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// handleVersion godoc
// @Summary      Get API version
// @Description  Returns the current API version
// @Tags         Health
// @Produce      json
// @Success      200  {object}  VersionResponse
// @Router       /version [get]
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"version": s.version})
}

// Ingestion endpoints

// handleIngestURL godoc
// @Summary      Submit a URL for ingestion
// @Description  Accepts a URL, creates a PENDING job and enqueues it for async processing
// @Tags         Ingestion
// @Accept       json
// @Produce      json
// @Param        request  body      IngestURLRequest  true  "URL to ingest"
// @Success      202      {object}  IngestURLResponse
// @Failure      400      {object}  ErrorResponse  "Invalid request body or URL"
// @Failure      500      {object}  ErrorResponse  "Internal server error"
// @Router       /api/v1/ingest-url [post]
func (s *Server) handleIngestURL(w http.ResponseWriter, r *http.Request) {
	var req IngestURLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	job, err := s.ingestionService.Submit(r.Context(), req.URL)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to accept URL")
		return
	}

	writeJSON(w, http.StatusAccepted, IngestURLResponse{
		JobID:   job.ID,
		Status:  string(job.Status),
		Message: "URL accepted for processing",
	})
}

// handleIngestStatus godoc
// @Summary      Get ingestion job status
// @Description  Reports the state of an ingestion job, including failure detail and chunk count
// @Tags         Ingestion
// @Produce      json
// @Param        id   path      string  true  "Job ID"
// @Success      200  {object}  JobStatusResponse
// @Failure      404  {object}  ErrorResponse  "Unknown job ID"
// @Failure      500  {object}  ErrorResponse  "Internal server error"
// @Router       /api/v1/ingest-url/status/{id} [get]
func (s *Server) handleIngestStatus(w http.ResponseWriter, r *http.Request) {
	jobID := r.PathValue("id")

	info, err := s.ingestionService.Status(r.Context(), jobID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "job not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to get job status")
		return
	}

	writeJSON(w, http.StatusOK, JobStatusResponse{
		JobID:       info.Job.ID,
		SourceURL:   info.Job.SourceURL,
		Status:      string(info.Job.Status),
		ErrorDetail: info.Job.ErrorDetail,
		ChunkCount:  info.ChunkCount,
		CreatedAt:   info.Job.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:   info.Job.UpdatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	})
}

// Query endpoint

// handleQuery godoc
// @Summary      Ask a question
// @Description  Answers a question grounded strictly in previously ingested content
// @Tags         Query
// @Accept       json
// @Produce      json
// @Param        request  body      QueryRequest  true  "Question"
// @Success      200      {object}  QueryResponse
// @Failure      400      {object}  ErrorResponse  "Invalid request body or empty query"
// @Failure      500      {object}  ErrorResponse  "Generation provider failure"
// @Failure      503      {object}  ErrorResponse  "Embedding provider failure or model mismatch"
// @Router       /api/v1/query [post]
func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	answer, err := s.answerService.Answer(r.Context(), req.Query)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, domain.ErrGenerationFailed):
			writeError(w, http.StatusInternalServerError, "answer generation failed")
		case errors.Is(err, domain.ErrEmbeddingFailed), errors.Is(err, domain.ErrModelMismatch):
			writeError(w, http.StatusServiceUnavailable, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed to answer question")
		}
		return
	}

	writeJSON(w, http.StatusOK, QueryResponse{
		Answer:     answer.Text,
		SourceURLs: answer.SourceURLs,
		Grounded:   answer.Grounded,
	})
}

// Queue endpoint

// handleQueueStats godoc
// @Summary      Queue statistics
// @Description  Returns pending/processing/completed/failed task counts
// @Tags         Queue
// @Produce      json
// @Success      200  {object}  driven.QueueStats
// @Failure      500  {object}  ErrorResponse  "Internal server error"
// @Router       /api/v1/queue/stats [get]
func (s *Server) handleQueueStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.taskQueue.Stats(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get queue stats")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// Helpers

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
