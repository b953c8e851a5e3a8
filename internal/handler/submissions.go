package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"classgateway/internal/logging"
	"classgateway/internal/service"
)

type SubmissionHandler struct {
	svc *service.SubmissionService
}

func NewSubmissionHandler(svc *service.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{svc: svc}
}

func (h *SubmissionHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.With(authMiddleware).Post("/submissions", h.Submit)
}

type submitResponse struct {
	Message      string `json:"message"`
	FileID       string `json:"fileId"`
	SubmissionID string `json:"submissionId"`
}

// Submit accepts a multipart form with "file", "courseId" and "taskId" fields
// and runs the attach workflow. Workflow failures report which step broke so
// the client can tell an upload problem from a missing submission record.
func (h *SubmissionHandler) Submit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		writeErrorJSON(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	courseID := r.FormValue("courseId")
	taskID := r.FormValue("taskId")
	if courseID == "" || taskID == "" {
		writeErrorJSON(w, http.StatusBadRequest, "courseId and taskId are required")
		return
	}

	src, header, err := r.FormFile("file")
	if err != nil {
		writeErrorJSON(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		respondError(w, r, err, "failed to read uploaded file")
		return
	}

	file := service.SubmissionFile{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}

	result, err := h.svc.Submit(r.Context(), courseID, taskID, file)
	if err != nil {
		h.respondStepError(w, r, err)
		return
	}

	respondJSON(w, r, submitResponse{
		Message:      "Submission uploaded successfully",
		FileID:       result.FileID,
		SubmissionID: result.SubmissionID,
	})
}

// respondStepError writes the error body with the failed workflow step tag
// alongside the message.
func (h *SubmissionHandler) respondStepError(w http.ResponseWriter, r *http.Request, err error) {
	if logger, ok := logging.GetFromContext(r.Context()); ok {
		logger.Error(r.Context(), "submission workflow failed", zap.Error(err))
	}

	var stepErr *service.StepError
	if !errors.As(err, &stepErr) {
		writeErrorJSON(w, mapErr(err), "Failed to upload submission")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(mapErr(err))
	resp, _ := json.Marshal(map[string]string{
		"error": "Failed to upload submission",
		"step":  string(stepErr.Step),
	})
	w.Write(resp)
}
