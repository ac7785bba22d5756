// internal/handlers/import.go
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	redis_a "github.com/basefinder/basefinder-be/internal/adapters/redis_adapter"
	"github.com/basefinder/basefinder-be/internal/core/ports"
	"github.com/basefinder/basefinder-be/internal/workers"
)

// ImportHandler handles bulk sample imports from Excel files
type ImportHandler struct {
	asynqClient *asynq.Client
	cache       ports.CacheRepository
	logger      *slog.Logger
	maxFileSize int64
	uploadDir   string
}

// NewImportHandler creates a new import handler
func NewImportHandler(asynqClient *asynq.Client, cache ports.CacheRepository, logger *slog.Logger, maxFileSize int64, uploadDir string) *ImportHandler {
	return &ImportHandler{
		asynqClient: asynqClient,
		cache:       cache,
		logger:      logger.With(slog.String("handler", "import")),
		maxFileSize: maxFileSize,
		uploadDir:   uploadDir,
	}
}

// ImportExcel handles POST /api/v1/import/excel
func (h *ImportHandler) ImportExcel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := r.ParseMultipartForm(h.maxFileSize); err != nil {
		h.respondError(w, http.StatusBadRequest, "Failed to parse form data")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "File is required")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType != "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet" &&
		contentType != "application/vnd.ms-excel" {
		h.respondError(w, http.StatusBadRequest, "Only Excel files are allowed")
		return
	}

	tempFile, err := h.saveUpload(ctx, file, header.Filename)
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, "Failed to save upload")
		return
	}

	jobID := uuid.New().String()
	payload := workers.ExcelImportPayload{
		JobID:      jobID,
		FilePath:   tempFile,
		ImportedBy: userFromContext(ctx),
	}

	b, err := json.Marshal(payload)
	if err != nil {
		os.Remove(tempFile)
		h.logger.ErrorContext(ctx, "failed to marshal import payload", slog.Any("error", err))
		h.respondError(w, http.StatusInternalServerError, "Failed to queue import job")
		return
	}

	task := asynq.NewTask(workers.TypeExcelImport, b)
	info, err := h.asynqClient.Enqueue(task,
		asynq.Queue("default"),
		asynq.MaxRetry(3),
		asynq.Retention(24*time.Hour))
	if err != nil {
		os.Remove(tempFile)
		h.logger.ErrorContext(ctx, "failed to enqueue import task", slog.Any("error", err))
		h.respondError(w, http.StatusInternalServerError, "Failed to queue import job")
		return
	}

	h.recordJobStatus(ctx, jobID, map[string]interface{}{
		"job_id":     jobID,
		"status":     "queued",
		"filename":   header.Filename,
		"created_at": time.Now(),
	})

	h.logger.InfoContext(ctx, "Excel import queued",
		slog.String("job_id", jobID),
		slog.String("task_id", info.ID))

	h.respondJSON(w, http.StatusAccepted, map[string]interface{}{
		"job_id":  jobID,
		"status":  "queued",
		"message": "Excel import has been queued for processing",
	})
}

// ImportBatch handles POST /api/v1/import/batch
func (h *ImportHandler) ImportBatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := r.ParseMultipartForm(h.maxFileSize * 10); err != nil {
		h.respondError(w, http.StatusBadRequest, "Failed to parse form data")
		return
	}

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		h.respondError(w, http.StatusBadRequest, "No files provided")
		return
	}

	batchID := uuid.New().String()
	var jobIDs []string

	for _, fileHeader := range files {
		file, err := fileHeader.Open()
		if err != nil {
			h.logger.WarnContext(ctx, "failed to open file in batch",
				slog.String("filename", fileHeader.Filename),
				slog.Any("error", err))
			continue
		}

		tempFile, err := h.saveUpload(ctx, file, fileHeader.Filename)
		file.Close()
		if err != nil {
			continue
		}

		jobID := uuid.New().String()
		payload := workers.ExcelImportPayload{
			JobID:      jobID,
			BatchID:    batchID,
			FilePath:   tempFile,
			ImportedBy: userFromContext(ctx),
		}

		b, err := json.Marshal(payload)
		if err != nil {
			os.Remove(tempFile)
			continue
		}

		task := asynq.NewTask(workers.TypeExcelImport, b)
		if _, err := h.asynqClient.Enqueue(task, asynq.Queue("low")); err != nil {
			os.Remove(tempFile)
			continue
		}

		h.recordJobStatus(ctx, jobID, map[string]interface{}{
			"job_id":     jobID,
			"batch_id":   batchID,
			"status":     "queued",
			"filename":   fileHeader.Filename,
			"created_at": time.Now(),
		})

		jobIDs = append(jobIDs, jobID)
	}

	h.logger.InfoContext(ctx, "batch import queued",
		slog.String("batch_id", batchID),
		slog.Int("total_files", len(files)),
		slog.Int("queued_jobs", len(jobIDs)))

	h.respondJSON(w, http.StatusAccepted, map[string]interface{}{
		"batch_id":    batchID,
		"job_ids":     jobIDs,
		"total_files": len(files),
		"queued_jobs": len(jobIDs),
		"status":      "queued",
		"message":     fmt.Sprintf("Batch import of %d files has been queued", len(jobIDs)),
	})
}

// ImportStatus handles GET /api/v1/import/status/{jobId}
func (h *ImportHandler) ImportStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	jobID := r.PathValue("jobId")

	var status map[string]interface{}
	err := h.cache.Get(ctx, redis_a.BuildKey(redis_a.PrefixImport, jobID), &status)
	if err != nil {
		if err == redis_a.ErrCacheMiss {
			h.respondError(w, http.StatusNotFound, "Job not found")
			return
		}
		h.logger.ErrorContext(ctx, "failed to get job status",
			slog.String("job_id", jobID),
			slog.Any("error", err))
		h.respondError(w, http.StatusInternalServerError, "Failed to get job status")
		return
	}

	h.respondJSON(w, http.StatusOK, status)
}

// Helper methods

func (h *ImportHandler) saveUpload(ctx context.Context, src io.Reader, filename string) (string, error) {
	if err := os.MkdirAll(h.uploadDir, 0755); err != nil {
		h.logger.ErrorContext(ctx, "failed to create upload directory", slog.Any("error", err))
		return "", err
	}

	tempFile := filepath.Join(h.uploadDir, fmt.Sprintf("%s_%s", uuid.New().String(), filename))
	dst, err := os.Create(tempFile)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to create temp file", slog.Any("error", err))
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(tempFile)
		h.logger.ErrorContext(ctx, "failed to save upload", slog.Any("error", err))
		return "", err
	}

	return tempFile, nil
}

// recordJobStatus writes the initial job status. Workers overwrite it as the
// import progresses. Status entries expire after a day.
func (h *ImportHandler) recordJobStatus(ctx context.Context, jobID string, status map[string]interface{}) {
	key := redis_a.BuildKey(redis_a.PrefixImport, jobID)
	if err := h.cache.SetWithTTL(ctx, key, status, 24*time.Hour); err != nil {
		h.logger.WarnContext(ctx, "failed to record job status",
			slog.String("job_id", jobID),
			slog.Any("error", err))
	}
}

func (h *ImportHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (h *ImportHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]interface{}{
		"success": false,
		"message": message,
	})
}
