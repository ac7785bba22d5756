// internal/workers/tasks.go
package workers

// Task type names registered with asynq
const (
	TypeExcelImport      = "excel:import"
	TypeConflictSweep    = "conflicts:sweep"
	TypePurgeDeleted     = "cleanup:purge_deleted"
	TypeCleanupTempFiles = "cleanup:temp_files"
	TypeSendEmail        = "email:send"
)

// ExcelImportPayload is the payload for excel:import tasks
type ExcelImportPayload struct {
	JobID      string `json:"job_id"`
	BatchID    string `json:"batch_id,omitempty"`
	FilePath   string `json:"file_path"`
	ImportedBy string `json:"imported_by,omitempty"`
}
