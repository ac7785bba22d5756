// internal/workers/cleanup_processor.go
package workers

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/basefinder/basefinder-be/internal/adapters/db"
	"github.com/basefinder/basefinder-be/internal/pkg/config"
	"github.com/hibiken/asynq"
)

// CleanupProcessor handles retention tasks
type CleanupProcessor struct {
	db     *db.Database
	config *config.Config
	logger *slog.Logger
}

// NewCleanupProcessor creates a new cleanup processor
func NewCleanupProcessor(db *db.Database, config *config.Config, logger *slog.Logger) *CleanupProcessor {
	return &CleanupProcessor{
		db:     db,
		config: config,
		logger: logger.With(slog.String("processor", "cleanup")),
	}
}

// PurgeDeletedSamples permanently removes soft-deleted samples whose
// retention window has passed. Restore is no longer possible after this.
func (p *CleanupProcessor) PurgeDeletedSamples(ctx context.Context, t *asynq.Task) error {
	ttl := p.config.Retention.DeletedSampleTTL
	cutoff := time.Now().Add(-ttl)

	p.logger.InfoContext(ctx, "purging expired deleted samples",
		slog.Time("cutoff", cutoff))

	query := `DELETE FROM samples WHERE deleted_at IS NOT NULL AND deleted_at < $1`

	result, err := p.db.Exec(ctx, query, cutoff)
	if err != nil {
		return fmt.Errorf("failed to purge deleted samples: %w", err)
	}

	p.logger.InfoContext(ctx, "expired deleted samples purged",
		slog.Int64("rows_deleted", result.RowsAffected()))

	return nil
}

// CleanupTempFiles removes old temporary upload files
func (p *CleanupProcessor) CleanupTempFiles(ctx context.Context, t *asynq.Task) error {
	p.logger.InfoContext(ctx, "cleaning up temp files")

	tempDir := p.config.FileProcessing.TempDir
	maxAge := 24 * time.Hour

	var deletedCount int
	err := filepath.Walk(tempDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if !info.IsDir() && time.Since(info.ModTime()) > maxAge {
			if err := os.Remove(path); err != nil {
				p.logger.WarnContext(ctx, "failed to delete temp file",
					slog.String("file", path),
					slog.Any("error", err))
			} else {
				deletedCount++
			}
		}

		return nil
	})

	if err != nil {
		return fmt.Errorf("failed to walk temp directory: %w", err)
	}

	p.logger.InfoContext(ctx, "temp files cleaned up",
		slog.Int("files_deleted", deletedCount))

	return nil
}
