// internal/workers/excel_processor.go
package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/tealeg/xlsx/v3"

	redis_a "github.com/basefinder/basefinder-be/internal/adapters/redis_adapter"
	"github.com/basefinder/basefinder-be/internal/core/domain"
	"github.com/basefinder/basefinder-be/internal/core/ports"
)

// Expected sheet layout, one sample per row:
// Style | Item | Buyer | No. of Samples | Comments | Sample Date | Shelf | Division | Position
const (
	colStyle = iota
	colItem
	colBuyer
	colNoOfSamples
	colComments
	colSampleDate
	colShelf
	colDivision
	colPosition
)

// ExcelProcessor imports samples from uploaded Excel files
type ExcelProcessor struct {
	repo   ports.SampleRepository
	cache  ports.CacheRepository
	logger *slog.Logger
}

// NewExcelProcessor creates a new Excel processor
func NewExcelProcessor(repo ports.SampleRepository, cache ports.CacheRepository, logger *slog.Logger) *ExcelProcessor {
	return &ExcelProcessor{
		repo:   repo,
		cache:  cache,
		logger: logger.With(slog.String("processor", "excel")),
	}
}

// ProcessExcel processes an Excel file and imports the sample rows
func (p *ExcelProcessor) ProcessExcel(ctx context.Context, t *asynq.Task) error {
	var payload ExcelImportPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	p.logger.InfoContext(ctx, "processing Excel file",
		slog.String("job_id", payload.JobID),
		slog.String("file_path", payload.FilePath))

	p.updateJobStatus(ctx, payload.JobID, "processing", 0, 0, "")

	file, err := xlsx.OpenFile(payload.FilePath)
	if err != nil {
		p.updateJobStatus(ctx, payload.JobID, "failed", 0, 0, err.Error())
		return fmt.Errorf("failed to open Excel file: %w", err)
	}

	var samples []domain.Sample
	var skipped int

	if len(file.Sheets) > 0 {
		sheet := file.Sheets[0]
		rowIdx := 0

		err = sheet.ForEachRow(func(r *xlsx.Row) error {
			// Skip header row
			if rowIdx == 0 {
				rowIdx++
				return nil
			}
			rowIdx++

			sample, err := p.parseRow(r, payload.ImportedBy)
			if err != nil {
				p.logger.WarnContext(ctx, "skipping unparseable row",
					slog.Int("row", rowIdx),
					slog.String("reason", err.Error()))
				skipped++
				return nil
			}
			if sample != nil {
				samples = append(samples, *sample)
			}
			return nil
		})

		if err != nil {
			p.updateJobStatus(ctx, payload.JobID, "failed", 0, skipped, err.Error())
			return fmt.Errorf("failed to process Excel rows: %w", err)
		}
	}

	if len(samples) > 0 {
		if err := p.repo.SaveBatch(ctx, samples); err != nil {
			p.updateJobStatus(ctx, payload.JobID, "failed", 0, skipped, err.Error())
			return fmt.Errorf("failed to save samples: %w", err)
		}
	}

	if strings.HasPrefix(payload.FilePath, os.TempDir()) || strings.HasPrefix(payload.FilePath, "/tmp/") {
		os.Remove(payload.FilePath)
	}

	p.updateJobStatus(ctx, payload.JobID, "completed", len(samples), skipped, "")

	p.logger.InfoContext(ctx, "Excel processing completed",
		slog.String("job_id", payload.JobID),
		slog.Int("samples_imported", len(samples)),
		slog.Int("rows_skipped", skipped))

	return nil
}

// parseRow converts one sheet row into a sample. Slot coordinates are
// accepted as numbers or numeric strings, matching the API behavior.
func (p *ExcelProcessor) parseRow(r *xlsx.Row, importedBy string) (*domain.Sample, error) {
	get := func(i int) string {
		c := r.GetCell(i)
		if c == nil {
			return ""
		}
		return strings.TrimSpace(c.String())
	}

	style := get(colStyle)
	item := get(colItem)
	if style == "" && item == "" {
		return nil, nil // blank row
	}
	if style == "" {
		return nil, fmt.Errorf("style is required")
	}
	if item == "" {
		return nil, fmt.Errorf("item is required")
	}

	shelf, err := domain.CoerceSlotValue(get(colShelf))
	if err != nil {
		return nil, fmt.Errorf("shelf: %w", err)
	}
	division, err := domain.CoerceSlotValue(get(colDivision))
	if err != nil {
		return nil, fmt.Errorf("division: %w", err)
	}
	position, err := domain.CoerceSlotValue(get(colPosition))
	if err != nil {
		return nil, fmt.Errorf("position: %w", err)
	}

	noOfSamples := 1
	if raw := get(colNoOfSamples); raw != "" {
		if n, err := domain.CoerceSlotValue(raw); err == nil && n > 0 {
			noOfSamples = n
		}
	}

	sample := &domain.Sample{
		ID:           uuid.New(),
		Style:        style,
		Item:         item,
		Buyer:        get(colBuyer),
		NoOfSamples:  noOfSamples,
		Comments:     get(colComments),
		Shelf:        shelf,
		Division:     division,
		Position:     position,
		Availability: domain.AvailabilityAvailable,
		AddedBy:      importedBy,
		AddedAt:      time.Now(),
	}

	if raw := get(colSampleDate); raw != "" {
		for _, layout := range []string{"2006-01-02", "01/02/2006", "2006-01-02 15:04:05"} {
			if t, err := time.Parse(layout, raw); err == nil {
				sample.SampleDate = &t
				break
			}
		}
	}

	if err := sample.Validate(); err != nil {
		return nil, err
	}

	return sample, nil
}

func (p *ExcelProcessor) updateJobStatus(ctx context.Context, jobID, status string, imported, skipped int, errorMsg string) {
	entry := map[string]interface{}{
		"job_id":     jobID,
		"status":     status,
		"imported":   imported,
		"skipped":    skipped,
		"updated_at": time.Now(),
	}
	if errorMsg != "" {
		entry["error"] = errorMsg
	}

	key := redis_a.BuildKey(redis_a.PrefixImport, jobID)
	if err := p.cache.SetWithTTL(ctx, key, entry, 24*time.Hour); err != nil {
		p.logger.WarnContext(ctx, "failed to update job status",
			slog.String("job_id", jobID),
			slog.Any("error", err))
	}
}
