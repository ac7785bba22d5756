// internal/handlers/export.go
package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/tealeg/xlsx/v3"

	redis_a "github.com/basefinder/basefinder-be/internal/adapters/redis_adapter"
	"github.com/basefinder/basefinder-be/internal/adapters/storage"
	"github.com/basefinder/basefinder-be/internal/core/domain"
	"github.com/basefinder/basefinder-be/internal/core/ports"
)

// exportPageSize is the page size used when draining samples for an export.
const exportPageSize = 500

// ExportParams defines parameters for export operations
type ExportParams struct {
	Columns        []string `json:"columns"`
	IncludeDeleted bool     `json:"include_deleted"`
	Shelf          int      `json:"shelf"`
	Division       int      `json:"division"`
}

// JSONExportResponse represents the JSON export response structure
type JSONExportResponse struct {
	Samples  []map[string]any `json:"samples"`
	Metadata ExportMetadata   `json:"metadata"`
}

// ExportMetadata contains metadata about the export
type ExportMetadata struct {
	ExportDate     time.Time `json:"export_date"`
	TotalSamples   int       `json:"total_samples"`
	IncludeDeleted bool      `json:"include_deleted"`
	Columns        []string  `json:"columns"`
}

// ExportHandler handles export operations
type ExportHandler struct {
	service ports.SampleService
	repo    ports.SampleRepository
	archive *storage.ExportArchive
	cache   ports.CacheRepository
	logger  *slog.Logger
}

// NewExportHandler creates a new export handler. archive may be nil when no
// object storage is configured; the archive endpoints then return 503.
func NewExportHandler(service ports.SampleService, repo ports.SampleRepository, archive *storage.ExportArchive, cache ports.CacheRepository, logger *slog.Logger) *ExportHandler {
	return &ExportHandler{
		service: service,
		repo:    repo,
		archive: archive,
		cache:   cache,
		logger:  logger.With(slog.String("handler", "export")),
	}
}

// ExportExcel handles GET /api/v1/export/excel
func (h *ExportHandler) ExportExcel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	params := h.parseExportParams(r)

	samples, err := h.collectSamples(ctx, params)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to retrieve samples for export", slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to retrieve data")
		return
	}

	excelData, err := h.generateExcelFile(samples, params)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to generate Excel file", slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to generate Excel file")
		return
	}

	filename := fmt.Sprintf("samples_export_%s.xlsx", time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(excelData)))
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")

	if _, err := w.Write(excelData); err != nil {
		h.logger.ErrorContext(ctx, "failed to write Excel response", slog.String("error", err.Error()))
		return
	}

	h.logger.InfoContext(ctx, "Excel export completed",
		slog.Int("total_rows", len(samples)),
		slog.String("filename", filename))
}

// ExportJSON handles GET /api/v1/export/json
func (h *ExportHandler) ExportJSON(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	params := h.parseExportParams(r)

	cacheKey := redis_a.BuildKey(redis_a.PrefixExport, "json", h.getCacheKeyFromParams(params))
	var cachedData []byte
	if err := h.cache.Get(ctx, cacheKey, &cachedData); err == nil {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Cache", "HIT")
		w.Header().Set("Content-Length", strconv.Itoa(len(cachedData)))
		w.Write(cachedData)
		return
	}

	samples, err := h.collectSamples(ctx, params)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to retrieve samples for export", slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to retrieve data")
		return
	}

	jsonData := make([]map[string]any, 0, len(samples))
	for i := range samples {
		jsonData = append(jsonData, h.sampleToJSONMap(&samples[i], params.Columns))
	}

	response := JSONExportResponse{
		Samples: jsonData,
		Metadata: ExportMetadata{
			ExportDate:     time.Now(),
			TotalSamples:   len(jsonData),
			IncludeDeleted: params.IncludeDeleted,
			Columns:        params.Columns,
		},
	}

	responseData, err := json.Marshal(response)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to marshal export response", slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to generate JSON")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Cache", "MISS")
	w.Header().Set("Content-Length", strconv.Itoa(len(responseData)))

	if _, err := w.Write(responseData); err != nil {
		h.logger.ErrorContext(ctx, "failed to write JSON response", slog.String("error", err.Error()))
		return
	}

	go func() {
		cacheCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := h.cache.Set(cacheCtx, cacheKey, responseData); err != nil {
			h.logger.WarnContext(cacheCtx, "failed to cache export response", slog.String("error", err.Error()))
		}
	}()
}

// ArchiveExport handles POST /api/v1/export/archive. It writes the current
// Excel export to object storage and returns the archive key together with a
// short-lived download URL.
func (h *ExportHandler) ArchiveExport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if h.archive == nil {
		h.respondError(w, http.StatusServiceUnavailable, "Export archive is not configured")
		return
	}

	params := h.parseExportParams(r)

	samples, err := h.collectSamples(ctx, params)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to retrieve samples for archive", slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to retrieve data")
		return
	}

	excelData, err := h.generateExcelFile(samples, params)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to generate Excel file", slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to generate Excel file")
		return
	}

	key, err := h.archive.Store(ctx, "samples", excelData)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to store export archive", slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to archive export")
		return
	}

	url, err := h.archive.DownloadURL(ctx, key, 15*time.Minute)
	if err != nil {
		h.logger.WarnContext(ctx, "failed to presign archive URL", slog.String("error", err.Error()))
	}

	h.respondJSON(w, http.StatusCreated, map[string]any{
		"key":          key,
		"download_url": url,
		"total_rows":   len(samples),
	})
}

// Helper methods

func (h *ExportHandler) parseExportParams(r *http.Request) *ExportParams {
	params := &ExportParams{
		Columns: []string{"all"},
	}

	if cols := r.URL.Query().Get("columns"); cols != "" {
		params.Columns = strings.Split(strings.TrimSpace(cols), ",")
		for i, col := range params.Columns {
			params.Columns[i] = strings.TrimSpace(col)
		}
	}

	params.IncludeDeleted = r.URL.Query().Get("include_deleted") == "true"

	if shelf, err := strconv.Atoi(r.URL.Query().Get("shelf")); err == nil {
		params.Shelf = shelf
	}
	if division, err := strconv.Atoi(r.URL.Query().Get("division")); err == nil {
		params.Division = division
	}

	return params
}

// collectSamples drains all matching samples page by page. Exports are small
// enough (thousands of rows) that buffering them in memory is fine.
func (h *ExportHandler) collectSamples(ctx context.Context, params *ExportParams) ([]domain.Sample, error) {
	var samples []domain.Sample

	listParams := ports.ListParams{
		Shelf:    params.Shelf,
		Division: params.Division,
		SortBy:   "slot",
		Page:     1,
		PageSize: exportPageSize,
	}

	for {
		result, err := h.service.List(ctx, listParams)
		if err != nil {
			return nil, fmt.Errorf("listing samples: %w", err)
		}
		for _, s := range result.Samples {
			samples = append(samples, *s)
		}
		if len(result.Samples) < exportPageSize {
			break
		}
		listParams.Page++
	}

	if params.IncludeDeleted {
		deleted, err := h.repo.FindDeleted(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing deleted samples: %w", err)
		}
		samples = append(samples, deleted...)
	}

	return samples, nil
}

var exportHeaderMap = map[string]string{
	"style":         "Style",
	"item":          "Item",
	"buyer":         "Buyer",
	"no_of_samples": "No. of Samples",
	"comments":      "Comments",
	"sample_date":   "Sample Date",
	"shelf":         "Shelf",
	"division":      "Division",
	"position":      "Position",
	"availability":  "Availability",
	"status":        "Status",
	"added_by":      "Added By",
	"added_at":      "Added At",
	"updated_at":    "Updated At",
}

var exportColumnOrder = []string{
	"style", "item", "buyer", "no_of_samples", "comments", "sample_date",
	"shelf", "division", "position", "availability", "status",
	"added_by", "added_at", "updated_at",
}

func (h *ExportHandler) resolveColumns(columns []string) []string {
	if len(columns) == 1 && columns[0] == "all" {
		return exportColumnOrder
	}

	var selected []string
	for _, col := range columns {
		if _, ok := exportHeaderMap[col]; ok {
			selected = append(selected, col)
		}
	}
	if len(selected) == 0 {
		return exportColumnOrder
	}
	return selected
}

func (h *ExportHandler) generateExcelFile(samples []domain.Sample, params *ExportParams) ([]byte, error) {
	file := xlsx.NewFile()

	sheet, err := file.AddSheet("Samples")
	if err != nil {
		return nil, fmt.Errorf("failed to add worksheet: %w", err)
	}

	columns := h.resolveColumns(params.Columns)

	headerRow := sheet.AddRow()
	for _, col := range columns {
		cell := headerRow.AddCell()
		cell.Value = exportHeaderMap[col]
		cell.GetStyle().Font.Bold = true
		cell.GetStyle().Fill.PatternType = "solid"
		cell.GetStyle().Fill.FgColor = "CCCCCC"
	}

	for i := range samples {
		dataRow := sheet.AddRow()
		for _, col := range columns {
			cell := dataRow.AddCell()
			cell.Value = h.sampleCellValue(&samples[i], col)
		}
	}

	for i := range columns {
		sheet.SetColWidth(i, i, 15)
	}

	var buffer bytes.Buffer
	if err := file.Write(&buffer); err != nil {
		return nil, fmt.Errorf("failed to write Excel file to buffer: %w", err)
	}

	return buffer.Bytes(), nil
}

func (h *ExportHandler) sampleCellValue(s *domain.Sample, column string) string {
	switch column {
	case "style":
		return s.Style
	case "item":
		return s.Item
	case "buyer":
		return s.Buyer
	case "no_of_samples":
		return strconv.Itoa(s.NoOfSamples)
	case "comments":
		return s.Comments
	case "sample_date":
		return h.safeDateValue(s.SampleDate)
	case "shelf":
		return strconv.Itoa(s.Shelf)
	case "division":
		return strconv.Itoa(s.Division)
	case "position":
		return strconv.Itoa(s.Position)
	case "availability":
		return string(s.Availability)
	case "status":
		return s.Status
	case "added_by":
		return s.AddedBy
	case "added_at":
		return s.AddedAt.Format("2006-01-02 15:04:05")
	case "updated_at":
		return s.UpdatedAt.Format("2006-01-02 15:04:05")
	default:
		return ""
	}
}

func (h *ExportHandler) sampleToJSONMap(s *domain.Sample, columns []string) map[string]any {
	result := map[string]any{
		"style":         s.Style,
		"item":          s.Item,
		"buyer":         s.Buyer,
		"no_of_samples": s.NoOfSamples,
		"comments":      s.Comments,
		"sample_date":   s.SampleDate,
		"shelf":         s.Shelf,
		"division":      s.Division,
		"position":      s.Position,
		"availability":  s.Availability,
		"status":        s.Status,
		"added_by":      s.AddedBy,
		"added_at":      s.AddedAt,
		"updated_at":    s.UpdatedAt,
	}

	if len(columns) > 0 && !(len(columns) == 1 && columns[0] == "all") {
		filtered := make(map[string]any)
		for _, col := range columns {
			if value, exists := result[col]; exists {
				filtered[col] = value
			}
		}
		return filtered
	}

	return result
}

func (h *ExportHandler) safeDateValue(value *time.Time) string {
	if value == nil {
		return ""
	}
	return value.Format("2006-01-02")
}

func (h *ExportHandler) getCacheKeyFromParams(params *ExportParams) string {
	key := fmt.Sprintf("cols_%s_del_%t", strings.Join(params.Columns, ","), params.IncludeDeleted)
	if params.Shelf > 0 {
		key += fmt.Sprintf("_s%d", params.Shelf)
	}
	if params.Division > 0 {
		key += fmt.Sprintf("_d%d", params.Division)
	}
	return key
}

func (h *ExportHandler) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (h *ExportHandler) respondError(w http.ResponseWriter, statusCode int, message string) {
	h.respondJSON(w, statusCode, map[string]any{
		"success": false,
		"message": message,
	})
}
