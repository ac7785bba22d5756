// internal/handlers/samples.go
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/basefinder/basefinder-be/internal/core/domain"
	"github.com/basefinder/basefinder-be/internal/core/ports"
)

// CacheInvalidator drops cached views derived from sample data. Dashboard,
// conflict, search and export responses are cached with TTLs, so mutations
// must invalidate them eagerly or readers see stale slots.
type CacheInvalidator interface {
	InvalidateSampleCache(ctx context.Context, sampleID string) error
}

// SampleHandler handles sample-related HTTP requests
type SampleHandler struct {
	service     ports.SampleService
	invalidator CacheInvalidator
	logger      *slog.Logger
}

// NewSampleHandler creates a new sample handler. invalidator may be nil when
// no cache is configured.
func NewSampleHandler(service ports.SampleService, invalidator CacheInvalidator, logger *slog.Logger) *SampleHandler {
	return &SampleHandler{
		service:     service,
		invalidator: invalidator,
		logger:      logger.With(slog.String("handler", "samples")),
	}
}

// invalidate drops derived caches after a successful mutation. Failures are
// logged, not surfaced: the write already happened.
func (h *SampleHandler) invalidate(ctx context.Context, sampleID string) {
	if h.invalidator == nil {
		return
	}
	if err := h.invalidator.InvalidateSampleCache(ctx, sampleID); err != nil {
		h.logger.WarnContext(ctx, "cache invalidation failed",
			slog.String("sample_id", sampleID),
			slog.Any("error", err))
	}
}

// ListSamples handles GET /api/v1/samples
func (h *SampleHandler) ListSamples(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	result, err := h.service.List(ctx, h.parseListParams(r))
	if err != nil {
		h.respondServiceError(w, r, err, "Failed to list samples")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"samples":    result.Samples,
		"page":       result.Page,
		"pageSize":   result.PageSize,
		"totalCount": result.TotalCount,
		"totalPages": result.TotalPages,
	})
}

// GetSample handles GET /api/v1/samples/{id}
func (h *SampleHandler) GetSample(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	sample, err := h.service.GetByID(ctx, id)
	if err != nil {
		h.respondServiceError(w, r, err, "Failed to retrieve sample")
		return
	}

	h.respondJSON(w, http.StatusOK, sample)
}

// CreateSample handles POST /api/v1/samples
func (h *SampleHandler) CreateSample(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req SampleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	sample := req.ToDomain()
	if sample.AddedBy == "" {
		sample.AddedBy = userFromContext(ctx)
	}
	if err := h.service.AddSample(ctx, sample); err != nil {
		h.respondServiceError(w, r, err, "Failed to create sample")
		return
	}
	h.invalidate(ctx, sample.ID.String())

	h.respondJSON(w, http.StatusCreated, sample)
}

// UpdateSample handles PUT /api/v1/samples/{id}
func (h *SampleHandler) UpdateSample(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	var req SampleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	sample := req.ToDomain()
	if err := h.service.UpdateSample(ctx, id, sample); err != nil {
		h.respondServiceError(w, r, err, "Failed to update sample")
		return
	}
	h.invalidate(ctx, id.String())

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Sample updated successfully",
	})
}

// SearchSamples handles GET /api/v1/samples/search/{term}
func (h *SampleHandler) SearchSamples(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	term := r.PathValue("term")

	samples, err := h.service.Search(ctx, term)
	if err != nil {
		h.respondServiceError(w, r, err, "Failed to search samples")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Search completed",
		"data":    emptyIfNil(samples),
	})
}

// SamplesByLocation handles GET /api/v1/samples-by-location?shelf&division
func (h *SampleHandler) SamplesByLocation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	shelf, err := domain.CoerceSlotValue(r.URL.Query().Get("shelf"))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "shelf must be a whole number")
		return
	}
	division, err := domain.CoerceSlotValue(r.URL.Query().Get("division"))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "division must be a whole number")
		return
	}

	samples, err := h.service.SamplesByLocation(ctx, shelf, division)
	if err != nil {
		h.respondServiceError(w, r, err, "Failed to list samples at location")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"samples": emptyIfNil(samples),
	})
}

// ListDeletedSamples handles GET /api/v1/samples/deleted-samples
func (h *SampleHandler) ListDeletedSamples(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	samples, err := h.service.ListDeleted(ctx)
	if err != nil {
		h.respondServiceError(w, r, err, "Failed to list deleted samples")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"samples": emptyIfNil(samples),
	})
}

// TakeSample handles PUT /api/v1/samples/{id}/take
func (h *SampleHandler) TakeSample(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	var req struct {
		TakenBy string `json:"taken_by"`
		Purpose string `json:"purpose"`
		// taken_at is accepted for wire compatibility; the server clock wins
		TakenAt *time.Time `json:"taken_at,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.service.Take(ctx, id, req.TakenBy, req.Purpose); err != nil {
		h.respondServiceError(w, r, err, "Failed to take sample")
		return
	}
	h.invalidate(ctx, id.String())

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Sample taken successfully",
	})
}

// PutBackSample handles PUT /api/v1/samples/putback/{id}
func (h *SampleHandler) PutBackSample(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	var req struct {
		Position      domain.SlotValue `json:"position"`
		ReturnedBy    string           `json:"returned_by"`
		ReturnPurpose string           `json:"return_purpose"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.service.PutBack(ctx, id, int(req.Position), req.ReturnedBy, req.ReturnPurpose); err != nil {
		h.respondServiceError(w, r, err, "Failed to put back sample")
		return
	}
	h.invalidate(ctx, id.String())

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Sample put back successfully",
	})
}

// DeleteSample handles DELETE /api/v1/samples/{id}?reducePositions=bool
func (h *SampleHandler) DeleteSample(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	reducePositions := r.URL.Query().Get("reducePositions") == "true"
	deletedBy := userFromContext(ctx)

	if err := h.service.SoftDelete(ctx, id, deletedBy, reducePositions); err != nil {
		h.respondServiceError(w, r, err, "Failed to delete sample")
		return
	}
	h.invalidate(ctx, id.String())

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Sample deleted successfully",
	})
}

// RestoreSample handles PUT /api/v1/samples/deleted-samples/restore/{id}
func (h *SampleHandler) RestoreSample(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	var req struct {
		Position   domain.SlotValue `json:"position"`
		RestoredBy string           `json:"restored_by"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.service.Restore(ctx, id, int(req.Position), req.RestoredBy); err != nil {
		h.respondServiceError(w, r, err, "Failed to restore sample")
		return
	}
	h.invalidate(ctx, id.String())

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Sample restored successfully",
	})
}

// PermanentDeleteSample handles DELETE /api/v1/samples/permanent-delete/{id}
func (h *SampleHandler) PermanentDeleteSample(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	if err := h.service.PermanentDelete(ctx, id); err != nil {
		h.respondServiceError(w, r, err, "Failed to permanently delete sample")
		return
	}
	h.invalidate(ctx, id.String())

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Sample permanently deleted",
	})
}

// CheckPositionAvailability handles GET /api/v1/samples/check-position-availability
func (h *SampleHandler) CheckPositionAvailability(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	slot, err := domain.ParseSlotKey(
		r.URL.Query().Get("shelf"),
		r.URL.Query().Get("division"),
		r.URL.Query().Get("position"),
	)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	empty, err := h.service.CheckPositionAvailability(ctx, slot)
	if err != nil {
		h.respondServiceError(w, r, err, "Failed to check position availability")
		return
	}

	message := "Position is empty"
	if !empty {
		message = "Position is already occupied"
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"isPositionEmpty": empty,
		"message":         message,
	})
}

// ShiftPositions handles PATCH /api/v1/samples/increase-positions-by-shelf-division
func (h *SampleHandler) ShiftPositions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req struct {
		Shelf           domain.SlotValue `json:"shelf"`
		Division        domain.SlotValue `json:"division"`
		CurrentPosition domain.SlotValue `json:"currentPosition"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	modified, err := h.service.ShiftPositions(ctx, int(req.Shelf), int(req.Division), int(req.CurrentPosition))
	if err != nil {
		h.respondServiceError(w, r, err, "Failed to shift positions")
		return
	}
	// Bulk slot moves touch many samples; drop everything derived
	h.invalidate(ctx, "")

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":       true,
		"modifiedCount": modified,
		"message":       "Positions shifted successfully",
	})
}

// ShiftPositionsByAmount handles PATCH /api/v1/samples/increase-positions-by-amount
func (h *SampleHandler) ShiftPositionsByAmount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req struct {
		Shelf            domain.SlotValue `json:"shelf"`
		Division         domain.SlotValue `json:"division"`
		AmountToIncrease int              `json:"amountToIncrease"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	modified, err := h.service.ShiftPositionsByAmount(ctx, int(req.Shelf), int(req.Division), req.AmountToIncrease)
	if err != nil {
		h.respondServiceError(w, r, err, "Failed to shift positions")
		return
	}
	h.invalidate(ctx, "")

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"modifiedCount": modified,
		"message":       "Positions shifted successfully",
	})
}

// ReducePositions handles PATCH /api/v1/samples/decrease-positions-by-shelf-division
func (h *SampleHandler) ReducePositions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req struct {
		Shelf           domain.SlotValue `json:"shelf"`
		Division        domain.SlotValue `json:"division"`
		CurrentPosition domain.SlotValue `json:"currentPosition"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	modified, err := h.service.ReducePositions(ctx, int(req.Shelf), int(req.Division), int(req.CurrentPosition))
	if err != nil {
		h.respondServiceError(w, r, err, "Failed to reduce positions")
		return
	}
	h.invalidate(ctx, "")

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":       true,
		"modifiedCount": modified,
		"message":       "Positions reduced successfully",
	})
}

// NormalizePositions handles PATCH /api/v1/samples/normalize-positions-in-division
func (h *SampleHandler) NormalizePositions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req struct {
		Shelf    domain.SlotValue `json:"shelf"`
		Division domain.SlotValue `json:"division"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	modified, err := h.service.NormalizeDivision(ctx, int(req.Shelf), int(req.Division))
	if err != nil {
		h.respondServiceError(w, r, err, "Failed to normalize positions")
		return
	}
	h.invalidate(ctx, "")

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":       true,
		"modifiedCount": modified,
		"message":       "Positions normalized successfully",
	})
}

// FindConflicts handles POST /api/v1/samples-conflict. An empty body (or
// empty object) scans the whole warehouse.
func (h *SampleHandler) FindConflicts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req struct {
		Shelf    domain.SlotValue `json:"shelf"`
		Division domain.SlotValue `json:"division"`
	}
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	}

	conflicts, err := h.service.FindConflicts(ctx, int(req.Shelf), int(req.Division))
	if err != nil {
		h.respondServiceError(w, r, err, "Failed to find conflicts")
		return
	}

	message := "No conflicts found"
	if len(conflicts) > 0 {
		message = "Conflicts found"
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"message":   message,
		"conflicts": emptyIfNilGroups(conflicts),
	})
}

// ResolveConflict handles POST /api/v1/samples/resolve-conflict
func (h *SampleHandler) ResolveConflict(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req struct {
		ResolutionType string `json:"resolutionType"`
		Data           struct {
			KeepSampleID uuid.UUID        `json:"keepSampleId"`
			SampleIDs    []uuid.UUID      `json:"sampleIds"`
			Shelf        domain.SlotValue `json:"shelf"`
			Division     domain.SlotValue `json:"division"`
			Position     domain.SlotValue `json:"position"`
		} `json:"data"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	removed, err := h.service.ResolveConflict(ctx, ports.ResolveConflictParams{
		Type:       domain.ResolutionType(req.ResolutionType),
		Shelf:      int(req.Data.Shelf),
		Division:   int(req.Data.Division),
		Position:   int(req.Data.Position),
		KeepID:     req.Data.KeepSampleID,
		SampleIDs:  req.Data.SampleIDs,
		ResolvedBy: userFromContext(ctx),
	})
	if err != nil {
		h.respondServiceError(w, r, err, "Failed to resolve conflict")
		return
	}
	h.invalidate(ctx, "")

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":       true,
		"modifiedCount": removed,
		"message":       "Conflict resolved successfully",
	})
}

// parseListParams parses query parameters for listing samples
func (h *SampleHandler) parseListParams(r *http.Request) ports.ListParams {
	params := ports.ListParams{
		Page:      1,
		PageSize:  50,
		SortBy:    "added_at",
		SortOrder: "desc",
	}

	if page := r.URL.Query().Get("page"); page != "" {
		if p, err := strconv.Atoi(page); err == nil && p > 0 {
			params.Page = p
		}
	}

	if limit := r.URL.Query().Get("limit"); limit != "" {
		if l, err := strconv.Atoi(limit); err == nil && l > 0 {
			if l > 100 {
				params.PageSize = 100
			} else {
				params.PageSize = l
			}
		}
	}

	params.Search = r.URL.Query().Get("search")
	params.Buyer = r.URL.Query().Get("buyer")
	params.Item = r.URL.Query().Get("item")
	params.Status = r.URL.Query().Get("status")
	params.Availability = r.URL.Query().Get("availability")

	if shelf, err := domain.CoerceSlotValue(r.URL.Query().Get("shelf")); err == nil {
		params.Shelf = shelf
	}
	if division, err := domain.CoerceSlotValue(r.URL.Query().Get("division")); err == nil {
		params.Division = division
	}

	if sortBy := r.URL.Query().Get("sort"); sortBy != "" {
		params.SortBy = sortBy
	}
	if order := r.URL.Query().Get("order"); order == "asc" || order == "desc" {
		params.SortOrder = order
	}

	return params
}

// Helper methods

func (h *SampleHandler) parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid sample ID format")
		return uuid.Nil, false
	}
	return id, true
}

func (h *SampleHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode JSON response",
			slog.String("error", err.Error()))
	}
}

func (h *SampleHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]interface{}{
		"success": false,
		"message": message,
	})
}

// respondServiceError maps service errors to HTTP statuses
func (h *SampleHandler) respondServiceError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		h.respondError(w, http.StatusBadRequest, verr.Error())
	case errors.Is(err, domain.ErrNotFound):
		h.respondError(w, http.StatusNotFound, "Sample not found")
	default:
		h.logger.ErrorContext(r.Context(), fallback,
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, fallback)
	}
}

func emptyIfNil(samples []domain.Sample) []domain.Sample {
	if samples == nil {
		return []domain.Sample{}
	}
	return samples
}

func emptyIfNilGroups(groups []domain.ConflictGroup) []domain.ConflictGroup {
	if groups == nil {
		return []domain.ConflictGroup{}
	}
	return groups
}

// Request DTOs

// SampleRequest is the request body for creating or updating a sample. Slot
// fields accept quoted strings for compatibility with legacy clients.
type SampleRequest struct {
	Style       string           `json:"style"`
	Item        string           `json:"item"`
	Buyer       string           `json:"buyer,omitempty"`
	NoOfSamples int              `json:"no_of_sample,omitempty"`
	Comments    string           `json:"comments,omitempty"`
	SampleDate  *time.Time       `json:"sample_date,omitempty"`
	Shelf       domain.SlotValue `json:"shelf"`
	Division    domain.SlotValue `json:"division"`
	Position    domain.SlotValue `json:"position"`
	Status      string           `json:"status,omitempty"`
	AddedBy     string           `json:"added_by,omitempty"`
}

// ToDomain converts the request to a domain model
func (r *SampleRequest) ToDomain() *domain.Sample {
	return &domain.Sample{
		Style:        r.Style,
		Item:         r.Item,
		Buyer:        r.Buyer,
		NoOfSamples:  r.NoOfSamples,
		Comments:     r.Comments,
		SampleDate:   r.SampleDate,
		Shelf:        int(r.Shelf),
		Division:     int(r.Division),
		Position:     int(r.Position),
		Availability: domain.AvailabilityAvailable,
		Status:       r.Status,
		AddedBy:      r.AddedBy,
	}
}
