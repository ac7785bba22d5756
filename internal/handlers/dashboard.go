package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/basefinder/basefinder-be/internal/adapters/db"
	redis_a "github.com/basefinder/basefinder-be/internal/adapters/redis_adapter"
	"github.com/basefinder/basefinder-be/internal/core/domain"
	"github.com/basefinder/basefinder-be/internal/core/ports"
)

// DashboardHandler serves warehouse occupancy statistics
type DashboardHandler struct {
	db     *db.Database
	cache  ports.CacheRepository
	logger *slog.Logger
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(db *db.Database, cache ports.CacheRepository, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{
		db:     db,
		cache:  cache,
		logger: logger.With(slog.String("handler", "dashboard")),
	}
}

// GetDashboard handles GET /api/v1/dashboard
func (h *DashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	cacheKey := redis_a.BuildKey(redis_a.PrefixDashboard, "main")
	var dashboard DashboardData

	err := h.cache.GetOrSet(ctx, cacheKey, &dashboard, func() (interface{}, error) {
		return h.loadDashboardData(ctx)
	}, 5*time.Minute)

	if err != nil {
		h.logger.ErrorContext(ctx, "failed to load dashboard", slog.Any("error", err))
		h.respondError(w, http.StatusInternalServerError, "Failed to load dashboard")
		return
	}

	h.respondJSON(w, http.StatusOK, dashboard)
}

func (h *DashboardHandler) loadDashboardData(ctx context.Context) (*DashboardData, error) {
	dashboard := &DashboardData{
		Timestamp: time.Now(),
	}

	// Availability values come from the domain constants; taken is stored
	// as "no", not "taken".
	summaryQuery := `
		SELECT
			COUNT(*) FILTER (WHERE deleted_at IS NULL) AS total_samples,
			COUNT(*) FILTER (WHERE deleted_at IS NULL AND availability = $1) AS available,
			COUNT(*) FILTER (WHERE deleted_at IS NULL AND availability = $2) AS taken,
			COUNT(*) FILTER (WHERE deleted_at IS NOT NULL) AS deleted
		FROM samples
	`

	err := h.db.QueryRow(ctx, summaryQuery,
		string(domain.AvailabilityAvailable),
		string(domain.AvailabilityTaken),
	).Scan(
		&dashboard.Summary.TotalSamples,
		&dashboard.Summary.Available,
		&dashboard.Summary.Taken,
		&dashboard.Summary.Deleted,
	)
	if err != nil {
		return nil, err
	}

	conflictQuery := `
		SELECT COUNT(*) FROM (
			SELECT shelf, division, position
			FROM samples
			WHERE deleted_at IS NULL
			GROUP BY shelf, division, position
			HAVING COUNT(*) > 1
		) c
	`
	if err := h.db.QueryRow(ctx, conflictQuery).Scan(&dashboard.Summary.ConflictingSlots); err != nil {
		return nil, err
	}

	occupancyQuery := `
		SELECT
			shelf,
			division,
			COUNT(*) AS sample_count,
			MAX(position) AS highest_position,
			COUNT(*) FILTER (WHERE availability = $1) AS taken_count
		FROM samples
		WHERE deleted_at IS NULL
		GROUP BY shelf, division
		ORDER BY shelf, division
	`

	rows, err := h.db.Query(ctx, occupancyQuery, string(domain.AvailabilityTaken))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var occ DivisionOccupancy
		if err := rows.Scan(&occ.Shelf, &occ.Division, &occ.SampleCount, &occ.HighestPosition, &occ.TakenCount); err != nil {
			return nil, err
		}
		dashboard.Occupancy = append(dashboard.Occupancy, occ)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	activityQuery := `
		SELECT id, style, buyer, availability, updated_at
		FROM samples
		WHERE deleted_at IS NULL
		ORDER BY updated_at DESC
		LIMIT 20
	`

	actRows, err := h.db.Query(ctx, activityQuery)
	if err != nil {
		return nil, err
	}
	defer actRows.Close()

	for actRows.Next() {
		var activity RecentActivity
		if err := actRows.Scan(&activity.SampleID, &activity.Style, &activity.Buyer, &activity.Availability, &activity.UpdatedAt); err != nil {
			return nil, err
		}
		dashboard.RecentActivity = append(dashboard.RecentActivity, activity)
	}

	return dashboard, actRows.Err()
}

// Type definitions

type DashboardData struct {
	Summary        DashboardSummary    `json:"summary"`
	Occupancy      []DivisionOccupancy `json:"occupancy"`
	RecentActivity []RecentActivity    `json:"recent_activity"`
	Timestamp      time.Time           `json:"timestamp"`
}

type DashboardSummary struct {
	TotalSamples     int64 `json:"total_samples"`
	Available        int64 `json:"available"`
	Taken            int64 `json:"taken"`
	Deleted          int64 `json:"deleted"`
	ConflictingSlots int64 `json:"conflicting_slots"`
}

type DivisionOccupancy struct {
	Shelf           int   `json:"shelf"`
	Division        int   `json:"division"`
	SampleCount     int64 `json:"sample_count"`
	HighestPosition int   `json:"highest_position"`
	TakenCount      int64 `json:"taken_count"`
}

type RecentActivity struct {
	SampleID     string    `json:"sample_id"`
	Style        string    `json:"style"`
	Buyer        *string   `json:"buyer,omitempty"`
	Availability string    `json:"availability"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Helper methods

func (h *DashboardHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (h *DashboardHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
