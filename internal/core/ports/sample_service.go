// internal/core/ports/sample_service.go
package ports

import (
	"context"

	"github.com/basefinder/basefinder-be/internal/core/domain"
	"github.com/google/uuid"
)

// SampleService defines the application service port for samples.
// This interface is implemented by the application service.
type SampleService interface {
	AddSample(ctx context.Context, sample *domain.Sample) error
	UpdateSample(ctx context.Context, id uuid.UUID, sample *domain.Sample) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Sample, error)
	List(ctx context.Context, params ListParams) (*ListResult, error)
	Search(ctx context.Context, term string) ([]domain.Sample, error)
	SamplesByLocation(ctx context.Context, shelf, division int) ([]domain.Sample, error)
	ListDeleted(ctx context.Context) ([]domain.Sample, error)

	Take(ctx context.Context, id uuid.UUID, takenBy, purpose string) error
	PutBack(ctx context.Context, id uuid.UUID, position int, returnedBy, returnPurpose string) error

	SoftDelete(ctx context.Context, id uuid.UUID, deletedBy string, reducePositions bool) error
	Restore(ctx context.Context, id uuid.UUID, position int, restoredBy string) error
	PermanentDelete(ctx context.Context, id uuid.UUID) error

	CheckPositionAvailability(ctx context.Context, slot domain.SlotKey) (bool, error)
	ShiftPositions(ctx context.Context, shelf, division, fromPosition int) (int64, error)
	ShiftPositionsByAmount(ctx context.Context, shelf, division, amount int) (int64, error)
	ReducePositions(ctx context.Context, shelf, division, afterPosition int) (int64, error)
	NormalizeDivision(ctx context.Context, shelf, division int) (int64, error)

	FindConflicts(ctx context.Context, shelf, division int) ([]domain.ConflictGroup, error)
	ResolveConflict(ctx context.Context, params ResolveConflictParams) (int64, error)
}

// ListParams holds parameters for listing samples
type ListParams struct {
	Search       string
	Buyer        string
	Item         string
	Status       string
	Availability string
	Shelf        int
	Division     int
	SortBy       string
	SortOrder    string
	Page         int
	PageSize     int
}

// ListResult holds the result of listing samples
type ListResult struct {
	Samples    []*domain.Sample `json:"samples"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
	TotalCount int64            `json:"total_count"`
	TotalPages int              `json:"total_pages"`
}

// ResolveConflictParams describes one conflict resolution request.
// KeepSampleID is set for keepOne, SampleIDs for deleteSelected.
type ResolveConflictParams struct {
	Type       domain.ResolutionType
	Shelf      int
	Division   int
	Position   int
	KeepID     uuid.UUID
	SampleIDs  []uuid.UUID
	ResolvedBy string
}
