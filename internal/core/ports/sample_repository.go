// internal/core/ports/sample_repository.go
package ports

import (
	"context"

	"github.com/basefinder/basefinder-be/internal/core/domain"
	"github.com/google/uuid"
)

// SampleQuery holds filter parameters for listing samples. A zero Shelf or
// Division means the filter is not applied.
type SampleQuery struct {
	Search       string
	Buyer        string
	Item         string
	Status       string
	Availability string
	Shelf        int
	Division     int
	SortBy       string
	SortOrder    string
	Limit        int
	Offset       int
}

// SampleRepository defines the persistence port for samples.
// This interface is implemented by the database adapter.
type SampleRepository interface {
	Save(ctx context.Context, sample *domain.Sample) error
	SaveBatch(ctx context.Context, samples []domain.Sample) error
	Update(ctx context.Context, sample *domain.Sample) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Sample, error)
	FindAll(ctx context.Context, query SampleQuery) ([]*domain.Sample, int64, error)
	Search(ctx context.Context, term string) ([]domain.Sample, error)
	FindByLocation(ctx context.Context, shelf, division int) ([]domain.Sample, error)
	FindDeleted(ctx context.Context) ([]domain.Sample, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	Count(ctx context.Context) (int64, error)

	// Availability transitions; both append to the sample's history
	AppendTakenLog(ctx context.Context, id uuid.UUID, entry domain.TakenLog) error
	AppendReturnedLog(ctx context.Context, id uuid.UUID, slot domain.SlotKey, entry domain.ReturnedLog) error

	// Deletion lifecycle
	SoftDelete(ctx context.Context, id uuid.UUID, deletedBy string) error
	SoftDeleteMany(ctx context.Context, ids []uuid.UUID, deletedBy string) (int64, error)
	Restore(ctx context.Context, id uuid.UUID, position int, restoredBy string) error
	Delete(ctx context.Context, id uuid.UUID) error

	// Slot maintenance within one (shelf, division)
	ShiftPositions(ctx context.Context, shelf, division, fromPosition int) (int64, error)
	ShiftPositionsByAmount(ctx context.Context, shelf, division, amount int) (int64, error)
	ReducePositions(ctx context.Context, shelf, division, afterPosition int) (int64, error)
	NormalizeDivision(ctx context.Context, shelf, division int) (int64, error)
	PositionOccupied(ctx context.Context, slot domain.SlotKey) (bool, error)

	// Conflict detection; shelf/division of 0 means scan everything
	FindConflicts(ctx context.Context, shelf, division int) ([]domain.ConflictGroup, error)
}
