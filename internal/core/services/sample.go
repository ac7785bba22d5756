// internal/core/services/sample.go
package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/basefinder/basefinder-be/internal/core/domain"
	"github.com/basefinder/basefinder-be/internal/core/ports"
)

// PgxPool interface defines the contract for database operations
type PgxPool interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// SampleService handles sample tracking business logic
type SampleService struct {
	repo   ports.SampleRepository
	db     PgxPool
	logger *slog.Logger
}

// Statically assert that *SampleService implements the SampleService interface.
var _ ports.SampleService = (*SampleService)(nil)

// NewSampleService creates a new sample service
func NewSampleService(repo ports.SampleRepository, db PgxPool, logger *slog.Logger) *SampleService {
	return &SampleService{
		repo:   repo,
		db:     db,
		logger: logger.With(slog.String("service", "samples")),
	}
}

// AddSample validates and stores a new sample
func (s *SampleService) AddSample(ctx context.Context, sample *domain.Sample) error {
	if err := sample.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	sample.PrepareForStorage()

	if err := s.repo.Save(ctx, sample); err != nil {
		return fmt.Errorf("failed to save sample: %w", err)
	}

	s.logger.InfoContext(ctx, "sample added",
		slog.String("sample_id", sample.ID.String()),
		slog.String("style", sample.Style),
		slog.String("slot", sample.Slot().String()))

	return nil
}

// UpdateSample updates an existing sample's descriptive and slot fields
func (s *SampleService) UpdateSample(ctx context.Context, id uuid.UUID, sample *domain.Sample) error {
	sample.ID = id

	if err := sample.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	if err := s.repo.Update(ctx, sample); err != nil {
		return fmt.Errorf("failed to update sample: %w", err)
	}

	s.logger.InfoContext(ctx, "sample updated",
		slog.String("sample_id", id.String()))

	return nil
}

// GetByID retrieves a sample by ID
func (s *SampleService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Sample, error) {
	sample, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get sample: %w", err)
	}
	if sample == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, id)
	}
	return sample, nil
}

// List retrieves samples with filtering and pagination
func (s *SampleService) List(ctx context.Context, params ports.ListParams) (*ports.ListResult, error) {
	query := ports.SampleQuery{
		Search:       params.Search,
		Buyer:        params.Buyer,
		Item:         params.Item,
		Status:       params.Status,
		Availability: params.Availability,
		Shelf:        params.Shelf,
		Division:     params.Division,
		SortBy:       params.SortBy,
		SortOrder:    params.SortOrder,
		Limit:        params.PageSize,
	}
	if params.Page > 1 {
		query.Offset = (params.Page - 1) * params.PageSize
	}

	samples, totalCount, err := s.repo.FindAll(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list samples: %w", err)
	}

	var totalPages int
	if params.PageSize > 0 {
		totalPages = int(totalCount) / params.PageSize
		if int(totalCount)%params.PageSize > 0 {
			totalPages++
		}
	}

	return &ports.ListResult{
		Samples:    samples,
		Page:       params.Page,
		PageSize:   params.PageSize,
		TotalCount: totalCount,
		TotalPages: totalPages,
	}, nil
}

// Search finds samples whose style, buyer, item or status match the term
func (s *SampleService) Search(ctx context.Context, term string) ([]domain.Sample, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, domain.NewValidationError("term", "is required")
	}

	samples, err := s.repo.Search(ctx, term)
	if err != nil {
		return nil, fmt.Errorf("failed to search samples: %w", err)
	}
	return samples, nil
}

// SamplesByLocation lists the active samples in one (shelf, division)
func (s *SampleService) SamplesByLocation(ctx context.Context, shelf, division int) ([]domain.Sample, error) {
	if shelf < 1 {
		return nil, domain.NewValidationError("shelf", "must be a positive integer")
	}
	if division < 1 {
		return nil, domain.NewValidationError("division", "must be a positive integer")
	}

	samples, err := s.repo.FindByLocation(ctx, shelf, division)
	if err != nil {
		return nil, fmt.Errorf("failed to list samples at location: %w", err)
	}
	return samples, nil
}

// ListDeleted lists soft-deleted samples
func (s *SampleService) ListDeleted(ctx context.Context) ([]domain.Sample, error) {
	samples, err := s.repo.FindDeleted(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list deleted samples: %w", err)
	}
	return samples, nil
}

// Take marks a sample as taken off the shelf. The purpose is mandatory and
// nothing is written when validation fails.
func (s *SampleService) Take(ctx context.Context, id uuid.UUID, takenBy, purpose string) error {
	if strings.TrimSpace(purpose) == "" {
		return domain.NewValidationError("purpose", "is required")
	}

	sample, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if sample.IsTaken() {
		return domain.NewValidationError("availability", "sample is already taken")
	}

	entry := domain.TakenLog{
		TakenBy: takenBy,
		TakenAt: time.Now(),
		Purpose: purpose,
	}
	if err := s.repo.AppendTakenLog(ctx, id, entry); err != nil {
		return fmt.Errorf("failed to take sample: %w", err)
	}

	s.logger.InfoContext(ctx, "sample taken",
		slog.String("sample_id", id.String()),
		slog.String("taken_by", takenBy))

	return nil
}

// PutBack returns a taken sample to a slot. The target position is mandatory;
// duplicate occupancy is allowed here and is detected later by the conflict
// sweep, because an operator may deliberately double-book a slot.
func (s *SampleService) PutBack(ctx context.Context, id uuid.UUID, position int, returnedBy, returnPurpose string) error {
	if position < 1 {
		return domain.NewValidationError("position", "must be a positive integer")
	}

	sample, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !sample.IsTaken() {
		return domain.NewValidationError("availability", "sample is not taken")
	}

	slot := domain.SlotKey{Shelf: sample.Shelf, Division: sample.Division, Position: position}
	entry := domain.ReturnedLog{
		ReturnedBy:    returnedBy,
		ReturnedAt:    time.Now(),
		Position:      position,
		ReturnPurpose: returnPurpose,
	}
	if err := s.repo.AppendReturnedLog(ctx, id, slot, entry); err != nil {
		return fmt.Errorf("failed to put back sample: %w", err)
	}

	s.logger.InfoContext(ctx, "sample put back",
		slog.String("sample_id", id.String()),
		slog.String("slot", slot.String()))

	return nil
}

// SoftDelete moves a sample to the deleted set. When reducePositions is set,
// positions past the vacated one are compacted so the division stays packed.
func (s *SampleService) SoftDelete(ctx context.Context, id uuid.UUID, deletedBy string, reducePositions bool) error {
	sample, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.SoftDelete(ctx, id, deletedBy); err != nil {
		return fmt.Errorf("failed to delete sample: %w", err)
	}

	if reducePositions {
		modified, err := s.repo.ReducePositions(ctx, sample.Shelf, sample.Division, sample.Position)
		if err != nil {
			return fmt.Errorf("sample deleted but position reduction failed: %w", err)
		}
		s.logger.InfoContext(ctx, "positions reduced after delete",
			slog.String("sample_id", id.String()),
			slog.Int64("modified", modified))
	}

	s.logger.InfoContext(ctx, "sample soft deleted",
		slog.String("sample_id", id.String()),
		slog.String("deleted_by", deletedBy))

	return nil
}

// Restore clears the deletion markers and re-activates the sample at the
// given position.
func (s *SampleService) Restore(ctx context.Context, id uuid.UUID, position int, restoredBy string) error {
	if position < 1 {
		return domain.NewValidationError("position", "must be a positive integer")
	}

	if err := s.repo.Restore(ctx, id, position, restoredBy); err != nil {
		return fmt.Errorf("failed to restore sample: %w", err)
	}

	s.logger.InfoContext(ctx, "sample restored",
		slog.String("sample_id", id.String()),
		slog.Int("position", position))

	return nil
}

// PermanentDelete erases a sample entirely. Only reachable from the
// deleted-samples view; the handler enforces the admin requirement.
func (s *SampleService) PermanentDelete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to permanently delete sample: %w", err)
	}

	s.logger.WarnContext(ctx, "sample permanently deleted",
		slog.String("sample_id", id.String()))

	return nil
}

// CheckPositionAvailability reports whether a slot currently has no active
// sample assigned to it.
func (s *SampleService) CheckPositionAvailability(ctx context.Context, slot domain.SlotKey) (bool, error) {
	occupied, err := s.repo.PositionOccupied(ctx, slot)
	if err != nil {
		return false, fmt.Errorf("failed to check position availability: %w", err)
	}
	return !occupied, nil
}

// ShiftPositions increments by one the position of every active sample in
// (shelf, division) at or after fromPosition, freeing fromPosition itself.
func (s *SampleService) ShiftPositions(ctx context.Context, shelf, division, fromPosition int) (int64, error) {
	if _, err := domain.NewSlotKey(shelf, division, fromPosition); err != nil {
		return 0, err
	}

	modified, err := s.repo.ShiftPositions(ctx, shelf, division, fromPosition)
	if err != nil {
		return 0, fmt.Errorf("failed to shift positions: %w", err)
	}

	s.logger.InfoContext(ctx, "positions shifted",
		slog.Int("shelf", shelf),
		slog.Int("division", division),
		slog.Int("from_position", fromPosition),
		slog.Int64("modified", modified))

	return modified, nil
}

// ShiftPositionsByAmount adds a fixed offset to every position in a division
func (s *SampleService) ShiftPositionsByAmount(ctx context.Context, shelf, division, amount int) (int64, error) {
	if shelf < 1 || division < 1 {
		return 0, domain.NewValidationError("shelf/division", "must be positive integers")
	}
	if amount == 0 {
		return 0, domain.NewValidationError("amountToIncrease", "must be non-zero")
	}

	modified, err := s.repo.ShiftPositionsByAmount(ctx, shelf, division, amount)
	if err != nil {
		return 0, fmt.Errorf("failed to shift positions by amount: %w", err)
	}
	return modified, nil
}

// ReducePositions decrements by one the position of every active sample in
// (shelf, division) past afterPosition. Inverse of ShiftPositions for a
// division with no concurrent mutation in between.
func (s *SampleService) ReducePositions(ctx context.Context, shelf, division, afterPosition int) (int64, error) {
	if _, err := domain.NewSlotKey(shelf, division, afterPosition); err != nil {
		return 0, err
	}

	modified, err := s.repo.ReducePositions(ctx, shelf, division, afterPosition)
	if err != nil {
		return 0, fmt.Errorf("failed to reduce positions: %w", err)
	}

	s.logger.InfoContext(ctx, "positions reduced",
		slog.Int("shelf", shelf),
		slog.Int("division", division),
		slog.Int("after_position", afterPosition),
		slog.Int64("modified", modified))

	return modified, nil
}

// NormalizeDivision re-numbers the division's active samples to 1..N
func (s *SampleService) NormalizeDivision(ctx context.Context, shelf, division int) (int64, error) {
	if shelf < 1 || division < 1 {
		return 0, domain.NewValidationError("shelf/division", "must be positive integers")
	}

	modified, err := s.repo.NormalizeDivision(ctx, shelf, division)
	if err != nil {
		return 0, fmt.Errorf("failed to normalize division: %w", err)
	}

	s.logger.InfoContext(ctx, "division normalized",
		slog.Int("shelf", shelf),
		slog.Int("division", division),
		slog.Int64("modified", modified))

	return modified, nil
}

// FindConflicts returns groups of active samples sharing one slot. A zero
// shelf and division scans the whole warehouse; a specific scope requires
// both coordinates.
func (s *SampleService) FindConflicts(ctx context.Context, shelf, division int) ([]domain.ConflictGroup, error) {
	if (shelf == 0) != (division == 0) {
		return nil, domain.NewValidationError("scope", "shelf and division must be given together")
	}
	if shelf < 0 || division < 0 {
		return nil, domain.NewValidationError("scope", "shelf and division must be positive integers")
	}

	groups, err := s.repo.FindConflicts(ctx, shelf, division)
	if err != nil {
		return nil, fmt.Errorf("failed to find conflicts: %w", err)
	}

	s.logger.InfoContext(ctx, "conflict sweep completed",
		slog.Int("shelf", shelf),
		slog.Int("division", division),
		slog.Int("groups", len(groups)))

	return groups, nil
}

// ResolveConflict applies one resolution strategy to a contested slot and
// returns the number of samples removed. Overwrite without an explicit
// keepSampleId keeps the newest occupant. shiftDown and cancel are handled
// by their own endpoints and are rejected here.
func (s *SampleService) ResolveConflict(ctx context.Context, params ports.ResolveConflictParams) (int64, error) {
	if _, err := domain.NewSlotKey(params.Shelf, params.Division, params.Position); err != nil {
		return 0, err
	}

	switch params.Type {
	case domain.ResolutionKeepOne:
		if params.KeepID == uuid.Nil {
			return 0, domain.NewValidationError("keepSampleId", "is required")
		}
		return s.resolveKeepOne(ctx, params)
	case domain.ResolutionOverwrite:
		if params.KeepID == uuid.Nil {
			return s.resolveNewestWins(ctx, params)
		}
		return s.resolveKeepOne(ctx, params)
	case domain.ResolutionDeleteSelected:
		if len(params.SampleIDs) == 0 {
			return 0, domain.NewValidationError("sampleIds", "at least one sample must be selected")
		}
		removed, err := s.repo.SoftDeleteMany(ctx, params.SampleIDs, params.ResolvedBy)
		if err != nil {
			return 0, fmt.Errorf("failed to delete selected samples: %w", err)
		}
		s.logResolution(ctx, params, removed)
		return removed, nil
	default:
		return 0, domain.NewValidationError("resolutionType", fmt.Sprintf("unsupported strategy %q", params.Type))
	}
}

func (s *SampleService) resolveKeepOne(ctx context.Context, params ports.ResolveConflictParams) (int64, error) {
	slot := domain.SlotKey{Shelf: params.Shelf, Division: params.Division, Position: params.Position}

	occupants, err := s.repo.FindByLocation(ctx, params.Shelf, params.Division)
	if err != nil {
		return 0, fmt.Errorf("failed to load conflicting samples: %w", err)
	}

	var losers []uuid.UUID
	kept := false
	for i := range occupants {
		if occupants[i].Position != slot.Position {
			continue
		}
		if occupants[i].ID == params.KeepID {
			kept = true
			continue
		}
		losers = append(losers, occupants[i].ID)
	}
	if !kept {
		return 0, fmt.Errorf("%w: sample %s is not at %s", domain.ErrNotFound, params.KeepID, slot)
	}
	if len(losers) == 0 {
		return 0, nil
	}

	removed, err := s.repo.SoftDeleteMany(ctx, losers, params.ResolvedBy)
	if err != nil {
		return 0, fmt.Errorf("failed to resolve conflict: %w", err)
	}
	s.logResolution(ctx, params, removed)
	return removed, nil
}

// resolveNewestWins keeps the most recently added sample at the contested
// slot and soft-deletes the rest. Overwrite carries no selection, so the
// newest occupant wins.
func (s *SampleService) resolveNewestWins(ctx context.Context, params ports.ResolveConflictParams) (int64, error) {
	occupants, err := s.repo.FindByLocation(ctx, params.Shelf, params.Division)
	if err != nil {
		return 0, fmt.Errorf("failed to load conflicting samples: %w", err)
	}

	newest := -1
	for i := range occupants {
		if occupants[i].Position != params.Position {
			continue
		}
		if newest < 0 || occupants[i].AddedAt.After(occupants[newest].AddedAt) {
			newest = i
		}
	}
	if newest < 0 {
		slot := domain.SlotKey{Shelf: params.Shelf, Division: params.Division, Position: params.Position}
		return 0, fmt.Errorf("%w: no samples at %s", domain.ErrNotFound, slot)
	}

	var losers []uuid.UUID
	for i := range occupants {
		if occupants[i].Position == params.Position && i != newest {
			losers = append(losers, occupants[i].ID)
		}
	}
	if len(losers) == 0 {
		return 0, nil
	}

	removed, err := s.repo.SoftDeleteMany(ctx, losers, params.ResolvedBy)
	if err != nil {
		return 0, fmt.Errorf("failed to resolve conflict: %w", err)
	}
	s.logResolution(ctx, params, removed)
	return removed, nil
}

func (s *SampleService) logResolution(ctx context.Context, params ports.ResolveConflictParams, removed int64) {
	s.logger.InfoContext(ctx, "conflict resolved",
		slog.String("strategy", string(params.Type)),
		slog.Int("shelf", params.Shelf),
		slog.Int("division", params.Division),
		slog.Int("position", params.Position),
		slog.Int64("samples_removed", removed))
}
