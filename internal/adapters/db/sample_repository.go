// internal/adapters/db/sample_repository.go
package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/basefinder/basefinder-be/internal/core/domain"
	"github.com/basefinder/basefinder-be/internal/core/ports"
)

// sampleColumns is the canonical column list scanned by scanSample.
var sampleColumns = []string{
	"id", "style", "item", "buyer", "no_of_samples", "comments", "sample_date",
	"shelf", "division", "position", "availability", "status",
	"added_by", "added_at", "taken_logs", "returned_logs",
	"deleted_at", "deleted_by", "updated_at",
}

// sampleRepository implements ports.SampleRepository
type sampleRepository struct {
	db     *Database
	logger *slog.Logger
}

// NewSampleRepository creates a new sample repository
func NewSampleRepository(db *Database, logger *slog.Logger) ports.SampleRepository {
	return &sampleRepository{
		db:     db,
		logger: logger.With(slog.String("repository", "samples")),
	}
}

type scannable interface {
	Scan(dest ...any) error
}

// scanSample reads one row in sampleColumns order
func scanSample(row scannable, s *domain.Sample) error {
	var buyer, comments, status, addedBy, deletedBy sql.NullString
	var takenLogs, returnedLogs []byte

	err := row.Scan(
		&s.ID, &s.Style, &s.Item, &buyer, &s.NoOfSamples, &comments, &s.SampleDate,
		&s.Shelf, &s.Division, &s.Position, &s.Availability, &status,
		&addedBy, &s.AddedAt, &takenLogs, &returnedLogs,
		&s.DeletedAt, &deletedBy, &s.UpdatedAt,
	)
	if err != nil {
		return err
	}

	s.Buyer = buyer.String
	s.Comments = comments.String
	s.Status = status.String
	s.AddedBy = addedBy.String
	s.DeletedBy = deletedBy.String

	if len(takenLogs) > 0 {
		if err := json.Unmarshal(takenLogs, &s.TakenLogs); err != nil {
			return fmt.Errorf("failed to decode taken logs: %w", err)
		}
	}
	if len(returnedLogs) > 0 {
		if err := json.Unmarshal(returnedLogs, &s.ReturnedLogs); err != nil {
			return fmt.Errorf("failed to decode returned logs: %w", err)
		}
	}
	return nil
}

func collectSamples(rows pgx.Rows) ([]domain.Sample, error) {
	defer rows.Close()

	var samples []domain.Sample
	for rows.Next() {
		var s domain.Sample
		if err := scanSample(rows, &s); err != nil {
			return nil, fmt.Errorf("failed to scan sample: %w", err)
		}
		samples = append(samples, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return samples, nil
}

// Save creates a new sample
func (r *sampleRepository) Save(ctx context.Context, sample *domain.Sample) error {
	query := `
		INSERT INTO samples (
			id, style, item, buyer, no_of_samples, comments, sample_date,
			shelf, division, position, availability, status,
			added_by, added_at, taken_logs, returned_logs, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15, $16, $17
		)`

	takenLogs, returnedLogs, err := encodeLogs(sample)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, query,
		sample.ID, sample.Style, sample.Item, sample.Buyer, sample.NoOfSamples,
		sample.Comments, sample.SampleDate,
		sample.Shelf, sample.Division, sample.Position, sample.Availability, sample.Status,
		sample.AddedBy, sample.AddedAt, takenLogs, returnedLogs, sample.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save sample: %w", err)
	}

	r.logger.DebugContext(ctx, "sample saved",
		slog.String("sample_id", sample.ID.String()),
		slog.String("slot", sample.Slot().String()))

	return nil
}

// SaveBatch saves multiple samples in a transaction
func (r *sampleRepository) SaveBatch(ctx context.Context, samples []domain.Sample) error {
	if len(samples) == 0 {
		return nil
	}

	return r.db.Transaction(ctx, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}

		query := `
			INSERT INTO samples (
				id, style, item, buyer, no_of_samples, comments, sample_date,
				shelf, division, position, availability, status,
				added_by, added_at, taken_logs, returned_logs, updated_at
			) VALUES (
				$1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
				$11, $12, $13, $14, $15, $16, $17
			)`

		for i := range samples {
			takenLogs, returnedLogs, err := encodeLogs(&samples[i])
			if err != nil {
				return fmt.Errorf("failed to encode sample %d: %w", i, err)
			}
			batch.Queue(query,
				samples[i].ID, samples[i].Style, samples[i].Item, samples[i].Buyer,
				samples[i].NoOfSamples, samples[i].Comments, samples[i].SampleDate,
				samples[i].Shelf, samples[i].Division, samples[i].Position,
				samples[i].Availability, samples[i].Status,
				samples[i].AddedBy, samples[i].AddedAt, takenLogs, returnedLogs, samples[i].UpdatedAt,
			)
		}

		br := tx.SendBatch(ctx, batch)
		defer br.Close()

		for i := range samples {
			if _, err := br.Exec(); err != nil {
				return fmt.Errorf("failed to save sample %d: %w", i, err)
			}
		}
		return nil
	})
}

// Update updates the descriptive and slot fields of a sample. The history
// arrays are never written here.
func (r *sampleRepository) Update(ctx context.Context, sample *domain.Sample) error {
	query := `
		UPDATE samples SET
			style = $2, item = $3, buyer = $4, no_of_samples = $5,
			comments = $6, sample_date = $7,
			shelf = $8, division = $9, position = $10,
			availability = $11, status = $12, updated_at = $13
		WHERE id = $1 AND deleted_at IS NULL`

	sample.UpdatedAt = time.Now()

	tag, err := r.db.Exec(ctx, query,
		sample.ID, sample.Style, sample.Item, sample.Buyer, sample.NoOfSamples,
		sample.Comments, sample.SampleDate,
		sample.Shelf, sample.Division, sample.Position,
		sample.Availability, sample.Status, sample.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update sample: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, sample.ID)
	}

	r.logger.DebugContext(ctx, "sample updated",
		slog.String("sample_id", sample.ID.String()))

	return nil
}

// FindByID retrieves an active sample by ID. Returns (nil, nil) when the
// sample does not exist or is soft-deleted.
func (r *sampleRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Sample, error) {
	qb := squirrel.Select(sampleColumns...).
		From("samples").
		Where(squirrel.Eq{"id": id}).
		Where("deleted_at IS NULL").
		PlaceholderFormat(squirrel.Dollar)

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	sample := &domain.Sample{}
	if err := scanSample(r.db.QueryRow(ctx, query, args...), sample); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find sample: %w", err)
	}
	return sample, nil
}

// FindAll retrieves samples with filtering and pagination
func (r *sampleRepository) FindAll(ctx context.Context, params ports.SampleQuery) ([]*domain.Sample, int64, error) {
	filters := []squirrel.Sqlizer{squirrel.Expr("deleted_at IS NULL")}

	if params.Search != "" {
		filters = append(filters, squirrel.Expr("search_vector @@ plainto_tsquery('english', ?)", params.Search))
	}
	if params.Buyer != "" {
		filters = append(filters, squirrel.Eq{"buyer": params.Buyer})
	}
	if params.Item != "" {
		filters = append(filters, squirrel.Eq{"item": params.Item})
	}
	if params.Status != "" {
		filters = append(filters, squirrel.Eq{"status": params.Status})
	}
	if params.Availability != "" {
		filters = append(filters, squirrel.Eq{"availability": params.Availability})
	}
	if params.Shelf > 0 {
		filters = append(filters, squirrel.Eq{"shelf": params.Shelf})
	}
	if params.Division > 0 {
		filters = append(filters, squirrel.Eq{"division": params.Division})
	}

	// Count before pagination
	countSQL, countArgs, err := squirrel.Select("COUNT(*)").
		From("samples").
		Where(squirrel.And(filters)).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count query: %w", err)
	}

	var totalCount int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("failed to count samples: %w", err)
	}

	qb := squirrel.Select(sampleColumns...).
		From("samples").
		Where(squirrel.And(filters)).
		PlaceholderFormat(squirrel.Dollar)

	// Sorting
	orderBy := "added_at DESC"
	if params.SortBy != "" {
		direction := "ASC"
		if params.SortOrder == "desc" {
			direction = "DESC"
		}

		switch params.SortBy {
		case "style":
			orderBy = fmt.Sprintf("style %s", direction)
		case "buyer":
			orderBy = fmt.Sprintf("buyer %s", direction)
		case "slot":
			orderBy = fmt.Sprintf("shelf %s, division %s, position %s", direction, direction, direction)
		case "updated":
			orderBy = fmt.Sprintf("updated_at %s", direction)
		default:
			orderBy = fmt.Sprintf("added_at %s", direction)
		}
	}
	qb = qb.OrderBy(orderBy)

	if params.Limit > 0 {
		qb = qb.Limit(uint64(params.Limit))
	}
	if params.Offset > 0 {
		qb = qb.Offset(uint64(params.Offset))
	}

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query samples: %w", err)
	}

	collected, err := collectSamples(rows)
	if err != nil {
		return nil, 0, err
	}

	samples := make([]*domain.Sample, len(collected))
	for i := range collected {
		samples[i] = &collected[i]
	}
	return samples, totalCount, nil
}

// Search finds active samples whose indexed text matches the term
func (r *sampleRepository) Search(ctx context.Context, term string) ([]domain.Sample, error) {
	qb := squirrel.Select(sampleColumns...).
		From("samples").
		Where("deleted_at IS NULL").
		Where(squirrel.Or{
			squirrel.Expr("search_vector @@ plainto_tsquery('english', ?)", term),
			squirrel.ILike{"style": "%" + term + "%"},
			squirrel.ILike{"buyer": "%" + term + "%"},
			squirrel.ILike{"item": "%" + term + "%"},
		}).
		OrderBy("added_at DESC").
		PlaceholderFormat(squirrel.Dollar)

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search samples: %w", err)
	}
	return collectSamples(rows)
}

// FindByLocation lists active samples in one (shelf, division), ordered by
// position then added_at so duplicate positions come out deterministically.
func (r *sampleRepository) FindByLocation(ctx context.Context, shelf, division int) ([]domain.Sample, error) {
	qb := squirrel.Select(sampleColumns...).
		From("samples").
		Where(squirrel.Eq{"shelf": shelf, "division": division}).
		Where("deleted_at IS NULL").
		OrderBy("position ASC", "added_at ASC").
		PlaceholderFormat(squirrel.Dollar)

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query samples by location: %w", err)
	}
	return collectSamples(rows)
}

// FindDeleted lists soft-deleted samples, newest deletion first
func (r *sampleRepository) FindDeleted(ctx context.Context) ([]domain.Sample, error) {
	qb := squirrel.Select(sampleColumns...).
		From("samples").
		Where("deleted_at IS NOT NULL").
		OrderBy("deleted_at DESC").
		PlaceholderFormat(squirrel.Dollar)

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query deleted samples: %w", err)
	}
	return collectSamples(rows)
}

// Exists checks whether an active sample exists
func (r *sampleRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM samples WHERE id = $1 AND deleted_at IS NULL)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check existence: %w", err)
	}
	return exists, nil
}

// Count returns the number of active samples
func (r *sampleRepository) Count(ctx context.Context) (int64, error) {
	query := `SELECT COUNT(*) FROM samples WHERE deleted_at IS NULL`

	var count int64
	if err := r.db.QueryRow(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count samples: %w", err)
	}
	return count, nil
}

// AppendTakenLog appends one taken entry and flips availability in a single
// statement. The availability guard makes concurrent takes lose cleanly.
func (r *sampleRepository) AppendTakenLog(ctx context.Context, id uuid.UUID, entry domain.TakenLog) error {
	encoded, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to encode taken log: %w", err)
	}

	query := `
		UPDATE samples SET
			taken_logs = taken_logs || $2::jsonb,
			availability = $3,
			updated_at = $4
		WHERE id = $1 AND deleted_at IS NULL AND availability = $5`

	tag, err := r.db.Exec(ctx, query, id, encoded,
		domain.AvailabilityTaken, time.Now(), domain.AvailabilityAvailable)
	if err != nil {
		return fmt.Errorf("failed to append taken log: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s (or already taken)", domain.ErrNotFound, id)
	}
	return nil
}

// AppendReturnedLog appends one returned entry, restores availability and
// moves the sample to the return slot in a single statement.
func (r *sampleRepository) AppendReturnedLog(ctx context.Context, id uuid.UUID, slot domain.SlotKey, entry domain.ReturnedLog) error {
	encoded, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to encode returned log: %w", err)
	}

	query := `
		UPDATE samples SET
			returned_logs = returned_logs || $2::jsonb,
			availability = $3,
			shelf = $4, division = $5, position = $6,
			updated_at = $7
		WHERE id = $1 AND deleted_at IS NULL AND availability = $8`

	tag, err := r.db.Exec(ctx, query, id, encoded,
		domain.AvailabilityAvailable, slot.Shelf, slot.Division, slot.Position,
		time.Now(), domain.AvailabilityTaken)
	if err != nil {
		return fmt.Errorf("failed to append returned log: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s (or not taken)", domain.ErrNotFound, id)
	}
	return nil
}

// SoftDelete marks a sample as deleted
func (r *sampleRepository) SoftDelete(ctx context.Context, id uuid.UUID, deletedBy string) error {
	query := `
		UPDATE samples SET deleted_at = $2, deleted_by = $3, updated_at = $2
		WHERE id = $1 AND deleted_at IS NULL`

	tag, err := r.db.Exec(ctx, query, id, time.Now(), deletedBy)
	if err != nil {
		return fmt.Errorf("failed to soft delete sample: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, id)
	}

	r.logger.InfoContext(ctx, "sample soft deleted",
		slog.String("sample_id", id.String()))

	return nil
}

// SoftDeleteMany marks a set of samples as deleted and returns how many were
// actually deleted. Already-deleted samples are skipped, not errors.
func (r *sampleRepository) SoftDeleteMany(ctx context.Context, ids []uuid.UUID, deletedBy string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	query := `
		UPDATE samples SET deleted_at = $2, deleted_by = $3, updated_at = $2
		WHERE id = ANY($1) AND deleted_at IS NULL`

	tag, err := r.db.Exec(ctx, query, ids, time.Now(), deletedBy)
	if err != nil {
		return 0, fmt.Errorf("failed to soft delete samples: %w", err)
	}

	r.logger.InfoContext(ctx, "samples soft deleted",
		slog.Int("requested", len(ids)),
		slog.Int64("deleted", tag.RowsAffected()))

	return tag.RowsAffected(), nil
}

// Restore re-activates a soft-deleted sample at the given position
func (r *sampleRepository) Restore(ctx context.Context, id uuid.UUID, position int, restoredBy string) error {
	query := `
		UPDATE samples SET
			deleted_at = NULL, deleted_by = '',
			position = $2, availability = $3,
			added_by = COALESCE(NULLIF($4, ''), added_by),
			updated_at = $5
		WHERE id = $1 AND deleted_at IS NOT NULL`

	tag, err := r.db.Exec(ctx, query, id, position,
		domain.AvailabilityAvailable, restoredBy, time.Now())
	if err != nil {
		return fmt.Errorf("failed to restore sample: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s (not deleted)", domain.ErrNotFound, id)
	}

	r.logger.InfoContext(ctx, "sample restored",
		slog.String("sample_id", id.String()),
		slog.Int("position", position))

	return nil
}

// Delete performs a hard delete
func (r *sampleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM samples WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete sample: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, id)
	}

	r.logger.InfoContext(ctx, "sample permanently deleted",
		slog.String("sample_id", id.String()))

	return nil
}

// ShiftPositions increments positions at or after fromPosition by one
func (r *sampleRepository) ShiftPositions(ctx context.Context, shelf, division, fromPosition int) (int64, error) {
	query := `
		UPDATE samples SET position = position + 1, updated_at = $4
		WHERE shelf = $1 AND division = $2 AND position >= $3 AND deleted_at IS NULL`

	tag, err := r.db.Exec(ctx, query, shelf, division, fromPosition, time.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to shift positions: %w", err)
	}
	return tag.RowsAffected(), nil
}

// ShiftPositionsByAmount adds a fixed offset to every active position in the
// division. A negative amount that would push any position below 1 is
// rejected before anything is written.
func (r *sampleRepository) ShiftPositionsByAmount(ctx context.Context, shelf, division, amount int) (int64, error) {
	return r.withTx(ctx, func(tx pgx.Tx) (int64, error) {
		if amount < 0 {
			var minPos sql.NullInt64
			err := tx.QueryRow(ctx,
				`SELECT MIN(position) FROM samples
				 WHERE shelf = $1 AND division = $2 AND deleted_at IS NULL`,
				shelf, division).Scan(&minPos)
			if err != nil {
				return 0, fmt.Errorf("failed to check minimum position: %w", err)
			}
			if minPos.Valid && minPos.Int64+int64(amount) < 1 {
				return 0, domain.NewValidationError("amountToIncrease",
					"would move a sample below position 1")
			}
		}

		tag, err := tx.Exec(ctx,
			`UPDATE samples SET position = position + $3, updated_at = $4
			 WHERE shelf = $1 AND division = $2 AND deleted_at IS NULL`,
			shelf, division, amount, time.Now())
		if err != nil {
			return 0, fmt.Errorf("failed to shift positions by amount: %w", err)
		}
		return tag.RowsAffected(), nil
	})
}

// ReducePositions decrements positions past afterPosition by one
func (r *sampleRepository) ReducePositions(ctx context.Context, shelf, division, afterPosition int) (int64, error) {
	query := `
		UPDATE samples SET position = position - 1, updated_at = $4
		WHERE shelf = $1 AND division = $2 AND position > $3 AND deleted_at IS NULL`

	tag, err := r.db.Exec(ctx, query, shelf, division, afterPosition, time.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to reduce positions: %w", err)
	}
	return tag.RowsAffected(), nil
}

// NormalizeDivision renumbers the division's active samples to 1..N in one
// statement. Ties on position are broken by added_at so repeated runs agree.
func (r *sampleRepository) NormalizeDivision(ctx context.Context, shelf, division int) (int64, error) {
	query := `
		WITH ranked AS (
			SELECT id, ROW_NUMBER() OVER (ORDER BY position ASC, added_at ASC) AS rn
			FROM samples
			WHERE shelf = $1 AND division = $2 AND deleted_at IS NULL
		)
		UPDATE samples s
		SET position = r.rn, updated_at = $3
		FROM ranked r
		WHERE s.id = r.id AND s.position <> r.rn`

	tag, err := r.db.Exec(ctx, query, shelf, division, time.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to normalize division: %w", err)
	}

	r.logger.InfoContext(ctx, "division normalized",
		slog.Int("shelf", shelf),
		slog.Int("division", division),
		slog.Int64("renumbered", tag.RowsAffected()))

	return tag.RowsAffected(), nil
}

// PositionOccupied reports whether any active sample sits at the slot
func (r *sampleRepository) PositionOccupied(ctx context.Context, slot domain.SlotKey) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM samples
			WHERE shelf = $1 AND division = $2 AND position = $3 AND deleted_at IS NULL
		)`

	var occupied bool
	err := r.db.QueryRow(ctx, query, slot.Shelf, slot.Division, slot.Position).Scan(&occupied)
	if err != nil {
		return false, fmt.Errorf("failed to check position: %w", err)
	}
	return occupied, nil
}

// FindConflicts returns groups of two or more active samples sharing a slot.
// Soft-deleted samples never participate. A zero shelf and division scans the
// whole warehouse.
func (r *sampleRepository) FindConflicts(ctx context.Context, shelf, division int) ([]domain.ConflictGroup, error) {
	qb := squirrel.Select(sampleColumns...).
		From("samples s").
		Join(`(
			SELECT shelf, division, position
			FROM samples
			WHERE deleted_at IS NULL
			GROUP BY shelf, division, position
			HAVING COUNT(*) > 1
		) c USING (shelf, division, position)`).
		Where("s.deleted_at IS NULL").
		OrderBy("s.shelf ASC", "s.division ASC", "s.position ASC", "s.added_at ASC").
		PlaceholderFormat(squirrel.Dollar)

	if shelf > 0 && division > 0 {
		qb = qb.Where(squirrel.Eq{"s.shelf": shelf, "s.division": division})
	}

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query conflicts: %w", err)
	}

	samples, err := collectSamples(rows)
	if err != nil {
		return nil, err
	}

	// Rows come back ordered by slot, so grouping is a single pass
	var groups []domain.ConflictGroup
	for i := range samples {
		slot := samples[i].Slot()
		if len(groups) == 0 || !groups[len(groups)-1].Key().Equal(slot) {
			groups = append(groups, domain.ConflictGroup{
				Shelf:               slot.Shelf,
				Division:            slot.Division,
				ConflictingPosition: slot.Position,
			})
		}
		g := &groups[len(groups)-1]
		g.ConflictingSamples = append(g.ConflictingSamples, samples[i])
		g.NumberOfConflicts++
	}
	return groups, nil
}

func (r *sampleRepository) withTx(ctx context.Context, fn func(pgx.Tx) (int64, error)) (int64, error) {
	var n int64
	err := r.db.Transaction(ctx, func(tx pgx.Tx) error {
		var err error
		n, err = fn(tx)
		return err
	})
	return n, err
}

func encodeLogs(sample *domain.Sample) ([]byte, []byte, error) {
	takenLogs, err := json.Marshal(orEmpty(sample.TakenLogs))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode taken logs: %w", err)
	}
	returnedLogs, err := json.Marshal(orEmpty(sample.ReturnedLogs))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode returned logs: %w", err)
	}
	return takenLogs, returnedLogs, nil
}

// orEmpty keeps the stored JSONB arrays non-null so appends with || work
func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
