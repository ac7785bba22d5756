package coordinator

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/basefinder/basefinder-be/internal/core/domain"
)

// TakePutCoordinator drives the take, put-back and deletion workflows.
// Every mutation is a single request with no optimistic local state; a
// failed call leaves the sample exactly as it was.
type TakePutCoordinator struct {
	api      API
	session  Session
	prompter Prompter
	logger   *slog.Logger
}

// NewTakePutCoordinator creates a take/put-back coordinator acting as the
// session's user.
func NewTakePutCoordinator(api API, session Session, prompter Prompter, logger *slog.Logger) *TakePutCoordinator {
	return &TakePutCoordinator{
		api:      api,
		session:  session,
		prompter: prompter,
		logger:   logger.With(slog.String("coordinator", "takeput")),
	}
}

// Take marks a sample as taken out of the warehouse. An empty purpose is
// rejected before any network call.
func (c *TakePutCoordinator) Take(ctx context.Context, id uuid.UUID, purpose string) error {
	if strings.TrimSpace(purpose) == "" {
		return domain.NewValidationError("purpose", "is required")
	}

	if err := c.api.Take(ctx, id, c.session.User, purpose); err != nil {
		return fmt.Errorf("taking sample %s: %w", id, err)
	}

	c.logger.InfoContext(ctx, "sample taken",
		slog.String("sample_id", id.String()),
		slog.String("taken_by", c.session.User))
	return nil
}

// PutBack returns a taken sample to a position in its shelf/division. The
// target slot is checked first; if occupied, the operator must confirm
// before a duplicate occupant is written (the conflict coordinator can
// detect and resolve it later). Declining returns ErrCancelled with no
// mutation.
func (c *TakePutCoordinator) PutBack(ctx context.Context, id uuid.UUID, position int, returnPurpose string) error {
	if position < 1 {
		return domain.NewValidationError("position", "must be a positive integer")
	}

	sample, err := c.api.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("loading sample %s: %w", id, err)
	}

	if err := c.confirmIfOccupied(ctx, id, sample.Shelf, sample.Division, position); err != nil {
		return err
	}

	if err := c.api.PutBack(ctx, id, position, c.session.User, returnPurpose); err != nil {
		return fmt.Errorf("putting back sample %s: %w", id, err)
	}

	c.logger.InfoContext(ctx, "sample put back",
		slog.String("sample_id", id.String()),
		slog.Int("position", position))
	return nil
}

// SoftDelete removes a sample from the active set. The operator is asked
// a yes/no question on whether to close the gap by reducing later
// positions; yes and no both proceed, only cancel aborts.
func (c *TakePutCoordinator) SoftDelete(ctx context.Context, id uuid.UUID) error {
	choice, err := c.prompter.Choose(ctx, Request{
		Kind:     RequestReducePositions,
		SampleID: id,
		Message:  "Reduce the positions of later samples in this division?",
	})
	if err != nil {
		return err
	}
	if choice == ChoiceCancel {
		return ErrCancelled
	}

	reducePositions := choice == ChoiceYes
	if err := c.api.Delete(ctx, id, reducePositions); err != nil {
		return fmt.Errorf("deleting sample %s: %w", id, err)
	}

	c.logger.InfoContext(ctx, "sample soft-deleted",
		slog.String("sample_id", id.String()),
		slog.Bool("reduce_positions", reducePositions))
	return nil
}

// Restore re-activates a soft-deleted sample at the given position, with
// the same occupied-slot check and confirmation as PutBack.
func (c *TakePutCoordinator) Restore(ctx context.Context, id uuid.UUID, shelf, division, position int) error {
	if _, err := domain.NewSlotKey(shelf, division, position); err != nil {
		return err
	}

	if err := c.confirmIfOccupied(ctx, id, shelf, division, position); err != nil {
		return err
	}

	if err := c.api.Restore(ctx, id, position, c.session.User); err != nil {
		return fmt.Errorf("restoring sample %s: %w", id, err)
	}

	c.logger.InfoContext(ctx, "sample restored",
		slog.String("sample_id", id.String()),
		slog.Int("position", position))
	return nil
}

// PermanentDelete removes a sample row irreversibly. It always prompts.
func (c *TakePutCoordinator) PermanentDelete(ctx context.Context, id uuid.UUID) error {
	ok, err := c.prompter.Confirm(ctx, Request{
		Kind:     RequestPermanentDelete,
		SampleID: id,
		Message:  "Permanently delete this sample? This cannot be undone.",
	})
	if err != nil {
		return err
	}
	if !ok {
		return ErrCancelled
	}

	if err := c.api.PermanentDelete(ctx, id); err != nil {
		return fmt.Errorf("permanently deleting sample %s: %w", id, err)
	}

	c.logger.InfoContext(ctx, "sample permanently deleted",
		slog.String("sample_id", id.String()))
	return nil
}

func (c *TakePutCoordinator) confirmIfOccupied(ctx context.Context, id uuid.UUID, shelf, division, position int) error {
	availability, err := c.api.CheckPositionAvailability(ctx, shelf, division, position)
	if err != nil {
		return fmt.Errorf("checking slot availability: %w", err)
	}
	if availability.IsPositionEmpty {
		return nil
	}

	slot := domain.SlotKey{Shelf: shelf, Division: division, Position: position}
	ok, err := c.prompter.Confirm(ctx, Request{
		Kind:     RequestOccupiedSlot,
		SampleID: id,
		Slot:     slot,
		Message:  fmt.Sprintf("Slot %s is already occupied. Place the sample there anyway?", slot),
	})
	if err != nil {
		return err
	}
	if !ok {
		return ErrCancelled
	}
	return nil
}
