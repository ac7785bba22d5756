// Package coordinator implements the operator-facing workflows that sit
// between a presentation layer and the BaseFinder API: conflict detection
// and resolution, take/put-back, and the deletion lifecycle. Coordinators
// hold the workflow state so any UI (terminal, web, tests) only has to
// render prompts and forward decisions.
package coordinator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/basefinder/basefinder-be/internal/client"
	"github.com/basefinder/basefinder-be/internal/core/domain"
)

// Session identifies the operator driving a coordinator. It is passed in
// explicitly so coordinators are testable without ambient auth state.
type Session struct {
	User string
}

// API is the backend surface the coordinators consume. *client.Client
// satisfies it.
type API interface {
	Get(ctx context.Context, id uuid.UUID) (*domain.Sample, error)
	SamplesByLocation(ctx context.Context, shelf, division int) ([]domain.Sample, error)
	Take(ctx context.Context, id uuid.UUID, takenBy, purpose string) error
	PutBack(ctx context.Context, id uuid.UUID, position int, returnedBy, returnPurpose string) error
	Delete(ctx context.Context, id uuid.UUID, reducePositions bool) error
	Restore(ctx context.Context, id uuid.UUID, position int, restoredBy string) error
	PermanentDelete(ctx context.Context, id uuid.UUID) error
	CheckPositionAvailability(ctx context.Context, shelf, division, position int) (*client.AvailabilityResult, error)
	ShiftPositions(ctx context.Context, shelf, division, currentPosition int) (*client.MutationResult, error)
	ReducePositions(ctx context.Context, shelf, division, currentPosition int) (*client.MutationResult, error)
	NormalizePositions(ctx context.Context, shelf, division int) (*client.MutationResult, error)
	FindConflicts(ctx context.Context, shelf, division int) (*client.ConflictsResult, error)
	ResolveConflict(ctx context.Context, req client.ResolveConflictRequest) (*client.MutationResult, error)
}

var _ API = (*client.Client)(nil)

// RequestKind tags a prompt the coordinator asks the presentation layer
// to render.
type RequestKind string

const (
	RequestOverwrite       RequestKind = "overwrite"
	RequestDeleteSelected  RequestKind = "deleteSelected"
	RequestKeepOne         RequestKind = "keepOne"
	RequestOccupiedSlot    RequestKind = "occupiedSlot"
	RequestReducePositions RequestKind = "reducePositions"
	RequestPermanentDelete RequestKind = "permanentDelete"
)

// Request is a tagged confirmation prompt emitted by a coordinator.
type Request struct {
	Kind     RequestKind
	SampleID uuid.UUID
	Slot     domain.SlotKey
	Message  string
}

// Choice is a three-way answer to a yes/no/cancel prompt.
type Choice int

const (
	ChoiceCancel Choice = iota
	ChoiceYes
	ChoiceNo
)

// Prompter renders confirmation prompts. Confirm is a two-way ok/cancel;
// Choose is used where yes and no both proceed (only cancel aborts).
type Prompter interface {
	Confirm(ctx context.Context, req Request) (bool, error)
	Choose(ctx context.Context, req Request) (Choice, error)
}

// ErrCancelled is returned when the operator declines a confirmation. The
// workflow stops with no mutation issued.
var ErrCancelled = errors.New("cancelled by operator")

// ErrResolutionInFlight is returned when a strategy is invoked on a
// conflict group whose previous resolution has not settled yet.
var ErrResolutionInFlight = errors.New("resolution already in flight for this group")

// State is the conflict coordinator's workflow state.
type State string

const (
	StateIdle           State = "idle"
	StateChecking       State = "checking"
	StateNoConflicts    State = "noConflicts"
	StateConflictsFound State = "conflictsFound"
	StateResolving      State = "resolving"
)

// Selection carries the operator's per-strategy input: the sample to keep
// for keepOne, or the subset to remove for deleteSelected.
type Selection struct {
	KeepID    uuid.UUID
	SampleIDs []uuid.UUID
}

// ConflictCoordinator drives conflict detection and resolution for one
// scope (the whole warehouse or a specific shelf/division).
type ConflictCoordinator struct {
	api      API
	session  Session
	prompter Prompter
	logger   *slog.Logger

	mu       sync.Mutex
	state    State
	shelf    int
	division int
	groups   []domain.ConflictGroup
	inFlight map[string]bool
}

// NewConflictCoordinator creates a coordinator in the Idle state.
func NewConflictCoordinator(api API, session Session, prompter Prompter, logger *slog.Logger) *ConflictCoordinator {
	return &ConflictCoordinator{
		api:      api,
		session:  session,
		prompter: prompter,
		logger:   logger.With(slog.String("coordinator", "conflict")),
		state:    StateIdle,
		inFlight: make(map[string]bool),
	}
}

// State returns the current workflow state.
func (c *ConflictCoordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Groups returns the conflict groups found by the last Check.
func (c *ConflictCoordinator) Groups() []domain.ConflictGroup {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.ConflictGroup, len(c.groups))
	copy(out, c.groups)
	return out
}

// Check queries for conflicts. Zero shelf and division scan the whole
// warehouse; a specific scope requires both coordinates. Validation
// failures leave the coordinator Idle without a network call.
func (c *ConflictCoordinator) Check(ctx context.Context, shelf, division int) ([]domain.ConflictGroup, error) {
	if (shelf == 0) != (division == 0) {
		return nil, domain.NewValidationError("scope", "shelf and division must both be set for a specific scope")
	}
	if shelf < 0 || division < 0 {
		return nil, domain.NewValidationError("scope", "shelf and division must be positive integers")
	}

	c.mu.Lock()
	c.state = StateChecking
	c.shelf, c.division = shelf, division
	c.mu.Unlock()

	result, err := c.api.FindConflicts(ctx, shelf, division)
	if err != nil {
		c.setState(StateIdle)
		return nil, fmt.Errorf("checking for conflicts: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.groups = result.Conflicts
	if len(result.Conflicts) == 0 {
		c.state = StateNoConflicts
		return nil, nil
	}
	c.state = StateConflictsFound
	return result.Conflicts, nil
}

// Resolve applies one strategy to a conflict group. Exactly one strategy
// executes per group at a time; a second invocation while the first is in
// flight returns ErrResolutionInFlight. Destructive strategies prompt for
// confirmation before any mutation is issued. On success the scope is
// re-queried so callers see post-resolution state.
func (c *ConflictCoordinator) Resolve(ctx context.Context, group domain.ConflictGroup, strategy domain.ResolutionType, sel Selection) (int64, error) {
	if strategy == domain.ResolutionCancel {
		return 0, ErrCancelled
	}

	slot, err := domain.NewSlotKey(group.Shelf, group.Division, group.ConflictingPosition)
	if err != nil {
		return 0, err
	}

	if err := c.validateSelection(strategy, sel); err != nil {
		return 0, err
	}

	key := slot.String()
	c.mu.Lock()
	if c.inFlight[key] {
		c.mu.Unlock()
		return 0, ErrResolutionInFlight
	}
	c.inFlight[key] = true
	c.state = StateResolving
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		delete(c.inFlight, key)
		c.mu.Unlock()
	}()

	if strategy.Destructive() {
		ok, err := c.prompter.Confirm(ctx, Request{
			Kind:    RequestKind(strategy),
			Slot:    slot,
			Message: fmt.Sprintf("Strategy %q deletes samples at slot %s. Continue?", strategy, slot),
		})
		if err != nil {
			c.setState(StateConflictsFound)
			return 0, err
		}
		if !ok {
			c.setState(StateConflictsFound)
			return 0, ErrCancelled
		}
	}

	modified, err := c.dispatch(ctx, slot, strategy, sel)
	if err != nil {
		c.setState(StateConflictsFound)
		return 0, fmt.Errorf("resolving conflict at %s: %w", slot, err)
	}

	c.logger.InfoContext(ctx, "conflict resolved",
		slog.String("slot", slot.String()),
		slog.String("strategy", string(strategy)),
		slog.Int64("modified", modified))

	// Re-query so the stored groups reflect post-resolution state.
	c.mu.Lock()
	shelf, division := c.shelf, c.division
	c.mu.Unlock()
	if _, err := c.Check(ctx, shelf, division); err != nil {
		c.logger.WarnContext(ctx, "post-resolution re-query failed",
			slog.String("error", err.Error()))
	}

	return modified, nil
}

func (c *ConflictCoordinator) validateSelection(strategy domain.ResolutionType, sel Selection) error {
	switch strategy {
	case domain.ResolutionShiftDown, domain.ResolutionOverwrite:
		return nil
	case domain.ResolutionDeleteSelected:
		if len(sel.SampleIDs) == 0 {
			return domain.NewValidationError("sampleIds", "at least one sample must be selected")
		}
		return nil
	case domain.ResolutionKeepOne:
		if sel.KeepID == uuid.Nil {
			return domain.NewValidationError("keepSampleId", "a sample to keep must be selected")
		}
		return nil
	default:
		return domain.NewValidationError("resolutionType", fmt.Sprintf("unknown strategy %q", strategy))
	}
}

func (c *ConflictCoordinator) dispatch(ctx context.Context, slot domain.SlotKey, strategy domain.ResolutionType, sel Selection) (int64, error) {
	if strategy == domain.ResolutionShiftDown {
		result, err := c.api.ShiftPositions(ctx, slot.Shelf, slot.Division, slot.Position)
		if err != nil {
			return 0, err
		}
		return result.ModifiedCount, nil
	}

	req := client.ResolveConflictRequest{ResolutionType: strategy}
	req.Data.Shelf = slot.Shelf
	req.Data.Division = slot.Division
	req.Data.Position = slot.Position
	req.Data.KeepSampleID = sel.KeepID
	req.Data.SampleIDs = sel.SampleIDs

	result, err := c.api.ResolveConflict(ctx, req)
	if err != nil {
		return 0, err
	}
	return result.ModifiedCount, nil
}

func (c *ConflictCoordinator) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}
