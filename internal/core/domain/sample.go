// internal/core/domain/sample.go
package domain

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Availability represents whether a sample is on its shelf or taken out
type Availability string

// Availability constants. "no" is the historical value stored for taken
// samples and is preserved for wire compatibility.
const (
	AvailabilityAvailable Availability = "available"
	AvailabilityTaken     Availability = "no"
)

// ValidationError is a pre-network validation failure. Operations that
// return it have issued no request and mutated no state.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// NewValidationError creates a validation error for a field
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// ErrNotFound is returned when a sample does not exist or is soft-deleted
var ErrNotFound = fmt.Errorf("sample not found")

// SlotKey identifies a physical storage location. Two slots are equal iff
// shelf, division and position are pairwise equal after numeric coercion.
type SlotKey struct {
	Shelf    int `json:"shelf"`
	Division int `json:"division"`
	Position int `json:"position"`
}

// NewSlotKey builds a slot key, requiring every coordinate >= 1
func NewSlotKey(shelf, division, position int) (SlotKey, error) {
	if shelf < 1 {
		return SlotKey{}, NewValidationError("shelf", "must be a positive integer")
	}
	if division < 1 {
		return SlotKey{}, NewValidationError("division", "must be a positive integer")
	}
	if position < 1 {
		return SlotKey{}, NewValidationError("position", "must be a positive integer")
	}
	return SlotKey{Shelf: shelf, Division: division, Position: position}, nil
}

// ParseSlotKey coerces string forms of the three coordinates into a slot key.
// Legacy write paths stored slot fields as strings, so both "4" and 4 must
// address the same slot.
func ParseSlotKey(shelf, division, position string) (SlotKey, error) {
	s, err := CoerceSlotValue(shelf)
	if err != nil {
		return SlotKey{}, NewValidationError("shelf", err.Error())
	}
	d, err := CoerceSlotValue(division)
	if err != nil {
		return SlotKey{}, NewValidationError("division", err.Error())
	}
	p, err := CoerceSlotValue(position)
	if err != nil {
		return SlotKey{}, NewValidationError("position", err.Error())
	}
	return NewSlotKey(s, d, p)
}

// Equal reports whether two slot keys address the same physical location
func (k SlotKey) Equal(other SlotKey) bool {
	return k.Shelf == other.Shelf && k.Division == other.Division && k.Position == other.Position
}

func (k SlotKey) String() string {
	return fmt.Sprintf("%d/%d/%d", k.Shelf, k.Division, k.Position)
}

// CoerceSlotValue converts a slot coordinate in string form to an integer
func CoerceSlotValue(raw string) (int, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, fmt.Errorf("value is empty")
	}
	n, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, fmt.Errorf("not a whole number: %q", raw)
	}
	return n, nil
}

// SlotValue is an integer slot coordinate that unmarshals from either a
// JSON number or a quoted string, absorbing the legacy string write paths.
type SlotValue int

// UnmarshalJSON implements json.Unmarshaler
func (v *SlotValue) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" || s == "" {
		*v = 0
		return nil
	}
	n, err := CoerceSlotValue(s)
	if err != nil {
		return err
	}
	*v = SlotValue(n)
	return nil
}

// MarshalJSON always emits a plain number
func (v SlotValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(int(v))
}

// TakenLog records one removal of a sample from its shelf
type TakenLog struct {
	TakenBy string    `json:"taken_by"`
	TakenAt time.Time `json:"taken_at"`
	Purpose string    `json:"purpose"`
}

// ReturnedLog records one return of a taken sample to a slot
type ReturnedLog struct {
	ReturnedBy    string    `json:"returned_by"`
	ReturnedAt    time.Time `json:"returned_at"`
	Position      int       `json:"position"`
	ReturnPurpose string    `json:"return_purpose,omitempty"`
}

// Sample represents one garment sample occupying (or having occupied) a slot.
// Taken and returned logs are append-only history and are never edited.
type Sample struct {
	ID           uuid.UUID     `json:"_id"`
	Style        string        `json:"style"`
	Item         string        `json:"item"`
	Buyer        string        `json:"buyer,omitempty"`
	NoOfSamples  int           `json:"no_of_sample"`
	Comments     string        `json:"comments,omitempty"`
	SampleDate   *time.Time    `json:"sample_date,omitempty"`
	Shelf        int           `json:"shelf"`
	Division     int           `json:"division"`
	Position     int           `json:"position"`
	Availability Availability  `json:"availability"`
	Status       string        `json:"status,omitempty"`
	AddedBy      string        `json:"added_by,omitempty"`
	AddedAt      time.Time     `json:"added_at"`
	TakenLogs    []TakenLog    `json:"taken_logs,omitempty"`
	ReturnedLogs []ReturnedLog `json:"returned_log,omitempty"`
	DeletedAt    *time.Time    `json:"deletedAt,omitempty"`
	DeletedBy    string        `json:"deletedBy,omitempty"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// Slot returns the slot key currently assigned to the sample
func (s *Sample) Slot() SlotKey {
	return SlotKey{Shelf: s.Shelf, Division: s.Division, Position: s.Position}
}

// IsDeleted reports whether the sample is soft-deleted
func (s *Sample) IsDeleted() bool {
	return s.DeletedAt != nil
}

// IsTaken reports whether the sample is currently out of its slot
func (s *Sample) IsTaken() bool {
	return s.Availability == AvailabilityTaken
}

// Validate performs domain validation on the sample
func (s *Sample) Validate() error {
	if s.Style == "" {
		return NewValidationError("style", "is required")
	}
	if s.Item == "" {
		return NewValidationError("item", "is required")
	}
	if _, err := NewSlotKey(s.Shelf, s.Division, s.Position); err != nil {
		return err
	}
	if s.NoOfSamples < 0 {
		return NewValidationError("no_of_sample", "cannot be negative")
	}
	if s.Availability == "" {
		s.Availability = AvailabilityAvailable
	}
	if s.Availability != AvailabilityAvailable && s.Availability != AvailabilityTaken {
		return NewValidationError("availability", fmt.Sprintf("unknown value %q", s.Availability))
	}
	return nil
}

// PrepareForStorage fills identity and timestamps before persistence
func (s *Sample) PrepareForStorage() {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.NoOfSamples == 0 {
		s.NoOfSamples = 1
	}
	now := time.Now()
	if s.AddedAt.IsZero() {
		s.AddedAt = now
	}
	s.UpdatedAt = now
	if s.Availability == "" {
		s.Availability = AvailabilityAvailable
	}
}

// ConflictGroup is a derived grouping of two or more active samples sharing
// one slot key. It is never persisted.
type ConflictGroup struct {
	Shelf               int      `json:"shelf"`
	Division            int      `json:"division"`
	ConflictingPosition int      `json:"conflictingPosition"`
	NumberOfConflicts   int      `json:"numberOfConflicts"`
	ConflictingSamples  []Sample `json:"conflictingSamples"`
}

// Key returns the contested slot
func (g *ConflictGroup) Key() SlotKey {
	return SlotKey{Shelf: g.Shelf, Division: g.Division, Position: g.ConflictingPosition}
}

// PositionAssignment maps a sample to the position it should hold after a
// division is normalized.
type PositionAssignment struct {
	SampleID    uuid.UUID
	OldPosition int
	NewPosition int
}

// NormalizePositions re-numbers the given samples of one division to the
// consecutive sequence 1..N. Samples are ordered by current position
// ascending, then added_at ascending for tied positions, so the result is
// deterministic even when duplicates exist. Applying the result and running
// the function again yields the same assignment.
func NormalizePositions(samples []Sample) []PositionAssignment {
	ordered := make([]Sample, len(samples))
	copy(ordered, samples)

	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Position != ordered[j].Position {
			return ordered[i].Position < ordered[j].Position
		}
		return ordered[i].AddedAt.Before(ordered[j].AddedAt)
	})

	assignments := make([]PositionAssignment, 0, len(ordered))
	for i := range ordered {
		assignments = append(assignments, PositionAssignment{
			SampleID:    ordered[i].ID,
			OldPosition: ordered[i].Position,
			NewPosition: i + 1,
		})
	}
	return assignments
}

// ResolutionType enumerates the conflict resolution strategies
type ResolutionType string

const (
	ResolutionShiftDown      ResolutionType = "shiftDown"
	ResolutionOverwrite      ResolutionType = "overwrite"
	ResolutionDeleteSelected ResolutionType = "deleteSelected"
	ResolutionKeepOne        ResolutionType = "keepOne"
	ResolutionCancel         ResolutionType = "cancel"
)

// Destructive reports whether the strategy deletes samples and therefore
// requires an explicit secondary confirmation.
func (r ResolutionType) Destructive() bool {
	switch r {
	case ResolutionOverwrite, ResolutionDeleteSelected, ResolutionKeepOne:
		return true
	}
	return false
}
