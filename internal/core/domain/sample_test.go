package domain_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/basefinder/basefinder-be/internal/core/domain"
)

func TestSlotKey_NumericCoercion(t *testing.T) {
	tests := []struct {
		name     string
		shelf    string
		division string
		position string
		want     domain.SlotKey
		wantErr  bool
	}{
		{
			name:  "plain_integers",
			shelf: "1", division: "2", position: "3",
			want: domain.SlotKey{Shelf: 1, Division: 2, Position: 3},
		},
		{
			name:  "whitespace_padded",
			shelf: " 4 ", division: "7", position: "12",
			want: domain.SlotKey{Shelf: 4, Division: 7, Position: 12},
		},
		{
			name:  "zero_position_rejected",
			shelf: "1", division: "1", position: "0",
			wantErr: true,
		},
		{
			name:  "empty_division_rejected",
			shelf: "1", division: "", position: "5",
			wantErr: true,
		},
		{
			name:  "non_numeric_shelf_rejected",
			shelf: "A", division: "1", position: "5",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := domain.ParseSlotKey(tt.shelf, tt.division, tt.position)
			if tt.wantErr {
				require.Error(t, err)
				var verr *domain.ValidationError
				assert.ErrorAs(t, err, &verr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSlotKey_StringAndNumericFormsAreEqual(t *testing.T) {
	numeric, err := domain.NewSlotKey(3, 14, 15)
	require.NoError(t, err)

	parsed, err := domain.ParseSlotKey("3", "14", "15")
	require.NoError(t, err)

	assert.True(t, numeric.Equal(parsed))
	assert.True(t, parsed.Equal(numeric))
}

func TestSlotValue_UnmarshalJSON(t *testing.T) {
	var payload struct {
		Shelf    domain.SlotValue `json:"shelf"`
		Division domain.SlotValue `json:"division"`
	}

	// Legacy clients send slot fields as strings, current ones as numbers.
	err := json.Unmarshal([]byte(`{"shelf":"5","division":2}`), &payload)
	require.NoError(t, err)
	assert.Equal(t, domain.SlotValue(5), payload.Shelf)
	assert.Equal(t, domain.SlotValue(2), payload.Division)

	err = json.Unmarshal([]byte(`{"shelf":"x","division":2}`), &payload)
	assert.Error(t, err)

	out, err := json.Marshal(domain.SlotValue(9))
	require.NoError(t, err)
	assert.Equal(t, "9", string(out))
}

func TestSample_Validate(t *testing.T) {
	base := func(mutate func(*domain.Sample)) *domain.Sample {
		s := &domain.Sample{
			Style:        "ST-1042",
			Item:         "jacket",
			Buyer:        "H&M",
			NoOfSamples:  2,
			Shelf:        1,
			Division:     1,
			Position:     1,
			Availability: domain.AvailabilityAvailable,
		}
		if mutate != nil {
			mutate(s)
		}
		return s
	}

	tests := []struct {
		name      string
		sample    *domain.Sample
		wantError bool
		errorMsg  string
	}{
		{
			name:   "valid_sample",
			sample: base(nil),
		},
		{
			name:      "missing_style",
			sample:    base(func(s *domain.Sample) { s.Style = "" }),
			wantError: true,
			errorMsg:  "style: is required",
		},
		{
			name:      "missing_item",
			sample:    base(func(s *domain.Sample) { s.Item = "" }),
			wantError: true,
			errorMsg:  "item: is required",
		},
		{
			name:      "zero_shelf",
			sample:    base(func(s *domain.Sample) { s.Shelf = 0 }),
			wantError: true,
			errorMsg:  "shelf: must be a positive integer",
		},
		{
			name:      "negative_sample_count",
			sample:    base(func(s *domain.Sample) { s.NoOfSamples = -1 }),
			wantError: true,
			errorMsg:  "no_of_sample: cannot be negative",
		},
		{
			name:      "unknown_availability",
			sample:    base(func(s *domain.Sample) { s.Availability = "maybe" }),
			wantError: true,
		},
		{
			name:   "empty_availability_defaults_to_available",
			sample: base(func(s *domain.Sample) { s.Availability = "" }),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.sample.Validate()
			if tt.wantError {
				require.Error(t, err)
				if tt.errorMsg != "" {
					assert.Contains(t, err.Error(), tt.errorMsg)
				}
			} else {
				require.NoError(t, err)
				assert.Equal(t, domain.AvailabilityAvailable, tt.sample.Availability)
			}
		})
	}
}

func TestSample_PrepareForStorage(t *testing.T) {
	s := &domain.Sample{Style: "ST-1", Item: "shirt", Shelf: 1, Division: 1, Position: 1}
	s.PrepareForStorage()

	assert.NotEqual(t, uuid.Nil, s.ID)
	assert.Equal(t, 1, s.NoOfSamples)
	assert.False(t, s.AddedAt.IsZero())
	assert.False(t, s.UpdatedAt.IsZero())
	assert.Equal(t, domain.AvailabilityAvailable, s.Availability)

	// A second call must not reassign identity or creation time.
	id, added := s.ID, s.AddedAt
	s.PrepareForStorage()
	assert.Equal(t, id, s.ID)
	assert.Equal(t, added, s.AddedAt)
}

func makeSample(pos int, addedAt time.Time) domain.Sample {
	return domain.Sample{
		ID:       uuid.New(),
		Style:    "ST",
		Item:     "dress",
		Shelf:    1,
		Division: 1,
		Position: pos,
		AddedAt:  addedAt,
	}
}

func TestNormalizePositions_PacksSequence(t *testing.T) {
	t0 := time.Now()
	samples := []domain.Sample{
		makeSample(7, t0),
		makeSample(2, t0.Add(time.Minute)),
		makeSample(9, t0.Add(2*time.Minute)),
	}

	assignments := domain.NormalizePositions(samples)
	require.Len(t, assignments, 3)

	assert.Equal(t, 2, assignments[0].OldPosition)
	assert.Equal(t, 1, assignments[0].NewPosition)
	assert.Equal(t, 7, assignments[1].OldPosition)
	assert.Equal(t, 2, assignments[1].NewPosition)
	assert.Equal(t, 9, assignments[2].OldPosition)
	assert.Equal(t, 3, assignments[2].NewPosition)
}

func TestNormalizePositions_TieBreakByAddedAt(t *testing.T) {
	t0 := time.Now()
	older := makeSample(5, t0)
	newer := makeSample(5, t0.Add(time.Hour))

	// Duplicate positions order by added_at ascending.
	assignments := domain.NormalizePositions([]domain.Sample{newer, older})
	require.Len(t, assignments, 2)
	assert.Equal(t, older.ID, assignments[0].SampleID)
	assert.Equal(t, 1, assignments[0].NewPosition)
	assert.Equal(t, newer.ID, assignments[1].SampleID)
	assert.Equal(t, 2, assignments[1].NewPosition)
}

func TestNormalizePositions_Idempotent(t *testing.T) {
	t0 := time.Now()
	samples := []domain.Sample{
		makeSample(4, t0),
		makeSample(4, t0.Add(time.Second)),
		makeSample(11, t0.Add(2*time.Second)),
		makeSample(1, t0.Add(3*time.Second)),
	}

	first := domain.NormalizePositions(samples)

	// Apply the first pass, then normalize again.
	byID := make(map[uuid.UUID]*domain.Sample)
	for i := range samples {
		byID[samples[i].ID] = &samples[i]
	}
	for _, a := range first {
		byID[a.SampleID].Position = a.NewPosition
	}

	second := domain.NormalizePositions(samples)
	require.Len(t, second, len(first))
	for i := range second {
		assert.Equal(t, first[i].SampleID, second[i].SampleID)
		assert.Equal(t, first[i].NewPosition, second[i].NewPosition)
		assert.Equal(t, second[i].OldPosition, second[i].NewPosition)
	}
}

func TestResolutionType_Destructive(t *testing.T) {
	assert.True(t, domain.ResolutionOverwrite.Destructive())
	assert.True(t, domain.ResolutionDeleteSelected.Destructive())
	assert.True(t, domain.ResolutionKeepOne.Destructive())
	assert.False(t, domain.ResolutionShiftDown.Destructive())
	assert.False(t, domain.ResolutionCancel.Destructive())
}
