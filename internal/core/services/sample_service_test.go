package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/basefinder/basefinder-be/internal/core/domain"
	"github.com/basefinder/basefinder-be/internal/core/ports"
	"github.com/basefinder/basefinder-be/internal/core/services"
	"github.com/basefinder/basefinder-be/test/helpers"
	"github.com/basefinder/basefinder-be/test/mocks"
)

func newService(t *testing.T) (*services.SampleService, *mocks.MockSampleRepository) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	mockRepo := mocks.NewMockSampleRepository(ctrl)
	mockDB := mocks.NewMockPgxPool(ctrl)
	return services.NewSampleService(mockRepo, mockDB, helpers.TestLogger()), mockRepo
}

func TestSampleService_AddSample(t *testing.T) {
	tests := []struct {
		name          string
		sample        *domain.Sample
		setupMocks    func(*mocks.MockSampleRepository)
		expectedError bool
		errorContains string
	}{
		{
			name:   "successful_add_with_valid_sample",
			sample: helpers.CreateTestSample(),
			setupMocks: func(m *mocks.MockSampleRepository) {
				m.EXPECT().
					Save(gomock.Any(), gomock.Any()).
					Return(nil)
			},
		},
		{
			name: "validation_fails_for_missing_style",
			sample: helpers.CreateTestSample(func(s *domain.Sample) {
				s.Style = ""
			}),
			setupMocks:    func(m *mocks.MockSampleRepository) {},
			expectedError: true,
			errorContains: "style: is required",
		},
		{
			name: "validation_fails_for_zero_position",
			sample: helpers.CreateTestSample(func(s *domain.Sample) {
				s.Position = 0
			}),
			setupMocks:    func(m *mocks.MockSampleRepository) {},
			expectedError: true,
			errorContains: "position: must be a positive integer",
		},
		{
			name:   "repository_save_error",
			sample: helpers.CreateTestSample(),
			setupMocks: func(m *mocks.MockSampleRepository) {
				m.EXPECT().
					Save(gomock.Any(), gomock.Any()).
					Return(errors.New("database connection failed"))
			},
			expectedError: true,
			errorContains: "database connection failed",
		},
		{
			name: "defaults_sample_count_to_one",
			sample: helpers.CreateTestSample(func(s *domain.Sample) {
				s.NoOfSamples = 0
			}),
			setupMocks: func(m *mocks.MockSampleRepository) {
				m.EXPECT().
					Save(gomock.Any(), gomock.Any()).
					DoAndReturn(func(ctx context.Context, sample *domain.Sample) error {
						assert.Equal(t, 1, sample.NoOfSamples)
						return nil
					})
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, mockRepo := newService(t)
			tt.setupMocks(mockRepo)

			err := service.AddSample(context.Background(), tt.sample)

			if tt.expectedError {
				require.Error(t, err)
				if tt.errorContains != "" {
					assert.Contains(t, err.Error(), tt.errorContains)
				}
			} else {
				require.NoError(t, err)
				assert.NotEqual(t, uuid.Nil, tt.sample.ID)
			}
		})
	}
}

func TestSampleService_Take(t *testing.T) {
	sample := helpers.CreateTestSample()

	tests := []struct {
		name          string
		purpose       string
		setupMocks    func(*mocks.MockSampleRepository)
		expectedError bool
		errorContains string
	}{
		{
			name:    "take_appends_log_and_marks_unavailable",
			purpose: "fitting session",
			setupMocks: func(m *mocks.MockSampleRepository) {
				m.EXPECT().
					FindByID(gomock.Any(), sample.ID).
					Return(sample, nil)
				m.EXPECT().
					AppendTakenLog(gomock.Any(), sample.ID, gomock.Any()).
					DoAndReturn(func(ctx context.Context, id uuid.UUID, entry domain.TakenLog) error {
						assert.Equal(t, "fitting session", entry.Purpose)
						assert.Equal(t, "rahim", entry.TakenBy)
						assert.False(t, entry.TakenAt.IsZero())
						return nil
					})
			},
		},
		{
			// Empty purpose must not touch the repository at all.
			name:          "empty_purpose_is_rejected_before_any_lookup",
			purpose:       "  ",
			setupMocks:    func(m *mocks.MockSampleRepository) {},
			expectedError: true,
			errorContains: "purpose: is required",
		},
		{
			name:    "taking_an_already_taken_sample_fails",
			purpose: "photo shoot",
			setupMocks: func(m *mocks.MockSampleRepository) {
				taken := helpers.CreateTestSample(func(s *domain.Sample) {
					s.ID = sample.ID
					s.Availability = domain.AvailabilityTaken
				})
				m.EXPECT().
					FindByID(gomock.Any(), sample.ID).
					Return(taken, nil)
			},
			expectedError: true,
			errorContains: "already taken",
		},
		{
			name:    "repository_failure_is_propagated",
			purpose: "buyer meeting",
			setupMocks: func(m *mocks.MockSampleRepository) {
				m.EXPECT().
					FindByID(gomock.Any(), sample.ID).
					Return(sample, nil)
				m.EXPECT().
					AppendTakenLog(gomock.Any(), sample.ID, gomock.Any()).
					Return(errors.New("write failed"))
			},
			expectedError: true,
			errorContains: "write failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, mockRepo := newService(t)
			tt.setupMocks(mockRepo)

			err := service.Take(context.Background(), sample.ID, "rahim", tt.purpose)

			if tt.expectedError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorContains)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestSampleService_PutBack(t *testing.T) {
	taken := helpers.CreateTestSample(func(s *domain.Sample) {
		s.Availability = domain.AvailabilityTaken
	})

	t.Run("putback_writes_returned_log_with_new_slot", func(t *testing.T) {
		service, mockRepo := newService(t)

		mockRepo.EXPECT().
			FindByID(gomock.Any(), taken.ID).
			Return(taken, nil)
		mockRepo.EXPECT().
			AppendReturnedLog(gomock.Any(), taken.ID, gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, id uuid.UUID, slot domain.SlotKey, entry domain.ReturnedLog) error {
				assert.Equal(t, taken.Shelf, slot.Shelf)
				assert.Equal(t, taken.Division, slot.Division)
				assert.Equal(t, 9, slot.Position)
				assert.Equal(t, 9, entry.Position)
				assert.Equal(t, "karim", entry.ReturnedBy)
				return nil
			})

		err := service.PutBack(context.Background(), taken.ID, 9, "karim", "done with fitting")
		require.NoError(t, err)
	})

	t.Run("zero_position_is_rejected_before_any_lookup", func(t *testing.T) {
		service, _ := newService(t)

		err := service.PutBack(context.Background(), taken.ID, 0, "karim", "")
		require.Error(t, err)
		var verr *domain.ValidationError
		assert.ErrorAs(t, err, &verr)
	})

	t.Run("putting_back_an_available_sample_fails", func(t *testing.T) {
		service, mockRepo := newService(t)

		mockRepo.EXPECT().
			FindByID(gomock.Any(), taken.ID).
			Return(helpers.CreateTestSample(), nil)

		err := service.PutBack(context.Background(), taken.ID, 3, "karim", "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not taken")
	})
}

func TestSampleService_SoftDelete(t *testing.T) {
	sample := helpers.CreateTestSample(func(s *domain.Sample) {
		s.Shelf = 2
		s.Division = 3
		s.Position = 5
	})

	t.Run("delete_without_position_reduction", func(t *testing.T) {
		service, mockRepo := newService(t)

		mockRepo.EXPECT().FindByID(gomock.Any(), sample.ID).Return(sample, nil)
		mockRepo.EXPECT().SoftDelete(gomock.Any(), sample.ID, "admin").Return(nil)

		err := service.SoftDelete(context.Background(), sample.ID, "admin", false)
		require.NoError(t, err)
	})

	t.Run("delete_with_position_reduction_compacts_division", func(t *testing.T) {
		service, mockRepo := newService(t)

		mockRepo.EXPECT().FindByID(gomock.Any(), sample.ID).Return(sample, nil)
		mockRepo.EXPECT().SoftDelete(gomock.Any(), sample.ID, "admin").Return(nil)
		mockRepo.EXPECT().ReducePositions(gomock.Any(), 2, 3, 5).Return(int64(4), nil)

		err := service.SoftDelete(context.Background(), sample.ID, "admin", true)
		require.NoError(t, err)
	})

	t.Run("missing_sample_fails_before_delete", func(t *testing.T) {
		service, mockRepo := newService(t)

		mockRepo.EXPECT().FindByID(gomock.Any(), sample.ID).Return(nil, nil)

		err := service.SoftDelete(context.Background(), sample.ID, "admin", true)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestSampleService_FindConflicts(t *testing.T) {
	t.Run("specific_scope_requires_both_coordinates", func(t *testing.T) {
		service, _ := newService(t)

		_, err := service.FindConflicts(context.Background(), 2, 0)
		require.Error(t, err)
		var verr *domain.ValidationError
		assert.ErrorAs(t, err, &verr)
	})

	t.Run("unscoped_sweep_passes_zero_values_through", func(t *testing.T) {
		service, mockRepo := newService(t)

		groups := []domain.ConflictGroup{{
			Shelf: 1, Division: 1, ConflictingPosition: 5, NumberOfConflicts: 2,
		}}
		mockRepo.EXPECT().FindConflicts(gomock.Any(), 0, 0).Return(groups, nil)

		got, err := service.FindConflicts(context.Background(), 0, 0)
		require.NoError(t, err)
		assert.Equal(t, groups, got)
	})
}

func TestSampleService_ResolveConflict(t *testing.T) {
	keep := helpers.CreateTestSample(func(s *domain.Sample) {
		s.Shelf = 1
		s.Division = 1
		s.Position = 5
	})
	lose := helpers.CreateTestSample(func(s *domain.Sample) {
		s.Shelf = 1
		s.Division = 1
		s.Position = 5
	})

	t.Run("keep_one_deletes_the_other_occupants", func(t *testing.T) {
		service, mockRepo := newService(t)

		mockRepo.EXPECT().
			FindByLocation(gomock.Any(), 1, 1).
			Return([]domain.Sample{*keep, *lose}, nil)
		mockRepo.EXPECT().
			SoftDeleteMany(gomock.Any(), []uuid.UUID{lose.ID}, "admin").
			Return(int64(1), nil)

		removed, err := service.ResolveConflict(context.Background(), ports.ResolveConflictParams{
			Type:       domain.ResolutionKeepOne,
			Shelf:      1,
			Division:   1,
			Position:   5,
			KeepID:     keep.ID,
			ResolvedBy: "admin",
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), removed)
	})

	t.Run("delete_selected_with_empty_set_is_rejected", func(t *testing.T) {
		service, _ := newService(t)

		_, err := service.ResolveConflict(context.Background(), ports.ResolveConflictParams{
			Type:     domain.ResolutionDeleteSelected,
			Shelf:    1,
			Division: 1,
			Position: 5,
		})
		require.Error(t, err)
		var verr *domain.ValidationError
		assert.ErrorAs(t, err, &verr)
	})

	t.Run("keep_one_fails_when_kept_sample_is_not_at_slot", func(t *testing.T) {
		service, mockRepo := newService(t)

		mockRepo.EXPECT().
			FindByLocation(gomock.Any(), 1, 1).
			Return([]domain.Sample{*lose}, nil)

		_, err := service.ResolveConflict(context.Background(), ports.ResolveConflictParams{
			Type:     domain.ResolutionKeepOne,
			Shelf:    1,
			Division: 1,
			Position: 5,
			KeepID:   keep.ID,
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("overwrite_without_selection_keeps_the_newest", func(t *testing.T) {
		service, mockRepo := newService(t)

		older := helpers.CreateTestSample(func(s *domain.Sample) {
			s.Shelf, s.Division, s.Position = 1, 1, 5
			s.AddedAt = time.Now().Add(-48 * time.Hour)
		})
		newer := helpers.CreateTestSample(func(s *domain.Sample) {
			s.Shelf, s.Division, s.Position = 1, 1, 5
			s.AddedAt = time.Now()
		})
		elsewhere := helpers.CreateTestSample(func(s *domain.Sample) {
			s.Shelf, s.Division, s.Position = 1, 1, 7
		})

		mockRepo.EXPECT().
			FindByLocation(gomock.Any(), 1, 1).
			Return([]domain.Sample{*older, *newer, *elsewhere}, nil)
		mockRepo.EXPECT().
			SoftDeleteMany(gomock.Any(), []uuid.UUID{older.ID}, "admin").
			Return(int64(1), nil)

		removed, err := service.ResolveConflict(context.Background(), ports.ResolveConflictParams{
			Type:       domain.ResolutionOverwrite,
			Shelf:      1,
			Division:   1,
			Position:   5,
			ResolvedBy: "admin",
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), removed)
	})

	t.Run("overwrite_fails_when_slot_is_empty", func(t *testing.T) {
		service, mockRepo := newService(t)

		elsewhere := helpers.CreateTestSample(func(s *domain.Sample) {
			s.Shelf, s.Division, s.Position = 1, 1, 7
		})

		mockRepo.EXPECT().
			FindByLocation(gomock.Any(), 1, 1).
			Return([]domain.Sample{*elsewhere}, nil)

		_, err := service.ResolveConflict(context.Background(), ports.ResolveConflictParams{
			Type:     domain.ResolutionOverwrite,
			Shelf:    1,
			Division: 1,
			Position: 5,
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("overwrite_with_explicit_keep_behaves_like_keep_one", func(t *testing.T) {
		service, mockRepo := newService(t)

		mockRepo.EXPECT().
			FindByLocation(gomock.Any(), 1, 1).
			Return([]domain.Sample{*keep, *lose}, nil)
		mockRepo.EXPECT().
			SoftDeleteMany(gomock.Any(), []uuid.UUID{lose.ID}, "admin").
			Return(int64(1), nil)

		removed, err := service.ResolveConflict(context.Background(), ports.ResolveConflictParams{
			Type:       domain.ResolutionOverwrite,
			Shelf:      1,
			Division:   1,
			Position:   5,
			KeepID:     keep.ID,
			ResolvedBy: "admin",
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), removed)
	})

	t.Run("shift_down_is_not_a_resolve_endpoint_strategy", func(t *testing.T) {
		service, _ := newService(t)

		_, err := service.ResolveConflict(context.Background(), ports.ResolveConflictParams{
			Type:     domain.ResolutionShiftDown,
			Shelf:    1,
			Division: 1,
			Position: 5,
		})
		require.Error(t, err)
	})
}

func TestSampleService_ShiftAndReduceAreInverses(t *testing.T) {
	// The repository applies the arithmetic; the service must hand the same
	// pivot to both halves so the round trip restores the position set.
	service, mockRepo := newService(t)

	mockRepo.EXPECT().ShiftPositions(gomock.Any(), 1, 2, 5).Return(int64(3), nil)
	mockRepo.EXPECT().ReducePositions(gomock.Any(), 1, 2, 5).Return(int64(3), nil)

	up, err := service.ShiftPositions(context.Background(), 1, 2, 5)
	require.NoError(t, err)
	down, err := service.ReducePositions(context.Background(), 1, 2, 5)
	require.NoError(t, err)
	assert.Equal(t, up, down)
}
