// internal/handlers/samples_handler_test.go
package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/basefinder/basefinder-be/internal/core/domain"
	"github.com/basefinder/basefinder-be/internal/core/ports"
	"github.com/basefinder/basefinder-be/internal/handlers"
	"github.com/basefinder/basefinder-be/test/helpers"
	"github.com/basefinder/basefinder-be/test/mocks"
)

func newHandler(t *testing.T) (*handlers.SampleHandler, *mocks.MockSampleService) {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	mockService := mocks.NewMockSampleService(ctrl)
	handler := handlers.NewSampleHandler(mockService, nil, helpers.TestLogger())
	return handler, mockService
}

// recordingInvalidator records the sample IDs whose derived caches were
// dropped.
type recordingInvalidator struct {
	invalidated []string
}

func (r *recordingInvalidator) InvalidateSampleCache(_ context.Context, sampleID string) error {
	r.invalidated = append(r.invalidated, sampleID)
	return nil
}

func TestSampleHandler_GetSample(t *testing.T) {
	testSample := helpers.CreateTestSample()

	tests := []struct {
		name           string
		sampleID       string
		setupMocks     func(*mocks.MockSampleService)
		expectedStatus int
		validateBody   func(*testing.T, []byte)
	}{
		{
			name:     "successfully_retrieves_sample",
			sampleID: testSample.ID.String(),
			setupMocks: func(m *mocks.MockSampleService) {
				m.EXPECT().
					GetByID(gomock.Any(), testSample.ID).
					Return(testSample, nil)
			},
			expectedStatus: http.StatusOK,
			validateBody: func(t *testing.T, body []byte) {
				var response domain.Sample
				err := json.Unmarshal(body, &response)
				require.NoError(t, err)
				assert.Equal(t, testSample.ID, response.ID)
				assert.Equal(t, testSample.Style, response.Style)
			},
		},
		{
			name:           "invalid_uuid_format",
			sampleID:       "not-a-uuid",
			setupMocks:     func(m *mocks.MockSampleService) {},
			expectedStatus: http.StatusBadRequest,
			validateBody: func(t *testing.T, body []byte) {
				var response map[string]interface{}
				require.NoError(t, json.Unmarshal(body, &response))
				assert.Equal(t, "Invalid sample ID format", response["message"])
			},
		},
		{
			name:     "sample_not_found",
			sampleID: uuid.New().String(),
			setupMocks: func(m *mocks.MockSampleService) {
				m.EXPECT().
					GetByID(gomock.Any(), gomock.Any()).
					Return(nil, domain.ErrNotFound)
			},
			expectedStatus: http.StatusNotFound,
			validateBody: func(t *testing.T, body []byte) {
				var response map[string]interface{}
				require.NoError(t, json.Unmarshal(body, &response))
				assert.Equal(t, "Sample not found", response["message"])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, mockService := newHandler(t)
			tt.setupMocks(mockService)

			req := httptest.NewRequest("GET", "/api/v1/samples/"+tt.sampleID, nil)
			req.SetPathValue("id", tt.sampleID)
			rec := httptest.NewRecorder()

			handler.GetSample(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			tt.validateBody(t, rec.Body.Bytes())
		})
	}
}

func TestSampleHandler_ListSamples(t *testing.T) {
	handler, mockService := newHandler(t)

	samples := []*domain.Sample{
		helpers.CreateTestSample(),
		helpers.CreateTestSample(func(s *domain.Sample) {
			s.Style = "ST-9001"
			s.Position = 4
		}),
	}

	mockService.EXPECT().
		List(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ interface{}, params ports.ListParams) (*ports.ListResult, error) {
			assert.Equal(t, 2, params.Page)
			assert.Equal(t, 10, params.PageSize)
			assert.Equal(t, "denim", params.Search)
			return &ports.ListResult{
				Samples:    samples,
				Page:       params.Page,
				PageSize:   params.PageSize,
				TotalCount: 12,
				TotalPages: 2,
			}, nil
		})

	req := httptest.NewRequest("GET", "/api/v1/samples?page=2&limit=10&search=denim", nil)
	rec := httptest.NewRecorder()

	handler.ListSamples(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var response struct {
		Samples    []domain.Sample `json:"samples"`
		TotalCount int64           `json:"totalCount"`
		TotalPages int             `json:"totalPages"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Len(t, response.Samples, 2)
	assert.Equal(t, int64(12), response.TotalCount)
	assert.Equal(t, 2, response.TotalPages)
}

func TestSampleHandler_CreateSample(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		setupMocks     func(*mocks.MockSampleService)
		expectedStatus int
	}{
		{
			name: "creates_sample_with_numeric_slots",
			body: `{"style":"ST-4521","item":"Denim Jacket","shelf":1,"division":2,"position":3}`,
			setupMocks: func(m *mocks.MockSampleService) {
				m.EXPECT().
					AddSample(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ interface{}, s *domain.Sample) error {
						assert.Equal(t, 1, s.Shelf)
						assert.Equal(t, 2, s.Division)
						assert.Equal(t, 3, s.Position)
						return nil
					})
			},
			expectedStatus: http.StatusCreated,
		},
		{
			// Legacy clients send slot coordinates as quoted strings. Both
			// forms must land on the same slot.
			name: "creates_sample_with_string_slots",
			body: `{"style":"ST-4521","item":"Denim Jacket","shelf":"1","division":"2","position":"3"}`,
			setupMocks: func(m *mocks.MockSampleService) {
				m.EXPECT().
					AddSample(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ interface{}, s *domain.Sample) error {
						assert.Equal(t, 1, s.Shelf)
						assert.Equal(t, 2, s.Division)
						assert.Equal(t, 3, s.Position)
						return nil
					})
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "rejects_non_numeric_slot_string",
			body:           `{"style":"ST-4521","item":"Denim Jacket","shelf":"top","division":2,"position":3}`,
			setupMocks:     func(m *mocks.MockSampleService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "validation_error_maps_to_400",
			body: `{"style":"","item":"Denim Jacket","shelf":1,"division":2,"position":3}`,
			setupMocks: func(m *mocks.MockSampleService) {
				m.EXPECT().
					AddSample(gomock.Any(), gomock.Any()).
					Return(&domain.ValidationError{Field: "style", Reason: "is required"})
			},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, mockService := newHandler(t)
			tt.setupMocks(mockService)

			req := httptest.NewRequest("POST", "/api/v1/samples", bytes.NewReader([]byte(tt.body)))
			rec := httptest.NewRecorder()

			handler.CreateSample(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
		})
	}
}

func TestSampleHandler_TakeSample(t *testing.T) {
	sampleID := uuid.New()

	tests := []struct {
		name           string
		body           string
		setupMocks     func(*mocks.MockSampleService)
		expectedStatus int
	}{
		{
			name: "takes_sample",
			body: `{"taken_by":"anna","purpose":"fitting session"}`,
			setupMocks: func(m *mocks.MockSampleService) {
				m.EXPECT().
					Take(gomock.Any(), sampleID, "anna", "fitting session").
					Return(nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "missing_purpose_maps_to_400",
			body: `{"taken_by":"anna","purpose":""}`,
			setupMocks: func(m *mocks.MockSampleService) {
				m.EXPECT().
					Take(gomock.Any(), sampleID, "anna", "").
					Return(&domain.ValidationError{Field: "purpose", Reason: "is required"})
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "service_failure_maps_to_500",
			body: `{"taken_by":"anna","purpose":"fitting"}`,
			setupMocks: func(m *mocks.MockSampleService) {
				m.EXPECT().
					Take(gomock.Any(), sampleID, "anna", "fitting").
					Return(errors.New("connection refused"))
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, mockService := newHandler(t)
			tt.setupMocks(mockService)

			req := httptest.NewRequest("PUT", "/api/v1/samples/"+sampleID.String()+"/take", bytes.NewReader([]byte(tt.body)))
			req.SetPathValue("id", sampleID.String())
			rec := httptest.NewRecorder()

			handler.TakeSample(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
		})
	}
}

func TestSampleHandler_PutBackSample(t *testing.T) {
	sampleID := uuid.New()

	handler, mockService := newHandler(t)
	mockService.EXPECT().
		PutBack(gomock.Any(), sampleID, 7, "anna", "done with fitting").
		Return(nil)

	// position arrives as a string; the handler must coerce it
	body := `{"position":"7","returned_by":"anna","return_purpose":"done with fitting"}`
	req := httptest.NewRequest("PUT", "/api/v1/samples/putback/"+sampleID.String(), bytes.NewReader([]byte(body)))
	req.SetPathValue("id", sampleID.String())
	rec := httptest.NewRecorder()

	handler.PutBackSample(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, true, response["success"])
}

func TestSampleHandler_DeleteSample(t *testing.T) {
	sampleID := uuid.New()

	tests := []struct {
		name            string
		query           string
		reducePositions bool
	}{
		{name: "delete_without_reduce", query: "", reducePositions: false},
		{name: "delete_with_reduce", query: "?reducePositions=true", reducePositions: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, mockService := newHandler(t)
			mockService.EXPECT().
				SoftDelete(gomock.Any(), sampleID, gomock.Any(), tt.reducePositions).
				Return(nil)

			req := httptest.NewRequest("DELETE", "/api/v1/samples/"+sampleID.String()+tt.query, nil)
			req.SetPathValue("id", sampleID.String())
			rec := httptest.NewRecorder()

			handler.DeleteSample(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code)
		})
	}
}

func TestSampleHandler_CheckPositionAvailability(t *testing.T) {
	tests := []struct {
		name           string
		query          string
		setupMocks     func(*mocks.MockSampleService)
		expectedStatus int
		expectedEmpty  interface{}
	}{
		{
			name:  "position_is_empty",
			query: "?shelf=1&division=2&position=3",
			setupMocks: func(m *mocks.MockSampleService) {
				slot, _ := domain.NewSlotKey(1, 2, 3)
				m.EXPECT().
					CheckPositionAvailability(gomock.Any(), slot).
					Return(true, nil)
			},
			expectedStatus: http.StatusOK,
			expectedEmpty:  true,
		},
		{
			name:  "position_is_occupied",
			query: "?shelf=1&division=2&position=3",
			setupMocks: func(m *mocks.MockSampleService) {
				slot, _ := domain.NewSlotKey(1, 2, 3)
				m.EXPECT().
					CheckPositionAvailability(gomock.Any(), slot).
					Return(false, nil)
			},
			expectedStatus: http.StatusOK,
			expectedEmpty:  false,
		},
		{
			name:           "rejects_fractional_position",
			query:          "?shelf=1&division=2&position=3.5",
			setupMocks:     func(m *mocks.MockSampleService) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, mockService := newHandler(t)
			tt.setupMocks(mockService)

			req := httptest.NewRequest("GET", "/api/v1/samples/check-position-availability"+tt.query, nil)
			rec := httptest.NewRecorder()

			handler.CheckPositionAvailability(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedStatus == http.StatusOK {
				var response map[string]interface{}
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
				assert.Equal(t, tt.expectedEmpty, response["isPositionEmpty"])
			}
		})
	}
}

func TestSampleHandler_ShiftPositions(t *testing.T) {
	handler, mockService := newHandler(t)

	mockService.EXPECT().
		ShiftPositions(gomock.Any(), 2, 3, 5).
		Return(int64(4), nil)

	// slot fields as strings, mirroring the legacy client payloads
	body := `{"shelf":"2","division":"3","currentPosition":"5"}`
	req := httptest.NewRequest("PATCH", "/api/v1/samples/increase-positions-by-shelf-division", bytes.NewReader([]byte(body)))
	rec := httptest.NewRecorder()

	handler.ShiftPositions(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, true, response["success"])
	assert.Equal(t, float64(4), response["modifiedCount"])
}

func TestSampleHandler_FindConflicts(t *testing.T) {
	conflictGroups := []domain.ConflictGroup{
		{
			Shelf:               1,
			Division:            2,
			ConflictingPosition: 3,
			NumberOfConflicts:   2,
		},
	}

	tests := []struct {
		name            string
		body            string
		setupMocks      func(*mocks.MockSampleService)
		expectedMessage string
	}{
		{
			name: "empty_body_scans_everything",
			body: "",
			setupMocks: func(m *mocks.MockSampleService) {
				m.EXPECT().
					FindConflicts(gomock.Any(), 0, 0).
					Return(nil, nil)
			},
			expectedMessage: "No conflicts found",
		},
		{
			name: "scoped_scan_finds_conflicts",
			body: `{"shelf":1,"division":2}`,
			setupMocks: func(m *mocks.MockSampleService) {
				m.EXPECT().
					FindConflicts(gomock.Any(), 1, 2).
					Return(conflictGroups, nil)
			},
			expectedMessage: "Conflicts found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, mockService := newHandler(t)
			tt.setupMocks(mockService)

			var req *http.Request
			if tt.body == "" {
				req = httptest.NewRequest("POST", "/api/v1/samples-conflict", nil)
			} else {
				req = httptest.NewRequest("POST", "/api/v1/samples-conflict", bytes.NewReader([]byte(tt.body)))
			}
			rec := httptest.NewRecorder()

			handler.FindConflicts(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code)

			var response struct {
				Message   string                 `json:"message"`
				Conflicts []domain.ConflictGroup `json:"conflicts"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
			assert.Equal(t, tt.expectedMessage, response.Message)
			assert.NotNil(t, response.Conflicts)
		})
	}
}

func TestSampleHandler_ResolveConflict(t *testing.T) {
	keepID := uuid.New()
	loseID := uuid.New()

	tests := []struct {
		name           string
		body           string
		setupMocks     func(*mocks.MockSampleService)
		expectedStatus int
	}{
		{
			name: "keep_one",
			body: `{"resolutionType":"keepOne","data":{"keepSampleId":"` + keepID.String() + `","shelf":1,"division":2,"position":3}}`,
			setupMocks: func(m *mocks.MockSampleService) {
				m.EXPECT().
					ResolveConflict(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ interface{}, params ports.ResolveConflictParams) (int64, error) {
						assert.Equal(t, domain.ResolutionKeepOne, params.Type)
						assert.Equal(t, keepID, params.KeepID)
						assert.Equal(t, 1, params.Shelf)
						assert.Equal(t, 2, params.Division)
						assert.Equal(t, 3, params.Position)
						return 1, nil
					})
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "delete_selected",
			body: `{"resolutionType":"deleteSelected","data":{"sampleIds":["` + loseID.String() + `"],"shelf":1,"division":2,"position":3}}`,
			setupMocks: func(m *mocks.MockSampleService) {
				m.EXPECT().
					ResolveConflict(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ interface{}, params ports.ResolveConflictParams) (int64, error) {
						assert.Equal(t, domain.ResolutionDeleteSelected, params.Type)
						assert.Equal(t, []uuid.UUID{loseID}, params.SampleIDs)
						return 1, nil
					})
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "unknown_resolution_type_maps_to_400",
			body: `{"resolutionType":"merge","data":{"shelf":1,"division":2,"position":3}}`,
			setupMocks: func(m *mocks.MockSampleService) {
				m.EXPECT().
					ResolveConflict(gomock.Any(), gomock.Any()).
					Return(int64(0), &domain.ValidationError{Field: "resolutionType", Reason: "unknown resolution type"})
			},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, mockService := newHandler(t)
			tt.setupMocks(mockService)

			req := httptest.NewRequest("POST", "/api/v1/samples/resolve-conflict", bytes.NewReader([]byte(tt.body)))
			rec := httptest.NewRecorder()

			handler.ResolveConflict(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
		})
	}
}

func TestSampleHandler_MutationsInvalidateCache(t *testing.T) {
	sampleID := uuid.New()

	t.Run("take_drops_derived_caches", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		t.Cleanup(ctrl.Finish)

		mockService := mocks.NewMockSampleService(ctrl)
		invalidator := &recordingInvalidator{}
		handler := handlers.NewSampleHandler(mockService, invalidator, helpers.TestLogger())

		mockService.EXPECT().
			Take(gomock.Any(), sampleID, "qa", "fitting").
			Return(nil)

		body := `{"taken_by":"qa","purpose":"fitting"}`
		req := httptest.NewRequest("PUT", "/api/v1/samples/"+sampleID.String()+"/take", bytes.NewReader([]byte(body)))
		req.SetPathValue("id", sampleID.String())
		rec := httptest.NewRecorder()

		handler.TakeSample(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, []string{sampleID.String()}, invalidator.invalidated)
	})

	t.Run("failed_mutation_leaves_caches_alone", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		t.Cleanup(ctrl.Finish)

		mockService := mocks.NewMockSampleService(ctrl)
		invalidator := &recordingInvalidator{}
		handler := handlers.NewSampleHandler(mockService, invalidator, helpers.TestLogger())

		mockService.EXPECT().
			SoftDelete(gomock.Any(), sampleID, gomock.Any(), false).
			Return(errors.New("database unavailable"))

		req := httptest.NewRequest("DELETE", "/api/v1/samples/"+sampleID.String(), nil)
		req.SetPathValue("id", sampleID.String())
		rec := httptest.NewRecorder()

		handler.DeleteSample(rec, req)

		require.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Empty(t, invalidator.invalidated)
	})

	t.Run("reads_do_not_invalidate", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		t.Cleanup(ctrl.Finish)

		mockService := mocks.NewMockSampleService(ctrl)
		invalidator := &recordingInvalidator{}
		handler := handlers.NewSampleHandler(mockService, invalidator, helpers.TestLogger())

		mockService.EXPECT().
			GetByID(gomock.Any(), sampleID).
			Return(helpers.CreateTestSample(), nil)

		req := httptest.NewRequest("GET", "/api/v1/samples/"+sampleID.String(), nil)
		req.SetPathValue("id", sampleID.String())
		rec := httptest.NewRecorder()

		handler.GetSample(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, invalidator.invalidated)
	})
}
