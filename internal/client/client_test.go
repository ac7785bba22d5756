package client_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/basefinder/basefinder-be/internal/client"
	"github.com/basefinder/basefinder-be/internal/core/domain"
)

const testToken = "test-token"

// newServer starts an httptest server that checks auth headers before
// delegating to handler.
func newServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *client.Client) {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer "+testToken, r.Header.Get("Authorization"))
		assert.Equal(t, "tester", r.Header.Get("X-User"))
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	return srv, client.New(srv.URL, testToken, client.WithUser("tester"))
}

func TestClient_List(t *testing.T) {
	_, c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/v1/samples", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "25", r.URL.Query().Get("limit"))
		assert.Equal(t, "denim", r.URL.Query().Get("search"))

		json.NewEncoder(w).Encode(map[string]interface{}{
			"samples":    []map[string]interface{}{{"style": "ST-1", "item": "Jacket"}},
			"page":       2,
			"pageSize":   25,
			"totalCount": 51,
			"totalPages": 3,
		})
	})

	result, err := c.List(context.Background(), client.ListOptions{
		Page:   2,
		Limit:  25,
		Search: "denim",
	})
	require.NoError(t, err)

	assert.Equal(t, 2, result.Page)
	assert.Equal(t, int64(51), result.TotalCount)
	assert.Equal(t, 3, result.TotalPages)
	require.Len(t, result.Samples, 1)
	assert.Equal(t, "ST-1", result.Samples[0].Style)
}

func TestClient_Get(t *testing.T) {
	id := uuid.New()

	_, c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/samples/"+id.String(), r.URL.Path)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"_id":   id.String(),
			"style": "ST-42",
			"shelf": 1, "division": 2, "position": 3,
		})
	})

	sample, err := c.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, sample.ID)
	assert.Equal(t, "ST-42", sample.Style)
	assert.Equal(t, 3, sample.Position)
}

func TestClient_Get_NotFound(t *testing.T) {
	_, c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"message": "Sample not found",
		})
	})

	_, err := c.Get(context.Background(), uuid.New())
	require.Error(t, err)
	assert.True(t, client.IsNotFound(err))
	assert.Contains(t, err.Error(), "Sample not found")
}

func TestClient_Take(t *testing.T) {
	id := uuid.New()

	_, c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/v1/samples/"+id.String()+"/take", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "anna", body["taken_by"])
		assert.Equal(t, "fitting", body["purpose"])

		json.NewEncoder(w).Encode(map[string]interface{}{"success": true})
	})

	err := c.Take(context.Background(), id, "anna", "fitting")
	require.NoError(t, err)
}

func TestClient_Delete_ReducePositions(t *testing.T) {
	id := uuid.New()

	_, c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "true", r.URL.Query().Get("reducePositions"))
		json.NewEncoder(w).Encode(map[string]interface{}{"success": true})
	})

	require.NoError(t, c.Delete(context.Background(), id, true))
}

func TestClient_CheckPositionAvailability(t *testing.T) {
	_, c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/samples/check-position-availability", r.URL.Path)
		assert.Equal(t, "1", r.URL.Query().Get("shelf"))
		assert.Equal(t, "2", r.URL.Query().Get("division"))
		assert.Equal(t, "3", r.URL.Query().Get("position"))

		json.NewEncoder(w).Encode(map[string]interface{}{
			"isPositionEmpty": false,
			"message":         "Position is already occupied",
		})
	})

	result, err := c.CheckPositionAvailability(context.Background(), 1, 2, 3)
	require.NoError(t, err)
	assert.False(t, result.IsPositionEmpty)
	assert.Equal(t, "Position is already occupied", result.Message)
}

func TestClient_ShiftPositions(t *testing.T) {
	_, c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/api/v1/samples/increase-positions-by-shelf-division", r.URL.Path)

		var body map[string]int
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, 1, body["shelf"])
		assert.Equal(t, 2, body["division"])
		assert.Equal(t, 5, body["currentPosition"])

		json.NewEncoder(w).Encode(map[string]interface{}{
			"success":       true,
			"modifiedCount": 4,
			"message":       "Positions shifted successfully",
		})
	})

	result, err := c.ShiftPositions(context.Background(), 1, 2, 5)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, int64(4), result.ModifiedCount)
}

func TestClient_FindConflicts(t *testing.T) {
	tests := []struct {
		name       string
		shelf      int
		division   int
		expectBody bool
	}{
		{name: "full_scan_sends_no_body", shelf: 0, division: 0, expectBody: false},
		{name: "scoped_scan_sends_body", shelf: 1, division: 2, expectBody: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "/api/v1/samples-conflict", r.URL.Path)

				if tt.expectBody {
					var body map[string]int
					require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
					assert.Equal(t, tt.shelf, body["shelf"])
					assert.Equal(t, tt.division, body["division"])
				} else {
					assert.Equal(t, int64(0), r.ContentLength)
				}

				json.NewEncoder(w).Encode(map[string]interface{}{
					"message": "Conflicts found",
					"conflicts": []map[string]interface{}{
						{"shelf": 1, "division": 2, "conflictingPosition": 3, "numberOfConflicts": 2},
					},
				})
			})

			result, err := c.FindConflicts(context.Background(), tt.shelf, tt.division)
			require.NoError(t, err)
			assert.Equal(t, "Conflicts found", result.Message)
			require.Len(t, result.Conflicts, 1)
			assert.Equal(t, 2, result.Conflicts[0].NumberOfConflicts)
		})
	}
}

func TestClient_ResolveConflict(t *testing.T) {
	keepID := uuid.New()

	_, c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/samples/resolve-conflict", r.URL.Path)

		var body struct {
			ResolutionType string `json:"resolutionType"`
			Data           struct {
				KeepSampleID uuid.UUID `json:"keepSampleId"`
				Shelf        int       `json:"shelf"`
				Division     int       `json:"division"`
				Position     int       `json:"position"`
			} `json:"data"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "keepOne", body.ResolutionType)
		assert.Equal(t, keepID, body.Data.KeepSampleID)
		assert.Equal(t, 3, body.Data.Position)

		json.NewEncoder(w).Encode(map[string]interface{}{
			"success":       true,
			"modifiedCount": 2,
			"message":       "Conflict resolved successfully",
		})
	})

	req := client.ResolveConflictRequest{ResolutionType: domain.ResolutionKeepOne}
	req.Data.KeepSampleID = keepID
	req.Data.Shelf = 1
	req.Data.Division = 2
	req.Data.Position = 3

	result, err := c.ResolveConflict(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, int64(2), result.ModifiedCount)
}

func TestClient_ErrorWithoutJSONBody(t *testing.T) {
	_, c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream timeout"))
	})

	_, err := c.Search(context.Background(), "denim")
	require.Error(t, err)

	apiErr, ok := err.(*client.APIError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, "Bad Gateway", apiErr.Message)
}
