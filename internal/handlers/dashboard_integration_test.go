//go:build integration

package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/basefinder/basefinder-be/internal/adapters/db"
	redis_a "github.com/basefinder/basefinder-be/internal/adapters/redis_adapter"
	"github.com/basefinder/basefinder-be/internal/core/domain"
	"github.com/basefinder/basefinder-be/internal/core/services"
	"github.com/basefinder/basefinder-be/internal/handlers"
	"github.com/basefinder/basefinder-be/test/helpers"
)

// Taken samples are stored with availability "no", so the counters must key
// off the domain constants rather than a literal.
func TestDashboard_TakenCounters(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	testDB := helpers.SetupTestDB(t)
	testRedis := helpers.SetupTestRedis(t)
	cache := redis_a.NewCache(testRedis.Client, time.Minute, helpers.TestLogger())

	repo := db.NewSampleRepository(testDB.Database, helpers.TestLogger())
	service := services.NewSampleService(repo, testDB.Database.Pool(), helpers.TestLogger())

	ctx := context.Background()
	available := helpers.CreateTestSample(func(s *domain.Sample) {
		s.Shelf, s.Division, s.Position = 4, 1, 1
	})
	taken := helpers.CreateTestSample(func(s *domain.Sample) {
		s.Shelf, s.Division, s.Position = 4, 1, 2
	})
	require.NoError(t, service.AddSample(ctx, available))
	require.NoError(t, service.AddSample(ctx, taken))
	require.NoError(t, service.Take(ctx, taken.ID, "qa", "fitting session"))

	handler := handlers.NewDashboardHandler(testDB.Database, cache, helpers.TestLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard", nil)
	rec := httptest.NewRecorder()
	handler.GetDashboard(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var dashboard handlers.DashboardData
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&dashboard))

	assert.Equal(t, int64(2), dashboard.Summary.TotalSamples)
	assert.Equal(t, int64(1), dashboard.Summary.Available)
	assert.Equal(t, int64(1), dashboard.Summary.Taken)

	require.Len(t, dashboard.Occupancy, 1)
	assert.Equal(t, int64(2), dashboard.Occupancy[0].SampleCount)
	assert.Equal(t, int64(1), dashboard.Occupancy[0].TakenCount)
}
