//go:build e2e
// +build e2e

package e2e_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/basefinder/basefinder-be/internal/adapters/db"
	redis_a "github.com/basefinder/basefinder-be/internal/adapters/redis_adapter"
	"github.com/basefinder/basefinder-be/internal/client"
	"github.com/basefinder/basefinder-be/internal/core/domain"
	"github.com/basefinder/basefinder-be/internal/core/services"
	"github.com/basefinder/basefinder-be/internal/handlers"
	"github.com/basefinder/basefinder-be/internal/handlers/middleware"
	"github.com/basefinder/basefinder-be/test/helpers"
)

const e2eToken = "e2e-test-token"

type SamplesE2ESuite struct {
	suite.Suite
	server    *httptest.Server
	api       *client.Client
	testDB    *helpers.TestDB
	testRedis *helpers.TestRedis
}

func (s *SamplesE2ESuite) SetupSuite() {
	s.testDB = helpers.SetupTestDB(s.T())
	s.testRedis = helpers.SetupTestRedis(s.T())

	s.server = s.startTestServer()
	s.api = client.New(s.server.URL, e2eToken,
		client.WithUser("e2e-operator"),
		client.WithHTTPClient(&http.Client{Timeout: 10 * time.Second}))
}

func (s *SamplesE2ESuite) TearDownSuite() {
	s.server.Close()
}

func (s *SamplesE2ESuite) SetupTest() {
	helpers.TruncateAllTables(s.T(), s.testDB.PgxPool)
}

// startTestServer wires the real handler stack against the containerized
// database, mirroring the production server setup.
func (s *SamplesE2ESuite) startTestServer() *httptest.Server {
	slogger := helpers.TestLogger()
	cfg := helpers.LoadTestConfig()

	repo := db.NewSampleRepository(s.testDB.Database, slogger)
	service := services.NewSampleService(repo, s.testDB.PgxPool, slogger)

	cache := redis_a.NewCache(s.testRedis.Client, time.Minute, slogger)
	cacheManager := redis_a.NewCacheManager(cache, slogger)
	sampleHandler := handlers.NewSampleHandler(service, cacheManager, slogger)
	healthHandler := handlers.NewHealthHandler(s.testDB.Database, s.testRedis.Client, nil, cfg, slogger)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", healthHandler.Health)
	mux.HandleFunc("GET /ready", healthHandler.Readiness)

	const apiV1 = "/api/v1"
	mux.HandleFunc("GET "+apiV1+"/samples", sampleHandler.ListSamples)
	mux.HandleFunc("POST "+apiV1+"/samples", sampleHandler.CreateSample)
	mux.HandleFunc("GET "+apiV1+"/samples/{id}", sampleHandler.GetSample)
	mux.HandleFunc("PUT "+apiV1+"/samples/{id}", sampleHandler.UpdateSample)
	mux.HandleFunc("DELETE "+apiV1+"/samples/{id}", sampleHandler.DeleteSample)
	mux.HandleFunc("GET "+apiV1+"/samples/search/{term}", sampleHandler.SearchSamples)
	mux.HandleFunc("GET "+apiV1+"/samples-by-location", sampleHandler.SamplesByLocation)
	mux.HandleFunc("PUT "+apiV1+"/samples/{id}/take", sampleHandler.TakeSample)
	mux.HandleFunc("PUT "+apiV1+"/samples/putback/{id}", sampleHandler.PutBackSample)
	mux.HandleFunc("GET "+apiV1+"/samples/deleted-samples", sampleHandler.ListDeletedSamples)
	mux.HandleFunc("PUT "+apiV1+"/samples/deleted-samples/restore/{id}", sampleHandler.RestoreSample)
	mux.HandleFunc("DELETE "+apiV1+"/samples/permanent-delete/{id}", sampleHandler.PermanentDeleteSample)
	mux.HandleFunc("GET "+apiV1+"/samples/check-position-availability", sampleHandler.CheckPositionAvailability)
	mux.HandleFunc("PATCH "+apiV1+"/samples/increase-positions-by-shelf-division", sampleHandler.ShiftPositions)
	mux.HandleFunc("PATCH "+apiV1+"/samples/increase-positions-by-amount", sampleHandler.ShiftPositionsByAmount)
	mux.HandleFunc("PATCH "+apiV1+"/samples/decrease-positions-by-shelf-division", sampleHandler.ReducePositions)
	mux.HandleFunc("PATCH "+apiV1+"/samples/normalize-positions-in-division", sampleHandler.NormalizePositions)
	mux.HandleFunc("POST "+apiV1+"/samples-conflict", sampleHandler.FindConflicts)
	mux.HandleFunc("POST "+apiV1+"/samples/resolve-conflict", sampleHandler.ResolveConflict)

	handler := middleware.RequestID(middleware.Auth(e2eToken)(mux))
	return httptest.NewServer(handler)
}

func (s *SamplesE2ESuite) TestCompleteSampleLifecycle() {
	ctx := context.Background()

	// 1. Register a new sample
	created, err := s.api.Create(ctx, client.SampleInput{
		Style:    "E2E-4501",
		Item:     "Denim Jacket",
		Buyer:    "H&M",
		Comments: "Wash test pending",
		Shelf:    1,
		Division: 2,
		Position: 3,
	})
	s.Require().NoError(err)
	s.Require().NotEqual(uuid.Nil, created.ID)
	s.Equal("e2e-operator", created.AddedBy)

	// 2. Retrieve it
	fetched, err := s.api.Get(ctx, created.ID)
	s.Require().NoError(err)
	s.Equal("Denim Jacket", fetched.Item)
	s.Equal(domain.AvailabilityAvailable, fetched.Availability)

	// 3. Update it
	err = s.api.Update(ctx, created.ID, client.SampleInput{
		Style:    "E2E-4501",
		Item:     "Denim Jacket",
		Buyer:    "H&M",
		Comments: "Wash test approved",
		Shelf:    1,
		Division: 2,
		Position: 3,
		Status:   "approved",
	})
	s.Require().NoError(err)

	// 4. Take it out of the warehouse
	err = s.api.Take(ctx, created.ID, "e2e-operator", "buyer meeting")
	s.Require().NoError(err)

	fetched, err = s.api.Get(ctx, created.ID)
	s.Require().NoError(err)
	s.Equal(domain.AvailabilityTaken, fetched.Availability)
	s.Require().Len(fetched.TakenLogs, 1)
	s.Equal("buyer meeting", fetched.TakenLogs[0].Purpose)

	// 5. Put it back at a different position
	err = s.api.PutBack(ctx, created.ID, 5, "e2e-operator", "meeting done")
	s.Require().NoError(err)

	fetched, err = s.api.Get(ctx, created.ID)
	s.Require().NoError(err)
	s.Equal(domain.AvailabilityAvailable, fetched.Availability)
	s.Equal(5, fetched.Position)
	s.Require().Len(fetched.ReturnedLogs, 1)

	// 6. Soft delete
	err = s.api.Delete(ctx, created.ID, false)
	s.Require().NoError(err)

	_, err = s.api.Get(ctx, created.ID)
	s.Require().Error(err)
	s.True(client.IsNotFound(err))

	deleted, err := s.api.ListDeleted(ctx)
	s.Require().NoError(err)
	s.Require().Len(deleted, 1)
	s.Equal(created.ID, deleted[0].ID)
	s.Equal("e2e-operator", deleted[0].DeletedBy)

	// 7. Restore to position 1
	err = s.api.Restore(ctx, created.ID, 1, "e2e-operator")
	s.Require().NoError(err)

	fetched, err = s.api.Get(ctx, created.ID)
	s.Require().NoError(err)
	s.Equal(1, fetched.Position)
	s.Nil(fetched.DeletedAt)

	// 8. Permanent delete
	err = s.api.PermanentDelete(ctx, created.ID)
	s.Require().NoError(err)

	_, err = s.api.Get(ctx, created.ID)
	s.True(client.IsNotFound(err))
}

func (s *SamplesE2ESuite) TestSearchAndFilters() {
	ctx := context.Background()

	inputs := []client.SampleInput{
		{Style: "ST-1001", Item: "Denim Jacket", Buyer: "H&M", Shelf: 1, Division: 1, Position: 1},
		{Style: "ST-1002", Item: "Denim Shorts", Buyer: "Zara", Shelf: 1, Division: 1, Position: 2},
		{Style: "ST-1003", Item: "Polo Shirt", Buyer: "Zara", Shelf: 2, Division: 1, Position: 1},
	}
	for _, in := range inputs {
		_, err := s.api.Create(ctx, in)
		s.Require().NoError(err)
	}

	results, err := s.api.Search(ctx, "denim")
	s.Require().NoError(err)
	s.Len(results, 2)

	list, err := s.api.List(ctx, client.ListOptions{Buyer: "Zara"})
	s.Require().NoError(err)
	s.Equal(int64(2), list.TotalCount)

	byLocation, err := s.api.SamplesByLocation(ctx, 1, 1)
	s.Require().NoError(err)
	s.Require().Len(byLocation, 2)
	s.Equal(1, byLocation[0].Position)
	s.Equal(2, byLocation[1].Position)
}

func (s *SamplesE2ESuite) TestPositionOperations() {
	ctx := context.Background()

	for pos := 1; pos <= 3; pos++ {
		_, err := s.api.Create(ctx, client.SampleInput{
			Style: "POS-" + uuid.NewString()[:8], Item: "Hoodie",
			Shelf: 3, Division: 1, Position: pos,
		})
		s.Require().NoError(err)
	}

	avail, err := s.api.CheckPositionAvailability(ctx, 3, 1, 2)
	s.Require().NoError(err)
	s.False(avail.IsPositionEmpty)

	avail, err = s.api.CheckPositionAvailability(ctx, 3, 1, 9)
	s.Require().NoError(err)
	s.True(avail.IsPositionEmpty)

	// Open a gap at position 2
	shifted, err := s.api.ShiftPositions(ctx, 3, 1, 2)
	s.Require().NoError(err)
	s.Equal(int64(2), shifted.ModifiedCount)

	avail, err = s.api.CheckPositionAvailability(ctx, 3, 1, 2)
	s.Require().NoError(err)
	s.True(avail.IsPositionEmpty)

	// Renumber back to 1..3
	normalized, err := s.api.NormalizePositions(ctx, 3, 1)
	s.Require().NoError(err)
	s.True(normalized.Success)

	byLocation, err := s.api.SamplesByLocation(ctx, 3, 1)
	s.Require().NoError(err)
	s.Require().Len(byLocation, 3)
	for i, sample := range byLocation {
		s.Equal(i+1, sample.Position)
	}
}

func (s *SamplesE2ESuite) TestConflictDetectionAndResolution() {
	ctx := context.Background()

	// Two samples seeded into the same slot
	first := helpers.CreateTestSample(func(sm *domain.Sample) {
		sm.Shelf, sm.Division, sm.Position = 5, 1, 1
	})
	second := helpers.CreateTestSample(func(sm *domain.Sample) {
		sm.Shelf, sm.Division, sm.Position = 5, 1, 1
	})
	helpers.SeedTestData(s.T(), s.testDB.PgxPool, []domain.Sample{*first, *second})

	conflicts, err := s.api.FindConflicts(ctx, 5, 1)
	s.Require().NoError(err)
	s.Require().Len(conflicts.Conflicts, 1)
	s.Equal(2, conflicts.Conflicts[0].NumberOfConflicts)

	req := client.ResolveConflictRequest{ResolutionType: domain.ResolutionKeepOne}
	req.Data.KeepSampleID = first.ID
	req.Data.Shelf, req.Data.Division, req.Data.Position = 5, 1, 1

	result, err := s.api.ResolveConflict(ctx, req)
	s.Require().NoError(err)
	s.True(result.Success)

	conflicts, err = s.api.FindConflicts(ctx, 5, 1)
	s.Require().NoError(err)
	s.Empty(conflicts.Conflicts)

	// The kept sample survives, the other is soft-deleted
	_, err = s.api.Get(ctx, first.ID)
	s.Require().NoError(err)
	_, err = s.api.Get(ctx, second.ID)
	s.True(client.IsNotFound(err))
}

func (s *SamplesE2ESuite) TestConcurrentCreates() {
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, 10)

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			_, err := s.api.Create(ctx, client.SampleInput{
				Style:    "CONC-" + uuid.NewString()[:8],
				Item:     "Cargo Shorts",
				Shelf:    7,
				Division: (idx / 5) + 1,
				Position: (idx % 5) + 1,
			})
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		s.NoError(err)
	}

	list, err := s.api.List(ctx, client.ListOptions{Shelf: 7})
	s.Require().NoError(err)
	s.Equal(int64(10), list.TotalCount)
}

func (s *SamplesE2ESuite) TestAuthRequired() {
	unauthed := client.New(s.server.URL, "wrong-token")
	_, err := unauthed.List(context.Background(), client.ListOptions{})
	s.Require().Error(err)

	apiErr, ok := err.(*client.APIError)
	s.Require().True(ok)
	s.Equal(http.StatusUnauthorized, apiErr.StatusCode)
}

func (s *SamplesE2ESuite) TestHealthCheck() {
	s.NoError(s.api.Health(context.Background()))
}

func TestSamplesE2ESuite(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping E2E tests in short mode")
	}
	suite.Run(t, new(SamplesE2ESuite))
}
