//go:build integration
// +build integration

package db_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/basefinder/basefinder-be/internal/adapters/db"
	"github.com/basefinder/basefinder-be/internal/core/domain"
	"github.com/basefinder/basefinder-be/internal/core/ports"
	"github.com/basefinder/basefinder-be/test/helpers"
)

type SampleRepositorySuite struct {
	suite.Suite
	testDB *helpers.TestDB
	repo   ports.SampleRepository
	ctx    context.Context
}

func (s *SampleRepositorySuite) SetupSuite() {
	s.testDB = helpers.SetupTestDB(s.T())
	s.repo = db.NewSampleRepository(s.testDB.Database, helpers.TestLogger())
	s.ctx = context.Background()
}

func (s *SampleRepositorySuite) SetupTest() {
	helpers.TruncateAllTables(s.T(), s.testDB.PgxPool)
}

func (s *SampleRepositorySuite) TestSaveAndFindByID() {
	sample := helpers.CreateTestSample()
	sample.PrepareForStorage()

	s.NoError(s.repo.Save(s.ctx, sample))

	saved, err := s.repo.FindByID(s.ctx, sample.ID)
	s.NoError(err)
	s.Require().NotNil(saved)
	helpers.CompareSamples(s.T(), sample, saved)

	missing, err := s.repo.FindByID(s.ctx, uuid.New())
	s.NoError(err)
	s.Nil(missing)
}

func (s *SampleRepositorySuite) TestUpdateDoesNotTouchHistory() {
	sample := helpers.CreateTestSample()
	sample.TakenLogs = []domain.TakenLog{{TakenBy: "rahim", TakenAt: time.Now(), Purpose: "fit"}}
	sample.PrepareForStorage()
	s.NoError(s.repo.Save(s.ctx, sample))

	sample.Style = "ST-9999"
	sample.Position = 7
	s.NoError(s.repo.Update(s.ctx, sample))

	saved, err := s.repo.FindByID(s.ctx, sample.ID)
	s.NoError(err)
	s.Equal("ST-9999", saved.Style)
	s.Equal(7, saved.Position)
	s.Len(saved.TakenLogs, 1)
}

func (s *SampleRepositorySuite) TestTakeAndPutBackRoundTrip() {
	sample := helpers.CreateTestSample()
	sample.PrepareForStorage()
	s.NoError(s.repo.Save(s.ctx, sample))

	taken := domain.TakenLog{TakenBy: "rahim", TakenAt: time.Now(), Purpose: "fitting"}
	s.NoError(s.repo.AppendTakenLog(s.ctx, sample.ID, taken))

	// Taking twice must fail: availability guard
	s.Error(s.repo.AppendTakenLog(s.ctx, sample.ID, taken))

	mid, err := s.repo.FindByID(s.ctx, sample.ID)
	s.NoError(err)
	s.True(mid.IsTaken())
	s.Len(mid.TakenLogs, 1)

	slot := domain.SlotKey{Shelf: sample.Shelf, Division: sample.Division, Position: 9}
	returned := domain.ReturnedLog{ReturnedBy: "karim", ReturnedAt: time.Now(), Position: 9}
	s.NoError(s.repo.AppendReturnedLog(s.ctx, sample.ID, slot, returned))

	final, err := s.repo.FindByID(s.ctx, sample.ID)
	s.NoError(err)
	s.False(final.IsTaken())
	s.Equal(9, final.Position)
	s.Len(final.TakenLogs, 1)
	s.Len(final.ReturnedLogs, 1)
}

func (s *SampleRepositorySuite) TestSoftDeleteAndRestore() {
	sample := helpers.CreateTestSample()
	sample.PrepareForStorage()
	s.NoError(s.repo.Save(s.ctx, sample))

	s.NoError(s.repo.SoftDelete(s.ctx, sample.ID, "admin"))

	gone, err := s.repo.FindByID(s.ctx, sample.ID)
	s.NoError(err)
	s.Nil(gone)

	deleted, err := s.repo.FindDeleted(s.ctx)
	s.NoError(err)
	s.Require().Len(deleted, 1)
	s.Equal("admin", deleted[0].DeletedBy)
	s.NotNil(deleted[0].DeletedAt)

	s.NoError(s.repo.Restore(s.ctx, sample.ID, 4, "admin"))

	back, err := s.repo.FindByID(s.ctx, sample.ID)
	s.NoError(err)
	s.Require().NotNil(back)
	s.Equal(4, back.Position)
	s.False(back.IsDeleted())
}

func (s *SampleRepositorySuite) TestShiftAndReduceAreInverses() {
	samples := helpers.CreateTestSamples(5)
	for i := range samples {
		samples[i].Division = 1
	}
	helpers.SeedTestData(s.T(), s.testDB.PgxPool, samples)

	shifted, err := s.repo.ShiftPositions(s.ctx, 1, 1, 3)
	s.NoError(err)
	s.EqualValues(3, shifted)

	free, err := s.repo.PositionOccupied(s.ctx, domain.SlotKey{Shelf: 1, Division: 1, Position: 3})
	s.NoError(err)
	s.False(free)

	reduced, err := s.repo.ReducePositions(s.ctx, 1, 1, 3)
	s.NoError(err)
	s.EqualValues(3, reduced)

	after, err := s.repo.FindByLocation(s.ctx, 1, 1)
	s.NoError(err)
	s.Require().Len(after, 5)
	for i, sample := range after {
		s.Equal(i+1, sample.Position)
	}
}

func (s *SampleRepositorySuite) TestNormalizeDivision() {
	samples := helpers.CreateTestSamples(4)
	positions := []int{2, 5, 9, 9}
	for i := range samples {
		samples[i].Division = 1
		samples[i].Position = positions[i]
	}
	helpers.SeedTestData(s.T(), s.testDB.PgxPool, samples)

	renumbered, err := s.repo.NormalizeDivision(s.ctx, 1, 1)
	s.NoError(err)
	s.True(renumbered > 0)

	after, err := s.repo.FindByLocation(s.ctx, 1, 1)
	s.NoError(err)
	s.Require().Len(after, 4)
	for i, sample := range after {
		s.Equal(i+1, sample.Position)
	}

	// Running again changes nothing
	again, err := s.repo.NormalizeDivision(s.ctx, 1, 1)
	s.NoError(err)
	s.EqualValues(0, again)
}

func (s *SampleRepositorySuite) TestFindConflictsIgnoresDeleted() {
	a := helpers.CreateTestSample()
	b := helpers.CreateTestSample(func(x *domain.Sample) { x.Style = "ST-0002" })
	c := helpers.CreateTestSample(func(x *domain.Sample) { x.Style = "ST-0003" })
	helpers.SeedTestData(s.T(), s.testDB.PgxPool, []domain.Sample{*a, *b, *c})

	groups, err := s.repo.FindConflicts(s.ctx, 0, 0)
	s.NoError(err)
	s.Require().Len(groups, 1)
	s.Equal(3, groups[0].NumberOfConflicts)
	s.Len(groups[0].ConflictingSamples, 3)

	removed, err := s.repo.SoftDeleteMany(s.ctx, []uuid.UUID{b.ID, c.ID}, "admin")
	s.NoError(err)
	s.EqualValues(2, removed)

	groups, err = s.repo.FindConflicts(s.ctx, 0, 0)
	s.NoError(err)
	s.Empty(groups)
}

func (s *SampleRepositorySuite) TestFindAllFiltersAndPaginates() {
	helpers.SeedTestData(s.T(), s.testDB.PgxPool, helpers.CreateTestSamples(12))

	page, total, err := s.repo.FindAll(s.ctx, ports.SampleQuery{Limit: 5, Offset: 5, SortBy: "slot", SortOrder: "asc"})
	s.NoError(err)
	s.EqualValues(12, total)
	s.Len(page, 5)

	hm, total, err := s.repo.FindAll(s.ctx, ports.SampleQuery{Buyer: "H&M"})
	s.NoError(err)
	s.True(total >= 1)
	for _, sample := range hm {
		s.Equal("H&M", sample.Buyer)
	}
}

func (s *SampleRepositorySuite) TestSearchMatchesStyleSubstring() {
	helpers.SeedTestData(s.T(), s.testDB.PgxPool, helpers.CreateTestSamples(3))

	found, err := s.repo.Search(s.ctx, "ST-0002")
	s.NoError(err)
	s.Require().Len(found, 1)
	s.Equal("ST-0002", found[0].Style)
}

func TestSampleRepositorySuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(SampleRepositorySuite))
}
