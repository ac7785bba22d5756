// test/helpers/helpers.go
package helpers

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/basefinder/basefinder-be/internal/adapters/db"
	"github.com/basefinder/basefinder-be/internal/core/domain"
	"github.com/basefinder/basefinder-be/internal/pkg/config"
)

// TestDB represents a test database instance
type TestDB struct {
	PgxPool  *pgxpool.Pool
	Database *db.Database
	Resource *dockertest.Resource
	Pool     *dockertest.Pool
	Config   *db.Config
}

// TestRedis represents a test Redis instance
type TestRedis struct {
	Client *redis.Client
	Server *miniredis.Miniredis
}

// TestLogger returns a test logger
func TestLogger() *slog.Logger {
	if testing.Verbose() {
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}

// SetupTestDB creates a PostgreSQL container for integration tests
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	pool, err := dockertest.NewPool("")
	require.NoError(t, err, "Could not connect to Docker")

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env: []string{
			"POSTGRES_USER=test",
			"POSTGRES_PASSWORD=test",
			"POSTGRES_DB=test_samples",
			"listen_addresses = '*'",
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	require.NoError(t, err, "Could not start PostgreSQL container")

	t.Cleanup(func() {
		if err := pool.Purge(resource); err != nil {
			t.Logf("Could not purge resource: %s", err)
		}
	})

	dbConfig := &db.Config{
		Host:               "localhost",
		Port:               resource.GetPort("5432/tcp"),
		User:               "test",
		Password:           "test",
		Database:           "test_samples",
		SSLMode:            "disable",
		MaxConnections:     5,
		MinConnections:     1,
		MaxConnLifetime:    time.Hour,
		MaxConnIdleTime:    time.Minute * 30,
		HealthCheckPeriod:  time.Minute,
		ConnectTimeout:     time.Second * 10,
		StatementCacheMode: "describe",
		EnableQueryLogging: testing.Verbose(),
	}

	// Wait for database to be ready
	var database *db.Database
	err = pool.Retry(func() error {
		ctx := context.Background()
		var err error
		database, err = db.NewDatabase(ctx, dbConfig, TestLogger())
		if err != nil {
			return err
		}
		return database.Ping(ctx)
	})
	require.NoError(t, err, "Could not connect to PostgreSQL")

	// Resolve the migrations dir from this file so callers at any package
	// depth get the same path.
	_, thisFile, _, _ := runtime.Caller(0)
	migrationsPath := filepath.Join(filepath.Dir(thisFile), "..", "..", "migrations")

	ctx := context.Background()
	migrationConfig := &db.MigrationConfig{
		DatabaseURL: fmt.Sprintf("postgresql://%s:%s@%s:%s/%s?sslmode=%s",
			dbConfig.User, dbConfig.Password, dbConfig.Host, dbConfig.Port,
			dbConfig.Database, dbConfig.SSLMode),
		SourcePath: migrationsPath,
		TableName:  "schema_migrations",
		SchemaName: "public",
	}

	err = db.RunMigrationsWithRetry(ctx, migrationConfig, TestLogger(), 3)
	require.NoError(t, err, "Could not run migrations")

	return &TestDB{
		PgxPool:  database.Pool(),
		Database: database,
		Resource: resource,
		Pool:     pool,
		Config:   dbConfig,
	}
}

// SetupTestRedis creates a mock Redis instance for testing
func SetupTestRedis(t *testing.T) *TestRedis {
	t.Helper()

	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})

	return &TestRedis{
		Client: client,
		Server: mr,
	}
}

// SetupMockDB creates a mock database for unit testing
func SetupMockDB(t *testing.T) (sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err, "Failed to create mock DB")

	t.Cleanup(func() {
		db.Close()
	})

	return mock, db
}

// LoadTestConfig returns a test configuration
func LoadTestConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{
			Name:        "test-api",
			Environment: "test",
			Version:     "test",
			LogLevel:    "debug",
			LogFormat:   "text",
			Debug:       true,
		},
		Database: config.DatabaseConfig{
			Host:               "localhost",
			Port:               "5432",
			User:               "test",
			Password:           "test",
			Name:               "test_samples",
			SSLMode:            "disable",
			MaxConnections:     10,
			MinConnections:     2,
			EnableQueryLogging: true,
		},
		Redis: config.RedisConfig{
			Host:     "localhost",
			Port:     "6379",
			DB:       0,
			TTL:      time.Hour,
			PoolSize: 10,
		},
		FileProcessing: config.FileProcessingConfig{
			ExcelMaxSizeMB:    100,
			ProcessingTimeout: 5 * time.Minute,
			TempDir:           "/tmp",
		},
		Retention: config.RetentionConfig{
			DeletedSampleTTL: 90 * 24 * time.Hour,
			SweepInterval:    24 * time.Hour,
		},
		Security: config.SecurityConfig{
			APIToken:          "test-token",
			JWTSecret:         "test-secret",
			JWTExpiration:     24 * time.Hour,
			RateLimitRequests: 100,
			RateLimitDuration: time.Minute,
			AllowedOrigins:    []string{"*"},
			SecureHeaders:     false,
		},
		Server: config.ServerConfig{
			Host:         "localhost",
			Port:         "8080",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
		},
	}
}

// CreateTestSample creates a test sample
func CreateTestSample(overrides ...func(*domain.Sample)) *domain.Sample {
	sample := &domain.Sample{
		ID:           uuid.New(),
		Style:        "ST-4521",
		Item:         "Denim Jacket",
		Buyer:        "H&M",
		NoOfSamples:  1,
		Comments:     "Wash test approved",
		Shelf:        1,
		Division:     2,
		Position:     3,
		Availability: domain.AvailabilityAvailable,
		Status:       "approved",
		AddedBy:      "admin",
		AddedAt:      time.Now().AddDate(0, -1, 0),
		UpdatedAt:    time.Now(),
	}

	for _, override := range overrides {
		override(sample)
	}

	return sample
}

// CreateTestSamples creates multiple test samples laid out sequentially on
// one shelf, five positions per division.
func CreateTestSamples(count int) []domain.Sample {
	buyers := []string{"H&M", "Zara", "Target", "Uniqlo", "Mango"}
	items := []string{"Denim Jacket", "Chino Pants", "Polo Shirt", "Hoodie", "Cargo Shorts"}

	samples := make([]domain.Sample, count)
	for i := 0; i < count; i++ {
		samples[i] = *CreateTestSample(func(s *domain.Sample) {
			s.Style = fmt.Sprintf("ST-%04d", i+1)
			s.Item = items[i%len(items)]
			s.Buyer = buyers[i%len(buyers)]
			s.Division = (i / 5) + 1
			s.Position = (i % 5) + 1
			s.AddedAt = time.Now().Add(time.Duration(-count+i) * time.Minute)
		})
	}
	return samples
}

// CompareSamples compares the externally-visible fields of two samples
func CompareSamples(t *testing.T, expected, actual *domain.Sample) {
	t.Helper()

	require.Equal(t, expected.Style, actual.Style)
	require.Equal(t, expected.Item, actual.Item)
	require.Equal(t, expected.Buyer, actual.Buyer)
	require.Equal(t, expected.NoOfSamples, actual.NoOfSamples)
	require.Equal(t, expected.Shelf, actual.Shelf)
	require.Equal(t, expected.Division, actual.Division)
	require.Equal(t, expected.Position, actual.Position)
	require.Equal(t, expected.Availability, actual.Availability)
}

// LoadFixture loads a test fixture file
func LoadFixture(t *testing.T, filename string) []byte {
	t.Helper()

	path := fmt.Sprintf("../../test/fixtures/%s", filename)
	data, err := os.ReadFile(path)
	require.NoError(t, err, "Failed to load fixture: %s", filename)

	return data
}

// AssertEventuallyWithTimeout asserts that a condition is met within a timeout
func AssertEventuallyWithTimeout(t *testing.T, condition func() bool, timeout time.Duration, msg string) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(100 * time.Millisecond)
	}

	t.Errorf("Condition not met within %v: %s", timeout, msg)
}

// TruncateAllTables truncates all tables in the test database
func TruncateAllTables(t *testing.T, db *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()
	_, err := db.Exec(ctx, "TRUNCATE TABLE samples CASCADE")
	require.NoError(t, err, "Failed to truncate samples table")
}

// SeedTestData seeds the database with test samples
func SeedTestData(t *testing.T, db *pgxpool.Pool, samples []domain.Sample) {
	t.Helper()

	ctx := context.Background()

	for _, s := range samples {
		takenLogs, err := json.Marshal(s.TakenLogs)
		require.NoError(t, err)
		returnedLogs, err := json.Marshal(s.ReturnedLogs)
		require.NoError(t, err)
		if s.TakenLogs == nil {
			takenLogs = []byte("[]")
		}
		if s.ReturnedLogs == nil {
			returnedLogs = []byte("[]")
		}

		query := `
			INSERT INTO samples (
				id, style, item, buyer, no_of_samples, comments, sample_date,
				shelf, division, position, availability, status,
				added_by, added_at, taken_logs, returned_logs, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		`

		_, err = db.Exec(ctx, query,
			s.ID, s.Style, s.Item, s.Buyer, s.NoOfSamples, s.Comments, s.SampleDate,
			s.Shelf, s.Division, s.Position, s.Availability, s.Status,
			s.AddedBy, s.AddedAt, takenLogs, returnedLogs, s.UpdatedAt,
		)
		require.NoError(t, err, "Failed to seed test data")
	}
}

// CreateTempFile creates a temporary file for testing
func CreateTempFile(t *testing.T, content []byte, extension string) string {
	t.Helper()

	file, err := os.CreateTemp("", fmt.Sprintf("test-*%s", extension))
	require.NoError(t, err, "Failed to create temp file")

	_, err = file.Write(content)
	require.NoError(t, err, "Failed to write to temp file")

	file.Close()

	t.Cleanup(func() {
		os.Remove(file.Name())
	})

	return file.Name()
}
