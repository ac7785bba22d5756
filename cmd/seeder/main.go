// cmd/seeder/main.go
//
// One-time migration tool: imports legacy sample dumps (JSON exports from
// the old document store) into Postgres. The legacy system stored shelf,
// division and position inconsistently as strings or numbers; every slot
// coordinate is coerced to an integer here so the database only ever sees
// clean values. Duplicate slot occupancy in the dump is reported but not
// rejected; the conflict sweep handles it after import.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/basefinder/basefinder-be/internal/core/domain"
	"github.com/basefinder/basefinder-be/internal/pkg/logger"
)

// legacySample mirrors one document from the old system's export. Slot
// fields unmarshal from either numbers or quoted strings.
type legacySample struct {
	ID           string           `json:"_id"`
	Style        string           `json:"style"`
	Item         string           `json:"item"`
	Category     string           `json:"category"` // older dumps used category instead of item
	Buyer        string           `json:"buyer"`
	NoOfSamples  domain.SlotValue `json:"no_of_sample"`
	Comments     string           `json:"comments"`
	SampleDate   string           `json:"sample_date"`
	Shelf        domain.SlotValue `json:"shelf"`
	Division     domain.SlotValue `json:"division"`
	Position     domain.SlotValue `json:"position"`
	Availability string           `json:"availability"`
	Status       string           `json:"status"`
	AddedBy      string           `json:"added_by"`
	AddedAt      string           `json:"added_at"`
	TakenLogs    json.RawMessage  `json:"taken_logs"`
	ReturnedLogs json.RawMessage  `json:"returned_log"`
	DeletedAt    string           `json:"deletedAt"`
	DeletedBy    string           `json:"deletedBy"`
}

// seederState tracks which dump files have been imported so re-runs only
// pick up new files.
type seederState struct {
	ProcessedDumps []string  `json:"processed_dumps"`
	ImportedCount  int       `json:"imported_count"`
	LastUpdate     time.Time `json:"last_update"`
}

func (s *seederState) processed(name string) bool {
	for _, p := range s.ProcessedDumps {
		if p == name {
			return true
		}
	}
	return false
}

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006",
}

func main() {
	var (
		dumpsDir  = flag.String("dumps", "./dumps", "Directory containing legacy JSON dumps")
		stateFile = flag.String("state", "./.seed_state.json", "State file for tracking progress")
		logLevel  = flag.String("log-level", "info", "Log level (debug, info, warn, error)")
		dryRun    = flag.Bool("dry-run", false, "Preview changes without modifying database")
		force     = flag.Bool("force", false, "Reprocess all dump files")
	)
	flag.Parse()

	slogger := logger.NewSlog(*logLevel, "json")

	dbURL := fmt.Sprintf("postgresql://%s:%s@%s:%s/%s?sslmode=%s",
		getEnv("DB_USER", "basefinder"),
		getEnv("DB_PASSWORD", "basefinder_dev_2025"),
		getEnv("DB_HOST", "localhost"),
		getEnv("DB_PORT", "5432"),
		getEnv("DB_NAME", "basefinder_samples"),
		getEnv("DB_SSL_MODE", "disable"),
	)

	ctx := context.Background()

	var pool *pgxpool.Pool
	var err error
	if !*dryRun {
		pool, err = pgxpool.New(ctx, dbURL)
		if err != nil {
			slogger.Error("Failed to connect to database", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer pool.Close()
	}

	var state seederState
	if !*force {
		if stateData, err := os.ReadFile(*stateFile); err == nil {
			json.Unmarshal(stateData, &state)
		}
	}

	dumpFiles, err := filepath.Glob(filepath.Join(*dumpsDir, "*.json"))
	if err != nil {
		slogger.Error("Failed to find dump files", slog.String("error", err.Error()))
		os.Exit(1)
	}

	totalImported := 0
	totalSkipped := 0
	failedDumps := []string{}
	occupied := map[domain.SlotKey]int{}

	for i, dumpFile := range dumpFiles {
		name := filepath.Base(dumpFile)
		fmt.Printf("PROGRESS: Processing %d/%d: %s\n", i+1, len(dumpFiles), name)

		if !*force && state.processed(name) {
			slogger.Info("Skipping already imported dump", slog.String("dump", name))
			continue
		}

		samples, skipped, err := loadDump(dumpFile, slogger)
		if err != nil {
			slogger.Error("Failed to load dump",
				slog.String("dump", name),
				slog.String("error", err.Error()))
			failedDumps = append(failedDumps, name)
			continue
		}
		totalSkipped += skipped

		for _, s := range samples {
			if !s.IsDeleted() {
				occupied[s.Slot()]++
			}
		}

		if !*dryRun {
			if err := insertSamples(ctx, pool, samples); err != nil {
				slogger.Error("Failed to insert samples",
					slog.String("dump", name),
					slog.String("error", err.Error()))
				failedDumps = append(failedDumps, name)
				continue
			}
		}

		fmt.Printf("SUCCESS: Imported %s - %d samples (%d rows skipped)\n", name, len(samples), skipped)
		totalImported += len(samples)

		state.ProcessedDumps = append(state.ProcessedDumps, name)
		state.ImportedCount += len(samples)
		state.LastUpdate = time.Now()

		if !*dryRun {
			stateData, _ := json.MarshalIndent(state, "", "  ")
			os.WriteFile(*stateFile, stateData, 0644)
		}
	}

	// Duplicate occupancy report
	conflictSlots := 0
	for slot, count := range occupied {
		if count > 1 {
			conflictSlots++
			slogger.Warn("duplicate slot occupancy in dump",
				slog.String("slot", slot.String()),
				slog.Int("occupants", count))
		}
	}

	fmt.Println("\n" + strings.Repeat("=", 60))
	fmt.Println("SEEDING SUMMARY")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("Samples imported: %d\n", totalImported)
	fmt.Printf("Rows skipped (invalid): %d\n", totalSkipped)
	fmt.Printf("Slots with duplicate occupancy: %d\n", conflictSlots)
	if len(failedDumps) > 0 {
		fmt.Printf("Failed dumps (%d):\n", len(failedDumps))
		for _, d := range failedDumps {
			fmt.Printf("  - %s\n", d)
		}
	}
	if conflictSlots > 0 {
		fmt.Println("Run a conflict check after import to resolve duplicate slots.")
	}
	if *dryRun {
		fmt.Println("\n[DRY RUN] No changes were made to the database")
	}

	slogger.Info("seed operation completed",
		slog.Int("imported", totalImported),
		slog.Int("skipped", totalSkipped),
		slog.Int("conflict_slots", conflictSlots))
}

// loadDump reads one legacy dump and converts its rows. Rows that cannot
// be coerced into a valid sample are counted and skipped, not fatal.
func loadDump(path string, slogger *slog.Logger) ([]domain.Sample, int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, err
	}

	var rows []legacySample
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, 0, fmt.Errorf("parsing dump: %w", err)
	}

	samples := make([]domain.Sample, 0, len(rows))
	skipped := 0
	for i, row := range rows {
		sample, err := convertRow(row)
		if err != nil {
			skipped++
			slogger.Warn("skipping legacy row",
				slog.Int("row", i),
				slog.String("legacy_id", row.ID),
				slog.String("error", err.Error()))
			continue
		}
		samples = append(samples, *sample)
	}
	return samples, skipped, nil
}

func convertRow(row legacySample) (*domain.Sample, error) {
	item := row.Item
	if item == "" {
		item = row.Category
	}

	availability := domain.AvailabilityAvailable
	if row.Availability == string(domain.AvailabilityTaken) {
		availability = domain.AvailabilityTaken
	}

	sample := &domain.Sample{
		ID:           legacyUUID(row.ID),
		Style:        row.Style,
		Item:         item,
		Buyer:        row.Buyer,
		NoOfSamples:  int(row.NoOfSamples),
		Comments:     row.Comments,
		SampleDate:   parseLegacyDate(row.SampleDate),
		Shelf:        int(row.Shelf),
		Division:     int(row.Division),
		Position:     int(row.Position),
		Availability: availability,
		Status:       row.Status,
		AddedBy:      row.AddedBy,
		DeletedAt:    parseLegacyDate(row.DeletedAt),
		DeletedBy:    row.DeletedBy,
	}

	if addedAt := parseLegacyDate(row.AddedAt); addedAt != nil {
		sample.AddedAt = *addedAt
	}

	if len(row.TakenLogs) > 0 {
		if err := json.Unmarshal(row.TakenLogs, &sample.TakenLogs); err != nil {
			return nil, fmt.Errorf("parsing taken_logs: %w", err)
		}
	}
	if len(row.ReturnedLogs) > 0 {
		if err := json.Unmarshal(row.ReturnedLogs, &sample.ReturnedLogs); err != nil {
			return nil, fmt.Errorf("parsing returned_log: %w", err)
		}
	}

	if err := sample.Validate(); err != nil {
		return nil, err
	}
	sample.PrepareForStorage()
	return sample, nil
}

// legacyUUID maps a legacy document ID onto a stable UUID so re-running
// the seeder never duplicates rows.
func legacyUUID(id string) uuid.UUID {
	if id == "" {
		return uuid.New()
	}
	if parsed, err := uuid.Parse(id); err == nil {
		return parsed
	}
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(id))
}

func parseLegacyDate(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t
		}
	}
	return nil
}

func insertSamples(ctx context.Context, pool *pgxpool.Pool, samples []domain.Sample) error {
	if len(samples) == 0 {
		return nil
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, s := range samples {
		takenLogs, err := json.Marshal(s.TakenLogs)
		if err != nil {
			return fmt.Errorf("marshaling taken logs: %w", err)
		}
		returnedLogs, err := json.Marshal(s.ReturnedLogs)
		if err != nil {
			return fmt.Errorf("marshaling returned logs: %w", err)
		}

		batch.Queue(`
			INSERT INTO samples (
				id, style, item, buyer, no_of_samples, comments, sample_date,
				shelf, division, position, availability, status,
				added_by, added_at, taken_logs, returned_logs,
				deleted_at, deleted_by, updated_at
			) VALUES (
				$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12,
				$13, $14, $15, $16, $17, $18, $19
			) ON CONFLICT (id) DO NOTHING`,
			s.ID, s.Style, s.Item, nullable(s.Buyer), s.NoOfSamples, nullable(s.Comments), s.SampleDate,
			s.Shelf, s.Division, s.Position, s.Availability, nullable(s.Status),
			nullable(s.AddedBy), s.AddedAt, takenLogs, returnedLogs,
			s.DeletedAt, nullable(s.DeletedBy), s.UpdatedAt,
		)
	}

	br := tx.SendBatch(ctx, batch)
	for range samples {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return fmt.Errorf("failed to insert sample: %w", err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to close batch results: %w", err)
	}

	return tx.Commit(ctx)
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
