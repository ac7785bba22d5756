// test/benchmarks/helpers.go
package benchmarks

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/basefinder/basefinder-be/internal/core/domain"
)

// legacyRow mirrors a record from the old document store, where shelf,
// division and position were stored as strings or numbers interchangeably.
type legacyRow struct {
	Style    string           `json:"style"`
	Item     string           `json:"item"`
	Buyer    string           `json:"buyer"`
	Shelf    domain.SlotValue `json:"shelf"`
	Division domain.SlotValue `json:"division"`
	Position domain.SlotValue `json:"position"`
}

// convertLegacyRow coerces one legacy record into a validated sample.
func convertLegacyRow(row legacyRow) (*domain.Sample, error) {
	sample := &domain.Sample{
		Style:    row.Style,
		Item:     row.Item,
		Buyer:    row.Buyer,
		Shelf:    int(row.Shelf),
		Division: int(row.Division),
		Position: int(row.Position),
	}
	if err := sample.Validate(); err != nil {
		return nil, err
	}
	sample.PrepareForStorage()
	return sample, nil
}

// createLegacyDump builds a JSON dump of numRows legacy records with slot
// values alternating between numeric and quoted-string encodings.
func createLegacyDump(numRows int) []byte {
	items := []string{"Denim Jacket", "Chino Pants", "Polo Shirt", "Hoodie", "Cargo Shorts"}
	buyers := []string{"H&M", "Zara", "Target", "Uniqlo", "Mango"}

	var b strings.Builder
	b.WriteString("[")
	for i := 0; i < numRows; i++ {
		if i > 0 {
			b.WriteString(",")
		}
		shelf := (i / 25) + 1
		division := (i / 5 % 5) + 1
		position := (i % 5) + 1
		if i%2 == 0 {
			b.WriteString(fmt.Sprintf(
				`{"style":"ST-%04d","item":%q,"buyer":%q,"shelf":%d,"division":%d,"position":%d}`,
				i+1, items[i%len(items)], buyers[i%len(buyers)], shelf, division, position))
		} else {
			b.WriteString(fmt.Sprintf(
				`{"style":"ST-%04d","item":%q,"buyer":%q,"shelf":"%d","division":"%d","position":"%d"}`,
				i+1, items[i%len(items)], buyers[i%len(buyers)], shelf, division, position))
		}
	}
	b.WriteString("]")
	return []byte(b.String())
}

// parseLegacyDump converts a whole dump, dropping rows that fail validation.
func parseLegacyDump(data []byte) ([]domain.Sample, error) {
	var rows []legacyRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, err
	}

	samples := make([]domain.Sample, 0, len(rows))
	for _, row := range rows {
		sample, err := convertLegacyRow(row)
		if err != nil {
			continue
		}
		samples = append(samples, *sample)
	}
	return samples, nil
}
