package seed

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"order-fulfilment/internal/model"
)

// SampleFixtures returns one order per product policy outcome, with dates relative to now.
func SampleFixtures(now time.Time) []OrderFixture {
	day := 24 * time.Hour
	at := func(d time.Duration) *time.Time {
		t := now.Add(d).UTC().Truncate(time.Second)
		return &t
	}

	return []OrderFixture{
		{Products: []model.Product{
			{Name: "USB Cable", Type: model.ProductTypeNormal, Available: 30, LeadTime: 15},
			{Name: "USB Dongle", Type: model.ProductTypeNormal, Available: 0, LeadTime: 10},
		}},
		{Products: []model.Product{
			{Name: "Watermelon", Type: model.ProductTypeSeasonal, Available: 0, LeadTime: 15,
				SeasonStartDate: at(-2 * day), SeasonEndDate: at(58 * day)},
			{Name: "Grapes", Type: model.ProductTypeSeasonal, Available: 30, LeadTime: 15,
				SeasonStartDate: at(180 * day), SeasonEndDate: at(240 * day)},
		}},
		{Products: []model.Product{
			{Name: "Butter", Type: model.ProductTypeExpirable, Available: 30, LeadTime: 15, ExpiryDate: at(26 * day)},
			{Name: "Milk", Type: model.ProductTypeExpirable, Available: 30, LeadTime: 15, ExpiryDate: at(-2 * day)},
		}},
	}
}

// WriteFixtures writes fixtures to w as gzipped JSON lines.
func WriteFixtures(w io.Writer, fixtures []OrderFixture) error {
	gzipWriter := gzip.NewWriter(w)
	encoder := json.NewEncoder(gzipWriter)
	for i, f := range fixtures {
		if err := encoder.Encode(f); err != nil {
			return fmt.Errorf("failed to encode fixture %d: %w", i+1, err)
		}
	}
	if err := gzipWriter.Close(); err != nil {
		return fmt.Errorf("failed to flush fixtures: %w", err)
	}
	return nil
}
