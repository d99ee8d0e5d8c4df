package repository

import (
	"fmt"

	"order-fulfilment/internal/model"

	"github.com/jackc/pgx/v5"
)

const productColumns = `id, name, type, available, lead_time, season_start_date, season_end_date, expiry_date`

// scanProduct reads the productColumns of a row, optionally preceded by extra destinations.
func scanProduct(row pgx.Row, p *model.Product, prefix ...any) error {
	var productType string

	dest := append(prefix,
		&p.ID,
		&p.Name,
		&productType,
		&p.Available,
		&p.LeadTime,
		&p.SeasonStartDate,
		&p.SeasonEndDate,
		&p.ExpiryDate,
	)
	if err := row.Scan(dest...); err != nil {
		return fmt.Errorf("failed to scan product: %w", err)
	}

	p.Type = model.ProductType(productType)
	return nil
}
