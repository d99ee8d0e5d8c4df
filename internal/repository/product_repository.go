package repository

import (
	"context"
	"errors"
	"fmt"

	"order-fulfilment/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// productRepository implements the ProductRepository interface using PostgreSQL.
type productRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(pool *pgxpool.Pool, logger zerolog.Logger) ProductRepository {
	return &productRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "product").Logger(),
	}
}

// GetAll retrieves all products with pagination support.
func (r *productRepository) GetAll(ctx context.Context, limit, offset int) ([]model.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		ORDER BY id
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		r.logger.Error().Err(err).
			Int("limit", limit).
			Int("offset", offset).
			Msg("failed to query products")
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := []model.Product{}
	for rows.Next() {
		var p model.Product
		if err := scanProduct(rows, &p); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan product row")
			return nil, err
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating product rows")
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// GetByID retrieves a single product by its ID.
func (r *productRepository) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE id = $1
	`

	var p model.Product
	if err := scanProduct(r.pool.QueryRow(ctx, query, id), &p); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Int64("product_id", id).Msg("product not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Int64("product_id", id).Msg("failed to query product")
		return nil, fmt.Errorf("failed to query product: %w", err)
	}

	return &p, nil
}

// Create inserts a product within the provided transaction and sets its ID.
func (r *productRepository) Create(ctx context.Context, tx pgx.Tx, p *model.Product) error {
	query := `
		INSERT INTO products (name, type, available, lead_time, season_start_date, season_end_date, expiry_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	err := tx.QueryRow(ctx, query,
		p.Name,
		string(p.Type),
		p.Available,
		p.LeadTime,
		p.SeasonStartDate,
		p.SeasonEndDate,
		p.ExpiryDate,
	).Scan(&p.ID)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("product_name", p.Name).
			Msg("failed to create product")
		return fmt.Errorf("failed to create product: %w", err)
	}

	r.logger.Debug().
		Int64("product_id", p.ID).
		Str("product_type", string(p.Type)).
		Msg("product created successfully")

	return nil
}

// Update writes the mutable fields of a product within the provided transaction.
func (r *productRepository) Update(ctx context.Context, tx pgx.Tx, p *model.Product) error {
	query := `
		UPDATE products
		SET name = $2,
			type = $3,
			available = $4,
			lead_time = $5,
			season_start_date = $6,
			season_end_date = $7,
			expiry_date = $8
		WHERE id = $1
	`

	tag, err := tx.Exec(ctx, query,
		p.ID,
		p.Name,
		string(p.Type),
		p.Available,
		p.LeadTime,
		p.SeasonStartDate,
		p.SeasonEndDate,
		p.ExpiryDate,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Int64("product_id", p.ID).
			Msg("failed to update product")
		return fmt.Errorf("failed to update product: %w", err)
	}

	if tag.RowsAffected() == 0 {
		r.logger.Warn().Int64("product_id", p.ID).Msg("product to update not found")
		return model.ErrProductNotFound
	}

	r.logger.Debug().
		Int64("product_id", p.ID).
		Int("available", p.Available).
		Msg("product updated successfully")

	return nil
}
