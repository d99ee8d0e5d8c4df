// Package seed loads order fixtures and inserts them into the database.
//
// A fixture file is gzip-compressed JSON lines. Each line describes one order
// as the list of products its line items reference:
//
//	{"products":[{"name":"USB Cable","type":"NORMAL","available":30,"leadTime":15}]}
package seed

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"order-fulfilment/internal/model"
)

// ErrInvalidFixture is returned for fixture lines that cannot be imported.
var ErrInvalidFixture = errors.New("invalid fixture")

// OrderFixture describes one order and the products of its line items.
type OrderFixture struct {
	Products []model.Product `json:"products"`
}

// Validate checks that every product of the fixture can be stored.
func (f OrderFixture) Validate() error {
	for i, p := range f.Products {
		if strings.TrimSpace(p.Name) == "" {
			return fmt.Errorf("%w: product %d has no name", ErrInvalidFixture, i+1)
		}
		if !p.Type.Valid() {
			return fmt.Errorf("%w: product %q has unknown type %q", ErrInvalidFixture, p.Name, p.Type)
		}
		if p.Available < 0 {
			return fmt.Errorf("%w: product %q has negative stock", ErrInvalidFixture, p.Name)
		}
	}
	return nil
}

// Loader defines the interface for loading fixture files.
type Loader interface {
	// Load reads a gzipped fixture file and returns its orders in file order.
	Load(ctx context.Context, path string) ([]OrderFixture, error)
}

// decodeFixtures reads JSON-lines fixtures from r. Blank lines are skipped.
func decodeFixtures(ctx context.Context, r io.Reader) ([]OrderFixture, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	var fixtures []OrderFixture
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if lineNo%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var f OrderFixture
		if err := json.Unmarshal([]byte(line), &f); err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrInvalidFixture, lineNo, err)
		}
		if err := f.Validate(); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		fixtures = append(fixtures, f)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read fixtures: %w", err)
	}

	return fixtures, nil
}
