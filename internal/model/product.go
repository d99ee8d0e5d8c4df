package model

import "time"

// ProductType identifies which availability rule applies to a product.
type ProductType string

const (
	ProductTypeNormal    ProductType = "NORMAL"
	ProductTypeSeasonal  ProductType = "SEASONAL"
	ProductTypeExpirable ProductType = "EXPIRABLE"
)

// Valid reports whether t is one of the known product types.
func (t ProductType) Valid() bool {
	switch t {
	case ProductTypeNormal, ProductTypeSeasonal, ProductTypeExpirable:
		return true
	}
	return false
}

// Product represents a stocked product. Seasonal products carry season dates,
// expirable products carry an expiry date.
type Product struct {
	ID              int64       `json:"id" db:"id"`
	Name            string      `json:"name" db:"name"`
	Type            ProductType `json:"type" db:"type"`
	Available       int         `json:"available" db:"available"`
	LeadTime        int         `json:"leadTime" db:"lead_time"`
	SeasonStartDate *time.Time  `json:"seasonStartDate,omitempty" db:"season_start_date"`
	SeasonEndDate   *time.Time  `json:"seasonEndDate,omitempty" db:"season_end_date"`
	ExpiryDate      *time.Time  `json:"expiryDate,omitempty" db:"expiry_date"`
}

// IsAvailable reports whether at least one unit is in stock.
func (p *Product) IsAvailable() bool {
	return p.Available > 0
}

// InSeason reports whether now falls strictly between the season start and end dates.
func (p *Product) InSeason(now time.Time) bool {
	if p.SeasonStartDate == nil || p.SeasonEndDate == nil {
		return false
	}
	return now.After(*p.SeasonStartDate) && now.Before(*p.SeasonEndDate)
}

// IsExpired reports whether now is strictly after the expiry date.
func (p *Product) IsExpired(now time.Time) bool {
	if p.ExpiryDate == nil {
		return false
	}
	return now.After(*p.ExpiryDate)
}

// Ref returns the reference passed along with expiration notifications.
func (p *Product) Ref() ProductRef {
	return ProductRef{
		ID:         p.ID,
		Name:       p.Name,
		ExpiryDate: p.ExpiryDate,
	}
}

// ProductRef identifies a product in outbound notifications.
type ProductRef struct {
	ID         int64      `json:"id"`
	Name       string     `json:"name"`
	ExpiryDate *time.Time `json:"expiryDate,omitempty"`
}
