// Package policy decides whether a single unit of a product can be fulfilled
// and, when it cannot, which notification the customer should receive.
package policy

import (
	"time"

	"order-fulfilment/internal/model"
)

// Notice identifies the notification raised for an unfulfilled line item.
type Notice int

const (
	// NoticeNone means nothing is sent.
	NoticeNone Notice = iota
	NoticeDelay
	NoticeOutOfStock
	NoticeExpiration
)

func (n Notice) String() string {
	switch n {
	case NoticeDelay:
		return "delay"
	case NoticeOutOfStock:
		return "out_of_stock"
	case NoticeExpiration:
		return "expiration"
	default:
		return "none"
	}
}

// Decision is the outcome of evaluating a product.
type Decision struct {
	Fulfil      bool
	Notice      Notice
	LeadTime    int
	ProductName string
}

// Evaluate applies the rule matching the product's type at the reference time now.
// Products of an unknown type, and seasonal or expirable products missing the
// dates their rule depends on, are rejected.
func Evaluate(p *model.Product, now time.Time) (Decision, error) {
	switch p.Type {
	case model.ProductTypeNormal:
		return evaluateNormal(p), nil
	case model.ProductTypeSeasonal:
		if p.SeasonStartDate == nil || p.SeasonEndDate == nil {
			return Decision{}, model.ErrIncompleteProduct
		}
		return evaluateSeasonal(p, now), nil
	case model.ProductTypeExpirable:
		if p.ExpiryDate == nil {
			return Decision{}, model.ErrIncompleteProduct
		}
		return evaluateExpirable(p, now), nil
	default:
		return Decision{}, model.ErrUnknownProductType
	}
}

func evaluateNormal(p *model.Product) Decision {
	if p.IsAvailable() {
		return Decision{Fulfil: true}
	}
	// A lead time of zero or less raises nothing.
	if p.LeadTime > 0 {
		return delay(p)
	}
	return Decision{Notice: NoticeNone}
}

func evaluateSeasonal(p *model.Product, now time.Time) Decision {
	inSeason := p.InSeason(now)
	if inSeason && p.IsAvailable() {
		return Decision{Fulfil: true}
	}
	if inSeason {
		return delay(p)
	}
	return Decision{Notice: NoticeOutOfStock, ProductName: p.Name}
}

func evaluateExpirable(p *model.Product, now time.Time) Decision {
	if p.IsAvailable() && !p.IsExpired(now) {
		return Decision{Fulfil: true}
	}
	return Decision{Notice: NoticeExpiration, ProductName: p.Name}
}

func delay(p *model.Product) Decision {
	return Decision{
		Notice:      NoticeDelay,
		LeadTime:    p.LeadTime,
		ProductName: p.Name,
	}
}
