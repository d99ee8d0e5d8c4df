package service

import (
	"context"
	"fmt"
	"time"

	"order-fulfilment/internal/model"
	"order-fulfilment/internal/notification"
	"order-fulfilment/internal/policy"
	"order-fulfilment/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("order-fulfilment/service")

// orderService implements OrderService.
type orderService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	notifier    notification.Notifier
	now         func() time.Time
	logger      zerolog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	notifier notification.Notifier,
	logger zerolog.Logger,
) OrderService {
	return &orderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		notifier:    notifier,
		now:         time.Now,
		logger:      logger.With().Str("service", "order").Logger(),
	}
}

// ProcessOrder walks the order's line items in order and, for each one, either
// takes one unit from stock or sends the notification its product policy asks for.
// All stock changes of one call are committed together; any failure rolls them back.
func (s *orderService) ProcessOrder(ctx context.Context, id int64) (resp *model.ProcessOrderResponse, err error) {
	if id <= 0 {
		return nil, model.ErrInvalidOrderID
	}

	ctx, span := tracer.Start(ctx, "OrderService.ProcessOrder",
		trace.WithAttributes(attribute.Int64("order.id", id)))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Int64("order_id", id).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to process order: %w", err)
	}

	// Ensure transaction is rolled back on error
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	order, items, err := s.orderRepo.GetForProcessing(ctx, tx, id)
	if err != nil {
		s.logger.Error().Err(err).Int64("order_id", id).Msg("failed to load order")
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	if order == nil {
		s.logger.Debug().Int64("order_id", id).Msg("order not found")
		return nil, model.ErrOrderNotFound
	}

	now := s.now()
	var fulfilled, notified, skipped int
	for _, item := range items {
		decision, err := s.processLineItem(ctx, tx, item, now)
		if err != nil {
			return nil, err
		}
		switch {
		case decision.Fulfil:
			fulfilled++
		case decision.Notice != policy.NoticeNone:
			notified++
		default:
			skipped++
		}
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Int64("order_id", id).Msg("failed to commit transaction")
		return nil, fmt.Errorf("failed to process order: %w", err)
	}

	span.SetAttributes(
		attribute.Int("order.line_items", len(items)),
		attribute.Int("order.notified", notified),
	)
	s.logger.Info().
		Int64("order_id", order.ID).
		Int("line_items", len(items)).
		Int("fulfilled", fulfilled).
		Int("notified", notified).
		Int("skipped", skipped).
		Msg("order processed")

	return &model.ProcessOrderResponse{OrderID: order.ID}, nil
}

// processLineItem applies the policy to one line item, then either decrements
// stock or sends the notice the decision names.
func (s *orderService) processLineItem(ctx context.Context, tx pgx.Tx, item model.LineItem, now time.Time) (policy.Decision, error) {
	product := item.Product
	if product == nil {
		return policy.Decision{}, fmt.Errorf("line item %d: %w", item.ID, model.ErrProductNotFound)
	}

	decision, err := policy.Evaluate(product, now)
	if err != nil {
		s.logger.Warn().
			Err(err).
			Int64("product_id", product.ID).
			Str("product_type", string(product.Type)).
			Msg("product cannot be evaluated")
		return decision, fmt.Errorf("product %d: %w", product.ID, err)
	}

	if decision.Fulfil {
		product.Available--
		if err := s.productRepo.Update(ctx, tx, product); err != nil {
			s.logger.Error().Err(err).Int64("product_id", product.ID).Msg("failed to update stock")
			return decision, fmt.Errorf("failed to update product %d: %w", product.ID, err)
		}
		return decision, nil
	}

	switch decision.Notice {
	case policy.NoticeDelay:
		err = s.notifier.SendDelayNotification(ctx, decision.LeadTime, decision.ProductName)
	case policy.NoticeOutOfStock:
		err = s.notifier.SendOutOfStockNotification(ctx, decision.ProductName)
	case policy.NoticeExpiration:
		err = s.notifier.SendExpirationNotification(ctx, product.Ref())
	case policy.NoticeNone:
		s.logger.Debug().
			Int64("product_id", product.ID).
			Msg("product unavailable without lead time, skipped")
		return decision, nil
	}
	if err != nil {
		return decision, fmt.Errorf("failed to send %s notification: %w", decision.Notice, err)
	}

	s.logger.Debug().
		Int64("product_id", product.ID).
		Stringer("notice", decision.Notice).
		Msg("customer notified")

	return decision, nil
}

// GetByID retrieves an order by its ID with the product of every line item.
func (s *orderService) GetByID(ctx context.Context, id int64) (*model.OrderResponse, error) {
	if id <= 0 {
		return nil, model.ErrInvalidOrderID
	}

	order, products, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Int64("order_id", id).Msg("failed to get order")
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	if order == nil {
		s.logger.Debug().Int64("order_id", id).Msg("order not found")
		return nil, model.ErrOrderNotFound
	}

	return &model.OrderResponse{
		ID:        order.ID,
		CreatedAt: order.CreatedAt,
		Products:  products,
	}, nil
}
