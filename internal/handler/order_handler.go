package handler

import (
	"net/http"

	"order-fulfilment/internal/model"
	"order-fulfilment/internal/service"

	"github.com/rs/zerolog"
)

// OrderHandler handles order-related HTTP requests.
type OrderHandler struct {
	service service.OrderService
	logger  zerolog.Logger
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(service service.OrderService, logger zerolog.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		logger:  logger.With().Str("handler", "order").Logger(),
	}
}

// Process handles POST /orders/{orderId}/processOrder requests.
func (h *OrderHandler) Process(w http.ResponseWriter, r *http.Request) {
	orderID, ok := pathID(r, "orderId")
	if !ok {
		writeServiceError(w, r, model.ErrInvalidOrderID, "", h.logger)
		return
	}

	resp, err := h.service.ProcessOrder(r.Context(), orderID)
	if err != nil {
		writeServiceError(w, r, err, "failed to process order", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// GetByID handles GET /orders/{orderId} requests.
func (h *OrderHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	orderID, ok := pathID(r, "orderId")
	if !ok {
		writeServiceError(w, r, model.ErrInvalidOrderID, "", h.logger)
		return
	}

	order, err := h.service.GetByID(r.Context(), orderID)
	if err != nil {
		writeServiceError(w, r, err, "failed to retrieve order", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, order)
}
