package model

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error         string `json:"error"`
	Message       string `json:"message"`
	CorrelationID string `json:"correlationId,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidOrderID     = "INVALID_ORDER_ID"
	ErrCodeInvalidProductID   = "INVALID_PRODUCT_ID"
	ErrCodeOrderNotFound      = "ORDER_NOT_FOUND"
	ErrCodeProductNotFound    = "PRODUCT_NOT_FOUND"
	ErrCodeUnknownProductType = "UNKNOWN_PRODUCT_TYPE"
	ErrCodeIncompleteProduct  = "INCOMPLETE_PRODUCT"
	ErrCodeUnauthorised       = "UNAUTHORIZED"
	ErrCodeInternalError      = "INTERNAL_ERROR"
)

// Domain errors for business logic
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrInvalidOrderID     = NewDomainError(ErrCodeInvalidOrderID, "Order ID must be a positive integer")
	ErrInvalidProductID   = NewDomainError(ErrCodeInvalidProductID, "Product ID must be a positive integer")
	ErrOrderNotFound      = NewDomainError(ErrCodeOrderNotFound, "Order not found")
	ErrProductNotFound    = NewDomainError(ErrCodeProductNotFound, "Product not found")
	ErrUnknownProductType = NewDomainError(ErrCodeUnknownProductType, "Product has an unknown type")
	ErrIncompleteProduct  = NewDomainError(ErrCodeIncompleteProduct, "Product is missing the dates its type requires")
)
