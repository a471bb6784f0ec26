package fulfillment

import "github.com/dripstore/fulfillment/internal/catalog"

// Failure reasons carried on Result for callers that need to map outcomes to
// HTTP statuses or alerts.
const (
	ReasonValidation      = "validation_failed"
	ReasonNoValidProducts = "no_valid_products"
	ReasonAuth            = "auth_failed"
	ReasonSupplierReject  = "supplier_rejected"
	ReasonTransport       = "transport_failed"
)

// LineItem is one purchased product in a payment event.
type LineItem struct {
	ProductID string
	Quantity  int
	Size      string
	Color     string
}

// Shipping is the destination from the payment provider's checkout session.
type Shipping struct {
	Name        string
	Email       string
	Phone       string
	Address     string
	Address2    string
	Province    string
	City        string
	Zip         string
	Country     string
	CountryCode string
}

// PaymentEvent is a verified payment-completed event. Reference is the
// payment session id; it doubles as the supplier-side order number so
// redelivered webhooks deduplicate at the supplier.
type PaymentEvent struct {
	Reference     string
	CustomerEmail string
	Items         []LineItem
	Shipping      Shipping
	CorrelationID string
}

// ResolvedItem is a line item with its supplier variant attached.
type ResolvedItem struct {
	ProductID string
	Variant   catalog.Variant
	Quantity  int
	Size      string
	Color     string
}

// Result is the synchronous outcome of one fulfillment attempt.
// Failures are results, not errors: the webhook caller must acknowledge the
// payment regardless, and flagged results go to manual processing.
type Result struct {
	Success                  bool
	OrderNumber              string
	SupplierOrderID          string
	Status                   string
	Message                  string
	Reason                   string
	RequiresManualProcessing bool
	UnresolvedProductIDs     []string
}

// FailureNotice is the message published to the manual-review queue and
// consumed by the ops worker.
type FailureNotice struct {
	OrderNumber          string   `json:"order_number"`
	Reason               string   `json:"reason"`
	Message              string   `json:"message"`
	CorrelationID        string   `json:"correlation_id,omitempty"`
	CustomerEmail        string   `json:"customer_email,omitempty"`
	UnresolvedProductIDs []string `json:"unresolved_product_ids,omitempty"`
}
