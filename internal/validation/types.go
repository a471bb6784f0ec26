package validation

// LineItem is one purchased product in the fulfillment request.
type LineItem struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
	Size      string `json:"size,omitempty"`
	Color     string `json:"color,omitempty"`
}

// Shipping carries the checkout's shipping details.
type Shipping struct {
	Name        string `json:"name" validate:"required"`
	Email       string `json:"email,omitempty" validate:"omitempty,email"`
	Phone       string `json:"phone,omitempty"`
	Address     string `json:"address" validate:"required"`
	Address2    string `json:"address2,omitempty"`
	Province    string `json:"province,omitempty"`
	City        string `json:"city" validate:"required"`
	Zip         string `json:"zip" validate:"required"`
	Country     string `json:"country,omitempty"`
	CountryCode string `json:"countryCode,omitempty"`
}

// FulfillmentRequest is the payload for POST /fulfillment: a verified
// payment-completed event forwarded by the payment webhook handler.
type FulfillmentRequest struct {
	OrderID  string     `json:"orderId" validate:"required"`          // payment session reference
	Items    []LineItem `json:"items" validate:"required,min=1,dive"` // at least one item
	Shipping Shipping   `json:"shipping" validate:"required"`
}
