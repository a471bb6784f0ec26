package supplier

import (
	"encoding/json"
	"fmt"
	"strings"
)

// AuthData is the payload of a successful getAccessToken call.
type AuthData struct {
	AccessToken            string `json:"accessToken"`
	AccessTokenExpiryDate  string `json:"accessTokenExpiryDate"`
	RefreshToken           string `json:"refreshToken"`
	RefreshTokenExpiryDate string `json:"refreshTokenExpiryDate"`
}

type authResponse struct {
	Code    int      `json:"code"`
	Result  bool     `json:"result"`
	Message string   `json:"message"`
	Data    AuthData `json:"data"`
}

// OrderItem is one (variant, quantity) pair in an order.
type OrderItem struct {
	VID      string `json:"vid"`
	Quantity int    `json:"quantity"`
}

// CreateOrderRequest is the supplier's order-creation schema.
type CreateOrderRequest struct {
	OrderNumber          string      `json:"orderNumber"`
	ShippingCountryCode  string      `json:"shippingCountryCode"`
	ShippingCountry      string      `json:"shippingCountry"`
	ShippingProvince     string      `json:"shippingProvince"`
	ShippingCity         string      `json:"shippingCity"`
	ShippingAddress      string      `json:"shippingAddress"`
	ShippingAddress2     string      `json:"shippingAddress2"`
	ShippingCustomerName string      `json:"shippingCustomerName"`
	ShippingZip          string      `json:"shippingZip"`
	ShippingPhone        string      `json:"shippingPhone"`
	CountryCode          string      `json:"countryCode"`
	FromCountryCode      string      `json:"fromCountryCode"`
	LogisticName         string      `json:"logisticName"`
	Products             []OrderItem `json:"products"`
	Remark               string      `json:"remark"`
}

// OrderData is the canonical shape of a created order. The supplier returns
// either an object or a bare order-number string in the data field; both
// decode into this one shape so callers never see the raw variance.
type OrderData struct {
	OrderID     string `json:"orderId"`
	OrderNum    string `json:"orderNum"`
	CJOrderID   string `json:"cjOrderId"`
	OrderStatus string `json:"orderStatus"`
}

func (d *OrderData) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var num string
		if err := json.Unmarshal(b, &num); err != nil {
			return err
		}
		d.OrderID = num
		d.OrderNum = num
		return nil
	}
	type plain OrderData
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*d = OrderData(p)
	return nil
}

// Reference returns the best available supplier-side identifier.
func (d OrderData) Reference() string {
	if d.OrderNum != "" {
		return d.OrderNum
	}
	if d.OrderID != "" {
		return d.OrderID
	}
	return d.CJOrderID
}

// CreateOrderResponse is the supplier's order-creation envelope.
// Result=false is a business rejection, not a transport error.
type CreateOrderResponse struct {
	Code    int       `json:"code"`
	Result  bool      `json:"result"`
	Message string    `json:"message"`
	Data    OrderData `json:"data"`
}

// QueryResponse is the envelope for read-only lookups (product, variant,
// order detail, freight). Data is passed through untyped; the callers are
// sync tooling and status pages that forward it as-is.
type QueryResponse struct {
	Code    int             `json:"code"`
	Result  bool            `json:"result"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// APIError is a supplier-reported failure on a call that has no meaningful
// partial result (authentication, read lookups).
type APIError struct {
	Code    int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("supplier error %d: %s", e.Code, e.Message)
}

// RateLimited reports whether the supplier rejected the call for hitting its
// per-endpoint cooldown (one auth call per ~5 minutes).
func (e *APIError) RateLimited() bool {
	return strings.Contains(strings.ToLower(e.Message), "too many requests")
}
