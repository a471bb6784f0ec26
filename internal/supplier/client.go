package supplier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	// DefaultBaseURL is the CJ Dropshipping API root.
	DefaultBaseURL = "https://developers.cjdropshipping.com/api2.0/v1"

	accessTokenHeader = "CJ-Access-Token"
	defaultTimeout    = 15 * time.Second

	// defaultTokenTTL is assumed when the supplier returns an expiry date we
	// cannot parse. Conservative relative to the supplier's real token life.
	defaultTokenTTL = 24 * time.Hour
)

// TokenSource supplies a valid access token for authorized calls.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Config holds client settings; zero values fall back to defaults.
type Config struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

// Client talks to the CJ Dropshipping API.
// Authenticate is unauthenticated; every other call goes through the
// configured TokenSource.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	tokens  TokenSource
	nowFunc func() time.Time
}

// NewClient returns a Client. A TokenSource must be attached with
// SetTokenSource before any authorized call.
func NewClient(cfg Config) *Client {
	base := cfg.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{
		baseURL: base,
		apiKey:  cfg.APIKey,
		http:    hc,
		nowFunc: time.Now,
	}
}

// SetTokenSource attaches the token source. Kept separate from NewClient
// because the token manager itself authenticates through this client.
func (c *Client) SetTokenSource(ts TokenSource) {
	c.tokens = ts
}

// Authenticate exchanges the API key for an access token.
// A supplier-reported failure comes back as *APIError so the caller can
// distinguish rate limiting from hard rejections.
func (c *Client) Authenticate(ctx context.Context) (string, time.Time, error) {
	body := map[string]string{"apiKey": c.apiKey}
	var resp authResponse
	if err := c.post(ctx, "/authentication/getAccessToken", "", body, &resp); err != nil {
		return "", time.Time{}, err
	}
	if !resp.Result {
		return "", time.Time{}, &APIError{Code: resp.Code, Message: resp.Message}
	}

	expiry, err := parseExpiry(resp.Data.AccessTokenExpiryDate)
	if err != nil {
		log.Printf("[supplier] unparseable token expiry %q, assuming %s: %v",
			resp.Data.AccessTokenExpiryDate, defaultTokenTTL, err)
		expiry = c.nowFunc().Add(defaultTokenTTL)
	}
	return resp.Data.AccessToken, expiry, nil
}

// CreateOrder submits one consolidated order. A supplier business rejection
// (Result=false) is returned as a normal response, not an error; only
// transport-level failures produce a non-nil error.
func (c *Client) CreateOrder(ctx context.Context, order CreateOrderRequest) (*CreateOrderResponse, error) {
	token, err := c.token(ctx)
	if err != nil {
		return nil, err
	}
	var resp CreateOrderResponse
	if err := c.post(ctx, "/shopping/order/createOrder", token, order, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// OrderDetail fetches a created order by supplier order id.
func (c *Client) OrderDetail(ctx context.Context, orderID string) (*QueryResponse, error) {
	return c.query(ctx, "/shopping/order/getOrderDetail", url.Values{"orderId": {orderID}})
}

// QueryProduct looks up a product by supplier product id.
func (c *Client) QueryProduct(ctx context.Context, pid string) (*QueryResponse, error) {
	return c.query(ctx, "/product/query", url.Values{"pid": {pid}})
}

// QueryVariant looks up a variant by SKU.
func (c *Client) QueryVariant(ctx context.Context, variantSKU string) (*QueryResponse, error) {
	return c.query(ctx, "/product/variant/query", url.Values{"variantSku": {variantSKU}})
}

// SearchProducts searches the supplier catalog by English product name.
func (c *Client) SearchProducts(ctx context.Context, name string, pageNum, pageSize int) (*QueryResponse, error) {
	if pageNum < 1 {
		pageNum = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	return c.query(ctx, "/product/list", url.Values{
		"pageNum":       {strconv.Itoa(pageNum)},
		"pageSize":      {strconv.Itoa(pageSize)},
		"productNameEn": {name},
	})
}

// Tracking fetches logistics tracking info for a submitted order.
func (c *Client) Tracking(ctx context.Context, orderNum string) (*QueryResponse, error) {
	return c.query(ctx, "/logistic/getTrackInfo", url.Values{"orderNum": {orderNum}})
}

// FreightCalculate quotes shipping for a set of variants.
func (c *Client) FreightCalculate(ctx context.Context, startCountryCode, endCountryCode string, products []OrderItem) (*QueryResponse, error) {
	token, err := c.token(ctx)
	if err != nil {
		return nil, err
	}
	body := map[string]interface{}{
		"startCountryCode": startCountryCode,
		"endCountryCode":   endCountryCode,
		"products":         products,
	}
	var resp QueryResponse
	if err := c.post(ctx, "/logistic/freightCalculate", token, body, &resp); err != nil {
		return nil, err
	}
	if !resp.Result {
		return nil, &APIError{Code: resp.Code, Message: resp.Message}
	}
	return &resp, nil
}

func (c *Client) query(ctx context.Context, path string, params url.Values) (*QueryResponse, error) {
	token, err := c.token(ctx)
	if err != nil {
		return nil, err
	}
	var resp QueryResponse
	if err := c.get(ctx, path+"?"+params.Encode(), token, &resp); err != nil {
		return nil, err
	}
	if !resp.Result {
		return nil, &APIError{Code: resp.Code, Message: resp.Message}
	}
	return &resp, nil
}

func (c *Client) token(ctx context.Context) (string, error) {
	if c.tokens == nil {
		return "", fmt.Errorf("supplier client has no token source")
	}
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return "", fmt.Errorf("acquire token: %w", err)
	}
	return token, nil
}

func (c *Client) post(ctx context.Context, path, token string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	return c.do(req, token, out)
}

func (c *Client) get(ctx context.Context, path, token string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	return c.do(req, token, out)
}

func (c *Client) do(req *http.Request, token string, out interface{}) error {
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set(accessTokenHeader, token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("supplier request %s: %w", req.URL.Path, err)
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode supplier response %s (status %d): %w", req.URL.Path, resp.StatusCode, err)
	}
	return nil
}

// parseExpiry accepts the date formats the supplier has been observed to use.
func parseExpiry(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized expiry format %q", s)
}
