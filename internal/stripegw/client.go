package stripegw

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const (
	DefaultBaseURL = "https://api.stripe.com"

	Currency   = "rub"
	SuccessURL = "https://example.com/success"
	CancelURL  = "https://example.com/cancel"
)

// Client is a narrow Stripe API client covering the four operations the
// payment workflow needs. The secret key is set once at startup and never
// mutated after.
type Client struct {
	baseURL    string
	secretKey  string
	httpClient *http.Client
}

func NewClient(secretKey, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		secretKey:  secretKey,
		httpClient: &http.Client{},
	}
}

// Error carries the gateway's own message so handlers can surface it
// verbatim as a client error.
type Error struct {
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return e.Message
}

type CheckoutSession struct {
	ID            string `json:"id"`
	URL           string `json:"url"`
	PaymentStatus string `json:"payment_status"`
}

type createResponse struct {
	ID string `json:"id"`
}

type errorResponse struct {
	Error Error `json:"error"`
}

func (c *Client) do(method, path string, form url.Values, out interface{}) error {
	var body *strings.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	} else {
		body = strings.NewReader("")
	}

	req, err := http.NewRequest(method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &Error{Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		var errResp errorResponse
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil || errResp.Error.Message == "" {
			return &Error{Message: fmt.Sprintf("stripe request failed with status %d", resp.StatusCode)}
		}
		return &errResp.Error
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

// CreateProduct registers a product named after the purchased course or
// lesson and returns its id.
func (c *Client) CreateProduct(name string) (string, error) {
	form := url.Values{}
	form.Set("name", name)

	var product createResponse
	if err := c.do(http.MethodPost, "/v1/products", form, &product); err != nil {
		return "", err
	}
	return product.ID, nil
}

// CreatePrice creates a price for the product. The amount comes in whole
// currency units and is converted to the gateway's minor unit.
func (c *Client) CreatePrice(productID string, amount int) (string, error) {
	form := url.Values{}
	form.Set("unit_amount", strconv.Itoa(amount*100))
	form.Set("currency", Currency)
	form.Set("product", productID)

	var price createResponse
	if err := c.do(http.MethodPost, "/v1/prices", form, &price); err != nil {
		return "", err
	}
	return price.ID, nil
}

// CreateCheckoutSession opens a hosted checkout for the price, quantity 1,
// with the fixed redirect targets.
func (c *Client) CreateCheckoutSession(priceID string) (*CheckoutSession, error) {
	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("payment_method_types[0]", "card")
	form.Set("line_items[0][price]", priceID)
	form.Set("line_items[0][quantity]", "1")
	form.Set("success_url", SuccessURL)
	form.Set("cancel_url", CancelURL)

	var session CheckoutSession
	if err := c.do(http.MethodPost, "/v1/checkout/sessions", form, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// RetrieveSession fetches a checkout session to read its payment status and
// hosted URL.
func (c *Client) RetrieveSession(sessionID string) (*CheckoutSession, error) {
	var session CheckoutSession
	if err := c.do(http.MethodGet, "/v1/checkout/sessions/"+url.PathEscape(sessionID), nil, &session); err != nil {
		return nil, err
	}
	return &session, nil
}
