package console

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"orderdesk/lifecycle"
	"orderdesk/store"
)

// Client talks to the orderdesk HTTP API on behalf of the operations
// console. Server errors carry a human-readable message which is
// surfaced verbatim so operators see exactly what the backend said.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *Client) get(path string, result any) error {
	resp, err := c.httpClient.Get(c.baseURL + path)
	if err != nil {
		return fmt.Errorf("console GET %s: %w", path, err)
	}
	defer resp.Body.Close()
	return c.decode(resp, result)
}

func (c *Client) post(path string, body any, result any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("console marshal: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}
	resp, err := c.httpClient.Post(c.baseURL+path, "application/json", bodyReader)
	if err != nil {
		return fmt.Errorf("console POST %s: %w", path, err)
	}
	defer resp.Body.Close()
	return c.decode(resp, result)
}

func (c *Client) decode(resp *http.Response, result any) error {
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("console read body: %w", err)
	}
	if resp.StatusCode >= 400 {
		var payload struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(data, &payload) == nil && payload.Message != "" {
			return fmt.Errorf("%s", payload.Message)
		}
		return fmt.Errorf("console HTTP %d: %s", resp.StatusCode, string(data))
	}
	if result != nil {
		if err := json.Unmarshal(data, result); err != nil {
			return fmt.Errorf("console decode: %w", err)
		}
	}
	return nil
}

// BaseURL returns the client's base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// Reconfigure updates the client's base URL and timeout for hot-reload.
func (c *Client) Reconfigure(baseURL string, timeout time.Duration) {
	c.baseURL = baseURL
	c.httpClient.Timeout = timeout
}

func (c *Client) GetOrder(orderID int64) (*store.Order, error) {
	var order store.Order
	if err := c.get(fmt.Sprintf("/api/orders/%d", orderID), &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *Client) GetOrderHistory(orderID int64) ([]store.OrderHistory, error) {
	var history []store.OrderHistory
	if err := c.get(fmt.Sprintf("/api/orders/%d/history", orderID), &history); err != nil {
		return nil, err
	}
	return history, nil
}

// OrderActions is the backend's rendering advice for one order.
type OrderActions struct {
	Status  string                 `json:"status"`
	Actions []lifecycle.ActionKind `json:"actions"`
}

func (c *Client) GetOrderActions(orderID int64) (*OrderActions, error) {
	var actions OrderActions
	if err := c.get(fmt.Sprintf("/api/orders/%d/actions", orderID), &actions); err != nil {
		return nil, err
	}
	return &actions, nil
}

// SubmitTransition posts a transition request to its endpoint and returns
// the updated order.
func (c *Client) SubmitTransition(orderID int64, path string, body any) (*store.Order, error) {
	var order store.Order
	if err := c.post(fmt.Sprintf("/api/orders/%d%s", orderID, path), body, &order); err != nil {
		return nil, err
	}
	return &order, nil
}
