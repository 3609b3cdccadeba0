// Package client provides a REST client for the HomeLedger server.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/homeledger/homeledger/internal/agent"
	"github.com/homeledger/homeledger/internal/models"
)

// Client talks to the HomeLedger HTTP API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a new API client.
// If baseURL is empty, uses HOMELEDGER_SERVER_URL env var or defaults to
// localhost:8787. Timeout can be configured via HOMELEDGER_CLIENT_TIMEOUT
// (default 2m; agent turns wait on the language model).
func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = os.Getenv("HOMELEDGER_SERVER_URL")
	}
	if baseURL == "" {
		baseURL = "http://localhost:8787"
	}

	timeout := 2 * time.Minute
	if t := os.Getenv("HOMELEDGER_CLIENT_TIMEOUT"); t != "" {
		if d, err := time.ParseDuration(t); err == nil {
			timeout = d
		}
	}

	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// do sends one request and decodes the JSON response into result when
// result is non-nil.
func (c *Client) do(ctx context.Context, method, path string, payload, result any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		var errResp errorResponse
		if json.Unmarshal(data, &errResp) == nil && errResp.Error != "" {
			return fmt.Errorf("server error (%s): %s", resp.Status, errResp.Error)
		}
		return fmt.Errorf("server error: %s", resp.Status)
	}

	if result == nil {
		return nil
	}
	if err := json.Unmarshal(data, result); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Chat sends one message to the assistant.
func (c *Client) Chat(ctx context.Context, sessionID, message string) (agent.TurnResult, error) {
	var result agent.TurnResult
	err := c.do(ctx, http.MethodPost, "/api/v1/agent/chat", map[string]string{
		"message":    message,
		"session_id": sessionID,
	}, &result)
	return result, err
}

// History fetches the transcript for a session.
func (c *Client) History(ctx context.Context, sessionID string) ([]models.ChatMessage, error) {
	var result struct {
		Messages []models.ChatMessage `json:"messages"`
	}
	err := c.do(ctx, http.MethodGet, "/api/v1/agent/history/"+url.PathEscape(sessionID), nil, &result)
	return result.Messages, err
}

// ClearSession drops a session on the server.
func (c *Client) ClearSession(ctx context.Context, sessionID string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/agent/session/"+url.PathEscape(sessionID), nil, nil)
}

type billList struct {
	Bills []models.Bill `json:"bills"`
}

// BillInput is the payload for creating a bill.
type BillInput struct {
	Name      string    `json:"name"`
	Amount    float64   `json:"amount"`
	DueDate   time.Time `json:"due_date"`
	Category  string    `json:"category"`
	Frequency string    `json:"frequency,omitempty"`
	Vendor    string    `json:"vendor,omitempty"`
	Notes     string    `json:"notes,omitempty"`
}

// CreateBill stores a new bill.
func (c *Client) CreateBill(ctx context.Context, input BillInput) (models.Bill, error) {
	var bill models.Bill
	err := c.do(ctx, http.MethodPost, "/api/v1/bills", input, &bill)
	return bill, err
}

// Bills lists bills, optionally filtered by category and status.
func (c *Client) Bills(ctx context.Context, category, status string) ([]models.Bill, error) {
	q := url.Values{}
	if category != "" {
		q.Set("category", category)
	}
	if status != "" {
		q.Set("status", status)
	}
	path := "/api/v1/bills"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var result billList
	err := c.do(ctx, http.MethodGet, path, nil, &result)
	return result.Bills, err
}

// Upcoming lists pending bills due within days.
func (c *Client) Upcoming(ctx context.Context, days int) ([]models.Bill, error) {
	path := "/api/v1/bills/upcoming"
	if days > 0 {
		path += "?days=" + strconv.Itoa(days)
	}

	var result billList
	err := c.do(ctx, http.MethodGet, path, nil, &result)
	return result.Bills, err
}

// Overdue lists pending bills past their due date.
func (c *Client) Overdue(ctx context.Context) ([]models.Bill, error) {
	var result billList
	err := c.do(ctx, http.MethodGet, "/api/v1/bills/overdue", nil, &result)
	return result.Bills, err
}

// MarkPaid flips a bill to paid.
func (c *Client) MarkPaid(ctx context.Context, id string) (models.Bill, error) {
	var bill models.Bill
	err := c.do(ctx, http.MethodPost, "/api/v1/bills/"+url.PathEscape(id)+"/pay", nil, &bill)
	return bill, err
}

// Summary fetches the monthly summary. Zero year/month means the
// current month.
func (c *Client) Summary(ctx context.Context, year, month int) (models.MonthlySummary, error) {
	q := url.Values{}
	if year > 0 {
		q.Set("year", strconv.Itoa(year))
	}
	if month > 0 {
		q.Set("month", strconv.Itoa(month))
	}
	path := "/api/v1/analytics/summary"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var summary models.MonthlySummary
	err := c.do(ctx, http.MethodGet, path, nil, &summary)
	return summary, err
}

// Stats fetches the comprehensive statistics block.
func (c *Client) Stats(ctx context.Context) (models.ExpenseStats, error) {
	var stats models.ExpenseStats
	err := c.do(ctx, http.MethodGet, "/api/v1/analytics/stats", nil, &stats)
	return stats, err
}

// Categories lists active categories.
func (c *Client) Categories(ctx context.Context) ([]models.Category, error) {
	var result struct {
		Categories []models.Category `json:"categories"`
	}
	err := c.do(ctx, http.MethodGet, "/api/v1/categories", nil, &result)
	return result.Categories, err
}
