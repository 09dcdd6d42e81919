// Package board drives the lead kanban board: a typed client over the HTTP
// API, a local query cache, and optimistic stage moves with rollback.
package board

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/solarepc/epc-api/internal/domain"
)

const defaultTimeout = 15 * time.Second

// ResponseError is a non-2xx answer from the API
type ResponseError struct {
	StatusCode int
	Detail     string
}

func (e *ResponseError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("api returned %d", e.StatusCode)
	}
	return fmt.Sprintf("api returned %d: %s", e.StatusCode, e.Detail)
}

// Client talks to the EPC API
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.httpClient = c }
}

// WithToken sends a bearer token so stage changes are attributed to the user
func WithToken(token string) Option {
	return func(cl *Client) { cl.token = token }
}

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListLeads returns the board's lead list
func (c *Client) ListLeads(ctx context.Context) ([]domain.LeadDTO, error) {
	var leads []domain.LeadDTO
	q := url.Values{"limit": {"200"}}
	if err := c.do(ctx, http.MethodGet, KeyLeads+"?"+q.Encode(), nil, &leads); err != nil {
		return nil, fmt.Errorf("failed to list leads: %w", err)
	}
	return leads, nil
}

// UpdateLeadStage moves one lead to stage
func (c *Client) UpdateLeadStage(ctx context.Context, leadID uint, stage domain.LeadStage) (*domain.LeadDTO, error) {
	body := map[string]domain.LeadStage{"stage": stage}
	var lead domain.LeadDTO
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("%s/%d", KeyLeads, leadID), body, &lead); err != nil {
		return nil, fmt.Errorf("failed to update lead %d: %w", leadID, err)
	}
	return &lead, nil
}

func (c *Client) LeadStats(ctx context.Context) ([]domain.LeadStageStatDTO, error) {
	var stats []domain.LeadStageStatDTO
	if err := c.do(ctx, http.MethodGet, KeyLeadStats, nil, &stats); err != nil {
		return nil, fmt.Errorf("failed to get lead stats: %w", err)
	}
	return stats, nil
}

func (c *Client) DashboardStats(ctx context.Context) (*domain.DashboardStatsDTO, error) {
	var stats domain.DashboardStatsDTO
	if err := c.do(ctx, http.MethodGet, KeyDashboardStats, nil, &stats); err != nil {
		return nil, fmt.Errorf("failed to get dashboard stats: %w", err)
	}
	return &stats, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr domain.APIError
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		return &ResponseError{StatusCode: resp.StatusCode, Detail: apiErr.Detail}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
