package analytics

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	dashboard "github.com/goliatone/go-dashboard-controls/components/dashboard"
)

// HTTPConfig configures the HTTP analytics client.
type HTTPConfig struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

// HTTPClient talks to remote BI services via REST endpoints.
type HTTPClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

var _ ViewClient = (*HTTPClient)(nil)

// NewHTTPClient builds a client capable of hitting live analytics APIs.
func NewHTTPClient(cfg HTTPConfig) (*HTTPClient, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("analytics: base url is required")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPClient{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		client:  httpClient,
	}, nil
}

// QueryView posts the filters of req to /views/{id}/query.
func (c *HTTPClient) QueryView(ctx context.Context, req dashboard.ViewRequest) (dashboard.ViewData, error) {
	payload := viewRequest{
		BoardID:    req.BoardID,
		WidgetID:   req.WidgetID,
		Columns:    req.Columns,
		Conditions: req.Filters.Conditions,
		Variables:  req.Filters.Variables,
	}
	var resp viewResponse
	path := "/views/" + url.PathEscape(req.ViewID) + "/query"
	if err := c.do(ctx, http.MethodPost, path, payload, &resp); err != nil {
		return dashboard.ViewData{}, err
	}
	return resp.toData(), nil
}

func (c *HTTPClient) do(ctx context.Context, method, path string, payload any, target any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("analytics: encode payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("analytics: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("analytics: http request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		var buf bytes.Buffer
		_, _ = buf.ReadFrom(resp.Body)
		return fmt.Errorf("analytics: remote error %d: %s", resp.StatusCode, buf.String())
	}
	if target == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("analytics: decode response: %w", err)
	}
	return nil
}

type viewRequest struct {
	BoardID    string                     `json:"board_id,omitempty"`
	WidgetID   string                     `json:"widget_id,omitempty"`
	Columns    []string                   `json:"columns,omitempty"`
	Conditions []dashboard.FieldCondition `json:"conditions,omitempty"`
	Variables  map[string][]any           `json:"variables,omitempty"`
}

type viewResponse struct {
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

func (r viewResponse) toData() dashboard.ViewData {
	rows := r.Rows
	if rows == nil {
		rows = [][]any{}
	}
	return dashboard.ViewData{Columns: r.Columns, Rows: rows}
}
