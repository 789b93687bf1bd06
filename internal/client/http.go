package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/alfredjeanlab/facets/internal/filter"
	"github.com/alfredjeanlab/facets/internal/model"
)

// HTTPClient implements FacetsClient using the HTTP/JSON API.
type HTTPClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewHTTPClient creates a new HTTPClient pointing at the given base URL.
// If token is non-empty it is sent as a bearer token on every request.
func NewHTTPClient(baseURL, token string) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Close is a no-op for HTTPClient.
func (c *HTTPClient) Close() error {
	return nil
}

// --- Records ---

func (c *HTTPClient) ListRecords(ctx context.Context, query url.Values) (*RecordsPage, error) {
	var page RecordsPage
	if err := c.doJSON(ctx, http.MethodGet, withQuery("/v1/records", query), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *HTTPClient) GetRecord(ctx context.Context, id string) (*model.Record, error) {
	var rec model.Record
	if err := c.doJSON(ctx, http.MethodGet, "/v1/records/"+url.PathEscape(id), nil, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (c *HTTPClient) CreateRecord(ctx context.Context, in *model.Record) (*model.Record, error) {
	var rec model.Record
	if err := c.doJSON(ctx, http.MethodPost, "/v1/records", in, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// --- Fields ---

func (c *HTTPClient) Fields(ctx context.Context) (filter.Fields, error) {
	var resp struct {
		Fields filter.Fields `json:"fields"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/v1/fields", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Fields, nil
}

func (c *HTTPClient) SearchOptions(ctx context.Context, fieldID, query string) ([]filter.Option, error) {
	path := "/v1/fields/" + url.PathEscape(fieldID) + "/options"
	if query != "" {
		path += "?" + url.Values{"q": {query}}.Encode()
	}
	var resp struct {
		Options []filter.Option `json:"options"`
	}
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Options, nil
}

// --- Views ---

func (c *HTTPClient) ListViews(ctx context.Context) ([]*model.View, error) {
	var resp struct {
		Views []*model.View `json:"views"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/v1/views", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Views, nil
}

func (c *HTTPClient) GetView(ctx context.Context, name string) (*model.View, error) {
	var v model.View
	if err := c.doJSON(ctx, http.MethodGet, "/v1/views/"+url.PathEscape(name), nil, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func (c *HTTPClient) SaveView(ctx context.Context, name, query string) (*model.View, error) {
	body := map[string]string{"query": query}
	var v model.View
	if err := c.doJSON(ctx, http.MethodPut, "/v1/views/"+url.PathEscape(name), body, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func (c *HTTPClient) DeleteView(ctx context.Context, name string) error {
	return c.doJSON(ctx, http.MethodDelete, "/v1/views/"+url.PathEscape(name), nil, nil)
}

func (c *HTTPClient) ViewRecords(ctx context.Context, name string, overrides url.Values) (*RecordsPage, error) {
	var page RecordsPage
	path := withQuery("/v1/views/"+url.PathEscape(name)+"/records", overrides)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// --- Health ---

func (c *HTTPClient) Health(ctx context.Context) (string, error) {
	var resp struct {
		Status string `json:"status"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/v1/health", nil, &resp); err != nil {
		return "", err
	}
	return resp.Status, nil
}

// --- internal helpers ---

func withQuery(path string, q url.Values) string {
	if len(q) == 0 {
		return path
	}
	return path + "?" + q.Encode()
}

// APIError represents an error response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err is an APIError with status 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// doJSON performs an HTTP request with optional JSON body and decodes the JSON response.
// If result is nil, the response body is discarded (for DELETE/204 responses).
func (c *HTTPClient) doJSON(ctx context.Context, method, path string, body any, result any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("performing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Error != "" {
			return &APIError{StatusCode: resp.StatusCode, Message: errResp.Error}
		}
		return &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(respBody))}
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}

	return nil
}
