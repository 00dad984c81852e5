package tablestore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

const defaultPageSize = 100

// ErrNotFound marks a get for a record or table that does not exist.
var ErrNotFound = errors.New("record not found")

// HTTPClient talks to the record store's REST API.
type HTTPClient struct {
	httpClient *http.Client
	BaseURL    string
	apiKey     string
	baseID     string

	schemaMu sync.Mutex
	schemas  map[string]*FieldMap
}

// NewClient creates a new record store client with a bounded request timeout.
func NewClient(baseURL, apiKey, baseID string) *HTTPClient {
	return &HTTPClient{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		BaseURL:    baseURL,
		apiKey:     apiKey,
		baseID:     baseID,
		schemas:    make(map[string]*FieldMap),
	}
}

var _ Client = (*HTTPClient)(nil)

// List fetches records from a table, following pagination transparently
// until the store stops returning an offset or MaxRows is reached.
func (c *HTTPClient) List(ctx context.Context, table string, opts ListOptions) ([]Record, error) {
	var (
		all    []Record
		offset string
	)

	for {
		query := url.Values{}
		query.Set("pageSize", strconv.Itoa(defaultPageSize))
		if opts.Filter != "" {
			query.Set("filterByFormula", opts.Filter)
		}
		for i, sort := range opts.Sort {
			query.Set(fmt.Sprintf("sort[%d][field]", i), sort.Field)
			direction := "asc"
			if sort.Desc {
				direction = "desc"
			}
			query.Set(fmt.Sprintf("sort[%d][direction]", i), direction)
		}
		if offset != "" {
			query.Set("offset", offset)
		}

		endpoint := fmt.Sprintf("%s/v0/%s/%s?%s", c.BaseURL, c.baseID, url.PathEscape(table), query.Encode())
		var page listResponse
		if err := c.do(ctx, http.MethodGet, endpoint, nil, &page); err != nil {
			return nil, fmt.Errorf("listing %s: %w", table, err)
		}

		all = append(all, page.Records...)
		log.Debug("Fetched record page", "table", table, "count", len(page.Records), "total", len(all))

		if opts.MaxRows > 0 && len(all) >= opts.MaxRows {
			return all[:opts.MaxRows], nil
		}
		if page.Offset == "" {
			return all, nil
		}
		offset = page.Offset
	}
}

// Get fetches a single record by id.
func (c *HTTPClient) Get(ctx context.Context, table, id string) (Record, error) {
	endpoint := fmt.Sprintf("%s/v0/%s/%s/%s", c.BaseURL, c.baseID, url.PathEscape(table), url.PathEscape(id))
	var record Record
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &record); err != nil {
		return Record{}, fmt.Errorf("getting %s/%s: %w", table, id, err)
	}
	return record, nil
}

// Create inserts new records and returns them with their assigned ids.
func (c *HTTPClient) Create(ctx context.Context, table string, fields []Fields) ([]Record, error) {
	payload := recordsEnvelope{}
	for _, f := range fields {
		payload.Records = append(payload.Records, Record{Fields: f})
	}

	endpoint := fmt.Sprintf("%s/v0/%s/%s", c.BaseURL, c.baseID, url.PathEscape(table))
	var resp recordsEnvelope
	if err := c.do(ctx, http.MethodPost, endpoint, payload, &resp); err != nil {
		return nil, fmt.Errorf("creating in %s: %w", table, err)
	}
	return resp.Records, nil
}

// Update patches existing records and returns their new state.
func (c *HTTPClient) Update(ctx context.Context, table string, updates []RecordUpdate) ([]Record, error) {
	endpoint := fmt.Sprintf("%s/v0/%s/%s", c.BaseURL, c.baseID, url.PathEscape(table))
	var resp recordsEnvelope
	if err := c.do(ctx, http.MethodPatch, endpoint, updateEnvelope{Records: updates}, &resp); err != nil {
		return nil, fmt.Errorf("updating in %s: %w", table, err)
	}
	return resp.Records, nil
}

// Schema returns the field mapping for a table, fetching the base metadata
// on first use and caching it for the life of the client.
func (c *HTTPClient) Schema(ctx context.Context, table string) (*FieldMap, error) {
	c.schemaMu.Lock()
	defer c.schemaMu.Unlock()

	if fm, ok := c.schemas[table]; ok {
		return fm, nil
	}

	endpoint := fmt.Sprintf("%s/v0/meta/bases/%s/tables", c.BaseURL, c.baseID)
	var resp schemaResponse
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &resp); err != nil {
		return nil, fmt.Errorf("fetching schema: %w", err)
	}

	for _, meta := range resp.Tables {
		c.schemas[meta.Name] = buildFieldMap(meta.Name, meta.Fields)
	}

	fm, ok := c.schemas[table]
	if !ok {
		return nil, fmt.Errorf("table %q not found in base schema", table)
	}
	log.Debug("Resolved table schema", "table", table)
	return fm, nil
}

func (c *HTTPClient) do(ctx context.Context, method, endpoint string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%s: %w", endpoint, ErrNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		log.Error("Received non-OK HTTP status from record store", "status", resp.StatusCode, "body", string(respBody))
		return fmt.Errorf("received non-OK HTTP status: %d", resp.StatusCode)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}
