package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/leapstack-labs/fleetgrid/pkg/grid"
)

// DefaultTimeout bounds a single HTTP fetch when the client has none.
const DefaultTimeout = 30 * time.Second

// StatusError is returned when the back office answers with a non-2xx status.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("row source returned %d %s", e.Code, http.StatusText(e.Code))
	}
	return fmt.Sprintf("row source returned %d %s: %s", e.Code, http.StatusText(e.Code), e.Body)
}

// HTTP is a grid.Source backed by the REST back office. It issues
//
//	GET {base}/{table}?page=&rows_per_page=&order_by=&order=&<filter>=
//
// and expects a {"rows": [...], "total": N} body.
type HTTP[R any] struct {
	client *http.Client
	base   *url.URL
	table  string
	header http.Header
}

// HTTPOption configures an HTTP source.
type HTTPOption func(*httpOptions)

type httpOptions struct {
	client *http.Client
	header http.Header
}

// WithClient sets the HTTP client.
func WithClient(c *http.Client) HTTPOption {
	return func(o *httpOptions) { o.client = c }
}

// WithHeader adds a header to every request, e.g. a tenant or auth header.
func WithHeader(key, value string) HTTPOption {
	return func(o *httpOptions) { o.header.Add(key, value) }
}

// NewHTTP creates a source for table below baseURL.
func NewHTTP[R any](baseURL, table string, opts ...HTTPOption) (*HTTP[R], error) {
	base, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base url %q: %w", baseURL, err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("invalid base url %q: scheme must be http or https", baseURL)
	}
	if table == "" {
		return nil, fmt.Errorf("table is required")
	}

	o := httpOptions{header: make(http.Header)}
	for _, opt := range opts {
		opt(&o)
	}
	if o.client == nil {
		o.client = &http.Client{Timeout: DefaultTimeout}
	}

	return &HTTP[R]{client: o.client, base: base, table: table, header: o.header}, nil
}

// URL returns the request URL for q.
func (h *HTTP[R]) URL(q grid.Query) string {
	u := *h.base
	u.Path = u.Path + "/" + url.PathEscape(h.table)

	params := url.Values{}
	params.Set("page", strconv.Itoa(q.Page))
	params.Set("rows_per_page", strconv.Itoa(q.RowsPerPage))
	if q.OrderBy != "" {
		params.Set("order_by", q.OrderBy)
		params.Set("order", string(q.Order))
	}
	for name, v := range q.Filters {
		for _, s := range EncodeFilter(v) {
			params.Add(name, s)
		}
	}
	u.RawQuery = params.Encode()
	return u.String()
}

// Fetch performs the request for q.
func (h *HTTP[R]) Fetch(ctx context.Context, q grid.Query) (grid.Result[R], error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.URL(q), nil)
	if err != nil {
		return grid.Result[R]{}, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	for k, vs := range h.header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return grid.Result[R]{}, fmt.Errorf("failed to fetch %s: %w", h.table, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return grid.Result[R]{}, &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var res grid.Result[R]
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return grid.Result[R]{}, fmt.Errorf("failed to decode %s rows: %w", h.table, err)
	}
	if res.Total < len(res.Rows) {
		res.Total = len(res.Rows)
	}
	return res, nil
}

// EncodeFilter renders a filter value as query parameter values. Unset
// values produce none.
func EncodeFilter(v any) []string {
	if grid.IsUnset(v) {
		return nil
	}
	switch x := v.(type) {
	case []string:
		return slices.Clone(x)
	case grid.DateRange:
		return []string{x.String()}
	case time.Time:
		return []string{x.Format(time.RFC3339)}
	}
	return []string{grid.FormatValue(v)}
}
