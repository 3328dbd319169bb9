// Package hh provides an HTTP client for the HeadHunter vacancy listing API.
package hh

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/maauso/hh-vacancies/internal/vacancy"
)

// Defaults for the public HeadHunter listing endpoint.
const (
	DefaultBaseURL   = "https://api.hh.ru/vacancies"
	DefaultUserAgent = "HH-User-Agent"
	DefaultPerPage   = 100
	DefaultPageLimit = 20
	// DefaultTimeout bounds each request of the default HTTP client.
	DefaultTimeout = 30 * time.Second
)

// maxErrorBody caps how much of a failed response body ends up in an error.
const maxErrorBody = 512

// Static errors for listing client operations.
var (
	// ErrInvalidPerPage is returned when the page size is not positive.
	ErrInvalidPerPage = errors.New("hh: per_page must be positive")
	// ErrInvalidPageLimit is returned when the page ceiling is not positive.
	ErrInvalidPageLimit = errors.New("hh: page limit must be positive")
	// ErrRequestFailed is returned when the request could not be completed.
	ErrRequestFailed = errors.New("hh: request failed")
	// ErrUnexpectedStatus is returned when the server answers with a non-2xx status code.
	ErrUnexpectedStatus = errors.New("hh: unexpected status")
	// ErrDecodeResponse is returned when the response body is not the expected JSON.
	ErrDecodeResponse = errors.New("hh: decode response")
	// ErrMissingItems is returned when the response object has no "items" field.
	ErrMissingItems = errors.New("hh: response has no items")
)

// Fetcher loads every page of vacancies matching a keyword.
type Fetcher interface {
	LoadVacancies(ctx context.Context, keyword string) (vacancy.Collection, error)
}

// Compile-time check that HTTPClient implements Fetcher.
var _ Fetcher = (*HTTPClient)(nil)

// HTTPClient is the HTTP implementation of Fetcher.
type HTTPClient struct {
	baseURL    string
	userAgent  string
	perPage    int
	pageLimit  int
	httpClient *http.Client
}

// ClientOption is a function that configures an HTTPClient.
type ClientOption func(*HTTPClient)

// WithBaseURL sets the listing endpoint.
func WithBaseURL(u string) ClientOption {
	return func(c *HTTPClient) {
		c.baseURL = u
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *HTTPClient) {
		c.httpClient = hc
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) ClientOption {
	return func(c *HTTPClient) {
		c.userAgent = ua
	}
}

// WithPerPage sets the per_page query parameter.
func WithPerPage(n int) ClientOption {
	return func(c *HTTPClient) {
		c.perPage = n
	}
}

// WithPageLimit sets how many pages are requested per keyword.
func WithPageLimit(n int) ClientOption {
	return func(c *HTTPClient) {
		c.pageLimit = n
	}
}

// NewClient creates a listing client with the HeadHunter defaults,
// overridden by opts.
// Unless WithHTTPClient is given, requests time out after DefaultTimeout.
// Pass an http.Client with a zero Timeout to wait indefinitely, bounded only
// by the request context.
func NewClient(opts ...ClientOption) (*HTTPClient, error) {
	c := &HTTPClient{
		baseURL:    DefaultBaseURL,
		userAgent:  DefaultUserAgent,
		perPage:    DefaultPerPage,
		pageLimit:  DefaultPageLimit,
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.perPage <= 0 {
		return nil, ErrInvalidPerPage
	}
	if c.pageLimit <= 0 {
		return nil, ErrInvalidPageLimit
	}
	if c.httpClient == nil {
		c.httpClient = http.DefaultClient
	}

	return c, nil
}

// PageLimit returns the number of pages requested per keyword.
func (c *HTTPClient) PageLimit() int {
	return c.pageLimit
}

// PerPage returns the page size requested from the endpoint.
func (c *HTTPClient) PerPage() int {
	return c.perPage
}

// LoadVacancies requests pages 0 through PageLimit()-1 for keyword and
// returns the items of every page appended in page order.
// Exactly PageLimit() requests are made when no error occurs, whatever the
// size of each page. The first failure aborts the whole fetch.
func (c *HTTPClient) LoadVacancies(ctx context.Context, keyword string) (vacancy.Collection, error) {
	keyword = NormalizeKeyword(keyword)

	vacancies := vacancy.Collection{}
	for page := 0; page != c.pageLimit; page++ {
		items, err := c.fetchPage(ctx, keyword, page)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", page, err)
		}
		vacancies = append(vacancies, items...)
	}

	return vacancies, nil
}

// fetchPage performs a single GET and returns the page's items.
func (c *HTTPClient) fetchPage(ctx context.Context, keyword string, page int) (vacancy.Collection, error) {
	reqURL, err := c.pageURL(keyword, page)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("hh: create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRequestFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %w", ErrRequestFailed, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w %d: %s", ErrUnexpectedStatus, resp.StatusCode, snippet(body))
	}

	return decodeItems(body)
}

// pageURL builds the request URL, keeping any query already on the base URL.
func (c *HTTPClient) pageURL(keyword string, page int) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("hh: parse base URL: %w", err)
	}

	q := u.Query()
	q.Set("text", keyword)
	q.Set("page", strconv.Itoa(page))
	q.Set("per_page", strconv.Itoa(c.perPage))
	u.RawQuery = q.Encode()

	return u.String(), nil
}

// decodeItems extracts the "items" array from a listing response body.
func decodeItems(body []byte) (vacancy.Collection, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecodeResponse, err)
	}

	raw, ok := envelope["items"]
	if !ok {
		return nil, ErrMissingItems
	}

	var items vacancy.Collection
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("%w: items: %w", ErrDecodeResponse, err)
	}

	return items, nil
}

// NormalizeKeyword trims surrounding space and converts the keyword to
// Unicode NFC so composed and decomposed input search the same text.
func NormalizeKeyword(keyword string) string {
	return norm.NFC.String(strings.TrimSpace(keyword))
}

func snippet(body []byte) string {
	if len(body) > maxErrorBody {
		return string(body[:maxErrorBody]) + "..."
	}
	return string(body)
}
