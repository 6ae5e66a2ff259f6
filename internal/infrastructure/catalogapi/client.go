// Package catalogapi fetches character pages from the remote catalog HTTP API.
package catalogapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/bnema/cardex/internal/application/port"
	"github.com/bnema/cardex/internal/domain/entity"
	"github.com/bnema/cardex/internal/logging"
)

const (
	// DefaultBaseURL is the public character endpoint.
	DefaultBaseURL = "https://rickandmortyapi.com/api/character/"

	// DefaultTimeout bounds a single page request.
	DefaultTimeout = 10 * time.Second

	// Maximum response body read (4MB); a page is a few tens of KB.
	maxBodySize = 4 * 1024 * 1024

	tracerName = "github.com/bnema/cardex/internal/infrastructure/catalogapi"
)

var (
	// ErrRequest indicates the request could not be sent or the connection failed.
	ErrRequest = errors.New("catalog request failed")
	// ErrUnexpectedStatus indicates a non-200 response.
	ErrUnexpectedStatus = errors.New("unexpected catalog status")
	// ErrNoMatches indicates the API answered 404 for the search term or page.
	ErrNoMatches = errors.New("no characters match")
	// ErrMalformedPayload indicates the body could not be decoded into a page.
	ErrMalformedPayload = errors.New("malformed catalog payload")
)

// characterPage mirrors the API response body.
type characterPage struct {
	Info struct {
		Count int     `json:"count"`
		Pages int     `json:"pages"`
		Next  *string `json:"next"`
		Prev  *string `json:"prev"`
	} `json:"info"`
	Results []entity.Character `json:"results"`
}

// apiError is the body the API returns with error statuses.
type apiError struct {
	Error string `json:"error"`
}

// Options configures a Client.
type Options struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
	// HTTPClient overrides the default client (Timeout is then ignored).
	HTTPClient *http.Client
}

// Client implements port.CharacterSource over HTTP GET.
type Client struct {
	client    *http.Client
	baseURL   *url.URL
	userAgent string
	tracer    trace.Tracer
}

var _ port.CharacterSource = (*Client)(nil)

// NewClient creates a catalog client. Empty options fall back to defaults.
func NewClient(opts Options) (*Client, error) {
	raw := opts.BaseURL
	if raw == "" {
		raw = DefaultBaseURL
	}
	base, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid catalog base url %q: %w", raw, err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("invalid catalog base url %q: scheme must be http or https", raw)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = "cardex/dev"
	}

	return &Client{
		client:    httpClient,
		baseURL:   base,
		userAgent: userAgent,
		tracer:    otel.Tracer(tracerName),
	}, nil
}

// pageURL builds {base}?page={page}&name={term}.
func (c *Client) pageURL(term string, page int) string {
	u := *c.baseURL
	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	q.Set("name", term)
	u.RawQuery = q.Encode()
	return u.String()
}

// FetchPage requests one page of characters for term.
// Every failure wraps port.ErrCatalogUnavailable. A 200 with no results
// yields an empty page with one total page.
func (c *Client) FetchPage(ctx context.Context, term string, page int) (*entity.Page, error) {
	log := logging.FromContext(ctx)
	target := c.pageURL(term, page)

	ctx, span := c.tracer.Start(ctx, "catalogapi.FetchPage", trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", http.MethodGet),
			attribute.String("url.full", target),
		))
	defer span.End()

	result, err := c.fetch(ctx, target)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("%w: %w", port.ErrCatalogUnavailable, err)
	}

	span.SetAttributes(
		attribute.Int("catalog.results", len(result.Results)),
		attribute.Int("catalog.total_pages", result.TotalPages),
	)
	log.Debug().
		Str("url", target).
		Int("results", len(result.Results)).
		Int("total_pages", result.TotalPages).
		Msg("catalog page fetched")
	return result, nil
}

func (c *Client) fetch(ctx context.Context, target string) (*entity.Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %w", ErrRequest, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRequest, err)
	}
	defer func() { _ = resp.Body.Close() }()

	trace.SpanFromContext(ctx).SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	body := io.LimitReader(resp.Body, maxBodySize)
	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp.StatusCode, body)
	}

	var payload characterPage
	if err := json.NewDecoder(body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedPayload, err)
	}
	return toPage(payload)
}

func statusError(status int, body io.Reader) error {
	var apiErr apiError
	detail := ""
	if err := json.NewDecoder(body).Decode(&apiErr); err == nil && apiErr.Error != "" {
		detail = ": " + apiErr.Error
	}
	if status == http.StatusNotFound {
		return fmt.Errorf("%w: %w: status %d%s", ErrNoMatches, ErrUnexpectedStatus, status, detail)
	}
	return fmt.Errorf("%w: status %d%s", ErrUnexpectedStatus, status, detail)
}

func toPage(payload characterPage) (*entity.Page, error) {
	results := payload.Results
	if results == nil {
		results = []entity.Character{}
	}

	total := payload.Info.Pages
	switch {
	case total < 0:
		return nil, fmt.Errorf("%w: negative page count %d", ErrMalformedPayload, total)
	case total == 0 && len(results) > 0:
		return nil, fmt.Errorf("%w: %d results but no page count", ErrMalformedPayload, len(results))
	case total == 0:
		total = 1
	}

	return &entity.Page{Results: results, TotalPages: total}, nil
}
