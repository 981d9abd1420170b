package marketplace

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

	"go.uber.org/zap"

	"github.com/ftsampaio/sales-import/internal/domain/sale"
)

// maxResponseSize caps a single page payload at 10MB.
const maxResponseSize = 10 * 1024 * 1024

var (
	// ErrAuthExpired means the supplied credential was rejected. It is never
	// retried here; whoever provisions tokens has to re-authenticate.
	ErrAuthExpired = errors.New("marketplace credential rejected: re-authentication required")

	// ErrTransient wraps connectivity and server-side failures. The client
	// retries these with backoff before giving up.
	ErrTransient = errors.New("transient marketplace error")
)

// Options configures the orders client.
type Options struct {
	BaseURL      string
	SellerID     string
	PageSize     int
	Timeout      time.Duration
	MaxAttempts  int
	RetryBackoff time.Duration
}

// Client pages through the marketplace orders listing in cursor order. The
// cursor is the listing offset encoded as a string; the first page uses the
// empty cursor.
type Client struct {
	baseURL     string
	sellerID    string
	pageSize    int
	maxAttempts int
	backoff     time.Duration
	httpClient  *http.Client
	tokens      TokenProvider
	logger      *zap.Logger
}

func NewClient(opts Options, tokens TokenProvider, logger *zap.Logger) (*Client, error) {
	base := strings.TrimSpace(opts.BaseURL)
	if base == "" {
		return nil, errors.New("marketplace base URL is required")
	}
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("invalid marketplace base URL: %w", err)
	}
	if tokens == nil {
		return nil, errors.New("token provider is required")
	}

	if opts.PageSize <= 0 {
		opts.PageSize = 50
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 20 * time.Second
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 3
	}
	if opts.RetryBackoff <= 0 {
		opts.RetryBackoff = 500 * time.Millisecond
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		baseURL:     strings.TrimRight(base, "/"),
		sellerID:    opts.SellerID,
		pageSize:    opts.PageSize,
		maxAttempts: opts.MaxAttempts,
		backoff:     opts.RetryBackoff,
		httpClient:  &http.Client{Timeout: opts.Timeout},
		tokens:      tokens,
		logger:      logger,
	}, nil
}

// NextPage fetches one page of sales. Transient failures are retried up to
// MaxAttempts with increasing backoff; a rejected credential comes back as
// ErrAuthExpired immediately.
func (c *Client) NextPage(ctx context.Context, cursor string) (sale.Page, error) {
	offset := 0
	if cursor != "" {
		parsed, err := strconv.Atoi(cursor)
		if err != nil || parsed < 0 {
			return sale.Page{}, fmt.Errorf("invalid page cursor %q", cursor)
		}
		offset = parsed
	}

	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		page, err := c.fetch(ctx, offset)
		if err == nil {
			return page, nil
		}
		if !errors.Is(err, ErrTransient) {
			return sale.Page{}, err
		}

		lastErr = err
		c.logger.Warn("marketplace page fetch failed",
			zap.Int("offset", offset),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
		if attempt < c.maxAttempts {
			if !sleepWithContext(ctx, time.Duration(attempt)*c.backoff) {
				return sale.Page{}, ctx.Err()
			}
		}
	}
	return sale.Page{}, fmt.Errorf("fetch page at offset %d: %w", offset, lastErr)
}

func (c *Client) fetch(ctx context.Context, offset int) (sale.Page, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return sale.Page{}, fmt.Errorf("obtain credential: %w", err)
	}

	endpoint, err := url.Parse(c.baseURL + "/orders/search")
	if err != nil {
		return sale.Page{}, err
	}
	query := endpoint.Query()
	if c.sellerID != "" {
		query.Set("seller", c.sellerID)
	}
	query.Set("sort", "date_asc")
	query.Set("offset", strconv.Itoa(offset))
	query.Set("limit", strconv.Itoa(c.pageSize))
	endpoint.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return sale.Page{}, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return sale.Page{}, fmt.Errorf("%w: %v", ErrTransient, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return sale.Page{}, ErrAuthExpired
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return sale.Page{}, fmt.Errorf("%w: status %d", ErrTransient, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return sale.Page{}, fmt.Errorf("marketplace returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return sale.Page{}, fmt.Errorf("%w: read body: %v", ErrTransient, err)
	}

	var envelope pageEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return sale.Page{}, fmt.Errorf("decode page at offset %d: %w", offset, err)
	}

	sales := make([]sale.RawSale, 0, len(envelope.Results))
	for _, order := range envelope.Results {
		sales = append(sales, order.toDomain())
	}

	page := sale.Page{Sales: sales, Total: envelope.Paging.Total}
	next := offset + len(envelope.Results)
	if len(envelope.Results) > 0 && (envelope.Paging.Total <= 0 || next < envelope.Paging.Total) {
		page.NextCursor = strconv.Itoa(next)
	}
	return page, nil
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
