// Package fetch retrieves job pages over plain HTTP for content filtering.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go-easyapply-automation/internal/logger"
	"go-easyapply-automation/internal/models"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const maxBodyBytes = 8 << 20

type Options struct {
	Headers map[string]string
	// RatePerSec limits requests that miss the cache. Zero means 1/s.
	RatePerSec float64
	Timeout    time.Duration
	// Cache is optional.
	Cache *Cache
}

// Client fetches page bodies with fixed headers, a rate limit and an optional cache.
type Client struct {
	http    *http.Client
	headers map[string]string
	limiter *rate.Limiter
	cache   *Cache
	log     *zap.Logger
}

func NewClient(opts Options, log *zap.Logger) *Client {
	if opts.RatePerSec <= 0 {
		opts.RatePerSec = 1
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	return &Client{
		http:    &http.Client{Timeout: opts.Timeout},
		headers: opts.Headers,
		limiter: rate.NewLimiter(rate.Limit(opts.RatePerSec), 1),
		cache:   opts.Cache,
		log:     logger.OrNop(log).Named("fetch"),
	}
}

// Fetch returns the body of url. Network failures and non-2xx responses wrap ErrFetch.
func (c *Client) Fetch(ctx context.Context, url string) (string, error) {
	if c.cache != nil {
		body, ok, err := c.cache.Get(ctx, url)
		if err != nil {
			c.log.Warn("⚠️ Cache read failed", zap.String("url", url), zap.Error(err))
		} else if ok {
			c.log.Debug("💾 Cache hit", zap.String("url", url))
			return body, nil
		}
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("%w: %s: %v", models.ErrFetch, url, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", models.ErrFetch, url, err)
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", models.ErrFetch, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: %s: status %d", models.ErrFetch, url, resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("%w: %s: read body: %v", models.ErrFetch, url, err)
	}
	body := string(raw)

	if c.cache != nil {
		if err := c.cache.Put(ctx, url, body); err != nil {
			c.log.Warn("⚠️ Cache write failed", zap.String("url", url), zap.Error(err))
		}
	}
	return body, nil
}

func (c *Client) Close() error {
	if c.cache == nil {
		return nil
	}
	return c.cache.Close()
}
