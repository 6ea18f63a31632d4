package signals

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sandevgo/briefbot/internal/core"
	"github.com/sandevgo/briefbot/pkg/retry"
)

const (
	maxResponseSize       = 2 << 20
	defaultRequestTimeout = 15 * time.Second
)

// getter performs bounded GET requests with retries on transport errors and 5xx answers.
type getter struct {
	client  *http.Client
	retrier *retry.Retrier
}

func newGetter(timeout time.Duration, retryCfg *retry.Config) *getter {
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	if retryCfg == nil {
		retryCfg = retry.NewDefaultConfig()
	}
	return &getter{
		client:  &http.Client{Timeout: timeout},
		retrier: retry.NewRetrier(retryCfg),
	}
}

func (g *getter) get(ctx context.Context, url string) ([]byte, error) {
	var body []byte
	err := g.retrier.Do(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return retry.Permanent(fmt.Errorf("failed to create request: %w", err))
		}
		req.Header.Set("User-Agent", core.BriefUserAgent)

		resp, err := g.client.Do(req)
		if err != nil {
			return fmt.Errorf("failed to fetch %s: %w", url, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 500 {
			return fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
		}
		if resp.StatusCode >= 400 {
			return retry.Permanent(fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status))
		}

		body, err = io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
		if err != nil {
			return fmt.Errorf("failed to read body: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return body, nil
}
