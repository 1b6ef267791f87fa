// Package marketdata contains the thin HTTP clients for the upstream price
// providers: stock quotes, crypto prices, fiat exchange rates, and precious
// metals. Each client owns its base URL, timeout, rate-limit gate and (where
// applicable) response cache. Clients return typed errors and never silently
// substitute values; graceful degradation is the currency converter's job.
package marketdata

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

	"github.com/nestfolio/nestfolio_backend/internal/apperrors"
)

// httpAPI is the shared request plumbing for the provider clients. It arms a
// per-request deadline and maps upstream failures onto the apperrors taxonomy.
type httpAPI struct {
	provider string
	baseURL  string
	timeout  time.Duration
	client   *http.Client
}

func newHTTPAPI(provider, baseURL string, timeout time.Duration) httpAPI {
	return httpAPI{
		provider: provider,
		baseURL:  baseURL,
		timeout:  timeout,
		client:   &http.Client{Timeout: timeout},
	}
}

// getJSON issues a GET against path with the given query parameters and
// decodes the 2xx response body into out.
func (a *httpAPI) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	reqURL := a.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("%s: create request: %w", a.provider, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			return fmt.Errorf("%w: %s did not answer within %s", apperrors.ErrTimeout, a.provider, a.timeout)
		}
		return fmt.Errorf("%s: request failed: %w", a.provider, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		// fall through to decode
	case resp.StatusCode == http.StatusNotFound:
		return apperrors.NewNotFoundError(a.provider + " reported " + path + " unknown")
	case resp.StatusCode == http.StatusTooManyRequests:
		return &apperrors.RateLimitError{Provider: a.provider, RetryAfter: retryAfter(resp)}
	default:
		return &apperrors.UpstreamError{Provider: a.provider, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s: read body: %w", a.provider, err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%s: decode response: %w", a.provider, err)
	}
	return nil
}

// probe runs a lightweight health request and reports the outcome without
// ever returning an error.
func (a *httpAPI) probe(ctx context.Context, path string, query url.Values) (latencyMS int64, errMsg string) {
	start := time.Now()
	var ignored json.RawMessage
	err := a.getJSON(ctx, path, query, &ignored)
	latencyMS = time.Since(start).Milliseconds()
	if err != nil {
		errMsg = err.Error()
	}
	return latencyMS, errMsg
}

func isTimeout(err error) bool {
	var urlErr *url.Error
	return errors.As(err, &urlErr) && urlErr.Timeout()
}

func retryAfter(resp *http.Response) time.Duration {
	header := resp.Header.Get("Retry-After")
	if header == "" {
		return 0
	}
	secs, err := strconv.Atoi(header)
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
