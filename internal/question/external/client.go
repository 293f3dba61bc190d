package external

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const defaultTimeout = 5 * time.Second

// StatusError is returned when a provider answers with a non-2xx status.
type StatusError struct {
	Provider string
	Code     int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s non-200: %d", e.Provider, e.Code)
}

// Retryable reports whether the provider asked us to back off or failed on its side.
func (e *StatusError) Retryable() bool {
	return e.Code == http.StatusTooManyRequests || e.Code >= http.StatusInternalServerError
}

type jsonGetter struct {
	provider   string
	baseURL    string
	httpClient *http.Client
	header     http.Header
}

func newJSONGetter(provider, baseURL, fallbackURL string, httpClient *http.Client) jsonGetter {
	if baseURL == "" {
		baseURL = fallbackURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return jsonGetter{
		provider:   provider,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
		header:     http.Header{},
	}
}

// get issues GET baseURL+path?query and decodes the JSON body into dst.
func (g jsonGetter) get(ctx context.Context, path, query string, dst interface{}) error {
	endpoint := g.baseURL + path
	if query != "" {
		endpoint += "?" + query
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("%s request: %w", g.provider, err)
	}
	req.Header.Set("Accept", "application/json")
	for k, vs := range g.header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s request: %w", g.provider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{Provider: g.provider, Code: resp.StatusCode}
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("%s decode: %w", g.provider, err)
	}
	return nil
}
