package rates

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// DefaultAPIURL serves /v6/latest/<BASE>.
const DefaultAPIURL = "https://open.er-api.com"

type latestResponse struct {
	Result    string             `json:"result"`
	ErrorType string             `json:"error-type"`
	BaseCode  string             `json:"base_code"`
	Rates     map[string]float64 `json:"rates"`
}

// HTTPProvider fetches rates from an open.er-api.com compatible endpoint.
type HTTPProvider struct {
	client *resty.Client
}

// NewHTTPProvider creates a provider for apiURL. A zero timeout keeps
// resty's default.
func NewHTTPProvider(apiURL string, timeout time.Duration) *HTTPProvider {
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	client := resty.New().
		SetBaseURL(strings.TrimRight(apiURL, "/")).
		SetHeader("Accept", "application/json").
		SetRetryCount(2).
		SetRetryWaitTime(200 * time.Millisecond)
	if timeout > 0 {
		client.SetTimeout(timeout)
	}
	return &HTTPProvider{client: client}
}

// Rates implements Provider.
func (p *HTTPProvider) Rates(ctx context.Context, base string) (map[string]float64, error) {
	var body latestResponse
	resp, err := p.client.R().
		SetContext(ctx).
		SetPathParam("base", strings.ToUpper(base)).
		ForceContentType("application/json").
		SetResult(&body).
		Get("/v6/latest/{base}")
	if err != nil {
		return nil, fmt.Errorf("failed to request rates for %s: %w", base, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("failed to fetch rates for %s, status code: %d", base, resp.StatusCode())
	}
	if body.Result != "success" {
		return nil, fmt.Errorf("rate api returned %q for %s: %s", body.Result, base, body.ErrorType)
	}
	if len(body.Rates) == 0 {
		return nil, fmt.Errorf("rate api returned no rates for %s", base)
	}
	return body.Rates, nil
}
