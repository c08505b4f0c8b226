package fetcher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/Zachdehooge/taiwan-weather-dashboard/internal/config"
)

// Dataset IDs on the CWB open data platform.
const (
	DatasetStations = "O-A0001-001"
	DatasetRainfall = "O-A0002-001"
	DatasetUV       = "O-A0005-001"
)

const userAgent = "taiwan-weather-dashboard/1.0 (github.com/Zachdehooge/taiwan-weather-dashboard)"

// ErrMissingToken is returned when no API token is configured.
var ErrMissingToken = errors.New("CWA_API_TOKEN is not set")

// Client reads observation datasets from the CWB open data API.
type Client struct {
	baseURL       string
	token         string
	rainfallLimit int
	httpClient    *http.Client
	logger        *slog.Logger
}

// NewClient creates a client from the dashboard configuration.
func NewClient(cfg *config.Config, logger *slog.Logger) *Client {
	return &Client{
		baseURL:       cfg.BaseURL,
		token:         cfg.APIToken,
		rainfallLimit: cfg.RainfallLimit,
		httpClient: &http.Client{
			Timeout:   cfg.FetchTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		logger: logger,
	}
}

// getRecords fetches one dataset and decodes its "records" object into out.
func (c *Client) getRecords(ctx context.Context, dataset string, params url.Values, out any) error {
	if c.token == "" {
		return ErrMissingToken
	}
	if params == nil {
		params = url.Values{}
	}
	params.Set("Authorization", c.token)
	u := fmt.Sprintf("%s/%s?%s", c.baseURL, dataset, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s request: %w", dataset, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s body: %w", dataset, err)
	}
	if resp.StatusCode != http.StatusOK {
		snip := body
		if len(snip) > 200 {
			snip = snip[:200]
		}
		return fmt.Errorf("%s returned HTTP %d: %s", dataset, resp.StatusCode, snip)
	}

	var envelope struct {
		Success flexString      `json:"success"`
		Records json.RawMessage `json:"records"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("decode %s: %w", dataset, err)
	}
	if envelope.Success == "false" {
		return fmt.Errorf("%s: API reported failure", dataset)
	}
	if len(envelope.Records) == 0 {
		return fmt.Errorf("%s: response has no records", dataset)
	}
	if err := json.Unmarshal(envelope.Records, out); err != nil {
		return fmt.Errorf("decode %s records: %w", dataset, err)
	}

	c.logger.Debug("fetched dataset", "dataset", dataset, "bytes", len(body), "elapsed", time.Since(start))
	return nil
}
