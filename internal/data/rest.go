package data

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/quantlab/signalrun/internal/domain/series"
)

// RESTSource fetches historical candles from an HTTP market-data API.
// The endpoint is expected to return a JSON array of candles in
// ascending time order; the response is validated before it reaches the
// engine so a misbehaving feed fails loudly here.
type RESTSource struct {
	BaseURL string
	Client  *http.Client
}

// Candles fetches up to limit candles for the instrument/interval.
func (s *RESTSource) Candles(ctx context.Context, asset, interval string, limit int) ([]series.Candle, error) {
	q := url.Values{}
	q.Set("asset", asset)
	q.Set("interval", interval)
	q.Set("limit", strconv.Itoa(limit))
	endpoint := strings.TrimRight(s.BaseURL, "/") + "/v1/candles?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build candle request: %w", err)
	}

	client := s.Client
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch candles %s/%s: %w", asset, interval, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch candles %s/%s: unexpected status %d", asset, interval, resp.StatusCode)
	}

	var candles []series.Candle
	if err := json.NewDecoder(resp.Body).Decode(&candles); err != nil {
		return nil, fmt.Errorf("decode candle response: %w", err)
	}
	if err := series.Validate(candles); err != nil {
		return nil, fmt.Errorf("candle feed %s/%s: %w", asset, interval, err)
	}
	return candles, nil
}
