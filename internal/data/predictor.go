package data

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/quantlab/signalrun/internal/application"
	"github.com/quantlab/signalrun/internal/domain/series"
)

// RESTPredictor consults an external model service over HTTP. It posts
// the candle window and expects a direction/confidence verdict back.
// The throttling and breaker policy lives in the caller's gate, not
// here; this client only speaks the wire protocol.
type RESTPredictor struct {
	Endpoint string
	Client   *http.Client
}

type predictRequest struct {
	Candles []series.Candle `json:"candles"`
}

// Predict posts the window to the model endpoint.
func (p *RESTPredictor) Predict(ctx context.Context, candles []series.Candle) (application.Verdict, error) {
	body, err := json.Marshal(predictRequest{Candles: candles})
	if err != nil {
		return application.Verdict{}, fmt.Errorf("encode predict request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.Endpoint, bytes.NewReader(body))
	if err != nil {
		return application.Verdict{}, fmt.Errorf("build predict request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := p.Client
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	resp, err := client.Do(req)
	if err != nil {
		return application.Verdict{}, fmt.Errorf("predict %s: %w", p.Endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return application.Verdict{}, fmt.Errorf("predict %s: unexpected status %d", p.Endpoint, resp.StatusCode)
	}

	var verdict application.Verdict
	if err := json.NewDecoder(resp.Body).Decode(&verdict); err != nil {
		return application.Verdict{}, fmt.Errorf("decode predict response: %w", err)
	}
	return verdict, nil
}
