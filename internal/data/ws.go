package data

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/quantlab/signalrun/internal/domain/series"
)

// WSStream subscribes to closed-candle frames over a WebSocket feed.
// Each Subscribe dials its own connection tied to the caller's context;
// cancelling the context closes the connection and the output channel,
// which is what lets the streaming evaluator switch instruments without
// leaking stale subscriptions.
type WSStream struct {
	BaseURL     string
	DialTimeout time.Duration
}

// candleFrame is the wire format for one closed candle.
type candleFrame struct {
	Time   int64   `json:"t"`
	Open   float64 `json:"o"`
	High   float64 `json:"h"`
	Low    float64 `json:"l"`
	Close  float64 `json:"c"`
	Volume float64 `json:"v"`
	Closed bool    `json:"x"`
}

// Candle converts the frame to the domain type.
func (f candleFrame) Candle() series.Candle {
	return series.Candle{
		Time:   f.Time,
		Open:   f.Open,
		High:   f.High,
		Low:    f.Low,
		Close:  f.Close,
		Volume: f.Volume,
	}
}

// Subscribe dials the feed for the instrument/interval and delivers only
// closed candles. The channel closes on context cancellation or read
// error; callers resubscribe if they want the stream back.
func (s *WSStream) Subscribe(ctx context.Context, asset, interval string) (<-chan series.Candle, error) {
	endpoint, err := s.streamURL(asset, interval)
	if err != nil {
		return nil, err
	}

	dialer := websocket.Dialer{HandshakeTimeout: s.DialTimeout}
	if dialer.HandshakeTimeout <= 0 {
		dialer.HandshakeTimeout = 10 * time.Second
	}
	conn, _, err := dialer.DialContext(ctx, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", endpoint, err)
	}

	out := make(chan series.Candle)
	go func() {
		// Unblocks the read loop when the subscription is cancelled.
		<-ctx.Done()
		conn.Close()
	}()
	go func() {
		defer close(out)
		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				if ctx.Err() == nil {
					log.Warn().Err(err).Str("asset", asset).Msg("candle stream closed")
				}
				return
			}
			var frame candleFrame
			if err := json.Unmarshal(msg, &frame); err != nil {
				log.Debug().Err(err).Msg("skipping undecodable stream frame")
				continue
			}
			if !frame.Closed {
				continue
			}
			select {
			case out <- frame.Candle():
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

func (s *WSStream) streamURL(asset, interval string) (string, error) {
	base, err := url.Parse(s.BaseURL)
	if err != nil {
		return "", fmt.Errorf("parse stream base URL: %w", err)
	}
	base.Path = fmt.Sprintf("/ws/%s@kline_%s", strings.ToLower(asset), interval)
	return base.String(), nil
}
