package data

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/quantlab/signalrun/internal/domain/series"
)

// CSVLoader reads candle series from CSV files with a
// time,open,high,low,close,volume header. Column order follows the
// header; unknown columns are ignored. Timestamps are epoch
// milliseconds (epoch seconds are scaled up when they look like
// seconds).
type CSVLoader struct{}

// LoadFile reads and validates a candle series from path.
func (CSVLoader) LoadFile(path string) ([]series.Candle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open candles file: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads candles from r and validates the series invariants.
func Parse(r io.Reader) ([]series.Candle, error) {
	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read CSV header: %w", err)
	}
	cols := mapColumns(header)
	for _, name := range []string{"time", "open", "high", "low", "close"} {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("CSV header missing %q column", name)
		}
	}

	var candles []series.Candle
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read CSV row: %w", err)
		}
		c, err := parseRecord(record, cols)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		candles = append(candles, c)
	}
	if err := series.Validate(candles); err != nil {
		return nil, err
	}
	return candles, nil
}

func mapColumns(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(name))
		switch key {
		case "timestamp", "date", "open_time":
			key = "time"
		case "vol":
			key = "volume"
		}
		cols[key] = i
	}
	return cols
}

func parseRecord(record []string, cols map[string]int) (series.Candle, error) {
	field := func(name string) (float64, error) {
		idx, ok := cols[name]
		if !ok || idx >= len(record) {
			return 0, nil
		}
		return strconv.ParseFloat(strings.TrimSpace(record[idx]), 64)
	}

	tIdx := cols["time"]
	if tIdx >= len(record) {
		return series.Candle{}, fmt.Errorf("missing time field")
	}
	ts, err := strconv.ParseInt(strings.TrimSpace(record[tIdx]), 10, 64)
	if err != nil {
		return series.Candle{}, fmt.Errorf("parse time: %w", err)
	}
	// Epoch seconds are promoted to milliseconds.
	if ts < 1e12 {
		ts *= 1000
	}

	c := series.Candle{Time: ts}
	if c.Open, err = field("open"); err != nil {
		return c, fmt.Errorf("parse open: %w", err)
	}
	if c.High, err = field("high"); err != nil {
		return c, fmt.Errorf("parse high: %w", err)
	}
	if c.Low, err = field("low"); err != nil {
		return c, fmt.Errorf("parse low: %w", err)
	}
	if c.Close, err = field("close"); err != nil {
		return c, fmt.Errorf("parse close: %w", err)
	}
	if c.Volume, err = field("volume"); err != nil {
		return c, fmt.Errorf("parse volume: %w", err)
	}
	return c, nil
}
