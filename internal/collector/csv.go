package collector

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/reddygautam98/Stock-Price-Prediction/internal/model"
)

// dateLayouts are tried in order when parsing the Date column.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05-07:00",
	"01/02/2006",
	"2006/01/02",
}

// CSVFetcher loads daily bars from a CSV file with a header row. Date and
// Close are required; Open, High, Low and Volume are optional.
type CSVFetcher struct {
	Path string
}

// NewCSVFetcher creates a fetcher reading from path.
func NewCSVFetcher(path string) *CSVFetcher {
	return &CSVFetcher{Path: path}
}

func (f *CSVFetcher) Name() string { return "csv" }

// FetchDailyBars reads the whole file; symbol is ignored.
func (f *CSVFetcher) FetchDailyBars(_ string, days int) ([]model.OHLCV, error) {
	file, err := os.Open(f.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", model.ErrMissingInput, f.Path, err)
	}
	defer file.Close()

	bars, err := ReadCSV(file)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.Path, err)
	}
	return trimToLast(bars, days), nil
}

// ReadCSV parses bars from r. Rows must already be in ascending date order.
func ReadCSV(r io.Reader) ([]model.OHLCV, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty file", model.ErrSchema)
		}
		return nil, fmt.Errorf("%w: read header: %v", model.ErrMissingInput, err)
	}
	cols := indexColumns(header)
	for _, required := range []string{"date", "close"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("%w: required column %q not found in header %v", model.ErrSchema, required, header)
		}
	}

	var bars []model.OHLCV
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", model.ErrSchema, line, err)
		}

		ts, err := parseDate(record[cols["date"]])
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", model.ErrSchema, line, err)
		}
		bar := model.OHLCV{Time: ts}
		if bar.Close, err = parsePrice(record[cols["close"]]); err != nil {
			return nil, fmt.Errorf("%w: line %d: close: %v", model.ErrSchema, line, err)
		}
		for name, dst := range map[string]*float64{
			"open": &bar.Open, "high": &bar.High, "low": &bar.Low, "volume": &bar.Volume,
		} {
			idx, ok := cols[name]
			if !ok || strings.TrimSpace(record[idx]) == "" {
				continue
			}
			if *dst, err = parsePrice(record[idx]); err != nil {
				return nil, fmt.Errorf("%w: line %d: %s: %v", model.ErrSchema, line, name, err)
			}
		}
		bars = append(bars, bar)
	}

	if err := Validate(bars); err != nil {
		return nil, err
	}
	return bars, nil
}

func indexColumns(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, dup := cols[key]; !dup {
			cols[key] = i
		}
	}
	return cols
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", s)
}

func parsePrice(s string) (float64, error) {
	d, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(s), ",", ""))
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	return d.InexactFloat64(), nil
}
