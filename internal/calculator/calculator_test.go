package calculator

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/reddygautam98/Stock-Price-Prediction/internal/model"
)

func assertClose(t *testing.T, label string, got, want, tol float64) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Errorf("%s: got %.6f, want %.6f (tol=%.6f, diff=%.6f)", label, got, want, tol, math.Abs(got-want))
	}
}

func linearCloses(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 100 + float64(i)
	}
	return out
}

func flatCloses(n int, price float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = price
	}
	return out
}

func randomWalk(n int, seed int64) []float64 {
	rng := rand.New(rand.NewSource(seed))
	out := make([]float64, n)
	price := 100.0
	for i := range out {
		price *= 1 + (rng.Float64()-0.5)*0.04
		out[i] = price
	}
	return out
}

func TestCalculateSMA(t *testing.T) {
	got, err := CalculateSMA([]float64{1, 2, 3, 4, 5}, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertClose(t, "SMA(3)", got, 4, 1e-12)

	if _, err := CalculateSMA([]float64{1, 2}, 3); err == nil {
		t.Error("expected error for short input")
	}
	if _, err := CalculateSMA([]float64{1, 2}, 0); err == nil {
		t.Error("expected error for zero period")
	}
}

func TestSMA_Correctness_Period3(t *testing.T) {
	// (100+102+104)/3 = 102, (102+104+103)/3 = 103, (104+103+105)/3 = 104
	got := SMA([]float64{100, 102, 104, 103, 105}, 3)
	want := []float64{0, 0, 102, 103, 104}
	for i := range got {
		if i < 2 {
			if model.Defined(got[i]) {
				t.Errorf("index %d: expected undefined, got %v", i, got[i])
			}
			continue
		}
		assertClose(t, "SMA(3)", got[i], want[i], 1e-9)
	}
}

func TestEMA_SeededByFirstValue(t *testing.T) {
	// span 3 → alpha 0.5: 10, 0.5*12+0.5*10 = 11, 0.5*11+0.5*11 = 11
	got := EMA([]float64{10, 12, 11}, 3)
	want := []float64{10, 11, 11}
	for i := range want {
		assertClose(t, "EMA(3)", got[i], want[i], 1e-12)
	}
	if len(EMA(nil, 3)) != 0 {
		t.Error("expected empty EMA for empty input")
	}
}

func TestRSI_KnownValues(t *testing.T) {
	// period 2: t=2 deltas +1,-1 → RS 1 → 50; t=3 deltas -1,+2 → RS 2 → 66.67
	got := RSI([]float64{1, 2, 1, 3}, 2)
	if model.Defined(got[0]) || model.Defined(got[1]) {
		t.Fatalf("expected first two rows undefined, got %v", got[:2])
	}
	assertClose(t, "RSI t=2", got[2], 50, 1e-9)
	assertClose(t, "RSI t=3", got[3], 200.0/3.0, 1e-9)
}

func TestRSI_RangeAndWarmup(t *testing.T) {
	closes := randomWalk(300, 7)
	rsi := RSI(closes, 14)
	for i, v := range rsi {
		if i < 14 {
			if model.Defined(v) {
				t.Fatalf("row %d: expected undefined RSI, got %v", i, v)
			}
			continue
		}
		if !model.Defined(v) {
			t.Fatalf("row %d: expected defined RSI", i)
		}
		if v < 0 || v > 100 {
			t.Fatalf("row %d: RSI %v out of [0,100]", i, v)
		}
	}
}

func TestRSI_RisingSeriesSaturates(t *testing.T) {
	rsi := RSI(linearCloses(100), 14)
	for i, v := range rsi {
		if i < 14 {
			if model.Defined(v) {
				t.Fatalf("row %d: expected undefined RSI", i)
			}
			continue
		}
		if v != 100 {
			t.Fatalf("row %d: expected saturated RSI 100, got %v", i, v)
		}
	}
}

func TestRSI_FlatSeriesUndefined(t *testing.T) {
	for i, v := range RSI(flatCloses(60, 50), 14) {
		if model.Defined(v) {
			t.Fatalf("row %d: expected undefined RSI for flat series, got %v", i, v)
		}
	}
}

func TestMACD_EqualsEMADifference(t *testing.T) {
	closes := randomWalk(200, 11)
	macd, sig, fast, slow := MACD(closes, 12, 26, 9)
	for i := range closes {
		if i < 25 {
			if model.Defined(macd[i]) {
				t.Fatalf("row %d: expected undefined MACD", i)
			}
		} else if macd[i] != fast[i]-slow[i] {
			t.Fatalf("row %d: MACD %v != EMA12-EMA26 %v", i, macd[i], fast[i]-slow[i])
		}
		if i < 33 {
			if model.Defined(sig[i]) {
				t.Fatalf("row %d: expected undefined signal", i)
			}
		} else if !model.Defined(sig[i]) {
			t.Fatalf("row %d: expected defined signal", i)
		}
	}

	wantFast := EMA(closes, 12)
	wantSlow := EMA(closes, 26)
	for i := range closes {
		if fast[i] != wantFast[i] || slow[i] != wantSlow[i] {
			t.Fatalf("row %d: MACD EMAs differ from EMA()", i)
		}
	}
}

func TestMACD_RisingSeriesPositiveAndGrowing(t *testing.T) {
	macd, _, _, _ := MACD(linearCloses(100), 12, 26, 9)
	prev := math.Inf(-1)
	for i := 25; i < len(macd); i++ {
		if macd[i] <= 0 {
			t.Fatalf("row %d: expected positive MACD, got %v", i, macd[i])
		}
		if macd[i] <= prev {
			t.Fatalf("row %d: expected growing MACD, got %v after %v", i, macd[i], prev)
		}
		prev = macd[i]
	}
}

func TestBollinger_WidthIsFourSigma(t *testing.T) {
	closes := randomWalk(120, 3)
	mid, upper, lower := Bollinger(closes, 20, 2)
	std := RollingStd(closes, 20)
	for i := range closes {
		if i < 19 {
			if model.Defined(mid[i]) || model.Defined(upper[i]) || model.Defined(lower[i]) {
				t.Fatalf("row %d: expected undefined bands", i)
			}
			continue
		}
		assertClose(t, "band width", upper[i]-lower[i], 4*std[i], 1e-9)
		assertClose(t, "middle", (upper[i]+lower[i])/2, mid[i], 1e-9)
	}
}

func TestBollinger_FlatSeriesCollapses(t *testing.T) {
	mid, upper, lower := Bollinger(flatCloses(40, 50), 20, 2)
	for i := 19; i < 40; i++ {
		if mid[i] != 50 || upper[i] != 50 || lower[i] != 50 {
			t.Fatalf("row %d: expected bands at 50, got %v/%v/%v", i, lower[i], mid[i], upper[i])
		}
	}
}

func TestCompute_AllColumns(t *testing.T) {
	closes := linearCloses(250)
	set, err := Compute(closes, DefaultWindows())
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	for name, col := range map[string][]float64{
		"rsi": set.RSI, "macd": set.MACD, "signal": set.Signal,
		"bb_middle": set.BBMiddle, "bb_upper": set.BBUpper, "bb_lower": set.BBLower,
		"ma_50": set.MA[50], "ma_200": set.MA[200],
	} {
		if len(col) != len(closes) {
			t.Errorf("%s: length %d, want %d", name, len(col), len(closes))
		}
	}
	if got := model.FirstDefined(set.MA[200]); got != 199 {
		t.Errorf("MA_200 first defined at %d, want 199", got)
	}
	if closes[0] != 100 {
		t.Error("input series was modified")
	}
}

func TestWindows_Validate(t *testing.T) {
	w := DefaultWindows()
	if err := w.Validate(); err != nil {
		t.Fatalf("default windows invalid: %v", err)
	}
	w.MACDFast = 30
	if err := w.Validate(); err == nil {
		t.Error("expected error when fast span >= slow span")
	}
	w = DefaultWindows()
	w.BollingerPeriod = 1
	if err := w.Validate(); err == nil {
		t.Error("expected error for bollinger period 1")
	}
	if got := DefaultWindows().Largest(); got != 200 {
		t.Errorf("Largest() = %d, want 200", got)
	}
}

func TestLatest(t *testing.T) {
	closes := linearCloses(60)
	set, err := Compute(closes, DefaultWindows())
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	li := Latest(closes, set)
	if li.RSI != 100 {
		t.Errorf("latest RSI = %v, want 100", li.RSI)
	}
	assertClose(t, "latest MA_50", li.MA[50], 134.5, 1e-9)
	if _, ok := li.MA[200]; ok {
		t.Error("MA_200 should be absent for a 60-row series")
	}
}

func TestCalculateRangeAndPosition(t *testing.T) {
	now := time.Now()
	bars := []model.OHLCV{
		{Time: now, High: 12, Low: 9, Close: 10},
		{Time: now.AddDate(0, 0, 1), High: 15, Low: 11, Close: 14},
		{Time: now.AddDate(0, 0, 2), Close: 13},
	}
	high, low, err := CalculateRange(bars, 2)
	if err != nil {
		t.Fatalf("range: %v", err)
	}
	if high != 15 || low != 11 {
		t.Errorf("range = %v/%v, want 15/11", high, low)
	}
	pos, err := CalculatePosition(13, high, low)
	if err != nil {
		t.Fatalf("position: %v", err)
	}
	assertClose(t, "position", pos, 0.5, 1e-12)
	if pos, _ := CalculatePosition(5, 5, 5); pos != 0.5 {
		t.Errorf("flat range position = %v, want 0.5", pos)
	}
	if _, _, err := CalculateRange(nil, 5); err == nil {
		t.Error("expected error for empty bars")
	}
}

func TestSummarize(t *testing.T) {
	now := time.Now()
	bars := []model.OHLCV{
		{Time: now, Close: 100, Volume: 1},
		{Time: now.AddDate(0, 0, 1), Close: 110, Volume: 2},
		{Time: now.AddDate(0, 0, 2), Close: 99, Volume: 3},
	}
	s := Summarize(bars)
	if s.Rows != 3 || s.LastClose != 99 {
		t.Fatalf("unexpected summary header: %+v", s)
	}
	assertClose(t, "avg return", s.AvgDailyReturn, 0, 1e-9)
	assertClose(t, "std return", s.StdDailyReturn, 10, 1e-9)
	assertClose(t, "max drawdown", s.MaxDrawdownPct, 10, 1e-9)
	if s.RangeHigh != 110 || s.RangeLow != 99 {
		t.Errorf("range = %v/%v, want 110/99", s.RangeHigh, s.RangeLow)
	}
}
