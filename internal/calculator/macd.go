package calculator

// MACD computes the MACD line, its signal line, and the two underlying EMAs.
//
// Both EMAs run from the first close, so macd[t] == emaFast[t]-emaSlow[t] for
// every reported t. MACD is reported from index slow-1 (the slow EMA has seen a
// full span) and the signal line from index slow+signal-2.
func MACD(closes []float64, fast, slow, signal int) (macd, sig, emaFast, emaSlow []float64) {
	n := len(closes)
	emaFast = EMA(closes, fast)
	emaSlow = EMA(closes, slow)

	raw := make([]float64, n)
	for t := range raw {
		raw[t] = emaFast[t] - emaSlow[t]
	}
	rawSignal := EMA(raw, signal)

	macd = undefinedSeries(n)
	sig = undefinedSeries(n)
	if fast <= 0 || slow <= 0 || signal <= 0 {
		return macd, sig, emaFast, emaSlow
	}
	for t := slow - 1; t < n; t++ {
		macd[t] = raw[t]
	}
	for t := slow + signal - 2; t < n; t++ {
		sig[t] = rawSignal[t]
	}
	return macd, sig, emaFast, emaSlow
}
