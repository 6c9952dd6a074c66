package notifier

import (
	"fmt"
	"html"
	"sort"
	"strings"
	"time"

	"github.com/reddygautam98/Stock-Price-Prediction/internal/model"
	"github.com/reddygautam98/Stock-Price-Prediction/internal/recorder"
)

// FormatReport formats a run report into a Telegram HTML message.
func FormatReport(rep *model.Report) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📈 <b>%s forecast</b> | %s\n\n", html.EscapeString(rep.Symbol), rep.StartedAt.Format("2006-01-02 15:04")))

	s := rep.Summary
	b.WriteString(fmt.Sprintf("Last close: %.2f (%s)\n", s.LastClose, s.LastDate.Format("2006-01-02")))
	b.WriteString(fmt.Sprintf("Range: %.2f ~ %.2f (position %.0f%%)\n", s.RangeLow, s.RangeHigh, s.RangePosition*100))
	b.WriteString(fmt.Sprintf("Daily return: %+.3f%% ± %.3f%% | Max drawdown: %.1f%%\n\n",
		s.AvgDailyReturn, s.StdDailyReturn, s.MaxDrawdownPct))

	li := rep.Latest
	b.WriteString("📊 <b>Indicators</b>\n")
	b.WriteString(fmt.Sprintf("  RSI: %.1f\n", li.RSI))
	b.WriteString(fmt.Sprintf("  MACD: %+.3f | Signal: %+.3f\n", li.MACD, li.Signal))
	b.WriteString(fmt.Sprintf("  Bollinger: %.2f / %.2f / %.2f\n", li.BBLower, li.BBMiddle, li.BBUpper))
	periods := make([]int, 0, len(li.MA))
	for p := range li.MA {
		periods = append(periods, p)
	}
	sort.Ints(periods)
	for _, p := range periods {
		b.WriteString(fmt.Sprintf("  MA%d: %.2f\n", p, li.MA[p]))
	}

	b.WriteString(fmt.Sprintf("\n🤖 <b>Model</b> %s, lookback %d on %s\n",
		html.EscapeString(rep.Predictor), rep.Lookback, html.EscapeString(strings.Join(rep.Features, ", "))))
	b.WriteString(fmt.Sprintf("  Test RMSE: %.4f | R²: %.4f (n=%d)\n", rep.Test.RMSE, rep.Test.R2, rep.Test.N))
	b.WriteString(fmt.Sprintf("  Train RMSE: %.4f | R²: %.4f (n=%d)\n", rep.Train.RMSE, rep.Train.R2, rep.Train.N))
	if n := len(rep.Predictions); n > 0 {
		last := rep.Predictions[n-1]
		b.WriteString(fmt.Sprintf("  Last: actual %.2f, predicted %.2f (%s)\n",
			last.Actual, last.Predicted, last.Date.Format("2006-01-02")))
	}

	for _, w := range rep.Warnings {
		b.WriteString(fmt.Sprintf("\n⚠️ %s", html.EscapeString(w)))
	}
	return b.String()
}

// FormatFailure formats a failed run.
func FormatFailure(symbol string, err error) string {
	return fmt.Sprintf("❌ <b>%s forecast failed</b>\n\n%s", html.EscapeString(symbol), html.EscapeString(err.Error()))
}

// FormatHistory lists recent runs, newest first.
func FormatHistory(symbol string, runs []recorder.RunSummary) string {
	if len(runs) == 0 {
		return fmt.Sprintf("No recorded runs for %s.", html.EscapeString(symbol))
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("🗂 <b>%s history</b>\n\n", html.EscapeString(symbol)))
	for _, r := range runs {
		b.WriteString(fmt.Sprintf("%s  %-11s RMSE %.4f\n",
			time.Unix(r.StartedAt, 0).UTC().Format("2006-01-02 15:04"), html.EscapeString(r.Predictor), r.TestRMSE))
	}
	return b.String()
}

// FormatHelp lists the chat commands.
func FormatHelp() string {
	return "Commands:\n• /run  run the forecast now\n• /last  show the latest report\n• /history  show recent runs\n• /help  show this list"
}
