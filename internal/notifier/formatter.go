package notifier

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"FibSentinel/internal/collector"
	"FibSentinel/internal/model"
)

// maxPreviousShown caps the structure history printed in a report.
const maxPreviousShown = 3

func money(cur string, v float64) string {
	return cur + humanize.FormatFloat("#,###.##", v)
}

// FormatAnalysisReport renders an analysis as a Telegram HTML message.
func FormatAnalysisReport(symbol string, a *model.Analysis, currency string) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📊 <b>%s</b> | Fibonacci structure | %s\n\n",
		html.EscapeString(symbol), time.Now().Format("2006-01-02")))

	if a.LastClose != nil {
		b.WriteString(fmt.Sprintf("Last close: %s\n", money(currency, *a.LastClose)))
	}
	if a.CurrentPrice != nil {
		b.WriteString(fmt.Sprintf("Live price: %s\n", money(currency, *a.CurrentPrice)))
	} else {
		b.WriteString("Live price: unavailable\n")
	}
	if n := len(a.SMA.Points); n > 0 {
		b.WriteString(fmt.Sprintf("SMA(%d): %s", a.SMA.Period, money(currency, a.SMA.Points[n-1].Value)))
		if sig := a.LatestSignal(); sig != nil {
			b.WriteString(fmt.Sprintf(" | last %s cross %s at %s",
				sig.Type, sig.Time.Format("2006-01-02"), money(currency, sig.Price)))
		}
		b.WriteString("\n")
	}
	if a.RSI != nil {
		b.WriteString(fmt.Sprintf("RSI: %.1f\n", *a.RSI))
	}

	if s := a.Structure; s != nil {
		b.WriteString(fmt.Sprintf("\n📐 <b>Market structure:</b> %s (%s)\n", s.Type, s.Breakout))
		b.WriteString(fmt.Sprintf("   Top %s | Bottom %s | 0.5 %s\n",
			money(currency, s.Top), money(currency, s.Bottom), money(currency, s.Fib05)))
		b.WriteString(fmt.Sprintf("   Bars %d → %d\n", s.StartIndex, s.EndIndex))
		writeLevels(&b, s.Levels, currency)
	}

	if o := a.OverallRetracement; o != nil {
		b.WriteString("\n📏 <b>Overall range:</b>\n")
		b.WriteString(fmt.Sprintf("   High %s (%s) | Low %s (%s)\n",
			money(currency, o.HighestHigh), o.HighestHighTime.Format("2006-01-02"),
			money(currency, o.LowestLow), o.LowestLowTime.Format("2006-01-02")))
		if a.RangePosition != nil {
			b.WriteString(fmt.Sprintf("   Close sits at %.0f%% of the range\n", *a.RangePosition*100))
		}
	}

	if n := len(a.PreviousStructures); n > 0 {
		b.WriteString(fmt.Sprintf("\n🕰 <b>Previous structures</b> (%s):\n", humanize.Comma(int64(n))))
		for i, p := range a.PreviousStructures {
			if i == maxPreviousShown {
				b.WriteString(fmt.Sprintf("   … and %d more\n", n-maxPreviousShown))
				break
			}
			b.WriteString(fmt.Sprintf("   %s %s→%s, 0.5 %s, %s\n",
				p.Type, money(currency, p.Bottom), money(currency, p.Top), money(currency, p.Fib05),
				humanize.RelTime(p.Time, lastBarTime(a, p.Time), "before latest", "after latest")))
		}
	}

	r := a.TradeReport
	b.WriteString(fmt.Sprintf("\n%s <b>Recommendation: %s</b>\n", tradeIcon(r.Type), strings.ToUpper(string(r.Type))))
	b.WriteString(html.EscapeString(r.Narrative))
	b.WriteString("\n")
	if r.StopLossReason != "" {
		b.WriteString("\n<i>" + html.EscapeString(r.StopLossReason) + "</i>\n")
	}

	if len(a.Issues) > 0 {
		b.WriteString("\n⚠️ ")
		issues := make([]string, len(a.Issues))
		for i, is := range a.Issues {
			issues[i] = issueText(is)
		}
		b.WriteString(strings.Join(issues, "; "))
		b.WriteString("\n")
	}
	return b.String()
}

func writeLevels(b *strings.Builder, levels model.FibLevels, currency string) {
	for _, ratio := range model.FibRatios {
		key := model.FibKey(ratio)
		if v, ok := levels[key]; ok {
			b.WriteString(fmt.Sprintf("   %s → %s\n", key, money(currency, v)))
		}
	}
}

func lastBarTime(a *model.Analysis, fallback time.Time) time.Time {
	if a.Structure != nil {
		return a.Structure.Time
	}
	return fallback
}

func tradeIcon(t model.TradeType) string {
	switch t {
	case model.TradeBuy:
		return "🟢"
	case model.TradeSell:
		return "🔴"
	default:
		return "⚪"
	}
}

func issueText(i model.Issue) string {
	switch i {
	case model.IssueInsufficientHistory:
		return "not enough price history"
	case model.IssueNoStructure:
		return "no complete swing structure"
	case model.IssueMissingInputs:
		return "live price or structure missing"
	}
	return string(i)
}

// FormatSymbols lists matching instruments, at most limit of them.
func FormatSymbols(query string, symbols []collector.Symbol, limit int) string {
	if len(symbols) == 0 {
		return fmt.Sprintf("No symbols match %q.", html.EscapeString(query))
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("🔎 <b>%d match(es)</b> for %s:\n", len(symbols), html.EscapeString(query)))
	for i, s := range symbols {
		if i == limit {
			b.WriteString(fmt.Sprintf("… and %d more\n", len(symbols)-limit))
			break
		}
		b.WriteString(fmt.Sprintf("<code>%s</code> %s [%s]\n",
			html.EscapeString(s.Symbol), html.EscapeString(s.Name), s.Exchange()))
	}
	return b.String()
}
