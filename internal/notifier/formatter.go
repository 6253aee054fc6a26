package notifier

import (
	"fmt"
	"strings"
	"time"

	"PriceSentinel/internal/calculator"
	"PriceSentinel/internal/model"
	"PriceSentinel/internal/portfolio"
	"PriceSentinel/internal/registry"
)

// FormatPriceAlert formats an alert firing into a Telegram message.
func FormatPriceAlert(inst model.Instrument, price, threshold float64) string {
	var b strings.Builder
	b.WriteString("🚨 <b>Price Alert</b> 🚨\n\n")
	b.WriteString(fmt.Sprintf("📉 %s\n", inst))
	b.WriteString(fmt.Sprintf("💵 Current: $%.2f\n", price))
	b.WriteString(fmt.Sprintf("🎯 Target: $%.2f\n\n", threshold))
	b.WriteString("Price reached your alert level.")
	return b.String()
}

// rsiTag renders an RSI reading the way the daily report shows it.
func rsiTag(rsi float64, ok bool) string {
	if !ok {
		return "Neutral"
	}
	switch {
	case rsi >= 70:
		return fmt.Sprintf("Overbought (%.0f)", rsi)
	case rsi <= 30:
		return fmt.Sprintf("Oversold (%.0f)", rsi)
	default:
		return fmt.Sprintf("Neutral (%.0f)", rsi)
	}
}

// FormatDailyReport formats the morning portfolio report: net worth, total
// profit, best and worst movers, and per-instrument RSI readings from the
// cached series.
func FormatDailyReport(assets []portfolio.Asset, snapshot map[model.Instrument]model.CacheEntry, rsiPeriod int) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("☀️ <b>Morning Report</b> | %s\n\n", time.Now().Format("02 Jan 2006")))

	var totalValue, totalCost float64
	type mover struct {
		inst model.Instrument
		chg  float64
	}
	var movers []mover

	for _, a := range assets {
		inst := registry.Normalize(a.Ticker)
		entry, ok := snapshot[inst]
		price := a.AvgCost
		if ok && entry.LastPrice > 0 {
			price = entry.LastPrice
		}
		totalValue += price * a.Shares
		totalCost += a.AvgCost * a.Shares
		if ok && entry.LastPrice > 0 && a.AvgCost > 0 {
			movers = append(movers, mover{inst, (entry.LastPrice - a.AvgCost) / a.AvgCost * 100})
		}
	}

	profit := totalValue - totalCost
	pct := 0.0
	if totalCost > 0 {
		pct = profit / totalCost * 100
	}
	b.WriteString(fmt.Sprintf("💰 <b>Net Worth:</b> $%.2f\n", totalValue))
	b.WriteString(fmt.Sprintf("📈 <b>Profit:</b> $%.2f (%+.2f%%)\n", profit, pct))

	if len(movers) > 0 {
		best, worst := movers[0], movers[0]
		for _, m := range movers[1:] {
			if m.chg > best.chg {
				best = m
			}
			if m.chg < worst.chg {
				worst = m
			}
		}
		b.WriteString("──────────────\n")
		b.WriteString(fmt.Sprintf("🏆 Best: %s (%+.1f%%)\n", best.inst, best.chg))
		b.WriteString(fmt.Sprintf("📉 Worst: %s (%+.1f%%)\n", worst.inst, worst.chg))
	}

	if len(snapshot) > 0 {
		b.WriteString("──────────────\n")
		b.WriteString("📊 <b>Signals:</b>\n")
		for _, a := range assets {
			inst := registry.Normalize(a.Ticker)
			entry, ok := snapshot[inst]
			if !ok {
				continue
			}
			rsi, computable, err := calculator.RSI(entry.Series.Closes(), rsiPeriod)
			if err != nil {
				continue
			}
			arrow := "🔻"
			if calculator.IsUp(entry.Series.Bars) {
				arrow = "🔺"
			}
			b.WriteString(fmt.Sprintf("  %s %s: $%.2f | RSI %s\n", arrow, inst, entry.LastPrice, rsiTag(rsi, computable)))
		}
	}

	return b.String()
}
