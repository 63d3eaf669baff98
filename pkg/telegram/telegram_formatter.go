package telegram

import (
	"fmt"
	"strings"
	"time"

	"golang-token-sentry/internal/entity"
	"golang-token-sentry/internal/sentry/dto"
	"golang-token-sentry/pkg/utils"
)

// FormatSignalMessage builds the Markdown message for a freshly published
// signal.
func FormatSignalMessage(candidate dto.CandidateEvent, metrics dto.TokenMetrics, conviction dto.ConvictionResult) string {
	var builder strings.Builder

	icon, label := convictionLabel(conviction.Score)
	builder.WriteString(fmt.Sprintf("%s *%s CONVICTION SIGNAL* %s\n\n", icon, label, icon))

	symbol := candidate.Symbol
	if symbol == "" {
		symbol = "UNKNOWN"
	}
	builder.WriteString(fmt.Sprintf("💎 *$%s*", symbol))
	if candidate.Name != "" && !strings.EqualFold(candidate.Name, symbol) {
		builder.WriteString(fmt.Sprintf(" | %s", candidate.Name))
	}
	builder.WriteString("\n")
	builder.WriteString(fmt.Sprintf("`%s`\n\n", candidate.Address))

	builder.WriteString(fmt.Sprintf("🎯 *Conviction:* %.0f/100\n", conviction.Score))
	builder.WriteString(fmt.Sprintf("💰 *Price:* %s\n", formatUSD(metrics.PriceUSD)))
	builder.WriteString(fmt.Sprintf("💧 *Liquidity:* %s\n", formatUSD(metrics.LiquidityUSD)))
	builder.WriteString(fmt.Sprintf("📊 *Volume 24h:* %s\n", formatUSD(metrics.Volume24hUSD)))
	if !metrics.PairCreatedAt.IsZero() {
		builder.WriteString(fmt.Sprintf("⏱ *Age:* %s\n", utils.FormatAge(time.Since(metrics.PairCreatedAt))))
	}
	builder.WriteString(fmt.Sprintf("📡 *Source:* %s\n", candidate.Source))

	if len(conviction.Reasons) > 0 {
		builder.WriteString("\n🔑 *Why:*\n")
		for _, reason := range conviction.Reasons {
			builder.WriteString(fmt.Sprintf("  • %s\n", reason))
		}
	}

	return builder.String()
}

// FormatLifecycleAlertMessage builds the Markdown message for a lifecycle
// alert on a tracked signal.
func FormatLifecycleAlertMessage(alert dto.LifecycleAlert) string {
	var builder strings.Builder

	switch alert.Kind {
	case dto.AlertRugWarning:
		builder.WriteString("☠️ *RUG WARNING* ☠️\n\n")
	case dto.AlertPriceSpike, dto.AlertVolumeSpike:
		builder.WriteString(fmt.Sprintf("🚀 *%s*\n\n", alert.Kind))
	default:
		builder.WriteString(fmt.Sprintf("⚠️ *%s*\n\n", alert.Kind))
	}

	builder.WriteString(fmt.Sprintf("💎 *$%s*\n", alert.Symbol))
	builder.WriteString(fmt.Sprintf("`%s`\n\n", alert.Address))
	builder.WriteString(fmt.Sprintf("💰 *Price:* %s (%s)\n", formatUSD(alert.PriceUSD), formatPct(alert.PriceChangePct)))
	builder.WriteString(fmt.Sprintf("📊 *Volume 24h:* %s\n", formatPct(alert.VolumeChangePct)))
	builder.WriteString(fmt.Sprintf("💧 *Liquidity:* %s\n", formatPct(alert.LiquidityChangePct)))

	if alert.Kind == dto.AlertRugWarning {
		builder.WriteString("\n_Liquidity, volume and price are collapsing together. Assume exit liquidity is gone._\n")
	}

	return builder.String()
}

// FormatMilestoneMessage builds the Markdown message for a newly reached
// price milestone.
func FormatMilestoneMessage(symbol string, multiple, priceUSD, gainPct float64) string {
	var builder strings.Builder

	builder.WriteString(fmt.Sprintf("🏆 *$%s hit %sx* 🏆\n\n", symbol, trimFloat(multiple)))
	builder.WriteString(fmt.Sprintf("💰 *Price:* %s\n", formatUSD(priceUSD)))
	builder.WriteString(fmt.Sprintf("📈 *Gain since call:* %s\n", formatPct(gainPct)))

	return builder.String()
}

// FormatOutcomeMessage builds the Markdown message for a closed signal.
func FormatOutcomeMessage(outcome entity.SignalOutcome, symbol string, finalGainPct, peakGainPct float64, reason string) string {
	var builder strings.Builder

	switch outcome {
	case entity.SignalOutcomeWin:
		builder.WriteString(fmt.Sprintf("✅ *WIN | $%s*\n\n", symbol))
	case entity.SignalOutcomeLoss:
		builder.WriteString(fmt.Sprintf("❌ *LOSS | $%s*\n\n", symbol))
	default:
		builder.WriteString(fmt.Sprintf("⏳ *EXPIRED | $%s*\n\n", symbol))
	}

	builder.WriteString(fmt.Sprintf("📈 *Final:* %s\n", formatPct(finalGainPct)))
	builder.WriteString(fmt.Sprintf("🔝 *Peak:* %s\n", formatPct(peakGainPct)))
	if reason != "" {
		builder.WriteString(fmt.Sprintf("💬 %s\n", reason))
	}

	return builder.String()
}

// FormatDailyStatsMessage builds the daily performance summary.
func FormatDailyStatsMessage(since time.Time, stats dto.OutcomeStats) string {
	var builder strings.Builder

	builder.WriteString("📊 *Daily Signal Report* 📊\n\n")
	builder.WriteString(fmt.Sprintf("🗓 Since %s\n\n", utils.PrettyDate(since)))
	builder.WriteString(fmt.Sprintf("📣 *Published:* %d\n", stats.Published))
	builder.WriteString(fmt.Sprintf("⏳ *Still open:* %d\n", stats.Open))
	builder.WriteString(fmt.Sprintf("✅ *Wins:* %d\n", stats.Wins))
	builder.WriteString(fmt.Sprintf("❌ *Losses:* %d\n", stats.Losses))
	builder.WriteString(fmt.Sprintf("😴 *Expired:* %d\n", stats.Expired))

	if stats.Wins+stats.Losses > 0 {
		builder.WriteString(fmt.Sprintf("🎯 *Win rate:* %.0f%%\n", stats.WinRate*100))
	}
	if stats.AvgPeakGain != 0 {
		builder.WriteString(fmt.Sprintf("📈 *Avg peak gain:* %s\n", formatPct(stats.AvgPeakGain)))
	}
	if stats.BestGainPct != 0 {
		builder.WriteString(fmt.Sprintf("🏆 *Best call:* %s\n", formatPct(stats.BestGainPct)))
	}

	return builder.String()
}

func convictionLabel(score float64) (icon, label string) {
	switch {
	case score >= 90:
		return "🔥", "VERY HIGH"
	case score >= 80:
		return "🚀", "HIGH"
	case score >= 70:
		return "⭐", "STRONG"
	default:
		return "📈", "MODERATE"
	}
}

func formatUSD(v float64) string {
	switch {
	case v >= 1000:
		return "$" + addThousandSeparators(fmt.Sprintf("%.0f", v))
	case v >= 1:
		return fmt.Sprintf("$%.2f", v)
	case v >= 0.01:
		return fmt.Sprintf("$%.4f", v)
	default:
		return fmt.Sprintf("$%.8f", v)
	}
}

func formatPct(v float64) string {
	if v >= 0 {
		return fmt.Sprintf("+%.1f%%", v)
	}
	return fmt.Sprintf("%.1f%%", v)
}

func trimFloat(v float64) string {
	return strings.TrimSuffix(fmt.Sprintf("%.1f", v), ".0")
}

func addThousandSeparators(s string) string {
	var builder strings.Builder
	n := len(s)
	for i, ch := range s {
		if i > 0 && (n-i)%3 == 0 {
			builder.WriteByte(',')
		}
		builder.WriteRune(ch)
	}
	return builder.String()
}
