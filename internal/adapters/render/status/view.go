package status

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/bnema/wallet-resources/internal/application"
	"github.com/bnema/wallet-resources/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

const barWidth = 24

type RenderOptions struct {
	Now        time.Time
	StaleAfter time.Duration
}

func renderSection(sec section, status application.Status, opts RenderOptions, s styles) sectionMsg {
	agg := status.Aggregates

	switch sec {
	case sectionPowerUp:
		return sectionMsg{
			section: sec,
			body:    renderPowerUp(agg.PowerUp, opts, s),
			market:  true,
			ready:   agg.PowerUp.Ready,
			stale:   agg.PowerUp.Ready && isStale(agg.PowerUp.Updated, opts),
		}
	case sectionREX:
		return sectionMsg{
			section: sec,
			body:    renderREX(agg.REX, opts, s),
			market:  true,
			ready:   agg.REX.Ready,
			stale:   !agg.REX.Updated.IsZero() && isStale(agg.REX.Updated, opts),
		}
	case sectionStaking:
		return sectionMsg{
			section: sec,
			body:    renderStaking(agg.Staking, opts, s),
			market:  true,
			ready:   agg.Staking.Ready,
			stale:   agg.Staking.Ready && isStale(agg.Staking.Updated, opts),
		}
	case sectionAccount:
		return sectionMsg{section: sec, body: renderAccount(*status.Account, s)}
	default:
		return sectionMsg{section: sec, body: renderTokens(status.Tokens, status.Balances, s)}
	}
}

func renderPowerUp(agg application.PowerUpAggregates, opts RenderOptions, s styles) string {
	parts := []string{s.market.Render("PowerUp")}
	if !agg.Ready {
		return lipgloss.JoinVertical(lipgloss.Left, append(parts, s.empty.Render("waiting for first snapshot"))...)
	}

	parts = append(parts,
		usageLine("utilization:", agg.Utilization*100, s)+" "+
			s.meta.Render(fmt.Sprintf("(adjusted %.1f%%)", agg.AdjustedRatio*100)),
		s.detail.Render(fmt.Sprintf("price: %s", s.price.Render(perMs(agg.PricePerMs)))),
		s.detail.Render(fmt.Sprintf("available: %s/day, shifted ratio %.2f%%", formatMs(agg.AvailableMs), agg.ShiftedRatio)),
		s.detail.Render(fmt.Sprintf("min fee: %s", agg.MinPowerUpFee)),
		updatedLine(agg.Updated, opts, s),
	)

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func renderREX(agg application.REXAggregates, opts RenderOptions, s styles) string {
	parts := []string{s.market.Render("REX")}
	if agg.Updated.IsZero() {
		return lipgloss.JoinVertical(lipgloss.Left, append(parts, s.empty.Render("waiting for first snapshot"))...)
	}

	parts = append(parts, usageLine("utilization:", agg.Utilization*100, s))
	if agg.Ready {
		parts = append(parts,
			s.detail.Render(fmt.Sprintf("price: %s", s.price.Render(perMs(agg.PricePerMs)))),
			s.detail.Render(fmt.Sprintf("ms per token: %.4f", agg.MsPerToken)),
		)
	} else {
		parts = append(parts, s.empty.Render("price: n/a (needs staking sample and PowerUp state)"))
	}
	parts = append(parts, updatedLine(agg.Updated, opts, s))

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func renderStaking(agg application.StakingAggregates, opts RenderOptions, s styles) string {
	parts := []string{s.market.Render("Staking")}
	if !agg.Ready {
		return lipgloss.JoinVertical(lipgloss.Left, append(parts, s.empty.Render("no sample account"))...)
	}

	parts = append(parts,
		s.detail.Render(fmt.Sprintf("ms per token: %.4f", agg.MsPerToken)),
		s.detail.Render(fmt.Sprintf("net bytes per token: %.0f", agg.Sample.NET)),
		s.meta.Render(fmt.Sprintf("sampled from %s", agg.Sample.Account)),
		updatedLine(agg.Updated, opts, s),
	)

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func renderAccount(resp application.AccountResponse, s styles) string {
	account := resp.Account
	title := s.market.Render(fmt.Sprintf("Account %s", account.Name))
	if resp.Stale {
		title += " " + s.warning.Render("[stale]")
	}

	parts := []string{title}
	if resp.Error != nil {
		parts = append(parts, s.warning.Render(fmt.Sprintf("refresh failed: %v", resp.Error)))
	}
	if resp.Updated.IsZero() {
		return lipgloss.JoinVertical(lipgloss.Left, parts...)
	}

	parts = append(parts,
		limitLine("cpu:", account.CPULimit, func(v int64) string { return formatMs(float64(v) / 1000) }, s),
		limitLine("net:", account.NetLimit, formatBytes, s),
		limitLine("ram:", domain.ResourceLimit{Used: account.RAMUsage, Max: account.RAMQuota}, formatBytes, s),
	)
	if !account.CoreLiquidBalance.IsZero() {
		parts = append(parts, s.detail.Render(fmt.Sprintf("liquid: %s", account.CoreLiquidBalance)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func limitLine(label string, limit domain.ResourceLimit, format func(int64) string, s styles) string {
	if limit.Max <= 0 {
		return s.key.Render(label) + " " + s.empty.Render("n/a")
	}

	used := float64(limit.Used) / float64(limit.Max) * 100
	return usageLine(label, used, s) + " " +
		s.meta.Render(fmt.Sprintf("(%s / %s)", format(limit.Used), format(limit.Max)))
}

func renderTokens(tokens []domain.Token, balances []domain.Balance, s styles) string {
	parts := []string{s.market.Render("Tokens")}
	if len(tokens) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, append(parts, s.empty.Render("No tracked tokens."))...)
	}

	byKey := make(map[domain.TokenKey]domain.Balance, len(balances))
	for _, balance := range balances {
		byKey[balance.Key] = balance
	}

	for _, token := range tokens {
		line := s.key.Render(fmt.Sprintf("%-8s", token.Symbol.Code))
		balance, ok := byKey[token.Key]
		if ok {
			line += " " + s.detail.Render(balance.Asset.String())
			if value, priced := balance.Value(token); priced {
				line += " " + s.price.Render(fmt.Sprintf("≈ %.2f", value))
			}
		} else {
			line += " " + s.empty.Render("no balance")
		}
		if token.Price != nil {
			line += " " + s.meta.Render(fmt.Sprintf("@ %.4f", *token.Price))
		}
		parts = append(parts, line)
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func usageLine(label string, usedPercent float64, s styles) string {
	leftPercent := clampPercent(100 - usedPercent)
	percentStyle := lipgloss.NewStyle().Foreground(interpolateColor(leftPercent, 0, 100))

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.key.Render(label),
		" ",
		renderProgressBar(usedPercent, barWidth, s),
		" ",
		percentStyle.Render(fmt.Sprintf("%2.0f%% free", leftPercent)),
	)
}

func updatedLine(updated time.Time, opts RenderOptions, s styles) string {
	if opts.Now.IsZero() || updated.IsZero() {
		return s.barTextFaint.Render("updated " + updated.Format(time.RFC3339))
	}

	line := s.barTextFaint.Render("updated " + formatAge(opts.Now.Sub(updated)))
	if isStale(updated, opts) {
		line += " " + s.warning.Render("[stale]")
	}
	return line
}

func isStale(updated time.Time, opts RenderOptions) bool {
	if opts.Now.IsZero() || updated.IsZero() || opts.StaleAfter <= 0 {
		return false
	}
	return opts.Now.Sub(updated) > opts.StaleAfter
}

func renderProgressBar(usedPercent float64, width int, s styles) string {
	if width <= 0 {
		return ""
	}

	used := clampPercent(usedPercent)
	leftFraction := (100.0 - used) / 100.0
	filled := int(math.Round(float64(width) * leftFraction))
	if filled < 0 {
		filled = 0
	}
	if filled > width {
		filled = width
	}

	empty := width - filled
	fillSegment := s.barFill.Render(strings.Repeat("=", filled))
	emptySegment := s.barEmpty.Render(strings.Repeat("-", empty))

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.barBracket.Render("["),
		fillSegment,
		emptySegment,
		s.barBracket.Render("]"),
	)
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func perMs(fee domain.Asset) string {
	if fee.IsZero() {
		return "n/a"
	}
	return fee.String() + "/ms"
}

func formatMs(ms float64) string {
	switch {
	case ms >= 1000*60:
		return fmt.Sprintf("%.1f min", ms/1000/60)
	case ms >= 1000:
		return fmt.Sprintf("%.1f s", ms/1000)
	default:
		return fmt.Sprintf("%.2f ms", ms)
	}
}

func formatBytes(v int64) string {
	const unit = 1024
	if v < unit {
		return fmt.Sprintf("%d B", v)
	}
	div, exp := int64(unit), 0
	for n := v / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(v)/float64(div), "KMGTPE"[exp])
}

func formatAge(age time.Duration) string {
	switch {
	case age < time.Second:
		return "just now"
	case age < time.Minute:
		return fmt.Sprintf("%ds ago", int(age.Seconds()))
	case age < time.Hour:
		return fmt.Sprintf("%dm ago", int(age.Minutes()))
	default:
		return fmt.Sprintf("%dh ago", int(age.Hours()))
	}
}

func shortChainID(id domain.ChainID) string {
	if len(id) <= 12 {
		return string(id)
	}
	return string(id[:12])
}

func interpolateColor(value, min, max float64) lipgloss.Color {
	if max == min {
		return lipgloss.Color("255")
	}

	normalized := (value - min) / (max - min)
	if normalized < 0 {
		normalized = 0
	}
	if normalized > 1 {
		normalized = 1
	}

	// ANSI 256 greyscale ramp, 240 faded at min to 255 bright at max.
	baseColor := 240.0
	targetColor := 255.0

	interpolated := baseColor + (targetColor-baseColor)*normalized
	return lipgloss.Color(fmt.Sprintf("%d", int(interpolated)))
}
