package tui

import (
	"fmt"
	"strings"

	"github.com/abdidvp/shipgate/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// ── warm palette ──
var (
	accent    = lipgloss.Color("#D97706") // amber
	fg        = lipgloss.Color("#E8E6E3") // warm light gray
	dim       = lipgloss.Color("#6B7280") // muted gray
	faint     = lipgloss.Color("#3F3F46") // very dim
	success   = lipgloss.Color("#22C55E") // green
	danger    = lipgloss.Color("#EF4444") // red
	warning   = lipgloss.Color("#F59E0B") // amber-yellow
	skipColor = lipgloss.Color("#4B5563") // dark gray
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accent).
			Align(lipgloss.Center)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(1, 4).
			Align(lipgloss.Center).
			Width(68)

	statusColors = map[domain.OverallStatus]lipgloss.Color{
		domain.StatusPass:             success,
		domain.StatusPassWithWarnings: warning,
		domain.StatusFail:             danger,
	}

	dimStyle      = lipgloss.NewStyle().Foreground(dim)
	faintStyle    = lipgloss.NewStyle().Foreground(faint)
	passStyle     = lipgloss.NewStyle().Foreground(success)
	failStyle     = lipgloss.NewStyle().Foreground(danger)
	warnStyle     = lipgloss.NewStyle().Foreground(warning)
	skipStyle     = lipgloss.NewStyle().Foreground(skipColor)
	errorTagStyle = lipgloss.NewStyle().Foreground(danger).Bold(true)
	warnTagStyle  = lipgloss.NewStyle().Foreground(warning).Bold(true)
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(fg)
	catNameStyle  = lipgloss.NewStyle().Bold(true).Foreground(fg)
	separatorLine = faintStyle.Render(strings.Repeat("─", 64))
)

// RenderVerification formats a verification report for terminal output.
func RenderVerification(report *domain.VerificationReport) string {
	var b strings.Builder

	status := report.Summary.OverallStatus
	title := headerStyle.Render("shipgate")
	subtitle := dimStyle.Render(report.BuildDirectory)
	statusStyled := lipgloss.NewStyle().
		Bold(true).
		Foreground(statusColor(status)).
		Render(string(status))
	counts := dimStyle.Render(fmt.Sprintf("%d/%d checks passed",
		report.Summary.TotalPassed, report.Summary.TotalTests))

	b.WriteString(boxStyle.Render(title + "\n" + subtitle + "\n\n" + statusStyled + "  " + counts))
	b.WriteString("\n\n")

	for _, cat := range domain.CheckCategories {
		rep := report.Categories[cat]
		if rep == nil {
			continue
		}
		renderCategory(&b, cat, rep)
		b.WriteString("\n")
	}

	b.WriteString("  " + separatorLine)
	b.WriteString("\n\n")

	failures := report.Failures()
	warnings := advisoryOnly(report)
	if len(failures) == 0 && len(warnings) == 0 {
		b.WriteString("  " + passStyle.Render("No issues found.") + "\n\n")
		return b.String()
	}

	b.WriteString("  ")
	b.WriteString(titleStyle.Render("Issues"))
	b.WriteString("  ")
	if len(failures) > 0 {
		b.WriteString(errorTagStyle.Render(fmt.Sprintf("%d failed", len(failures))))
		b.WriteString("  ")
	}
	if len(warnings) > 0 {
		b.WriteString(warnTagStyle.Render(fmt.Sprintf("%d warnings", len(warnings))))
	}
	b.WriteString("\n\n")

	for _, f := range failures {
		tag := warnTagStyle.Render("warn ")
		if f.Critical {
			tag = errorTagStyle.Render("error")
		}
		fmt.Fprintf(&b, "    %s %s\n", tag, dimStyle.Render(f.Message))
	}
	for _, w := range warnings {
		fmt.Fprintf(&b, "    %s %s\n", warnTagStyle.Render("note "), dimStyle.Render(w.Message))
	}
	b.WriteString("\n")
	return b.String()
}

func renderCategory(b *strings.Builder, cat domain.CheckCategory, rep *domain.CategoryReport) {
	total := rep.PassedCount + rep.FailedCount
	name := catNameStyle.Render(padRight(string(cat), 14))
	bar := coloredBar(rep.PassedCount, total, 20)
	counts := dimStyle.Render(fmt.Sprintf("%d/%d", rep.PassedCount, total))
	fmt.Fprintf(b, "  %s %s  %s\n", name, bar, counts)

	for _, d := range rep.Details {
		var icon string
		switch {
		case !d.Passed:
			icon = failStyle.Render("●")
		case d.Warning:
			icon = warnStyle.Render("●")
		default:
			icon = passStyle.Render("●")
		}
		fmt.Fprintf(b, "    %s %s %s\n", icon, padRight(d.ID, 34), faintStyle.Render(d.Message))
	}
}

func advisoryOnly(report *domain.VerificationReport) []domain.CheckResult {
	var out []domain.CheckResult
	for _, cat := range domain.CheckCategories {
		rep := report.Categories[cat]
		if rep == nil {
			continue
		}
		for _, d := range rep.Details {
			if d.Passed && d.Warning {
				out = append(out, d)
			}
		}
	}
	return out
}

func coloredBar(passed, total, width int) string {
	filled := 0
	if total > 0 {
		filled = max(0, min(passed*width/total, width))
	}
	empty := width - filled

	color := success
	if passed < total {
		color = warning
	}
	filledStr := lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("█", filled))
	emptyStr := lipgloss.NewStyle().Foreground(faint).Render(strings.Repeat("░", empty))
	return filledStr + emptyStr
}

func statusColor(status domain.OverallStatus) lipgloss.Color {
	if c, ok := statusColors[status]; ok {
		return c
	}
	return fg
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

func shortHash(hash string) string {
	if len(hash) > 7 {
		return hash[:7]
	}
	if hash == "" {
		return "·······"
	}
	return hash
}
