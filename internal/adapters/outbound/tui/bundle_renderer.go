package tui

import (
	"fmt"
	"strings"

	"github.com/abdidvp/shipgate/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

const largestFilesShown = 10

var (
	sectionHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(accent)
	hintStyle          = lipgloss.NewStyle().Foreground(dim).Italic(true)
)

// RenderBundle formats a bundle analysis and its budget decision.
func RenderBundle(a *domain.BundleAnalysis) string {
	var b strings.Builder

	total := lipgloss.NewStyle().
		Bold(true).
		Foreground(budgetColor(a.Budget)).
		Render(fmt.Sprintf("%s compressed", domain.FormatBytes(a.Totals.CompressedSize)))
	original := dimStyle.Render(fmt.Sprintf("%s on disk  ·  %d files",
		domain.FormatBytes(a.Totals.OriginalSize), a.Totals.FileCount))

	b.WriteString(boxStyle.Render(headerStyle.Render("Bundle Analysis") + "\n\n" + total + "\n" + original))
	b.WriteString("\n")

	if a.Budget != nil {
		renderBudget(&b, a.Budget)
	}

	b.WriteString("\n")
	fmt.Fprintf(&b, "  %s\n", sectionHeaderStyle.Render("Categories"))
	for _, cat := range domain.FileCategories {
		t := a.Categories[cat]
		if t.FileCount == 0 {
			continue
		}
		fmt.Fprintf(&b, "    %s %s  %s\n",
			catNameStyle.Render(padRight(string(cat), 12)),
			padRight(domain.FormatBytes(t.CompressedSize), 10),
			dimStyle.Render(fmt.Sprintf("%d files", t.FileCount)),
		)
	}

	largest := a.Largest(largestFilesShown)
	if len(largest) > 0 {
		b.WriteString("\n")
		fmt.Fprintf(&b, "  %s %s\n",
			sectionHeaderStyle.Render("Largest Files"),
			dimStyle.Render(fmt.Sprintf("(%d)", len(largest))),
		)
		for _, f := range largest {
			fmt.Fprintf(&b, "    %s  %s\n",
				padRight(domain.FormatBytes(f.CompressedSize), 10),
				dimStyle.Render(f.RelativePath),
			)
		}
	}

	if len(a.Downloads) > 0 {
		b.WriteString("\n")
		fmt.Fprintf(&b, "  %s\n", sectionHeaderStyle.Render("Download Time"))
		for _, d := range a.Downloads {
			fmt.Fprintf(&b, "    %s %s\n", padRight(d.Network, 10), dimStyle.Render(fmt.Sprintf("%.1fs", d.TimeSeconds)))
		}
	}

	b.WriteString("\n")
	return b.String()
}

func renderBudget(b *strings.Builder, d *domain.BudgetDecision) {
	b.WriteString("\n")
	fmt.Fprintf(b, "  %s %s\n",
		sectionHeaderStyle.Render("Budget"),
		dimStyle.Render(fmt.Sprintf("target %.2f MB  ·  warning %.2f MB  ·  ci limit %.2f MB",
			d.TargetMB, d.WarningMB, d.CILimitMB)),
	)

	switch {
	case !d.WithinCILimit:
		fmt.Fprintf(b, "    %s %.2f MB exceeds the CI limit\n", failStyle.Render("●"), d.CompressedTotalMB)
	case !d.TargetMet:
		fmt.Fprintf(b, "    %s %.2f MB is over target\n", warnStyle.Render("●"), d.CompressedTotalMB)
	case d.WarningExceeded:
		fmt.Fprintf(b, "    %s %.2f MB is above the warning threshold\n", warnStyle.Render("●"), d.CompressedTotalMB)
	default:
		fmt.Fprintf(b, "    %s %.2f MB is within budget\n", passStyle.Render("●"), d.CompressedTotalMB)
	}

	for _, r := range d.Recommendations {
		fmt.Fprintf(b, "    %s\n", hintStyle.Render("→ "+r))
	}
}

func budgetColor(d *domain.BudgetDecision) lipgloss.Color {
	switch {
	case d == nil:
		return fg
	case !d.WithinCILimit:
		return danger
	case !d.TargetMet || d.WarningExceeded:
		return warning
	default:
		return success
	}
}
