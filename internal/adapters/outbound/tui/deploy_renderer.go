package tui

import (
	"fmt"
	"strings"

	"github.com/abdidvp/shipgate/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// RenderDeployment formats the log of one release run.
func RenderDeployment(log *domain.DeploymentLog) string {
	var b strings.Builder

	state := lipgloss.NewStyle().Bold(true).Foreground(stateColor(log.State)).Render(strings.ToUpper(string(log.State)))
	meta := dimStyle.Render(fmt.Sprintf("run %s  ·  commit %s  ·  %dms", log.RunID, shortHash(log.CommitHash), log.DurationMs()))
	b.WriteString(boxStyle.Render(headerStyle.Render("Release") + "\n\n" + state + "\n" + meta))
	b.WriteString("\n\n")

	for _, p := range log.Phases {
		var icon string
		switch p.Status {
		case domain.PhaseSuccess:
			icon = passStyle.Render("●")
		case domain.PhaseSkipped:
			icon = skipStyle.Render("○")
		default:
			icon = failStyle.Render("●")
		}
		fmt.Fprintf(&b, "  %s %s %s\n", icon, padRight(p.Name, 14), dimStyle.Render(fmt.Sprintf("%s  %dms", p.Status, p.DurationMs)))
	}

	if len(log.Errors) > 0 {
		b.WriteString("\n")
		for _, e := range log.Errors {
			fmt.Fprintf(&b, "  %s %s\n", errorTagStyle.Render("error"), dimStyle.Render(e.Message))
		}
	}
	if len(log.Warnings) > 0 {
		b.WriteString("\n")
		for _, w := range log.Warnings {
			fmt.Fprintf(&b, "  %s %s\n", warnTagStyle.Render("warn "), dimStyle.Render(w))
		}
	}
	b.WriteString("\n")
	return b.String()
}

// RenderHistory formats past release runs, oldest first.
func RenderHistory(logs []domain.DeploymentLog) string {
	if len(logs) == 0 {
		return "  " + dimStyle.Render("No deployment history found.") + "\n"
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString("  " + titleStyle.Render("Deployment History") + "\n")
	b.WriteString("  " + faintStyle.Render(strings.Repeat("─", 50)) + "\n\n")

	for _, l := range logs {
		state := lipgloss.NewStyle().
			Foreground(stateColor(l.State)).
			Render(padRight(string(l.State), 10))

		line := fmt.Sprintf("  %s  %s  %s  %s",
			dimStyle.Render(l.StartedAt.UTC().Format("2006-01-02 15:04")),
			faintStyle.Render(shortHash(l.CommitHash)),
			state,
			dimStyle.Render(fmt.Sprintf("%dms", l.DurationMs())),
		)
		if len(l.Errors) > 0 {
			line += "  " + failStyle.Render(l.Errors[0].Phase)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	return b.String()
}

func stateColor(s domain.RunState) lipgloss.Color {
	switch s {
	case domain.RunCompleted:
		return success
	case domain.RunAborted:
		return danger
	default:
		return fg
	}
}
