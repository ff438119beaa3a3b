// Package report renders comparison results side by side for the terminal,
// the one-shot counterpart to the dashboard.
package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ragscope/ragscope/strategy"
)

const cardWidth = 44

var (
	titleStyle = lipgloss.NewStyle().Bold(true).MarginBottom(1)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1).
			Width(cardWidth)

	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	traceStyle  = lipgloss.NewStyle().Faint(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("160"))
	sourceStyle = lipgloss.NewStyle().Faint(true).PaddingLeft(2)
	badgeStyle  = lipgloss.NewStyle().Faint(true)
)

// Render lays out one card per strategy result under the question.
func Render(question string, results []strategy.Result) string {
	cards := make([]string, 0, len(results))
	for _, r := range results {
		cards = append(cards, cardStyle.Render(renderResult(r)))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(fmt.Sprintf("Question: %s", question)),
		lipgloss.JoinHorizontal(lipgloss.Top, cards...),
	)
}

func renderResult(r strategy.Result) string {
	var sb strings.Builder

	header := headerStyle.Render(strings.ToUpper(r.Strategy))
	badge := badgeStyle.Render(fmt.Sprintf("%d steps, %dms", r.Steps, r.Duration.Milliseconds()))
	if r.Cached {
		badge = badgeStyle.Render("cached")
	}
	sb.WriteString(header + " " + badge + "\n\n")

	if r.Failed() {
		sb.WriteString(errorStyle.Render("failed: " + r.Err))
		return sb.String()
	}

	sb.WriteString(r.Answer + "\n\n")
	sb.WriteString(traceStyle.Render(strings.Join(r.Trace, " > ")))

	if len(r.Matches) > 0 {
		sb.WriteString("\n")
		for _, m := range r.Matches {
			sb.WriteString("\n" + sourceStyle.Render(fmt.Sprintf("[%.2f] %s", m.Score, truncate(m.Document.Content, 60))))
		}
	}
	return sb.String()
}

// truncate shortens s to max runes, never splitting a multi-byte rune.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
