package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/incus-tools/netsync/internal/model"
	"github.com/incus-tools/netsync/internal/tui/components"
)

// View renders the current state of the model.
func (m Model) View() string {
	var sections []string

	sections = append(sections, titleStyle.Render(fmt.Sprintf("netsync • %s", m.title())))

	progress := components.NewProgress(m.total).View(m.completed)
	sections = append(sections, sectionStyle.Render("Progress"), progress)

	listComp := components.NewResourceList(m.order, m.results)
	entries := listComp.Entries()
	if len(entries) > 0 {
		sections = append(sections, sectionStyle.Render("Resources"))
		sections = append(sections, renderResourceEntries(entries))
	}

	summary := components.NewSummary(components.SummaryData{
		Total:     m.total,
		Completed: m.completed,
		Changed:   m.changedCount(),
		Failed:    m.failedCount(),
		Finished:  m.finished,
		Cancelled: m.cancelled,
		CheckMode: m.checkMode,
	}).View()
	if strings.TrimSpace(summary) != "" {
		sections = append(sections, sectionStyle.Render("Summary"), summaryStyle.Render(summary))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func renderResourceEntries(entries []components.ResourceEntry) string {
	var lines []string
	for _, entry := range entries {
		res := entry.Result
		icon := StatusIcon(res.Status)
		line := fmt.Sprintf(" %s %s", icon, entry.ID)
		if res.Kind != "" {
			line = fmt.Sprintf("%s [%s]", line, res.Kind)
		}
		if strings.TrimSpace(res.Message) != "" {
			line = fmt.Sprintf("%s — %s", line, res.Message)
		}
		if res.Duration > 0 {
			line = fmt.Sprintf("%s (%s)", line, res.Duration.Truncate(10*time.Millisecond))
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (m Model) title() string {
	if m.manifest != nil && strings.TrimSpace(m.manifest.Name) != "" {
		return m.manifest.Name
	}
	return "Apply"
}

func (m Model) changedCount() int {
	count := 0
	for _, res := range m.results {
		if res.Status == model.StatusChanged {
			count++
		}
	}
	return count
}

func (m Model) failedCount() int {
	count := 0
	for _, res := range m.results {
		if res.Status == model.StatusFailed {
			count++
		}
	}
	return count
}

// StatusIcon returns the glyph representing a resource status.
func StatusIcon(status string) string {
	switch status {
	case model.StatusChanged:
		return changedStyle.Render("~")
	case model.StatusUnchanged:
		return unchangedStyle.Render("✓")
	case model.StatusRunning:
		return runningStyle.Render("⏳")
	case model.StatusFailed:
		return failureStyle.Render("✗")
	case model.StatusSkipped:
		return skippedStyle.Render("⊘")
	default:
		return pendingStyle.Render("…")
	}
}
