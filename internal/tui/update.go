package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/incus-tools/netsync/internal/model"
)

// Update handles Bubbletea messages and updates model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		return m, nil
	case ResourceStartMsg:
		m.ensureResource(msg.ID)
		result := m.results[msg.ID]
		result.Status = model.StatusRunning
		m.results[msg.ID] = result
		return m, nil
	case ResourceCompleteMsg:
		id := msg.Result.ResourceID
		if id == "" {
			return m, nil
		}
		m.ensureResource(id)
		existing := m.results[id]
		previouslyCompleted := existing.Status == model.StatusChanged ||
			existing.Status == model.StatusUnchanged ||
			existing.Status == model.StatusSkipped ||
			existing.Status == model.StatusFailed
		m.results[id] = msg.Result
		if !previouslyCompleted {
			m.completed++
			m.markFinishedIfComplete()
		}
		if msg.Result.Status == model.StatusFailed {
			m.finished = true
		}
		return m, nil
	case DoneMsg:
		m.finished = true
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.cancelled = true
			m.finished = true
			return m, tea.Quit
		}
	case tea.QuitMsg:
		m.finished = true
		return m, nil
	}

	return m, nil
}
