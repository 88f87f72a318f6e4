package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/incus-tools/netsync/internal/config"
	"github.com/incus-tools/netsync/internal/model"
)

// ResourceStartMsg indicates a resource has started reconciling.
type ResourceStartMsg struct {
	ID   string
	Time time.Time
}

// ResourceCompleteMsg reports that a resource has finished reconciling.
type ResourceCompleteMsg struct {
	Result model.ResourceResult
}

// DoneMsg signals that the whole run has finished.
type DoneMsg struct{}

type tickMsg struct{}

// Model contains the Bubbletea state for the apply progress display.
type Model struct {
	manifest       *config.Manifest
	results        map[string]model.ResourceResult
	order          []string
	total          int
	completed      int
	checkMode      bool
	finished       bool
	cancelled      bool
	nonInteractive bool
}

// NewModel constructs a TUI model seeded with the manifest's resources.
func NewModel(manifest *config.Manifest, checkMode, nonInteractive bool) Model {
	m := Model{
		manifest:       manifest,
		results:        make(map[string]model.ResourceResult),
		order:          make([]string, 0),
		checkMode:      checkMode,
		nonInteractive: nonInteractive,
	}

	if manifest != nil {
		for _, resource := range manifest.Resources {
			if _, exists := m.results[resource.ID]; !exists {
				m.results[resource.ID] = model.ResourceResult{
					ResourceID: resource.ID,
					Kind:       string(resource.Kind),
					Status:     model.StatusPending,
				}
				m.order = append(m.order, resource.ID)
				m.total++
			}
		}
	}

	return m
}

// Init starts the Bubbletea program.
func (m Model) Init() tea.Cmd {
	return tea.Tick(time.Millisecond, func(time.Time) tea.Msg { return tickMsg{} })
}

// TotalResources returns the number of resources tracked by the model.
func (m Model) TotalResources() int {
	return m.total
}

// CompletedResources returns the number of completed resources.
func (m Model) CompletedResources() int {
	return m.completed
}

// IsFinished reports whether the run has completed.
func (m Model) IsFinished() bool {
	return m.finished
}

func (m *Model) ensureResource(id string) {
	if id == "" {
		return
	}
	if _, exists := m.results[id]; !exists {
		m.results[id] = model.ResourceResult{ResourceID: id, Status: model.StatusPending}
		m.order = append(m.order, id)
		m.total++
	}
}

func (m *Model) markFinishedIfComplete() {
	if m.total > 0 && m.completed >= m.total {
		m.finished = true
	}
}
