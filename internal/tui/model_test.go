package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/incus-tools/netsync/internal/config"
	"github.com/incus-tools/netsync/internal/model"
)

func testManifest() *config.Manifest {
	return &config.Manifest{
		Version: "1.0",
		Name:    "edge-network",
		Resources: []config.Resource{
			{ID: "web-acl", Kind: config.KindACL, State: "present", Enabled: true},
			{ID: "internal-zone", Kind: config.KindZone, State: "present", Enabled: true},
		},
	}
}

func TestNewModelSeedsResources(t *testing.T) {
	t.Parallel()

	m := NewModel(testManifest(), false, false)
	require.Equal(t, 2, m.TotalResources())
	require.Zero(t, m.CompletedResources())
	require.False(t, m.IsFinished())
}

func TestNewModelNilManifest(t *testing.T) {
	t.Parallel()

	m := NewModel(nil, false, true)
	require.Zero(t, m.TotalResources())
}

func TestUpdateTracksCompletion(t *testing.T) {
	t.Parallel()

	m := NewModel(testManifest(), false, false)

	next, _ := m.Update(ResourceStartMsg{ID: "web-acl"})
	m = next.(Model)
	require.Equal(t, model.StatusRunning, m.results["web-acl"].Status)

	next, _ = m.Update(ResourceCompleteMsg{Result: model.ResourceResult{
		ResourceID: "web-acl", Kind: "acl", Status: model.StatusChanged,
	}})
	m = next.(Model)
	require.Equal(t, 1, m.CompletedResources())
	require.False(t, m.IsFinished())

	next, _ = m.Update(ResourceCompleteMsg{Result: model.ResourceResult{
		ResourceID: "internal-zone", Kind: "zone", Status: model.StatusUnchanged,
	}})
	m = next.(Model)
	require.Equal(t, 2, m.CompletedResources())
	require.True(t, m.IsFinished())
}

func TestUpdateDuplicateCompletionCountsOnce(t *testing.T) {
	t.Parallel()

	m := NewModel(testManifest(), false, false)
	result := model.ResourceResult{ResourceID: "web-acl", Status: model.StatusUnchanged}

	next, _ := m.Update(ResourceCompleteMsg{Result: result})
	m = next.(Model)
	next, _ = m.Update(ResourceCompleteMsg{Result: result})
	m = next.(Model)

	require.Equal(t, 1, m.CompletedResources())
}

func TestUpdateFailureFinishesRun(t *testing.T) {
	t.Parallel()

	m := NewModel(testManifest(), false, false)
	next, _ := m.Update(ResourceCompleteMsg{Result: model.ResourceResult{
		ResourceID: "web-acl", Status: model.StatusFailed,
	}})
	m = next.(Model)
	require.True(t, m.IsFinished())
}

func TestUpdateCtrlCCancels(t *testing.T) {
	t.Parallel()

	m := NewModel(testManifest(), false, false)
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	m = next.(Model)
	require.True(t, m.IsFinished())
	require.NotNil(t, cmd)
}
