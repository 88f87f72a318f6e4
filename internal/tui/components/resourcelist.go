package components

import (
	"github.com/incus-tools/netsync/internal/model"
)

// ResourceEntry represents a single resource for rendering.
type ResourceEntry struct {
	ID     string
	Result model.ResourceResult
}

// ResourceList renders a list of resources with their current status.
type ResourceList struct {
	entries []ResourceEntry
}

// NewResourceList constructs a resource list component.
func NewResourceList(order []string, results map[string]model.ResourceResult) ResourceList {
	entries := make([]ResourceEntry, 0, len(order))
	for _, id := range order {
		entries = append(entries, ResourceEntry{ID: id, Result: results[id]})
	}
	return ResourceList{entries: entries}
}

// Entries returns the ordered resource entries.
func (l ResourceList) Entries() []ResourceEntry {
	clone := make([]ResourceEntry, len(l.entries))
	copy(clone, l.entries)
	return clone
}
