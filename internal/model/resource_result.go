package model

import (
	"time"

	"github.com/incus-tools/netsync/internal/reconcile"
)

const (
	// StatusPending indicates a resource has not been reconciled yet.
	StatusPending = "pending"
	// StatusRunning indicates a resource is being reconciled.
	StatusRunning = "running"
	// StatusChanged indicates reconciliation committed a change.
	StatusChanged = "changed"
	// StatusUnchanged indicates the remote resource already matched.
	StatusUnchanged = "unchanged"
	// StatusSkipped indicates a disabled resource was not reconciled.
	StatusSkipped = "skipped"
	// StatusFailed marks a failure during reconciliation.
	StatusFailed = "failed"
)

// ResourceResult captures the outcome of reconciling a single resource.
type ResourceResult struct {
	ResourceID string
	Kind       string
	Status     string
	Message    string
	Error      error
	Reconcile  *reconcile.Result
	Duration   time.Duration
	Timestamp  time.Time
}

// Record renders the result as the structured record handed back to
// callers: changed flag, old state, the before/after diff and the resource
// itself under its kind key. Failures carry msg, changed=false and
// whatever partial diff was collected.
func (r *ResourceResult) Record() map[string]any {
	if r == nil {
		return nil
	}

	if r.Error != nil {
		record := map[string]any{
			"msg":     r.Error.Error(),
			"changed": false,
		}
		if r.Reconcile != nil {
			record["diff"] = r.Reconcile.Diff.Record(r.Kind)
		}
		return record
	}

	if r.Reconcile == nil {
		return map[string]any{"changed": false}
	}

	return map[string]any{
		"changed":   r.Reconcile.Changed,
		"old_state": string(r.Reconcile.OldState),
		"diff":      r.Reconcile.Diff.Record(r.Kind),
		r.Kind:      r.Reconcile.After,
	}
}
