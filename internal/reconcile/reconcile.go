package reconcile

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/go-cmp/cmp"

	"github.com/incus-tools/netsync/internal/incus"
	netsyncerrors "github.com/incus-tools/netsync/pkg/errors"
)

// Snapshot is one side of a before/after diff: the presence classification
// plus the opaque resource body as the server reported it.
type Snapshot struct {
	State    State
	Resource map[string]any
}

func (s Snapshot) record(kind string) map[string]any {
	if s.State == "" {
		return map[string]any{}
	}
	return map[string]any{
		"state": string(s.State),
		kind:    s.Resource,
	}
}

// Diff holds the before and after snapshots collected around a reconcile.
type Diff struct {
	Before Snapshot
	After  Snapshot
}

// Record renders the diff in the result-record shape, with the resource
// body keyed under its kind. Sides not yet fetched render as empty maps.
func (d Diff) Record(kind string) map[string]any {
	return map[string]any{
		"before": d.Before.record(kind),
		"after":  d.After.record(kind),
	}
}

// Result is the outcome of one reconcile invocation. Changed is structural
// inequality of the before and after resource bodies; a committed write
// whose outcome matches the prior state reports unchanged.
type Result struct {
	Changed  bool
	OldState State
	Before   map[string]any
	After    map[string]any
	Diff     Diff
}

// Classify maps a fetch response to a presence state. A 200 is present, an
// error 404 is absent, anything else cannot be classified.
func Classify(resp *incus.Response) (State, error) {
	if resp == nil {
		return "", netsyncerrors.NewProtocolError(0, "missing response")
	}
	if resp.StatusCode == http.StatusOK {
		return StatePresent, nil
	}
	if resp.ErrorCode == http.StatusNotFound {
		return StateAbsent, nil
	}
	return "", netsyncerrors.NewProtocolError(resp.StatusCode, "unknown resource state")
}

// Reconcile drives the remote resource described by the adapter toward the
// target state: fetch, converge, re-fetch, diff.
//
// At most one write is issued per invocation, and none under checkMode.
// On any fatal error the returned result still carries the before-only
// diff collected so far, with Changed false.
func Reconcile(ctx context.Context, q Querier, a Adapter, target State, checkMode bool) (*Result, error) {
	res := &Result{}

	before, err := fetch(ctx, q, a)
	if err != nil {
		return res, err
	}
	res.OldState = before.State
	res.Before = before.Resource
	res.Diff.Before = before

	switch target {
	case StatePresent:
		// An existing resource is updated in place with partial-field
		// semantics; a missing one is created against the collection.
		method, path := http.MethodPost, a.CollectionPath()
		if before.State == StatePresent {
			method, path = http.MethodPatch, a.IdentityPath()
		}
		if !checkMode {
			if _, err := q.Query(ctx, method, path, a.Payload()); err != nil {
				return res, err
			}
		}
	case StateAbsent:
		if before.State != StateAbsent && !checkMode {
			if _, err := q.Query(ctx, http.MethodDelete, a.IdentityPath(), nil); err != nil {
				return res, err
			}
		}
	default:
		return res, netsyncerrors.NewValidationError("state", fmt.Sprintf("unsupported target state %q", target), nil)
	}

	// The server may normalize, default or reject fields, so the after
	// side is always re-read rather than assumed from the payload.
	after, err := fetch(ctx, q, a)
	if err != nil {
		return res, err
	}
	res.After = after.Resource
	res.Diff.After = after
	res.Changed = !cmp.Equal(res.Before, res.After)

	return res, nil
}

func fetch(ctx context.Context, q Querier, a Adapter) (Snapshot, error) {
	resp, err := q.Query(ctx, http.MethodGet, a.IdentityPath(), nil, http.StatusNotFound)
	if err != nil {
		return Snapshot{}, err
	}
	state, err := Classify(resp)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{State: state, Resource: resp.Metadata}, nil
}
