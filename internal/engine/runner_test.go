package engine

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/incus-tools/netsync/internal/config"
	"github.com/incus-tools/netsync/internal/incus"
	"github.com/incus-tools/netsync/internal/logger"
	"github.com/incus-tools/netsync/internal/model"

	_ "github.com/incus-tools/netsync/internal/resources/acl"
	_ "github.com/incus-tools/netsync/internal/resources/zone"
)

// routeQuerier answers by method+path and counts writes.
type routeQuerier struct {
	responses map[string]*incus.Response
	errors    map[string]error
	writes    int
}

func (q *routeQuerier) Query(_ context.Context, method, path string, _ any, _ ...int) (*incus.Response, error) {
	if method != http.MethodGet {
		q.writes++
	}
	key := method + " " + path
	if err, ok := q.errors[key]; ok {
		return nil, err
	}
	if resp, ok := q.responses[key]; ok {
		return resp, nil
	}
	return &incus.Response{Type: "error", Error: "not found", ErrorCode: http.StatusNotFound}, nil
}

func aclResource(id, name string) config.Resource {
	return config.Resource{
		ID:      id,
		Kind:    config.KindACL,
		State:   "present",
		Enabled: true,
		ACL:     &config.ACLResource{Name: name},
	}
}

func TestRunCreatesAndReports(t *testing.T) {
	t.Parallel()

	q := &routeQuerier{responses: map[string]*incus.Response{
		"POST /1.0/network-acls": {Type: "sync", StatusCode: http.StatusOK},
	}}

	// First fetch misses, the post "creates" the resource for later reads.
	created := &incus.Response{Type: "sync", StatusCode: http.StatusOK, Metadata: map[string]any{"name": "acl1"}}
	runner := New(Options{Querier: &seqQuerier{misses: 1, then: created, inner: q}, Logger: logger.Nop()})

	results, err := runner.Run(context.Background(), []config.Resource{aclResource("web-acl", "acl1")})
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, model.StatusChanged, results[0].Status)
	require.Equal(t, "created", results[0].Message)
	require.Equal(t, "acl", results[0].Kind)

	record := results[0].Record()
	require.Equal(t, true, record["changed"])
	require.Equal(t, "absent", record["old_state"])
	require.Contains(t, record, "acl")
	require.Contains(t, record, "diff")
}

// seqQuerier serves a fixed number of GET misses, then a fixed GET
// response, delegating writes to the wrapped querier.
type seqQuerier struct {
	misses int
	then   *incus.Response
	inner  *routeQuerier
	gets   int
}

func (q *seqQuerier) Query(ctx context.Context, method, path string, payload any, okErrors ...int) (*incus.Response, error) {
	if method == http.MethodGet {
		q.gets++
		if q.gets <= q.misses {
			return &incus.Response{Type: "error", Error: "not found", ErrorCode: http.StatusNotFound}, nil
		}
		return q.then, nil
	}
	return q.inner.Query(ctx, method, path, payload, okErrors...)
}

func TestRunSkipsDisabledResources(t *testing.T) {
	t.Parallel()

	resource := aclResource("web-acl", "acl1")
	resource.Enabled = false

	runner := New(Options{Querier: &routeQuerier{}, Logger: logger.Nop()})
	results, err := runner.Run(context.Background(), []config.Resource{resource})
	require.NoError(t, err)
	require.Equal(t, model.StatusSkipped, results[0].Status)
}

func TestRunCheckModeIssuesNoWrites(t *testing.T) {
	t.Parallel()

	q := &routeQuerier{}
	runner := New(Options{Querier: q, Logger: logger.Nop(), CheckMode: true})

	results, err := runner.Run(context.Background(), []config.Resource{aclResource("web-acl", "acl1")})
	require.NoError(t, err)
	require.Equal(t, model.StatusUnchanged, results[0].Status)
	require.Zero(t, q.writes)
}

func TestRunStopsOnFirstFailureByDefault(t *testing.T) {
	t.Parallel()

	q := &routeQuerier{errors: map[string]error{
		"GET /1.0/network-acls/acl1": contextFailure(),
	}}
	runner := New(Options{Querier: q, Logger: logger.Nop()})

	results, err := runner.Run(context.Background(), []config.Resource{
		aclResource("first", "acl1"),
		aclResource("second", "acl2"),
	})
	require.Error(t, err)
	require.Len(t, results, 1)
	require.Equal(t, model.StatusFailed, results[0].Status)
}

func TestRunContinueOnError(t *testing.T) {
	t.Parallel()

	q := &routeQuerier{errors: map[string]error{
		"GET /1.0/network-acls/acl1": contextFailure(),
	}}
	runner := New(Options{Querier: q, Logger: logger.Nop(), ContinueOnError: true})

	results, err := runner.Run(context.Background(), []config.Resource{
		aclResource("first", "acl1"),
		aclResource("second", "acl2"),
	})
	require.Error(t, err)
	require.Len(t, results, 2)
	require.Equal(t, model.StatusFailed, results[0].Status)
	require.Equal(t, model.StatusUnchanged, results[1].Status)
}

func TestRunUnknownKindFails(t *testing.T) {
	t.Parallel()

	runner := New(Options{Querier: &routeQuerier{}, Logger: logger.Nop()})
	results, err := runner.Run(context.Background(), []config.Resource{{
		ID: "mystery", Kind: "firewall", State: "present", Enabled: true,
	}})
	require.Error(t, err)
	require.Equal(t, model.StatusFailed, results[0].Status)
}

func contextFailure() error {
	return context.DeadlineExceeded
}
