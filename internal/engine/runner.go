package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/incus-tools/netsync/internal/config"
	"github.com/incus-tools/netsync/internal/logger"
	"github.com/incus-tools/netsync/internal/model"
	"github.com/incus-tools/netsync/internal/reconcile"
	"github.com/incus-tools/netsync/internal/resources"
	netsyncerrors "github.com/incus-tools/netsync/pkg/errors"
)

// Options configures a Runner.
type Options struct {
	Querier         reconcile.Querier
	Logger          *logger.Logger
	CheckMode       bool
	ContinueOnError bool
}

// Runner reconciles manifest resources in declaration order. Each resource
// is independent; there is no parallelism and no state carried between
// invocations beyond the remote resources themselves.
type Runner struct {
	querier         reconcile.Querier
	log             *logger.Logger
	checkMode       bool
	continueOnError bool
}

// New constructs a Runner from Options.
func New(opts Options) *Runner {
	return &Runner{
		querier:         opts.Querier,
		log:             opts.Logger,
		checkMode:       opts.CheckMode,
		continueOnError: opts.ContinueOnError,
	}
}

// Run reconciles every resource and returns the per-resource results in
// manifest order. The first error encountered is returned; later resources
// are still attempted when continue-on-error is set.
func (r *Runner) Run(ctx context.Context, manifestResources []config.Resource) ([]model.ResourceResult, error) {
	results := make([]model.ResourceResult, 0, len(manifestResources))
	var firstErr error

	for i := range manifestResources {
		resource := manifestResources[i]

		if err := ctx.Err(); err != nil {
			return results, err
		}

		result := r.runOne(ctx, resource)
		results = append(results, result)

		if result.Error != nil {
			if firstErr == nil {
				firstErr = netsyncerrors.NewExecutionError(resource.ID, result.Error)
			}
			if !r.continueOnError {
				break
			}
		}
	}

	return results, firstErr
}

func (r *Runner) runOne(ctx context.Context, resource config.Resource) model.ResourceResult {
	started := time.Now()
	log := r.log.WithFields(map[string]any{"resource": resource.ID, "kind": resource.Kind})

	result := model.ResourceResult{
		ResourceID: resource.ID,
		Kind:       resource.Kind,
		Timestamp:  started,
	}

	if !resource.Enabled {
		log.Debug("resource disabled, skipping")
		result.Status = model.StatusSkipped
		result.Message = "disabled"
		return result
	}

	adapter, err := resources.ForResource(resource)
	if err != nil {
		result.Status = model.StatusFailed
		result.Error = err
		result.Message = err.Error()
		result.Duration = time.Since(started)
		return result
	}
	result.Kind = adapter.Kind()

	log.Debug("reconciling")
	rec, err := reconcile.Reconcile(ctx, r.querier, adapter, reconcile.State(resource.State), r.checkMode)
	result.Reconcile = rec
	result.Duration = time.Since(started)

	if err != nil {
		log.Error(err, "reconcile failed")
		result.Status = model.StatusFailed
		result.Error = err
		result.Message = err.Error()
		return result
	}

	if rec.Changed {
		result.Status = model.StatusChanged
	} else {
		result.Status = model.StatusUnchanged
	}
	result.Message = describe(resource.State, rec, r.checkMode)
	log.WithFields(map[string]any{"changed": rec.Changed, "old_state": string(rec.OldState)}).Info(result.Message)

	return result
}

func describe(target string, rec *reconcile.Result, checkMode bool) string {
	if checkMode {
		return fmt.Sprintf("check mode: %s, target %s", rec.OldState, target)
	}
	if !rec.Changed {
		return fmt.Sprintf("already %s", rec.Diff.After.State)
	}
	if rec.OldState == reconcile.StateAbsent {
		return "created"
	}
	if reconcile.State(target) == reconcile.StateAbsent {
		return "deleted"
	}
	return "updated"
}
