package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/incus-tools/netsync/internal/config"
	"github.com/incus-tools/netsync/internal/engine"
	"github.com/incus-tools/netsync/internal/model"
	"github.com/incus-tools/netsync/internal/tui"
	"github.com/incus-tools/netsync/pkg/diff"
)

type applyOptions struct {
	ManifestRef    string
	Check          bool
	Verbose        bool
	JSONOutput     bool
	NonInteractive bool
	Out            io.Writer
}

var applyCmdRunner = runApply

func newApplyCmd(root *rootFlags) *cobra.Command {
	opts := applyOptions{}

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Reconcile the manifest's resources against the Incus daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Check = root.check
			opts.Verbose = root.verbose
			opts.NonInteractive = opts.JSONOutput || !term.IsTerminal(int(os.Stdout.Fd()))
			opts.Out = cmd.OutOrStdout()

			if err := validateManifestRef(opts.ManifestRef); err != nil {
				return err
			}

			return applyCmdRunner(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ManifestRef, "manifest", "c", "", "Manifest file path or git reference (repo.git//path.yaml@branch)")
	cmd.Flags().BoolVar(&opts.JSONOutput, "json", false, "Emit structured results as JSON")
	cmd.MarkFlagRequired("manifest") //nolint:errcheck

	return cmd
}

func runApply(ctx context.Context, opts applyOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	manifestPath, cleanup, err := resolveManifest(ctx, opts.ManifestRef)
	if err != nil {
		return err
	}
	defer cleanup()

	manifest, err := config.ParseManifest(manifestPath)
	if err != nil {
		return err
	}

	checkMode := opts.Check || manifest.Settings.Check
	verbose := opts.Verbose || manifest.Settings.Verbose

	log, err := newLogger(verbose)
	if err != nil {
		return err
	}

	client, err := newIncusClient(manifest.Settings, verbose, log)
	if err != nil {
		return err
	}

	runner := engine.New(engine.Options{
		Querier:         client,
		Logger:          log,
		CheckMode:       checkMode,
		ContinueOnError: manifest.Settings.ContinueOnError,
	})

	modelState := tui.NewModel(manifest, checkMode, opts.NonInteractive)
	interactive := !opts.NonInteractive

	var program *tea.Program
	var programErr error
	done := make(chan struct{})

	if interactive {
		program = tea.NewProgram(modelState)
		go func() {
			_, programErr = program.Run()
			close(done)
		}()
	}

	results, runErr := runner.Run(ctx, manifest.Resources)
	for _, res := range results {
		dispatchTuiMessage(interactive, program, &modelState, tui.ResourceCompleteMsg{Result: res})
	}

	if interactive {
		if program != nil {
			program.Send(tui.DoneMsg{})
		}
		<-done
		if programErr != nil {
			return programErr
		}
	} else if opts.JSONOutput {
		if err := writeJSONResults(opts.Out, manifest.Name, results); err != nil {
			return err
		}
	} else {
		fmt.Fprintln(opts.Out, modelState.View())
		writeResourceDiffs(opts.Out, results)
	}

	return runErr
}

// writeResourceDiffs prints a unified diff for every resource whose remote
// state changed.
func writeResourceDiffs(out io.Writer, results []model.ResourceResult) {
	for i := range results {
		res := results[i]
		if res.Reconcile == nil || !res.Reconcile.Changed {
			continue
		}
		rendered, err := diff.RenderResource(res.Reconcile.Before, res.Reconcile.After, "before", "after")
		if err != nil || rendered == "" {
			continue
		}
		fmt.Fprintf(out, "\n%s:\n%s", res.ResourceID, rendered)
	}
}

type jsonResult struct {
	ID     string         `json:"id"`
	Kind   string         `json:"kind"`
	Status string         `json:"status"`
	Result map[string]any `json:"result,omitempty"`
}

type jsonReport struct {
	Manifest string       `json:"manifest"`
	Changed  bool         `json:"changed"`
	Results  []jsonResult `json:"results"`
}

func writeJSONResults(out io.Writer, manifestName string, results []model.ResourceResult) error {
	report := jsonReport{Manifest: manifestName, Results: make([]jsonResult, 0, len(results))}
	for i := range results {
		res := results[i]
		if res.Status == model.StatusChanged {
			report.Changed = true
		}
		report.Results = append(report.Results, jsonResult{
			ID:     res.ResourceID,
			Kind:   res.Kind,
			Status: res.Status,
			Result: res.Record(),
		})
	}

	encoded, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, string(encoded))
	return err
}

func dispatchTuiMessage(interactive bool, program *tea.Program, state *tui.Model, msg tea.Msg) {
	if interactive {
		if program != nil {
			program.Send(msg)
		}
		return
	}

	updated, _ := state.Update(msg)
	if m, ok := updated.(tui.Model); ok {
		*state = m
	}
}
