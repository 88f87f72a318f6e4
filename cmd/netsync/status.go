package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/incus-tools/netsync/internal/config"
	"github.com/incus-tools/netsync/internal/reconcile"
	"github.com/incus-tools/netsync/internal/resources"
)

type statusOptions struct {
	ManifestRef string
	Verbose     bool
	JSONOutput  bool
	Out         io.Writer
}

var statusCmdRunner = runStatus

func newStatusCmd(root *rootFlags) *cobra.Command {
	opts := statusOptions{}

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Report the remote state of the manifest's resources without changing anything",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Verbose = root.verbose
			opts.Out = cmd.OutOrStdout()

			if err := validateManifestRef(opts.ManifestRef); err != nil {
				return err
			}

			return statusCmdRunner(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ManifestRef, "manifest", "c", "", "Manifest file path or git reference (repo.git//path.yaml@branch)")
	cmd.Flags().BoolVar(&opts.JSONOutput, "json", false, "Emit structured results as JSON")
	cmd.MarkFlagRequired("manifest") //nolint:errcheck

	return cmd
}

type resourceStatus struct {
	ID      string `json:"id"`
	Kind    string `json:"kind"`
	Desired string `json:"desired"`
	Actual  string `json:"actual"`
	InSync  bool   `json:"in_sync"`
}

func runStatus(ctx context.Context, opts statusOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}

	manifestPath, cleanup, err := resolveManifest(ctx, opts.ManifestRef)
	if err != nil {
		return err
	}
	defer cleanup()

	manifest, err := config.ParseManifest(manifestPath)
	if err != nil {
		return err
	}

	log, err := newLogger(opts.Verbose || manifest.Settings.Verbose)
	if err != nil {
		return err
	}

	client, err := newIncusClient(manifest.Settings, opts.Verbose, log)
	if err != nil {
		return err
	}

	statuses := make([]resourceStatus, 0, len(manifest.Resources))
	for i := range manifest.Resources {
		resource := manifest.Resources[i]

		adapter, err := resources.ForResource(resource)
		if err != nil {
			return err
		}

		resp, err := client.Query(ctx, http.MethodGet, adapter.IdentityPath(), nil, http.StatusNotFound)
		if err != nil {
			return err
		}
		actual, err := reconcile.Classify(resp)
		if err != nil {
			return err
		}

		statuses = append(statuses, resourceStatus{
			ID:      resource.ID,
			Kind:    adapter.Kind(),
			Desired: resource.State,
			Actual:  string(actual),
			InSync:  resource.State == string(actual),
		})
	}

	if opts.JSONOutput {
		encoded, err := json.MarshalIndent(statuses, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(opts.Out, string(encoded))
		return err
	}

	w := tabwriter.NewWriter(opts.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tKIND\tDESIRED\tACTUAL\tIN SYNC")
	for _, s := range statuses {
		inSync := "yes"
		if !s.InSync {
			inSync = "no"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", s.ID, s.Kind, s.Desired, s.Actual, inSync)
	}
	return w.Flush()
}
