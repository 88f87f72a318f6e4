package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/incus-tools/netsync/internal/gitsource"
)

func validateManifestRef(ref string) error {
	if strings.TrimSpace(ref) == "" {
		return fmt.Errorf("manifest file is required")
	}
	if gitsource.IsGitRef(ref) {
		return nil
	}

	abs, err := filepath.Abs(ref)
	if err != nil {
		return fmt.Errorf("resolve manifest path: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return fmt.Errorf("manifest file does not exist: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("manifest path %s is a directory", abs)
	}

	return nil
}

// resolveManifest turns a manifest reference into a local file path,
// fetching git references into a temporary checkout. The returned cleanup
// is always safe to call.
func resolveManifest(ctx context.Context, ref string) (string, func(), error) {
	if !gitsource.IsGitRef(ref) {
		return ref, func() {}, nil
	}
	return gitsource.Fetch(ctx, gitsource.ParseRef(ref))
}
