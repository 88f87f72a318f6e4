package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateManifestRef(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	manifest := filepath.Join(dir, "netsync.yaml")
	require.NoError(t, os.WriteFile(manifest, []byte("version: \"1.0\"\n"), 0o644))

	require.NoError(t, validateManifestRef(manifest))
	require.NoError(t, validateManifestRef("https://example.org/infra/network.git//envs/prod.yaml"))

	require.Error(t, validateManifestRef(""))
	require.Error(t, validateManifestRef(filepath.Join(dir, "missing.yaml")))
	require.Error(t, validateManifestRef(dir))
}
