package resources

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/incus-tools/netsync/internal/config"
	"github.com/incus-tools/netsync/internal/reconcile"
)

type stubAdapter struct{}

func (stubAdapter) Kind() string            { return "stub" }
func (stubAdapter) CollectionPath() string  { return "/1.0/stubs" }
func (stubAdapter) IdentityPath() string    { return "/1.0/stubs/one" }
func (stubAdapter) Payload() map[string]any { return nil }

func stubFactory(config.Resource) (reconcile.Adapter, error) {
	return stubAdapter{}, nil
}

func TestRegisterAndLookup(t *testing.T) {
	ResetRegistry()
	t.Cleanup(ResetRegistry)

	require.NoError(t, Register("stub", stubFactory))
	require.Equal(t, []string{"stub"}, Kinds())

	adapter, err := ForResource(config.Resource{ID: "one", Kind: "stub"})
	require.NoError(t, err)
	require.Equal(t, "stub", adapter.Kind())
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	ResetRegistry()
	t.Cleanup(ResetRegistry)

	require.NoError(t, Register("stub", stubFactory))
	require.Error(t, Register("stub", stubFactory))
}

func TestRegisterRejectsNilFactory(t *testing.T) {
	ResetRegistry()
	t.Cleanup(ResetRegistry)

	require.Error(t, Register("stub", nil))
}

func TestForResourceUnknownKind(t *testing.T) {
	ResetRegistry()
	t.Cleanup(ResetRegistry)

	_, err := ForResource(config.Resource{ID: "one", Kind: "mystery"})
	require.Error(t, err)
}
