package components

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestProgressView(t *testing.T) {
	t.Parallel()

	out := NewProgress(4).View(2)
	require.Contains(t, out, "2/4")
}

func TestProgressZeroTotal(t *testing.T) {
	t.Parallel()

	out := NewProgress(0).View(0)
	require.Contains(t, out, "0/0")
}
