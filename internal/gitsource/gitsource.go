package gitsource

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	netsyncerrors "github.com/incus-tools/netsync/pkg/errors"
)

// DefaultManifestName is the manifest file looked up in a repository when
// the reference carries no sub-path.
const DefaultManifestName = "netsync.yaml"

// Ref is a parsed git manifest reference of the form
// <repo-url>[//sub/path.yaml][@branch].
type Ref struct {
	URL    string
	Path   string
	Branch string
}

// IsGitRef reports whether a manifest argument points at a git repository
// rather than a local file.
func IsGitRef(ref string) bool {
	if strings.HasPrefix(ref, "git@") {
		return true
	}
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return strings.Contains(ref, ".git")
	}
	return false
}

// ParseRef splits a git manifest reference into repository URL, sub-path
// and branch.
func ParseRef(ref string) Ref {
	parsed := Ref{URL: ref, Path: DefaultManifestName}

	// A trailing @branch sits after the last path segment; an earlier @
	// belongs to the URL userinfo or an scp-style address.
	if at := strings.LastIndex(parsed.URL, "@"); at > strings.LastIndex(parsed.URL, "/") && !strings.HasPrefix(parsed.URL, "git@") {
		parsed.Branch = parsed.URL[at+1:]
		parsed.URL = parsed.URL[:at]
	}

	// The scheme's own double slash does not count as a separator.
	rest := parsed.URL
	offset := 0
	if i := strings.Index(rest, "://"); i >= 0 {
		offset = i + len("://")
		rest = rest[offset:]
	}
	if i := strings.Index(rest, "//"); i >= 0 {
		parsed.Path = rest[i+2:]
		parsed.URL = parsed.URL[:offset+i]
	}

	return parsed
}

// Fetch clones the referenced repository shallowly into a temporary
// directory and returns the local path of the manifest file inside it.
// The cleanup function removes the checkout.
func Fetch(ctx context.Context, ref Ref) (string, func(), error) {
	dir, err := os.MkdirTemp("", "netsync-manifest-")
	if err != nil {
		return "", nil, netsyncerrors.NewTransportError(ref.URL, err)
	}
	cleanup := func() { _ = os.RemoveAll(dir) }

	cloneOpts := &git.CloneOptions{
		URL:   ref.URL,
		Depth: 1,
	}
	if ref.Branch != "" {
		cloneOpts.ReferenceName = plumbing.NewBranchReferenceName(ref.Branch)
		cloneOpts.SingleBranch = true
	}

	if _, err := git.PlainCloneContext(ctx, dir, false, cloneOpts); err != nil {
		cleanup()
		return "", nil, netsyncerrors.NewTransportError(ref.URL, err)
	}

	manifestPath := filepath.Join(dir, filepath.FromSlash(ref.Path))
	if _, err := os.Stat(manifestPath); err != nil {
		cleanup()
		return "", nil, netsyncerrors.NewParseError(ref.Path, 0, fmt.Errorf("manifest not found in repository: %w", err))
	}

	return manifestPath, cleanup, nil
}
