package incus

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	netsyncerrors "github.com/incus-tools/netsync/pkg/errors"
)

func newTestClient(t *testing.T, handler http.Handler, opts Options) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	opts.Remote = server.URL
	client, err := New(opts)
	require.NoError(t, err)
	return client
}

func writeEnvelope(w http.ResponseWriter, status int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

func TestQueryDecodesSyncResponse(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/1.0/network-acls/web", r.URL.Path)
		writeEnvelope(w, http.StatusOK, Response{
			Type:       "sync",
			Status:     "Success",
			StatusCode: http.StatusOK,
			Metadata:   map[string]any{"name": "web"},
		})
	}), Options{})

	resp, err := client.Query(context.Background(), http.MethodGet, "/1.0/network-acls/web", nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "web", resp.Metadata["name"])
}

func TestQueryAppendsProjectParam(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "staging", r.URL.Query().Get("project"))
		writeEnvelope(w, http.StatusOK, Response{Type: "sync", StatusCode: http.StatusOK})
	}), Options{Project: "staging"})

	_, err := client.Query(context.Background(), http.MethodGet, "/1.0/network-zones/z", nil)
	require.NoError(t, err)
}

func TestQueryOmitsDefaultProject(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.False(t, r.URL.Query().Has("project"))
		writeEnvelope(w, http.StatusOK, Response{Type: "sync", StatusCode: http.StatusOK})
	}), Options{Project: "default"})

	_, err := client.Query(context.Background(), http.MethodGet, "/1.0/network-zones/z", nil)
	require.NoError(t, err)
}

func TestQueryToleratesListedErrorCodes(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusNotFound, Response{Type: "error", Error: "not found", ErrorCode: http.StatusNotFound})
	}), Options{})

	resp, err := client.Query(context.Background(), http.MethodGet, "/1.0/network-acls/missing", nil, http.StatusNotFound)
	require.NoError(t, err)
	require.True(t, resp.IsError())
	require.Equal(t, http.StatusNotFound, resp.ErrorCode)
}

func TestQueryReadErrorIsProtocolError(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusForbidden, Response{Type: "error", Error: "forbidden", ErrorCode: http.StatusForbidden})
	}), Options{})

	_, err := client.Query(context.Background(), http.MethodGet, "/1.0/network-acls/web", nil, http.StatusNotFound)

	var protocolErr *netsyncerrors.ProtocolError
	require.ErrorAs(t, err, &protocolErr)
	require.Equal(t, http.StatusForbidden, protocolErr.StatusCode)
}

func TestQueryRejectedWriteIsRemoteRejected(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		require.Equal(t, "web", payload["name"])

		writeEnvelope(w, http.StatusBadRequest, Response{Type: "error", Error: "invalid rule", ErrorCode: http.StatusBadRequest})
	}), Options{})

	_, err := client.Query(context.Background(), http.MethodPost, "/1.0/network-acls", map[string]any{"name": "web"})

	var rejectedErr *netsyncerrors.RemoteRejectedError
	require.ErrorAs(t, err, &rejectedErr)
	require.Equal(t, http.StatusBadRequest, rejectedErr.Code)
	require.Equal(t, "invalid rule", rejectedErr.Message)
}

func TestQueryMalformedBodyIsProtocolError(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("<html>not json</html>"))
	}), Options{})

	_, err := client.Query(context.Background(), http.MethodGet, "/1.0/network-acls/web", nil)

	var protocolErr *netsyncerrors.ProtocolError
	require.ErrorAs(t, err, &protocolErr)
}

func TestQueryNetworkFailureIsTransportError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client, err := New(Options{Remote: url})
	require.NoError(t, err)

	_, err = client.Query(context.Background(), http.MethodGet, "/1.0/network-acls/web", nil)

	var transportErr *netsyncerrors.TransportError
	require.ErrorAs(t, err, &transportErr)
}

func TestQueryOverUnixSocket(t *testing.T) {
	t.Parallel()

	socket := filepath.Join(t.TempDir(), "incus.sock")
	listener, err := net.Listen("unix", socket)
	require.NoError(t, err)

	server := &http.Server{Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, Response{Type: "sync", StatusCode: http.StatusOK, Metadata: map[string]any{"name": "web"}})
	})}
	go func() { _ = server.Serve(listener) }()
	t.Cleanup(func() { _ = server.Close() })

	client, err := New(Options{Socket: socket})
	require.NoError(t, err)

	resp, err := client.Query(context.Background(), http.MethodGet, "/1.0/network-acls/web", nil)
	require.NoError(t, err)
	require.Equal(t, "web", resp.Metadata["name"])
}

func TestDebugLogRecordsRequests(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, Response{Type: "sync", StatusCode: http.StatusOK})
	}), Options{Debug: true})

	_, err := client.Query(context.Background(), http.MethodGet, "/1.0/network-acls/web", nil)
	require.NoError(t, err)

	logs := client.Logs()
	require.Len(t, logs, 1)
	require.Contains(t, logs[0], "GET /1.0/network-acls/web")
}

func TestNewRejectsUnsupportedScheme(t *testing.T) {
	t.Parallel()

	_, err := New(Options{Remote: "ftp://incus.example.org"})
	require.Error(t, err)
}
