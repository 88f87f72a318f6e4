package incus

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/incus-tools/netsync/internal/logger"
	netsyncerrors "github.com/incus-tools/netsync/pkg/errors"
)

const (
	// DefaultSocketPath is where the Incus daemon listens when no remote
	// is configured.
	DefaultSocketPath = "/var/lib/incus/unix.socket"

	socketEnv     = "INCUS_SOCKET"
	maxLogEntries = 100
)

// Options configures a Client. Remote selects an HTTPS endpoint with
// certificate authentication; when empty the unix socket is used.
type Options struct {
	Socket             string
	Remote             string
	ClientCert         string
	ClientKey          string
	InsecureSkipVerify bool
	Project            string
	Debug              bool
	Logger             *logger.Logger
}

// Client is a minimal Incus REST client. It performs single synchronous
// requests and translates error envelopes into the typed errors the
// reconciler understands. It keeps no state besides a debug request log.
type Client struct {
	http    *http.Client
	baseURL string
	project string
	debug   bool
	log     *logger.Logger
	logs    []string
}

// New builds a Client from Options.
func New(opts Options) (*Client, error) {
	client := &Client{
		project: opts.Project,
		debug:   opts.Debug,
		log:     opts.Logger,
	}

	if opts.Remote != "" {
		parsed, err := url.Parse(opts.Remote)
		if err != nil {
			return nil, netsyncerrors.NewTransportError(opts.Remote, err)
		}
		if parsed.Scheme != "https" && parsed.Scheme != "http" {
			return nil, netsyncerrors.NewTransportError(opts.Remote, fmt.Errorf("unsupported scheme %q", parsed.Scheme))
		}

		tlsConfig := &tls.Config{InsecureSkipVerify: opts.InsecureSkipVerify}
		if opts.ClientCert != "" || opts.ClientKey != "" {
			cert, err := tls.LoadX509KeyPair(opts.ClientCert, opts.ClientKey)
			if err != nil {
				return nil, netsyncerrors.NewTransportError(opts.Remote, err)
			}
			tlsConfig.Certificates = []tls.Certificate{cert}
		}

		client.baseURL = strings.TrimSuffix(opts.Remote, "/")
		client.http = &http.Client{Transport: &http.Transport{TLSClientConfig: tlsConfig}}
		return client, nil
	}

	socket := opts.Socket
	if socket == "" {
		socket = os.Getenv(socketEnv)
	}
	if socket == "" {
		socket = DefaultSocketPath
	}

	client.baseURL = "http://incus"
	client.http = &http.Client{
		Transport: &http.Transport{
			DialContext: func(ctx context.Context, _, _ string) (net.Conn, error) {
				var d net.Dialer
				return d.DialContext(ctx, "unix", socket)
			},
		},
	}
	return client, nil
}

// Query issues a single request and decodes the response envelope. Error
// envelopes whose code appears in okErrors are returned to the caller
// instead of failing, which is how reads tolerate 404. Any other error
// envelope is fatal: reads surface a ProtocolError, writes a
// RemoteRejectedError.
func (c *Client) Query(ctx context.Context, method, path string, payload any, okErrors ...int) (*Response, error) {
	target := c.baseURL + path
	if c.project != "" && c.project != "default" {
		sep := "?"
		if strings.Contains(path, "?") {
			sep = "&"
		}
		target += sep + "project=" + url.QueryEscape(c.project)
	}

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, netsyncerrors.NewTransportError(path, err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, netsyncerrors.NewTransportError(path, err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	httpResp, err := c.http.Do(req)
	if err != nil {
		return nil, netsyncerrors.NewTransportError(path, err)
	}
	defer httpResp.Body.Close()

	var resp Response
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, netsyncerrors.NewProtocolError(httpResp.StatusCode, "invalid response body")
	}

	c.record(method, path, &resp)

	if resp.IsError() {
		for _, code := range okErrors {
			if resp.ErrorCode == code {
				return &resp, nil
			}
		}
		if method == http.MethodGet {
			return nil, netsyncerrors.NewProtocolError(resp.ErrorCode, resp.Error)
		}
		return nil, netsyncerrors.NewRemoteRejectedError(method, path, resp.ErrorCode, resp.Error)
	}

	return &resp, nil
}

// Logs returns the debug request log collected so far.
func (c *Client) Logs() []string {
	return c.logs
}

func (c *Client) record(method, path string, resp *Response) {
	if !c.debug {
		return
	}

	code := resp.StatusCode
	if resp.IsError() {
		code = resp.ErrorCode
	}
	entry := fmt.Sprintf("%s %s -> %d", method, path, code)

	if len(c.logs) < maxLogEntries {
		c.logs = append(c.logs, entry)
	}
	if c.log != nil {
		c.log.Debug(entry)
	}
}
