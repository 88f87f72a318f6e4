package incus

// Response is the envelope every Incus API endpoint wraps its payload in.
// Sync responses carry the resource body in Metadata; error responses
// carry a message and an error code mirroring the HTTP status.
type Response struct {
	Type       string         `json:"type"`
	Status     string         `json:"status"`
	StatusCode int            `json:"status_code"`
	Error      string         `json:"error"`
	ErrorCode  int            `json:"error_code"`
	Metadata   map[string]any `json:"metadata"`
}

// IsError reports whether the server answered with an error envelope.
func (r *Response) IsError() bool {
	return r != nil && r.Type == "error"
}
