package protocol

import (
	"context"

	"github.com/wagiedev/enigma-go/internal/pending"
)

// Version is the JSON-RPC version sent with every request.
const Version = "2.0"

// Options are protocol settings merged into every request.
type Options struct {
	// Delta asks the engine for incremental (patch) payloads.
	Delta bool
}

// Request describes a single outbound call.
//
// A Request is single-use: Send assigns ID and Retry in place, and a retry
// re-sends the same Request under the same ID.
type Request struct {
	// ID is the transport-assigned request identifier. Zero until sent.
	ID int

	// Method is the engine method name, e.g. "GetActiveDoc".
	Method string

	// Handle is the target object handle. The root object uses RootHandle.
	Handle int

	// Params holds positional ([]any) or named (map[string]any) parameters.
	Params any

	// Delta overrides Options.Delta for this request when set.
	Delta *bool

	// OutKey names the single out parameter to unwrap from the result.
	// Empty when the full result should be returned.
	OutKey string

	// Retry re-sends this request. Set by the session when the request is sent.
	Retry func(ctx context.Context) *pending.Pending

	// Retries counts the re-sends made through Retry.
	Retries int
}

// Payload is the wire form of a Request.
type Payload struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int    `json:"id"`
	Method  string `json:"method"`
	Handle  int    `json:"handle"`
	Params  any    `json:"params"`
	Delta   bool   `json:"delta,omitempty"`
}

// NewPayload merges opts with req into a wire payload.
// Request fields take precedence over protocol options.
func NewPayload(opts Options, req *Request) *Payload {
	delta := opts.Delta
	if req.Delta != nil {
		delta = *req.Delta
	}

	params := req.Params
	if params == nil {
		params = []any{}
	}

	return &Payload{
		JSONRPC: Version,
		ID:      req.ID,
		Method:  req.Method,
		Handle:  req.Handle,
		Params:  params,
		Delta:   delta,
	}
}
