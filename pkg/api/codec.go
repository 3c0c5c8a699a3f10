// Package api defines the Connect services exposed by the republica server
// and typed clients for them. Messages are plain Go structs carried as JSON.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"connectrpc.com/connect"
)

// NoticeLevelHeader is the error metadata key carrying the severity of a
// rejection ("warning" or "error").
const NoticeLevelHeader = "X-Notice-Level"

// jsonCodec marshals messages with encoding/json. It is registered under the
// "json" name so it replaces connect's protojson codec.
type jsonCodec struct{}

func (jsonCodec) Name() string { return "json" }

func (jsonCodec) Marshal(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

func (jsonCodec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, msg)
}

// codecOption applies to both handlers and clients.
var codecOption = connect.WithCodec(jsonCodec{})

func handlerOptions(opts []connect.HandlerOption) []connect.HandlerOption {
	return append([]connect.HandlerOption{codecOption}, opts...)
}

func clientOptions(opts []connect.ClientOption) []connect.ClientOption {
	return append([]connect.ClientOption{codecOption}, opts...)
}

// route dispatches requests under a service path to its procedure handlers.
func route(path string, procedures map[string]http.Handler) (string, http.Handler) {
	return path, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h, ok := procedures[r.URL.Path]; ok {
			h.ServeHTTP(w, r)
			return
		}
		http.NotFound(w, r)
	})
}

// NoticeLevelOf returns the severity a server attached to a rejection, or
// the empty string when err carries none.
func NoticeLevelOf(err error) string {
	var connectErr *connect.Error
	if !errors.As(err, &connectErr) {
		return ""
	}
	return connectErr.Meta().Get(NoticeLevelHeader)
}
