package deviceapi

import (
	"encoding/json"
	"net/http"

	"github.com/vmihailenco/msgpack/v5"
)

// formatter encodes and writes device responses as JSON (default) or
// MessagePack (?format=msgpack). Arduino firmware decodes MessagePack
// more cheaply than JSON on constrained hardware; the payload fields
// are identical in both encodings.
type formatter struct{}

func newFormatter() *formatter { return &formatter{} }

// write picks the wire format from the request's format query parameter
// and always sets the CORS header devices rely on to poll cross-origin.
func (f *formatter) write(w http.ResponseWriter, req *http.Request, status int, data any) error {
	w.Header().Set("Access-Control-Allow-Origin", "*")

	if req.URL.Query().Get("format") == "msgpack" {
		w.Header().Set("Content-Type", "application/x-msgpack")
		w.WriteHeader(status)
		enc := msgpack.NewEncoder(w)
		enc.SetCustomStructTag("json")
		return enc.Encode(data)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}
