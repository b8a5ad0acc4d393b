package rtfserr

import (
	"bytes"
	"encoding/json"
)

// Encoded is the JSON-serializable projection of an RTFSError, grounded
// on the teacher's errors.Encoded shape, for tool consumption.
type Encoded struct {
	Schema  string                 `json:"schema"`
	Code    string                 `json:"code"`
	Kind    string                 `json:"kind"`
	Phase   string                 `json:"phase"`
	Message string                 `json:"message"`
	Data    map[string]interface{} `json:"data,omitempty"`
}

const schemaVersion = "rtfs.error/v1"

// Encode projects an RTFSError into its JSON-serializable form.
func Encode(e *RTFSError) Encoded {
	info := Registry[e.Code]
	return Encoded{
		Schema:  schemaVersion,
		Code:    string(e.Code),
		Kind:    string(e.Kind),
		Phase:   info.Phase,
		Message: e.Message,
		Data:    e.Data,
	}
}

// ToJSON renders an RTFSError as deterministic, indented JSON with sorted
// map keys (Go's encoding/json already sorts map[string]... keys).
func ToJSON(e *RTFSError) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(Encode(e)); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
