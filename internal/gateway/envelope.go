// AngelaMos | 2026
// envelope.go

package gateway

import (
	"bytes"
	"encoding/json"
)

// Envelope is the backend's response wrapper. Success is nil when the
// backend omitted the field.
type Envelope struct {
	Success *bool           `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   json.RawMessage `json:"error"`
}

func (e *Envelope) Failed() bool {
	return e.Success != nil && !*e.Success
}

// Text returns the most specific human message the backend sent.
func (e *Envelope) Text() string {
	if msg := rawText(e.Error); msg != "" {
		return msg
	}
	return e.Message
}

func rawText(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var obj struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		return obj.Message
	}

	return ""
}

// decodeEnvelope parses body as an envelope. ok is false when the body is
// not a JSON object.
func decodeEnvelope(body []byte) (Envelope, bool) {
	var env Envelope
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return env, false
	}

	if err := json.Unmarshal(trimmed, &env); err != nil {
		return env, false
	}

	return env, true
}
