package stream

import "encoding/json"

// Envelope wraps all WebSocket messages with a type discriminator. ID is
// echoed back on the reply so a client can match concurrent requests.
type Envelope struct {
	Type    string          `json:"type"`
	ID      string          `json:"id,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Client -> Server
const (
	TypeSimulate = "simulate"
	TypeCompare  = "compare"
)

// Server -> Client
const (
	TypeResult = "result"
	TypeError  = "error"
)

// NewEnvelope marshals payload into an envelope of msgType.
func NewEnvelope(msgType, id string, payload interface{}) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Type: msgType, ID: id, Payload: raw})
}
