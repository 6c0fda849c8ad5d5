package realtime

import "encoding/json"

// Frame кадр, который уходит клиенту.
type Frame struct {
	Event   string          `json:"event"`
	Room    string          `json:"room,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

func encodeFrame(room, event string, payload any) ([]byte, error) {
	frame := Frame{
		Event: event,
		Room:  room,
	}

	if payload != nil {
		raw, ok := payload.(json.RawMessage)
		if !ok {
			var err error
			raw, err = json.Marshal(payload)
			if err != nil {
				return nil, err
			}
		}
		frame.Payload = raw
	}

	return json.Marshal(frame)
}
