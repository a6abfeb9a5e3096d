package codec

import (
	"encoding/json"

	"lastcard/internal/protocol"
)

// Encode serializes a message using a pooled buffer.
// The returned slice is a private copy, safe to use after the buffer
// goes back to the pool.
func Encode(msg *protocol.Message) ([]byte, error) {
	buf := GetBuffer()
	defer PutBuffer(buf)

	if err := json.NewEncoder(buf).Encode(msg); err != nil {
		return nil, err
	}

	// json.Encoder appends a newline, drop it
	b := buf.Bytes()
	if n := len(b); n > 0 && b[n-1] == '\n' {
		b = b[:n-1]
	}

	out := make([]byte, len(b))
	copy(out, b)
	return out, nil
}

// Decode parses raw bytes into a pooled message.
// The caller must return it with PutMessage once dispatched.
func Decode(data []byte) (*protocol.Message, error) {
	msg := GetMessage()
	if err := json.Unmarshal(data, msg); err != nil {
		PutMessage(msg)
		return nil, err
	}
	return msg, nil
}
