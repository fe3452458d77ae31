package protocol

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
)

// MaxMessageSize bounds a single frame. A peer announcing a larger frame is
// misbehaving and gets disconnected.
const MaxMessageSize = 1 << 20

// frameHeaderSize is the length prefix in bytes (little-endian uint32).
const frameHeaderSize = 4

// Encode marshals a message to its JSON wire form without framing. The
// observer surfaces (WebSocket, REST) use the unframed form directly.
func Encode(msg Message) ([]byte, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("encode message: %w", err)
	}
	return data, nil
}

// Frame prepends the length prefix to an encoded message payload.
func Frame(payload []byte) []byte {
	framed := make([]byte, frameHeaderSize+len(payload))
	binary.LittleEndian.PutUint32(framed, uint32(len(payload)))
	copy(framed[frameHeaderSize:], payload)
	return framed
}

// WriteMessage encodes, frames, and writes a message as a single write.
func WriteMessage(w io.Writer, msg Message) error {
	payload, err := Encode(msg)
	if err != nil {
		return err
	}
	if len(payload) > MaxMessageSize {
		return fmt.Errorf("message too large: %d bytes exceeds max %d", len(payload), MaxMessageSize)
	}
	if _, err := w.Write(Frame(payload)); err != nil {
		return fmt.Errorf("write message: %w", err)
	}
	return nil
}

// ReadMessage reads one length-prefixed message from r. It returns io.EOF
// when the peer closes the connection cleanly between frames.
func ReadMessage(r io.Reader) (*Message, error) {
	header := make([]byte, frameHeaderSize)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, err
	}

	size := binary.LittleEndian.Uint32(header)
	if size > MaxMessageSize {
		return nil, fmt.Errorf("frame too large: %d bytes exceeds max %d", size, MaxMessageSize)
	}

	payload := make([]byte, size)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, fmt.Errorf("read frame body: %w", err)
	}

	var msg Message
	if err := json.Unmarshal(payload, &msg); err != nil {
		return nil, fmt.Errorf("decode message: %w", err)
	}
	return &msg, nil
}
