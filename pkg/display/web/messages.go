package web

// Type is the first byte of every server->client message.
type Type = uint8

const (
	// Frame carries a cache slot index followed by the packed 256 byte
	// framebuffer (brotli compressed when compression is on).
	Frame Type = iota
	// FrameCached carries only a cache slot index; the client replays
	// the frame it stored there earlier.
	FrameCached
	// Beep marks a frame during which the sound timer was running.
	Beep
	// Halted carries a textual halt notice; emulation has stopped.
	Halted
	// ServerInfo carries the hub settings byte sent on connect.
	ServerInfo
)

// Client->server messages are a single byte: the ASCII code of a
// pressed key, or Closing.
const (
	// Closing is sent by a client about to disconnect.
	Closing uint8 = 255
)
