// Package web implements a display driver that serves the emulated
// screen to browsers over websockets. Frames are broadcast as packed
// bitmaps, optionally brotli compressed, with a small cache so that
// repeated frames travel as a two byte index instead of a payload. Key
// presses typed in the browser are fed back to the machine.
package web

import (
	"encoding/binary"
	"net/http"
	"sync"
	"time"

	"github.com/cespare/xxhash"
	"github.com/google/brotli/go/cbrotli"
	"github.com/gorilla/websocket"

	"github.com/hexkey/gochip8/pkg/display"
	"github.com/hexkey/gochip8/pkg/display/event"
)

const frameCacheSize = 64

func init() {
	driver := &webDriver{}
	display.Install("web", driver, []display.DriverOption{
		{
			Name:        "addr",
			Default:     ":8090",
			Value:       &driver.addr,
			Type:        "string",
			Description: "Address to serve the display on",
		},
		{
			Name:        "compress",
			Default:     true,
			Value:       &driver.compress,
			Type:        "bool",
			Description: "Brotli compress broadcast frames",
		},
	})
}

type webDriver struct {
	addr     string
	compress bool
}

func (d *webDriver) Start(frames <-chan display.Frame, events <-chan event.Event, input chan<- rune) error {
	h := &hub{
		clients:    map[*Client]bool{},
		register:   make(chan *Client),
		unregister: make(chan *Client),
		input:      input,
		compress:   d.compress,
		cache:      newCache(frameCacheSize),
	}

	http.HandleFunc("/", func(wr http.ResponseWriter, r *http.Request) {
		wr.Header().Set("Access-Control-Allow-Origin", "*")

		conn, err := upgrader.Upgrade(wr, r, nil)
		if err != nil {
			return
		}
		h.newClient(conn, r)
	})

	errs := make(chan error, 1)
	go func() {
		errs <- http.ListenAndServe(d.addr, nil)
	}()

	return h.run(frames, events, errs)
}

func (d *webDriver) Stop() error {
	return nil
}

// hub tracks connected clients and broadcasts encoded frames to them.
type hub struct {
	clients              map[*Client]bool
	register, unregister chan *Client
	input                chan<- rune

	compress bool
	cache    *cache
	// latest encoded frame, replayed to connecting clients
	current []byte

	mu sync.Mutex
}

func (h *hub) run(frames <-chan display.Frame, events <-chan event.Event, errs <-chan error) error {
	for {
		select {
		case c := <-h.register:
			h.clients[c] = true
			c.Send <- []byte{ServerInfo, h.info()}
			if h.current != nil {
				c.Send <- h.current
			}
		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.Send)
			}
		case frame := <-frames:
			h.broadcastFrame(frame)
		case ev := <-events:
			switch ev.Type {
			case event.Quit:
				for c := range h.clients {
					delete(h.clients, c)
					close(c.Send)
				}
				return nil
			case event.Title:
				h.sendAll(append([]byte{Halted}, ev.Data.(string)...))
			}
		case err := <-errs:
			return err
		}
	}
}

// broadcastFrame encodes one frame and sends it to every client, as a
// cache index when the identical frame was broadcast recently.
func (h *hub) broadcastFrame(frame display.Frame) {
	payload := frame.Bitmap
	if h.compress {
		out, err := cbrotli.Encode(payload, cbrotli.WriterOptions{Quality: 7})
		if err != nil {
			return
		}
		payload = out
	}

	idx := make([]byte, 2)
	hash := xxhash.Sum64(payload)

	h.cache.Lock()
	if i := h.cache.index(hash); i != -1 {
		binary.LittleEndian.PutUint16(idx, uint16(i))
		h.sendAll(append([]byte{FrameCached}, idx...))
	} else {
		binary.LittleEndian.PutUint16(idx, uint16(h.cache.add(hash, payload)))
		msg := append(append([]byte{Frame}, idx...), payload...)
		h.current = msg
		h.sendAll(msg)
	}
	h.cache.Unlock()

	if frame.Beep {
		h.sendAll([]byte{Beep})
	}
}

func (h *hub) sendAll(message []byte) {
	for c := range h.clients {
		select {
		case c.Send <- message:
		default:
			delete(h.clients, c)
			close(c.Send)
		}
	}
}

// info packs the hub settings into one byte: bit 0 set when frames are
// compressed.
func (h *hub) info() byte {
	var info byte
	if h.compress {
		info |= 1
	}
	return info
}

func (h *hub) newClient(conn *websocket.Conn, r *http.Request) *Client {
	h.mu.Lock()
	defer h.mu.Unlock()

	c := &Client{
		hub:         h,
		conn:        conn,
		Send:        make(chan []byte, 256),
		RemoteAddr:  r.RemoteAddr,
		connectedAt: time.Now(),
	}
	go c.ReadPump()
	go c.WritePump()
	h.register <- c
	return c
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}
