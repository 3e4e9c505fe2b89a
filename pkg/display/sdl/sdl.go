// Package sdl implements a display driver on SDL2. It renders the
// 64x32 framebuffer into a scaled window and feeds keyboard characters
// back to the machine.
package sdl

import (
	"runtime"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/hexkey/gochip8/internal/screen"
	"github.com/hexkey/gochip8/pkg/display"
	"github.com/hexkey/gochip8/pkg/display/event"
	"github.com/hexkey/gochip8/pkg/utils"
)

func init() {
	// SDL event handling must stay on the main thread.
	runtime.LockOSThread()

	driver := &sdlDriver{}
	display.Install("sdl", driver, []display.DriverOption{
		{
			Name:        "scale",
			Default:     10.0,
			Value:       &driver.scale,
			Type:        "float",
			Description: "Scale the window by this factor",
		},
		{
			Name:        "title",
			Default:     "gochip8",
			Value:       &driver.title,
			Type:        "string",
			Description: "Window title",
		},
	})
}

// sdlDriver renders frames with the SDL2 renderer API.
type sdlDriver struct {
	scale float64
	title string

	window   *sdl.Window
	renderer *sdl.Renderer
	bitmap   []byte
}

// Start opens the window and runs the render/input loop until the
// window is closed or a Quit event arrives.
func (d *sdlDriver) Start(frames <-chan display.Frame, events <-chan event.Event, input chan<- rune) error {
	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return err
	}

	var err error
	d.window, err = sdl.CreateWindow(d.title,
		sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED,
		int32(screen.Width*d.scale), int32(screen.Height*d.scale),
		sdl.WINDOW_SHOWN)
	if err != nil {
		return err
	}

	d.renderer, err = sdl.CreateRenderer(d.window, -1,
		sdl.RENDERER_ACCELERATED|sdl.RENDERER_PRESENTVSYNC)
	if err != nil {
		return err
	}

	d.bitmap = make([]byte, screen.Width*screen.Height/8)

	for {
		for ev := sdl.PollEvent(); ev != nil; ev = sdl.PollEvent() {
			switch e := ev.(type) {
			case *sdl.QuitEvent:
				return d.Stop()
			case *sdl.KeyboardEvent:
				if e.Type != sdl.KEYDOWN {
					continue
				}
				quit, err := d.handleKey(e.Keysym.Sym, input)
				if err != nil {
					d.Stop()
					return err
				}
				if quit {
					return d.Stop()
				}
			}
		}

		select {
		case frame := <-frames:
			copy(d.bitmap, frame.Bitmap)
		case ev := <-events:
			switch ev.Type {
			case event.Quit:
				return d.Stop()
			case event.Title:
				d.window.SetTitle(ev.Data.(string))
			}
		default:
		}

		d.render()
	}
}

// handleKey forwards printable keys to the machine and handles the
// driver's own bindings: Escape quits, F12 saves a screenshot, F11
// copies one to the clipboard.
func (d *sdlDriver) handleKey(sym sdl.Keycode, input chan<- rune) (bool, error) {
	switch sym {
	case sdl.K_ESCAPE:
		return true, nil
	case sdl.K_F12:
		return false, utils.SaveImage(utils.FrameImage(d.bitmap, screen.Width, screen.Height, int(d.scale)))
	case sdl.K_F11:
		return false, utils.CopyImage(utils.FrameImage(d.bitmap, screen.Width, screen.Height, int(d.scale)))
	}

	if sym >= sdl.K_0 && sym <= sdl.K_z {
		select {
		case input <- rune(sym):
		default:
			// The machine consumes one character per frame; drop the rest.
		}
	}
	return false, nil
}

// render redraws the window from the packed framebuffer.
func (d *sdlDriver) render() {
	d.renderer.SetDrawColor(0, 0, 0, 255)
	d.renderer.Clear()
	d.renderer.SetDrawColor(255, 255, 255, 255)

	cell := int32(d.scale)
	for y := int32(0); y < screen.Height; y++ {
		for x := int32(0); x < screen.Width; x++ {
			idx := y*screen.Width + x
			if d.bitmap[idx/8]&(0x80>>(idx%8)) != 0 {
				d.renderer.FillRect(&sdl.Rect{X: x * cell, Y: y * cell, W: cell, H: cell})
			}
		}
	}

	d.renderer.Present()
}

// Stop tears the window down.
func (d *sdlDriver) Stop() error {
	if d.renderer != nil {
		d.renderer.Destroy()
	}
	if d.window != nil {
		d.window.Destroy()
	}
	sdl.Quit()
	return nil
}
