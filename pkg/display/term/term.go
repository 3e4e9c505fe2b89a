// Package term implements a display driver that renders in the
// terminal with termloop, one character cell per pixel. Useful over ssh
// or anywhere a window system is not available. Ctrl+C quits.
package term

import (
	tl "github.com/JoelOtter/termloop"

	"github.com/hexkey/gochip8/internal/screen"
	"github.com/hexkey/gochip8/pkg/display"
	"github.com/hexkey/gochip8/pkg/display/event"
)

func init() {
	display.Install("term", &termDriver{}, nil)
}

// termDriver runs a termloop game whose single entity drains the frame
// channel and paints changed cells.
type termDriver struct {
	game *tl.Game
}

func (d *termDriver) Start(frames <-chan display.Frame, events <-chan event.Event, input chan<- rune) error {
	d.game = tl.NewGame()
	d.game.Screen().SetFps(60)

	status := tl.NewText(0, screen.Height+1, "", tl.ColorWhite, tl.ColorBlack)
	d.game.Screen().AddEntity(status)
	d.game.Screen().AddEntity(&machineEntity{
		frames: frames,
		events: events,
		input:  input,
		status: status,
	})

	d.game.Start()
	return nil
}

func (d *termDriver) Stop() error {
	return nil
}

// machineEntity is the termloop entity driving the display. Draw
// drains pending frames into the cell grid and paints it; Tick
// forwards key presses to the machine.
type machineEntity struct {
	frames <-chan display.Frame
	events <-chan event.Event
	input  chan<- rune
	status *tl.Text

	pixels [screen.Height][screen.Width]bool
}

func (e *machineEntity) Draw(s *tl.Screen) {
	for {
		select {
		case frame := <-e.frames:
			if frame.Cleared {
				e.pixels = [screen.Height][screen.Width]bool{}
			}
			for _, t := range frame.Transitions {
				e.pixels[t.Y][t.X] = t.State == screen.Drawn
			}
		case ev := <-e.events:
			if ev.Type == event.Title {
				e.status.SetText(ev.Data.(string))
			}
		default:
			e.paint(s)
			return
		}
	}
}

func (e *machineEntity) paint(s *tl.Screen) {
	for y := 0; y < screen.Height; y++ {
		for x := 0; x < screen.Width; x++ {
			cell := tl.Cell{Bg: tl.ColorBlack, Ch: ' '}
			if e.pixels[y][x] {
				cell.Bg = tl.ColorWhite
			}
			s.RenderCell(x, y, &cell)
		}
	}
}

func (e *machineEntity) Tick(ev tl.Event) {
	if ev.Type != tl.EventKey || ev.Ch == 0 {
		return
	}
	select {
	case e.input <- ev.Ch:
	default:
		// One character is consumed per frame; drop the backlog.
	}
}
