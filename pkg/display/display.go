// Package display defines the driver interface rendering frontends
// implement, and a registry that drivers install themselves into from
// their init functions. The main program picks a driver by name (or the
// first installed one) and wires it to the machine with channels.
package display

import (
	"flag"
	"fmt"

	"github.com/hexkey/gochip8/internal/screen"
	"github.com/hexkey/gochip8/pkg/display/event"
)

// Frame is one emulated frame's output for a renderer. Transitions list
// exactly the cells that changed; drivers that ship whole frames (the
// web driver) use the packed Bitmap instead.
type Frame struct {
	// Transitions are the pixel flips this frame produced, in draw
	// order. A renderer updating only the reported cells stays exact.
	Transitions []screen.Transition
	// Cleared is set when the display was blanked this frame. It is
	// signalled independently of Transitions.
	Cleared bool
	// Bitmap is the full framebuffer, packed one bit per pixel,
	// row-major, most significant bit leftmost.
	Bitmap []byte
	// Beep is set for frames in which the sound timer was running.
	Beep bool
}

// Driver is a rendering frontend. Start blocks until the surface is
// closed or the events channel delivers a Quit; input characters are
// sent back to the machine over the input channel, one consumed per
// frame.
type Driver interface {
	Start(frames <-chan Frame, events <-chan event.Event, input chan<- rune) error
	Stop() error
}

// DriverOption is a configurable driver setting, surfaced as a
// command-line flag prefixed with the driver name.
type DriverOption struct {
	Name        string
	Default     any
	Value       any // pointer to the driver's field
	Description string
	Type        string // "int", "bool", "string", "float"
}

// InstalledDriver pairs a driver with its registry name and options.
type InstalledDriver struct {
	Name    string
	Options []DriverOption
	Driver
}

// InstalledDrivers lists every driver compiled into the binary.
// Drivers call Install from their init functions.
var InstalledDrivers []*InstalledDriver

// Install registers a display driver under name.
func Install(name string, driver Driver, options []DriverOption) {
	InstalledDrivers = append(InstalledDrivers, &InstalledDriver{
		Name:    name,
		Options: options,
		Driver:  driver,
	})
}

// GetDriver returns the driver registered under name, the first
// installed driver for "auto", or nil when no such driver exists.
func GetDriver(name string) Driver {
	if name == "auto" && len(InstalledDrivers) > 0 {
		return InstalledDrivers[0]
	}
	for _, driver := range InstalledDrivers {
		if driver.Name == name {
			return driver.Driver
		}
	}
	return nil
}

// RegisterFlags surfaces every installed driver's options as flags of
// the form -<driver>-<option>.
func RegisterFlags(flags *flag.FlagSet) {
	for _, driver := range InstalledDrivers {
		for _, opt := range driver.Options {
			name := fmt.Sprintf("%s-%s", driver.Name, opt.Name)
			switch opt.Type {
			case "string":
				flags.StringVar(opt.Value.(*string), name, opt.Default.(string), opt.Description)
			case "bool":
				flags.BoolVar(opt.Value.(*bool), name, opt.Default.(bool), opt.Description)
			case "float":
				flags.Float64Var(opt.Value.(*float64), name, opt.Default.(float64), opt.Description)
			case "int":
				flags.IntVar(opt.Value.(*int), name, opt.Default.(int), opt.Description)
			}
		}
	}
}
