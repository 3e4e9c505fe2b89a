// Package main implements the gochip8 emulator command. It loads a ROM,
// optionally prints a disassembly listing, and otherwise runs the
// machine at 60 frames per second against the selected display driver.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/retroenv/retrogolib/log"

	"github.com/hexkey/gochip8/internal/chip8"
	"github.com/hexkey/gochip8/internal/disasm"
	"github.com/hexkey/gochip8/internal/rom"
	"github.com/hexkey/gochip8/pkg/audio"
	"github.com/hexkey/gochip8/pkg/display"
	"github.com/hexkey/gochip8/pkg/display/event"
	_ "github.com/hexkey/gochip8/pkg/display/sdl"
	_ "github.com/hexkey/gochip8/pkg/display/term"
	_ "github.com/hexkey/gochip8/pkg/display/web"
)

type options struct {
	rom    string
	driver string
	cycles int
	disasm bool
	strict bool
	debug  bool
	quiet  bool
}

// usageError is returned when the command line cannot be parsed;
// handling it prints usage instead of a bare error.
type usageError struct {
	flags *flag.FlagSet
	msg   string
}

func (e *usageError) Error() string {
	return e.msg
}

func (e *usageError) showUsage() {
	fmt.Printf("usage: gochip8 [options] <rom file>\n\n")
	e.flags.PrintDefaults()
	fmt.Println()
}

func main() {
	opts, flags, err := parseFlags()
	if err != nil {
		exitUsage(opts, err)
	}

	logger := createLogger(opts.debug, opts.quiet)

	// a bad path or malformed file is a usage problem, not a runtime one
	image, err := loadROM(opts.rom, opts.strict, flags)
	if err != nil {
		exitUsage(opts, err)
	}
	logger.Info("loaded rom",
		log.String("name", image.Name),
		log.Int("size", len(image.Data)),
		log.String("hash", fmt.Sprintf("%016x", image.Hash)),
	)

	if opts.disasm {
		if err := disasm.Print(os.Stdout, image.Data); err != nil {
			logger.Fatal("disassembling failed", log.Err(err))
		}
		return
	}

	machine, err := chip8.New(image.Data,
		chip8.WithLogger(logger),
		chip8.WithCyclesPerFrame(opts.cycles),
	)
	if err != nil {
		logger.Fatal("initialising machine failed", log.Err(err))
	}

	driver := display.GetDriver(opts.driver)
	if driver == nil {
		logger.Fatal("invalid display driver", log.String("driver", opts.driver))
	}

	beeper, err := audio.Open()
	if err != nil {
		logger.Error("unable to open audio device", log.Err(err))
	} else {
		defer beeper.Close()
	}

	frames := make(chan display.Frame, 60)
	events := make(chan event.Event, 60)
	input := make(chan rune, 16)

	events <- event.Event{Type: event.Title, Data: image.Name}
	go run(machine, logger, beeper, frames, events, input)

	// the driver owns the main thread
	if err := driver.Start(frames, events, input); err != nil {
		logger.Fatal(err.Error())
	}
}

// run steps the machine at 60 frames per second, feeding at most one
// input character per frame and forwarding frame output to the display
// driver. It returns when the machine halts.
func run(machine *chip8.Chip8, logger *log.Logger, beeper *audio.Beeper,
	frames chan<- display.Frame, events chan<- event.Event, input <-chan rune) {
	ticker := time.NewTicker(time.Second / 60)
	defer ticker.Stop()

	for range ticker.C {
		var key rune
		select {
		case key = <-input:
		default:
		}

		result, err := machine.Frame(key)
		if err != nil {
			var haltErr *chip8.HaltError
			if errors.As(err, &haltErr) && disasm.Format(haltErr.Word) != "" {
				logger.Error("machine halted", log.Err(err),
					log.String("instruction", disasm.Format(haltErr.Word)))
			} else {
				logger.Error("machine halted", log.Err(err))
			}
			logger.Error(machine.DumpRegisters())
			events <- event.Event{Type: event.Title, Data: "halted: " + err.Error()}
			return
		}

		frame := display.Frame{
			Transitions: result.Transitions,
			Cleared:     result.Cleared,
			Bitmap:      machine.Screen.Pack(),
			Beep:        result.Beep,
		}
		select {
		case frames <- frame:
		default:
			// driver not keeping up, drop the frame
		}

		if result.Beep && beeper != nil {
			if err := beeper.Beep(); err != nil {
				logger.Debug("queueing audio failed", log.Err(err))
			}
		}
	}
}

// exitUsage reports err and terminates; parse and rom-path problems
// print the usage text, everything else a plain error line.
func exitUsage(opts options, err error) {
	var usageErr *usageError
	if errors.As(err, &usageErr) {
		if usageErr.msg != "" {
			fmt.Printf("%s\n\n", usageErr.msg)
		}
		usageErr.showUsage()
	} else {
		createLogger(opts.debug, opts.quiet).Error(err.Error())
	}
	os.Exit(1)
}

// loadROM wraps rom.Load so that an unreadable or malformed ROM path
// surfaces as a usage error.
func loadROM(path string, strict bool, flags *flag.FlagSet) (rom.Image, error) {
	image, err := rom.Load(path, strict)
	if err != nil {
		return rom.Image{}, &usageError{
			flags: flags,
			msg:   fmt.Sprintf("loading rom: %v", err),
		}
	}
	return image, nil
}

func parseFlags() (options, *flag.FlagSet, error) {
	flags := flag.NewFlagSet(os.Args[0], flag.ExitOnError)

	var opts options
	flags.StringVar(&opts.driver, "driver", "auto", "display driver to use (auto, sdl, term or web)")
	flags.IntVar(&opts.cycles, "cycles", 0, "instructions to execute per frame (0 uses the default)")
	flags.BoolVar(&opts.disasm, "disasm", false, "print a disassembly listing of the rom and exit")
	flags.BoolVar(&opts.strict, "strict", false, "reject roms that are not a whole number of instructions")
	flags.BoolVar(&opts.debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVar(&opts.quiet, "q", false, "perform operations quietly")
	display.RegisterFlags(flags)

	err := flags.Parse(os.Args[1:])
	args := flags.Args()
	if err != nil || len(args) != 1 {
		return opts, flags, &usageError{flags: flags}
	}
	opts.rom = args[0]

	return opts, flags, nil
}

func createLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}
