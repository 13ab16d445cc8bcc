// Command lc3-go loads LC-3 object images and runs them on the
// emulated machine, with the controlling terminal acting as the
// keyboard and display.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/pkg/term/termios"
	"github.com/retroenv/retrogolib/app"
	"github.com/retroenv/retrogolib/log"
	"golang.org/x/sys/unix"
	"golang.org/x/term"

	"github.com/reverset/lc3-go/vm"
)

type options struct {
	debug bool
	quiet bool
	files []string
}

func main() {
	opts, err := parseFlags()
	if err != nil {
		var usageErr *usageError
		if errors.As(err, &usageErr) {
			usageErr.showUsage()
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger := createLogger(opts)
	if err := run(app.Context(), logger, opts); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Info("interrupted")
			os.Exit(130)
		}
		logger.Fatal(err.Error())
	}
}

func run(ctx context.Context, logger *log.Logger, opts options) error {
	machine := vm.New(vm.WithLogger(logger))

	for _, file := range opts.files {
		if err := loadImage(machine, file); err != nil {
			return err
		}
		logger.Debug("image loaded", log.String("file", file))
	}

	restore, err := enableRawMode()
	if err != nil {
		return err
	}
	defer restore()

	if err := machine.Run(ctx); err != nil {
		logger.Error("machine fault", log.Err(err),
			log.String("registers", machine.DumpRegisters()))
		return err
	}

	logger.Info("HALT")
	return nil
}

func loadImage(machine *vm.VM, file string) error {
	f, err := os.Open(file)
	if err != nil {
		return fmt.Errorf("opening image: %w", err)
	}
	defer f.Close()

	if err := machine.Load(f); err != nil {
		return fmt.Errorf("loading image %s: %w", file, err)
	}
	return nil
}

func parseFlags() (options, error) {
	flags := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	var opts options
	flags.BoolVar(&opts.debug, "debug", false, "trace every executed instruction")
	flags.BoolVar(&opts.quiet, "q", false, "only report errors")

	err := flags.Parse(os.Args[1:])
	opts.files = flags.Args()
	if err != nil || len(opts.files) == 0 {
		return opts, &usageError{flags: flags}
	}
	return opts, nil
}

func createLogger(opts options) *log.Logger {
	cfg := log.DefaultConfig()
	if opts.debug {
		cfg.Level = log.DebugLevel
	} else if opts.quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}

// usageError reports command line misuse together with the flag set
// that can print its own usage text.
type usageError struct {
	flags *flag.FlagSet
}

func (e *usageError) Error() string {
	return "usage error"
}

func (e *usageError) showUsage() {
	fmt.Printf("usage: lc3-go [options] <image-file> ...\n\n")
	e.flags.PrintDefaults()
	fmt.Println()
}

// enableRawMode puts the controlling terminal into raw mode so
// keystrokes reach the machine unbuffered and unechoed. It is a no-op
// when stdin is not a terminal, such as when input is piped in.
func enableRawMode() (restore func(), err error) {
	fd := os.Stdin.Fd()
	if !term.IsTerminal(int(fd)) {
		return func() {}, nil
	}

	var orig unix.Termios
	if err := termios.Tcgetattr(fd, &orig); err != nil {
		return nil, fmt.Errorf("reading terminal attributes: %w", err)
	}
	raw := orig
	raw.Lflag &^= unix.ICANON | unix.ECHO
	if err := termios.Tcsetattr(fd, termios.TCSANOW, &raw); err != nil {
		return nil, fmt.Errorf("setting terminal attributes: %w", err)
	}
	return func() {
		_ = termios.Tcsetattr(fd, termios.TCSANOW, &orig)
	}, nil
}
