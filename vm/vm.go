// Package vm emulates the LC-3 instructional computer: 65536 words of
// memory with a memory-mapped keyboard, eight general purpose
// registers, the sixteen-opcode instruction set and the standard trap
// vectors for console I/O.
package vm

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/retroenv/retrogolib/log"
)

// VM is one LC-3 machine instance. Instances are independent; any
// number can run side by side as long as each is driven from a single
// goroutine.
type VM struct {
	cpu     *CPU
	mem     *Memory
	console *Console
}

type config struct {
	logger *log.Logger
	in     io.Reader
	out    io.Writer
}

// Option configures a VM at construction time.
type Option func(*config)

// WithLogger sets the logger used for instruction tracing.
func WithLogger(logger *log.Logger) Option {
	return func(cfg *config) { cfg.logger = logger }
}

// WithInput sets the host input stream feeding the keyboard device and
// the input traps.
func WithInput(r io.Reader) Option {
	return func(cfg *config) { cfg.in = r }
}

// WithOutput sets the host output sink for the output traps.
func WithOutput(w io.Writer) Option {
	return func(cfg *config) { cfg.out = w }
}

// New builds a machine with zeroed memory, the PC at the start of user
// space and the Zero flag set. Host streams default to stdin/stdout.
func New(opts ...Option) *VM {
	cfg := config{
		logger: log.NewWithConfig(log.DefaultConfig()),
		in:     os.Stdin,
		out:    os.Stdout,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	console := NewConsole(cfg.in, cfg.out)
	mem := NewMemory(console)
	return &VM{
		cpu:     NewCPU(mem, console, cfg.logger),
		mem:     mem,
		console: console,
	}
}

// Load places a program image into memory and points the PC at its
// origin. Loading several images is allowed; the last origin wins.
func (v *VM) Load(r io.Reader) error {
	origin, err := v.mem.LoadImage(r)
	if err != nil {
		return err
	}
	v.cpu.reg.PC = origin
	return nil
}

// Step runs one machine cycle.
func (v *VM) Step() (StepResult, error) {
	return v.cpu.Step()
}

// Run drives the machine until it halts or faults. The context stops
// the loop between cycles; it cannot interrupt a blocking keyboard
// read already in flight.
func (v *VM) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		result, err := v.Step()
		if err != nil {
			return err
		}
		if result == Halted {
			return nil
		}
	}
}

// Halted reports whether the machine reached the HALT trap.
func (v *VM) Halted() bool {
	return v.cpu.halted
}

// Registers returns a copy of the register file for inspection.
func (v *VM) Registers() Registers {
	return v.cpu.reg
}

// Peek returns the word at addr without device side effects.
func (v *VM) Peek(addr Word) Word {
	return v.mem.Peek(addr)
}

// Poke stores value at addr without device side effects.
func (v *VM) Poke(addr, value Word) {
	v.mem.Poke(addr, value)
}

// DumpRegisters formats the register file on one line for fault
// reports and debugging.
func (v *VM) DumpRegisters() string {
	reg := v.cpu.reg
	var sb strings.Builder
	for i, val := range reg.R {
		fmt.Fprintf(&sb, "R%d=0x%04X ", i, uint16(val))
	}
	fmt.Fprintf(&sb, "PC=0x%04X COND=%s", uint16(reg.PC), reg.Cond)
	return sb.String()
}
