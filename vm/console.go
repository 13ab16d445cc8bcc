package vm

import (
	"bufio"
	"fmt"
	"io"
)

// Console is the machine's view of the host terminal: one byte-input
// source shared by the keyboard device registers and the input traps,
// and one byte-output sink for the output traps. A real terminal, a
// file or an in-memory buffer all work.
type Console struct {
	out  io.Writer
	keys chan byte
}

// NewConsole wires the console to the given host streams and starts
// pumping input into the key buffer.
func NewConsole(in io.Reader, out io.Writer) *Console {
	c := &Console{
		out:  out,
		keys: make(chan byte, 1),
	}
	go c.pump(in)
	return c
}

// pump feeds the key buffer from the input stream one byte at a time,
// closing it when the stream ends.
func (c *Console) pump(in io.Reader) {
	r := bufio.NewReader(in)
	for {
		b, err := r.ReadByte()
		if err != nil {
			close(c.keys)
			return
		}
		c.keys <- b
	}
}

// KeyReady reports whether a key is buffered, so a ReadKey would return
// without blocking.
func (c *Console) KeyReady() bool {
	return len(c.keys) > 0
}

// ReadKey consumes one byte of host input, blocking until one arrives.
// It fails with ErrInputExhausted once the input stream is closed.
func (c *Console) ReadKey() (byte, error) {
	b, ok := <-c.keys
	if !ok {
		return 0, ErrInputExhausted
	}
	return b, nil
}

// WriteByte sends one byte to host output.
func (c *Console) WriteByte(b byte) error {
	if _, err := c.out.Write([]byte{b}); err != nil {
		return fmt.Errorf("writing to console: %w", err)
	}
	return nil
}

// WriteString sends s to host output.
func (c *Console) WriteString(s string) error {
	if _, err := io.WriteString(c.out, s); err != nil {
		return fmt.Errorf("writing to console: %w", err)
	}
	return nil
}
