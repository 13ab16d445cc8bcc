package vm

import "fmt"

// trap vectors
const (
	TrapGETC  Word = 0x20 /* get character from keyboard, not echoed onto the terminal */
	TrapOUT   Word = 0x21 /* output a character */
	TrapPUTS  Word = 0x22 /* output a word string */
	TrapIN    Word = 0x23 /* get character from keyboard, echoed onto the terminal */
	TrapPUTSP Word = 0x24 /* output a byte string, not implemented */
	TrapHALT  Word = 0x25 /* halt the program */
)

// inPrompt is written by the IN trap before it blocks on the keyboard.
const inPrompt = "Enter a character: "

// trap runs the system call selected by vector and reports whether the
// machine should halt. Traps touch the host streams and R0 only; the
// condition flags stay as the last flag-setting instruction left them.
func (c *CPU) trap(vector Word) (bool, error) {
	switch vector {
	case TrapGETC:
		key, err := c.console.ReadKey()
		if err != nil {
			return false, err
		}
		c.reg.R[R0] = Word(key)

	case TrapOUT:
		if err := c.console.WriteByte(byte(c.reg.R[R0])); err != nil {
			return false, err
		}

	case TrapPUTS:
		// One character per word, low byte, up to the zero terminator.
		for addr := c.reg.R[R0]; ; addr++ {
			w, err := c.mem.Read(addr)
			if err != nil {
				return false, err
			}
			if w == 0 {
				break
			}
			if err := c.console.WriteByte(byte(w)); err != nil {
				return false, err
			}
		}

	case TrapIN:
		if err := c.console.WriteString(inPrompt); err != nil {
			return false, err
		}
		key, err := c.console.ReadKey()
		if err != nil {
			return false, err
		}
		if err := c.console.WriteByte(key); err != nil {
			return false, err
		}
		c.reg.R[R0] = Word(key)

	case TrapHALT:
		return true, nil

	default:
		// PUTSP included: a documented gap, reported loudly.
		return false, fmt.Errorf("trap 0x%02X: %w", uint16(vector), ErrUnimplementedTrap)
	}

	return false, nil
}
