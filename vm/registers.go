package vm

// general purpose register indices
const (
	R0 = iota
	R1
	R2
	R3
	R4
	R5
	R6
	R7

	NumRegisters
)

// Flag is the 3-bit NZP condition code, laid out the way the BR
// instruction encodes its condition mask.
type Flag uint16

// condition flags
const (
	FlagPositive Flag = 1 << 0
	FlagZero     Flag = 1 << 1
	FlagNegative Flag = 1 << 2
)

func (f Flag) String() string {
	switch f {
	case FlagNegative:
		return "N"
	case FlagZero:
		return "Z"
	case FlagPositive:
		return "P"
	}
	return "?"
}

// Registers is the register file: eight general purpose registers, the
// program counter and the condition flags. Exactly one flag is set at
// all times; the machine starts with Zero, matching a zeroed register
// file. R6 is the stack pointer only by calling convention, nothing
// here enforces that.
type Registers struct {
	R    [NumRegisters]Word
	PC   Word
	Cond Flag
}

// NewRegisters returns a register file in the power-on state with the
// program counter at the start of user space.
func NewRegisters() Registers {
	return Registers{PC: UserSpaceStart, Cond: FlagZero}
}

// SetFlags sets the condition flag matching the sign of value read as a
// two's-complement 16-bit integer.
func (r *Registers) SetFlags(value Word) {
	switch {
	case value == 0:
		r.Cond = FlagZero
	case value>>15 != 0:
		r.Cond = FlagNegative
	default:
		r.Cond = FlagPositive
	}
}

// Test reports whether the currently set flag is among those in mask.
// An empty mask matches nothing.
func (r *Registers) Test(mask Flag) bool {
	return r.Cond&mask != 0
}
