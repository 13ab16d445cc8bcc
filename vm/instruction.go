package vm

// Opcode identifies one of the sixteen LC-3 instruction families by the
// top four bits of the instruction word.
type Opcode uint16

// opcodes, in encoding order
const (
	OpBR Opcode = iota
	OpADD
	OpLD
	OpST
	OpJSR
	OpAND
	OpLDR
	OpSTR
	OpRTI
	OpNOT
	OpLDI
	OpSTI
	OpJMP
	OpReserved
	OpLEA
	OpTRAP
)

var opcodeNames = [...]string{
	"BR", "ADD", "LD", "ST", "JSR", "AND", "LDR", "STR",
	"RTI", "NOT", "LDI", "STI", "JMP", "reserved", "LEA", "TRAP",
}

func (op Opcode) String() string {
	if int(op) < len(opcodeNames) {
		return opcodeNames[op]
	}
	return "invalid"
}

// Instruction is one decoded instruction: the opcode tag plus the
// operand fields that family uses. Immediates and offsets are already
// sign extended to 16 bits, so effective addresses and sums come out of
// plain wrapping Word arithmetic.
type Instruction struct {
	Op        Opcode
	DR        Word // destination register of loads and ALU ops
	SR        Word // source register of NOT and the stores
	SR1       Word // first ALU operand
	SR2       Word // second ALU operand in register mode
	BaseR     Word // base register of JMP/JSRR/LDR/STR
	Imm       Word // sign-extended imm5
	Offset    Word // sign-extended PCoffset6/9/11
	Cond      Flag // BR condition mask
	Vector    Word // trap vector
	Immediate bool // ADD/AND immediate mode
	Relative  bool // JSR offset form rather than JSRR register form
}

// Decode splits a raw instruction word into its opcode and operand
// fields. It cannot fail: every 16-bit value selects an opcode, and the
// patterns the machine does not support decode to OpRTI or OpReserved
// for the execution engine to reject.
func Decode(raw Word) Instruction {
	inst := Instruction{Op: Opcode(raw >> 12)}

	switch inst.Op {
	case OpADD, OpAND:
		inst.DR = (raw >> 9) & 0b111
		inst.SR1 = (raw >> 6) & 0b111
		if (raw>>5)&0b1 == 1 {
			inst.Immediate = true
			inst.Imm = sext(raw&0x1F, 5)
		} else {
			inst.SR2 = raw & 0b111
		}

	case OpNOT:
		inst.DR = (raw >> 9) & 0b111
		inst.SR = (raw >> 6) & 0b111

	case OpBR:
		inst.Cond = Flag((raw >> 9) & 0b111)
		inst.Offset = sext(raw&0x1FF, 9)

	case OpJMP:
		inst.BaseR = (raw >> 6) & 0b111

	case OpJSR:
		if (raw>>11)&0b1 == 1 {
			inst.Relative = true
			inst.Offset = sext(raw&0x7FF, 11)
		} else {
			inst.BaseR = (raw >> 6) & 0b111
		}

	case OpLD, OpLDI, OpLEA:
		inst.DR = (raw >> 9) & 0b111
		inst.Offset = sext(raw&0x1FF, 9)

	case OpLDR:
		inst.DR = (raw >> 9) & 0b111
		inst.BaseR = (raw >> 6) & 0b111
		inst.Offset = sext(raw&0x3F, 6)

	case OpST, OpSTI:
		inst.SR = (raw >> 9) & 0b111
		inst.Offset = sext(raw&0x1FF, 9)

	case OpSTR:
		inst.SR = (raw >> 9) & 0b111
		inst.BaseR = (raw >> 6) & 0b111
		inst.Offset = sext(raw&0x3F, 6)

	case OpTRAP:
		inst.Vector = raw & 0xFF
	}

	return inst
}

// sext sign extends the low bits of x from the given width to 16 bits.
func sext(x Word, bits uint) Word {
	if (x>>(bits-1))&0b1 != 0 {
		x |= 0xFFFF << bits
	}
	return x
}
