package vm

import (
	"fmt"

	"github.com/retroenv/retrogolib/log"
)

// StepResult reports how a machine cycle ended. Faults travel on the
// error channel next to it.
type StepResult int

const (
	// Continued means the cycle ran an instruction and more follow.
	Continued StepResult = iota
	// Halted means the machine reached the HALT trap. Further steps
	// return Halted again without running anything.
	Halted
)

// CPU runs the fetch-decode-execute loop against a register file,
// memory and the console devices.
type CPU struct {
	reg     Registers
	mem     *Memory
	console *Console
	logger  *log.Logger
	halted  bool
}

// NewCPU returns a CPU in the power-on state.
func NewCPU(mem *Memory, console *Console, logger *log.Logger) *CPU {
	return &CPU{
		reg:     NewRegisters(),
		mem:     mem,
		console: console,
		logger:  logger,
	}
}

// Step runs one fetch-decode-execute cycle. A non-nil error is a fault:
// the instruction at the reported address could not run and the program
// should not be driven past it. Faults leave the machine state intact
// for inspection.
func (c *CPU) Step() (StepResult, error) {
	if c.halted {
		return Halted, nil
	}

	pc := c.reg.PC
	raw, err := c.mem.Read(pc)
	if err != nil {
		return Continued, fmt.Errorf("fetch at 0x%04X: %w", uint16(pc), err)
	}

	// Offsets are relative to the incremented PC.
	c.reg.PC++

	inst := Decode(raw)
	c.logger.Debug("execute",
		log.String("pc", fmt.Sprintf("0x%04X", uint16(pc))),
		log.String("raw", fmt.Sprintf("0x%04X", uint16(raw))),
		log.Stringer("op", inst.Op),
	)

	halt, err := c.execute(inst)
	if err != nil {
		return Continued, fmt.Errorf("at 0x%04X: %w", uint16(pc), err)
	}
	if halt {
		c.halted = true
		return Halted, nil
	}
	return Continued, nil
}

// execute applies one decoded instruction to the machine state. The
// switch covers every opcode; the two the architecture leaves without
// semantics fault instead of silently skipping.
func (c *CPU) execute(inst Instruction) (bool, error) {
	switch inst.Op {
	case OpADD:
		v := c.reg.R[inst.SR1] + c.operand2(inst)
		c.reg.R[inst.DR] = v
		c.reg.SetFlags(v)

	case OpAND:
		v := c.reg.R[inst.SR1] & c.operand2(inst)
		c.reg.R[inst.DR] = v
		c.reg.SetFlags(v)

	case OpNOT:
		v := ^c.reg.R[inst.SR]
		c.reg.R[inst.DR] = v
		c.reg.SetFlags(v)

	case OpBR:
		if c.reg.Test(inst.Cond) {
			c.reg.PC += inst.Offset
		}

	case OpJMP:
		c.reg.PC = c.reg.R[inst.BaseR]

	case OpJSR:
		c.reg.R[R7] = c.reg.PC
		if inst.Relative {
			c.reg.PC += inst.Offset
		} else {
			c.reg.PC = c.reg.R[inst.BaseR]
		}

	case OpLD:
		v, err := c.mem.Read(c.reg.PC + inst.Offset)
		if err != nil {
			return false, err
		}
		c.reg.R[inst.DR] = v
		c.reg.SetFlags(v)

	case OpLDI:
		addr, err := c.mem.Read(c.reg.PC + inst.Offset)
		if err != nil {
			return false, err
		}
		v, err := c.mem.Read(addr)
		if err != nil {
			return false, err
		}
		c.reg.R[inst.DR] = v
		c.reg.SetFlags(v)

	case OpLDR:
		v, err := c.mem.Read(c.reg.R[inst.BaseR] + inst.Offset)
		if err != nil {
			return false, err
		}
		c.reg.R[inst.DR] = v
		c.reg.SetFlags(v)

	case OpLEA:
		v := c.reg.PC + inst.Offset
		c.reg.R[inst.DR] = v
		c.reg.SetFlags(v)

	case OpST:
		c.mem.Write(c.reg.PC+inst.Offset, c.reg.R[inst.SR])

	case OpSTI:
		addr, err := c.mem.Read(c.reg.PC + inst.Offset)
		if err != nil {
			return false, err
		}
		c.mem.Write(addr, c.reg.R[inst.SR])

	case OpSTR:
		c.mem.Write(c.reg.R[inst.BaseR]+inst.Offset, c.reg.R[inst.SR])

	case OpTRAP:
		c.reg.R[R7] = c.reg.PC
		return c.trap(inst.Vector)

	case OpRTI, OpReserved:
		return false, fmt.Errorf("%s: %w", inst.Op, ErrUnimplementedOpcode)
	}

	return false, nil
}

// operand2 resolves the second ADD/AND operand per the mode bit.
func (c *CPU) operand2(inst Instruction) Word {
	if inst.Immediate {
		return inst.Imm
	}
	return c.reg.R[inst.SR2]
}
