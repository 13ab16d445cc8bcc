package vm

import (
	"errors"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestAddRegisterAndImmediate(t *testing.T) {
	machine, _ := newTestVM(t, "")
	loadWords(machine, UserSpaceStart, []Word{
		EncodeAddImm(R0, R1, 5),   // r0 = 5
		EncodeAddImm(R1, R0, 5),   // r1 = 10
		EncodeAdd(R2, R0, R1),     // r2 = 15
		EncodeAnd(R3, R0, R1),     // r3 = 5 & 10 = 0
		EncodeAndImm(R4, R2, 12),  // r4 = 15 & 12 = 12
		EncodeNot(R5, R0),         // r5 = ^5 = -6
	})

	for i := 0; i < 6; i++ {
		step(t, machine)
	}

	reg := machine.Registers()
	assert.Equal(t, Word(5), reg.R[R0])
	assert.Equal(t, Word(10), reg.R[R1])
	assert.Equal(t, Word(15), reg.R[R2])
	assert.Equal(t, Word(0), reg.R[R3])
	assert.Equal(t, Word(12), reg.R[R4])
	assert.Equal(t, Word(0xFFFA), reg.R[R5])
}

func TestConditionFlagsMatchResultSign(t *testing.T) {
	tests := []struct {
		name     string
		code     []Word
		steps    int
		wantCond Flag
	}{
		{"positive result", []Word{EncodeAddImm(R0, R0, 7)}, 1, FlagPositive},
		{"zero result", []Word{EncodeAndImm(R0, R0, 0)}, 1, FlagZero},
		{"negative result", []Word{EncodeAddImm(R0, R0, -1)}, 1, FlagNegative},
		{"not of zero is negative", []Word{EncodeNot(R0, R1)}, 1, FlagNegative},
		{"lea sets flags", []Word{EncodeLea(R0, 1)}, 1, FlagPositive},
		{
			"load of zero cell is zero",
			[]Word{EncodeAddImm(R0, R0, 3), EncodeLd(R0, 10)},
			2, FlagZero,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			machine, _ := newTestVM(t, "")
			loadWords(machine, UserSpaceStart, tt.code)
			for i := 0; i < tt.steps; i++ {
				step(t, machine)
			}

			cond := machine.Registers().Cond
			assert.Equal(t, tt.wantCond, cond)
			// One-hot: the flag register is exactly one of N, Z, P.
			assert.True(t, cond == FlagNegative || cond == FlagZero || cond == FlagPositive)
		})
	}
}

func TestSignExtensionIsExact(t *testing.T) {
	machine, _ := newTestVM(t, "")
	loadWords(machine, UserSpaceStart, []Word{
		EncodeAddImm(R0, R0, 10), // r0 = 10
		EncodeAddImm(R0, R0, -1), // imm5 0b11111: r0 = 9
		EncodeAddImm(R1, R2, 15), // imm5 0b01111: r1 = 15
	})

	step(t, machine)
	step(t, machine)
	assert.Equal(t, Word(9), machine.Registers().R[R0])

	step(t, machine)
	reg := machine.Registers()
	assert.Equal(t, Word(15), reg.R[R1])
	assert.Equal(t, FlagPositive, reg.Cond)
}

func TestAddWrapsOnOverflow(t *testing.T) {
	machine, _ := newTestVM(t, "")
	machine.cpu.reg.R[R0] = 0x7FFF
	loadWords(machine, UserSpaceStart, []Word{EncodeAddImm(R0, R0, 1)})

	step(t, machine)

	reg := machine.Registers()
	assert.Equal(t, Word(0x8000), reg.R[R0])
	assert.Equal(t, FlagNegative, reg.Cond)
}

func TestBranchZeroMaskNeverBranches(t *testing.T) {
	for _, cond := range []Flag{FlagNegative, FlagZero, FlagPositive} {
		machine, _ := newTestVM(t, "")
		machine.cpu.reg.Cond = cond
		loadWords(machine, UserSpaceStart, []Word{EncodeBr(0, 5)})

		step(t, machine)
		assert.Equal(t, UserSpaceStart+1, machine.Registers().PC)
	}
}

func TestBranchTakenMovesByOffsetFromIncrementedPC(t *testing.T) {
	tests := []struct {
		name   string
		cond   Flag
		mask   Flag
		offset int16
		taken  bool
	}{
		{"matching mask branches", FlagPositive, FlagPositive, 5, true},
		{"superset mask branches", FlagZero, FlagNegative | FlagZero, -3, true},
		{"disjoint mask falls through", FlagNegative, FlagPositive, 5, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			machine, _ := newTestVM(t, "")
			machine.cpu.reg.Cond = tt.cond
			loadWords(machine, UserSpaceStart, []Word{EncodeBr(tt.mask, tt.offset)})

			step(t, machine)

			want := UserSpaceStart + 1
			if tt.taken {
				want += Word(tt.offset)
			}
			assert.Equal(t, want, machine.Registers().PC)
		})
	}
}

func TestLoadStoreAddressingModes(t *testing.T) {
	machine, _ := newTestVM(t, "")
	machine.Poke(0x3005, 0x00AA) // LD target
	machine.Poke(0x3006, 0x4000) // LDI pointer
	machine.Poke(0x4000, 0x00BB) // LDI target
	machine.cpu.reg.R[R6] = 0x5000
	machine.Poke(0x5002, 0x00CC) // LDR target
	loadWords(machine, UserSpaceStart, []Word{
		EncodeLd(R0, 4),       // r0 = mem[0x3005]
		EncodeLdi(R1, 4),      // r1 = mem[mem[0x3006]]
		EncodeLdr(R2, R6, 2),  // r2 = mem[0x5002]
		EncodeLea(R3, -4),     // r3 = 0x3000
		EncodeSt(R0, 10),      // mem[0x300F] = r0
		EncodeSti(R3, 0),      // mem[mem[0x3006]] = r3
		EncodeStr(R2, R6, 3),  // mem[0x5003] = r2
	})

	for i := 0; i < 7; i++ {
		step(t, machine)
	}

	reg := machine.Registers()
	assert.Equal(t, Word(0x00AA), reg.R[R0])
	assert.Equal(t, Word(0x00BB), reg.R[R1])
	assert.Equal(t, Word(0x00CC), reg.R[R2])
	assert.Equal(t, Word(0x3000), reg.R[R3])
	assert.Equal(t, Word(0x00AA), machine.Peek(0x300F))
	assert.Equal(t, Word(0x3000), machine.Peek(0x4000))
	assert.Equal(t, Word(0x00CC), machine.Peek(0x5003))
}

func TestLoadIndirectDereferencesExactlyTwice(t *testing.T) {
	machine, _ := newTestVM(t, "")
	// A pointer chain three deep: if LDI followed it once or three
	// times the result would differ from the two-level answer.
	machine.Poke(0x3001, 0x4000)
	machine.Poke(0x4000, 0x5000)
	machine.Poke(0x5000, 0x6000)
	loadWords(machine, UserSpaceStart, []Word{EncodeLdi(R0, 0)})

	step(t, machine)
	assert.Equal(t, Word(0x5000), machine.Registers().R[R0])
}

func TestJsrRetRestoresPC(t *testing.T) {
	machine, _ := newTestVM(t, "")
	loadWords(machine, UserSpaceStart, []Word{
		EncodeJsr(2), // to 0x3003
		0, 0,
		EncodeRet(), // back to 0x3001
	})

	step(t, machine)
	reg := machine.Registers()
	assert.Equal(t, Word(0x3003), reg.PC)
	assert.Equal(t, Word(0x3001), reg.R[R7])

	step(t, machine)
	assert.Equal(t, Word(0x3001), machine.Registers().PC)
}

func TestJsrrJumpsThroughBaseRegister(t *testing.T) {
	machine, _ := newTestVM(t, "")
	machine.cpu.reg.R[R4] = 0x4321
	loadWords(machine, UserSpaceStart, []Word{EncodeJsrr(R4)})

	step(t, machine)

	reg := machine.Registers()
	assert.Equal(t, Word(0x4321), reg.PC)
	assert.Equal(t, Word(0x3001), reg.R[R7])
}

func TestJmpSetsPCFromRegister(t *testing.T) {
	machine, _ := newTestVM(t, "")
	machine.cpu.reg.R[R3] = 0x1234
	loadWords(machine, UserSpaceStart, []Word{EncodeJmp(R3)})

	step(t, machine)
	assert.Equal(t, Word(0x1234), machine.Registers().PC)
}

func TestAddressArithmeticWrapsAroundMemory(t *testing.T) {
	machine, _ := newTestVM(t, "")
	machine.cpu.reg.R[R1] = 0xFFFF
	machine.Poke(0x0001, 0x0042)
	loadWords(machine, UserSpaceStart, []Word{EncodeLdr(R0, R1, 2)})

	step(t, machine)
	assert.Equal(t, Word(0x0042), machine.Registers().R[R0])
}

func TestUnimplementedOpcodesFault(t *testing.T) {
	tests := []struct {
		name string
		raw  Word
	}{
		{"RTI", 0x8000},
		{"reserved", 0xD000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			machine, _ := newTestVM(t, "")
			loadWords(machine, UserSpaceStart, []Word{tt.raw})

			result, err := machine.Step()
			assert.Error(t, err)
			assert.True(t, errors.Is(err, ErrUnimplementedOpcode))
			assert.ErrorContains(t, err, "0x3000")
			assert.Equal(t, Continued, result)
			assert.False(t, machine.Halted())
		})
	}
}

func TestStepAfterHaltStaysHalted(t *testing.T) {
	machine, _ := newTestVM(t, "")
	loadWords(machine, UserSpaceStart, []Word{EncodeTrap(TrapHALT)})

	assert.Equal(t, Halted, step(t, machine))
	pc := machine.Registers().PC

	assert.Equal(t, Halted, step(t, machine))
	assert.Equal(t, pc, machine.Registers().PC)
}
