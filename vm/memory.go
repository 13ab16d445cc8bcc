package vm

// Word is one 16-bit LC-3 memory cell or register value. All address
// arithmetic wraps modulo the address space by construction.
type Word uint16

// MemorySize is the number of addressable words.
const MemorySize = 1 << 16

// memory layout
const (
	TrapVectorTableStart       Word = 0x0000
	InterruptVectorTableStart  Word = 0x0100
	SystemSpaceStart           Word = 0x0200
	UserSpaceStart             Word = 0x3000
	MemoryMappedRegistersStart Word = 0xFE00
)

// memory mapped device register addresses
const (
	KBSR Word = 0xFE00 // keyboard status register
	KBDR Word = 0xFE02 // keyboard data register
	DSR  Word = 0xFE04 // display status register, no device behind it yet
	DDR  Word = 0xFE06 // display data register, no device behind it yet
	MCR  Word = 0xFFFE // machine control register, no device behind it yet
)

// kbReady is the KBSR bit reporting that a KBDR read would not block.
const kbReady Word = 0x8000

// Memory is the flat 65536-word address space. The keyboard status/data
// pair is backed by the console; every other address, including the
// display and machine control registers, behaves as plain storage.
type Memory struct {
	cells   [MemorySize]Word
	console *Console
}

// NewMemory returns zeroed memory with the keyboard pair wired to console.
func NewMemory(console *Console) *Memory {
	return &Memory{console: console}
}

// Read returns the word at addr. Reading KBSR reports whether a key is
// buffered; reading KBDR consumes one key, blocking until one arrives,
// and fails with ErrInputExhausted once the input stream is closed.
func (m *Memory) Read(addr Word) (Word, error) {
	switch addr {
	case KBSR:
		if m.console.KeyReady() {
			return kbReady, nil
		}
		return 0, nil
	case KBDR:
		key, err := m.console.ReadKey()
		if err != nil {
			return 0, err
		}
		return Word(key), nil
	}
	return m.cells[addr], nil
}

// Write stores value at addr. Writes to the keyboard pair are dropped so
// a program cannot forge the ready bit or the pending key.
func (m *Memory) Write(addr, value Word) {
	if addr == KBSR || addr == KBDR {
		return
	}
	m.cells[addr] = value
}

// Peek returns the word at addr without device side effects.
func (m *Memory) Peek(addr Word) Word {
	return m.cells[addr]
}

// Poke stores value at addr without device side effects.
func (m *Memory) Poke(addr, value Word) {
	m.cells[addr] = value
}
