package vm

import "errors"

// Faults that end a run. The execution engine wraps them with the
// address of the faulting instruction; callers match with errors.Is.
var (
	ErrUnimplementedOpcode = errors.New("unimplemented opcode")
	ErrUnimplementedTrap   = errors.New("unimplemented trap vector")
	ErrInputExhausted      = errors.New("input exhausted")
	ErrImageTooShort       = errors.New("image too short")
)
