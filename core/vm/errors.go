// Copyright 2022 The The 420Integrated Development Group
// This file is part of the go-tiervm library.
//
// The go-tiervm library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-tiervm library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-tiervm library. If not, see <http://www.gnu.org/licenses/>.

package vm

import (
	"errors"
	"fmt"
)

// List interpreter execution errors
var (
	ErrTruncatedSource   = errors.New("truncated source")
	ErrSourceOutOfBounds = errors.New("source index out of bounds")
	ErrNoTierReader      = errors.New("no tier reader configured")
	ErrMaxDepth          = errors.New("max call depth exceeded")

	// Causes wrapped by ErrArithmetic.
	ErrOverflow       = errors.New("overflow")
	ErrUnderflow      = errors.New("underflow")
	ErrDivisionByZero = errors.New("division by zero")
)

// ErrStackUnderflow is returned when an instruction needs more items than
// the stack holds.
type ErrStackUnderflow struct {
	PC       int
	Op       OpCode
	StackLen int
	Required int
}

func (e *ErrStackUnderflow) Error() string {
	return fmt.Sprintf("stack underflow at %d (%v): have %d, want %d", e.PC, e.Op, e.StackLen, e.Required)
}

// ErrStackOverflow is returned when an instruction would grow the stack past
// its limit.
type ErrStackOverflow struct {
	PC    int
	Op    OpCode
	Limit int
}

func (e *ErrStackOverflow) Error() string {
	return fmt.Sprintf("stack limit reached at %d (%v): %d", e.PC, e.Op, e.Limit)
}

// ErrUnknownOpcode is returned for an opcode the active jump table does not
// define.
type ErrUnknownOpcode struct {
	PC int
	Op OpCode
}

func (e *ErrUnknownOpcode) Error() string {
	return fmt.Sprintf("unknown opcode %#x at %d", uint16(e.Op), e.PC)
}

// ErrInvalidOperand is returned when an operand does not describe a valid
// form of its opcode.
type ErrInvalidOperand struct {
	PC      int
	Op      OpCode
	Operand uint16
	Reason  string
}

func (e *ErrInvalidOperand) Error() string {
	return fmt.Sprintf("invalid operand %#x for %v at %d: %s", e.Operand, e.Op, e.PC, e.Reason)
}

// ErrOutOfBoundsConstant is returned for a read past the constants table.
type ErrOutOfBoundsConstant struct {
	Index  int
	Length int
}

func (e *ErrOutOfBoundsConstant) Error() string {
	return fmt.Sprintf("constant %d out of bounds (%d constants)", e.Index, e.Length)
}

// ErrOutOfBoundsContext is returned for a read outside the context matrix.
type ErrOutOfBoundsContext struct {
	Column int
	Row    int
}

func (e *ErrOutOfBoundsContext) Error() string {
	return fmt.Sprintf("context column %d row %d out of bounds", e.Column, e.Row)
}

// ErrOutOfBoundsStackRead is returned when READ_MEMORY addresses a stack
// slot that does not exist.
type ErrOutOfBoundsStackRead struct {
	Offset   int
	StackLen int
}

func (e *ErrOutOfBoundsStackRead) Error() string {
	return fmt.Sprintf("stack read %d out of bounds (stack %d)", e.Offset, e.StackLen)
}

// ErrArithmetic is a failed plain word operation. Err is one of ErrOverflow,
// ErrUnderflow or ErrDivisionByZero.
type ErrArithmetic struct {
	Op  OpCode
	Err error
}

func (e *ErrArithmetic) Error() string {
	return fmt.Sprintf("arithmetic error in %v: %v", e.Op, e.Err)
}

func (e *ErrArithmetic) Unwrap() error { return e.Err }

// ErrZipmapArityMismatch is returned when argument columns disagree with the
// declared rows, or a source reads an argument the frame does not have.
type ErrZipmapArityMismatch struct {
	Want int
	Have int
}

func (e *ErrZipmapArityMismatch) Error() string {
	return fmt.Sprintf("zipmap arity mismatch: want %d, have %d", e.Want, e.Have)
}

// ErrStackOutputMismatch is returned when a source leaves a different number
// of values than the caller declared.
type ErrStackOutputMismatch struct {
	Source int
	Want   int
	Have   int
}

func (e *ErrStackOutputMismatch) Error() string {
	return fmt.Sprintf("source %d left %d values, want %d", e.Source, e.Have, e.Want)
}
