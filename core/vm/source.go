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
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/420integrated/go-tiervm/core/tier"
	"github.com/holiman/uint256"
)

// InstructionSize is the encoded width of one instruction: a big endian
// opcode followed by a big endian operand.
const InstructionSize = 4

// argFlag marks a VAL operand as a read from the current argument frame. The
// remaining 15 bits index the constants or the frame.
const argFlag = 0x8000

// Memory types addressable by READ_MEMORY.
const (
	MemoryStack    = 0
	MemoryConstant = 1
)

// Source is an encoded instruction sequence.
type Source []byte

// Expression is the immutable configuration of a deployed instance: its
// sources, the constants they read and an optional top-level argument frame.
type Expression struct {
	Sources   []Source
	Constants []*uint256.Int
	Arguments []*uint256.Int
}

// Instruction is a decoded opcode with its operand.
type Instruction struct {
	Op      OpCode
	Operand uint16
}

func (i Instruction) String() string {
	return fmt.Sprintf("%v(%#x)", i.Op, i.Operand)
}

// Op encodes a single instruction.
func Op(op OpCode, operand uint16) Source {
	var b [InstructionSize]byte
	binary.BigEndian.PutUint16(b[:], uint16(op))
	binary.BigEndian.PutUint16(b[2:], operand)
	return b[:]
}

// Concat joins instructions and source fragments into one source.
func Concat(parts ...Source) Source {
	var n int
	for _, p := range parts {
		n += len(p)
	}
	out := make(Source, 0, n)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// Instructions decodes the source. A trailing partial instruction is an error.
func (s Source) Instructions() ([]Instruction, error) {
	if len(s)%InstructionSize != 0 {
		return nil, fmt.Errorf("%w: %d bytes", ErrTruncatedSource, len(s))
	}
	ins := make([]Instruction, 0, len(s)/InstructionSize)
	for pc := 0; pc < len(s); pc += InstructionSize {
		ins = append(ins, Instruction{
			Op:      OpCode(binary.BigEndian.Uint16(s[pc:])),
			Operand: binary.BigEndian.Uint16(s[pc+2:]),
		})
	}
	return ins, nil
}

// Disassemble renders the source one instruction per line.
func (s Source) Disassemble() string {
	ins, err := s.Instructions()
	if err != nil {
		return err.Error()
	}
	var sb strings.Builder
	for pc, in := range ins {
		fmt.Fprintf(&sb, "%05d: %v\n", pc, in)
	}
	return sb.String()
}

// Arg returns the VAL operand reading column k of the current argument frame.
func Arg(k int) uint16 {
	return uint16(k) | argFlag
}

// CallSize returns the ZIPMAP operand running sourceIndex once per row, each
// of the vals words being split into 2^loopSize rows.
func CallSize(sourceIndex, loopSize, vals int) uint16 {
	return uint16((vals-1)&0x07)<<5 | uint16(loopSize&0x03)<<3 | uint16(sourceIndex&0x07)
}

// TierRange returns the UPDATE_BLOCKS_FOR_TIER_RANGE operand for the tiers
// above start up to and including end.
func TierRange(start, end tier.Tier) uint16 {
	return uint16(end&0x0f)<<4 | uint16(start&0x0f)
}

// SelectLte returns the SELECT_LTE operand combining n reports.
func SelectLte(logic tier.Logic, mode tier.Mode, n int) uint16 {
	return uint16(logic&0x01)<<7 | uint16(mode&0x03)<<5 | uint16(n&0x1f)
}

// MemoryOperand returns the READ_MEMORY operand for the given memory type
// and offset.
func MemoryOperand(typ int, offset int) uint16 {
	return uint16(offset)<<1 | uint16(typ&0x01)
}

// ContextOperand returns the CONTEXT operand for a column and row.
func ContextOperand(column, row int) uint16 {
	return uint16(column&0xff)<<8 | uint16(row&0xff)
}
