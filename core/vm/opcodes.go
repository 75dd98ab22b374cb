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
	"fmt"
)

// OpCode is an interpreter opcode.
type OpCode uint16

// 0x00 range - emissions instruction set. The numbering is part of the
// source encoding and must not change.
const (
	NOOP OpCode = iota
	VAL
	ZIPMAP
	BLOCK_NUMBER
	THIS_ADDRESS
	ADD
	SUB
	MUL
	POW
	DIV
	MOD
	MIN
	MAX
	AVERAGE
	REPORT
	NEVER
	ALWAYS
	DIFF
	UPDATE_BLOCKS_FOR_TIER_RANGE
	EVERY_LTE_MIN
	EVERY_LTE_MAX
	EVERY_LTE_FIRST
	ANY_LTE_MIN
	ANY_LTE_MAX
	ANY_LTE_FIRST
	ACCOUNT
	CONSTRUCTION_BLOCK_NUMBER
)

// 0x20 range - context and memory.
const (
	CONTEXT OpCode = 0x20 + iota
	CALLER
	READ_MEMORY
	BLOCK_TIMESTAMP
)

// 0x30 range - extended tier operations.
const (
	SELECT_LTE OpCode = 0x30 + iota
	ITIER_V2_REPORT
)

// 0x40 range - saturating math.
const (
	SATURATING_ADD OpCode = 0x40 + iota
	SATURATING_SUB
	SATURATING_MUL
)

// 0x50 range - comparison and logic.
const (
	ISZERO OpCode = 0x50 + iota
	EQUAL_TO
	LESS_THAN
	GREATER_THAN
	EVERY
	ANY
	EAGER_IF
)

// 0x60 range - crypto.
const (
	HASH OpCode = 0x60
)

var opCodeToString = map[OpCode]string{
	NOOP:                         "NOOP",
	VAL:                          "VAL",
	ZIPMAP:                       "ZIPMAP",
	BLOCK_NUMBER:                 "BLOCK_NUMBER",
	THIS_ADDRESS:                 "THIS_ADDRESS",
	ADD:                          "ADD",
	SUB:                          "SUB",
	MUL:                          "MUL",
	POW:                          "POW",
	DIV:                          "DIV",
	MOD:                          "MOD",
	MIN:                          "MIN",
	MAX:                          "MAX",
	AVERAGE:                      "AVERAGE",
	REPORT:                       "REPORT",
	NEVER:                        "NEVER",
	ALWAYS:                       "ALWAYS",
	DIFF:                         "DIFF",
	UPDATE_BLOCKS_FOR_TIER_RANGE: "UPDATE_BLOCKS_FOR_TIER_RANGE",
	EVERY_LTE_MIN:                "EVERY_LTE_MIN",
	EVERY_LTE_MAX:                "EVERY_LTE_MAX",
	EVERY_LTE_FIRST:              "EVERY_LTE_FIRST",
	ANY_LTE_MIN:                  "ANY_LTE_MIN",
	ANY_LTE_MAX:                  "ANY_LTE_MAX",
	ANY_LTE_FIRST:                "ANY_LTE_FIRST",
	ACCOUNT:                      "ACCOUNT",
	CONSTRUCTION_BLOCK_NUMBER:    "CONSTRUCTION_BLOCK_NUMBER",

	CONTEXT:         "CONTEXT",
	CALLER:          "CALLER",
	READ_MEMORY:     "READ_MEMORY",
	BLOCK_TIMESTAMP: "BLOCK_TIMESTAMP",

	SELECT_LTE:      "SELECT_LTE",
	ITIER_V2_REPORT: "ITIER_V2_REPORT",

	SATURATING_ADD: "SATURATING_ADD",
	SATURATING_SUB: "SATURATING_SUB",
	SATURATING_MUL: "SATURATING_MUL",

	ISZERO:       "ISZERO",
	EQUAL_TO:     "EQUAL_TO",
	LESS_THAN:    "LESS_THAN",
	GREATER_THAN: "GREATER_THAN",
	EVERY:        "EVERY",
	ANY:          "ANY",
	EAGER_IF:     "EAGER_IF",

	HASH: "HASH",
}

func (op OpCode) String() string {
	str := opCodeToString[op]
	if len(str) == 0 {
		return fmt.Sprintf("opcode %#x not defined", uint16(op))
	}
	return str
}

var stringToOp = func() map[string]OpCode {
	m := make(map[string]OpCode, len(opCodeToString))
	for op, name := range opCodeToString {
		m[name] = op
	}
	return m
}()

// StringToOp finds the opcode whose name is stored in `str`.
func StringToOp(str string) OpCode {
	return stringToOp[str]
}
