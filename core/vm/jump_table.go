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

type (
	executionFunc func(operand uint16, interpreter *Interpreter, scope *ScopeContext) error
	// stackFunc returns how many items the operation pops and pushes for the
	// given operand, or an error when the operand is malformed.
	stackFunc func(operand uint16) (pops, pushes int, err error)
)

type operation struct {
	// execute is the operation function
	execute executionFunc
	// stack decodes the stack effect of the operand
	stack stackFunc

	reads bool // queries a tier provider one level deeper
	calls bool // evaluates another source in a nested frame
}

var (
	emissionsInstructionSet = newEmissionsInstructionSet()
	standardInstructionSet  = newStandardInstructionSet()
)

// JumpTable contains the opcodes supported by an instruction set.
type JumpTable [256]*operation

// InstructionSets names the instruction sets a Config may select.
var InstructionSets = map[string]*JumpTable{
	"emissions": &emissionsInstructionSet,
	"standard":  &standardInstructionSet,
}

// newStandardInstructionSet returns the emissions instructions plus every
// extension.
func newStandardInstructionSet() JumpTable {
	instructionSet := newEmissionsInstructionSet()
	for _, name := range ActivateableExtensions() {
		activators[name](&instructionSet)
	}
	return instructionSet
}

// newEmissionsInstructionSet returns the instructions understood by the
// emissions claim sources.
func newEmissionsInstructionSet() JumpTable {
	return JumpTable{
		NOOP: {
			execute: opNoop,
			stack:   fixedStack(0, 0),
		},
		VAL: {
			execute: opVal,
			stack:   fixedStack(0, 1),
		},
		ZIPMAP: {
			execute: opZipmap,
			stack:   zipmapStack,
			calls:   true,
		},
		BLOCK_NUMBER: {
			execute: opBlockNumber,
			stack:   fixedStack(0, 1),
		},
		THIS_ADDRESS: {
			execute: opThisAddress,
			stack:   fixedStack(0, 1),
		},
		ADD: {
			execute: opAdd,
			stack:   naryStack,
		},
		SUB: {
			execute: opSub,
			stack:   naryStack,
		},
		MUL: {
			execute: opMul,
			stack:   naryStack,
		},
		POW: {
			execute: opPow,
			stack:   naryStack,
		},
		DIV: {
			execute: opDiv,
			stack:   naryStack,
		},
		MOD: {
			execute: opMod,
			stack:   naryStack,
		},
		MIN: {
			execute: opMin,
			stack:   naryStack,
		},
		MAX: {
			execute: opMax,
			stack:   naryStack,
		},
		AVERAGE: {
			execute: opAverage,
			stack:   naryStack,
		},
		REPORT: {
			execute: opReport,
			stack:   fixedStack(2, 1),
			reads:   true,
		},
		NEVER: {
			execute: opNever,
			stack:   fixedStack(0, 1),
		},
		ALWAYS: {
			execute: opAlways,
			stack:   fixedStack(0, 1),
		},
		DIFF: {
			execute: opDiff,
			stack:   fixedStack(2, 1),
		},
		UPDATE_BLOCKS_FOR_TIER_RANGE: {
			execute: opUpdateBlocksForTierRange,
			stack:   tierRangeStack,
		},
		EVERY_LTE_MIN: {
			execute: makeSelectLte(EVERY_LTE_MIN),
			stack:   lteStack,
		},
		EVERY_LTE_MAX: {
			execute: makeSelectLte(EVERY_LTE_MAX),
			stack:   lteStack,
		},
		EVERY_LTE_FIRST: {
			execute: makeSelectLte(EVERY_LTE_FIRST),
			stack:   lteStack,
		},
		ANY_LTE_MIN: {
			execute: makeSelectLte(ANY_LTE_MIN),
			stack:   lteStack,
		},
		ANY_LTE_MAX: {
			execute: makeSelectLte(ANY_LTE_MAX),
			stack:   lteStack,
		},
		ANY_LTE_FIRST: {
			execute: makeSelectLte(ANY_LTE_FIRST),
			stack:   lteStack,
		},
		ACCOUNT: {
			execute: opAccount,
			stack:   fixedStack(0, 1),
		},
		CONSTRUCTION_BLOCK_NUMBER: {
			execute: opConstructionBlockNumber,
			stack:   fixedStack(0, 1),
		},
	}
}

// StackEffect returns the items popped and pushed by op with the given
// operand under the standard instruction set. Zipmap pushes are not known
// statically and are reported as zero.
func StackEffect(op OpCode, operand uint16) (pops, pushes int, err error) {
	entry := standardInstructionSet[op&0xff]
	if op > 0xff || entry == nil {
		return 0, 0, &ErrUnknownOpcode{Op: op}
	}
	return entry.stack(operand)
}
