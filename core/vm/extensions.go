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
	"sort"
)

var activators = map[string]func(*JumpTable){
	"context":    enableContext,
	"memory":     enableMemory,
	"timestamp":  enableTimestamp,
	"selectlte":  enableSelectLte,
	"tierv2":     enableTierV2,
	"saturating": enableSaturating,
	"logic":      enableLogic,
	"hash":       enableHash,
}

// EnableExtension enables the named extension on the jump table.
// This operation writes in-place, and callers need to ensure that the globally
// defined jump tables are not polluted.
func EnableExtension(name string, jt *JumpTable) error {
	enablerFn, ok := activators[name]
	if !ok {
		return fmt.Errorf("undefined extension %q", name)
	}
	enablerFn(jt)
	return nil
}

func ValidExtension(name string) bool {
	_, ok := activators[name]
	return ok
}

func ActivateableExtensions() []string {
	var names []string
	for k := range activators {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// enableContext adds CONTEXT, reading one cell of the caller supplied
// context matrix, and CALLER.
func enableContext(jt *JumpTable) {
	jt[CONTEXT] = &operation{
		execute: opContext,
		stack:   fixedStack(0, 1),
	}
	jt[CALLER] = &operation{
		execute: opCaller,
		stack:   fixedStack(0, 1),
	}
}

// enableMemory adds READ_MEMORY over the stack and the constants.
func enableMemory(jt *JumpTable) {
	jt[READ_MEMORY] = &operation{
		execute: opReadMemory,
		stack:   fixedStack(0, 1),
	}
}

func enableTimestamp(jt *JumpTable) {
	jt[BLOCK_TIMESTAMP] = &operation{
		execute: opBlockTimestamp,
		stack:   fixedStack(0, 1),
	}
}

// enableSelectLte adds SELECT_LTE, the operand driven form of the six
// EVERY_LTE and ANY_LTE opcodes.
func enableSelectLte(jt *JumpTable) {
	jt[SELECT_LTE] = &operation{
		execute: opSelectLte,
		stack:   selectLteStack,
	}
}

// enableTierV2 adds ITIER_V2_REPORT, a report read forwarding context words
// to the tier provider.
func enableTierV2(jt *JumpTable) {
	jt[ITIER_V2_REPORT] = &operation{
		execute: opITierV2Report,
		stack:   tierV2Stack,
		reads:   true,
	}
}

func enableSaturating(jt *JumpTable) {
	jt[SATURATING_ADD] = &operation{
		execute: opSaturatingAdd,
		stack:   naryStack,
	}
	jt[SATURATING_SUB] = &operation{
		execute: opSaturatingSub,
		stack:   naryStack,
	}
	jt[SATURATING_MUL] = &operation{
		execute: opSaturatingMul,
		stack:   naryStack,
	}
}

func enableLogic(jt *JumpTable) {
	jt[ISZERO] = &operation{
		execute: opIsZero,
		stack:   fixedStack(1, 1),
	}
	jt[EQUAL_TO] = &operation{
		execute: opEqualTo,
		stack:   fixedStack(2, 1),
	}
	jt[LESS_THAN] = &operation{
		execute: opLessThan,
		stack:   fixedStack(2, 1),
	}
	jt[GREATER_THAN] = &operation{
		execute: opGreaterThan,
		stack:   fixedStack(2, 1),
	}
	jt[EVERY] = &operation{
		execute: opEvery,
		stack:   naryStack,
	}
	jt[ANY] = &operation{
		execute: opAny,
		stack:   naryStack,
	}
	jt[EAGER_IF] = &operation{
		execute: opEagerIf,
		stack:   fixedStack(3, 1),
	}
}

func enableHash(jt *JumpTable) {
	jt[HASH] = &operation{
		execute: opHash,
		stack:   spanStack,
	}
}
