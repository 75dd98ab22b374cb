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

package core

import (
	"github.com/420integrated/go-tiervm/core/tier"
	"github.com/420integrated/go-tiervm/core/vm"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

var (
	alice = common.HexToAddress("0xa11ce00000000000000000000000000000000001")
	bob   = common.HexToAddress("0xb0b0000000000000000000000000000000000002")

	rwtAddress       = common.HexToAddress("0x1000000000000000000000000000000000000001")
	emissionsAddress = common.HexToAddress("0x1000000000000000000000000000000000000002")
)

func word(v uint64) *uint256.Int { return uint256.NewInt(v) }

func lanes(vs ...uint32) tier.Report {
	var l [8]uint32
	copy(l[:], vs)
	return tier.ReportFromLanes(l)
}

func op(code vm.OpCode, operand uint16) vm.Source {
	return vm.Op(code, operand)
}

// constantTier returns a combine tier expression always reporting r.
func constantTier(r tier.Report) *vm.Expression {
	return &vm.Expression{
		Sources: []vm.Source{
			op(vm.READ_MEMORY, vm.MemoryOperand(vm.MemoryConstant, 0)),
			vm.Concat(op(vm.CONTEXT, vm.ContextOperand(0, 1)), op(vm.CONTEXT, vm.ContextOperand(0, 0)), op(vm.ITIER_V2_REPORT, 0)),
		},
		Constants: []*uint256.Int{r.Word()},
	}
}
