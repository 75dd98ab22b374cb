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
	"testing"

	"github.com/420integrated/go-tiervm/core/tier"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSourceEncoding(t *testing.T) {
	src := Concat(Op(VAL, Arg(2)), Op(ZIPMAP, CallSize(1, 3, 2)), Op(HASH, 0x0102))
	assert.Equal(t, Source{0x00, 0x01, 0x80, 0x02, 0x00, 0x02, 0x00, 0x39, 0x00, 0x60, 0x01, 0x02}, src)

	ins, err := src.Instructions()
	require.NoError(t, err)
	assert.Equal(t, []Instruction{{VAL, 0x8002}, {ZIPMAP, 0x39}, {HASH, 0x0102}}, ins)
	assert.Contains(t, src.Disassemble(), "ZIPMAP(0x39)")
}

func TestOperandHelpers(t *testing.T) {
	assert.Equal(t, uint16(0x8000), Arg(0))
	assert.Equal(t, uint16(0x8000|5), Arg(5))
	assert.Equal(t, uint16(0x8000|200), Arg(200))
	assert.Equal(t, uint16(0x80), TierRange(tier.Zero, tier.Eight))
	assert.Equal(t, uint16(0x31), TierRange(tier.One, tier.Three))
	assert.Equal(t, uint16(0xa2), SelectLte(tier.LogicAny, tier.ModeMin, 0)|SelectLte(tier.LogicEvery, tier.ModeMax, 2))
	assert.Equal(t, uint16(0x07), MemoryOperand(MemoryConstant, 3))
	assert.Equal(t, uint16(0x0102), ContextOperand(1, 2))

	source, loop, vals := decodeCallSize(CallSize(6, 2, 5))
	assert.Equal(t, []int{6, 2, 5}, []int{source, loop, vals})
}

func TestOpCodeNames(t *testing.T) {
	for op, name := range opCodeToString {
		assert.Equal(t, op, StringToOp(name))
		assert.Equal(t, name, op.String())
	}
}
