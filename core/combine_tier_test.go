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
	"math/big"
	"testing"

	"github.com/420integrated/go-tiervm/core/tier"
	"github.com/420integrated/go-tiervm/core/vm"
	"github.com/420integrated/go-tiervm/params"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethdb/memorydb"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// anyMinSource combines the reports of the tier contracts in constants 0 and
// 1, keeping the oldest block each tier was held since.
func anyMinSource() vm.Source {
	return vm.Concat(
		op(vm.BLOCK_TIMESTAMP, 0),
		op(vm.READ_MEMORY, vm.MemoryOperand(vm.MemoryConstant, 1)),
		op(vm.CONTEXT, vm.ContextOperand(0, 0)),
		op(vm.ITIER_V2_REPORT, 0),
		op(vm.READ_MEMORY, vm.MemoryOperand(vm.MemoryConstant, 0)),
		op(vm.CONTEXT, vm.ContextOperand(0, 0)),
		op(vm.ITIER_V2_REPORT, 0),
		op(vm.SELECT_LTE, vm.SelectLte(tier.LogicAny, tier.ModeMin, 2)),
	)
}

func anyMinExpression(right, left common.Address) *vm.Expression {
	return &vm.Expression{
		Sources: []vm.Source{
			anyMinSource(),
			constantTier(tier.Never).Sources[1],
		},
		Constants: []*uint256.Int{addressWord(right), addressWord(left)},
	}
}

func TestCombineAlwaysNever(t *testing.T) {
	var (
		registry = NewTierRegistry()
		always   = common.HexToAddress("0xa1")
		never    = common.HexToAddress("0xa2")
		combined = common.HexToAddress("0xa3")
	)
	_, err := NewCombineTier(always, CombineTierConfig{Expression: constantTier(tier.Always)}, registry, vm.Config{})
	require.NoError(t, err)
	_, err = NewCombineTier(never, CombineTierConfig{Expression: constantTier(tier.Never)}, registry, vm.Config{})
	require.NoError(t, err)
	c, err := NewCombineTier(combined, CombineTierConfig{CombinedTiers: 2, Expression: anyMinExpression(always, never)}, registry, vm.Config{})
	require.NoError(t, err)

	r, err := c.Report(BlockContext{Number: 5, Time: 1650000000}.env(), alice, nil)
	require.NoError(t, err)
	assert.Equal(t, tier.Always, r)

	// The registry reaches it the same way.
	r, err = registry.Report(nil, combined, alice, nil)
	require.NoError(t, err)
	assert.Equal(t, tier.Always, r)
}

func TestCombineReadWriteTiers(t *testing.T) {
	var (
		db       = memorydb.New()
		registry = NewTierRegistry()
		rightAt  = common.HexToAddress("0xb1")
		leftAt   = common.HexToAddress("0xb2")
		right    = NewReadWriteTier(rightAt, db)
		left     = NewReadWriteTier(leftAt, db)
		start    = uint64(1000)
	)
	registry.Register(rightAt, right)
	registry.Register(leftAt, left)
	c, err := NewCombineTier(common.HexToAddress("0xb3"), CombineTierConfig{CombinedTiers: 2, Expression: anyMinExpression(rightAt, leftAt)}, registry, vm.Config{})
	require.NoError(t, err)

	steps := []struct {
		rwt *ReadWriteTier
		to  tier.Tier
	}{
		{right, tier.One}, {right, tier.Two}, {right, tier.Three},
		{left, tier.One}, {left, tier.Two}, {left, tier.Three},
		{left, tier.Four}, {left, tier.Five}, {left, tier.Six},
		{right, tier.Four}, {right, tier.Five}, {right, tier.Six}, {right, tier.Eight},
	}
	for i, step := range steps {
		require.NoError(t, step.rwt.SetTier(alice, step.to, start+uint64(i)+1))
	}
	s := uint32(start)

	rightReport, _ := right.Report(nil, alice, nil)
	assert.Equal(t, lanes(s+1, s+2, s+3, s+10, s+11, s+12, s+13, s+13), rightReport)
	leftReport, _ := left.Report(nil, alice, nil)
	assert.Equal(t, lanes(s+4, s+5, s+6, s+7, s+8, s+9, never, never), leftReport)

	r, err := c.Report(BlockContext{Time: start + 14}.env(), alice, nil)
	require.NoError(t, err)
	assert.Equal(t, lanes(s+1, s+2, s+3, s+7, s+8, s+9, s+13, s+13), r, "\nleft  %v\nright %v\ngot   %v", leftReport, rightReport, r)
}

func TestCombinedTiersMustBeRegistered(t *testing.T) {
	var (
		registry = NewTierRegistry()
		known    = common.HexToAddress("0xe1")
		unknown  = common.HexToAddress("0xe2")
	)
	registry.Register(known, NewReadWriteTier(known, memorydb.New()))

	tests := []struct {
		name     string
		combined int
		expr     *vm.Expression
		err      error
	}{
		{"none", 0, anyMinExpression(unknown, unknown), nil},
		{"registered", 1, anyMinExpression(known, unknown), nil},
		{"both registered", 2, anyMinExpression(known, known), nil},
		{"unregistered", 2, anyMinExpression(known, unknown), ErrNotTierContract},
		{"too many", 3, anyMinExpression(known, known), ErrNotTierContract},
		{"negative", -1, anyMinExpression(known, known), ErrNotTierContract},
		{"not an address", 1, constantTier(tier.Never), ErrNotTierContract},
	}
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			address := common.BigToAddress(big.NewInt(int64(0xe100 + i)))
			c, err := NewCombineTier(address, CombineTierConfig{CombinedTiers: tt.combined, Expression: tt.expr}, registry, vm.Config{})
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				assert.Nil(t, c)
				_, ok := registry.Provider(address)
				assert.False(t, ok, "rejected combine tier was registered")
				return
			}
			require.NoError(t, err)
			_, ok := registry.Provider(address)
			assert.True(t, ok)
		})
	}
}

func TestCombineReportTimeForTier(t *testing.T) {
	registry := NewTierRegistry()
	expr := &vm.Expression{
		Sources: []vm.Source{
			op(vm.NEVER, 0),
			vm.Concat(op(vm.CONTEXT, vm.ContextOperand(0, 1)), op(vm.CONTEXT, vm.ContextOperand(1, 0)), op(vm.ADD, 2)),
		},
	}
	c, err := NewCombineTier(common.HexToAddress("0xc1"), CombineTierConfig{Expression: expr}, registry, vm.Config{})
	require.NoError(t, err)
	out, err := c.ReportTimeForTier(new(vm.Environment), alice, tier.Three, []*uint256.Int{word(100)})
	require.NoError(t, err)
	assert.Equal(t, word(103), out)

	_, err = NewCombineTier(common.HexToAddress("0xc2"), CombineTierConfig{Expression: &vm.Expression{Sources: []vm.Source{op(vm.NEVER, 0)}}}, registry, vm.Config{})
	assert.ErrorIs(t, err, ErrMissingSources)
}

func TestCombineRecursionDepth(t *testing.T) {
	registry := NewTierRegistry()
	self := common.HexToAddress("0xd1")
	expr := &vm.Expression{
		Sources: []vm.Source{
			vm.Concat(op(vm.VAL, 0), op(vm.ACCOUNT, 0), op(vm.REPORT, 0)),
			op(vm.NEVER, 0),
		},
		Constants: []*uint256.Int{addressWord(self)},
	}
	c, err := NewCombineTier(self, CombineTierConfig{Expression: expr}, registry, vm.Config{})
	require.NoError(t, err)

	_, err = c.Report(new(vm.Environment), alice, nil)
	require.ErrorIs(t, err, vm.ErrMaxDepth)

	_, err = registry.Report(&vm.Environment{Depth: params.MaxTierDepth}, self, alice, nil)
	require.ErrorIs(t, err, vm.ErrMaxDepth)

	_, err = registry.Report(nil, common.HexToAddress("0xdead"), alice, nil)
	require.ErrorIs(t, err, ErrUnknownTierContract)
}
