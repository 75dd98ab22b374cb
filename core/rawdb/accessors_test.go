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

package rawdb

import (
	"testing"

	"github.com/420integrated/go-tiervm/core/tier"
	"github.com/420integrated/go-tiervm/core/vm"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethdb/memorydb"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	tierAddr = common.HexToAddress("0x0101010101010101010101010101010101010101")
	account  = common.HexToAddress("0x0202020202020202020202020202020202020202")
)

func TestReportStorage(t *testing.T) {
	db := memorydb.New()

	r, ok := ReadReport(db, tierAddr, account)
	assert.False(t, ok)
	assert.Equal(t, tier.Never, r)

	want := tier.ReportFromLanes([8]uint32{0, 1, 0xFFFFFFFF, 3, 4, 5, 0xFFFFFFFF, 7})
	WriteReport(db, tierAddr, account, want)
	r, ok = ReadReport(db, tierAddr, account)
	require.True(t, ok)
	assert.Equal(t, want, r)

	// Always is stored as 32 zero bytes and must not read back as missing.
	WriteReport(db, tierAddr, account, tier.Always)
	r, ok = ReadReport(db, tierAddr, account)
	require.True(t, ok)
	assert.Equal(t, tier.Always, r)

	_, ok = ReadReport(db, account, tierAddr)
	assert.False(t, ok)

	DeleteReport(db, tierAddr, account)
	_, ok = ReadReport(db, tierAddr, account)
	assert.False(t, ok)
}

func TestExpressionStorage(t *testing.T) {
	db := memorydb.New()
	assert.Nil(t, ReadExpression(db, tierAddr))

	expr := &vm.Expression{
		Sources: []vm.Source{
			vm.Concat(vm.Op(vm.VAL, 0), vm.Op(vm.VAL, 1), vm.Op(vm.ADD, 2)),
			vm.Op(vm.NEVER, 0),
		},
		Constants: []*uint256.Int{uint256.NewInt(3), new(uint256.Int).SetAllOne(), nil},
		Arguments: []*uint256.Int{uint256.NewInt(9)},
	}
	WriteExpression(db, tierAddr, expr)

	got := ReadExpression(db, tierAddr)
	require.NotNil(t, got)
	assert.Equal(t, expr.Sources, got.Sources)
	require.Len(t, got.Constants, 3)
	assert.Equal(t, expr.Constants[0], got.Constants[0])
	assert.Equal(t, expr.Constants[1], got.Constants[1])
	assert.True(t, got.Constants[2].IsZero())
	assert.Equal(t, expr.Arguments, got.Arguments)

	DeleteExpression(db, tierAddr)
	assert.Nil(t, ReadExpression(db, tierAddr))
}

func TestDepositRecordStorage(t *testing.T) {
	db := memorydb.New()
	assert.Nil(t, ReadDepositRecords(db, tierAddr, account))

	want := []DepositRecord{
		{Block: 10, Amount: uint256.NewInt(100)},
		{Block: 12, Amount: new(uint256.Int).SetAllOne()},
	}
	WriteDepositRecords(db, tierAddr, account, want)
	assert.Equal(t, want, ReadDepositRecords(db, tierAddr, account))
	assert.Nil(t, ReadDepositRecords(db, account, tierAddr))

	WriteDepositRecords(db, tierAddr, account, nil)
	assert.Nil(t, ReadDepositRecords(db, tierAddr, account))
	has, err := db.Has(depositKey(tierAddr, account))
	require.NoError(t, err)
	assert.False(t, has)
}
