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

package tierapi

import (
	"math/big"
	"testing"

	"github.com/420integrated/go-tiervm/core"
	"github.com/420integrated/go-tiervm/core/tier"
	"github.com/420integrated/go-tiervm/core/vm"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/ethdb/memorydb"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	rwtAddress       = common.HexToAddress("0x1000000000000000000000000000000000000001")
	emissionsAddress = common.HexToAddress("0x1000000000000000000000000000000000000002")
	account          = common.HexToAddress("0xa11ce00000000000000000000000000000000001")
)

func newTestClient(t *testing.T) (*rpc.Client, *core.ReadWriteTier) {
	t.Helper()
	b := &Backend{
		DB:       memorydb.New(),
		Registry: core.NewTierRegistry(),
	}
	rwt := core.NewReadWriteTier(rwtAddress, b.DB)
	b.Registry.Register(rwtAddress, rwt)

	// Claims one unit per block since the account reached tier one.
	claim := vm.Concat(
		vm.Op(vm.BLOCK_NUMBER, 0),
		vm.Op(vm.VAL, 0), vm.Op(vm.ACCOUNT, 0), vm.Op(vm.REPORT, 0),
		vm.Op(vm.DIFF, 0),
	)
	expr := &vm.Expression{
		Sources:   []vm.Source{claim},
		Constants: []*uint256.Int{new(uint256.Int).SetBytes(rwtAddress.Bytes())},
	}
	_, err := core.NewEmissions(emissionsAddress, core.EmissionsConfig{Expression: expr}, b.DB, b.Registry, core.NewSupply(), vm.Config{})
	require.NoError(t, err)

	server := rpc.NewServer()
	for _, api := range APIs(b) {
		require.NoError(t, server.RegisterName(api.Namespace, api.Service))
	}
	client := rpc.DialInProc(server)
	t.Cleanup(func() {
		client.Close()
		server.Stop()
	})
	return client, rwt
}

func TestEvaluate(t *testing.T) {
	client, _ := newTestClient(t)

	exprArgs := ExpressionArgs{
		Sources: []hexutil.Bytes{
			hexutil.Bytes(vm.Concat(vm.Op(vm.VAL, 0), vm.Op(vm.VAL, 1), vm.Op(vm.ADD, 2), vm.Op(vm.BLOCK_NUMBER, 0))),
		},
		Constants: []*hexutil.Big{(*hexutil.Big)(big.NewInt(40)), (*hexutil.Big)(big.NewInt(2))},
	}
	envArgs := EnvironmentArgs{BlockNumber: 7}

	var result []*hexutil.Big
	require.NoError(t, client.Call(&result, "tiervm_evaluate", exprArgs, envArgs, 0))
	require.Len(t, result, 2)
	assert.Equal(t, int64(42), result[0].ToInt().Int64())
	assert.Equal(t, int64(7), result[1].ToInt().Int64())

	// Evaluation errors come back as RPC errors.
	exprArgs.Sources = []hexutil.Bytes{hexutil.Bytes(vm.Op(vm.VAL, 5))}
	err := client.Call(&result, "tiervm_evaluate", exprArgs, envArgs, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "constant 5 out of bounds")

	// Constants must fit a word.
	exprArgs.Constants = []*hexutil.Big{(*hexutil.Big)(new(big.Int).Lsh(big.NewInt(1), 256))}
	require.Error(t, client.Call(&result, "tiervm_evaluate", exprArgs, envArgs, 0))
}

func TestReportAndClaim(t *testing.T) {
	client, rwt := newTestClient(t)
	require.NoError(t, rwt.SetTier(account, tier.One, 10))

	var report common.Hash
	require.NoError(t, client.Call(&report, "tiervm_report", rwtAddress, account, hexutil.Uint64(20), hexutil.Uint64(0)))
	r := tier.ReportFromBytes(report.Bytes())
	assert.Equal(t, uint32(10), r.Lane(0))
	assert.Equal(t, uint32(0xFFFFFFFF), r.Lane(1))

	var amount hexutil.Big
	require.NoError(t, client.Call(&amount, "tiervm_calculateClaim", emissionsAddress, account, hexutil.Uint64(25), hexutil.Uint64(0)))
	assert.Equal(t, int64(15), amount.ToInt().Int64())

	require.Error(t, client.Call(&amount, "tiervm_calculateClaim", rwtAddress, account, hexutil.Uint64(25), hexutil.Uint64(0)))
	require.Error(t, client.Call(&report, "tiervm_report", common.HexToAddress("0xdead"), account, hexutil.Uint64(20), hexutil.Uint64(0)))
}

func TestExpressionAndTools(t *testing.T) {
	client, _ := newTestClient(t)

	var expr ExpressionArgs
	require.NoError(t, client.Call(&expr, "tiervm_expression", emissionsAddress))
	require.Len(t, expr.Sources, 1)
	assert.Equal(t, rwtAddress.Big(), expr.Constants[0].ToInt())

	require.Error(t, client.Call(&expr, "tiervm_expression", rwtAddress))

	var exts []string
	require.NoError(t, client.Call(&exts, "tiervm_extensions"))
	assert.Equal(t, vm.ActivateableExtensions(), exts)

	var listing string
	require.NoError(t, client.Call(&listing, "tiervm_disassemble", hexutil.Bytes(vm.Op(vm.DIFF, 0))))
	assert.Contains(t, listing, "DIFF")
}
