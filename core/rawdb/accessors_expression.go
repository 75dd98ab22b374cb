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
	"github.com/420integrated/go-tiervm/core/vm"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethdb"
	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"
)

// storedExpression is the RLP layout of an expression at rest.
type storedExpression struct {
	Sources   [][]byte
	Constants []*uint256.Int
	Arguments []*uint256.Int
}

// ReadExpression retrieves the expression deployed at an address.
func ReadExpression(db ethdb.KeyValueReader, address common.Address) *vm.Expression {
	data, _ := db.Get(expressionKey(address))
	if len(data) == 0 {
		return nil
	}
	var stored storedExpression
	if err := rlp.DecodeBytes(data, &stored); err != nil {
		log.Error("Invalid expression RLP", "address", address, "err", err)
		return nil
	}
	expr := &vm.Expression{
		Sources:   make([]vm.Source, len(stored.Sources)),
		Constants: stored.Constants,
		Arguments: stored.Arguments,
	}
	for i, src := range stored.Sources {
		expr.Sources[i] = src
	}
	return expr
}

// WriteExpression stores the expression deployed at an address.
func WriteExpression(db ethdb.KeyValueWriter, address common.Address, expr *vm.Expression) {
	stored := storedExpression{
		Sources:   make([][]byte, len(expr.Sources)),
		Constants: nonNil(expr.Constants),
		Arguments: nonNil(expr.Arguments),
	}
	for i, src := range expr.Sources {
		stored.Sources[i] = src
	}
	data, err := rlp.EncodeToBytes(&stored)
	if err != nil {
		log.Crit("Failed to RLP encode expression", "err", err)
	}
	if err := db.Put(expressionKey(address), data); err != nil {
		log.Crit("Failed to store expression", "err", err)
	}
	expressionWriteCounter.Inc(1)
}

// DeleteExpression removes the expression deployed at an address.
func DeleteExpression(db ethdb.KeyValueWriter, address common.Address) {
	if err := db.Delete(expressionKey(address)); err != nil {
		log.Crit("Failed to delete expression", "err", err)
	}
}

// nonNil replaces missing words with zero, which is how they evaluate.
func nonNil(ws []*uint256.Int) []*uint256.Int {
	out := make([]*uint256.Int, len(ws))
	for i, w := range ws {
		if w == nil {
			w = new(uint256.Int)
		}
		out[i] = w
	}
	return out
}
