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

// Package rawdb contains a collection of low level database accessors.
package rawdb

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/metrics"
)

// The fields below define the low level database schema prefixing.
var (
	reportPrefix     = []byte("r") // reportPrefix + tier contract + account -> report
	expressionPrefix = []byte("x") // expressionPrefix + address -> rlp(expression)
	depositPrefix    = []byte("d") // depositPrefix + stake + account -> rlp(deposit records)

	reportWriteCounter     = metrics.NewRegisteredCounter("db/report/writes", nil)
	expressionWriteCounter = metrics.NewRegisteredCounter("db/expression/writes", nil)
	depositWriteCounter    = metrics.NewRegisteredCounter("db/deposit/writes", nil)
)

// reportKey = reportPrefix + tierContract + account
func reportKey(tierContract, account common.Address) []byte {
	key := make([]byte, 0, len(reportPrefix)+2*common.AddressLength)
	key = append(key, reportPrefix...)
	key = append(key, tierContract.Bytes()...)
	return append(key, account.Bytes()...)
}

// expressionKey = expressionPrefix + address
func expressionKey(address common.Address) []byte {
	return append(append([]byte{}, expressionPrefix...), address.Bytes()...)
}

// depositKey = depositPrefix + stake + account
func depositKey(stake, account common.Address) []byte {
	key := make([]byte, 0, len(depositPrefix)+2*common.AddressLength)
	key = append(key, depositPrefix...)
	key = append(key, stake.Bytes()...)
	return append(key, account.Bytes()...)
}
