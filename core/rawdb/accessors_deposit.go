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
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethdb"
	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"
)

// DepositRecord is the amount an account had staked since a block. Records of
// an account are ordered by block with strictly increasing amounts.
type DepositRecord struct {
	Block  uint64
	Amount *uint256.Int
}

// ReadDepositRecords retrieves the deposit history of an account.
func ReadDepositRecords(db ethdb.KeyValueReader, stake, account common.Address) []DepositRecord {
	data, _ := db.Get(depositKey(stake, account))
	if len(data) == 0 {
		return nil
	}
	var records []DepositRecord
	if err := rlp.DecodeBytes(data, &records); err != nil {
		log.Error("Invalid deposit records RLP", "stake", stake, "account", account, "err", err)
		return nil
	}
	return records
}

// WriteDepositRecords stores the deposit history of an account, an empty
// history deletes it.
func WriteDepositRecords(db ethdb.KeyValueWriter, stake, account common.Address, records []DepositRecord) {
	if len(records) == 0 {
		if err := db.Delete(depositKey(stake, account)); err != nil {
			log.Crit("Failed to delete deposit records", "err", err)
		}
		return
	}
	data, err := rlp.EncodeToBytes(records)
	if err != nil {
		log.Crit("Failed to RLP encode deposit records", "err", err)
	}
	if err := db.Put(depositKey(stake, account), data); err != nil {
		log.Crit("Failed to store deposit records", "err", err)
	}
	depositWriteCounter.Inc(1)
}
