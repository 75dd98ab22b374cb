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
	"github.com/420integrated/go-tiervm/core/tier"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethdb"
	"github.com/ethereum/go-ethereum/log"
)

// ReadReport retrieves the report a tier contract holds for an account.
// The second return is false when nothing was ever written.
func ReadReport(db ethdb.KeyValueReader, tierContract, account common.Address) (tier.Report, bool) {
	data, _ := db.Get(reportKey(tierContract, account))
	if len(data) == 0 {
		return tier.Never, false
	}
	return tier.ReportFromBytes(data), true
}

// WriteReport stores the report of an account.
func WriteReport(db ethdb.KeyValueWriter, tierContract, account common.Address, report tier.Report) {
	enc := report.Bytes32()
	if err := db.Put(reportKey(tierContract, account), enc[:]); err != nil {
		log.Crit("Failed to store tier report", "err", err)
	}
	reportWriteCounter.Inc(1)
}

// DeleteReport removes the report of an account.
func DeleteReport(db ethdb.KeyValueWriter, tierContract, account common.Address) {
	if err := db.Delete(reportKey(tierContract, account)); err != nil {
		log.Crit("Failed to delete tier report", "err", err)
	}
}
