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

import "github.com/ethereum/go-ethereum/metrics"

var (
	reportCacheHitMeter  = metrics.NewRegisteredMeter("core/report/cache/hit", nil)
	reportCacheMissMeter = metrics.NewRegisteredMeter("core/report/cache/miss", nil)

	claimMeter         = metrics.NewRegisteredMeter("core/emissions/claims", nil)
	claimFailMeter     = metrics.NewRegisteredMeter("core/emissions/failures", nil)
	stakeDepositMeter  = metrics.NewRegisteredMeter("core/stake/deposits", nil)
	stakeWithdrawMeter = metrics.NewRegisteredMeter("core/stake/withdrawals", nil)
	flowMeter          = metrics.NewRegisteredMeter("core/flow/flows", nil)
	flowFailMeter      = metrics.NewRegisteredMeter("core/flow/failures", nil)
)
