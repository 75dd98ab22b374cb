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

import "github.com/ethereum/go-ethereum/metrics"

var (
	evalTimer       = metrics.NewRegisteredTimer("vm/eval/duration", nil)
	evalMeter       = metrics.NewRegisteredMeter("vm/eval/count", nil)
	evalFailMeter   = metrics.NewRegisteredMeter("vm/eval/failures", nil)
	zipmapRowMeter  = metrics.NewRegisteredMeter("vm/zipmap/rows", nil)
	reportReadMeter = metrics.NewRegisteredMeter("vm/report/reads", nil)
)
