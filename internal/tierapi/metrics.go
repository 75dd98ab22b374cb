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
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/metrics"
)

var (
	rpcRequestGauge        = metrics.NewRegisteredGauge("tiervm/rpc/requests", nil)
	successfulRequestGauge = metrics.NewRegisteredGauge("tiervm/rpc/success", nil)
	failedRequestGauge     = metrics.NewRegisteredGauge("tiervm/rpc/failure", nil)
	rpcServingTimer        = metrics.NewRegisteredTimer("tiervm/rpc/duration/all", nil)
)

// trackRequest records a served request. errp points at the named error
// result of the method.
func trackRequest(method string, start time.Time, errp *error) {
	valid := *errp == nil
	rpcRequestGauge.Inc(1)
	if valid {
		successfulRequestGauge.Inc(1)
	} else {
		failedRequestGauge.Inc(1)
	}
	rpcServingTimer.UpdateSince(start)
	updateRPCServingTimer(method, valid, start)
}

func updateRPCServingTimer(method string, valid bool, start time.Time) {
	flag := "success"
	if !valid {
		flag = "failure"
	}
	m := fmt.Sprintf("tiervm/rpc/duration/%s/%s", method, flag)
	metrics.GetOrRegisterTimer(m, nil).UpdateSince(start)
}
