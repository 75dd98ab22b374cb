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

import (
	"github.com/420integrated/go-tiervm/core/tier"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

func wordAddress(w *uint256.Int) common.Address {
	return common.Address(w.Bytes20())
}

func pushReport(scope *ScopeContext, r tier.Report) {
	scope.Stack.push(r.Word())
}

func opNever(operand uint16, interpreter *Interpreter, scope *ScopeContext) error {
	pushReport(scope, tier.Never)
	return nil
}

func opAlways(operand uint16, interpreter *Interpreter, scope *ScopeContext) error {
	pushReport(scope, tier.Always)
	return nil
}

// opReport pops a tier contract and an account and pushes the report the
// provider holds for the account.
func opReport(operand uint16, interpreter *Interpreter, scope *ScopeContext) error {
	items := scope.Stack.popN(2)
	r, err := interpreter.readReport(wordAddress(&items[0]), wordAddress(&items[1]), nil)
	if err != nil {
		return err
	}
	pushReport(scope, r)
	return nil
}

// opITierV2Report is opReport forwarding the operand's count of context
// words to the provider.
func opITierV2Report(operand uint16, interpreter *Interpreter, scope *ScopeContext) error {
	items := scope.Stack.popN(int(operand) + 2)
	ctx := make([]*uint256.Int, 0, operand)
	for i := 2; i < len(items); i++ {
		ctx = append(ctx, &items[i])
	}
	r, err := interpreter.readReport(wordAddress(&items[0]), wordAddress(&items[1]), ctx)
	if err != nil {
		return err
	}
	pushReport(scope, r)
	return nil
}

func opDiff(operand uint16, interpreter *Interpreter, scope *ScopeContext) error {
	items := scope.Stack.popN(2)
	pushReport(scope, tier.Diff(tier.ReportFromWord(&items[0]), tier.ReportFromWord(&items[1])))
	return nil
}

// opUpdateBlocksForTierRange pops a report and a block number and pushes the
// report with the operand's tier range set to that block.
func opUpdateBlocksForTierRange(operand uint16, interpreter *Interpreter, scope *ScopeContext) error {
	items := scope.Stack.popN(2)
	start, end := decodeTierRange(operand)
	block := &items[1]
	if !block.IsUint64() {
		block.SetUint64(^uint64(0))
	}
	r, err := tier.UpdateBlocksForTierRange(tier.ReportFromWord(&items[0]), start, end, block.Uint64())
	if err != nil {
		return err
	}
	pushReport(scope, r)
	return nil
}

func selectLte(n int, logic tier.Logic, mode tier.Mode, scope *ScopeContext) error {
	items := scope.Stack.popN(n + 1)
	reports := make([]tier.Report, n)
	for i := range reports {
		reports[i] = tier.ReportFromWord(&items[i+1])
	}
	r, err := tier.SelectLte(reports, &items[0], logic, mode)
	if err != nil {
		return err
	}
	pushReport(scope, r)
	return nil
}

var lteForms = map[OpCode]struct {
	logic tier.Logic
	mode  tier.Mode
}{
	EVERY_LTE_MIN:   {tier.LogicEvery, tier.ModeMin},
	EVERY_LTE_MAX:   {tier.LogicEvery, tier.ModeMax},
	EVERY_LTE_FIRST: {tier.LogicEvery, tier.ModeFirst},
	ANY_LTE_MIN:     {tier.LogicAny, tier.ModeMin},
	ANY_LTE_MAX:     {tier.LogicAny, tier.ModeMax},
	ANY_LTE_FIRST:   {tier.LogicAny, tier.ModeFirst},
}

// makeSelectLte returns the execution function of one of the fixed
// EVERY_LTE and ANY_LTE forms.
func makeSelectLte(op OpCode) executionFunc {
	form := lteForms[op]
	return func(operand uint16, interpreter *Interpreter, scope *ScopeContext) error {
		return selectLte(int(operand), form.logic, form.mode, scope)
	}
}

func opSelectLte(operand uint16, interpreter *Interpreter, scope *ScopeContext) error {
	return selectLte(int(operand&0x1f), tier.Logic(operand>>7&0x01), tier.Mode(operand>>5&0x03), scope)
}
