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
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
)

func opNoop(operand uint16, interpreter *Interpreter, scope *ScopeContext) error {
	return nil
}

// opVal pushes a constant, or with the argument flag set a column of the
// current argument frame.
func opVal(operand uint16, interpreter *Interpreter, scope *ScopeContext) error {
	if operand&argFlag != 0 {
		k := int(operand &^ argFlag)
		if k >= len(scope.Args) {
			return &ErrZipmapArityMismatch{Want: k + 1, Have: len(scope.Args)}
		}
		scope.Stack.push(orZero(scope.Args[k]))
		return nil
	}
	return pushConstant(int(operand), interpreter, scope)
}

func pushConstant(index int, interpreter *Interpreter, scope *ScopeContext) error {
	constants := interpreter.expr.Constants
	if index >= len(constants) {
		return &ErrOutOfBoundsConstant{Index: index, Length: len(constants)}
	}
	scope.Stack.push(orZero(constants[index]))
	return nil
}

func orZero(w *uint256.Int) *uint256.Int {
	if w == nil {
		return new(uint256.Int)
	}
	return w
}

func addressWord(addr common.Address) *uint256.Int {
	return new(uint256.Int).SetBytes20(addr.Bytes())
}

func opBlockNumber(operand uint16, interpreter *Interpreter, scope *ScopeContext) error {
	scope.Stack.push(uint256.NewInt(interpreter.env.BlockNumber))
	return nil
}

func opBlockTimestamp(operand uint16, interpreter *Interpreter, scope *ScopeContext) error {
	scope.Stack.push(uint256.NewInt(interpreter.env.Timestamp))
	return nil
}

func opConstructionBlockNumber(operand uint16, interpreter *Interpreter, scope *ScopeContext) error {
	scope.Stack.push(uint256.NewInt(interpreter.env.ConstructionBlockNumber))
	return nil
}

func opThisAddress(operand uint16, interpreter *Interpreter, scope *ScopeContext) error {
	scope.Stack.push(addressWord(interpreter.env.This))
	return nil
}

func opAccount(operand uint16, interpreter *Interpreter, scope *ScopeContext) error {
	scope.Stack.push(addressWord(interpreter.env.Account))
	return nil
}

func opCaller(operand uint16, interpreter *Interpreter, scope *ScopeContext) error {
	scope.Stack.push(addressWord(interpreter.env.Caller))
	return nil
}

func opContext(operand uint16, interpreter *Interpreter, scope *ScopeContext) error {
	column, row := int(operand>>8), int(operand&0xff)
	ctx := interpreter.env.Context
	if column >= len(ctx) || row >= len(ctx[column]) {
		return &ErrOutOfBoundsContext{Column: column, Row: row}
	}
	scope.Stack.push(orZero(ctx[column][row]))
	return nil
}

func opReadMemory(operand uint16, interpreter *Interpreter, scope *ScopeContext) error {
	offset := int(operand >> 1)
	if operand&0x01 == MemoryConstant {
		return pushConstant(offset, interpreter, scope)
	}
	if offset >= scope.Stack.len() {
		return &ErrOutOfBoundsStackRead{Offset: offset, StackLen: scope.Stack.len()}
	}
	v := scope.Stack.data[offset]
	scope.Stack.push(&v)
	return nil
}

// fold applies fn left to right over the operand's count of items, the
// deepest item being the initial accumulator.
func fold(op OpCode, operand uint16, scope *ScopeContext, fn func(z, x, y *uint256.Int) error) error {
	items := scope.Stack.popN(int(operand))
	acc := items[0]
	for i := 1; i < len(items); i++ {
		if err := fn(&acc, &acc, &items[i]); err != nil {
			return &ErrArithmetic{Op: op, Err: err}
		}
	}
	scope.Stack.push(&acc)
	return nil
}

func checkedAdd(z, x, y *uint256.Int) error {
	if _, overflow := z.AddOverflow(x, y); overflow {
		return ErrOverflow
	}
	return nil
}

func checkedSub(z, x, y *uint256.Int) error {
	if x.Lt(y) {
		return ErrUnderflow
	}
	z.Sub(x, y)
	return nil
}

func checkedMul(z, x, y *uint256.Int) error {
	if _, overflow := z.MulOverflow(x, y); overflow {
		return ErrOverflow
	}
	return nil
}

func checkedDiv(z, x, y *uint256.Int) error {
	if y.IsZero() {
		return ErrDivisionByZero
	}
	z.Div(x, y)
	return nil
}

func checkedMod(z, x, y *uint256.Int) error {
	if y.IsZero() {
		return ErrDivisionByZero
	}
	z.Mod(x, y)
	return nil
}

// checkedExp is square and multiply, failing as soon as a partial product
// leaves 256 bits.
func checkedExp(z, base, exponent *uint256.Int) error {
	var (
		result = uint256.NewInt(1)
		b      = new(uint256.Int).Set(base)
		e      = new(uint256.Int).Set(exponent)
	)
	for !e.IsZero() {
		if e.Uint64()&1 == 1 {
			if _, overflow := result.MulOverflow(result, b); overflow {
				return ErrOverflow
			}
		}
		e.Rsh(e, 1)
		if !e.IsZero() {
			if _, overflow := b.MulOverflow(b, b); overflow {
				return ErrOverflow
			}
		}
	}
	z.Set(result)
	return nil
}

func wordMin(z, x, y *uint256.Int) error {
	if y.Lt(x) {
		z.Set(y)
	} else {
		z.Set(x)
	}
	return nil
}

func wordMax(z, x, y *uint256.Int) error {
	if y.Gt(x) {
		z.Set(y)
	} else {
		z.Set(x)
	}
	return nil
}

func saturatingAdd(z, x, y *uint256.Int) error {
	if _, overflow := z.AddOverflow(x, y); overflow {
		z.SetAllOne()
	}
	return nil
}

func saturatingSub(z, x, y *uint256.Int) error {
	if x.Lt(y) {
		z.Clear()
	} else {
		z.Sub(x, y)
	}
	return nil
}

func saturatingMul(z, x, y *uint256.Int) error {
	if _, overflow := z.MulOverflow(x, y); overflow {
		z.SetAllOne()
	}
	return nil
}

func opAdd(operand uint16, interpreter *Interpreter, scope *ScopeContext) error {
	return fold(ADD, operand, scope, checkedAdd)
}

func opSub(operand uint16, interpreter *Interpreter, scope *ScopeContext) error {
	return fold(SUB, operand, scope, checkedSub)
}

func opMul(operand uint16, interpreter *Interpreter, scope *ScopeContext) error {
	return fold(MUL, operand, scope, checkedMul)
}

func opPow(operand uint16, interpreter *Interpreter, scope *ScopeContext) error {
	return fold(POW, operand, scope, checkedExp)
}

func opDiv(operand uint16, interpreter *Interpreter, scope *ScopeContext) error {
	return fold(DIV, operand, scope, checkedDiv)
}

func opMod(operand uint16, interpreter *Interpreter, scope *ScopeContext) error {
	return fold(MOD, operand, scope, checkedMod)
}

func opMin(operand uint16, interpreter *Interpreter, scope *ScopeContext) error {
	return fold(MIN, operand, scope, wordMin)
}

func opMax(operand uint16, interpreter *Interpreter, scope *ScopeContext) error {
	return fold(MAX, operand, scope, wordMax)
}

func opAverage(operand uint16, interpreter *Interpreter, scope *ScopeContext) error {
	if err := fold(AVERAGE, operand, scope, checkedAdd); err != nil {
		return err
	}
	sum := scope.Stack.peek()
	sum.Div(sum, uint256.NewInt(uint64(operand)))
	return nil
}

func opSaturatingAdd(operand uint16, interpreter *Interpreter, scope *ScopeContext) error {
	return fold(SATURATING_ADD, operand, scope, saturatingAdd)
}

func opSaturatingSub(operand uint16, interpreter *Interpreter, scope *ScopeContext) error {
	return fold(SATURATING_SUB, operand, scope, saturatingSub)
}

func opSaturatingMul(operand uint16, interpreter *Interpreter, scope *ScopeContext) error {
	return fold(SATURATING_MUL, operand, scope, saturatingMul)
}

func boolWord(b bool) *uint256.Int {
	if b {
		return uint256.NewInt(1)
	}
	return new(uint256.Int)
}

func opIsZero(operand uint16, interpreter *Interpreter, scope *ScopeContext) error {
	x := scope.Stack.peek()
	if x.IsZero() {
		x.SetOne()
	} else {
		x.Clear()
	}
	return nil
}

func opEqualTo(operand uint16, interpreter *Interpreter, scope *ScopeContext) error {
	y := scope.Stack.pop()
	x := scope.Stack.pop()
	scope.Stack.push(boolWord(x.Eq(&y)))
	return nil
}

func opLessThan(operand uint16, interpreter *Interpreter, scope *ScopeContext) error {
	y := scope.Stack.pop()
	x := scope.Stack.pop()
	scope.Stack.push(boolWord(x.Lt(&y)))
	return nil
}

func opGreaterThan(operand uint16, interpreter *Interpreter, scope *ScopeContext) error {
	y := scope.Stack.pop()
	x := scope.Stack.pop()
	scope.Stack.push(boolWord(x.Gt(&y)))
	return nil
}

// opEvery pushes the first item if no item is zero, else zero.
func opEvery(operand uint16, interpreter *Interpreter, scope *ScopeContext) error {
	items := scope.Stack.popN(int(operand))
	for i := range items {
		if items[i].IsZero() {
			scope.Stack.push(new(uint256.Int))
			return nil
		}
	}
	scope.Stack.push(&items[0])
	return nil
}

// opAny pushes the first non-zero item, or zero.
func opAny(operand uint16, interpreter *Interpreter, scope *ScopeContext) error {
	items := scope.Stack.popN(int(operand))
	for i := range items {
		if !items[i].IsZero() {
			scope.Stack.push(&items[i])
			return nil
		}
	}
	scope.Stack.push(new(uint256.Int))
	return nil
}

// opEagerIf pops a condition and both branches, keeping the first branch
// when the condition is non-zero.
func opEagerIf(operand uint16, interpreter *Interpreter, scope *ScopeContext) error {
	items := scope.Stack.popN(3)
	if !items[0].IsZero() {
		scope.Stack.push(&items[1])
	} else {
		scope.Stack.push(&items[2])
	}
	return nil
}

// opHash pushes the keccak256 of the packed 32 byte encoding of the popped
// items.
func opHash(operand uint16, interpreter *Interpreter, scope *ScopeContext) error {
	items := scope.Stack.popN(int(operand))
	buf := make([]byte, 0, 32*len(items))
	for i := range items {
		b := items[i].Bytes32()
		buf = append(buf, b[:]...)
	}
	scope.Stack.push(new(uint256.Int).SetBytes32(crypto.Keccak256(buf)))
	return nil
}
