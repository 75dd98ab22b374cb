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
	"github.com/420integrated/go-tiervm/params"
	"github.com/holiman/uint256"
)

// opZipmap pops the operand's count of words, splits each into rows and runs
// the named source once per row.
func opZipmap(operand uint16, interpreter *Interpreter, scope *ScopeContext) error {
	source, loopSize, vals := decodeCallSize(operand)
	items := scope.Stack.popN(vals)

	rows := 1 << loopSize
	width := uint(256 >> loopSize)
	mask := new(uint256.Int).Sub(new(uint256.Int).Lsh(uint256.NewInt(1), width), uint256.NewInt(1))
	if width == 256 {
		mask.SetAllOne()
	}
	columns := make([][]*uint256.Int, vals)
	for k := range items {
		columns[k] = make([]*uint256.Int, rows)
		for r := 0; r < rows; r++ {
			chunk := new(uint256.Int).Rsh(&items[k], uint(r)*width)
			columns[k][r] = chunk.And(chunk, mask)
		}
	}
	return interpreter.zipmap(source, rows, columns, scope)
}

// zipmap evaluates source for each of rows rows on a fresh stack, the
// argument frame holding that row's value of every column. Each row's
// results are appended to the caller's stack in row order. Nested calls are
// bounded by the dispatch loop.
func (in *Interpreter) zipmap(source, rows int, columns [][]*uint256.Int, scope *ScopeContext) error {
	in.callDepth++
	defer func() { in.callDepth-- }()

	sub := newstack()
	defer returnStack(sub)
	for r := 0; r < rows; r++ {
		args := make([]*uint256.Int, len(columns))
		for k, col := range columns {
			args[k] = col[r]
		}
		sub.data = sub.data[:0]
		if err := in.eval(source, &ScopeContext{Stack: sub, Args: args}); err != nil {
			return err
		}
		if scope.Stack.len()+sub.len() > int(params.StackLimit) {
			return &ErrStackOverflow{PC: -1, Op: ZIPMAP, Limit: int(params.StackLimit)}
		}
		for i := range sub.data {
			scope.Stack.push(&sub.data[i])
		}
		zipmapRowMeter.Mark(1)
	}
	return nil
}

// Zipmap runs the source at sourceIndex once per row of the given columns
// and returns every row's results, in row order. All columns must be the
// same length.
func (in *Interpreter) Zipmap(sourceIndex int, columns ...[]*uint256.Int) ([]*uint256.Int, error) {
	if len(columns) == 0 {
		return nil, &ErrZipmapArityMismatch{Want: 1, Have: 0}
	}
	if len(columns) > params.MaxZipmapVals {
		return nil, &ErrZipmapArityMismatch{Want: params.MaxZipmapVals, Have: len(columns)}
	}
	rows := len(columns[0])
	for _, col := range columns[1:] {
		if len(col) != rows {
			return nil, &ErrZipmapArityMismatch{Want: rows, Have: len(col)}
		}
	}
	evalMeter.Mark(1)
	stack := newstack()
	defer returnStack(stack)
	if err := in.zipmap(sourceIndex, rows, columns, &ScopeContext{Stack: stack}); err != nil {
		evalFailMeter.Mark(1)
		return nil, err
	}
	return stack.words(), nil
}
