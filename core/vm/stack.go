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
	"sync"

	"github.com/holiman/uint256"
)

var stackPool = sync.Pool{
	New: func() interface{} {
		return &Stack{data: make([]uint256.Int, 0, 16)}
	},
}

// Stack is the operand stack of an evaluation. Items are held by value so
// nothing pushed can alias a constant or context word.
type Stack struct {
	data []uint256.Int
}

func newstack() *Stack {
	return stackPool.Get().(*Stack)
}

func returnStack(s *Stack) {
	s.data = s.data[:0]
	stackPool.Put(s)
}

func (st *Stack) push(d *uint256.Int) {
	st.data = append(st.data, *d)
}

func (st *Stack) pop() (ret uint256.Int) {
	ret = st.data[len(st.data)-1]
	st.data = st.data[:len(st.data)-1]
	return
}

// popN removes the top n items, returned in push order.
func (st *Stack) popN(n int) []uint256.Int {
	items := make([]uint256.Int, n)
	copy(items, st.data[len(st.data)-n:])
	st.data = st.data[:len(st.data)-n]
	return items
}

func (st *Stack) len() int {
	return len(st.data)
}

func (st *Stack) peek() *uint256.Int {
	return &st.data[st.len()-1]
}

// words copies the stack out, bottom first.
func (st *Stack) words() []*uint256.Int {
	out := make([]*uint256.Int, len(st.data))
	for i := range st.data {
		w := st.data[i]
		out[i] = &w
	}
	return out
}
