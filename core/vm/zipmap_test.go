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
	"testing"

	"github.com/420integrated/go-tiervm/core/tier"
	"github.com/420integrated/go-tiervm/params"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lanes(vs ...uint32) *uint256.Int {
	var l [params.TierCount]uint32
	copy(l[:], vs)
	return tier.ReportFromLanes(l).Word()
}

// Per tier reward rates multiplied by a duration, one row per lane.
func TestZipmapRewardRows(t *testing.T) {
	expr := &Expression{
		Sources: []Source{
			Concat(Op(VAL, 0), Op(VAL, 1), Op(ZIPMAP, CallSize(1, 3, 2))),
			Concat(Op(VAL, Arg(0)), Op(VAL, Arg(1)), Op(MUL, 2)),
		},
		Constants: []*uint256.Int{
			lanes(3, 3, 10, 16),
			lanes(183, 183, 183, 183, 183, 183, 183, 183),
		},
	}
	out, err := NewInterpreter(expr, nil, Config{}).Run(0, params.TierCount)
	require.NoError(t, err)
	assert.Equal(t, words(549, 549, 1830, 2928, 0, 0, 0, 0), out)
}

func TestZipmapAddFixed(t *testing.T) {
	expr := &Expression{
		Sources: []Source{
			Concat(Op(VAL, 0), Op(ZIPMAP, CallSize(1, 3, 1))),
			Concat(Op(VAL, Arg(0)), Op(VAL, 1), Op(ADD, 2)),
		},
		Constants: []*uint256.Int{lanes(1, 2, 3, 4, 5, 6, 7, 8), uint256.NewInt(100)},
	}
	out, err := NewInterpreter(expr, nil, Config{}).Run(0, AnyOutputs)
	require.NoError(t, err)
	assert.Equal(t, words(101, 102, 103, 104, 105, 106, 107, 108), out)
}

func TestZipmapRowWidths(t *testing.T) {
	word := new(uint256.Int).Lsh(uint256.NewInt(5), 128)
	word.Or(word, uint256.NewInt(3))
	for _, tt := range []struct {
		loopSize int
		want     []*uint256.Int
	}{
		{0, []*uint256.Int{new(uint256.Int).Set(word)}},
		{1, words(3, 5)},
		{2, words(3, 0, 5, 0)},
	} {
		expr := &Expression{
			Sources: []Source{
				Concat(Op(VAL, 0), Op(ZIPMAP, CallSize(1, tt.loopSize, 1))),
				Op(VAL, Arg(0)),
			},
			Constants: []*uint256.Int{word},
		}
		out, err := NewInterpreter(expr, nil, Config{}).Run(0, AnyOutputs)
		require.NoError(t, err)
		assert.Equal(t, tt.want, out, "loop size %d", tt.loopSize)
	}
}

func TestZipmapNested(t *testing.T) {
	word := new(uint256.Int).Lsh(uint256.NewInt(5), 128)
	word.Or(word, uint256.NewInt(3))
	expr := &Expression{
		Sources: []Source{
			Concat(Op(VAL, 0), Op(ZIPMAP, CallSize(1, 1, 1))),
			Concat(Op(VAL, Arg(0)), Op(ZIPMAP, CallSize(2, 0, 1)), Op(VAL, Arg(0)), Op(ADD, 2)),
			Concat(Op(VAL, Arg(0)), Op(VAL, 1), Op(MUL, 2)),
		},
		Constants: []*uint256.Int{word, uint256.NewInt(10)},
	}
	out, err := NewInterpreter(expr, nil, Config{}).Run(0, 2)
	require.NoError(t, err)
	assert.Equal(t, words(33, 55), out)
}

func TestZipmapArity(t *testing.T) {
	expr := &Expression{
		Sources: []Source{
			Concat(Op(VAL, 0), Op(ZIPMAP, CallSize(1, 0, 1))),
			Op(VAL, Arg(1)),
		},
		Constants: words(1),
	}
	_, err := NewInterpreter(expr, nil, Config{}).Run(0, AnyOutputs)
	var aerr *ErrZipmapArityMismatch
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, &ErrZipmapArityMismatch{Want: 2, Have: 1}, aerr)

	in := NewInterpreter(&Expression{Sources: []Source{Op(VAL, Arg(0))}}, nil, Config{})
	_, err = in.Zipmap(0, words(1, 2), words(1))
	require.ErrorAs(t, err, &aerr)

	_, err = in.Zipmap(0)
	require.ErrorAs(t, err, &aerr)

	// Outside any zipmap the expression arguments form the frame.
	in = NewInterpreter(&Expression{Sources: []Source{Op(VAL, Arg(0))}, Arguments: words(9)}, nil, Config{})
	out, err := in.Run(0, 1)
	require.NoError(t, err)
	assert.Equal(t, words(9), out)
}

func TestZipmapColumns(t *testing.T) {
	expr := &Expression{
		Sources: []Source{Concat(Op(VAL, Arg(0)), Op(VAL, Arg(1)), Op(SUB, 2))},
	}
	out, err := NewInterpreter(expr, nil, Config{}).Zipmap(0, words(10, 20, 30), words(1, 2, 3))
	require.NoError(t, err)
	assert.Equal(t, words(9, 18, 27), out)

	_, err = NewInterpreter(expr, nil, Config{}).Zipmap(0, words(1), words(2))
	require.ErrorIs(t, err, ErrUnderflow)
}

func TestZipmapDepth(t *testing.T) {
	expr := &Expression{
		Sources:   []Source{Concat(Op(VAL, 0), Op(ZIPMAP, CallSize(0, 0, 1)))},
		Constants: words(1),
	}
	_, err := NewInterpreter(expr, nil, Config{}).Run(0, AnyOutputs)
	require.ErrorIs(t, err, ErrMaxDepth)
}

func TestZipmapSourceOutOfBounds(t *testing.T) {
	expr := &Expression{
		Sources:   []Source{Concat(Op(VAL, 0), Op(ZIPMAP, CallSize(5, 0, 1)))},
		Constants: words(1),
	}
	_, err := NewInterpreter(expr, nil, Config{}).Run(0, AnyOutputs)
	require.ErrorIs(t, err, ErrSourceOutOfBounds)
}
