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

package tier

import (
	"errors"
	"testing"

	"github.com/420integrated/go-tiervm/params"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const never = params.NeverLane

func TestDiff(t *testing.T) {
	a := ReportFromLanes([params.TierCount]uint32{10, 10, 10, 10, 10, 10, 10, 10})
	b := ReportFromLanes([params.TierCount]uint32{5, 6, 7, 8, never, never, never, never})
	assert.Equal(t, [params.TierCount]uint32{5, 4, 3, 2, 0, 0, 0, 0}, Diff(a, b).Lanes())

	for _, r := range []Report{Always, Never, a, b} {
		assert.Equal(t, Always, Diff(r, r))
		assert.Equal(t, Always, Diff(Always, r))
	}
}

func TestSelectLteEmpty(t *testing.T) {
	for _, logic := range []Logic{LogicEvery, LogicAny} {
		for _, mode := range []Mode{ModeMin, ModeMax, ModeFirst} {
			r, err := SelectLte(nil, uint256.NewInt(100), logic, mode)
			require.NoError(t, err)
			assert.Equal(t, Never, r, "%v %v", logic, mode)
		}
	}
}

func TestSelectLteAlwaysNever(t *testing.T) {
	thresholds := []*uint256.Int{
		uint256.NewInt(0),
		uint256.NewInt(1000),
		uint256.NewInt(never),
		new(uint256.Int).SetAllOne(),
	}
	for _, threshold := range thresholds {
		r, err := SelectLte([]Report{Always, Never}, threshold, LogicAny, ModeMax)
		require.NoError(t, err)
		assert.Equal(t, Always, r, "threshold %v", threshold)

		r, err = SelectLte([]Report{Always, Never}, threshold, LogicAny, ModeMin)
		require.NoError(t, err)
		assert.Equal(t, Always, r, "threshold %v", threshold)

		r, err = SelectLte([]Report{Always, Never}, threshold, LogicEvery, ModeMin)
		require.NoError(t, err)
		assert.Equal(t, Never, r, "threshold %v", threshold)
	}
}

// Two read-write tiers set alternately, combined with any/min as in the
// tierwise combine suite.
func TestSelectLteAnyMinInterleaved(t *testing.T) {
	const s = 1000
	right := ReportFromLanes([params.TierCount]uint32{s + 1, s + 2, s + 3, s + 10, s + 11, s + 12, s + 13, s + 13})
	left := ReportFromLanes([params.TierCount]uint32{s + 4, s + 5, s + 6, s + 7, s + 8, s + 9, never, never})

	r, err := SelectLte([]Report{left, right}, uint256.NewInt(s+20), LogicAny, ModeMin)
	require.NoError(t, err)
	assert.Equal(t, [params.TierCount]uint32{s + 1, s + 2, s + 3, s + 7, s + 8, s + 9, s + 13, s + 13}, r.Lanes())
}

func TestSelectLteModes(t *testing.T) {
	a := ReportFromLanes([params.TierCount]uint32{5, 50, never, 1, 9, 9, 0, 200})
	b := ReportFromLanes([params.TierCount]uint32{3, 60, 7, never, 9, 100, 0, 2})
	threshold := uint256.NewInt(99)

	tests := []struct {
		logic Logic
		mode  Mode
		want  [params.TierCount]uint32
	}{
		{LogicAny, ModeMin, [params.TierCount]uint32{3, 50, 7, 1, 9, 9, 0, 2}},
		{LogicAny, ModeMax, [params.TierCount]uint32{5, 60, 7, 1, 9, 9, 0, 2}},
		{LogicAny, ModeFirst, [params.TierCount]uint32{5, 50, 7, 1, 9, 9, 0, 2}},
		{LogicEvery, ModeMin, [params.TierCount]uint32{3, 50, never, never, 9, never, 0, never}},
		{LogicEvery, ModeMax, [params.TierCount]uint32{5, 60, never, never, 9, never, 0, never}},
		{LogicEvery, ModeFirst, [params.TierCount]uint32{5, 50, never, never, 9, never, 0, never}},
	}
	for _, tt := range tests {
		r, err := SelectLte([]Report{a, b}, threshold, tt.logic, tt.mode)
		require.NoError(t, err)
		assert.Equal(t, tt.want, r.Lanes(), "%v %v", tt.logic, tt.mode)
	}
}

func TestSelectLteInvalid(t *testing.T) {
	_, err := SelectLte([]Report{Always}, uint256.NewInt(1), Logic(2), ModeMin)
	assert.True(t, errors.Is(err, ErrInvalidLogic))
	_, err = SelectLte([]Report{Always}, uint256.NewInt(1), LogicAny, Mode(3))
	assert.True(t, errors.Is(err, ErrInvalidMode))
}
