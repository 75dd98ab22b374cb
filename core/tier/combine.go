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
	"fmt"

	"github.com/420integrated/go-tiervm/params"
	"github.com/holiman/uint256"
)

// Logic decides whether one or all reports must qualify for a lane.
type Logic uint8

const (
	LogicEvery Logic = iota
	LogicAny
)

func (l Logic) String() string {
	switch l {
	case LogicEvery:
		return "every"
	case LogicAny:
		return "any"
	}
	return fmt.Sprintf("Logic(%d)", uint8(l))
}

// Mode picks one block among the qualifying reports of a lane.
type Mode uint8

const (
	ModeMin Mode = iota
	ModeMax
	ModeFirst
)

func (m Mode) String() string {
	switch m {
	case ModeMin:
		return "min"
	case ModeMax:
		return "max"
	case ModeFirst:
		return "first"
	}
	return fmt.Sprintf("Mode(%d)", uint8(m))
}

var (
	ErrInvalidLogic = errors.New("invalid select logic")
	ErrInvalidMode  = errors.New("invalid select mode")
)

// Diff subtracts b from a lane by lane, saturating at zero. With a as the
// current block broadcast to every lane and b a tier report, the result
// holds the blocks elapsed since each tier was reached.
func Diff(a, b Report) Report {
	var out Report
	for i := 0; i < params.TierCount; i++ {
		x, y := a.Lane(i), b.Lane(i)
		if x > y {
			out = out.SetLane(i, x-y)
		}
	}
	return out
}

// SelectLte combines reports lane by lane. A lane value qualifies when the
// tier was reached at or before threshold. With LogicEvery a single
// unqualified report makes the lane never, with LogicAny one qualified report
// is enough. Among the qualified values mode picks the smallest, the largest
// or the one from the lowest indexed report.
func SelectLte(reports []Report, threshold *uint256.Int, logic Logic, mode Mode) (Report, error) {
	if logic > LogicAny {
		return Never, fmt.Errorf("%w: %d", ErrInvalidLogic, logic)
	}
	if mode > ModeFirst {
		return Never, fmt.Errorf("%w: %d", ErrInvalidMode, mode)
	}
	var limit uint64 = params.NeverLane
	if threshold.IsUint64() && threshold.Uint64() < limit {
		limit = threshold.Uint64()
	}
	out := Never
	for i := 0; i < params.TierCount; i++ {
		var (
			acc uint32
			hit bool
		)
		if mode == ModeMin {
			acc = params.NeverLane
		}
		for _, r := range reports {
			v := r.Lane(i)
			if v == params.NeverLane || uint64(v) > limit {
				if logic == LogicEvery {
					hit = false
					break
				}
				continue
			}
			switch mode {
			case ModeMin:
				if v < acc {
					acc = v
				}
			case ModeMax:
				if v > acc {
					acc = v
				}
			case ModeFirst:
				if !hit {
					acc = v
				}
			}
			hit = true
		}
		if hit {
			out = out.SetLane(i, acc)
		}
	}
	return out, nil
}
