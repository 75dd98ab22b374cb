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

// Package tier implements the packed tier report: eight 32 bit lanes in a
// single 256 bit word, lane i holding the block at which tier i+1 was
// reached.
package tier

import (
	"errors"
	"fmt"
	"strings"

	"github.com/420integrated/go-tiervm/params"
	"github.com/holiman/uint256"
)

// ErrInvalidTierRange is returned when a tier range is reversed or reaches
// past the highest tier.
var ErrInvalidTierRange = errors.New("invalid tier range")

// Tier is one of the ordered qualification levels. Zero is held by every
// account and has no lane in a report.
type Tier uint8

const (
	Zero Tier = iota
	One
	Two
	Three
	Four
	Five
	Six
	Seven
	Eight
)

var tierNames = [...]string{"ZERO", "ONE", "TWO", "THREE", "FOUR", "FIVE", "SIX", "SEVEN", "EIGHT"}

// Valid reports whether t is within Zero..Eight.
func (t Tier) Valid() bool { return int(t) <= params.TierCount }

func (t Tier) String() string {
	if !t.Valid() {
		return fmt.Sprintf("Tier(%d)", uint8(t))
	}
	return tierNames[t]
}

// Report is a tier report. It shares the limb layout of uint256.Int, so
// converting between the two is free and reports compare with ==.
type Report uint256.Int

var (
	// Always is the report of an account that has held every tier since
	// block zero.
	Always = Report{}

	// Never is the report of an account that never reached any tier.
	Never = Report{^uint64(0), ^uint64(0), ^uint64(0), ^uint64(0)}
)

// ReportFromWord reinterprets a stack word as a report.
func ReportFromWord(w *uint256.Int) Report {
	return Report(*w)
}

// ReportFromBytes decodes a big endian encoded report. Inputs longer than 32
// bytes keep their low 32 bytes.
func ReportFromBytes(b []byte) Report {
	var w uint256.Int
	if len(b) > 32 {
		b = b[len(b)-32:]
	}
	w.SetBytes(b)
	return Report(w)
}

// ReportFromLanes packs lanes, lane 0 being tier one.
func ReportFromLanes(lanes [params.TierCount]uint32) Report {
	var r Report
	for i, v := range lanes {
		r = r.SetLane(i, v)
	}
	return r
}

// Word returns the report as a fresh stack word.
func (r Report) Word() *uint256.Int {
	w := uint256.Int(r)
	return &w
}

// Bytes32 returns the 32 byte big endian encoding of the report, the layout
// external readers slice lanes out of.
func (r Report) Bytes32() [32]byte {
	w := uint256.Int(r)
	return w.Bytes32()
}

// Lane returns the 32 bit value of lane i.
func (r Report) Lane(i int) uint32 {
	return uint32(r[i/2] >> (params.TierLaneBits * uint(i%2)))
}

// SetLane returns a copy of r with lane i replaced by v.
func (r Report) SetLane(i int, v uint32) Report {
	shift := params.TierLaneBits * uint(i%2)
	r[i/2] = r[i/2]&^(uint64(params.NeverLane)<<shift) | uint64(v)<<shift
	return r
}

// Lanes unpacks all eight lanes.
func (r Report) Lanes() [params.TierCount]uint32 {
	var lanes [params.TierCount]uint32
	for i := range lanes {
		lanes[i] = r.Lane(i)
	}
	return lanes
}

// String renders the report as hex, highest tier first.
func (r Report) String() string {
	var sb strings.Builder
	sb.WriteString("0x")
	for i := params.TierCount - 1; i >= 0; i-- {
		fmt.Fprintf(&sb, "%08x", r.Lane(i))
	}
	return sb.String()
}

// TierBlock returns the block at which t was reached. Tier zero is always
// held.
func TierBlock(r Report, t Tier) uint32 {
	if t == Zero {
		return params.AlwaysLane
	}
	return r.Lane(int(t) - 1)
}

// TierAtBlock returns the highest tier held at the given block. Tiers are
// contiguous: the first lane not yet reached caps the result.
func TierAtBlock(r Report, block uint64) Tier {
	for i := 0; i < params.TierCount; i++ {
		lane := r.Lane(i)
		if lane == params.NeverLane || uint64(lane) > block {
			return Tier(i)
		}
	}
	return Eight
}

// TruncateTiersAbove resets every tier above t to never.
func TruncateTiersAbove(r Report, t Tier) Report {
	for i := int(t); i < params.TierCount; i++ {
		r = r.SetLane(i, params.NeverLane)
	}
	return r
}

// UpdateBlocksForTierRange sets the lanes of tiers start+1 through end to
// block, leaving all other lanes untouched. Blocks that do not fit a lane
// saturate at the never value.
func UpdateBlocksForTierRange(r Report, start, end Tier, block uint64) (Report, error) {
	if start > end || !end.Valid() {
		return r, fmt.Errorf("%w: %v..%v", ErrInvalidTierRange, start, end)
	}
	lane := clampLane(block)
	for i := int(start); i < int(end); i++ {
		r = r.SetLane(i, lane)
	}
	return r, nil
}

// UpdateReportWithTierAtBlock moves an account from tier start to tier end
// at the given block. Upgrades record the block for every newly reached tier,
// downgrades forget every tier above end. An unchanged tier leaves the report
// as it is.
func UpdateReportWithTierAtBlock(r Report, start, end Tier, block uint64) (Report, error) {
	if !start.Valid() || !end.Valid() {
		return r, fmt.Errorf("%w: %v..%v", ErrInvalidTierRange, start, end)
	}
	switch {
	case start < end:
		return UpdateBlocksForTierRange(r, start, end, block)
	case end < start:
		return TruncateTiersAbove(r, end), nil
	}
	return r, nil
}

func clampLane(block uint64) uint32 {
	if block >= params.NeverLane {
		return params.NeverLane
	}
	return uint32(block)
}
