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
	"errors"

	"github.com/420integrated/go-tiervm/core/tier"
	"github.com/420integrated/go-tiervm/params"
)

var (
	errEmptySpan    = errors.New("operand must name at least one item")
	errTierRange    = errors.New("tier range reversed or past the highest tier")
	errSelectMode   = errors.New("unknown select mode")
	errZipmapSource = errors.New("zipmap source out of range")
)

func fixedStack(pops, pushes int) stackFunc {
	return func(uint16) (int, int, error) {
		return pops, pushes, nil
	}
}

// naryStack pops the number of items named by the operand and pushes one.
func naryStack(operand uint16) (int, int, error) {
	if operand == 0 {
		return 0, 0, errEmptySpan
	}
	return int(operand), 1, nil
}

// spanStack is naryStack allowing an empty span.
func spanStack(operand uint16) (int, int, error) {
	return int(operand), 1, nil
}

// lteStack pops a threshold followed by the operand's count of reports.
func lteStack(operand uint16) (int, int, error) {
	return int(operand) + 1, 1, nil
}

func selectLteStack(operand uint16) (int, int, error) {
	if tier.Mode(operand>>5&0x03) > tier.ModeFirst {
		return 0, 0, errSelectMode
	}
	return int(operand&0x1f) + 1, 1, nil
}

func tierRangeStack(operand uint16) (int, int, error) {
	start, end := decodeTierRange(operand)
	if start > end || !end.Valid() {
		return 0, 0, errTierRange
	}
	return 2, 1, nil
}

func zipmapStack(operand uint16) (int, int, error) {
	source, _, vals := decodeCallSize(operand)
	if source >= params.MaxSources {
		return 0, 0, errZipmapSource
	}
	return vals, 0, nil
}

// tierV2Stack pops a tier contract, an account and the operand's count of
// context words.
func tierV2Stack(operand uint16) (int, int, error) {
	return int(operand) + 2, 1, nil
}

func decodeTierRange(operand uint16) (start, end tier.Tier) {
	return tier.Tier(operand & 0x0f), tier.Tier(operand >> 4 & 0x0f)
}

func decodeCallSize(operand uint16) (source, loopSize, vals int) {
	return int(operand & 0x07), int(operand >> 3 & 0x03), int(operand>>5&0x07) + 1
}
