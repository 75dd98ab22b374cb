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

package params

import (
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
)

const (
	StackLimit   uint64 = 1024 // Maximum size of the interpreter stack allowed.
	MaxSources   int    = 8    // Sources addressable by a zipmap operand (3 bits).
	MaxTierDepth int    = 16   // Maximum nesting of tier providers evaluating expressions.
	MaxCallDepth int    = 32   // Maximum nesting of zipmap calls within one evaluation.

	TierCount     = 8          // Number of tiers packed into a report, excluding tier zero.
	TierLaneBits  = 32         // Width of a single tier lane in a report.
	NeverLane     = 0xFFFFFFFF // Lane value for a tier that was never reached.
	AlwaysLane    = 0          // Lane value for a tier held since genesis.
	MaxLoopSize   = 3          // Largest zipmap loop size, splitting a word into 8 rows.
	MaxZipmapVals = 8          // Most columns a single zipmap may unpack.

	ReportCacheSize = 1024    // Reports kept in memory per read-write tier.
	ClaimCacheSize  = 4 << 20 // Bytes of claim reports kept in memory per emissions contract.
)

var (
	// FlowSentinel terminates the native, ERC20, ERC721 and ERC1155 transfer
	// lists on a flow stack.
	FlowSentinel = new(uint256.Int).SetBytes(crypto.Keccak256([]byte("RAIN_FLOW_SENTINEL")))

	// RatioOne is the fixed point one of stake share ratios, 18 decimals.
	RatioOne = uint256.NewInt(1e18)

	// FlowERC20Sentinel terminates the mint and burn lists of an ERC20 flow.
	FlowERC20Sentinel = new(uint256.Int).SetBytes(crypto.Keccak256([]byte("RAIN_FLOW_ERC20_SENTINEL")))
)
