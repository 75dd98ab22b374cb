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

package core

import "errors"

var (
	// ErrUnknownTierContract is returned when a report is requested from an
	// address no tier provider is registered at.
	ErrUnknownTierContract = errors.New("unknown tier contract")

	// ErrNotTierContract is returned when a combine tier is created with a
	// combined tier constant that does not address a registered provider.
	ErrNotTierContract = errors.New("not a tier contract")

	// ErrInvalidTier is returned when setting a tier above EIGHT.
	ErrInvalidTier = errors.New("invalid tier")

	// ErrMissingSources is returned when an expression lacks a source its
	// contract evaluates.
	ErrMissingSources = errors.New("expression is missing sources")

	// ErrDelegatedClaim is returned when claiming for another account on an
	// emissions contract that does not allow it.
	ErrDelegatedClaim = errors.New("delegated claims not allowed")

	// ErrSupplyOverflow is returned when a mint would push the total supply
	// above 2^256-1.
	ErrSupplyOverflow = errors.New("total supply overflow")

	// ErrInsufficientBalance is returned when burning more than an account
	// holds.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrZeroToken is returned when creating a stake without an asset.
	ErrZeroToken = errors.New("0_TOKEN")

	// ErrZeroRatio is returned when creating a stake with an initial share
	// ratio of zero.
	ErrZeroRatio = errors.New("0_RATIO")

	// ErrZeroAmount is returned when depositing or withdrawing nothing.
	ErrZeroAmount = errors.New("0_AMOUNT")

	// ErrDepositOrder is returned when a stake operation is dated before the
	// latest deposit record of the account.
	ErrDepositOrder = errors.New("stake operation before latest deposit")

	ErrUnknownFlow = errors.New("unknown flow")

	// ErrBadSigner is returned when the signer of a signed context is
	// rejected by the flow's signer source.
	ErrBadSigner = errors.New("bad signer")

	// ErrCantFlow is returned when the flow's guard source evaluates to zero.
	ErrCantFlow = errors.New("cant flow")

	// ErrMissingSentinel is returned when a flow stack ends before the
	// sentinel terminating one of its transfer lists.
	ErrMissingSentinel = errors.New("missing flow sentinel")

	// ErrFlowTupleSize is returned when a transfer list does not divide into
	// whole entries.
	ErrFlowTupleSize = errors.New("flow list is not a whole number of entries")

	// ErrUnsupportedFlow is returned when a transfer moves tokens from an
	// address other than the caller or the flow contract.
	ErrUnsupportedFlow = errors.New("unsupported flow")
)
