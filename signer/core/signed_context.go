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

import (
	"crypto/ecdsa"
	"errors"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
)

var (
	// ErrInvalidSignature is returned when a signature is malformed or was
	// not made by the claimed signer.
	ErrInvalidSignature = errors.New("invalid signature")
)

// SignedContext is a list of words a signer vouches for, passed alongside a
// flow so the expression can read them as context.
type SignedContext struct {
	Signer    common.Address `json:"signer"`
	Signature hexutil.Bytes  `json:"signature"`
	Context   []*uint256.Int `json:"context"`
}

// ContextHash is the keccak256 of the context words packed as 32 byte big
// endian values.
func ContextHash(context []*uint256.Int) common.Hash {
	buf := make([]byte, 0, 32*len(context))
	for _, w := range context {
		var b [32]byte
		if w != nil {
			b = w.Bytes32()
		}
		buf = append(buf, b[:]...)
	}
	return crypto.Keccak256Hash(buf)
}

// Hash returns the context hash the signature commits to.
func (sc *SignedContext) Hash() common.Hash {
	return ContextHash(sc.Context)
}

// Recover returns the address that signed the context hash as a personal
// message.
func (sc *SignedContext) Recover() (common.Address, error) {
	if len(sc.Signature) != crypto.SignatureLength {
		return common.Address{}, ErrInvalidSignature
	}
	sig := make([]byte, crypto.SignatureLength)
	copy(sig, sc.Signature)
	if sig[crypto.RecoveryIDOffset] >= 27 {
		sig[crypto.RecoveryIDOffset] -= 27
	}
	hash := sc.Hash()
	pub, err := crypto.SigToPub(accounts.TextHash(hash[:]), sig)
	if err != nil {
		return common.Address{}, ErrInvalidSignature
	}
	return crypto.PubkeyToAddress(*pub), nil
}

// Verify checks that the signature was made by Signer.
func (sc *SignedContext) Verify() error {
	signer, err := sc.Recover()
	if err != nil {
		return err
	}
	if signer != sc.Signer {
		return ErrInvalidSignature
	}
	return nil
}

// SignContext signs the context with the given key the way a wallet signs
// a personal message, with v in {27, 28}.
func SignContext(key *ecdsa.PrivateKey, context []*uint256.Int) (*SignedContext, error) {
	hash := ContextHash(context)
	sig, err := crypto.Sign(accounts.TextHash(hash[:]), key)
	if err != nil {
		return nil, err
	}
	sig[crypto.RecoveryIDOffset] += 27
	return &SignedContext{
		Signer:    crypto.PubkeyToAddress(key.PublicKey),
		Signature: sig,
		Context:   context,
	}, nil
}
