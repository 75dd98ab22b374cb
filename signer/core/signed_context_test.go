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
	"encoding/json"
	"testing"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignedContext(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	context := []*uint256.Int{uint256.NewInt(1), uint256.NewInt(2), uint256.NewInt(3)}
	sc, err := SignContext(key, context)
	require.NoError(t, err)
	require.NoError(t, sc.Verify())

	// v in {0, 1} verifies as well.
	sc.Signature[crypto.RecoveryIDOffset] -= 27
	require.NoError(t, sc.Verify())

	// Any change to the context breaks the signature.
	sc.Context = []*uint256.Int{uint256.NewInt(1), uint256.NewInt(2), uint256.NewInt(4)}
	assert.ErrorIs(t, sc.Verify(), ErrInvalidSignature)
}

func TestSignedContextWrongSigner(t *testing.T) {
	alice, _ := crypto.GenerateKey()
	bob, _ := crypto.GenerateKey()

	sc, err := SignContext(alice, []*uint256.Int{uint256.NewInt(5)})
	require.NoError(t, err)
	sc.Signer = crypto.PubkeyToAddress(bob.PublicKey)
	assert.ErrorIs(t, sc.Verify(), ErrInvalidSignature)

	sc.Signature = sc.Signature[:10]
	assert.ErrorIs(t, sc.Verify(), ErrInvalidSignature)
}

func TestContextHash(t *testing.T) {
	one := uint256.NewInt(1).Bytes32()
	assert.Equal(t, crypto.Keccak256Hash(one[:]), ContextHash([]*uint256.Int{uint256.NewInt(1)}))
	assert.Equal(t, crypto.Keccak256Hash(), ContextHash(nil))

	// Signing the context hash directly as a personal message recovers too.
	key, _ := crypto.GenerateKey()
	hash := ContextHash([]*uint256.Int{uint256.NewInt(7)})
	sig, err := crypto.Sign(accounts.TextHash(hash[:]), key)
	require.NoError(t, err)
	sc := &SignedContext{Signer: crypto.PubkeyToAddress(key.PublicKey), Signature: sig, Context: []*uint256.Int{uint256.NewInt(7)}}
	assert.NoError(t, sc.Verify())
}

func TestSignedContextJSON(t *testing.T) {
	key, _ := crypto.GenerateKey()
	sc, err := SignContext(key, []*uint256.Int{uint256.NewInt(42), new(uint256.Int).SetAllOne()})
	require.NoError(t, err)

	enc, err := json.Marshal(sc)
	require.NoError(t, err)
	var dec SignedContext
	require.NoError(t, json.Unmarshal(enc, &dec))
	assert.Equal(t, sc.Signer, dec.Signer)
	assert.Equal(t, sc.Signature, dec.Signature)
	assert.Equal(t, sc.Context, dec.Context)
	assert.NoError(t, dec.Verify())
}
