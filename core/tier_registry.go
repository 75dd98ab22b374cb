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
	"fmt"
	"sync"

	"github.com/420integrated/go-tiervm/core/tier"
	"github.com/420integrated/go-tiervm/core/vm"
	"github.com/420integrated/go-tiervm/params"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"github.com/holiman/uint256"
)

// BlockContext is the block an operation is executed in.
type BlockContext struct {
	Number uint64
	Time   uint64
}

// env returns the top level environment for a call at this block.
func (b BlockContext) env() *vm.Environment {
	return &vm.Environment{BlockNumber: b.Number, Timestamp: b.Time}
}

// TierProvider is a contract reporting the tiers held by accounts.
type TierProvider interface {
	Report(parent *vm.Environment, account common.Address, context []*uint256.Int) (tier.Report, error)
}

// TierRegistry maps tier contract addresses to their providers. It is the
// vm.TierReader every expression of this process reads reports through.
type TierRegistry struct {
	mu        sync.RWMutex
	providers map[common.Address]TierProvider
}

func NewTierRegistry() *TierRegistry {
	return &TierRegistry{providers: make(map[common.Address]TierProvider)}
}

// Register makes the provider available at address, replacing any provider
// already there.
func (r *TierRegistry) Register(address common.Address, p TierProvider) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.providers[address]; ok {
		log.Warn("Replacing tier provider", "address", address)
	}
	r.providers[address] = p
	log.Debug("Registered tier provider", "address", address, "type", fmt.Sprintf("%T", p))
}

func (r *TierRegistry) Unregister(address common.Address) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.providers, address)
}

// Provider returns the provider registered at address.
func (r *TierRegistry) Provider(address common.Address) (TierProvider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.providers[address]
	return p, ok
}

// Report implements vm.TierReader. A nil parent is a top level read.
func (r *TierRegistry) Report(parent *vm.Environment, tierContract, account common.Address, context []*uint256.Int) (tier.Report, error) {
	if parent == nil {
		parent = new(vm.Environment)
	}
	if parent.Depth+1 > params.MaxTierDepth {
		return tier.Never, vm.ErrMaxDepth
	}
	p, ok := r.Provider(tierContract)
	if !ok {
		return tier.Never, fmt.Errorf("%w: %v", ErrUnknownTierContract, tierContract)
	}
	if parent.Tiers == nil {
		scoped := *parent
		scoped.Tiers = r
		parent = &scoped
	}
	return p.Report(parent, account, context)
}

func addressWord(addr common.Address) *uint256.Int {
	return new(uint256.Int).SetBytes20(addr.Bytes())
}
