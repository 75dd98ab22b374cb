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

	"github.com/420integrated/go-tiervm/core/rawdb"
	"github.com/420integrated/go-tiervm/core/tier"
	"github.com/420integrated/go-tiervm/core/vm"
	"github.com/420integrated/go-tiervm/params"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethdb"
	"github.com/ethereum/go-ethereum/log"
	lru "github.com/hashicorp/golang-lru"
	"github.com/holiman/uint256"
)

// ReadWriteTier is a tier contract whose tiers are set directly. Reports are
// persisted in the database and the most recently used are kept in memory.
type ReadWriteTier struct {
	address common.Address
	db      ethdb.KeyValueStore
	cache   *lru.Cache // account -> tier.Report
	mu      sync.Mutex // serializes SetTier
	log     log.Logger
}

func NewReadWriteTier(address common.Address, db ethdb.KeyValueStore) *ReadWriteTier {
	cache, _ := lru.New(params.ReportCacheSize)
	return &ReadWriteTier{
		address: address,
		db:      db,
		cache:   cache,
		log:     log.New("tier", address),
	}
}

func (t *ReadWriteTier) Address() common.Address {
	return t.address
}

func (t *ReadWriteTier) report(account common.Address) tier.Report {
	if cached, ok := t.cache.Get(account); ok {
		reportCacheHitMeter.Mark(1)
		return cached.(tier.Report)
	}
	reportCacheMissMeter.Mark(1)
	r, _ := rawdb.ReadReport(t.db, t.address, account)
	t.cache.Add(account, r)
	return r
}

// Report implements TierProvider. Accounts never set report Never.
func (t *ReadWriteTier) Report(parent *vm.Environment, account common.Address, context []*uint256.Int) (tier.Report, error) {
	return t.report(account), nil
}

// ReportTimeForTier returns the block at which account reached tier t.
func (t *ReadWriteTier) ReportTimeForTier(account common.Address, tr tier.Tier) uint32 {
	return tier.TierBlock(t.report(account), tr)
}

// SetTier moves account to tier newTier at the given block. The current tier
// is the one held at that block, upgrades record the block for every tier
// gained and downgrades forget the tiers lost.
func (t *ReadWriteTier) SetTier(account common.Address, newTier tier.Tier, block uint64) error {
	if !newTier.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidTier, newTier)
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	r := t.report(account)
	current := tier.TierAtBlock(r, block)
	updated, err := tier.UpdateReportWithTierAtBlock(r, current, newTier, block)
	if err != nil {
		return err
	}
	rawdb.WriteReport(t.db, t.address, account, updated)
	t.cache.Add(account, updated)
	t.log.Debug("Tier set", "account", account, "from", current, "to", newTier, "block", block)
	return nil
}
