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
	"github.com/VictoriaMetrics/fastcache"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/ethdb"
	"github.com/ethereum/go-ethereum/log"
	"github.com/holiman/uint256"
)

// ClaimSource is the source of an emissions expression computing the amount
// an account may claim.
const ClaimSource = 0

// EmissionsConfig is the immutable configuration of an emissions contract.
type EmissionsConfig struct {
	// AllowDelegatedClaims lets any caller claim on behalf of an account.
	// Minted tokens always go to the account.
	AllowDelegatedClaims bool

	Expression              *vm.Expression
	ConstructionBlockNumber uint64
}

// Emissions mints tokens to accounts according to an expression. It is also
// a tier contract: the report of an account holds the block of its last
// claim in every lane, Never if it never claimed.
type Emissions struct {
	address  common.Address
	config   EmissionsConfig
	db       ethdb.KeyValueStore
	registry *TierRegistry
	minter   Minter
	vmConfig vm.Config
	cleans   *fastcache.Cache // claim reports by account

	mu  sync.Mutex // serializes claims
	log log.Logger
}

// NewEmissions creates an emissions contract at address, stores its
// expression and registers it as a tier provider.
func NewEmissions(address common.Address, config EmissionsConfig, db ethdb.KeyValueStore, registry *TierRegistry, minter Minter, vmConfig vm.Config) (*Emissions, error) {
	if config.Expression == nil || len(config.Expression.Sources) <= ClaimSource {
		return nil, fmt.Errorf("%w: emissions needs a claim source", ErrMissingSources)
	}
	e := &Emissions{
		address:  address,
		config:   config,
		db:       db,
		registry: registry,
		minter:   minter,
		vmConfig: vmConfig,
		cleans:   fastcache.New(params.ClaimCacheSize),
		log:      log.New("emissions", address),
	}
	rawdb.WriteExpression(db, address, config.Expression)
	registry.Register(address, e)
	return e, nil
}

func (e *Emissions) Address() common.Address {
	return e.address
}

// Report implements TierProvider.
func (e *Emissions) Report(parent *vm.Environment, account common.Address, context []*uint256.Int) (tier.Report, error) {
	if blob, found := e.cleans.HasGet(nil, account.Bytes()); found {
		reportCacheHitMeter.Mark(1)
		return tier.ReportFromBytes(blob), nil
	}
	reportCacheMissMeter.Mark(1)
	r, _ := rawdb.ReadReport(e.db, e.address, account)
	b := r.Bytes32()
	e.cleans.Set(account.Bytes(), b[:])
	return r, nil
}

// CalculateClaim evaluates the claim source for account at the given block.
func (e *Emissions) CalculateClaim(account common.Address, blk BlockContext) (*uint256.Int, error) {
	return e.calculateClaim(account, account, blk)
}

func (e *Emissions) calculateClaim(caller, account common.Address, blk BlockContext) (*uint256.Int, error) {
	env := blk.env()
	env.This = e.address
	env.Caller = caller
	env.Account = account
	env.ConstructionBlockNumber = e.config.ConstructionBlockNumber
	env.Tiers = e.registry

	out, err := vm.NewInterpreter(e.config.Expression, env, e.vmConfig).Run(ClaimSource, 1)
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

// Claim mints the claimable amount to account and records the claim block.
// Nothing is recorded if the evaluation or the mint fails.
func (e *Emissions) Claim(caller, account common.Address, blk BlockContext, data []byte) (*uint256.Int, error) {
	if caller != account && !e.config.AllowDelegatedClaims {
		claimFailMeter.Mark(1)
		return nil, ErrDelegatedClaim
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	amount, err := e.calculateClaim(caller, account, blk)
	if err != nil {
		claimFailMeter.Mark(1)
		return nil, err
	}
	report, err := tier.UpdateBlocksForTierRange(tier.Never, tier.Zero, tier.Eight, blk.Number)
	if err != nil {
		return nil, err
	}
	if err := e.minter.Mint(account, amount); err != nil {
		claimFailMeter.Mark(1)
		return nil, err
	}
	rawdb.WriteReport(e.db, e.address, account, report)
	b := report.Bytes32()
	e.cleans.Set(account.Bytes(), b[:])
	claimMeter.Mark(1)
	e.log.Info("Claimed emissions", "caller", caller, "account", account, "amount", amount, "block", blk.Number, "data", hexutil.Bytes(data))
	return amount, nil
}
