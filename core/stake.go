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
	"sort"
	"sync"

	"github.com/420integrated/go-tiervm/core/rawdb"
	"github.com/420integrated/go-tiervm/core/tier"
	"github.com/420integrated/go-tiervm/core/vm"
	"github.com/420integrated/go-tiervm/params"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethdb"
	"github.com/ethereum/go-ethereum/log"
	"github.com/holiman/uint256"
)

// StakeConfig is the immutable configuration of a stake contract.
type StakeConfig struct {
	Name   string
	Symbol string

	// Token is the asset deposited into the stake.
	Token common.Address

	// InitialRatio is the number of shares minted per deposited token while
	// no shares exist, as an 18 decimal fixed point number.
	InitialRatio *uint256.Int
}

// Stake is a tier contract backed by deposits of a token. Depositors are
// issued shares of the pool and the report of an account is built from its
// deposit history against thresholds supplied by the caller.
//
// Token transfers happen outside the stake, it only keeps the books.
type Stake struct {
	address common.Address
	config  StakeConfig
	db      ethdb.KeyValueStore
	shares  *Supply

	mu   sync.Mutex // guards pool and the deposit records
	pool uint256.Int
	log  log.Logger
}

// NewStake creates a stake contract and registers it at address.
func NewStake(address common.Address, config StakeConfig, db ethdb.KeyValueStore, registry *TierRegistry) (*Stake, error) {
	if config.Token == (common.Address{}) {
		return nil, ErrZeroToken
	}
	if config.InitialRatio == nil || config.InitialRatio.IsZero() {
		return nil, ErrZeroRatio
	}
	s := &Stake{
		address: address,
		config:  config,
		db:      db,
		shares:  NewSupply(),
		log:     log.New("stake", address),
	}
	registry.Register(address, s)
	s.log.Info("Initialized stake", "name", config.Name, "symbol", config.Symbol, "token", config.Token, "ratio", config.InitialRatio)
	return s, nil
}

func (s *Stake) Address() common.Address {
	return s.address
}

func (s *Stake) Config() StakeConfig {
	return s.config
}

// Shares returns the share balances of the stake.
func (s *Stake) Shares() *Supply {
	return s.shares
}

// PoolSize returns the amount of token held by the stake.
func (s *Stake) PoolSize() *uint256.Int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return new(uint256.Int).Set(&s.pool)
}

// Deposit adds amount of token to the pool for account at the given block and
// returns the shares minted for it.
func (s *Stake) Deposit(account common.Address, amount *uint256.Int, block uint64) (*uint256.Int, error) {
	if amount.IsZero() {
		return nil, ErrZeroAmount
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	records := rawdb.ReadDepositRecords(s.db, s.address, account)
	if n := len(records); n > 0 && records[n-1].Block > block {
		return nil, fmt.Errorf("%w: block %d, latest %d", ErrDepositOrder, block, records[n-1].Block)
	}
	var (
		minted   *uint256.Int
		overflow bool
		total    = s.shares.TotalSupply()
	)
	if total.IsZero() || s.pool.IsZero() {
		minted, overflow = new(uint256.Int).MulDivOverflow(amount, s.config.InitialRatio, params.RatioOne)
	} else {
		minted, overflow = new(uint256.Int).MulDivOverflow(total, amount, &s.pool)
	}
	if overflow {
		return nil, ErrSupplyOverflow
	}
	if minted.IsZero() {
		return nil, fmt.Errorf("%w: deposit of %v mints no shares", ErrZeroAmount, amount)
	}
	var pool uint256.Int
	if _, overflow := pool.AddOverflow(&s.pool, amount); overflow {
		return nil, ErrSupplyOverflow
	}
	if err := s.shares.Mint(account, minted); err != nil {
		return nil, err
	}
	s.pool = pool

	staked := new(uint256.Int).Set(amount)
	if n := len(records); n > 0 {
		// Cannot overflow, a record never exceeds the pool.
		staked.Add(staked, records[n-1].Amount)
		if records[n-1].Block == block {
			records = records[:n-1]
		}
	}
	records = append(records, rawdb.DepositRecord{Block: block, Amount: staked})
	rawdb.WriteDepositRecords(s.db, s.address, account, records)

	stakeDepositMeter.Mark(1)
	s.log.Debug("Deposited", "account", account, "amount", amount, "shares", minted, "block", block)
	return minted, nil
}

// Withdraw burns shares of account at the given block and returns the amount
// of token they were worth. Deposit records above the remaining stake are
// forgotten.
func (s *Stake) Withdraw(account common.Address, shares *uint256.Int, block uint64) (*uint256.Int, error) {
	if shares.IsZero() {
		return nil, ErrZeroAmount
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	records := rawdb.ReadDepositRecords(s.db, s.address, account)
	if n := len(records); n > 0 && records[n-1].Block > block {
		return nil, fmt.Errorf("%w: block %d, latest %d", ErrDepositOrder, block, records[n-1].Block)
	}
	total := s.shares.TotalSupply()
	if total.Lt(shares) {
		return nil, ErrInsufficientBalance
	}
	amount, _ := new(uint256.Int).MulDivOverflow(shares, &s.pool, total)
	if err := s.shares.Burn(account, shares); err != nil {
		return nil, err
	}
	s.pool.Sub(&s.pool, amount)

	remaining := new(uint256.Int)
	if n := len(records); n > 0 && records[n-1].Amount.Gt(amount) {
		remaining.Sub(records[n-1].Amount, amount)
	}
	for len(records) > 0 && records[len(records)-1].Amount.Gt(remaining) {
		records = records[:len(records)-1]
	}
	if !remaining.IsZero() && (len(records) == 0 || records[len(records)-1].Amount.Lt(remaining)) {
		records = append(records, rawdb.DepositRecord{Block: block, Amount: remaining})
	}
	rawdb.WriteDepositRecords(s.db, s.address, account, records)

	stakeWithdrawMeter.Mark(1)
	s.log.Debug("Withdrew", "account", account, "shares", shares, "amount", amount, "block", block)
	return amount, nil
}

// Report implements TierProvider. The context holds the stake thresholds of
// tiers ONE and up: each lane holds the block since which account has had at
// least that threshold staked. Lanes without a threshold are Never.
func (s *Stake) Report(parent *vm.Environment, account common.Address, context []*uint256.Int) (tier.Report, error) {
	s.mu.Lock()
	records := rawdb.ReadDepositRecords(s.db, s.address, account)
	s.mu.Unlock()

	if len(context) > params.TierCount {
		context = context[:params.TierCount]
	}
	r := tier.Never
	for i, threshold := range context {
		j := sort.Search(len(records), func(j int) bool {
			return !records[j].Amount.Lt(threshold)
		})
		if j == len(records) {
			break
		}
		// Cannot fail, the range is a single valid tier.
		r, _ = tier.UpdateBlocksForTierRange(r, tier.Tier(i), tier.Tier(i+1), records[j].Block)
	}
	return r, nil
}

// ReportTimeForTier returns the block since which account has staked the
// threshold of tier t, Never if it has not. Tier zero is always held.
func (s *Stake) ReportTimeForTier(account common.Address, t tier.Tier, context []*uint256.Int) (uint32, error) {
	if !t.Valid() {
		return params.NeverLane, fmt.Errorf("%w: %d", ErrInvalidTier, t)
	}
	r, err := s.Report(nil, account, context)
	if err != nil {
		return params.NeverLane, err
	}
	return tier.TierBlock(r, t), nil
}
