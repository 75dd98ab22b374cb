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
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// Minter credits newly issued tokens to an account.
type Minter interface {
	Mint(account common.Address, amount *uint256.Int) error
}

// Supply tracks the balances minted by a contract. The zero value is not
// usable, create one with NewSupply.
type Supply struct {
	mu       sync.RWMutex
	total    uint256.Int
	balances map[common.Address]*uint256.Int
}

func NewSupply() *Supply {
	return &Supply{balances: make(map[common.Address]*uint256.Int)}
}

// Mint credits amount to account. The supply is left untouched if the total
// would overflow.
func (s *Supply) Mint(account common.Address, amount *uint256.Int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var total uint256.Int
	if _, overflow := total.AddOverflow(&s.total, amount); overflow {
		return ErrSupplyOverflow
	}
	s.total = total
	bal, ok := s.balances[account]
	if !ok {
		bal = new(uint256.Int)
		s.balances[account] = bal
	}
	// A balance never exceeds the total, so this cannot overflow.
	bal.Add(bal, amount)
	return nil
}

// Burn debits amount from account.
func (s *Supply) Burn(account common.Address, amount *uint256.Int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	bal, ok := s.balances[account]
	if !ok || bal.Lt(amount) {
		return ErrInsufficientBalance
	}
	bal.Sub(bal, amount)
	s.total.Sub(&s.total, amount)
	if bal.IsZero() {
		delete(s.balances, account)
	}
	return nil
}

// BalanceOf returns the amount held by account.
func (s *Supply) BalanceOf(account common.Address) *uint256.Int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if bal, ok := s.balances[account]; ok {
		return new(uint256.Int).Set(bal)
	}
	return new(uint256.Int)
}

// TotalSupply returns the amount held by all accounts.
func (s *Supply) TotalSupply() *uint256.Int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return new(uint256.Int).Set(&s.total)
}

func (s *Supply) String() string {
	return s.TotalSupply().Dec()
}
