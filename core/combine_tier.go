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

	"github.com/420integrated/go-tiervm/core/tier"
	"github.com/420integrated/go-tiervm/core/vm"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// Sources of a combine tier expression.
const (
	CombineReportSource            = 0
	CombineReportTimeForTierSource = 1
)

// CombineTier is a tier contract whose reports are computed by an expression,
// typically from the reports of other tier contracts.
//
// Its sources see context column 0 as [account] for reports and
// [account, tier] for report times, column 1 is the caller supplied context.
type CombineTier struct {
	address  common.Address
	expr     *vm.Expression
	registry *TierRegistry
	vmConfig vm.Config
}

// CombineTierConfig is the deployment configuration of a combine tier.
type CombineTierConfig struct {
	// CombinedTiers is the number of leading constants that must address
	// tier contracts already registered when the combine tier is created.
	CombinedTiers int
	Expression    *vm.Expression
}

// NewCombineTier creates a combine tier and registers it at address.
func NewCombineTier(address common.Address, config CombineTierConfig, registry *TierRegistry, vmConfig vm.Config) (*CombineTier, error) {
	expr := config.Expression
	if len(expr.Sources) <= CombineReportTimeForTierSource {
		return nil, fmt.Errorf("%w: combine tier needs 2, have %d", ErrMissingSources, len(expr.Sources))
	}
	if err := checkCombinedTiers(expr.Constants, config.CombinedTiers, registry); err != nil {
		return nil, err
	}
	c := &CombineTier{
		address:  address,
		expr:     expr,
		registry: registry,
		vmConfig: vmConfig,
	}
	registry.Register(address, c)
	return c, nil
}

// checkCombinedTiers verifies that the first n constants are addresses of
// registered tier providers.
func checkCombinedTiers(constants []*uint256.Int, n int, registry *TierRegistry) error {
	if n < 0 || n > len(constants) {
		return fmt.Errorf("%w: %d combined tiers, %d constants", ErrNotTierContract, n, len(constants))
	}
	for i, c := range constants[:n] {
		if c == nil || c.BitLen() > common.AddressLength*8 {
			return fmt.Errorf("%w: constant %d is not an address", ErrNotTierContract, i)
		}
		address := common.Address(c.Bytes20())
		if _, ok := registry.Provider(address); !ok {
			return fmt.Errorf("%w: constant %d (%v)", ErrNotTierContract, i, address)
		}
	}
	return nil
}

func (c *CombineTier) Address() common.Address {
	return c.address
}

func (c *CombineTier) run(parent *vm.Environment, source int, column0, context []*uint256.Int) (*uint256.Int, error) {
	env := parent.Nested(c.address)
	env.Tiers = c.registry
	env.Account = common.Address(column0[0].Bytes20())
	env.Context = [][]*uint256.Int{column0, context}

	out, err := vm.NewInterpreter(c.expr, env, c.vmConfig).Run(source, 1)
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

// Report implements TierProvider.
func (c *CombineTier) Report(parent *vm.Environment, account common.Address, context []*uint256.Int) (tier.Report, error) {
	out, err := c.run(parent, CombineReportSource, []*uint256.Int{addressWord(account)}, context)
	if err != nil {
		return tier.Never, err
	}
	return tier.ReportFromWord(out), nil
}

// ReportTimeForTier evaluates the report time source for account and tier t.
func (c *CombineTier) ReportTimeForTier(parent *vm.Environment, account common.Address, t tier.Tier, context []*uint256.Int) (*uint256.Int, error) {
	return c.run(parent, CombineReportTimeForTierSource, []*uint256.Int{addressWord(account), uint256.NewInt(uint64(t))}, context)
}
