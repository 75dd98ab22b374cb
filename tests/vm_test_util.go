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

package tests

import (
	"fmt"

	"github.com/420integrated/go-tiervm/core/tier"
	"github.com/420integrated/go-tiervm/core/vm"
	"github.com/420integrated/go-tiervm/internal/tierapi"
	"github.com/davecgh/go-spew/spew"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"
)

// VMTest checks the values one source of an expression leaves, under every
// configuration it names.
type VMTest struct {
	Expression  tierapi.ExpressionArgs  `json:"expression"`
	Environment tierapi.EnvironmentArgs `json:"env"`
	Source      int                     `json:"source"`
	Outputs     *int                    `json:"outputs,omitempty"`

	// Reports are served by tier contract, then account.
	Reports map[common.Address]map[common.Address]common.Hash `json:"reports,omitempty"`

	Post map[string]vmPost `json:"post"`
}

// vmPost is the expectation for one configuration. Error, when set, is the
// message evaluation must fail with and Out is ignored.
type vmPost struct {
	Out   []*hexutil.Big `json:"out"`
	Error string         `json:"error,omitempty"`
}

type staticTiers map[common.Address]map[common.Address]common.Hash

func (s staticTiers) Report(parent *vm.Environment, tierContract, account common.Address, context []*uint256.Int) (tier.Report, error) {
	accounts, ok := s[tierContract]
	if !ok {
		return tier.Report{}, fmt.Errorf("no tier contract %x", tierContract)
	}
	h, ok := accounts[account]
	if !ok {
		return tier.Never, nil
	}
	return tier.ReportFromBytes(h[:]), nil
}

// Run evaluates the vector under the named configuration.
func (t *VMTest) Run(name string) error {
	cfg, ok := Configs[name]
	if !ok {
		return UnsupportedConfigError{name}
	}
	post, ok := t.Post[name]
	if !ok {
		return fmt.Errorf("no expectation for config %q", name)
	}
	expr, err := t.Expression.ToExpression()
	if err != nil {
		return err
	}
	var tiers vm.TierReader
	if t.Reports != nil {
		tiers = staticTiers(t.Reports)
	}
	env, err := t.Environment.ToEnvironment(tiers)
	if err != nil {
		return err
	}
	outputs := vm.AnyOutputs
	if t.Outputs != nil {
		outputs = *t.Outputs
	}
	out, err := vm.NewInterpreter(expr, env, cfg).Run(t.Source, outputs)

	if post.Error != "" {
		if err == nil {
			return fmt.Errorf("expected error %q, got none (out %s)", post.Error, spew.Sdump(out))
		}
		if err.Error() != post.Error {
			return fmt.Errorf("error mismatch: got %q, want %q", err, post.Error)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("got error, expected none: %v", err)
	}
	if len(out) != len(post.Out) {
		return fmt.Errorf("output length mismatch: got %d, want %d\n%s", len(out), len(post.Out), spew.Sdump(out))
	}
	for i, want := range post.Out {
		w, overflow := uint256.FromBig(want.ToInt())
		if overflow || !w.Eq(out[i]) {
			return fmt.Errorf("output %d mismatch: got %s, want %s", i, out[i].Hex(), want)
		}
	}
	return nil
}
