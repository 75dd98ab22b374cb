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

// Package tierapi implements the tiervm JSON-RPC namespace.
package tierapi

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/420integrated/go-tiervm/core"
	"github.com/420integrated/go-tiervm/core/rawdb"
	"github.com/420integrated/go-tiervm/core/vm"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/ethdb"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/holiman/uint256"
)

var (
	errWordRange       = errors.New("word out of 256 bit range")
	errUnknownContract = errors.New("no emissions contract at address")
	errNoExpression    = errors.New("no expression stored at address")
)

// Backend is the state the API is served from.
type Backend struct {
	DB       ethdb.KeyValueStore
	Registry *core.TierRegistry
	VMConfig vm.Config
}

// APIs returns the collection of RPC services the backend offers.
func APIs(b *Backend) []rpc.API {
	return []rpc.API{
		{
			Namespace: "tiervm",
			Service:   NewPublicTierVMAPI(b),
		},
	}
}

// ExpressionArgs is the JSON form of an expression.
type ExpressionArgs struct {
	Sources   []hexutil.Bytes `json:"sources"`
	Constants []*hexutil.Big  `json:"constants"`
	Arguments []*hexutil.Big  `json:"arguments,omitempty"`
}

// EnvironmentArgs is the JSON form of the facts an expression evaluates
// against.
type EnvironmentArgs struct {
	BlockNumber             hexutil.Uint64   `json:"blockNumber"`
	Timestamp               hexutil.Uint64   `json:"timestamp"`
	This                    common.Address   `json:"this"`
	Caller                  common.Address   `json:"caller"`
	Account                 common.Address   `json:"account"`
	ConstructionBlockNumber hexutil.Uint64   `json:"constructionBlockNumber"`
	Context                 [][]*hexutil.Big `json:"context,omitempty"`
}

func toWord(b *hexutil.Big) (*uint256.Int, error) {
	if b == nil {
		return new(uint256.Int), nil
	}
	if (*big.Int)(b).Sign() < 0 {
		return nil, errWordRange
	}
	w, overflow := uint256.FromBig((*big.Int)(b))
	if overflow {
		return nil, errWordRange
	}
	return w, nil
}

func toWords(bs []*hexutil.Big) ([]*uint256.Int, error) {
	ws := make([]*uint256.Int, len(bs))
	for i, b := range bs {
		w, err := toWord(b)
		if err != nil {
			return nil, fmt.Errorf("word %d: %w", i, err)
		}
		ws[i] = w
	}
	return ws, nil
}

func fromWords(ws []*uint256.Int) []*hexutil.Big {
	bs := make([]*hexutil.Big, len(ws))
	for i, w := range ws {
		bs[i] = (*hexutil.Big)(w.ToBig())
	}
	return bs
}

// ToExpression converts the arguments into an expression.
func (args *ExpressionArgs) ToExpression() (*vm.Expression, error) {
	constants, err := toWords(args.Constants)
	if err != nil {
		return nil, fmt.Errorf("constants: %w", err)
	}
	arguments, err := toWords(args.Arguments)
	if err != nil {
		return nil, fmt.Errorf("arguments: %w", err)
	}
	expr := &vm.Expression{
		Sources:   make([]vm.Source, len(args.Sources)),
		Constants: constants,
		Arguments: arguments,
	}
	for i, src := range args.Sources {
		expr.Sources[i] = vm.Source(src)
	}
	return expr, nil
}

// NewExpressionArgs returns the JSON form of expr.
func NewExpressionArgs(expr *vm.Expression) *ExpressionArgs {
	args := &ExpressionArgs{
		Sources:   make([]hexutil.Bytes, len(expr.Sources)),
		Constants: fromWords(expr.Constants),
	}
	if len(expr.Arguments) > 0 {
		args.Arguments = fromWords(expr.Arguments)
	}
	for i, src := range expr.Sources {
		args.Sources[i] = hexutil.Bytes(src)
	}
	return args
}

// ToEnvironment converts the arguments into an environment reading reports
// through tiers.
func (args *EnvironmentArgs) ToEnvironment(tiers vm.TierReader) (*vm.Environment, error) {
	env := &vm.Environment{
		BlockNumber:             uint64(args.BlockNumber),
		Timestamp:               uint64(args.Timestamp),
		This:                    args.This,
		Caller:                  args.Caller,
		Account:                 args.Account,
		ConstructionBlockNumber: uint64(args.ConstructionBlockNumber),
		Context:                 make([][]*uint256.Int, len(args.Context)),
		Tiers:                   tiers,
	}
	for i, col := range args.Context {
		ws, err := toWords(col)
		if err != nil {
			return nil, fmt.Errorf("context column %d: %w", i, err)
		}
		env.Context[i] = ws
	}
	return env, nil
}

// PublicTierVMAPI evaluates expressions and reads the state of the tier and
// emissions contracts known to the backend.
type PublicTierVMAPI struct {
	b *Backend
}

// NewPublicTierVMAPI creates a new tiervm API.
func NewPublicTierVMAPI(b *Backend) *PublicTierVMAPI {
	return &PublicTierVMAPI{b}
}

// Evaluate runs a source of the given expression and returns the final stack,
// bottom first.
func (api *PublicTierVMAPI) Evaluate(ctx context.Context, exprArgs ExpressionArgs, envArgs EnvironmentArgs, sourceIndex int) (ret []*hexutil.Big, err error) {
	defer trackRequest("evaluate", time.Now(), &err)

	expr, err := exprArgs.ToExpression()
	if err != nil {
		return nil, err
	}
	env, err := envArgs.ToEnvironment(api.b.Registry)
	if err != nil {
		return nil, err
	}
	stack, err := vm.NewInterpreter(expr, env, api.b.VMConfig).Run(sourceIndex, vm.AnyOutputs)
	if err != nil {
		return nil, err
	}
	return fromWords(stack), nil
}

// Report returns the report the tier contract holds for account, as a 32
// byte word.
func (api *PublicTierVMAPI) Report(ctx context.Context, tierContract, account common.Address, number hexutil.Uint64, timestamp hexutil.Uint64) (ret common.Hash, err error) {
	defer trackRequest("report", time.Now(), &err)

	parent := &vm.Environment{BlockNumber: uint64(number), Timestamp: uint64(timestamp), Tiers: api.b.Registry}
	r, err := api.b.Registry.Report(parent, tierContract, account, nil)
	if err != nil {
		return common.Hash{}, err
	}
	return common.Hash(r.Bytes32()), nil
}

// CalculateClaim returns the amount account could claim from an emissions
// contract at the given block.
func (api *PublicTierVMAPI) CalculateClaim(ctx context.Context, emissions, account common.Address, number hexutil.Uint64, timestamp hexutil.Uint64) (ret *hexutil.Big, err error) {
	defer trackRequest("calculateClaim", time.Now(), &err)

	p, ok := api.b.Registry.Provider(emissions)
	e, isEmissions := p.(*core.Emissions)
	if !ok || !isEmissions {
		return nil, fmt.Errorf("%w: %v", errUnknownContract, emissions)
	}
	amount, err := e.CalculateClaim(account, core.BlockContext{Number: uint64(number), Time: uint64(timestamp)})
	if err != nil {
		return nil, err
	}
	return (*hexutil.Big)(amount.ToBig()), nil
}

// Expression returns the expression stored for a deployed contract.
func (api *PublicTierVMAPI) Expression(ctx context.Context, address common.Address) (*ExpressionArgs, error) {
	expr := rawdb.ReadExpression(api.b.DB, address)
	if expr == nil {
		return nil, fmt.Errorf("%w: %v", errNoExpression, address)
	}
	return NewExpressionArgs(expr), nil
}

// Disassemble renders a source one instruction per line.
func (api *PublicTierVMAPI) Disassemble(source hexutil.Bytes) string {
	return vm.Source(source).Disassemble()
}

// Extensions returns the names of the extensions that may be activated.
func (api *PublicTierVMAPI) Extensions() []string {
	return vm.ActivateableExtensions()
}
