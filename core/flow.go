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

	"github.com/420integrated/go-tiervm/core/vm"
	"github.com/420integrated/go-tiervm/params"
	signer "github.com/420integrated/go-tiervm/signer/core"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"github.com/holiman/uint256"
)

// Sources of a flow expression.
const (
	CanSignContextSource = 0
	CanFlowSource        = 1
	FlowIOSource         = 2
)

// SupplyChange is a mint or burn of the flow's own token.
type SupplyChange struct {
	Account common.Address `json:"account"`
	Amount  *uint256.Int   `json:"amount"`
}

type NativeTransfer struct {
	From   common.Address `json:"from"`
	To     common.Address `json:"to"`
	Amount *uint256.Int   `json:"amount"`
}

type ERC20Transfer struct {
	Token  common.Address `json:"token"`
	From   common.Address `json:"from"`
	To     common.Address `json:"to"`
	Amount *uint256.Int   `json:"amount"`
}

type ERC721Transfer struct {
	Token common.Address `json:"token"`
	From  common.Address `json:"from"`
	To    common.Address `json:"to"`
	ID    *uint256.Int   `json:"id"`
}

type ERC1155Transfer struct {
	Token  common.Address `json:"token"`
	From   common.Address `json:"from"`
	To     common.Address `json:"to"`
	ID     *uint256.Int   `json:"id"`
	Amount *uint256.Int   `json:"amount"`
}

// FlowTransfer is everything a flow asks to move. Mints and burns are only
// read by mintable flows.
type FlowTransfer struct {
	Mints   []SupplyChange    `json:"mints,omitempty"`
	Burns   []SupplyChange    `json:"burns,omitempty"`
	Native  []NativeTransfer  `json:"native"`
	ERC20   []ERC20Transfer   `json:"erc20"`
	ERC721  []ERC721Transfer  `json:"erc721"`
	ERC1155 []ERC1155Transfer `json:"erc1155"`
}

// FlowConfig is the immutable configuration of a flow contract.
type FlowConfig struct {
	Flows    []*vm.Expression
	Mintable bool // flow stacks start with mint and burn lists
}

// Flow is a contract computing token movements from expressions. Each of its
// flows is an expression with a signer source, a guard source and a source
// leaving the transfers on the stack.
//
// Flow sources see context column 0 as [caller, flow address, flow id],
// column 1 as the signers of the signed contexts and one further column per
// signed context.
type Flow struct {
	address  common.Address
	config   FlowConfig
	registry *TierRegistry
	vmConfig vm.Config
}

func NewFlow(address common.Address, config FlowConfig, registry *TierRegistry, vmConfig vm.Config) (*Flow, error) {
	for i, expr := range config.Flows {
		if len(expr.Sources) <= FlowIOSource {
			return nil, fmt.Errorf("%w: flow %d needs 3, have %d", ErrMissingSources, i, len(expr.Sources))
		}
	}
	return &Flow{
		address:  address,
		config:   config,
		registry: registry,
		vmConfig: vmConfig,
	}, nil
}

func (f *Flow) Address() common.Address {
	return f.address
}

// Flow evaluates flow id for caller and returns the transfers it asks for.
func (f *Flow) Flow(caller common.Address, id uint64, blk BlockContext, signedContexts []*signer.SignedContext) (*FlowTransfer, error) {
	ft, err := f.flow(caller, id, blk, signedContexts)
	if err != nil {
		flowFailMeter.Mark(1)
		log.Debug("Flow failed", "flow", f.address, "id", id, "caller", caller, "err", err)
		return nil, err
	}
	flowMeter.Mark(1)
	return ft, nil
}

func (f *Flow) flow(caller common.Address, id uint64, blk BlockContext, signedContexts []*signer.SignedContext) (*FlowTransfer, error) {
	if id >= uint64(len(f.config.Flows)) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownFlow, id)
	}
	expr := f.config.Flows[id]

	signers := make([]*uint256.Int, len(signedContexts))
	context := [][]*uint256.Int{
		{addressWord(caller), addressWord(f.address), uint256.NewInt(id)},
		signers,
	}
	for i, sc := range signedContexts {
		signers[i] = addressWord(sc.Signer)
		context = append(context, sc.Context)
	}
	env := blk.env()
	env.This = f.address
	env.Caller = caller
	env.Account = caller
	env.Context = context
	env.Tiers = f.registry

	for _, sc := range signedContexts {
		signerEnv := *env
		signerEnv.Account = sc.Signer
		ok, err := f.truthy(expr, &signerEnv, CanSignContextSource)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w: %v", ErrBadSigner, sc.Signer)
		}
		if err := sc.Verify(); err != nil {
			return nil, err
		}
	}
	ok, err := f.truthy(expr, env, CanFlowSource)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrCantFlow
	}
	stack, err := vm.NewInterpreter(expr, env, f.vmConfig).Run(FlowIOSource, vm.AnyOutputs)
	if err != nil {
		return nil, err
	}
	return f.parse(caller, stack)
}

func (f *Flow) truthy(expr *vm.Expression, env *vm.Environment, source int) (bool, error) {
	out, err := vm.NewInterpreter(expr, env, f.vmConfig).Run(source, 1)
	if err != nil {
		return false, err
	}
	return !out[0].IsZero(), nil
}

// flowStack reads transfer lists off a final stack from the top down.
type flowStack struct {
	words []*uint256.Int
	end   int
}

// consume returns the entries above the next sentinel, each entry size words
// in push order, and moves below the sentinel.
func (s *flowStack) consume(sentinel *uint256.Int, size int) ([][]*uint256.Int, error) {
	i := s.end - 1
	for ; i >= 0; i-- {
		if s.words[i].Eq(sentinel) {
			break
		}
	}
	if i < 0 {
		return nil, ErrMissingSentinel
	}
	list := s.words[i+1 : s.end]
	if len(list)%size != 0 {
		return nil, fmt.Errorf("%w: %d words, entry size %d", ErrFlowTupleSize, len(list), size)
	}
	entries := make([][]*uint256.Int, 0, len(list)/size)
	for j := 0; j < len(list); j += size {
		entries = append(entries, list[j:j+size])
	}
	s.end = i
	return entries, nil
}

func wordAddress(w *uint256.Int) common.Address {
	return common.Address(w.Bytes20())
}

func (f *Flow) checkFrom(caller, from common.Address) error {
	if from != caller && from != f.address {
		return fmt.Errorf("%w: from %v", ErrUnsupportedFlow, from)
	}
	return nil
}

func (f *Flow) parse(caller common.Address, stack []*uint256.Int) (*FlowTransfer, error) {
	var (
		s  = &flowStack{words: stack, end: len(stack)}
		ft = new(FlowTransfer)
	)
	if f.config.Mintable {
		for _, list := range []*[]SupplyChange{&ft.Mints, &ft.Burns} {
			entries, err := s.consume(params.FlowERC20Sentinel, 2)
			if err != nil {
				return nil, err
			}
			for _, e := range entries {
				*list = append(*list, SupplyChange{Account: wordAddress(e[0]), Amount: e[1]})
			}
		}
	}
	entries, err := s.consume(params.FlowSentinel, 3)
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		t := NativeTransfer{From: wordAddress(e[0]), To: wordAddress(e[1]), Amount: e[2]}
		if err := f.checkFrom(caller, t.From); err != nil {
			return nil, err
		}
		ft.Native = append(ft.Native, t)
	}
	if entries, err = s.consume(params.FlowSentinel, 4); err != nil {
		return nil, err
	}
	for _, e := range entries {
		t := ERC20Transfer{Token: wordAddress(e[0]), From: wordAddress(e[1]), To: wordAddress(e[2]), Amount: e[3]}
		if err := f.checkFrom(caller, t.From); err != nil {
			return nil, err
		}
		ft.ERC20 = append(ft.ERC20, t)
	}
	if entries, err = s.consume(params.FlowSentinel, 4); err != nil {
		return nil, err
	}
	for _, e := range entries {
		t := ERC721Transfer{Token: wordAddress(e[0]), From: wordAddress(e[1]), To: wordAddress(e[2]), ID: e[3]}
		if err := f.checkFrom(caller, t.From); err != nil {
			return nil, err
		}
		ft.ERC721 = append(ft.ERC721, t)
	}
	if entries, err = s.consume(params.FlowSentinel, 5); err != nil {
		return nil, err
	}
	for _, e := range entries {
		t := ERC1155Transfer{Token: wordAddress(e[0]), From: wordAddress(e[1]), To: wordAddress(e[2]), ID: e[3], Amount: e[4]}
		if err := f.checkFrom(caller, t.From); err != nil {
			return nil, err
		}
		ft.ERC1155 = append(ft.ERC1155, t)
	}
	return ft, nil
}
