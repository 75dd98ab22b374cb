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

package vm

import (
	"time"

	"github.com/420integrated/go-tiervm/core/tier"
	"github.com/420integrated/go-tiervm/params"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"github.com/holiman/uint256"
)

// AnyOutputs lets Run return however many values the source leaves.
const AnyOutputs = -1

// TierReader resolves the report of an account held by a tier contract.
// parent is the environment of the evaluation asking. Providers evaluating
// expressions of their own derive their environment from it with Nested.
type TierReader interface {
	Report(parent *Environment, tierContract, account common.Address, context []*uint256.Int) (tier.Report, error)
}

// Environment holds the read-only facts of the call being evaluated.
type Environment struct {
	BlockNumber             uint64
	Timestamp               uint64
	This                    common.Address
	Caller                  common.Address
	Account                 common.Address
	ConstructionBlockNumber uint64

	// Context is indexed column first.
	Context [][]*uint256.Int

	Tiers TierReader
	Depth int // nesting of tier providers above this evaluation
}

// Nested returns the environment of a provider at address evaluating on
// behalf of e. Block facts carry over, the caller becomes e's This and the
// depth grows by one.
func (e *Environment) Nested(address common.Address) *Environment {
	return &Environment{
		BlockNumber: e.BlockNumber,
		Timestamp:   e.Timestamp,
		This:        address,
		Caller:      e.This,
		Tiers:       e.Tiers,
		Depth:       e.Depth + 1,
	}
}

// Config are the configuration options for the Interpreter
type Config struct {
	InstructionSet  string   // Named instruction set, "standard" when empty
	ExtraExtensions []string // Additional extensions to activate
	Debug           bool     // Enables per instruction trace logging
}

// ScopeContext contains the things that are per-call, such as the stack and
// the argument frame.
type ScopeContext struct {
	Stack *Stack
	Args  []*uint256.Int
}

// Interpreter evaluates the sources of one expression against one
// environment. It is not safe for concurrent use.
type Interpreter struct {
	expr  *Expression
	env   *Environment
	cfg   Config
	table *JumpTable

	callDepth int
}

// NewInterpreter returns a new instance of the Interpreter.
func NewInterpreter(expr *Expression, env *Environment, cfg Config) *Interpreter {
	name := cfg.InstructionSet
	if name == "" {
		name = "standard"
	}
	table, ok := InstructionSets[name]
	if !ok {
		log.Error("Unknown instruction set, using standard", "name", name)
		table = &standardInstructionSet
	}
	if len(cfg.ExtraExtensions) > 0 {
		copied := *table
		table = &copied
		var enabled []string
		for _, ext := range cfg.ExtraExtensions {
			if err := EnableExtension(ext, table); err != nil {
				// Disable it, so caller can check if it's activated or not
				log.Error("Extension activation failed", "ext", ext, "error", err)
				continue
			}
			enabled = append(enabled, ext)
		}
		cfg.ExtraExtensions = enabled
	}
	if env == nil {
		env = new(Environment)
	}
	return &Interpreter{
		expr:  expr,
		env:   env,
		cfg:   cfg,
		table: table,
	}
}

// Config returns the configuration the interpreter runs with, listing only
// the extensions that activated.
func (in *Interpreter) Config() Config {
	return in.cfg
}

// Run evaluates the source at sourceIndex on an empty stack and returns the
// final stack, bottom first. Unless outputs is AnyOutputs the source must
// leave exactly outputs values.
func (in *Interpreter) Run(sourceIndex, outputs int) ([]*uint256.Int, error) {
	defer func(start time.Time) { evalTimer.UpdateSince(start) }(time.Now())
	evalMeter.Mark(1)

	stack := newstack()
	defer returnStack(stack)

	scope := &ScopeContext{Stack: stack, Args: in.expr.Arguments}
	if err := in.eval(sourceIndex, scope); err != nil {
		evalFailMeter.Mark(1)
		return nil, err
	}
	if outputs != AnyOutputs && stack.len() != outputs {
		evalFailMeter.Mark(1)
		return nil, &ErrStackOutputMismatch{Source: sourceIndex, Want: outputs, Have: stack.len()}
	}
	return stack.words(), nil
}

// eval runs one source on the given scope. Any error aborts the whole
// evaluation.
func (in *Interpreter) eval(sourceIndex int, scope *ScopeContext) error {
	if sourceIndex < 0 || sourceIndex >= len(in.expr.Sources) {
		return ErrSourceOutOfBounds
	}
	code, err := in.expr.Sources[sourceIndex].Instructions()
	if err != nil {
		return err
	}
	for pc, ins := range code {
		var operation *operation
		if ins.Op <= 0xff {
			operation = in.table[ins.Op]
		}
		if operation == nil {
			return &ErrUnknownOpcode{PC: pc, Op: ins.Op}
		}
		pops, pushes, err := operation.stack(ins.Operand)
		if err != nil {
			return &ErrInvalidOperand{PC: pc, Op: ins.Op, Operand: ins.Operand, Reason: err.Error()}
		}
		// Validate stack
		if sLen := scope.Stack.len(); sLen < pops {
			return &ErrStackUnderflow{PC: pc, Op: ins.Op, StackLen: sLen, Required: pops}
		} else if sLen-pops+pushes > int(params.StackLimit) {
			return &ErrStackOverflow{PC: pc, Op: ins.Op, Limit: int(params.StackLimit)}
		}
		// Validate nesting
		if operation.reads {
			if in.env.Tiers == nil {
				return ErrNoTierReader
			}
			if in.env.Depth+1 > params.MaxTierDepth {
				return ErrMaxDepth
			}
		}
		if operation.calls && in.callDepth >= params.MaxCallDepth {
			return ErrMaxDepth
		}
		if in.cfg.Debug {
			log.Trace("Evaluating instruction", "source", sourceIndex, "pc", pc, "op", ins.Op, "operand", ins.Operand, "stack", scope.Stack.len(), "depth", in.callDepth, "reads", operation.reads, "calls", operation.calls)
		}
		if err := operation.execute(ins.Operand, in, scope); err != nil {
			return err
		}
	}
	return nil
}

// readReport asks the tier provider one level deeper than this evaluation.
// The dispatch loop has checked the reader and the depth.
func (in *Interpreter) readReport(tierContract, account common.Address, context []*uint256.Int) (tier.Report, error) {
	reportReadMeter.Mark(1)
	return in.env.Tiers.Report(in.env, tierContract, account, context)
}
