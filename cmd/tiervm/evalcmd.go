// Copyright 2022 The The 420Integrated Development Group
// This file is part of go-tiervm.
//
// go-tiervm is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// go-tiervm is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with go-tiervm. If not, see <http://www.gnu.org/licenses/>.

package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/420integrated/go-tiervm/core/vm"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/ethdb/memorydb"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"gopkg.in/urfave/cli.v1"
)

var (
	sourceFlag = cli.IntFlag{
		Name:  "source",
		Usage: "Index of the source to evaluate",
	}
	outputsFlag = cli.IntFlag{
		Name:  "outputs",
		Usage: "Number of values the source must leave, -1 for any",
		Value: vm.AnyOutputs,
	}

	evalCommand = cli.Command{
		Name:      "eval",
		Usage:     "Evaluate the configured expression",
		ArgsUsage: "",
		Action:    evalCmd,
		Flags: []cli.Flag{
			sourceFlag,
			outputsFlag,
		},
		Description: `
The eval command deploys the tier contracts of the configuration file into an
in-memory database and evaluates the [Expression] against [Environment]. The
final stack is printed bottom first, one word per line.`,
	}
	disasmCommand = cli.Command{
		Name:      "disasm",
		Usage:     "Disassemble sources",
		ArgsUsage: "[<hex source>...]",
		Action:    disasmCmd,
		Description: `
The disasm command prints the instructions of the given hex sources, or of the
sources of the configured expression when none are given.`,
	}
	extensionsCommand = cli.Command{
		Name:   "extensions",
		Usage:  "List the extensions that can be activated",
		Action: extensionsCmd,
	}
)

func evalCmd(ctx *cli.Context) error {
	cfg, err := makeConfig(ctx)
	if err != nil {
		return err
	}
	expr, err := cfg.Expression.expression()
	if err != nil {
		return err
	}
	if len(expr.Sources) == 0 {
		return errors.New("no expression configured")
	}
	registry, err := makeRegistry(&cfg, memorydb.New())
	if err != nil {
		return err
	}
	env, err := cfg.Environment.environment(registry)
	if err != nil {
		return err
	}
	out, err := vm.NewInterpreter(expr, env, cfg.VM).Run(ctx.Int(sourceFlag.Name), ctx.Int(outputsFlag.Name))
	if err != nil {
		return err
	}
	for _, w := range out {
		fmt.Println(w.Dec())
	}
	return nil
}

func disasmCmd(ctx *cli.Context) error {
	var sources []vm.Source
	if ctx.NArg() > 0 {
		for _, arg := range ctx.Args() {
			src, err := hexutil.Decode(arg)
			if err != nil {
				return fmt.Errorf("invalid source %q: %v", arg, err)
			}
			sources = append(sources, vm.Source(src))
		}
	} else {
		cfg, err := makeConfig(ctx)
		if err != nil {
			return err
		}
		expr, err := cfg.Expression.expression()
		if err != nil {
			return err
		}
		sources = expr.Sources
	}
	opName := color.New(color.FgCyan).SprintFunc()
	for i, src := range sources {
		fmt.Printf("source %d:\n", i)
		ins, err := src.Instructions()
		if err != nil {
			return fmt.Errorf("source %d: %v", i, err)
		}
		for pc, in := range ins {
			fmt.Printf("%05d: %s(%#x)\n", pc, opName(in.Op), in.Operand)
		}
	}
	return nil
}

// extensionOps returns the opcodes an extension adds to the emissions
// instruction set.
func extensionOps(name string) ([]string, error) {
	base := *vm.InstructionSets["emissions"]
	extended := base
	if err := vm.EnableExtension(name, &extended); err != nil {
		return nil, err
	}
	var ops []string
	for i := range extended {
		if base[i] == nil && extended[i] != nil {
			ops = append(ops, vm.OpCode(i).String())
		}
	}
	return ops, nil
}

func extensionsCmd(ctx *cli.Context) error {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Extension", "Opcodes"})
	table.SetAutoWrapText(false)
	for _, name := range vm.ActivateableExtensions() {
		ops, err := extensionOps(name)
		if err != nil {
			return err
		}
		table.Append([]string{name, strings.Join(ops, " ")})
	}
	table.Render()
	return nil
}
