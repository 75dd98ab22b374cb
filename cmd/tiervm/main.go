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

// tiervm evaluates tier expressions and serves them over JSON-RPC.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/420integrated/go-tiervm/core/vm"
	"github.com/420integrated/go-tiervm/params"
	"github.com/ethereum/go-ethereum/log"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"gopkg.in/urfave/cli.v1"
)

var (
	// Git SHA1 commit hash of the release (set via linker flags)
	gitCommit = ""
	gitDate   = ""

	app = cli.NewApp()
)

var (
	verbosityFlag = cli.IntFlag{
		Name:  "verbosity",
		Usage: "Logging verbosity: 0=silent, 1=error, 2=warn, 3=info, 4=debug, 5=detail",
		Value: 3,
	}
	instructionSetFlag = cli.StringFlag{
		Name:  "vm.set",
		Usage: "Instruction set to evaluate with (emissions, standard)",
	}
	extensionsFlag = cli.StringFlag{
		Name:  "vm.ext",
		Usage: "Comma separated list of extensions to activate on top of the instruction set",
	}
	vmDebugFlag = cli.BoolFlag{
		Name:  "vm.debug",
		Usage: "Trace every evaluated instruction",
	}
)

func init() {
	app.Name = "tiervm"
	app.Usage = "tier expression interpreter"
	app.Version = params.VersionWithCommit(gitCommit, gitDate)
	app.Flags = []cli.Flag{
		configFileFlag,
		verbosityFlag,
		instructionSetFlag,
		extensionsFlag,
		vmDebugFlag,
	}
	app.Commands = []cli.Command{
		evalCommand,
		disasmCommand,
		serveCommand,
		dumpConfigCommand,
		extensionsCommand,
	}
	app.Before = func(ctx *cli.Context) error {
		var (
			output   io.Writer = os.Stderr
			usecolor           = isatty.IsTerminal(os.Stderr.Fd()) && os.Getenv("TERM") != "dumb"
		)
		if usecolor {
			output = colorable.NewColorableStderr()
		}
		handler := log.NewTerminalHandlerWithLevel(output, log.FromLegacyLevel(ctx.GlobalInt(verbosityFlag.Name)), usecolor)
		log.SetDefault(log.NewLogger(handler))
		return nil
	}
}

func main() {
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setVMConfig applies the vm flags on top of the configuration file.
func setVMConfig(ctx *cli.Context, cfg *vm.Config) error {
	if ctx.GlobalIsSet(instructionSetFlag.Name) {
		cfg.InstructionSet = ctx.GlobalString(instructionSetFlag.Name)
	}
	if cfg.InstructionSet != "" {
		if _, ok := vm.InstructionSets[cfg.InstructionSet]; !ok {
			return fmt.Errorf("unknown instruction set %q", cfg.InstructionSet)
		}
	}
	if ctx.GlobalIsSet(extensionsFlag.Name) {
		for _, name := range strings.Split(ctx.GlobalString(extensionsFlag.Name), ",") {
			name = strings.TrimSpace(name)
			if !vm.ValidExtension(name) {
				return fmt.Errorf("unknown extension %q, valid: %s", name, strings.Join(vm.ActivateableExtensions(), ", "))
			}
			cfg.ExtraExtensions = append(cfg.ExtraExtensions, name)
		}
	}
	if ctx.GlobalIsSet(vmDebugFlag.Name) {
		cfg.Debug = ctx.GlobalBool(vmDebugFlag.Name)
	}
	return nil
}
