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
	"bufio"
	"errors"
	"fmt"
	"math/big"
	"os"
	"reflect"
	"unicode"

	"github.com/420integrated/go-tiervm/core"
	"github.com/420integrated/go-tiervm/core/tier"
	"github.com/420integrated/go-tiervm/core/vm"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/ethdb"
	"github.com/ethereum/go-ethereum/log"
	"github.com/holiman/uint256"
	"github.com/naoina/toml"
	"gopkg.in/urfave/cli.v1"
)

var (
	dumpConfigCommand = cli.Command{
		Action:      dumpConfig,
		Name:        "dumpconfig",
		Usage:       "Show configuration values",
		ArgsUsage:   "[file]",
		Category:    "MISCELLANEOUS COMMANDS",
		Description: `The dumpconfig command shows configuration values.`,
	}

	configFileFlag = cli.StringFlag{
		Name:  "config",
		Usage: "TOML configuration file",
	}
)

// These settings ensure that TOML keys use the same names as Go struct fields.
var tomlSettings = toml.Config{
	NormFieldName: func(rt reflect.Type, key string) string {
		return key
	},
	FieldToKey: func(rt reflect.Type, field string) string {
		return field
	},
	MissingField: func(rt reflect.Type, field string) error {
		link := ""
		if unicode.IsUpper(rune(rt.Name()[0])) && rt.PkgPath() != "main" {
			link = fmt.Sprintf(", see https://godoc.org/%s#%s for available fields", rt.PkgPath(), rt.Name())
		}
		return fmt.Errorf("field '%s' is not defined in %s%s", field, rt.String(), link)
	},
}

type nodeConfig struct {
	DataDir  string `toml:",omitempty"`
	HTTPHost string
	HTTPPort int
}

// expressionConfig holds sources as hex and words as decimal or 0x prefixed
// hex strings.
type expressionConfig struct {
	Sources   []string
	Constants []string
	Arguments []string `toml:",omitempty"`
}

type environmentConfig struct {
	BlockNumber             uint64
	Timestamp               uint64
	This                    common.Address
	Caller                  common.Address
	Account                 common.Address
	ConstructionBlockNumber uint64
	Context                 [][]string `toml:",omitempty"`
}

type tierEntryConfig struct {
	Account common.Address
	Tier    uint8
	Block   uint64
}

type readWriteTierConfig struct {
	Address common.Address
	Tiers   []tierEntryConfig `toml:",omitempty"`
}

type combineTierConfig struct {
	Address       common.Address
	CombinedTiers int
	Expression    expressionConfig
}

type depositConfig struct {
	Account common.Address
	Amount  string
	Block   uint64
}

type stakeConfig struct {
	Address      common.Address
	Name         string
	Symbol       string
	Token        common.Address
	InitialRatio string
	Deposits     []depositConfig `toml:",omitempty"`
}

type emissionsConfig struct {
	Address                 common.Address
	AllowDelegatedClaims    bool
	ConstructionBlockNumber uint64
	Expression              expressionConfig
}

type tiervmConfig struct {
	VM             vm.Config
	Node           nodeConfig
	Expression     expressionConfig
	Environment    environmentConfig
	ReadWriteTiers []readWriteTierConfig `toml:",omitempty"`
	Stakes         []stakeConfig         `toml:",omitempty"`
	CombineTiers   []combineTierConfig   `toml:",omitempty"`
	Emissions      []emissionsConfig     `toml:",omitempty"`
}

func defaultConfig() tiervmConfig {
	return tiervmConfig{
		VM: vm.Config{InstructionSet: "standard"},
		Node: nodeConfig{
			HTTPHost: "localhost",
			HTTPPort: 8547,
		},
	}
}

func loadConfig(file string, cfg *tiervmConfig) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	err = tomlSettings.NewDecoder(bufio.NewReader(f)).Decode(cfg)
	// Add file name to errors that have a line number.
	if _, ok := err.(*toml.LineError); ok {
		err = errors.New(file + ", " + err.Error())
	}
	return err
}

// makeConfig loads the configuration file and applies the command line flags.
func makeConfig(ctx *cli.Context) (tiervmConfig, error) {
	cfg := defaultConfig()
	if file := ctx.GlobalString(configFileFlag.Name); file != "" {
		if err := loadConfig(file, &cfg); err != nil {
			return cfg, err
		}
	}
	if err := setVMConfig(ctx, &cfg.VM); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func parseWord(s string) (*uint256.Int, error) {
	b, ok := new(big.Int).SetString(s, 0)
	if !ok || b.Sign() < 0 {
		return nil, fmt.Errorf("invalid word %q", s)
	}
	w, overflow := uint256.FromBig(b)
	if overflow {
		return nil, fmt.Errorf("word %q exceeds 256 bits", s)
	}
	return w, nil
}

func parseWords(ss []string) ([]*uint256.Int, error) {
	ws := make([]*uint256.Int, len(ss))
	for i, s := range ss {
		w, err := parseWord(s)
		if err != nil {
			return nil, err
		}
		ws[i] = w
	}
	return ws, nil
}

func (c *expressionConfig) expression() (*vm.Expression, error) {
	constants, err := parseWords(c.Constants)
	if err != nil {
		return nil, fmt.Errorf("constants: %v", err)
	}
	arguments, err := parseWords(c.Arguments)
	if err != nil {
		return nil, fmt.Errorf("arguments: %v", err)
	}
	expr := &vm.Expression{Constants: constants, Arguments: arguments}
	for i, s := range c.Sources {
		src, err := hexutil.Decode(s)
		if err != nil {
			return nil, fmt.Errorf("source %d: %v", i, err)
		}
		expr.Sources = append(expr.Sources, vm.Source(src))
	}
	return expr, nil
}

func (c *environmentConfig) environment(tiers vm.TierReader) (*vm.Environment, error) {
	env := &vm.Environment{
		BlockNumber:             c.BlockNumber,
		Timestamp:               c.Timestamp,
		This:                    c.This,
		Caller:                  c.Caller,
		Account:                 c.Account,
		ConstructionBlockNumber: c.ConstructionBlockNumber,
		Tiers:                   tiers,
	}
	for i, col := range c.Context {
		ws, err := parseWords(col)
		if err != nil {
			return nil, fmt.Errorf("context column %d: %v", i, err)
		}
		env.Context = append(env.Context, ws)
	}
	return env, nil
}

// makeRegistry deploys the tier contracts of the configuration into db.
func makeRegistry(cfg *tiervmConfig, db ethdb.KeyValueStore) (*core.TierRegistry, error) {
	registry := core.NewTierRegistry()
	for _, c := range cfg.ReadWriteTiers {
		rw := core.NewReadWriteTier(c.Address, db)
		for _, entry := range c.Tiers {
			if err := rw.SetTier(entry.Account, tier.Tier(entry.Tier), entry.Block); err != nil {
				return nil, fmt.Errorf("read-write tier %x: %v", c.Address, err)
			}
		}
		registry.Register(c.Address, rw)
	}
	for _, c := range cfg.Stakes {
		ratio := new(uint256.Int)
		if c.InitialRatio != "" {
			var err error
			if ratio, err = parseWord(c.InitialRatio); err != nil {
				return nil, fmt.Errorf("stake %x: ratio: %v", c.Address, err)
			}
		}
		stake, err := core.NewStake(c.Address, core.StakeConfig{
			Name:         c.Name,
			Symbol:       c.Symbol,
			Token:        c.Token,
			InitialRatio: ratio,
		}, db, registry)
		if err != nil {
			return nil, fmt.Errorf("stake %x: %v", c.Address, err)
		}
		for _, d := range c.Deposits {
			amount, err := parseWord(d.Amount)
			if err != nil {
				return nil, fmt.Errorf("stake %x: deposit: %v", c.Address, err)
			}
			if _, err := stake.Deposit(d.Account, amount, d.Block); err != nil {
				return nil, fmt.Errorf("stake %x: deposit: %v", c.Address, err)
			}
		}
	}
	// Combine tiers are created in order, each may only combine the tiers
	// configured before it.
	for _, c := range cfg.CombineTiers {
		expr, err := c.Expression.expression()
		if err != nil {
			return nil, fmt.Errorf("combine tier %x: %v", c.Address, err)
		}
		config := core.CombineTierConfig{CombinedTiers: c.CombinedTiers, Expression: expr}
		if _, err := core.NewCombineTier(c.Address, config, registry, cfg.VM); err != nil {
			return nil, fmt.Errorf("combine tier %x: %v", c.Address, err)
		}
	}
	for _, c := range cfg.Emissions {
		expr, err := c.Expression.expression()
		if err != nil {
			return nil, fmt.Errorf("emissions %x: %v", c.Address, err)
		}
		_, err = core.NewEmissions(c.Address, core.EmissionsConfig{
			AllowDelegatedClaims:    c.AllowDelegatedClaims,
			Expression:              expr,
			ConstructionBlockNumber: c.ConstructionBlockNumber,
		}, db, registry, core.NewSupply(), cfg.VM)
		if err != nil {
			return nil, fmt.Errorf("emissions %x: %v", c.Address, err)
		}
	}
	log.Debug("Deployed tier contracts", "readwrite", len(cfg.ReadWriteTiers), "stake", len(cfg.Stakes), "combine", len(cfg.CombineTiers), "emissions", len(cfg.Emissions))
	return registry, nil
}

// dumpConfig is the dumpconfig command.
func dumpConfig(ctx *cli.Context) error {
	cfg, err := makeConfig(ctx)
	if err != nil {
		return err
	}
	out, err := tomlSettings.Marshal(&cfg)
	if err != nil {
		return err
	}

	dump := os.Stdout
	if ctx.NArg() > 0 {
		dump, err = os.OpenFile(ctx.Args().Get(0), os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
		if err != nil {
			return err
		}
		defer dump.Close()
	}
	dump.Write(out)
	return nil
}
