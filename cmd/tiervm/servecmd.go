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
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/420integrated/go-tiervm/internal/tierapi"
	"github.com/ethereum/go-ethereum/ethdb"
	"github.com/ethereum/go-ethereum/ethdb/leveldb"
	"github.com/ethereum/go-ethereum/ethdb/memorydb"
	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/rpc"
	"gopkg.in/urfave/cli.v1"
)

var (
	dataDirFlag = cli.StringFlag{
		Name:  "datadir",
		Usage: "Directory for the report database, in memory when empty",
	}
	httpAddrFlag = cli.StringFlag{
		Name:  "http.addr",
		Usage: "HTTP-RPC server listening interface",
	}
	httpPortFlag = cli.IntFlag{
		Name:  "http.port",
		Usage: "HTTP-RPC server listening port",
	}

	serveCommand = cli.Command{
		Name:   "serve",
		Usage:  "Serve the tiervm API over HTTP JSON-RPC",
		Action: serveCmd,
		Flags: []cli.Flag{
			dataDirFlag,
			httpAddrFlag,
			httpPortFlag,
		},
		Description: `
The serve command deploys the configured tier contracts and exposes the
tiervm namespace over HTTP until interrupted.`,
	}
)

const (
	databaseCache   = 16
	databaseHandles = 16
)

func openDatabase(dir string) (ethdb.KeyValueStore, error) {
	if dir == "" {
		log.Info("Using in-memory report database")
		return memorydb.New(), nil
	}
	log.Info("Opening report database", "dir", dir)
	return leveldb.New(dir, databaseCache, databaseHandles, "tiervm/db/", false)
}

func serveCmd(ctx *cli.Context) error {
	cfg, err := makeConfig(ctx)
	if err != nil {
		return err
	}
	if ctx.IsSet(dataDirFlag.Name) {
		cfg.Node.DataDir = ctx.String(dataDirFlag.Name)
	}
	if ctx.IsSet(httpAddrFlag.Name) {
		cfg.Node.HTTPHost = ctx.String(httpAddrFlag.Name)
	}
	if ctx.IsSet(httpPortFlag.Name) {
		cfg.Node.HTTPPort = ctx.Int(httpPortFlag.Name)
	}
	db, err := openDatabase(cfg.Node.DataDir)
	if err != nil {
		return err
	}
	defer db.Close()

	registry, err := makeRegistry(&cfg, db)
	if err != nil {
		return err
	}
	backend := &tierapi.Backend{DB: db, Registry: registry, VMConfig: cfg.VM}

	server := rpc.NewServer()
	defer server.Stop()
	for _, api := range tierapi.APIs(backend) {
		if err := server.RegisterName(api.Namespace, api.Service); err != nil {
			return err
		}
	}
	listener, err := net.Listen("tcp", fmt.Sprintf("%s:%d", cfg.Node.HTTPHost, cfg.Node.HTTPPort))
	if err != nil {
		return err
	}
	httpServer := &http.Server{Handler: server, ReadHeaderTimeout: 5 * time.Second}
	go httpServer.Serve(listener)
	log.Info("HTTP server started", "endpoint", "http://"+listener.Addr().String())

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigc)
	<-sigc
	log.Info("Got interrupt, shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
