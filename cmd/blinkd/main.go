package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"blinkchain/config"
	"blinkchain/core"
	"blinkchain/observability/logging"
	"blinkchain/rpc"
	"blinkchain/storage"
)

func main() {
	configPath := flag.String("config", "./config.toml", "path to the node configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.SetupWithOptions("blinkd", cfg.LogEnvironment, logging.Options{
		FilePath: cfg.LogFile,
	})
	logger.Info("starting node",
		"network", cfg.NetworkName,
		"rpc", cfg.RPCAddress,
		"metrics", cfg.MetricsAddress,
		"dataDir", cfg.DataDir)

	db, err := storage.NewLevelDB(filepath.Join(cfg.DataDir, "ledger"))
	if err != nil {
		logger.Error("open database", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	node := core.NewNode(db)
	node.SetLogger(logger)

	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		if err := http.ListenAndServe(cfg.MetricsAddress, mux); err != nil {
			logger.Error("metrics endpoint", "err", err)
		}
	}()

	server := rpc.NewServer(node)
	errCh := make(chan error, 1)
	go func() {
		logger.Info("json-rpc listening", "addr", cfg.RPCAddress)
		errCh <- server.Start(cfg.RPCAddress)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		logger.Error("rpc server stopped", "err", err)
		os.Exit(1)
	case sig := <-sigCh:
		logger.Info("shutting down", "signal", sig.String())
	}
}
