package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/brandon/mcp-mailbox/internal/cache"
	"github.com/brandon/mcp-mailbox/internal/config"
	"github.com/brandon/mcp-mailbox/internal/credstore"
	"github.com/brandon/mcp-mailbox/internal/mailbox"
	"github.com/brandon/mcp-mailbox/internal/mcp"
	"github.com/brandon/mcp-mailbox/internal/outbound"
	"github.com/brandon/mcp-mailbox/internal/tools"
)

var (
	version     = "dev"
	showVersion = flag.Bool("version", false, "Show version information")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Printf("mcp-mailbox-server version %s\n", version)
		os.Exit(0)
	}

	// Stdout carries the MCP transport, so logs go to stderr.
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stderr)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}
	if err := cfg.Validate(); err != nil {
		logger.WithError(err).Fatal("Invalid configuration")
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	logger.Info("Starting MCP Mailbox Server")

	accounts, err := credstore.NewStore(cfg.StorePath, cfg.KeyPath, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to open account store")
	}

	mailCache, err := cache.NewCache(cfg.CachePath, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize cache")
	}
	defer mailCache.Close()

	cacheStore := cache.NewStore(mailCache, logger)

	// Make sure every stored account has a cache row; bodies and summaries
	// hang off these.
	if known, err := accounts.List(); err != nil {
		logger.WithError(err).Warn("Could not list accounts for cache warmup")
	} else {
		for _, acc := range known {
			if err := cacheStore.UpsertAccount(acc); err != nil {
				logger.WithError(err).WithField("account", acc.ID).Warn("Failed to cache account")
			}
		}
	}

	pool := mailbox.NewPool(logger)
	defer pool.CloseAll()

	registry := tools.NewRegistry(tools.Deps{
		Config:   cfg,
		Accounts: accounts,
		Pool:     pool,
		Ops:      mailbox.NewOperations(pool, cacheStore, logger),
		Sender:   outbound.NewSender(logger),
		Cache:    cacheStore,
		Logger:   logger,
	})

	server := mcp.NewServer(registry, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		errChan <- server.Run(ctx)
	}()

	select {
	case sig := <-sigChan:
		logger.WithField("signal", sig).Info("Received shutdown signal")
		cancel()
	case err := <-errChan:
		if err != nil {
			logger.WithError(err).Error("Server error")
		}
		cancel()
	}

	logger.Info("Shutting down MCP Mailbox Server")
}
