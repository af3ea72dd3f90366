package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rovshanmuradov/rubb-presale/internal/blockchain/solbc"
	"github.com/rovshanmuradov/rubb-presale/internal/config"
	"github.com/rovshanmuradov/rubb-presale/internal/logger"
	"github.com/rovshanmuradov/rubb-presale/internal/presale"
	"github.com/rovshanmuradov/rubb-presale/internal/ui"
	"github.com/rovshanmuradov/rubb-presale/internal/wallet"
)

const logBufferSize = 500

func main() {
	configPath := flag.String("config", "", "Path to config file (JSON or YAML)")
	flag.Parse()

	if err := run(*configPath); err != nil {
		log.Fatal(err)
	}
}

func run(configPath string) error {
	// Create context with signal handling
	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Logs go to the buffer only, stdout belongs to the TUI.
	buffer, err := logger.NewLogBuffer(logBufferSize, cfg.LogFile)
	if err != nil {
		return fmt.Errorf("failed to init log buffer: %w", err)
	}
	defer func() {
		_ = buffer.Close()
	}()

	appLogger, err := logger.CreateTUILoggerWithBuffer(cfg.DebugLogging, buffer)
	if err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}
	defer func() {
		_ = appLogger.Sync()
	}()

	client := solbc.NewClient(cfg.PrimaryRPC(), appLogger)
	session := wallet.NewSession(appLogger)

	w, err := wallet.Resolve(cfg.PrivateKey, cfg.KeypairPath)
	if err != nil {
		return fmt.Errorf("failed to load wallet: %w", err)
	}
	if w != nil {
		session.Connect(w)
	} else {
		appLogger.Warn("No wallet configured, purchases are disabled")
	}

	controller := presale.NewController(cfg.PresaleSettings(), appLogger)

	program := tea.NewProgram(
		ui.NewPurchaseModel(ui.PurchaseDeps{
			Ctx:        rootCtx,
			Controller: controller,
			Session:    session,
			Client:     client,
			SubmitOpts: cfg.SubmitOptions(),
			Logs:       buffer,
		}),
		tea.WithAltScreen(),
	)

	appLogger.Info("Starting presale TUI", zap.String("rpc", cfg.PrimaryRPC()))

	g, ctx := errgroup.WithContext(rootCtx)
	g.Go(func() error {
		defer stop()
		_, err := program.Run()
		return err
	})
	g.Go(func() error {
		<-ctx.Done()
		program.Quit()
		return nil
	})

	if err := g.Wait(); err != nil {
		appLogger.Error("TUI application failed", zap.Error(err))
		return fmt.Errorf("TUI application failed: %w", err)
	}
	appLogger.Info("Presale TUI stopped")
	return nil
}
