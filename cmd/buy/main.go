// cmd/buy/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/rovshanmuradov/rubb-presale/internal/blockchain/solbc"
	"github.com/rovshanmuradov/rubb-presale/internal/config"
	"github.com/rovshanmuradov/rubb-presale/internal/logger"
	"github.com/rovshanmuradov/rubb-presale/internal/presale"
	"github.com/rovshanmuradov/rubb-presale/internal/wallet"
)

func main() {
	configPath := flag.String("config", "", "Path to config file (JSON or YAML)")
	amount := flag.String("amount", "", "Amount of SOL to spend")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger, err := logger.CreatePrettyLogger(cfg.DebugLogging)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}

	code := run(ctx, cfg, *amount, appLogger)
	_ = appLogger.Sync()
	stop()
	os.Exit(code)
}

func run(ctx context.Context, cfg *config.Config, amount string, appLogger *zap.Logger) int {
	session := wallet.NewSession(appLogger)
	w, err := wallet.Resolve(cfg.PrivateKey, cfg.KeypairPath)
	if err != nil {
		appLogger.Error("Failed to load wallet", zap.Error(err))
		return 1
	}
	if w != nil {
		session.Connect(w)
	}

	controller := presale.NewController(cfg.PresaleSettings(), appLogger)
	controller.SetAmount(amount)

	settings := controller.Settings()
	fmt.Printf("Price:            1 %s = %s SOL\n", settings.TokenSymbol, settings.Price.PricePerToken)
	fmt.Printf("You will receive: %d %s\n", controller.QuotedTokens(), settings.TokenSymbol)

	client := solbc.NewClient(cfg.PrimaryRPC(), appLogger)
	submit := session.Submitter(client, cfg.SubmitOptions())

	if err := controller.Submit(ctx, session.PublicKey(), submit); err != nil {
		fmt.Fprintf(os.Stderr, "Purchase failed: %s\n", controller.Outcome().Message)
		return 1
	}

	out := controller.Outcome()
	fmt.Printf("Transaction sent: %s\n", out.TxID)
	fmt.Printf("Explorer:         %s\n", presale.ExplorerURL(out.TxID, settings.Cluster))
	return 0
}
