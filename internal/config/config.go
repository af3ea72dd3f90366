// =================================
// File: internal/config/config.go
// =================================
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/rovshanmuradov/rubb-presale/internal/presale"
	"github.com/rovshanmuradov/rubb-presale/internal/wallet"
)

// Config – неизменяемая конфигурация процесса, читается один раз при старте.
type Config struct {
	RPCList               []string `mapstructure:"rpc_list"`
	Cluster               string   `mapstructure:"cluster"`
	TreasuryWallet        string   `mapstructure:"treasury_wallet"`
	TokenMint             string   `mapstructure:"token_mint"`
	TokenSymbol           string   `mapstructure:"token_symbol"`
	PrivateKey            string   `mapstructure:"private_key"`
	KeypairPath           string   `mapstructure:"keypair_path"`
	SkipPreflight         bool     `mapstructure:"skip_preflight"`
	ComputeUnitLimit      uint32   `mapstructure:"compute_unit_limit"`
	PriorityFee           uint64   `mapstructure:"priority_fee_micro_lamports"`
	BlockhashRetrySeconds int      `mapstructure:"blockhash_retry_seconds"`
	DebugLogging          bool     `mapstructure:"debug_logging"`
	LogFile               string   `mapstructure:"log_file"`
}

const (
	DefaultRPC                   = "https://api.mainnet-beta.solana.com"
	DefaultCluster               = "mainnet-beta"
	DefaultTokenSymbol           = "RUBBCOIN"
	DefaultBlockhashRetrySeconds = 10
	DefaultLogFile               = "logs/presale.log"

	envPrefix = "PRESALE"
)

// Переменные окружения исходного веб-клиента, поддерживаются как запасной вариант.
const (
	legacyTreasuryEnv = "NEXT_PUBLIC_TREASURY_WALLET"
	legacyMintEnv     = "NEXT_PUBLIC_RUBB_MINT"
)

// LoadConfig читает .env (если есть), файл конфигурации и переменные окружения PRESALE_*.
// Пустой path означает работу только на значениях по умолчанию и окружении.
func LoadConfig(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()

	defaults := map[string]interface{}{
		"rpc_list":                []string{DefaultRPC},
		"cluster":                 DefaultCluster,
		"token_symbol":            DefaultTokenSymbol,
		"blockhash_retry_seconds": DefaultBlockhashRetrySeconds,
		"log_file":                DefaultLogFile,
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	loadEnvironmentVariables(v, &cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// BlockhashTimeout – максимальное время повторов получения blockhash.
func (c *Config) BlockhashTimeout() time.Duration {
	return time.Duration(c.BlockhashRetrySeconds) * time.Second
}

// PrimaryRPC возвращает первый RPC из списка.
func (c *Config) PrimaryRPC() string {
	return c.RPCList[0]
}

func validateConfig(cfg *Config) error {
	if len(cfg.RPCList) == 0 {
		return errors.New("rpc_list is empty")
	}
	for _, rpcURL := range cfg.RPCList {
		if err := validateURL(rpcURL, "http"); err != nil {
			return fmt.Errorf("invalid RPC URL %q: %w", rpcURL, err)
		}
	}
	if cfg.TreasuryWallet != "" {
		if _, err := solana.PublicKeyFromBase58(cfg.TreasuryWallet); err != nil {
			return fmt.Errorf("invalid treasury_wallet: %w", err)
		}
	}
	if cfg.TokenMint != "" {
		if _, err := solana.PublicKeyFromBase58(cfg.TokenMint); err != nil {
			return fmt.Errorf("invalid token_mint: %w", err)
		}
	}
	if cfg.BlockhashRetrySeconds <= 0 {
		return errors.New("invalid blockhash_retry_seconds")
	}
	return nil
}

func validateURL(rawURL string, protocol string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return errors.New("invalid URL format")
	}
	if !strings.HasPrefix(parsed.Scheme, protocol) {
		return errors.New("invalid URL protocol")
	}
	return nil
}

func loadEnvironmentVariables(v *viper.Viper, cfg *Config) {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if envRPCList := os.Getenv(envPrefix + "_RPC_LIST"); envRPCList != "" {
		var cleanRPCs []string
		for _, rpc := range strings.Split(envRPCList, ",") {
			if clean := strings.TrimSpace(rpc); clean != "" {
				cleanRPCs = append(cleanRPCs, clean)
			}
		}
		if len(cleanRPCs) > 0 {
			cfg.RPCList = cleanRPCs
		}
	}

	cfg.TreasuryWallet = firstNonEmpty(v.GetString("treasury_wallet"), os.Getenv(legacyTreasuryEnv))
	cfg.TokenMint = firstNonEmpty(v.GetString("token_mint"), os.Getenv(legacyMintEnv))
	cfg.TokenSymbol = firstNonEmpty(v.GetString("token_symbol"), DefaultTokenSymbol)
	cfg.Cluster = firstNonEmpty(v.GetString("cluster"), DefaultCluster)
	cfg.PrivateKey = strings.TrimSpace(v.GetString("private_key"))
	cfg.KeypairPath = strings.TrimSpace(v.GetString("keypair_path"))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

// PresaleSettings собирает неизменяемые настройки контроллера покупки.
func (c *Config) PresaleSettings() presale.Settings {
	return presale.Settings{
		Price:       presale.DefaultPriceSchedule(),
		Treasury:    c.TreasuryWallet,
		TokenMint:   c.TokenMint,
		TokenSymbol: c.TokenSymbol,
		Cluster:     c.Cluster,
	}
}

// SubmitOptions возвращает параметры отправки транзакций кошельком.
func (c *Config) SubmitOptions() wallet.SubmitOptions {
	return wallet.SubmitOptions{
		SkipPreflight:            c.SkipPreflight,
		BlockhashTimeout:         c.BlockhashTimeout(),
		ComputeUnitLimit:         c.ComputeUnitLimit,
		PriorityFeeMicroLamports: c.PriorityFee,
	}
}
