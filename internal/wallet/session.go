// internal/wallet/session.go
package wallet

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/gagliardetto/solana-go"
	computebudget "github.com/gagliardetto/solana-go/programs/compute-budget"
	"github.com/gagliardetto/solana-go/rpc"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/rubb-presale/internal/blockchain"
	"github.com/rovshanmuradov/rubb-presale/internal/presale"
)

var (
	ErrNotConnected  = errors.New("wallet not connected")
	ErrPayerMismatch = errors.New("transfer payer does not match connected wallet")
)

const DefaultBlockhashTimeout = 10 * time.Second

// SubmitOptions настраивает отправку транзакций сессией.
// Нулевые ComputeUnitLimit и PriorityFeeMicroLamports не добавляют инструкций compute budget.
type SubmitOptions struct {
	SkipPreflight            bool
	BlockhashTimeout         time.Duration
	ComputeUnitLimit         uint32
	PriorityFeeMicroLamports uint64
}

func (o SubmitOptions) instructions(transfer presale.TransferInstruction) []solana.Instruction {
	var instructions []solana.Instruction
	if o.ComputeUnitLimit > 0 {
		instructions = append(instructions,
			computebudget.NewSetComputeUnitLimitInstruction(o.ComputeUnitLimit).Build())
	}
	if o.PriorityFeeMicroLamports > 0 {
		instructions = append(instructions,
			computebudget.NewSetComputeUnitPriceInstruction(o.PriorityFeeMicroLamports).Build())
	}
	return append(instructions, transfer.Instruction())
}

// Session – подключённый кошелёк пользователя. Отсутствие кошелька означает,
// что идентичность покупателя не установлена.
type Session struct {
	mu     sync.RWMutex
	wallet *Wallet
	logger *zap.Logger
}

// NewSession создаёт сессию без подключённого кошелька.
func NewSession(logger *zap.Logger) *Session {
	return &Session{logger: logger.Named("wallet")}
}

// Connect подключает кошелёк к сессии, заменяя предыдущий.
func (s *Session) Connect(w *Wallet) {
	s.mu.Lock()
	s.wallet = w
	s.mu.Unlock()
	s.logger.Info("Wallet connected", zap.String("wallet", w.String()))
}

func (s *Session) Disconnect() {
	s.mu.Lock()
	s.wallet = nil
	s.mu.Unlock()
	s.logger.Info("Wallet disconnected")
}

// PublicKey возвращает ключ подключённого кошелька или нулевой ключ.
func (s *Session) PublicKey() solana.PublicKey {
	w := s.current()
	if w == nil {
		return solana.PublicKey{}
	}
	return w.PublicKey
}

func (s *Session) Connected() bool {
	return s.current() != nil
}

func (s *Session) current() *Wallet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.wallet
}

// Balance возвращает баланс подключённого кошелька в лампортах.
func (s *Session) Balance(ctx context.Context, conn blockchain.Client) (uint64, error) {
	w := s.current()
	if w == nil {
		return 0, ErrNotConnected
	}
	balance, err := conn.GetBalance(ctx, w.PublicKey, rpc.CommitmentConfirmed)
	if err != nil {
		return 0, fmt.Errorf("failed to get balance: %w", err)
	}
	return balance, nil
}

// Submitter возвращает функцию, которая подписывает перевод ключом сессии
// и отправляет его через conn ровно один раз. Повторяется только получение blockhash.
func (s *Session) Submitter(conn blockchain.Client, opts SubmitOptions) presale.SubmitFunc {
	if opts.BlockhashTimeout <= 0 {
		opts.BlockhashTimeout = DefaultBlockhashTimeout
	}

	return func(ctx context.Context, transfer presale.TransferInstruction) (string, error) {
		w := s.current()
		if w == nil {
			return "", ErrNotConnected
		}
		if !transfer.From.Equals(w.PublicKey) {
			return "", ErrPayerMismatch
		}

		blockhash, err := backoff.Retry(
			ctx,
			func() (solana.Hash, error) {
				return conn.GetRecentBlockhash(ctx)
			},
			backoff.WithBackOff(backoff.NewExponentialBackOff()),
			backoff.WithMaxElapsedTime(opts.BlockhashTimeout),
		)
		if err != nil {
			return "", fmt.Errorf("failed to get recent blockhash: %w", err)
		}

		tx, err := solana.NewTransaction(
			opts.instructions(transfer),
			blockhash,
			solana.TransactionPayer(w.PublicKey),
		)
		if err != nil {
			return "", fmt.Errorf("failed to create transaction: %w", err)
		}

		if err := w.SignTransaction(tx); err != nil {
			return "", fmt.Errorf("failed to sign transaction: %w", err)
		}

		sig, err := conn.SendTransactionWithOpts(ctx, tx, blockchain.TransactionOptions{
			SkipPreflight:       opts.SkipPreflight,
			PreflightCommitment: rpc.CommitmentConfirmed,
		})
		if err != nil {
			return "", err
		}

		s.logger.Debug("Transaction broadcast",
			zap.String("signature", sig.String()),
			zap.Uint64("lamports", transfer.Lamports))
		return sig.String(), nil
	}
}
