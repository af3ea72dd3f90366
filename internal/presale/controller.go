// internal/presale/controller.go
package presale

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/gagliardetto/solana-go"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SubmitFunc – внешний кошелёк: подписывает и отправляет перевод,
// возвращая идентификатор транзакции.
type SubmitFunc func(ctx context.Context, transfer TransferInstruction) (string, error)

// Settings – неизменяемая конфигурация контроллера, задаётся при создании.
type Settings struct {
	Price       PriceSchedule
	Treasury    string
	TokenMint   string
	TokenSymbol string
	Cluster     string
}

// Controller управляет жизненным циклом одной покупки:
// ввод, расчёт количества токенов, построение перевода и отправка через кошелёк.
type Controller struct {
	settings Settings
	logger   *zap.Logger

	mu      sync.RWMutex
	request PurchaseRequest
	outcome Outcome

	inFlight atomic.Bool
}

// NewController создаёт контроллер в состоянии Idle.
func NewController(settings Settings, logger *zap.Logger) *Controller {
	if settings.Price.PricePerToken.IsZero() {
		settings.Price = DefaultPriceSchedule()
	}
	if settings.Cluster == "" {
		settings.Cluster = DefaultCluster
	}
	if settings.TokenSymbol == "" {
		settings.TokenSymbol = DefaultTokenSymbol
	}
	return &Controller{
		settings: settings,
		logger:   logger.Named("presale"),
		request:  NewPurchaseRequest(""),
		outcome:  idle(),
	}
}

// Settings возвращает настройки, заданные при создании.
func (c *Controller) Settings() Settings {
	return c.settings
}

// SetAmount stores the raw input and re-derives the parsed amount.
// The current outcome is left as is.
func (c *Controller) SetAmount(raw string) {
	req := NewPurchaseRequest(raw)

	c.mu.Lock()
	c.request = req
	c.mu.Unlock()
}

// Request возвращает текущий снимок ввода.
func (c *Controller) Request() PurchaseRequest {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.request
}

// Outcome возвращает результат последней попытки.
func (c *Controller) Outcome() Outcome {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.outcome
}

// QuotedTokens – оценка количества токенов для отображения, не расчётная запись.
func (c *Controller) QuotedTokens() uint64 {
	return c.settings.Price.Quote(c.Request().Amount)
}

// Submit отправляет покупку в казну из настроек контроллера.
func (c *Controller) Submit(ctx context.Context, payer solana.PublicKey, submit SubmitFunc) error {
	return c.SubmitPurchase(ctx, payer, c.settings.Treasury, submit)
}

// SubmitPurchase проверяет предусловия, строит перевод и ровно один раз вызывает submit.
// Ошибки предусловий и кошелька фиксируются в Outcome как Failed и возвращаются.
// Пока предыдущая попытка в Pending, новый вызов отклоняется с ErrSubmissionInFlight
// без изменения состояния.
func (c *Controller) SubmitPurchase(ctx context.Context, payer solana.PublicKey, treasury string, submit SubmitFunc) error {
	if !c.inFlight.CompareAndSwap(false, true) {
		c.logger.Debug("Submission rejected, another one is pending")
		return ErrSubmissionInFlight
	}
	defer c.inFlight.Store(false)

	req := c.Request()
	log := c.logger.With(
		zap.String("attempt", uuid.NewString()),
		zap.String("amount_sol", req.Amount.String()))

	c.setOutcome(idle())

	if err := checkPreconditions(payer, treasury, req, submit); err != nil {
		log.Warn("Purchase rejected", zap.Error(err))
		c.setOutcome(failed(err.Error()))
		return err
	}

	c.setOutcome(pending())

	transfer, err := BuildTransfer(payer, treasury, req.Amount)
	if err != nil {
		log.Warn("Failed to build transfer", zap.Error(err))
		c.setOutcome(failed(err.Error()))
		return err
	}

	log.Info("Submitting purchase",
		zap.String("from", transfer.From.String()),
		zap.String("to", transfer.To.String()),
		zap.Uint64("lamports", transfer.Lamports),
		zap.Uint64("tokens", c.settings.Price.Quote(req.Amount)))

	signature, err := submit(ctx, transfer)
	if err != nil {
		subErr := newSubmissionError(err)
		log.Error("Purchase failed", zap.Error(err))
		c.setOutcome(failed(subErr.Error()))
		return subErr
	}

	log.Info("Transaction sent", zap.String("signature", signature))
	c.setOutcome(succeeded(signature))
	return nil
}

func checkPreconditions(payer solana.PublicKey, treasury string, req PurchaseRequest, submit SubmitFunc) error {
	if payer.IsZero() || submit == nil {
		return ErrWalletNotConnected
	}
	if treasury == "" {
		return ErrDestinationNotConfigured
	}
	if !req.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if _, err := ToLamports(req.Amount); err != nil {
		return err
	}
	return nil
}

func (c *Controller) setOutcome(o Outcome) {
	c.mu.Lock()
	c.outcome = o
	c.mu.Unlock()
}
