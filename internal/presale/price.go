// internal/presale/price.go
package presale

import (
	"math"
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
)

// DefaultPricePerToken – цена одного RUBBCOIN в SOL.
var DefaultPricePerToken = decimal.RequireFromString("0.00001")

var (
	lamportsPerSOL = decimal.NewFromInt(int64(solana.LAMPORTS_PER_SOL))
	maxUint64      = decimal.NewFromUint64(math.MaxUint64)
)

// PriceSchedule задаёт фиксированную цену токена в базовой валюте.
type PriceSchedule struct {
	PricePerToken decimal.Decimal
}

// DefaultPriceSchedule возвращает расписание с ценой по умолчанию.
func DefaultPriceSchedule() PriceSchedule {
	return PriceSchedule{PricePerToken: DefaultPricePerToken}
}

// Quote returns floor(amount / price) or 0 for non-positive input.
// Quotes beyond uint64 saturate at math.MaxUint64.
func (p PriceSchedule) Quote(amount decimal.Decimal) uint64 {
	if !amount.IsPositive() || !p.PricePerToken.IsPositive() {
		return 0
	}
	// QuoRem с точностью 0 даёт точное целое частное без промежуточного округления.
	tokens, _ := amount.QuoRem(p.PricePerToken, 0)
	return saturateUint64(tokens)
}

// ParseAmount разбирает строку ввода без учёта локали.
// Нечисловой или отрицательный ввод даёт ноль.
func ParseAmount(raw string) decimal.Decimal {
	amount, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil || amount.IsNegative() {
		return decimal.Zero
	}
	return amount
}

// ToLamports конвертирует SOL в лампорты с округлением (не усечением).
// Сумма, не помещающаяся в uint64, даёт ErrAmountTooLarge.
func ToLamports(amount decimal.Decimal) (uint64, error) {
	if !amount.IsPositive() {
		return 0, nil
	}
	lamports := amount.Mul(lamportsPerSOL).Round(0)
	if lamports.GreaterThan(maxUint64) {
		return 0, ErrAmountTooLarge
	}
	return lamports.BigInt().Uint64(), nil
}

func saturateUint64(d decimal.Decimal) uint64 {
	if d.GreaterThan(maxUint64) {
		return math.MaxUint64
	}
	return d.BigInt().Uint64()
}

// FromLamports converts lamports back to SOL for display.
func FromLamports(lamports uint64) decimal.Decimal {
	return decimal.NewFromUint64(lamports).Div(lamportsPerSOL)
}
