// internal/presale/transfer.go
package presale

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/shopspring/decimal"
)

// TransferInstruction описывает перевод SOL от покупателя в казну.
type TransferInstruction struct {
	From     solana.PublicKey
	To       solana.PublicKey
	Lamports uint64
}

// BuildTransfer строит перевод на round(amount × LAMPORTS_PER_SOL) лампортов.
func BuildTransfer(from solana.PublicKey, treasury string, amount decimal.Decimal) (TransferInstruction, error) {
	to, err := solana.PublicKeyFromBase58(treasury)
	if err != nil {
		return TransferInstruction{}, fmt.Errorf("%w: %v", ErrInvalidDestination, err)
	}
	lamports, err := ToLamports(amount)
	if err != nil {
		return TransferInstruction{}, err
	}
	return TransferInstruction{
		From:     from,
		To:       to,
		Lamports: lamports,
	}, nil
}

// Instruction возвращает инструкцию System Program transfer.
func (t TransferInstruction) Instruction() solana.Instruction {
	return system.NewTransferInstruction(t.Lamports, t.From, t.To).Build()
}
