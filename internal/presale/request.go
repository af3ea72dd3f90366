// internal/presale/request.go
package presale

import "github.com/shopspring/decimal"

// PurchaseRequest – снимок пользовательского ввода.
type PurchaseRequest struct {
	Raw    string
	Amount decimal.Decimal
}

// NewPurchaseRequest сохраняет ввод как есть и вычисляет сумму.
func NewPurchaseRequest(raw string) PurchaseRequest {
	return PurchaseRequest{
		Raw:    raw,
		Amount: ParseAmount(raw),
	}
}
