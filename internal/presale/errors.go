// internal/presale/errors.go
package presale

import (
	"errors"
	"fmt"
)

var (
	ErrWalletNotConnected       = errors.New("wallet not connected")
	ErrDestinationNotConfigured = errors.New("destination not configured")
	ErrInvalidAmount            = errors.New("invalid amount")
	ErrInvalidDestination       = errors.New("invalid destination address")
	ErrSubmissionInFlight       = errors.New("submission already in progress")

	// ErrAmountTooLarge – сумма не представима в лампортах (uint64).
	ErrAmountTooLarge = fmt.Errorf("%w: exceeds lamport range", ErrInvalidAmount)
)

// FallbackSubmissionMessage используется, когда кошелёк вернул ошибку без описания.
const FallbackSubmissionMessage = "transaction failed"

// SubmissionError – отказ кошелька при подписи или отправке.
// Error() возвращает Reason без изменений, чтобы сообщение попало к пользователю дословно.
type SubmissionError struct {
	Reason string
	Err    error
}

func (e *SubmissionError) Error() string {
	return e.Reason
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}

func newSubmissionError(err error) *SubmissionError {
	reason := FallbackSubmissionMessage
	if err != nil && err.Error() != "" {
		reason = err.Error()
	}
	return &SubmissionError{Reason: reason, Err: err}
}
