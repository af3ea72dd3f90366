// internal/presale/outcome.go
package presale

// OutcomeState is the tag of an Outcome.
type OutcomeState int

const (
	StateIdle OutcomeState = iota
	StatePending
	StateSucceeded
	StateFailed
)

func (s OutcomeState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePending:
		return "pending"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Outcome – результат последней попытки покупки.
// TxID заполнен только для StateSucceeded, Message только для StateFailed.
type Outcome struct {
	State   OutcomeState
	TxID    string
	Message string
}

func idle() Outcome { return Outcome{State: StateIdle} }

func pending() Outcome { return Outcome{State: StatePending} }

func succeeded(txID string) Outcome {
	return Outcome{State: StateSucceeded, TxID: txID}
}

func failed(message string) Outcome {
	return Outcome{State: StateFailed, Message: message}
}

// IsTerminal reports whether the outcome is Succeeded or Failed.
func (o Outcome) IsTerminal() bool {
	return o.State == StateSucceeded || o.State == StateFailed
}
