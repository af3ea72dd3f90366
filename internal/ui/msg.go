package ui

// Tea message types for UI communication

// SubmitResultMsg завершает попытку покупки. Err nil означает успех.
type SubmitResultMsg struct {
	Err error
}

// BalanceMsg carries the connected wallet balance in lamports.
type BalanceMsg struct {
	Lamports uint64
	Err      error
}
