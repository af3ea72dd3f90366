package solbc

import (
	"errors"
	"strings"

	"github.com/gagliardetto/solana-go/rpc/jsonrpc"
)

const (
	MsgInsufficientFunds = "insufficient funds"
	MsgBlockhashExpired  = "blockhash not found, please retry"
)

// SendError – ошибка отправки транзакции в понятном пользователю виде.
// Исходная RPC-ошибка доступна через Unwrap.
type SendError struct {
	Message string
	Code    int
	Logs    []string
	Err     error
}

func (e *SendError) Error() string {
	return e.Message
}

func (e *SendError) Unwrap() error {
	return e.Err
}

// AnalyzeSendError разбирает ошибку preflight-симуляции и сводит её к короткому сообщению.
// Ошибки, не являющиеся jsonrpc.RPCError, возвращаются без изменений.
func AnalyzeSendError(err error) error {
	if err == nil {
		return nil
	}

	var rpcErr *jsonrpc.RPCError
	if !errors.As(err, &rpcErr) {
		return err
	}

	logs := simulationLogs(rpcErr.Data)
	return &SendError{
		Message: describe(rpcErr.Message, logs),
		Code:    rpcErr.Code,
		Logs:    logs,
		Err:     err,
	}
}

func describe(message string, logs []string) string {
	lower := strings.ToLower(message)
	switch {
	case strings.Contains(lower, "found no record of a prior credit"),
		strings.Contains(lower, "insufficient funds"):
		return MsgInsufficientFunds
	case strings.Contains(lower, "blockhash not found"):
		return MsgBlockhashExpired
	}

	for _, line := range logs {
		if strings.Contains(strings.ToLower(line), "insufficient lamports") {
			return MsgInsufficientFunds
		}
	}

	message = strings.TrimPrefix(message, "Transaction simulation failed: ")
	if message == "" {
		return "transaction rejected by RPC node"
	}
	return message
}

func simulationLogs(data interface{}) []string {
	dataMap, ok := data.(map[string]interface{})
	if !ok {
		return nil
	}
	rawLogs, ok := dataMap["logs"].([]interface{})
	if !ok {
		return nil
	}

	logs := make([]string, 0, len(rawLogs))
	for _, entry := range rawLogs {
		if line, ok := entry.(string); ok {
			logs = append(logs, line)
		}
	}
	return logs
}
