package solbc

import (
	"errors"

	"github.com/gagliardetto/solana-go/rpc/jsonrpc"
)

// Коды JSON-RPC ошибок узла, после которых запрос имеет смысл повторить.
const (
	codeInternalError        = -32603
	codeBlockNotAvailable    = -32004
	codeNodeUnhealthy        = -32005
	codeMinContextSlotNotMet = -32016
)

// IsPermanentRPCError сообщает, что узел отклонил сам запрос (неверные параметры,
// неподдерживаемый метод и т.п.) и повтор даст тот же результат.
func IsPermanentRPCError(err error) bool {
	var rpcErr *jsonrpc.RPCError
	if !errors.As(err, &rpcErr) {
		return false
	}
	switch rpcErr.Code {
	case codeInternalError, codeBlockNotAvailable, codeNodeUnhealthy, codeMinContextSlotNotMet:
		return false
	}
	return true
}
