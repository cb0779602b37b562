package txn

import "errors"

var (
	ErrTxnNotCommitting = errors.New("coldb: txn not committing")
	ErrTxnNotActive     = errors.New("coldb: txn not active")
)
