package txn

import (
	"fmt"

	"coldb/pkg/iface/txnif"

	"go.uber.org/atomic"
)

// TxnCtx carries the identity and state machine shared by every backend's
// transactions. State moves Active -> Committing -> Committed. A failed
// commit goes Committing -> Rollbacking while it cleans up, then Rollbacked.
// Rollbacked is also reachable directly from Active or Committing.
// Transitions are lock-free.
type TxnCtx struct {
	ID       uint64
	ReadOnly bool
	state    *atomic.Int32
	mgr      *TxnManager
}

func NewTxnCtx(id uint64, readOnly bool) *TxnCtx {
	return &TxnCtx{
		ID:       id,
		ReadOnly: readOnly,
		state:    atomic.NewInt32(txnif.TxnStateActive),
	}
}

func (ctx *TxnCtx) GetID() uint64      { return ctx.ID }
func (ctx *TxnCtx) IsReadOnly() bool   { return ctx.ReadOnly }
func (ctx *TxnCtx) GetTxnState() int32 { return ctx.state.Load() }
func (ctx *TxnCtx) IsActive() bool     { return ctx.state.Load() == txnif.TxnStateActive }

func (ctx *TxnCtx) IsTerminated() bool {
	state := ctx.state.Load()
	return state == txnif.TxnStateCommitted || state == txnif.TxnStateRollbacked
}

func (ctx *TxnCtx) ToCommitting() error {
	if !ctx.state.CAS(txnif.TxnStateActive, txnif.TxnStateCommitting) {
		return ErrTxnNotActive
	}
	return nil
}

func (ctx *TxnCtx) ToCommitted() error {
	if !ctx.state.CAS(txnif.TxnStateCommitting, txnif.TxnStateCommitted) {
		return ErrTxnNotCommitting
	}
	ctx.onTerminated()
	return nil
}

func (ctx *TxnCtx) ToRollbacking() error {
	if !ctx.state.CAS(txnif.TxnStateCommitting, txnif.TxnStateRollbacking) {
		return ErrTxnNotCommitting
	}
	return nil
}

func (ctx *TxnCtx) ToRollbacked() error {
	if ctx.state.CAS(txnif.TxnStateActive, txnif.TxnStateRollbacked) ||
		ctx.state.CAS(txnif.TxnStateCommitting, txnif.TxnStateRollbacked) ||
		ctx.state.CAS(txnif.TxnStateRollbacking, txnif.TxnStateRollbacked) {
		ctx.onTerminated()
		return nil
	}
	return ErrTxnNotActive
}

func (ctx *TxnCtx) onTerminated() {
	if ctx.mgr != nil {
		ctx.mgr.deregister(ctx.ID)
	}
}

func (ctx *TxnCtx) String() string {
	kind := "W"
	if ctx.ReadOnly {
		kind = "R"
	}
	return fmt.Sprintf("Txn-%d[%s][%s]", ctx.ID, kind, txnif.TxnStrState(ctx.GetTxnState()))
}
