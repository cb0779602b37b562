package txn

import (
	"sync"
	"testing"

	"coldb/pkg/iface/txnif"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTxnCtxCommit(t *testing.T) {
	ctx := NewTxnCtx(7, false)
	assert.True(t, ctx.IsActive())
	assert.False(t, ctx.IsReadOnly())
	assert.Equal(t, "Txn-7[W][Active]", ctx.String())

	assert.ErrorIs(t, ctx.ToCommitted(), ErrTxnNotCommitting)
	require.NoError(t, ctx.ToCommitting())
	assert.ErrorIs(t, ctx.ToCommitting(), ErrTxnNotActive)
	require.NoError(t, ctx.ToCommitted())
	assert.Equal(t, txnif.TxnStateCommitted, ctx.GetTxnState())
	assert.True(t, ctx.IsTerminated())
	assert.ErrorIs(t, ctx.ToRollbacked(), ErrTxnNotActive)
}

func TestTxnCtxRollback(t *testing.T) {
	ctx := NewTxnCtx(1, true)
	require.NoError(t, ctx.ToRollbacked())
	assert.Equal(t, txnif.TxnStateRollbacked, ctx.GetTxnState())
	assert.ErrorIs(t, ctx.ToCommitting(), ErrTxnNotActive)
	assert.Equal(t, "Txn-1[R][Rollbacked]", ctx.String())

	ctx = NewTxnCtx(2, false)
	require.NoError(t, ctx.ToCommitting())
	require.NoError(t, ctx.ToRollbacked())
	assert.True(t, ctx.IsTerminated())
}

func TestTxnCtxRollbacking(t *testing.T) {
	ctx := NewTxnCtx(4, false)
	assert.ErrorIs(t, ctx.ToRollbacking(), ErrTxnNotCommitting)
	require.NoError(t, ctx.ToCommitting())
	require.NoError(t, ctx.ToRollbacking())
	assert.Equal(t, txnif.TxnStateRollbacking, ctx.GetTxnState())
	assert.Equal(t, "Txn-4[W][Rollbacking]", ctx.String())
	assert.False(t, ctx.IsTerminated())
	assert.ErrorIs(t, ctx.ToCommitted(), ErrTxnNotCommitting)
	assert.ErrorIs(t, ctx.ToRollbacking(), ErrTxnNotCommitting)
	require.NoError(t, ctx.ToRollbacked())
	assert.True(t, ctx.IsTerminated())
	assert.Contains(t, ErrTxnNotCommitting.Error(), "committing")
}

func TestTxnCtxConcurrentCommit(t *testing.T) {
	ctx := NewTxnCtx(3, false)
	var wg sync.WaitGroup
	var mu sync.Mutex
	won := 0
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ctx.ToCommitting() == nil {
				mu.Lock()
				won++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, won)
}

func TestTxnManager(t *testing.T) {
	mgr := NewTxnManager()
	t1 := mgr.StartTxn(true)
	t2 := mgr.StartTxn(false)
	t3 := mgr.StartTxn(false)
	assert.Equal(t, uint64(1), t1.GetID())
	assert.Equal(t, []uint64{1, 2, 3}, mgr.ActiveIDs())

	require.NoError(t, t2.ToCommitting())
	assert.Equal(t, 3, mgr.ActiveCount())
	require.NoError(t, t2.ToCommitted())
	require.NoError(t, t1.ToRollbacked())
	assert.Equal(t, []uint64{3}, mgr.ActiveIDs())
	require.NoError(t, t3.ToRollbacked())
	assert.Equal(t, 0, mgr.ActiveCount())
}

var (
	_ txnif.TxnReader  = (*TxnCtx)(nil)
	_ txnif.TxnChanger = (*TxnCtx)(nil)
)
