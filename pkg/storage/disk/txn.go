package disk

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sync"
	"time"

	"coldb/pkg/container/array"
	"coldb/pkg/dataio"
	"coldb/pkg/iface/handle"
	"coldb/pkg/storage"
	"coldb/pkg/txn"

	"github.com/sirupsen/logrus"
)

// DiskTxn reads the rowsets that were committed when it began. A write
// DiskTxn also buffers appended chunks and publishes them as one rowset on
// Commit.
type DiskTxn struct {
	*txn.TxnCtx
	table    *DiskTable
	snapshot []*DiskRowset
	builder  *RowsetBuilder
}

func newDiskTxn(ctx *txn.TxnCtx, table *DiskTable, snapshot []*DiskRowset) *DiskTxn {
	t := &DiskTxn{
		TxnCtx:   ctx,
		table:    table,
		snapshot: snapshot,
	}
	runtime.SetFinalizer(t, func(t *DiskTxn) {
		if t.ToRollbacked() == nil {
			logrus.Warnf("%s on %s dropped without commit or rollback", t.TxnCtx.String(), t.table)
		}
	})
	return t
}

// SnapshotRowsetIDs lists the rowsets visible to this transaction.
func (t *DiskTxn) SnapshotRowsetIDs() []uint32 {
	ids := make([]uint32, len(t.snapshot))
	for i, rs := range t.snapshot {
		ids[i] = rs.ID()
	}
	return ids
}

func (t *DiskTxn) Append(chunk *array.DataChunk) error {
	if !t.IsActive() {
		return txn.ErrTxnNotActive
	}
	if t.IsReadOnly() {
		return storage.ErrReadOnlyTxn
	}
	if t.builder == nil {
		builder, err := NewRowsetBuilder(t.table.columns, t.table.storage.opts.IOWorkers)
		if err != nil {
			return err
		}
		t.builder = builder
	}
	return t.builder.Append(chunk)
}

func (t *DiskTxn) Commit(ctx context.Context) error {
	if err := t.ToCommitting(); err != nil {
		return err
	}
	builder := t.builder
	t.builder = nil
	if builder == nil {
		logrus.Debugf("%s committed without data", t.TxnCtx.String())
		return t.ToCommitted()
	}
	now := time.Now()
	next := t.table.rowsetAlloc.Alloc()
	if next > math.MaxUint32 {
		t.table.abandon(next)
		t.ToRollbacked()
		return fmt.Errorf("%w: %s", storage.ErrRowsetIDExhausted, t.table)
	}
	id := uint32(next)
	file := t.table.storage.factory(t.table.Path(), id)
	rs, err := builder.Flush(ctx, id, file)
	if err != nil {
		t.onFlushFailed(next, file, err)
		return err
	}
	t.table.publish(next, rs)
	logrus.Debugf("%s committed %s, takes: %s", t.TxnCtx.String(), rs, time.Since(now))
	return t.ToCommitted()
}

func (t *DiskTxn) onFlushFailed(id uint64, file dataio.RowsetFile, cause error) {
	t.ToRollbacking()
	logrus.Warnf("%s commit on %s failed: %v", t.TxnCtx.String(), t.table, cause)
	if err := file.Destroy(); err != nil {
		logrus.Warnf("destroy partial rowset %s: %v", file.Name(), err)
	}
	t.table.abandon(id)
	t.ToRollbacked()
}

func (t *DiskTxn) Rollback() error {
	if err := t.ToRollbacked(); err != nil {
		return err
	}
	t.builder = nil
	logrus.Debugf("%s rollbacked", t.TxnCtx.String())
	return nil
}

// AllChunks loads the snapshot rowsets on the storage io pool and returns
// their chunks in commit order.
func (t *DiskTxn) AllChunks(ctx context.Context) ([]*array.DataChunk, error) {
	if !t.IsActive() {
		return nil, txn.ErrTxnNotActive
	}
	chunks := make([]*array.DataChunk, len(t.snapshot))
	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)
	setErr := func(err error) {
		errOnce.Do(func() { firstErr = err })
	}
	for i, rs := range t.snapshot {
		i, rs := i, rs
		wg.Add(1)
		err := t.table.storage.pool.Submit(func() {
			defer wg.Done()
			chunk, err := rs.AsChunk(ctx)
			if err != nil {
				setErr(err)
				return
			}
			chunks[i] = chunk
		})
		if err != nil {
			wg.Done()
			setErr(err)
			break
		}
	}
	wg.Wait()
	if firstErr != nil {
		return nil, firstErr
	}
	return chunks, nil
}

func (t *DiskTxn) MakeChunkIt(ctx context.Context) handle.ChunkIt {
	return &chunkIt{ctx: ctx, txn: t}
}

type chunkIt struct {
	ctx context.Context
	txn *DiskTxn
	pos int
}

func (it *chunkIt) Valid() bool  { return it.pos < len(it.txn.snapshot) }
func (it *chunkIt) Next()        { it.pos++ }
func (it *chunkIt) Close() error { return nil }

func (it *chunkIt) GetChunk() (*array.DataChunk, error) {
	if !it.txn.IsActive() {
		return nil, txn.ErrTxnNotActive
	}
	return it.txn.snapshot[it.pos].AsChunk(it.ctx)
}
