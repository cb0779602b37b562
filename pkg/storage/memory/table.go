package memory

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"coldb/pkg/catalog"
	"coldb/pkg/common"
	"coldb/pkg/container/array"
	"coldb/pkg/iface/handle"
	"coldb/pkg/storage"
	"coldb/pkg/txn"

	"github.com/sirupsen/logrus"
)

type MemTable struct {
	sync.RWMutex
	id      catalog.TableRefID
	columns []catalog.ColumnDesc
	chunks  []*array.DataChunk
	storage *MemStorage
}

func (t *MemTable) ID() catalog.TableRefID { return t.id }

func (t *MemTable) Columns() []catalog.ColumnDesc {
	cols := make([]catalog.ColumnDesc, len(t.columns))
	copy(cols, t.columns)
	return cols
}

func (t *MemTable) Read() (handle.Txn, error)  { return t.begin(true), nil }
func (t *MemTable) Write() (handle.Txn, error) { return t.begin(false), nil }

func (t *MemTable) ChunkCount() int {
	t.RLock()
	defer t.RUnlock()
	return len(t.chunks)
}

func (t *MemTable) begin(readOnly bool) *MemTxn {
	ctx := t.storage.txnMgr.StartTxn(readOnly)
	t.RLock()
	snapshot := make([]*array.DataChunk, len(t.chunks))
	copy(snapshot, t.chunks)
	t.RUnlock()
	mt := &MemTxn{TxnCtx: ctx, table: t, snapshot: snapshot}
	runtime.SetFinalizer(mt, func(mt *MemTxn) {
		if mt.ToRollbacked() == nil {
			logrus.Warnf("%s on %s dropped without commit or rollback", mt.TxnCtx.String(), t)
		}
	})
	return mt
}

func (t *MemTable) String() string {
	return fmt.Sprintf("MemTable<%s>", t.id)
}

func (t *MemTable) PPString(level common.PPLevel, depth int, prefix string) string {
	t.RLock()
	defer t.RUnlock()
	rows := 0
	for _, chunk := range t.chunks {
		rows += chunk.Cardinality()
	}
	return fmt.Sprintf("%s%s%s[columns=%d,chunks=%d,rows=%d]", common.RepeatStr("\t", depth), prefix,
		t.String(), len(t.columns), len(t.chunks), rows)
}

// MemTxn publishes its appended chunks to the table on Commit.
type MemTxn struct {
	*txn.TxnCtx
	table    *MemTable
	snapshot []*array.DataChunk
	pending  []*array.DataChunk
}

func (t *MemTxn) Append(chunk *array.DataChunk) error {
	if !t.IsActive() {
		return txn.ErrTxnNotActive
	}
	if t.IsReadOnly() {
		return storage.ErrReadOnlyTxn
	}
	if err := storage.CheckChunk(t.table.columns, chunk); err != nil {
		return err
	}
	t.pending = append(t.pending, chunk)
	return nil
}

func (t *MemTxn) Commit(ctx context.Context) error {
	if err := t.ToCommitting(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		t.ToRollbacked()
		return err
	}
	if len(t.pending) > 0 {
		t.table.Lock()
		t.table.chunks = append(t.table.chunks, t.pending...)
		t.table.Unlock()
		logrus.Debugf("%s committed %d chunks to %s", t.TxnCtx.String(), len(t.pending), t.table)
	}
	t.pending = nil
	return t.ToCommitted()
}

func (t *MemTxn) Rollback() error {
	if err := t.ToRollbacked(); err != nil {
		return err
	}
	t.pending = nil
	logrus.Debugf("%s rollbacked", t.TxnCtx.String())
	return nil
}

func (t *MemTxn) AllChunks(ctx context.Context) ([]*array.DataChunk, error) {
	if !t.IsActive() {
		return nil, txn.ErrTxnNotActive
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	chunks := make([]*array.DataChunk, len(t.snapshot))
	copy(chunks, t.snapshot)
	return chunks, nil
}

func (t *MemTxn) MakeChunkIt(ctx context.Context) handle.ChunkIt {
	return &chunkIt{ctx: ctx, txn: t}
}

type chunkIt struct {
	ctx context.Context
	txn *MemTxn
	pos int
}

func (it *chunkIt) Valid() bool  { return it.pos < len(it.txn.snapshot) }
func (it *chunkIt) Next()        { it.pos++ }
func (it *chunkIt) Close() error { return nil }

func (it *chunkIt) GetChunk() (*array.DataChunk, error) {
	if !it.txn.IsActive() {
		return nil, txn.ErrTxnNotActive
	}
	if err := it.ctx.Err(); err != nil {
		return nil, err
	}
	return it.txn.snapshot[it.pos], nil
}
