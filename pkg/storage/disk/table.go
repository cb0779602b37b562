package disk

import (
	"fmt"
	"path/filepath"
	"strconv"
	"sync"

	"coldb/pkg/catalog"
	"coldb/pkg/common"
	"coldb/pkg/iface/handle"
)

type DiskTable struct {
	sync.RWMutex
	id          catalog.TableRefID
	columns     []catalog.ColumnDesc
	storage     *DiskStorage
	rowsetAlloc *common.IDAllocator
	rowsets     []*DiskRowset
	published   *sync.Cond
	nextPublish uint64
	abandoned   map[uint64]bool
}

func newDiskTable(s *DiskStorage, id catalog.TableRefID, columns []catalog.ColumnDesc) *DiskTable {
	table := &DiskTable{
		id:          id,
		columns:     columns,
		storage:     s,
		rowsetAlloc: common.NewIDAllocator(0),
		abandoned:   make(map[uint64]bool),
	}
	table.published = sync.NewCond(&table.RWMutex)
	return table
}

func (t *DiskTable) ID() catalog.TableRefID { return t.id }

func (t *DiskTable) Columns() []catalog.ColumnDesc {
	cols := make([]catalog.ColumnDesc, len(t.columns))
	copy(cols, t.columns)
	return cols
}

func (t *DiskTable) Path() string {
	return filepath.Join(t.storage.opts.BasePath, strconv.FormatUint(uint64(t.id.TableID), 10))
}

func (t *DiskTable) RowsetPathOf(id uint32) string {
	return filepath.Join(t.Path(), strconv.FormatUint(uint64(id), 10))
}

func (t *DiskTable) Read() (handle.Txn, error)  { return t.begin(true), nil }
func (t *DiskTable) Write() (handle.Txn, error) { return t.begin(false), nil }

// Rowsets returns the committed rowsets in commit order.
func (t *DiskTable) Rowsets() []*DiskRowset {
	t.RLock()
	defer t.RUnlock()
	return t.rowsetsLocked()
}

func (t *DiskTable) rowsetsLocked() []*DiskRowset {
	rowsets := make([]*DiskRowset, len(t.rowsets))
	copy(rowsets, t.rowsets)
	return rowsets
}

func (t *DiskTable) begin(readOnly bool) *DiskTxn {
	ctx := t.storage.txnMgr.StartTxn(readOnly)
	t.RLock()
	snapshot := t.rowsetsLocked()
	t.RUnlock()
	return newDiskTxn(ctx, t, snapshot)
}

// publish appends rs once every lower rowset id has been published or
// abandoned. The list only grows at its tail and stays in id order.
func (t *DiskTable) publish(id uint64, rs *DiskRowset) {
	t.Lock()
	defer t.Unlock()
	for t.nextPublish != id {
		t.published.Wait()
	}
	t.rowsets = append(t.rowsets, rs)
	t.advanceLocked()
}

// abandon gives up a rowset id whose flush failed.
func (t *DiskTable) abandon(id uint64) {
	t.Lock()
	defer t.Unlock()
	if id != t.nextPublish {
		t.abandoned[id] = true
		return
	}
	t.advanceLocked()
}

func (t *DiskTable) advanceLocked() {
	t.nextPublish++
	for t.abandoned[t.nextPublish] {
		delete(t.abandoned, t.nextPublish)
		t.nextPublish++
	}
	t.published.Broadcast()
}

func (t *DiskTable) String() string {
	return fmt.Sprintf("DiskTable<%s>", t.id)
}

func (t *DiskTable) PPString(level common.PPLevel, depth int, prefix string) string {
	rowsets := t.Rowsets()
	s := fmt.Sprintf("%s%s%s[columns=%d,rowsets=%d,next=%d]", common.RepeatStr("\t", depth), prefix,
		t.String(), len(t.columns), len(rowsets), t.rowsetAlloc.Peek())
	if level == common.PPL0 {
		return s
	}
	if level == common.PPL2 {
		for _, col := range t.columns {
			s = fmt.Sprintf("%s\n%scolumn %s", s, common.RepeatStr("\t", depth+1), col.String())
		}
	}
	for _, rs := range rowsets {
		s = fmt.Sprintf("%s\n%s%s", s, common.RepeatStr("\t", depth+1), rs.String())
	}
	return s
}
