package memory

import (
	"fmt"
	"sync"

	"coldb/pkg/catalog"
	"coldb/pkg/common"
	"coldb/pkg/iface/handle"
	"coldb/pkg/storage"
	"coldb/pkg/txn"

	"github.com/google/btree"
	"github.com/sirupsen/logrus"
)

type tableNode struct {
	id    catalog.TableRefID
	table *MemTable
}

func (n *tableNode) Less(item btree.Item) bool {
	return n.id.Less(item.(*tableNode).id)
}

// MemStorage keeps committed chunks in memory. Tables are ordered by id.
type MemStorage struct {
	sync.RWMutex
	tree   *btree.BTree
	txnMgr *txn.TxnManager
}

func NewMemStorage() *MemStorage {
	return &MemStorage{
		tree:   btree.New(8),
		txnMgr: txn.NewTxnManager(),
	}
}

func (s *MemStorage) TxnManager() *txn.TxnManager { return s.txnMgr }

func (s *MemStorage) AddTable(id catalog.TableRefID, columns []catalog.ColumnDesc) error {
	if err := catalog.ValidateColumns(columns); err != nil {
		return err
	}
	s.Lock()
	defer s.Unlock()
	if s.tree.Has(&tableNode{id: id}) {
		return fmt.Errorf("%w: %s", storage.ErrDuplicateTable, id)
	}
	cols := make([]catalog.ColumnDesc, len(columns))
	copy(cols, columns)
	s.tree.ReplaceOrInsert(&tableNode{
		id: id,
		table: &MemTable{
			id:      id,
			columns: cols,
			storage: s,
		},
	})
	logrus.Debugf("%s created in memory", id)
	return nil
}

func (s *MemStorage) GetTable(id catalog.TableRefID) (handle.Table, error) {
	table, err := s.GetMemTable(id)
	if err != nil {
		return nil, err
	}
	return table, nil
}

func (s *MemStorage) GetMemTable(id catalog.TableRefID) (*MemTable, error) {
	s.RLock()
	defer s.RUnlock()
	item := s.tree.Get(&tableNode{id: id})
	if item == nil {
		return nil, &storage.TableNotFoundError{ID: id}
	}
	return item.(*tableNode).table, nil
}

func (s *MemStorage) TableIDs() []catalog.TableRefID {
	s.RLock()
	defer s.RUnlock()
	ids := make([]catalog.TableRefID, 0, s.tree.Len())
	s.tree.Ascend(func(item btree.Item) bool {
		ids = append(ids, item.(*tableNode).id)
		return true
	})
	return ids
}

func (s *MemStorage) PPString(level common.PPLevel, depth int, prefix string) string {
	s.RLock()
	defer s.RUnlock()
	str := fmt.Sprintf("%s%sMemStorage[tables=%d]", common.RepeatStr("\t", depth), prefix, s.tree.Len())
	if level == common.PPL0 {
		return str
	}
	s.tree.Ascend(func(item btree.Item) bool {
		str = fmt.Sprintf("%s\n%s", str, item.(*tableNode).table.PPString(level, depth+1, ""))
		return true
	})
	return str
}

func (s *MemStorage) Close() error {
	if n := s.txnMgr.ActiveCount(); n > 0 {
		logrus.Warnf("memory storage closed with %d active txns: %v", n, s.txnMgr.ActiveIDs())
	}
	return nil
}
