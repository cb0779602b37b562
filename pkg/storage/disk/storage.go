package disk

import (
	"fmt"
	"sort"
	"sync"

	"coldb/pkg/catalog"
	"coldb/pkg/common"
	"coldb/pkg/dataio"
	"coldb/pkg/iface/handle"
	"coldb/pkg/storage"
	"coldb/pkg/txn"

	"github.com/panjf2000/ants/v2"
	"github.com/sirupsen/logrus"
)

// DiskStorage is the registry of disk tables. Each table lives under
// <BasePath>/<table id>/.
type DiskStorage struct {
	sync.RWMutex
	opts    *storage.Options
	factory dataio.RowsetFileFactory
	pool    *ants.Pool
	txnMgr  *txn.TxnManager
	tables  map[catalog.TableRefID]*DiskTable
	dirs    map[catalog.TableID]catalog.TableRefID
}

func NewDiskStorage(opts *storage.Options) (*DiskStorage, error) {
	return NewDiskStorageWithFactory(opts, dataio.LocalRowsetFileFactory(opts.SyncOnFlush))
}

func NewDiskStorageWithFactory(opts *storage.Options, factory dataio.RowsetFileFactory) (*DiskStorage, error) {
	opts.FillDefaults()
	pool, err := ants.NewPool(opts.IOWorkers)
	if err != nil {
		return nil, err
	}
	logrus.Infof("disk storage at %s with %d io workers", opts.BasePath, opts.IOWorkers)
	return &DiskStorage{
		opts:    opts,
		factory: factory,
		pool:    pool,
		txnMgr:  txn.NewTxnManager(),
		tables:  make(map[catalog.TableRefID]*DiskTable),
		dirs:    make(map[catalog.TableID]catalog.TableRefID),
	}, nil
}

func (s *DiskStorage) Options() *storage.Options   { return s.opts }
func (s *DiskStorage) TxnManager() *txn.TxnManager { return s.txnMgr }

func (s *DiskStorage) AddTable(id catalog.TableRefID, columns []catalog.ColumnDesc) error {
	if err := catalog.ValidateColumns(columns); err != nil {
		return err
	}
	s.Lock()
	defer s.Unlock()
	if _, ok := s.tables[id]; ok {
		return fmt.Errorf("%w: %s", storage.ErrDuplicateTable, id)
	}
	if other, ok := s.dirs[id.TableID]; ok {
		return fmt.Errorf("%w: %s shares directory %d with %s", storage.ErrDuplicateTable, id, id.TableID, other)
	}
	cols := make([]catalog.ColumnDesc, len(columns))
	copy(cols, columns)
	table := newDiskTable(s, id, cols)
	s.tables[id] = table
	s.dirs[id.TableID] = id
	logrus.Debugf("%s created at %s", id, table.Path())
	return nil
}

func (s *DiskStorage) GetTable(id catalog.TableRefID) (handle.Table, error) {
	table, err := s.GetDiskTable(id)
	if err != nil {
		return nil, err
	}
	return table, nil
}

func (s *DiskStorage) GetDiskTable(id catalog.TableRefID) (*DiskTable, error) {
	s.RLock()
	defer s.RUnlock()
	table, ok := s.tables[id]
	if !ok {
		return nil, &storage.TableNotFoundError{ID: id}
	}
	return table, nil
}

func (s *DiskStorage) TableIDs() []catalog.TableRefID {
	s.RLock()
	ids := make([]catalog.TableRefID, 0, len(s.tables))
	for id := range s.tables {
		ids = append(ids, id)
	}
	s.RUnlock()
	sort.Slice(ids, func(i, j int) bool { return ids[i].Less(ids[j]) })
	return ids
}

func (s *DiskStorage) PPString(level common.PPLevel, depth int, prefix string) string {
	ids := s.TableIDs()
	str := fmt.Sprintf("%s%sDiskStorage<%s>[tables=%d]", common.RepeatStr("\t", depth), prefix, s.opts.BasePath, len(ids))
	if level == common.PPL0 {
		return str
	}
	for _, id := range ids {
		table, err := s.GetDiskTable(id)
		if err != nil {
			continue
		}
		str = fmt.Sprintf("%s\n%s", str, table.PPString(level, depth+1, ""))
	}
	return str
}

func (s *DiskStorage) Close() error {
	s.pool.Release()
	if n := s.txnMgr.ActiveCount(); n > 0 {
		logrus.Warnf("disk storage closed with %d active txns: %v", n, s.txnMgr.ActiveIDs())
	}
	return nil
}
