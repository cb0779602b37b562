package txn

import (
	"sort"
	"sync"

	"coldb/pkg/common"
	"coldb/pkg/iface/txnif"

	"github.com/sirupsen/logrus"
)

// TxnManager allocates transaction ids and tracks the transactions that have
// not terminated yet.
type TxnManager struct {
	sync.RWMutex
	Active  map[uint64]txnif.TxnReader
	IdAlloc *common.IDAllocator
}

func NewTxnManager() *TxnManager {
	return &TxnManager{
		Active:  make(map[uint64]txnif.TxnReader),
		IdAlloc: common.NewIDAllocator(1),
	}
}

func (mgr *TxnManager) StartTxn(readOnly bool) *TxnCtx {
	ctx := NewTxnCtx(mgr.IdAlloc.Alloc(), readOnly)
	ctx.mgr = mgr
	mgr.Lock()
	mgr.Active[ctx.ID] = ctx
	mgr.Unlock()
	logrus.Debugf("%s started", ctx.String())
	return ctx
}

func (mgr *TxnManager) deregister(id uint64) {
	mgr.Lock()
	delete(mgr.Active, id)
	mgr.Unlock()
}

func (mgr *TxnManager) ActiveCount() int {
	mgr.RLock()
	defer mgr.RUnlock()
	return len(mgr.Active)
}

func (mgr *TxnManager) ActiveIDs() []uint64 {
	mgr.RLock()
	ids := make([]uint64, 0, len(mgr.Active))
	for id := range mgr.Active {
		ids = append(ids, id)
	}
	mgr.RUnlock()
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
