package handle

import (
	"context"
	"io"

	"coldb/pkg/catalog"
	"coldb/pkg/container/array"
	"coldb/pkg/iface/txnif"
)

type Storage interface {
	io.Closer
	AddTable(id catalog.TableRefID, columns []catalog.ColumnDesc) error
	GetTable(id catalog.TableRefID) (Table, error)
	TableIDs() []catalog.TableRefID
}

type Table interface {
	ID() catalog.TableRefID
	Columns() []catalog.ColumnDesc
	Read() (Txn, error)
	Write() (Txn, error)
}

type TxnReader interface {
	AllChunks(ctx context.Context) ([]*array.DataChunk, error)
	MakeChunkIt(ctx context.Context) ChunkIt
}

type TxnWriter interface {
	Append(chunk *array.DataChunk) error
}

// Txn is owned by one goroutine. Every Txn must end with Commit or
// Rollback.
type Txn interface {
	txnif.TxnReader
	TxnReader
	TxnWriter
	Commit(ctx context.Context) error
	Rollback() error
}
