package db

import (
	"context"
	"fmt"
	"time"

	"coldb/pkg/catalog"
	"coldb/pkg/container/array"
	"coldb/pkg/iface/handle"
	"coldb/pkg/storage"
	"coldb/pkg/storage/disk"
	"coldb/pkg/storage/memory"

	"github.com/sirupsen/logrus"
	"go.uber.org/atomic"
)

// DB runs each call in its own transaction on the configured backend.
type DB struct {
	Opts    *storage.Options
	Storage handle.Storage
	closed  *atomic.Bool
}

func Open(opts *storage.Options) (*DB, error) {
	opts.FillDefaults()
	level, err := logrus.ParseLevel(opts.LogLevel)
	if err != nil {
		return nil, err
	}
	logrus.SetLevel(level)

	var s handle.Storage
	switch opts.Backend {
	case storage.DiskBackend:
		if s, err = disk.NewDiskStorage(opts); err != nil {
			return nil, err
		}
	case storage.MemoryBackend:
		s = memory.NewMemStorage()
	default:
		return nil, fmt.Errorf("%w: %q", storage.ErrUnknownBackend, opts.Backend)
	}
	logrus.Infof("coldb opened with %s backend", opts.Backend)
	return &DB{
		Opts:    opts,
		Storage: s,
		closed:  atomic.NewBool(false),
	}, nil
}

func OpenWithConfig(path string) (*DB, error) {
	opts, err := storage.LoadOptions(path)
	if err != nil {
		return nil, err
	}
	return Open(opts)
}

func (db *DB) CreateTable(desc *CreateTableDesc) error {
	if db.closed.Load() {
		return ErrClosed
	}
	return db.Storage.AddTable(desc.ID, desc.Columns)
}

// AppendRows writes all chunks in one transaction. Nothing is visible if
// any chunk is rejected.
func (db *DB) AppendRows(ctx context.Context, desc *AppendDesc) (err error) {
	if db.closed.Load() {
		return ErrClosed
	}
	table, err := db.Storage.GetTable(desc.Table)
	if err != nil {
		return err
	}
	txn, err := table.Write()
	if err != nil {
		return err
	}
	now := time.Now()
	for _, chunk := range desc.Chunks {
		if err = txn.Append(chunk); err != nil {
			txn.Rollback()
			return
		}
	}
	if err = txn.Commit(ctx); err != nil {
		return
	}
	logrus.Debugf("%s append %d chunks takes: %s", txn.String(), len(desc.Chunks), time.Since(now))
	return
}

func (db *DB) Append(ctx context.Context, id catalog.TableRefID, chunks ...*array.DataChunk) error {
	return db.AppendRows(ctx, &AppendDesc{Table: id, Chunks: chunks})
}

// Scan returns every committed chunk of a table as of the call.
func (db *DB) Scan(ctx context.Context, id catalog.TableRefID) ([]*array.DataChunk, error) {
	if db.closed.Load() {
		return nil, ErrClosed
	}
	table, err := db.Storage.GetTable(id)
	if err != nil {
		return nil, err
	}
	txn, err := table.Read()
	if err != nil {
		return nil, err
	}
	chunks, err := txn.AllChunks(ctx)
	if err != nil {
		txn.Rollback()
		return nil, err
	}
	return chunks, txn.Commit(ctx)
}

func (db *DB) Close() error {
	if !db.closed.CAS(false, true) {
		return ErrClosed
	}
	return db.Storage.Close()
}
