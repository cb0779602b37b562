package disk

import (
	"context"
	"path/filepath"
	"time"

	"coldb/pkg/catalog"
	"coldb/pkg/container/array"
	"coldb/pkg/dataio"
	"coldb/pkg/storage"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// RowsetBuilder accumulates the chunks of one write transaction. Flush
// turns them into a DiskRowset.
type RowsetBuilder struct {
	columns  []catalog.ColumnDesc
	builders []*array.ArrayBuilderImpl
	rows     int
	workers  int
}

func NewRowsetBuilder(columns []catalog.ColumnDesc, workers int) (*RowsetBuilder, error) {
	builders := make([]*array.ArrayBuilderImpl, len(columns))
	for i, col := range columns {
		b, err := array.NewArrayBuilder(0, col.Type)
		if err != nil {
			return nil, err
		}
		builders[i] = b
	}
	return &RowsetBuilder{
		columns:  columns,
		builders: builders,
		workers:  workers,
	}, nil
}

func (b *RowsetBuilder) Rows() int { return b.rows }

// Append validates chunk against the column schema before touching any
// builder.
func (b *RowsetBuilder) Append(chunk *array.DataChunk) error {
	if err := storage.CheckChunk(b.columns, chunk); err != nil {
		return err
	}
	for i, a := range chunk.Arrays() {
		if err := b.builders[i].Append(a); err != nil {
			return err
		}
	}
	b.rows += chunk.Cardinality()
	return nil
}

// Flush writes one file per column and then the meta file. The builder is
// consumed. On failure the caller owns removing what was written under file.
func (b *RowsetBuilder) Flush(ctx context.Context, id uint32, file dataio.RowsetFile) (rs *DiskRowset, err error) {
	now := time.Now()
	arrays := make([]array.ArrayImpl, len(b.builders))
	for i, builder := range b.builders {
		arrays[i] = builder.Finish()
	}
	b.builders = nil

	g, gctx := errgroup.WithContext(ctx)
	if b.workers > 0 {
		g.SetLimit(b.workers)
	}
	for i, col := range b.columns {
		col, a := col, arrays[i]
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			buf, err := encodeColumn(col, a)
			if err != nil {
				return storage.NewError("encode", filepath.Join(file.Name(), ColumnFileName(col.ID)), err)
			}
			return writeFile(file, ColumnFileName(col.ID), buf)
		})
	}
	if err = g.Wait(); err != nil {
		return
	}
	if err = ctx.Err(); err != nil {
		return
	}
	meta := &rowsetMeta{id: id, rows: uint32(b.rows), columns: b.columns}
	buf, err := encodeMeta(meta)
	if err != nil {
		err = storage.NewError("encode", filepath.Join(file.Name(), MetaFileName), err)
		return
	}
	if err = writeFile(file, MetaFileName, buf); err != nil {
		return
	}
	rs = &DiskRowset{
		id:      id,
		rows:    meta.rows,
		columns: b.columns,
		file:    file,
	}
	logrus.Debugf("%s flushed %d columns, takes: %s", rs, len(b.columns), time.Since(now))
	return
}

func writeFile(file dataio.RowsetFile, name string, buf []byte) error {
	path := filepath.Join(file.Name(), name)
	w, err := file.Create(name)
	if err != nil {
		return storage.NewError("create", path, err)
	}
	if _, err = w.Write(buf); err != nil {
		w.Close()
		return storage.NewError("write", path, err)
	}
	if err = w.Close(); err != nil {
		return storage.NewError("write", path, err)
	}
	return nil
}
