package disk

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"coldb/pkg/catalog"
	"coldb/pkg/container/array"
	"coldb/pkg/dataio"
	"coldb/pkg/storage"

	"golang.org/x/sync/errgroup"
)

// DiskRowset is an immutable columnar segment on disk. It is safe for
// concurrent readers.
type DiskRowset struct {
	id      uint32
	rows    uint32
	columns []catalog.ColumnDesc
	file    dataio.RowsetFile
}

// OpenDiskRowset loads a rowset handle from the meta file inside file.
func OpenDiskRowset(file dataio.RowsetFile) (*DiskRowset, error) {
	raw, err := readAll(file, MetaFileName)
	if err != nil {
		return nil, err
	}
	meta, err := decodeMeta(raw)
	if err != nil {
		return nil, storage.NewError("open", filepath.Join(file.Name(), MetaFileName), err)
	}
	if meta.id != file.ID() {
		return nil, storage.NewError("open", file.Name(),
			corrupted("meta records rowset %d", meta.id))
	}
	return &DiskRowset{
		id:      meta.id,
		rows:    meta.rows,
		columns: meta.columns,
		file:    file,
	}, nil
}

func (rs *DiskRowset) ID() uint32                    { return rs.id }
func (rs *DiskRowset) Rows() uint32                  { return rs.rows }
func (rs *DiskRowset) Path() string                  { return rs.file.Name() }
func (rs *DiskRowset) Columns() []catalog.ColumnDesc { return rs.columns }

// AsChunk reads every column file and rebuilds the chunk that was flushed.
func (rs *DiskRowset) AsChunk(ctx context.Context) (*array.DataChunk, error) {
	arrays := make([]array.ArrayImpl, len(rs.columns))
	g, ctx := errgroup.WithContext(ctx)
	for i, col := range rs.columns {
		i, col := i, col
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			name := ColumnFileName(col.ID)
			raw, err := readAll(rs.file, name)
			if err != nil {
				return err
			}
			if arrays[i], err = decodeColumn(col, rs.rows, raw); err != nil {
				return storage.NewError("read", filepath.Join(rs.file.Name(), name), err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return array.NewDataChunk(arrays...)
}

func (rs *DiskRowset) String() string {
	return fmt.Sprintf("Rowset-%d[rows=%d,path=%s]", rs.id, rs.rows, rs.file.Name())
}

func readAll(file dataio.RowsetFile, name string) ([]byte, error) {
	path := filepath.Join(file.Name(), name)
	r, err := file.Open(name)
	if err != nil {
		return nil, storage.NewError("open", path, err)
	}
	defer r.Close()
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, storage.NewError("read", path, err)
	}
	return raw, nil
}
