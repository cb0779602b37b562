package dataio

import (
	"errors"
	"io"
)

var (
	ErrFileNotFound = errors.New("coldb: rowset file not found")
)

type RowsetFileFactory = func(dir string, id uint32) RowsetFile

// RowsetFile is the directory of one rowset. Column and meta files are
// created and opened by name inside it.
type RowsetFile interface {
	io.Closer
	ID() uint32
	Name() string
	Create(name string) (io.WriteCloser, error)
	Open(name string) (io.ReadCloser, error)
	Exists(name string) bool
	Destroy() error
}
