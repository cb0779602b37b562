package dataio

import (
	"bufio"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
)

// LocalRowsetFileFactory lays rowsets out as <dir>/<id>/ on the local
// filesystem. With syncOnClose every written file is fsynced before it is
// closed.
func LocalRowsetFileFactory(syncOnClose bool) RowsetFileFactory {
	return func(dir string, id uint32) RowsetFile {
		return &localRowsetFile{
			id:          id,
			name:        filepath.Join(dir, strconv.FormatUint(uint64(id), 10)),
			syncOnClose: syncOnClose,
		}
	}
}

type localRowsetFile struct {
	id          uint32
	name        string
	syncOnClose bool
}

func (rf *localRowsetFile) ID() uint32         { return rf.id }
func (rf *localRowsetFile) Name() string       { return rf.name }
func (rf *localRowsetFile) Close() (err error) { return }

func (rf *localRowsetFile) Create(name string) (io.WriteCloser, error) {
	if err := os.MkdirAll(rf.name, 0o755); err != nil {
		return nil, err
	}
	f, err := os.Create(filepath.Join(rf.name, name))
	if err != nil {
		return nil, err
	}
	return &localFileWriter{
		Writer: bufio.NewWriter(f),
		f:      f,
		sync:   rf.syncOnClose,
	}, nil
}

func (rf *localRowsetFile) Open(name string) (io.ReadCloser, error) {
	f, err := os.Open(filepath.Join(rf.name, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrFileNotFound
	} else if err != nil {
		return nil, err
	}
	return f, nil
}

func (rf *localRowsetFile) Exists(name string) bool {
	_, err := os.Stat(filepath.Join(rf.name, name))
	return err == nil
}

func (rf *localRowsetFile) Destroy() error {
	return os.RemoveAll(rf.name)
}

type localFileWriter struct {
	*bufio.Writer
	f    *os.File
	sync bool
}

func (w *localFileWriter) Close() (err error) {
	defer func() {
		if cerr := w.f.Close(); err == nil {
			err = cerr
		}
	}()
	if err = w.Flush(); err != nil {
		return
	}
	if w.sync {
		err = w.f.Sync()
	}
	return
}
