package dataio

import (
	"bytes"
	"io"
	"path"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// MockFS keeps rowset files in memory. Writes to a file can be made to fail
// with InjectWriteError.
type MockFS struct {
	sync.RWMutex
	files    map[string][]byte
	failures map[string]error
}

func NewMockFS() *MockFS {
	return &MockFS{
		files:    make(map[string][]byte),
		failures: make(map[string]error),
	}
}

// InjectWriteError makes closing any written file with the given base name
// fail with err. A nil err clears the injection.
func (mfs *MockFS) InjectWriteError(name string, err error) {
	mfs.Lock()
	defer mfs.Unlock()
	if err == nil {
		delete(mfs.failures, name)
		return
	}
	mfs.failures[name] = err
}

func (mfs *MockFS) Factory(dir string, id uint32) RowsetFile {
	return &mockRowsetFile{
		fs:   mfs,
		id:   id,
		name: path.Join(dir, strconv.FormatUint(uint64(id), 10)),
	}
}

func (mfs *MockFS) Files() []string {
	mfs.RLock()
	names := make([]string, 0, len(mfs.files))
	for name := range mfs.files {
		names = append(names, name)
	}
	mfs.RUnlock()
	sort.Strings(names)
	return names
}

// Corrupt flips one byte of a stored file.
func (mfs *MockFS) Corrupt(name string, offset int) bool {
	mfs.Lock()
	defer mfs.Unlock()
	buf, ok := mfs.files[name]
	if !ok || offset >= len(buf) {
		return false
	}
	buf[offset] ^= 0xff
	return true
}

type mockRowsetFile struct {
	fs   *MockFS
	id   uint32
	name string
}

func (rf *mockRowsetFile) ID() uint32         { return rf.id }
func (rf *mockRowsetFile) Name() string       { return rf.name }
func (rf *mockRowsetFile) Close() (err error) { return }

func (rf *mockRowsetFile) Create(name string) (io.WriteCloser, error) {
	return &mockFileWriter{fs: rf.fs, name: path.Join(rf.name, name), base: name}, nil
}

func (rf *mockRowsetFile) Open(name string) (io.ReadCloser, error) {
	rf.fs.RLock()
	buf, ok := rf.fs.files[path.Join(rf.name, name)]
	rf.fs.RUnlock()
	if !ok {
		return nil, ErrFileNotFound
	}
	return io.NopCloser(bytes.NewReader(buf)), nil
}

func (rf *mockRowsetFile) Exists(name string) bool {
	rf.fs.RLock()
	defer rf.fs.RUnlock()
	_, ok := rf.fs.files[path.Join(rf.name, name)]
	return ok
}

func (rf *mockRowsetFile) Destroy() error {
	prefix := rf.name + "/"
	rf.fs.Lock()
	defer rf.fs.Unlock()
	for name := range rf.fs.files {
		if strings.HasPrefix(name, prefix) {
			delete(rf.fs.files, name)
		}
	}
	return nil
}

type mockFileWriter struct {
	bytes.Buffer
	fs   *MockFS
	name string
	base string
}

func (w *mockFileWriter) Close() error {
	w.fs.Lock()
	defer w.fs.Unlock()
	if err := w.fs.failures[w.base]; err != nil {
		return err
	}
	w.fs.files[w.name] = w.Bytes()
	return nil
}
