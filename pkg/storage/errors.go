package storage

import (
	"errors"
	"fmt"

	"coldb/pkg/catalog"
)

var (
	ErrTableNotFound     = errors.New("coldb: table not found")
	ErrDuplicateTable    = errors.New("coldb: duplicate table")
	ErrReadOnlyTxn       = errors.New("coldb: append on read-only txn")
	ErrSchemaMismatch    = errors.New("coldb: chunk does not match table schema")
	ErrInvalidSchema     = catalog.ErrInvalidSchema
	ErrRowsetIDExhausted = errors.New("coldb: rowset id exhausted")
	ErrCorruptedRowset   = errors.New("coldb: corrupted rowset")
	ErrUnknownBackend    = errors.New("coldb: unknown storage backend")
)

type TableNotFoundError struct {
	ID catalog.TableRefID
}

func (e *TableNotFoundError) Error() string {
	return fmt.Sprintf("coldb: table %s not found", e.ID)
}

func (e *TableNotFoundError) Is(target error) bool {
	return target == ErrTableNotFound
}

// Error records a failed storage I/O step and the file it touched.
type Error struct {
	Op   string
	Path string
	Err  error
}

func NewError(op, path string, err error) *Error {
	return &Error{Op: op, Path: path, Err: err}
}

func (e *Error) Error() string {
	return fmt.Sprintf("coldb: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }
