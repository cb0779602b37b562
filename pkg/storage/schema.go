package storage

import (
	"fmt"

	"coldb/pkg/catalog"
	"coldb/pkg/container/array"
)

// CheckChunk verifies that chunk can be stored in a table with columns cols:
// same column count, matching array kinds and no nulls in non-null columns.
func CheckChunk(cols []catalog.ColumnDesc, chunk *array.DataChunk) error {
	if chunk.ColumnCount() != len(cols) {
		return fmt.Errorf("%w: %d arrays for %d columns", ErrSchemaMismatch, chunk.ColumnCount(), len(cols))
	}
	for i, col := range cols {
		kind, err := array.KindOfType(col.Type)
		if err != nil {
			return fmt.Errorf("%w: column %s: %v", ErrSchemaMismatch, col.Name, err)
		}
		a := chunk.Array(i)
		if a.Kind() != kind {
			return fmt.Errorf("%w: column %s expects %s, got %s", ErrSchemaMismatch, col.Name, kind, a.Kind())
		}
		if !col.Type.IsNullable() && a.NullCount() > 0 {
			return fmt.Errorf("%w: column %s is %s but has %d nulls", ErrSchemaMismatch, col.Name, col.Type, a.NullCount())
		}
	}
	return nil
}
