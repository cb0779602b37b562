package catalog

import (
	"fmt"

	"coldb/pkg/container/types"
)

type ColumnDesc struct {
	ID        ColumnID
	Name      string
	Type      types.DataType
	IsPrimary bool
}

func NewColumnDesc(id ColumnID, name string, ty types.DataType) ColumnDesc {
	return ColumnDesc{ID: id, Name: name, Type: ty}
}

func (desc ColumnDesc) String() string {
	s := fmt.Sprintf("%d:%s %s", desc.ID, desc.Name, desc.Type)
	if desc.IsPrimary {
		s += " PRIMARY"
	}
	return s
}

// ValidateColumns checks that a column list can describe a table.
func ValidateColumns(cols []ColumnDesc) error {
	if len(cols) == 0 {
		return fmt.Errorf("%w: no columns", ErrInvalidSchema)
	}
	seen := make(map[ColumnID]bool, len(cols))
	for _, col := range cols {
		if seen[col.ID] {
			return fmt.Errorf("%w: duplicate column id %d", ErrInvalidSchema, col.ID)
		}
		if !col.Type.Kind().IsValid() {
			return fmt.Errorf("%w: column %d has type %s", ErrInvalidSchema, col.ID, col.Type)
		}
		seen[col.ID] = true
	}
	return nil
}

// MockColumns returns n columns cycling through int, varchar, double and
// boolean. Column 0 is the non-null primary key.
func MockColumns(n int) []ColumnDesc {
	kinds := []types.DataTypeKind{types.Int, types.Varchar, types.Double, types.Boolean}
	cols := make([]ColumnDesc, n)
	for i := range cols {
		kind := kinds[i%len(kinds)]
		cols[i] = NewColumnDesc(ColumnID(i), fmt.Sprintf("mock_%d", i), kind.Nullable())
	}
	if n > 0 {
		cols[0].Type = cols[0].Type.Kind().NotNull()
		cols[0].IsPrimary = true
	}
	return cols
}
