package catalog

import (
	"sort"
	"testing"

	"coldb/pkg/container/types"

	"github.com/stretchr/testify/assert"
)

func TestTableRefID(t *testing.T) {
	ids := []TableRefID{
		NewTableRefID(1, 2),
		NewTableRefID(0, 9),
		NewTableRefID(1, 0),
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].Less(ids[j]) })
	assert.Equal(t, []TableRefID{{0, 9}, {1, 0}, {1, 2}}, ids)
	assert.Equal(t, "Table<1-2>", NewTableRefID(1, 2).String())

	m := map[TableRefID]int{NewTableRefID(1, 2): 1}
	assert.Equal(t, 1, m[TableRefID{SchemaID: 1, TableID: 2}])
}

func TestValidateColumns(t *testing.T) {
	cols := MockColumns(5)
	assert.NoError(t, ValidateColumns(cols))
	assert.True(t, cols[0].IsPrimary)
	assert.False(t, cols[0].Type.IsNullable())
	assert.Equal(t, types.Boolean, cols[3].Type.Kind())
	assert.Equal(t, types.Int, cols[4].Type.Kind())
	t.Log(cols)

	assert.ErrorIs(t, ValidateColumns(nil), ErrInvalidSchema)
	dup := append(MockColumns(2), NewColumnDesc(1, "again", types.Int.Nullable()))
	assert.ErrorIs(t, ValidateColumns(dup), ErrInvalidSchema)
	bad := []ColumnDesc{NewColumnDesc(0, "x", types.NewDataType(0, true))}
	assert.ErrorIs(t, ValidateColumns(bad), ErrInvalidSchema)
}
