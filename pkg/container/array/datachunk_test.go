package array

import (
	"strings"
	"testing"

	"coldb/pkg/container/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mockChunk(ids []int32, names []string) *DataChunk {
	return MustNewDataChunk(FromSlice(ids), Utf8FromSlice(names))
}

func TestNewDataChunk(t *testing.T) {
	chunk, err := NewDataChunk(FromSlice([]int32{1, 2, 3}), Utf8FromSlice([]string{"a", "b", "c"}))
	require.NoError(t, err)
	assert.Equal(t, 3, chunk.Cardinality())
	assert.Equal(t, 2, chunk.ColumnCount())
	assert.Equal(t, Int32Kind, chunk.Array(0).Kind())
	assert.Equal(t, []types.DataValue{types.NewInt32(2), types.NewString("b")}, chunk.Row(1))

	_, err = NewDataChunk()
	assert.ErrorIs(t, err, ErrEmptyChunk)

	_, err = NewDataChunk(FromSlice([]int32{1, 2, 3}), Utf8FromSlice([]string{"a"}))
	assert.ErrorIs(t, err, ErrLengthMismatch)
	assert.Panics(t, func() { MustNewDataChunk() })

	arrays := []ArrayImpl{FromSlice([]int32{1})}
	chunk = MustNewDataChunk(arrays...)
	arrays[0] = FromSlice([]int32{9})
	v, _ := chunk.Array(0).Value(0).Int32()
	assert.Equal(t, int32(1), v)
}

func TestSingleChunk(t *testing.T) {
	chunk := SingleChunk(7)
	assert.Equal(t, 1, chunk.Cardinality())
	assert.Equal(t, 1, chunk.ColumnCount())
	assert.True(t, chunk.Array(0).Value(0).Equal(types.NewInt32(7)))
}

func TestConcat(t *testing.T) {
	c1 := mockChunk([]int32{1, 2}, []string{"a", "b"})
	c2 := mockChunk([]int32{3}, []string{"c"})
	c3 := mockChunk([]int32{}, []string{})

	merged, err := Concat(c1, c2, c3)
	require.NoError(t, err)
	assert.True(t, merged.Equal(mockChunk([]int32{1, 2, 3}, []string{"a", "b", "c"})))

	single, err := Concat(c1)
	require.NoError(t, err)
	assert.True(t, single.Equal(c1))

	_, err = Concat()
	assert.ErrorIs(t, err, ErrEmptyChunk)

	_, err = Concat(c1, SingleChunk(1))
	assert.ErrorIs(t, err, ErrColumnMismatch)

	_, err = Concat(c1, MustNewDataChunk(Utf8FromSlice([]string{"x"}), Utf8FromSlice([]string{"y"})))
	assert.ErrorIs(t, err, ErrColumnMismatch)
}

func TestConcatNulls(t *testing.T) {
	b := NewPrimitiveArrayBuilder[float64](2)
	b.PushNull()
	b.Push(2.5)
	c1 := MustNewDataChunk(b.Finish())
	c2 := MustNewDataChunk(FromSlice([]float64{1}))
	merged, err := Concat(c2, c1, c1)
	require.NoError(t, err)
	assert.Equal(t, 5, merged.Cardinality())
	assert.Equal(t, 2, merged.Array(0).NullCount())
	assert.True(t, merged.Array(0).IsNull(1))
	assert.True(t, merged.Array(0).IsNull(3))
}

func TestDataChunkString(t *testing.T) {
	b := NewUtf8ArrayBuilder(2)
	b.Push("tae")
	b.PushNull()
	chunk := MustNewDataChunk(FromSlice([]int32{10, 20}), b.Finish())
	s := chunk.String()
	t.Log(s)
	for _, want := range []string{"10", "20", "tae", "NULL"} {
		assert.True(t, strings.Contains(s, want), want)
	}
}
