package array

import (
	"bytes"
	"encoding/binary"
	"math"
	"runtime"
	"testing"

	"coldb/pkg/container/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mockValues(kind Kind) []types.DataValue {
	switch kind {
	case BoolKind:
		return []types.DataValue{types.NewBool(true), types.Null(), types.NewBool(false)}
	case Int32Kind:
		return []types.DataValue{types.NewInt32(1), types.Null(), types.NewInt32(-7), types.NewInt32(42)}
	case Float64Kind:
		return []types.DataValue{types.Null(), types.NewFloat64(1.5), types.NewFloat64(-0.25)}
	case Utf8Kind:
		return []types.DataValue{types.NewString("tae"), types.NewString(""), types.Null(), types.NewString("列存")}
	}
	panic("unknown kind")
}

func mockArray(t *testing.T, kind Kind) ArrayImpl {
	b := NewArrayBuilderOfKind(kind, 0)
	for _, v := range mockValues(kind) {
		require.NoError(t, b.Push(v))
	}
	return b.Finish()
}

var allKinds = []Kind{BoolKind, Int32Kind, Float64Kind, Utf8Kind}

func TestBuilderRoundTrip(t *testing.T) {
	for _, kind := range allKinds {
		values := mockValues(kind)
		a := mockArray(t, kind)
		assert.Equal(t, kind, a.Kind())
		assert.Equal(t, len(values), a.Len())
		nulls := 0
		for i, v := range values {
			assert.True(t, v.Equal(a.Value(i)), "%s slot %d", kind, i)
			assert.Equal(t, v.IsNull(), a.IsNull(i))
			if v.IsNull() {
				nulls++
			}
		}
		assert.Equal(t, nulls, a.NullCount())
		t.Log(a)
	}
}

func TestNewArrayBuilder(t *testing.T) {
	cases := []struct {
		ty   types.DataType
		kind Kind
	}{
		{types.Boolean.Nullable(), BoolKind},
		{types.Int.NotNull(), Int32Kind},
		{types.Float.Nullable(), Float64Kind},
		{types.Double.NotNull(), Float64Kind},
		{types.Char.Nullable(), Utf8Kind},
		{types.Varchar.NotNull(), Utf8Kind},
		{types.String.Nullable(), Utf8Kind},
	}
	for _, c := range cases {
		b, err := NewArrayBuilder(8, c.ty)
		require.NoError(t, err)
		assert.Equal(t, c.kind, b.Kind(), c.ty.String())
		assert.Equal(t, 0, b.Len())
	}
	_, err := NewArrayBuilder(8, types.NewDataType(types.DataTypeKind(99), true))
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestBuilderTypeMismatch(t *testing.T) {
	b := NewArrayBuilderOfKind(Int32Kind, 4)
	require.NoError(t, b.Push(types.NewInt32(1)))
	err := b.Push(types.NewString("x"))
	assert.ErrorIs(t, err, ErrTypeMismatch)
	assert.Equal(t, 1, b.Len())

	err = b.Append(Utf8FromSlice([]string{"a", "b"}))
	assert.ErrorIs(t, err, ErrTypeMismatch)
	assert.Equal(t, 1, b.Len())

	require.NoError(t, b.Push(types.Null()))
	a := b.Finish()
	assert.Equal(t, 2, a.Len())
	assert.True(t, a.IsNull(1))
}

func TestBuilderFinished(t *testing.T) {
	b := NewArrayBuilderOfKind(Utf8Kind, 0)
	require.NoError(t, b.Push(types.NewString("a")))
	b.Finish()
	assert.ErrorIs(t, b.Push(types.NewString("b")), ErrBuilderFinished)
	assert.ErrorIs(t, b.Append(Utf8FromSlice([]string{"c"})), ErrBuilderFinished)
	assert.Panics(t, func() { b.Finish() })

	pb := NewPrimitiveArrayBuilder[int32](0)
	pb.Finish()
	assert.Panics(t, func() { pb.Push(1) })
}

func TestAppendAssociative(t *testing.T) {
	for _, kind := range allKinds {
		a, b, c := mockArray(t, kind), mockArray(t, kind), mockArray(t, kind)

		left := NewArrayBuilderOfKind(kind, 0)
		require.NoError(t, left.Append(a))
		require.NoError(t, left.Append(b))
		ab := left.Finish()
		left = NewArrayBuilderFromArray(ab)
		require.NoError(t, left.Append(ab))
		require.NoError(t, left.Append(c))

		right := NewArrayBuilderOfKind(kind, 0)
		require.NoError(t, right.Append(b))
		require.NoError(t, right.Append(c))
		bc := right.Finish()
		right = NewArrayBuilderFromArray(a)
		require.NoError(t, right.Append(a))
		require.NoError(t, right.Append(bc))

		l, r := left.Finish(), right.Finish()
		assert.Equal(t, a.Len()+b.Len()+c.Len(), l.Len())
		assert.True(t, Equal(l, r), kind.String())
		assert.Equal(t, a.NullCount()*3, l.NullCount())
	}
}

func TestArrayIndexOutOfRange(t *testing.T) {
	a := FromSlice([]int32{1, 2, 3})
	assert.Panics(t, func() { a.Value(3) })
	assert.Panics(t, func() { a.IsNull(-1) })
	s := Utf8FromSlice([]string{"a"})
	assert.Panics(t, func() { s.Value(1) })
}

func TestArrayEqual(t *testing.T) {
	a := FromSlice([]int32{1, 2, 3})
	assert.True(t, Equal(a, FromSlice([]int32{1, 2, 3})))
	assert.False(t, Equal(a, FromSlice([]int32{1, 2})))
	assert.False(t, Equal(a, FromSlice([]float64{1, 2, 3})))

	b := NewPrimitiveArrayBuilder[int32](3)
	b.Push(1)
	b.PushNull()
	b.Push(3)
	assert.False(t, Equal(a, b.Finish()))

	var sum int32
	Iterate(a, func(i int, v types.DataValue) bool {
		x, _ := v.Int32()
		sum += x
		return i < 1
	})
	assert.Equal(t, int32(3), sum)
}

func TestCodecRoundTrip(t *testing.T) {
	arrays := []ArrayImpl{
		FromSlice([]bool{}),
		Utf8FromSlice(nil),
	}
	for _, kind := range allKinds {
		arrays = append(arrays, mockArray(t, kind))
	}
	for _, a := range arrays {
		var buf bytes.Buffer
		n, err := a.WriteTo(&buf)
		require.NoError(t, err)
		assert.Equal(t, int64(buf.Len()), n)
		decoded, err := ReadArray(&buf)
		require.NoError(t, err)
		assert.True(t, Equal(a, decoded), a.Kind().String())
		assert.Equal(t, 0, buf.Len())
	}
}

func TestCodecCorrupted(t *testing.T) {
	var buf bytes.Buffer
	_, err := Utf8FromSlice([]string{"hello", "world"}).WriteTo(&buf)
	require.NoError(t, err)
	raw := buf.Bytes()

	_, err = ReadArray(bytes.NewReader(raw[:len(raw)-3]))
	assert.ErrorIs(t, err, ErrCorrupted)

	bad := append([]byte{}, raw...)
	bad[0] = 0x7f
	_, err = ReadArray(bytes.NewReader(bad))
	assert.ErrorIs(t, err, ErrCorrupted)

	_, err = ReadArray(bytes.NewReader(nil))
	assert.ErrorIs(t, err, ErrCorrupted)
}

func TestCodecForgedRows(t *testing.T) {
	empties := []ArrayImpl{
		FromSlice([]bool{}),
		FromSlice([]int32{}),
		FromSlice([]float64{}),
		Utf8FromSlice(nil),
	}
	for _, a := range empties {
		var buf bytes.Buffer
		_, err := a.WriteTo(&buf)
		require.NoError(t, err)
		for _, rows := range []uint32{1 << 30, math.MaxUint32} {
			raw := append([]byte{}, buf.Bytes()...)
			binary.BigEndian.PutUint32(raw[1:5], rows)

			var before, after runtime.MemStats
			runtime.ReadMemStats(&before)
			_, err = ReadArray(bytes.NewReader(raw))
			runtime.ReadMemStats(&after)
			assert.ErrorIs(t, err, ErrCorrupted, a.Kind().String())
			assert.Less(t, after.TotalAlloc-before.TotalAlloc, uint64(16<<20), a.Kind().String())
		}
	}
}
