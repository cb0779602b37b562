package array

import (
	"fmt"

	"coldb/pkg/container/types"

	"github.com/RoaringBitmap/roaring"
)

type Primitive interface {
	bool | int32 | float64
}

type (
	BoolArray = PrimitiveArray[bool]
	I32Array  = PrimitiveArray[int32]
	F64Array  = PrimitiveArray[float64]

	BoolArrayBuilder = PrimitiveArrayBuilder[bool]
	I32ArrayBuilder  = PrimitiveArrayBuilder[int32]
	F64ArrayBuilder  = PrimitiveArrayBuilder[float64]
)

// PrimitiveArray stores fixed-size values. Null slots hold the zero value
// and are recorded in the nulls bitmap.
type PrimitiveArray[T Primitive] struct {
	values []T
	nulls  *roaring.Bitmap
}

// FromSlice builds an array without nulls.
func FromSlice[T Primitive](values []T) *PrimitiveArray[T] {
	b := NewPrimitiveArrayBuilder[T](len(values))
	for _, v := range values {
		b.Push(v)
	}
	return b.Finish()
}

func (a *PrimitiveArray[T]) Kind() Kind     { return primitiveKind[T]() }
func (a *PrimitiveArray[T]) Len() int       { return len(a.values) }
func (a *PrimitiveArray[T]) NullCount() int { return int(a.nulls.GetCardinality()) }

func (a *PrimitiveArray[T]) IsNull(i int) bool {
	checkIndex(i, len(a.values))
	return a.nulls.Contains(uint32(i))
}

// Get returns the value at i and false if the slot is null.
func (a *PrimitiveArray[T]) Get(i int) (v T, ok bool) {
	if a.IsNull(i) {
		return
	}
	return a.values[i], true
}

func (a *PrimitiveArray[T]) Value(i int) types.DataValue {
	v, ok := a.Get(i)
	if !ok {
		return types.Null()
	}
	return primitiveValue(v)
}

func (a *PrimitiveArray[T]) String() string {
	return fmt.Sprintf("%sArray(len=%d,nulls=%d)", a.Kind(), a.Len(), a.NullCount())
}

type PrimitiveArrayBuilder[T Primitive] struct {
	values   []T
	nulls    *roaring.Bitmap
	finished bool
}

func NewPrimitiveArrayBuilder[T Primitive](capacity int) *PrimitiveArrayBuilder[T] {
	return &PrimitiveArrayBuilder[T]{
		values: make([]T, 0, capacity),
		nulls:  roaring.NewBitmap(),
	}
}

func (b *PrimitiveArrayBuilder[T]) Len() int { return len(b.values) }

func (b *PrimitiveArrayBuilder[T]) Push(v T) {
	b.mustActive()
	b.values = append(b.values, v)
}

func (b *PrimitiveArrayBuilder[T]) PushNull() {
	b.mustActive()
	var zero T
	b.nulls.Add(uint32(len(b.values)))
	b.values = append(b.values, zero)
}

// Extend copies every slot of other, nulls included.
func (b *PrimitiveArrayBuilder[T]) Extend(other *PrimitiveArray[T]) {
	b.mustActive()
	offset := uint32(len(b.values))
	b.values = append(b.values, other.values...)
	it := other.nulls.Iterator()
	for it.HasNext() {
		b.nulls.Add(offset + it.Next())
	}
}

// Finish hands the buffers over to an immutable array. The builder cannot
// be used afterwards.
func (b *PrimitiveArrayBuilder[T]) Finish() *PrimitiveArray[T] {
	b.mustActive()
	b.finished = true
	a := &PrimitiveArray[T]{values: b.values, nulls: b.nulls}
	b.values, b.nulls = nil, nil
	return a
}

func (b *PrimitiveArrayBuilder[T]) mustActive() {
	if b.finished {
		panic(ErrBuilderFinished)
	}
}

func (b *PrimitiveArrayBuilder[T]) kind() Kind { return primitiveKind[T]() }
func (b *PrimitiveArrayBuilder[T]) size() int  { return b.Len() }

func (b *PrimitiveArrayBuilder[T]) pushValue(v types.DataValue) error {
	if v.IsNull() {
		b.PushNull()
		return nil
	}
	pv, ok := primitiveOf[T](v)
	if !ok {
		return fmt.Errorf("%w: cannot push %v into %s builder", ErrTypeMismatch, v, b.kind())
	}
	b.Push(pv)
	return nil
}

func (b *PrimitiveArrayBuilder[T]) appendArray(a ArrayImpl) error {
	other, ok := a.(*PrimitiveArray[T])
	if !ok {
		return fmt.Errorf("%w: cannot append %s array into %s builder", ErrTypeMismatch, a.Kind(), b.kind())
	}
	b.Extend(other)
	return nil
}

func (b *PrimitiveArrayBuilder[T]) finishArray() ArrayImpl { return b.Finish() }

func primitiveKind[T Primitive]() Kind {
	var zero T
	switch any(zero).(type) {
	case bool:
		return BoolKind
	case int32:
		return Int32Kind
	case float64:
		return Float64Kind
	}
	panic("unreachable")
}

func primitiveValue[T Primitive](v T) types.DataValue {
	switch x := any(v).(type) {
	case bool:
		return types.NewBool(x)
	case int32:
		return types.NewInt32(x)
	case float64:
		return types.NewFloat64(x)
	}
	panic("unreachable")
}

func primitiveOf[T Primitive](v types.DataValue) (out T, ok bool) {
	switch p := any(&out).(type) {
	case *bool:
		*p, ok = v.Bool()
	case *int32:
		*p, ok = v.Int32()
	case *float64:
		*p, ok = v.Float64()
	}
	return
}
