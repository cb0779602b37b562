package array

import (
	"coldb/pkg/container/types"
)

type typedBuilder interface {
	kind() Kind
	size() int
	pushValue(types.DataValue) error
	appendArray(ArrayImpl) error
	finishArray() ArrayImpl
}

// ArrayBuilderImpl is the kind-erased builder used by code that works on
// any column type. Its kind is fixed at construction.
type ArrayBuilderImpl struct {
	inner    typedBuilder
	finished bool
}

// NewArrayBuilder creates a builder for values of type ty with room for
// capacity elements.
func NewArrayBuilder(capacity int, ty types.DataType) (*ArrayBuilderImpl, error) {
	kind, err := KindOfType(ty)
	if err != nil {
		return nil, err
	}
	return NewArrayBuilderOfKind(kind, capacity), nil
}

// NewArrayBuilderFromArray creates an empty builder of the same kind as a.
func NewArrayBuilderFromArray(a ArrayImpl) *ArrayBuilderImpl {
	return NewArrayBuilderOfKind(a.Kind(), 0)
}

func NewArrayBuilderOfKind(kind Kind, capacity int) *ArrayBuilderImpl {
	var inner typedBuilder
	switch kind {
	case BoolKind:
		inner = NewPrimitiveArrayBuilder[bool](capacity)
	case Int32Kind:
		inner = NewPrimitiveArrayBuilder[int32](capacity)
	case Float64Kind:
		inner = NewPrimitiveArrayBuilder[float64](capacity)
	case Utf8Kind:
		inner = NewUtf8ArrayBuilder(capacity)
	default:
		panic("array: unknown kind " + kind.String())
	}
	return &ArrayBuilderImpl{inner: inner}
}

func (b *ArrayBuilderImpl) Kind() Kind { return b.inner.kind() }
func (b *ArrayBuilderImpl) Len() int   { return b.inner.size() }

// Push appends one value. Null is accepted by every kind; a value of
// another kind fails with ErrTypeMismatch and leaves the builder unchanged.
func (b *ArrayBuilderImpl) Push(v types.DataValue) error {
	if b.finished {
		return ErrBuilderFinished
	}
	return b.inner.pushValue(v)
}

// Append copies every slot of a into the builder.
func (b *ArrayBuilderImpl) Append(a ArrayImpl) error {
	if b.finished {
		return ErrBuilderFinished
	}
	return b.inner.appendArray(a)
}

// Finish consumes the builder. Calling it twice panics.
func (b *ArrayBuilderImpl) Finish() ArrayImpl {
	if b.finished {
		panic(ErrBuilderFinished)
	}
	b.finished = true
	return b.inner.finishArray()
}
