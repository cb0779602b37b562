package array

import (
	"fmt"
	"io"

	"coldb/pkg/container/types"
)

// Kind is the physical representation of an array.
type Kind uint8

const (
	BoolKind Kind = iota + 1
	Int32Kind
	Float64Kind
	Utf8Kind
)

func (k Kind) String() string {
	switch k {
	case BoolKind:
		return "Bool"
	case Int32Kind:
		return "Int32"
	case Float64Kind:
		return "Float64"
	case Utf8Kind:
		return "Utf8"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// KindOfType maps a logical data type to the array kind that stores it.
func KindOfType(ty types.DataType) (Kind, error) {
	switch ty.Kind() {
	case types.Boolean:
		return BoolKind, nil
	case types.Int:
		return Int32Kind, nil
	case types.Float, types.Double:
		return Float64Kind, nil
	case types.Char, types.Varchar, types.String:
		return Utf8Kind, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrUnsupportedType, ty)
}

// ArrayImpl is an immutable, fixed-length, nullable column. The
// implementations are *BoolArray, *I32Array, *F64Array and *Utf8Array.
//
// Indexing out of [0, Len()) panics.
type ArrayImpl interface {
	io.WriterTo
	Kind() Kind
	Len() int
	IsNull(i int) bool
	NullCount() int
	Value(i int) types.DataValue
}

// Equal compares two arrays slot by slot, including null positions.
func Equal(a, b ArrayImpl) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind() != b.Kind() || a.Len() != b.Len() {
		return false
	}
	for i := 0; i < a.Len(); i++ {
		if a.IsNull(i) != b.IsNull(i) {
			return false
		}
		if !a.Value(i).Equal(b.Value(i)) {
			return false
		}
	}
	return true
}

// Iterate calls fn for every slot in order until fn returns false.
func Iterate(a ArrayImpl, fn func(i int, v types.DataValue) bool) {
	for i := 0; i < a.Len(); i++ {
		if !fn(i, a.Value(i)) {
			return
		}
	}
}

func checkIndex(i, n int) {
	if i < 0 || i >= n {
		panic(fmt.Sprintf("array: index %d out of range [0, %d)", i, n))
	}
}
