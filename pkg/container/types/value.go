package types

import (
	"strconv"
	"strings"
)

// ValueKind orders the DataValue variants. NULL comes first, so NULL is
// less than any non-NULL value.
type ValueKind uint8

const (
	NullValue ValueKind = iota
	BoolValue
	Int32Value
	Float64Value
	StringValue
)

// DataValue is a tagged scalar: Null, Bool, Int32, Float64 or String.
// The zero value is Null.
type DataValue struct {
	kind ValueKind
	b    bool
	i    int32
	f    float64
	s    string
}

func Null() DataValue                { return DataValue{} }
func NewBool(v bool) DataValue       { return DataValue{kind: BoolValue, b: v} }
func NewInt32(v int32) DataValue     { return DataValue{kind: Int32Value, i: v} }
func NewFloat64(v float64) DataValue { return DataValue{kind: Float64Value, f: v} }
func NewString(v string) DataValue   { return DataValue{kind: StringValue, s: v} }

func (v DataValue) Kind() ValueKind { return v.kind }
func (v DataValue) IsNull() bool    { return v.kind == NullValue }

func (v DataValue) Bool() (bool, bool)       { return v.b, v.kind == BoolValue }
func (v DataValue) Int32() (int32, bool)     { return v.i, v.kind == Int32Value }
func (v DataValue) Float64() (float64, bool) { return v.f, v.kind == Float64Value }
func (v DataValue) Str() (string, bool)      { return v.s, v.kind == StringValue }

// DataType maps a concrete value to its non-nullable type. Null has no type.
func (v DataValue) DataType() (DataType, bool) {
	switch v.kind {
	case BoolValue:
		return Boolean.NotNull(), true
	case Int32Value:
		return Int.NotNull(), true
	case Float64Value:
		return Double.NotNull(), true
	case StringValue:
		return Varchar.NotNull(), true
	}
	return DataType{}, false
}

// Compare orders values by variant first (Null < Bool < Int32 < Float64 <
// String) and by payload within a variant.
func (v DataValue) Compare(o DataValue) int {
	if v.kind != o.kind {
		if v.kind < o.kind {
			return -1
		}
		return 1
	}
	switch v.kind {
	case BoolValue:
		if v.b == o.b {
			return 0
		}
		if !v.b {
			return -1
		}
		return 1
	case Int32Value:
		return compareOrdered(v.i, o.i)
	case Float64Value:
		return compareOrdered(v.f, o.f)
	case StringValue:
		return strings.Compare(v.s, o.s)
	}
	return 0
}

func (v DataValue) Equal(o DataValue) bool { return v.Compare(o) == 0 }

func (v DataValue) String() string {
	switch v.kind {
	case BoolValue:
		return strconv.FormatBool(v.b)
	case Int32Value:
		return strconv.FormatInt(int64(v.i), 10)
	case Float64Value:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case StringValue:
		return v.s
	}
	return "NULL"
}

func compareOrdered[T int32 | float64](l, r T) int {
	if l < r {
		return -1
	} else if l > r {
		return 1
	}
	return 0
}
