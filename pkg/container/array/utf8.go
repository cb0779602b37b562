package array

import (
	"fmt"

	"coldb/pkg/container/types"

	"github.com/RoaringBitmap/roaring"
)

// Utf8Array stores variable-length strings in one byte buffer. Slot i spans
// data[offsets[i]:offsets[i+1]].
type Utf8Array struct {
	offsets []uint32
	data    []byte
	nulls   *roaring.Bitmap
}

func Utf8FromSlice(values []string) *Utf8Array {
	b := NewUtf8ArrayBuilder(len(values))
	for _, v := range values {
		b.Push(v)
	}
	return b.Finish()
}

func (a *Utf8Array) Kind() Kind     { return Utf8Kind }
func (a *Utf8Array) Len() int       { return len(a.offsets) - 1 }
func (a *Utf8Array) NullCount() int { return int(a.nulls.GetCardinality()) }

func (a *Utf8Array) IsNull(i int) bool {
	checkIndex(i, a.Len())
	return a.nulls.Contains(uint32(i))
}

func (a *Utf8Array) Get(i int) (string, bool) {
	if a.IsNull(i) {
		return "", false
	}
	return string(a.data[a.offsets[i]:a.offsets[i+1]]), true
}

func (a *Utf8Array) Value(i int) types.DataValue {
	v, ok := a.Get(i)
	if !ok {
		return types.Null()
	}
	return types.NewString(v)
}

func (a *Utf8Array) String() string {
	return fmt.Sprintf("Utf8Array(len=%d,nulls=%d,bytes=%d)", a.Len(), a.NullCount(), len(a.data))
}

type Utf8ArrayBuilder struct {
	offsets  []uint32
	data     []byte
	nulls    *roaring.Bitmap
	finished bool
}

func NewUtf8ArrayBuilder(capacity int) *Utf8ArrayBuilder {
	offsets := make([]uint32, 1, capacity+1)
	return &Utf8ArrayBuilder{
		offsets: offsets,
		nulls:   roaring.NewBitmap(),
	}
}

func (b *Utf8ArrayBuilder) Len() int { return len(b.offsets) - 1 }

func (b *Utf8ArrayBuilder) Push(v string) {
	b.mustActive()
	b.data = append(b.data, v...)
	b.offsets = append(b.offsets, uint32(len(b.data)))
}

func (b *Utf8ArrayBuilder) PushNull() {
	b.mustActive()
	b.nulls.Add(uint32(b.Len()))
	b.offsets = append(b.offsets, uint32(len(b.data)))
}

func (b *Utf8ArrayBuilder) Extend(other *Utf8Array) {
	b.mustActive()
	rowOffset := uint32(b.Len())
	base := uint32(len(b.data))
	b.data = append(b.data, other.data...)
	for _, off := range other.offsets[1:] {
		b.offsets = append(b.offsets, base+off)
	}
	it := other.nulls.Iterator()
	for it.HasNext() {
		b.nulls.Add(rowOffset + it.Next())
	}
}

func (b *Utf8ArrayBuilder) Finish() *Utf8Array {
	b.mustActive()
	b.finished = true
	a := &Utf8Array{offsets: b.offsets, data: b.data, nulls: b.nulls}
	b.offsets, b.data, b.nulls = nil, nil, nil
	return a
}

func (b *Utf8ArrayBuilder) mustActive() {
	if b.finished {
		panic(ErrBuilderFinished)
	}
}

func (b *Utf8ArrayBuilder) kind() Kind { return Utf8Kind }
func (b *Utf8ArrayBuilder) size() int  { return b.Len() }

func (b *Utf8ArrayBuilder) pushValue(v types.DataValue) error {
	if v.IsNull() {
		b.PushNull()
		return nil
	}
	s, ok := v.Str()
	if !ok {
		return fmt.Errorf("%w: cannot push %v into %s builder", ErrTypeMismatch, v, Utf8Kind)
	}
	b.Push(s)
	return nil
}

func (b *Utf8ArrayBuilder) appendArray(a ArrayImpl) error {
	other, ok := a.(*Utf8Array)
	if !ok {
		return fmt.Errorf("%w: cannot append %s array into %s builder", ErrTypeMismatch, a.Kind(), Utf8Kind)
	}
	b.Extend(other)
	return nil
}

func (b *Utf8ArrayBuilder) finishArray() ArrayImpl { return b.Finish() }
