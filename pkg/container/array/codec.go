package array

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/RoaringBitmap/roaring"
)

// Array encoding, big-endian:
//
//	kind(u8) | rows(u32) | nullsLen(u32) | nulls(roaring) | payload
//
// Primitive payload is rows fixed-size values. Utf8 payload is rows+1
// offsets(u32), dataLen(u32) and the string bytes.

func writeHeader(w io.Writer, kind Kind, rows int, nulls *roaring.Bitmap) (err error) {
	if err = binary.Write(w, binary.BigEndian, uint8(kind)); err != nil {
		return
	}
	if err = binary.Write(w, binary.BigEndian, uint32(rows)); err != nil {
		return
	}
	buf, err := nulls.MarshalBinary()
	if err != nil {
		return
	}
	if err = binary.Write(w, binary.BigEndian, uint32(len(buf))); err != nil {
		return
	}
	_, err = w.Write(buf)
	return
}

func (a *PrimitiveArray[T]) WriteTo(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	if err := writeHeader(&buf, a.Kind(), a.Len(), a.nulls); err != nil {
		return 0, err
	}
	if len(a.values) > 0 {
		if err := binary.Write(&buf, binary.BigEndian, a.values); err != nil {
			return 0, err
		}
	}
	n, err := w.Write(buf.Bytes())
	return int64(n), err
}

func (a *Utf8Array) WriteTo(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	if err := writeHeader(&buf, Utf8Kind, a.Len(), a.nulls); err != nil {
		return 0, err
	}
	if err := binary.Write(&buf, binary.BigEndian, a.offsets); err != nil {
		return 0, err
	}
	if err := binary.Write(&buf, binary.BigEndian, uint32(len(a.data))); err != nil {
		return 0, err
	}
	buf.Write(a.data)
	n, err := w.Write(buf.Bytes())
	return int64(n), err
}

// ReadArray decodes one array written by WriteTo.
func ReadArray(r io.Reader) (ArrayImpl, error) {
	var (
		kind     uint8
		rows     uint32
		nullsLen uint32
	)
	if err := binary.Read(r, binary.BigEndian, &kind); err != nil {
		return nil, corrupted(err)
	}
	if err := binary.Read(r, binary.BigEndian, &rows); err != nil {
		return nil, corrupted(err)
	}
	if err := binary.Read(r, binary.BigEndian, &nullsLen); err != nil {
		return nil, corrupted(err)
	}
	nullsBuf, err := readSlice[byte](r, nullsLen)
	if err != nil {
		return nil, err
	}
	nulls := roaring.NewBitmap()
	if err := nulls.UnmarshalBinary(nullsBuf); err != nil {
		return nil, corrupted(err)
	}
	if !nulls.IsEmpty() && nulls.Maximum() >= rows {
		return nil, fmt.Errorf("%w: null position %d beyond %d rows", ErrCorrupted, nulls.Maximum(), rows)
	}
	switch Kind(kind) {
	case BoolKind:
		return readPrimitive[bool](r, rows, nulls)
	case Int32Kind:
		return readPrimitive[int32](r, rows, nulls)
	case Float64Kind:
		return readPrimitive[float64](r, rows, nulls)
	case Utf8Kind:
		return readUtf8(r, rows, nulls)
	}
	return nil, fmt.Errorf("%w: unknown kind %d", ErrCorrupted, kind)
}

// readBatch bounds how many elements are allocated ahead of the bytes that
// back them, so a forged length fails on EOF instead of allocating.
const readBatch = 1 << 16

func readSlice[T bool | int32 | float64 | uint32 | uint8](r io.Reader, n uint32) ([]T, error) {
	first := n
	if first > readBatch {
		first = readBatch
	}
	values := make([]T, 0, first)
	for remaining := n; remaining > 0; {
		step := remaining
		if step > readBatch {
			step = readBatch
		}
		part := make([]T, step)
		if err := binary.Read(r, binary.BigEndian, part); err != nil {
			return nil, corrupted(err)
		}
		values = append(values, part...)
		remaining -= step
	}
	return values, nil
}

func readPrimitive[T Primitive](r io.Reader, rows uint32, nulls *roaring.Bitmap) (ArrayImpl, error) {
	values, err := readSlice[T](r, rows)
	if err != nil {
		return nil, err
	}
	return &PrimitiveArray[T]{values: values, nulls: nulls}, nil
}

func readUtf8(r io.Reader, rows uint32, nulls *roaring.Bitmap) (ArrayImpl, error) {
	if rows == math.MaxUint32 {
		return nil, fmt.Errorf("%w: utf8 array with %d rows", ErrCorrupted, rows)
	}
	offsets, err := readSlice[uint32](r, rows+1)
	if err != nil {
		return nil, err
	}
	var dataLen uint32
	if err := binary.Read(r, binary.BigEndian, &dataLen); err != nil {
		return nil, corrupted(err)
	}
	if offsets[0] != 0 || offsets[rows] != dataLen {
		return nil, fmt.Errorf("%w: utf8 offsets do not match data length %d", ErrCorrupted, dataLen)
	}
	for i := uint32(0); i < rows; i++ {
		if offsets[i] > offsets[i+1] {
			return nil, fmt.Errorf("%w: utf8 offsets not monotonic at %d", ErrCorrupted, i)
		}
	}
	data, err := readSlice[byte](r, dataLen)
	if err != nil {
		return nil, err
	}
	return &Utf8Array{offsets: offsets, data: data, nulls: nulls}, nil
}

func corrupted(err error) error {
	return fmt.Errorf("%w: %v", ErrCorrupted, err)
}
