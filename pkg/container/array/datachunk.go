package array

import (
	"fmt"
	"strings"

	"coldb/pkg/container/types"

	"github.com/olekukonko/tablewriter"
)

// DataChunk is an immutable batch of equal-length arrays. Chunks are shared
// by pointer; nothing mutates a chunk after construction.
type DataChunk struct {
	arrays []ArrayImpl
}

func NewDataChunk(arrays ...ArrayImpl) (*DataChunk, error) {
	if len(arrays) == 0 {
		return nil, ErrEmptyChunk
	}
	cardinality := arrays[0].Len()
	for i, a := range arrays[1:] {
		if a.Len() != cardinality {
			return nil, fmt.Errorf("%w: array %d has %d rows, array 0 has %d",
				ErrLengthMismatch, i+1, a.Len(), cardinality)
		}
	}
	owned := make([]ArrayImpl, len(arrays))
	copy(owned, arrays)
	return &DataChunk{arrays: owned}, nil
}

func MustNewDataChunk(arrays ...ArrayImpl) *DataChunk {
	chunk, err := NewDataChunk(arrays...)
	if err != nil {
		panic(err)
	}
	return chunk
}

// SingleChunk is a one-row, one-column chunk holding v.
func SingleChunk(v int32) *DataChunk {
	return MustNewDataChunk(FromSlice([]int32{v}))
}

func (c *DataChunk) Cardinality() int      { return c.arrays[0].Len() }
func (c *DataChunk) ColumnCount() int      { return len(c.arrays) }
func (c *DataChunk) Array(i int) ArrayImpl { return c.arrays[i] }

// Arrays returns the columns. The slice is shared and must not be modified.
func (c *DataChunk) Arrays() []ArrayImpl { return c.arrays }

func (c *DataChunk) Row(i int) []types.DataValue {
	row := make([]types.DataValue, len(c.arrays))
	for j, a := range c.arrays {
		row[j] = a.Value(i)
	}
	return row
}

func (c *DataChunk) Equal(o *DataChunk) bool {
	if c == nil || o == nil {
		return c == o
	}
	if len(c.arrays) != len(o.arrays) {
		return false
	}
	for i := range c.arrays {
		if !Equal(c.arrays[i], o.arrays[i]) {
			return false
		}
	}
	return true
}

func (c *DataChunk) String() string {
	var sb strings.Builder
	table := tablewriter.NewWriter(&sb)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	for i := 0; i < c.Cardinality(); i++ {
		row := make([]string, len(c.arrays))
		for j, a := range c.arrays {
			row[j] = a.Value(i).String()
		}
		table.Append(row)
	}
	table.Render()
	return sb.String()
}

// Concat merges chunks row-wise into one chunk. Every chunk must have the
// same column count and kinds as chunks[0].
func Concat(chunks ...*DataChunk) (*DataChunk, error) {
	if len(chunks) == 0 {
		return nil, ErrEmptyChunk
	}
	first := chunks[0]
	rows := 0
	for i, chunk := range chunks {
		if chunk.ColumnCount() != first.ColumnCount() {
			return nil, fmt.Errorf("%w: chunk %d has %d columns, chunk 0 has %d",
				ErrColumnMismatch, i, chunk.ColumnCount(), first.ColumnCount())
		}
		for j, a := range chunk.arrays {
			if a.Kind() != first.arrays[j].Kind() {
				return nil, fmt.Errorf("%w: chunk %d column %d is %s, chunk 0 is %s",
					ErrColumnMismatch, i, j, a.Kind(), first.arrays[j].Kind())
			}
		}
		rows += chunk.Cardinality()
	}
	builders := make([]*ArrayBuilderImpl, first.ColumnCount())
	for j, a := range first.arrays {
		builders[j] = NewArrayBuilderOfKind(a.Kind(), rows)
	}
	for _, chunk := range chunks {
		for j, a := range chunk.arrays {
			if err := builders[j].Append(a); err != nil {
				return nil, err
			}
		}
	}
	arrays := make([]ArrayImpl, len(builders))
	for j, b := range builders {
		arrays[j] = b.Finish()
	}
	return &DataChunk{arrays: arrays}, nil
}
