package handle

import (
	"io"

	"coldb/pkg/container/array"
)

type Iterator interface {
	io.Closer
	Valid() bool
	Next()
}

type ChunkIt interface {
	Iterator
	GetChunk() (*array.DataChunk, error)
}
