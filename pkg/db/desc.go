package db

import (
	"coldb/pkg/catalog"
	"coldb/pkg/container/array"
)

type CreateTableDesc struct {
	ID      catalog.TableRefID
	Columns []catalog.ColumnDesc
}

type AppendDesc struct {
	Table  catalog.TableRefID
	Chunks []*array.DataChunk
}
