package catalog

import "fmt"

type (
	SchemaID = uint32
	TableID  = uint32
	ColumnID = uint32
)

// TableRefID identifies a table across schemas.
type TableRefID struct {
	SchemaID SchemaID
	TableID  TableID
}

func NewTableRefID(schemaID SchemaID, tableID TableID) TableRefID {
	return TableRefID{SchemaID: schemaID, TableID: tableID}
}

func (id TableRefID) Less(o TableRefID) bool {
	if id.SchemaID != o.SchemaID {
		return id.SchemaID < o.SchemaID
	}
	return id.TableID < o.TableID
}

func (id TableRefID) String() string {
	return fmt.Sprintf("Table<%d-%d>", id.SchemaID, id.TableID)
}
