package types

import "fmt"

type DataTypeKind uint8

const (
	Boolean DataTypeKind = iota + 1
	Int
	Float
	Double
	Char
	Varchar
	String
)

var kindNames = map[DataTypeKind]string{
	Boolean: "BOOLEAN",
	Int:     "INT",
	Float:   "FLOAT",
	Double:  "DOUBLE",
	Char:    "CHAR",
	Varchar: "VARCHAR",
	String:  "STRING",
}

func (k DataTypeKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(%d)", uint8(k))
}

func (k DataTypeKind) IsValid() bool {
	_, ok := kindNames[k]
	return ok
}

func (k DataTypeKind) Nullable() DataType { return NewDataType(k, true) }
func (k DataTypeKind) NotNull() DataType  { return NewDataType(k, false) }

// DataType is a primitive kind plus nullability. It is a plain value and
// compares with ==.
type DataType struct {
	kind     DataTypeKind
	nullable bool
}

func NewDataType(kind DataTypeKind, nullable bool) DataType {
	return DataType{kind: kind, nullable: nullable}
}

func (t DataType) Kind() DataTypeKind { return t.kind }
func (t DataType) IsNullable() bool   { return t.nullable }

func (t DataType) String() string {
	if t.nullable {
		return t.kind.String()
	}
	return fmt.Sprintf("%s NOT NULL", t.kind)
}
