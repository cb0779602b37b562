package disk

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"coldb/pkg/catalog"
	"coldb/pkg/common"
	"coldb/pkg/container/array"
	"coldb/pkg/container/types"
	"coldb/pkg/storage"

	"github.com/cespare/xxhash/v2"
)

const (
	columnMagic   uint32 = 0x434f4c44
	metaMagic     uint32 = 0x524f5753
	formatVersion uint16 = 1

	MetaFileName = "meta"
	checksumSize = 8
)

func ColumnFileName(id catalog.ColumnID) string {
	return fmt.Sprintf("%d.col", id)
}

type rowsetMeta struct {
	id      uint32
	rows    uint32
	columns []catalog.ColumnDesc
}

// Column file: magic | version | kind | column id | rows | array | xxhash64
func encodeColumn(col catalog.ColumnDesc, a array.ArrayImpl) ([]byte, error) {
	var w bytes.Buffer
	if err := binary.Write(&w, binary.BigEndian, columnMagic); err != nil {
		return nil, err
	}
	if err := binary.Write(&w, binary.BigEndian, formatVersion); err != nil {
		return nil, err
	}
	if err := binary.Write(&w, binary.BigEndian, uint8(a.Kind())); err != nil {
		return nil, err
	}
	if err := binary.Write(&w, binary.BigEndian, col.ID); err != nil {
		return nil, err
	}
	if err := binary.Write(&w, binary.BigEndian, uint32(a.Len())); err != nil {
		return nil, err
	}
	if _, err := a.WriteTo(&w); err != nil {
		return nil, err
	}
	return appendChecksum(w.Bytes()), nil
}

func decodeColumn(col catalog.ColumnDesc, rows uint32, raw []byte) (array.ArrayImpl, error) {
	body, err := verifyChecksum(raw)
	if err != nil {
		return nil, err
	}
	var (
		magic   uint32
		version uint16
		kind    uint8
		colID   uint32
		nrows   uint32
	)
	r := bytes.NewReader(body)
	for _, v := range []interface{}{&magic, &version, &kind, &colID, &nrows} {
		if err = binary.Read(r, binary.BigEndian, v); err != nil {
			return nil, corrupted("column header: %v", err)
		}
	}
	if magic != columnMagic || version != formatVersion {
		return nil, corrupted("bad column magic %x version %d", magic, version)
	}
	expect, err := array.KindOfType(col.Type)
	if err != nil {
		return nil, corrupted("column %d: %v", col.ID, err)
	}
	if colID != col.ID || array.Kind(kind) != expect || nrows != rows {
		return nil, corrupted("column file is %d/%s/%d rows, want %d/%s/%d rows",
			colID, array.Kind(kind), nrows, col.ID, expect, rows)
	}
	a, err := array.ReadArray(r)
	if err != nil {
		return nil, corrupted("column %d: %v", col.ID, err)
	}
	if a.Kind() != expect || uint32(a.Len()) != rows || r.Len() != 0 {
		return nil, corrupted("column %d payload does not match header", col.ID)
	}
	return a, nil
}

// Meta file: magic | version | rowset id | rows | ncols | columns | xxhash64
func encodeMeta(meta *rowsetMeta) ([]byte, error) {
	var w bytes.Buffer
	for _, v := range []interface{}{metaMagic, formatVersion, meta.id, meta.rows, uint16(len(meta.columns))} {
		if err := binary.Write(&w, binary.BigEndian, v); err != nil {
			return nil, err
		}
	}
	for _, col := range meta.columns {
		if err := binary.Write(&w, binary.BigEndian, col.ID); err != nil {
			return nil, err
		}
		if _, err := common.WriteString(col.Name, &w); err != nil {
			return nil, err
		}
		flags := []uint8{uint8(col.Type.Kind()), boolByte(col.Type.IsNullable()), boolByte(col.IsPrimary)}
		if _, err := w.Write(flags); err != nil {
			return nil, err
		}
	}
	return appendChecksum(w.Bytes()), nil
}

func decodeMeta(raw []byte) (*rowsetMeta, error) {
	body, err := verifyChecksum(raw)
	if err != nil {
		return nil, err
	}
	var (
		magic   uint32
		version uint16
		ncols   uint16
		meta    rowsetMeta
	)
	r := bytes.NewReader(body)
	for _, v := range []interface{}{&magic, &version, &meta.id, &meta.rows, &ncols} {
		if err = binary.Read(r, binary.BigEndian, v); err != nil {
			return nil, corrupted("meta header: %v", err)
		}
	}
	if magic != metaMagic || version != formatVersion {
		return nil, corrupted("bad meta magic %x version %d", magic, version)
	}
	meta.columns = make([]catalog.ColumnDesc, ncols)
	for i := range meta.columns {
		col := &meta.columns[i]
		if err = binary.Read(r, binary.BigEndian, &col.ID); err != nil {
			return nil, corrupted("meta column %d: %v", i, err)
		}
		if col.Name, _, err = common.ReadString(r); err != nil {
			return nil, corrupted("meta column %d: %v", i, err)
		}
		flags := make([]byte, 3)
		if _, err = io.ReadFull(r, flags); err != nil {
			return nil, corrupted("meta column %d: %v", i, err)
		}
		kind := types.DataTypeKind(flags[0])
		if !kind.IsValid() {
			return nil, corrupted("meta column %d has type %d", i, flags[0])
		}
		col.Type = types.NewDataType(kind, flags[1] != 0)
		col.IsPrimary = flags[2] != 0
	}
	if r.Len() != 0 {
		return nil, corrupted("meta has %d trailing bytes", r.Len())
	}
	return &meta, nil
}

func appendChecksum(body []byte) []byte {
	sum := make([]byte, checksumSize)
	binary.BigEndian.PutUint64(sum, xxhash.Sum64(body))
	return append(body, sum...)
}

func verifyChecksum(raw []byte) ([]byte, error) {
	if len(raw) < checksumSize {
		return nil, corrupted("file too short: %d bytes", len(raw))
	}
	body := raw[:len(raw)-checksumSize]
	expect := binary.BigEndian.Uint64(raw[len(raw)-checksumSize:])
	if actual := xxhash.Sum64(body); actual != expect {
		return nil, corrupted("checksum %x, want %x", actual, expect)
	}
	return body, nil
}

func corrupted(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", storage.ErrCorruptedRowset, fmt.Sprintf(format, args...))
}

func boolByte(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
