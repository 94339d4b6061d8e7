package registry

import (
	"encoding/binary"
	"fmt"
)

// MetaTableDDL creates the cross-column metadata table that persists
// qtype/qscale/qoffset across connections, matching the reference's
// _sqliteai_vector table.
const MetaTableDDL = `CREATE TABLE IF NOT EXISTS _sqliteai_vector (
	table_name TEXT,
	column_name TEXT,
	key TEXT,
	value ANY,
	PRIMARY KEY (table_name, column_name, key)
);`

const (
	metaKeyQType  = "qtype"
	metaKeyQScale = "qscale"
	metaKeyQOffset = "qoffset"
)

// QuantTableName returns the shadow table name for a given (table, column)
// pair, matching the reference's "vector0_<table>_<column>" naming.
func QuantTableName(table, column string) string {
	return fmt.Sprintf("vector0_%s_%s", table, column)
}

// CreateQuantTableSQL returns the DDL for a column's shadow batch table.
func CreateQuantTableSQL(table, column string) string {
	return fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %s (rowid1 INTEGER, rowid2 INTEGER, counter INTEGER, data BLOB);",
		QuantTableName(table, column))
}

// DropQuantTableSQL returns the DDL to remove a column's shadow batch table.
func DropQuantTableSQL(table, column string) string {
	return fmt.Sprintf("DROP TABLE IF EXISTS %s;", QuantTableName(table, column))
}

// SelectFromTableSQL returns the query used to scan the source table in
// primary-key order while building (or rebuilding) the shadow store.
func SelectFromTableSQL(table, column, pkName string) string {
	return fmt.Sprintf("SELECT %s, %s FROM %s ORDER BY %s;", pkName, column, table, pkName)
}

// SelectQuantTableSQL returns the query used to stream shadow batches back
// out for a quantized scan.
func SelectQuantTableSQL(table, column string) string {
	return fmt.Sprintf("SELECT counter, data FROM %s;", QuantTableName(table, column))
}

// MemoryQuantTableSQL returns the query used to report how many bytes the
// shadow store currently occupies.
func MemoryQuantTableSQL(table, column string) string {
	return fmt.Sprintf("SELECT SUM(LENGTH(data)) FROM %s;", QuantTableName(table, column))
}

// InsertQuantTableSQL returns the parametrized insert used when flushing a
// batch of quantized vectors to the shadow table.
func InsertQuantTableSQL(table, column string) string {
	return fmt.Sprintf("INSERT INTO %s (rowid1, rowid2, counter, data) VALUES (?, ?, ?, ?);", QuantTableName(table, column))
}

// ShadowRecordSize returns the per-vector byte footprint in a shadow
// batch: an 8-byte little-endian rowid followed by dim quantized bytes.
func ShadowRecordSize(dim int) int {
	return 8 + dim
}

// EncodeShadowBatch packs rowids and their quantized codes into the wire
// format stored in a shadow table's data BLOB: each record is an 8-byte
// little-endian rowid immediately followed by its dim-byte code, records
// back to back in rowid order. codes[i] must have length dim.
func EncodeShadowBatch(rowids []int64, codes [][]byte, dim int) []byte {
	recSize := ShadowRecordSize(dim)
	buf := make([]byte, 0, recSize*len(rowids))
	for i, rowid := range rowids {
		var rid [8]byte
		binary.LittleEndian.PutUint64(rid[:], uint64(rowid))
		buf = append(buf, rid[:]...)
		buf = append(buf, codes[i]...)
	}
	return buf
}

// DecodeShadowBatch splits a shadow data BLOB back into per-vector rowids
// and quantized codes. It returns an error if data isn't an exact multiple
// of the per-record size for dim.
func DecodeShadowBatch(data []byte, dim int) (rowids []int64, codes [][]byte, err error) {
	recSize := ShadowRecordSize(dim)
	if recSize == 0 || len(data)%recSize != 0 {
		return nil, nil, fmt.Errorf("shadow batch size %d is not a multiple of record size %d", len(data), recSize)
	}
	n := len(data) / recSize
	rowids = make([]int64, n)
	codes = make([][]byte, n)
	for i := 0; i < n; i++ {
		off := i * recSize
		rowids[i] = int64(binary.LittleEndian.Uint64(data[off : off+8]))
		codes[i] = data[off+8 : off+recSize]
	}
	return rowids, codes, nil
}

// SerializeMetaSQL returns the upsert used to persist one metadata key for
// a column into _sqliteai_vector.
func SerializeMetaSQL() string {
	return `INSERT INTO _sqliteai_vector (table_name, column_name, key, value)
	VALUES (?, ?, ?, ?)
	ON CONFLICT(table_name, column_name, key) DO UPDATE SET value = excluded.value;`
}

// UnserializeMetaSQL returns the query used to load a column's persisted
// qtype/qscale/qoffset back out of _sqliteai_vector.
func UnserializeMetaSQL() string {
	return `SELECT key, value FROM _sqliteai_vector WHERE table_name = ? AND column_name = ?;`
}

// MetaKeys are the three keys the reference persists per column.
const (
	MetaKeyQType   = metaKeyQType
	MetaKeyQScale  = metaKeyQScale
	MetaKeyQOffset = metaKeyQOffset
)
