package vecsql

import (
	"context"
	"database/sql"
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/sqliteai/go-vector/internal/sqliteutil"
	"github.com/sqliteai/go-vector/quantize"
	"github.com/sqliteai/go-vector/registry"
)

// InitColumn registers a (table, column) pair with the engine, parsing
// its options string and resolving its primary key column, mirroring
// vector_init's argument handling.
func (e *Engine) InitColumn(ctx context.Context, table, column, optionsStr string) error {
	if err := e.checkOpen(); err != nil {
		return err
	}

	opts := registry.DefaultOptions()
	if err := registry.ParseOptions(optionsStr, &opts); err != nil {
		return wrapError(KindInvalidArgument, "init", err)
	}
	if opts.Dimension <= 0 {
		return wrapError(KindInvalidArgument, "init", fmt.Errorf("dimension option is required"))
	}

	exists, err := sqliteutil.TableExists(ctx, e.db, table)
	if err != nil {
		return wrapError(KindHostError, "init", err)
	}
	if !exists {
		return wrapError(KindSchemaError, "init", fmt.Errorf("table %q does not exist", table))
	}

	colExists, err := sqliteutil.ColumnExists(ctx, e.db, table, column)
	if err != nil {
		return wrapError(KindHostError, "init", err)
	}
	if !colExists {
		return wrapError(KindSchemaError, "init", fmt.Errorf("column %q does not exist on table %q", column, table))
	}

	isBlob, err := sqliteutil.ColumnIsBlob(ctx, e.db, table, column)
	if err != nil {
		return wrapError(KindHostError, "init", err)
	}
	if !isBlob {
		return wrapError(KindSchemaError, "init", fmt.Errorf("column %q does not have BLOB affinity", column))
	}

	pkName, err := sqliteutil.ResolvePrimaryKeyColumn(ctx, e.db, table)
	if err != nil {
		return wrapError(KindSchemaError, "init", err)
	}

	tc, err := e.registry.Add(table, column, pkName, opts)
	if err != nil {
		if errors.Is(err, registry.ErrOptionsMismatch) {
			return wrapError(KindInvalidArgument, "init", err)
		}
		return wrapError(KindResourceError, "init", err)
	}

	if err := e.restoreMeta(ctx, table, column, tc); err != nil {
		return wrapError(KindHostError, "init", err)
	}

	e.log.Info("column registered", "table", table, "column", column, "dimension", opts.Dimension)
	return nil
}

// restoreMeta loads any previously persisted qtype/scale/offset for
// (table, column) out of _sqliteai_vector and applies them to tc, so that
// a column quantized in an earlier process keeps working after init
// without requiring Quantize to be called again, mirroring vector_init's
// persisted-metadata restore step.
func (e *Engine) restoreMeta(ctx context.Context, table, column string, tc *registry.TableContext) error {
	rows, err := e.db.QueryContext(ctx, registry.UnserializeMetaSQL(), table, column)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var value any
		if err := rows.Scan(&key, &value); err != nil {
			return err
		}
		switch key {
		case registry.MetaKeyQType:
			if n, ok := toInt64(value); ok {
				tc.Options.QType = quantize.QType(n)
			}
		case registry.MetaKeyQScale:
			if f, ok := toFloat64(value); ok {
				tc.Scale = float32(f)
			}
		case registry.MetaKeyQOffset:
			if f, ok := toFloat64(value); ok {
				tc.Offset = float32(f)
			}
		}
	}
	return rows.Err()
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case float64:
		return int64(n), true
	default:
		return 0, false
	}
}

func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

// Quantize (re)builds the byte-quantized shadow store for a registered
// column: a two-pass scan for global min/max, qtype resolution, then a
// batched rewrite of the shadow table, mirroring vector_rebuild_quantization.
func (e *Engine) Quantize(ctx context.Context, table, column string) error {
	if err := e.checkOpen(); err != nil {
		return err
	}
	tc, ok := e.registry.Lookup(table, column)
	if !ok {
		return wrapError(KindStateError, "quantize", ErrNotRegistered)
	}

	dim := tc.Options.Dimension
	qSize := 8 + dim
	maxMemory := tc.Options.MaxMemory
	if maxMemory == 0 {
		maxMemory = registry.DefaultMaxMemory
	}
	maxVectors := int(maxMemory) / qSize
	if maxVectors < 1 {
		maxVectors = 1
	}

	selectSQL := registry.SelectFromTableSQL(table, column, tc.PKName)

	// STEP 1: global min/max/sign scan.
	stats := quantize.NewStats()
	if err := e.scanColumn(ctx, selectSQL, tc, func(rowid int64, vec []float32) error {
		for _, v := range vec {
			stats.Observe(v)
		}
		return nil
	}); err != nil {
		return wrapError(scanErrorKind(err), "quantize", err)
	}

	params := stats.Resolve(tc.Options.QType)

	// STEP 2: commit scale/offset/type before re-running the scan.
	tc.Scale = params.Scale
	tc.Offset = params.Offset
	tc.Options.QType = params.Type

	if _, err := e.db.ExecContext(ctx, registry.DropQuantTableSQL(table, column)); err != nil {
		return wrapError(KindHostError, "quantize", err)
	}
	if _, err := e.db.ExecContext(ctx, registry.CreateQuantTableSQL(table, column)); err != nil {
		return wrapError(KindHostError, "quantize", err)
	}

	// STEP 3: quantize and flush in max-memory-sized batches.
	var rowids []int64
	var codes [][]byte
	flush := func() error {
		if len(rowids) == 0 {
			return nil
		}
		data := registry.EncodeShadowBatch(rowids, codes, dim)
		_, err := e.db.ExecContext(ctx, registry.InsertQuantTableSQL(table, column),
			rowids[0], rowids[len(rowids)-1], len(rowids), data)
		rowids = rowids[:0]
		codes = codes[:0]
		return err
	}

	err := e.scanColumn(ctx, selectSQL, tc, func(rowid int64, vec []float32) error {
		code := make([]byte, dim)
		if params.Type == quantize.U8 {
			u8 := make([]uint8, dim)
			quantize.EncodeU8(vec, u8, params.Offset, params.Scale)
			copy(code, u8)
		} else {
			i8 := make([]int8, dim)
			quantize.EncodeI8(vec, i8, params.Offset, params.Scale)
			for i, b := range i8 {
				code[i] = byte(b)
			}
		}
		rowids = append(rowids, rowid)
		codes = append(codes, code)
		if len(rowids) >= maxVectors {
			return flush()
		}
		return nil
	})
	if err != nil {
		return wrapError(scanErrorKind(err), "quantize", err)
	}
	if err := flush(); err != nil {
		return wrapError(KindHostError, "quantize", err)
	}

	if err := e.persistMeta(ctx, table, column, params); err != nil {
		return wrapError(KindHostError, "quantize", err)
	}

	e.log.Info("quantize complete", "table", table, "column", column, "qtype", params.Type.String())
	return nil
}

// rowFormatError tags a widening error with the offending primary-key
// value, so callers can classify it as a FormatError rather than a
// generic host error and report which row is malformed.
type rowFormatError struct {
	pkName string
	rowid  int64
	err    error
}

func (e *rowFormatError) Error() string {
	return fmt.Sprintf("row %s=%d: %v", e.pkName, e.rowid, e.err)
}

func (e *rowFormatError) Unwrap() error { return e.err }

// scanErrorKind classifies an error from scanColumn: a malformed source
// vector is a FormatError naming the offending row, anything else (a
// query or scan failure) is a HostError.
func scanErrorKind(err error) Kind {
	var rfe *rowFormatError
	if errors.As(err, &rfe) {
		return KindFormatError
	}
	return KindHostError
}

// scanColumn streams (rowid, widened-f32-vector) pairs for a registered
// column's source table, widening non-F32 element types on the fly.
func (e *Engine) scanColumn(ctx context.Context, selectSQL string, tc *registry.TableContext, fn func(int64, []float32) error) error {
	rows, err := e.db.QueryContext(ctx, selectSQL)
	if err != nil {
		return err
	}
	defer rows.Close()

	dim := tc.Options.Dimension
	for rows.Next() {
		var rowid int64
		var blob []byte
		if err := rows.Scan(&rowid, &blob); err != nil {
			return err
		}
		vecBytes, err := widenToF32Bytes(blob, tc.Options.Type, dim)
		if err != nil {
			return &rowFormatError{pkName: tc.PKName, rowid: rowid, err: err}
		}
		vec := make([]float32, dim)
		for i := 0; i < dim; i++ {
			vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(vecBytes[i*4:]))
		}
		if err := fn(rowid, vec); err != nil {
			return err
		}
	}
	return rows.Err()
}

func (e *Engine) persistMeta(ctx context.Context, table, column string, p quantize.Params) error {
	stmt := registry.SerializeMetaSQL()
	if _, err := e.db.ExecContext(ctx, stmt, table, column, registry.MetaKeyQType, int(p.Type)); err != nil {
		return err
	}
	if _, err := e.db.ExecContext(ctx, stmt, table, column, registry.MetaKeyQScale, float64(p.Scale)); err != nil {
		return err
	}
	if _, err := e.db.ExecContext(ctx, stmt, table, column, registry.MetaKeyQOffset, float64(p.Offset)); err != nil {
		return err
	}
	return nil
}

// Preload loads the entire shadow store for (table, column) into memory,
// matching vector_quantize_preload's free-existing-then-load ordering.
// It errors if Quantize has never been run for the column.
func (e *Engine) Preload(ctx context.Context, table, column string) error {
	if err := e.checkOpen(); err != nil {
		return err
	}
	tc, ok := e.registry.Lookup(table, column)
	if !ok {
		return wrapError(KindStateError, "preload", ErrNotRegistered)
	}

	exists, err := sqliteutil.TableExists(ctx, e.db, registry.QuantTableName(table, column))
	if err != nil {
		return wrapError(KindHostError, "preload", err)
	}
	if !exists {
		return wrapError(KindStateError, "preload", ErrShadowMissing)
	}

	rows, err := e.db.QueryContext(ctx, registry.SelectQuantTableSQL(table, column))
	if err != nil {
		return wrapError(KindHostError, "preload", err)
	}
	defer rows.Close()

	var buf []byte
	count := 0
	for rows.Next() {
		var counter int
		var data []byte
		if err := rows.Scan(&counter, &data); err != nil {
			return wrapError(KindHostError, "preload", err)
		}
		buf = append(buf, data...)
		count += counter
	}
	if err := rows.Err(); err != nil {
		return wrapError(KindHostError, "preload", err)
	}

	tc.Preload(buf, count)
	e.log.Debug("preload complete", "table", table, "column", column, "count", count)
	return nil
}

// MemoryReport returns the number of bytes the shadow store for
// (table, column) currently occupies on disk, matching
// vector_quantize_memory. It returns 0, not an error, if the shadow table
// doesn't exist yet.
func (e *Engine) MemoryReport(ctx context.Context, table, column string) (int64, error) {
	if err := e.checkOpen(); err != nil {
		return 0, err
	}
	if _, ok := e.registry.Lookup(table, column); !ok {
		return 0, wrapError(KindStateError, "quantize_memory", ErrNotRegistered)
	}

	exists, err := sqliteutil.TableExists(ctx, e.db, registry.QuantTableName(table, column))
	if err != nil {
		return 0, wrapError(KindHostError, "quantize_memory", err)
	}
	if !exists {
		return 0, nil
	}

	var total sql.NullInt64
	row := e.db.QueryRowContext(ctx, registry.MemoryQuantTableSQL(table, column))
	if err := row.Scan(&total); err != nil {
		return 0, wrapError(KindHostError, "quantize_memory", err)
	}
	return total.Int64, nil
}

// Cleanup drops the shadow table and blanks the column's registry entry,
// matching vector_cleanup.
func (e *Engine) Cleanup(ctx context.Context, table, column string) error {
	if err := e.checkOpen(); err != nil {
		return err
	}
	if _, err := e.db.ExecContext(ctx, registry.DropQuantTableSQL(table, column)); err != nil {
		return wrapError(KindHostError, "cleanup", err)
	}
	e.registry.Cleanup(table, column)
	e.log.Info("cleanup complete", "table", table, "column", column)
	return nil
}
