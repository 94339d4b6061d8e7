package vecsql

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/sqliteai/go-vector/internal/sqliteutil"
	"github.com/sqliteai/go-vector/kernel"
	"github.com/sqliteai/go-vector/numeric"
	"github.com/sqliteai/go-vector/quantize"
	"github.com/sqliteai/go-vector/registry"
)

// SearchResult is one row of a top-k search: a source-table row identifier
// and its distance from the query vector under the column's metric.
type SearchResult struct {
	RowID    int64
	Distance float64
}

// findMaxIndex returns the index of the largest value in values, using the
// reference's two regimes: a plain linear scan for n<=32, and a 4-wide
// unrolled scan above that threshold.
func findMaxIndex(values []float64) int {
	n := len(values)
	maxIdx := 0
	if n <= 32 {
		for i := 1; i < n; i++ {
			if values[i] > values[maxIdx] {
				maxIdx = i
			}
		}
		return maxIdx
	}

	maxVal := values[0]
	i := 1
	for ; i+3 < n; i += 4 {
		if values[i] > maxVal {
			maxVal, maxIdx = values[i], i
		}
		if values[i+1] > maxVal {
			maxVal, maxIdx = values[i+1], i+1
		}
		if values[i+2] > maxVal {
			maxVal, maxIdx = values[i+2], i+2
		}
		if values[i+3] > maxVal {
			maxVal, maxIdx = values[i+3], i+3
		}
	}
	for ; i < n; i++ {
		if values[i] > maxVal {
			maxVal, maxIdx = values[i], i
		}
	}
	return maxIdx
}

// sortSlots sorts distance/rowids in place by ascending distance using the
// reference's O(n^2) pairwise-swap sort, and returns how many slots are
// still +Inf (never filled because fewer than k candidates existed).
func sortSlots(distance []float64, rowids []int64) int {
	n := len(distance)
	counter := 0
	for i := 0; i < n-1; i++ {
		for j := i + 1; j < n; j++ {
			if distance[j] < distance[i] {
				distance[i], distance[j] = distance[j], distance[i]
				rowids[i], rowids[j] = rowids[j], rowids[i]
			}
		}
		if math.IsInf(distance[i], 1) {
			counter++
		}
	}
	if n > 0 && math.IsInf(distance[n-1], 1) {
		counter++
	}
	return counter
}

// topKSlots is the unsorted k-slot candidate buffer the scan loops narrow
// down via findMaxIndex, matching vFullScanCursor's rowids/distance pair.
type topKSlots struct {
	rowids   []int64
	distance []float64
	maxIndex int
}

func newTopKSlots(k int) *topKSlots {
	d := make([]float64, k)
	for i := range d {
		d[i] = math.Inf(1)
	}
	return &topKSlots{rowids: make([]int64, k), distance: d}
}

// consider offers one (rowid, distance) candidate to the slot buffer,
// replacing the current worst slot if it's better, then recomputing which
// slot is now worst -- the inner loop of vFullScanRun/vQuantRun.
func (s *topKSlots) consider(rowid int64, distance float64) {
	if distance < s.distance[s.maxIndex] {
		s.distance[s.maxIndex] = distance
		s.rowids[s.maxIndex] = rowid
		s.maxIndex = findMaxIndex(s.distance)
	}
}

func (s *topKSlots) finish() []SearchResult {
	emptySlots := sortSlots(s.distance, s.rowids)
	n := len(s.distance) - emptySlots
	out := make([]SearchResult, n)
	for i := 0; i < n; i++ {
		out[i] = SearchResult{RowID: s.rowids[i], Distance: s.distance[i]}
	}
	return out
}

// FullScan runs an exact k-nearest-neighbor search over every row of the
// registered (table, column) pair's source table, comparing the query
// vector against each stored vector with the column's configured metric.
func (e *Engine) FullScan(ctx context.Context, table, column string, query []float32, k int) ([]SearchResult, error) {
	if err := e.checkOpen(); err != nil {
		return nil, err
	}
	if k <= 0 {
		return nil, wrapError(KindInvalidArgument, "full_scan", fmt.Errorf("k must be positive, got %d", k))
	}

	tc, ok := e.registry.Lookup(table, column)
	if !ok {
		return nil, wrapError(KindStateError, "full_scan", ErrNotRegistered)
	}
	if len(query) != tc.Options.Dimension {
		return nil, wrapError(KindInvalidArgument, "full_scan", ErrDimensionMismatch)
	}

	dispatch := kernel.NewDispatchTable(kernel.DetectBackend())
	distFn := dispatch.Lookup(kernel.Metric(tc.Options.Distance), kernel.F32)
	if distFn == nil {
		return nil, wrapError(KindStateError, "full_scan", ErrNotRegistered)
	}
	queryBytes := f32ToBytes(query)

	rows, err := e.db.QueryContext(ctx, registry.SelectFromTableSQL(table, column, tc.PKName))
	if err != nil {
		return nil, wrapError(KindHostError, "full_scan", err)
	}
	defer rows.Close()

	slots := newTopKSlots(k)
	for rows.Next() {
		var rowid int64
		var blob []byte
		if err := rows.Scan(&rowid, &blob); err != nil {
			return nil, wrapError(KindHostError, "full_scan", err)
		}
		v2, err := widenToF32Bytes(blob, tc.Options.Type, tc.Options.Dimension)
		if err != nil {
			return nil, wrapError(KindFormatError, "full_scan", fmt.Errorf("row %s=%d: %w", tc.PKName, rowid, err))
		}
		d := float64(distFn(queryBytes, v2, tc.Options.Dimension))
		slots.consider(rowid, d)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapError(KindHostError, "full_scan", err)
	}

	e.log.Debug("full_scan complete", "table", table, "column", column, "k", k)
	return slots.finish(), nil
}

// QuantizedScan runs an approximate k-nearest-neighbor search over the
// byte-quantized shadow store for (table, column), either streaming
// batches from the shadow table or, if Preload has populated an in-memory
// buffer, scanning that buffer directly.
func (e *Engine) QuantizedScan(ctx context.Context, table, column string, query []float32, k int) ([]SearchResult, error) {
	if err := e.checkOpen(); err != nil {
		return nil, err
	}
	if k <= 0 {
		return nil, wrapError(KindInvalidArgument, "quantized_scan", fmt.Errorf("k must be positive, got %d", k))
	}

	tc, ok := e.registry.Lookup(table, column)
	if !ok {
		return nil, wrapError(KindStateError, "quantized_scan", ErrNotRegistered)
	}
	if len(query) != tc.Options.Dimension {
		return nil, wrapError(KindInvalidArgument, "quantized_scan", ErrDimensionMismatch)
	}

	dim := tc.Options.Dimension
	quantType := quantize.QType(0)
	switch tc.Options.QType {
	case quantize.U8, quantize.I8:
		quantType = tc.Options.QType
	default:
		quantType = quantize.U8
	}

	elemType := kernel.U8
	if quantType == quantize.I8 {
		elemType = kernel.I8
	}
	dispatch := kernel.NewDispatchTable(kernel.DetectBackend())
	distFn := dispatch.Lookup(kernel.Metric(tc.Options.Distance), elemType)
	if distFn == nil {
		return nil, wrapError(KindStateError, "quantized_scan", ErrNotRegistered)
	}

	qv := make([]byte, dim)
	if quantType == quantize.U8 {
		code := make([]uint8, dim)
		quantize.EncodeU8(query, code, tc.Offset, tc.Scale)
		for i, b := range code {
			qv[i] = b
		}
	} else {
		code := make([]int8, dim)
		quantize.EncodeI8(query, code, tc.Offset, tc.Scale)
		for i, b := range code {
			qv[i] = byte(b)
		}
	}

	slots := newTopKSlots(k)

	if data, _, ok := tc.Preloaded(); ok {
		rowids, codes, err := registry.DecodeShadowBatch(data, dim)
		if err != nil {
			return nil, wrapError(KindFormatError, "quantized_scan", err)
		}
		for i, code := range codes {
			d := float64(distFn(qv, code, dim))
			slots.consider(rowids[i], d)
		}
		return slots.finish(), nil
	}

	shadowExists, err := sqliteutil.TableExists(ctx, e.db, registry.QuantTableName(table, column))
	if err != nil {
		return nil, wrapError(KindHostError, "quantized_scan", err)
	}
	if !shadowExists {
		return nil, wrapError(KindStateError, "quantized_scan", ErrShadowMissing)
	}

	rows, err := e.db.QueryContext(ctx, registry.SelectQuantTableSQL(table, column))
	if err != nil {
		return nil, wrapError(KindHostError, "quantized_scan", err)
	}
	defer rows.Close()

	for rows.Next() {
		var counter int
		var data []byte
		if err := rows.Scan(&counter, &data); err != nil {
			return nil, wrapError(KindHostError, "quantized_scan", err)
		}
		rowids, codes, err := registry.DecodeShadowBatch(data, dim)
		if err != nil {
			return nil, wrapError(KindFormatError, "quantized_scan", err)
		}
		for i, code := range codes {
			d := float64(distFn(qv, code, dim))
			slots.consider(rowids[i], d)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, wrapError(KindHostError, "quantized_scan", err)
	}

	e.log.Debug("quantized_scan complete", "table", table, "column", column, "k", k)
	return slots.finish(), nil
}

func f32ToBytes(v []float32) []byte {
	buf := make([]byte, 4*len(v))
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// widenToF32Bytes converts a stored blob in its native element encoding
// into little-endian float32 bytes the kernel dispatch table can consume,
// mirroring the per-element widening inline in vector_rebuild_quantization
// and the scan loops for non-F32 columns.
func widenToF32Bytes(blob []byte, t kernel.ElementType, dim int) ([]byte, error) {
	want := dim * t.Size()
	if len(blob) != want {
		return nil, fmt.Errorf("source vector is %d bytes, expected %d for a %d-element %s vector", len(blob), want, dim, t.String())
	}
	if t == kernel.F32 {
		return blob, nil
	}
	out := make([]byte, dim*4)
	for i := 0; i < dim; i++ {
		var f float32
		switch t {
		case kernel.F16:
			f = numeric.Float16ToFloat32(binary.LittleEndian.Uint16(blob[i*2:]))
		case kernel.BF16:
			f = numeric.BFloat16ToFloat32(binary.LittleEndian.Uint16(blob[i*2:]))
		case kernel.U8:
			f = float32(blob[i])
		case kernel.I8:
			f = float32(int8(blob[i]))
		}
		binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(f))
	}
	return out, nil
}
