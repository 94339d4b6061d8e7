package vecsql

import (
	"context"
	"testing"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	cfg := DefaultEngineConfig("file::memory:?cache=shared")
	e, err := Open(cfg)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { e.Close() })
	return e
}

func seedDocs(t *testing.T, e *Engine, vectors [][]float32) {
	t.Helper()
	ctx := context.Background()
	if _, err := e.db.ExecContext(ctx, `CREATE TABLE docs (id INTEGER PRIMARY KEY, embedding BLOB);`); err != nil {
		t.Fatalf("create table: %v", err)
	}
	for _, v := range vectors {
		if _, err := e.db.ExecContext(ctx, `INSERT INTO docs (embedding) VALUES (?);`, f32ToBytes(v)); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}
}

func TestInitColumnRequiresExistingTable(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	err := e.InitColumn(ctx, "missing", "embedding", "dimension=4")
	if err == nil {
		t.Fatal("expected error for unregistered table")
	}
}

func TestInitColumnRequiresDimension(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	seedDocs(t, e, nil)
	if err := e.InitColumn(ctx, "docs", "embedding", "type=FLOAT32"); err == nil {
		t.Fatal("expected error for missing dimension option")
	}
}

func TestInitColumnRequiresExistingColumn(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	seedDocs(t, e, nil)
	if err := e.InitColumn(ctx, "docs", "nonexistent", "dimension=4"); err == nil {
		t.Fatal("expected error for a column that doesn't exist")
	}
}

func TestInitColumnRequiresBlobColumn(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	seedDocs(t, e, nil)
	if _, err := e.db.ExecContext(ctx, `ALTER TABLE docs ADD COLUMN label TEXT;`); err != nil {
		t.Fatalf("alter table: %v", err)
	}
	if err := e.InitColumn(ctx, "docs", "label", "dimension=4"); err == nil {
		t.Fatal("expected error for a non-BLOB column")
	}
}

func TestInitColumnRejectsMismatchedReinit(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	seedDocs(t, e, nil)
	if err := e.InitColumn(ctx, "docs", "embedding", "dimension=4"); err != nil {
		t.Fatalf("InitColumn: %v", err)
	}
	if err := e.InitColumn(ctx, "docs", "embedding", "dimension=8"); err == nil {
		t.Fatal("expected error re-initializing the same column with a different dimension")
	}
}

func TestMemoryReportTracksQuantization(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	seedDocs(t, e, [][]float32{
		{0, 0, 0, 0},
		{1, 1, 1, 1},
	})
	if err := e.InitColumn(ctx, "docs", "embedding", "dimension=4"); err != nil {
		t.Fatalf("InitColumn: %v", err)
	}
	before, err := e.MemoryReport(ctx, "docs", "embedding")
	if err != nil {
		t.Fatalf("MemoryReport before quantize: %v", err)
	}
	if before != 0 {
		t.Errorf("expected 0 bytes before quantize, got %d", before)
	}
	if err := e.Quantize(ctx, "docs", "embedding"); err != nil {
		t.Fatalf("Quantize: %v", err)
	}
	after, err := e.MemoryReport(ctx, "docs", "embedding")
	if err != nil {
		t.Fatalf("MemoryReport after quantize: %v", err)
	}
	if after <= 0 {
		t.Errorf("expected positive byte count after quantize, got %d", after)
	}
}

func TestFullScanFindsNearestNeighbor(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	seedDocs(t, e, [][]float32{
		{0, 0, 0, 0},
		{1, 0, 0, 0},
		{10, 10, 10, 10},
	})
	if err := e.InitColumn(ctx, "docs", "embedding", "type=FLOAT32,dimension=4,distance=l2"); err != nil {
		t.Fatalf("InitColumn: %v", err)
	}

	results, err := e.FullScan(ctx, "docs", "embedding", []float32{0, 0, 0, 0}, 2)
	if err != nil {
		t.Fatalf("FullScan: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].RowID != 1 {
		t.Errorf("expected closest row to be rowid 1, got %+v", results[0])
	}
	if results[1].RowID != 2 {
		t.Errorf("expected second closest row to be rowid 2, got %+v", results[1])
	}
}

func TestFullScanRejectsDimensionMismatch(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	seedDocs(t, e, [][]float32{{0, 0, 0, 0}})
	if err := e.InitColumn(ctx, "docs", "embedding", "dimension=4"); err != nil {
		t.Fatalf("InitColumn: %v", err)
	}
	if _, err := e.FullScan(ctx, "docs", "embedding", []float32{0, 0}, 1); err == nil {
		t.Fatal("expected dimension mismatch error")
	}
}

func TestQuantizeAndQuantizedScan(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	seedDocs(t, e, [][]float32{
		{0, 0, 0, 0},
		{1, 1, 1, 1},
		{5, 5, 5, 5},
	})
	if err := e.InitColumn(ctx, "docs", "embedding", "dimension=4,qtype=u8"); err != nil {
		t.Fatalf("InitColumn: %v", err)
	}
	if err := e.Quantize(ctx, "docs", "embedding"); err != nil {
		t.Fatalf("Quantize: %v", err)
	}

	results, err := e.QuantizedScan(ctx, "docs", "embedding", []float32{0, 0, 0, 0}, 1)
	if err != nil {
		t.Fatalf("QuantizedScan: %v", err)
	}
	if len(results) != 1 || results[0].RowID != 1 {
		t.Fatalf("expected nearest quantized row to be rowid 1, got %+v", results)
	}
}

func TestQuantizedScanWithoutQuantizeFails(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	seedDocs(t, e, [][]float32{{0, 0, 0, 0}})
	if err := e.InitColumn(ctx, "docs", "embedding", "dimension=4"); err != nil {
		t.Fatalf("InitColumn: %v", err)
	}
	if _, err := e.QuantizedScan(ctx, "docs", "embedding", []float32{0, 0, 0, 0}, 1); err == nil {
		t.Fatal("expected error because Quantize was never called")
	}
}

func TestPreloadThenQuantizedScan(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	seedDocs(t, e, [][]float32{
		{0, 0, 0, 0},
		{2, 2, 2, 2},
	})
	if err := e.InitColumn(ctx, "docs", "embedding", "dimension=4"); err != nil {
		t.Fatalf("InitColumn: %v", err)
	}
	if err := e.Quantize(ctx, "docs", "embedding"); err != nil {
		t.Fatalf("Quantize: %v", err)
	}
	if err := e.Preload(ctx, "docs", "embedding"); err != nil {
		t.Fatalf("Preload: %v", err)
	}

	results, err := e.QuantizedScan(ctx, "docs", "embedding", []float32{2, 2, 2, 2}, 1)
	if err != nil {
		t.Fatalf("QuantizedScan after preload: %v", err)
	}
	if len(results) != 1 || results[0].RowID != 2 {
		t.Fatalf("expected preloaded scan to find rowid 2, got %+v", results)
	}
}

func TestCleanupDropsShadowAndRegistration(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	seedDocs(t, e, [][]float32{{0, 0, 0, 0}})
	if err := e.InitColumn(ctx, "docs", "embedding", "dimension=4"); err != nil {
		t.Fatalf("InitColumn: %v", err)
	}
	if err := e.Quantize(ctx, "docs", "embedding"); err != nil {
		t.Fatalf("Quantize: %v", err)
	}
	if err := e.Cleanup(ctx, "docs", "embedding"); err != nil {
		t.Fatalf("Cleanup: %v", err)
	}
	if _, err := e.QuantizedScan(ctx, "docs", "embedding", []float32{0, 0, 0, 0}, 1); err == nil {
		t.Fatal("expected error after cleanup removed the registration")
	}
}

func TestFullScanReportsUndersizedBlobWithoutPanicking(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	seedDocs(t, e, [][]float32{{0, 0, 0, 0}})
	if _, err := e.db.ExecContext(ctx, `INSERT INTO docs (embedding) VALUES (?);`, []byte{1, 2, 3}); err != nil {
		t.Fatalf("insert undersized blob: %v", err)
	}
	if err := e.InitColumn(ctx, "docs", "embedding", "dimension=4"); err != nil {
		t.Fatalf("InitColumn: %v", err)
	}

	_, err := e.FullScan(ctx, "docs", "embedding", []float32{0, 0, 0, 0}, 1)
	if err == nil {
		t.Fatal("expected error for undersized stored vector")
	}
	if got := err.Error(); got == "" {
		t.Fatal("expected a descriptive error message")
	}
}

func TestEngineClosedRejectsOperations(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	seedDocs(t, e, [][]float32{{0, 0, 0, 0}})
	if err := e.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := e.InitColumn(ctx, "docs", "embedding", "dimension=4"); err == nil {
		t.Fatal("expected error on closed engine")
	}
}
