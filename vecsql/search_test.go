package vecsql

import (
	"math"
	"testing"

	"github.com/sqliteai/go-vector/kernel"
)

func TestFindMaxIndexSmall(t *testing.T) {
	values := []float64{3, 1, 4, 1, 5, 9, 2}
	idx := findMaxIndex(values)
	if idx != 5 {
		t.Errorf("expected index 5, got %d", idx)
	}
}

func TestFindMaxIndexLarge(t *testing.T) {
	values := make([]float64, 40)
	for i := range values {
		values[i] = float64(i)
	}
	values[37] = 1000
	idx := findMaxIndex(values)
	if idx != 37 {
		t.Errorf("expected index 37, got %d", idx)
	}
}

func TestSortSlots(t *testing.T) {
	distance := []float64{3, 1, math.Inf(1), 2}
	rowids := []int64{30, 10, 99, 20}
	empty := sortSlots(distance, rowids)
	if empty != 1 {
		t.Errorf("expected 1 empty slot, got %d", empty)
	}
	want := []float64{1, 2, 3, math.Inf(1)}
	for i, d := range want {
		if distance[i] != d {
			t.Errorf("slot %d: got %v, want %v", i, distance[i], d)
		}
	}
	if rowids[0] != 10 || rowids[1] != 20 || rowids[2] != 30 {
		t.Errorf("unexpected rowid order: %v", rowids)
	}
}

func TestTopKSlots(t *testing.T) {
	slots := newTopKSlots(3)
	slots.consider(1, 5.0)
	slots.consider(2, 1.0)
	slots.consider(3, 3.0)
	slots.consider(4, 0.5) // should evict the worst (5.0, rowid 1)
	results := slots.finish()
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if results[0].RowID != 4 || results[0].Distance != 0.5 {
		t.Errorf("expected closest result to be rowid 4 at 0.5, got %+v", results[0])
	}
	for _, r := range results {
		if r.RowID == 1 {
			t.Errorf("rowid 1 should have been evicted, found in results: %+v", results)
		}
	}
}

func TestTopKSlotsFewerCandidatesThanK(t *testing.T) {
	slots := newTopKSlots(5)
	slots.consider(1, 2.0)
	slots.consider(2, 1.0)
	results := slots.finish()
	if len(results) != 2 {
		t.Fatalf("expected 2 results (fewer candidates than k), got %d", len(results))
	}
	if results[0].RowID != 2 || results[1].RowID != 1 {
		t.Errorf("unexpected order: %+v", results)
	}
}

func TestWidenToF32BytesPassthrough(t *testing.T) {
	v := []float32{1, 2, 3}
	b := f32ToBytes(v)
	out, err := widenToF32Bytes(b, kernel.F32, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != len(b) {
		t.Fatalf("expected passthrough, got different length")
	}
}
