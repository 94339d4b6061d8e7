package kernel

// DispatchTable maps (metric, element type) pairs to the kernel function
// selected for a given backend, mirroring dispatch_distance_table in the
// reference implementation. F16 and BF16 have no native kernels: callers
// widen to F32 first (see vecsql's use of the numeric package) before
// looking a function up here.
type DispatchTable struct {
	backend Backend
	table   [numMetrics][numElementTypes]Func
}

// NewDispatchTable builds a table for the given backend. Passing
// BackendScalar always succeeds; BackendLane128/BackendLane256 fall back
// silently is never done here -- the caller is expected to have already
// called DetectBackend to pick an available one.
func NewDispatchTable(b Backend) *DispatchTable {
	d := &DispatchTable{backend: b}
	switch b {
	case BackendLane256:
		d.fill(lane256F32L2, lane256F32SquaredL2, lane256F32Cosine, lane256F32Dot, lane256F32L1,
			lane256U8L2, lane256U8SquaredL2, lane256U8Cosine, lane256U8Dot, lane256U8L1,
			lane256I8L2, lane256I8SquaredL2, lane256I8Cosine, lane256I8Dot, lane256I8L1)
	case BackendLane128:
		d.fill(lane128F32L2, lane128F32SquaredL2, lane128F32Cosine, lane128F32Dot, lane128F32L1,
			lane128U8L2, lane128U8SquaredL2, lane128U8Cosine, lane128U8Dot, lane128U8L1,
			lane128I8L2, lane128I8SquaredL2, lane128I8Cosine, lane128I8Dot, lane128I8L1)
	default:
		d.fill(scalarF32L2, scalarF32SquaredL2, scalarF32Cosine, scalarF32Dot, scalarF32L1,
			scalarU8L2, scalarU8SquaredL2, scalarU8Cosine, scalarU8Dot, scalarU8L1,
			scalarI8L2, scalarI8SquaredL2, scalarI8Cosine, scalarI8Dot, scalarI8L1)
	}
	return d
}

func (d *DispatchTable) fill(
	f32L2, f32SqL2, f32Cos, f32Dot, f32L1 Func,
	u8L2, u8SqL2, u8Cos, u8Dot, u8L1 Func,
	i8L2, i8SqL2, i8Cos, i8Dot, i8L1 Func,
) {
	d.table[L2][F32] = f32L2
	d.table[SquaredL2][F32] = f32SqL2
	d.table[Cosine][F32] = f32Cos
	d.table[Dot][F32] = f32Dot
	d.table[L1][F32] = f32L1

	d.table[L2][U8] = u8L2
	d.table[SquaredL2][U8] = u8SqL2
	d.table[Cosine][U8] = u8Cos
	d.table[Dot][U8] = u8Dot
	d.table[L1][U8] = u8L1

	d.table[L2][I8] = i8L2
	d.table[SquaredL2][I8] = i8SqL2
	d.table[Cosine][I8] = i8Cos
	d.table[Dot][I8] = i8Dot
	d.table[L1][I8] = i8L1
}

// Backend reports which backend this table was built for.
func (d *DispatchTable) Backend() Backend { return d.backend }

// Lookup returns the kernel function for (metric, elemType), or nil if
// none is registered (F16/BF16, or an out-of-range value).
func (d *DispatchTable) Lookup(m Metric, elemType ElementType) Func {
	if m < 0 || m >= numMetrics || elemType < 0 || elemType >= numElementTypes {
		return nil
	}
	return d.table[m][elemType]
}
