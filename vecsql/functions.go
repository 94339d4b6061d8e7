package vecsql

import (
	"context"
	"database/sql/driver"
	"fmt"

	sqlite "modernc.org/sqlite"

	"github.com/sqliteai/go-vector/kernel"
	"github.com/sqliteai/go-vector/numeric"
)

// Version is the library's version string, returned by the "version" SQL
// function, matching vector_version.
const Version = "0.1.0"

// registerScalarFunctions registers every scalar SQL function the engine
// exposes (version, backend, init, quantize, preload, cleanup, and the
// as_* element-type converters) through modernc.org/sqlite's function
// registration API, the Go-native substitute for sqlite3_create_function.
func registerScalarFunctions(e *Engine) error {
	register := func(name string, nArg int, fn func(ctx *sqlite.FunctionContext, args []driver.Value) (driver.Value, error)) error {
		return sqlite.RegisterDeterministicScalarFunction(name, nArg, fn)
	}

	if err := register("vector_version", 0, func(_ *sqlite.FunctionContext, _ []driver.Value) (driver.Value, error) {
		return Version, nil
	}); err != nil {
		return err
	}

	if err := register("vector_backend", 0, func(_ *sqlite.FunctionContext, _ []driver.Value) (driver.Value, error) {
		return kernel.DetectBackend().String(), nil
	}); err != nil {
		return err
	}

	if err := sqlite.RegisterScalarFunction("vector_init", 3, func(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
		table, column, options, err := stringArgs3(args)
		if err != nil {
			return nil, err
		}
		if err := e.InitColumn(context.Background(), table, column, options); err != nil {
			return nil, err
		}
		return int64(1), nil
	}); err != nil {
		return err
	}

	if err := sqlite.RegisterScalarFunction("vector_quantize", 2, func(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
		table, column, err := stringArgs2(args)
		if err != nil {
			return nil, err
		}
		if err := e.Quantize(context.Background(), table, column); err != nil {
			return nil, err
		}
		return int64(1), nil
	}); err != nil {
		return err
	}

	if err := sqlite.RegisterScalarFunction("vector_quantize_preload", 2, func(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
		table, column, err := stringArgs2(args)
		if err != nil {
			return nil, err
		}
		if err := e.Preload(context.Background(), table, column); err != nil {
			return nil, err
		}
		return int64(1), nil
	}); err != nil {
		return err
	}

	if err := sqlite.RegisterScalarFunction("vector_cleanup", 2, func(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
		table, column, err := stringArgs2(args)
		if err != nil {
			return nil, err
		}
		if err := e.Cleanup(context.Background(), table, column); err != nil {
			return nil, err
		}
		return int64(1), nil
	}); err != nil {
		return err
	}

	if err := sqlite.RegisterScalarFunction("vector_quantize_memory", 2, func(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
		table, column, err := stringArgs2(args)
		if err != nil {
			return nil, err
		}
		n, err := e.MemoryReport(context.Background(), table, column)
		if err != nil {
			return nil, err
		}
		return n, nil
	}); err != nil {
		return err
	}

	converters := map[string]kernel.ElementType{
		"vector_as_f32": kernel.F32,
		"vector_as_f16": kernel.F16,
		"vector_as_bf16": kernel.BF16,
		"vector_as_u8": kernel.U8,
		"vector_as_i8": kernel.I8,
	}
	for name, elemType := range converters {
		name, elemType := name, elemType
		fn := func(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
			return vectorAsType(elemType, args)
		}
		if err := register(name, 1, fn); err != nil {
			return err
		}
		if err := register(name, 2, fn); err != nil {
			return err
		}
	}

	return nil
}

func stringArgs2(args []driver.Value) (string, string, error) {
	if len(args) != 2 {
		return "", "", fmt.Errorf("expected 2 arguments, got %d", len(args))
	}
	a, ok1 := args[0].(string)
	b, ok2 := args[1].(string)
	if !ok1 || !ok2 {
		return "", "", fmt.Errorf("expected TEXT arguments")
	}
	return a, b, nil
}

func stringArgs3(args []driver.Value) (string, string, string, error) {
	if len(args) != 3 {
		return "", "", "", fmt.Errorf("expected 3 arguments, got %d", len(args))
	}
	a, ok1 := args[0].(string)
	b, ok2 := args[1].(string)
	c, ok3 := args[2].(string)
	if !ok1 || !ok2 || !ok3 {
		return "", "", "", fmt.Errorf("expected TEXT arguments")
	}
	return a, b, c, nil
}

// vectorAsType implements the as_E(value [, dim]) converter contract:
// a BLOB argument is validated (length a multiple of the element size,
// and equal to dim*size when dim is given) and passed through unchanged;
// a TEXT argument is parsed as a JSON vector literal, range-checked
// against dim if given, and encoded into a fresh BLOB of the target
// element type. Any other input type fails, matching vector_as_type.
func vectorAsType(elemType kernel.ElementType, args []driver.Value) (driver.Value, error) {
	if len(args) != 1 && len(args) != 2 {
		return nil, fmt.Errorf("expected 1 or 2 arguments, got %d", len(args))
	}
	dim := 0
	if len(args) == 2 {
		n, ok := toInt64(args[1])
		if !ok {
			return nil, fmt.Errorf("expected an integer dim argument")
		}
		dim = int(n)
	}
	size := elemType.Size()

	switch v := args[0].(type) {
	case []byte:
		if size == 0 || len(v)%size != 0 {
			return nil, fmt.Errorf("invalid BLOB size for format %q: size must be a multiple of %d bytes", elemType.String(), size)
		}
		if dim > 0 && len(v) != dim*size {
			return nil, fmt.Errorf("invalid BLOB size for format %q: expected dimension %d (BLOB is %d bytes instead of %d)", elemType.String(), dim, len(v), dim*size)
		}
		return v, nil
	case string:
		vec, err := ParseJSONVector(v)
		if err != nil {
			return nil, err
		}
		if dim > 0 && len(vec) != dim {
			return nil, fmt.Errorf("invalid JSON vector dimension: expected %d but found %d", dim, len(vec))
		}
		return encodeVector(elemType, vec)
	default:
		return nil, fmt.Errorf("expected a BLOB or TEXT vector literal")
	}
}

func encodeVector(elemType kernel.ElementType, v []float32) (driver.Value, error) {
	switch elemType {
	case kernel.F32:
		return f32ToBytes(v), nil
	case kernel.F16:
		buf := make([]byte, 2*len(v))
		for i, f := range v {
			h := numeric.Float32ToFloat16(f)
			buf[i*2] = byte(h)
			buf[i*2+1] = byte(h >> 8)
		}
		return buf, nil
	case kernel.BF16:
		buf := make([]byte, 2*len(v))
		for i, f := range v {
			h := numeric.Float32ToBFloat16(f)
			buf[i*2] = byte(h)
			buf[i*2+1] = byte(h >> 8)
		}
		return buf, nil
	case kernel.U8:
		buf := make([]byte, len(v))
		for i, f := range v {
			if f < 0 || f > 255 {
				return nil, fmt.Errorf("value out of range for uint8: %v", f)
			}
			buf[i] = byte(f)
		}
		return buf, nil
	case kernel.I8:
		buf := make([]byte, len(v))
		for i, f := range v {
			if f < -128 || f > 127 {
				return nil, fmt.Errorf("value out of range for int8: %v", f)
			}
			buf[i] = byte(int8(f))
		}
		return buf, nil
	default:
		return nil, fmt.Errorf("unsupported vector type")
	}
}
