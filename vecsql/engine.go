// Package vecsql is the public surface: an Engine wraps a SQLite
// connection, registers the scalar vector functions, and exposes the
// full-scan and quantized-scan search operations as Go methods.
package vecsql

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"github.com/sqliteai/go-vector/registry"
)

// Kind categorizes a vecsql error, matching the six categories the
// original extension's error codes map to.
type Kind int

const (
	KindInvalidArgument Kind = iota
	KindSchemaError
	KindStateError
	KindResourceError
	KindFormatError
	KindHostError
)

func (k Kind) String() string {
	switch k {
	case KindInvalidArgument:
		return "invalid_argument"
	case KindSchemaError:
		return "schema_error"
	case KindStateError:
		return "state_error"
	case KindResourceError:
		return "resource_error"
	case KindFormatError:
		return "format_error"
	case KindHostError:
		return "host_error"
	default:
		return "unknown"
	}
}

// Error wraps an underlying error with a Kind and the operation that
// produced it, in the same shape as the teacher's StoreError.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("vecsql: %s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("vecsql: %s: %s: %v", e.Kind, e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool { return errors.Is(e.Err, target) }

func wrapError(kind Kind, op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

// Sentinel errors for the conditions callers are expected to check for.
var (
	ErrNotRegistered    = errors.New("column is not registered")
	ErrCapacityExceeded = errors.New("registry is at capacity")
	ErrShadowMissing    = errors.New("quantize must be called before this operation")
	ErrEngineClosed     = errors.New("engine is closed")
	ErrDimensionMismatch = errors.New("vector dimension does not match column dimension")
)

// Logger is the structured-logging interface Engine methods use. The
// default implementation is backed by zerolog (see NewZerologLogger);
// NopLogger discards everything, for tests.
type Logger interface {
	Debug(msg string, keyvals ...any)
	Info(msg string, keyvals ...any)
	Warn(msg string, keyvals ...any)
	Error(msg string, keyvals ...any)
	With(keyvals ...any) Logger
}

type zerologAdapter struct {
	logger zerolog.Logger
}

// NewZerologLogger adapts a zerolog.Logger to the Logger interface.
func NewZerologLogger(zl zerolog.Logger) Logger {
	return zerologAdapter{logger: zl}
}

func (z zerologAdapter) event(e *zerolog.Event, msg string, keyvals ...any) {
	for i := 0; i+1 < len(keyvals); i += 2 {
		key, ok := keyvals[i].(string)
		if !ok {
			continue
		}
		e = e.Interface(key, keyvals[i+1])
	}
	e.Msg(msg)
}

func (z zerologAdapter) Debug(msg string, keyvals ...any) { z.event(z.logger.Debug(), msg, keyvals...) }
func (z zerologAdapter) Info(msg string, keyvals ...any)  { z.event(z.logger.Info(), msg, keyvals...) }
func (z zerologAdapter) Warn(msg string, keyvals ...any)  { z.event(z.logger.Warn(), msg, keyvals...) }
func (z zerologAdapter) Error(msg string, keyvals ...any) { z.event(z.logger.Error(), msg, keyvals...) }

func (z zerologAdapter) With(keyvals ...any) Logger {
	ctx := z.logger.With()
	for i := 0; i+1 < len(keyvals); i += 2 {
		key, ok := keyvals[i].(string)
		if !ok {
			continue
		}
		ctx = ctx.Interface(key, keyvals[i+1])
	}
	return zerologAdapter{logger: ctx.Logger()}
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any)     {}
func (nopLogger) Info(string, ...any)      {}
func (nopLogger) Warn(string, ...any)      {}
func (nopLogger) Error(string, ...any)     {}
func (nopLogger) With(...any) Logger       { return nopLogger{} }

// NopLogger returns a Logger that discards everything.
func NopLogger() Logger { return nopLogger{} }

// EngineConfig configures the connection-level (not column-level) settings
// an Engine opens its database with.
type EngineConfig struct {
	Path             string
	BusyTimeout      time.Duration
	CacheSizeKB      int // negative per SQLite convention: -N means N KB
	DefaultMaxMemory uint64
	Logger           Logger
}

// DefaultEngineConfig mirrors the teacher's DSN tuning: WAL journal mode,
// NORMAL synchronous, a 5s busy timeout and a 2MB page cache.
func DefaultEngineConfig(path string) EngineConfig {
	return EngineConfig{
		Path:             path,
		BusyTimeout:      5 * time.Second,
		CacheSizeKB:      -2000,
		DefaultMaxMemory: registry.DefaultMaxMemory,
		Logger:           NopLogger(),
	}
}

func (c EngineConfig) dsn() string {
	return fmt.Sprintf("%s?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=%d&_cache_size=%d",
		c.Path, c.BusyTimeout.Milliseconds(), c.CacheSizeKB)
}

// registerOnce guards modernc.org/sqlite's process-wide scalar function
// registry: RegisterScalarFunction errors if called twice with the same
// name, so only the first Engine opened in a process installs them.
var registerOnce sync.Once

// Engine is the top-level handle applications hold: a SQLite connection
// plus the vector-column registry and the registered scalar functions.
type Engine struct {
	mu       sync.RWMutex
	db       *sql.DB
	registry *registry.Registry
	log      Logger
	config   EngineConfig
	closed   bool
}

// Open opens (creating if necessary) the SQLite database at cfg.Path,
// registers the scalar vector functions process-wide if no earlier Engine
// has done so, and returns a ready-to-use Engine.
func Open(cfg EngineConfig) (*Engine, error) {
	if cfg.Logger == nil {
		cfg.Logger = NopLogger()
	}
	db, err := sql.Open("sqlite", cfg.dsn())
	if err != nil {
		return nil, wrapError(KindHostError, "open", err)
	}

	e := &Engine{
		db:       db,
		registry: registry.NewRegistry(),
		log:      cfg.Logger,
		config:   cfg,
	}

	// modernc.org/sqlite registers scalar functions process-wide rather than
	// per-connection, so only the first Engine in a process installs them;
	// later Engines still work through the Go API, just not through SQL.
	var registerErr error
	registerOnce.Do(func() { registerErr = registerScalarFunctions(e) })
	if registerErr != nil {
		db.Close()
		return nil, wrapError(KindHostError, "open", registerErr)
	}

	if _, err := db.Exec(registry.MetaTableDDL); err != nil {
		db.Close()
		return nil, wrapError(KindSchemaError, "open", err)
	}

	e.log.Info("engine opened", "path", cfg.Path)
	return e, nil
}

// Close releases the underlying database connection.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil
	}
	e.closed = true
	e.log.Debug("engine closing")
	return e.db.Close()
}

func (e *Engine) checkOpen() error {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.closed {
		return wrapError(KindStateError, "", ErrEngineClosed)
	}
	return nil
}
