package services

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"time"
)

// fakeRow implements Row with a caller-supplied scan.
type fakeRow struct {
	scanFunc func(dest ...any) error
}

func (r fakeRow) Scan(dest ...any) error {
	return r.scanFunc(dest...)
}

// rowFromValues builds a Row that scans the given values positionally.
func rowFromValues(values ...any) Row {
	return fakeRow{scanFunc: func(dest ...any) error {
		return assignValues(dest, values)
	}}
}

func assignValues(dest []any, values []any) error {
	if len(dest) != len(values) {
		return fmt.Errorf("expected %d scan destinations, got %d", len(values), len(dest))
	}
	for i, v := range values {
		if v == nil {
			continue
		}
		dv := reflect.ValueOf(dest[i])
		if dv.Kind() != reflect.Pointer {
			return fmt.Errorf("scan destination %d is not a pointer", i)
		}
		elem := dv.Elem()
		sv := reflect.ValueOf(v)
		switch {
		case sv.Type().AssignableTo(elem.Type()):
			elem.Set(sv)
		case elem.Kind() == reflect.Pointer && sv.Type().AssignableTo(elem.Type().Elem()):
			p := reflect.New(elem.Type().Elem())
			p.Elem().Set(sv)
			elem.Set(p)
		case sv.Type().ConvertibleTo(elem.Type()):
			elem.Set(sv.Convert(elem.Type()))
		default:
			return fmt.Errorf("cannot scan %T into %T", v, dest[i])
		}
	}
	return nil
}

// fakeRows implements Rows over a fixed result set.
type fakeRows struct {
	rows    [][]any
	idx     int
	scanErr error
	err     error
}

func (r *fakeRows) Next() bool {
	if r.idx >= len(r.rows) {
		return false
	}
	r.idx++
	return true
}

func (r *fakeRows) Scan(dest ...any) error {
	if r.scanErr != nil {
		return r.scanErr
	}
	return assignValues(dest, r.rows[r.idx-1])
}

func (r *fakeRows) Close() {}

func (r *fakeRows) Err() error { return r.err }

type fakeCommandTag struct {
	rowsAffected int64
}

func (t fakeCommandTag) RowsAffected() int64 { return t.rowsAffected }

// fakeDB implements DBConn with per-method hooks. Unset hooks behave
// permissively so tests only wire what they assert on.
type fakeDB struct {
	QueryRowFunc func(ctx context.Context, sql string, args ...any) Row
	QueryFunc    func(ctx context.Context, sql string, args ...any) (Rows, error)
	ExecFunc     func(ctx context.Context, sql string, args ...any) (CommandTag, error)
	BeginFunc    func(ctx context.Context) (Tx, error)

	tx *fakeTx
}

func (f *fakeDB) QueryRow(ctx context.Context, sql string, args ...any) Row {
	if f.QueryRowFunc != nil {
		return f.QueryRowFunc(ctx, sql, args...)
	}
	return fakeRow{scanFunc: func(dest ...any) error {
		return errors.New("unexpected QueryRow")
	}}
}

func (f *fakeDB) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	if f.QueryFunc != nil {
		return f.QueryFunc(ctx, sql, args...)
	}
	return &fakeRows{}, nil
}

func (f *fakeDB) Exec(ctx context.Context, sql string, args ...any) (CommandTag, error) {
	if f.ExecFunc != nil {
		return f.ExecFunc(ctx, sql, args...)
	}
	return fakeCommandTag{rowsAffected: 1}, nil
}

func (f *fakeDB) Begin(ctx context.Context) (Tx, error) {
	if f.BeginFunc != nil {
		return f.BeginFunc(ctx)
	}
	f.tx = &fakeTx{db: f}
	return f.tx, nil
}

// fakeTx delegates statements back to the fakeDB hooks and records
// commit/rollback calls.
type fakeTx struct {
	db        *fakeDB
	commits   int
	rollbacks int
	commitErr error
}

func (t *fakeTx) QueryRow(ctx context.Context, sql string, args ...any) Row {
	return t.db.QueryRow(ctx, sql, args...)
}

func (t *fakeTx) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	return t.db.Query(ctx, sql, args...)
}

func (t *fakeTx) Exec(ctx context.Context, sql string, args ...any) (CommandTag, error) {
	return t.db.Exec(ctx, sql, args...)
}

func (t *fakeTx) Commit(ctx context.Context) error {
	t.commits++
	return t.commitErr
}

func (t *fakeTx) Rollback(ctx context.Context) error {
	t.rollbacks++
	return nil
}

// fakeRedis implements RedisConn in memory, recording TTLs for assertions.
type fakeRedis struct {
	store  map[string]string
	ttls   map[string]time.Duration
	setErr error
	getErr error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{
		store: make(map[string]string),
		ttls:  make(map[string]time.Duration),
	}
}

func (f *fakeRedis) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.store[key] = value
	f.ttls[key] = ttl
	return nil
}

func (f *fakeRedis) Get(ctx context.Context, key string) (string, error) {
	if f.getErr != nil {
		return "", f.getErr
	}
	val, ok := f.store[key]
	if !ok {
		return "", ErrCacheMiss
	}
	return val, nil
}

func (f *fakeRedis) Del(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.store, key)
		delete(f.ttls, key)
	}
	return nil
}
