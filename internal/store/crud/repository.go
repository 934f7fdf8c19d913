package crud

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"

	"github.com/5w1tchy/libapi/internal/cache"
	"github.com/5w1tchy/libapi/internal/store/dbx"
	"github.com/5w1tchy/libapi/internal/validate"
)

// Input is a create/replace body: every non-id column, in a fixed order.
type Input interface {
	Check() error
	Assignments() (cols []string, vals []any)
}

type options struct {
	acquireTimeout time.Duration
	slowQuery      time.Duration
	cache          *cache.ListCache
	log            zerolog.Logger
}

type Option func(*options)

// WithAcquireTimeout bounds the wait for a pooled connection. A wait that
// runs out fails with ErrUnavailable instead of blocking the request.
func WithAcquireTimeout(d time.Duration) Option {
	return func(o *options) { o.acquireTimeout = d }
}

func WithSlowQueryThreshold(d time.Duration) Option {
	return func(o *options) { o.slowQuery = d }
}

func WithCache(c *cache.ListCache) Option {
	return func(o *options) { o.cache = c }
}

func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.log = l }
}

// Repository is the only component that talks to storage for one table.
// T is the row type (sqlx `db` tags must match the schema columns).
type Repository[T any, In Input] struct {
	db      *sqlx.DB
	schema  validate.Schema
	columns []string
	ph      sq.PlaceholderFormat
	opts    options
	obs     observer
}

func New[T any, In Input](db *sqlx.DB, schema validate.Schema, opts ...Option) *Repository[T, In] {
	o := options{
		acquireTimeout: 2 * time.Second,
		slowQuery:      200 * time.Millisecond,
		log:            zerolog.Nop(),
	}
	for _, fn := range opts {
		fn(&o)
	}
	return &Repository[T, In]{
		db:      db,
		schema:  schema,
		columns: schema.Columns(),
		ph:      dbx.DialectOf(db).Placeholder(),
		opts:    o,
		obs:     newObserver(schema.Table, o.log, o.slowQuery),
	}
}

func (r *Repository[T, In]) Schema() validate.Schema { return r.schema }

// conn takes a connection from the pool, waiting at most acquireTimeout.
func (r *Repository[T, In]) conn(ctx context.Context) (*sqlx.Conn, error) {
	actx := ctx
	if r.opts.acquireTimeout > 0 {
		var cancel context.CancelFunc
		actx, cancel = context.WithTimeout(ctx, r.opts.acquireTimeout)
		defer cancel()
	}
	c, err := r.db.Connx(actx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return nil, fmt.Errorf("%w: no free connection within %s", ErrUnavailable, r.opts.acquireTimeout)
		}
		return nil, err
	}
	return c, nil
}

func (r *Repository[T, In]) selectBuilder() sq.SelectBuilder {
	return sq.Select(r.columns...).From(r.schema.Table).PlaceholderFormat(r.ph)
}

func (r *Repository[T, In]) returning() string {
	return "RETURNING " + strings.Join(r.columns, ", ")
}

// FindAll returns every row ordered by id.
func (r *Repository[T, In]) FindAll(ctx context.Context) ([]T, error) {
	// ver is pinned before the SELECT; a write committed meanwhile bumps past it.
	b, ver, ok := r.opts.cache.Get(ctx, r.schema.Table)
	if ok {
		var cached []T
		if err := json.Unmarshal(b, &cached); err == nil {
			return cached, nil
		}
	}

	out := []T{}
	err := r.obs.run(ctx, "find_all", func(ctx context.Context) error {
		q, args, err := r.selectBuilder().OrderBy(validate.KeyID).ToSql()
		if err != nil {
			return err
		}
		return r.selectRows(ctx, &out, q, args)
	})
	if err != nil {
		return nil, err
	}

	if b, err := json.Marshal(out); err == nil {
		r.opts.cache.Set(ctx, r.schema.Table, ver, b)
	}
	return out, nil
}

// Get validates params, builds the filter and runs it. Empty params are the
// same as FindAll. Validation errors are returned before any storage access.
func (r *Repository[T, In]) Get(ctx context.Context, params map[string]string) ([]T, error) {
	if len(params) == 0 {
		return r.FindAll(ctx)
	}
	if err := validate.Params(r.schema, params); err != nil {
		return nil, err
	}
	pred, err := BuildFilter(r.schema, params)
	if err != nil {
		return nil, err
	}

	out := []T{}
	err = r.obs.run(ctx, "get", func(ctx context.Context) error {
		q, args, err := r.selectBuilder().Where(pred).OrderBy(validate.KeyID).ToSql()
		if err != nil {
			return err
		}
		return r.selectRows(ctx, &out, q, args)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Find returns the row with id or ErrNotFound.
func (r *Repository[T, In]) Find(ctx context.Context, id int) (T, error) {
	var row T
	err := r.obs.run(ctx, "find", func(ctx context.Context) error {
		q, args, err := r.selectBuilder().Where(sq.Eq{validate.KeyID: id}).ToSql()
		if err != nil {
			return err
		}
		c, err := r.conn(ctx)
		if err != nil {
			return err
		}
		defer c.Close()
		if err := c.GetContext(ctx, &row, q, args...); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return r.notFound(id)
			}
			return err
		}
		return nil
	})
	return row, err
}

// Create inserts in and returns the stored row with its generated id.
func (r *Repository[T, In]) Create(ctx context.Context, in In) (T, error) {
	var row T
	if err := in.Check(); err != nil {
		return row, err
	}
	cols, vals := in.Assignments()

	err := r.obs.run(ctx, "create", func(ctx context.Context) error {
		q, args, err := sq.Insert(r.schema.Table).
			Columns(cols...).
			Values(vals...).
			Suffix(r.returning()).
			PlaceholderFormat(r.ph).
			ToSql()
		if err != nil {
			return err
		}
		return r.scanOne(ctx, &row, q, args)
	})
	if err != nil {
		return row, r.writeErr(err)
	}
	r.bump(ctx)
	return row, nil
}

// Update replaces every non-id column of row id. Zero rows matched is
// ErrNotFound.
func (r *Repository[T, In]) Update(ctx context.Context, id int, in In) (T, error) {
	var row T
	if err := in.Check(); err != nil {
		return row, err
	}
	cols, vals := in.Assignments()

	err := r.obs.run(ctx, "update", func(ctx context.Context) error {
		b := sq.Update(r.schema.Table).PlaceholderFormat(r.ph)
		for i, c := range cols {
			b = b.Set(c, vals[i])
		}
		q, args, err := b.Where(sq.Eq{validate.KeyID: id}).Suffix(r.returning()).ToSql()
		if err != nil {
			return err
		}
		if err := r.scanOne(ctx, &row, q, args); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return r.notFound(id)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return row, r.writeErr(err)
	}
	r.bump(ctx)
	return row, nil
}

// Delete removes row id and returns how many rows went away. A missing row
// is not an error: the count is 0.
func (r *Repository[T, In]) Delete(ctx context.Context, id int) (int64, error) {
	var n int64
	err := r.obs.run(ctx, "delete", func(ctx context.Context) error {
		q, args, err := sq.Delete(r.schema.Table).
			Where(sq.Eq{validate.KeyID: id}).
			PlaceholderFormat(r.ph).
			ToSql()
		if err != nil {
			return err
		}
		c, err := r.conn(ctx)
		if err != nil {
			return err
		}
		defer c.Close()
		res, err := c.ExecContext(ctx, q, args...)
		if err != nil {
			return err
		}
		n, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return 0, err
	}
	if n > 0 {
		r.bump(ctx)
	}
	return n, nil
}

// --- helpers ---

func (r *Repository[T, In]) selectRows(ctx context.Context, dest *[]T, q string, args []any) error {
	c, err := r.conn(ctx)
	if err != nil {
		return err
	}
	defer c.Close()
	return c.SelectContext(ctx, dest, q, args...)
}

func (r *Repository[T, In]) scanOne(ctx context.Context, dest *T, q string, args []any) error {
	c, err := r.conn(ctx)
	if err != nil {
		return err
	}
	defer c.Close()
	return c.QueryRowxContext(ctx, q, args...).StructScan(dest)
}

func (r *Repository[T, In]) notFound(id int) error {
	return fmt.Errorf("%w: %s with id %d", ErrNotFound, strings.TrimSuffix(r.schema.Table, "s"), id)
}

func (r *Repository[T, In]) writeErr(err error) error {
	if dbx.IsUniqueViolation(err) {
		return fmt.Errorf("%w: %s: %v", ErrConflict, r.schema.Table, err)
	}
	return err
}

func (r *Repository[T, In]) bump(ctx context.Context) {
	if err := r.opts.cache.Bump(ctx, r.schema.Table); err != nil {
		r.opts.log.Warn().Err(err).Str("table", r.schema.Table).Msg("cache bump failed")
	}
}
