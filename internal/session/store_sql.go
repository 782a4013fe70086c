package session

import (
	"context"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
	"golang.org/x/crypto/blake2b"

	"github.com/MKhiriev/go-web-server/internal/config"
	"github.com/MKhiriev/go-web-server/internal/logger"
	"github.com/MKhiriev/go-web-server/migrations"
)

// Dialect selects the SQL flavour of a [SQLStore].
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

const (
	sessionsTable      = "sessions"
	sqlCleanupInterval = 5 * time.Minute
	sqlConnectTimeout  = 10 * time.Second
)

// driver returns the database/sql driver name of the dialect.
func (d Dialect) driver() string {
	if d == DialectSQLite {
		return "sqlite3"
	}
	return "pgx"
}

// SQLStore keeps sessions in the "sessions" table. Session ids are stored as
// blake2b-256 digests so a leaked table does not leak live cookies.
type SQLStore struct {
	db      *sql.DB
	builder sq.StatementBuilderType
	log     *logger.Logger
	now     func() time.Time

	done      chan struct{}
	closeOnce sync.Once
}

// NewSQLStore returns a store on db. The schema must already be migrated.
// When cleanup is positive, expired rows are purged on that interval until
// Close is called.
func NewSQLStore(db *sql.DB, dialect Dialect, cleanup time.Duration, log *logger.Logger) *SQLStore {
	if log == nil {
		log = logger.Nop()
	}

	var format sq.PlaceholderFormat = sq.Dollar
	if dialect == DialectSQLite {
		format = sq.Question
	}

	s := &SQLStore{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(format),
		log:     log,
		now:     time.Now,
		done:    make(chan struct{}),
	}

	if cleanup > 0 {
		go s.cleanupLoop(cleanup)
	}
	return s
}

func newSQLStoreFromConfig(dialect Dialect, cfg config.Provider, log *logger.Logger) (Store, error) {
	dsn := config.GetString(cfg, "session:dsn", "")
	if dsn == "" {
		return nil, fmt.Errorf("session:dsn is required for the %s session store", dialect)
	}

	ctx, cancel := context.WithTimeout(context.Background(), sqlConnectTimeout)
	defer cancel()

	db, err := sql.Open(dialect.driver(), dsn)
	if err != nil {
		log.Err(err).Str("func", "newSQLStoreFromConfig").Msg("error occured during database connection")
		return nil, fmt.Errorf("error opening connection to DB: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		log.Err(err).Str("func", "newSQLStoreFromConfig").Msg("error connecting database (ping)")
		return nil, err
	}
	if err := migrations.Migrate(db, string(dialect)); err != nil {
		_ = db.Close()
		return nil, err
	}
	log.Debug().Str("dialect", string(dialect)).Msg("connected to session database successfully")

	return NewSQLStore(db, dialect, sqlCleanupInterval, log), nil
}

func hashID(id string) string {
	sum := blake2b.Sum256([]byte(id))
	return hex.EncodeToString(sum[:])
}

// Get implements [Store].
func (s *SQLStore) Get(ctx context.Context, id string) (Values, error) {
	query, args, err := s.builder.
		Select("data").
		From(sessionsTable).
		Where(sq.Eq{"id": hashID(id)}).
		Where(sq.Gt{"expires_at": s.now().UTC()}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building sql query: %w", err)
	}

	var data []byte
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, s.classify(err)
	}

	var values Values
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, errors.Join(ErrDecodingValues, err)
	}
	return values, nil
}

// Set implements [Store].
func (s *SQLStore) Set(ctx context.Context, id string, values Values, ttl time.Duration) error {
	data, err := json.Marshal(values)
	if err != nil {
		return errors.Join(ErrEncodingValues, err)
	}

	query, args, err := s.builder.
		Insert(sessionsTable).
		Columns("id", "data", "expires_at").
		Values(hashID(id), data, s.now().Add(ttl).UTC()).
		Suffix("ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data, expires_at = EXCLUDED.expires_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("error building sql query: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return s.classify(err)
	}
	return nil
}

// Destroy implements [Store].
func (s *SQLStore) Destroy(ctx context.Context, id string) error {
	query, args, err := s.builder.
		Delete(sessionsTable).
		Where(sq.Eq{"id": hashID(id)}).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building sql query: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return s.classify(err)
	}
	return nil
}

// PurgeExpired removes expired rows and reports how many were deleted.
func (s *SQLStore) PurgeExpired(ctx context.Context) (int64, error) {
	query, args, err := s.builder.
		Delete(sessionsTable).
		Where(sq.LtOrEq{"expires_at": s.now().UTC()}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("error building sql query: %w", err)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, s.classify(err)
	}
	return res.RowsAffected()
}

func (s *SQLStore) cleanupLoop(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			n, err := s.PurgeExpired(context.Background())
			if err != nil {
				s.log.Err(err).Msg("error purging expired sessions")
				continue
			}
			if n > 0 {
				s.log.Debug().Int64("purged", n).Msg("expired sessions purged")
			}
		}
	}
}

// Close stops the cleanup loop and closes the database.
func (s *SQLStore) Close() error {
	s.closeOnce.Do(func() { close(s.done) })
	return s.db.Close()
}

func (s *SQLStore) classify(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UndefinedTable {
		return fmt.Errorf("%w: %w", ErrStoreNotMigrated, err)
	}
	return fmt.Errorf("unexpected DB error: %w", err)
}
