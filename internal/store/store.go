package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/schema"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/discipleshipbydesign/blueprint/internal/blueprint"
	"github.com/discipleshipbydesign/blueprint/internal/logger"

	// Postgres driver registered as "pgx".
	_ "github.com/jackc/pgx/v5/stdlib"
	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// DefaultCacheSize is the number of decoded records kept in memory.
const DefaultCacheSize = 256

// Store holds the database handle and provides access to repositories.
type Store struct {
	db      *sql.DB
	drv     *entsql.Driver
	dialect string

	log       *logger.Logger
	validator *blueprint.Validator
	cache     *lru.Cache[string, *Record]
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for drift warnings.
func WithLogger(l *logger.Logger) Option {
	return func(s *Store) { s.log = l }
}

// WithValidator replaces the validator applied on fetch.
func WithValidator(v *blueprint.Validator) Option {
	return func(s *Store) { s.validator = v }
}

// Open creates a new Store for dsn and runs auto-migration. A dsn starting
// with postgres:// or postgresql:// selects Postgres; anything else is
// treated as a SQLite path or URI and gets the recommended pragmas.
func Open(dsn string, opts ...Option) (*Store, error) {
	driverName, dialectName := "sqlite", dialect.SQLite
	if IsPostgres(dsn) {
		driverName, dialectName = "pgx", dialect.Postgres
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if dialectName == dialect.SQLite {
		// Pragmas are per connection.
		db.SetMaxOpenConns(1)
		if err := applyPragmas(db); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply pragmas: %w", err)
		}
	}

	cache, err := lru.New[string, *Record](DefaultCacheSize)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create cache: %w", err)
	}

	s := &Store{
		db:        db,
		drv:       entsql.OpenDB(dialectName, db),
		dialect:   dialectName,
		log:       logger.Nop(),
		validator: blueprint.NewValidator(),
		cache:     cache,
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.migrate(context.Background()); err != nil {
		s.Close()
		return nil, fmt.Errorf("auto-migrate: %w", err)
	}

	return s, nil
}

func (s *Store) migrate(ctx context.Context) error {
	m, err := schema.NewMigrate(s.drv)
	if err != nil {
		return err
	}
	return m.Create(ctx, Tables...)
}

// DB returns the underlying *sql.DB for raw queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Dialect reports the SQL dialect in use.
func (s *Store) Dialect() string {
	return s.dialect
}

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.drv.Close()
}

// BlueprintRepo returns a BlueprintRepo backed by this store.
func (s *Store) BlueprintRepo() BlueprintRepo {
	return &blueprintRepo{s: s}
}

// EventRepo returns an EventRepo backed by this store.
func (s *Store) EventRepo() EventRepo {
	return &eventRepo{s: s}
}

func (s *Store) builder() *entsql.DialectBuilder {
	return entsql.Dialect(s.dialect)
}

// IsPostgres reports whether dsn selects the Postgres backend.
func IsPostgres(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

// applyPragmas configures SQLite for single-process use.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// DefaultDBPath resolves the database file path in priority order:
// 1. BLUEPRINT_DB environment variable
// 2. $XDG_DATA_HOME/blueprint/blueprint.db
// 3. ~/.local/share/blueprint/blueprint.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("BLUEPRINT_DB"); p != "" {
		if IsPostgres(p) {
			return p, nil
		}
		return p, EnsureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "blueprint", "blueprint.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}
