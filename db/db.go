package db

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

var (
	ErrNotFound         = errors.New("record not found")
	ErrDuplicate        = errors.New("record already exists")
	ErrInvalidReference = errors.New("referenced record does not exist")
)

type PlanDB struct {
	DB  *sql.DB
	Log *zerolog.Logger
}

// NewPlanDB opens and pings the database. An empty source falls back to the
// DATABASE_URL environment variable.
func NewPlanDB(source string, log *zerolog.Logger) (*PlanDB, error) {
	if source == "" {
		source = os.Getenv("DATABASE_URL")
	}
	if source == "" {
		log.Error().Msg("database source is not configured")
		return nil, fmt.Errorf("database source is not configured")
	}

	// Open the database connection
	db, err := sql.Open("postgres", source)
	if err != nil {
		log.Error().Err(err).Msg("Failed to open database connection")
		return nil, err
	}

	// Check we are actually connected
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		log.Error().Err(err).Msg("Database connection failed during ping")
		db.Close()
		return nil, err
	}

	return &PlanDB{DB: db, Log: log}, nil
}

func (p *PlanDB) Close() error {
	if err := p.DB.Close(); err != nil {
		return err
	}
	p.Log.Info().Msg("database connection closed")
	p.DB = nil
	return nil
}

// Migrate applies the embedded goose migrations.
func (p *PlanDB) Migrate() error {
	goose.SetBaseFS(embedMigrations)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	if err := goose.Up(p.DB, "migrations"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	p.Log.Info().Msg("Migrations applied successfully")
	return nil
}

// Ping checks the database is reachable.
func (p *PlanDB) Ping(ctx context.Context) error {
	return p.DB.PingContext(ctx)
}

// CommitTransaction commits tx, rolling back if the commit fails.
func (p *PlanDB) CommitTransaction(tx *sql.Tx) error {
	if err := tx.Commit(); err != nil {
		tx.Rollback()
		return fmt.Errorf("error committing transaction: %w", err)
	}
	return nil
}

func (p *PlanDB) execQuery(ctx context.Context, tx *sql.Tx, query string, args ...interface{}) error {

	if p.DB == nil {
		return fmt.Errorf("database connection is not established")
	}

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to execute query: %w", mapErr(err))
	}
	return nil
}

// mapErr translates driver errors into the package sentinels.
func mapErr(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code.Name() {
		case "unique_violation":
			return fmt.Errorf("%w: %s", ErrDuplicate, pqErr.Message)
		case "invalid_text_representation":
			// malformed uuid in a lookup
			return ErrNotFound
		case "foreign_key_violation":
			return fmt.Errorf("%w: %s", ErrInvalidReference, pqErr.Message)
		}
	}
	return err
}
