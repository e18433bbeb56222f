package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/vbonduro/assettracker/internal/db"
	"github.com/vbonduro/assettracker/internal/domain"
)

// ErrNotFound is returned when an operation references an unknown asset id.
var ErrNotFound = errors.New("asset not found")

// Repository is the CRUD and summary contract shared by every backend.
type Repository interface {
	GetAll(ctx context.Context) ([]*domain.Asset, error)
	GetByID(ctx context.Context, id int64) (*domain.Asset, error)
	Create(ctx context.Context, in domain.NewAsset) (*domain.Asset, error)
	Update(ctx context.Context, id int64, in domain.AssetUpdate) (*domain.Asset, error)
	Delete(ctx context.Context, id int64) (bool, error)
	GetSummary(ctx context.Context) (*domain.Summary, error)
	SeedSampleData(ctx context.Context) error
	Close() error
}

const sqlitePrefix = "sqlite:///"

// Options configures Open.
type Options struct {
	DatabaseURL string
	Pool        db.PoolOptions
	Debug       bool
}

// Open selects a backend from the connection string prefix: "sqlite:///<path>"
// opens a SQLite file, anything else is treated as a PostgreSQL URL.
func Open(ctx context.Context, opts Options) (Repository, error) {
	if path, ok := strings.CutPrefix(opts.DatabaseURL, sqlitePrefix); ok {
		if path == "" {
			return nil, fmt.Errorf("sqlite database path is empty")
		}
		sqldb, err := db.OpenSQLite(ctx, path)
		if err != nil {
			return nil, err
		}
		return NewSQLiteStore(sqldb), nil
	}

	bundb, err := db.OpenPostgres(ctx, opts.DatabaseURL, opts.Pool, opts.Debug)
	if err != nil {
		return nil, err
	}
	return NewPostgresStore(bundb), nil
}

// Backend names the variant behind r, for logging.
func Backend(r Repository) string {
	switch r.(type) {
	case *SQLiteStore:
		return "sqlite"
	case *PostgresStore:
		return "postgres"
	default:
		return fmt.Sprintf("%T", r)
	}
}

// SeedIfEmpty inserts the sample rows when the table has no assets. Errors are
// logged rather than returned so the service still starts.
func SeedIfEmpty(ctx context.Context, r Repository, logger *slog.Logger) {
	assets, err := r.GetAll(ctx)
	if err != nil {
		logger.Error("failed to check for existing assets", "error", err)
		return
	}
	if len(assets) > 0 {
		return
	}
	if err := r.SeedSampleData(ctx); err != nil {
		logger.Error("failed to insert sample data", "error", err)
		return
	}
	logger.Info("inserted sample data", "rows", len(SampleAssets()))
}
