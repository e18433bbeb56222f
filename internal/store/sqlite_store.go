package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/vbonduro/assettracker/internal/domain"
)

const sqliteAssetColumns = `id, name, amount, quantity, COALESCE(description, ''), COALESCE(category, ''), created_at`

// SQLiteStore is the file-backed Repository.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) GetAll(ctx context.Context) ([]*domain.Asset, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+sqliteAssetColumns+` FROM assets ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("failed to close rows", "error", err)
		}
	}()

	assets := []*domain.Asset{}
	for rows.Next() {
		asset, err := scanAsset(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan asset: %w", err)
		}
		assets = append(assets, asset)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating assets: %w", err)
	}

	return assets, nil
}

func (s *SQLiteStore) GetByID(ctx context.Context, id int64) (*domain.Asset, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+sqliteAssetColumns+` FROM assets WHERE id = ?
	`, id)
	asset, err := scanAsset(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get asset: %w", err)
	}
	return asset, nil
}

func (s *SQLiteStore) Create(ctx context.Context, in domain.NewAsset) (*domain.Asset, error) {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO assets (name, amount, quantity, description, category) VALUES (?, ?, ?, ?, ?)
	`, in.Name, in.Amount, in.QuantityOrDefault(), nullIfEmpty(in.Description), in.Category)
	if err != nil {
		return nil, fmt.Errorf("failed to create asset: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}

	return s.GetByID(ctx, id)
}

func (s *SQLiteStore) Update(ctx context.Context, id int64, in domain.AssetUpdate) (*domain.Asset, error) {
	if in.IsEmpty() {
		return s.GetByID(ctx, id)
	}
	assignments := updateAssignments(in)

	sets := make([]string, 0, len(assignments))
	args := make([]any, 0, len(assignments)+1)
	for _, a := range assignments {
		sets = append(sets, a.column+" = ?")
		args = append(args, a.value)
	}
	args = append(args, id)

	result, err := s.db.ExecContext(ctx, "UPDATE assets SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update asset: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, ErrNotFound
	}

	return s.GetByID(ctx, id)
}

func (s *SQLiteStore) Delete(ctx context.Context, id int64) (bool, error) {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM assets WHERE id = ?
	`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete asset: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

// sqliteValueCents is amount × quantity in whole cents. Amounts are stored as
// REAL under NUMERIC affinity, so each is rounded to cents before summing to
// keep the aggregate in exact integer arithmetic.
const sqliteValueCents = `CAST(ROUND(amount * 100) AS INTEGER) * quantity`

func (s *SQLiteStore) GetSummary(ctx context.Context) (*domain.Summary, error) {
	var totalCents int64
	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(`+sqliteValueCents+`), 0) FROM assets
	`).Scan(&totalCents)
	if err != nil {
		return nil, fmt.Errorf("failed to sum assets: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT COALESCE(category, ''), SUM(`+sqliteValueCents+`), COUNT(*) FROM assets
		GROUP BY category ORDER BY category
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to summarise categories: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("failed to close rows", "error", err)
		}
	}()

	summary := &domain.Summary{
		TotalAmount:     fromCents(totalCents),
		CategorySummary: []*domain.CategorySummary{},
	}
	for rows.Next() {
		var cents int64
		c := &domain.CategorySummary{}
		if err := rows.Scan(&c.Category, &cents, &c.Count); err != nil {
			return nil, fmt.Errorf("failed to scan category summary: %w", err)
		}
		c.Total = fromCents(cents)
		summary.CategorySummary = append(summary.CategorySummary, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category summaries: %w", err)
	}

	return summary, nil
}

func fromCents(cents int64) decimal.Decimal {
	return decimal.New(cents, -domain.MoneyScale)
}

func (s *SQLiteStore) SeedSampleData(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM assets`); err != nil {
		return fmt.Errorf("failed to clear assets: %w", err)
	}

	for _, in := range SampleAssets() {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO assets (name, amount, quantity, description, category) VALUES (?, ?, ?, ?, ?)
		`, in.Name, in.Amount, in.QuantityOrDefault(), nullIfEmpty(in.Description), in.Category)
		if err != nil {
			return fmt.Errorf("failed to insert sample asset %q: %w", in.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit sample data: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAsset(row rowScanner) (*domain.Asset, error) {
	asset := &domain.Asset{}
	err := row.Scan(&asset.ID, &asset.Name, &asset.Amount, &asset.Quantity, &asset.Description, &asset.Category, &asset.CreatedAt)
	if err != nil {
		return nil, err
	}
	return asset, nil
}
