package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"

	"github.com/vbonduro/assettracker/internal/domain"
)

type assetModel struct {
	bun.BaseModel `bun:"table:assets,alias:a"`

	ID          int64           `bun:"id,pk,autoincrement"`
	Name        string          `bun:"name,notnull"`
	Amount      decimal.Decimal `bun:"amount,type:numeric(15,2),notnull"`
	Quantity    int64           `bun:"quantity,notnull"`
	Description string          `bun:"description,nullzero"`
	Category    string          `bun:"category,nullzero"`
	CreatedAt   time.Time       `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

func newAssetModel(in domain.NewAsset) *assetModel {
	return &assetModel{
		Name:        in.Name,
		Amount:      in.Amount,
		Quantity:    in.QuantityOrDefault(),
		Description: in.Description,
		Category:    in.Category,
	}
}

func (m *assetModel) toDomain() *domain.Asset {
	return &domain.Asset{
		ID:          m.ID,
		Name:        m.Name,
		Amount:      m.Amount,
		Quantity:    m.Quantity,
		Description: m.Description,
		Category:    m.Category,
		CreatedAt:   m.CreatedAt,
	}
}

type categoryRow struct {
	Category string          `bun:"category"`
	Total    decimal.Decimal `bun:"total"`
	Count    int64           `bun:"count"`
}

// PostgresStore is the networked Repository. Placeholders are rendered by
// bun's pgdialect and inserts read the new row back with RETURNING.
type PostgresStore struct {
	db *bun.DB
}

func NewPostgresStore(db *bun.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) GetAll(ctx context.Context) ([]*domain.Asset, error) {
	var models []*assetModel
	err := s.db.NewSelect().
		Model(&models).
		OrderExpr("created_at DESC, id DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}

	assets := make([]*domain.Asset, 0, len(models))
	for _, m := range models {
		assets = append(assets, m.toDomain())
	}
	return assets, nil
}

func (s *PostgresStore) GetByID(ctx context.Context, id int64) (*domain.Asset, error) {
	m := &assetModel{}
	err := s.db.NewSelect().Model(m).Where("id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get asset: %w", err)
	}
	return m.toDomain(), nil
}

func (s *PostgresStore) Create(ctx context.Context, in domain.NewAsset) (*domain.Asset, error) {
	m := newAssetModel(in)
	if _, err := s.db.NewInsert().Model(m).Returning("*").Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to create asset: %w", err)
	}
	return m.toDomain(), nil
}

func (s *PostgresStore) Update(ctx context.Context, id int64, in domain.AssetUpdate) (*domain.Asset, error) {
	if in.IsEmpty() {
		return s.GetByID(ctx, id)
	}
	assignments := updateAssignments(in)

	q := s.db.NewUpdate().Model((*assetModel)(nil)).Where("id = ?", id)
	for _, a := range assignments {
		q = q.Set("? = ?", bun.Ident(a.column), a.value)
	}

	result, err := q.Exec(ctx)
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

func (s *PostgresStore) Delete(ctx context.Context, id int64) (bool, error) {
	result, err := s.db.NewDelete().Model((*assetModel)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to delete asset: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

func (s *PostgresStore) GetSummary(ctx context.Context) (*domain.Summary, error) {
	var total decimal.Decimal
	err := s.db.NewSelect().
		Model((*assetModel)(nil)).
		ColumnExpr("COALESCE(SUM(amount * quantity), 0)").
		Scan(ctx, &total)
	if err != nil {
		return nil, fmt.Errorf("failed to sum assets: %w", err)
	}

	var rows []categoryRow
	err = s.db.NewSelect().
		Model((*assetModel)(nil)).
		ColumnExpr("COALESCE(category, '') AS category").
		ColumnExpr("SUM(amount * quantity) AS total").
		ColumnExpr("COUNT(*) AS count").
		GroupExpr("category").
		OrderExpr("category").
		Scan(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("failed to summarise categories: %w", err)
	}

	summary := &domain.Summary{
		TotalAmount:     domain.RoundMoney(total),
		CategorySummary: make([]*domain.CategorySummary, 0, len(rows)),
	}
	for _, r := range rows {
		summary.CategorySummary = append(summary.CategorySummary, &domain.CategorySummary{
			Category: r.Category,
			Total:    domain.RoundMoney(r.Total),
			Count:    r.Count,
		})
	}
	return summary, nil
}

func (s *PostgresStore) SeedSampleData(ctx context.Context) error {
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().Model((*assetModel)(nil)).Where("TRUE").Exec(ctx); err != nil {
			return fmt.Errorf("failed to clear assets: %w", err)
		}

		samples := SampleAssets()
		models := make([]*assetModel, 0, len(samples))
		for _, in := range samples {
			models = append(models, newAssetModel(in))
		}
		if _, err := tx.NewInsert().Model(&models).Exec(ctx); err != nil {
			return fmt.Errorf("failed to insert sample assets: %w", err)
		}
		return nil
	})
}
