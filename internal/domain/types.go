package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Amounts go over the wire as JSON numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

type Asset struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Amount      decimal.Decimal `json:"amount"`
	Quantity    int64           `json:"quantity"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	CreatedAt   time.Time       `json:"created_at"`
}

// NewAsset holds the fields a client supplies when creating an asset.
// Quantity defaults to 1 when nil.
type NewAsset struct {
	Name        string
	Amount      decimal.Decimal
	Quantity    *int64
	Description string
	Category    string
}

func (n NewAsset) QuantityOrDefault() int64 {
	if n.Quantity == nil {
		return 1
	}
	return *n.Quantity
}

// AssetUpdate is a partial update. Nil fields are left untouched.
type AssetUpdate struct {
	Name        *string
	Amount      *decimal.Decimal
	Quantity    *int64
	Description *string
	Category    *string
}

func (u AssetUpdate) IsEmpty() bool {
	return u.Name == nil && u.Amount == nil && u.Quantity == nil && u.Description == nil && u.Category == nil
}

type CategorySummary struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
	Count    int64           `json:"count"`
}

type Summary struct {
	TotalAmount     decimal.Decimal    `json:"total_amount"`
	CategorySummary []*CategorySummary `json:"category_summary"`
}

// MoneyScale is the number of fractional digits stored for amounts.
const MoneyScale = 2

// RoundMoney rounds a computed total to MoneyScale places.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyScale)
}
