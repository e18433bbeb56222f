package store

import (
	"github.com/shopspring/decimal"

	"github.com/vbonduro/assettracker/internal/domain"
)

// SampleAssets returns the demonstration rows written by SeedSampleData.
func SampleAssets() []domain.NewAsset {
	one := int64(1)
	hundred := int64(100)
	return []domain.NewAsset{
		{Name: "現金", Amount: decimal.NewFromInt(500000), Quantity: &one, Description: "手元現金", Category: "現金"},
		{Name: "株式", Amount: decimal.NewFromInt(1000000), Quantity: &hundred, Description: "A社の株式", Category: "株式"},
		{Name: "不動産", Amount: decimal.NewFromInt(30000000), Quantity: &one, Description: "自宅", Category: "不動産"},
		{Name: "預金", Amount: decimal.NewFromInt(2000000), Quantity: &one, Description: "銀行預金", Category: "預金"},
	}
}
