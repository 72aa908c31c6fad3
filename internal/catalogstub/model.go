package catalogstub

import (
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/catalogview/internal/product/domain"
)

type productRow struct {
	ProductKey         int64           `gorm:"column:product_key;primaryKey;autoIncrement:false"`
	Retailer           string          `gorm:"column:retailer;size:64"`
	Brand              string          `gorm:"column:brand;size:64"`
	Model              string          `gorm:"column:model;size:32"`
	ProductName        string          `gorm:"column:product_name;size:96;not null"`
	Price              decimal.Decimal `gorm:"column:product_price;type:numeric(32,2);not null"`
	ProductDescription string          `gorm:"column:product_description;type:text"`
}

func (productRow) TableName() string { return "product" }

type brandCountRow struct {
	Brand string
	Count int64
}

func rowFromProduct(p domain.Product) productRow {
	return productRow{
		ProductKey:         p.ProductKey,
		Retailer:           p.Retailer,
		Brand:              p.Brand,
		Model:              p.Model,
		ProductName:        p.ProductName,
		Price:              p.Price.Round(2),
		ProductDescription: p.ProductDescription,
	}
}

func (r productRow) toProduct() domain.Product {
	return domain.Product{
		ProductKey:         r.ProductKey,
		ProductName:        r.ProductName,
		Brand:              r.Brand,
		Model:              r.Model,
		Retailer:           r.Retailer,
		Price:              r.Price,
		ProductDescription: r.ProductDescription,
	}
}

func toProducts(rows []productRow) []domain.Product {
	out := make([]domain.Product, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toProduct())
	}
	return out
}
