package catalogstub

import (
	"context"
	"strings"

	"gorm.io/gorm"
)

type repo struct {
	db *gorm.DB
}

func (r *repo) Exists(ctx context.Context, key int64) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&productRow{}).Where("product_key = ?", key).Count(&n).Error
	return n > 0, err
}

func (r *repo) Create(ctx context.Context, row productRow) error {
	return r.db.WithContext(ctx).Exec(
		`INSERT INTO product (product_key, retailer, brand, model, product_name, product_price, product_description)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		row.ProductKey,
		row.Retailer,
		row.Brand,
		row.Model,
		row.ProductName,
		row.Price,
		row.ProductDescription,
	).Error
}

func (r *repo) FindByKey(ctx context.Context, key int64) (*productRow, error) {
	var row productRow
	err := r.db.WithContext(ctx).Raw(
		`SELECT product_key, retailer, brand, model, product_name, product_price, product_description
		 FROM product WHERE product_key = ?`,
		key,
	).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ProductKey == 0 {
		return nil, nil
	}
	return &row, nil
}

func (r *repo) FindAll(ctx context.Context) ([]productRow, error) {
	var rows []productRow
	err := r.db.WithContext(ctx).Order("product_key ASC").Find(&rows).Error
	return rows, err
}

func (r *repo) SearchByName(ctx context.Context, name string) ([]productRow, error) {
	var rows []productRow
	err := r.db.WithContext(ctx).
		Where("LOWER(product_name) LIKE ?", "%"+strings.ToLower(name)+"%").
		Order("product_key ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repo) FindByBrand(ctx context.Context, brand string) ([]productRow, error) {
	var rows []productRow
	err := r.db.WithContext(ctx).
		Where("LOWER(brand) = ?", strings.ToLower(brand)).
		Order("product_key ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repo) BrandSummary(ctx context.Context) ([]brandCountRow, error) {
	var rows []brandCountRow
	err := r.db.WithContext(ctx).Raw(
		`SELECT brand, COUNT(*) AS count FROM product
		 WHERE brand IS NOT NULL AND brand <> ''
		 GROUP BY brand ORDER BY count DESC, brand ASC`,
	).Scan(&rows).Error
	return rows, err
}

func (r *repo) Update(ctx context.Context, row productRow) error {
	return r.db.WithContext(ctx).Exec(
		`UPDATE product
		 SET retailer = ?, brand = ?, model = ?, product_name = ?, product_price = ?, product_description = ?
		 WHERE product_key = ?`,
		row.Retailer,
		row.Brand,
		row.Model,
		row.ProductName,
		row.Price,
		row.ProductDescription,
		row.ProductKey,
	).Error
}

func (r *repo) Delete(ctx context.Context, key int64) error {
	return r.db.WithContext(ctx).Exec(`DELETE FROM product WHERE product_key = ?`, key).Error
}

func (r *repo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&productRow{}).Count(&n).Error
	return n, err
}
