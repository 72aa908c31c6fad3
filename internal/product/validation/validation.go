// Package validation checks product drafts against the catalog field rules
// before anything is submitted. Every rule is evaluated so that all
// violations surface at once.
package validation

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/catalogview/internal/product/domain"
)

// Field names used as keys of Result.Errors.
const (
	FieldProductKey  = "productKey"
	FieldProductName = "productName"
	FieldBrand       = "brand"
	FieldModel       = "model"
	FieldRetailer    = "retailer"
	FieldPrice       = "price"
)

// Result maps each invalid field to a message. It is valid when empty.
type Result struct {
	Errors map[string]string
}

func (r Result) Valid() bool {
	return len(r.Errors) == 0
}

// Err returns the result as an InvalidInput error for op, or nil.
func (r Result) Err(op string) error {
	if r.Valid() {
		return nil
	}
	return domain.NewValidationError(op, r.Errors)
}

func (r *Result) add(field, message string) {
	if r.Errors == nil {
		r.Errors = make(map[string]string)
	}
	r.Errors[field] = message
}

// Validate checks d without side effects.
func Validate(d domain.Draft) Result {
	_, res := Parse(d)
	return res
}

// Parse validates d and, when valid, converts it into a Product.
func Parse(d domain.Draft) (domain.Product, Result) {
	var res Result

	key, keyOK := parseKey(d.ProductKey, &res)

	if strings.TrimSpace(d.ProductName) == "" {
		res.add(FieldProductName, "Product Name is required")
	} else {
		checkLength(&res, FieldProductName, "Product Name", d.ProductName, domain.MaxProductNameLength)
	}
	checkLength(&res, FieldBrand, "Brand", d.Brand, domain.MaxBrandLength)
	checkLength(&res, FieldModel, "Model", d.Model, domain.MaxModelLength)
	checkLength(&res, FieldRetailer, "Retailer", d.Retailer, domain.MaxRetailerLength)

	price, priceOK := parsePrice(d.Price, &res)

	if !res.Valid() || !keyOK || !priceOK {
		return domain.Product{}, res
	}

	return domain.Product{
		ProductKey:         key,
		ProductName:        strings.TrimSpace(d.ProductName),
		Brand:              strings.TrimSpace(d.Brand),
		Model:              strings.TrimSpace(d.Model),
		Retailer:           strings.TrimSpace(d.Retailer),
		Price:              price,
		ProductDescription: d.ProductDescription,
	}, res
}

// ValidateProduct applies the draft rules to an already typed record.
func ValidateProduct(p domain.Product) Result {
	return Validate(domain.DraftFromProduct(p))
}

func parseKey(raw string, res *Result) (int64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		res.add(FieldProductKey, "Product Key is required")
		return 0, false
	}
	key, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || key <= 0 {
		res.add(FieldProductKey, "Product Key must be a positive number")
		return 0, false
	}
	return key, true
}

func parsePrice(raw string, res *Result) (decimal.Decimal, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		res.add(FieldPrice, "Price is required")
		return decimal.Zero, false
	}
	price, err := decimal.NewFromString(raw)
	if err != nil || price.IsNegative() {
		res.add(FieldPrice, "Price must be a non-negative number")
		return decimal.Zero, false
	}
	return price, true
}

func checkLength(res *Result, field, label, value string, limit int) {
	if utf8.RuneCountInString(value) > limit {
		res.add(field, fmt.Sprintf("%s must be %d characters or less", label, limit))
	}
}
