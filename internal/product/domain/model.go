package domain

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

func init() {
	// The catalog API exchanges prices as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// Field length limits enforced before submission.
const (
	MaxProductNameLength = 96
	MaxBrandLength       = 64
	MaxModelLength       = 32
	MaxRetailerLength    = 64
)

// UnknownBrand labels products without a brand in aggregates.
const UnknownBrand = "Unknown"

// Product is a catalog record identified by ProductKey.
type Product struct {
	ProductKey         int64           `json:"productKey"`
	ProductName        string          `json:"productName"`
	Brand              string          `json:"brand,omitempty"`
	Model              string          `json:"model,omitempty"`
	Retailer           string          `json:"retailer,omitempty"`
	Price              decimal.Decimal `json:"price"`
	ProductDescription string          `json:"productDescription,omitempty"`
}

// Draft is an unvalidated candidate record holding raw user input.
type Draft struct {
	ProductKey         string
	ProductName        string
	Brand              string
	Model              string
	Retailer           string
	Price              string
	ProductDescription string
}

// DraftFromProduct seeds an edit draft from a held record.
func DraftFromProduct(p Product) Draft {
	return Draft{
		ProductKey:         strconv.FormatInt(p.ProductKey, 10),
		ProductName:        p.ProductName,
		Brand:              p.Brand,
		Model:              p.Model,
		Retailer:           p.Retailer,
		Price:              p.Price.String(),
		ProductDescription: p.ProductDescription,
	}
}

// BrandAggregate is one brand bucket of a group-by over products.
type BrandAggregate struct {
	Brand string `json:"brand"`
	Count int64  `json:"count"`
}

// Label returns the display name of the bucket.
func (b BrandAggregate) Label() string {
	if strings.TrimSpace(b.Brand) == "" {
		return UnknownBrand
	}
	return b.Brand
}

type SearchField string

const (
	SearchByName  SearchField = "name"
	SearchByBrand SearchField = "brand"
)

func (f SearchField) Valid() bool {
	return f == SearchByName || f == SearchByBrand
}

// ParseSearchField normalises a user supplied field selector.
func ParseSearchField(raw string) (SearchField, error) {
	field := SearchField(strings.ToLower(strings.TrimSpace(raw)))
	if field == "" {
		return SearchByName, nil
	}
	if !field.Valid() {
		return "", ErrInvalidSearchField
	}
	return field, nil
}

// SearchCriteria selects exactly one field to filter on.
type SearchCriteria struct {
	Field SearchField
	Term  string
}

// Blank reports whether the criteria carries no usable term.
func (c SearchCriteria) Blank() bool {
	return strings.TrimSpace(c.Term) == ""
}
