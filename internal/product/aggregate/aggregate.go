// Package aggregate derives brand count statistics from a product
// collection. Nothing is cached: every call recomputes from its input.
package aggregate

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/catalogview/internal/product/domain"
)

var hundred = decimal.NewFromInt(100)

// Row is one bucket prepared for display. Percentage and BarWidth are both
// rounded to one decimal place.
type Row struct {
	Brand      string          `json:"brand"`
	Count      int64           `json:"count"`
	Percentage decimal.Decimal `json:"percentage"`
	BarWidth   decimal.Decimal `json:"barWidth"`
}

// MarshalJSON renders Percentage and BarWidth as fixed one decimal strings.
func (r Row) MarshalJSON() ([]byte, error) {
	type row Row
	return json.Marshal(struct {
		row
		Percentage string `json:"percentage"`
		BarWidth   string `json:"barWidth"`
	}{
		row:        row(r),
		Percentage: r.Percentage.StringFixed(1),
		BarWidth:   r.BarWidth.StringFixed(1),
	})
}

// Statistics summarises a brand distribution. MostPopular is nil when there
// are no buckets.
type Statistics struct {
	TotalProducts   int64           `json:"totalProducts"`
	TotalBrands     int             `json:"totalBrands"`
	Rows            []Row           `json:"rows"`
	MostPopular     *Row            `json:"mostPopular,omitempty"`
	AveragePerBrand decimal.Decimal `json:"averagePerBrand"`
	SingletonBrands int             `json:"singletonBrands"`
}

// AverageLabel renders AveragePerBrand with one decimal place, or "0" when
// there are no buckets.
func (s Statistics) AverageLabel() string {
	if s.TotalBrands == 0 {
		return "0"
	}
	return s.AveragePerBrand.StringFixed(1)
}

// MarshalJSON renders AveragePerBrand as AverageLabel.
func (s Statistics) MarshalJSON() ([]byte, error) {
	type statistics Statistics
	return json.Marshal(struct {
		statistics
		AveragePerBrand string `json:"averagePerBrand"`
	}{
		statistics:      statistics(s),
		AveragePerBrand: s.AverageLabel(),
	})
}

// Aggregate groups products by brand in order of first appearance. Products
// without a brand count towards domain.UnknownBrand.
func Aggregate(products []domain.Product) []domain.BrandAggregate {
	out := []domain.BrandAggregate{}
	index := make(map[string]int)
	for _, p := range products {
		brand := p.Brand
		if strings.TrimSpace(brand) == "" {
			brand = domain.UnknownBrand
		}
		if i, ok := index[brand]; ok {
			out[i].Count++
			continue
		}
		index[brand] = len(out)
		out = append(out, domain.BrandAggregate{Brand: brand, Count: 1})
	}
	return out
}

// Percentage returns count/total*100 rounded to one decimal place, or zero
// when total is zero.
func Percentage(count, total int64) decimal.Decimal {
	if total <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(count).Mul(hundred).Div(decimal.NewFromInt(total)).Round(1)
}

// BarWidth returns count relative to the largest bucket in percent, rounded
// to one decimal place, or zero when largest is zero.
func BarWidth(count, largest int64) decimal.Decimal {
	if largest <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(count).Mul(hundred).Div(decimal.NewFromInt(largest)).Round(1)
}

// MostPopular returns the largest bucket. Ties go to the earliest bucket.
func MostPopular(buckets []domain.BrandAggregate) (domain.BrandAggregate, bool) {
	if len(buckets) == 0 {
		return domain.BrandAggregate{}, false
	}
	best := buckets[0]
	for _, b := range buckets[1:] {
		if b.Count > best.Count {
			best = b
		}
	}
	return best, true
}

// AveragePerBrand returns total/buckets rounded to one decimal place.
func AveragePerBrand(total int64, buckets int) decimal.Decimal {
	if buckets == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(total).Div(decimal.NewFromInt(int64(buckets))).Round(1)
}

func SingletonCount(buckets []domain.BrandAggregate) int {
	n := 0
	for _, b := range buckets {
		if b.Count == 1 {
			n++
		}
	}
	return n
}

// Compute aggregates products and derives the statistics over them.
func Compute(products []domain.Product) Statistics {
	return build(Aggregate(products), int64(len(products)))
}

// FromBuckets derives statistics from buckets already grouped elsewhere,
// such as the server's brand summary. The total is the sum of the counts.
func FromBuckets(buckets []domain.BrandAggregate) Statistics {
	var total int64
	for _, b := range buckets {
		total += b.Count
	}
	return build(buckets, total)
}

func build(buckets []domain.BrandAggregate, total int64) Statistics {
	var largest int64
	for _, b := range buckets {
		if b.Count > largest {
			largest = b.Count
		}
	}

	stats := Statistics{
		TotalProducts:   total,
		TotalBrands:     len(buckets),
		Rows:            make([]Row, 0, len(buckets)),
		AveragePerBrand: AveragePerBrand(total, len(buckets)),
		SingletonBrands: SingletonCount(buckets),
	}
	for _, b := range buckets {
		stats.Rows = append(stats.Rows, Row{
			Brand:      b.Label(),
			Count:      b.Count,
			Percentage: Percentage(b.Count, total),
			BarWidth:   BarWidth(b.Count, largest),
		})
	}

	if top, ok := MostPopular(buckets); ok {
		row := Row{
			Brand:      top.Label(),
			Count:      top.Count,
			Percentage: Percentage(top.Count, total),
			BarWidth:   BarWidth(top.Count, largest),
		}
		stats.MostPopular = &row
	}
	return stats
}
