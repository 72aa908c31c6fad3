package pdf

import (
	"bytes"
	"context"
	"io"
	"strconv"

	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/smallbiznis/catalogview/internal/product/aggregate"
)

// GenerateBrandSummary renders the statistics block followed by one row per
// brand bucket.
func (p *PDFProvider) GenerateBrandSummary(ctx context.Context, stats aggregate.Statistics) (io.Reader, error) {
	m := p.newDocument("Brand Summary")

	mostPopular := "-"
	if stats.MostPopular != nil {
		mostPopular = stats.MostPopular.Brand + " (" + strconv.FormatInt(stats.MostPopular.Count, 10) + ")"
	}

	m.AddRow(30,
		col.New(6).Add(
			text.New("Total products: "+strconv.FormatInt(stats.TotalProducts, 10), props.Text{Top: 0}),
			text.New("Total brands: "+strconv.Itoa(stats.TotalBrands), props.Text{Top: 5}),
			text.New("Most popular: "+mostPopular, props.Text{Top: 10}),
			text.New("Average per brand: "+stats.AverageLabel(), props.Text{Top: 15}),
			text.New("Single-product brands: "+strconv.Itoa(stats.SingletonBrands), props.Text{Top: 20}),
		),
		col.New(6),
	)

	m.AddRow(10,
		text.NewCol(6, "Brand", headerText),
		text.NewCol(2, "Products", rightAligned(headerText)),
		text.NewCol(2, "Share", rightAligned(headerText)),
		text.NewCol(2, "Relative", rightAligned(headerText)),
	)

	for _, row := range stats.Rows {
		m.AddRow(8,
			text.NewCol(6, row.Brand, cellText),
			text.NewCol(2, strconv.FormatInt(row.Count, 10), rightAligned(cellText)),
			text.NewCol(2, row.Percentage.StringFixed(1)+"%", rightAligned(cellText)),
			text.NewCol(2, row.BarWidth.StringFixed(0)+"%", rightAligned(cellText)),
		)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(doc.GetBytes()), nil
}
