package pdf

import (
	"bytes"
	"context"
	"io"
	"strconv"

	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/smallbiznis/catalogview/internal/product/domain"
)

// GenerateProductList renders products as a table in the given order.
func (p *PDFProvider) GenerateProductList(ctx context.Context, products []domain.Product) (io.Reader, error) {
	m := p.newDocument("Products")

	m.AddRow(10,
		text.NewCol(1, "Key", headerText),
		text.NewCol(4, "Name", headerText),
		text.NewCol(2, "Brand", headerText),
		text.NewCol(2, "Model", headerText),
		text.NewCol(1, "Retailer", headerText),
		text.NewCol(2, "Price", rightAligned(headerText)),
	)

	for _, product := range products {
		m.AddRow(8,
			text.NewCol(1, strconv.FormatInt(product.ProductKey, 10), cellText),
			text.NewCol(4, product.ProductName, cellText),
			text.NewCol(2, product.Brand, cellText),
			text.NewCol(2, product.Model, cellText),
			text.NewCol(1, product.Retailer, cellText),
			text.NewCol(2, product.Price.StringFixed(2), rightAligned(cellText)),
		)
	}

	m.AddRow(10,
		text.NewCol(10, "Total products", headerText),
		text.NewCol(2, strconv.Itoa(len(products)), rightAligned(headerText)),
	)

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(doc.GetBytes()), nil
}
