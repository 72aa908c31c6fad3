// Package tools exposes read-only catalog queries as agent tools.
package tools

import (
	"context"

	"github.com/cloudwego/eino/components/tool"
	"github.com/smallbiznis/catalogview/internal/product/domain"
)

// Catalog is the read side of the gateway the tools call.
type Catalog interface {
	ListAll(ctx context.Context) ([]domain.Product, error)
	GetByKey(ctx context.Context, key int64) (domain.Product, error)
	Search(ctx context.Context, criteria domain.SearchCriteria) ([]domain.Product, error)
	BrandSummary(ctx context.Context) ([]domain.BrandAggregate, error)
}

// New returns every catalog tool bound to c.
func New(c Catalog) []tool.BaseTool {
	return []tool.BaseTool{
		NewSearchProductTool(c),
		NewProductDetailsTool(c),
		NewBrandSummaryTool(c),
	}
}
