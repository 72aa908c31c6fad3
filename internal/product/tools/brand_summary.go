package tools

import (
	"context"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"
	"github.com/smallbiznis/catalogview/internal/product/aggregate"
)

type BrandSummaryInput struct{}

func NewBrandSummaryTool(c Catalog) tool.InvokableTool {
	return utils.NewTool(
		&schema.ToolInfo{
			Name: "brand_summary",
			Desc: "Summarise the catalog by brand: product count and share per brand, the most popular brand, the average number of products per brand and how many brands have a single product.",
		},
		func(ctx context.Context, _ *BrandSummaryInput) (*aggregate.Statistics, error) {
			buckets, err := c.BrandSummary(ctx)
			if err != nil {
				return nil, err
			}
			stats := aggregate.FromBuckets(buckets)
			return &stats, nil
		},
	)
}
