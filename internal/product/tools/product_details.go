package tools

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"
	"github.com/smallbiznis/catalogview/internal/product/domain"
)

type GetProductDetailsInput struct {
	ProductKey int64 `json:"product_key"`
}

func NewProductDetailsTool(c Catalog) tool.InvokableTool {
	return utils.NewTool(
		&schema.ToolInfo{
			Name: "get_product_details",
			Desc: "Get the full catalog record of one product, including model, retailer and description.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"product_key": {
					Type:     schema.Integer,
					Desc:     "Product key from search_product results.",
					Required: true,
				},
			}),
		},
		func(ctx context.Context, in *GetProductDetailsInput) (*domain.Product, error) {
			if in.ProductKey <= 0 {
				return nil, fmt.Errorf("product_key must be a positive number")
			}
			p, err := c.GetByKey(ctx, in.ProductKey)
			if err != nil {
				return nil, err
			}
			return &p, nil
		},
	)
}
