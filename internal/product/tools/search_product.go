package tools

import (
	"context"
	"strings"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"
	"github.com/smallbiznis/catalogview/internal/product/domain"
)

const (
	defaultMaxResults = 10
	maxResultsLimit   = 50
)

type SearchProductInput struct {
	Query      string `json:"query"`
	Field      string `json:"field,omitempty"`
	MaxResults int    `json:"max_results,omitempty"`
}

type SearchProductOutput struct {
	Products []domain.Product `json:"products"`
	Total    int              `json:"total"`
}

func NewSearchProductTool(c Catalog) tool.InvokableTool {
	return utils.NewTool(
		&schema.ToolInfo{
			Name: "search_product",
			Desc: "Search the product catalog by product name or brand. An empty query lists every product. Returns product keys, names, brands and prices.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"query": {
					Type: schema.String,
					Desc: "Search term. Matched case-insensitively: a substring of the product name, or the exact brand.",
				},
				"field": {
					Type: schema.String,
					Desc: "Which field to search.",
					Enum: []string{string(domain.SearchByName), string(domain.SearchByBrand)},
				},
				"max_results": {
					Type: schema.Integer,
					Desc: "Maximum number of products to return (default: 10, max: 50)",
				},
			}),
		},
		func(ctx context.Context, in *SearchProductInput) (*SearchProductOutput, error) {
			field, err := domain.ParseSearchField(in.Field)
			if err != nil {
				return nil, &domain.Error{Op: domain.OpSearch, Kind: domain.ErrInvalidInput, Err: err}
			}

			var products []domain.Product
			if query := strings.TrimSpace(in.Query); query == "" {
				products, err = c.ListAll(ctx)
			} else {
				products, err = c.Search(ctx, domain.SearchCriteria{Field: field, Term: query})
			}
			if err != nil {
				return nil, err
			}

			limit := in.MaxResults
			if limit <= 0 {
				limit = defaultMaxResults
			}
			if limit > maxResultsLimit {
				limit = maxResultsLimit
			}

			out := &SearchProductOutput{Total: len(products), Products: products}
			if len(products) > limit {
				out.Products = products[:limit]
			}
			return out, nil
		},
	)
}
