package tools

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/cloudwego/eino/components/tool"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/catalogview/internal/catalogstub"
	"github.com/smallbiznis/catalogview/internal/product/aggregate"
	"github.com/smallbiznis/catalogview/internal/product/domain"
	"github.com/smallbiznis/catalogview/internal/product/gateway"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCatalog(t *testing.T) Catalog {
	t.Helper()
	stub, err := catalogstub.New()
	require.NoError(t, err)
	srv := httptest.NewServer(stub.Handler())
	t.Cleanup(func() {
		srv.Close()
		_ = stub.Close()
	})

	require.NoError(t, stub.Seed(context.Background(),
		domain.Product{ProductKey: 1, ProductName: "Anvil", Brand: "Acme", Price: decimal.NewFromInt(5)},
		domain.Product{ProductKey: 2, ProductName: "Rocket Skates", Brand: "Acme", Price: decimal.RequireFromString("49.90")},
		domain.Product{ProductKey: 3, ProductName: "Zeppelin", Brand: "Zeta", Price: decimal.NewFromInt(500), Model: "Z1"},
	))

	gw, err := gateway.New(srv.URL)
	require.NoError(t, err)
	return gw
}

func run(t *testing.T, tl tool.InvokableTool, args string, out any) {
	t.Helper()
	raw, err := tl.InvokableRun(context.Background(), args)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(raw), out))
}

func TestToolNames(t *testing.T) {
	var names []string
	for _, tl := range New(newCatalog(t)) {
		info, err := tl.Info(context.Background())
		require.NoError(t, err)
		names = append(names, info.Name)
	}
	assert.Equal(t, []string{"search_product", "get_product_details", "brand_summary"}, names)
}

func TestSearchProductTool(t *testing.T) {
	tl := NewSearchProductTool(newCatalog(t))

	var out SearchProductOutput
	run(t, tl, `{"query":"rocket"}`, &out)
	require.Len(t, out.Products, 1)
	assert.Equal(t, "Rocket Skates", out.Products[0].ProductName)

	out = SearchProductOutput{}
	run(t, tl, `{"query":"acme","field":"brand","max_results":1}`, &out)
	assert.Equal(t, 2, out.Total)
	assert.Len(t, out.Products, 1)

	out = SearchProductOutput{}
	run(t, tl, `{}`, &out)
	assert.Equal(t, 3, out.Total)

	_, err := tl.InvokableRun(context.Background(), `{"query":"x","field":"model"}`)
	assert.Error(t, err)
}

func TestProductDetailsTool(t *testing.T) {
	tl := NewProductDetailsTool(newCatalog(t))

	var p domain.Product
	run(t, tl, `{"product_key":3}`, &p)
	assert.Equal(t, "Zeppelin", p.ProductName)
	assert.Equal(t, "Z1", p.Model)

	_, err := tl.InvokableRun(context.Background(), `{"product_key":42}`)
	assert.Error(t, err)
}

func TestBrandSummaryTool(t *testing.T) {
	tl := NewBrandSummaryTool(newCatalog(t))

	var stats aggregate.Statistics
	run(t, tl, `{}`, &stats)
	assert.Equal(t, int64(3), stats.TotalProducts)
	assert.Equal(t, 2, stats.TotalBrands)
	require.NotNil(t, stats.MostPopular)
	assert.Equal(t, "Acme", stats.MostPopular.Brand)
	assert.Equal(t, 1, stats.SingletonBrands)
}
