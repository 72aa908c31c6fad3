package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/catalogview/internal/catalogstub"
	"github.com/smallbiznis/catalogview/internal/product/aggregate"
	"github.com/smallbiznis/catalogview/internal/product/domain"
	"github.com/smallbiznis/catalogview/internal/product/gateway"
	"github.com/smallbiznis/catalogview/internal/product/search"
	"github.com/smallbiznis/catalogview/internal/product/store"
	"github.com/smallbiznis/catalogview/internal/providers/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestCLI(t *testing.T) (*cli, *bytes.Buffer, *bytes.Buffer) {
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
		domain.Product{ProductKey: 2, ProductName: "Rocket", Brand: "Acme", Price: decimal.NewFromInt(50)},
		domain.Product{ProductKey: 3, ProductName: "Zeppelin", Brand: "Zeta", Price: decimal.NewFromInt(500)},
	))

	gw, err := gateway.New(srv.URL)
	require.NoError(t, err)
	s := store.New(store.Params{Gateway: gw, Log: zap.NewNop()})

	var out, errOut bytes.Buffer
	c := newCLI(cliParams{Gateway: gw, Store: s, Dispatcher: search.NewDispatcher(s, nil), PDF: pdf.New()})
	c.out = &out
	c.errOut = &errOut
	return c, &out, &errOut
}

func lines(buf *bytes.Buffer) []string {
	return strings.Split(strings.TrimSpace(buf.String()), "\n")
}

func TestListAndSearch(t *testing.T) {
	c, out, _ := newTestCLI(t)
	ctx := context.Background()

	require.NoError(t, c.run(ctx, []string{"list"}))
	assert.Len(t, lines(out), 3)

	out.Reset()
	require.NoError(t, c.run(ctx, []string{"search", "-field", "brand", "-term", "zeta"}))
	got := lines(out)
	require.Len(t, got, 1)
	assert.Contains(t, got[0], `"productName":"Zeppelin"`)
}

func TestCreateReportsFieldErrors(t *testing.T) {
	c, _, errOut := newTestCLI(t)

	err := c.run(context.Background(), []string{"create", "-key", "abc", "-price", "-1"})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	c.report(err)
	assert.Equal(t, strings.Join([]string{
		"error: Please correct the highlighted fields.",
		"  price: Price must be a non-negative number",
		"  productKey: Product Key must be a positive number",
		"  productName: Product Name is required",
	}, "\n")+"\n", errOut.String())
}

func TestCreateDuplicateKey(t *testing.T) {
	c, _, errOut := newTestCLI(t)

	err := c.run(context.Background(), []string{"create", "-key", "1", "-name", "Anvil", "-price", "5"})
	require.ErrorIs(t, err, domain.ErrConflict)

	c.report(err)
	assert.Equal(t, "error: A product with this Product Key already exists.\n", errOut.String())
}

func TestUpdateKeepsUnsetFields(t *testing.T) {
	c, out, _ := newTestCLI(t)

	require.NoError(t, c.run(context.Background(), []string{"update", "-key", "2", "-price", "55.5"}))

	var p domain.Product
	require.NoError(t, json.Unmarshal(out.Bytes(), &p))
	assert.Equal(t, "Rocket", p.ProductName)
	assert.Equal(t, "Acme", p.Brand)
	assert.Equal(t, "55.50", p.Price.StringFixed(2))
}

func TestDeleteThenCount(t *testing.T) {
	c, out, _ := newTestCLI(t)
	ctx := context.Background()

	require.NoError(t, c.run(ctx, []string{"delete", "-key", "3"}))
	err := c.run(ctx, []string{"delete", "-key", "3"})
	require.ErrorIs(t, err, domain.ErrNotFound)

	out.Reset()
	require.NoError(t, c.run(ctx, []string{"count"}))
	assert.JSONEq(t, `{"count":2}`, out.String())
}

func TestSummary(t *testing.T) {
	c, out, _ := newTestCLI(t)
	ctx := context.Background()

	require.NoError(t, c.run(ctx, []string{"summary"}))
	var stats aggregate.Statistics
	require.NoError(t, json.Unmarshal(out.Bytes(), &stats))
	assert.Equal(t, int64(3), stats.TotalProducts)
	assert.Equal(t, "Acme", stats.MostPopular.Brand)
	assert.Contains(t, out.String(), `"averagePerBrand":"1.5"`)
	assert.Contains(t, out.String(), `"percentage":"66.7"`)

	path := filepath.Join(t.TempDir(), "summary.pdf")
	require.NoError(t, c.run(ctx, []string{"summary", "-local", "-pdf", path}))
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF")))
}

func TestUnknownCommand(t *testing.T) {
	c, _, _ := newTestCLI(t)
	err := c.run(context.Background(), []string{"explode"})
	assert.ErrorIs(t, err, errUsage)
}

func TestToolCommand(t *testing.T) {
	c, out, _ := newTestCLI(t)
	ctx := context.Background()

	require.NoError(t, c.run(ctx, []string{"tool"}))
	assert.Len(t, lines(out), 3)

	out.Reset()
	require.NoError(t, c.run(ctx, []string{"tool", "get_product_details", `{"product_key":3}`}))
	assert.Contains(t, out.String(), `"productName":"Zeppelin"`)

	err := c.run(ctx, []string{"tool", "launch_rocket"})
	assert.ErrorIs(t, err, errUsage)
}
