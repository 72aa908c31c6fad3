package pdf

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/catalogview/internal/product/aggregate"
	"github.com/smallbiznis/catalogview/internal/product/domain"
)

func fixedProvider() *PDFProvider {
	return &PDFProvider{now: func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }}
}

func readPDF(t *testing.T, r io.Reader, err error) []byte {
	t.Helper()
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	raw, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !bytes.HasPrefix(raw, []byte("%PDF")) {
		t.Fatalf("expected a PDF document, got prefix %q", raw[:min(len(raw), 8)])
	}
	return raw
}

func TestGenerateBrandSummary(t *testing.T) {
	stats := aggregate.FromBuckets([]domain.BrandAggregate{
		{Brand: "Acme", Count: 3},
		{Brand: "Zeta", Count: 1},
	})

	r, err := fixedProvider().GenerateBrandSummary(context.Background(), stats)
	readPDF(t, r, err)
}

func TestGenerateBrandSummaryEmpty(t *testing.T) {
	r, err := fixedProvider().GenerateBrandSummary(context.Background(), aggregate.FromBuckets(nil))
	readPDF(t, r, err)
}

func TestGenerateProductList(t *testing.T) {
	products := []domain.Product{
		{ProductKey: 1, ProductName: "Anvil", Brand: "Acme", Price: decimal.NewFromInt(5)},
		{ProductKey: 2, ProductName: "Zeppelin", Brand: "Zeta", Model: "Z1", Retailer: "Skyshop", Price: decimal.RequireFromString("499.9")},
	}

	r, err := New().GenerateProductList(context.Background(), products)
	readPDF(t, r, err)
}
