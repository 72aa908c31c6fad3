package catalogstub

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/catalogview/internal/product/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newStub(t *testing.T) *Stub {
	t.Helper()
	s, err := New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func serve(s *Stub, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)
	return rr
}

func TestCreateThenGet(t *testing.T) {
	s := newStub(t)

	rr := serve(s, http.MethodPost, "/products", `{"productKey":5,"productName":"Kettle","brand":"Acme","price":19.5}`)
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = serve(s, http.MethodGet, "/products/5", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var p domain.Product
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &p))
	assert.Equal(t, "Kettle", p.ProductName)
	assert.True(t, decimal.RequireFromString("19.5").Equal(p.Price))
}

func TestCreateDuplicateConflicts(t *testing.T) {
	s := newStub(t)
	require.NoError(t, s.Seed(context.Background(), domain.Product{ProductKey: 1, ProductName: "A", Price: decimal.NewFromInt(1)}))

	rr := serve(s, http.MethodPost, "/products", `{"productKey":1,"productName":"B","price":2}`)
	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestCreateRejectsInvalidPayload(t *testing.T) {
	s := newStub(t)

	for _, body := range []string{
		`{"productKey":1,"price":2}`,
		`{"productKey":1,"productName":"   ","price":2}`,
		`{"productKey":1,"productName":"x","price":-1}`,
		`{"productKey":0,"productName":"x","price":1}`,
		`not json`,
	} {
		rr := serve(s, http.MethodPost, "/products", body)
		assert.Equal(t, http.StatusBadRequest, rr.Code, body)
	}
}

func TestUpdateAndDeleteMissingKey(t *testing.T) {
	s := newStub(t)

	rr := serve(s, http.MethodPut, "/products", `{"productKey":9,"productName":"x","price":1}`)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = serve(s, http.MethodDelete, "/products/9", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestSearchAndSummary(t *testing.T) {
	s := newStub(t)
	require.NoError(t, s.Seed(context.Background(),
		domain.Product{ProductKey: 1, ProductName: "Blue Kettle", Brand: "Acme", Price: decimal.NewFromInt(1)},
		domain.Product{ProductKey: 2, ProductName: "Red kettle", Brand: "acme", Price: decimal.NewFromInt(1)},
		domain.Product{ProductKey: 3, ProductName: "Toaster", Brand: "Zeta", Price: decimal.NewFromInt(1)},
		domain.Product{ProductKey: 4, ProductName: "Mug", Price: decimal.NewFromInt(1)},
	))

	var byName []domain.Product
	rr := serve(s, http.MethodGet, "/products/search?name=KETTLE", "")
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &byName))
	assert.Len(t, byName, 2)

	var byBrand []domain.Product
	rr = serve(s, http.MethodGet, "/products/search?brand=ACME", "")
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &byBrand))
	assert.Len(t, byBrand, 2)

	var summary []domain.BrandAggregate
	rr = serve(s, http.MethodGet, "/products/brand-summary", "")
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &summary))
	assert.Equal(t, []domain.BrandAggregate{{Brand: "Acme", Count: 1}, {Brand: "Zeta", Count: 1}, {Brand: "acme", Count: 1}}, summary)

	rr = serve(s, http.MethodGet, "/products/count", "")
	assert.Equal(t, "4", strings.TrimSpace(rr.Body.String()))
}

func TestWithLoggerRecordsRequests(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	s, err := New(WithLogger(zap.New(core)))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	req := httptest.NewRequest(http.MethodGet, "/products/7", nil)
	req.Header.Set("X-Request-Id", "req-7")
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)
	require.Equal(t, http.StatusNotFound, rr.Code)

	entries := logs.FilterMessage("stub request").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "req-7", fields["request_id"])
	assert.Equal(t, "/products/:key", fields["route"])
	assert.Equal(t, int64(404), fields["status"])
	assert.Equal(t, []string{"req-7"}, s.RequestIDs())
}
