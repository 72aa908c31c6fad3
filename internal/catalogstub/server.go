// Package catalogstub serves an in-process copy of the remote catalog API
// for tests. Records live in an in-memory sqlite database owned by the Stub.
package catalogstub

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/catalogview/internal/product/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const requestIDHeader = "X-Request-Id"

// Stub is a fake catalog API backed by sqlite.
type Stub struct {
	db     *gorm.DB
	repo   *repo
	engine *gin.Engine
	log    *zap.Logger

	mu         sync.Mutex
	requestIDs []string
}

type Option func(*Stub)

// WithLogger logs served requests and sql statements to log.
func WithLogger(log *zap.Logger) Option {
	return func(s *Stub) {
		if log != nil {
			s.log = log
		}
	}
}

// New opens a fresh in-memory database and registers the catalog routes.
func New(opts ...Option) (*Stub, error) {
	s := &Stub{log: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.Named("catalogstub")

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: newGormLogger(s.log),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// Every connection to ":memory:" gets its own database.
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&productRow{}); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	s.db = db
	s.repo = &repo{db: db}
	s.engine = s.newEngine()
	return s, nil
}

// Handler exposes the stub as an http.Handler.
func (s *Stub) Handler() http.Handler {
	return s.engine
}

// Seed inserts products directly, bypassing request validation.
func (s *Stub) Seed(ctx context.Context, products ...domain.Product) error {
	for _, p := range products {
		if err := s.repo.Create(ctx, rowFromProduct(p)); err != nil {
			return fmt.Errorf("seed product %d: %w", p.ProductKey, err)
		}
	}
	return nil
}

// RequestIDs returns the X-Request-Id headers seen so far, in order.
func (s *Stub) RequestIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requestIDs...)
}

// Close releases the database.
func (s *Stub) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *Stub) newEngine() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(s.log))
	r.Use(s.recordRequestID)

	r.GET("/products", s.ListProducts)
	r.POST("/products", s.CreateProduct)
	r.PUT("/products", s.UpdateProduct)
	r.GET("/products/brand-summary", s.BrandSummary)
	r.GET("/products/search", s.SearchProducts)
	r.GET("/products/count", s.CountProducts)
	r.GET("/products/:key", s.GetProduct)
	r.DELETE("/products/:key", s.DeleteProduct)
	return r
}

func (s *Stub) recordRequestID(c *gin.Context) {
	if id := c.GetHeader(requestIDHeader); id != "" {
		s.mu.Lock()
		s.requestIDs = append(s.requestIDs, id)
		s.mu.Unlock()
	}
	c.Next()
}

type productRequest struct {
	ProductKey         int64            `json:"productKey" binding:"required,gt=0"`
	ProductName        string           `json:"productName" binding:"required,max=96"`
	Brand              string           `json:"brand" binding:"max=64"`
	Model              string           `json:"model" binding:"max=32"`
	Retailer           string           `json:"retailer" binding:"max=64"`
	Price              *decimal.Decimal `json:"price" binding:"required"`
	ProductDescription string           `json:"productDescription"`
}

func (r productRequest) validate() error {
	if strings.TrimSpace(r.ProductName) == "" {
		return fmt.Errorf("productName: Product name is required")
	}
	if r.Price.IsNegative() {
		return fmt.Errorf("price: Price must be non-negative")
	}
	return nil
}

func (r productRequest) toRow() productRow {
	return rowFromProduct(domain.Product{
		ProductKey:         r.ProductKey,
		ProductName:        r.ProductName,
		Brand:              r.Brand,
		Model:              r.Model,
		Retailer:           r.Retailer,
		Price:              *r.Price,
		ProductDescription: r.ProductDescription,
	})
}

func (s *Stub) bindProduct(c *gin.Context) (productRow, bool) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, "invalid_request", "invalid request")
		return productRow{}, false
	}
	if err := req.validate(); err != nil {
		abort(c, http.StatusBadRequest, "validation_error", err.Error())
		return productRow{}, false
	}
	return req.toRow(), true
}

func (s *Stub) ListProducts(c *gin.Context) {
	rows, err := s.repo.FindAll(c.Request.Context())
	if err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProducts(rows))
}

func (s *Stub) GetProduct(c *gin.Context) {
	key, ok := pathKey(c)
	if !ok {
		return
	}
	row, err := s.repo.FindByKey(c.Request.Context(), key)
	if err != nil {
		internalError(c, err)
		return
	}
	if row == nil {
		notFound(c, key)
		return
	}
	c.JSON(http.StatusOK, row.toProduct())
}

func (s *Stub) CreateProduct(c *gin.Context) {
	row, ok := s.bindProduct(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	exists, err := s.repo.Exists(ctx, row.ProductKey)
	if err != nil {
		internalError(c, err)
		return
	}
	if exists {
		abort(c, http.StatusConflict, "conflict", fmt.Sprintf("product %d already exists", row.ProductKey))
		return
	}
	if err := s.repo.Create(ctx, row); err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusCreated, row.toProduct())
}

func (s *Stub) UpdateProduct(c *gin.Context) {
	row, ok := s.bindProduct(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	exists, err := s.repo.Exists(ctx, row.ProductKey)
	if err != nil {
		internalError(c, err)
		return
	}
	if !exists {
		notFound(c, row.ProductKey)
		return
	}
	if err := s.repo.Update(ctx, row); err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, row.toProduct())
}

func (s *Stub) DeleteProduct(c *gin.Context) {
	key, ok := pathKey(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	exists, err := s.repo.Exists(ctx, key)
	if err != nil {
		internalError(c, err)
		return
	}
	if !exists {
		notFound(c, key)
		return
	}
	if err := s.repo.Delete(ctx, key); err != nil {
		internalError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Stub) SearchProducts(c *gin.Context) {
	var query struct {
		Name  string `form:"name"`
		Brand string `form:"brand"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		abort(c, http.StatusBadRequest, "invalid_request", "invalid request")
		return
	}

	ctx := c.Request.Context()
	var (
		rows []productRow
		err  error
	)
	switch {
	case strings.TrimSpace(query.Name) != "":
		rows, err = s.repo.SearchByName(ctx, query.Name)
	case strings.TrimSpace(query.Brand) != "":
		rows, err = s.repo.FindByBrand(ctx, query.Brand)
	default:
		rows, err = s.repo.FindAll(ctx)
	}
	if err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProducts(rows))
}

func (s *Stub) BrandSummary(c *gin.Context) {
	rows, err := s.repo.BrandSummary(c.Request.Context())
	if err != nil {
		internalError(c, err)
		return
	}
	out := make([]domain.BrandAggregate, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.BrandAggregate{Brand: r.Brand, Count: r.Count})
	}
	c.JSON(http.StatusOK, out)
}

func (s *Stub) CountProducts(c *gin.Context) {
	n, err := s.repo.Count(c.Request.Context())
	if err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, n)
}

type errorPayload struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

func abort(c *gin.Context, status int, typ, message string) {
	c.AbortWithStatusJSON(status, errorResponse{Error: errorPayload{Type: typ, Message: message}})
}

func notFound(c *gin.Context, key int64) {
	abort(c, http.StatusNotFound, "not_found", fmt.Sprintf("product %d not found", key))
}

func internalError(c *gin.Context, err error) {
	_ = c.Error(err)
	abort(c, http.StatusInternalServerError, "internal_error", "internal server error")
}

func pathKey(c *gin.Context) (int64, bool) {
	key, err := strconv.ParseInt(strings.TrimSpace(c.Param("key")), 10, 64)
	if err != nil {
		abort(c, http.StatusBadRequest, "invalid_request", "invalid product key")
		return 0, false
	}
	return key, true
}
