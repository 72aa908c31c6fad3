package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/smallbiznis/catalogview/internal/logger"
	"github.com/smallbiznis/catalogview/internal/product/domain"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

const (
	productsPath     = "/products"
	searchPath       = "/products/search"
	brandSummaryPath = "/products/brand-summary"
	countPath        = "/products/count"

	requestIDHeader = "X-Request-Id"
	maxBodyBytes    = 4 << 20
)

// Client calls the remote catalog API and classifies every failure.
type Client struct {
	baseURL  *url.URL
	http     *http.Client
	observer domain.Observers
	newID    func() string
}

type Option func(*Client)

// WithHTTPClient replaces the transport used for every call.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithObserver adds an observer notified around each call.
func WithObserver(obs domain.Observer) Option {
	return func(c *Client) {
		if obs != nil {
			c.observer = append(c.observer, obs)
		}
	}
}

// WithRequestIDs overrides the X-Request-Id generator.
func WithRequestIDs(gen func() string) Option {
	return func(c *Client) {
		if gen != nil {
			c.newID = gen
		}
	}
}

// New returns a Client rooted at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(strings.TrimSpace(baseURL), "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", baseURL)
	}

	c := &Client{
		baseURL: u,
		http:    http.DefaultClient,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

var _ domain.Gateway = (*Client)(nil)

func (c *Client) ListAll(ctx context.Context) ([]domain.Product, error) {
	var out []domain.Product
	if err := c.do(ctx, call{op: domain.OpList, method: http.MethodGet, path: productsPath}, &out); err != nil {
		return nil, err
	}
	return nonNil(out), nil
}

func (c *Client) GetByKey(ctx context.Context, key int64) (domain.Product, error) {
	var out domain.Product
	err := c.do(ctx, call{op: domain.OpGet, method: http.MethodGet, path: productPath(key)}, &out)
	return out, err
}

func (c *Client) Create(ctx context.Context, product domain.Product) (domain.Product, error) {
	var out domain.Product
	err := c.do(ctx, call{op: domain.OpCreate, method: http.MethodPost, path: productsPath, body: product}, &out)
	return out, err
}

func (c *Client) Update(ctx context.Context, product domain.Product) (domain.Product, error) {
	var out domain.Product
	err := c.do(ctx, call{op: domain.OpUpdate, method: http.MethodPut, path: productsPath, body: product}, &out)
	return out, err
}

func (c *Client) Delete(ctx context.Context, key int64) error {
	return c.do(ctx, call{op: domain.OpDelete, method: http.MethodDelete, path: productPath(key)}, nil)
}

func (c *Client) Search(ctx context.Context, criteria domain.SearchCriteria) ([]domain.Product, error) {
	if !criteria.Field.Valid() {
		return nil, &domain.Error{Op: domain.OpSearch, Kind: domain.ErrInvalidInput, Err: domain.ErrInvalidSearchField}
	}

	query := url.Values{}
	query.Set(string(criteria.Field), criteria.Term)

	var out []domain.Product
	if err := c.do(ctx, call{op: domain.OpSearch, method: http.MethodGet, path: searchPath, query: query}, &out); err != nil {
		return nil, err
	}
	return nonNil(out), nil
}

func (c *Client) BrandSummary(ctx context.Context) ([]domain.BrandAggregate, error) {
	var out []domain.BrandAggregate
	if err := c.do(ctx, call{op: domain.OpBrandSummary, method: http.MethodGet, path: brandSummaryPath}, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.BrandAggregate{}
	}
	return out, nil
}

func (c *Client) Count(ctx context.Context) (int64, error) {
	var out int64
	err := c.do(ctx, call{op: domain.OpCount, method: http.MethodGet, path: countPath}, &out)
	return out, err
}

type call struct {
	op     string
	method string
	path   string
	query  url.Values
	body   any
}

func (c *Client) do(ctx context.Context, cl call, out any) (err error) {
	info := domain.RequestInfo{
		RequestID: c.newID(),
		Op:        cl.op,
		Method:    cl.method,
		Path:      cl.path,
	}

	ctx = logger.ContextWithRequestID(ctx, info.RequestID)
	ctx = c.observer.RequestStarted(ctx, info)

	start := time.Now()
	status := 0
	defer func() {
		c.observer.RequestFinished(ctx, domain.Outcome{
			RequestInfo: info,
			Status:      status,
			Duration:    time.Since(start),
			Err:         err,
		})
	}()

	req, err := c.newRequest(ctx, cl, info.RequestID)
	if err != nil {
		return &domain.Error{Op: cl.op, Kind: domain.ErrUnknown, Err: err}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &domain.Error{Op: cl.op, Kind: domain.ErrUnreachable, Err: err}
	}
	defer resp.Body.Close()
	status = resp.StatusCode

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return &domain.Error{Op: cl.op, Kind: domain.ErrUnreachable, Status: status, Err: err}
	}

	if status < 200 || status > 299 {
		return classify(cl.op, status, payload)
	}

	if out == nil || len(bytes.TrimSpace(payload)) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return &domain.Error{Op: cl.op, Kind: domain.ErrUnknown, Status: status, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, cl call, requestID string) (*http.Request, error) {
	u := c.baseURL.JoinPath(cl.path)
	if len(cl.query) > 0 {
		u.RawQuery = cl.query.Encode()
	}

	var body io.Reader
	if cl.body != nil {
		raw, err := json.Marshal(cl.body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, u.String(), body)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(requestIDHeader, requestID)
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))
	return req, nil
}

type errorPayload struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

// classify maps a non-2xx response onto the error taxonomy.
func classify(op string, status int, payload []byte) error {
	e := &domain.Error{Op: op, Status: status}

	switch status {
	case http.StatusBadRequest:
		e.Kind = domain.ErrInvalidInput
	case http.StatusNotFound:
		e.Kind = domain.ErrNotFound
	case http.StatusConflict:
		e.Kind = domain.ErrConflict
	default:
		e.Kind = domain.ErrUnknown
	}

	var body errorResponse
	if len(payload) > 0 && json.Unmarshal(payload, &body) == nil && body.Error.Message != "" {
		e.Err = errors.New(body.Error.Message)
	}
	return e
}

func productPath(key int64) string {
	return productsPath + "/" + strconv.FormatInt(key, 10)
}

func nonNil(items []domain.Product) []domain.Product {
	if items == nil {
		return []domain.Product{}
	}
	return items
}
