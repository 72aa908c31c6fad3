package product

import (
	"net/http"

	"github.com/smallbiznis/catalogview/internal/config"
	"github.com/smallbiznis/catalogview/internal/observability/metrics"
	"github.com/smallbiznis/catalogview/internal/observability/tracing"
	"github.com/smallbiznis/catalogview/internal/product/domain"
	"github.com/smallbiznis/catalogview/internal/product/gateway"
	"github.com/smallbiznis/catalogview/internal/product/search"
	"github.com/smallbiznis/catalogview/internal/product/store"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("product",
	fx.Provide(provideGateway),
	fx.Provide(store.New),
	fx.Provide(provideDispatcher),
)

type gatewayParams struct {
	fx.In

	Config  config.Config
	Log     *zap.Logger
	Tracing *tracing.Observer `optional:"true"`
	Metrics *metrics.Metrics  `optional:"true"`
}

func provideGateway(p gatewayParams) (domain.Gateway, error) {
	opts := []gateway.Option{
		gateway.WithHTTPClient(&http.Client{Timeout: p.Config.API.Timeout}),
	}
	// The tracing observer runs first so the log observer sees the span.
	if p.Tracing != nil {
		opts = append(opts, gateway.WithObserver(p.Tracing))
	}
	opts = append(opts, gateway.WithObserver(gateway.NewLogObserver(p.Log)))
	if p.Metrics != nil {
		opts = append(opts, gateway.WithObserver(p.Metrics))
	}
	return gateway.New(p.Config.API.BaseURL, opts...)
}

func provideDispatcher(s *store.Store, log *zap.Logger) *search.Dispatcher {
	return search.NewDispatcher(s, log)
}
