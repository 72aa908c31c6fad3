package observability

import (
	"os"
	"strings"

	"github.com/smallbiznis/catalogview/internal/config"
)

// Config holds observability settings derived from the application config.
// The standard OTEL_EXPORTER_OTLP_* variables take precedence.
type Config struct {
	ServiceName string
	Environment string
	Version     string

	OtelEnabled          bool
	OtelExporterEndpoint string
	OtelExporterProtocol string
	OtelSamplingRatio    float64

	MetricsAddr string
}

func LoadConfig(cfg config.Config) Config {
	serviceName := strings.TrimSpace(cfg.App.Name)
	if serviceName == "" {
		serviceName = "catalogview"
	}
	endpoint := getenv("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.Otel.Endpoint)
	protocol := strings.ToLower(strings.TrimSpace(getenv("OTEL_EXPORTER_OTLP_PROTOCOL", cfg.Otel.Protocol)))
	if tracesProtocol := strings.TrimSpace(os.Getenv("OTEL_EXPORTER_OTLP_TRACES_PROTOCOL")); tracesProtocol != "" {
		protocol = strings.ToLower(tracesProtocol)
	}

	return Config{
		ServiceName:          serviceName,
		Environment:          strings.TrimSpace(cfg.Environment),
		Version:              strings.TrimSpace(cfg.App.Version),
		OtelEnabled:          cfg.Otel.Enabled,
		OtelExporterEndpoint: strings.TrimSpace(endpoint),
		OtelExporterProtocol: protocol,
		OtelSamplingRatio:    cfg.Otel.SamplingRatio,
		MetricsAddr:          strings.TrimSpace(cfg.Metrics.Addr),
	}
}

func getenv(key, def string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return def
}
