package gateway

import (
	"context"
	"errors"

	"github.com/smallbiznis/catalogview/internal/logger"
	"github.com/smallbiznis/catalogview/internal/product/domain"
	"go.uber.org/zap"
)

// LogObserver traces gateway requests and responses through zap.
type LogObserver struct {
	log *zap.Logger
}

func NewLogObserver(log *zap.Logger) *LogObserver {
	if log == nil {
		log = zap.NewNop()
	}
	return &LogObserver{log: log.Named("catalog.gateway")}
}

func (o *LogObserver) RequestStarted(ctx context.Context, info domain.RequestInfo) context.Context {
	logger.WithContext(ctx, o.log).Debug("catalog request started",
		zap.String("op", info.Op),
		zap.String("method", info.Method),
		zap.String("path", info.Path),
	)
	return ctx
}

func (o *LogObserver) RequestFinished(ctx context.Context, out domain.Outcome) {
	log := logger.WithContext(ctx, o.log)
	fields := []zap.Field{
		zap.String("op", out.Op),
		zap.String("method", out.Method),
		zap.String("path", out.Path),
		zap.Int("status", out.Status),
		zap.Duration("duration", out.Duration),
	}

	if out.Err == nil {
		log.Info("catalog request finished", fields...)
		return
	}

	fields = append(fields, zap.String("error_kind", domain.KindOf(out.Err).Error()), zap.Error(out.Err))
	if errors.Is(out.Err, domain.ErrUnreachable) {
		log.Error("catalog request failed", fields...)
		return
	}
	log.Warn("catalog request failed", fields...)
}
