package domain

import (
	"context"
	"time"
)

// Gateway is the remote catalog API. Every call either completes or fails
// with a classified *Error; nothing is retried.
type Gateway interface {
	ListAll(ctx context.Context) ([]Product, error)
	GetByKey(ctx context.Context, key int64) (Product, error)
	Create(ctx context.Context, product Product) (Product, error)
	Update(ctx context.Context, product Product) (Product, error)
	Delete(ctx context.Context, key int64) error
	Search(ctx context.Context, criteria SearchCriteria) ([]Product, error)
	BrandSummary(ctx context.Context) ([]BrandAggregate, error)
	Count(ctx context.Context) (int64, error)
}

// RequestInfo describes an outgoing gateway call.
type RequestInfo struct {
	RequestID string
	Op        string
	Method    string
	Path      string
}

// Outcome describes a finished gateway call. Status is zero when no
// response was received.
type Outcome struct {
	RequestInfo
	Status   int
	Duration time.Duration
	Err      error
}

// Observer is notified around every gateway call. RequestStarted may return
// a derived context which is used for the call and passed to RequestFinished.
type Observer interface {
	RequestStarted(ctx context.Context, info RequestInfo) context.Context
	RequestFinished(ctx context.Context, outcome Outcome)
}

// Observers fans out to each observer in order.
type Observers []Observer

func (o Observers) RequestStarted(ctx context.Context, info RequestInfo) context.Context {
	for _, obs := range o {
		if obs == nil {
			continue
		}
		ctx = obs.RequestStarted(ctx, info)
	}
	return ctx
}

func (o Observers) RequestFinished(ctx context.Context, outcome Outcome) {
	for i := len(o) - 1; i >= 0; i-- {
		if o[i] == nil {
			continue
		}
		o[i].RequestFinished(ctx, outcome)
	}
}

// NopObserver ignores all events.
type NopObserver struct{}

func (NopObserver) RequestStarted(ctx context.Context, _ RequestInfo) context.Context { return ctx }

func (NopObserver) RequestFinished(context.Context, Outcome) {}
