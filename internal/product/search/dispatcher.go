// Package search turns raw user input into either a full listing or a
// single-field query.
package search

import (
	"context"
	"strings"

	"github.com/smallbiznis/catalogview/internal/product/domain"
	"go.uber.org/zap"
)

// Searcher is the part of the product store the dispatcher drives.
type Searcher interface {
	Load(ctx context.Context) ([]domain.Product, error)
	ApplySearch(ctx context.Context, criteria domain.SearchCriteria) ([]domain.Product, error)
}

type Dispatcher struct {
	searcher Searcher
	log      *zap.Logger
}

func NewDispatcher(searcher Searcher, log *zap.Logger) *Dispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Dispatcher{searcher: searcher, log: log.Named("product.search")}
}

// Dispatch lists everything when term is blank. Otherwise it issues exactly
// one search on field, which defaults to the product name.
func (d *Dispatcher) Dispatch(ctx context.Context, field, term string) ([]domain.Product, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		d.log.Debug("blank search term, listing all products")
		return d.searcher.Load(ctx)
	}

	f, err := domain.ParseSearchField(field)
	if err != nil {
		return nil, &domain.Error{Op: domain.OpSearch, Kind: domain.ErrInvalidInput, Err: err}
	}

	d.log.Debug("dispatching search", zap.String("field", string(f)), zap.String("term", term))
	return d.searcher.ApplySearch(ctx, domain.SearchCriteria{Field: f, Term: term})
}
