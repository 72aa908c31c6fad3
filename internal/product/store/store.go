// Package store holds the catalog working set: the last fetched snapshot,
// the single record under view and a state machine per operation.
package store

import (
	"context"
	"strings"
	"sync"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/catalogview/internal/config"
	"github.com/smallbiznis/catalogview/internal/product/domain"
	"github.com/smallbiznis/catalogview/internal/product/validation"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Status string

const (
	StatusIdle    Status = "idle"
	StatusPending Status = "pending"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// OpState is the observable state of one store operation. Message is set
// whenever Status is StatusError.
type OpState struct {
	Status  Status
	Err     error
	Message string
}

type Params struct {
	fx.In

	Gateway domain.Gateway
	Log     *zap.Logger
	GenID   *snowflake.Node `optional:"true"`
	Config  config.Config   `optional:"true"`
}

// Store is safe for concurrent use. Overlapping loads and searches resolve
// last-write-wins unless Config.Store.DiscardStale is set.
type Store struct {
	gw           domain.Gateway
	log          *zap.Logger
	genID        *snowflake.Node
	discardStale bool

	mu       sync.Mutex
	snapshot []domain.Product
	current  *domain.Product
	stale    bool
	states   map[string]OpState
	applied  int64
	// latest holds the token of the newest call started per op.
	latest map[string]int64
}

func New(p Params) *Store {
	log := p.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{
		gw:           p.Gateway,
		log:          log.Named("product.store"),
		genID:        p.GenID,
		discardStale: p.Config.Store.DiscardStale && p.GenID != nil,
		snapshot:     []domain.Product{},
		states:       make(map[string]OpState),
		latest:       make(map[string]int64),
	}
}

// Load replaces the snapshot with every product. On failure the previous
// snapshot is kept.
func (s *Store) Load(ctx context.Context) ([]domain.Product, error) {
	return s.replace(ctx, domain.OpList, s.gw.ListAll)
}

// ApplySearch replaces the snapshot with the products matching criteria.
// A blank term lists everything.
func (s *Store) ApplySearch(ctx context.Context, criteria domain.SearchCriteria) ([]domain.Product, error) {
	if criteria.Blank() {
		return s.replace(ctx, domain.OpSearch, s.gw.ListAll)
	}
	if !criteria.Field.Valid() {
		err := &domain.Error{Op: domain.OpSearch, Kind: domain.ErrInvalidInput, Err: domain.ErrInvalidSearchField}
		s.begin(domain.OpSearch)
		s.fail(domain.OpSearch, err)
		return nil, err
	}

	criteria.Term = strings.TrimSpace(criteria.Term)
	return s.replace(ctx, domain.OpSearch, func(ctx context.Context) ([]domain.Product, error) {
		return s.gw.Search(ctx, criteria)
	})
}

// LoadOne fetches key into the single-record view. The snapshot is untouched.
func (s *Store) LoadOne(ctx context.Context, key int64) (domain.Product, error) {
	s.begin(domain.OpGet)
	p, err := s.gw.GetByKey(ctx, key)
	if err != nil {
		s.fail(domain.OpGet, err)
		return domain.Product{}, err
	}

	s.mu.Lock()
	s.current = &p
	s.states[domain.OpGet] = OpState{Status: StatusSuccess}
	s.mu.Unlock()
	return p, nil
}

// ApplyCreate validates draft and submits it. Invalid drafts never reach the
// gateway. A successful create marks the snapshot stale instead of inserting
// the record locally.
func (s *Store) ApplyCreate(ctx context.Context, draft domain.Draft) (domain.Product, error) {
	s.begin(domain.OpCreate)

	product, res := validation.Parse(draft)
	if err := res.Err(domain.OpCreate); err != nil {
		s.fail(domain.OpCreate, err)
		return domain.Product{}, err
	}

	created, err := s.gw.Create(ctx, product)
	if err != nil {
		s.fail(domain.OpCreate, err)
		return domain.Product{}, err
	}

	s.mu.Lock()
	s.stale = true
	s.states[domain.OpCreate] = OpState{Status: StatusSuccess}
	s.mu.Unlock()
	return created, nil
}

// ApplyUpdate replaces the record keyed by product.ProductKey and holds the
// server's echo as the single-record view.
func (s *Store) ApplyUpdate(ctx context.Context, product domain.Product) (domain.Product, error) {
	s.begin(domain.OpUpdate)

	if err := validation.ValidateProduct(product).Err(domain.OpUpdate); err != nil {
		s.fail(domain.OpUpdate, err)
		return domain.Product{}, err
	}

	updated, err := s.gw.Update(ctx, product)
	if err != nil {
		s.fail(domain.OpUpdate, err)
		return domain.Product{}, err
	}

	s.mu.Lock()
	s.current = &updated
	s.stale = true
	s.states[domain.OpUpdate] = OpState{Status: StatusSuccess}
	s.mu.Unlock()
	return updated, nil
}

// ApplyDelete removes key. The single-record view is dropped when it holds
// the deleted record.
func (s *Store) ApplyDelete(ctx context.Context, key int64) error {
	s.begin(domain.OpDelete)

	if err := s.gw.Delete(ctx, key); err != nil {
		s.fail(domain.OpDelete, err)
		return err
	}

	s.mu.Lock()
	if s.current != nil && s.current.ProductKey == key {
		s.current = nil
	}
	s.stale = true
	s.states[domain.OpDelete] = OpState{Status: StatusSuccess}
	s.mu.Unlock()
	return nil
}

// BrandSummary returns the server side brand counts.
func (s *Store) BrandSummary(ctx context.Context) ([]domain.BrandAggregate, error) {
	s.begin(domain.OpBrandSummary)
	out, err := s.gw.BrandSummary(ctx)
	if err != nil {
		s.fail(domain.OpBrandSummary, err)
		return nil, err
	}
	s.succeed(domain.OpBrandSummary)
	return out, nil
}

func (s *Store) Count(ctx context.Context) (int64, error) {
	s.begin(domain.OpCount)
	n, err := s.gw.Count(ctx)
	if err != nil {
		s.fail(domain.OpCount, err)
		return 0, err
	}
	s.succeed(domain.OpCount)
	return n, nil
}

// Snapshot returns a copy of the current collection.
func (s *Store) Snapshot() []domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Product{}, s.snapshot...)
}

// Current returns the single-record view, if one is held.
func (s *Store) Current() (domain.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return domain.Product{}, false
	}
	return *s.current, true
}

// Stale reports whether a mutation succeeded since the snapshot was fetched.
func (s *Store) Stale() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stale
}

// State returns the state of op. Operations never run report StatusIdle.
func (s *Store) State(op string) OpState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.states[op]; ok {
		return st
	}
	return OpState{Status: StatusIdle}
}

type fetchFunc func(ctx context.Context) ([]domain.Product, error)

func (s *Store) replace(ctx context.Context, op string, fetch fetchFunc) ([]domain.Product, error) {
	s.mu.Lock()
	token := s.nextToken()
	s.latest[op] = token
	s.states[op] = OpState{Status: StatusPending}
	s.mu.Unlock()

	items, err := fetch(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.discardStale && token < s.applied {
		s.log.Info("discarding out of order response",
			zap.String("op", op),
			zap.Int64("token", token),
			zap.Int64("applied", s.applied),
		)
		// The snapshot belongs to a newer response but op still ends,
		// unless a newer call of the same op is responsible for it.
		settle := token == s.latest[op]
		if err != nil {
			if settle {
				s.failLocked(op, err)
			}
			return nil, err
		}
		if settle {
			s.states[op] = OpState{Status: StatusSuccess}
		}
		return append([]domain.Product{}, items...), nil
	}
	s.applied = token

	if err != nil {
		s.failLocked(op, err)
		return nil, err
	}

	s.snapshot = append([]domain.Product{}, items...)
	s.stale = false
	s.states[op] = OpState{Status: StatusSuccess}
	s.log.Debug("snapshot replaced", zap.String("op", op), zap.Int("count", len(items)))
	return append([]domain.Product{}, items...), nil
}

func (s *Store) nextToken() int64 {
	if !s.discardStale {
		return 0
	}
	return s.genID.Generate().Int64()
}

func (s *Store) begin(op string) {
	s.mu.Lock()
	s.states[op] = OpState{Status: StatusPending}
	s.mu.Unlock()
}

func (s *Store) succeed(op string) {
	s.mu.Lock()
	s.states[op] = OpState{Status: StatusSuccess}
	s.mu.Unlock()
}

func (s *Store) fail(op string, err error) {
	s.mu.Lock()
	s.failLocked(op, err)
	s.mu.Unlock()
}

func (s *Store) failLocked(op string, err error) {
	s.states[op] = OpState{Status: StatusError, Err: err, Message: domain.Message(op, err)}
	s.log.Debug("operation failed",
		zap.String("op", op),
		zap.String("error_kind", domain.KindOf(err).Error()),
		zap.Error(err),
	)
}
