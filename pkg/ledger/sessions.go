package ledger

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/holdingpro/holding/pkg/transaction"
	log "github.com/sirupsen/logrus"
)

// Sessions keeps one ledger per session. A ledger is created on first use and
// lives as long as the process; Reset empties it but keeps it registered.
type Sessions struct {
	mu      sync.Mutex
	ledgers map[string]*Ledger
	catalog transaction.Catalog
	repo    Repository
	seed    []transaction.Transaction
	onSeed  func(ctx context.Context, sessionId string, seeded []transaction.Transaction)
}

// NewSessions creates the registry. repo may be nil for a memory-only ledger.
func NewSessions(catalog transaction.Catalog, repo Repository) *Sessions {
	return &Sessions{
		ledgers: make(map[string]*Ledger),
		catalog: catalog,
		repo:    repo,
	}
}

// WithSeed makes new, empty session ledgers start with records.
func (s *Sessions) WithSeed(records []transaction.Transaction) *Sessions {
	s.seed = records
	return s
}

// OnSeed registers fn to run, outside the registry lock, after a new ledger was seeded.
func (s *Sessions) OnSeed(fn func(ctx context.Context, sessionId string, seeded []transaction.Transaction)) *Sessions {
	s.onSeed = fn
	return s
}

func (s *Sessions) Catalog() transaction.Catalog {
	return s.catalog
}

// Get returns the ledger of sessionId, creating it on first use.
func (s *Sessions) Get(ctx context.Context, sessionId string) (*Ledger, error) {
	l, seeded, err := s.open(ctx, sessionId)
	if err != nil {
		return nil, err
	}
	if len(seeded) > 0 && s.onSeed != nil {
		s.onSeed(ctx, sessionId, seeded)
	}
	return l, nil
}

// open returns the ledger of sessionId and the records seeded into it, if it was just created.
func (s *Sessions) open(ctx context.Context, sessionId string) (*Ledger, []transaction.Transaction, error) {
	if strings.TrimSpace(sessionId) == "" {
		return nil, nil, fmt.Errorf("empty session id")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if l, ok := s.ledgers[sessionId]; ok {
		return l, nil, nil
	}

	l := New(s.catalog)
	if s.repo != nil {
		stored, err := s.repo.Load(ctx, sessionId)
		if err != nil {
			return nil, nil, fmt.Errorf("could not load ledger of session %s: %w", sessionId, err)
		}
		l.load(stored)
	}
	var seeded []transaction.Transaction
	if l.Len() == 0 && len(s.seed) > 0 {
		var err error
		if seeded, err = l.append(s.seed, s.persister(ctx, sessionId)); err != nil {
			log.Warnf("demo records not seeded for session %s: %v", sessionId, err)
		}
	}
	s.ledgers[sessionId] = l
	log.Debugf("ledger of session %s opened with %d records", sessionId, l.Len())
	return l, seeded, nil
}

// Append adds records to the session ledger as one batch. With a repository the
// batch is stored first, so a storage failure leaves the ledger unchanged.
func (s *Sessions) Append(ctx context.Context, sessionId string, records ...transaction.Transaction) ([]transaction.Transaction, error) {
	l, err := s.Get(ctx, sessionId)
	if err != nil {
		return nil, err
	}
	return l.append(records, s.persister(ctx, sessionId))
}

func (s *Sessions) Query(ctx context.Context, sessionId string, predicate Predicate) ([]transaction.Transaction, error) {
	l, err := s.Get(ctx, sessionId)
	if err != nil {
		return nil, err
	}
	return l.Query(predicate), nil
}

func (s *Sessions) Reset(ctx context.Context, sessionId string) error {
	l, err := s.Get(ctx, sessionId)
	if err != nil {
		return err
	}
	var persist func() error
	if s.repo != nil {
		persist = func() error { return s.repo.Reset(ctx, sessionId) }
	}
	return l.reset(persist)
}

func (s *Sessions) persister(ctx context.Context, sessionId string) func([]transaction.Transaction) error {
	if s.repo == nil {
		return nil
	}
	return func(batch []transaction.Transaction) error {
		if err := s.repo.AppendBatch(ctx, sessionId, batch); err != nil {
			return fmt.Errorf("could not store %d records: %w", len(batch), err)
		}
		return nil
	}
}
