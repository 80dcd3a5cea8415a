package ledger

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/holdingpro/holding/pkg/transaction"
)

var ErrStubUnavailable = errors.New("repository unavailable")

// RepositoryStub keeps stored ledgers in memory. Set Failing to make every
// write return ErrStubUnavailable.
type RepositoryStub struct {
	mu      sync.Mutex
	stored  map[string][]transaction.Transaction
	Failing bool
}

func NewRepositoryStub() *RepositoryStub {
	return &RepositoryStub{stored: map[string][]transaction.Transaction{}}
}

func (s *RepositoryStub) Load(ctx context.Context, sessionId string) ([]transaction.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.stored[sessionId]), nil
}

func (s *RepositoryStub) AppendBatch(ctx context.Context, sessionId string, batch []transaction.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Failing {
		return ErrStubUnavailable
	}
	s.stored[sessionId] = append(s.stored[sessionId], batch...)
	return nil
}

func (s *RepositoryStub) Reset(ctx context.Context, sessionId string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Failing {
		return ErrStubUnavailable
	}
	delete(s.stored, sessionId)
	return nil
}
