// Package ledger holds the append-only, insertion ordered store of transactions.
package ledger

import (
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/holdingpro/holding/pkg/transaction"
)

// Ledger is an append-only sequence of transactions. Duplicates are allowed.
// Append and Reset are mutually exclusive, so concurrent batches never lose records.
type Ledger struct {
	mu       sync.Mutex
	records  []transaction.Transaction
	validate func(transaction.Transaction) error
	newId    func() string
}

// New creates an empty ledger validating records against catalog.
func New(catalog transaction.Catalog) *Ledger {
	return &Ledger{
		validate: catalog.Validate,
		newId:    uuid.NewString,
	}
}

// Append validates the whole batch, assigns ids and appends it. If any record is
// invalid nothing is appended and the returned error wraps a *transaction.ValidationError.
func (l *Ledger) Append(records ...transaction.Transaction) ([]transaction.Transaction, error) {
	return l.append(records, nil)
}

// append runs persist, when set, inside the critical section before the
// in-memory sequence changes. A persist error leaves the ledger untouched.
func (l *Ledger) append(records []transaction.Transaction, persist func([]transaction.Transaction) error) ([]transaction.Transaction, error) {
	if len(records) == 0 {
		return nil, nil
	}
	batch := make([]transaction.Transaction, len(records))
	for i, record := range records {
		if err := l.validate(record); err != nil {
			if len(records) == 1 {
				return nil, err
			}
			return nil, fmt.Errorf("record %d of %d: %w", i+1, len(records), err)
		}
		record.Id = l.newId()
		batch[i] = record
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if persist != nil {
		if err := persist(batch); err != nil {
			return nil, err
		}
	}
	l.records = append(l.records, batch...)
	return slices.Clone(batch), nil
}

// load replaces the content with already stored records, keeping their ids.
func (l *Ledger) load(records []transaction.Transaction) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = slices.Clone(records)
}

// Query returns copies of the records matching predicate, in insertion order.
func (l *Ledger) Query(predicate Predicate) []transaction.Transaction {
	if predicate == nil {
		predicate = All
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	result := make([]transaction.Transaction, 0, len(l.records))
	for _, r := range l.records {
		if predicate(r) {
			result = append(result, r)
		}
	}
	return result
}

func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.records)
}

// Reset removes every record. It is irreversible.
func (l *Ledger) Reset() {
	l.reset(nil)
}

func (l *Ledger) reset(persist func() error) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if persist != nil {
		if err := persist(); err != nil {
			return err
		}
	}
	l.records = nil
	return nil
}
