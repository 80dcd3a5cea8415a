package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/holdingpro/holding/pkg/date"
	"github.com/holdingpro/holding/pkg/transaction"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// Repository persists session ledgers. Records come back in insertion order.
type Repository interface {
	Load(ctx context.Context, sessionId string) ([]transaction.Transaction, error)
	// AppendBatch stores all records or none of them.
	AppendBatch(ctx context.Context, sessionId string, batch []transaction.Transaction) error
	Reset(ctx context.Context, sessionId string) error
}

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Load(ctx context.Context, sessionId string) ([]transaction.Transaction, error) {
	query := `SELECT id::text, unit, kind, category, amount::text, tx_date, status, note
			  FROM ledger_transaction
			  WHERE session_id = $1
			  ORDER BY seq`
	rows, err := r.db.Query(ctx, query, sessionId)
	if err != nil {
		err := fmt.Errorf("could not query ledger transactions: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var records []transaction.Transaction
	for rows.Next() {
		var (
			t      transaction.Transaction
			unit   string
			kind   string
			status string
			amount string
			txDate time.Time
		)
		if err := rows.Scan(&t.Id, &unit, &kind, &t.Category, &amount, &txDate, &status, &t.Note); err != nil {
			err := fmt.Errorf("could not scan ledger transaction: %w", err)
			log.Error(err)
			return nil, err
		}
		if t.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("invalid stored amount %q: %w", amount, err)
		}
		t.Unit = transaction.Unit(unit)
		t.Kind = transaction.Kind(kind)
		t.Status = transaction.Status(status)
		t.Date = date.FromTime(txDate)
		records = append(records, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

func (r *PostgresRepository) AppendBatch(ctx context.Context, sessionId string, batch []transaction.Transaction) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	query := `INSERT INTO ledger_transaction (
					id,
					session_id,
					unit,
					kind,
					category,
					amount,
					tx_date,
					status,
					note
				) VALUES ($1, $2, $3, $4, $5, $6::numeric, $7, $8, $9)`
	for _, t := range batch {
		_, err := tx.Exec(ctx, query,
			t.Id,
			sessionId,
			string(t.Unit),
			string(t.Kind),
			t.Category,
			t.Amount.String(),
			t.Date.Time(),
			string(t.Status),
			t.Note,
		)
		if err != nil {
			err := fmt.Errorf("could not insert ledger transaction: %w", err)
			log.Error(err)
			return err
		}
	}
	return tx.Commit(ctx)
}

func (r *PostgresRepository) Reset(ctx context.Context, sessionId string) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM ledger_transaction WHERE session_id = $1", sessionId)
	if err != nil {
		err := fmt.Errorf("could not reset ledger: %w", err)
		log.Error(err)
		return err
	}
	log.Debugf("removed %d stored records of session %s", tag.RowsAffected(), sessionId)
	return nil
}
