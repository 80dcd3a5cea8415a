package ledger

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/holdingpro/holding/pkg/date"
	"github.com/holdingpro/holding/pkg/transaction"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// SQLiteRepository stores ledgers in a single SQLite file. Amounts and dates
// are kept as text so no precision is lost.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Load(ctx context.Context, sessionId string) ([]transaction.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, unit, kind, category, amount, tx_date, status, note
		FROM ledger_transaction WHERE session_id = ? ORDER BY seq`, sessionId)
	if err != nil {
		err := fmt.Errorf("could not query ledger transactions: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var records []transaction.Transaction
	for rows.Next() {
		var t transaction.Transaction
		var unit, kind, amount, txDate, status string
		if err := rows.Scan(&t.Id, &unit, &kind, &t.Category, &amount, &txDate, &status, &t.Note); err != nil {
			return nil, fmt.Errorf("could not scan ledger transaction: %w", err)
		}
		if t.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("invalid stored amount %q: %w", amount, err)
		}
		if t.Date, err = date.Parse(txDate); err != nil {
			return nil, fmt.Errorf("invalid stored date %q: %w", txDate, err)
		}
		t.Unit = transaction.Unit(unit)
		t.Kind = transaction.Kind(kind)
		t.Status = transaction.Status(status)
		records = append(records, t)
	}
	return records, rows.Err()
}

func (r *SQLiteRepository) AppendBatch(ctx context.Context, sessionId string, batch []transaction.Transaction) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO ledger_transaction
		(id, session_id, unit, kind, category, amount, tx_date, status, note)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("could not prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, t := range batch {
		_, err := stmt.ExecContext(ctx,
			t.Id,
			sessionId,
			string(t.Unit),
			string(t.Kind),
			t.Category,
			t.Amount.String(),
			t.Date.String(),
			string(t.Status),
			t.Note,
		)
		if err != nil {
			err := fmt.Errorf("could not insert ledger transaction: %w", err)
			log.Error(err)
			return err
		}
	}
	return tx.Commit()
}

func (r *SQLiteRepository) Reset(ctx context.Context, sessionId string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM ledger_transaction WHERE session_id = ?", sessionId)
	if err != nil {
		return fmt.Errorf("could not reset ledger: %w", err)
	}
	return nil
}
