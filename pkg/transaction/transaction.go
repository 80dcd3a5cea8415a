package transaction

import (
	"strings"

	"github.com/holdingpro/holding/pkg/date"
	"github.com/shopspring/decimal"
)

type Kind string

const (
	Income  Kind = "income"
	Expense Kind = "expense"
)

type Status string

const (
	Realized Status = "realized"
	Pending  Status = "pending"
)

// Unit identifies a business unit or the personal/investment bucket.
type Unit string

const (
	maxCategoryLength = 200
	maxNoteLength     = 500
)

type Transaction struct {
	Id       string
	Unit     Unit
	Kind     Kind
	Category string
	Amount   decimal.Decimal
	Date     date.Date
	// Status is Realized when left empty.
	Status Status
	Note   string
}

func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case Income:
		return Income, nil
	case Expense:
		return Expense, nil
	}
	return "", NewValidationError("kind", "must be one of income, expense, got %q", s)
}

func ParseStatus(s string) (Status, error) {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return "", nil
	case Realized:
		return Realized, nil
	case Pending:
		return Pending, nil
	}
	return "", NewValidationError("status", "must be one of realized, pending, got %q", s)
}

// EffectiveStatus returns the status with the Realized default applied.
func (t Transaction) EffectiveStatus() Status {
	if t.Status == "" {
		return Realized
	}
	return t.Status
}

// Validate checks the record invariants that do not depend on the catalog.
func (t Transaction) Validate() error {
	if strings.TrimSpace(string(t.Unit)) == "" {
		return NewValidationError("unit", "must not be empty")
	}
	if t.Kind != Income && t.Kind != Expense {
		return NewValidationError("kind", "must be one of income, expense, got %q", t.Kind)
	}
	category := strings.TrimSpace(t.Category)
	if category == "" {
		return NewValidationError("category", "must not be empty")
	}
	if len(category) > maxCategoryLength {
		return NewValidationError("category", "too long (max %d characters)", maxCategoryLength)
	}
	if t.Amount.IsNegative() {
		return NewValidationError("amount", "must not be negative, got %s", t.Amount.String())
	}
	if t.Date.IsZero() {
		return NewValidationError("date", "must be set")
	}
	if t.Status != "" && t.Status != Realized && t.Status != Pending {
		return NewValidationError("status", "must be one of realized, pending, got %q", t.Status)
	}
	if len(t.Note) > maxNoteLength {
		return NewValidationError("note", "too long (max %d characters)", maxNoteLength)
	}
	return nil
}
