package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income  TransactionType = "INCOME"
	Expense TransactionType = "EXPENSE"
)

type (
	TransactionType string

	// Transaction is the atomic ledger record. Amount is always non-negative;
	// direction comes from Type. Date is the effective date in unix seconds,
	// independent of the bookkeeping timestamps.
	Transaction struct {
		ID         string          `json:"id"`
		Amount     float64         `json:"amount"`
		Type       TransactionType `json:"type"`
		Date       int64           `json:"date"`
		CategoryID string          `json:"categoryId"`
		Note       string          `json:"note"`
		CreatedAt  int64           `json:"createdAt"`
		UpdatedAt  int64           `json:"updatedAt"`
		IsDeleted  bool            `json:"isDeleted"`
	}

	// DateRange is an inclusive window. A zero bound means unbounded on
	// that side; From == To selects exactly that instant.
	DateRange struct {
		From int64
		To   int64
	}

	// Filter selects transactions by conjunction of its non-zero fields.
	Filter struct {
		CategoryID string
		Type       TransactionType // empty matches any type
		DateFrom   int64
		DateTo     int64
		Keyword    string // case-sensitive substring of Note
	}

	Settings struct {
		Currency      string
		MonthlyBudget float64 // 0 means no budget configured
	}

	Notification struct {
		ID        string `json:"id"`
		Message   string `json:"message"`
		Level     string `json:"level"`
		Timestamp int64  `json:"timestamp"`
		IsRead    bool   `json:"isRead"`
	}
)

var (
	ErrNotFound      = errors.New("transaction not found")
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidType   = errors.New("invalid transaction type")
	ErrInvalidDate   = errors.New("invalid date")
	ErrNoteTooLong   = errors.New("note too long (max 500 characters)")
)

// Contains reports whether ts falls inside the range. This is the single
// membership predicate shared by every aggregation and filter.
func (r DateRange) Contains(ts int64) bool {
	return (r.From == 0 || ts >= r.From) && (r.To == 0 || ts <= r.To)
}

func (t TransactionType) Valid() bool {
	switch t {
	case Income, Expense:
		return true
	default:
		return false
	}
}

func (tx Transaction) Validate() error {
	if tx.Amount < 0 {
		return ErrInvalidAmount
	}
	if !tx.Type.Valid() {
		return ErrInvalidType
	}
	if tx.Date < 0 {
		return ErrInvalidDate
	}
	if len(tx.Note) > 500 {
		return ErrNoteTooLong
	}
	return nil
}

// EffectiveDate returns the transaction date as a time.Time in the local zone.
func (tx Transaction) EffectiveDate() time.Time {
	return time.Unix(tx.Date, 0)
}

// Matches reports whether the transaction satisfies every predicate the
// filter carries. Deleted records are the repository's concern, not the
// filter's.
func (f Filter) Matches(tx Transaction) bool {
	if f.CategoryID != "" && tx.CategoryID != f.CategoryID {
		return false
	}
	if f.Type != "" && tx.Type != f.Type {
		return false
	}
	if !(DateRange{From: f.DateFrom, To: f.DateTo}).Contains(tx.Date) {
		return false
	}
	if f.Keyword != "" && !strings.Contains(tx.Note, f.Keyword) {
		return false
	}
	return true
}

// MonthKey formats a unix timestamp as the local "YYYY-MM" bucket used by
// monthly aggregation.
func MonthKey(ts int64) string {
	return time.Unix(ts, 0).Format("2006-01")
}
