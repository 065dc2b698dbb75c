package core

import (
	"testing"
	"time"
)

func TestDateRangeContains(t *testing.T) {
	base := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC).Unix()

	tests := []struct {
		name string
		r    DateRange
		ts   int64
		want bool
	}{
		{"unbounded both sides", DateRange{}, base, true},
		{"inside", DateRange{From: base - 10, To: base + 10}, base, true},
		{"inclusive lower bound", DateRange{From: base, To: base + 10}, base, true},
		{"inclusive upper bound", DateRange{From: base - 10, To: base}, base, true},
		{"before range", DateRange{From: base + 1, To: base + 10}, base, false},
		{"after range", DateRange{From: base - 10, To: base - 1}, base, false},
		{"unbounded start", DateRange{To: base}, base - 100, true},
		{"unbounded end", DateRange{From: base}, base + 100, true},
		{"single instant match", DateRange{From: base, To: base}, base, true},
		{"single instant miss", DateRange{From: base, To: base}, base + 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.r.Contains(tt.ts); got != tt.want {
				t.Errorf("Contains(%d) = %v, want %v", tt.ts, got, tt.want)
			}
		})
	}
}

func TestTransactionValidate(t *testing.T) {
	valid := Transaction{Amount: 42.5, Type: Expense, Date: time.Now().Unix()}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid transaction rejected: %v", err)
	}

	tests := []struct {
		name string
		mut  func(*Transaction)
		want error
	}{
		{"negative amount", func(tx *Transaction) { tx.Amount = -1 }, ErrInvalidAmount},
		{"unknown type", func(tx *Transaction) { tx.Type = "TRANSFER" }, ErrInvalidType},
		{"empty type", func(tx *Transaction) { tx.Type = "" }, ErrInvalidType},
		{"negative date", func(tx *Transaction) { tx.Date = -5 }, ErrInvalidDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := valid
			tt.mut(&tx)
			if err := tx.Validate(); err != tt.want {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}

	// Zero amount is legal; direction comes from the type, not the sign.
	zero := Transaction{Amount: 0, Type: Income, Date: valid.Date}
	if err := zero.Validate(); err != nil {
		t.Errorf("zero amount rejected: %v", err)
	}
}

func TestFilterMatches(t *testing.T) {
	jan10 := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC).Unix()
	tx := Transaction{
		ID:         "tx_1",
		Amount:     19.99,
		Type:       Expense,
		Date:       jan10,
		CategoryID: "food",
		Note:       "weekly groceries",
	}

	tests := []struct {
		name string
		f    Filter
		want bool
	}{
		{"empty filter matches everything", Filter{}, true},
		{"category match", Filter{CategoryID: "food"}, true},
		{"category mismatch", Filter{CategoryID: "rent"}, false},
		{"type match", Filter{Type: Expense}, true},
		{"type mismatch", Filter{Type: Income}, false},
		{"date window", Filter{DateFrom: jan10 - 1, DateTo: jan10 + 1}, true},
		{"date out of window", Filter{DateFrom: jan10 + 1}, false},
		{"keyword substring", Filter{Keyword: "grocer"}, true},
		{"keyword is case-sensitive", Filter{Keyword: "Grocer"}, false},
		{"all predicates conjunctive", Filter{CategoryID: "food", Type: Expense, Keyword: "weekly"}, true},
		{"one failing predicate rejects", Filter{CategoryID: "food", Keyword: "rent"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.f.Matches(tx); got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMonthKey(t *testing.T) {
	ts := time.Date(2024, 3, 7, 15, 4, 5, 0, time.Local).Unix()
	if got := MonthKey(ts); got != "2024-03" {
		t.Errorf("MonthKey = %q, want 2024-03", got)
	}
}

func TestEffectiveDate(t *testing.T) {
	want := time.Date(2024, 3, 7, 15, 4, 5, 0, time.Local)
	tx := Transaction{Date: want.Unix()}
	if got := tx.EffectiveDate(); !got.Equal(want) {
		t.Errorf("EffectiveDate = %v, want %v", got, want)
	}
}
