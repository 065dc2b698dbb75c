// Package stats derives aggregates from the repository's visible set. Every
// operation is a total function over the current snapshot: empty input means
// zero or empty results, never an error.
package stats

import "ledger/internal/core"

// TransactionSource is the read-only repository view the engine consumes.
type TransactionSource interface {
	All() []core.Transaction
}

type Service struct {
	source TransactionSource
}

func New(source TransactionSource) *Service {
	return &Service{source: source}
}

// TotalIncome sums income amounts whose date falls inside the range.
func (s *Service) TotalIncome(r core.DateRange) float64 {
	return s.totalByType(r, core.Income)
}

// TotalExpense sums expense amounts whose date falls inside the range.
func (s *Service) TotalExpense(r core.DateRange) float64 {
	return s.totalByType(r, core.Expense)
}

func (s *Service) totalByType(r core.DateRange, t core.TransactionType) float64 {
	total := 0.0
	for _, tx := range s.source.All() {
		if tx.Type == t && r.Contains(tx.Date) {
			total += tx.Amount
		}
	}
	return total
}

// CategoryBreakdown maps category id to its summed expense amount within the
// range. Income never contributes, and a category without matching expenses
// is absent from the result.
func (s *Service) CategoryBreakdown(r core.DateRange) map[string]float64 {
	result := make(map[string]float64)
	for _, tx := range s.source.All() {
		if tx.Type != core.Expense || !r.Contains(tx.Date) {
			continue
		}
		result[tx.CategoryID] += tx.Amount
	}
	return result
}

// MonthlyTotals maps each local "YYYY-MM" bucket to its net amount
// (income minus expense). Months without transactions are absent.
func (s *Service) MonthlyTotals(r core.DateRange) map[string]float64 {
	result := make(map[string]float64)
	for _, tx := range s.source.All() {
		if !r.Contains(tx.Date) {
			continue
		}
		month := core.MonthKey(tx.Date)
		if tx.Type == core.Income {
			result[month] += tx.Amount
		} else {
			result[month] -= tx.Amount
		}
	}
	return result
}

// AssetTrend replays the in-range transactions in repository insertion order,
// mapping each transaction's date to the running balance after applying it.
// When several transactions share an exact timestamp, the last one replayed
// wins that key.
func (s *Service) AssetTrend(r core.DateRange) map[int64]float64 {
	result := make(map[int64]float64)
	balance := 0.0
	for _, tx := range s.source.All() {
		if !r.Contains(tx.Date) {
			continue
		}
		if tx.Type == core.Income {
			balance += tx.Amount
		} else {
			balance -= tx.Amount
		}
		result[tx.Date] = balance
	}
	return result
}
