// Package exchange moves transactions in and out of the ledger as JSON and
// CSV. It sits on top of the repository and owns both wire formats.
package exchange

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"ledger/internal/core"
)

// Repository is the narrow repository surface the service depends on.
type Repository interface {
	All() []core.Transaction
	Add(ctx context.Context, candidate core.Transaction) (core.Transaction, error)
}

// ImportResult reports how an import went; Errors holds one message per
// rejected record.
type ImportResult struct {
	Imported int      `json:"imported"`
	Errors   []string `json:"errors,omitempty"`
}

type Service struct {
	repo Repository
}

func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// record is the JSON exchange shape: the caller-settable fields only,
// bookkeeping stays out of the JSON format.
type record struct {
	ID         string               `json:"id"`
	Amount     float64              `json:"amount"`
	Type       core.TransactionType `json:"type"`
	Date       int64                `json:"date"`
	CategoryID string               `json:"categoryId"`
	Note       string               `json:"note"`
}

// ExportJSON writes the visible transaction set as a JSON array.
func (s *Service) ExportJSON(w io.Writer) error {
	transactions := s.repo.All()
	records := make([]record, len(transactions))
	for i, tx := range transactions {
		records[i] = record{
			ID:         tx.ID,
			Amount:     tx.Amount,
			Type:       tx.Type,
			Date:       tx.Date,
			CategoryID: tx.CategoryID,
			Note:       tx.Note,
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("encode transactions: %w", err)
	}
	return nil
}

// ImportJSON reads a JSON array of transaction records and adds each through
// the repository. Invalid records are skipped and reported; a storage
// failure aborts the whole import.
func (s *Service) ImportJSON(ctx context.Context, r io.Reader) (ImportResult, error) {
	var records []record
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return ImportResult{}, fmt.Errorf("parse import: %w", err)
	}

	var result ImportResult
	for i, rec := range records {
		tx := core.Transaction{
			ID:         rec.ID,
			Amount:     rec.Amount,
			Type:       rec.Type,
			Date:       rec.Date,
			CategoryID: rec.CategoryID,
			Note:       rec.Note,
		}
		if err := tx.Validate(); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("record %d: %v", i, err))
			continue
		}
		if _, err := s.repo.Add(ctx, tx); err != nil {
			return result, fmt.Errorf("import record %d: %w", i, err)
		}
		result.Imported++
	}
	return result, nil
}

var csvHeader = []string{"ID", "Amount", "Type", "Date", "CategoryId", "Note", "CreatedAt", "UpdatedAt", "IsDeleted"}

// ExportCSV writes the visible transaction set with the full bookkeeping
// columns.
func (s *Service) ExportCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, tx := range s.repo.All() {
		row := []string{
			tx.ID,
			strconv.FormatFloat(tx.Amount, 'f', -1, 64),
			string(tx.Type),
			strconv.FormatInt(tx.Date, 10),
			tx.CategoryID,
			tx.Note,
			strconv.FormatInt(tx.CreatedAt, 10),
			strconv.FormatInt(tx.UpdatedAt, 10),
			strconv.FormatBool(tx.IsDeleted),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// ImportCSV reads rows in the export format (header included) and adds each
// through the repository. Bookkeeping columns are ignored on the way in;
// the repository reassigns them.
func (s *Service) ImportCSV(ctx context.Context, r io.Reader) (ImportResult, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(csvHeader)

	if _, err := cr.Read(); err != nil {
		if err == io.EOF {
			return ImportResult{}, nil
		}
		return ImportResult{}, fmt.Errorf("read csv header: %w", err)
	}

	var result ImportResult
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("line %d: %v", line, err))
			continue
		}

		tx, err := rowToTransaction(row)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("line %d: %v", line, err))
			continue
		}
		if err := tx.Validate(); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("line %d: %v", line, err))
			continue
		}
		if _, err := s.repo.Add(ctx, tx); err != nil {
			return result, fmt.Errorf("import line %d: %w", line, err)
		}
		result.Imported++
	}
	return result, nil
}

func rowToTransaction(row []string) (core.Transaction, error) {
	amount, err := strconv.ParseFloat(row[1], 64)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("bad amount %q", row[1])
	}
	date, err := strconv.ParseInt(row[3], 10, 64)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("bad date %q", row[3])
	}

	return core.Transaction{
		ID:         row[0],
		Amount:     amount,
		Type:       core.TransactionType(row[2]),
		Date:       date,
		CategoryID: row[4],
		Note:       row[5],
	}, nil
}
