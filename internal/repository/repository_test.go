package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"ledger/internal/core"
	"ledger/internal/storage"
)

func newTestRepo(t *testing.T) (*Repository, *storage.MemoryStore) {
	t.Helper()
	store := storage.NewMemoryStore()
	repo, err := New(context.Background(), store)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return repo, store
}

func expense(amount float64, category string, date int64) core.Transaction {
	return core.Transaction{Amount: amount, Type: core.Expense, CategoryID: category, Date: date}
}

func TestAddAssignsIDAndTimestamps(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	before := time.Now().Unix()
	tx, err := repo.Add(ctx, expense(12.5, "food", before))
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	if tx.ID == "" {
		t.Error("Add did not assign an id")
	}
	if tx.CreatedAt < before || tx.UpdatedAt != tx.CreatedAt {
		t.Errorf("timestamps not set: createdAt=%d updatedAt=%d", tx.CreatedAt, tx.UpdatedAt)
	}
	if tx.IsDeleted {
		t.Error("new transaction marked deleted")
	}
}

func TestAddKeepsProvidedID(t *testing.T) {
	repo, _ := newTestRepo(t)

	tx, err := repo.Add(context.Background(), core.Transaction{
		ID: "tx_import_1", Amount: 5, Type: core.Income, Date: 100,
	})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if tx.ID != "tx_import_1" {
		t.Errorf("id = %q, want tx_import_1", tx.ID)
	}
}

func TestAddGeneratesDistinctIDsUnderRapidCalls(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		tx, err := repo.Add(ctx, expense(1, "c", 100))
		if err != nil {
			t.Fatalf("Add #%d: %v", i, err)
		}
		if seen[tx.ID] {
			t.Fatalf("duplicate id %q at call %d", tx.ID, i)
		}
		seen[tx.ID] = true
	}
}

func TestRoundTripPreservesInsertionOrder(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	var ids []string
	for i := 0; i < 5; i++ {
		tx, err := repo.Add(ctx, expense(float64(i), "c", int64(100+i)))
		if err != nil {
			t.Fatalf("Add: %v", err)
		}
		ids = append(ids, tx.ID)
	}

	all := repo.All()
	if len(all) != 5 {
		t.Fatalf("All returned %d records, want 5", len(all))
	}
	for i, tx := range all {
		if tx.ID != ids[i] {
			t.Errorf("position %d: id %q, want %q", i, tx.ID, ids[i])
		}
	}
}

func TestSnapshotSurvivesReload(t *testing.T) {
	store := storage.NewMemoryStore()
	ctx := context.Background()

	repo, err := New(ctx, store)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	added, err := repo.Add(ctx, expense(42, "rent", 1000))
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := repo.Remove(ctx, added.ID); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	kept, err := repo.Add(ctx, expense(7, "food", 2000))
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	// A fresh repository over the same store must see the same visible set,
	// and the deleted record must stay deleted.
	reloaded, err := New(ctx, store)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	all := reloaded.All()
	if len(all) != 1 || all[0].ID != kept.ID {
		t.Fatalf("reloaded set = %+v, want only %s", all, kept.ID)
	}
	if _, err := reloaded.GetByID(added.ID); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("deleted record visible after reload: %v", err)
	}
}

func TestUpdateReplacesFieldsAndKeepsCreatedAt(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	orig, err := repo.Add(ctx, expense(10, "food", 500))
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	updated, err := repo.Update(ctx, core.Transaction{
		ID:         orig.ID,
		Amount:     99,
		Type:       core.Income,
		Date:       600,
		CategoryID: "salary",
		Note:       "edited",
		CreatedAt:  12345, // must be ignored
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	if updated.Amount != 99 || updated.Type != core.Income || updated.CategoryID != "salary" || updated.Note != "edited" {
		t.Errorf("fields not replaced: %+v", updated)
	}
	if updated.CreatedAt != orig.CreatedAt {
		t.Errorf("createdAt changed: %d -> %d", orig.CreatedAt, updated.CreatedAt)
	}
	if updated.UpdatedAt < orig.UpdatedAt {
		t.Errorf("updatedAt not refreshed: %d < %d", updated.UpdatedAt, orig.UpdatedAt)
	}
}

func TestUpdateUnknownIDLeavesStateUnchanged(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	if _, err := repo.Add(ctx, expense(10, "food", 500)); err != nil {
		t.Fatalf("Add: %v", err)
	}
	before := repo.All()

	_, err := repo.Update(ctx, core.Transaction{ID: "tx_missing", Amount: 1, Type: core.Expense})
	if !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("Update unknown id: err = %v, want ErrNotFound", err)
	}

	after := repo.All()
	if len(after) != len(before) || after[0] != before[0] {
		t.Errorf("stored set changed on failed update: %+v vs %+v", before, after)
	}
}

func TestUpdateCannotResurrectDeleted(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	tx, err := repo.Add(ctx, expense(10, "food", 500))
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := repo.Remove(ctx, tx.ID); err != nil {
		t.Fatalf("Remove: %v", err)
	}

	_, err = repo.Update(ctx, core.Transaction{ID: tx.ID, Amount: 1, Type: core.Expense})
	if !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("Update on deleted id: err = %v, want ErrNotFound", err)
	}
	if len(repo.All()) != 0 {
		t.Error("deleted record resurfaced")
	}
}

func TestRemoveIsIdempotent(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	tx, err := repo.Add(ctx, expense(10, "food", 500))
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	if err := repo.Remove(ctx, tx.ID); err != nil {
		t.Fatalf("first Remove: %v", err)
	}
	firstState := repo.All()

	if err := repo.Remove(ctx, tx.ID); err != nil {
		t.Fatalf("second Remove: %v", err)
	}
	if err := repo.Remove(ctx, "tx_never_existed"); err != nil {
		t.Fatalf("Remove unknown id: %v", err)
	}

	if len(repo.All()) != len(firstState) {
		t.Error("repeated Remove changed visible state")
	}
}

func TestDeletedExcludedFromEveryReadPath(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	tx, err := repo.Add(ctx, expense(10, "food", 500))
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := repo.Remove(ctx, tx.ID); err != nil {
		t.Fatalf("Remove: %v", err)
	}

	if got := repo.All(); len(got) != 0 {
		t.Errorf("All sees deleted record: %+v", got)
	}
	if got := repo.Find(core.Filter{CategoryID: "food"}); len(got) != 0 {
		t.Errorf("Find sees deleted record: %+v", got)
	}
	if _, err := repo.GetByID(tx.ID); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("GetByID sees deleted record: %v", err)
	}
}

func TestFindAppliesConjunctiveFilter(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	jan := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC).Unix()
	feb := time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC).Unix()

	txs := []core.Transaction{
		{Amount: 100, Type: core.Expense, CategoryID: "food", Date: jan, Note: "lunch downtown"},
		{Amount: 200, Type: core.Expense, CategoryID: "food", Date: feb, Note: "groceries"},
		{Amount: 300, Type: core.Income, CategoryID: "salary", Date: jan, Note: "january pay"},
	}
	for _, tx := range txs {
		if _, err := repo.Add(ctx, tx); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}

	janOnly := repo.Find(core.Filter{
		DateFrom: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Unix(),
		DateTo:   time.Date(2024, 1, 31, 23, 59, 59, 0, time.UTC).Unix(),
	})
	if len(janOnly) != 2 {
		t.Errorf("january filter returned %d records, want 2", len(janOnly))
	}

	foodJan := repo.Find(core.Filter{CategoryID: "food", Type: core.Expense, DateTo: feb - 1})
	if len(foodJan) != 1 || foodJan[0].Note != "lunch downtown" {
		t.Errorf("conjunctive filter = %+v", foodJan)
	}

	keyword := repo.Find(core.Filter{Keyword: "pay"})
	if len(keyword) != 1 || keyword[0].CategoryID != "salary" {
		t.Errorf("keyword filter = %+v", keyword)
	}
}

func TestPersistenceFailureLeavesNoPartialState(t *testing.T) {
	repo, store := newTestRepo(t)
	ctx := context.Background()

	tx, err := repo.Add(ctx, expense(10, "food", 500))
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	store.FailSaves = true

	if _, err := repo.Add(ctx, expense(20, "rent", 600)); err == nil {
		t.Fatal("Add succeeded despite storage failure")
	}
	if _, err := repo.Update(ctx, core.Transaction{ID: tx.ID, Amount: 999, Type: core.Expense, CategoryID: "food", Date: 500}); err == nil {
		t.Fatal("Update succeeded despite storage failure")
	}
	if err := repo.Remove(ctx, tx.ID); err == nil {
		t.Fatal("Remove succeeded despite storage failure")
	}

	all := repo.All()
	if len(all) != 1 {
		t.Fatalf("visible set has %d records after failed mutations, want 1", len(all))
	}
	if all[0].Amount != 10 {
		t.Errorf("record mutated despite failed persist: %+v", all[0])
	}
}

func TestReadsReturnIndependentCopies(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	tx, err := repo.Add(ctx, expense(10, "food", 500))
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	got := repo.All()
	got[0].Amount = 9999
	got[0].Note = "tampered"

	fresh, err := repo.GetByID(tx.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if fresh.Amount != 10 || fresh.Note != "" {
		t.Errorf("external mutation corrupted repository state: %+v", fresh)
	}
}

func TestCorruptSnapshotFailsConstruction(t *testing.T) {
	store := storage.NewMemoryStore()
	ctx := context.Background()
	if err := store.Save(ctx, StorageKey, "{not json"); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if _, err := New(ctx, store); err == nil {
		t.Fatal("New accepted a corrupt snapshot")
	}
}
