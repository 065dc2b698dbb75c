// Package repository owns the canonical transaction set. It is the single
// source of truth: every mutation re-persists the full snapshot through the
// storage port, and every read hands out independent copies.
package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"ledger/internal/core"
	"ledger/internal/storage"
)

// StorageKey is the blob key the full transaction snapshot lives under.
const StorageKey = "transactions"

type Repository struct {
	store storage.Store

	mu           sync.Mutex
	transactions []core.Transaction // includes soft-deleted records
}

// New loads the working set from the store. An empty or missing blob means
// an empty starting set; a blob that fails to decode is a construction error.
func New(ctx context.Context, store storage.Store) (*Repository, error) {
	data, err := store.Load(ctx, StorageKey)
	if err != nil {
		return nil, fmt.Errorf("load transactions: %w", err)
	}

	transactions, err := decodeSnapshot(data)
	if err != nil {
		return nil, fmt.Errorf("decode transactions: %w", err)
	}

	return &Repository{
		store:        store,
		transactions: transactions,
	}, nil
}

func generateID() string {
	return "tx_" + uuid.NewString()
}

// persist writes the entire working set, deleted records included. Callers
// hold the mutex and roll back their in-memory change when it fails.
func (r *Repository) persist(ctx context.Context) error {
	data, err := encodeSnapshot(r.transactions)
	if err != nil {
		return fmt.Errorf("encode transactions: %w", err)
	}
	if err := r.store.Save(ctx, StorageKey, data); err != nil {
		return fmt.Errorf("persist transactions: %w", err)
	}
	return nil
}

// Add stores a new transaction. An empty id gets a generated one; the
// repository owns both bookkeeping timestamps. On persistence failure the
// record is not kept.
func (r *Repository) Add(ctx context.Context, candidate core.Transaction) (core.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx := candidate
	if tx.ID == "" {
		tx.ID = generateID()
	}
	now := time.Now().Unix()
	tx.CreatedAt = now
	tx.UpdatedAt = now
	tx.IsDeleted = false

	r.transactions = append(r.transactions, tx)
	if err := r.persist(ctx); err != nil {
		r.transactions = r.transactions[:len(r.transactions)-1]
		return core.Transaction{}, err
	}
	return tx, nil
}

// Update replaces every caller-settable field of the record with the
// candidate's. Only non-deleted records can be updated: a removed record
// stays removed and reports ErrNotFound rather than being resurrected.
func (r *Repository) Update(ctx context.Context, candidate core.Transaction) (core.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.transactions {
		if r.transactions[i].ID != candidate.ID || r.transactions[i].IsDeleted {
			continue
		}

		prev := r.transactions[i]
		next := candidate
		next.CreatedAt = prev.CreatedAt
		next.UpdatedAt = time.Now().Unix()
		next.IsDeleted = false

		r.transactions[i] = next
		if err := r.persist(ctx); err != nil {
			r.transactions[i] = prev
			return core.Transaction{}, err
		}
		return next, nil
	}

	return core.Transaction{}, fmt.Errorf("update %s: %w", candidate.ID, core.ErrNotFound)
}

// Remove soft-deletes by id. Removing an unknown or already-deleted id is a
// no-op: removal is idempotent.
func (r *Repository) Remove(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.transactions {
		if r.transactions[i].ID != id || r.transactions[i].IsDeleted {
			continue
		}

		prev := r.transactions[i]
		r.transactions[i].IsDeleted = true
		r.transactions[i].UpdatedAt = time.Now().Unix()
		if err := r.persist(ctx); err != nil {
			r.transactions[i] = prev
			return err
		}
		return nil
	}

	return nil
}

// Find returns the non-deleted records matching every filter predicate, in
// insertion order.
func (r *Repository) Find(filter core.Filter) []core.Transaction {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []core.Transaction
	for _, tx := range r.transactions {
		if tx.IsDeleted {
			continue
		}
		if filter.Matches(tx) {
			result = append(result, tx)
		}
	}
	return result
}

// GetByID returns the non-deleted record with that id.
func (r *Repository) GetByID(id string) (core.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, tx := range r.transactions {
		if tx.ID == id && !tx.IsDeleted {
			return tx, nil
		}
	}
	return core.Transaction{}, fmt.Errorf("get %s: %w", id, core.ErrNotFound)
}

// All returns every non-deleted record in insertion order.
func (r *Repository) All() []core.Transaction {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := make([]core.Transaction, 0, len(r.transactions))
	for _, tx := range r.transactions {
		if !tx.IsDeleted {
			result = append(result, tx)
		}
	}
	return result
}

// Backup asks the store for a point-in-time copy and returns its location.
// The mutex is held so the snapshot cannot change mid-copy.
func (r *Repository) Backup(ctx context.Context) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.store.Backup(ctx)
}
