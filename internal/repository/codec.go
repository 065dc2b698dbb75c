package repository

import (
	"encoding/json"
	"strings"

	"ledger/internal/core"
)

// The snapshot format is a JSON array of transaction objects, soft-deleted
// records included. The storage port sees it as an opaque string.

func encodeSnapshot(transactions []core.Transaction) (string, error) {
	data, err := json.Marshal(transactions)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func decodeSnapshot(data string) ([]core.Transaction, error) {
	if strings.TrimSpace(data) == "" {
		return nil, nil
	}
	var transactions []core.Transaction
	if err := json.Unmarshal([]byte(data), &transactions); err != nil {
		return nil, err
	}
	return transactions, nil
}
