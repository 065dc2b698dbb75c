package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"ledger/internal/core"
)

// transactionRequest is the mutation payload. The bookkeeping fields are
// never caller-settable over the API.
type transactionRequest struct {
	Amount     float64              `json:"amount"`
	Type       core.TransactionType `json:"type"`
	Date       int64                `json:"date"`
	CategoryID string               `json:"categoryId"`
	Note       string               `json:"note"`
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	transactions := s.ledger.Search(filter)
	if transactions == nil {
		transactions = []core.Transaction{}
	}
	writeJSON(w, http.StatusOK, transactions)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tx, err := s.ledger.Create(r.Context(), core.Transaction{
		Amount:     req.Amount,
		Type:       req.Type,
		Date:       req.Date,
		CategoryID: req.CategoryID,
		Note:       req.Note,
	})
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, tx)
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	tx, err := s.ledger.Get(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, tx)
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tx, err := s.ledger.Edit(r.Context(), core.Transaction{
		ID:         r.PathValue("id"),
		Amount:     req.Amount,
		Type:       req.Type,
		Date:       req.Date,
		CategoryID: req.CategoryID,
		Note:       req.Note,
	})
	if err != nil {
		switch {
		case errors.Is(err, core.ErrNotFound):
			writeError(w, http.StatusNotFound, err.Error())
		default:
			writeError(w, http.StatusUnprocessableEntity, err.Error())
		}
		return
	}
	writeJSON(w, http.StatusOK, tx)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if err := s.ledger.Remove(r.Context(), r.PathValue("id")); err != nil {
		slog.ErrorContext(r.Context(), "Delete failed", "error", err)
		writeError(w, http.StatusInternalServerError, "delete failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleStatsSummary(w http.ResponseWriter, r *http.Request) {
	rng, err := parseDateRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	income := s.ledger.TotalIncome(rng)
	expense := s.ledger.TotalExpense(rng)
	writeJSON(w, http.StatusOK, map[string]float64{
		"income":  income,
		"expense": expense,
		"net":     income - expense,
	})
}

func (s *Server) handleStatsMonthly(w http.ResponseWriter, r *http.Request) {
	rng, err := parseDateRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.ledger.MonthlyTotals(rng))
}

func (s *Server) handleStatsCategories(w http.ResponseWriter, r *http.Request) {
	rng, err := parseDateRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.ledger.CategoryBreakdown(rng))
}

func (s *Server) handleStatsTrend(w http.ResponseWriter, r *http.Request) {
	rng, err := parseDateRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.ledger.AssetTrend(rng))
}

func (s *Server) handleTrendChart(w http.ResponseWriter, r *http.Request) {
	rng, err := parseDateRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	png, err := s.charts.AssetTrend(s.ledger.AssetTrend(rng))
	if err != nil {
		slog.ErrorContext(r.Context(), "Trend chart render failed", "error", err)
		writeError(w, http.StatusInternalServerError, "chart render failed")
		return
	}
	if png == nil {
		writeError(w, http.StatusNotFound, "no data in range")
		return
	}
	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(png)
}

func (s *Server) handleCategoriesChart(w http.ResponseWriter, r *http.Request) {
	rng, err := parseDateRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	png, err := s.charts.CategoryBreakdown(s.ledger.CategoryBreakdown(rng))
	if err != nil {
		slog.ErrorContext(r.Context(), "Category chart render failed", "error", err)
		writeError(w, http.StatusInternalServerError, "chart render failed")
		return
	}
	if png == nil {
		writeError(w, http.StatusNotFound, "no data in range")
		return
	}
	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(png)
}

func (s *Server) handleMonthlyChart(w http.ResponseWriter, r *http.Request) {
	rng, err := parseDateRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	png, err := s.charts.MonthlyTotals(s.ledger.MonthlyTotals(rng))
	if err != nil {
		slog.ErrorContext(r.Context(), "Monthly chart render failed", "error", err)
		writeError(w, http.StatusInternalServerError, "chart render failed")
		return
	}
	if png == nil {
		writeError(w, http.StatusNotFound, "no data in range")
		return
	}
	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(png)
}

func (s *Server) handleExportJSON(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="transactions.json"`)
	if err := s.ledger.ExportJSON(w); err != nil {
		slog.ErrorContext(r.Context(), "JSON export failed", "error", err)
	}
}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="transactions.csv"`)
	if err := s.ledger.ExportCSV(w); err != nil {
		slog.ErrorContext(r.Context(), "CSV export failed", "error", err)
	}
}

func (s *Server) handleImportJSON(w http.ResponseWriter, r *http.Request) {
	result, err := s.ledger.ImportJSON(r.Context(), r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleImportCSV(w http.ResponseWriter, r *http.Request) {
	result, err := s.ledger.ImportCSV(r.Context(), r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	notifications := s.ledger.Notifications()
	if notifications == nil {
		notifications = []core.Notification{}
	}
	writeJSON(w, http.StatusOK, notifications)
}

func (s *Server) handleMarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	s.ledger.MarkNotificationRead(r.PathValue("id"))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleBackup(w http.ResponseWriter, r *http.Request) {
	location, err := s.ledger.Backup(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Backup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "backup failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"location": location})
}
