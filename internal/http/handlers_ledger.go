package http

import (
	"net/http"
	"strconv"

	"budgetbook/internal/core"
)

type ledgerResponse struct {
	Month  core.Month        `json:"month"`
	Ledger *core.MonthLedger `json:"ledger"`
}

type amountRequest struct {
	Amount string `json:"amount"`
}

type categoryRequest struct {
	Name  string `json:"name"`
	Limit string `json:"limit"`
}

type transactionRequest struct {
	Amount   string `json:"amount"`
	Note     string `json:"note"`
	Category string `json:"category"`
}

type transactionsResponse struct {
	Transactions []core.Transaction `json:"transactions"`
}

type warningsResponse struct {
	Warnings []core.Warning `json:"warnings"`
}

type summaryResponse struct {
	Months []core.MonthSummary `json:"months"`
}

func month(r *http.Request) core.Month {
	return core.Month(r.PathValue("month"))
}

// parseAmount converts the user-entered decimal string to cents.
func parseAmount(s string) (core.Money, error) {
	cents, err := core.ParseDecimalToCents(s)
	if err != nil {
		return core.Money{}, err
	}
	return core.Money{Cents: cents}, nil
}

func (s *Server) handleEnsureMonth(w http.ResponseWriter, r *http.Request, user string) {
	l, err := s.engine.EnsureMonth(r.Context(), user, month(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.invalidateSummary(r.Context(), user)
	writeJSON(w, http.StatusOK, ledgerResponse{Month: month(r), Ledger: l})
}

func (s *Server) handleSetBudget(w http.ResponseWriter, r *http.Request, user string) {
	var req amountRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		writeError(w, r, err)
		return
	}

	l, err := s.engine.SetBudget(r.Context(), user, month(r), amount)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.invalidateSummary(r.Context(), user)
	writeJSON(w, http.StatusOK, ledgerResponse{Month: month(r), Ledger: l})
}

func (s *Server) handleAddCategory(w http.ResponseWriter, r *http.Request, user string) {
	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	limit, err := parseAmount(req.Limit)
	if err != nil {
		writeError(w, r, err)
		return
	}

	l, err := s.engine.AddCategory(r.Context(), user, month(r), req.Name, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.invalidateSummary(r.Context(), user)
	writeJSON(w, http.StatusCreated, ledgerResponse{Month: month(r), Ledger: l})
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request, user string) {
	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	limit, err := parseAmount(req.Limit)
	if err != nil {
		writeError(w, r, err)
		return
	}

	oldName := r.PathValue("name")
	newName := req.Name
	if newName == "" {
		newName = oldName
	}

	l, err := s.engine.UpdateCategory(r.Context(), user, month(r), oldName, newName, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.invalidateSummary(r.Context(), user)
	writeJSON(w, http.StatusOK, ledgerResponse{Month: month(r), Ledger: l})
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request, user string) {
	l, err := s.engine.DeleteCategory(r.Context(), user, month(r), r.PathValue("name"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.invalidateSummary(r.Context(), user)
	writeJSON(w, http.StatusOK, ledgerResponse{Month: month(r), Ledger: l})
}

func (s *Server) handleAddTransaction(w http.ResponseWriter, r *http.Request, user string) {
	var req transactionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		writeError(w, r, err)
		return
	}

	l, err := s.engine.AddTransaction(r.Context(), user, month(r), amount, req.Note, req.Category)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.invalidateSummary(r.Context(), user)
	writeJSON(w, http.StatusCreated, ledgerResponse{Month: month(r), Ledger: l})
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request, user string) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeErrorStatus(w, http.StatusUnprocessableEntity, "transaction id must be an integer")
		return
	}

	l, err := s.engine.DeleteTransaction(r.Context(), user, month(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.invalidateSummary(r.Context(), user)
	writeJSON(w, http.StatusOK, ledgerResponse{Month: month(r), Ledger: l})
}

func (s *Server) handleSearchTransactions(w http.ResponseWriter, r *http.Request, user string) {
	txns, err := s.engine.Search(r.Context(), user, month(r), r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, transactionsResponse{Transactions: txns})
}

func (s *Server) handleWarnings(w http.ResponseWriter, r *http.Request, user string) {
	warnings, err := s.engine.Warnings(r.Context(), user, month(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, warningsResponse{Warnings: warnings})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request, user string) {
	if rows, ok := s.summaryCache.Get(user); ok {
		writeJSON(w, http.StatusOK, summaryResponse{Months: rows})
		return
	}

	rows, err := s.engine.MonthlySummary(r.Context(), user)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.summaryCache.Set(user, rows)
	writeJSON(w, http.StatusOK, summaryResponse{Months: rows})
}
