package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"kasa/internal/core"
	"kasa/internal/ledger"
	"kasa/internal/metrics"
)

func idParam(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}

func (s *Server) record(op string, err error) {
	metrics.Operations.WithLabelValues(op).Inc()
	if err != nil {
		metrics.OperationErrors.WithLabelValues(op).Inc()
	}
}

// invalidateSummaries drops all cached months. Any mutation can move
// money between months, so per-key invalidation is not worth the risk.
func (s *Server) invalidateSummaries() {
	s.summaryCache.Purge()
}

// --- Notes ---

type noteRequest struct {
	Title      string     `json:"title"`
	Content    string     `json:"content"`
	Importance int        `json:"importance"`
	AlarmTime  *time.Time `json:"alarm_time"`
}

func (s *Server) handleListNotes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.engine.Notes())
}

func (s *Server) handleCreateNote(w http.ResponseWriter, r *http.Request) {
	var req noteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	note, err := s.engine.AddNote(core.Note{
		Title:      req.Title,
		Content:    req.Content,
		Importance: req.Importance,
		AlarmTime:  req.AlarmTime,
	})
	s.record("note_create", err)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, note)
}

func (s *Server) handleUpdateNote(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	var req noteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	note, err := s.engine.UpdateNote(core.Note{
		ID:         id,
		Title:      req.Title,
		Content:    req.Content,
		Importance: req.Importance,
		AlarmTime:  req.AlarmTime,
	})
	s.record("note_update", err)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

func (s *Server) handleDeleteNote(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	err = s.engine.DeleteNote(id)
	s.record("note_delete", err)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"id": id})
}

type alarmRequest struct {
	AlarmTime time.Time `json:"alarm_time"`
}

func (s *Server) handleSetAlarm(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	var req alarmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if req.AlarmTime.IsZero() {
		writeBadRequest(w, "alarm_time is required")
		return
	}

	err = s.engine.SetAlarm(id, req.AlarmTime)
	s.record("alarm_set", err)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": id, "alarm_time": req.AlarmTime})
}

func (s *Server) handleClearAlarm(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	err = s.engine.ClearAlarm(id)
	s.record("alarm_clear", err)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"id": id})
}

// --- Transactions ---

type transactionRequest struct {
	Kind        core.Kind `json:"type"`
	Amount      float64   `json:"amount"`
	CategoryID  int64     `json:"category_id"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.engine.Transactions())
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	tx, err := s.engine.AddTransaction(core.Transaction{
		Kind:        req.Kind,
		Amount:      req.Amount,
		CategoryID:  req.CategoryID,
		Description: req.Description,
		Date:        req.Date,
	})
	s.record("transaction_create", err)
	if err != nil {
		writeError(w, err)
		return
	}
	s.invalidateSummaries()
	writeJSON(w, http.StatusCreated, tx)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	err = s.engine.DeleteTransaction(id)
	s.record("transaction_delete", err)
	if err != nil {
		writeError(w, err)
		return
	}
	s.invalidateSummaries()
	writeJSON(w, http.StatusOK, map[string]int64{"id": id})
}

// --- Categories ---

type categoryRequest struct {
	Name  string    `json:"name"`
	Kind  core.Kind `json:"type"`
	Color string    `json:"color"`
	Icon  string    `json:"icon"`
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.engine.Categories())
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	cat, err := s.engine.AddCategory(core.Category{
		Name:  req.Name,
		Kind:  req.Kind,
		Color: req.Color,
		Icon:  req.Icon,
	})
	s.record("category_create", err)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, cat)
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	err = s.engine.DeleteCategory(id)
	s.record("category_delete", err)
	if err != nil {
		writeError(w, err)
		return
	}
	s.invalidateSummaries()
	writeJSON(w, http.StatusOK, map[string]int64{"id": id})
}

// --- Installments ---

type installmentRequest struct {
	Title            string    `json:"title"`
	TotalAmount      float64   `json:"total_amount"`
	InstallmentCount int       `json:"installment_count"`
	CategoryID       int64     `json:"category_id"`
	Description      string    `json:"description"`
	StartDate        time.Time `json:"start_date"`
}

func (s *Server) handleListInstallments(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.engine.Installments())
}

func (s *Server) handleCreateInstallment(w http.ResponseWriter, r *http.Request) {
	var req installmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	inst, err := s.engine.AddInstallment(core.Installment{
		Title:            req.Title,
		TotalAmount:      req.TotalAmount,
		InstallmentCount: req.InstallmentCount,
		CategoryID:       req.CategoryID,
		Description:      req.Description,
		StartDate:        req.StartDate,
	})
	s.record("installment_create", err)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, inst)
}

type resizeRequest struct {
	Title            string  `json:"title"`
	TotalAmount      float64 `json:"total_amount"`
	InstallmentCount int     `json:"installment_count"`
	CategoryID       int64   `json:"category_id"`
	Description      string  `json:"description"`
}

func (s *Server) handleResizeInstallment(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	var req resizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	inst, err := s.engine.ResizeInstallment(ledger.ResizeParams{
		ID:          id,
		Title:       req.Title,
		TotalAmount: req.TotalAmount,
		NewCount:    req.InstallmentCount,
		CategoryID:  req.CategoryID,
		Description: req.Description,
	})
	s.record("installment_resize", err)
	if err != nil {
		writeError(w, err)
		return
	}
	s.invalidateSummaries()
	writeJSON(w, http.StatusOK, inst)
}

func (s *Server) handleDeleteInstallment(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	err = s.engine.DeleteInstallment(id)
	s.record("installment_delete", err)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"id": id})
}

func (s *Server) handlePayInstallment(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	result, err := s.engine.PayInstallment(id)
	s.record("installment_pay", err)
	if err != nil {
		writeError(w, err)
		return
	}
	s.invalidateSummaries()
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleToggleInstallment(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	monthIndex, err := strconv.Atoi(chi.URLParam(r, "month"))
	if err != nil {
		writeBadRequest(w, "invalid month index")
		return
	}

	result, err := s.engine.ToggleInstallmentMonth(id, monthIndex)
	s.record("installment_toggle", err)
	if err != nil {
		writeError(w, err)
		return
	}
	s.invalidateSummaries()
	writeJSON(w, http.StatusOK, result)
}

// --- Summary ---

func (s *Server) handleMonthlySummary(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil || year < 1 {
		writeBadRequest(w, "invalid year")
		return
	}
	month, err := strconv.Atoi(chi.URLParam(r, "month"))
	if err != nil || month < 1 || month > 12 {
		writeBadRequest(w, "invalid month: must be 1-12")
		return
	}

	key := fmt.Sprintf("%04d-%02d", year, month)
	if summary, ok := s.summaryCache.Get(key); ok {
		writeJSON(w, http.StatusOK, summary)
		return
	}

	summary := s.engine.MonthlySummary(year, time.Month(month))
	s.summaryCache.Set(key, summary)
	s.record("summary", nil)
	writeJSON(w, http.StatusOK, summary)
}

// --- Balance ---

type balanceRequest struct {
	Amount float64 `json:"amount"`
}

func (s *Server) handleGetBalance(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]float64{"balance": s.engine.Balance()})
}

func (s *Server) handleSetBalance(w http.ResponseWriter, r *http.Request) {
	var req balanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	err := s.engine.SetBalance(req.Amount)
	s.record("balance_set", err)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]float64{"balance": s.engine.Balance()})
}
