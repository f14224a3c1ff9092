package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/woodfy/workshop-api/internal/domain"
	"github.com/woodfy/workshop-api/internal/finance"
	"github.com/woodfy/workshop-api/internal/service"
)

const monthLayout = "2006-01"

type LedgerHandler struct {
	ledgerService *service.LedgerService
	logger        *zap.Logger
}

func NewLedgerHandler(ledgerService *service.LedgerService, logger *zap.Logger) *LedgerHandler {
	return &LedgerHandler{ledgerService: ledgerService, logger: logger}
}

// validMonth accepts an empty value or a YYYY-MM month
func validMonth(month string) bool {
	if month == "" {
		return true
	}
	_, err := time.Parse(monthLayout, month)
	return err == nil
}

// List godoc
// @Summary List ledger transactions
// @Description Paid revenues, all costs and paid expenses as signed cash movements, newest first
// @Tags Ledger
// @Produce json
// @Param month query string false "Filter by month (YYYY-MM)"
// @Param kind query string false "Filter by origin" Enums(revenue, cost, expense)
// @Success 200 {object} domain.ListResponse{data=[]finance.Transaction}
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /ledger [get]
func (h *LedgerHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	month := q.Get("month")
	if !validMonth(month) {
		respondWithError(w, http.StatusBadRequest, "month must be formatted as YYYY-MM")
		return
	}
	kind := finance.OriginKind(q.Get("kind"))
	if kind != "" && !kind.Valid() {
		respondWithError(w, http.StatusBadRequest, "kind must be one of: revenue cost expense")
		return
	}
	respondList(w, h.ledgerService.Ledger(r.Context(), service.LedgerFilters{Month: month, Kind: kind}))
}

// Months godoc
// @Summary Monthly ledger summaries
// @Description One summary per month with transactions, newest first
// @Tags Ledger
// @Produce json
// @Success 200 {object} domain.ListResponse{data=[]finance.MonthSummary}
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /ledger/months [get]
func (h *LedgerHandler) Months(w http.ResponseWriter, r *http.Request) {
	respondList(w, h.ledgerService.Months(r.Context()))
}

// Month godoc
// @Summary Ledger summary of one month
// @Tags Ledger
// @Produce json
// @Param month path string true "Month (YYYY-MM)"
// @Success 200 {object} finance.MonthSummary
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /ledger/months/{month} [get]
func (h *LedgerHandler) Month(w http.ResponseWriter, r *http.Request) {
	month := chi.URLParam(r, "month")
	if month == "" || !validMonth(month) {
		respondWithError(w, http.StatusBadRequest, "month must be formatted as YYYY-MM")
		return
	}
	respondJSON(w, http.StatusOK, h.ledgerService.Month(r.Context(), month))
}

// Pending godoc
// @Summary Pending receivables and payables
// @Description Open entries with the monthly projection of a year
// @Tags Ledger
// @Produce json
// @Param year query int false "Projection year, defaults to the current year"
// @Success 200 {object} finance.PendingProjection
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /ledger/pending [get]
func (h *LedgerHandler) Pending(w http.ResponseWriter, r *http.Request) {
	year, err := queryInt(r, "year")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, h.ledgerService.Pending(r.Context(), year))
}

// MarkPaid godoc
// @Summary Mark a ledger entry as paid
// @Description Settles the revenue or expense behind the entry. Costs cannot be marked.
// @Tags Ledger
// @Param kind path string true "Origin" Enums(revenue, expense)
// @Param id path string true "Record ID"
// @Success 204
// @Failure 404 {object} domain.APIError
// @Failure 422 {object} domain.APIError "Costs are always realized"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /ledger/{kind}/{id}/paid [post]
func (h *LedgerHandler) MarkPaid(w http.ResponseWriter, r *http.Request) {
	kind := finance.OriginKind(chi.URLParam(r, "kind"))
	if err := h.ledgerService.MarkPaid(r.Context(), kind, chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, h.logger, err, "mark ledger entry paid")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Delete godoc
// @Summary Delete a ledger entry
// @Description Removes the revenue, cost or expense the entry was built from
// @Tags Ledger
// @Param kind path string true "Origin" Enums(revenue, cost, expense)
// @Param id path string true "Record ID"
// @Success 204
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /ledger/{kind}/{id} [delete]
func (h *LedgerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	kind := finance.OriginKind(chi.URLParam(r, "kind"))
	if err := h.ledgerService.DeleteTransaction(r.Context(), kind, chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, h.logger, err, "delete ledger entry")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CreateEntry godoc
// @Summary Create a receivable or payable
// @Description Body is tagged by kind: "receivable" creates a revenue, "payable" a general expense
// @Tags Ledger
// @Accept json
// @Produce json
// @Param request body domain.PayableInput true "Entry data with kind"
// @Success 201 {object} service.LedgerEntry
// @Failure 400 {object} domain.APIError
// @Failure 422 {object} domain.APIError "Unknown project or supplier"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /ledger/entries [post]
func (h *LedgerHandler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	raw, ok := readBody(w, r)
	if !ok {
		return
	}
	in, err := domain.DecodeLedgerEntryInput(raw)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "kind must be \"receivable\" or \"payable\"")
		return
	}
	if !validateRequest(w, in) {
		return
	}

	entry, err := h.ledgerService.CreateEntry(r.Context(), in)
	if err != nil {
		handleServiceError(w, h.logger, err, "create ledger entry")
		return
	}
	respondJSON(w, http.StatusCreated, entry)
}

// ExportWorkbook godoc
// @Summary Export the ledger as a spreadsheet
// @Description One sheet with the monthly summaries, one with the transactions and one with the pending projection of a year
// @Tags Ledger
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param year query int false "Projection year, defaults to the current year"
// @Success 200 {file} binary
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /ledger/export.xlsx [get]
func (h *LedgerHandler) ExportWorkbook(w http.ResponseWriter, r *http.Request) {
	year, err := queryInt(r, "year")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	data, err := h.ledgerService.ExportWorkbook(r.Context(), year)
	if err != nil {
		handleServiceError(w, h.logger, err, "export ledger")
		return
	}
	filename := "ledger.xlsx"
	if year != 0 {
		filename = fmt.Sprintf("ledger-%d.xlsx", year)
	}
	respondFile(w, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", filename, data)
}
