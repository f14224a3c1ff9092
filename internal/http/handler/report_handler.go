package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/woodfy/workshop-api/internal/service"
)

// ReportHandler serves the dashboard and the read-only financial reports
type ReportHandler struct {
	reportService *service.ReportService
	logger        *zap.Logger
}

func NewReportHandler(reportService *service.ReportService, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{reportService: reportService, logger: logger}
}

// Dashboard godoc
// @Summary Dashboard figures
// @Tags Reports
// @Produce json
// @Success 200 {object} finance.DashboardStats
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /reports/dashboard [get]
func (h *ReportHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.reportService.Dashboard(r.Context()))
}

// RevenueVsCost godoc
// @Summary Monthly inflow against outflow
// @Tags Reports
// @Produce json
// @Param months query int false "Number of months ending with the current one" default(6)
// @Success 200 {object} domain.ListResponse{data=[]finance.MonthFlow}
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /reports/revenue-vs-cost [get]
func (h *ReportHandler) RevenueVsCost(w http.ResponseWriter, r *http.Request) {
	months, err := queryInt(r, "months")
	if err != nil || months < 0 {
		respondWithError(w, http.StatusBadRequest, "months must be a positive integer")
		return
	}
	respondList(w, h.reportService.RevenueVsCost(r.Context(), months))
}

// ProjectMargins godoc
// @Summary Projects ranked by profit
// @Tags Reports
// @Produce json
// @Param limit query int false "Maximum number of projects" default(8)
// @Success 200 {object} domain.ListResponse{data=[]finance.ProjectMargin}
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /reports/project-margins [get]
func (h *ReportHandler) ProjectMargins(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil || limit < 0 {
		respondWithError(w, http.StatusBadRequest, "limit must be a positive integer")
		return
	}
	respondList(w, h.reportService.ProjectMargins(r.Context(), limit))
}

// ExpenseBreakdown godoc
// @Summary Outflow of a month by category
// @Tags Reports
// @Produce json
// @Param month query string false "Month (YYYY-MM), defaults to the current month"
// @Success 200 {object} domain.ListResponse{data=[]finance.Share}
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /reports/expense-breakdown [get]
func (h *ReportHandler) ExpenseBreakdown(w http.ResponseWriter, r *http.Request) {
	month := r.URL.Query().Get("month")
	if !validMonth(month) {
		respondWithError(w, http.StatusBadRequest, "month must be formatted as YYYY-MM")
		return
	}
	respondList(w, h.reportService.ExpenseBreakdown(r.Context(), month))
}

// AnnualProfit godoc
// @Summary Profit of a year
// @Tags Reports
// @Produce json
// @Param year query int false "Year, defaults to the current year"
// @Success 200 {object} finance.AnnualProfit
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /reports/annual-profit [get]
func (h *ReportHandler) AnnualProfit(w http.ResponseWriter, r *http.Request) {
	year, err := queryInt(r, "year")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, h.reportService.AnnualProfit(r.Context(), year))
}

// RevenueByCustomer godoc
// @Summary Sold value by customer
// @Tags Reports
// @Produce json
// @Success 200 {object} domain.ListResponse{data=[]finance.Share}
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /reports/revenue-by-customer [get]
func (h *ReportHandler) RevenueByCustomer(w http.ResponseWriter, r *http.Request) {
	respondList(w, h.reportService.RevenueByCustomer(r.Context()))
}

// PaymentMethods godoc
// @Summary Received value by payment method
// @Tags Reports
// @Produce json
// @Success 200 {object} domain.ListResponse{data=[]finance.Share}
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /reports/payment-methods [get]
func (h *ReportHandler) PaymentMethods(w http.ResponseWriter, r *http.Request) {
	respondList(w, h.reportService.PaymentMethods(r.Context()))
}

// UpcomingDeliveries godoc
// @Summary Projects due for delivery soon
// @Tags Reports
// @Produce json
// @Success 200 {object} domain.ListResponse{data=[]finance.UpcomingDelivery}
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /reports/upcoming-deliveries [get]
func (h *ReportHandler) UpcomingDeliveries(w http.ResponseWriter, r *http.Request) {
	respondList(w, h.reportService.UpcomingDeliveries(r.Context()))
}
