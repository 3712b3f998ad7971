package http

import (
	"net/http"

	"github.com/parlour-hq/parlour-backend-go/internal/domain/analytics"
	"github.com/parlour-hq/parlour-backend-go/internal/handler/http/response"
)

type AnalyticsHandler interface {
	RevenueTrends(w http.ResponseWriter, r *http.Request)
	SalaryDistribution(w http.ResponseWriter, r *http.Request)
	TaskAnalytics(w http.ResponseWriter, r *http.Request)
	EmployeePerformance(w http.ResponseWriter, r *http.Request)
	Dashboard(w http.ResponseWriter, r *http.Request)
}

type analyticsHandlerImpl struct {
	analyticsService analytics.AnalyticsService
}

func NewAnalyticsHandler(analyticsService analytics.AnalyticsService) AnalyticsHandler {
	return &analyticsHandlerImpl{analyticsService: analyticsService}
}

func (h *analyticsHandlerImpl) RevenueTrends(w http.ResponseWriter, r *http.Request) {
	period := analytics.Period(r.URL.Query().Get("period"))

	result, err := h.analyticsService.GetRevenueTrends(r.Context(), period)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

func (h *analyticsHandlerImpl) SalaryDistribution(w http.ResponseWriter, r *http.Request) {
	result, err := h.analyticsService.GetSalaryDistribution(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

func (h *analyticsHandlerImpl) TaskAnalytics(w http.ResponseWriter, r *http.Request) {
	result, err := h.analyticsService.GetTaskAnalytics(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

func (h *analyticsHandlerImpl) EmployeePerformance(w http.ResponseWriter, r *http.Request) {
	result, err := h.analyticsService.GetEmployeePerformance(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

func (h *analyticsHandlerImpl) Dashboard(w http.ResponseWriter, r *http.Request) {
	result, err := h.analyticsService.GetDashboard(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}
