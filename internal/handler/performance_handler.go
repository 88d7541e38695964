package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/locvowork/employee_training_dashboard/internal/form"
	"github.com/locvowork/employee_training_dashboard/internal/service"
)

// PerformanceHandler serves the daily performance observation record.
type PerformanceHandler struct {
	search      *service.SearchService
	performance *service.PerformanceService
}

func NewPerformanceHandler(search *service.SearchService, performance *service.PerformanceService) *PerformanceHandler {
	return &PerformanceHandler{search: search, performance: performance}
}

func (h *PerformanceHandler) GridHandler(c echo.Context) error {
	grid, err := h.performance.Grid(c.Request().Context(), c.Param("emp_no"))
	if err != nil {
		return ResponseServiceError(c, "Failed to find employee", err)
	}
	return ResponseSuccess(c, http.StatusOK, "Performance record retrieved successfully", grid)
}

func (h *PerformanceHandler) RecordHandler(c echo.Context) error {
	day, err := strconv.Atoi(c.Param("day"))
	if err != nil {
		return ResponseError(c, http.StatusBadRequest, "Invalid day", err)
	}
	var entry form.PerformanceEntry
	if err := c.Bind(&entry); err != nil {
		return ResponseError(c, http.StatusBadRequest, "Invalid request", err)
	}
	entry.Day = day

	ctx := c.Request().Context()
	agg, err := h.search.Lookup(ctx, c.Param("emp_no"))
	if err != nil {
		return ResponseServiceError(c, "Failed to find employee", err)
	}
	agg, err = h.performance.Record(ctx, agg, entry)
	if err != nil {
		return ResponseServiceError(c, "Failed to save performance record", err)
	}
	return ResponseSuccess(c, http.StatusOK, "Performance record saved successfully", agg)
}

func (h *PerformanceHandler) SignOffHandler(c echo.Context) error {
	day, err := strconv.Atoi(c.Param("day"))
	if err != nil {
		return ResponseError(c, http.StatusBadRequest, "Invalid day", err)
	}

	ctx := c.Request().Context()
	agg, err := h.search.Lookup(ctx, c.Param("emp_no"))
	if err != nil {
		return ResponseServiceError(c, "Failed to find employee", err)
	}
	agg, err = h.performance.SignOff(ctx, agg, day, service.SignOff(c.Param("action")))
	if err != nil {
		return ResponseServiceError(c, "Failed to sign off performance record", err)
	}
	return ResponseSuccess(c, http.StatusOK, "Performance record signed off successfully", agg)
}

func (h *PerformanceHandler) DeleteHandler(c echo.Context) error {
	day, err := strconv.Atoi(c.Param("day"))
	if err != nil {
		return ResponseError(c, http.StatusBadRequest, "Invalid day", err)
	}

	ctx := c.Request().Context()
	agg, err := h.search.Lookup(ctx, c.Param("emp_no"))
	if err != nil {
		return ResponseServiceError(c, "Failed to find employee", err)
	}
	agg, err = h.performance.Delete(ctx, agg, day)
	if err != nil {
		return ResponseServiceError(c, "Failed to delete performance record", err)
	}
	return ResponseSuccess(c, http.StatusOK, "Performance record deleted successfully", agg)
}
