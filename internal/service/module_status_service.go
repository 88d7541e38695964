package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/locvowork/employee_training_dashboard/internal/domain"
	"github.com/locvowork/employee_training_dashboard/internal/logger"
)

// ModuleStatusService accepts or denies catalog modules for an employee.
type ModuleStatusService struct {
	employees domain.EmployeeRepository
	rows      domain.EmployeeTrainingModuleRepository
	search    *SearchService
	now       func() time.Time
}

// NewModuleStatusService creates a new ModuleStatusService instance. A nil
// now uses time.Now.
func NewModuleStatusService(
	employees domain.EmployeeRepository,
	rows domain.EmployeeTrainingModuleRepository,
	search *SearchService,
	now func() time.Time,
) *ModuleStatusService {
	if now == nil {
		now = time.Now
	}
	return &ModuleStatusService{employees: employees, rows: rows, search: search, now: now}
}

// ModuleRowUpdate is a direct edit of one module status row.
type ModuleRowUpdate struct {
	Status        domain.ModuleStatus `json:"status"`
	CompletedDate *string             `json:"completed_date"`
}

// UpdateStatus sets one module to accepted or denied and refreshes empNo.
// Accepting stamps today's date; denying clears it.
func (s *ModuleStatusService) UpdateStatus(ctx context.Context, empNo string, employeeID, moduleID int, status domain.ModuleStatus) (*domain.EmployeeAggregate, error) {
	var completed *string
	switch status {
	case domain.ModuleStatusAccepted:
		today := s.now().Format(domain.DateLayout)
		completed = &today
	case domain.ModuleStatusDenied:
	default:
		return nil, domain.NewValidationError("status", fmt.Sprintf("must be %q or %q", domain.ModuleStatusAccepted, domain.ModuleStatusDenied))
	}

	update := domain.ModuleStatusUpdate{ModuleID: moduleID, Status: status, CompletedDate: completed}
	if err := s.employees.UpdateTrainingModules(ctx, employeeID, []domain.ModuleStatusUpdate{update}); err != nil {
		logger.ErrorLog(ctx, err, "failed to set module %d to %s", moduleID, status)
		return nil, err
	}
	logger.InfoLog(ctx, "module %d of employee %d set to %s", moduleID, employeeID, status)
	return s.search.Refresh(ctx, empNo)
}

// SetRow writes the status row of moduleID for agg, updating the stored row or
// creating it when the module is still an implicit pending one, and refreshes
// the view. Accepted without a date stamps today.
func (s *ModuleStatusService) SetRow(ctx context.Context, agg *domain.EmployeeAggregate, moduleID int, upd ModuleRowUpdate) (*domain.EmployeeAggregate, error) {
	if !upd.Status.Valid() {
		return nil, domain.NewValidationError("status", fmt.Sprintf("must be %q, %q or %q",
			domain.ModuleStatusPending, domain.ModuleStatusAccepted, domain.ModuleStatusDenied))
	}
	completed := upd.CompletedDate
	if completed != nil {
		date := strings.TrimSpace(*completed)
		completed = nil
		if date != "" {
			if _, err := time.Parse(domain.DateLayout, date); err != nil {
				return nil, domain.NewValidationError("completed_date", "must be a date (YYYY-MM-DD)")
			}
			completed = &date
		}
	}
	if upd.Status == domain.ModuleStatusAccepted && completed == nil {
		today := s.now().Format(domain.DateLayout)
		completed = &today
	}

	row, ok := agg.ModuleByID(moduleID)
	if !ok {
		return nil, domain.NewValidationError("module_id", fmt.Sprintf("unknown module %d", moduleID))
	}
	in := domain.EmployeeTrainingModuleInput{
		Employee:      agg.ID,
		ModuleID:      strconv.Itoa(moduleID),
		Status:        upd.Status,
		CompletedDate: completed,
	}
	var err error
	if row.ID != nil {
		_, err = s.rows.Update(ctx, *row.ID, in)
	} else {
		_, err = s.rows.Create(ctx, in)
	}
	if err != nil {
		logger.ErrorLog(ctx, err, "failed to write module %d row of %s", moduleID, agg.EmpNo)
		return nil, err
	}
	logger.InfoLog(ctx, "module %d row of %s set to %s", moduleID, agg.EmpNo, upd.Status)
	return s.search.Refresh(ctx, agg.EmpNo)
}

// ResetRow deletes the stored row of moduleID so it reads as pending again.
// A module without a stored row is left alone.
func (s *ModuleStatusService) ResetRow(ctx context.Context, agg *domain.EmployeeAggregate, moduleID int) (*domain.EmployeeAggregate, error) {
	row, ok := agg.ModuleByID(moduleID)
	if !ok {
		return nil, domain.NewValidationError("module_id", fmt.Sprintf("unknown module %d", moduleID))
	}
	if row.ID != nil {
		if err := s.rows.Delete(ctx, *row.ID); err != nil {
			logger.ErrorLog(ctx, err, "failed to reset module %d row of %s", moduleID, agg.EmpNo)
			return nil, err
		}
	}
	return s.search.Refresh(ctx, agg.EmpNo)
}
