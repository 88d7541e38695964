package service

import (
	"context"
	"fmt"

	"github.com/locvowork/employee_training_dashboard/internal/domain"
	"github.com/locvowork/employee_training_dashboard/internal/form"
	"github.com/locvowork/employee_training_dashboard/internal/logger"
)

// SignOff is an approval step of a performance record.
type SignOff string

const (
	SignOffSupervisor SignOff = "approve"
	SignOffPersonnel  SignOff = "certify"
)

// PerformanceDay is one row of the observation grid. Record is nil for a day
// with nothing stored.
type PerformanceDay struct {
	Day    int                       `json:"day"`
	Record *domain.PerformanceRecord `json:"record"`
}

// PerformanceGrid lays agg's performance records out over the fixed days.
func PerformanceGrid(agg *domain.EmployeeAggregate) []PerformanceDay {
	grid := make([]PerformanceDay, domain.PerformanceDays)
	for i := range grid {
		grid[i].Day = i + 1
		if rec, ok := agg.PerformanceByDay(i + 1); ok {
			grid[i].Record = rec
		}
	}
	return grid
}

// PerformanceService keeps the daily performance observation record.
type PerformanceService struct {
	employees domain.EmployeeRepository
	records   domain.PerformanceRecordRepository
	search    *SearchService
}

// NewPerformanceService creates a new PerformanceService instance
func NewPerformanceService(employees domain.EmployeeRepository, records domain.PerformanceRecordRepository, search *SearchService) *PerformanceService {
	return &PerformanceService{employees: employees, records: records, search: search}
}

// Grid reads empNo and returns its observation grid without touching the view.
func (s *PerformanceService) Grid(ctx context.Context, empNo string) ([]PerformanceDay, error) {
	agg, err := s.employees.FindByEmpNo(ctx, empNo)
	if err != nil {
		return nil, err
	}
	return PerformanceGrid(agg), nil
}

// Record writes one day for agg. A stored day is replaced, a new one created.
func (s *PerformanceService) Record(ctx context.Context, agg *domain.EmployeeAggregate, entry form.PerformanceEntry) (*domain.EmployeeAggregate, error) {
	prev, _ := agg.PerformanceByDay(entry.Day)
	rec, err := entry.Record(agg.ID, prev)
	if err != nil {
		return nil, err
	}
	if prev != nil {
		_, err = s.records.Update(ctx, prev.ID, rec)
	} else {
		_, err = s.records.Create(ctx, rec)
	}
	if err != nil {
		logger.ErrorLog(ctx, err, "failed to write day %d of %s", entry.Day, agg.EmpNo)
		return nil, err
	}
	logger.InfoLog(ctx, "performance day %d of %s saved", entry.Day, agg.EmpNo)
	return s.search.Refresh(ctx, agg.EmpNo)
}

// SignOff approves or certifies the record of day.
func (s *PerformanceService) SignOff(ctx context.Context, agg *domain.EmployeeAggregate, day int, step SignOff) (*domain.EmployeeAggregate, error) {
	rec, err := storedDay(agg, day)
	if err != nil {
		return nil, err
	}
	switch step {
	case SignOffSupervisor:
		err = s.records.ApproveSupervisor(ctx, rec.ID)
	case SignOffPersonnel:
		err = s.records.CertifyPersonnel(ctx, rec.ID)
	default:
		return nil, domain.NewValidationError("action", fmt.Sprintf("must be %q or %q", SignOffSupervisor, SignOffPersonnel))
	}
	if err != nil {
		logger.ErrorLog(ctx, err, "failed to %s day %d of %s", step, day, agg.EmpNo)
		return nil, err
	}
	return s.search.Refresh(ctx, agg.EmpNo)
}

// Delete removes the record of day.
func (s *PerformanceService) Delete(ctx context.Context, agg *domain.EmployeeAggregate, day int) (*domain.EmployeeAggregate, error) {
	rec, err := storedDay(agg, day)
	if err != nil {
		return nil, err
	}
	if err := s.records.Delete(ctx, rec.ID); err != nil {
		logger.ErrorLog(ctx, err, "failed to delete day %d of %s", day, agg.EmpNo)
		return nil, err
	}
	return s.search.Refresh(ctx, agg.EmpNo)
}

func storedDay(agg *domain.EmployeeAggregate, day int) (*domain.PerformanceRecord, error) {
	rec, ok := agg.PerformanceByDay(day)
	if !ok {
		return nil, domain.NewValidationError("day", fmt.Sprintf("no performance record for day %d", day))
	}
	return rec, nil
}
