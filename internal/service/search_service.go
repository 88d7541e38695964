package service

import (
	"context"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/locvowork/employee_training_dashboard/internal/domain"
	"github.com/locvowork/employee_training_dashboard/internal/logger"
)

// View is what the dashboard currently shows.
type View struct {
	Employee *domain.EmployeeAggregate `json:"employee"`
	Banner   string                    `json:"banner,omitempty"`
}

// SearchService looks employees up by emp_no and owns the current view. The
// view is replaced only by a successful read.
type SearchService struct {
	employees domain.EmployeeRepository

	mu      sync.RWMutex
	current *domain.EmployeeAggregate
	banner  string
}

// NewSearchService creates a new SearchService instance
func NewSearchService(employees domain.EmployeeRepository) *SearchService {
	return &SearchService{employees: employees}
}

// Lookup loads the full aggregate for empNo and shows it. On failure the
// previous view is kept.
func (s *SearchService) Lookup(ctx context.Context, empNo string) (*domain.EmployeeAggregate, error) {
	empNo = strings.TrimSpace(empNo)
	agg, err := s.employees.FindByEmpNo(ctx, empNo)
	if err != nil {
		if domain.IsNotFound(err) {
			logger.InfoLog(ctx, "no employee with emp_no %q", empNo)
			return nil, err
		}
		logger.ErrorLog(ctx, err, "failed to look up employee %s", empNo)
		return nil, errors.Wrapf(err, "lookup %s", empNo)
	}

	s.mu.Lock()
	s.current = agg
	s.banner = ""
	s.mu.Unlock()
	return agg, nil
}

// Refresh re-reads empNo after a write. The banner is left in place so a save
// summary stays visible with the fresh data.
func (s *SearchService) Refresh(ctx context.Context, empNo string) (*domain.EmployeeAggregate, error) {
	agg, err := s.employees.FindByEmpNo(ctx, strings.TrimSpace(empNo))
	if err != nil {
		logger.ErrorLog(ctx, err, "failed to refresh employee %s", empNo)
		return nil, errors.Wrapf(err, "refresh %s", empNo)
	}
	s.Show(agg)
	return agg, nil
}

// Show replaces the shown aggregate, keeping the banner.
func (s *SearchService) Show(agg *domain.EmployeeAggregate) {
	s.mu.Lock()
	s.current = agg
	s.mu.Unlock()
}

// Current returns the shown aggregate, nil if none.
func (s *SearchService) Current() *domain.EmployeeAggregate {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// View returns a snapshot of the current view.
func (s *SearchService) View() View {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return View{Employee: s.current, Banner: s.banner}
}

// SetBanner shows msg above the view until the next lookup.
func (s *SearchService) SetBanner(msg string) {
	s.mu.Lock()
	s.banner = msg
	s.mu.Unlock()
}
