package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/locvowork/employee_training_dashboard/internal/domain"
	"github.com/locvowork/employee_training_dashboard/internal/form"
	"github.com/locvowork/employee_training_dashboard/internal/logger"
	"github.com/locvowork/employee_training_dashboard/pkg/dataflow"
)

// ImportFailure is a CSV line that did not produce an employee.
type ImportFailure struct {
	Line  int    `json:"line"`
	EmpNo string `json:"emp_no"`
	Err   error  `json:"-"`
}

func (f ImportFailure) Error() string {
	return fmt.Sprintf("line %d (%s): %v", f.Line, f.EmpNo, f.Err)
}

// ImportReport lists the outcome of an import.
type ImportReport struct {
	Created  []string        `json:"created"`
	Updated  []string        `json:"updated"`
	Warnings []string        `json:"warnings,omitempty"`
	Failures []ImportFailure `json:"-"`
}

// Summary is the one-line outcome shown on the dashboard.
func (r *ImportReport) Summary() string {
	msg := fmt.Sprintf("Import finished: %d created, %d updated, %d failed",
		len(r.Created), len(r.Updated), len(r.Failures))
	if len(r.Warnings) > 0 {
		msg += fmt.Sprintf(", %d warning(s)", len(r.Warnings))
	}
	return msg
}

// ImportService creates or updates employees in bulk from CSV. Each line goes
// through the same save as the dashboard form, but only the import summary
// reaches the dashboard view.
type ImportService struct {
	employees domain.EmployeeRepository
	save      *SaveService
	search    *SearchService
	clock     form.Clock
	workers   int
}

// NewImportService creates a new ImportService instance
func NewImportService(
	employees domain.EmployeeRepository,
	save *SaveService,
	search *SearchService,
	clock form.Clock,
	workers int,
) *ImportService {
	if workers < 1 {
		workers = 1
	}
	return &ImportService{employees: employees, save: save, search: search, clock: clock, workers: workers}
}

type importLine struct {
	line   int
	empNo  string
	values map[string]string
}

// ImportCSV reads a header row of employee field names followed by one
// employee per line. A line whose emp_no exists updates that employee with
// its non-empty cells; otherwise it creates one. Bad lines are reported and
// skipped.
func (s *ImportService) ImportCSV(ctx context.Context, r io.Reader) (*ImportReport, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	header, err := reader.Read()
	if err == io.EOF {
		return nil, domain.NewValidationError("csv", "missing header row")
	}
	if err != nil {
		return nil, errors.Wrap(err, "read csv header")
	}
	hasEmpNo := false
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if !form.IsEmployeeField(name) {
			return nil, domain.NewValidationError(name, "unknown column")
		}
		hasEmpNo = hasEmpNo || name == "emp_no"
		header[i] = name
	}
	if !hasEmpNo {
		return nil, domain.NewValidationError("emp_no", "column is required")
	}

	var records []importLine
	for n := 2; ; n++ {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "read csv line %d", n)
		}
		records = append(records, importLine{line: n, values: zipRecord(header, rec)})
	}

	var mu sync.Mutex
	report := &ImportReport{}
	record := func(err error) bool {
		var f ImportFailure
		if !errors.As(err, &f) {
			return false
		}
		mu.Lock()
		report.Failures = append(report.Failures, f)
		mu.Unlock()
		logger.WarnLog(ctx, "import skipped %s", f.Error())
		return true
	}

	lines := dataflow.Map(ctx, dataflow.From(ctx, records...), func(l importLine) (importLine, error) {
		l.empNo = l.values["emp_no"]
		if l.empNo == "" {
			return l, ImportFailure{Line: l.line, Err: domain.NewValidationError("emp_no", "is required")}
		}
		return l, nil
	}, dataflow.WithErrorHandler(record))

	err = dataflow.ForEach(ctx, lines, func(l importLine) error {
		res, err := s.importLine(ctx, l)
		if err != nil {
			return ImportFailure{Line: l.line, EmpNo: l.empNo, Err: err}
		}
		mu.Lock()
		defer mu.Unlock()
		if res.Created {
			report.Created = append(report.Created, res.EmpNo)
		} else {
			report.Updated = append(report.Updated, res.EmpNo)
		}
		for _, msg := range res.Errors() {
			report.Warnings = append(report.Warnings, fmt.Sprintf("line %d (%s): %s", l.line, res.EmpNo, msg))
		}
		return nil
	}, dataflow.WithWorkers(s.workers), dataflow.WithErrorHandler(record))
	if err != nil {
		return report, err
	}

	sort.Strings(report.Created)
	sort.Strings(report.Updated)
	sort.Strings(report.Warnings)
	sort.Slice(report.Failures, func(i, j int) bool { return report.Failures[i].Line < report.Failures[j].Line })
	logger.InfoLog(ctx, "import finished: %d created, %d updated, %d failed",
		len(report.Created), len(report.Updated), len(report.Failures))
	if s.search != nil {
		s.search.SetBanner(report.Summary())
	}
	return report, nil
}

func (s *ImportService) importLine(ctx context.Context, l importLine) (*SaveResult, error) {
	var st *form.State
	values := l.values
	agg, err := s.employees.FindByEmpNo(ctx, l.empNo)
	switch {
	case err == nil:
		st = form.NewEdit(agg, s.clock)
		values = make(map[string]string, len(l.values))
		for name, v := range l.values {
			if v != "" {
				values[name] = v
			}
		}
	case domain.IsNotFound(err):
		st = form.NewCreate(s.clock)
	default:
		return nil, err
	}

	for _, ev := range form.EmployeeEvents(values) {
		if err := st.Dispatch(ev); err != nil {
			return nil, err
		}
	}
	return s.save.Persist(ctx, st)
}

func zipRecord(header, rec []string) map[string]string {
	values := make(map[string]string, len(header))
	for i, name := range header {
		if i < len(rec) {
			values[name] = strings.TrimSpace(rec[i])
		}
	}
	return values
}
