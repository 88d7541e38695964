package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/locvowork/employee_training_dashboard/internal/domain"
	"github.com/locvowork/employee_training_dashboard/internal/form"
	"github.com/locvowork/employee_training_dashboard/internal/logger"
)

// Save steps, as reported in StepFailure.
const (
	StepEmployee  = "employee"
	StepDexterity = "dexterity"
	StepOJT       = "ojt"
	StepTraining  = "training"
	StepRefresh   = "refresh"
)

// StepFailure is one failed call of a save. Row is the grid row, -1 when the
// step is not per row.
type StepFailure struct {
	Step string `json:"step"`
	Row  int    `json:"row"`
	Err  error  `json:"-"`
}

func (f StepFailure) String() string {
	if f.Row >= 0 {
		return fmt.Sprintf("%s row %d: %v", f.Step, f.Row+1, f.Err)
	}
	return fmt.Sprintf("%s: %v", f.Step, f.Err)
}

// SaveResult summarises a save. Failures lists the steps that did not go
// through; the others were still attempted.
type SaveResult struct {
	Created    bool                      `json:"created"`
	EmployeeID int                       `json:"employee_id"`
	EmpNo      string                    `json:"emp_no"`
	Failures   []StepFailure             `json:"-"`
	Message    string                    `json:"message"`
	Employee   *domain.EmployeeAggregate `json:"employee,omitempty"`
}

// Errors returns the failure messages for display.
func (r *SaveResult) Errors() []string {
	out := make([]string, 0, len(r.Failures))
	for _, f := range r.Failures {
		out = append(out, f.String())
	}
	return out
}

// SaveService persists one edit session across the employee and its records.
type SaveService struct {
	employees domain.EmployeeRepository
	trainings domain.TrainingRecordRepository
	ojts      domain.OJTRecordRepository
	dexterity domain.DexterityAssessmentRepository
	search    *SearchService
}

// NewSaveService creates a new SaveService instance
func NewSaveService(
	employees domain.EmployeeRepository,
	trainings domain.TrainingRecordRepository,
	ojts domain.OJTRecordRepository,
	dexterity domain.DexterityAssessmentRepository,
	search *SearchService,
) *SaveService {
	return &SaveService{
		employees: employees,
		trainings: trainings,
		ojts:      ojts,
		dexterity: dexterity,
		search:    search,
	}
}

// Save persists st and shows the re-read employee with the save summary as
// the dashboard view.
func (s *SaveService) Save(ctx context.Context, st *form.State) (*SaveResult, error) {
	res, err := s.Persist(ctx, st)
	if err != nil {
		return res, err
	}
	if res.Employee != nil {
		s.search.Show(res.Employee)
	}
	s.search.SetBanner(res.Message)
	return res, nil
}

// Persist writes st to the backend and re-reads the employee without
// touching the dashboard view.
//
// Validation errors and a failed employee create abort before anything else
// is sent. After that every step is attempted in order and failures are
// collected in the result. A create runs the same upsert steps as an edit,
// so each row goes out once. Cancelling ctx stops before the next step.
func (s *SaveService) Persist(ctx context.Context, st *form.State) (*SaveResult, error) {
	if err := st.Validate(); err != nil {
		return nil, err
	}
	payload, err := st.EmployeePayload()
	if err != nil {
		return nil, err
	}

	ctx = logger.WithLogger(ctx, map[string]interface{}{"mode": st.Mode().String()})
	res := &SaveResult{EmployeeID: st.EmployeeID(), EmpNo: st.LoadedEmpNo()}
	fail := func(step string, row int, err error) {
		logger.ErrorLog(ctx, err, "save step %s failed", step)
		res.Failures = append(res.Failures, StepFailure{Step: step, Row: row, Err: err})
	}

	dexterityID := st.DexterityID()
	if st.Mode() == form.ModeCreate {
		emp, err := s.employees.Create(ctx, payload, st.Photo())
		if err != nil {
			logger.ErrorLog(ctx, err, "failed to create employee")
			return nil, err
		}
		res.Created = true
		res.EmployeeID, res.EmpNo = emp.ID, emp.EmpNo
		dexterityID = 0
		logger.InfoLog(ctx, "created employee %s (id %d)", emp.EmpNo, emp.ID)
	} else {
		emp, err := s.employees.Update(ctx, st.EmployeeID(), payload, st.Photo())
		if err != nil {
			fail(StepEmployee, -1, err)
		} else if emp.EmpNo != "" {
			res.EmpNo = emp.EmpNo
		}
	}
	employeeID := res.EmployeeID

	if err := ctx.Err(); err != nil {
		return res, err
	}
	assessment := st.Dexterity().Assessment(employeeID, dexterityID)
	if dexterityID > 0 {
		_, err = s.dexterity.Update(ctx, dexterityID, assessment)
	} else {
		_, err = s.dexterity.Create(ctx, assessment)
	}
	if err != nil {
		fail(StepDexterity, -1, err)
	}

	for i, row := range st.OJTRows() {
		if !row.Filled() {
			continue
		}
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if row.ID > 0 {
			_, err = s.ojts.Update(ctx, row.ID, row.Record(employeeID))
		} else {
			_, err = s.ojts.Create(ctx, row.Record(employeeID))
		}
		if err != nil {
			fail(StepOJT, i, err)
		}
	}

	for i, row := range st.TrainingRows() {
		if !row.Complete() {
			continue
		}
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if row.ID > 0 {
			_, err = s.trainings.Update(ctx, row.ID, row.Record(employeeID))
		} else {
			_, err = s.trainings.Create(ctx, row.Record(employeeID))
		}
		if err != nil {
			fail(StepTraining, i, err)
		}
	}

	st.ClearPhoto()

	if err := ctx.Err(); err != nil {
		return res, err
	}
	agg, err := s.employees.FindByEmpNo(ctx, strings.TrimSpace(res.EmpNo))
	if err != nil {
		fail(StepRefresh, -1, errors.Wrapf(err, "refresh %s", res.EmpNo))
	} else {
		res.Employee = agg
	}

	res.Message = saveMessage(res)
	logger.InfoLog(ctx, "save of %s finished with %d failure(s)", res.EmpNo, len(res.Failures))
	return res, nil
}

func saveMessage(res *SaveResult) string {
	verb := "updated"
	if res.Created {
		verb = "created"
	}
	if len(res.Failures) == 0 {
		return fmt.Sprintf("Employee %s %s successfully", res.EmpNo, verb)
	}
	return fmt.Sprintf("Employee %s %s with %d error(s): %s",
		res.EmpNo, verb, len(res.Failures), strings.Join(res.Errors(), "; "))
}
