// Package form holds the editable snapshot of one employee aggregate and the
// events that change it.
package form

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"github.com/locvowork/employee_training_dashboard/internal/domain"
)

// Mode tells the save workflow whether the employee already exists.
type Mode int

const (
	ModeCreate Mode = iota
	ModeEdit
)

func (m Mode) String() string {
	if m == ModeEdit {
		return "edit"
	}
	return "create"
}

// Clock returns the current time. Age and completion dates are derived from it.
type Clock func() time.Time

// State is the editable form. Change it only through Dispatch.
type State struct {
	mode        Mode
	employeeID  int
	loadedEmpNo string
	employee    EmployeeFields
	photoURL    string
	photo       *domain.Photo

	training    []TrainingRecordRow
	ojt         []OJTRow
	dexterity   DexterityForm
	dexterityID int

	clock Clock
}

// NewCreate returns a blank form for a new employee.
func NewCreate(clock Clock) *State {
	return &State{
		mode:     ModeCreate,
		employee: defaultEmployeeFields(),
		clock:    orNow(clock),
	}
}

// NewEdit seeds a form from a fetched aggregate. The dexterity scores come
// from the latest assessment.
func NewEdit(agg *domain.EmployeeAggregate, clock Clock) *State {
	s := &State{
		mode:        ModeEdit,
		employeeID:  agg.ID,
		loadedEmpNo: agg.EmpNo,
		employee:    employeeFieldsFrom(agg.Employee),
		photoURL:    agg.Photo,
		clock:       orNow(clock),
	}
	for _, r := range agg.TrainingRecords {
		s.training = append(s.training, TrainingRecordRow{
			ID:              r.ID,
			Date:            r.Date,
			TrainingProgram: r.TrainingProgram,
			Duration:        r.Duration,
		})
	}
	for _, r := range agg.OJTRecords {
		s.ojt = append(s.ojt, OJTRow{
			ID:                  r.ID,
			ProductProcess:      r.ProductProcess,
			MachineOperations:   r.MachineOperations,
			QualityCheckPoints:  r.QualityCheckPoints,
			SecondaryOperations: r.SecondaryOperations,
			Handling:            r.Handling,
			PackingLabeling:     r.PackingLabeling,
			Others:              r.Others,
		})
	}
	if latest := agg.LatestAssessment(); latest != nil {
		s.dexterity = dexterityFormFrom(latest)
		s.dexterityID = latest.ID
	}
	return s
}

func orNow(c Clock) Clock {
	if c == nil {
		return time.Now
	}
	return c
}

func (s *State) Mode() Mode { return s.mode }

func (s *State) EmployeeID() int { return s.employeeID }

// LoadedEmpNo is the emp_no the form was seeded with, "" in create mode.
func (s *State) LoadedEmpNo() string { return s.loadedEmpNo }

func (s *State) Employee() EmployeeFields { return s.employee }

// PhotoURL is the photo already stored on the backend.
func (s *State) PhotoURL() string { return s.photoURL }

// Photo is the locally selected photo waiting for the next save.
func (s *State) Photo() *domain.Photo { return s.photo }

func (s *State) Dexterity() DexterityForm { return s.dexterity }

// DexterityID is the id of the assessment being edited, zero if none exists.
func (s *State) DexterityID() int { return s.dexterityID }

func (s *State) Now() time.Time { return s.clock() }

// TrainingRows returns exactly TrainingWindow rows, padded with blanks.
func (s *State) TrainingRows() []TrainingRecordRow {
	return window(s.training, TrainingWindow)
}

// OJTRows returns exactly OJTWindow rows, padded with blanks.
func (s *State) OJTRows() []OJTRow {
	return window(s.ojt, OJTWindow)
}

// Validate runs the create-mode required field check. Edits of existing
// employees may be partial and are never blocked here.
func (s *State) Validate() error {
	if s.mode != ModeCreate {
		return nil
	}
	return validateEmployee(s.employee)
}

// EmployeePayload returns the coerced employee fields for the wire. Empty
// fields are omitted. A numeric field holding text is a ValidationError.
func (s *State) EmployeePayload() (map[string]string, error) {
	out := make(map[string]string, len(employeeFieldTable))
	verr := &domain.ValidationError{Fields: map[string]string{}}
	for _, f := range employeeFieldTable {
		v, ok, err := domain.CoerceField(f.name, *f.ref(&s.employee))
		if err != nil {
			verr.Fields[f.name] = err.Error()
			continue
		}
		if ok {
			out[f.name] = v
		}
	}
	if len(verr.Fields) > 0 {
		return nil, verr
	}
	return out, nil
}

// Event is one user edit applied by Dispatch.
type Event interface {
	apply(s *State) error
}

// Dispatch applies ev. A rejected event leaves the state unchanged.
func (s *State) Dispatch(ev Event) error {
	return ev.apply(s)
}

// EmployeeEvents turns a field map into edits in a stable order. dob comes
// last so the age derived from it replaces a supplied one.
func EmployeeEvents(values map[string]string) []Event {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if (names[i] == "dob") != (names[j] == "dob") {
			return names[j] == "dob"
		}
		return names[i] < names[j]
	})
	out := make([]Event, 0, len(names))
	for _, name := range names {
		out = append(out, SetEmployeeField{Field: name, Value: values[name]})
	}
	return out
}

// SetEmployeeField edits one employee field. Setting "dob" behaves like
// SetDateOfBirth.
type SetEmployeeField struct {
	Field string
	Value string
}

func (e SetEmployeeField) apply(s *State) error {
	if e.Field == "dob" {
		return SetDateOfBirth{Value: e.Value}.apply(s)
	}
	f, ok := lookupEmployeeField(e.Field)
	if !ok {
		return domain.NewValidationError(e.Field, "unknown field")
	}
	*f.ref(&s.employee) = e.Value
	return nil
}

// SetDateOfBirth stores the birth date and the age derived from it together.
// An unparsable date clears the age.
type SetDateOfBirth struct {
	Value string
}

func (e SetDateOfBirth) apply(s *State) error {
	age := ""
	if dob, err := time.Parse(domain.DateLayout, strings.TrimSpace(e.Value)); err == nil {
		age = fmt.Sprint(domain.AgeOn(dob, s.clock()))
	}
	s.employee.DOB, s.employee.Age = e.Value, age
	return nil
}

// SetTrainingRecordField edits a cell of the training grid.
type SetTrainingRecordField struct {
	Row   int
	Field string
	Value string
}

func (e SetTrainingRecordField) apply(s *State) error {
	ref, ok := trainingRowFields[e.Field]
	if !ok {
		return domain.NewValidationError(e.Field, "unknown training record field")
	}
	if e.Row < 0 || e.Row >= TrainingWindow {
		return domain.NewValidationError(e.Field, fmt.Sprintf("row %d is outside the grid", e.Row))
	}
	for len(s.training) <= e.Row {
		s.training = append(s.training, TrainingRecordRow{})
	}
	*ref(&s.training[e.Row]) = e.Value
	return nil
}

// SetOJTField edits a cell of the OJT grid. Sign-off cells accept only "" or
// domain.SignedMarker.
type SetOJTField struct {
	Row   int
	Field string
	Value string
}

func (e SetOJTField) apply(s *State) error {
	ref, ok := ojtRowFields[e.Field]
	if !ok {
		return domain.NewValidationError(e.Field, "unknown OJT field")
	}
	if e.Row < 0 || e.Row >= OJTWindow {
		return domain.NewValidationError(e.Field, fmt.Sprintf("row %d is outside the grid", e.Row))
	}
	if isSignOff(e.Field) && e.Value != "" && e.Value != domain.SignedMarker {
		return domain.NewValidationError(e.Field, fmt.Sprintf("must be empty or %q", domain.SignedMarker))
	}
	for len(s.ojt) <= e.Row {
		s.ojt = append(s.ojt, OJTRow{})
	}
	*ref(&s.ojt[e.Row]) = e.Value
	return nil
}

// SetDexterityScore edits one score of the current assessment.
type SetDexterityScore struct {
	Field string
	Value string
}

func (e SetDexterityScore) apply(s *State) error {
	i := domain.ScoreFieldIndex(e.Field)
	if i < 0 {
		return domain.NewValidationError(e.Field, "unknown dexterity score")
	}
	s.dexterity[i] = e.Value
	return nil
}

// SelectPhoto stages a local photo for the next save. Files over
// domain.MaxPhotoSize or not sniffed as images are rejected and the previous
// selection is kept.
type SelectPhoto struct {
	Filename string
	Data     []byte
}

func (e SelectPhoto) apply(s *State) error {
	if len(e.Data) == 0 {
		return domain.NewValidationError("photo", "file is empty")
	}
	if len(e.Data) > domain.MaxPhotoSize {
		return domain.NewValidationError("photo", "file is larger than 5MB")
	}
	mt := mimetype.Detect(e.Data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return domain.NewValidationError("photo", fmt.Sprintf("%s is not an image", mt.String()))
	}
	s.photo = &domain.Photo{Filename: e.Filename, ContentType: mt.String(), Data: e.Data}
	return nil
}

// ClearPhoto drops the staged photo.
func (s *State) ClearPhoto() { s.photo = nil }
