package form

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/locvowork/employee_training_dashboard/internal/domain"
)

// EmployeeFields is the editable employee record. Every value is kept as text
// and only coerced when the request payload is built.
type EmployeeFields struct {
	EmpNo          string `json:"emp_no" validate:"required"`
	Name           string `json:"name" validate:"required"`
	Gender         string `json:"gender" validate:"required"`
	DOB            string `json:"dob" validate:"required,datetime=2006-01-02"`
	Age            string `json:"age"`
	DOJ            string `json:"doj" validate:"required,datetime=2006-01-02"`
	DOL            string `json:"dol"`
	Plant          string `json:"plant" validate:"required"`
	AreaOfWork     string `json:"area_of_work" validate:"required"`
	Dept           string `json:"dept" validate:"required"`
	Category       string `json:"category" validate:"required"`
	BatchNo        string `json:"batch_no"`
	TrainingDays   string `json:"training_days"`
	SL1Marks       string `json:"sl1_marks"`
	SL2Marks       string `json:"sl2_marks"`
	SL2OJT         string `json:"sl2_ojt"`
	AfterOJTDept   string `json:"after_ojt_dept"`
	OverallPercent string `json:"overall_percent"`
	SkillLevel     string `json:"skill_level"`
	Remarks        string `json:"remarks"`
	SL1Status      string `json:"sl1_status"`
	SL2Status      string `json:"sl2_status"`
	SL3Status      string `json:"sl3_status"`
}

// RequiredFields are checked when creating an employee.
var RequiredFields = []string{"emp_no", "name", "gender", "dob", "doj", "plant", "area_of_work", "dept", "category"}

type employeeField struct {
	name string
	ref  func(*EmployeeFields) *string
}

// employeeFieldTable lists the fields in payload order.
var employeeFieldTable = []employeeField{
	{"emp_no", func(f *EmployeeFields) *string { return &f.EmpNo }},
	{"name", func(f *EmployeeFields) *string { return &f.Name }},
	{"gender", func(f *EmployeeFields) *string { return &f.Gender }},
	{"dob", func(f *EmployeeFields) *string { return &f.DOB }},
	{"age", func(f *EmployeeFields) *string { return &f.Age }},
	{"doj", func(f *EmployeeFields) *string { return &f.DOJ }},
	{"dol", func(f *EmployeeFields) *string { return &f.DOL }},
	{"plant", func(f *EmployeeFields) *string { return &f.Plant }},
	{"area_of_work", func(f *EmployeeFields) *string { return &f.AreaOfWork }},
	{"dept", func(f *EmployeeFields) *string { return &f.Dept }},
	{"category", func(f *EmployeeFields) *string { return &f.Category }},
	{"batch_no", func(f *EmployeeFields) *string { return &f.BatchNo }},
	{"training_days", func(f *EmployeeFields) *string { return &f.TrainingDays }},
	{"sl1_marks", func(f *EmployeeFields) *string { return &f.SL1Marks }},
	{"sl2_marks", func(f *EmployeeFields) *string { return &f.SL2Marks }},
	{"sl2_ojt", func(f *EmployeeFields) *string { return &f.SL2OJT }},
	{"after_ojt_dept", func(f *EmployeeFields) *string { return &f.AfterOJTDept }},
	{"overall_percent", func(f *EmployeeFields) *string { return &f.OverallPercent }},
	{"skill_level", func(f *EmployeeFields) *string { return &f.SkillLevel }},
	{"remarks", func(f *EmployeeFields) *string { return &f.Remarks }},
	{"sl1_status", func(f *EmployeeFields) *string { return &f.SL1Status }},
	{"sl2_status", func(f *EmployeeFields) *string { return &f.SL2Status }},
	{"sl3_status", func(f *EmployeeFields) *string { return &f.SL3Status }},
}

func lookupEmployeeField(name string) (employeeField, bool) {
	for _, f := range employeeFieldTable {
		if f.name == name {
			return f, true
		}
	}
	return employeeField{}, false
}

// IsEmployeeField reports whether name is an editable employee field.
func IsEmployeeField(name string) bool {
	_, ok := lookupEmployeeField(name)
	return ok
}

// Get returns the value of the named field.
func (f *EmployeeFields) Get(name string) (string, bool) {
	field, ok := lookupEmployeeField(name)
	if !ok {
		return "", false
	}
	return *field.ref(f), true
}

// defaultEmployeeFields are the values of a blank create form.
func defaultEmployeeFields() EmployeeFields {
	return EmployeeFields{
		TrainingDays:   "0",
		SL1Marks:       "0",
		SL2Marks:       "0",
		OverallPercent: "0.0",
		SkillLevel:     "beginner",
		SL1Status:      "pending",
		SL2Status:      "pending",
		SL3Status:      "pending",
	}
}

func employeeFieldsFrom(e domain.Employee) EmployeeFields {
	f := EmployeeFields{
		EmpNo:        e.EmpNo,
		Name:         e.Name,
		Gender:       e.Gender,
		DOB:          e.DOB,
		Age:          domain.FormatScore(e.Age),
		DOJ:          e.DOJ,
		DOL:          e.DOL,
		Plant:        e.Plant,
		AreaOfWork:   e.AreaOfWork,
		Dept:         e.Dept,
		Category:     e.Category,
		BatchNo:      e.BatchNo,
		TrainingDays: domain.FormatScore(e.TrainingDays),
		SL1Marks:     domain.FormatScore(e.SL1Marks),
		SL2Marks:     domain.FormatScore(e.SL2Marks),
		SL2OJT:       e.SL2OJT,
		AfterOJTDept: e.AfterOJTDept,
		SkillLevel:   e.SkillLevel,
		Remarks:      e.Remarks,
		SL1Status:    e.SL1Status,
		SL2Status:    e.SL2Status,
		SL3Status:    e.SL3Status,
	}
	if e.OverallPercent.Valid {
		f.OverallPercent = e.OverallPercent.Decimal.String()
	}
	return f
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

func validateEmployee(f EmployeeFields) error {
	trimmed := f
	for _, field := range employeeFieldTable {
		p := field.ref(&trimmed)
		*p = strings.TrimSpace(*p)
	}
	return validateStruct(trimmed)
}

// validateStruct runs the struct tags of v and maps failures to a
// domain.ValidationError keyed by json field name.
func validateStruct(v interface{}) error {
	err := getValidator().Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &domain.ValidationError{Fields: make(map[string]string, len(verrs))}
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			out.Fields[fe.Field()] = "is required"
		case "datetime":
			out.Fields[fe.Field()] = "must be a date (YYYY-MM-DD)"
		case "max":
			if fe.Kind() == reflect.String {
				out.Fields[fe.Field()] = fmt.Sprintf("must be at most %s characters", fe.Param())
			} else {
				out.Fields[fe.Field()] = fmt.Sprintf("must be at most %s", fe.Param())
			}
		case "min":
			out.Fields[fe.Field()] = fmt.Sprintf("must be at least %s", fe.Param())
		default:
			out.Fields[fe.Field()] = "is invalid"
		}
	}
	return out
}
