package handler

import (
	"sort"

	"github.com/locvowork/employee_training_dashboard/internal/domain"
	"github.com/locvowork/employee_training_dashboard/internal/form"
	"github.com/locvowork/employee_training_dashboard/internal/service"
)

// SaveRequest carries the edits of one save. Row maps are keyed by grid
// column; missing rows and fields keep their loaded values.
type SaveRequest struct {
	Employee  map[string]string   `json:"employee"`
	Training  []map[string]string `json:"training"`
	OJT       []map[string]string `json:"ojt"`
	Dexterity map[string]string   `json:"dexterity"`
}

// Events returns the form edits in the order they are applied.
func (r SaveRequest) Events() []form.Event {
	events := form.EmployeeEvents(r.Employee)
	for i, row := range r.Training {
		for _, field := range sortedKeys(row) {
			events = append(events, form.SetTrainingRecordField{Row: i, Field: field, Value: row[field]})
		}
	}
	for i, row := range r.OJT {
		for _, field := range sortedKeys(row) {
			events = append(events, form.SetOJTField{Row: i, Field: field, Value: row[field]})
		}
	}
	for _, field := range sortedKeys(r.Dexterity) {
		events = append(events, form.SetDexterityScore{Field: field, Value: r.Dexterity[field]})
	}
	return events
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// SaveResponse is the outcome of a save.
type SaveResponse struct {
	Created    bool                      `json:"created"`
	EmployeeID int                       `json:"employee_id"`
	EmpNo      string                    `json:"emp_no"`
	Message    string                    `json:"message"`
	Errors     []string                  `json:"errors,omitempty"`
	Employee   *domain.EmployeeAggregate `json:"employee,omitempty"`
}

func newSaveResponse(res *service.SaveResult) SaveResponse {
	return SaveResponse{
		Created:    res.Created,
		EmployeeID: res.EmployeeID,
		EmpNo:      res.EmpNo,
		Message:    res.Message,
		Errors:     res.Errors(),
		Employee:   res.Employee,
	}
}

// ImportResponse is the outcome of a CSV import.
type ImportResponse struct {
	Created  []string `json:"created"`
	Updated  []string `json:"updated"`
	Warnings []string `json:"warnings,omitempty"`
	Failures []string `json:"failures,omitempty"`
}

func newImportResponse(r *service.ImportReport) ImportResponse {
	out := ImportResponse{Created: r.Created, Updated: r.Updated, Warnings: r.Warnings}
	for _, f := range r.Failures {
		out.Failures = append(out.Failures, f.Error())
	}
	return out
}
