package form

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/locvowork/employee_training_dashboard/internal/domain"
)

var maxFinalScore = decimal.NewFromInt(1000)

// PerformanceEntry is one row of the performance observation grid as typed
// by the user. Lengths follow the backend columns.
type PerformanceEntry struct {
	Day           int    `json:"day" validate:"min=1,max=31"`
	Description   string `json:"description" validate:"max=200"`
	SUStatus      string `json:"su_status" validate:"max=10"`
	Scope         string `json:"scope" validate:"max=100"`
	OperationName string `json:"operation_name" validate:"max=100"`
	Production    string `json:"production" validate:"max=50"`
	Weight        string `json:"weight" validate:"max=20"`
	Quantity      string `json:"quantity" validate:"max=20"`
	ProN          string `json:"pro_n" validate:"max=20"`
	PerfN         string `json:"perf_n" validate:"max=20"`
	FinalScore    string `json:"final_score"`
}

func (e PerformanceEntry) trimmed() PerformanceEntry {
	for _, p := range []*string{
		&e.Description, &e.SUStatus, &e.Scope, &e.OperationName, &e.Production,
		&e.Weight, &e.Quantity, &e.ProN, &e.PerfN, &e.FinalScore,
	} {
		*p = strings.TrimSpace(*p)
	}
	return e
}

// Record validates e and builds the record to send for employee. prev is the
// stored record of the same day, nil when there is none; its id and sign-offs
// are carried over because the backend replaces the whole row.
func (e PerformanceEntry) Record(employee int, prev *domain.PerformanceRecord) (domain.PerformanceRecord, error) {
	e = e.trimmed()
	if err := validateStruct(e); err != nil {
		return domain.PerformanceRecord{}, err
	}
	score, err := parseFinalScore(e.FinalScore)
	if err != nil {
		return domain.PerformanceRecord{}, err
	}

	rec := domain.PerformanceRecord{
		Employee:      employee,
		Day:           e.Day,
		Description:   e.Description,
		SUStatus:      e.SUStatus,
		Scope:         e.Scope,
		OperationName: e.OperationName,
		Production:    e.Production,
		Weight:        e.Weight,
		Quantity:      e.Quantity,
		ProN:          e.ProN,
		PerfN:         e.PerfN,
		FinalScore:    score,
	}
	if prev != nil {
		rec.ID = prev.ID
		rec.SupervisorApproved = prev.SupervisorApproved
		rec.PersonnelCertified = prev.PersonnelCertified
	}
	return rec, nil
}

// parseFinalScore accepts up to 5 digits with at most 2 decimals. Blank is
// null.
func parseFinalScore(s string) (decimal.NullDecimal, error) {
	if s == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}, domain.NewValidationError("final_score", "must be a number")
	}
	if !d.Round(2).Equal(d) {
		return decimal.NullDecimal{}, domain.NewValidationError("final_score", "must have at most 2 decimal places")
	}
	if d.Abs().GreaterThanOrEqual(maxFinalScore) {
		return decimal.NullDecimal{}, domain.NewValidationError("final_score", "must be less than 1000")
	}
	return decimal.NewNullDecimal(d), nil
}
