package form

import (
	"strings"

	"github.com/locvowork/employee_training_dashboard/internal/domain"
)

// Minimum visible rows of the two editable grids. The lists behind them are
// unbounded; only the window is edited and saved.
const (
	TrainingWindow = 5
	OJTWindow      = 4
)

// TrainingRecordRow is one editable training session. ID is zero until the
// backend has stored the row.
type TrainingRecordRow struct {
	ID              int    `json:"id,omitempty"`
	Date            string `json:"date"`
	TrainingProgram string `json:"training_program"`
	Duration        string `json:"duration"`
}

// Complete reports whether every field is filled; only complete rows are saved.
func (r TrainingRecordRow) Complete() bool {
	return strings.TrimSpace(r.Date) != "" &&
		strings.TrimSpace(r.TrainingProgram) != "" &&
		strings.TrimSpace(r.Duration) != ""
}

// Record converts the row to its wire shape.
func (r TrainingRecordRow) Record(employeeID int) domain.TrainingRecord {
	return domain.TrainingRecord{
		ID:              r.ID,
		Employee:        employeeID,
		Date:            strings.TrimSpace(r.Date),
		TrainingProgram: strings.TrimSpace(r.TrainingProgram),
		Duration:        strings.TrimSpace(r.Duration),
	}
}

var trainingRowFields = map[string]func(*TrainingRecordRow) *string{
	"date":             func(r *TrainingRecordRow) *string { return &r.Date },
	"training_program": func(r *TrainingRecordRow) *string { return &r.TrainingProgram },
	"duration":         func(r *TrainingRecordRow) *string { return &r.Duration },
}

// OJTRow is one editable on-the-job training entry.
type OJTRow struct {
	ID                  int    `json:"id,omitempty"`
	ProductProcess      string `json:"product_process"`
	MachineOperations   string `json:"machine_operations"`
	QualityCheckPoints  string `json:"quality_check_points"`
	SecondaryOperations string `json:"secondary_operations"`
	Handling            string `json:"handling"`
	PackingLabeling     string `json:"packing_labeling"`
	Others              string `json:"others"`
}

// Filled reports whether the free-text field is set; empty rows are skipped.
func (r OJTRow) Filled() bool {
	return strings.TrimSpace(r.ProductProcess) != ""
}

// Record converts the row to its wire shape.
func (r OJTRow) Record(employeeID int) domain.OJTRecord {
	return domain.OJTRecord{
		ID:                  r.ID,
		Employee:            employeeID,
		ProductProcess:      strings.TrimSpace(r.ProductProcess),
		MachineOperations:   r.MachineOperations,
		QualityCheckPoints:  r.QualityCheckPoints,
		SecondaryOperations: r.SecondaryOperations,
		Handling:            r.Handling,
		PackingLabeling:     r.PackingLabeling,
		Others:              r.Others,
	}
}

var ojtRowFields = map[string]func(*OJTRow) *string{
	"product_process":      func(r *OJTRow) *string { return &r.ProductProcess },
	"machine_operations":   func(r *OJTRow) *string { return &r.MachineOperations },
	"quality_check_points": func(r *OJTRow) *string { return &r.QualityCheckPoints },
	"secondary_operations": func(r *OJTRow) *string { return &r.SecondaryOperations },
	"handling":             func(r *OJTRow) *string { return &r.Handling },
	"packing_labeling":     func(r *OJTRow) *string { return &r.PackingLabeling },
	"others":               func(r *OJTRow) *string { return &r.Others },
}

// isSignOff reports whether name is one of the six sign-off flags.
func isSignOff(name string) bool {
	_, ok := ojtRowFields[name]
	return ok && name != "product_process"
}

// DexterityForm holds the editable score text, indexed like
// domain.DexterityScoreFields.
type DexterityForm [19]string

func dexterityFormFrom(a *domain.DexterityAssessment) DexterityForm {
	var d DexterityForm
	if a == nil {
		return d
	}
	for i, f := range domain.DexterityScoreFields {
		d[i] = domain.FormatScore(f.Get(&a.DexterityScores))
	}
	return d
}

// Get returns the text of the named score.
func (d DexterityForm) Get(name string) string {
	i := domain.ScoreFieldIndex(name)
	if i < 0 {
		return ""
	}
	return d[i]
}

// Scores converts the text to nullable scores. Empty or non-numeric text
// becomes null.
func (d DexterityForm) Scores() domain.DexterityScores {
	var s domain.DexterityScores
	for i, f := range domain.DexterityScoreFields {
		f.Set(&s, domain.ParseScore(d[i]))
	}
	return s
}

// Assessment builds the wire shape for employeeID; id is zero for a create.
func (d DexterityForm) Assessment(employeeID, id int) domain.DexterityAssessment {
	return domain.DexterityAssessment{
		ID:              id,
		Employee:        employeeID,
		DexterityScores: d.Scores(),
	}
}

func window[T any](rows []T, size int) []T {
	out := make([]T, size)
	copy(out, rows)
	return out
}
