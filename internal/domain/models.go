package domain

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the wire format of every date field exchanged with the backend.
const DateLayout = "2006-01-02"

// ==================== EMPLOYEE ====================

// Employee is the aggregate root as returned by the backend.
type Employee struct {
	ID             int                 `json:"id"`
	EmpNo          string              `json:"emp_no"`
	Name           string              `json:"name"`
	Gender         string              `json:"gender"`
	DOB            string              `json:"dob"`
	Age            *int                `json:"age"`
	DOJ            string              `json:"doj"`
	DOL            string              `json:"dol"`
	Photo          string              `json:"photo"`
	Plant          string              `json:"plant"`
	AreaOfWork     string              `json:"area_of_work"`
	Dept           string              `json:"dept"`
	Category       string              `json:"category"`
	BatchNo        string              `json:"batch_no"`
	TrainingDays   *int                `json:"training_days"`
	SL1Marks       *int                `json:"sl1_marks"`
	SL2Marks       *int                `json:"sl2_marks"`
	SL2OJT         string              `json:"sl2_ojt"`
	AfterOJTDept   string              `json:"after_ojt_dept"`
	OverallPercent decimal.NullDecimal `json:"overall_percent"`
	SkillLevel     string              `json:"skill_level"`
	Remarks        string              `json:"remarks"`
	SL1Status      string              `json:"sl1_status"`
	SL2Status      string              `json:"sl2_status"`
	SL3Status      string              `json:"sl3_status"`
	CreatedAt      string              `json:"created_at,omitempty"`
	UpdatedAt      string              `json:"updated_at,omitempty"`
}

// EmployeeAggregate is the employee plus every related collection, read and
// refreshed as one unit.
type EmployeeAggregate struct {
	Employee
	TrainingModules      []EmployeeTrainingModule `json:"training_modules"`
	TrainingRecords      []TrainingRecord         `json:"training_records"`
	OJTRecords           []OJTRecord              `json:"ojt_records"`
	DexterityAssessments []DexterityAssessment    `json:"dexterity_assessments"`
	PerformanceRecords   []PerformanceRecord      `json:"performance_records"`
}

// LatestAssessment returns the most recent dexterity assessment, ordered by
// created_at, then updated_at, then id. Nil when there is none.
func (a *EmployeeAggregate) LatestAssessment() *DexterityAssessment {
	if a == nil || len(a.DexterityAssessments) == 0 {
		return nil
	}
	sorted := make([]DexterityAssessment, len(a.DexterityAssessments))
	copy(sorted, a.DexterityAssessments)
	sort.SliceStable(sorted, func(i, j int) bool {
		ci, cj := parseTimestamp(sorted[i].CreatedAt), parseTimestamp(sorted[j].CreatedAt)
		if !ci.Equal(cj) {
			return ci.After(cj)
		}
		ui, uj := parseTimestamp(sorted[i].UpdatedAt), parseTimestamp(sorted[j].UpdatedAt)
		if !ui.Equal(uj) {
			return ui.After(uj)
		}
		return sorted[i].ID > sorted[j].ID
	})
	latest := sorted[0]
	return &latest
}

// ModuleByID finds the module status row for a catalog module.
func (a *EmployeeAggregate) ModuleByID(moduleID int) (*EmployeeTrainingModule, bool) {
	if a == nil {
		return nil, false
	}
	for i := range a.TrainingModules {
		if a.TrainingModules[i].Module.ID == moduleID {
			return &a.TrainingModules[i], true
		}
	}
	return nil, false
}

// PerformanceByDay returns the performance record of day.
func (a *EmployeeAggregate) PerformanceByDay(day int) (*PerformanceRecord, bool) {
	if a == nil {
		return nil, false
	}
	for i := range a.PerformanceRecords {
		if a.PerformanceRecords[i].Day == day {
			return &a.PerformanceRecords[i], true
		}
	}
	return nil, false
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02 15:04:05.999999",
	DateLayout,
}

func parseTimestamp(v string) time.Time {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t
		}
	}
	return time.Time{}
}

// ==================== TRAINING MODULES ====================

// ModuleStatus is the tri-state of an employee's progress on a catalog module.
type ModuleStatus string

const (
	ModuleStatusPending  ModuleStatus = "pending"
	ModuleStatusAccepted ModuleStatus = "accepted"
	ModuleStatusDenied   ModuleStatus = "denied"
)

// Valid reports whether s is one of the three known statuses.
func (s ModuleStatus) Valid() bool {
	switch s {
	case ModuleStatusPending, ModuleStatusAccepted, ModuleStatusDenied:
		return true
	}
	return false
}

// TrainingModule is one entry of the fixed module catalog.
type TrainingModule struct {
	ID     int    `json:"id,omitempty" yaml:"-"`
	SNo    int    `json:"s_no" yaml:"s_no"`
	Title  string `json:"title" yaml:"title"`
	Expert string `json:"expert" yaml:"expert"`
}

// EmployeeTrainingModule joins an employee with a catalog module. ID is nil
// when the backend has no row yet and reports the module as pending.
type EmployeeTrainingModule struct {
	ID            *int           `json:"id"`
	Module        TrainingModule `json:"module"`
	Status        ModuleStatus   `json:"status"`
	CompletedDate *string        `json:"completed_date"`
}

// EmployeeTrainingModuleInput is the write shape of employee-training-modules.
type EmployeeTrainingModuleInput struct {
	Employee      int          `json:"employee"`
	ModuleID      string       `json:"module_id"`
	Status        ModuleStatus `json:"status"`
	CompletedDate *string      `json:"completed_date"`
}

// ModuleStatusUpdate is one element of the bulk status update call.
type ModuleStatusUpdate struct {
	ModuleID      int          `json:"module_id"`
	Status        ModuleStatus `json:"status"`
	CompletedDate *string      `json:"completed_date"`
}

// ==================== RECORDS ====================

// TrainingRecord is one attended training session.
type TrainingRecord struct {
	ID              int    `json:"id,omitempty"`
	Employee        int    `json:"employee"`
	Date            string `json:"date"`
	TrainingProgram string `json:"training_program"`
	Duration        string `json:"duration"`
}

// SignedMarker is the literal value of a set OJT sign-off flag.
const SignedMarker = "signed"

// OJTRecord is one on-the-job training entry. ProductProcess is free text,
// every other field is a sign-off flag holding "" or SignedMarker.
type OJTRecord struct {
	ID                  int    `json:"id,omitempty"`
	Employee            int    `json:"employee"`
	ProductProcess      string `json:"product_process"`
	MachineOperations   string `json:"machine_operations"`
	QualityCheckPoints  string `json:"quality_check_points"`
	SecondaryOperations string `json:"secondary_operations"`
	Handling            string `json:"handling"`
	PackingLabeling     string `json:"packing_labeling"`
	Others              string `json:"others"`
}

// DexterityAssessment is a single evaluation. Totals are computed by the
// backend on save and are never sent.
type DexterityAssessment struct {
	ID       int `json:"id,omitempty"`
	Employee int `json:"employee"`
	DexterityScores
	BasicSkillsTotal    *int   `json:"basic_skills_total,omitempty"`
	AdvancedSkillsTotal *int   `json:"advanced_skills_total,omitempty"`
	OverallScore        *int   `json:"overall_score,omitempty"`
	CreatedAt           string `json:"created_at,omitempty"`
	UpdatedAt           string `json:"updated_at,omitempty"`
}

// DexterityScores holds the nullable sub-scores of an assessment.
type DexterityScores struct {
	Test1S2S               *int `json:"test_1s_2s"`
	Test1S2SBall           *int `json:"test_1s_2s_ball"`
	MemoryTest             *int `json:"memory_test"`
	MindHandCoordination   *int `json:"mind_hand_coordination"`
	NerveStability         *int `json:"nerve_stability"`
	MaterialIdentification *int `json:"material_identification"`
	PickPlaceSequence      *int `json:"pick_place_sequence"`
	PickRightMaterial      *int `json:"pick_right_material"`
	VisualInspection       *int `json:"visual_inspection"`
	DefectIdentification   *int `json:"defect_identification"`
	WrittenTest            *int `json:"written_test"`
	InsertLoading1         *int `json:"insert_loading_1"`
	InsertLoading2         *int `json:"insert_loading_2"`
	SafetyTest             *int `json:"safety_test"`
	Painting               *int `json:"painting"`
	ScrewAssembly          *int `json:"screw_assembly"`
	AirCleanerAssembly     *int `json:"air_cleaner_assembly"`
	MSATest                *int `json:"msa_test"`
	Deflashing             *int `json:"deflashing"`
}

// PerformanceDays is the length of the performance observation grid.
const PerformanceDays = 31

// PerformanceRecord is one day of the performance observation record. The
// backend keeps at most one record per employee and day.
type PerformanceRecord struct {
	ID                 int                 `json:"id,omitempty"`
	Employee           int                 `json:"employee"`
	Day                int                 `json:"day"`
	Description        string              `json:"description"`
	SUStatus           string              `json:"su_status"`
	Scope              string              `json:"scope"`
	OperationName      string              `json:"operation_name"`
	Production         string              `json:"production"`
	Weight             string              `json:"weight"`
	Quantity           string              `json:"quantity"`
	ProN               string              `json:"pro_n"`
	PerfN              string              `json:"perf_n"`
	FinalScore         decimal.NullDecimal `json:"final_score"`
	SupervisorApproved bool                `json:"supervisor_approved"`
	PersonnelCertified bool                `json:"personnel_certified"`
	CreatedAt          string              `json:"created_at,omitempty"`
	UpdatedAt          string              `json:"updated_at,omitempty"`
}

// ==================== PHOTO ====================

// MaxPhotoSize is the largest accepted photo upload.
const MaxPhotoSize = 5 * 1024 * 1024

// Photo is a locally selected image waiting to be sent with the employee.
type Photo struct {
	Filename    string
	ContentType string
	Data        []byte
}
