package service

import (
	"context"
	_ "embed"
	"fmt"
	"regexp"

	"github.com/locvowork/employee_training_dashboard/internal/domain"
	"github.com/locvowork/employee_training_dashboard/internal/logger"
	"github.com/locvowork/employee_training_dashboard/pkg/simpleexcel"
)

//go:embed templates/training_card.yaml
var trainingCardTemplate string

// TrainingCardSheet is the sheet name of the exported workbook.
const TrainingCardSheet = "Training Card"

type labelValue struct {
	Label string
	Value interface{}
}

type moduleRow struct {
	SNo           int
	Title         string
	Expert        string
	Status        domain.ModuleStatus
	CompletedDate *string
}

type scoreRow struct {
	Label    string
	Category string
	Max      interface{}
	Score    *int
}

type performanceRow struct {
	Day                int
	Description        string
	SUStatus           string
	Scope              string
	OperationName      string
	Production         string
	Weight             string
	Quantity           string
	ProN               string
	PerfN              string
	FinalScore         string
	SupervisorApproved string
	PersonnelCertified string
}

// ExportService renders an employee's training card as xlsx.
type ExportService struct {
	employees domain.EmployeeRepository
}

// NewExportService creates a new ExportService instance
func NewExportService(employees domain.EmployeeRepository) *ExportService {
	return &ExportService{employees: employees}
}

// TrainingCard looks empNo up and returns the workbook with a file name.
func (s *ExportService) TrainingCard(ctx context.Context, empNo string) ([]byte, string, error) {
	agg, err := s.employees.FindByEmpNo(ctx, empNo)
	if err != nil {
		return nil, "", err
	}
	data, err := RenderTrainingCard(agg)
	if err != nil {
		logger.ErrorLog(ctx, err, "failed to render training card for %s", empNo)
		return nil, "", err
	}
	return data, TrainingCardFilename(agg.EmpNo), nil
}

var unsafeFilename = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// TrainingCardFilename returns the download name for empNo.
func TrainingCardFilename(empNo string) string {
	return fmt.Sprintf("training_card_%s.xlsx", unsafeFilename.ReplaceAllString(empNo, "_"))
}

// RenderTrainingCard builds the workbook for agg.
func RenderTrainingCard(agg *domain.EmployeeAggregate) ([]byte, error) {
	exporter, err := simpleexcel.NewDataExporterFromYamlConfig(trainingCardTemplate)
	if err != nil {
		return nil, err
	}

	modules := make([]moduleRow, 0, len(agg.TrainingModules))
	for _, m := range agg.TrainingModules {
		modules = append(modules, moduleRow{
			SNo:           m.Module.SNo,
			Title:         m.Module.Title,
			Expert:        m.Module.Expert,
			Status:        m.Status,
			CompletedDate: m.CompletedDate,
		})
	}

	exporter.
		BindSectionData("employee", employeeRows(agg.Employee)).
		BindSectionData("modules", modules).
		BindSectionData("training", agg.TrainingRecords).
		BindSectionData("ojt", agg.OJTRecords).
		BindSectionData("dexterity", scoreRows(agg.LatestAssessment())).
		BindSectionData("performance", performanceRows(agg))
	return exporter.ToBytes()
}

// performanceRows prints every grid day, blank where nothing is stored.
func performanceRows(agg *domain.EmployeeAggregate) []performanceRow {
	yesNo := func(b bool) string {
		if b {
			return "Yes"
		}
		return "No"
	}
	grid := PerformanceGrid(agg)
	rows := make([]performanceRow, 0, len(grid))
	for _, d := range grid {
		row := performanceRow{Day: d.Day}
		if r := d.Record; r != nil {
			row = performanceRow{
				Day:                d.Day,
				Description:        r.Description,
				SUStatus:           r.SUStatus,
				Scope:              r.Scope,
				OperationName:      r.OperationName,
				Production:         r.Production,
				Weight:             r.Weight,
				Quantity:           r.Quantity,
				ProN:               r.ProN,
				PerfN:              r.PerfN,
				SupervisorApproved: yesNo(r.SupervisorApproved),
				PersonnelCertified: yesNo(r.PersonnelCertified),
			}
			if r.FinalScore.Valid {
				row.FinalScore = r.FinalScore.Decimal.StringFixed(2)
			}
		}
		rows = append(rows, row)
	}
	return rows
}

func employeeRows(e domain.Employee) []labelValue {
	percent := ""
	if e.OverallPercent.Valid {
		percent = e.OverallPercent.Decimal.StringFixed(2)
	}
	return []labelValue{
		{"Employee No", e.EmpNo},
		{"Name", e.Name},
		{"Gender", e.Gender},
		{"Date of Birth", e.DOB},
		{"Age", e.Age},
		{"Date of Joining", e.DOJ},
		{"Date of Leaving", e.DOL},
		{"Plant", e.Plant},
		{"Area of Work", e.AreaOfWork},
		{"Department", e.Dept},
		{"Category", e.Category},
		{"Batch No", e.BatchNo},
		{"Training Days", e.TrainingDays},
		{"SL1 Marks", e.SL1Marks},
		{"SL2 Marks", e.SL2Marks},
		{"SL2 OJT", e.SL2OJT},
		{"After OJT Department", e.AfterOJTDept},
		{"Overall %", percent},
		{"Skill Level", e.SkillLevel},
		{"SL1 Status", e.SL1Status},
		{"SL2 Status", e.SL2Status},
		{"SL3 Status", e.SL3Status},
		{"Remarks", e.Remarks},
	}
}

// scoreRows lists every sub-score followed by the band totals. Totals are
// recomputed from the scores when the backend did not send them.
func scoreRows(a *domain.DexterityAssessment) []scoreRow {
	var scores domain.DexterityScores
	if a != nil {
		scores = a.DexterityScores
	}
	rows := make([]scoreRow, 0, len(domain.DexterityScoreFields)+3)
	basicMax, advancedMax := 0, 0
	for _, f := range domain.DexterityScoreFields {
		rows = append(rows, scoreRow{Label: f.Label, Category: string(f.Category), Max: f.Max, Score: f.Get(&scores)})
		if f.Category == domain.ScoreBasic {
			basicMax += f.Max
		} else {
			advancedMax += f.Max
		}
	}

	basic, advanced, overall := scores.Totals()
	if a != nil {
		if a.BasicSkillsTotal != nil {
			basic = *a.BasicSkillsTotal
		}
		if a.AdvancedSkillsTotal != nil {
			advanced = *a.AdvancedSkillsTotal
		}
		if a.OverallScore != nil {
			overall = *a.OverallScore
		}
	}
	return append(rows,
		scoreRow{Label: "Basic skills total", Max: basicMax, Score: &basic},
		scoreRow{Label: "Advanced skills total", Max: advancedMax, Score: &advanced},
		scoreRow{Label: "Overall score", Max: basicMax + advancedMax, Score: &overall},
	)
}
