package domain

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// DefaultTrainingModules is the predefined induction catalog.
var DefaultTrainingModules = []TrainingModule{
	{SNo: 1, Title: "Pricol culture & Values, Time office & Briefing on statutory requirements", Expert: "Mr.Harish Kumar Y / Mr.Sivakumar G"},
	{SNo: 2, Title: "Behavioural safety & Environment", Expert: "Mr. Jagadeesan M/ Mr. Sridhar R"},
	{SNo: 3, Title: "IR - OHC (Medical centre)", Expert: "Medical Officers"},
	{SNo: 4, Title: "IR - Security Office", Expert: "Security Officers"},
	{SNo: 5, Title: "Workplace maintenance - 5S & Suggestion scheme", Expert: "Mr. Balamurugan P"},
	{SNo: 6, Title: "POSH Awareness", Expert: "Ms. Aarthi R"},
	{SNo: 7, Title: "Product / Process knowledge", Expert: ""},
	{SNo: 8, Title: "Usage of tools / Machines / Instruments & Calibration / Gauges & Abnormality Handling", Expert: "Mr. Madhalaimuthu"},
	{SNo: 9, Title: "Defect identification & Quality alerts", Expert: ""},
	{SNo: 10, Title: "Videos on process, Safety,EHS, Discipline, 5S", Expert: "Ms. Vinitha V"},
	{SNo: 11, Title: "Basic dexterity training & Assessment", Expert: ""},
	{SNo: 12, Title: "Gemba & Skill evaluation (Post test)", Expert: "Operations / Other"},
}

type catalogFile struct {
	Modules []TrainingModule `yaml:"modules"`
}

// LoadTrainingModules reads a catalog override from path. An empty path
// returns a copy of DefaultTrainingModules.
func LoadTrainingModules(path string) ([]TrainingModule, error) {
	if path == "" {
		out := make([]TrainingModule, len(DefaultTrainingModules))
		copy(out, DefaultTrainingModules)
		return out, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read module catalog: %w", err)
	}
	return ParseTrainingModules(data)
}

// ParseTrainingModules decodes and checks a yaml catalog.
func ParseTrainingModules(data []byte) ([]TrainingModule, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode module catalog: %w", err)
	}
	if len(f.Modules) == 0 {
		return nil, fmt.Errorf("module catalog is empty")
	}
	seen := make(map[int]bool, len(f.Modules))
	for _, m := range f.Modules {
		if m.Title == "" {
			return nil, fmt.Errorf("module %d has no title", m.SNo)
		}
		if seen[m.SNo] {
			return nil, fmt.Errorf("duplicate module s_no %d", m.SNo)
		}
		seen[m.SNo] = true
	}
	return f.Modules, nil
}
