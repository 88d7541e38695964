package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FieldKind is the wire type a form field is coerced to at the request boundary.
type FieldKind int

const (
	FieldString FieldKind = iota
	FieldInt
	FieldFloat
)

// EmployeeFieldKinds declares the numeric employee fields. Anything not listed
// is sent as a string.
var EmployeeFieldKinds = map[string]FieldKind{
	"age":             FieldInt,
	"training_days":   FieldInt,
	"sl1_marks":       FieldInt,
	"sl2_marks":       FieldInt,
	"overall_percent": FieldFloat,
}

// CoerceField normalises a raw form value for transmission. ok is false when
// the value is empty and the field must be skipped.
func CoerceField(name, raw string) (value string, ok bool, err error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false, nil
	}
	switch EmployeeFieldKinds[name] {
	case FieldInt:
		i, err := strconv.Atoi(raw)
		if err != nil {
			return "", false, fmt.Errorf("%s must be a whole number", name)
		}
		return strconv.Itoa(i), true, nil
	case FieldFloat:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return "", false, fmt.Errorf("%s must be a number", name)
		}
		return strconv.FormatFloat(f, 'f', -1, 64), true, nil
	default:
		return raw, true, nil
	}
}

// ParseScore converts an edited score to its nullable wire value. Empty and
// non-numeric input map to nil, never to zero.
func ParseScore(raw string) *int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	i, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &i
}

// FormatScore is the inverse of ParseScore.
func FormatScore(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

// ScoreCategory groups dexterity scores into the two skill bands.
type ScoreCategory string

const (
	ScoreBasic    ScoreCategory = "basic"
	ScoreAdvanced ScoreCategory = "advanced"
)

// ScoreField describes one dexterity sub-score.
type ScoreField struct {
	Name     string
	Label    string
	Category ScoreCategory
	Max      int
	ref      func(*DexterityScores) **int
}

// DexterityScoreFields lists every sub-score in display order.
var DexterityScoreFields = []ScoreField{
	{"test_1s_2s", "1S & 2S test", ScoreBasic, 5, func(s *DexterityScores) **int { return &s.Test1S2S }},
	{"test_1s_2s_ball", "1S & 2S test (Ball)", ScoreBasic, 5, func(s *DexterityScores) **int { return &s.Test1S2SBall }},
	{"memory_test", "Memory test", ScoreBasic, 5, func(s *DexterityScores) **int { return &s.MemoryTest }},
	{"mind_hand_coordination", "Mind & hand co-ordination", ScoreBasic, 5, func(s *DexterityScores) **int { return &s.MindHandCoordination }},
	{"nerve_stability", "Nerve stability testing", ScoreBasic, 5, func(s *DexterityScores) **int { return &s.NerveStability }},
	{"material_identification", "Material identification", ScoreBasic, 5, func(s *DexterityScores) **int { return &s.MaterialIdentification }},
	{"pick_place_sequence", "Pick & Place material in sequence", ScoreBasic, 10, func(s *DexterityScores) **int { return &s.PickPlaceSequence }},
	{"pick_right_material", "Pick right material with right quantity", ScoreBasic, 5, func(s *DexterityScores) **int { return &s.PickRightMaterial }},
	{"visual_inspection", "Visual inspection", ScoreBasic, 5, func(s *DexterityScores) **int { return &s.VisualInspection }},
	{"defect_identification", "Defect identification", ScoreBasic, 15, func(s *DexterityScores) **int { return &s.DefectIdentification }},
	{"written_test", "Written test", ScoreBasic, 20, func(s *DexterityScores) **int { return &s.WrittenTest }},
	{"insert_loading_1", "Insert loading - 1", ScoreAdvanced, 10, func(s *DexterityScores) **int { return &s.InsertLoading1 }},
	{"insert_loading_2", "Insert loading - 2", ScoreAdvanced, 10, func(s *DexterityScores) **int { return &s.InsertLoading2 }},
	{"safety_test", "Safety test", ScoreAdvanced, 15, func(s *DexterityScores) **int { return &s.SafetyTest }},
	{"painting", "Painting", ScoreAdvanced, 15, func(s *DexterityScores) **int { return &s.Painting }},
	{"screw_assembly", "Screw assembly", ScoreAdvanced, 10, func(s *DexterityScores) **int { return &s.ScrewAssembly }},
	{"air_cleaner_assembly", "Air cleaner assembly", ScoreAdvanced, 10, func(s *DexterityScores) **int { return &s.AirCleanerAssembly }},
	{"msa_test", "MSA TEST", ScoreAdvanced, 15, func(s *DexterityScores) **int { return &s.MSATest }},
	{"deflashing", "Deflashing", ScoreAdvanced, 15, func(s *DexterityScores) **int { return &s.Deflashing }},
}

// ScoreFieldIndex returns the position of name in DexterityScoreFields, or -1.
func ScoreFieldIndex(name string) int {
	for i, f := range DexterityScoreFields {
		if f.Name == name {
			return i
		}
	}
	return -1
}

// Get returns the score stored for f.
func (f ScoreField) Get(s *DexterityScores) *int {
	return *f.ref(s)
}

// Set stores v for f.
func (f ScoreField) Set(s *DexterityScores, v *int) {
	*f.ref(s) = v
}

// Totals sums the non-null scores per band, the same way the backend derives
// basic_skills_total, advanced_skills_total and overall_score.
func (s DexterityScores) Totals() (basic, advanced, overall int) {
	for _, f := range DexterityScoreFields {
		v := f.Get(&s)
		if v == nil {
			continue
		}
		if f.Category == ScoreBasic {
			basic += *v
		} else {
			advanced += *v
		}
	}
	return basic, advanced, basic + advanced
}

// AgeOn returns the age in whole years of someone born on dob at the date today.
func AgeOn(dob, today time.Time) int {
	age := today.Year() - dob.Year()
	if today.Month() < dob.Month() || (today.Month() == dob.Month() && today.Day() < dob.Day()) {
		age--
	}
	return age
}
