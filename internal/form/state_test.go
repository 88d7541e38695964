package form

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/locvowork/employee_training_dashboard/internal/domain"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func fixedClock(y int, m time.Month, d int) Clock {
	return func() time.Time { return time.Date(y, m, d, 10, 0, 0, 0, time.UTC) }
}

func intPtr(v int) *int { return &v }

func TestSetDateOfBirth_DerivesAge(t *testing.T) {
	tests := map[string]struct {
		dob     string
		wantAge string
	}{
		"birthday not reached yet": {"2000-06-15", "23"},
		"birthday already passed":  {"2000-01-01", "24"},
		"birthday today":           {"2000-01-10", "24"},
		"unparsable date":          {"15/06/2000", ""},
		"cleared":                  {"", ""},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			s := NewCreate(fixedClock(2024, time.January, 10))
			require.NoError(t, s.Dispatch(SetEmployeeField{Field: "age", Value: "99"}))
			require.NoError(t, s.Dispatch(SetDateOfBirth{Value: tc.dob}))

			got := s.Employee()
			assert.Equal(t, tc.dob, got.DOB)
			assert.Equal(t, tc.wantAge, got.Age)
		})
	}

	t.Run("dob through SetEmployeeField", func(t *testing.T) {
		s := NewCreate(fixedClock(2024, time.January, 10))
		require.NoError(t, s.Dispatch(SetEmployeeField{Field: "dob", Value: "2000-06-15"}))
		assert.Equal(t, "23", s.Employee().Age)
	})
}

func TestSelectPhoto(t *testing.T) {
	t.Run("accepts an image", func(t *testing.T) {
		s := NewCreate(nil)
		require.NoError(t, s.Dispatch(SelectPhoto{Filename: "a.png", Data: pngHeader}))
		require.NotNil(t, s.Photo())
		assert.Equal(t, "image/png", s.Photo().ContentType)
		assert.Equal(t, "a.png", s.Photo().Filename)
	})

	rejected := map[string][]byte{
		"too large": append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{0}, domain.MaxPhotoSize)...),
		"not image": []byte("just some text, not a picture"),
		"pdf":       []byte("%PDF-1.4\n%\xe2\xe3\xcf\xd3\n"),
		"empty":     {},
	}
	for name, data := range rejected {
		t.Run(name+" keeps previous photo", func(t *testing.T) {
			s := NewCreate(nil)
			require.NoError(t, s.Dispatch(SelectPhoto{Filename: "old.png", Data: pngHeader}))

			err := s.Dispatch(SelectPhoto{Filename: "new.bin", Data: data})
			var verr *domain.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Fields, "photo")
			require.NotNil(t, s.Photo())
			assert.Equal(t, "old.png", s.Photo().Filename)
		})
	}

	t.Run("clear", func(t *testing.T) {
		s := NewCreate(nil)
		require.NoError(t, s.Dispatch(SelectPhoto{Filename: "a.png", Data: pngHeader}))
		s.ClearPhoto()
		assert.Nil(t, s.Photo())

		s.ClearPhoto()
		assert.Nil(t, s.Photo())
	})
}

func TestValidate(t *testing.T) {
	t.Run("create mode requires the fixed field list", func(t *testing.T) {
		s := NewCreate(nil)
		err := s.Validate()
		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
		for _, name := range RequiredFields {
			assert.Contains(t, verr.Fields, name)
		}
		assert.Len(t, verr.Fields, len(RequiredFields))
	})

	t.Run("create mode passes when filled", func(t *testing.T) {
		s := filledCreate(t)
		assert.NoError(t, s.Validate())
	})

	t.Run("whitespace does not count", func(t *testing.T) {
		s := filledCreate(t)
		require.NoError(t, s.Dispatch(SetEmployeeField{Field: "name", Value: "   "}))
		var verr *domain.ValidationError
		require.ErrorAs(t, s.Validate(), &verr)
		assert.Equal(t, map[string]string{"name": "is required"}, verr.Fields)
	})

	t.Run("bad date format", func(t *testing.T) {
		s := filledCreate(t)
		require.NoError(t, s.Dispatch(SetEmployeeField{Field: "doj", Value: "01-02-2024"}))
		var verr *domain.ValidationError
		require.ErrorAs(t, s.Validate(), &verr)
		assert.Contains(t, verr.Fields, "doj")
	})

	t.Run("edit mode is never blocked", func(t *testing.T) {
		s := NewEdit(&domain.EmployeeAggregate{Employee: domain.Employee{ID: 7, EmpNo: "E7"}}, nil)
		require.NoError(t, s.Dispatch(SetEmployeeField{Field: "emp_no", Value: ""}))
		assert.NoError(t, s.Validate())
	})
}

func filledCreate(t *testing.T) *State {
	t.Helper()
	s := NewCreate(fixedClock(2024, time.January, 10))
	for field, value := range map[string]string{
		"emp_no":       "E100",
		"name":         "Kavya",
		"gender":       "Female",
		"dob":          "2000-06-15",
		"doj":          "2024-01-02",
		"plant":        "Plant 1",
		"area_of_work": "Assembly",
		"dept":         "Production",
		"category":     "Trainee",
	} {
		require.NoError(t, s.Dispatch(SetEmployeeField{Field: field, Value: value}))
	}
	return s
}

func TestEmployeePayload(t *testing.T) {
	t.Run("create defaults are coerced and empty fields skipped", func(t *testing.T) {
		s := filledCreate(t)
		payload, err := s.EmployeePayload()
		require.NoError(t, err)
		assert.Equal(t, "0", payload["training_days"])
		assert.Equal(t, "0", payload["overall_percent"])
		assert.Equal(t, "23", payload["age"])
		assert.Equal(t, "beginner", payload["skill_level"])
		assert.Equal(t, "pending", payload["sl3_status"])
		assert.NotContains(t, payload, "remarks")
		assert.NotContains(t, payload, "dol")
	})

	t.Run("non numeric value is rejected", func(t *testing.T) {
		s := filledCreate(t)
		require.NoError(t, s.Dispatch(SetEmployeeField{Field: "sl1_marks", Value: "ten"}))
		_, err := s.EmployeePayload()
		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, "sl1_marks")
	})

	t.Run("unknown field", func(t *testing.T) {
		s := NewCreate(nil)
		assert.Error(t, s.Dispatch(SetEmployeeField{Field: "salary", Value: "1"}))
	})
}

func TestGrids(t *testing.T) {
	agg := &domain.EmployeeAggregate{Employee: domain.Employee{ID: 3}}
	for i := 0; i < 7; i++ {
		agg.TrainingRecords = append(agg.TrainingRecords, domain.TrainingRecord{ID: 100 + i, Date: "2024-01-01", TrainingProgram: "P", Duration: "1h"})
	}
	agg.OJTRecords = []domain.OJTRecord{{ID: 200, ProductProcess: "Molding", Handling: domain.SignedMarker}}

	s := NewEdit(agg, nil)

	t.Run("training window is capped", func(t *testing.T) {
		rows := s.TrainingRows()
		require.Len(t, rows, TrainingWindow)
		assert.Equal(t, 104, rows[4].ID)
	})

	t.Run("ojt window is padded", func(t *testing.T) {
		rows := s.OJTRows()
		require.Len(t, rows, OJTWindow)
		assert.Equal(t, 200, rows[0].ID)
		assert.Equal(t, OJTRow{}, rows[3])
	})

	t.Run("blank create grids", func(t *testing.T) {
		c := NewCreate(nil)
		assert.Len(t, c.TrainingRows(), TrainingWindow)
		assert.Len(t, c.OJTRows(), OJTWindow)
	})

	t.Run("editing a padded row extends the list", func(t *testing.T) {
		c := NewCreate(nil)
		require.NoError(t, c.Dispatch(SetOJTField{Row: 2, Field: "product_process", Value: "Painting"}))
		rows := c.OJTRows()
		assert.Equal(t, "Painting", rows[2].ProductProcess)
		assert.False(t, rows[0].Filled())
		assert.True(t, rows[2].Filled())
	})

	t.Run("row outside the window", func(t *testing.T) {
		c := NewCreate(nil)
		assert.Error(t, c.Dispatch(SetTrainingRecordField{Row: TrainingWindow, Field: "date", Value: "2024-01-01"}))
		assert.Error(t, c.Dispatch(SetOJTField{Row: -1, Field: "others", Value: ""}))
	})

	t.Run("sign-off accepts only the marker", func(t *testing.T) {
		c := NewCreate(nil)
		require.NoError(t, c.Dispatch(SetOJTField{Row: 0, Field: "handling", Value: domain.SignedMarker}))
		require.NoError(t, c.Dispatch(SetOJTField{Row: 0, Field: "handling", Value: ""}))
		err := c.Dispatch(SetOJTField{Row: 0, Field: "handling", Value: "yes"})
		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
		require.NoError(t, c.Dispatch(SetOJTField{Row: 0, Field: "product_process", Value: "free text"}))
	})

	t.Run("training row completeness", func(t *testing.T) {
		c := NewCreate(nil)
		require.NoError(t, c.Dispatch(SetTrainingRecordField{Row: 0, Field: "date", Value: "2024-01-01"}))
		require.NoError(t, c.Dispatch(SetTrainingRecordField{Row: 0, Field: "training_program", Value: "Safety"}))
		assert.False(t, c.TrainingRows()[0].Complete())
		require.NoError(t, c.Dispatch(SetTrainingRecordField{Row: 0, Field: "duration", Value: "2h"}))
		assert.True(t, c.TrainingRows()[0].Complete())
	})
}

func TestDexterity(t *testing.T) {
	agg := &domain.EmployeeAggregate{
		Employee: domain.Employee{ID: 9},
		DexterityAssessments: []domain.DexterityAssessment{
			{ID: 1, CreatedAt: "2024-01-01T08:00:00Z", DexterityScores: domain.DexterityScores{MemoryTest: intPtr(1)}},
			{ID: 2, CreatedAt: "2024-03-01T08:00:00Z", DexterityScores: domain.DexterityScores{MemoryTest: intPtr(4), Painting: intPtr(12)}},
			{ID: 3, CreatedAt: "2024-02-01T08:00:00Z"},
		},
	}

	s := NewEdit(agg, nil)
	assert.Equal(t, 2, s.DexterityID())
	assert.Equal(t, "4", s.Dexterity().Get("memory_test"))
	assert.Equal(t, "12", s.Dexterity().Get("painting"))
	assert.Equal(t, "", s.Dexterity().Get("msa_test"))

	require.NoError(t, s.Dispatch(SetDexterityScore{Field: "painting", Value: ""}))
	require.NoError(t, s.Dispatch(SetDexterityScore{Field: "msa_test", Value: "abc"}))
	require.NoError(t, s.Dispatch(SetDexterityScore{Field: "deflashing", Value: " 7 "}))
	assert.Error(t, s.Dispatch(SetDexterityScore{Field: "juggling", Value: "1"}))

	a := s.Dexterity().Assessment(9, s.DexterityID())
	assert.Equal(t, 2, a.ID)
	assert.Equal(t, 9, a.Employee)
	assert.Nil(t, a.Painting)
	assert.Nil(t, a.MSATest)
	require.NotNil(t, a.Deflashing)
	assert.Equal(t, 7, *a.Deflashing)

	t.Run("no assessment", func(t *testing.T) {
		c := NewEdit(&domain.EmployeeAggregate{Employee: domain.Employee{ID: 1}}, nil)
		assert.Zero(t, c.DexterityID())
		assert.Equal(t, domain.DexterityScores{}, c.Dexterity().Scores())
	})
}
