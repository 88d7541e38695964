package repository_test

import (
	"context"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/locvowork/employee_training_dashboard/internal/domain"
	"github.com/locvowork/employee_training_dashboard/internal/fakebackend"
	"github.com/locvowork/employee_training_dashboard/internal/repository"
)

func newClient(t *testing.T, b *fakebackend.Backend, token string) *repository.Client {
	t.Helper()
	c, err := repository.NewClient(repository.ClientConfig{
		BaseURL:   b.URL(),
		Timeout:   5 * time.Second,
		CSRFToken: token,
	})
	require.NoError(t, err)
	return c
}

func TestEmployeeRepository_FindByEmpNo(t *testing.T) {
	b := fakebackend.New()
	defer b.Close()
	id := b.Seed(domain.EmployeeAggregate{Employee: domain.Employee{EmpNo: "E001", Name: "Asha"}})
	repo := repository.NewEmployeeRepository(newClient(t, b, "tok"))
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		agg, err := repo.FindByEmpNo(ctx, " E001 ")
		require.NoError(t, err)
		assert.Equal(t, id, agg.ID)
		assert.Equal(t, "Asha", agg.Name)
		assert.Len(t, agg.TrainingModules, len(domain.DefaultTrainingModules))
	})

	t.Run("missing employee is ErrNotFound", func(t *testing.T) {
		_, err := repo.FindByEmpNo(ctx, "E404")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("blank key is a validation error", func(t *testing.T) {
		_, err := repo.FindByEmpNo(ctx, "  ")
		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, "emp_no")
	})
}

func TestEmployeeRepository_FindByEmpNo_ListShape(t *testing.T) {
	b := fakebackend.New()
	defer b.Close()
	id := b.Seed(domain.EmployeeAggregate{Employee: domain.Employee{EmpNo: "E010", Name: "Ravi"}})

	c, err := repository.NewClient(repository.ClientConfig{BaseURL: b.URL(), SearchPath: "employees/"})
	require.NoError(t, err)
	repo := repository.NewEmployeeRepository(c)

	agg, err := repo.FindByEmpNo(context.Background(), "E010")
	require.NoError(t, err)
	assert.Equal(t, id, agg.ID)
	assert.Equal(t, 1, b.Count(http.MethodGet, "/employees/:id/detail/"))

	_, err = repo.FindByEmpNo(context.Background(), "E011")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEmployeeRepository_CreateAndUpdate(t *testing.T) {
	b := fakebackend.New()
	defer b.Close()
	repo := repository.NewEmployeeRepository(newClient(t, b, "tok"))
	ctx := context.Background()

	photo := &domain.Photo{Filename: "me.png", ContentType: "image/png", Data: []byte("\x89PNG\r\n\x1a\n")}
	created, err := repo.Create(ctx, map[string]string{"emp_no": "E100", "name": "Meena", "age": "30"}, photo)
	require.NoError(t, err)
	require.NotZero(t, created.ID)
	require.NotNil(t, created.Age)
	assert.Equal(t, 30, *created.Age)

	calls := b.CallsTo(http.MethodPost, "/employees/")
	require.Len(t, calls, 1)
	assert.Equal(t, "E100", calls[0].Form["emp_no"])
	assert.Equal(t, "me.png", calls[0].FileName)
	assert.Equal(t, "tok", calls[0].Header.Get("X-CSRFToken"))
	assert.NotEmpty(t, calls[0].Header.Get("X-Request-ID"))

	updated, err := repo.Update(ctx, created.ID, map[string]string{"remarks": "good"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "good", updated.Remarks)
	assert.Equal(t, "E100", updated.EmpNo)

	_, err = repo.Create(ctx, map[string]string{"emp_no": "E100", "name": "Dup"}, nil)
	var apiErr *domain.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Contains(t, apiErr.Message, "emp_no: employee with this emp no already exists.")
}

func TestEmployeeRepository_UploadPhotoAndModules(t *testing.T) {
	b := fakebackend.New()
	defer b.Close()
	id := b.Seed(domain.EmployeeAggregate{Employee: domain.Employee{EmpNo: "E200"}})
	repo := repository.NewEmployeeRepository(newClient(t, b, "tok"))
	ctx := context.Background()

	emp, err := repo.UploadPhoto(ctx, id, &domain.Photo{Filename: "p.jpg", ContentType: "image/jpeg", Data: []byte{0xff, 0xd8, 0xff}})
	require.NoError(t, err)
	assert.Contains(t, emp.Photo, "p.jpg")

	today := "2024-03-01"
	err = repo.UpdateTrainingModules(ctx, id, []domain.ModuleStatusUpdate{{ModuleID: 3, Status: domain.ModuleStatusAccepted, CompletedDate: &today}})
	require.NoError(t, err)

	agg, ok := b.Employee(id)
	require.True(t, ok)
	row, found := agg.ModuleByID(3)
	require.True(t, found)
	assert.Equal(t, domain.ModuleStatusAccepted, row.Status)
	require.NotNil(t, row.CompletedDate)
	assert.Equal(t, today, *row.CompletedDate)
}

func TestClient_MissingCSRFCookieSendsEmptyHeader(t *testing.T) {
	b := fakebackend.New()
	defer b.Close()
	c := newClient(t, b, "")
	assert.Empty(t, c.CSRFToken())

	repo := repository.NewTrainingRecordRepository(c)
	_, err := repo.Create(context.Background(), domain.TrainingRecord{Employee: 99})
	require.Error(t, err)

	calls := b.CallsTo(http.MethodPost, "/training-records/")
	require.Len(t, calls, 1)
	values, present := calls[0].Header["X-Csrftoken"]
	assert.True(t, present)
	assert.Equal(t, []string{""}, values)
}

func TestClient_CSRFCookieFromBackend(t *testing.T) {
	b := fakebackend.New()
	defer b.Close()
	id := b.Seed(domain.EmployeeAggregate{Employee: domain.Employee{EmpNo: "E050"}})
	c := newClient(t, b, "")
	ctx := context.Background()

	_, err := repository.NewEmployeeRepository(c).FindByEmpNo(ctx, "E050")
	require.NoError(t, err)
	assert.Equal(t, fakebackend.CSRFToken, c.CSRFToken())

	_, err = repository.NewOJTRecordRepository(c).Create(ctx, domain.OJTRecord{Employee: id, ProductProcess: "Molding"})
	require.NoError(t, err)
	calls := b.CallsTo(http.MethodPost, "/ojt-records/")
	require.Len(t, calls, 1)
	assert.Equal(t, fakebackend.CSRFToken, calls[0].Header.Get("X-CSRFToken"))
}

func TestClient_ErrorDecoding(t *testing.T) {
	tests := map[string]struct {
		contentType string
		body        string
		want        string
	}{
		"error field":    {"application/json", `{"error":"Employee not found"}`, "Employee not found"},
		"drf detail":     {"application/json", `{"detail":"Not found."}`, "Not found."},
		"field errors":   {"application/json", `{"status":["bad choice"],"employee":["required"]}`, "employee: required; status: bad choice"},
		"html page":      {"text/html", "<html><body>Server Error (500)</body></html>", "create OJT record failed: <html><body>Server Error (500)</body></html>"},
		"broken json":    {"application/json", "{not json", "create OJT record failed: {not json"},
		"empty body":     {"application/json", "", "create OJT record failed"},
		"non-string err": {"application/json", `{"error":42}`, "create OJT record failed"},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			b := fakebackend.New()
			defer b.Close()
			b.FailOn(http.MethodPost, "/ojt-records/", http.StatusInternalServerError, tc.contentType, tc.body)

			repo := repository.NewOJTRecordRepository(newClient(t, b, "tok"))
			_, err := repo.Create(context.Background(), domain.OJTRecord{ProductProcess: "x"})

			var apiErr *domain.APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
			assert.Equal(t, tc.want, apiErr.Message)
		})
	}
}

func TestRecordRepositories_CRUD(t *testing.T) {
	b := fakebackend.New()
	defer b.Close()
	id := b.Seed(domain.EmployeeAggregate{Employee: domain.Employee{EmpNo: "E300"}})
	c := newClient(t, b, "tok")
	ctx := context.Background()

	trainings := repository.NewTrainingRecordRepository(c)
	rec, err := trainings.Create(ctx, domain.TrainingRecord{Employee: id, Date: "2024-02-01", TrainingProgram: "5S", Duration: "2h"})
	require.NoError(t, err)
	require.NotZero(t, rec.ID)

	rec.Duration = "3h"
	updated, err := trainings.Update(ctx, rec.ID, *rec)
	require.NoError(t, err)
	assert.Equal(t, "3h", updated.Duration)

	list, err := trainings.ListByEmployee(ctx, id)
	require.NoError(t, err)
	require.Len(t, list, 1)
	listCalls := b.CallsTo(http.MethodGet, "/training-records/")
	require.Len(t, listCalls, 1)
	assert.Equal(t, strconv.Itoa(id), listCalls[0].Query.Get("employee"))

	require.NoError(t, trainings.Delete(ctx, rec.ID))
	list, err = trainings.ListByEmployee(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, list)

	dex := repository.NewDexterityAssessmentRepository(c)
	five := 5
	a, err := dex.Create(ctx, domain.DexterityAssessment{Employee: id, DexterityScores: domain.DexterityScores{MemoryTest: &five}})
	require.NoError(t, err)
	require.NotNil(t, a.OverallScore)
	assert.Equal(t, 5, *a.OverallScore)
	assert.Nil(t, a.Painting)

	modules := repository.NewTrainingModuleRepository(c)
	all, err := modules.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, len(domain.DefaultTrainingModules))
}
