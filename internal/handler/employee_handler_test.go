package handler_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/locvowork/employee_training_dashboard/internal/bootstrap"
	"github.com/locvowork/employee_training_dashboard/internal/domain"
	"github.com/locvowork/employee_training_dashboard/internal/fakebackend"
	"github.com/locvowork/employee_training_dashboard/internal/handler"
	"github.com/locvowork/employee_training_dashboard/internal/repository"
)

func clock() time.Time { return time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC) }

type envelope struct {
	Status  string            `json:"status"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Error   string            `json:"error"`
	Fields  map[string]string `json:"fields"`
}

func newServer(t *testing.T) (*echo.Echo, *fakebackend.Backend) {
	t.Helper()
	b := fakebackend.New()
	t.Cleanup(b.Close)

	c, err := repository.NewClient(repository.ClientConfig{BaseURL: b.URL(), Timeout: 5 * time.Second, CSRFToken: "tok"})
	require.NoError(t, err)
	svc := bootstrap.NewServices(c, clock, 1)

	h := handler.NewEmployeeHandler(svc.Search, svc.Save, svc.Modules, svc.Export, svc.Import, domain.DefaultTrainingModules, clock)
	ph := handler.NewPerformanceHandler(svc.Search, svc.Performance)
	e := echo.New()
	bootstrap.RegisterRoutes(e, h, ph)
	return e, b
}

func do(t *testing.T, e *echo.Echo, req *http.Request) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	var env envelope
	if strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func jsonRequest(method, target string, body interface{}) *http.Request {
	data, _ := json.Marshal(body)
	req := httptest.NewRequest(method, target, bytes.NewReader(data))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

var newEmployee = map[string]string{
	"emp_no":       "E500",
	"name":         "Meena",
	"gender":       "Female",
	"dob":          "1998-09-09",
	"doj":          "2024-01-02",
	"plant":        "Plant 3",
	"area_of_work": "Assembly",
	"dept":         "Production",
	"category":     "Trainee",
}

func TestEmployeeHandler_CreateAndLookup(t *testing.T) {
	e, b := newServer(t)

	rec, env := do(t, e, jsonRequest(http.MethodPost, "/api/employees", handler.SaveRequest{
		Employee: newEmployee,
		OJT:      []map[string]string{{"product_process": "Painting", "handling": "signed"}},
	}))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "Employee E500 created successfully", env.Message)

	var saved handler.SaveResponse
	require.NoError(t, json.Unmarshal(env.Data, &saved))
	assert.True(t, saved.Created)
	assert.Empty(t, saved.Errors)
	require.NotNil(t, saved.Employee)
	assert.Len(t, saved.Employee.OJTRecords, 1)
	assert.Equal(t, "25", b.CallsTo(http.MethodPost, "/employees/")[0].Form["age"])

	rec, env = do(t, e, httptest.NewRequest(http.MethodGet, "/api/employees/E500", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var agg domain.EmployeeAggregate
	require.NoError(t, json.Unmarshal(env.Data, &agg))
	assert.Equal(t, "Meena", agg.Name)

	rec, env = do(t, e, httptest.NewRequest(http.MethodGet, "/api/employees/E404", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "error", env.Status)
}

func TestEmployeeHandler_CreateValidation(t *testing.T) {
	e, b := newServer(t)

	rec, env := do(t, e, jsonRequest(http.MethodPost, "/api/employees", handler.SaveRequest{
		Employee: map[string]string{"emp_no": "E501"},
	}))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, env.Fields, "name")
	assert.Contains(t, env.Fields, "doj")
	assert.Empty(t, b.Calls())

	rec, env = do(t, e, jsonRequest(http.MethodPost, "/api/employees", handler.SaveRequest{
		Employee: newEmployee,
		OJT:      []map[string]string{{"handling": "yes"}},
	}))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, env.Fields, "handling")
}

func TestEmployeeHandler_CreateMultipartWithPhoto(t *testing.T) {
	e, b := newServer(t)

	payload, _ := json.Marshal(handler.SaveRequest{Employee: newEmployee})
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	require.NoError(t, w.WriteField("payload", string(payload)))
	part, err := w.CreateFormFile("photo", "meena.png")
	require.NoError(t, err)
	_, _ = part.Write([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"))
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/employees", &body)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	rec, _ := do(t, e, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "meena.png", b.CallsTo(http.MethodPost, "/employees/")[0].FileName)
}

func TestEmployeeHandler_UpdateAndModules(t *testing.T) {
	e, b := newServer(t)
	id := b.Seed(domain.EmployeeAggregate{Employee: domain.Employee{EmpNo: "E600", Name: "Kumar"}})

	rec, env := do(t, e, jsonRequest(http.MethodPatch, "/api/employees/E600", handler.SaveRequest{
		Employee:  map[string]string{"remarks": "good progress"},
		Dexterity: map[string]string{"memory_test": "7"},
	}))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Employee E600 updated successfully", env.Message)
	stored, _ := b.Employee(id)
	assert.Equal(t, "good progress", stored.Remarks)
	require.Len(t, stored.DexterityAssessments, 1)

	rec, env = do(t, e, httptest.NewRequest(http.MethodPost, "/api/employees/E600/modules/3/accept", nil))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var agg domain.EmployeeAggregate
	require.NoError(t, json.Unmarshal(env.Data, &agg))
	row, ok := agg.ModuleByID(3)
	require.True(t, ok)
	assert.Equal(t, domain.ModuleStatusAccepted, row.Status)
	require.NotNil(t, row.CompletedDate)
	assert.Equal(t, "2024-01-10", *row.CompletedDate)

	rec, _ = do(t, e, httptest.NewRequest(http.MethodPost, "/api/employees/E600/modules/3/approve", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = do(t, e, httptest.NewRequest(http.MethodPost, "/api/employees/E600/modules/99/deny", nil))
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	rec, env = do(t, e, httptest.NewRequest(http.MethodGet, "/api/view", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(env.Data), `"emp_no":"E600"`)
}

func TestEmployeeHandler_Export(t *testing.T) {
	e, b := newServer(t)
	b.Seed(domain.EmployeeAggregate{Employee: domain.Employee{EmpNo: "E700", Name: "Latha"}})

	rec, _ := do(t, e, httptest.NewRequest(http.MethodGet, "/api/employees/E700/export", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "training_card_E700.xlsx")
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")))
}

func TestEmployeeHandler_Import(t *testing.T) {
	e, b := newServer(t)

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", "employees.csv")
	require.NoError(t, err)
	_, _ = part.Write([]byte("emp_no,name,gender,dob,doj,plant,area_of_work,dept,category\n" +
		"E800,Ravi,Male,2000-01-01,2024-01-02,Plant 1,Assembly,Production,Trainee\n" +
		"E801,,Male,2000-01-01,2024-01-02,Plant 1,Assembly,Production,Trainee\n"))
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/employees/import", &body)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	rec, env := do(t, e, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var out handler.ImportResponse
	require.NoError(t, json.Unmarshal(env.Data, &out))
	assert.Equal(t, []string{"E800"}, out.Created)
	require.Len(t, out.Failures, 1)
	assert.Contains(t, out.Failures[0], "line 3 (E801)")
	assert.Equal(t, 1, b.Count(http.MethodPost, "/employees/"))
}

func TestEmployeeHandler_Modules(t *testing.T) {
	e, _ := newServer(t)
	rec, env := do(t, e, httptest.NewRequest(http.MethodGet, "/api/modules", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var modules []domain.TrainingModule
	require.NoError(t, json.Unmarshal(env.Data, &modules))
	assert.Len(t, modules, 12)
}

func TestEmployeeHandler_ModuleRow(t *testing.T) {
	e, b := newServer(t)
	b.Seed(domain.EmployeeAggregate{Employee: domain.Employee{EmpNo: "E650", Name: "Nila"}})

	rec, env := do(t, e, jsonRequest(http.MethodPut, "/api/employees/E650/modules/2", map[string]interface{}{
		"status":         "accepted",
		"completed_date": "2024-01-05",
	}))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var agg domain.EmployeeAggregate
	require.NoError(t, json.Unmarshal(env.Data, &agg))
	row, ok := agg.ModuleByID(2)
	require.True(t, ok)
	require.NotNil(t, row.ID)
	assert.Equal(t, domain.ModuleStatusAccepted, row.Status)
	assert.Equal(t, "2024-01-05", *row.CompletedDate)
	assert.Equal(t, 1, b.Count(http.MethodPost, "/employee-training-modules/"))

	rec, env = do(t, e, jsonRequest(http.MethodPut, "/api/employees/E650/modules/2", map[string]interface{}{"status": "finished"}))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, env.Fields, "status")

	rec, env = do(t, e, httptest.NewRequest(http.MethodDelete, "/api/employees/E650/modules/2", nil))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NoError(t, json.Unmarshal(env.Data, &agg))
	row, _ = agg.ModuleByID(2)
	assert.Nil(t, row.ID)
	assert.Equal(t, domain.ModuleStatusPending, row.Status)

	rec, _ = do(t, e, httptest.NewRequest(http.MethodDelete, "/api/employees/E650/modules/x", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
