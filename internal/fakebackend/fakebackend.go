// Package fakebackend is an in-memory stand-in for the training REST backend,
// served by echo under httptest. It records every call it receives.
package fakebackend

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/locvowork/employee_training_dashboard/internal/domain"
)

// CSRFToken is the cookie value set on every employee search response.
const CSRFToken = "fake-csrf-token"

// Call is one recorded request.
type Call struct {
	Method   string
	Route    string
	Path     string
	Query    url.Values
	Header   http.Header
	Form     map[string]string
	FileName string
	Body     []byte
}

// JSON decodes the recorded body into v.
func (c Call) JSON(v interface{}) error {
	return json.Unmarshal(c.Body, v)
}

type failure struct {
	method      string
	route       string
	status      int
	contentType string
	body        string
}

// Backend holds employees with their collections and serves them over HTTP.
type Backend struct {
	Server *httptest.Server

	mu        sync.Mutex
	calls     []Call
	failures  []failure
	employees map[int]*domain.EmployeeAggregate
	modules   []domain.TrainingModule
	nextID    int
	clock     time.Time
}

// New starts a backend seeded with the default module catalog.
func New() *Backend {
	b := &Backend{
		employees: make(map[int]*domain.EmployeeAggregate),
		nextID:    1,
		clock:     time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC),
	}
	for i, m := range domain.DefaultTrainingModules {
		m.ID = i + 1
		b.modules = append(b.modules, m)
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(b.record)

	e.GET("/employee_search/", b.searchEmployee)
	e.GET("/employees/", b.listEmployees)
	e.POST("/employees/", b.createEmployee)
	e.PATCH("/employees/:id/", b.updateEmployee)
	e.GET("/employees/:id/detail/", b.employeeDetail)
	e.POST("/employees/:id/upload_photo/", b.uploadPhoto)
	e.POST("/employees/:id/update_training_modules/", b.updateTrainingModules)

	registerRecords(e, b, "/training-records/", func(a *domain.EmployeeAggregate) *[]domain.TrainingRecord { return &a.TrainingRecords },
		func(r *domain.TrainingRecord) (*int, int) { return &r.ID, r.Employee }, nil)
	registerRecords(e, b, "/ojt-records/", func(a *domain.EmployeeAggregate) *[]domain.OJTRecord { return &a.OJTRecords },
		func(r *domain.OJTRecord) (*int, int) { return &r.ID, r.Employee }, nil)
	registerRecords(e, b, "/dexterity-assessments/", func(a *domain.EmployeeAggregate) *[]domain.DexterityAssessment { return &a.DexterityAssessments },
		func(r *domain.DexterityAssessment) (*int, int) { return &r.ID, r.Employee }, b.stampAssessment)
	registerRecords(e, b, "/performance-records/", func(a *domain.EmployeeAggregate) *[]domain.PerformanceRecord { return &a.PerformanceRecords },
		func(r *domain.PerformanceRecord) (*int, int) { return &r.ID, r.Employee }, b.stampPerformance)
	e.POST("/performance-records/:id/approve_supervisor/", b.performanceAction("Approved by supervisor", func(r *domain.PerformanceRecord) {
		r.SupervisorApproved = true
	}))
	e.POST("/performance-records/:id/certify_personnel/", b.performanceAction("Certified by personnel", func(r *domain.PerformanceRecord) {
		r.PersonnelCertified = true
	}))

	e.GET("/training-modules/", b.listModules)
	e.POST("/training-modules/", b.createModule)
	e.PUT("/training-modules/:id/", b.updateModule)
	e.DELETE("/training-modules/:id/", b.deleteModule)
	e.GET("/employee-training-modules/", b.listEmployeeModules)
	e.POST("/employee-training-modules/", b.createEmployeeModule)
	e.PUT("/employee-training-modules/:id/", b.updateEmployeeModule)
	e.DELETE("/employee-training-modules/:id/", b.deleteEmployeeModule)

	b.Server = httptest.NewServer(e)
	return b
}

// URL is the base URL clients should be configured with.
func (b *Backend) URL() string {
	return b.Server.URL + "/"
}

// Close shuts the server down.
func (b *Backend) Close() {
	b.Server.Close()
}

// FailOn forces every request matching method and route to answer status.
func (b *Backend) FailOn(method, route string, status int, contentType, body string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures = append(b.failures, failure{method, route, status, contentType, body})
}

// Calls returns a copy of the recorded calls.
func (b *Backend) Calls() []Call {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Call, len(b.calls))
	copy(out, b.calls)
	return out
}

// CallsTo returns the calls that hit method on route, e.g. "/employees/:id/".
func (b *Backend) CallsTo(method, route string) []Call {
	var out []Call
	for _, c := range b.Calls() {
		if c.Method == method && c.Route == route {
			out = append(out, c)
		}
	}
	return out
}

// Count is len(CallsTo(method, route)).
func (b *Backend) Count(method, route string) int {
	return len(b.CallsTo(method, route))
}

// ResetCalls drops the recorded calls.
func (b *Backend) ResetCalls() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls = nil
}

// Seed stores agg, assigning ids where missing, and returns the employee id.
func (b *Backend) Seed(agg domain.EmployeeAggregate) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	if agg.ID == 0 {
		agg.ID = b.allocID()
	}
	for i := range agg.TrainingRecords {
		agg.TrainingRecords[i].Employee = agg.ID
		if agg.TrainingRecords[i].ID == 0 {
			agg.TrainingRecords[i].ID = b.allocID()
		}
	}
	for i := range agg.OJTRecords {
		agg.OJTRecords[i].Employee = agg.ID
		if agg.OJTRecords[i].ID == 0 {
			agg.OJTRecords[i].ID = b.allocID()
		}
	}
	for i := range agg.DexterityAssessments {
		agg.DexterityAssessments[i].Employee = agg.ID
		if agg.DexterityAssessments[i].ID == 0 {
			agg.DexterityAssessments[i].ID = b.allocID()
		}
	}
	for i := range agg.PerformanceRecords {
		agg.PerformanceRecords[i].Employee = agg.ID
		if agg.PerformanceRecords[i].ID == 0 {
			agg.PerformanceRecords[i].ID = b.allocID()
		}
	}
	if agg.TrainingModules == nil {
		agg.TrainingModules = b.pendingModules()
	}
	b.employees[agg.ID] = &agg
	return agg.ID
}

// Employee returns a deep copy of the stored aggregate.
func (b *Backend) Employee(id int) (domain.EmployeeAggregate, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	agg, ok := b.employees[id]
	if !ok {
		return domain.EmployeeAggregate{}, false
	}
	return cloneAggregate(agg), true
}

func (b *Backend) allocID() int {
	id := b.nextID
	b.nextID++
	return id
}

func (b *Backend) tick() string {
	b.clock = b.clock.Add(time.Minute)
	return b.clock.Format(time.RFC3339)
}

func (b *Backend) pendingModules() []domain.EmployeeTrainingModule {
	out := make([]domain.EmployeeTrainingModule, 0, len(b.modules))
	for _, m := range b.modules {
		out = append(out, domain.EmployeeTrainingModule{Module: m, Status: domain.ModuleStatusPending})
	}
	return out
}

func (b *Backend) record(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		call := Call{
			Method: req.Method,
			Route:  c.Path(),
			Path:   req.URL.Path,
			Query:  req.URL.Query(),
			Header: req.Header.Clone(),
		}

		mt, _, _ := mime.ParseMediaType(req.Header.Get("Content-Type"))
		if mt == "multipart/form-data" {
			if err := req.ParseMultipartForm(32 << 20); err != nil {
				return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
			}
			call.Form = make(map[string]string)
			for k, v := range req.MultipartForm.Value {
				if len(v) > 0 {
					call.Form[k] = v[0]
				}
			}
			if fh := req.MultipartForm.File["photo"]; len(fh) > 0 {
				call.FileName = fh[0].Filename
			}
		} else if req.Body != nil {
			body, _ := io.ReadAll(req.Body)
			req.Body = io.NopCloser(bytes.NewReader(body))
			call.Body = body
		}

		b.mu.Lock()
		b.calls = append(b.calls, call)
		var forced *failure
		for i := range b.failures {
			f := b.failures[i]
			if f.method == call.Method && f.route == call.Route {
				forced = &f
				break
			}
		}
		b.mu.Unlock()

		if forced != nil {
			return c.Blob(forced.status, forced.contentType, []byte(forced.body))
		}
		return next(c)
	}
}

func notFound(c echo.Context, msg string) error {
	return c.JSON(http.StatusNotFound, map[string]string{"error": msg})
}

func pathID(c echo.Context) (int, error) {
	return strconv.Atoi(c.Param("id"))
}

func (b *Backend) searchEmployee(c echo.Context) error {
	c.SetCookie(&http.Cookie{Name: "csrftoken", Value: CSRFToken, Path: "/"})
	empNo := c.QueryParam("emp_no")
	if empNo == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Employee number is required"})
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, agg := range b.employees {
		if agg.EmpNo == empNo {
			return c.JSON(http.StatusOK, agg)
		}
	}
	return notFound(c, "Employee not found")
}

func (b *Backend) listEmployees(c echo.Context) error {
	empNo := c.QueryParam("emp_no")
	b.mu.Lock()
	defer b.mu.Unlock()
	out := []domain.Employee{}
	for _, agg := range b.employees {
		if empNo == "" || agg.EmpNo == empNo {
			out = append(out, agg.Employee)
		}
	}
	return c.JSON(http.StatusOK, out)
}

func (b *Backend) employeeDetail(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return notFound(c, "Employee not found")
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	agg, ok := b.employees[id]
	if !ok {
		return notFound(c, "Employee not found")
	}
	return c.JSON(http.StatusOK, agg)
}

func (b *Backend) createEmployee(c echo.Context) error {
	form := formValues(c)
	for _, name := range []string{"emp_no", "name"} {
		if form[name] == "" {
			return c.JSON(http.StatusBadRequest, map[string][]string{name: {"This field is required."}})
		}
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, agg := range b.employees {
		if agg.EmpNo == form["emp_no"] {
			return c.JSON(http.StatusBadRequest, map[string][]string{"emp_no": {"employee with this emp no already exists."}})
		}
	}
	agg := &domain.EmployeeAggregate{}
	if err := applyForm(&agg.Employee, form); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	agg.ID = b.allocID()
	agg.CreatedAt = b.tick()
	agg.UpdatedAt = agg.CreatedAt
	if name := photoName(c); name != "" {
		agg.Photo = "/media/employee_photos/" + name
	}
	agg.TrainingModules = b.pendingModules()
	agg.TrainingRecords = []domain.TrainingRecord{}
	agg.OJTRecords = []domain.OJTRecord{}
	agg.DexterityAssessments = []domain.DexterityAssessment{}
	agg.PerformanceRecords = []domain.PerformanceRecord{}
	b.employees[agg.ID] = agg
	return c.JSON(http.StatusCreated, agg.Employee)
}

func (b *Backend) updateEmployee(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return notFound(c, "Employee not found")
	}
	form := formValues(c)
	b.mu.Lock()
	defer b.mu.Unlock()
	agg, ok := b.employees[id]
	if !ok {
		return notFound(c, "Employee not found")
	}
	if err := applyForm(&agg.Employee, form); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	if name := photoName(c); name != "" {
		agg.Photo = "/media/employee_photos/" + name
	}
	agg.UpdatedAt = b.tick()
	return c.JSON(http.StatusOK, agg.Employee)
}

func (b *Backend) uploadPhoto(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return notFound(c, "Employee not found")
	}
	name := photoName(c)
	if name == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "No photo provided"})
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	agg, ok := b.employees[id]
	if !ok {
		return notFound(c, "Employee not found")
	}
	agg.Photo = "/media/employee_photos/" + name
	return c.JSON(http.StatusOK, map[string]interface{}{"message": "Photo uploaded successfully", "employee": agg.Employee})
}

func (b *Backend) updateTrainingModules(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return notFound(c, "Employee not found")
	}
	var req struct {
		Updates []domain.ModuleStatusUpdate `json:"updates"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	agg, ok := b.employees[id]
	if !ok {
		return notFound(c, "Employee not found")
	}
	for _, u := range req.Updates {
		found := false
		for i := range agg.TrainingModules {
			row := &agg.TrainingModules[i]
			if row.Module.ID != u.ModuleID {
				continue
			}
			found = true
			if row.ID == nil {
				rowID := b.allocID()
				row.ID = &rowID
			}
			row.Status = u.Status
			row.CompletedDate = u.CompletedDate
		}
		if !found {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("unknown module %d", u.ModuleID)})
		}
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Training modules updated successfully"})
}

// stampAssessment fills the read-only fields. prev is the stored row on
// update and nil on create.
func (b *Backend) stampAssessment(a, prev *domain.DexterityAssessment) {
	basic, advanced, overall := a.Totals()
	a.BasicSkillsTotal, a.AdvancedSkillsTotal, a.OverallScore = &basic, &advanced, &overall
	now := b.tick()
	a.CreatedAt = now
	if prev != nil {
		a.CreatedAt = prev.CreatedAt
	}
	a.UpdatedAt = now
}

// stampPerformance keeps created_at across updates.
func (b *Backend) stampPerformance(r, prev *domain.PerformanceRecord) {
	now := b.tick()
	r.CreatedAt = now
	if prev != nil {
		r.CreatedAt = prev.CreatedAt
	}
	r.UpdatedAt = now
}

func (b *Backend) performanceAction(message string, apply func(*domain.PerformanceRecord)) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := pathID(c)
		if err != nil {
			return notFound(c, "Not found.")
		}
		b.mu.Lock()
		defer b.mu.Unlock()
		for _, agg := range b.employees {
			for i := range agg.PerformanceRecords {
				if agg.PerformanceRecords[i].ID == id {
					apply(&agg.PerformanceRecords[i])
					agg.PerformanceRecords[i].UpdatedAt = b.tick()
					return c.JSON(http.StatusOK, map[string]string{"message": message})
				}
			}
		}
		return notFound(c, "Not found.")
	}
}

// registerRecords mounts list/create/update/delete for one employee collection.
func registerRecords[T any](
	e *echo.Echo,
	b *Backend,
	prefix string,
	coll func(*domain.EmployeeAggregate) *[]T,
	keys func(*T) (id *int, employee int),
	hook func(rec, prev *T),
) {
	e.GET(prefix, func(c echo.Context) error {
		empID, _ := strconv.Atoi(c.QueryParam("employee"))
		b.mu.Lock()
		defer b.mu.Unlock()
		out := []T{}
		for id, agg := range b.employees {
			if empID == 0 || id == empID {
				out = append(out, *coll(agg)...)
			}
		}
		return c.JSON(http.StatusOK, out)
	})

	e.POST(prefix, func(c echo.Context) error {
		var rec T
		if err := c.Bind(&rec); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		b.mu.Lock()
		defer b.mu.Unlock()
		id, empID := keys(&rec)
		agg, ok := b.employees[empID]
		if !ok {
			return c.JSON(http.StatusBadRequest, map[string][]string{"employee": {"Invalid pk - object does not exist."}})
		}
		*id = b.allocID()
		if hook != nil {
			hook(&rec, nil)
		}
		*coll(agg) = append(*coll(agg), rec)
		return c.JSON(http.StatusCreated, rec)
	})

	e.PUT(prefix+":id/", func(c echo.Context) error {
		id, err := pathID(c)
		if err != nil {
			return notFound(c, "Not found.")
		}
		var rec T
		if err := c.Bind(&rec); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		b.mu.Lock()
		defer b.mu.Unlock()
		for _, agg := range b.employees {
			rows := coll(agg)
			for i := range *rows {
				existing, _ := keys(&(*rows)[i])
				if *existing != id {
					continue
				}
				recID, _ := keys(&rec)
				*recID = id
				if hook != nil {
					hook(&rec, &(*rows)[i])
				}
				(*rows)[i] = rec
				return c.JSON(http.StatusOK, rec)
			}
		}
		return notFound(c, "Not found.")
	})

	e.DELETE(prefix+":id/", func(c echo.Context) error {
		id, err := pathID(c)
		if err != nil {
			return notFound(c, "Not found.")
		}
		b.mu.Lock()
		defer b.mu.Unlock()
		for _, agg := range b.employees {
			rows := coll(agg)
			for i := range *rows {
				existing, _ := keys(&(*rows)[i])
				if *existing == id {
					*rows = append((*rows)[:i], (*rows)[i+1:]...)
					return c.NoContent(http.StatusNoContent)
				}
			}
		}
		return notFound(c, "Not found.")
	})
}

func (b *Backend) listModules(c echo.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return c.JSON(http.StatusOK, b.modules)
}

func (b *Backend) createModule(c echo.Context) error {
	var m domain.TrainingModule
	if err := c.Bind(&m); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, existing := range b.modules {
		if existing.SNo == m.SNo {
			return c.JSON(http.StatusBadRequest, map[string][]string{"s_no": {"training module with this s no already exists."}})
		}
	}
	m.ID = len(b.modules) + 1
	b.modules = append(b.modules, m)
	return c.JSON(http.StatusCreated, m)
}

func (b *Backend) updateModule(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return notFound(c, "Not found.")
	}
	var m domain.TrainingModule
	if err := c.Bind(&m); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.modules {
		if b.modules[i].ID == id {
			m.ID = id
			b.modules[i] = m
			return c.JSON(http.StatusOK, m)
		}
	}
	return notFound(c, "Not found.")
}

func (b *Backend) deleteModule(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return notFound(c, "Not found.")
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.modules {
		if b.modules[i].ID == id {
			b.modules = append(b.modules[:i], b.modules[i+1:]...)
			return c.NoContent(http.StatusNoContent)
		}
	}
	return notFound(c, "Not found.")
}

func (b *Backend) listEmployeeModules(c echo.Context) error {
	empID, _ := strconv.Atoi(c.QueryParam("employee"))
	b.mu.Lock()
	defer b.mu.Unlock()
	out := []domain.EmployeeTrainingModule{}
	if agg, ok := b.employees[empID]; ok {
		for _, row := range agg.TrainingModules {
			if row.ID != nil {
				out = append(out, row)
			}
		}
	}
	return c.JSON(http.StatusOK, out)
}

// moduleRow finds the status row of catalog module id for employee. Caller
// holds b.mu.
func (b *Backend) moduleRow(employee int, moduleID string) (*domain.EmployeeTrainingModule, error) {
	agg, ok := b.employees[employee]
	if !ok {
		return nil, fmt.Errorf("Invalid pk \"%d\" - object does not exist.", employee)
	}
	id, err := strconv.Atoi(strings.TrimSpace(moduleID))
	if err != nil {
		return nil, fmt.Errorf("Invalid module id %q.", moduleID)
	}
	for i := range agg.TrainingModules {
		if agg.TrainingModules[i].Module.ID == id {
			return &agg.TrainingModules[i], nil
		}
	}
	return nil, fmt.Errorf("Invalid pk \"%d\" - object does not exist.", id)
}

// rowByID finds a stored status row. Caller holds b.mu.
func (b *Backend) rowByID(id int) *domain.EmployeeTrainingModule {
	for _, agg := range b.employees {
		for i := range agg.TrainingModules {
			row := &agg.TrainingModules[i]
			if row.ID != nil && *row.ID == id {
				return row
			}
		}
	}
	return nil
}

func (b *Backend) createEmployeeModule(c echo.Context) error {
	var in domain.EmployeeTrainingModuleInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	row, err := b.moduleRow(in.Employee, in.ModuleID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string][]string{"module_id": {err.Error()}})
	}
	if row.ID != nil {
		return c.JSON(http.StatusBadRequest, map[string][]string{"non_field_errors": {"The fields employee, module must make a unique set."}})
	}
	id := b.allocID()
	row.ID = &id
	row.Status = in.Status
	row.CompletedDate = in.CompletedDate
	return c.JSON(http.StatusCreated, row)
}

func (b *Backend) updateEmployeeModule(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return notFound(c, "Not found.")
	}
	var in domain.EmployeeTrainingModuleInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	row := b.rowByID(id)
	if row == nil {
		return notFound(c, "Not found.")
	}
	row.Status = in.Status
	row.CompletedDate = in.CompletedDate
	return c.JSON(http.StatusOK, row)
}

// deleteEmployeeModule drops the stored row; the detail view reports the
// module as pending again.
func (b *Backend) deleteEmployeeModule(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return notFound(c, "Not found.")
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	row := b.rowByID(id)
	if row == nil {
		return notFound(c, "Not found.")
	}
	row.ID = nil
	row.Status = domain.ModuleStatusPending
	row.CompletedDate = nil
	return c.NoContent(http.StatusNoContent)
}

func formValues(c echo.Context) map[string]string {
	out := make(map[string]string)
	if form := c.Request().MultipartForm; form != nil {
		for k, v := range form.Value {
			if len(v) > 0 {
				out[k] = v[0]
			}
		}
	}
	return out
}

func photoName(c echo.Context) string {
	form := c.Request().MultipartForm
	if form == nil || len(form.File["photo"]) == 0 {
		return ""
	}
	return form.File["photo"][0].Filename
}

// applyForm merges multipart string values into e the way the backend
// serializer would, converting the numeric fields.
func applyForm(e *domain.Employee, form map[string]string) error {
	current, err := json.Marshal(e)
	if err != nil {
		return err
	}
	merged := make(map[string]interface{})
	if err := json.Unmarshal(current, &merged); err != nil {
		return err
	}
	for k, v := range form {
		switch domain.EmployeeFieldKinds[k] {
		case domain.FieldInt:
			i, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				return fmt.Errorf("%s: A valid integer is required.", k)
			}
			merged[k] = i
		default:
			merged[k] = v
		}
	}
	data, err := json.Marshal(merged)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, e)
}

func cloneAggregate(agg *domain.EmployeeAggregate) domain.EmployeeAggregate {
	data, _ := json.Marshal(agg)
	var out domain.EmployeeAggregate
	_ = json.Unmarshal(data, &out)
	return out
}
