package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"

	"github.com/locvowork/employee_training_dashboard/internal/domain"
)

type employeeRepository struct {
	c *Client
}

// NewEmployeeRepository creates a new instance of EmployeeRepository
func NewEmployeeRepository(c *Client) domain.EmployeeRepository {
	return &employeeRepository{c: c}
}

// FindByEmpNo accepts both shapes the backend answers with: a single detail
// object from the search endpoint, or a list from the filtered collection.
func (r *employeeRepository) FindByEmpNo(ctx context.Context, empNo string) (*domain.EmployeeAggregate, error) {
	empNo = strings.TrimSpace(empNo)
	if empNo == "" {
		return nil, domain.NewValidationError("emp_no", "employee number is required")
	}

	var raw json.RawMessage
	req := r.c.newRequest(ctx, false).SetQueryParam("emp_no", empNo)
	if err := r.c.do(req, http.MethodGet, r.c.searchPath, "search employee", &raw); err != nil {
		if isStatus(err, http.StatusNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	body := bytes.TrimSpace(raw)
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return nil, domain.ErrNotFound
	}

	if body[0] == '[' {
		var list []domain.Employee
		if err := json.Unmarshal(body, &list); err != nil {
			return nil, errors.Wrap(err, "decode employee search result")
		}
		for _, e := range list {
			if e.EmpNo == empNo {
				return r.GetDetail(ctx, e.ID)
			}
		}
		return nil, domain.ErrNotFound
	}

	var agg domain.EmployeeAggregate
	if err := json.Unmarshal(body, &agg); err != nil {
		return nil, errors.Wrap(err, "decode employee search result")
	}
	if agg.ID == 0 {
		return nil, domain.ErrNotFound
	}
	return &agg, nil
}

func (r *employeeRepository) GetDetail(ctx context.Context, id int) (*domain.EmployeeAggregate, error) {
	var agg domain.EmployeeAggregate
	path := fmt.Sprintf("employees/%d/detail/", id)
	if err := r.c.do(r.c.newRequest(ctx, false), http.MethodGet, path, "get employee detail", &agg); err != nil {
		if isStatus(err, http.StatusNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &agg, nil
}

func (r *employeeRepository) Create(ctx context.Context, fields map[string]string, photo *domain.Photo) (*domain.Employee, error) {
	var out domain.Employee
	if err := r.c.do(r.multipart(ctx, fields, photo), http.MethodPost, "employees/", "create employee", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *employeeRepository) Update(ctx context.Context, id int, fields map[string]string, photo *domain.Photo) (*domain.Employee, error) {
	var out domain.Employee
	path := fmt.Sprintf("employees/%d/", id)
	if err := r.c.do(r.multipart(ctx, fields, photo), http.MethodPatch, path, "update employee", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *employeeRepository) UploadPhoto(ctx context.Context, id int, photo *domain.Photo) (*domain.Employee, error) {
	if photo == nil {
		return nil, domain.NewValidationError("photo", "no photo selected")
	}
	var out struct {
		Message  string          `json:"message"`
		Employee domain.Employee `json:"employee"`
	}
	path := fmt.Sprintf("employees/%d/upload_photo/", id)
	if err := r.c.do(r.multipart(ctx, nil, photo), http.MethodPost, path, "upload photo", &out); err != nil {
		return nil, err
	}
	return &out.Employee, nil
}

func (r *employeeRepository) UpdateTrainingModules(ctx context.Context, employeeID int, updates []domain.ModuleStatusUpdate) error {
	body := map[string]interface{}{"updates": updates}
	path := fmt.Sprintf("employees/%d/update_training_modules/", employeeID)
	return r.c.do(r.c.newJSONRequest(ctx, body), http.MethodPost, path, "update training modules", nil)
}

func (r *employeeRepository) multipart(ctx context.Context, fields map[string]string, photo *domain.Photo) *resty.Request {
	req := r.c.newRequest(ctx, true)
	if len(fields) > 0 {
		req.SetMultipartFormData(fields)
	}
	if photo != nil {
		req.SetMultipartField("photo", photo.Filename, photo.ContentType, bytes.NewReader(photo.Data))
	}
	return req
}
