package repository

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/locvowork/employee_training_dashboard/internal/domain"
)

// resource is the standard CRUD surface of one backend collection.
type resource[T any] struct {
	c    *Client
	path string
	name string
}

func newResource[T any](c *Client, path, name string) resource[T] {
	return resource[T]{c: c, path: path, name: name}
}

func (r resource[T]) itemPath(id int) string {
	return fmt.Sprintf("%s%d/", r.path, id)
}

func (r resource[T]) create(ctx context.Context, body interface{}) (*T, error) {
	var out T
	if err := r.c.do(r.c.newJSONRequest(ctx, body), http.MethodPost, r.path, "create "+r.name, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r resource[T]) update(ctx context.Context, id int, body interface{}) (*T, error) {
	var out T
	if err := r.c.do(r.c.newJSONRequest(ctx, body), http.MethodPut, r.itemPath(id), "update "+r.name, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r resource[T]) list(ctx context.Context, query map[string]string) ([]T, error) {
	var out []T
	req := r.c.newRequest(ctx, false)
	if len(query) > 0 {
		req.SetQueryParams(query)
	}
	if err := r.c.do(req, http.MethodGet, r.path, "list "+r.name, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r resource[T]) delete(ctx context.Context, id int) error {
	return r.c.do(r.c.newRequest(ctx, true), http.MethodDelete, r.itemPath(id), "delete "+r.name, nil)
}

// action posts to a detail route such as "<path><id>/approve_supervisor/".
func (r resource[T]) action(ctx context.Context, id int, name string) error {
	return r.c.do(r.c.newRequest(ctx, true), http.MethodPost, r.itemPath(id)+name+"/", name+" "+r.name, nil)
}

// recordRepository serves the per-employee collections that share one shape.
type recordRepository[T any] struct {
	res resource[T]
}

func (r *recordRepository[T]) Create(ctx context.Context, rec T) (*T, error) {
	return r.res.create(ctx, rec)
}

func (r *recordRepository[T]) Update(ctx context.Context, id int, rec T) (*T, error) {
	return r.res.update(ctx, id, rec)
}

func (r *recordRepository[T]) Delete(ctx context.Context, id int) error {
	return r.res.delete(ctx, id)
}

func (r *recordRepository[T]) ListByEmployee(ctx context.Context, employeeID int) ([]T, error) {
	return r.res.list(ctx, map[string]string{"employee": strconv.Itoa(employeeID)})
}

// NewTrainingRecordRepository creates the training-records client.
func NewTrainingRecordRepository(c *Client) domain.TrainingRecordRepository {
	return &recordRepository[domain.TrainingRecord]{res: newResource[domain.TrainingRecord](c, "training-records/", "training record")}
}

// NewOJTRecordRepository creates the ojt-records client.
func NewOJTRecordRepository(c *Client) domain.OJTRecordRepository {
	return &recordRepository[domain.OJTRecord]{res: newResource[domain.OJTRecord](c, "ojt-records/", "OJT record")}
}

// NewDexterityAssessmentRepository creates the dexterity-assessments client.
func NewDexterityAssessmentRepository(c *Client) domain.DexterityAssessmentRepository {
	return &recordRepository[domain.DexterityAssessment]{res: newResource[domain.DexterityAssessment](c, "dexterity-assessments/", "dexterity assessment")}
}

type performanceRecordRepository struct {
	recordRepository[domain.PerformanceRecord]
}

// NewPerformanceRecordRepository creates the performance-records client.
func NewPerformanceRecordRepository(c *Client) domain.PerformanceRecordRepository {
	return &performanceRecordRepository{
		recordRepository[domain.PerformanceRecord]{res: newResource[domain.PerformanceRecord](c, "performance-records/", "performance record")},
	}
}

func (r *performanceRecordRepository) ApproveSupervisor(ctx context.Context, id int) error {
	return r.res.action(ctx, id, "approve_supervisor")
}

func (r *performanceRecordRepository) CertifyPersonnel(ctx context.Context, id int) error {
	return r.res.action(ctx, id, "certify_personnel")
}
