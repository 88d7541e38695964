package repository

import (
	"context"
	"strconv"

	"github.com/locvowork/employee_training_dashboard/internal/domain"
)

type trainingModuleRepository struct {
	res resource[domain.TrainingModule]
}

// NewTrainingModuleRepository creates the training-modules catalog client.
func NewTrainingModuleRepository(c *Client) domain.TrainingModuleRepository {
	return &trainingModuleRepository{res: newResource[domain.TrainingModule](c, "training-modules/", "training module")}
}

func (r *trainingModuleRepository) List(ctx context.Context) ([]domain.TrainingModule, error) {
	return r.res.list(ctx, nil)
}

func (r *trainingModuleRepository) Create(ctx context.Context, m domain.TrainingModule) (*domain.TrainingModule, error) {
	return r.res.create(ctx, m)
}

func (r *trainingModuleRepository) Update(ctx context.Context, id int, m domain.TrainingModule) (*domain.TrainingModule, error) {
	return r.res.update(ctx, id, m)
}

func (r *trainingModuleRepository) Delete(ctx context.Context, id int) error {
	return r.res.delete(ctx, id)
}

type employeeTrainingModuleRepository struct {
	res resource[domain.EmployeeTrainingModule]
}

// NewEmployeeTrainingModuleRepository creates the employee-training-modules client.
func NewEmployeeTrainingModuleRepository(c *Client) domain.EmployeeTrainingModuleRepository {
	return &employeeTrainingModuleRepository{
		res: newResource[domain.EmployeeTrainingModule](c, "employee-training-modules/", "employee training module"),
	}
}

func (r *employeeTrainingModuleRepository) Create(ctx context.Context, in domain.EmployeeTrainingModuleInput) (*domain.EmployeeTrainingModule, error) {
	return r.res.create(ctx, in)
}

func (r *employeeTrainingModuleRepository) Update(ctx context.Context, id int, in domain.EmployeeTrainingModuleInput) (*domain.EmployeeTrainingModule, error) {
	return r.res.update(ctx, id, in)
}

func (r *employeeTrainingModuleRepository) Delete(ctx context.Context, id int) error {
	return r.res.delete(ctx, id)
}

func (r *employeeTrainingModuleRepository) ListByEmployee(ctx context.Context, employeeID int) ([]domain.EmployeeTrainingModule, error) {
	return r.res.list(ctx, map[string]string{"employee": strconv.Itoa(employeeID)})
}
