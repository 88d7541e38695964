package domain

import "context"

// EmployeeRepository defines access to employees on the backend.
type EmployeeRepository interface {
	FindByEmpNo(ctx context.Context, empNo string) (*EmployeeAggregate, error)
	GetDetail(ctx context.Context, id int) (*EmployeeAggregate, error)
	Create(ctx context.Context, fields map[string]string, photo *Photo) (*Employee, error)
	Update(ctx context.Context, id int, fields map[string]string, photo *Photo) (*Employee, error)
	UploadPhoto(ctx context.Context, id int, photo *Photo) (*Employee, error)
	UpdateTrainingModules(ctx context.Context, employeeID int, updates []ModuleStatusUpdate) error
}

// RecordRepository is the CRUD surface shared by the per-employee collections.
type RecordRepository[T any] interface {
	Create(ctx context.Context, rec T) (*T, error)
	Update(ctx context.Context, id int, rec T) (*T, error)
	Delete(ctx context.Context, id int) error
	ListByEmployee(ctx context.Context, employeeID int) ([]T, error)
}

type (
	TrainingRecordRepository      = RecordRepository[TrainingRecord]
	OJTRecordRepository           = RecordRepository[OJTRecord]
	DexterityAssessmentRepository = RecordRepository[DexterityAssessment]
)

// PerformanceRecordRepository adds the sign-off actions to the performance
// record collection.
type PerformanceRecordRepository interface {
	RecordRepository[PerformanceRecord]
	ApproveSupervisor(ctx context.Context, id int) error
	CertifyPersonnel(ctx context.Context, id int) error
}

// EmployeeTrainingModuleRepository manages single module status rows.
type EmployeeTrainingModuleRepository interface {
	Create(ctx context.Context, in EmployeeTrainingModuleInput) (*EmployeeTrainingModule, error)
	Update(ctx context.Context, id int, in EmployeeTrainingModuleInput) (*EmployeeTrainingModule, error)
	Delete(ctx context.Context, id int) error
	ListByEmployee(ctx context.Context, employeeID int) ([]EmployeeTrainingModule, error)
}

// TrainingModuleRepository manages the module catalog.
type TrainingModuleRepository interface {
	List(ctx context.Context) ([]TrainingModule, error)
	Create(ctx context.Context, m TrainingModule) (*TrainingModule, error)
	Update(ctx context.Context, id int, m TrainingModule) (*TrainingModule, error)
	Delete(ctx context.Context, id int) error
}
