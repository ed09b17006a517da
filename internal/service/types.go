package service

import (
	"context"
	"time"

	"github.com/arima15/Employee-management/internal/models"
	"github.com/arima15/Employee-management/internal/repository"
)

// Repository instantiations the services are constructed with. Services
// depend only on this capability, never on a concrete backend.
type (
	EmployeeRepository   = repository.Repository[models.Employee, *models.Employee]
	DepartmentRepository = repository.Repository[models.Department, *models.Department]
	ProjectRepository    = repository.Repository[models.Project, *models.Project]
)

type CreateEmployeeInput struct {
	Name         string
	Position     string
	Salary       *float64
	DepartmentID *uint
	IsActive     *bool
	HireDate     *time.Time
}

// UpdateEmployeeInput carries only the fields the caller supplied; nil means
// "leave unchanged". DepartmentIDSet distinguishes an explicit null, which
// clears the reference, from an absent field.
type UpdateEmployeeInput struct {
	Name            *string
	Position        *string
	Salary          *float64
	DepartmentIDSet bool
	DepartmentID    *uint
	IsActive        *bool
	HireDate        *time.Time
}

type CreateDepartmentInput struct {
	Name string
}

type UpdateDepartmentInput struct {
	Name *string
}

type CreateProjectInput struct {
	Name string
}

type UpdateProjectInput struct {
	Name *string
}

type TenureReport struct {
	EmployeeID uint      `json:"employee_id"`
	Name       string    `json:"name"`
	HireDate   time.Time `json:"hire_date"`
	Years      int       `json:"years"`
	Months     int       `json:"months"`
}

type EmployeeManager interface {
	List(ctx context.Context) ([]*models.Employee, error)
	Get(ctx context.Context, id uint) (*models.Employee, error)
	Search(ctx context.Context, name string) ([]*models.Employee, error)
	Create(ctx context.Context, input CreateEmployeeInput) (*models.Employee, error)
	Update(ctx context.Context, id uint, input UpdateEmployeeInput) (*models.Employee, error)
	Delete(ctx context.Context, id uint) error
	AssignProject(ctx context.Context, employeeID, projectID uint) (*models.Employee, error)
	UpdateSalary(ctx context.Context, id uint, salary float64) (*models.Employee, error)
	Tenure(ctx context.Context, id uint) (TenureReport, error)
}

type DepartmentManager interface {
	List(ctx context.Context) ([]*models.Department, error)
	Get(ctx context.Context, id uint) (*models.Department, error)
	Create(ctx context.Context, input CreateDepartmentInput) (*models.Department, error)
	Update(ctx context.Context, id uint, input UpdateDepartmentInput) (*models.Department, error)
	Delete(ctx context.Context, id uint) error
}

type ProjectManager interface {
	List(ctx context.Context) ([]*models.Project, error)
	Get(ctx context.Context, id uint) (*models.Project, error)
	Create(ctx context.Context, input CreateProjectInput) (*models.Project, error)
	Update(ctx context.Context, id uint, input UpdateProjectInput) (*models.Project, error)
	Delete(ctx context.Context, id uint) error
}
