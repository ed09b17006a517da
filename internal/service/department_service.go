package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/arima15/Employee-management/internal/apperror"
	"github.com/arima15/Employee-management/internal/models"
)

type DepartmentService struct {
	departments DepartmentRepository
	employees   EmployeeRepository
	logger      *zap.SugaredLogger
}

func NewDepartmentService(
	departments DepartmentRepository,
	employees EmployeeRepository,
	logger *zap.SugaredLogger,
) *DepartmentService {
	return &DepartmentService{
		departments: departments,
		employees:   employees,
		logger:      logger,
	}
}

// List returns every department with its employees resolved by reverse
// lookup over the employee store.
func (s *DepartmentService) List(ctx context.Context) ([]*models.Department, error) {
	departments, err := s.departments.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list departments: %w", err)
	}
	for _, department := range departments {
		if err := s.attachEmployees(ctx, department); err != nil {
			return nil, err
		}
	}
	return departments, nil
}

func (s *DepartmentService) Get(ctx context.Context, id uint) (*models.Department, error) {
	department, err := s.departments.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load department: %w", err)
	}
	if department == nil {
		return nil, apperror.NotFound("department not found")
	}
	if err := s.attachEmployees(ctx, department); err != nil {
		return nil, err
	}
	return department, nil
}

func (s *DepartmentService) Create(ctx context.Context, input CreateDepartmentInput) (*models.Department, error) {
	name, err := normalizeRequiredString(input.Name, "name")
	if err != nil {
		return nil, err
	}

	department, err := s.departments.Create(ctx, &models.Department{Name: name})
	if err != nil {
		return nil, fmt.Errorf("create department: %w", err)
	}
	s.logger.Debugw("department created", "id", department.ID, "name", department.Name)
	return department, nil
}

func (s *DepartmentService) Update(ctx context.Context, id uint, input UpdateDepartmentInput) (*models.Department, error) {
	if input.Name == nil {
		return nil, apperror.Validation("name is required")
	}
	name, err := normalizeRequiredString(*input.Name, "name")
	if err != nil {
		return nil, err
	}

	department, err := s.departments.Update(ctx, id, map[string]any{"name": name})
	if err != nil {
		return nil, fmt.Errorf("update department: %w", err)
	}
	if department == nil {
		return nil, apperror.NotFound("department not found")
	}
	if err := s.attachEmployees(ctx, department); err != nil {
		return nil, err
	}
	return department, nil
}

// Delete removes the department only. Employees that reference it keep their
// department_id; the dangling reference resolves to an absent relation on
// subsequent reads.
func (s *DepartmentService) Delete(ctx context.Context, id uint) error {
	removed, err := s.departments.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete department: %w", err)
	}
	if !removed {
		return apperror.NotFound("department not found")
	}
	return nil
}

func (s *DepartmentService) attachEmployees(ctx context.Context, department *models.Department) error {
	employees, err := s.employees.FindBy(ctx, map[string]any{"department_id": department.ID})
	if err != nil {
		return fmt.Errorf("resolve department employees: %w", err)
	}
	if employees == nil {
		employees = []*models.Employee{}
	}
	department.Employees = employees
	return nil
}
