package service

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/arima15/Employee-management/internal/apperror"
	"github.com/arima15/Employee-management/internal/models"
	"github.com/arima15/Employee-management/internal/repository"
)

type EmployeeService struct {
	employees           EmployeeRepository
	departments         DepartmentRepository
	projects            ProjectRepository
	searchCaseSensitive bool
	logger              *zap.SugaredLogger
}

func NewEmployeeService(
	employees EmployeeRepository,
	departments DepartmentRepository,
	projects ProjectRepository,
	searchCaseSensitive bool,
	logger *zap.SugaredLogger,
) *EmployeeService {
	return &EmployeeService{
		employees:           employees,
		departments:         departments,
		projects:            projects,
		searchCaseSensitive: searchCaseSensitive,
		logger:              logger,
	}
}

// List returns every employee with the department relation resolved. Project
// resolution is reserved for the single-employee detail read.
func (s *EmployeeService) List(ctx context.Context) ([]*models.Employee, error) {
	employees, err := s.employees.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	if err := s.attachDepartments(ctx, employees); err != nil {
		return nil, err
	}
	return employees, nil
}

func (s *EmployeeService) Get(ctx context.Context, id uint) (*models.Employee, error) {
	employee, err := s.employees.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load employee: %w", err)
	}
	if employee == nil {
		return nil, apperror.NotFound("employee not found")
	}
	if err := s.attachRelations(ctx, employee); err != nil {
		return nil, err
	}
	return employee, nil
}

// Search matches the query as a substring of the employee name. Surrounding
// quote characters are stripped from the query before matching; an empty
// query is a validation error, never "match all".
func (s *EmployeeService) Search(ctx context.Context, name string) ([]*models.Employee, error) {
	query := strings.Trim(strings.TrimSpace(name), `"'`)
	if query == "" {
		return nil, apperror.Validation("name query parameter is required")
	}

	employees, err := s.employees.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("search employees: %w", err)
	}

	matches := make([]*models.Employee, 0)
	for _, employee := range employees {
		if s.nameMatches(employee.Name, query) {
			matches = append(matches, employee)
		}
	}
	if err := s.attachDepartments(ctx, matches); err != nil {
		return nil, err
	}
	return matches, nil
}

func (s *EmployeeService) nameMatches(name, query string) bool {
	if s.searchCaseSensitive {
		return strings.Contains(name, query)
	}
	return strings.Contains(strings.ToLower(name), strings.ToLower(query))
}

func (s *EmployeeService) Create(ctx context.Context, input CreateEmployeeInput) (*models.Employee, error) {
	name, err := normalizeRequiredString(input.Name, "name")
	if err != nil {
		return nil, err
	}
	position, err := normalizeRequiredString(input.Position, "position")
	if err != nil {
		return nil, err
	}
	if input.Salary != nil && *input.Salary < 0 {
		return nil, apperror.Validation("salary must not be negative")
	}
	if input.DepartmentID != nil {
		if err := s.ensureDepartmentExists(ctx, *input.DepartmentID); err != nil {
			return nil, err
		}
	}

	employee := &models.Employee{
		Name:         name,
		Position:     position,
		Salary:       input.Salary,
		DepartmentID: input.DepartmentID,
		ProjectIDs:   []uint{},
		IsActive:     true,
		HireDate:     time.Now(),
	}
	if input.IsActive != nil {
		employee.IsActive = *input.IsActive
	}
	if input.HireDate != nil {
		employee.HireDate = *input.HireDate
	}

	created, err := s.employees.Create(ctx, employee)
	if err != nil {
		return nil, fmt.Errorf("create employee: %w", err)
	}
	s.logger.Debugw("employee created", "id", created.ID, "name", created.Name)
	if err := s.attachRelations(ctx, created); err != nil {
		return nil, err
	}
	return created, nil
}

func (s *EmployeeService) Update(ctx context.Context, id uint, input UpdateEmployeeInput) (*models.Employee, error) {
	existing, err := s.employees.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load employee: %w", err)
	}
	if existing == nil {
		return nil, apperror.NotFound("employee not found")
	}

	patch := map[string]any{}
	if input.Name != nil {
		name, err := normalizeRequiredString(*input.Name, "name")
		if err != nil {
			return nil, err
		}
		patch["name"] = name
	}
	if input.Position != nil {
		position, err := normalizeRequiredString(*input.Position, "position")
		if err != nil {
			return nil, err
		}
		patch["position"] = position
	}
	if input.Salary != nil {
		if *input.Salary < 0 {
			return nil, apperror.Validation("salary must not be negative")
		}
		patch["salary"] = *input.Salary
	}
	if input.DepartmentIDSet {
		if input.DepartmentID != nil {
			if err := s.ensureDepartmentExists(ctx, *input.DepartmentID); err != nil {
				return nil, err
			}
		}
		patch["department_id"] = input.DepartmentID
	}
	if input.IsActive != nil {
		patch["is_active"] = *input.IsActive
	}
	if input.HireDate != nil {
		patch["hire_date"] = *input.HireDate
	}

	if len(patch) == 0 {
		if err := s.attachRelations(ctx, existing); err != nil {
			return nil, err
		}
		return existing, nil
	}

	updated, err := s.employees.Update(ctx, id, patch)
	if err != nil {
		return nil, fmt.Errorf("update employee: %w", err)
	}
	if updated == nil {
		return nil, apperror.NotFound("employee not found")
	}
	if err := s.attachRelations(ctx, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *EmployeeService) Delete(ctx context.Context, id uint) error {
	removed, err := s.employees.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete employee: %w", err)
	}
	if !removed {
		return apperror.NotFound("employee not found")
	}
	return nil
}

// AssignProject adds the project to the employee's project set. Assignment is
// idempotent in effect: re-assigning an already-present project is rejected
// as a conflict and the set is left unchanged.
func (s *EmployeeService) AssignProject(ctx context.Context, employeeID, projectID uint) (*models.Employee, error) {
	if projectID == 0 {
		return nil, apperror.Validation("project_id is required")
	}

	employee, err := s.employees.FindByID(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("load employee: %w", err)
	}
	if employee == nil {
		return nil, apperror.NotFound("employee not found")
	}

	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("load project: %w", err)
	}
	if project == nil {
		return nil, apperror.NotFound("project not found")
	}

	if slices.Contains(employee.ProjectIDs, projectID) {
		return nil, apperror.Conflict("project already assigned to employee")
	}

	projectIDs := append(slices.Clone(employee.ProjectIDs), projectID)
	updated, err := s.employees.Update(ctx, employeeID, map[string]any{"project_ids": projectIDs})
	if err != nil {
		return nil, fmt.Errorf("assign project: %w", err)
	}
	if updated == nil {
		return nil, apperror.NotFound("employee not found")
	}
	if err := s.attachRelations(ctx, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *EmployeeService) UpdateSalary(ctx context.Context, id uint, salary float64) (*models.Employee, error) {
	if salary < 0 {
		return nil, apperror.Validation("salary must not be negative")
	}

	existing, err := s.employees.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load employee: %w", err)
	}
	if existing == nil {
		return nil, apperror.NotFound("employee not found")
	}

	updated, err := s.employees.Update(ctx, id, map[string]any{"salary": salary})
	if err != nil {
		return nil, fmt.Errorf("update salary: %w", err)
	}
	if updated == nil {
		return nil, apperror.NotFound("employee not found")
	}
	if err := s.attachDepartment(ctx, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *EmployeeService) Tenure(ctx context.Context, id uint) (TenureReport, error) {
	employee, err := s.employees.FindByID(ctx, id)
	if err != nil {
		return TenureReport{}, fmt.Errorf("load employee: %w", err)
	}
	if employee == nil {
		return TenureReport{}, apperror.NotFound("employee not found")
	}

	years, months := elapsedYearsMonths(employee.HireDate, time.Now())
	return TenureReport{
		EmployeeID: employee.ID,
		Name:       employee.Name,
		HireDate:   employee.HireDate,
		Years:      years,
		Months:     months,
	}, nil
}

func elapsedYearsMonths(from, to time.Time) (int, int) {
	years := to.Year() - from.Year()
	months := int(to.Month()) - int(from.Month())
	if to.Day() < from.Day() {
		months--
	}
	if months < 0 {
		years--
		months += 12
	}
	if years < 0 {
		return 0, 0
	}
	return years, months
}

func (s *EmployeeService) attachDepartments(ctx context.Context, employees []*models.Employee) error {
	for _, employee := range employees {
		if err := s.attachDepartment(ctx, employee); err != nil {
			return err
		}
	}
	return nil
}

func (s *EmployeeService) attachDepartment(ctx context.Context, employee *models.Employee) error {
	department, err := repository.ResolveOne(ctx, s.departments, employee.DepartmentID)
	if err != nil {
		return fmt.Errorf("resolve department: %w", err)
	}
	employee.Department = department
	return nil
}

func (s *EmployeeService) attachRelations(ctx context.Context, employee *models.Employee) error {
	if err := s.attachDepartment(ctx, employee); err != nil {
		return err
	}
	projects, err := repository.ResolveMany(ctx, s.projects, employee.ProjectIDs)
	if err != nil {
		return fmt.Errorf("resolve projects: %w", err)
	}
	employee.Projects = projects
	return nil
}

func (s *EmployeeService) ensureDepartmentExists(ctx context.Context, departmentID uint) error {
	department, err := s.departments.FindByID(ctx, departmentID)
	if err != nil {
		return fmt.Errorf("check department existence: %w", err)
	}
	if department == nil {
		return apperror.NotFound("department not found")
	}
	return nil
}

func normalizeRequiredString(raw string, field string) (string, error) {
	value := strings.TrimSpace(raw)
	length := utf8.RuneCountInString(value)
	if length < 1 || length > 200 {
		return "", apperror.Validation(fmt.Sprintf("%s length must be in range 1..200", field))
	}
	return value, nil
}
