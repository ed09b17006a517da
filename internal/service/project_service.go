package service

import (
	"context"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/arima15/Employee-management/internal/apperror"
	"github.com/arima15/Employee-management/internal/models"
)

type ProjectService struct {
	projects  ProjectRepository
	employees EmployeeRepository
	logger    *zap.SugaredLogger
}

func NewProjectService(
	projects ProjectRepository,
	employees EmployeeRepository,
	logger *zap.SugaredLogger,
) *ProjectService {
	return &ProjectService{
		projects:  projects,
		employees: employees,
		logger:    logger,
	}
}

// List returns every project with its assigned employees resolved by reverse
// lookup through each employee's project set.
func (s *ProjectService) List(ctx context.Context) ([]*models.Project, error) {
	projects, err := s.projects.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	for _, project := range projects {
		if err := s.attachEmployees(ctx, project); err != nil {
			return nil, err
		}
	}
	return projects, nil
}

func (s *ProjectService) Get(ctx context.Context, id uint) (*models.Project, error) {
	project, err := s.projects.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load project: %w", err)
	}
	if project == nil {
		return nil, apperror.NotFound("project not found")
	}
	if err := s.attachEmployees(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

func (s *ProjectService) Create(ctx context.Context, input CreateProjectInput) (*models.Project, error) {
	name, err := normalizeRequiredString(input.Name, "name")
	if err != nil {
		return nil, err
	}

	project, err := s.projects.Create(ctx, &models.Project{Name: name})
	if err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}
	s.logger.Debugw("project created", "id", project.ID, "name", project.Name)
	return project, nil
}

func (s *ProjectService) Update(ctx context.Context, id uint, input UpdateProjectInput) (*models.Project, error) {
	if input.Name == nil {
		return nil, apperror.Validation("name is required")
	}
	name, err := normalizeRequiredString(*input.Name, "name")
	if err != nil {
		return nil, err
	}

	project, err := s.projects.Update(ctx, id, map[string]any{"name": name})
	if err != nil {
		return nil, fmt.Errorf("update project: %w", err)
	}
	if project == nil {
		return nil, apperror.NotFound("project not found")
	}
	if err := s.attachEmployees(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

// Delete removes the project only; employees keep its id in their project
// sets as a dangling reference that resolution skips.
func (s *ProjectService) Delete(ctx context.Context, id uint) error {
	removed, err := s.projects.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	if !removed {
		return apperror.NotFound("project not found")
	}
	return nil
}

func (s *ProjectService) attachEmployees(ctx context.Context, project *models.Project) error {
	employees, err := s.employees.FindAll(ctx)
	if err != nil {
		return fmt.Errorf("resolve project employees: %w", err)
	}

	assigned := make([]*models.Employee, 0)
	for _, employee := range employees {
		if slices.Contains(employee.ProjectIDs, project.ID) {
			assigned = append(assigned, employee)
		}
	}
	project.Employees = assigned
	return nil
}
