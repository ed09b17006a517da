package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/arima15/Employee-management/internal/apperror"
	"github.com/arima15/Employee-management/internal/service"
)

type Handler struct {
	employees   service.EmployeeManager
	departments service.DepartmentManager
	projects    service.ProjectManager
	logger      *zap.SugaredLogger
}

func NewHandler(
	employees service.EmployeeManager,
	departments service.DepartmentManager,
	projects service.ProjectManager,
	logger *zap.SugaredLogger,
) *Handler {
	return &Handler{
		employees:   employees,
		departments: departments,
		projects:    projects,
		logger:      logger,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) == 0 {
		writeError(w, http.StatusNotFound, "route not found")
		return
	}

	switch parts[0] {
	case "employees":
		h.serveEmployees(w, r, parts)
	case "departments":
		h.serveDepartments(w, r, parts)
	case "projects":
		h.serveProjects(w, r, parts)
	default:
		writeError(w, http.StatusNotFound, "route not found")
	}
}

func (h *Handler) serveEmployees(w http.ResponseWriter, r *http.Request, parts []string) {
	switch {
	case len(parts) == 1:
		switch r.Method {
		case http.MethodGet:
			h.handleListEmployees(w, r)
		case http.MethodPost:
			h.handleCreateEmployee(w, r)
		default:
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		}
		return

	case len(parts) == 2 && parts[1] == "search":
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		h.handleSearchEmployees(w, r)
		return

	case len(parts) == 2:
		employeeID, err := parseUintID(parts[1])
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid employee id")
			return
		}

		switch r.Method {
		case http.MethodGet:
			h.handleGetEmployee(w, r, employeeID)
		case http.MethodPut:
			h.handleUpdateEmployee(w, r, employeeID)
		case http.MethodDelete:
			h.handleDeleteEmployee(w, r, employeeID)
		default:
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		}
		return

	case len(parts) == 3:
		employeeID, err := parseUintID(parts[1])
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid employee id")
			return
		}

		switch {
		case parts[2] == "projects" && r.Method == http.MethodPost:
			h.handleAssignProject(w, r, employeeID)
		case parts[2] == "salary" && r.Method == http.MethodPut:
			h.handleUpdateSalary(w, r, employeeID)
		case parts[2] == "tenure" && r.Method == http.MethodGet:
			h.handleEmployeeTenure(w, r, employeeID)
		case parts[2] == "projects" || parts[2] == "salary" || parts[2] == "tenure":
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		default:
			writeError(w, http.StatusNotFound, "route not found")
		}
		return
	}

	writeError(w, http.StatusNotFound, "route not found")
}

func (h *Handler) serveDepartments(w http.ResponseWriter, r *http.Request, parts []string) {
	switch {
	case len(parts) == 1:
		switch r.Method {
		case http.MethodGet:
			h.handleListDepartments(w, r)
		case http.MethodPost:
			h.handleCreateDepartment(w, r)
		default:
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		}
		return

	case len(parts) == 2:
		departmentID, err := parseUintID(parts[1])
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid department id")
			return
		}

		switch r.Method {
		case http.MethodGet:
			h.handleGetDepartment(w, r, departmentID)
		case http.MethodPut:
			h.handleUpdateDepartment(w, r, departmentID)
		case http.MethodDelete:
			h.handleDeleteDepartment(w, r, departmentID)
		default:
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		}
		return
	}

	writeError(w, http.StatusNotFound, "route not found")
}

func (h *Handler) serveProjects(w http.ResponseWriter, r *http.Request, parts []string) {
	switch {
	case len(parts) == 1:
		switch r.Method {
		case http.MethodGet:
			h.handleListProjects(w, r)
		case http.MethodPost:
			h.handleCreateProject(w, r)
		default:
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		}
		return

	case len(parts) == 2:
		projectID, err := parseUintID(parts[1])
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid project id")
			return
		}

		switch r.Method {
		case http.MethodGet:
			h.handleGetProject(w, r, projectID)
		case http.MethodPut:
			h.handleUpdateProject(w, r, projectID)
		case http.MethodDelete:
			h.handleDeleteProject(w, r, projectID)
		default:
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		}
		return
	}

	writeError(w, http.StatusNotFound, "route not found")
}

type createEmployeeRequest struct {
	Name         string   `json:"name"`
	Position     string   `json:"position"`
	Salary       *float64 `json:"salary"`
	DepartmentID *uint    `json:"department_id"`
	IsActive     *bool    `json:"is_active"`
	HireDate     *string  `json:"hire_date"`
}

type updateEmployeeRequest struct {
	Name         *string      `json:"name"`
	Position     *string      `json:"position"`
	Salary       *float64     `json:"salary"`
	DepartmentID optionalUint `json:"department_id"`
	IsActive     *bool        `json:"is_active"`
	HireDate     *string      `json:"hire_date"`
}

type assignProjectRequest struct {
	ProjectID *uint `json:"project_id"`
}

type updateSalaryRequest struct {
	Salary *float64 `json:"salary"`
}

type departmentRequest struct {
	Name string `json:"name"`
}

type updateDepartmentRequest struct {
	Name *string `json:"name"`
}

type projectRequest struct {
	Name string `json:"name"`
}

type updateProjectRequest struct {
	Name *string `json:"name"`
}

func (h *Handler) handleListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.employees.List(r.Context())
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, employees)
}

func (h *Handler) handleSearchEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.employees.Search(r.Context(), r.URL.Query().Get("name"))
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, employees)
}

func (h *Handler) handleGetEmployee(w http.ResponseWriter, r *http.Request, employeeID uint) {
	employee, err := h.employees.Get(r.Context(), employeeID)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, employee)
}

func (h *Handler) handleCreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req createEmployeeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	hireDate, err := parseDate(req.HireDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	employee, err := h.employees.Create(r.Context(), service.CreateEmployeeInput{
		Name:         req.Name,
		Position:     req.Position,
		Salary:       req.Salary,
		DepartmentID: req.DepartmentID,
		IsActive:     req.IsActive,
		HireDate:     hireDate,
	})
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, employee)
}

func (h *Handler) handleUpdateEmployee(w http.ResponseWriter, r *http.Request, employeeID uint) {
	var req updateEmployeeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	hireDate, err := parseDate(req.HireDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	employee, err := h.employees.Update(r.Context(), employeeID, service.UpdateEmployeeInput{
		Name:            req.Name,
		Position:        req.Position,
		Salary:          req.Salary,
		DepartmentIDSet: req.DepartmentID.Set,
		DepartmentID:    req.DepartmentID.Value,
		IsActive:        req.IsActive,
		HireDate:        hireDate,
	})
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, employee)
}

func (h *Handler) handleDeleteEmployee(w http.ResponseWriter, r *http.Request, employeeID uint) {
	if err := h.employees.Delete(r.Context(), employeeID); err != nil {
		h.respondWithError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleAssignProject(w http.ResponseWriter, r *http.Request, employeeID uint) {
	var req assignProjectRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.ProjectID == nil {
		writeError(w, http.StatusBadRequest, "project_id is required")
		return
	}

	employee, err := h.employees.AssignProject(r.Context(), employeeID, *req.ProjectID)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, employee)
}

func (h *Handler) handleUpdateSalary(w http.ResponseWriter, r *http.Request, employeeID uint) {
	var req updateSalaryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Salary == nil {
		writeError(w, http.StatusBadRequest, "salary is required")
		return
	}

	employee, err := h.employees.UpdateSalary(r.Context(), employeeID, *req.Salary)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, employee)
}

func (h *Handler) handleEmployeeTenure(w http.ResponseWriter, r *http.Request, employeeID uint) {
	report, err := h.employees.Tenure(r.Context(), employeeID)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *Handler) handleListDepartments(w http.ResponseWriter, r *http.Request) {
	departments, err := h.departments.List(r.Context())
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, departments)
}

func (h *Handler) handleGetDepartment(w http.ResponseWriter, r *http.Request, departmentID uint) {
	department, err := h.departments.Get(r.Context(), departmentID)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, department)
}

func (h *Handler) handleCreateDepartment(w http.ResponseWriter, r *http.Request) {
	var req departmentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	department, err := h.departments.Create(r.Context(), service.CreateDepartmentInput{Name: req.Name})
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, department)
}

func (h *Handler) handleUpdateDepartment(w http.ResponseWriter, r *http.Request, departmentID uint) {
	var req updateDepartmentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	department, err := h.departments.Update(r.Context(), departmentID, service.UpdateDepartmentInput{Name: req.Name})
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, department)
}

func (h *Handler) handleDeleteDepartment(w http.ResponseWriter, r *http.Request, departmentID uint) {
	if err := h.departments.Delete(r.Context(), departmentID); err != nil {
		h.respondWithError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.projects.List(r.Context())
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, projects)
}

func (h *Handler) handleGetProject(w http.ResponseWriter, r *http.Request, projectID uint) {
	project, err := h.projects.Get(r.Context(), projectID)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, project)
}

func (h *Handler) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var req projectRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	project, err := h.projects.Create(r.Context(), service.CreateProjectInput{Name: req.Name})
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, project)
}

func (h *Handler) handleUpdateProject(w http.ResponseWriter, r *http.Request, projectID uint) {
	var req updateProjectRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	project, err := h.projects.Update(r.Context(), projectID, service.UpdateProjectInput{Name: req.Name})
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, project)
}

func (h *Handler) handleDeleteProject(w http.ResponseWriter, r *http.Request, projectID uint) {
	if err := h.projects.Delete(r.Context(), projectID); err != nil {
		h.respondWithError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) respondWithError(w http.ResponseWriter, err error) {
	switch apperror.GetCode(err) {
	case apperror.CodeValidation:
		writeError(w, http.StatusBadRequest, err.Error())
	case apperror.CodeNotFound:
		writeError(w, http.StatusNotFound, err.Error())
	case apperror.CodeConflict:
		writeError(w, http.StatusConflict, err.Error())
	default:
		h.logger.Errorw("unexpected error", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func decodeJSON(r *http.Request, target interface{}) error {
	if r.Body == nil {
		return errors.New("request body is required")
	}

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(target); err != nil {
		return errors.New("invalid JSON body")
	}

	var extra json.RawMessage
	if err := decoder.Decode(&extra); err != io.EOF {
		return errors.New("invalid JSON body")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{
		"error": message,
	})
}

func parseUintID(raw string) (uint, error) {
	id64, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id64 == 0 {
		return 0, errors.New("invalid id")
	}
	return uint(id64), nil
}

func parseDate(raw *string) (*time.Time, error) {
	if raw == nil {
		return nil, nil
	}

	value := strings.TrimSpace(*raw)
	if value == "" {
		return nil, errors.New("hire_date must be in YYYY-MM-DD format")
	}

	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, errors.New("hire_date must be in YYYY-MM-DD format")
	}

	return &parsed, nil
}

type optionalUint struct {
	Set   bool
	Value *uint
}

func (o *optionalUint) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(data, []byte("null")) {
		o.Value = nil
		return nil
	}

	var value uint
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	o.Value = &value
	return nil
}
