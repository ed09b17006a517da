package models

import "time"

// Employee holds the department relation by id and the project relation as a
// set of ids on the employee side. Department and Projects are populated by
// relation resolution on reads and are never persisted.
type Employee struct {
	ID           uint        `json:"id" gorm:"primaryKey"`
	Name         string      `json:"name" gorm:"type:varchar(200);not null"`
	Position     string      `json:"position" gorm:"type:varchar(200);not null"`
	Salary       *float64    `json:"salary,omitempty"`
	DepartmentID *uint       `json:"department_id,omitempty" gorm:"index"`
	Department   *Department `json:"department,omitempty" gorm:"-"`
	ProjectIDs   []uint      `json:"project_ids" gorm:"serializer:json;type:jsonb"`
	Projects     []*Project  `json:"projects,omitempty" gorm:"-"`
	IsActive     bool        `json:"is_active"`
	HireDate     time.Time   `json:"hire_date"`
}

func (e *Employee) EntityID() uint { return e.ID }

func (e *Employee) SetEntityID(id uint) { e.ID = id }
