package models

// Project employees are derived by reverse lookup through each employee's
// project_ids set and are never persisted.
type Project struct {
	ID        uint        `json:"id" gorm:"primaryKey"`
	Name      string      `json:"name" gorm:"type:varchar(200);not null"`
	Employees []*Employee `json:"employees,omitempty" gorm:"-"`
}

func (p *Project) EntityID() uint { return p.ID }

func (p *Project) SetEntityID(id uint) { p.ID = id }
