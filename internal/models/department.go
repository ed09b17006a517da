package models

// Department employees are derived by reverse lookup over the employee
// store's department_id and are never persisted.
type Department struct {
	ID        uint        `json:"id" gorm:"primaryKey"`
	Name      string      `json:"name" gorm:"type:varchar(200);not null"`
	Employees []*Employee `json:"employees,omitempty" gorm:"-"`
}

func (d *Department) EntityID() uint { return d.ID }

func (d *Department) SetEntityID(id uint) { d.ID = id }
