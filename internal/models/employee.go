package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Employment types.
const (
	EmploymentFullTime = "full-time"
	EmploymentPartTime = "part-time"
	EmploymentContract = "contract"
)

// Department groups employees; ManagerID points at an employee.
type Department struct {
	ID          string    `json:"id" gorm:"primaryKey;size:36"`
	Name        string    `json:"name" gorm:"size:255;not null"`
	Code        string    `json:"code" gorm:"size:50;not null;uniqueIndex"`
	Description string    `json:"description" gorm:"type:text"`
	ManagerID   *string   `json:"managerId" gorm:"size:36"`
	IsActive    bool      `json:"isActive" gorm:"not null;default:true"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (d *Department) BeforeCreate(*gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	return nil
}

// Employee is the HR entity; UserID optionally links to a login identity.
type Employee struct {
	ID             string  `json:"id" gorm:"primaryKey;size:36"`
	UserID         *string `json:"userId" gorm:"size:36"`
	EmployeeNumber string  `json:"employeeNumber" gorm:"size:50;not null;uniqueIndex"`
	FirstName      string  `json:"firstName" gorm:"size:100;not null"`
	LastName       string  `json:"lastName" gorm:"size:100;not null"`
	Email          string  `json:"email" gorm:"size:255;not null"`
	Phone          string  `json:"phone" gorm:"size:50"`

	DepartmentID    *string    `json:"departmentId" gorm:"size:36;index"`
	Position        string     `json:"position" gorm:"size:255"`
	EmploymentType  string     `json:"employmentType" gorm:"size:50;not null;default:full-time"`
	HireDate        time.Time  `json:"hireDate" gorm:"not null"`
	TerminationDate *time.Time `json:"terminationDate"`

	Salary     *float64 `json:"salary" gorm:"type:decimal(12,2)"`
	SalaryType string   `json:"salaryType" gorm:"size:50;default:annual"`

	DateOfBirth      *time.Time `json:"dateOfBirth"`
	Address          string     `json:"address" gorm:"type:text"`
	City             string     `json:"city" gorm:"size:100"`
	State            string     `json:"state" gorm:"size:100"`
	Zip              string     `json:"zip" gorm:"size:20"`
	Country          string     `json:"country" gorm:"size:100"`
	EmergencyContact string     `json:"emergencyContact" gorm:"size:255"`
	EmergencyPhone   string     `json:"emergencyPhone" gorm:"size:50"`

	IsActive  bool      `json:"isActive" gorm:"not null;default:true"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	User       *User       `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Department *Department `json:"department,omitempty" gorm:"foreignKey:DepartmentID"`
}

func (e *Employee) BeforeCreate(*gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	return nil
}
