package store

import (
	"context"

	"gorm.io/gorm"

	"github.com/kytehq/kyte/internal/apperr"
	"github.com/kytehq/kyte/internal/models"
)

type EmployeesStore struct {
	db *gorm.DB
}

type EmployeeListParams struct {
	Page         int
	Limit        int
	DepartmentID string
	Search       string
}

func (s *EmployeesStore) List(ctx context.Context, p EmployeeListParams) ([]models.Employee, int64, error) {
	q := s.db.WithContext(ctx).Model(&models.Employee{})
	if p.DepartmentID != "" {
		q = q.Where("department_id = ?", p.DepartmentID)
	}
	if p.Search != "" {
		like := "%" + p.Search + "%"
		q = q.Where("first_name LIKE ? OR last_name LIKE ? OR email LIKE ? OR employee_number LIKE ?",
			like, like, like, like)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, translateRead(err, "employee")
	}
	var employees []models.Employee
	err := q.Preload("Department").
		Order("employee_number").
		Offset((p.Page - 1) * p.Limit).
		Limit(p.Limit).
		Find(&employees).Error
	if err != nil {
		return nil, 0, translateRead(err, "employee")
	}
	return employees, total, nil
}

func (s *EmployeesStore) GetByID(ctx context.Context, id string) (*models.Employee, error) {
	var employee models.Employee
	err := s.db.WithContext(ctx).Preload("Department").First(&employee, "id = ?", id).Error
	if err != nil {
		return nil, translateRead(err, "employee")
	}
	return &employee, nil
}

func (s *EmployeesStore) Create(ctx context.Context, employee *models.Employee) error {
	if employee.DepartmentID != nil {
		if err := s.departmentExists(ctx, *employee.DepartmentID); err != nil {
			return err
		}
	}
	if err := s.db.WithContext(ctx).Create(employee).Error; err != nil {
		return translateWrite(err, "employeeNumber", employee.EmployeeNumber, "departmentId")
	}
	return nil
}

func (s *EmployeesStore) Update(ctx context.Context, id string, fields map[string]any) (*models.Employee, error) {
	if raw, ok := fields["department_id"]; ok {
		if depID, ok := raw.(string); ok && depID != "" {
			if err := s.departmentExists(ctx, depID); err != nil {
				return nil, err
			}
		}
	}
	res := s.db.WithContext(ctx).Model(&models.Employee{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return nil, translateWrite(res.Error, "employeeNumber", "", "departmentId")
	}
	if res.RowsAffected == 0 {
		return nil, apperr.NotFound("employee")
	}
	return s.GetByID(ctx, id)
}

// --- Departments ---

// DepartmentSummary pairs a department with its headcount.
type DepartmentSummary struct {
	models.Department
	EmployeeCount int64 `json:"employeeCount"`
}

func (s *EmployeesStore) ListDepartments(ctx context.Context) ([]DepartmentSummary, error) {
	var departments []models.Department
	if err := s.db.WithContext(ctx).Order("code").Find(&departments).Error; err != nil {
		return nil, translateRead(err, "department")
	}
	summaries := make([]DepartmentSummary, 0, len(departments))
	for _, d := range departments {
		var count int64
		if err := s.db.WithContext(ctx).Model(&models.Employee{}).
			Where("department_id = ?", d.ID).Count(&count).Error; err != nil {
			return nil, translateRead(err, "employee")
		}
		summaries = append(summaries, DepartmentSummary{Department: d, EmployeeCount: count})
	}
	return summaries, nil
}

func (s *EmployeesStore) CreateDepartment(ctx context.Context, department *models.Department) error {
	if err := s.db.WithContext(ctx).Create(department).Error; err != nil {
		return translateWrite(err, "code", department.Code, "")
	}
	return nil
}

func (s *EmployeesStore) departmentExists(ctx context.Context, id string) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Department{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return translateRead(err, "department")
	}
	if count == 0 {
		return apperr.Referential("departmentId")
	}
	return nil
}
