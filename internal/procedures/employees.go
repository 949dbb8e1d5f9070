package procedures

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/kytehq/kyte/internal/apperr"
	"github.com/kytehq/kyte/internal/models"
	"github.com/kytehq/kyte/internal/rpc"
	"github.com/kytehq/kyte/internal/store"
	"github.com/kytehq/kyte/internal/validation"
)

var employmentTypes = []string{
	models.EmploymentFullTime,
	models.EmploymentPartTime,
	models.EmploymentContract,
}

const hireDateLayout = "2006-01-02"

func registerEmployees(r *rpc.Router, st *store.Stores) {
	r.Query("employees.list", func(ctx *rpc.Ctx, raw json.RawMessage) (any, error) {
		var in struct {
			pageInput
			DepartmentID *string `json:"departmentId"`
			Search       string  `json:"search"`
		}
		if err := rpc.Decode(raw, &in); err != nil {
			return nil, err
		}
		v := validation.Violations{}
		in.normalize(v)
		validation.OptionalUUID("departmentId", in.DepartmentID, v)
		if !v.Empty() {
			return nil, apperr.Validation(v)
		}
		params := store.EmployeeListParams{Page: in.Page, Limit: in.Limit, Search: in.Search}
		if in.DepartmentID != nil {
			params.DepartmentID = *in.DepartmentID
		}
		employees, total, err := st.Employees.List(ctx, params)
		if err != nil {
			return nil, err
		}
		return listResult{Items: employees, Total: total, Page: in.Page, Limit: in.Limit}, nil
	})

	r.Query("employees.getById", func(ctx *rpc.Ctx, raw json.RawMessage) (any, error) {
		var in struct {
			ID string `json:"id"`
		}
		if err := rpc.Decode(raw, &in); err != nil {
			return nil, err
		}
		v := validation.Violations{}
		validation.UUID("id", in.ID, v)
		if !v.Empty() {
			return nil, apperr.Validation(v)
		}
		return st.Employees.GetByID(ctx, in.ID)
	})

	r.Mutation("employees.create", func(ctx *rpc.Ctx, raw json.RawMessage) (any, error) {
		var in struct {
			FirstName      string   `json:"firstName"`
			LastName       string   `json:"lastName"`
			Email          string   `json:"email"`
			Phone          string   `json:"phone"`
			DepartmentID   *string  `json:"departmentId"`
			Position       string   `json:"position"`
			EmploymentType string   `json:"employmentType"`
			HireDate       string   `json:"hireDate"`
			Salary         *float64 `json:"salary"`
		}
		if err := rpc.Decode(raw, &in); err != nil {
			return nil, err
		}
		v := validation.Violations{}
		validation.Required("firstName", in.FirstName, v)
		validation.MaxLen("firstName", in.FirstName, 100, v)
		validation.Required("lastName", in.LastName, v)
		validation.MaxLen("lastName", in.LastName, 100, v)
		validation.Required("email", in.Email, v)
		validation.Email("email", in.Email, v)
		validation.OptionalUUID("departmentId", in.DepartmentID, v)
		validation.OneOf("employmentType", in.EmploymentType, employmentTypes, v)
		if in.Salary != nil {
			validation.PositiveFloat("salary", *in.Salary, v)
		}
		hireDate := time.Now()
		if in.HireDate != "" {
			parsed, err := time.Parse(hireDateLayout, in.HireDate)
			if err != nil {
				v["hireDate"] = "invalid_date"
			} else {
				hireDate = parsed
			}
		}
		if !v.Empty() {
			return nil, apperr.Validation(v)
		}
		if in.EmploymentType == "" {
			in.EmploymentType = models.EmploymentFullTime
		}
		employee := &models.Employee{
			EmployeeNumber: fmt.Sprintf("EMP-%s", numberSuffix()),
			FirstName:      in.FirstName,
			LastName:       in.LastName,
			Email:          in.Email,
			Phone:          in.Phone,
			DepartmentID:   in.DepartmentID,
			Position:       in.Position,
			EmploymentType: in.EmploymentType,
			HireDate:       hireDate,
			Salary:         in.Salary,
		}
		if err := st.Employees.Create(ctx, employee); err != nil {
			return nil, err
		}
		return employee, nil
	})

	r.Mutation("employees.update", func(ctx *rpc.Ctx, raw json.RawMessage) (any, error) {
		var in struct {
			ID             string   `json:"id"`
			FirstName      *string  `json:"firstName"`
			LastName       *string  `json:"lastName"`
			Email          *string  `json:"email"`
			Phone          *string  `json:"phone"`
			DepartmentID   *string  `json:"departmentId"`
			Position       *string  `json:"position"`
			EmploymentType *string  `json:"employmentType"`
			Salary         *float64 `json:"salary"`
			IsActive       *bool    `json:"isActive"`
		}
		if err := rpc.Decode(raw, &in); err != nil {
			return nil, err
		}
		v := validation.Violations{}
		validation.UUID("id", in.ID, v)
		if in.FirstName != nil {
			validation.Required("firstName", *in.FirstName, v)
			validation.MaxLen("firstName", *in.FirstName, 100, v)
		}
		if in.LastName != nil {
			validation.Required("lastName", *in.LastName, v)
			validation.MaxLen("lastName", *in.LastName, 100, v)
		}
		if in.Email != nil {
			validation.Email("email", *in.Email, v)
		}
		validation.OptionalUUID("departmentId", in.DepartmentID, v)
		if in.EmploymentType != nil {
			// employment_type is non-null; a supplied value must stay in
			// the enum.
			validation.Required("employmentType", *in.EmploymentType, v)
			validation.OneOf("employmentType", *in.EmploymentType, employmentTypes, v)
		}
		if in.Salary != nil {
			validation.PositiveFloat("salary", *in.Salary, v)
		}
		if !v.Empty() {
			return nil, apperr.Validation(v)
		}

		fields := map[string]any{}
		if in.FirstName != nil {
			fields["first_name"] = *in.FirstName
		}
		if in.LastName != nil {
			fields["last_name"] = *in.LastName
		}
		if in.Email != nil {
			fields["email"] = *in.Email
		}
		if in.Phone != nil {
			fields["phone"] = *in.Phone
		}
		if in.DepartmentID != nil {
			// Empty clears the assignment to NULL.
			if *in.DepartmentID == "" {
				fields["department_id"] = nil
			} else {
				fields["department_id"] = *in.DepartmentID
			}
		}
		if in.Position != nil {
			fields["position"] = *in.Position
		}
		if in.EmploymentType != nil {
			fields["employment_type"] = *in.EmploymentType
		}
		if in.Salary != nil {
			fields["salary"] = *in.Salary
		}
		if in.IsActive != nil {
			fields["is_active"] = *in.IsActive
		}
		if len(fields) == 0 {
			fields["updated_at"] = time.Now()
		}
		return st.Employees.Update(ctx, in.ID, fields)
	})

	r.Query("employees.getDepartments", func(ctx *rpc.Ctx, raw json.RawMessage) (any, error) {
		return st.Employees.ListDepartments(ctx)
	})

	r.Mutation("employees.createDepartment", func(ctx *rpc.Ctx, raw json.RawMessage) (any, error) {
		var in struct {
			Name        string `json:"name"`
			Code        string `json:"code"`
			Description string `json:"description"`
		}
		if err := rpc.Decode(raw, &in); err != nil {
			return nil, err
		}
		v := validation.Violations{}
		validation.Required("name", in.Name, v)
		validation.MaxLen("name", in.Name, 255, v)
		validation.Required("code", in.Code, v)
		validation.MaxLen("code", in.Code, 50, v)
		if !v.Empty() {
			return nil, apperr.Validation(v)
		}
		department := &models.Department{
			Name:        in.Name,
			Code:        in.Code,
			Description: in.Description,
		}
		if err := st.Employees.CreateDepartment(ctx, department); err != nil {
			return nil, err
		}
		return department, nil
	})
}
