package types

import (
	"github.com/go-openapi/errors"
	"github.com/go-openapi/strfmt"
	"github.com/go-openapi/swag"
	"github.com/go-openapi/validate"
)

// PostEmployeePayload is the body of POST /employee.
type PostEmployeePayload struct {
	// Required: true
	// Pattern: ^[0-9]+$
	EmployeeID *string `json:"employee_id"`
}

// Validate validates PostEmployeePayload
func (m *PostEmployeePayload) Validate(formats strfmt.Registry) error {
	var res []error

	if err := validate.Required("employee_id", "body", m.EmployeeID); err != nil {
		res = append(res, err)
	} else if err := validate.Pattern("employee_id", "body", swag.StringValue(m.EmployeeID), `^[0-9]+$`); err != nil {
		res = append(res, err)
	}

	if len(res) > 0 {
		return errors.CompositeValidationError(res...)
	}
	return nil
}

// AuditTags records who looked an employee up, when, and for what.
type AuditTags struct {
	// Required: true
	RequestedBy *string `json:"requested_by"`

	// Required: true
	Timestamp *strfmt.DateTime `json:"timestamp"`

	// Required: true
	Purpose *string `json:"purpose"`
}

// Validate validates AuditTags
func (m *AuditTags) Validate(formats strfmt.Registry) error {
	var res []error

	if err := validate.Required("requested_by", "body", m.RequestedBy); err != nil {
		res = append(res, err)
	}
	if err := validate.Required("timestamp", "body", m.Timestamp); err != nil {
		res = append(res, err)
	}
	if err := validate.Required("purpose", "body", m.Purpose); err != nil {
		res = append(res, err)
	}

	if len(res) > 0 {
		return errors.CompositeValidationError(res...)
	}
	return nil
}

// EmployeeResponse is a single employee record.
type EmployeeResponse struct {
	// Required: true
	EmployeeID *string `json:"employee_id"`

	// Required: true
	FirstName *string `json:"first_name"`

	// Required: true
	LastName *string `json:"last_name"`

	// Required: true
	// Enum: [active terminated]
	Status *string `json:"status"`

	// Required: true
	HireDate *strfmt.DateTime `json:"hire_date"`

	// Required: true
	AuditTags *AuditTags `json:"audit_tags"`
}

var employeeStatusEnum = []interface{}{"active", "terminated"}

// Validate validates EmployeeResponse
func (m *EmployeeResponse) Validate(formats strfmt.Registry) error {
	var res []error

	if err := validate.Required("employee_id", "body", m.EmployeeID); err != nil {
		res = append(res, err)
	}
	if err := validate.Required("first_name", "body", m.FirstName); err != nil {
		res = append(res, err)
	}
	if err := validate.Required("last_name", "body", m.LastName); err != nil {
		res = append(res, err)
	}
	if err := validate.Required("status", "body", m.Status); err != nil {
		res = append(res, err)
	} else if err := validate.EnumCase("status", "body", *m.Status, employeeStatusEnum, true); err != nil {
		res = append(res, err)
	}
	if err := validate.Required("hire_date", "body", m.HireDate); err != nil {
		res = append(res, err)
	}
	if err := validate.Required("audit_tags", "body", m.AuditTags); err != nil {
		res = append(res, err)
	} else if err := m.AuditTags.Validate(formats); err != nil {
		res = append(res, err)
	}

	if len(res) > 0 {
		return errors.CompositeValidationError(res...)
	}
	return nil
}
