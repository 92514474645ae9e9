// Package hr is an in-memory employee directory used by the demo HR connector.
package hr

import (
	"time"
)

const (
	StatusActive     = "active"
	StatusTerminated = "terminated"

	LookupPurpose = "demo-hr-lookup"
)

type Employee struct {
	ID        string
	FirstName string
	LastName  string
	HireDate  time.Time
	Status    string
}

// Directory is read-only after construction.
type Directory struct {
	employees map[string]Employee
}

func NewDirectory(employees ...Employee) *Directory {
	d := &Directory{employees: make(map[string]Employee, len(employees))}
	for _, e := range employees {
		d.employees[e.ID] = e
	}
	return d
}

// NewDemoDirectory returns the two well-known demo employees.
func NewDemoDirectory() *Directory {
	return NewDirectory(
		Employee{
			ID:        "12345",
			FirstName: "Alice",
			LastName:  "Zimmer",
			HireDate:  time.Date(2020, 5, 4, 0, 0, 0, 0, time.UTC),
			Status:    StatusActive,
		},
		Employee{
			ID:        "98765",
			FirstName: "Bob",
			LastName:  "Kenyon",
			HireDate:  time.Date(2018, 3, 12, 0, 0, 0, 0, time.UTC),
			Status:    StatusTerminated,
		},
	)
}

func (d *Directory) Lookup(id string) (Employee, bool) {
	e, ok := d.employees[id]
	return e, ok
}
