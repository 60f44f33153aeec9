package models

import "strconv"

// Employee represents the logged-in employee as returned by the attendance API.
type Employee struct {
	ID        int    `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      string `json:"role"`
	ManagerID *int   `json:"managerId"`
	Email     string `json:"email"`
}

// FullName returns "First Last", the denormalized name stored on reports.
func (e Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}

// HasManager reports whether a manager is assigned. Nil and 0 both mean top-level.
func (e Employee) HasManager() bool {
	return e.ManagerID != nil && *e.ManagerID != 0
}

// RoleLabel renders the role for the profile view.
// The API has been seen returning the enum ordinal, so "1" is treated as Manager.
func (e Employee) RoleLabel() string {
	if e.Role == "1" {
		return RoleManager
	}
	return RoleEmployee
}

// ManagerLabel renders the manager column of the profile view.
func (e Employee) ManagerLabel() string {
	if !e.HasManager() {
		return "None"
	}
	return "Manager ID: " + strconv.Itoa(*e.ManagerID)
}

// Manager is an entry of the managers listing used by the registration form.
type Manager struct {
	ID        int    `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

const (
	RoleEmployee = "Employee"
	RoleManager  = "Manager"
)
