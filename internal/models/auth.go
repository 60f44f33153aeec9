package models

// Credentials is the body of the login form.
type Credentials struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginResponse is what api/Auth/login returns on success.
type LoginResponse struct {
	Token             string             `json:"token"`
	Employee          *Employee          `json:"employee"`
	AttendanceReports []AttendanceReport `json:"attendanceReports"`
	IsReportExists    bool               `json:"isReportExists"`
}

// Registration is the body of the sign-up form.
type Registration struct {
	FirstName string `json:"firstName" validate:"required,max=50"`
	LastName  string `json:"lastName"  validate:"required,max=50"`
	Role      string `json:"role"      validate:"required,oneof=Employee Manager"`
	ManagerID int    `json:"managerId" validate:"gte=0"`
	Email     string `json:"email"     validate:"required,address"`
	Password  string `json:"password"  validate:"required,min=6,complex"`
}

// RegisterResponse is what api/auth/register returns.
type RegisterResponse struct {
	Message string `json:"message"`
}
