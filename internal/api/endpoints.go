package api

import "strconv"

// Paths of the attendance API, relative to the base URL. The casing differs between
// endpoints and is kept exactly as the server routes them.
const (
	PathLogin    = "api/Auth/login"
	PathRegister = "api/auth/register"
	PathManagers = "api/employees/managers"
	PathReports  = "api/AttendanceReports"
)

// ReportPath is the update path for a single attendance report.
func ReportPath(id int) string {
	return "api/attendanceReports/" + strconv.Itoa(id)
}
