package models

// ReportStatus is the review state of an attendance report.
type ReportStatus string

const (
	StatusPending  ReportStatus = "Pending"
	StatusApproved ReportStatus = "Approved"
	StatusRejected ReportStatus = "Rejected"
)

// AttendanceReport is one workday record: a clock-in, an optional clock-out and a review status.
type AttendanceReport struct {
	ID               int          `json:"id"`
	EmployeeID       int          `json:"employeeId"`
	EmployeeFullName string       `json:"employeeFullName"`
	Date             string       `json:"date"`
	StartTime        *string      `json:"startTime"`
	StartTimeText    *string      `json:"startTimeText"`
	EndTime          *string      `json:"endTime"`
	EndTimeText      *string      `json:"endTimeText"`
	Status           ReportStatus `json:"status"`
}

// Complete reports whether both start and end time are set.
func (r AttendanceReport) Complete() bool {
	return r.StartTime != nil && *r.StartTime != "" && r.EndTime != nil && *r.EndTime != ""
}

// ReportUpdate is the partial body of PUT api/attendanceReports/{id}.
// The API binds these fields by their PascalCase names.
type ReportUpdate struct {
	EndTime     *string      `json:"EndTime,omitempty"`
	EndTimeText *string      `json:"EndTimeText,omitempty"`
	Status      ReportStatus `json:"Status,omitempty"`
}

// NewReport is the body of POST api/AttendanceReports. The end fields are sent as explicit nulls.
type NewReport struct {
	EmployeeID       int          `json:"employeeId"`
	EmployeeFullName string       `json:"employeeFullName"`
	Date             string       `json:"date"`
	StartTime        string       `json:"startTime"`
	EndTime          *string      `json:"endTime"`
	StartTimeText    string       `json:"startTimeText"`
	EndTimeText      *string      `json:"endTimeText"`
	Status           ReportStatus `json:"status"`
}
