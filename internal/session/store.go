// Package session holds the state of one signed-in client: who is logged in,
// which attendance reports they can see and whether today already has a report.
package session

import (
	"sync"

	"github.com/UnknownOlympus/horae/internal/models"
)

// Store is the session state container. It performs no validation; callers are
// trusted to pass consistent data. All methods are safe for concurrent use.
type Store struct {
	mu             sync.RWMutex
	employee       *models.Employee
	reports        []models.AttendanceReport
	isReportExists bool
}

func NewStore() *Store {
	return &Store{}
}

// Employee returns a copy of the current employee, or nil when nobody is logged in.
func (s *Store) Employee() *models.Employee {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.employee == nil {
		return nil
	}
	employee := *s.employee
	return &employee
}

func (s *Store) SetEmployee(employee *models.Employee) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if employee == nil {
		s.employee = nil
		return
	}
	copied := *employee
	s.employee = &copied
}

// Reports returns a copy of the visible report list.
func (s *Store) Reports() []models.AttendanceReport {
	s.mu.RLock()
	defer s.mu.RUnlock()

	reports := make([]models.AttendanceReport, len(s.reports))
	copy(reports, s.reports)
	return reports
}

func (s *Store) SetReports(reports []models.AttendanceReport) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reports = make([]models.AttendanceReport, len(reports))
	copy(s.reports, reports)
}

// Report looks up a single report by id.
func (s *Store) Report(id int) (models.AttendanceReport, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, report := range s.reports {
		if report.ID == id {
			return report, true
		}
	}
	return models.AttendanceReport{}, false
}

// SetReportStatus replaces the status of report id and leaves every other report untouched.
// It reports whether the report was found.
func (s *Store) SetReportStatus(id int, status models.ReportStatus) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.reports {
		if s.reports[i].ID == id {
			s.reports[i].Status = status
			return true
		}
	}
	return false
}

func (s *Store) IsReportExists() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.isReportExists
}

func (s *Store) SetIsReportExists(exists bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.isReportExists = exists
}

// Reset discards everything, as on logout.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.employee = nil
	s.reports = nil
	s.isReportExists = false
}
