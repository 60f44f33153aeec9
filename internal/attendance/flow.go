// Package attendance drives the two-phase clock-in / clock-out interaction.
package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/UnknownOlympus/horae/internal/api"
	"github.com/UnknownOlympus/horae/internal/metrics"
	"github.com/UnknownOlympus/horae/internal/models"
	"github.com/UnknownOlympus/horae/internal/session"
)

const (
	// DateLayout matches the ISO-8601 UTC timestamps the API stores as report dates.
	DateLayout = "2006-01-02T15:04:05.000Z07:00"
	// TimeLayout is the 24h wall-clock format of start and end times.
	TimeLayout = "15:04:05"

	MsgClockInFailed  = "Failed to clock in."
	MsgClockOutFailed = "Failed to clock out."
)

var (
	ErrNotAllowed = errors.New("action not allowed in current state")
	ErrClockIn    = errors.New("clock in failed")
	ErrClockOut   = errors.New("clock out failed")
)

type State int

const (
	Idle State = iota
	Prompting
	Submitting
	ClockedIn
	Done
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Prompting:
		return "prompting"
	case Submitting:
		return "submitting"
	case ClockedIn:
		return "clocked_in"
	case Done:
		return "done"
	default:
		return "unknown"
	}
}

type Action int

const (
	ClockIn Action = iota
	ClockOut
)

func (a Action) String() string {
	if a == ClockOut {
		return "clock_out"
	}
	return "clock_in"
}

// Flow is the per-session clock state machine. The zero pending id means no report has
// been created yet.
type Flow struct {
	log     *slog.Logger
	gateway *api.Gateway
	metrics *metrics.Metrics
	now     func() time.Time

	mu        sync.Mutex
	state     State
	prev      State
	action    Action
	pendingID int
	// generation is bumped by Reset; outcomes of older submissions are dropped.
	generation uint64
}

type Option func(*Flow)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(f *Flow) {
		f.now = now
	}
}

func NewFlow(log *slog.Logger, gateway *api.Gateway, metrics *metrics.Metrics, opts ...Option) *Flow {
	flow := &Flow{
		log:     log,
		gateway: gateway,
		metrics: metrics,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(flow)
	}
	return flow
}

func (f *Flow) initLogger(opn string) *slog.Logger {
	return f.log.With(
		slog.String("op", opn),
		slog.String("division", "attendance"),
	)
}

func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.state
}

// PendingID returns the id of the report created by the last successful clock-in.
func (f *Flow) PendingID() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.pendingID
}

// CanClockIn reports whether the clock-in control is enabled for the session in ctx.
func (f *Flow) CanClockIn(ctx context.Context) bool {
	store := session.MustFromContext(ctx)

	f.mu.Lock()
	defer f.mu.Unlock()

	return f.allowed(store, ClockIn)
}

// CanClockOut reports whether the clock-out control is enabled for the session in ctx.
func (f *Flow) CanClockOut(ctx context.Context) bool {
	store := session.MustFromContext(ctx)

	f.mu.Lock()
	defer f.mu.Unlock()

	return f.allowed(store, ClockOut)
}

// allowed must be called with f.mu held.
func (f *Flow) allowed(store *session.Store, action Action) bool {
	if store.IsReportExists() {
		return false
	}

	switch action {
	case ClockIn:
		employee := store.Employee()
		return f.state == Idle && employee != nil && employee.HasManager()
	case ClockOut:
		return f.state == ClockedIn
	default:
		return false
	}
}

// Begin opens the note prompt for action. It fails with ErrNotAllowed when the control is disabled,
// including while another prompt or request is in progress.
func (f *Flow) Begin(ctx context.Context, action Action) error {
	store := session.MustFromContext(ctx)

	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.allowed(store, action) {
		return fmt.Errorf("%w: %s from %s", ErrNotAllowed, action, f.state)
	}

	f.prev = f.state
	f.state = Prompting
	f.action = action

	return nil
}

// Cancel closes the prompt without side effects.
func (f *Flow) Cancel() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state == Prompting {
		f.state = f.prev
	}
}

// Confirm submits the prompted action with note. The flow is in Submitting before the request is
// issued, so concurrent Begin and Confirm calls are rejected until it completes.
func (f *Flow) Confirm(ctx context.Context, note string) error {
	store := session.MustFromContext(ctx)

	f.mu.Lock()
	if f.state != Prompting {
		state := f.state
		f.mu.Unlock()
		return fmt.Errorf("%w: confirm from %s", ErrNotAllowed, state)
	}
	f.state = Submitting
	action := f.action
	pendingID := f.pendingID
	gen := f.generation
	f.mu.Unlock()

	if action == ClockOut {
		return f.clockOut(ctx, gen, pendingID, note)
	}
	return f.clockIn(ctx, gen, store, note)
}

func (f *Flow) clockIn(ctx context.Context, gen uint64, store *session.Store, note string) error {
	const opn = "Attendance.ClockIn"
	log := f.initLogger(opn)

	employee := store.Employee()
	if employee == nil {
		f.finish(gen, ClockIn, Idle, 0)
		return fmt.Errorf("%w: no employee in session", ErrClockIn)
	}

	now := f.now()
	report := models.NewReport{
		EmployeeID:       employee.ID,
		EmployeeFullName: employee.FullName(),
		Date:             now.UTC().Format(DateLayout),
		StartTime:        now.Format(TimeLayout),
		StartTimeText:    note,
		Status:           models.StatusPending,
	}

	res := api.Create[models.AttendanceReport](ctx, f.gateway, api.PathReports, report)
	if !res.OK() {
		f.finish(gen, ClockIn, Idle, 0)
		return fmt.Errorf("%w: %s: %w", ErrClockIn, res.Kind, res.Err)
	}
	if res.Value.ID == 0 {
		f.finish(gen, ClockIn, Idle, 0)
		return fmt.Errorf("%w: response carries no report id", ErrClockIn)
	}

	f.finish(gen, ClockIn, ClockedIn, res.Value.ID)
	log.InfoContext(ctx, "Clocked in", "report_id", res.Value.ID, "employee_id", employee.ID)

	return nil
}

func (f *Flow) clockOut(ctx context.Context, gen uint64, pendingID int, note string) error {
	const opn = "Attendance.ClockOut"
	log := f.initLogger(opn)

	endTime := f.now().Format(TimeLayout)
	update := models.ReportUpdate{
		EndTime:     &endTime,
		EndTimeText: &note,
	}

	res := api.Update[models.AttendanceReport](ctx, f.gateway, api.ReportPath(pendingID), update)
	if !res.OK() {
		f.finish(gen, ClockOut, ClockedIn, pendingID)
		return fmt.Errorf("%w: %s: %w", ErrClockOut, res.Kind, res.Err)
	}

	f.finish(gen, ClockOut, Done, pendingID)
	log.InfoContext(ctx, "Clocked out", "report_id", pendingID)

	return nil
}

// finish leaves Submitting and records the outcome. The state is left alone when the flow
// was reset after the submission started.
func (f *Flow) finish(gen uint64, action Action, next State, pendingID int) {
	f.mu.Lock()
	if f.generation == gen {
		f.state = next
		f.pendingID = pendingID
	}
	f.mu.Unlock()

	succeeded := (action == ClockIn && next == ClockedIn) || (action == ClockOut && next == Done)
	if !succeeded {
		f.metrics.ClockTransitions.WithLabelValues(action.String(), "failure").Inc()
		return
	}

	f.metrics.ClockTransitions.WithLabelValues(action.String(), "success").Inc()
	f.metrics.LastSuccessfulRun.WithLabelValues(action.String()).Set(float64(f.now().Unix()))
}

// Reset returns the flow to Idle and forgets the pending report, as on logout.
func (f *Flow) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.state = Idle
	f.prev = Idle
	f.pendingID = 0
	f.generation++
}
