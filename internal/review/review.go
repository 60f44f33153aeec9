// Package review lets a manager approve or reject pending attendance reports.
package review

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/UnknownOlympus/horae/internal/api"
	"github.com/UnknownOlympus/horae/internal/metrics"
	"github.com/UnknownOlympus/horae/internal/models"
	"github.com/UnknownOlympus/horae/internal/session"
)

const MsgReviewFailed = "Failed to update report"

var (
	ErrReportNotFound = errors.New("report not found")
	ErrNotPending     = errors.New("report is not pending")
	ErrInFlight       = errors.New("review already in progress")
	ErrInvalidStatus  = errors.New("review status must be Approved or Rejected")
	ErrReview         = errors.New("review failed")
)

type Reviewer struct {
	log     *slog.Logger
	gateway *api.Gateway
	metrics *metrics.Metrics

	mu       sync.Mutex
	inFlight map[int]struct{}
}

func NewReviewer(log *slog.Logger, gateway *api.Gateway, metrics *metrics.Metrics) *Reviewer {
	return &Reviewer{
		log:      log,
		gateway:  gateway,
		metrics:  metrics,
		inFlight: make(map[int]struct{}),
	}
}

func (r *Reviewer) initLogger(opn string) *slog.Logger {
	return r.log.With(
		slog.String("op", opn),
		slog.String("division", "review"),
	)
}

// Approve marks report id as Approved.
func (r *Reviewer) Approve(ctx context.Context, id int) error {
	return r.Review(ctx, id, models.ReportUpdate{Status: models.StatusApproved})
}

// Reject marks report id as Rejected.
func (r *Reviewer) Reject(ctx context.Context, id int) error {
	return r.Review(ctx, id, models.ReportUpdate{Status: models.StatusRejected})
}

// Review sends update for report id. The status must be Approved or Rejected and the report
// must be in the session and still pending.
// On success only that report's status changes in the session; on failure nothing does.
func (r *Reviewer) Review(ctx context.Context, id int, update models.ReportUpdate) error {
	const opn = "Review.Review"
	log := r.initLogger(opn)
	store := session.MustFromContext(ctx)

	if update.Status != models.StatusApproved && update.Status != models.StatusRejected {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, update.Status)
	}

	if !r.acquire(id) {
		return fmt.Errorf("%w: %d", ErrInFlight, id)
	}
	defer r.release(id)

	// looked up while holding the slot
	report, ok := store.Report(id)
	if !ok {
		return fmt.Errorf("%w: %d", ErrReportNotFound, id)
	}
	if !Actionable(report) {
		return fmt.Errorf("%w: %d is %s", ErrNotPending, id, report.Status)
	}

	res := api.Update[models.AttendanceReport](ctx, r.gateway, api.ReportPath(id), update)
	if !res.OK() {
		r.metrics.Reviews.WithLabelValues(string(update.Status), "failure").Inc()
		return fmt.Errorf("%w: %s: %w", ErrReview, res.Kind, res.Err)
	}
	if res.Value.ID == 0 {
		r.metrics.Reviews.WithLabelValues(string(update.Status), "failure").Inc()
		return fmt.Errorf("%w: response carries no report id", ErrReview)
	}

	store.SetReportStatus(id, update.Status)
	r.metrics.Reviews.WithLabelValues(string(update.Status), "success").Inc()
	log.InfoContext(ctx, "Report reviewed", "report_id", id, "status", update.Status)

	return nil
}

func (r *Reviewer) acquire(id int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, busy := r.inFlight[id]; busy {
		return false
	}
	r.inFlight[id] = struct{}{}
	return true
}

func (r *Reviewer) release(id int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.inFlight, id)
}

// Actionable reports whether approve and reject are offered for report.
func Actionable(report models.AttendanceReport) bool {
	return report.Status == models.StatusPending
}

// Reviewable filters reports down to the complete ones, the only ones listed for review.
func Reviewable(reports []models.AttendanceReport) []models.AttendanceReport {
	out := make([]models.AttendanceReport, 0, len(reports))
	for _, report := range reports {
		if report.Complete() {
			out = append(out, report)
		}
	}
	return out
}
