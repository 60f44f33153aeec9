package console

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/UnknownOlympus/horae/internal/lib/logger/sl"
	"github.com/UnknownOlympus/horae/internal/models"
	"github.com/UnknownOlympus/horae/internal/review"
)

const noReports = "No attendance reports available."

// dateLayouts are tried in order; the API omits the zone on some deployments.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	time.DateOnly,
}

func (c *Console) reports(ctx context.Context) error {
	store, err := c.requireLogin(ctx)
	if err != nil {
		return err
	}

	reports := review.Reviewable(store.Reports())
	if len(reports) == 0 {
		c.println(noReports)
		return nil
	}

	tw := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tName\tDate\tStart Time\tEnd Time\tStatus\tActions")
	for _, report := range reports {
		actions := "-"
		if review.Actionable(report) {
			actions = "approve/reject"
		}
		_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			report.ID,
			report.EmployeeFullName,
			FormatDate(report.Date),
			deref(report.StartTime),
			deref(report.EndTime),
			report.Status,
			actions,
		)
	}

	return tw.Flush()
}

func (c *Console) notes(ctx context.Context, args []string) error {
	store, err := c.requireLogin(ctx)
	if err != nil {
		return err
	}

	id, err := reportID(args)
	if err != nil {
		return err
	}

	report, ok := store.Report(id)
	if !ok {
		return noticef("Report %d not found.", id)
	}

	c.printf("Start note: %s\n", deref(report.StartTimeText))
	c.printf("End note:   %s\n", deref(report.EndTimeText))

	return nil
}

func (c *Console) review(ctx context.Context, args []string, do func(context.Context, int) error) error {
	if _, err := c.requireLogin(ctx); err != nil {
		return err
	}

	id, err := reportID(args)
	if err != nil {
		return err
	}

	err = do(ctx, id)
	switch {
	case errors.Is(err, review.ErrReportNotFound):
		return noticef("Report %d not found.", id)
	case errors.Is(err, review.ErrNotPending):
		return noticef("Report %d has already been reviewed.", id)
	case errors.Is(err, review.ErrInFlight):
		return noticef("Report %d is being reviewed.", id)
	case err != nil:
		c.log.DebugContext(ctx, "Review failed", sl.Err(err))
		return notice(review.MsgReviewFailed)
	}

	report, _ := c.sessionReport(ctx, id)
	c.printf("Report %d %s.\n", id, report.Status)

	return nil
}

func (c *Console) sessionReport(ctx context.Context, id int) (models.AttendanceReport, bool) {
	store, err := c.requireLogin(ctx)
	if err != nil {
		return models.AttendanceReport{}, false
	}
	return store.Report(id)
}

func reportID(args []string) (int, error) {
	if len(args) != 1 {
		return 0, notice("Usage: <command> <report id>")
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, noticef("Invalid report id %q.", args[0])
	}
	return id, nil
}

// FormatDate renders an API timestamp as dd/mm/yyyy in local time. Unparseable input is
// returned unchanged.
func FormatDate(raw string) string {
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
			return t.Local().Format("02/01/2006")
		}
	}
	return raw
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
