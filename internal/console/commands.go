package console

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/UnknownOlympus/horae/internal/attendance"
	"github.com/UnknownOlympus/horae/internal/auth"
	"github.com/UnknownOlympus/horae/internal/lib/logger/sl"
	"github.com/UnknownOlympus/horae/internal/models"
	"github.com/UnknownOlympus/horae/internal/session"
	"github.com/UnknownOlympus/horae/internal/validate"
)

func (c *Console) login(ctx context.Context) error {
	var creds models.Credentials
	var ok bool

	if creds.Email, ok = c.ask("Email: "); !ok {
		return nil
	}
	if creds.Password, ok = c.ask("Password: "); !ok {
		return nil
	}

	err := c.auth.Login(ctx, creds)

	var fieldErrs validate.Errors
	switch {
	case errors.As(err, &fieldErrs):
		c.printFieldErrors(fieldErrs)
		return nil
	case err != nil:
		c.log.DebugContext(ctx, "Login failed", sl.Err(err))
		return notice(auth.MsgLoginFailed)
	}

	c.flow.Reset()
	employee := session.MustFromContext(ctx).Employee()
	c.printf("Welcome, %s.\n", employee.FullName())
	c.printControls(ctx)

	return nil
}

func (c *Console) register(ctx context.Context) error {
	var form models.Registration
	var ok bool

	if form.FirstName, ok = c.ask("First name: "); !ok {
		return nil
	}
	if form.LastName, ok = c.ask("Last name: "); !ok {
		return nil
	}
	if form.Role, ok = c.ask("Role (Employee/Manager): "); !ok {
		return nil
	}

	c.println("Managers:")
	c.println("  0) No Manager")
	for _, manager := range c.auth.Managers(ctx) {
		c.printf("  %d) %s %s\n", manager.ID, manager.FirstName, manager.LastName)
	}
	managerID, ok := c.ask("Manager [0]: ")
	if !ok {
		return nil
	}
	if managerID != "" {
		id, err := strconv.Atoi(managerID)
		if err != nil {
			return notice("Manager must be a number")
		}
		form.ManagerID = id
	}

	if form.Email, ok = c.ask("Email: "); !ok {
		return nil
	}
	if form.Password, ok = c.ask("Password: "); !ok {
		return nil
	}

	_, err := c.auth.Register(ctx, form)

	var fieldErrs validate.Errors
	switch {
	case errors.As(err, &fieldErrs):
		c.printFieldErrors(fieldErrs)
		return nil
	case err != nil:
		c.log.DebugContext(ctx, "Registration failed", sl.Err(err))
		return notice(auth.MsgRegistrationFailed)
	}

	c.println(auth.MsgRegistrationComplete)
	return nil
}

func (c *Console) profile(ctx context.Context) error {
	store, err := c.requireLogin(ctx)
	if err != nil {
		return err
	}
	employee := store.Employee()

	c.printf("First Name: %s\n", employee.FirstName)
	c.printf("Last Name:  %s\n", employee.LastName)
	c.printf("Role:       %s\n", employee.RoleLabel())
	c.printf("Manager:    %s\n", employee.ManagerLabel())
	c.printControls(ctx)

	return nil
}

func (c *Console) printControls(ctx context.Context) {
	c.printf("Clock In: %s, Clock Out: %s\n", enabled(c.flow.CanClockIn(ctx)), enabled(c.flow.CanClockOut(ctx)))
}

func enabled(on bool) string {
	if on {
		return "enabled"
	}
	return "disabled"
}

func (c *Console) clock(ctx context.Context, action attendance.Action) error {
	if _, err := c.requireLogin(ctx); err != nil {
		return err
	}

	if err := c.flow.Begin(ctx, action); err != nil {
		c.log.DebugContext(ctx, "Clock action refused", sl.Err(err))
		if action == attendance.ClockIn {
			return notice("Clock In is not available.")
		}
		return notice("Clock Out is not available.")
	}

	note, ok := c.ask("Note: ")
	if !ok || !c.confirm("Save?") {
		c.flow.Cancel()
		c.println("Cancelled.")
		return nil
	}

	if action == attendance.ClockIn {
		if err := c.flow.Confirm(ctx, note); err != nil {
			return notice(attendance.MsgClockInFailed)
		}
		c.printf("Clocked in (report %d).\n", c.flow.PendingID())
		return nil
	}

	if err := c.flow.Confirm(ctx, note); err != nil {
		return notice(attendance.MsgClockOutFailed)
	}
	c.println("Clocked out.")
	return nil
}

func (c *Console) status(ctx context.Context) error {
	info, err := c.auth.InspectToken(ctx)
	switch {
	case errors.Is(err, auth.ErrNoToken):
		c.println("No token stored.")
		return nil
	case err != nil:
		return err
	}

	if info.Subject != "" {
		c.printf("Subject: %s\n", info.Subject)
	}
	switch {
	case info.ExpiresAt.IsZero():
		c.println("Expires: never")
	case info.Expired(time.Now()):
		c.printf("Expires: %s (expired)\n", info.ExpiresAt.Local().Format(time.DateTime))
	default:
		c.printf("Expires: %s\n", info.ExpiresAt.Local().Format(time.DateTime))
	}

	return nil
}

func (c *Console) logout(ctx context.Context) error {
	c.flow.Reset()
	if err := c.auth.Logout(ctx); err != nil {
		return err
	}
	c.println("Logged out.")
	return nil
}

func (c *Console) printFieldErrors(errs validate.Errors) {
	for _, fe := range errs {
		c.printf("  %s\n", strings.TrimSpace(fe.Message))
	}
}
