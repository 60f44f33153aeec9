// Package console is the line-oriented front end: it reads commands, runs the flows and
// renders the session.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/UnknownOlympus/horae/internal/attendance"
	"github.com/UnknownOlympus/horae/internal/auth"
	"github.com/UnknownOlympus/horae/internal/review"
	"github.com/UnknownOlympus/horae/internal/session"
)

const prompt = "horae> "

const helpText = `Commands:
  login              sign in with email and password
  register           create a new account
  profile            show the signed-in employee
  clockin            clock in with a note
  clockout           clock out with a note
  reports            list complete attendance reports
  notes <id>         show the notes of a report
  approve <id>       approve a pending report
  reject <id>        reject a pending report
  status             show the stored token
  logout             sign out
  quit               leave
`

var errNotLoggedIn error = notice("Please log in first.")

// notice is a message meant for the user rather than a program error.
type notice string

func (n notice) Error() string { return string(n) }

func noticef(format string, args ...any) notice {
	return notice(fmt.Sprintf(format, args...))
}

type Console struct {
	log      *slog.Logger
	in       *bufio.Scanner
	out      io.Writer
	auth     *auth.Service
	flow     *attendance.Flow
	reviewer *review.Reviewer
}

func New(
	log *slog.Logger,
	in io.Reader,
	out io.Writer,
	authService *auth.Service,
	flow *attendance.Flow,
	reviewer *review.Reviewer,
) *Console {
	return &Console{
		log:      log.With(slog.String("division", "console")),
		in:       bufio.NewScanner(in),
		out:      out,
		auth:     authService,
		flow:     flow,
		reviewer: reviewer,
	}
}

// Run serves commands until quit, end of input or ctx cancellation. A session store is
// attached to ctx when the caller did not provide one.
func (c *Console) Run(ctx context.Context) error {
	if _, ok := session.FromContext(ctx); !ok {
		ctx = session.NewContext(ctx, session.NewStore())
	}

	c.println("Horae attendance client. Type help for commands.")

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		line, ok := c.ask(prompt)
		if !ok {
			return c.in.Err()
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		if quit := c.dispatch(ctx, strings.ToLower(fields[0]), fields[1:]); quit {
			return nil
		}
	}
}

func (c *Console) dispatch(ctx context.Context, cmd string, args []string) bool {
	var err error

	switch cmd {
	case "help", "?":
		c.print(helpText)
	case "login":
		err = c.login(ctx)
	case "register":
		err = c.register(ctx)
	case "profile":
		err = c.profile(ctx)
	case "clockin":
		err = c.clock(ctx, attendance.ClockIn)
	case "clockout":
		err = c.clock(ctx, attendance.ClockOut)
	case "reports":
		err = c.reports(ctx)
	case "notes":
		err = c.notes(ctx, args)
	case "approve":
		err = c.review(ctx, args, c.reviewer.Approve)
	case "reject":
		err = c.review(ctx, args, c.reviewer.Reject)
	case "status":
		err = c.status(ctx)
	case "logout":
		err = c.logout(ctx)
	case "quit", "exit":
		return true
	default:
		c.printf("Unknown command %q. Type help for commands.\n", cmd)
	}

	if err != nil {
		c.println(err.Error())
	}

	return false
}

// ask prints label and reads one line. It reports false at end of input.
func (c *Console) ask(label string) (string, bool) {
	c.print(label)
	if !c.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(c.in.Text()), true
}

func (c *Console) confirm(label string) bool {
	answer, ok := c.ask(label + " [y/N]: ")
	if !ok {
		return false
	}
	answer = strings.ToLower(answer)
	return answer == "y" || answer == "yes"
}

func (c *Console) print(s string) {
	_, _ = io.WriteString(c.out, s)
}

func (c *Console) println(s string) {
	_, _ = io.WriteString(c.out, s+"\n")
}

func (c *Console) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(c.out, format, args...)
}

func (c *Console) requireLogin(ctx context.Context) (*session.Store, error) {
	store := session.MustFromContext(ctx)
	if store.Employee() == nil {
		return nil, errNotLoggedIn
	}
	return store, nil
}
