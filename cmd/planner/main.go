// Command planner records events with an optional expense and reports on
// them from the terminal.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"planner/internal/backend"
	"planner/internal/cli"
	"planner/internal/core"
	"planner/internal/services"
	"planner/internal/stats"
)

const usage = `usage: planner <command> [flags]

commands:
  add       -date YYYY-MM-DD -desc TEXT -expense AMOUNT
  day       -date YYYY-MM-DD
  list
  summary
  calendar  [-year N] [-month N] [-date YYYY-MM-DD]
`

func main() {
	// Logs go to stderr so command output stays clean.
	cfg, _, err := cli.Bootstrap(os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx := context.Background()
	res, err := backend.NewFactory(nil).CreateBackend(ctx, bcfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	code := run(ctx, res.Service, os.Args[1:], os.Stdout, os.Stderr, time.Now())
	if err := res.Cleanup(); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	os.Exit(code)
}

// run executes one command and returns the process exit code.
func run(ctx context.Context, svc *services.EventService, args []string, stdout, stderr io.Writer, now time.Time) int {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return 2
	}

	var err error
	switch args[0] {
	case "add":
		err = runAdd(ctx, svc, args[1:], stdout, stderr, now)
	case "day":
		err = runDay(ctx, svc, args[1:], stdout, stderr, now)
	case "list":
		err = runList(ctx, svc, stdout)
	case "summary":
		err = runSummary(ctx, svc, stdout)
	case "calendar":
		err = runCalendar(ctx, svc, args[1:], stdout, stderr, now)
	case "help", "-h", "--help":
		fmt.Fprint(stdout, usage)
		return 0
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n%s", args[0], usage)
		return 2
	}

	switch {
	case err == nil:
		return 0
	case errors.Is(err, flag.ErrHelp):
		return 0
	case errors.Is(err, errUsage):
		return 2
	default:
		fmt.Fprintln(stderr, "error:", userMessage(err))
		return 1
	}
}

var errUsage = errors.New("usage")

func userMessage(err error) string {
	switch {
	case errors.Is(err, core.ErrNegativeExpense):
		return "expense must not be negative"
	case errors.Is(err, core.ErrInvalidExpense):
		return "invalid expense, please enter a number"
	case errors.Is(err, core.ErrInvalidDate):
		return "date must be YYYY-MM-DD"
	default:
		return err.Error()
	}
}

func newFlagSet(name string, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	return fs
}

func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return errUsage
	}
	return nil
}

func runAdd(ctx context.Context, svc *services.EventService, args []string, stdout, stderr io.Writer, now time.Time) error {
	fs := newFlagSet("add", stderr)
	date := fs.String("date", core.FormatDate(now), "event date (YYYY-MM-DD)")
	desc := fs.String("desc", "", "event description")
	expense := fs.String("expense", "", "expense amount, truncated to two decimals")
	if err := parse(fs, args); err != nil {
		return err
	}

	e, err := svc.RecordDate(ctx, *date, *desc, *expense)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Event added: %s  %s  %s\n", e.Date, e.Description, e.Expense)
	return nil
}

func runDay(ctx context.Context, svc *services.EventService, args []string, stdout, stderr io.Writer, now time.Time) error {
	fs := newFlagSet("day", stderr)
	date := fs.String("date", core.FormatDate(now), "date to show (YYYY-MM-DD)")
	if err := parse(fs, args); err != nil {
		return err
	}

	view, err := svc.Day(ctx, *date)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Events on %s:\n", view.Date)
	if len(view.Events) == 0 {
		fmt.Fprintln(stdout, "  No events")
		return nil
	}
	for _, e := range view.Events {
		fmt.Fprintf(stdout, "  %s  %s\n", e.Description, e.Expense)
	}
	return nil
}

func runList(ctx context.Context, svc *services.EventService, stdout io.Writer) error {
	snap, err := svc.List(ctx)
	if err != nil {
		return err
	}
	if snap.Len() == 0 {
		fmt.Fprintln(stdout, "No events recorded.")
		return nil
	}
	for _, e := range snap.Events {
		fmt.Fprintf(stdout, "%s  %s  %s\n", e.Date, e.Description, e.Expense)
	}
	return nil
}

func runSummary(ctx context.Context, svc *services.EventService, stdout io.Writer) error {
	view, err := svc.Summary(ctx)
	if err != nil {
		return err
	}
	if view.Empty() {
		fmt.Fprintln(stdout, "No events recorded.")
		return nil
	}

	fmt.Fprintf(stdout, "Total expenses: %s\n", core.FormatExpense(view.Total))
	avg, err := stats.Average(view.Events)
	if err == nil {
		fmt.Fprintf(stdout, "Average expense per event: %s\n", core.FormatExpense(avg))
	}
	if view.Unparseable > 0 {
		fmt.Fprintf(stdout, "Unreadable expenses: %d\n", view.Unparseable)
	}
	fmt.Fprintln(stdout)
	for _, e := range view.Events {
		fmt.Fprintf(stdout, "%s  %s  %s\n", e.Date, e.Description, e.Expense)
	}
	return nil
}

func runCalendar(ctx context.Context, svc *services.EventService, args []string, stdout, stderr io.Writer, now time.Time) error {
	fs := newFlagSet("calendar", stderr)
	year := fs.Int("year", now.Year(), "year")
	month := fs.Int("month", int(now.Month()), "month (1-12)")
	date := fs.String("date", "", "also list the events of this date")
	if err := parse(fs, args); err != nil {
		return err
	}

	out, err := svc.Calendar(ctx, *year, time.Month(*month))
	if err != nil {
		return err
	}
	fmt.Fprint(stdout, out)

	if d := strings.TrimSpace(*date); d != "" {
		fmt.Fprintln(stdout)
		return runDay(ctx, svc, []string{"-date", d}, stdout, stderr, now)
	}
	return nil
}
