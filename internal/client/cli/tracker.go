package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/sugarlog/internal/client/api"
)

const (
	// defaultHistoryLimit is used when "history" is typed without a count.
	defaultHistoryLimit = 10
	gramsAttempts       = 3
)

func (a *App) printProfile(p *api.Profile) {
	name := p.Name
	if name == "" {
		name = "-"
	}
	fmt.Fprintf(a.out, "name:       %s\n", name)
	fmt.Fprintf(a.out, "email:      %s\n", orDash(p.Email))
	fmt.Fprintf(a.out, "anonymous:  %t\n", p.IsAnonymous)
	if p.DailyGoal > 0 {
		fmt.Fprintf(a.out, "daily goal: %s\n", formatGrams(p.DailyGoal))
	}
	if p.Timezone != "" {
		fmt.Fprintf(a.out, "timezone:   %s\n", p.Timezone)
	}
}

func (a *App) Profile(ctx context.Context) error {
	p, err := a.trackerService.Profile(ctx)
	if err != nil {
		return a.fail(ctx, err)
	}
	a.printProfile(p)
	return nil
}

// SetName updates the display name. The name may be given inline
// ("setname Ann") or entered at the prompt.
func (a *App) SetName(ctx context.Context, args []string) error {
	name := strings.Join(args, " ")
	if name == "" {
		var err error
		if name, err = getSimpleText(a.reader, "Enter name", a.out); err != nil {
			return err
		}
	}

	p, err := a.trackerService.Rename(ctx, name)
	if err != nil {
		return a.fail(ctx, err)
	}
	a.printProfile(p)
	return nil
}

// SetGoal updates the daily sugar budget in grams.
func (a *App) SetGoal(ctx context.Context, args []string) error {
	var (
		grams float64
		err   error
	)
	if len(args) > 0 {
		grams, err = parseGrams(strings.Join(args, " "))
		if err != nil {
			return a.fail(ctx, err)
		}
	} else if grams, err = getGrams(a.reader, "Daily goal, grams", a.out, gramsAttempts); err != nil {
		return a.fail(ctx, err)
	}

	p, err := a.trackerService.SetGoal(ctx, grams)
	if err != nil {
		return a.fail(ctx, err)
	}
	a.printProfile(p)
	return nil
}

func (a *App) Status(ctx context.Context) error {
	s, err := a.trackerService.Today(ctx)
	if err != nil {
		return a.fail(ctx, err)
	}

	fmt.Fprintf(a.out, "%s: %s of %s, %s left\n", s.Date,
		formatGrams(s.TotalGrams), formatGrams(s.GoalGrams), formatGrams(s.RemainingGrams))
	fmt.Fprintf(a.out, "logs today: %d, streak: %d\n", s.LogsCount, s.Streak)
	for _, e := range s.PendingActions {
		fmt.Fprintf(a.out, "  todo [%s] %s\n", e.ID, e.Action)
	}
	return nil
}

// Log records an intake. Grams may be given inline ("log 12"); food and
// note are prompted for and may be left empty.
func (a *App) Log(ctx context.Context, args []string) error {
	var (
		grams float64
		err   error
	)
	if len(args) > 0 {
		grams, err = parseGrams(args[0])
		if err != nil {
			return a.fail(ctx, err)
		}
	} else if grams, err = getGrams(a.reader, "Sugar, grams", a.out, gramsAttempts); err != nil {
		return a.fail(ctx, err)
	}

	food, err := getSimpleText(a.reader, "Food (optional)", a.out)
	if err != nil {
		return err
	}
	note, err := getSimpleText(a.reader, "Note (optional)", a.out)
	if err != nil {
		return err
	}

	e, err := a.trackerService.Log(ctx, grams, food, note)
	if err != nil {
		return a.fail(ctx, err)
	}

	fmt.Fprintf(a.out, "Logged %s [%s]\n", formatGrams(e.Grams), e.ID)
	if e.Action != "" {
		fmt.Fprintf(a.out, "Suggested: %s (type 'done %s' when finished)\n", e.Action, e.ID)
	}
	return nil
}

func (a *App) History(ctx context.Context, args []string) error {
	limit := defaultHistoryLimit
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n <= 0 {
			fmt.Fprintln(a.out, "Usage: history [N]")
			return nil
		}
		limit = n
	}

	entries, err := a.trackerService.History(ctx, limit)
	if err != nil {
		return a.fail(ctx, err)
	}
	if len(entries) == 0 {
		fmt.Fprintln(a.out, "No entries")
		return nil
	}

	for _, e := range entries {
		line := fmt.Sprintf("%s  %-8s %s", formatTime(e.LoggedAt), formatGrams(e.Grams), orDash(e.Food))
		if e.Action != "" {
			mark := " "
			if e.Completed() {
				mark = "x"
			}
			line += fmt.Sprintf("  [%s] %s", mark, e.Action)
		}
		fmt.Fprintf(a.out, "%s  (%s)\n", line, e.ID)
	}
	return nil
}

func (a *App) Done(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(a.out, "Usage: done <logId>")
		return nil
	}

	e, err := a.trackerService.Complete(ctx, args[0])
	if err != nil {
		return a.fail(ctx, err)
	}
	fmt.Fprintf(a.out, "Marked done: %s\n", orDash(e.Action))
	return nil
}

func (a *App) Sync(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(a.out, "Usage: sync <file>")
		return nil
	}

	res, err := a.trackerService.SyncHealthFile(ctx, args[0])
	if err != nil {
		return a.fail(ctx, err)
	}
	fmt.Fprintf(a.out, "Imported %d samples, skipped %d\n", res.Imported, res.Skipped)
	return nil
}
