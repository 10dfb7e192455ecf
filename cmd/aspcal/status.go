package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"aspcal/models"
	"aspcal/services/holidays"
)

var (
	suspendedColor = color.New(color.FgGreen, color.Bold)
	regularColor   = color.New(color.FgCyan)
	headingColor   = color.New(color.Bold)
	dimColor       = color.New(color.Faint)
	warnColor      = color.New(color.FgYellow)
)

// instant parses the --at flag, defaulting to the app clock.
func (a *app) instant(at string) (time.Time, error) {
	if at == "" {
		return a.now(), nil
	}
	t, err := time.Parse(time.RFC3339, at)
	if err != nil {
		return time.Time{}, fmt.Errorf("--at must be RFC3339 (e.g. 2024-07-04T09:00:00-04:00): %w", err)
	}
	return t, nil
}

func newStatusCmd(a *app) *cobra.Command {
	var (
		count  int
		at     string
		asJSON bool
	)

	c := &cobra.Command{
		Use:   "status",
		Short: "Show whether ASP is suspended today and the next holidays",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service()
			if err != nil {
				return err
			}
			now, err := a.instant(at)
			if err != nil {
				return err
			}
			if count < 1 {
				count = a.settings.Holidays.UpcomingCount
			}

			resp := svc.Evaluate(now, count, a.settings.Debug)
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(resp)
			}
			printStatus(cmd.OutOrStdout(), resp)
			return nil
		},
	}
	c.Flags().IntVarP(&count, "count", "n", 0, "number of upcoming holidays (default from settings)")
	c.Flags().StringVar(&at, "at", "", "evaluate at this RFC3339 instant instead of now")
	c.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	return c
}

func newUpcomingCmd(a *app) *cobra.Command {
	var (
		count int
		at    string
	)

	c := &cobra.Command{
		Use:   "upcoming",
		Short: "List the next ASP suspension days",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service()
			if err != nil {
				return err
			}
			now, err := a.instant(at)
			if err != nil {
				return err
			}

			today := svc.Today(now)
			list, err := svc.Snapshot().UpcomingHolidays(today, count, svc.Normalizer().Local())
			if err != nil {
				return fmt.Errorf("after %s: %w", holidays.FormatDateKey(today), err)
			}
			printUpcoming(cmd.OutOrStdout(), list)
			return nil
		},
	}
	c.Flags().IntVarP(&count, "count", "n", 10, "number of holidays to list")
	c.Flags().StringVar(&at, "at", "", "list relative to this RFC3339 instant instead of now")
	return c
}

func printStatus(w io.Writer, resp models.StatusResponse) {
	headingColor.Fprintf(w, "Today: %s\n", holidays.FormatLongDate(resp.Today))
	if resp.IsHoliday {
		suspendedColor.Fprintf(w, "ASP is suspended today: %s\n", resp.HolidayName)
	} else {
		regularColor.Fprintln(w, "Regular ASP rules are in effect today")
	}
	fmt.Fprintln(w)

	headingColor.Fprintln(w, "Upcoming ASP holidays:")
	if resp.UpcomingError != "" {
		warnColor.Fprintf(w, "  %s\n", resp.UpcomingError)
	} else {
		printUpcoming(w, resp.Upcoming)
	}

	if d := resp.Diagnostics; d != nil {
		fmt.Fprintln(w)
		headingColor.Fprintln(w, "Diagnostics:")
		dimColor.Fprintf(w, "  input instant:    %s\n", d.Date.InputInstant)
		dimColor.Fprintf(w, "  normalized date:  %s\n", d.Date.NormalizedDate)
		dimColor.Fprintf(w, "  local zone:       %s (%+g h)\n", d.Date.LocalZone, d.Date.LocalOffsetHours)
		if d.Date.ReferenceZone != "" {
			dimColor.Fprintf(w, "  reference zone:   %s (%+g h, adjustment %+g h)\n",
				d.Date.ReferenceZone, d.Date.ReferenceOffsetHours, d.Date.AdjustmentHours)
		}
		if d.Date.Fallback {
			warnColor.Fprintln(w, "  reference zone unavailable; using local dates")
		}
		if u := d.Upcoming; u != nil {
			dimColor.Fprintf(w, "  next holiday:     %s in %d days (%d ms, %g days)\n",
				u.NextHolidayDate, u.CalculatedDays, u.RawTimeDiffMs, u.RawTimeDiffDays)
		}
	}
}

func printUpcoming(w io.Writer, list []models.Holiday) {
	for _, h := range list {
		fmt.Fprintf(w, "  %-32s %-10s %s  ", h.Name, h.DayOfWeek, holidays.FormatDateKey(h.Date))
		dimColor.Fprintln(w, h.Label)
	}
}
