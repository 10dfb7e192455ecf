package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/golang-sql/civil"
	"github.com/spf13/cobra"

	"aspcal/models"
	"aspcal/services/holidays"
)

func newMonthCmd(a *app) *cobra.Command {
	var months int

	c := &cobra.Command{
		Use:     "month [YYYY-MM]",
		Short:   "Print a month grid with ASP suspension days highlighted",
		Example: "aspcal month 2025-11 --months 2",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service()
			if err != nil {
				return err
			}
			today := svc.Today(a.now())

			base := civil.Date{Year: today.Year, Month: today.Month, Day: 1}
			if len(args) == 1 {
				base, err = holidays.ParseMonthKey(args[0])
				if err != nil {
					return fmt.Errorf("month must be YYYY-MM: %w", err)
				}
			}
			if months < 1 {
				months = 1
			}

			store := svc.Snapshot()
			for i := 0; i < months; i++ {
				if i > 0 {
					fmt.Fprintln(cmd.OutOrStdout())
				}
				m := holidays.BuildMonth(store, base.Year, base.Month+time.Month(i), today)
				printMonth(cmd.OutOrStdout(), m)
			}
			return nil
		},
	}
	c.Flags().IntVar(&months, "months", 1, "number of consecutive months to print")
	return c
}

func printMonth(w io.Writer, m models.CalendarMonth) {
	title := fmt.Sprintf("%s %d", m.MonthName, m.Year)
	pad := (7*4 - len(title)) / 2
	if pad < 0 {
		pad = 0
	}
	headingColor.Fprintf(w, "%s%s\n", strings.Repeat(" ", pad), title)
	fmt.Fprintln(w, " Sun Mon Tue Wed Thu Fri Sat")

	var listed []models.CalendarDay
	for i, d := range m.Days {
		cell := fmt.Sprintf("%4d", d.Day)
		switch {
		case !d.IsCurrentMonth:
			cell = "    "
		case d.IsHoliday:
			cell = suspendedColor.Sprintf("%3d*", d.Day)
			listed = append(listed, d)
		case d.IsToday:
			cell = regularColor.Sprintf("%3d<", d.Day)
		}
		fmt.Fprint(w, cell)
		if i%7 == 6 {
			fmt.Fprintln(w)
		}
	}

	for _, d := range listed {
		fmt.Fprintf(w, "  * %s  %s\n", holidays.FormatDateKey(d.Date), d.HolidayName)
	}
}
