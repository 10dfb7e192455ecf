package main

import (
	"bytes"
	"fmt"
	"io"
	"log"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"aspcal/data"
	"aspcal/services/holidays"
	"aspcal/services/seed"
)

func newSeedCmd(a *app) *cobra.Command {
	var (
		years string
		out   string
		merge bool
	)

	c := &cobra.Command{
		Use:   "seed",
		Short: "Generate holiday data for future years from US federal holidays",
		Long: "seed computes the federal and state holidays on which alternate side parking is\n" +
			"always suspended. Religious and cultural observances still have to be added from\n" +
			"the published DOT calendar.",
		Example: "aspcal seed --years 2027-2028 --merge --out holidays.json",
		RunE: func(cmd *cobra.Command, args []string) error {
			ys, err := seed.ParseYears(years)
			if err != nil {
				return err
			}
			generated := seed.FederalHolidays(ys...)

			if merge {
				existing, err := a.currentHolidays()
				if err != nil {
					return err
				}
				generated = seed.Merge(existing, generated)
			}

			var buf bytes.Buffer
			if err := seed.WriteJSON(&buf, generated); err != nil {
				return err
			}

			if out == "" || out == "-" {
				_, err := io.Copy(cmd.OutOrStdout(), &buf)
				return err
			}
			if err := afero.WriteFile(a.fs, out, buf.Bytes(), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			log.Printf("[seed] wrote %d holidays to %s", len(generated), out)
			return nil
		},
	}
	c.Flags().StringVar(&years, "years", "", "years to generate, e.g. 2027 or 2027,2028 or 2027-2030")
	c.Flags().StringVarP(&out, "out", "o", "-", "output file; - writes to stdout")
	c.Flags().BoolVar(&merge, "merge", false, "merge with the configured holiday data, keeping its names")
	c.MarkFlagRequired("years")
	return c
}

// currentHolidays returns the configured holiday data as a date->name map.
func (a *app) currentHolidays() (map[string]string, error) {
	if a.settings.Holidays.File == "" {
		store, err := data.Default()
		if err != nil {
			return nil, err
		}
		return store.Map(), nil
	}
	store, err := holidays.Load(a.fs, a.settings.Holidays.File)
	if err != nil {
		return nil, err
	}
	return store.Map(), nil
}
