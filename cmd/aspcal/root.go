package main

import (
	"fmt"
	"io"
	"log"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"aspcal/config"
	"aspcal/data"
	"aspcal/internal/logging"
	"aspcal/services/holidays"
)

// app carries state shared by every subcommand.
type app struct {
	configPath string
	envFile    string

	// flag overrides, applied only when set on the command line
	holidaysFile string
	referenceTZ  string
	localTZ      string
	debug        bool

	settings  config.Settings
	logCloser io.Closer
	fs        afero.Fs
	now       func() time.Time
}

func newRootCmd() *cobra.Command {
	return newRootCmdWith(&app{fs: afero.NewOsFs(), now: time.Now})
}

func newRootCmdWith(a *app) *cobra.Command {
	c := &cobra.Command{
		Use:          "aspcal",
		Short:        "NYC alternate side parking suspension calendar",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logCloser != nil {
				a.logCloser.Close()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Usage()
		},
	}

	pf := c.PersistentFlags()
	pf.StringVarP(&a.configPath, "config", "c", config.DefaultPath, "path to the YAML settings file")
	pf.StringVar(&a.envFile, "env-file", ".env", "path to a .env file with ASPCAL_* variables")
	pf.StringVar(&a.holidaysFile, "holidays", "", "holiday data file (JSON or YAML); empty uses the built-in calendar")
	pf.StringVar(&a.referenceTZ, "tz", "", "reference timezone that defines \"today\" (empty string for local dates)")
	pf.StringVar(&a.localTZ, "local-tz", "", "timezone of this machine's clock (default: system)")
	pf.BoolVar(&a.debug, "debug", false, "include date diagnostics")

	c.AddCommand(
		newServeCmd(a),
		newStatusCmd(a),
		newUpcomingCmd(a),
		newMonthCmd(a),
		newSeedCmd(a),
		newVersionCmd(),
	)
	return c
}

// setup resolves settings: defaults < YAML < .env < environment < flags.
func (a *app) setup(cmd *cobra.Command) error {
	if err := config.LoadEnvFile(a.envFile); err != nil {
		return err
	}

	mgr := config.NewManagerFs(a.fs, a.configPath)
	settings, err := mgr.Load()
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("holidays") {
		settings.Holidays.File = a.holidaysFile
	}
	if flags.Changed("tz") {
		settings.Holidays.ReferenceTimezone = a.referenceTZ
	}
	if flags.Changed("local-tz") {
		settings.Holidays.LocalTimezone = a.localTZ
	}
	if flags.Changed("debug") {
		settings.Debug = a.debug
	}
	if err := settings.Validate(); err != nil {
		return err
	}

	a.settings = settings
	a.logCloser = logging.Setup(settings.Log)
	return nil
}

// service builds the holiday service from the resolved settings.
func (a *app) service() (*holidays.Service, error) {
	local, err := a.settings.LocalLocation()
	if err != nil {
		return nil, err
	}
	normalizer := holidays.NewNormalizer(a.settings.Holidays.ReferenceTimezone, local)

	if a.settings.Holidays.File == "" {
		store, err := data.Default()
		if err != nil {
			return nil, fmt.Errorf("built-in holiday data: %w", err)
		}
		log.Printf("[holidays] using built-in calendar with %d holidays", store.Len())
		return holidays.NewService(store, normalizer), nil
	}
	return holidays.LoadService(a.fs, a.settings.Holidays.File, normalizer)
}
