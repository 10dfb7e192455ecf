// Package config loads aspcal settings from defaults, a YAML file, a .env file
// and ASPCAL_* environment variables, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"log"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the settings file read when none is given.
const DefaultPath = "aspcal.yml"

// EnvPrefix prefixes every environment override.
const EnvPrefix = "ASPCAL_"

// Duration is a time.Duration that reads and writes as "10m", "1h30m", etc.
type Duration time.Duration

func (d Duration) String() string { return time.Duration(d).String() }

func (d Duration) MarshalYAML() (interface{}, error) {
	return d.String(), nil
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := parseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*d = parsed
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func parseDuration(s string) (Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "0" {
		return 0, nil
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", s, err)
	}
	return Duration(v), nil
}

type ServerSettings struct {
	Host string `yaml:"host" json:"host"`
	Port int    `yaml:"port" json:"port"`
}

// Addr is the listen address for net/http.
func (s ServerSettings) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

type HolidaySettings struct {
	// File is the holiday data file. Empty means the embedded calendar.
	File              string   `yaml:"file" json:"file"`
	ReferenceTimezone string   `yaml:"reference_timezone" json:"referenceTimezone"`
	LocalTimezone     string   `yaml:"local_timezone" json:"localTimezone"`
	UpcomingCount     int      `yaml:"upcoming_count" json:"upcomingCount"`
	ReloadInterval    Duration `yaml:"reload_interval" json:"reloadInterval"`
}

type RateLimitSettings struct {
	PerMinute int `yaml:"per_minute" json:"perMinute"`
	Burst     int `yaml:"burst" json:"burst"`
}

type CORSSettings struct {
	AllowedOrigins []string `yaml:"allowed_origins,omitempty" json:"allowedOrigins"`
}

type LogSettings struct {
	File       string `yaml:"file" json:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb" json:"maxSizeMb"`
	MaxBackups int    `yaml:"max_backups" json:"maxBackups"`
	MaxAgeDays int    `yaml:"max_age_days" json:"maxAgeDays"`
	Compress   bool   `yaml:"compress" json:"compress"`
}

// Settings is the full aspcal configuration.
type Settings struct {
	Server    ServerSettings    `yaml:"server" json:"server"`
	Holidays  HolidaySettings   `yaml:"holidays" json:"holidays"`
	RateLimit RateLimitSettings `yaml:"rate_limit" json:"rateLimit"`
	CORS      CORSSettings      `yaml:"cors" json:"cors"`
	Log       LogSettings       `yaml:"log" json:"log"`
	Debug     bool              `yaml:"debug" json:"debug"`
}

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() Settings {
	return Settings{
		Server: ServerSettings{Host: "0.0.0.0", Port: 8080},
		Holidays: HolidaySettings{
			ReferenceTimezone: "America/New_York",
			UpcomingCount:     3,
		},
		RateLimit: RateLimitSettings{PerMinute: 120, Burst: 30},
		Log: LogSettings{
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

// Manager reads and writes a settings file.
type Manager struct {
	fs     afero.Fs
	path   string
	getenv func(string) (string, bool)
}

// NewManager returns a Manager for path on the OS filesystem.
func NewManager(path string) *Manager {
	return NewManagerFs(afero.NewOsFs(), path)
}

// NewManagerFs returns a Manager backed by fs.
func NewManagerFs(fs afero.Fs, path string) *Manager {
	if path == "" {
		path = DefaultPath
	}
	return &Manager{fs: fs, path: path, getenv: os.LookupEnv}
}

// Path returns the settings file path.
func (m *Manager) Path() string { return m.path }

// Load builds settings from defaults, the settings file (if present) and the
// environment, then validates the result.
func (m *Manager) Load() (Settings, error) {
	settings := DefaultSettings()

	data, err := afero.ReadFile(m.fs, m.path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &settings); err != nil {
			return Settings{}, fmt.Errorf("parse %s: %w", m.path, err)
		}
	case errors.Is(err, os.ErrNotExist):
		// defaults only
	default:
		return Settings{}, fmt.Errorf("read %s: %w", m.path, err)
	}

	if err := m.applyEnv(&settings); err != nil {
		return Settings{}, err
	}
	if err := settings.Validate(); err != nil {
		return Settings{}, err
	}
	return settings, nil
}

// Save writes settings as YAML.
func (m *Manager) Save(settings Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	data, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	if err := afero.WriteFile(m.fs, m.path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", m.path, err)
	}
	return nil
}

// LoadEnvFile loads KEY=value pairs from a .env file into the process
// environment. A missing file is not an error. Variables already set win.
func LoadEnvFile(path string) error {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	log.Printf("[config] loaded environment from %s", path)
	return nil
}

func (m *Manager) applyEnv(s *Settings) error {
	str := func(key string, dst *string) {
		if v, ok := m.getenv(EnvPrefix + key); ok {
			*dst = strings.TrimSpace(v)
		}
	}
	num := func(key string, dst *int) error {
		v, ok := m.getenv(EnvPrefix + key)
		if !ok {
			return nil
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, key, err)
		}
		*dst = n
		return nil
	}
	flag := func(key string, dst *bool) error {
		v, ok := m.getenv(EnvPrefix + key)
		if !ok {
			return nil
		}
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, key, err)
		}
		*dst = b
		return nil
	}

	str("HOST", &s.Server.Host)
	str("HOLIDAYS_FILE", &s.Holidays.File)
	str("REFERENCE_TIMEZONE", &s.Holidays.ReferenceTimezone)
	str("LOCAL_TIMEZONE", &s.Holidays.LocalTimezone)
	str("LOG_FILE", &s.Log.File)

	for key, dst := range map[string]*int{
		"PORT":            &s.Server.Port,
		"UPCOMING_COUNT":  &s.Holidays.UpcomingCount,
		"RATE_PER_MINUTE": &s.RateLimit.PerMinute,
		"RATE_BURST":      &s.RateLimit.Burst,
	} {
		if err := num(key, dst); err != nil {
			return err
		}
	}
	if err := flag("DEBUG", &s.Debug); err != nil {
		return err
	}

	if v, ok := m.getenv(EnvPrefix + "RELOAD_INTERVAL"); ok {
		d, err := parseDuration(v)
		if err != nil {
			return fmt.Errorf("%sRELOAD_INTERVAL: %w", EnvPrefix, err)
		}
		s.Holidays.ReloadInterval = d
	}
	if v, ok := m.getenv(EnvPrefix + "ALLOWED_ORIGINS"); ok {
		s.CORS.AllowedOrigins = splitList(v)
	}
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Validate reports the first invalid setting.
func (s Settings) Validate() error {
	if s.Server.Port < 1 || s.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", s.Server.Port)
	}
	if s.Holidays.UpcomingCount < 1 || s.Holidays.UpcomingCount > 20 {
		return fmt.Errorf("holidays.upcoming_count must be between 1 and 20, got %d", s.Holidays.UpcomingCount)
	}
	if s.Holidays.ReloadInterval < 0 {
		return fmt.Errorf("holidays.reload_interval must not be negative")
	}
	if s.Holidays.ReloadInterval > 0 && s.Holidays.File == "" {
		return errors.New("holidays.reload_interval requires holidays.file")
	}
	if tz := s.Holidays.LocalTimezone; tz != "" {
		if _, err := time.LoadLocation(tz); err != nil {
			return fmt.Errorf("holidays.local_timezone: %w", err)
		}
	}
	if s.RateLimit.PerMinute < 0 || s.RateLimit.Burst < 0 {
		return errors.New("rate_limit values must not be negative")
	}
	if s.RateLimit.PerMinute > 0 && s.RateLimit.Burst == 0 {
		return errors.New("rate_limit.burst must be positive when rate_limit.per_minute is set")
	}
	return nil
}

// LocalLocation resolves the configured local timezone. Empty means time.Local.
func (s Settings) LocalLocation() (*time.Location, error) {
	if s.Holidays.LocalTimezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(s.Holidays.LocalTimezone)
}
