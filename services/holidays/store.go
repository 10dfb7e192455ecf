package holidays

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/golang-sql/civil"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"aspcal/models"
)

// ErrConfiguration is matched by every error returned while loading holiday data.
var ErrConfiguration = errors.New("invalid holiday data")

// ConfigError describes why a holiday data source was rejected.
type ConfigError struct {
	Source string // file path or "<memory>"
	Key    string // offending date key, if any
	Err    error
}

func (e *ConfigError) Error() string {
	var b strings.Builder
	b.WriteString("holiday data")
	if e.Source != "" {
		fmt.Fprintf(&b, " %s", e.Source)
	}
	if e.Key != "" {
		fmt.Fprintf(&b, " key %q", e.Key)
	}
	fmt.Fprintf(&b, ": %v", e.Err)
	return b.String()
}

func (e *ConfigError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrConfiguration) match any *ConfigError.
func (e *ConfigError) Is(target error) bool { return target == ErrConfiguration }

// Format selects the serialization of a holiday data file.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the decoder from a file extension. Unknown extensions decode as JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Store is an immutable mapping of date key (YYYY-MM-DD) to holiday name.
type Store struct {
	names map[string]string
	keys  []string
	dates []civil.Date // parallel to keys
}

// Load reads and validates a holiday data file.
func Load(fs afero.Fs, path string) (*Store, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, &ConfigError{Source: path, Err: err}
	}
	defer f.Close()

	s, err := Parse(f, FormatFromPath(path))
	if err != nil {
		var cfgErr *ConfigError
		if errors.As(err, &cfgErr) {
			cfgErr.Source = path
		}
		return nil, err
	}
	return s, nil
}

// Parse decodes a serialized date->name mapping.
func Parse(r io.Reader, format Format) (*Store, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &ConfigError{Err: fmt.Errorf("read: %w", err)}
	}

	raw := make(map[string]string)
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &raw)
	default:
		err = json.Unmarshal(data, &raw)
	}
	if err != nil {
		return nil, &ConfigError{Err: fmt.Errorf("decode %s: %w", format, err)}
	}
	return FromMap(raw)
}

// FromMap validates raw and builds a Store. raw is copied.
func FromMap(raw map[string]string) (*Store, error) {
	if len(raw) == 0 {
		return nil, &ConfigError{Source: "<memory>", Err: errors.New("no holidays defined")}
	}

	s := &Store{
		names: make(map[string]string, len(raw)),
		keys:  make([]string, 0, len(raw)),
	}
	for key, name := range raw {
		d, err := ParseDateKey(key)
		if err != nil {
			return nil, &ConfigError{Key: key, Err: err}
		}
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, &ConfigError{Key: key, Err: errors.New("empty holiday name")}
		}
		s.names[FormatDateKey(d)] = name
		s.keys = append(s.keys, key)
	}

	// Zero-padded keys sort lexicographically in chronological order.
	sort.Strings(s.keys)
	s.dates = make([]civil.Date, len(s.keys))
	for i, key := range s.keys {
		s.dates[i], _ = ParseDateKey(key)
	}
	return s, nil
}

// Lookup returns the holiday name for a date key.
func (s *Store) Lookup(key string) (string, bool) {
	name, ok := s.names[key]
	return name, ok
}

// LookupDate returns the holiday name for a date.
func (s *Store) LookupDate(d civil.Date) (string, bool) {
	return s.Lookup(FormatDateKey(d))
}

// SortedKeys returns all date keys in ascending order. The slice is a copy.
func (s *Store) SortedKeys() []string {
	out := make([]string, len(s.keys))
	copy(out, s.keys)
	return out
}

// Len is the number of holidays in the store.
func (s *Store) Len() int {
	return len(s.keys)
}

// Map returns a copy of the underlying date->name mapping.
func (s *Store) Map() map[string]string {
	out := make(map[string]string, len(s.names))
	for k, v := range s.names {
		out[k] = v
	}
	return out
}

// DateRange returns the first day of the earliest and latest holiday months.
func (s *Store) DateRange() models.DateRange {
	first := s.dates[0]
	last := s.dates[len(s.dates)-1]
	return models.DateRange{
		Start: civil.Date{Year: first.Year, Month: first.Month, Day: 1},
		End:   civil.Date{Year: last.Year, Month: last.Month, Day: 1},
	}
}
