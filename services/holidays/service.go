package holidays

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/golang-sql/civil"
	"github.com/spf13/afero"

	"aspcal/models"
)

// Status holds the current state of the holiday data reload worker.
type Status struct {
	Running        bool             `json:"running"`
	State          string           `json:"state"` // "disabled", "idle", "reloading", "stopped"
	Source         string           `json:"source"`
	Holidays       int              `json:"holidays"`
	Range          models.DateRange `json:"range"`
	LoadedAt       time.Time        `json:"loadedAt"`
	LastCheckAt    time.Time        `json:"lastCheckAt,omitempty"`
	LastReloadMs   int64            `json:"lastReloadMs"`
	NextCheckAt    time.Time        `json:"nextCheckAt,omitempty"`
	ReloadInterval string           `json:"reloadInterval,omitempty"`
	LastError      string           `json:"lastError,omitempty"`
}

// Service owns the active holiday store and the date normalizer.
// A store is never mutated; a reload swaps in a new one, and each request
// works against the single store returned by Snapshot.
type Service struct {
	mu         sync.RWMutex
	store      *Store
	normalizer *Normalizer

	fs      afero.Fs
	path    string // empty when the store was not loaded from a file
	modTime time.Time

	stopCh         chan struct{}
	refreshNow     chan struct{}
	reloadInterval time.Duration

	// Status tracking
	statusMu     sync.RWMutex
	running      bool
	state        string
	loadedAt     time.Time
	lastCheckAt  time.Time
	lastReloadMs int64
	nextCheckAt  time.Time
	lastError    string
}

// NewService wraps an already loaded store.
func NewService(store *Store, normalizer *Normalizer) *Service {
	return &Service{
		store:      store,
		normalizer: normalizer,
		state:      "disabled",
		loadedAt:   time.Now(),
	}
}

// LoadService loads path from fs and remembers it for later reloads.
func LoadService(fs afero.Fs, path string, normalizer *Normalizer) (*Service, error) {
	store, err := Load(fs, path)
	if err != nil {
		return nil, err
	}
	s := NewService(store, normalizer)
	s.fs = fs
	s.path = path
	if fi, err := fs.Stat(path); err == nil {
		s.modTime = fi.ModTime()
	}
	log.Printf("[holidays] loaded %d holidays from %s", store.Len(), path)
	return s, nil
}

// Snapshot returns the store to use for one evaluation.
func (s *Service) Snapshot() *Store {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.store
}

// Normalizer returns the date normalizer.
func (s *Service) Normalizer() *Normalizer {
	return s.normalizer
}

// Today is the canonical date for now.
func (s *Service) Today(now time.Time) civil.Date {
	d, _ := s.normalizer.Today(now)
	return d
}

// Evaluate answers the page-level questions for one instant: today's status,
// the next count holidays and, when asked, how those values were derived.
// Running out of upcoming holidays is reported in the response, not as an error.
func (s *Service) Evaluate(now time.Time, count int, withDiagnostics bool) models.StatusResponse {
	store := s.Snapshot()
	today, dateDiag := s.normalizer.Today(now)
	status := store.IsHolidayToday(today)

	resp := models.StatusResponse{
		Today:       today,
		IsHoliday:   status.IsHoliday,
		HolidayName: status.HolidayName,
		Upcoming:    []models.Holiday{},
	}

	upcoming, err := store.UpcomingHolidays(today, count, s.normalizer.Local())
	if err != nil {
		resp.UpcomingError = "no upcoming holidays"
		log.Printf("[holidays] %v after %s; holiday data needs extending", err, FormatDateKey(today))
	} else {
		resp.Upcoming = upcoming
	}

	if withDiagnostics {
		diag := &models.Diagnostics{Date: dateDiag}
		if len(upcoming) > 0 {
			diag.Upcoming = upcomingDiagnostics(today, upcoming[0], s.normalizer.Local())
		}
		resp.Diagnostics = diag
	}
	return resp
}

// StartBackgroundReload re-reads the data file every interval when it has changed.
func (s *Service) StartBackgroundReload(interval time.Duration) error {
	if s.path == "" {
		return errors.New("holiday data was not loaded from a file")
	}
	if interval <= 0 {
		return fmt.Errorf("reload interval must be positive, got %s", interval)
	}

	s.reloadInterval = interval
	s.stopCh = make(chan struct{})
	s.refreshNow = make(chan struct{}, 1)
	stopCh, refreshNow := s.stopCh, s.refreshNow

	s.statusMu.Lock()
	s.running = true
	s.state = "idle"
	s.statusMu.Unlock()

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			s.statusMu.Lock()
			s.nextCheckAt = time.Now().Add(interval)
			s.statusMu.Unlock()

			select {
			case <-ticker.C:
				s.doReload(false)
			case <-refreshNow:
				log.Println("[holidays] reload: manual reload triggered")
				s.doReload(true)
				ticker.Reset(interval)
			case <-stopCh:
				log.Println("[holidays] reload: stopped")
				s.statusMu.Lock()
				s.running = false
				s.state = "stopped"
				s.statusMu.Unlock()
				return
			}
		}
	}()
	return nil
}

// Refresh triggers an immediate reload. Non-blocking.
func (s *Service) Refresh() {
	if s.refreshNow == nil {
		return
	}
	select {
	case s.refreshNow <- struct{}{}:
	default:
		// Already a reload pending
	}
}

// Stop ends the background reload.
func (s *Service) Stop() {
	if s.stopCh != nil {
		close(s.stopCh)
		s.stopCh = nil
	}
}

// doReload swaps in a freshly parsed store. A file that fails validation is
// logged and the current store stays active.
func (s *Service) doReload(force bool) {
	s.statusMu.Lock()
	s.state = "reloading"
	s.lastCheckAt = time.Now()
	s.statusMu.Unlock()

	start := time.Now()
	err := s.reload(force)
	elapsed := time.Since(start)

	s.statusMu.Lock()
	s.state = "idle"
	s.lastReloadMs = elapsed.Milliseconds()
	if err != nil {
		s.lastError = err.Error()
	} else {
		s.lastError = ""
	}
	s.statusMu.Unlock()
}

func (s *Service) reload(force bool) error {
	fi, err := s.fs.Stat(s.path)
	if err != nil {
		log.Printf("[holidays] reload: stat %s: %v", s.path, err)
		return err
	}
	if !force && !fi.ModTime().After(s.modTime) {
		return nil
	}

	store, err := Load(s.fs, s.path)
	if err != nil {
		log.Printf("[holidays] reload: keeping previous data: %v", err)
		return err
	}

	s.mu.Lock()
	s.store = store
	s.modTime = fi.ModTime()
	s.mu.Unlock()

	s.statusMu.Lock()
	s.loadedAt = time.Now()
	s.statusMu.Unlock()

	log.Printf("[holidays] reload: loaded %d holidays from %s", store.Len(), s.path)
	return nil
}

// GetStatus returns the current status of the reload worker and active data.
func (s *Service) GetStatus() Status {
	s.statusMu.RLock()
	st := Status{
		Running:      s.running,
		State:        s.state,
		LoadedAt:     s.loadedAt,
		LastCheckAt:  s.lastCheckAt,
		LastReloadMs: s.lastReloadMs,
		NextCheckAt:  s.nextCheckAt,
		LastError:    s.lastError,
	}
	s.statusMu.RUnlock()

	store := s.Snapshot()
	st.Source = s.path
	if st.Source == "" {
		st.Source = "embedded"
	}
	st.Holidays = store.Len()
	st.Range = store.DateRange()

	if s.reloadInterval > 0 {
		if s.reloadInterval >= time.Hour {
			st.ReloadInterval = fmt.Sprintf("%.0fh", s.reloadInterval.Hours())
		} else {
			st.ReloadInterval = fmt.Sprintf("%.0fm", s.reloadInterval.Minutes())
		}
	}
	return st
}
