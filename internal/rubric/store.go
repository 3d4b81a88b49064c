package rubric

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// Store holds the process-wide current Config. Readers take a Snapshot at the
// start of a grading call and keep using it even if an update lands mid-grade.
// Updates build a new Config, validate it, and swap it in atomically; on any
// error the previous Config stays current.
type Store struct {
	mu        sync.Mutex // serializes writers
	current   atomic.Pointer[Config]
	stylePath string
}

// NewStore validates cfg and makes it current. stylePath, when non-empty, is
// where UpdateStyle persists and ReloadStyle reads.
func NewStore(cfg *Config, stylePath string) (*Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Store{stylePath: stylePath}
	s.current.Store(cfg.Clone())
	return s, nil
}

// Snapshot returns the current Config. The value must be treated as read-only.
func (s *Store) Snapshot() *Config {
	return s.current.Load()
}

// StylePath returns the file backing the style, if any.
func (s *Store) StylePath() string {
	return s.stylePath
}

// UpdateRubric replaces the rubric.
func (s *Store) UpdateRubric(r Rubric) error {
	return s.update(func(c *Config) { c.Rubric = r.Clone() }, nil)
}

// UpdateWeights replaces the weights.
func (s *Store) UpdateWeights(w Weights) error {
	return s.update(func(c *Config) { c.Weights = w.Clone() }, nil)
}

// UpdateStyle replaces the style. With persist set the style is written to
// the store's style file before it becomes current.
func (s *Store) UpdateStyle(st Style, persist bool) error {
	var commit func(*Config) error
	if persist {
		if s.stylePath == "" {
			return fmt.Errorf("persisting style: no style file configured")
		}
		commit = func(c *Config) error { return StoreStyle(s.stylePath, c.Style) }
	}
	return s.update(func(c *Config) { c.Style = st.Clone() }, commit)
}

// ReloadStyle re-reads the style file and makes it current.
func (s *Store) ReloadStyle() error {
	if s.stylePath == "" {
		return fmt.Errorf("reloading style: no style file configured")
	}
	st, err := LoadStyle(s.stylePath)
	if err != nil {
		return err
	}
	return s.UpdateStyle(st, false)
}

// update applies a change to a copy of the current Config, validates it, runs
// commit (if any) and only then publishes the copy.
func (s *Store) update(apply func(*Config), commit func(*Config) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.current.Load().Clone()
	apply(next)
	if err := next.Validate(); err != nil {
		return err
	}
	if commit != nil {
		if err := commit(next); err != nil {
			return err
		}
	}
	s.current.Store(next)
	return nil
}
