package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/modforge/modforge/internal/config"
	"github.com/modforge/modforge/internal/timeline"
)

// session is the CLI's persisted state: the version timeline of the current
// component plus enough of the spec to drive previews.
type session struct {
	SpecType      string             `json:"specType"`
	ComponentName string             `json:"componentName"`
	Timeline      *timeline.Timeline `json:"timeline"`

	path string
}

// loadSession reads ~/.modforge/session.json, returning a fresh session if
// no file exists yet.
func loadSession() (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	s := &session{Timeline: timeline.New(), path: cfg.SessionPath()}

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading session: %w", err)
	}
	if err := json.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parsing session file %s: %w", s.path, err)
	}
	if s.Timeline == nil {
		s.Timeline = timeline.New()
	}
	return s, nil
}

func (s *session) save() error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("writing session: %w", err)
	}
	return nil
}

// requireActive returns the session's active entry or a friendly error.
func (s *session) requireActive() (*timeline.Entry, error) {
	e := s.Timeline.ActiveEntry()
	if e == nil {
		return nil, fmt.Errorf("no component generated yet (run: modforge generate spec.json)")
	}
	return e, nil
}
