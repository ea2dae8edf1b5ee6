// Package session is the host-facing façade of gramwalk. A Session owns one
// compositor, walks it after every edit, applies suggestions from the user
// override model and teaches that model from candidate selections.
//
// A Session is driven by a single input loop and is not safe for concurrent
// use; the override model it shares may be used by many sessions.
package session

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/katalvlaran/gramwalk/compositor"
	"github.com/katalvlaran/gramwalk/gram"
	"github.com/katalvlaran/gramwalk/override"
)

// Session composes text from readings.
type Session struct {
	comp      *compositor.Compositor
	overrides *override.Model
	opts      Options
	log       *slog.Logger

	path compositor.WalkedPath
}

// New returns a Session over model. overrides may be nil to disable learning.
func New(model gram.Model, overrides *override.Model, opts ...Option) *Session {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	copts := []compositor.Option{
		compositor.WithSeparator(o.Separator),
		compositor.WithLogger(o.Logger),
	}
	if o.LenientInsert {
		copts = append(copts, compositor.WithLenientInsert())
	}

	return &Session{
		comp:      compositor.New(model, copts...),
		overrides: overrides,
		opts:      o,
		log:       o.Logger,
	}
}

// Compositor exposes the underlying compositor for inspection.
func (s *Session) Compositor() *compositor.Compositor { return s.comp }

// Path returns the current walked path.
func (s *Session) Path() compositor.WalkedPath { return s.path }

// Composition returns the composed text and the reading cursor.
func (s *Session) Composition() (string, int) {
	return s.path.Text(), s.comp.Cursor()
}

// InsertReading inserts token at the cursor. When the buffer grows past the
// maximum length, the leading path entries are removed and returned as
// committed text. After walking, a suggestion from the override model may be
// applied to the entry just typed.
func (s *Session) InsertReading(token string) (string, error) {
	// 1) Insert.
	if !s.comp.InsertReading(token) {
		s.opts.Metrics.Reading(false)
		return "", fmt.Errorf("%w: %q", ErrReadingRejected, token)
	}
	s.opts.Metrics.Reading(true)

	// 2) Commit overflow from the head.
	committed, err := s.trimHead()
	if err != nil {
		return "", err
	}

	// 3) Walk and suggest.
	if err := s.walk(); err != nil {
		return committed, err
	}
	if err := s.applySuggestion(); err != nil {
		return committed, err
	}
	s.opts.Metrics.SetLength(s.comp.Len())

	return committed, nil
}

// DropReading removes one reading next to the cursor and re-walks.
// Returns false when there is nothing to remove in that direction.
func (s *Session) DropReading(dir compositor.Direction) (bool, error) {
	if !s.comp.DropReading(dir) {
		return false, nil
	}
	s.opts.Metrics.SetLength(s.comp.Len())

	return true, s.walk()
}

// Cursor returns the reading cursor.
func (s *Session) Cursor() int { return s.comp.Cursor() }

// SetCursor moves the reading cursor, clamped to the buffer.
func (s *Session) SetCursor(index int) { s.comp.SetCursor(index) }

// JumpForward moves the cursor to the end of the current path entry.
func (s *Session) JumpForward() int {
	s.comp.SetCursor(s.path.NextBoundary(s.comp.Cursor()))
	return s.comp.Cursor()
}

// JumpBackward moves the cursor to the start of the previous path entry.
func (s *Session) JumpBackward() int {
	s.comp.SetCursor(s.path.PreviousBoundary(s.comp.Cursor()))
	return s.comp.Cursor()
}

// Clear discards the composition without committing it.
func (s *Session) Clear() {
	s.comp.Clear()
	s.path = nil
	s.opts.Metrics.SetLength(0)
}

// Commit returns the composed text and clears the buffer.
func (s *Session) Commit() string {
	text := s.path.Text()
	s.Clear()
	if text != "" {
		s.opts.Metrics.Commit()
	}

	return text
}

// Candidates lists the candidates at the cursor.
func (s *Session) Candidates() []compositor.Candidate {
	return s.comp.Candidates(s.comp.Cursor())
}

// SelectCandidate pins value at the cursor, re-walks and records the choice
// in the override model.
func (s *Session) SelectCandidate(value string) error {
	for _, c := range s.Candidates() {
		if c.Value == value {
			return s.SelectCandidateAt(c)
		}
	}

	return fmt.Errorf("%w: %q", ErrUnknownCandidate, value)
}

// SelectCandidateAt pins exactly the node a candidate came from.
func (s *Session) SelectCandidateAt(c compositor.Candidate) error {
	if !s.comp.FixCandidate(c) {
		return fmt.Errorf("%w: %q", ErrUnknownCandidate, c.Value)
	}
	if err := s.walk(); err != nil {
		return err
	}
	if s.overrides == nil {
		return nil
	}

	fp := compositor.ContextFingerprint(s.path, c.Location+c.SpanLength)
	if fp == "" {
		return nil
	}
	s.overrides.Observe(fp, c.Value, s.now())
	s.opts.Metrics.Observation()
	s.log.Debug("selection observed", "fingerprint", fp, "value", c.Value)

	return nil
}

func (s *Session) now() float64 {
	return float64(s.opts.Clock().UnixNano()) / float64(time.Second)
}

func (s *Session) walk() error {
	start := time.Now()
	path, err := s.comp.Walk()
	s.opts.Metrics.Walk(time.Since(start), err)
	if err != nil {
		s.path = nil
		return err
	}
	s.path = path

	return nil
}

// trimHead removes whole leading path entries until the buffer fits.
func (s *Session) trimHead() (string, error) {
	overflow := s.comp.Len() - s.opts.MaxBufferLength
	if overflow <= 0 {
		return "", nil
	}
	if err := s.walk(); err != nil {
		return "", err
	}

	var (
		text  []byte
		count int
	)
	for _, e := range s.path {
		if count >= overflow {
			break
		}
		text = append(text, e.Value()...)
		count += e.SpanLength
	}
	s.comp.RemoveHeadReadings(count)
	s.opts.Metrics.Commit()
	s.log.Debug("head committed", "readings", count)

	return string(text), nil
}

// applySuggestion asks the override model about the entry ending at or
// covering the reading just before the cursor. A suggestion is applied as a
// floating override carrying the node's top natural score, so it replaces the
// node's own top candidate without outranking competing segmentations.
// Fixed entries are never touched.
func (s *Session) applySuggestion() error {
	if s.overrides == nil || len(s.path) == 0 || s.comp.Cursor() == 0 {
		return nil
	}
	loc := s.comp.Cursor() - 1
	idx := s.path.EntryAt(loc)
	if idx < 0 {
		return nil
	}
	entry := s.path[idx]
	fp := compositor.ContextFingerprint(s.path, entry.End())
	if fp == "" {
		return nil
	}
	value, ok := s.overrides.Suggest(fp, s.now())
	if !ok || value == entry.Value() {
		return nil
	}

	var target *compositor.Candidate
	for _, c := range s.comp.Candidates(loc) {
		if c.Value == value {
			target = &c
			break
		}
	}
	if target == nil || s.touchesFixed(target.Location, target.Location+target.SpanLength) {
		return nil
	}
	node := s.comp.NodeAt(target.Location, target.SpanLength)
	if node == nil || !s.comp.OverrideNodeScore(loc, value, node.TopScore()) {
		return nil
	}
	s.opts.Metrics.SuggestionApplied()
	s.log.Debug("suggestion applied", "fingerprint", fp, "value", value)

	if err := s.walk(); err != nil {
		return fmt.Errorf("session: walk after suggestion %q: %w", value, err)
	}

	return nil
}

// touchesFixed reports whether any path entry overlapping [from, to) is pinned.
func (s *Session) touchesFixed(from, to int) bool {
	for _, e := range s.path {
		if e.Location < to && from < e.End() {
			if kind, _ := e.Node.Override(); kind == compositor.OverrideFixed {
				return true
			}
		}
	}

	return false
}
