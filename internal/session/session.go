// Package session owns the per-view lint state: the map from region start
// to message produced by the most recent completed pass of each view.
package session

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jacobarthurs/flake8lint/internal/analyzer"
	"github.com/jacobarthurs/flake8lint/internal/editor"
)

// Separator joins messages that share a line in tips and the results pane.
const Separator = " | "

func JoinMessages(messages []string) string {
	return strings.Join(messages, Separator)
}

type Entry struct {
	Region  editor.Region
	Message string
}

// ErrorMap is keyed by region start offset. A later entry at the same
// offset replaces an earlier one.
type ErrorMap map[int]Entry

// Session is the result of one completed lint pass over a view.
type Session struct {
	ViewID    editor.ViewID
	RunID     string
	FileName  string
	Errors    ErrorMap
	Result    analyzer.Result
	Completed time.Time
}

// Messages returns the messages of all entries intersecting r, ordered by
// region start.
func (s *Session) Messages(r editor.Region) []string {
	if s == nil {
		return nil
	}
	var hits []Entry
	for _, e := range s.Errors {
		if e.Region.Intersects(r) {
			hits = append(hits, e)
		}
	}
	sort.Slice(hits, func(i, j int) bool {
		return hits[i].Region.Begin() < hits[j].Region.Begin()
	})

	messages := make([]string, len(hits))
	for i, e := range hits {
		messages[i] = e.Message
	}
	return messages
}

// Store holds one Session per view. Sessions are replaced wholesale, never
// merged.
type Store struct {
	mu       sync.RWMutex
	sessions map[editor.ViewID]*Session
}

func NewStore() *Store {
	return &Store{sessions: make(map[editor.ViewID]*Session)}
}

// Replace installs s as the current session of its view and returns the
// previous one, if any.
func (st *Store) Replace(s *Session) *Session {
	st.mu.Lock()
	defer st.mu.Unlock()
	prev := st.sessions[s.ViewID]
	st.sessions[s.ViewID] = s
	return prev
}

func (st *Store) Get(id editor.ViewID) (*Session, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.sessions[id]
	return s, ok
}

func (st *Store) Has(id editor.ViewID) bool {
	_, ok := st.Get(id)
	return ok
}

// Evict drops the session of a closed view.
func (st *Store) Evict(id editor.ViewID) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	_, ok := st.sessions[id]
	delete(st.sessions, id)
	return ok
}

func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// Messages looks up the messages for region r of a view.
func (st *Store) Messages(id editor.ViewID, r editor.Region) []string {
	s, ok := st.Get(id)
	if !ok {
		return nil
	}
	return s.Messages(r)
}
