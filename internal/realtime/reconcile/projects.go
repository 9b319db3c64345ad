// Package reconcile keeps a client's local copy of the project list and the
// notification feed consistent with pushed events. Every operation is
// idempotent, so an event that races the client's own HTTP response, or is
// delivered twice, leaves the same state as a single delivery.
package reconcile

import (
	"sync"

	notifdomain "github.com/projectpulse/pulse-backend/internal/notifications/domain"
	projectdomain "github.com/projectpulse/pulse-backend/internal/projects/domain"
	"github.com/projectpulse/pulse-backend/internal/realtime"
)

// Projects is a newest-first mirror of the server's project list.
type Projects struct {
	mu    sync.RWMutex
	items []projectdomain.Project
}

func NewProjects() *Projects {
	return &Projects{}
}

// Reset replaces the mirror with a freshly fetched list.
func (s *Projects) Reset(list []projectdomain.Project) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items[:0:0], list...)
}

// Created inserts p at the front unless an entry with its id already exists.
func (s *Projects) Created(p projectdomain.Project) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(p.ID) >= 0 {
		return false
	}
	s.items = append([]projectdomain.Project{p}, s.items...)
	return true
}

// Updated replaces the entry with p's id. Absent entries and versions older
// than the one held are ignored.
func (s *Projects) Updated(p projectdomain.Project) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(p.ID)
	if i < 0 || p.UpdatedAt.Before(s.items[i].UpdatedAt) {
		return false
	}
	s.items[i] = p
	return true
}

// Deleted drops the entry with id, if any.
func (s *Projects) Deleted(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	return true
}

// Apply routes ev to the matching operation and reports whether the mirror
// changed.
func (s *Projects) Apply(ev realtime.Event) bool {
	switch ev.Kind {
	case realtime.KindProjectCreated:
		if ev.Project != nil {
			return s.Created(*ev.Project)
		}
	case realtime.KindProjectUpdated:
		if ev.Project != nil {
			return s.Updated(*ev.Project)
		}
	case realtime.KindProjectDeleted:
		return s.Deleted(ev.ProjectID)
	}
	return false
}

// Snapshot returns a copy of the current list.
func (s *Projects) Snapshot() []projectdomain.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]projectdomain.Project(nil), s.items...)
}

func (s *Projects) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

func (s *Projects) indexOf(id string) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}

// Feed mirrors the most recent notifications, newest first.
type Feed struct {
	mu    sync.RWMutex
	items []notifdomain.Notification
	limit int
}

func NewFeed() *Feed {
	return &Feed{limit: notifdomain.RecentLimit}
}

func (f *Feed) Reset(list []notifdomain.Notification) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.items = append(f.items[:0:0], list...)
	f.trim()
}

// Add prepends n unless it is already present.
func (f *Feed) Add(n notifdomain.Notification) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i := range f.items {
		if f.items[i].ID == n.ID {
			return false
		}
	}
	f.items = append([]notifdomain.Notification{n}, f.items...)
	f.trim()
	return true
}

// Apply records the notification carried by ev, if any.
func (f *Feed) Apply(ev realtime.Event) bool {
	if ev.Notification == nil {
		return false
	}
	return f.Add(*ev.Notification)
}

func (f *Feed) MarkRead(id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i := range f.items {
		if f.items[i].ID == id {
			changed := !f.items[i].Read
			f.items[i].Read = true
			return changed
		}
	}
	return false
}

func (f *Feed) Unread() int {
	f.mu.RLock()
	defer f.mu.RUnlock()

	n := 0
	for i := range f.items {
		if !f.items[i].Read {
			n++
		}
	}
	return n
}

func (f *Feed) Snapshot() []notifdomain.Notification {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return append([]notifdomain.Notification(nil), f.items...)
}

func (f *Feed) trim() {
	if len(f.items) > f.limit {
		f.items = f.items[:f.limit]
	}
}
