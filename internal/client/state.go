package client

import (
	"slices"
	"strings"
	"sync"
	"time"

	"bloglist/internal/models"
)

const (
	SeveritySuccess = "success"
	SeverityError   = "error"

	// NotificationTTL is how long a notification stays visible.
	NotificationTTL = 5 * time.Second

	successPrefix = "A new"
)

// Severity classifies a notification message. Only messages announcing a
// newly created blog count as success.
func Severity(message string) string {
	if strings.HasPrefix(message, successPrefix) {
		return SeveritySuccess
	}
	return SeverityError
}

type Notification struct {
	Message  string
	Severity string
}

// State is the client-side view: the visible notification and the current user.
type State struct {
	Notification *Notification
	User         *Session
}

// Action is one of ShowNotification, HideNotification or SetUser.
type Action interface {
	isAction()
}

type ShowNotification struct {
	Message string
}

type HideNotification struct{}

// SetUser replaces the current user; a nil Session logs out.
type SetUser struct {
	Session *Session
}

func (ShowNotification) isAction() {}
func (HideNotification) isAction() {}
func (SetUser) isAction()          {}

// Reduce returns the state after applying a.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case ShowNotification:
		s.Notification = &Notification{Message: a.Message, Severity: Severity(a.Message)}
	case HideNotification:
		s.Notification = nil
	case SetUser:
		s.User = a.Session
	}
	return s
}

// Listener observes a dispatch. It runs after the store lock is released.
type Listener func(prev, next State)

// Store serializes dispatches against a State.
type Store struct {
	mu        sync.Mutex
	state     State
	listeners []Listener
}

func NewStore(initial State) *Store {
	return &Store{state: initial}
}

// Subscribe registers l for every later dispatch.
func (s *Store) Subscribe(l Listener) {
	s.mu.Lock()
	s.listeners = append(s.listeners, l)
	s.mu.Unlock()
}

func (s *Store) Dispatch(a Action) {
	s.mu.Lock()
	prev := s.state
	s.state = Reduce(prev, a)
	next := s.state
	listeners := slices.Clone(s.listeners)
	s.mu.Unlock()

	for _, l := range listeners {
		l(prev, next)
	}
}

func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Notifier shows a notification and hides it after ttl. A newer
// notification restarts the countdown.
type Notifier struct {
	store *Store
	ttl   time.Duration

	mu    sync.Mutex
	timer *time.Timer
	gen   uint64
}

func NewNotifier(store *Store, ttl time.Duration) *Notifier {
	if ttl <= 0 {
		ttl = NotificationTTL
	}
	return &Notifier{store: store, ttl: ttl}
}

func (n *Notifier) Notify(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.store.Dispatch(ShowNotification{Message: message})
	if n.timer != nil {
		n.timer.Stop()
	}
	n.gen++
	gen := n.gen
	n.timer = time.AfterFunc(n.ttl, func() { n.hide(gen) })
}

// hide ignores timers that were superseded but had already fired.
func (n *Notifier) hide(gen uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if gen != n.gen {
		return
	}
	n.store.Dispatch(HideNotification{})
	n.timer = nil
}

// Stop cancels a pending hide.
func (n *Notifier) Stop() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.gen++
	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
}

// SortByLikes returns a copy ordered by likes, most liked first. Ties keep their order.
func SortByLikes(blogs []models.Blog) []models.Blog {
	out := slices.Clone(blogs)
	slices.SortStableFunc(out, func(a, b models.Blog) int {
		return b.Likes - a.Likes
	})
	return out
}
