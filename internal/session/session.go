// Package session holds the signed-in user's tokens and notifies subscribers when they change.
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/hongminglow/vendorhub-be/internal/models"
)

// ErrNoSession is returned by Load when nobody is signed in.
var ErrNoSession = errors.New("no session")

// State is the coarse role a session grants.
type State int

const (
	Anonymous State = iota
	Customer
	Vendor
	Admin
)

func (s State) String() string {
	switch s {
	case Customer:
		return "customer"
	case Vendor:
		return "vendor"
	case Admin:
		return "admin"
	default:
		return "anonymous"
	}
}

// AuthSession is what a successful login leaves behind.
type AuthSession struct {
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken,omitempty"`
	User         models.User `json:"user"`
}

// State maps the session onto a State. A session without an access token is anonymous.
func (s AuthSession) State() State {
	if s.AccessToken == "" {
		return Anonymous
	}
	switch {
	case s.User.Role == models.RoleVendor:
		return Vendor
	case models.IsAdminRole(s.User.Role):
		return Admin
	case s.User.Role != "":
		return Customer
	default:
		return Anonymous
	}
}

// Store persists the current session. Save and Clear notify subscribers synchronously,
// in registration order, after the change is durable.
type Store interface {
	Load(ctx context.Context) (AuthSession, error)
	Save(ctx context.Context, s AuthSession) error
	Clear(ctx context.Context) error
	OnSessionChange(fn func(AuthSession)) (cancel func())
}

type subscription struct {
	id int
	fn func(AuthSession)
}

// notifier fans session changes out to subscribers.
type notifier struct {
	mu     sync.Mutex
	nextID int
	subs   []subscription
}

func (n *notifier) subscribe(fn func(AuthSession)) func() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.nextID++
	id := n.nextID
	n.subs = append(n.subs, subscription{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() {
			n.mu.Lock()
			defer n.mu.Unlock()
			for i, s := range n.subs {
				if s.id == id {
					n.subs = append(n.subs[:i:i], n.subs[i+1:]...)
					return
				}
			}
		})
	}
}

// notify runs subscribers outside the lock so they may call back into the store.
func (n *notifier) notify(s AuthSession) {
	n.mu.Lock()
	subs := append([]subscription(nil), n.subs...)
	n.mu.Unlock()
	for _, sub := range subs {
		sub.fn(s)
	}
}

// MemoryStore keeps the session in process.
type MemoryStore struct {
	notifier
	mu      sync.RWMutex
	current *AuthSession
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Load(context.Context) (AuthSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return AuthSession{}, ErrNoSession
	}
	return *m.current, nil
}

func (m *MemoryStore) Save(_ context.Context, s AuthSession) error {
	m.mu.Lock()
	m.current = &s
	m.mu.Unlock()
	m.notify(s)
	return nil
}

func (m *MemoryStore) Clear(context.Context) error {
	m.mu.Lock()
	m.current = nil
	m.mu.Unlock()
	m.notify(AuthSession{})
	return nil
}

func (m *MemoryStore) OnSessionChange(fn func(AuthSession)) func() {
	return m.subscribe(fn)
}
