package gate

import (
	"context"
	"sync"

	leadmagnet "github.com/lvillar/leadmagnet"
)

type usage struct {
	used int
	paid bool
}

// Memory is an in-process Consumer. Usage is lost on restart.
type Memory struct {
	free     int
	mu       sync.Mutex
	sessions map[string]*usage
}

// NewMemory creates a store granting free uses per session.
func NewMemory(free int) *Memory {
	return &Memory{free: free, sessions: make(map[string]*usage)}
}

func (m *Memory) get(session string) *usage {
	u, ok := m.sessions[session]
	if !ok {
		u = &usage{}
		m.sessions[session] = u
	}
	return u
}

func (m *Memory) status(u *usage) Status {
	return Status{Remaining: max(m.free-u.used, 0), Paid: u.paid}
}

func (m *Memory) Status(_ context.Context, session string) (Status, error) {
	if err := checkSession(session); err != nil {
		return Status{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.sessions[session]
	if !ok {
		return Status{Remaining: m.free}, nil
	}
	return m.status(u), nil
}

func (m *Memory) Consume(_ context.Context, session string) (Status, error) {
	if err := checkSession(session); err != nil {
		return Status{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	u := m.get(session)
	if u.paid {
		return m.status(u), nil
	}
	if u.used >= m.free {
		return m.status(u), leadmagnet.ErrNoUsesLeft
	}
	u.used++
	return m.status(u), nil
}

func (m *Memory) MarkPaid(_ context.Context, session string) error {
	if err := checkSession(session); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.get(session).paid = true
	return nil
}
