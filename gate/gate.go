// Package gate tracks how many generations a session has left.
//
// A session starts with a number of free uses. Each successful download
// consumes one; a session marked paid is never limited. Stores are keyed
// by session id and safe for concurrent use.
package gate

import (
	"context"
	"fmt"

	leadmagnet "github.com/lvillar/leadmagnet"
)

// DefaultFreeUses is the number of generations a new session gets.
const DefaultFreeUses = 1

// Status is the usage state of one session.
type Status struct {
	Remaining int  `json:"usesRemaining"`
	Paid      bool `json:"paid"`
}

// Allowed reports whether one more generation may run.
func (s Status) Allowed() bool {
	return s.Paid || s.Remaining > 0
}

// Consumer is the usage capability handed to the generation path.
type Consumer interface {
	// Status returns the current usage of session.
	Status(ctx context.Context, session string) (Status, error)
	// Consume spends one use. It returns ErrNoUsesLeft when none remain.
	Consume(ctx context.Context, session string) (Status, error)
	// MarkPaid lifts the limit for session.
	MarkPaid(ctx context.Context, session string) error
}

// Spend runs produce only when session has a use left and consumes the use
// after produce succeeds. A failing produce costs nothing.
func Spend(ctx context.Context, c Consumer, session string, produce func() error) error {
	st, err := c.Status(ctx, session)
	if err != nil {
		return fmt.Errorf("gate: reading usage: %w", err)
	}
	if !st.Allowed() {
		return leadmagnet.ErrNoUsesLeft
	}
	if err := produce(); err != nil {
		return err
	}
	if _, err := c.Consume(ctx, session); err != nil {
		return err
	}
	return nil
}

func checkSession(session string) error {
	if session == "" {
		return fmt.Errorf("gate: empty session id")
	}
	return nil
}
