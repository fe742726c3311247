// Package session models which role a terminal is operating under. State is
// an explicit value and every change goes through Transition.
package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/estoque-motto-api/internal/domain/enum"
)

// Event is something that may change a session's access mode.
type Event string

const (
	EventLoginOperacional  Event = "LOGIN_OPERACIONAL"
	EventLoginGestor       Event = "LOGIN_GESTOR"
	EventSwitchOperacional Event = "SWITCH_OPERACIONAL"
	EventLogout            Event = "LOGOUT"
)

var ErrInvalidTransition = errors.New("invalid session transition")

// Session identifies one terminal's login. The ID survives mode changes so
// per-terminal state (the cart, PIN failures) follows the terminal.
type Session struct {
	ID        string          `json:"id"`
	Mode      enum.AccessMode `json:"mode"`
	StartedAt time.Time       `json:"started_at"`
}

// New returns an unauthenticated session.
func New(now time.Time) Session {
	return Session{ID: uuid.NewString(), Mode: enum.AccessModeUnauthorized, StartedAt: now}
}

func (s Session) IsManager() bool {
	return s.Mode.IsManager()
}

func (s Session) IsAuthenticated() bool {
	return s.Mode == enum.AccessModeGestor || s.Mode == enum.AccessModeOperacional
}

// Transition applies ev to s and returns the resulting session. Callers are
// responsible for any PIN check the event implies (LOGIN_GESTOR,
// SWITCH_OPERACIONAL); Transition only enforces which moves are legal.
func Transition(s Session, ev Event) (Session, error) {
	next := s
	switch ev {
	case EventLoginOperacional:
		if s.Mode != enum.AccessModeUnauthorized {
			return s, fmt.Errorf("%w: %s from %s", ErrInvalidTransition, ev, s.Mode)
		}
		next.Mode = enum.AccessModeOperacional
	case EventLoginGestor:
		if s.Mode == enum.AccessModeGestor {
			return s, fmt.Errorf("%w: %s from %s", ErrInvalidTransition, ev, s.Mode)
		}
		next.Mode = enum.AccessModeGestor
	case EventSwitchOperacional:
		if s.Mode != enum.AccessModeGestor {
			return s, fmt.Errorf("%w: %s from %s", ErrInvalidTransition, ev, s.Mode)
		}
		next.Mode = enum.AccessModeOperacional
	case EventLogout:
		next.Mode = enum.AccessModeUnauthorized
	default:
		return s, fmt.Errorf("%w: unknown event %q", ErrInvalidTransition, ev)
	}
	return next, nil
}
