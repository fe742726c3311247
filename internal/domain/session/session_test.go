package session

import (
	"errors"
	"testing"
	"time"

	"github.com/sangkips/estoque-motto-api/internal/domain/enum"
)

func TestTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    enum.AccessMode
		event   Event
		want    enum.AccessMode
		wantErr bool
	}{
		{"operator login", enum.AccessModeUnauthorized, EventLoginOperacional, enum.AccessModeOperacional, false},
		{"manager login from scratch", enum.AccessModeUnauthorized, EventLoginGestor, enum.AccessModeGestor, false},
		{"operator elevates", enum.AccessModeOperacional, EventLoginGestor, enum.AccessModeGestor, false},
		{"manager switches down", enum.AccessModeGestor, EventSwitchOperacional, enum.AccessModeOperacional, false},
		{"logout from manager", enum.AccessModeGestor, EventLogout, enum.AccessModeUnauthorized, false},
		{"logout from operator", enum.AccessModeOperacional, EventLogout, enum.AccessModeUnauthorized, false},
		{"operator cannot switch down", enum.AccessModeOperacional, EventSwitchOperacional, enum.AccessModeOperacional, true},
		{"double operator login", enum.AccessModeOperacional, EventLoginOperacional, enum.AccessModeOperacional, true},
		{"manager login twice", enum.AccessModeGestor, EventLoginGestor, enum.AccessModeGestor, true},
		{"unknown event", enum.AccessModeGestor, Event("SUDO"), enum.AccessModeGestor, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Session{ID: "terminal-1", Mode: tt.from}
			got, err := Transition(s, tt.event)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidTransition) {
				t.Errorf("error should wrap ErrInvalidTransition: %v", err)
			}
			if got.Mode != tt.want {
				t.Errorf("Mode = %s, want %s", got.Mode, tt.want)
			}
			if got.ID != "terminal-1" {
				t.Errorf("session id changed to %q", got.ID)
			}
			if s.Mode != tt.from {
				t.Error("Transition must not mutate its input")
			}
		})
	}
}

func TestNewIsUnauthorized(t *testing.T) {
	s := New(time.Now())
	if s.IsAuthenticated() || s.ID == "" {
		t.Errorf("New() = %+v", s)
	}
}
