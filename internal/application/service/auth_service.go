package service

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/sangkips/estoque-motto-api/internal/domain/enum"
	"github.com/sangkips/estoque-motto-api/internal/domain/repository"
	"github.com/sangkips/estoque-motto-api/internal/domain/session"
	"github.com/sangkips/estoque-motto-api/pkg/apperror"
	"github.com/sangkips/estoque-motto-api/pkg/utils"
)

// SessionEndedHook is told when a session logs out, so per-session state
// (the cart) can be dropped.
type SessionEndedHook func(sessionID string)

// AuthService opens sessions and moves them between access modes. Sessions
// live in memory: a restart logs every terminal out.
type AuthService struct {
	settingsRepo repository.SettingsRepository
	gate         *AuthorizationGate
	jwtManager   *utils.JWTManager
	now          func() time.Time

	mu       sync.RWMutex
	sessions map[string]liveSession
	onEnd    []SessionEndedHook
}

// liveSession is a session plus the expiry of the last token issued for it.
type liveSession struct {
	session.Session
	expiresAt time.Time
}

// NewAuthService creates a new auth service
func NewAuthService(
	settingsRepo repository.SettingsRepository,
	gate *AuthorizationGate,
	jwtManager *utils.JWTManager,
) *AuthService {
	return &AuthService{
		settingsRepo: settingsRepo,
		gate:         gate,
		jwtManager:   jwtManager,
		now:          time.Now,
		sessions:     make(map[string]liveSession),
	}
}

// OnSessionEnded registers a hook run after logout.
func (s *AuthService) OnSessionEnded(hook SessionEndedHook) {
	s.onEnd = append(s.onEnd, hook)
}

// LoginOutput represents the login output
type LoginOutput struct {
	Session   session.Session `json:"session"`
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expires_at"`
}

// LoginOperational opens an operator session. No PIN is needed.
func (s *AuthService) LoginOperational(ctx context.Context) (*LoginOutput, error) {
	if err := s.requireConfigured(ctx); err != nil {
		return nil, err
	}
	return s.apply(session.New(s.now()), session.EventLoginOperacional)
}

// LoginManager elevates current (or a new session when current is nil) to
// GESTOR after the PIN is verified. terminal keys the lockout counter.
func (s *AuthService) LoginManager(ctx context.Context, current *session.Session, terminal, pin string) (*LoginOutput, error) {
	if err := s.requireConfigured(ctx); err != nil {
		return nil, err
	}

	sess := session.New(s.now())
	if current != nil {
		sess = *current
		terminal = current.ID
	}

	res, err := s.gate.Verify(ctx, terminal, pin)
	if err != nil {
		return nil, err
	}
	if res.Status != ChallengeAuthorized {
		return nil, res.Err()
	}
	return s.apply(sess, session.EventLoginGestor)
}

// SwitchToOperational drops a manager session to operator mode. The grant
// must come from a MODO_OPERACIONAL challenge on the same terminal.
func (s *AuthService) SwitchToOperational(ctx context.Context, current session.Session, grant string) (*LoginOutput, error) {
	if !current.IsManager() {
		return nil, apperror.NewBadRequestError("A sessão já está em modo operacional")
	}
	if err := s.gate.Consume(ctx, grant, enum.PurposeOperationalMode, current.ID); err != nil {
		return nil, err
	}
	return s.apply(current, session.EventSwitchOperacional)
}

// Logout ends the session.
func (s *AuthService) Logout(ctx context.Context, current session.Session) error {
	s.mu.Lock()
	delete(s.sessions, current.ID)
	s.mu.Unlock()

	s.ended(current.ID)
	return nil
}

// PruneExpired drops sessions whose last token has expired and runs the
// logout hooks for each. It returns how many were dropped.
func (s *AuthService) PruneExpired() int {
	now := s.now()

	s.mu.Lock()
	var expired []string
	for id, live := range s.sessions {
		if !now.Before(live.expiresAt) {
			delete(s.sessions, id)
			expired = append(expired, id)
		}
	}
	s.mu.Unlock()

	for _, id := range expired {
		s.ended(id)
	}
	return len(expired)
}

func (s *AuthService) ended(sessionID string) {
	for _, hook := range s.onEnd {
		hook(sessionID)
	}
}

// Resolve maps a presented token to its live session. A token whose mode no
// longer matches the session (it was switched or logged out) is rejected.
func (s *AuthService) Resolve(ctx context.Context, token string) (*session.Session, error) {
	claims, err := s.jwtManager.ValidateSessionToken(token)
	if err != nil {
		return nil, apperror.ErrInvalidToken
	}

	s.mu.RLock()
	live, ok := s.sessions[claims.SessionID()]
	s.mu.RUnlock()
	if !ok || string(live.Mode) != claims.Mode || !s.now().Before(live.expiresAt) {
		return nil, apperror.ErrTokenExpired
	}
	sess := live.Session
	return &sess, nil
}

func (s *AuthService) apply(sess session.Session, ev session.Event) (*LoginOutput, error) {
	next, err := session.Transition(sess, ev)
	if err != nil {
		if errors.Is(err, session.ErrInvalidTransition) {
			return nil, apperror.NewBadRequestError(err.Error())
		}
		return nil, err
	}

	token, expiresAt, err := s.jwtManager.GenerateSessionToken(next.ID, next.Mode.String())
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.sessions[next.ID] = liveSession{Session: next, expiresAt: expiresAt}
	s.mu.Unlock()

	log.Printf("Session %s: %s -> %s", next.ID, sess.Mode, next.Mode)
	return &LoginOutput{Session: next, Token: token, ExpiresAt: expiresAt}, nil
}

func (s *AuthService) requireConfigured(ctx context.Context) error {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return err
	}
	if !settings.IsConfigured() {
		return apperror.ErrNotConfigured
	}
	return nil
}
