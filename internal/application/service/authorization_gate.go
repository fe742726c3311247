package service

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/sangkips/estoque-motto-api/internal/domain/enum"
	"github.com/sangkips/estoque-motto-api/internal/domain/repository"
	"github.com/sangkips/estoque-motto-api/pkg/apperror"
	"github.com/sangkips/estoque-motto-api/pkg/utils"
)

// ChallengeStatus is the outcome of one PIN attempt.
type ChallengeStatus string

const (
	ChallengeAuthorized ChallengeStatus = "AUTHORIZED"
	ChallengeDenied     ChallengeStatus = "DENIED"
	ChallengeLocked     ChallengeStatus = "LOCKED"
)

// ChallengeResult describes a PIN attempt. Grant is only set when Status is
// AUTHORIZED.
type ChallengeResult struct {
	Status            ChallengeStatus           `json:"status"`
	Purpose           enum.AuthorizationPurpose `json:"purpose,omitempty"`
	Title             string                    `json:"title,omitempty"`
	Grant             string                    `json:"grant,omitempty"`
	GrantExpiresAt    *time.Time                `json:"grant_expires_at,omitempty"`
	Failures          int                       `json:"failures"`
	RemainingAttempts int                       `json:"remaining_attempts"`
	LockedUntil       *time.Time                `json:"locked_until,omitempty"`
}

// Err converts a non-authorized result into the error returned to clients.
func (r *ChallengeResult) Err() error {
	switch r.Status {
	case ChallengeDenied:
		return &apperror.AppError{
			Code:    http.StatusUnauthorized,
			Reason:  apperror.ReasonInvalidPIN,
			Message: fmt.Sprintf("PIN Incorreto (%d/%d)", r.Failures, r.Failures+r.RemainingAttempts),
			Details: r,
		}
	case ChallengeLocked:
		return &apperror.AppError{
			Code:    http.StatusTooManyRequests,
			Reason:  apperror.ReasonLocked,
			Message: "Bloqueado: muitas tentativas de PIN incorretas",
			Details: r,
		}
	}
	return nil
}

type attemptState struct {
	failures    int
	lastFailure time.Time
	lockedUntil time.Time
}

// staleAttempts is how long a failure counter below the limit is kept
// without a new failure when no lockout window is configured.
const staleAttempts = time.Hour

// AuthorizationGate verifies the manager PIN and hands out single-use grants
// for privileged actions. Failed attempts are counted per terminal and a
// terminal that reaches the limit is locked out for a while.
type AuthorizationGate struct {
	settingsRepo repository.SettingsRepository
	jwtManager   *utils.JWTManager
	maxAttempts  int
	lockout      time.Duration
	now          func() time.Time

	mu       sync.Mutex
	attempts map[string]*attemptState
	used     map[string]time.Time // grant id -> expiry
}

// NewAuthorizationGate creates a new authorization gate
func NewAuthorizationGate(
	settingsRepo repository.SettingsRepository,
	jwtManager *utils.JWTManager,
	maxAttempts int,
	lockout time.Duration,
) *AuthorizationGate {
	if maxAttempts < 1 {
		maxAttempts = 5
	}
	return &AuthorizationGate{
		settingsRepo: settingsRepo,
		jwtManager:   jwtManager,
		maxAttempts:  maxAttempts,
		lockout:      lockout,
		now:          time.Now,
		attempts:     make(map[string]*attemptState),
		used:         make(map[string]time.Time),
	}
}

// Verify checks pin for terminal, counting failures and enforcing lockout.
// It does not issue a grant; manager login uses it directly.
func (g *AuthorizationGate) Verify(ctx context.Context, terminal, pin string) (*ChallengeResult, error) {
	if !utils.IsValidPIN(pin) {
		return nil, apperror.NewFieldError("pin", "PIN deve ter 4 dígitos")
	}

	if res := g.lockedResult(terminal); res != nil {
		return res, nil
	}

	settings, err := g.settingsRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	if !settings.IsConfigured() {
		return nil, apperror.ErrNotConfigured
	}

	ok := utils.CheckPasswordHash(pin, settings.GestorPinHash)

	g.mu.Lock()
	defer g.mu.Unlock()

	if ok {
		delete(g.attempts, terminal)
		return &ChallengeResult{Status: ChallengeAuthorized, RemainingAttempts: g.maxAttempts}, nil
	}

	st := g.attempts[terminal]
	if st == nil {
		st = &attemptState{}
		g.attempts[terminal] = st
	}
	st.failures++
	st.lastFailure = g.now()

	res := &ChallengeResult{
		Status:            ChallengeDenied,
		Failures:          st.failures,
		RemainingAttempts: g.maxAttempts - st.failures,
	}
	if st.failures >= g.maxAttempts {
		st.lockedUntil = g.now().Add(g.lockout)
		until := st.lockedUntil
		res.Status = ChallengeLocked
		res.RemainingAttempts = 0
		res.LockedUntil = &until
		log.Printf("PIN lockout for terminal %s until %s", terminal, until.Format(time.RFC3339))
	}
	return res, nil
}

// lockedResult returns a LOCKED result while terminal is locked out. An
// expired lockout clears the counter.
func (g *AuthorizationGate) lockedResult(terminal string) *ChallengeResult {
	g.mu.Lock()
	defer g.mu.Unlock()

	st := g.attempts[terminal]
	if st == nil || st.lockedUntil.IsZero() {
		return nil
	}
	if g.now().Before(st.lockedUntil) {
		until := st.lockedUntil
		return &ChallengeResult{
			Status:      ChallengeLocked,
			Failures:    st.failures,
			LockedUntil: &until,
		}
	}
	delete(g.attempts, terminal)
	return nil
}

// Challenge verifies pin and, on success, issues a grant for purpose.
func (g *AuthorizationGate) Challenge(ctx context.Context, terminal string, purpose enum.AuthorizationPurpose, pin string) (*ChallengeResult, error) {
	return g.ChallengeScoped(ctx, terminal, purpose, "", pin)
}

// ChallengeScoped is Challenge for a grant that can only be spent on the
// action identified by scope.
func (g *AuthorizationGate) ChallengeScoped(ctx context.Context, terminal string, purpose enum.AuthorizationPurpose, scope, pin string) (*ChallengeResult, error) {
	if !purpose.IsValid() {
		return nil, apperror.NewFieldError("purpose", "Finalidade de autorização inválida")
	}

	res, err := g.Verify(ctx, terminal, pin)
	if err != nil {
		return nil, err
	}
	res.Purpose = purpose
	res.Title = purpose.Title()
	if res.Status != ChallengeAuthorized {
		return res, nil
	}

	grant, _, expiresAt, err := g.jwtManager.GenerateGrant(purpose.String(), terminal, scope)
	if err != nil {
		return nil, fmt.Errorf("issue grant: %w", err)
	}
	res.Grant = grant
	res.GrantExpiresAt = &expiresAt
	return res, nil
}

// Consume spends an unscoped grant. It fails when the grant is malformed,
// expired, issued for another purpose or terminal, or already spent.
func (g *AuthorizationGate) Consume(ctx context.Context, grant string, purpose enum.AuthorizationPurpose, terminal string) error {
	return g.ConsumeScoped(ctx, grant, purpose, terminal, "")
}

// ConsumeScoped spends a grant issued for scope. A grant approved for one
// action is not accepted for another.
func (g *AuthorizationGate) ConsumeScoped(ctx context.Context, grant string, purpose enum.AuthorizationPurpose, terminal, scope string) error {
	if grant == "" {
		return apperror.ErrInvalidGrant
	}
	claims, err := g.jwtManager.ValidateGrant(grant)
	if err != nil {
		return apperror.ErrInvalidGrant
	}
	if claims.Purpose != purpose.String() {
		return apperror.ErrInvalidGrant
	}
	if terminal != "" && claims.Terminal != "" && claims.Terminal != terminal {
		return apperror.ErrInvalidGrant
	}
	if claims.Scope != scope {
		return apperror.ErrInvalidGrant
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	g.pruneUsed(g.now())
	if _, spent := g.used[claims.ID]; spent {
		return apperror.ErrInvalidGrant
	}
	g.used[claims.ID] = claims.ExpiresAt.Time
	return nil
}

// Authorize runs a challenge and, when it succeeds, spends the grant and
// calls onSuccess exactly once.
func (g *AuthorizationGate) Authorize(ctx context.Context, terminal string, purpose enum.AuthorizationPurpose, pin string, onSuccess func(ctx context.Context) error) (*ChallengeResult, error) {
	res, err := g.Challenge(ctx, terminal, purpose, pin)
	if err != nil {
		return nil, err
	}
	if res.Status != ChallengeAuthorized {
		return res, res.Err()
	}
	if err := g.Consume(ctx, res.Grant, purpose, terminal); err != nil {
		return nil, err
	}
	res.Grant = ""
	res.GrantExpiresAt = nil
	if onSuccess == nil {
		return res, nil
	}
	return res, onSuccess(ctx)
}

// Prune forgets expired lockouts, failure counters idle for longer than the
// lockout window and spent grants that have expired anyway. It returns the
// number of terminals forgotten.
func (g *AuthorizationGate) Prune() int {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	idle := g.lockout
	if idle <= 0 {
		idle = staleAttempts
	}
	pruned := 0
	for terminal, st := range g.attempts {
		locked := !st.lockedUntil.IsZero()
		if (locked && !now.Before(st.lockedUntil)) || (!locked && now.Sub(st.lastFailure) > idle) {
			delete(g.attempts, terminal)
			pruned++
		}
	}
	g.pruneUsed(now)
	return pruned
}

// pruneUsed drops spent grants past their expiry. Callers hold g.mu.
func (g *AuthorizationGate) pruneUsed(now time.Time) {
	for id, exp := range g.used {
		if now.After(exp) {
			delete(g.used, id)
		}
	}
}
