package service

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/sangkips/estoque-motto-api/internal/domain/enum"
	"github.com/sangkips/estoque-motto-api/pkg/apperror"
)

func TestGateLocksTerminalAfterMaxFailures(t *testing.T) {
	h := newHarness(t)
	h.configure(t)
	ctx := context.Background()

	now := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	h.gate.now = func() time.Time { return now }

	for i := 1; i <= 4; i++ {
		res, err := h.gate.Challenge(ctx, "till-1", enum.PurposeDiscount, "0000")
		if err != nil {
			t.Fatalf("attempt %d: %v", i, err)
		}
		if res.Status != ChallengeDenied || res.Failures != i || res.RemainingAttempts != 5-i {
			t.Fatalf("attempt %d: got %+v", i, res)
		}
		if res.Grant != "" {
			t.Fatalf("attempt %d: denied result carries a grant", i)
		}
	}

	res, err := h.gate.Challenge(ctx, "till-1", enum.PurposeDiscount, "0000")
	if err != nil {
		t.Fatal(err)
	}
	if res.Status != ChallengeLocked || res.LockedUntil == nil {
		t.Fatalf("fifth failure: got %+v, want LOCKED", res)
	}
	if ae := appErr(t, res.Err(), http.StatusTooManyRequests); ae.Reason != apperror.ReasonLocked {
		t.Errorf("reason = %q", ae.Reason)
	}

	// the right PIN does not help while locked
	res, err = h.gate.Challenge(ctx, "till-1", enum.PurposeDiscount, testPIN)
	if err != nil {
		t.Fatal(err)
	}
	if res.Status != ChallengeLocked {
		t.Fatalf("during lockout: got %s, want LOCKED", res.Status)
	}

	// other terminals are unaffected
	res, err = h.gate.Challenge(ctx, "till-2", enum.PurposeDiscount, testPIN)
	if err != nil {
		t.Fatal(err)
	}
	if res.Status != ChallengeAuthorized {
		t.Fatalf("other terminal: got %s", res.Status)
	}

	now = now.Add(5*time.Minute + time.Second)
	res, err = h.gate.Challenge(ctx, "till-1", enum.PurposeDiscount, testPIN)
	if err != nil {
		t.Fatal(err)
	}
	if res.Status != ChallengeAuthorized || res.Grant == "" {
		t.Fatalf("after lockout: got %+v", res)
	}
}

func TestGateSuccessResetsFailures(t *testing.T) {
	h := newHarness(t)
	h.configure(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := h.gate.Verify(ctx, "till", "9999"); err != nil {
			t.Fatal(err)
		}
	}
	if res, _ := h.gate.Verify(ctx, "till", testPIN); res.Status != ChallengeAuthorized {
		t.Fatalf("got %s", res.Status)
	}
	res, err := h.gate.Verify(ctx, "till", "9999")
	if err != nil {
		t.Fatal(err)
	}
	if res.Failures != 1 {
		t.Errorf("failures = %d, want 1 after a success", res.Failures)
	}
	if msg := res.Err().Error(); msg != "PIN Incorreto (1/5)" {
		t.Errorf("message = %q", msg)
	}
}

func TestGateRejectsMalformedPINWithoutCounting(t *testing.T) {
	h := newHarness(t)
	h.configure(t)
	ctx := context.Background()

	for _, pin := range []string{"", "123", "12345", "12a4"} {
		_, err := h.gate.Verify(ctx, "till", pin)
		appErr(t, err, http.StatusUnprocessableEntity)
	}
	res, err := h.gate.Verify(ctx, "till", "0000")
	if err != nil {
		t.Fatal(err)
	}
	if res.Failures != 1 {
		t.Errorf("failures = %d, want 1", res.Failures)
	}
}

func TestGateRequiresSetup(t *testing.T) {
	h := newHarness(t)
	_, err := h.gate.Verify(context.Background(), "till", testPIN)
	if !errors.Is(err, apperror.ErrNotConfigured) {
		t.Fatalf("err = %v, want ErrNotConfigured", err)
	}
}

func TestConsumeSpendsGrantOnce(t *testing.T) {
	h := newHarness(t)
	h.configure(t)
	ctx := context.Background()

	res, err := h.gate.Challenge(ctx, "till", enum.PurposePriceEdit, testPIN)
	if err != nil || res.Status != ChallengeAuthorized {
		t.Fatalf("challenge: %+v, %v", res, err)
	}

	if err := h.gate.Consume(ctx, res.Grant, enum.PurposeDiscount, "till"); !errors.Is(err, apperror.ErrInvalidGrant) {
		t.Errorf("wrong purpose: err = %v", err)
	}
	if err := h.gate.Consume(ctx, res.Grant, enum.PurposePriceEdit, "another-till"); !errors.Is(err, apperror.ErrInvalidGrant) {
		t.Errorf("wrong terminal: err = %v", err)
	}
	if err := h.gate.Consume(ctx, res.Grant, enum.PurposePriceEdit, "till"); err != nil {
		t.Fatalf("first consume: %v", err)
	}
	if err := h.gate.Consume(ctx, res.Grant, enum.PurposePriceEdit, "till"); !errors.Is(err, apperror.ErrInvalidGrant) {
		t.Errorf("second consume: err = %v, want ErrInvalidGrant", err)
	}
	if err := h.gate.Consume(ctx, "garbage", enum.PurposePriceEdit, "till"); !errors.Is(err, apperror.ErrInvalidGrant) {
		t.Errorf("garbage grant: err = %v", err)
	}
}

func TestAuthorizeRunsCallbackExactlyOnce(t *testing.T) {
	h := newHarness(t)
	h.configure(t)
	ctx := context.Background()

	calls := 0
	onSuccess := func(context.Context) error {
		calls++
		return nil
	}

	_, err := h.gate.Authorize(ctx, "till", enum.PurposeReportExport, "1111", onSuccess)
	if ae := appErr(t, err, http.StatusUnauthorized); ae.Reason != apperror.ReasonInvalidPIN {
		t.Errorf("reason = %q", ae.Reason)
	}
	if calls != 0 {
		t.Fatalf("callback ran on a wrong PIN")
	}

	res, err := h.gate.Authorize(ctx, "till", enum.PurposeReportExport, testPIN, onSuccess)
	if err != nil {
		t.Fatal(err)
	}
	if res.Status != ChallengeAuthorized || res.Grant != "" {
		t.Errorf("got %+v", res)
	}
	if calls != 1 {
		t.Errorf("callback ran %d times", calls)
	}
}

func TestGatePruneForgetsStaleTerminals(t *testing.T) {
	h := newHarness(t)
	h.configure(t)
	ctx := context.Background()

	now := time.Now()
	h.gate.now = func() time.Time { return now }

	fail := func(terminal string, times int) *ChallengeResult {
		t.Helper()
		var res *ChallengeResult
		for i := 0; i < times; i++ {
			var err error
			if res, err = h.gate.Challenge(ctx, terminal, enum.PurposeDiscount, "0000"); err != nil {
				t.Fatal(err)
			}
		}
		return res
	}

	fail("idle", 2)
	if res := fail("locked", 5); res.Status != ChallengeLocked {
		t.Fatalf("locked terminal: %+v", res)
	}
	res, err := h.gate.Challenge(ctx, "till", enum.PurposePriceEdit, testPIN)
	if err != nil || res.Status != ChallengeAuthorized {
		t.Fatalf("challenge: %+v, %v", res, err)
	}
	if err := h.gate.Consume(ctx, res.Grant, enum.PurposePriceEdit, "till"); err != nil {
		t.Fatal(err)
	}

	now = now.Add(4 * time.Minute)
	fail("recent", 1)
	if n := h.gate.Prune(); n != 0 {
		t.Fatalf("pruned %d terminals inside the window", n)
	}

	now = now.Add(time.Minute + time.Second)
	if n := h.gate.Prune(); n != 2 {
		t.Fatalf("pruned %d terminals, want 2", n)
	}
	if len(h.gate.used) != 0 {
		t.Errorf("%d expired grants still tracked", len(h.gate.used))
	}

	// idle counter restarted, recent one kept
	if res := fail("idle", 1); res.Failures != 1 {
		t.Errorf("idle failures = %d, want 1", res.Failures)
	}
	if res := fail("recent", 1); res.Failures != 2 {
		t.Errorf("recent failures = %d, want 2", res.Failures)
	}
}

func TestConsumeScopedRejectsOtherScope(t *testing.T) {
	h := newHarness(t)
	h.configure(t)
	ctx := context.Background()

	res, err := h.gate.ChallengeScoped(ctx, "till", enum.PurposeDiscount, "sale-a", testPIN)
	if err != nil || res.Status != ChallengeAuthorized {
		t.Fatalf("challenge: %+v, %v", res, err)
	}
	for _, scope := range []string{"sale-b", ""} {
		if err := h.gate.ConsumeScoped(ctx, res.Grant, enum.PurposeDiscount, "till", scope); !errors.Is(err, apperror.ErrInvalidGrant) {
			t.Errorf("scope %q: err = %v, want ErrInvalidGrant", scope, err)
		}
	}
	// a mismatch does not spend the grant
	if err := h.gate.ConsumeScoped(ctx, res.Grant, enum.PurposeDiscount, "till", "sale-a"); err != nil {
		t.Errorf("matching scope: %v", err)
	}
}
