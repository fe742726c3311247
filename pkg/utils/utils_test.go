package utils

import (
	"testing"
	"time"
)

func TestSessionTokenRoundTrip(t *testing.T) {
	m := NewJWTManager("secret", time.Hour, time.Minute)
	token, _, err := m.GenerateSessionToken("sess-1", "GESTOR")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	claims, err := m.ValidateSessionToken(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.SessionID() != "sess-1" || claims.Mode != "GESTOR" {
		t.Errorf("claims = %+v", claims)
	}
}

func TestGrantRejectedAsSession(t *testing.T) {
	m := NewJWTManager("secret", time.Hour, time.Minute)
	grant, id, _, err := m.GenerateGrant("DESCONTO", "sess-1", "cart-digest")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	claims, err := m.ValidateGrant(grant)
	if err != nil {
		t.Fatalf("validate grant: %v", err)
	}
	if claims.ID != id || claims.Purpose != "DESCONTO" || claims.Scope != "cart-digest" {
		t.Errorf("grant claims = %+v", claims)
	}

	session, _, _ := m.GenerateSessionToken("sess-1", "GESTOR")
	if _, err := m.ValidateGrant(session); err == nil {
		t.Error("session token must not validate as a grant")
	}
}

func TestGrantExpires(t *testing.T) {
	m := NewJWTManager("secret", time.Hour, time.Minute)
	start := time.Now()
	m.now = func() time.Time { return start }
	grant, _, _, _ := m.GenerateGrant("PRECO", "t", "")

	m.now = func() time.Time { return start.Add(2 * time.Minute) }
	if _, err := m.ValidateGrant(grant); err == nil {
		t.Error("expected expired grant to fail")
	}
}

func TestGenerateSaleID(t *testing.T) {
	for i := 0; i < 50; i++ {
		id, err := GenerateSaleID()
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		if len(id) != 6 || id[0] == '0' {
			t.Fatalf("sale id %q is not a 6-digit number", id)
		}
	}
}
