package auth

import (
	"testing"
	"time"

	"swiftlink/internal/domain"

	"github.com/golang-jwt/jwt/v5"
)

func TestIssueAndVerify(t *testing.T) {
	issuer := NewTokenIssuer("s3cret", time.Hour)
	raw, err := issuer.Issue(42, domain.RoleCarrier)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	claims, err := issuer.Verify(raw)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.UserID != 42 || claims.Role != domain.RoleCarrier {
		t.Fatalf("claims = %+v", claims)
	}
}

func TestVerifyRejects(t *testing.T) {
	issuer := NewTokenIssuer("s3cret", time.Hour)
	other := NewTokenIssuer("other", time.Hour)
	foreign, _ := other.Issue(1, domain.RoleAdmin)

	expired := NewTokenIssuer("s3cret", time.Minute)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	stale, _ := expired.Issue(1, domain.RoleSender)

	badRole, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": 1, "role": "pilot", "exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("s3cret"))

	noUser, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"role": "sender", "exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("s3cret"))

	for name, raw := range map[string]string{
		"garbage":      "not-a-token",
		"wrong key":    foreign,
		"expired":      stale,
		"unknown role": badRole,
		"no user":      noUser,
	} {
		if _, err := issuer.Verify(raw); !domain.IsUnauthorized(err) {
			t.Fatalf("%s: expected Unauthorized, got %v", name, err)
		}
	}
}

func TestCapabilityTable(t *testing.T) {
	cases := []struct {
		role domain.Role
		cap  Capability
		want bool
	}{
		{domain.RoleSender, CapShipmentCreate, true},
		{domain.RoleCarrier, CapShipmentCreate, false},
		{domain.RoleCarrier, CapFlightCreate, true},
		{domain.RoleSender, CapFlightCreate, false},
		{domain.RoleReceiver, CapShipmentDeliver, true},
		{domain.RoleAgent, CapShipmentDeliver, true},
		{domain.RoleSender, CapShipmentDeliver, false},
		{domain.RoleCarrier, CapShipmentDeliver, false},
		{domain.RoleCarrier, CapShipmentPickup, true},
		{domain.RoleReceiver, CapPaymentList, false},
		{domain.RoleAdmin, Capability("unknown"), false},
	}
	for _, c := range cases {
		if got := Can(c.role, c.cap); got != c.want {
			t.Errorf("Can(%s, %s) = %v, want %v", c.role, c.cap, got, c.want)
		}
	}
	if !Privileged(domain.RoleAgent) || Privileged(domain.RoleCarrier) {
		t.Fatalf("privileged roles wrong")
	}
}
