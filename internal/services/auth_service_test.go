package services

import (
	"context"
	"testing"
	"time"

	"swiftlink/internal/auth"
	"swiftlink/internal/domain"
	"swiftlink/internal/repositories"

	"golang.org/x/crypto/bcrypt"
)

func newTestAuthService(t *testing.T) AuthService {
	t.Helper()
	db := openTestDB(t)
	return AuthService{
		Users:                    repositories.UserRepository{DB: db},
		Tokens:                   auth.NewTokenIssuer("test-secret", time.Hour),
		RequirePhoneVerification: true,
		Now:                      fixedClock,
		NewOTP:                   func() (string, error) { return "123456", nil },
		BcryptCost:               bcrypt.MinCost,
	}
}

func validRegistration() RegisterInput {
	return RegisterInput{
		FullName:   "Ada Sender",
		Email:      "Ada@Example.com",
		Password:   "secret123",
		Phone:      "+254 700 000 001",
		NationalID: "KE-1",
		Role:       "sender",
	}
}

func TestRegisterVerifyLogin(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	res, err := svc.Register(ctx, validRegistration())
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if res.Token == "" || res.Profile.Email != "ada@example.com" || res.Profile.Role != domain.RoleSender {
		t.Fatalf("unexpected register result: %+v", res)
	}

	if _, err := svc.Login(ctx, "ada@example.com", "secret123"); !domain.IsUnauthorized(err) {
		t.Fatalf("login before verification: expected Unauthorized, got %v", err)
	}
	if err := svc.VerifyOTP(ctx, "ada@example.com", "000000"); !domain.IsValidation(err) {
		t.Fatalf("wrong otp: expected ValidationError, got %v", err)
	}
	if err := svc.VerifyOTP(ctx, "ada@example.com", "123456"); err != nil {
		t.Fatalf("verify otp: %v", err)
	}
	if _, err := svc.Login(ctx, "ada@example.com", "wrong-pass"); !domain.IsValidation(err) {
		t.Fatalf("bad password: expected ValidationError, got %v", err)
	}
	out, err := svc.Login(ctx, "ADA@example.com", "secret123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	claims, err := svc.Tokens.Verify(out.Token)
	if err != nil {
		t.Fatalf("verify token: %v", err)
	}
	if claims.UserID != out.Profile.ID || claims.Role != domain.RoleSender {
		t.Fatalf("claims = %+v", claims)
	}
}

func TestRegisterRejectsBadInput(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	cases := map[string]func(*RegisterInput){
		"missing phone": func(in *RegisterInput) { in.Phone = "" },
		"admin role":    func(in *RegisterInput) { in.Role = "admin" },
		"unknown role":  func(in *RegisterInput) { in.Role = "pilot" },
		"short pass":    func(in *RegisterInput) { in.Password = "abc" },
		"bad email":     func(in *RegisterInput) { in.Email = "nope" },
	}
	for name, mutate := range cases {
		in := validRegistration()
		mutate(&in)
		if _, err := svc.Register(ctx, in); !domain.IsValidation(err) {
			t.Fatalf("%s: expected ValidationError, got %v", name, err)
		}
	}

	if _, err := svc.Register(ctx, validRegistration()); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.Register(ctx, validRegistration()); !domain.IsConflict(err) {
		t.Fatalf("duplicate email: expected Conflict, got %v", err)
	}
}

func TestVerifyOTPExpired(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()
	if _, err := svc.Register(ctx, validRegistration()); err != nil {
		t.Fatalf("register: %v", err)
	}
	svc.Now = func() time.Time { return testNow.Add(otpTTL + time.Second) }
	if err := svc.VerifyOTP(ctx, "ada@example.com", "123456"); !domain.IsValidation(err) {
		t.Fatalf("expired otp: expected ValidationError, got %v", err)
	}
}

func TestProfileVisibility(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()
	res, err := svc.Register(ctx, validRegistration())
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	id := res.Profile.ID

	own, err := svc.Profile(ctx, domain.RequestContext{UserID: id, Role: domain.RoleSender}, id)
	if err != nil || own.NationalID != "KE-1" {
		t.Fatalf("owner profile = %+v, err %v", own, err)
	}
	agentView, err := svc.Profile(ctx, domain.RequestContext{UserID: id + 100, Role: domain.RoleAgent}, id)
	if err != nil || agentView.NationalID != "" {
		t.Fatalf("agent profile = %+v, err %v", agentView, err)
	}
	if _, err := svc.Profile(ctx, domain.RequestContext{UserID: id + 100, Role: domain.RoleSender}, id); !domain.IsForbidden(err) {
		t.Fatalf("other sender: expected Forbidden, got %v", err)
	}
}

func TestSeedAccount(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()
	p, err := svc.SeedAccount(ctx, RegisterInput{FullName: "Root", Email: "root@x.io", Password: "longpassword", Phone: "1", Role: "admin"})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if p.Role != domain.RoleAdmin || !p.PhoneVerified {
		t.Fatalf("seeded profile = %+v", p)
	}
	if _, err := svc.Login(ctx, "root@x.io", "longpassword"); err != nil {
		t.Fatalf("seeded account cannot log in: %v", err)
	}
	if _, err := svc.SeedAccount(ctx, RegisterInput{FullName: "S", Email: "s@x.io", Password: "longpassword", Phone: "1", Role: "sender"}); !domain.IsValidation(err) {
		t.Fatalf("seeding a sender: expected ValidationError, got %v", err)
	}
}
