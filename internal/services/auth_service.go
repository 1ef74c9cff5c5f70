package services

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"math/big"
	"strings"
	"time"

	"swiftlink/internal/auth"
	"swiftlink/internal/domain"
	"swiftlink/internal/domain/models"
	"swiftlink/internal/notify"
	"swiftlink/internal/repositories"
	"swiftlink/internal/utils"

	"golang.org/x/crypto/bcrypt"
)

const (
	otpTTL            = 5 * time.Minute
	minPasswordLength = 6
)

// AuthService manages accounts. Credentials checks live here; token
// handling lives in package auth.
type AuthService struct {
	Users                    repositories.UserRepository
	Tokens                   *auth.TokenIssuer
	Notify                   notify.Dispatcher
	RequirePhoneVerification bool
	RequestID                string
	Now                      clock
	NewOTP                   func() (string, error)
	BcryptCost               int
}

type RegisterInput struct {
	FullName   string `json:"fullName"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Phone      string `json:"phone"`
	NationalID string `json:"nationalId"`
	Role       string `json:"role"`
}

type AuthResult struct {
	Token   string         `json:"token"`
	Profile models.Profile `json:"user"`
}

func (s AuthService) Register(ctx context.Context, in RegisterInput) (AuthResult, error) {
	in.FullName = utils.NormalizeSpace(in.FullName)
	in.Email = utils.NormalizeEmail(in.Email)
	in.Phone = utils.NormalizePhone(in.Phone)
	in.NationalID = strings.TrimSpace(in.NationalID)
	if err := firstErr(
		required("fullName", in.FullName),
		required("email", in.Email),
		required("password", in.Password),
		required("phone", in.Phone),
		required("nationalId", in.NationalID),
		required("role", in.Role),
	); err != nil {
		return AuthResult{}, err
	}
	if !strings.Contains(in.Email, "@") {
		return AuthResult{}, domain.ValidationError{Field: "email", Msg: "invalid email"}
	}
	if len(in.Password) < minPasswordLength {
		return AuthResult{}, domain.ValidationError{Field: "password", Msg: fmt.Sprintf("must be at least %d characters", minPasswordLength)}
	}
	role, ok := domain.ParseRole(in.Role)
	if !ok || !role.SelfRegistrable() {
		return AuthResult{}, domain.ValidationError{Field: "role", Msg: "invalid role type"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost())
	if err != nil {
		return AuthResult{}, domain.InternalError{Msg: "failed to hash password", Err: err}
	}
	otp, err := s.otp()
	if err != nil {
		return AuthResult{}, domain.InternalError{Msg: "failed to generate otp", Err: err}
	}
	now := s.Now.now()
	expiry := now.Add(otpTTL)

	u := models.User{
		FullName:     in.FullName,
		Email:        in.Email,
		Phone:        in.Phone,
		NationalID:   in.NationalID,
		PasswordHash: string(hash),
		Role:         role,
		OTPCode:      otp,
		OTPExpiry:    &expiry,
		CreatedAt:    now,
	}
	if err := s.Users.Create(ctx, &u); err != nil {
		return AuthResult{}, err
	}

	s.Notify.Send(s.RequestID, notify.Message{
		Event: notify.EventOTPRequested,
		Phone: u.Phone,
		Text:  fmt.Sprintf("Your SwiftLink verification code is %s", otp),
	})

	token, err := s.Tokens.Issue(u.ID, u.Role)
	if err != nil {
		return AuthResult{}, domain.InternalError{Msg: "failed to issue token", Err: err}
	}
	utils.LogEventf(s.RequestID, "auth", "register", "user_id=%d role=%s", u.ID, u.Role)
	return AuthResult{Token: token, Profile: u.ToProfile(true)}, nil
}

func (s AuthService) VerifyOTP(ctx context.Context, email, code string) error {
	email = utils.NormalizeEmail(email)
	code = strings.TrimSpace(code)
	if err := firstErr(required("email", email), required("otp", code)); err != nil {
		return err
	}
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		if domain.IsNotFound(err) {
			return domain.ValidationError{Field: "otp", Msg: "invalid or expired code"}
		}
		return err
	}
	if u.PhoneVerified {
		return nil
	}
	if u.OTPCode == "" || u.OTPExpiry == nil || s.Now.now().After(*u.OTPExpiry) ||
		subtle.ConstantTimeCompare([]byte(u.OTPCode), []byte(code)) != 1 {
		return domain.ValidationError{Field: "otp", Msg: "invalid or expired code"}
	}
	if err := s.Users.MarkPhoneVerified(ctx, u.ID); err != nil {
		return err
	}
	utils.LogEventf(s.RequestID, "auth", "verify_otp", "user_id=%d", u.ID)
	return nil
}

func (s AuthService) Login(ctx context.Context, email, password string) (AuthResult, error) {
	email = utils.NormalizeEmail(email)
	if email == "" || password == "" {
		return AuthResult{}, domain.ValidationError{Msg: "email and password required"}
	}
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		if domain.IsNotFound(err) {
			return AuthResult{}, domain.ValidationError{Msg: "invalid email or password"}
		}
		return AuthResult{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return AuthResult{}, domain.ValidationError{Msg: "invalid email or password"}
	}
	if s.RequirePhoneVerification && !u.PhoneVerified {
		return AuthResult{}, domain.UnauthorizedError{Msg: "phone not verified"}
	}
	token, err := s.Tokens.Issue(u.ID, u.Role)
	if err != nil {
		return AuthResult{}, domain.InternalError{Msg: "failed to issue token", Err: err}
	}
	utils.LogEventf(s.RequestID, "auth", "login", "user_id=%d", u.ID)
	return AuthResult{Token: token, Profile: u.ToProfile(true)}, nil
}

// Profile returns the profile of id as seen by actor. Agents may look up
// other accounts but only the owner and admins see the national ID.
func (s AuthService) Profile(ctx context.Context, actor domain.RequestContext, id domain.ID) (models.Profile, error) {
	self := actor.UserID == id
	if !self && !auth.Privileged(actor.Role) {
		return models.Profile{}, domain.ForbiddenError{Msg: "access denied"}
	}
	u, err := s.Users.GetByID(ctx, id)
	if err != nil {
		return models.Profile{}, err
	}
	return u.ToProfile(self || actor.Role == domain.RoleAdmin), nil
}

func (s AuthService) cost() int {
	if s.BcryptCost > 0 {
		return s.BcryptCost
	}
	return bcrypt.DefaultCost
}

func (s AuthService) otp() (string, error) {
	if s.NewOTP != nil {
		return s.NewOTP()
	}
	return randomOTP()
}

// randomOTP returns a six digit code in [100000, 999999].
func randomOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

// SeedAccount creates a verified staff account. It is the only way to get
// an admin, and is reachable from the CLI only.
func (s AuthService) SeedAccount(ctx context.Context, in RegisterInput) (models.Profile, error) {
	in.Email = utils.NormalizeEmail(in.Email)
	if err := firstErr(
		required("fullName", in.FullName),
		required("email", in.Email),
		required("password", in.Password),
		required("phone", in.Phone),
	); err != nil {
		return models.Profile{}, err
	}
	role, ok := domain.ParseRole(in.Role)
	if !ok || (role != domain.RoleAdmin && role != domain.RoleAgent) {
		return models.Profile{}, domain.ValidationError{Field: "role", Msg: "seeded accounts must be agent or admin"}
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost())
	if err != nil {
		return models.Profile{}, domain.InternalError{Msg: "failed to hash password", Err: err}
	}
	u := models.User{
		FullName:           utils.NormalizeSpace(in.FullName),
		Email:              in.Email,
		Phone:              utils.NormalizePhone(in.Phone),
		NationalID:         strings.TrimSpace(in.NationalID),
		PasswordHash:       string(hash),
		Role:               role,
		PhoneVerified:      true,
		NationalIDVerified: in.NationalID != "",
		CreatedAt:          s.Now.now(),
	}
	if err := s.Users.Create(ctx, &u); err != nil {
		return models.Profile{}, err
	}
	utils.LogEventf(s.RequestID, "auth", "seed", "user_id=%d role=%s", u.ID, u.Role)
	return u.ToProfile(false), nil
}
