package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"

	"qrhrm/internal/platform/clock"
)

const mfaIssuer = "QR HRM"

// SecretSealer protects MFA seeds at rest.
type SecretSealer interface {
	Seal(plain string) (string, error)
	Open(value string) (string, error)
}

type Service struct {
	Store    StoreAPI
	Secret   string
	TokenTTL time.Duration
	ResetTTL time.Duration
	Clock    clock.Clock
	Sealer   SecretSealer
}

func NewService(store StoreAPI, secret string, tokenTTL, resetTTL time.Duration, clk clock.Clock) *Service {
	if clk == nil {
		clk = clock.System{}
	}
	return &Service{Store: store, Secret: secret, TokenTTL: tokenTTL, ResetTTL: resetTTL, Clock: clk}
}

// Login checks credentials for the given account table and issues an access
// token. Admins with MFA enabled must supply a valid TOTP code.
func (s *Service) Login(ctx context.Context, accountType AccountType, email, password, mfaCode string) (Session, error) {
	account, err := s.Store.FindAccountByEmail(ctx, accountType, strings.TrimSpace(email))
	if err != nil {
		return Session{}, err
	}
	if err := CheckPassword(account.PasswordHash, password); err != nil {
		return Session{}, ErrInvalidCredentials
	}
	if account.Type == AccountAdmin && account.MFAEnabled {
		if strings.TrimSpace(mfaCode) == "" {
			return Session{}, ErrMFARequired
		}
		secret, err := s.openSecret(account.MFASecret)
		if err != nil {
			return Session{}, err
		}
		if secret == "" || !totp.Validate(mfaCode, secret) {
			return Session{}, ErrMFAInvalid
		}
	}
	return s.Issue(account)
}

func (s *Service) Issue(account Account) (Session, error) {
	claims := Claims{
		UserID:       account.ID,
		Email:        account.Email,
		EmployeeCode: account.EmployeeCode,
		Role:         account.Type.Role(),
	}
	token, err := GenerateToken(s.Secret, claims, s.TokenTTL)
	if err != nil {
		return Session{}, err
	}
	return Session{Token: token, Claims: claims, Account: account}, nil
}

func (s *Service) Verify(token string) (*Claims, error) {
	return ParseToken(s.Secret, token)
}

func (s *Service) SetupMFA(ctx context.Context, adminID string) (MFASetup, error) {
	account, err := s.Store.FindAccountByID(ctx, AccountAdmin, adminID)
	if err != nil {
		return MFASetup{}, err
	}
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      mfaIssuer,
		AccountName: account.Email,
		Period:      30,
		Digits:      otp.DigitsSix,
	})
	if err != nil {
		return MFASetup{}, err
	}
	stored := key.Secret()
	if s.Sealer != nil {
		if stored, err = s.Sealer.Seal(stored); err != nil {
			return MFASetup{}, err
		}
	}
	if err := s.Store.UpdateMFASecret(ctx, adminID, stored); err != nil {
		return MFASetup{}, err
	}
	return MFASetup{Secret: key.Secret(), OTPAuthURL: key.URL()}, nil
}

func (s *Service) EnableMFA(ctx context.Context, adminID, code string) error {
	account, err := s.Store.FindAccountByID(ctx, AccountAdmin, adminID)
	if err != nil {
		return err
	}
	secret, err := s.openSecret(account.MFASecret)
	if err != nil {
		return err
	}
	if secret == "" {
		return ErrMFANotConfigured
	}
	if !totp.Validate(code, secret) {
		return ErrMFAInvalid
	}
	return s.Store.SetMFAEnabled(ctx, adminID, true)
}

func (s *Service) openSecret(stored string) (string, error) {
	if s.Sealer == nil || stored == "" {
		return stored, nil
	}
	return s.Sealer.Open(stored)
}

// RequestReset creates a single-use reset token. The plaintext token is only
// returned to the caller so it can be mailed.
func (s *Service) RequestReset(ctx context.Context, accountType AccountType, email string) (ResetTicket, error) {
	account, err := s.Store.FindAccountByEmail(ctx, accountType, strings.TrimSpace(email))
	if err != nil {
		return ResetTicket{}, err
	}
	token, err := NewOpaqueToken()
	if err != nil {
		return ResetTicket{}, err
	}
	expires := s.Clock.Now().Add(s.ResetTTL)
	if err := s.Store.CreatePasswordReset(ctx, account.Type, account.ID, HashToken(token), expires); err != nil {
		return ResetTicket{}, err
	}
	return ResetTicket{Token: token, Account: account, ExpiresAt: expires}, nil
}

func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) (AccountType, error) {
	if strings.TrimSpace(token) == "" {
		return "", ErrInvalidResetToken
	}
	if err := ValidatePassword(newPassword); err != nil {
		return "", err
	}
	hash, err := HashPassword(newPassword)
	if err != nil {
		return "", err
	}
	accountType, accountID, err := s.Store.ConsumePasswordReset(ctx, HashToken(token), s.Clock.Now())
	if err != nil {
		return "", err
	}
	if err := s.Store.UpdatePassword(ctx, accountType, accountID, hash); err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return "", ErrInvalidResetToken
		}
		return "", err
	}
	return accountType, nil
}

func (s *Service) PurgeExpiredResets(ctx context.Context) (int64, error) {
	return s.Store.PurgeExpiredResets(ctx, s.Clock.Now())
}
