package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/Nicholas91X/auto2g-backend/internal/config"
	"github.com/Nicholas91X/auto2g-backend/internal/domain"
	"github.com/Nicholas91X/auto2g-backend/internal/mailer"
	"github.com/Nicholas91X/auto2g-backend/internal/security"
)

type AuthService struct {
	accounts AccountStore
	tokens   *security.TokenIssuer
	mail     mailer.Mailer
	frontend config.FrontendConfig
	log      zerolog.Logger
}

func NewAuthService(
	accounts AccountStore,
	tokens *security.TokenIssuer,
	mail mailer.Mailer,
	frontend config.FrontendConfig,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		accounts: accounts,
		tokens:   tokens,
		mail:     mail,
		frontend: frontend,
		log:      log,
	}
}

// SessionResult pairs a freshly issued session token with the safe view of
// the account it belongs to.
type SessionResult struct {
	Token   string
	Account domain.AccountInfo
}

// Login checks the account in a fixed order so callers get the most useful
// failure they are allowed to see. A missing account and a wrong password
// produce the same generic error; an unverified or disabled account gets a
// distinct one, since at that point the caller has proven they know a valid
// email anyway.
func (s *AuthService) Login(ctx context.Context, email, password string) (SessionResult, error) {
	account, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return SessionResult{}, domain.ErrInvalidCredentials
		}
		return SessionResult{}, err
	}

	if !account.Verified {
		return SessionResult{}, domain.ErrAccountNotVerified
	}
	if !account.Active {
		return SessionResult{}, domain.ErrAccountDisabled
	}
	if len(account.PasswordHash) == 0 {
		return SessionResult{}, domain.ErrNoPasswordSet
	}

	ok, err := security.VerifyPassword(password, account.PasswordHash)
	if err != nil || !ok {
		return SessionResult{}, domain.ErrInvalidCredentials
	}

	return s.issueSession(account)
}

// VerifyEmail redeems a confirmation token. Verifying an already verified
// account is a no-op that still hands back a session, so a double-clicked
// email link lands the user in the app instead of on an error page.
func (s *AuthService) VerifyEmail(ctx context.Context, token string) (SessionResult, error) {
	claims, err := s.tokens.ParseConfirmation(token)
	if err != nil {
		return SessionResult{}, err
	}

	account, err := s.accounts.FindByID(ctx, claims.AccountID)
	if err != nil {
		return SessionResult{}, err
	}

	if !account.Verified {
		if err := s.accounts.SetVerified(ctx, account.ID); err != nil {
			return SessionResult{}, err
		}
		account.Verified = true
	}

	return s.issueSession(account)
}

// RequestPasswordReset never reveals whether the address exists.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	account, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			s.log.Debug().Str("email", domain.NormalizeEmail(email)).Msg("password reset requested for unknown address")
			return nil
		}
		return err
	}

	token, err := s.tokens.IssuePasswordReset(account.ID)
	if err != nil {
		return err
	}

	base := s.frontend.BaseURL
	if account.Role == domain.RoleCustomer {
		base = s.frontend.CustomerBaseURL
	}
	resetURL := fmt.Sprintf("%s/reset-password?token=%s", base, token)

	if err := s.mail.SendRecoverPassword(account.Email, resetURL); err != nil {
		s.log.Error().Err(err).Str("account_id", account.ID).Msg("password reset email failed")
	}
	return nil
}

func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	claims, err := s.tokens.ParsePasswordReset(token)
	if err != nil {
		return err
	}

	account, err := s.accounts.FindByID(ctx, claims.AccountID)
	if err != nil {
		return err
	}

	hash, err := security.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.accounts.UpdatePassword(ctx, account.ID, hash); err != nil {
		return err
	}

	if err := s.mail.SendPasswordChangedConfirmation(account.Email, account.Role); err != nil {
		s.log.Error().Err(err).Str("account_id", account.ID).Msg("password changed email failed")
	}
	return nil
}

func (s *AuthService) issueSession(account domain.Account) (SessionResult, error) {
	token, err := s.tokens.IssueSession(account)
	if err != nil {
		return SessionResult{}, err
	}
	return SessionResult{Token: token, Account: account.Info()}, nil
}
