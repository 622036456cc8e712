package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/Nicholas91X/auto2g-backend/internal/config"
	"github.com/Nicholas91X/auto2g-backend/internal/domain"
	"github.com/Nicholas91X/auto2g-backend/internal/ids"
	"github.com/Nicholas91X/auto2g-backend/internal/security"
)

type AccountCreator interface {
	FindByEmail(ctx context.Context, email string) (domain.Account, error)
	Create(ctx context.Context, account domain.Account) error
}

// EnsureDefaultAdmin guarantees the back office is reachable on a fresh
// database by creating the configured SYSTEM_ADMIN when it does not exist.
// An existing account with that email is left alone, whatever its state.
func EnsureDefaultAdmin(ctx context.Context, accounts AccountCreator, cfg config.DefaultAdminConfig, log zerolog.Logger) error {
	if cfg.Email == "" || cfg.Password == "" {
		log.Warn().Msg("default admin not configured, skipping seed")
		return nil
	}

	email := domain.NormalizeEmail(cfg.Email)
	if _, err := accounts.FindByEmail(ctx, email); err == nil {
		return nil
	} else if !errors.Is(err, domain.ErrAccountNotFound) {
		return fmt.Errorf("seed lookup: %w", err)
	}

	hash, err := security.HashPassword(cfg.Password)
	if err != nil {
		return err
	}

	account := domain.Account{
		ID:           ids.New(),
		Email:        email,
		PasswordHash: hash,
		Name:         "System",
		Surname:      "Administrator",
		Role:         domain.RoleSystemAdmin,
		Active:       true,
		Verified:     true,
	}
	if err := accounts.Create(ctx, account); err != nil {
		return fmt.Errorf("seed create: %w", err)
	}

	log.Info().Str("account_id", account.ID).Str("email", email).Msg("default system administrator created")
	return nil
}
