package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Nicholas91X/auto2g-backend/internal/config"
	"github.com/Nicholas91X/auto2g-backend/internal/domain"
	"github.com/Nicholas91X/auto2g-backend/internal/ids"
	"github.com/Nicholas91X/auto2g-backend/internal/mailer"
	"github.com/Nicholas91X/auto2g-backend/internal/media/sniffer"
	"github.com/Nicholas91X/auto2g-backend/internal/repository"
	"github.com/Nicholas91X/auto2g-backend/internal/security"
)

type AccountService struct {
	accounts AccountStore
	tokens   *security.TokenIssuer
	mail     mailer.Mailer
	store    ObjectStore
	security config.SecurityConfig
	log      zerolog.Logger
}

func NewAccountService(
	accounts AccountStore,
	tokens *security.TokenIssuer,
	mail mailer.Mailer,
	store ObjectStore,
	security config.SecurityConfig,
	log zerolog.Logger,
) *AccountService {
	return &AccountService{
		accounts: accounts,
		tokens:   tokens,
		mail:     mail,
		store:    store,
		security: security,
		log:      log,
	}
}

type RegisterInput struct {
	Email       string
	Password    string
	Name        string
	Surname     string
	PhoneNumber string
	FiscalCode  string
}

// Register creates a customer account. The account starts active but
// unverified; login stays blocked until the confirmation link is opened.
// The verification email is best-effort: a mail outage must not lose the
// registration.
func (s *AccountService) Register(ctx context.Context, input RegisterInput) (domain.AccountInfo, error) {
	hash, err := security.HashPassword(input.Password)
	if err != nil {
		return domain.AccountInfo{}, err
	}

	account := domain.Account{
		ID:           ids.New(),
		Email:        domain.NormalizeEmail(input.Email),
		PasswordHash: hash,
		Name:         input.Name,
		Surname:      input.Surname,
		PhoneNumber:  input.PhoneNumber,
		FiscalCode:   input.FiscalCode,
		Role:         domain.RoleCustomer,
		Active:       true,
		Verified:     false,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		return domain.AccountInfo{}, err
	}

	token, err := s.tokens.IssueConfirmation(account.ID)
	if err != nil {
		return domain.AccountInfo{}, err
	}
	s.notify("verification", account.ID, func() error {
		return s.mail.SendVerificationEmail(account.Email, token, true)
	})

	return account.Info(), nil
}

type RegisterAdminInput struct {
	Email   string
	Name    string
	Surname string
}

// RegisterAdmin provisions an administrator with a one-shot temporary
// credential. Unlike customer registration the setup email is fatal: if it
// cannot be delivered the credential is lost forever, so the half-created
// account is removed and the operation fails.
func (s *AccountService) RegisterAdmin(ctx context.Context, input RegisterAdminInput) (domain.AccountInfo, error) {
	temporaryPassword, hash, err := security.GenerateTemporaryCredential(s.security.TempPasswordLength)
	if err != nil {
		return domain.AccountInfo{}, err
	}

	account := domain.Account{
		ID:           ids.New(),
		Email:        domain.NormalizeEmail(input.Email),
		PasswordHash: hash,
		Name:         input.Name,
		Surname:      input.Surname,
		Role:         domain.RoleAdmin,
		Active:       true,
		Verified:     false,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		return domain.AccountInfo{}, err
	}

	token, err := s.tokens.IssueConfirmation(account.ID)
	if err != nil {
		return domain.AccountInfo{}, err
	}

	if err := s.mail.SendAdminAccountSetup(account.Email, temporaryPassword, token); err != nil {
		if deleteErr := s.accounts.HardDelete(ctx, account.ID); deleteErr != nil {
			s.log.Error().Err(deleteErr).Str("account_id", account.ID).Msg("rollback of admin account failed")
		}
		return domain.AccountInfo{}, fmt.Errorf("admin setup email: %w", err)
	}

	return account.Info(), nil
}

// InviteOnboarding emails a prospective seller a signed onboarding link.
// No account row exists until the invite is redeemed.
func (s *AccountService) InviteOnboarding(ctx context.Context, email, dealershipName string) error {
	email = domain.NormalizeEmail(email)

	if _, err := s.accounts.FindByEmail(ctx, email); err == nil {
		return domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrAccountNotFound) {
		return err
	}

	token, err := s.tokens.IssueOnboarding(email, dealershipName)
	if err != nil {
		return err
	}
	return s.mail.SendOnboardingInvite(email, dealershipName, token)
}

type CompleteOnboardingInput struct {
	Token       string
	Password    string
	Name        string
	Surname     string
	PhoneNumber string
}

// CompleteOnboarding redeems an onboarding invite into a seller account.
// The email was already reached through the invite itself, so the account
// is born verified and the caller gets a session straight away.
func (s *AccountService) CompleteOnboarding(ctx context.Context, input CompleteOnboardingInput) (SessionResult, error) {
	claims, err := s.tokens.ParseOnboarding(input.Token)
	if err != nil {
		return SessionResult{}, err
	}

	hash, err := security.HashPassword(input.Password)
	if err != nil {
		return SessionResult{}, err
	}

	account := domain.Account{
		ID:           ids.New(),
		Email:        domain.NormalizeEmail(claims.Email),
		PasswordHash: hash,
		Name:         input.Name,
		Surname:      input.Surname,
		PhoneNumber:  input.PhoneNumber,
		Role:         domain.RoleSeller,
		Active:       true,
		Verified:     true,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		return SessionResult{}, err
	}

	token, err := s.tokens.IssueSession(account)
	if err != nil {
		return SessionResult{}, err
	}
	return SessionResult{Token: token, Account: account.Info()}, nil
}

func (s *AccountService) Get(ctx context.Context, id string) (domain.AccountInfo, error) {
	account, err := s.accounts.FindByID(ctx, id)
	if err != nil {
		return domain.AccountInfo{}, err
	}
	return account.Info(), nil
}

type ProfileUpdateInput struct {
	Name        *string
	Surname     *string
	PhoneNumber *string
	FiscalCode  *string
}

func (s *AccountService) UpdateProfile(ctx context.Context, id string, input ProfileUpdateInput) (domain.AccountInfo, error) {
	account, err := s.accounts.UpdateProfile(ctx, id, repository.AccountUpdate{
		Name:        input.Name,
		Surname:     input.Surname,
		PhoneNumber: input.PhoneNumber,
		FiscalCode:  input.FiscalCode,
	})
	if err != nil {
		return domain.AccountInfo{}, err
	}
	return account.Info(), nil
}

func (s *AccountService) UpdatePassword(ctx context.Context, id, currentPassword, newPassword string) error {
	account, err := s.accounts.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if len(account.PasswordHash) == 0 {
		return domain.ErrNoPasswordSet
	}

	ok, err := security.VerifyPassword(currentPassword, account.PasswordHash)
	if err != nil || !ok {
		return domain.ErrWrongCurrentPassword
	}

	hash, err := security.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.accounts.UpdatePassword(ctx, id, hash); err != nil {
		return err
	}

	s.notify("password changed", account.ID, func() error {
		return s.mail.SendPasswordChangedConfirmation(account.Email, account.Role)
	})
	return nil
}

// UpdateEmail changes the login address and re-issues the session, since
// the old token still carries the old email claim.
func (s *AccountService) UpdateEmail(ctx context.Context, id, newEmail string) (SessionResult, error) {
	account, err := s.accounts.UpdateEmail(ctx, id, newEmail)
	if err != nil {
		return SessionResult{}, err
	}

	s.notify("email changed", account.ID, func() error {
		return s.mail.SendEmailChangedConfirmation(account.Email, account.Role)
	})

	token, err := s.tokens.IssueSession(account)
	if err != nil {
		return SessionResult{}, err
	}
	return SessionResult{Token: token, Account: account.Info()}, nil
}

// DeactivateSelf disables the caller's own account. The system
// administrator cannot do this: combined with the admin-count guard it
// would allow locking everyone out of the back office.
func (s *AccountService) DeactivateSelf(ctx context.Context, actor domain.Account) error {
	if actor.Role == domain.RoleSystemAdmin {
		return domain.ErrSystemAdminDeactivate
	}
	if actor.Role.IsAdministrative() {
		return s.accounts.DeactivateAdminGuarded(ctx, actor.ID)
	}
	return s.accounts.SetActive(ctx, actor.ID, false)
}

// AdminSetActive toggles an account. Deactivating an administrative target
// goes through the transactional guard so the last active administrator
// can never be disabled, not even by two admins racing each other.
func (s *AccountService) AdminSetActive(ctx context.Context, actor domain.Account, targetID string, active bool) (domain.AccountInfo, error) {
	target, err := s.accounts.FindByID(ctx, targetID)
	if err != nil {
		return domain.AccountInfo{}, err
	}

	switch {
	case active:
		err = s.accounts.SetActive(ctx, targetID, true)
	case target.Role == domain.RoleSystemAdmin && actor.ID == target.ID:
		return domain.AccountInfo{}, domain.ErrSystemAdminDeactivate
	case target.Role.IsAdministrative() && target.Active:
		err = s.accounts.DeactivateAdminGuarded(ctx, targetID)
	default:
		err = s.accounts.SetActive(ctx, targetID, false)
	}
	if err != nil {
		return domain.AccountInfo{}, err
	}

	target.Active = active
	return target.Info(), nil
}

// DeleteAccount applies the authorization matrix and then disables the
// target. The row survives so past sales keep their buyer reference; only
// HardDeleteAccount physically removes data.
func (s *AccountService) DeleteAccount(ctx context.Context, actor domain.Account, targetID string) error {
	target, err := s.accounts.FindByID(ctx, targetID)
	if err != nil {
		return err
	}

	switch actor.Role {
	case domain.RoleSystemAdmin:
		if actor.ID == target.ID {
			return domain.ErrSystemAdminSelfDelete
		}
	case domain.RoleAdmin:
		if actor.ID == target.ID {
			return domain.ErrAdminSelfDelete
		}
		if target.Role.IsAdministrative() {
			return domain.ErrAdminDeletePeer
		}
	default:
		if actor.ID != target.ID {
			return domain.ErrDeleteOtherAccount
		}
	}

	if target.Role.IsAdministrative() && target.Active {
		return s.accounts.DeactivateAdminGuarded(ctx, targetID)
	}
	return s.accounts.SetActive(ctx, targetID, false)
}

// HardDeleteAccount physically purges an account and its stored picture.
// It deliberately bypasses the admin-count guard; the route is restricted
// to the system administrator.
func (s *AccountService) HardDeleteAccount(ctx context.Context, targetID string) error {
	target, err := s.accounts.FindByID(ctx, targetID)
	if err != nil {
		return err
	}

	if target.ProfilePicture != nil {
		if err := s.store.Delete(ctx, *target.ProfilePicture); err != nil {
			s.log.Error().Err(err).Str("account_id", targetID).Msg("orphaned profile picture left in storage")
		}
	}
	return s.accounts.HardDelete(ctx, targetID)
}

// UploadProfilePicture sniffs the real content type from the file head,
// stores the object, then persists the key. When the database update fails
// the fresh object is deleted again so storage does not accumulate
// unreferenced files.
func (s *AccountService) UploadProfilePicture(ctx context.Context, accountID string, data []byte) (string, error) {
	account, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		return "", err
	}

	detected, err := sniffer.DetectHead(data)
	if err != nil {
		return "", domain.ErrUnsupportedImageType
	}

	objectKey, err := s.store.Upload(ctx, data, detected.MIME, []string{"accounts", accountID}, "profile", string(detected.Type))
	if err != nil {
		return "", err
	}

	if err := s.accounts.UpdateProfilePicture(ctx, accountID, objectKey); err != nil {
		if deleteErr := s.store.Delete(ctx, objectKey); deleteErr != nil {
			s.log.Error().Err(deleteErr).Str("object_key", objectKey).Msg("compensating delete failed")
		}
		return "", err
	}

	if account.ProfilePicture != nil && *account.ProfilePicture != objectKey {
		if err := s.store.Delete(ctx, *account.ProfilePicture); err != nil {
			s.log.Warn().Err(err).Str("object_key", *account.ProfilePicture).Msg("previous profile picture not removed")
		}
	}

	return s.store.PublicURL(objectKey), nil
}

func (s *AccountService) ProfilePictureURL(ctx context.Context, accountID string) (string, error) {
	account, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		return "", err
	}
	if account.ProfilePicture == nil || *account.ProfilePicture == "" {
		return "", domain.ErrPictureNotFound
	}
	return s.store.PublicURL(*account.ProfilePicture), nil
}

func (s *AccountService) ListAll(ctx context.Context) ([]domain.AccountInfo, error) {
	accounts, err := s.accounts.All(ctx)
	return infos(accounts), err
}

func (s *AccountService) ListByRole(ctx context.Context, role string) ([]domain.AccountInfo, error) {
	parsed, ok := domain.ParseRole(role)
	if !ok {
		return nil, domain.ErrInvalidRole
	}
	accounts, err := s.accounts.FindByRole(ctx, parsed)
	return infos(accounts), err
}

func (s *AccountService) ListByActive(ctx context.Context, active bool) ([]domain.AccountInfo, error) {
	accounts, err := s.accounts.FindByActive(ctx, active)
	return infos(accounts), err
}

func (s *AccountService) ListByVerified(ctx context.Context, verified bool) ([]domain.AccountInfo, error) {
	accounts, err := s.accounts.FindByVerified(ctx, verified)
	return infos(accounts), err
}

func (s *AccountService) SearchAccounts(ctx context.Context, term string) ([]domain.AccountInfo, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, domain.ErrSearchQueryRequired
	}
	accounts, err := s.accounts.Search(ctx, term)
	return infos(accounts), err
}

// notify sends an email whose failure must not fail the operation. Fatal
// notifications do not go through here; their call sites handle rollback.
func (s *AccountService) notify(op, accountID string, send func() error) {
	if err := send(); err != nil {
		s.log.Error().Err(err).Str("account_id", accountID).Msg(op + " email failed")
	}
}

func infos(accounts []domain.Account) []domain.AccountInfo {
	result := make([]domain.AccountInfo, 0, len(accounts))
	for _, account := range accounts {
		result = append(result, account.Info())
	}
	return result
}
