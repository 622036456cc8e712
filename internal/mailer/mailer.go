package mailer

import "github.com/Nicholas91X/auto2g-backend/internal/domain"

// Mailer is the notification collaborator. Whether a failed send is fatal
// to the calling operation is decided per call site by the services, not
// here.
type Mailer interface {
	SendVerificationEmail(to, token string, isCustomer bool) error
	SendAdminAccountSetup(to, temporaryPassword, token string) error
	SendRecoverPassword(to, resetURL string) error
	SendOnboardingInvite(to, dealershipName, token string) error
	SendPasswordChangedConfirmation(to string, role domain.AccountRole) error
	SendEmailChangedConfirmation(to string, role domain.AccountRole) error
}
