package security

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Nicholas91X/auto2g-backend/internal/domain"
)

// TokenType discriminates the signed payloads this service issues. Every
// verification path checks the type after the signature, so a structurally
// valid token of the wrong kind is rejected before any claim is trusted.
type TokenType string

const (
	TokenSession       TokenType = "session"
	TokenConfirmation  TokenType = "confirmation"
	TokenPasswordReset TokenType = "password-reset"
	TokenOnboarding    TokenType = "onboarding-simple"
)

type SessionClaims struct {
	Type      TokenType          `json:"typ"`
	AccountID string             `json:"id"`
	Email     string             `json:"email"`
	Role      domain.AccountRole `json:"role"`
	Verified  bool               `json:"verified"`
	Active    bool               `json:"active"`
	jwt.RegisteredClaims
}

// SubjectClaims is shared by confirmation and password-reset tokens, which
// carry nothing beyond the account they were minted for.
type SubjectClaims struct {
	Type      TokenType `json:"typ"`
	AccountID string    `json:"id"`
	jwt.RegisteredClaims
}

type OnboardingClaims struct {
	Type           TokenType `json:"typ"`
	Email          string    `json:"email"`
	DealershipName string    `json:"dealershipName,omitempty"`
	jwt.RegisteredClaims
}

type TokenTTLs struct {
	Session       time.Duration
	Confirmation  time.Duration
	PasswordReset time.Duration
	Onboarding    time.Duration
}

type TokenIssuer struct {
	secret []byte
	ttls   TokenTTLs
}

func NewTokenIssuer(secret string, ttls TokenTTLs) *TokenIssuer {
	if ttls.Session == 0 {
		ttls.Session = 240 * time.Hour
	}
	if ttls.Confirmation == 0 {
		ttls.Confirmation = 2 * time.Hour
	}
	if ttls.PasswordReset == 0 {
		ttls.PasswordReset = 30 * time.Minute
	}
	if ttls.Onboarding == 0 {
		ttls.Onboarding = 2 * time.Hour
	}
	return &TokenIssuer{secret: []byte(secret), ttls: ttls}
}

func (i *TokenIssuer) IssueSession(account domain.Account) (string, error) {
	claims := SessionClaims{
		Type:             TokenSession,
		AccountID:        account.ID,
		Email:            account.Email,
		Role:             account.Role,
		Verified:         account.Verified,
		Active:           account.Active,
		RegisteredClaims: registeredClaims(account.ID, i.ttls.Session),
	}
	return i.sign(claims)
}

func (i *TokenIssuer) IssueConfirmation(accountID string) (string, error) {
	claims := SubjectClaims{
		Type:             TokenConfirmation,
		AccountID:        accountID,
		RegisteredClaims: registeredClaims(accountID, i.ttls.Confirmation),
	}
	return i.sign(claims)
}

func (i *TokenIssuer) IssuePasswordReset(accountID string) (string, error) {
	claims := SubjectClaims{
		Type:             TokenPasswordReset,
		AccountID:        accountID,
		RegisteredClaims: registeredClaims(accountID, i.ttls.PasswordReset),
	}
	return i.sign(claims)
}

func (i *TokenIssuer) IssueOnboarding(email, dealershipName string) (string, error) {
	claims := OnboardingClaims{
		Type:             TokenOnboarding,
		Email:            email,
		DealershipName:   dealershipName,
		RegisteredClaims: registeredClaims(email, i.ttls.Onboarding),
	}
	return i.sign(claims)
}

func (i *TokenIssuer) ParseSession(token string) (*SessionClaims, error) {
	var claims SessionClaims
	if err := i.parse(token, &claims); err != nil {
		return nil, err
	}
	if claims.Type != TokenSession {
		return nil, domain.ErrWrongTokenType
	}
	return &claims, nil
}

func (i *TokenIssuer) ParseConfirmation(token string) (*SubjectClaims, error) {
	return i.parseSubject(token, TokenConfirmation)
}

func (i *TokenIssuer) ParsePasswordReset(token string) (*SubjectClaims, error) {
	return i.parseSubject(token, TokenPasswordReset)
}

func (i *TokenIssuer) ParseOnboarding(token string) (*OnboardingClaims, error) {
	var claims OnboardingClaims
	if err := i.parse(token, &claims); err != nil {
		return nil, err
	}
	if claims.Type != TokenOnboarding || claims.Email == "" {
		return nil, domain.ErrWrongTokenType
	}
	return &claims, nil
}

func (i *TokenIssuer) parseSubject(token string, expected TokenType) (*SubjectClaims, error) {
	var claims SubjectClaims
	if err := i.parse(token, &claims); err != nil {
		return nil, err
	}
	if claims.Type != expected {
		return nil, domain.ErrWrongTokenType
	}
	if claims.AccountID == "" {
		return nil, domain.ErrInvalidToken
	}
	return &claims, nil
}

func (i *TokenIssuer) sign(claims jwt.Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign jwt: %w", err)
	}
	return signed, nil
}

func (i *TokenIssuer) parse(tokenStr string, claims jwt.Claims) error {
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return i.secret, nil
	})
	if err != nil || !token.Valid {
		return domain.ErrInvalidToken
	}
	return nil
}

func registeredClaims(subject string, ttl time.Duration) jwt.RegisteredClaims {
	now := time.Now()
	return jwt.RegisteredClaims{
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		Subject:   subject,
	}
}
