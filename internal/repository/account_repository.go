package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Nicholas91X/auto2g-backend/internal/domain"
)

const uniqueViolation = "23505"

const accountColumns = `
	id, email, password_hash, name, surname, phone_number, fiscal_code,
	role, active, verified, profile_picture, created_at, updated_at
`

type AccountRepository struct {
	pool *pgxpool.Pool
}

func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

func (r *AccountRepository) Create(ctx context.Context, account domain.Account) error {
	const query = `
		INSERT INTO accounts (
			id, email, password_hash, name, surname, phone_number, fiscal_code,
			role, active, verified, profile_picture, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW()
		)
	`

	_, err := r.pool.Exec(ctx, query,
		account.ID,
		account.Email,
		account.PasswordHash,
		account.Name,
		account.Surname,
		account.PhoneNumber,
		account.FiscalCode,
		account.Role,
		account.Active,
		account.Verified,
		account.ProfilePicture,
	)
	if isUniqueViolation(err) {
		return domain.ErrEmailTaken
	}
	return err
}

func (r *AccountRepository) FindByID(ctx context.Context, id string) (domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	return r.queryOne(ctx, query, id)
}

func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE lower(email) = $1`
	return r.queryOne(ctx, query, domain.NormalizeEmail(email))
}

func (r *AccountRepository) All(ctx context.Context) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts ORDER BY created_at DESC`
	return r.queryMany(ctx, query)
}

// FindByRole returns active accounts only. Disabled accounts are excluded
// from role listings but not from the active/verified filters.
func (r *AccountRepository) FindByRole(ctx context.Context, role domain.AccountRole) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE role = $1 AND active ORDER BY created_at DESC`
	return r.queryMany(ctx, query, role)
}

func (r *AccountRepository) FindByActive(ctx context.Context, active bool) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE active = $1 ORDER BY created_at DESC`
	return r.queryMany(ctx, query, active)
}

func (r *AccountRepository) FindByVerified(ctx context.Context, verified bool) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE verified = $1 ORDER BY created_at DESC`
	return r.queryMany(ctx, query, verified)
}

func (r *AccountRepository) Search(ctx context.Context, term string) ([]domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE name ILIKE $1 OR surname ILIKE $1 OR email ILIKE $1
		ORDER BY created_at DESC
	`
	return r.queryMany(ctx, query, "%"+term+"%")
}

// CountActiveAdmins counts active accounts holding ADMIN or SYSTEM_ADMIN.
func (r *AccountRepository) CountActiveAdmins(ctx context.Context) (int, error) {
	const query = `
		SELECT COUNT(*) FROM accounts
		WHERE active AND role IN ('ADMIN', 'SYSTEM_ADMIN')
	`
	var count int
	if err := r.pool.QueryRow(ctx, query).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// AccountUpdate is a partial profile update; nil fields are left untouched.
type AccountUpdate struct {
	Name        *string
	Surname     *string
	PhoneNumber *string
	FiscalCode  *string
}

func (r *AccountRepository) UpdateProfile(ctx context.Context, id string, update AccountUpdate) (domain.Account, error) {
	sets := []string{"updated_at = NOW()"}
	args := []any{id}

	appendSet := func(column string, value *string) {
		if value == nil {
			return
		}
		args = append(args, *value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	appendSet("name", update.Name)
	appendSet("surname", update.Surname)
	appendSet("phone_number", update.PhoneNumber)
	appendSet("fiscal_code", update.FiscalCode)

	query := `UPDATE accounts SET ` + strings.Join(sets, ", ") +
		` WHERE id = $1 RETURNING ` + accountColumns
	return r.queryOne(ctx, query, args...)
}

func (r *AccountRepository) SetVerified(ctx context.Context, id string) error {
	const query = `UPDATE accounts SET verified = true, updated_at = NOW() WHERE id = $1`
	return r.exec(ctx, query, id)
}

func (r *AccountRepository) UpdatePassword(ctx context.Context, id string, passwordHash []byte) error {
	const query = `UPDATE accounts SET password_hash = $2, updated_at = NOW() WHERE id = $1`
	return r.exec(ctx, query, id, passwordHash)
}

func (r *AccountRepository) UpdateEmail(ctx context.Context, id string, email string) (domain.Account, error) {
	const query = `
		UPDATE accounts SET email = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + accountColumns
	account, err := r.queryOne(ctx, query, id, domain.NormalizeEmail(email))
	if isUniqueViolation(err) {
		return domain.Account{}, domain.ErrEmailTaken
	}
	return account, err
}

func (r *AccountRepository) UpdateProfilePicture(ctx context.Context, id string, objectKey string) error {
	const query = `UPDATE accounts SET profile_picture = $2, updated_at = NOW() WHERE id = $1`
	return r.exec(ctx, query, id, objectKey)
}

func (r *AccountRepository) SetActive(ctx context.Context, id string, active bool) error {
	const query = `UPDATE accounts SET active = $2, updated_at = NOW() WHERE id = $1`
	return r.exec(ctx, query, id, active)
}

// DeactivateAdminGuarded disables an administrative account while holding
// row locks on every active admin, so two concurrent deactivations cannot
// both observe a count above the minimum. Returns ErrLastActiveAdmin when
// the target is the only active administrator left.
func (r *AccountRepository) DeactivateAdminGuarded(ctx context.Context, id string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	const lockQuery = `
		SELECT COUNT(*) FROM (
			SELECT id FROM accounts
			WHERE active AND role IN ('ADMIN', 'SYSTEM_ADMIN')
			FOR UPDATE
		) locked
	`
	var count int
	if err := tx.QueryRow(ctx, lockQuery).Scan(&count); err != nil {
		return err
	}
	if count <= 1 {
		return domain.ErrLastActiveAdmin
	}

	const update = `UPDATE accounts SET active = false, updated_at = NOW() WHERE id = $1`
	cmd, err := tx.Exec(ctx, update, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrAccountNotFound
	}

	return tx.Commit(ctx)
}

func (r *AccountRepository) HardDelete(ctx context.Context, id string) error {
	const query = `DELETE FROM accounts WHERE id = $1`
	return r.exec(ctx, query, id)
}

// DeleteStaleUnverified purges accounts that never confirmed their email.
func (r *AccountRepository) DeleteStaleUnverified(ctx context.Context, olderThan time.Time) (int64, error) {
	const query = `DELETE FROM accounts WHERE NOT verified AND created_at < $1`
	cmd, err := r.pool.Exec(ctx, query, olderThan)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

func (r *AccountRepository) queryOne(ctx context.Context, query string, args ...any) (domain.Account, error) {
	row := r.pool.QueryRow(ctx, query, args...)
	account, err := scanAccount(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Account{}, domain.ErrAccountNotFound
	}
	return account, err
}

func (r *AccountRepository) queryMany(ctx context.Context, query string, args ...any) ([]domain.Account, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}
	return accounts, rows.Err()
}

func (r *AccountRepository) exec(ctx context.Context, query string, args ...any) error {
	cmd, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

func scanAccount(row pgx.Row) (domain.Account, error) {
	var account domain.Account
	err := row.Scan(
		&account.ID,
		&account.Email,
		&account.PasswordHash,
		&account.Name,
		&account.Surname,
		&account.PhoneNumber,
		&account.FiscalCode,
		&account.Role,
		&account.Active,
		&account.Verified,
		&account.ProfilePicture,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	return account, err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
