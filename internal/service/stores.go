package service

import (
	"context"
	"time"

	"github.com/Nicholas91X/auto2g-backend/internal/domain"
	"github.com/Nicholas91X/auto2g-backend/internal/repository"
)

// AccountStore is the slice of the account repository the services depend
// on. Tests swap in an in-memory fake.
type AccountStore interface {
	Create(ctx context.Context, account domain.Account) error
	FindByID(ctx context.Context, id string) (domain.Account, error)
	FindByEmail(ctx context.Context, email string) (domain.Account, error)
	All(ctx context.Context) ([]domain.Account, error)
	FindByRole(ctx context.Context, role domain.AccountRole) ([]domain.Account, error)
	FindByActive(ctx context.Context, active bool) ([]domain.Account, error)
	FindByVerified(ctx context.Context, verified bool) ([]domain.Account, error)
	Search(ctx context.Context, term string) ([]domain.Account, error)
	UpdateProfile(ctx context.Context, id string, update repository.AccountUpdate) (domain.Account, error)
	SetVerified(ctx context.Context, id string) error
	UpdatePassword(ctx context.Context, id string, passwordHash []byte) error
	UpdateEmail(ctx context.Context, id string, email string) (domain.Account, error)
	UpdateProfilePicture(ctx context.Context, id string, objectKey string) error
	SetActive(ctx context.Context, id string, active bool) error
	DeactivateAdminGuarded(ctx context.Context, id string) error
	HardDelete(ctx context.Context, id string) error
}

// AdminCounter reports how many administrative accounts are active. The
// dashboard surfaces the number so staff notice when it is down to one.
type AdminCounter interface {
	CountActiveAdmins(ctx context.Context) (int, error)
}

type VehicleStore interface {
	Create(ctx context.Context, vehicle domain.Vehicle) error
	FindByID(ctx context.Context, id string) (domain.Vehicle, error)
	List(ctx context.Context, filter domain.VehicleFilter) ([]domain.Vehicle, error)
	Update(ctx context.Context, id string, update repository.VehicleUpdate) (domain.Vehicle, error)
	UpdateStatus(ctx context.Context, id string, status domain.VehicleStatus) error
	Delete(ctx context.Context, id string) error
	CountByStatus(ctx context.Context, status domain.VehicleStatus) (int, error)
	AddImage(ctx context.Context, image domain.VehicleImage) error
	FindImage(ctx context.Context, vehicleID, imageID string) (domain.VehicleImage, error)
	DeleteImage(ctx context.Context, imageID string) error
}

type SaleStore interface {
	Create(ctx context.Context, sale domain.Sale) error
	All(ctx context.Context) ([]domain.Sale, error)
	ListRecent(ctx context.Context, limit int) ([]domain.Sale, error)
	CountSince(ctx context.Context, since time.Time) (int, error)
	RevenueSince(ctx context.Context, since time.Time) (float64, error)
	BrandPerformance(ctx context.Context) ([]domain.BrandPerformance, error)
}

// ObjectStore is the slice of the minio wrapper the services use.
type ObjectStore interface {
	Upload(ctx context.Context, data []byte, contentType string, pathSegments []string, nameHint string, ext string) (string, error)
	Delete(ctx context.Context, objectKey string) error
	PublicURL(objectKey string) string
}
