package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Nicholas91X/auto2g-backend/internal/domain"
	"github.com/Nicholas91X/auto2g-backend/internal/repository"
)

// fakeAccountStore mirrors the repository contract in memory, including
// the sentinel translation and the guarded-deactivation invariant.
type fakeAccountStore struct {
	mu       sync.Mutex
	accounts map[string]domain.Account

	failPictureUpdate bool
}

func newFakeAccountStore(seed ...domain.Account) *fakeAccountStore {
	store := &fakeAccountStore{accounts: make(map[string]domain.Account)}
	for _, account := range seed {
		store.accounts[account.ID] = account
	}
	return store
}

func (f *fakeAccountStore) Create(_ context.Context, account domain.Account) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, existing := range f.accounts {
		if strings.EqualFold(existing.Email, account.Email) {
			return domain.ErrEmailTaken
		}
	}
	account.CreatedAt = time.Now()
	account.UpdatedAt = account.CreatedAt
	f.accounts[account.ID] = account
	return nil
}

func (f *fakeAccountStore) FindByID(_ context.Context, id string) (domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	account, ok := f.accounts[id]
	if !ok {
		return domain.Account{}, domain.ErrAccountNotFound
	}
	return account, nil
}

func (f *fakeAccountStore) FindByEmail(_ context.Context, email string) (domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	normalized := domain.NormalizeEmail(email)
	for _, account := range f.accounts {
		if strings.EqualFold(account.Email, normalized) {
			return account, nil
		}
	}
	return domain.Account{}, domain.ErrAccountNotFound
}

func (f *fakeAccountStore) All(_ context.Context) ([]domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshot(func(domain.Account) bool { return true }), nil
}

func (f *fakeAccountStore) FindByRole(_ context.Context, role domain.AccountRole) ([]domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshot(func(a domain.Account) bool { return a.Role == role && a.Active }), nil
}

func (f *fakeAccountStore) FindByActive(_ context.Context, active bool) ([]domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshot(func(a domain.Account) bool { return a.Active == active }), nil
}

func (f *fakeAccountStore) FindByVerified(_ context.Context, verified bool) ([]domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshot(func(a domain.Account) bool { return a.Verified == verified }), nil
}

func (f *fakeAccountStore) Search(_ context.Context, term string) ([]domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	lowered := strings.ToLower(term)
	return f.snapshot(func(a domain.Account) bool {
		return strings.Contains(strings.ToLower(a.Name), lowered) ||
			strings.Contains(strings.ToLower(a.Surname), lowered) ||
			strings.Contains(strings.ToLower(a.Email), lowered)
	}), nil
}

func (f *fakeAccountStore) UpdateProfile(_ context.Context, id string, update repository.AccountUpdate) (domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	account, ok := f.accounts[id]
	if !ok {
		return domain.Account{}, domain.ErrAccountNotFound
	}
	if update.Name != nil {
		account.Name = *update.Name
	}
	if update.Surname != nil {
		account.Surname = *update.Surname
	}
	if update.PhoneNumber != nil {
		account.PhoneNumber = *update.PhoneNumber
	}
	if update.FiscalCode != nil {
		account.FiscalCode = *update.FiscalCode
	}
	f.accounts[id] = account
	return account, nil
}

func (f *fakeAccountStore) SetVerified(_ context.Context, id string) error {
	return f.mutate(id, func(a *domain.Account) { a.Verified = true })
}

func (f *fakeAccountStore) UpdatePassword(_ context.Context, id string, hash []byte) error {
	return f.mutate(id, func(a *domain.Account) { a.PasswordHash = hash })
}

func (f *fakeAccountStore) UpdateEmail(_ context.Context, id string, email string) (domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	normalized := domain.NormalizeEmail(email)
	for otherID, other := range f.accounts {
		if otherID != id && strings.EqualFold(other.Email, normalized) {
			return domain.Account{}, domain.ErrEmailTaken
		}
	}

	account, ok := f.accounts[id]
	if !ok {
		return domain.Account{}, domain.ErrAccountNotFound
	}
	account.Email = normalized
	f.accounts[id] = account
	return account, nil
}

func (f *fakeAccountStore) UpdateProfilePicture(_ context.Context, id string, objectKey string) error {
	if f.failPictureUpdate {
		return errors.New("database unavailable")
	}
	return f.mutate(id, func(a *domain.Account) { a.ProfilePicture = &objectKey })
}

func (f *fakeAccountStore) SetActive(_ context.Context, id string, active bool) error {
	return f.mutate(id, func(a *domain.Account) { a.Active = active })
}

func (f *fakeAccountStore) CountActiveAdmins(_ context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	count := 0
	for _, account := range f.accounts {
		if account.Active && account.Role.IsAdministrative() {
			count++
		}
	}
	return count, nil
}

func (f *fakeAccountStore) DeactivateAdminGuarded(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	activeAdmins := 0
	for _, account := range f.accounts {
		if account.Active && account.Role.IsAdministrative() {
			activeAdmins++
		}
	}
	if activeAdmins <= 1 {
		return domain.ErrLastActiveAdmin
	}

	account, ok := f.accounts[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	account.Active = false
	f.accounts[id] = account
	return nil
}

func (f *fakeAccountStore) HardDelete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.accounts[id]; !ok {
		return domain.ErrAccountNotFound
	}
	delete(f.accounts, id)
	return nil
}

func (f *fakeAccountStore) mutate(id string, apply func(*domain.Account)) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	account, ok := f.accounts[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	apply(&account)
	f.accounts[id] = account
	return nil
}

func (f *fakeAccountStore) snapshot(keep func(domain.Account) bool) []domain.Account {
	var result []domain.Account
	for _, account := range f.accounts {
		if keep(account) {
			result = append(result, account)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

// recordingMailer captures every send and can fail selected operations.
type recordingMailer struct {
	mu   sync.Mutex
	sent []sentMail

	failVerification bool
	failAdminSetup   bool
}

type sentMail struct {
	kind string
	to   string
	arg  string
}

func (m *recordingMailer) record(kind, to, arg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{kind: kind, to: to, arg: arg})
}

func (m *recordingMailer) byKind(kind string) []sentMail {
	m.mu.Lock()
	defer m.mu.Unlock()

	var result []sentMail
	for _, mail := range m.sent {
		if mail.kind == kind {
			result = append(result, mail)
		}
	}
	return result
}

func (m *recordingMailer) SendVerificationEmail(to, token string, _ bool) error {
	if m.failVerification {
		return errors.New("smtp unreachable")
	}
	m.record("verification", to, token)
	return nil
}

func (m *recordingMailer) SendAdminAccountSetup(to, temporaryPassword, _ string) error {
	if m.failAdminSetup {
		return errors.New("smtp unreachable")
	}
	m.record("admin-setup", to, temporaryPassword)
	return nil
}

func (m *recordingMailer) SendRecoverPassword(to, resetURL string) error {
	m.record("recover", to, resetURL)
	return nil
}

func (m *recordingMailer) SendOnboardingInvite(to, _, token string) error {
	m.record("onboarding", to, token)
	return nil
}

func (m *recordingMailer) SendPasswordChangedConfirmation(to string, _ domain.AccountRole) error {
	m.record("password-changed", to, "")
	return nil
}

func (m *recordingMailer) SendEmailChangedConfirmation(to string, _ domain.AccountRole) error {
	m.record("email-changed", to, "")
	return nil
}

// fakeObjectStore stores objects in a map keyed by a deterministic name.
type fakeObjectStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	counter int
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{objects: make(map[string][]byte)}
}

func (f *fakeObjectStore) Upload(_ context.Context, data []byte, _ string, pathSegments []string, nameHint string, ext string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.counter++
	key := strings.Join(pathSegments, "/") + "/" + nameHint + "-" + ext
	f.objects[key] = data
	return key, nil
}

func (f *fakeObjectStore) Delete(_ context.Context, objectKey string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, objectKey)
	return nil
}

func (f *fakeObjectStore) PublicURL(objectKey string) string {
	return "https://media.test/" + objectKey
}

func (f *fakeObjectStore) has(objectKey string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.objects[objectKey]
	return ok
}

// fakeVehicleStore keeps vehicles and their images in memory, enforcing
// plate uniqueness like the database constraint does.
type fakeVehicleStore struct {
	mu       sync.Mutex
	vehicles map[string]domain.Vehicle

	failAddImage bool
}

func newFakeVehicleStore(seed ...domain.Vehicle) *fakeVehicleStore {
	store := &fakeVehicleStore{vehicles: make(map[string]domain.Vehicle)}
	for _, vehicle := range seed {
		store.vehicles[vehicle.ID] = vehicle
	}
	return store
}

func (f *fakeVehicleStore) Create(_ context.Context, vehicle domain.Vehicle) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, existing := range f.vehicles {
		if existing.Plate == vehicle.Plate {
			return domain.ErrPlateTaken
		}
	}
	f.vehicles[vehicle.ID] = vehicle
	return nil
}

func (f *fakeVehicleStore) FindByID(_ context.Context, id string) (domain.Vehicle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	vehicle, ok := f.vehicles[id]
	if !ok {
		return domain.Vehicle{}, domain.ErrVehicleNotFound
	}
	return vehicle, nil
}

func (f *fakeVehicleStore) List(_ context.Context, filter domain.VehicleFilter) ([]domain.Vehicle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var result []domain.Vehicle
	for _, vehicle := range f.vehicles {
		if filter.Brand != "" && !strings.EqualFold(vehicle.Brand, filter.Brand) {
			continue
		}
		if filter.Status != "" && vehicle.Status != filter.Status {
			continue
		}
		if filter.PriceMax > 0 && vehicle.Price > filter.PriceMax {
			continue
		}
		result = append(result, vehicle)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (f *fakeVehicleStore) Update(_ context.Context, id string, update repository.VehicleUpdate) (domain.Vehicle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	vehicle, ok := f.vehicles[id]
	if !ok {
		return domain.Vehicle{}, domain.ErrVehicleNotFound
	}
	if update.Plate != nil {
		for otherID, other := range f.vehicles {
			if otherID != id && other.Plate == *update.Plate {
				return domain.Vehicle{}, domain.ErrPlateTaken
			}
		}
		vehicle.Plate = *update.Plate
	}
	if update.Brand != nil {
		vehicle.Brand = *update.Brand
	}
	if update.Model != nil {
		vehicle.Model = *update.Model
	}
	if update.Year != nil {
		vehicle.Year = *update.Year
	}
	if update.Price != nil {
		vehicle.Price = *update.Price
	}
	if update.Mileage != nil {
		vehicle.Mileage = *update.Mileage
	}
	if update.Description != nil {
		vehicle.Description = *update.Description
	}
	f.vehicles[id] = vehicle
	return vehicle, nil
}

func (f *fakeVehicleStore) UpdateStatus(_ context.Context, id string, status domain.VehicleStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	vehicle, ok := f.vehicles[id]
	if !ok {
		return domain.ErrVehicleNotFound
	}
	vehicle.Status = status
	f.vehicles[id] = vehicle
	return nil
}

func (f *fakeVehicleStore) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.vehicles[id]; !ok {
		return domain.ErrVehicleNotFound
	}
	delete(f.vehicles, id)
	return nil
}

func (f *fakeVehicleStore) CountByStatus(_ context.Context, status domain.VehicleStatus) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	count := 0
	for _, vehicle := range f.vehicles {
		if vehicle.Status == status {
			count++
		}
	}
	return count, nil
}

func (f *fakeVehicleStore) AddImage(_ context.Context, image domain.VehicleImage) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failAddImage {
		return errors.New("database unavailable")
	}
	vehicle, ok := f.vehicles[image.VehicleID]
	if !ok {
		return domain.ErrVehicleNotFound
	}
	vehicle.Images = append(vehicle.Images, image)
	f.vehicles[image.VehicleID] = vehicle
	return nil
}

func (f *fakeVehicleStore) FindImage(_ context.Context, vehicleID, imageID string) (domain.VehicleImage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	vehicle, ok := f.vehicles[vehicleID]
	if !ok {
		return domain.VehicleImage{}, domain.ErrVehicleNotFound
	}
	for _, image := range vehicle.Images {
		if image.ID == imageID {
			return image, nil
		}
	}
	return domain.VehicleImage{}, domain.ErrImageNotFound
}

func (f *fakeVehicleStore) DeleteImage(_ context.Context, imageID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for id, vehicle := range f.vehicles {
		for i, image := range vehicle.Images {
			if image.ID == imageID {
				vehicle.Images = append(vehicle.Images[:i], vehicle.Images[i+1:]...)
				f.vehicles[id] = vehicle
				return nil
			}
		}
	}
	return domain.ErrImageNotFound
}

// fakeSaleStore enforces the not-already-sold rule against a shared
// vehicle map, like the transactional repository does.
type fakeSaleStore struct {
	mu       sync.Mutex
	sales    []domain.Sale
	vehicles map[string]*domain.Vehicle
}

func newFakeSaleStore(vehicles ...*domain.Vehicle) *fakeSaleStore {
	store := &fakeSaleStore{vehicles: make(map[string]*domain.Vehicle)}
	for _, vehicle := range vehicles {
		store.vehicles[vehicle.ID] = vehicle
	}
	return store
}

func (f *fakeSaleStore) Create(_ context.Context, sale domain.Sale) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	vehicle, ok := f.vehicles[sale.VehicleID]
	if !ok {
		return domain.ErrVehicleNotFound
	}
	if vehicle.Status == domain.VehicleSold {
		return domain.ErrVehicleAlreadySold
	}
	vehicle.Status = domain.VehicleSold
	f.sales = append(f.sales, sale)
	return nil
}

func (f *fakeSaleStore) All(_ context.Context) ([]domain.Sale, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Sale(nil), f.sales...), nil
}

func (f *fakeSaleStore) ListRecent(_ context.Context, limit int) ([]domain.Sale, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if limit > len(f.sales) {
		limit = len(f.sales)
	}
	return append([]domain.Sale(nil), f.sales[len(f.sales)-limit:]...), nil
}

func (f *fakeSaleStore) CountSince(_ context.Context, since time.Time) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	count := 0
	for _, sale := range f.sales {
		if !sale.SoldAt.Before(since) {
			count++
		}
	}
	return count, nil
}

func (f *fakeSaleStore) RevenueSince(_ context.Context, since time.Time) (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	total := 0.0
	for _, sale := range f.sales {
		if !sale.SoldAt.Before(since) {
			total += sale.FinalPrice
		}
	}
	return total, nil
}

func (f *fakeSaleStore) BrandPerformance(_ context.Context) ([]domain.BrandPerformance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	byBrand := make(map[string]*domain.BrandPerformance)
	for _, sale := range f.sales {
		vehicle, ok := f.vehicles[sale.VehicleID]
		if !ok {
			continue
		}
		entry, ok := byBrand[vehicle.Brand]
		if !ok {
			entry = &domain.BrandPerformance{Brand: vehicle.Brand}
			byBrand[vehicle.Brand] = entry
		}
		entry.Sales++
		entry.Revenue += sale.FinalPrice
	}

	var result []domain.BrandPerformance
	for _, entry := range byBrand {
		result = append(result, *entry)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Revenue > result[j].Revenue })
	return result, nil
}
