package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Nicholas91X/auto2g-backend/internal/domain"
	"github.com/Nicholas91X/auto2g-backend/internal/ids"
	"github.com/Nicholas91X/auto2g-backend/internal/media/sniffer"
	"github.com/Nicholas91X/auto2g-backend/internal/repository"
)

type VehicleService struct {
	vehicles VehicleStore
	store    ObjectStore
	log      zerolog.Logger
}

func NewVehicleService(vehicles VehicleStore, store ObjectStore, log zerolog.Logger) *VehicleService {
	return &VehicleService{vehicles: vehicles, store: store, log: log}
}

type CreateVehicleInput struct {
	Brand       string
	Model       string
	Plate       string
	Year        int
	Price       float64
	Mileage     int
	Status      string
	Description string
}

func (s *VehicleService) Create(ctx context.Context, input CreateVehicleInput) (domain.Vehicle, error) {
	status := domain.VehicleAvailable
	if input.Status != "" {
		parsed, ok := domain.ParseVehicleStatus(input.Status)
		if !ok {
			return domain.Vehicle{}, domain.ErrInvalidStatus
		}
		status = parsed
	}

	vehicle := domain.Vehicle{
		ID:          ids.New(),
		Brand:       strings.TrimSpace(input.Brand),
		Model:       strings.TrimSpace(input.Model),
		Plate:       normalizePlate(input.Plate),
		Year:        input.Year,
		Price:       input.Price,
		Mileage:     input.Mileage,
		Status:      status,
		Description: input.Description,
	}
	if err := s.vehicles.Create(ctx, vehicle); err != nil {
		return domain.Vehicle{}, err
	}
	return vehicle, nil
}

func (s *VehicleService) Get(ctx context.Context, id string) (domain.Vehicle, error) {
	return s.vehicles.FindByID(ctx, id)
}

func (s *VehicleService) List(ctx context.Context, filter domain.VehicleFilter) ([]domain.Vehicle, error) {
	return s.vehicles.List(ctx, filter)
}

type UpdateVehicleInput struct {
	Brand       *string
	Model       *string
	Plate       *string
	Year        *int
	Price       *float64
	Mileage     *int
	Description *string
}

func (s *VehicleService) Update(ctx context.Context, id string, input UpdateVehicleInput) (domain.Vehicle, error) {
	update := repository.VehicleUpdate{
		Brand:       input.Brand,
		Model:       input.Model,
		Year:        input.Year,
		Price:       input.Price,
		Mileage:     input.Mileage,
		Description: input.Description,
	}
	if input.Plate != nil {
		plate := normalizePlate(*input.Plate)
		update.Plate = &plate
	}
	return s.vehicles.Update(ctx, id, update)
}

func (s *VehicleService) ChangeStatus(ctx context.Context, id, status string) (domain.Vehicle, error) {
	parsed, ok := domain.ParseVehicleStatus(status)
	if !ok {
		return domain.Vehicle{}, domain.ErrInvalidStatus
	}
	if err := s.vehicles.UpdateStatus(ctx, id, parsed); err != nil {
		return domain.Vehicle{}, err
	}
	return s.vehicles.FindByID(ctx, id)
}

// Delete removes the vehicle row, then sweeps its stored images. A failed
// object delete leaves an orphan in the bucket, which is preferable to a
// dangling database row pointing at nothing.
func (s *VehicleService) Delete(ctx context.Context, id string) error {
	vehicle, err := s.vehicles.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.vehicles.Delete(ctx, id); err != nil {
		return err
	}

	for _, image := range vehicle.Images {
		if err := s.store.Delete(ctx, image.ObjectKey); err != nil {
			s.log.Warn().Err(err).Str("object_key", image.ObjectKey).Msg("vehicle image not removed from storage")
		}
	}
	return nil
}

func (s *VehicleService) AddImage(ctx context.Context, vehicleID string, data []byte) (domain.VehicleImage, error) {
	if _, err := s.vehicles.FindByID(ctx, vehicleID); err != nil {
		return domain.VehicleImage{}, err
	}

	detected, err := sniffer.DetectHead(data)
	if err != nil {
		return domain.VehicleImage{}, domain.ErrUnsupportedImageType
	}

	objectKey, err := s.store.Upload(ctx, data, detected.MIME, []string{"vehicles", vehicleID}, "photo", string(detected.Type))
	if err != nil {
		return domain.VehicleImage{}, err
	}

	image := domain.VehicleImage{
		ID:        ids.New(),
		VehicleID: vehicleID,
		ObjectKey: objectKey,
		URL:       s.store.PublicURL(objectKey),
	}
	if err := s.vehicles.AddImage(ctx, image); err != nil {
		if deleteErr := s.store.Delete(ctx, objectKey); deleteErr != nil {
			s.log.Error().Err(deleteErr).Str("object_key", objectKey).Msg("compensating delete failed")
		}
		return domain.VehicleImage{}, err
	}
	return image, nil
}

func (s *VehicleService) RemoveImage(ctx context.Context, vehicleID, imageID string) error {
	image, err := s.vehicles.FindImage(ctx, vehicleID, imageID)
	if err != nil {
		return err
	}
	if err := s.vehicles.DeleteImage(ctx, imageID); err != nil {
		return err
	}

	if err := s.store.Delete(ctx, image.ObjectKey); err != nil {
		s.log.Warn().Err(err).Str("object_key", image.ObjectKey).Msg("vehicle image not removed from storage")
	}
	return nil
}

func normalizePlate(plate string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(plate), " ", ""))
}
