package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nicholas91X/auto2g-backend/internal/domain"
)

func newTestVehicleService(vehicles *fakeVehicleStore, objects *fakeObjectStore) *VehicleService {
	return NewVehicleService(vehicles, objects, zerolog.Nop())
}

func TestCreateVehicleNormalizesPlate(t *testing.T) {
	svc := newTestVehicleService(newFakeVehicleStore(), newFakeObjectStore())

	vehicle, err := svc.Create(context.Background(), CreateVehicleInput{
		Brand:   " Fiat ",
		Model:   "Panda",
		Plate:   " ab 123 cd ",
		Year:    2019,
		Price:   9500,
		Mileage: 42000,
	})
	require.NoError(t, err)
	assert.Equal(t, "AB123CD", vehicle.Plate)
	assert.Equal(t, "Fiat", vehicle.Brand)
	assert.Equal(t, domain.VehicleAvailable, vehicle.Status)

	// same plate with different spacing collides
	_, err = svc.Create(context.Background(), CreateVehicleInput{
		Brand:   "Fiat",
		Model:   "500",
		Plate:   "AB123CD",
		Year:    2021,
		Price:   12000,
		Mileage: 10000,
	})
	assert.ErrorIs(t, err, domain.ErrPlateTaken)
}

func TestCreateVehicleRejectsUnknownStatus(t *testing.T) {
	svc := newTestVehicleService(newFakeVehicleStore(), newFakeObjectStore())

	_, err := svc.Create(context.Background(), CreateVehicleInput{
		Brand:  "Fiat",
		Model:  "Panda",
		Plate:  "AB123CD",
		Year:   2019,
		Price:  9500,
		Status: "PARKED",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
}

func TestChangeStatus(t *testing.T) {
	vehicles := newFakeVehicleStore(domain.Vehicle{
		ID: "veh_1", Brand: "Fiat", Model: "Panda", Plate: "AB123CD",
		Status: domain.VehicleAvailable,
	})
	svc := newTestVehicleService(vehicles, newFakeObjectStore())

	vehicle, err := svc.ChangeStatus(context.Background(), "veh_1", "negotiating")
	require.NoError(t, err)
	assert.Equal(t, domain.VehicleNegotiating, vehicle.Status)

	_, err = svc.ChangeStatus(context.Background(), "veh_1", "scrapped")
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)

	_, err = svc.ChangeStatus(context.Background(), "veh_missing", "sold")
	assert.ErrorIs(t, err, domain.ErrVehicleNotFound)
}

func TestAddImage(t *testing.T) {
	jpegHead := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0, 0, 0, 0}

	t.Run("stores and links the object", func(t *testing.T) {
		vehicles := newFakeVehicleStore(domain.Vehicle{
			ID: "veh_1", Brand: "Fiat", Plate: "AB123CD", Status: domain.VehicleAvailable,
		})
		objects := newFakeObjectStore()
		svc := newTestVehicleService(vehicles, objects)

		image, err := svc.AddImage(context.Background(), "veh_1", jpegHead)
		require.NoError(t, err)
		assert.Equal(t, "veh_1", image.VehicleID)
		assert.True(t, objects.has(image.ObjectKey))
		assert.Contains(t, image.URL, image.ObjectKey)

		stored, err := vehicles.FindByID(context.Background(), "veh_1")
		require.NoError(t, err)
		require.Len(t, stored.Images, 1)
	})

	t.Run("rejects non-image uploads", func(t *testing.T) {
		vehicles := newFakeVehicleStore(domain.Vehicle{
			ID: "veh_1", Brand: "Fiat", Plate: "AB123CD", Status: domain.VehicleAvailable,
		})
		svc := newTestVehicleService(vehicles, newFakeObjectStore())

		_, err := svc.AddImage(context.Background(), "veh_1", []byte("%PDF-1.4"))
		assert.ErrorIs(t, err, domain.ErrUnsupportedImageType)
	})

	t.Run("compensates when the database insert fails", func(t *testing.T) {
		vehicles := newFakeVehicleStore(domain.Vehicle{
			ID: "veh_1", Brand: "Fiat", Plate: "AB123CD", Status: domain.VehicleAvailable,
		})
		vehicles.failAddImage = true
		objects := newFakeObjectStore()
		svc := newTestVehicleService(vehicles, objects)

		_, err := svc.AddImage(context.Background(), "veh_1", jpegHead)
		require.Error(t, err)
		assert.Empty(t, objects.objects)
	})

	t.Run("unknown vehicle", func(t *testing.T) {
		svc := newTestVehicleService(newFakeVehicleStore(), newFakeObjectStore())

		_, err := svc.AddImage(context.Background(), "veh_missing", jpegHead)
		assert.ErrorIs(t, err, domain.ErrVehicleNotFound)
	})
}

func TestRemoveImage(t *testing.T) {
	vehicles := newFakeVehicleStore(domain.Vehicle{
		ID: "veh_1", Brand: "Fiat", Plate: "AB123CD", Status: domain.VehicleAvailable,
	})
	objects := newFakeObjectStore()
	svc := newTestVehicleService(vehicles, objects)

	image, err := svc.AddImage(context.Background(), "veh_1", []byte{0xFF, 0xD8, 0xFF, 0xE0})
	require.NoError(t, err)

	require.NoError(t, svc.RemoveImage(context.Background(), "veh_1", image.ID))
	assert.False(t, objects.has(image.ObjectKey))

	err = svc.RemoveImage(context.Background(), "veh_1", image.ID)
	assert.ErrorIs(t, err, domain.ErrImageNotFound)
}

func TestDeleteVehicleSweepsImages(t *testing.T) {
	vehicles := newFakeVehicleStore(domain.Vehicle{
		ID: "veh_1", Brand: "Fiat", Plate: "AB123CD", Status: domain.VehicleAvailable,
	})
	objects := newFakeObjectStore()
	svc := newTestVehicleService(vehicles, objects)

	image, err := svc.AddImage(context.Background(), "veh_1", []byte{0xFF, 0xD8, 0xFF, 0xE0})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), "veh_1"))
	assert.False(t, objects.has(image.ObjectKey))

	_, err = svc.Get(context.Background(), "veh_1")
	assert.ErrorIs(t, err, domain.ErrVehicleNotFound)
}
