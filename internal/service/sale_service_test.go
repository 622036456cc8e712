package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nicholas91X/auto2g-backend/internal/domain"
)

func availableVehicle(id, brand string) *domain.Vehicle {
	return &domain.Vehicle{
		ID:     id,
		Brand:  brand,
		Model:  "Panda",
		Plate:  "AB123CD",
		Status: domain.VehicleAvailable,
	}
}

func TestRegisterSaleRequiresBuyer(t *testing.T) {
	sales := newFakeSaleStore(availableVehicle("veh_1", "Fiat"))
	svc := NewSaleService(sales, newFakeAccountStore(), zerolog.Nop())

	_, err := svc.RegisterSale(context.Background(), RegisterSaleInput{
		VehicleID:  "veh_1",
		FinalPrice: 9500,
		BuyerName:  "   ",
	})
	assert.ErrorIs(t, err, domain.ErrBuyerRequired)
}

func TestRegisterSaleWalkInBuyer(t *testing.T) {
	sales := newFakeSaleStore(availableVehicle("veh_1", "Fiat"))
	svc := NewSaleService(sales, newFakeAccountStore(), zerolog.Nop())

	sale, err := svc.RegisterSale(context.Background(), RegisterSaleInput{
		VehicleID:  "veh_1",
		FinalPrice: 9500,
		BuyerName:  "  Giulia Verdi ",
		BuyerInfo:  "cash, trade-in",
	})
	require.NoError(t, err)
	assert.Nil(t, sale.BuyerID)
	assert.Equal(t, "Giulia Verdi", sale.BuyerName)
	assert.False(t, sale.SoldAt.IsZero())

	assert.Equal(t, domain.VehicleSold, sales.vehicles["veh_1"].Status)
}

func TestRegisterSaleRegisteredBuyer(t *testing.T) {
	buyer := activeCustomer(t, "acc_1", "giulia@example.com", "secret-pass")
	buyer.Name = "Giulia"
	buyer.Surname = "Verdi"

	sales := newFakeSaleStore(availableVehicle("veh_1", "Fiat"))
	svc := NewSaleService(sales, newFakeAccountStore(buyer), zerolog.Nop())

	sale, err := svc.RegisterSale(context.Background(), RegisterSaleInput{
		VehicleID:  "veh_1",
		FinalPrice: 12000,
		BuyerID:    "acc_1",
	})
	require.NoError(t, err)
	require.NotNil(t, sale.BuyerID)
	assert.Equal(t, "acc_1", *sale.BuyerID)
	// the display name falls back to the account when none was given
	assert.Equal(t, "Giulia Verdi", sale.BuyerName)
}

func TestRegisterSaleUnknownBuyer(t *testing.T) {
	sales := newFakeSaleStore(availableVehicle("veh_1", "Fiat"))
	svc := NewSaleService(sales, newFakeAccountStore(), zerolog.Nop())

	_, err := svc.RegisterSale(context.Background(), RegisterSaleInput{
		VehicleID:  "veh_1",
		FinalPrice: 12000,
		BuyerID:    "acc_ghost",
	})
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)

	// nothing was recorded and the vehicle stayed on the lot
	assert.Equal(t, domain.VehicleAvailable, sales.vehicles["veh_1"].Status)
}

func TestRegisterSaleVehicleConflicts(t *testing.T) {
	sales := newFakeSaleStore(availableVehicle("veh_1", "Fiat"))
	svc := NewSaleService(sales, newFakeAccountStore(), zerolog.Nop())

	_, err := svc.RegisterSale(context.Background(), RegisterSaleInput{
		VehicleID:  "veh_missing",
		FinalPrice: 9500,
		BuyerName:  "Giulia Verdi",
	})
	assert.ErrorIs(t, err, domain.ErrVehicleNotFound)

	_, err = svc.RegisterSale(context.Background(), RegisterSaleInput{
		VehicleID:  "veh_1",
		FinalPrice: 9500,
		BuyerName:  "Giulia Verdi",
	})
	require.NoError(t, err)

	// a second sale of the same vehicle is refused
	_, err = svc.RegisterSale(context.Background(), RegisterSaleInput{
		VehicleID:  "veh_1",
		FinalPrice: 9000,
		BuyerName:  "Marco Neri",
	})
	assert.ErrorIs(t, err, domain.ErrVehicleAlreadySold)

	all, err := svc.All(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestRecentClampsLimit(t *testing.T) {
	sales := newFakeSaleStore(
		availableVehicle("veh_1", "Fiat"),
		availableVehicle("veh_2", "Audi"),
	)
	svc := NewSaleService(sales, newFakeAccountStore(), zerolog.Nop())

	for _, id := range []string{"veh_1", "veh_2"} {
		_, err := svc.RegisterSale(context.Background(), RegisterSaleInput{
			VehicleID:  id,
			FinalPrice: 10000,
			BuyerName:  "Giulia Verdi",
		})
		require.NoError(t, err)
	}

	recent, err := svc.Recent(context.Background(), -5)
	require.NoError(t, err)
	assert.Len(t, recent, 2)

	recent, err = svc.Recent(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, recent, 1)
}
