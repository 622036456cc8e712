package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Nicholas91X/auto2g-backend/internal/domain"
	"github.com/Nicholas91X/auto2g-backend/internal/ids"
)

type SaleService struct {
	sales    SaleStore
	accounts AccountStore
	log      zerolog.Logger
}

func NewSaleService(sales SaleStore, accounts AccountStore, log zerolog.Logger) *SaleService {
	return &SaleService{sales: sales, accounts: accounts, log: log}
}

type RegisterSaleInput struct {
	VehicleID  string
	FinalPrice float64
	BuyerID    string
	BuyerName  string
	BuyerInfo  string
}

// RegisterSale records a completed sale. The buyer is either a registered
// account or a free-form name for walk-in customers; one of the two must be
// present. The repository flips the vehicle to SOLD in the same transaction
// and rejects vehicles that were already sold.
func (s *SaleService) RegisterSale(ctx context.Context, input RegisterSaleInput) (domain.Sale, error) {
	buyerName := strings.TrimSpace(input.BuyerName)
	if input.BuyerID == "" && buyerName == "" {
		return domain.Sale{}, domain.ErrBuyerRequired
	}

	sale := domain.Sale{
		ID:         ids.New(),
		VehicleID:  input.VehicleID,
		FinalPrice: input.FinalPrice,
		BuyerName:  buyerName,
		BuyerInfo:  strings.TrimSpace(input.BuyerInfo),
		SoldAt:     time.Now(),
	}

	if input.BuyerID != "" {
		buyer, err := s.accounts.FindByID(ctx, input.BuyerID)
		if err != nil {
			if errors.Is(err, domain.ErrAccountNotFound) {
				return domain.Sale{}, domain.ErrAccountNotFound
			}
			return domain.Sale{}, err
		}
		sale.BuyerID = &buyer.ID
		if sale.BuyerName == "" {
			sale.BuyerName = strings.TrimSpace(buyer.Name + " " + buyer.Surname)
		}
	}

	if err := s.sales.Create(ctx, sale); err != nil {
		return domain.Sale{}, err
	}

	s.log.Info().
		Str("sale_id", sale.ID).
		Str("vehicle_id", sale.VehicleID).
		Float64("final_price", sale.FinalPrice).
		Msg("sale registered")
	return sale, nil
}

func (s *SaleService) All(ctx context.Context) ([]domain.Sale, error) {
	return s.sales.All(ctx)
}

func (s *SaleService) Recent(ctx context.Context, limit int) ([]domain.Sale, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.sales.ListRecent(ctx, limit)
}
