package domain

import "time"

type Sale struct {
	ID         string    `json:"id"`
	VehicleID  string    `json:"vehicleId"`
	FinalPrice float64   `json:"finalPrice"`
	BuyerID    *string   `json:"buyerId,omitempty"`
	BuyerName  string    `json:"buyerName"`
	BuyerInfo  string    `json:"buyerInfo,omitempty"`
	SoldAt     time.Time `json:"soldAt"`
}

// BrandPerformance aggregates completed sales per vehicle brand.
type BrandPerformance struct {
	Brand   string  `json:"brand"`
	Sales   int     `json:"sales"`
	Revenue float64 `json:"revenue"`
}
