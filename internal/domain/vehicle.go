package domain

import (
	"strings"
	"time"
)

type VehicleStatus string

const (
	VehicleAvailable   VehicleStatus = "AVAILABLE"
	VehicleNegotiating VehicleStatus = "NEGOTIATING"
	VehicleSold        VehicleStatus = "SOLD"
)

func ParseVehicleStatus(s string) (VehicleStatus, bool) {
	status := VehicleStatus(strings.ToUpper(strings.TrimSpace(s)))
	switch status {
	case VehicleAvailable, VehicleNegotiating, VehicleSold:
		return status, true
	}
	return "", false
}

type Vehicle struct {
	ID          string         `json:"id"`
	Brand       string         `json:"brand"`
	Model       string         `json:"model"`
	Plate       string         `json:"plate"`
	Year        int            `json:"year"`
	Price       float64        `json:"price"`
	Mileage     int            `json:"mileage"`
	Status      VehicleStatus  `json:"status"`
	Description string         `json:"description,omitempty"`
	Images      []VehicleImage `json:"images"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

type VehicleImage struct {
	ID        string    `json:"id"`
	VehicleID string    `json:"vehicleId"`
	ObjectKey string    `json:"objectKey"`
	URL       string    `json:"url,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// VehicleFilter narrows listing queries. Zero values mean "no constraint".
type VehicleFilter struct {
	Brand      string
	Model      string
	Status     VehicleStatus
	PriceMin   float64
	PriceMax   float64
	YearFrom   int
	MileageMax int
}
