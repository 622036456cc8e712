package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/Nicholas91X/auto2g-backend/internal/domain"
)

const (
	summaryCacheKey = "dashboard:summary"
	summaryCacheTTL = time.Minute
)

type DashboardService struct {
	vehicles VehicleStore
	sales    SaleStore
	admins   AdminCounter
	cache    *redis.Client
	log      zerolog.Logger
}

func NewDashboardService(vehicles VehicleStore, sales SaleStore, admins AdminCounter, cache *redis.Client, log zerolog.Logger) *DashboardService {
	return &DashboardService{vehicles: vehicles, sales: sales, admins: admins, cache: cache, log: log}
}

type Summary struct {
	AvailableVehicles   int       `json:"availableVehicles"`
	NegotiatingVehicles int       `json:"negotiatingVehicles"`
	MonthSales          int       `json:"monthSales"`
	MonthRevenue        float64   `json:"monthRevenue"`
	ActiveAdmins        int       `json:"activeAdmins"`
	GeneratedAt         time.Time `json:"generatedAt"`
}

// Summary serves the dashboard headline numbers from a short-lived redis
// cache. A cache failure is logged and the numbers are computed live; the
// dashboard must keep working when redis is down.
func (s *DashboardService) Summary(ctx context.Context) (Summary, error) {
	if cached, err := s.cache.Get(ctx, summaryCacheKey).Bytes(); err == nil {
		var summary Summary
		if err := json.Unmarshal(cached, &summary); err == nil {
			return summary, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		s.log.Warn().Err(err).Msg("dashboard cache read failed")
	}

	summary, err := s.computeSummary(ctx)
	if err != nil {
		return Summary{}, err
	}

	if payload, err := json.Marshal(summary); err == nil {
		if err := s.cache.Set(ctx, summaryCacheKey, payload, summaryCacheTTL).Err(); err != nil {
			s.log.Warn().Err(err).Msg("dashboard cache write failed")
		}
	}
	return summary, nil
}

func (s *DashboardService) computeSummary(ctx context.Context) (Summary, error) {
	available, err := s.vehicles.CountByStatus(ctx, domain.VehicleAvailable)
	if err != nil {
		return Summary{}, err
	}
	negotiating, err := s.vehicles.CountByStatus(ctx, domain.VehicleNegotiating)
	if err != nil {
		return Summary{}, err
	}

	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	count, err := s.sales.CountSince(ctx, monthStart)
	if err != nil {
		return Summary{}, err
	}
	revenue, err := s.sales.RevenueSince(ctx, monthStart)
	if err != nil {
		return Summary{}, err
	}
	activeAdmins, err := s.admins.CountActiveAdmins(ctx)
	if err != nil {
		return Summary{}, err
	}

	return Summary{
		AvailableVehicles:   available,
		NegotiatingVehicles: negotiating,
		MonthSales:          count,
		MonthRevenue:        revenue,
		ActiveAdmins:        activeAdmins,
		GeneratedAt:         now,
	}, nil
}

func (s *DashboardService) BrandPerformance(ctx context.Context) ([]domain.BrandPerformance, error) {
	return s.sales.BrandPerformance(ctx)
}

func (s *DashboardService) RecentActivity(ctx context.Context) ([]domain.Sale, error) {
	return s.sales.ListRecent(ctx, 10)
}
