package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Nicholas91X/auto2g-backend/internal/domain"
)

type SaleRepository struct {
	pool *pgxpool.Pool
}

func NewSaleRepository(pool *pgxpool.Pool) *SaleRepository {
	return &SaleRepository{pool: pool}
}

// Create records a sale and flips the vehicle to SOLD in one transaction.
// The vehicle row is locked first so two concurrent sales of the same car
// cannot both pass the status check.
func (r *SaleRepository) Create(ctx context.Context, sale domain.Sale) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	const lockQuery = `SELECT status FROM vehicles WHERE id = $1 FOR UPDATE`
	var status domain.VehicleStatus
	err = tx.QueryRow(ctx, lockQuery, sale.VehicleID).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrVehicleNotFound
	}
	if err != nil {
		return err
	}
	if status == domain.VehicleSold {
		return domain.ErrVehicleAlreadySold
	}

	const insert = `
		INSERT INTO sales (id, vehicle_id, final_price, buyer_id, buyer_name, buyer_info, sold_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	if _, err := tx.Exec(ctx, insert,
		sale.ID,
		sale.VehicleID,
		sale.FinalPrice,
		sale.BuyerID,
		sale.BuyerName,
		sale.BuyerInfo,
		sale.SoldAt,
	); err != nil {
		return err
	}

	const markSold = `UPDATE vehicles SET status = $2, updated_at = NOW() WHERE id = $1`
	if _, err := tx.Exec(ctx, markSold, sale.VehicleID, domain.VehicleSold); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *SaleRepository) FindByID(ctx context.Context, id string) (domain.Sale, error) {
	const query = `
		SELECT id, vehicle_id, final_price, buyer_id, buyer_name, buyer_info, sold_at
		FROM sales
		WHERE id = $1
	`
	row := r.pool.QueryRow(ctx, query, id)
	sale, err := scanSale(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Sale{}, domain.ErrSaleNotFound
	}
	return sale, err
}

func (r *SaleRepository) All(ctx context.Context) ([]domain.Sale, error) {
	const query = `
		SELECT id, vehicle_id, final_price, buyer_id, buyer_name, buyer_info, sold_at
		FROM sales
		ORDER BY sold_at DESC
	`
	return r.queryMany(ctx, query)
}

func (r *SaleRepository) ListRecent(ctx context.Context, limit int) ([]domain.Sale, error) {
	const query = `
		SELECT id, vehicle_id, final_price, buyer_id, buyer_name, buyer_info, sold_at
		FROM sales
		ORDER BY sold_at DESC
		LIMIT $1
	`
	return r.queryMany(ctx, query, limit)
}

func (r *SaleRepository) CountSince(ctx context.Context, since time.Time) (int, error) {
	const query = `SELECT COUNT(*) FROM sales WHERE sold_at >= $1`
	var count int
	if err := r.pool.QueryRow(ctx, query, since).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *SaleRepository) RevenueSince(ctx context.Context, since time.Time) (float64, error) {
	const query = `SELECT COALESCE(SUM(final_price), 0) FROM sales WHERE sold_at >= $1`
	var revenue float64
	if err := r.pool.QueryRow(ctx, query, since).Scan(&revenue); err != nil {
		return 0, err
	}
	return revenue, nil
}

func (r *SaleRepository) BrandPerformance(ctx context.Context) ([]domain.BrandPerformance, error) {
	const query = `
		SELECT v.brand, COUNT(*), COALESCE(SUM(s.final_price), 0)
		FROM sales s
		JOIN vehicles v ON v.id = s.vehicle_id
		GROUP BY v.brand
		ORDER BY SUM(s.final_price) DESC
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var performance []domain.BrandPerformance
	for rows.Next() {
		var entry domain.BrandPerformance
		if err := rows.Scan(&entry.Brand, &entry.Sales, &entry.Revenue); err != nil {
			return nil, err
		}
		performance = append(performance, entry)
	}
	return performance, rows.Err()
}

func (r *SaleRepository) queryMany(ctx context.Context, query string, args ...any) ([]domain.Sale, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sales []domain.Sale
	for rows.Next() {
		sale, err := scanSale(rows)
		if err != nil {
			return nil, err
		}
		sales = append(sales, sale)
	}
	return sales, rows.Err()
}

func scanSale(row pgx.Row) (domain.Sale, error) {
	var sale domain.Sale
	err := row.Scan(
		&sale.ID,
		&sale.VehicleID,
		&sale.FinalPrice,
		&sale.BuyerID,
		&sale.BuyerName,
		&sale.BuyerInfo,
		&sale.SoldAt,
	)
	return sale, err
}
