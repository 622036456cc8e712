package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Nicholas91X/auto2g-backend/internal/domain"
)

const vehicleColumns = `
	id, brand, model, plate, registration_year, price, mileage_km,
	status, description, created_at, updated_at
`

type VehicleRepository struct {
	pool *pgxpool.Pool
}

func NewVehicleRepository(pool *pgxpool.Pool) *VehicleRepository {
	return &VehicleRepository{pool: pool}
}

func (r *VehicleRepository) Create(ctx context.Context, vehicle domain.Vehicle) error {
	const query = `
		INSERT INTO vehicles (
			id, brand, model, plate, registration_year, price, mileage_km,
			status, description, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
	`

	_, err := r.pool.Exec(ctx, query,
		vehicle.ID,
		vehicle.Brand,
		vehicle.Model,
		vehicle.Plate,
		vehicle.Year,
		vehicle.Price,
		vehicle.Mileage,
		vehicle.Status,
		vehicle.Description,
	)
	if isUniqueViolation(err) {
		return domain.ErrPlateTaken
	}
	return err
}

func (r *VehicleRepository) FindByID(ctx context.Context, id string) (domain.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE id = $1`
	row := r.pool.QueryRow(ctx, query, id)
	vehicle, err := scanVehicle(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Vehicle{}, domain.ErrVehicleNotFound
	}
	if err != nil {
		return domain.Vehicle{}, err
	}

	vehicle.Images, err = r.ImagesFor(ctx, id)
	return vehicle, err
}

func (r *VehicleRepository) List(ctx context.Context, filter domain.VehicleFilter) ([]domain.Vehicle, error) {
	var (
		conditions []string
		args       []any
	)
	appendCondition := func(clause string, value any) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf(clause, len(args)))
	}

	if filter.Brand != "" {
		appendCondition("brand ILIKE $%d", "%"+filter.Brand+"%")
	}
	if filter.Model != "" {
		appendCondition("model ILIKE $%d", "%"+filter.Model+"%")
	}
	if filter.Status != "" {
		appendCondition("status = $%d", filter.Status)
	}
	if filter.PriceMin > 0 {
		appendCondition("price >= $%d", filter.PriceMin)
	}
	if filter.PriceMax > 0 {
		appendCondition("price <= $%d", filter.PriceMax)
	}
	if filter.YearFrom > 0 {
		appendCondition("registration_year >= $%d", filter.YearFrom)
	}
	if filter.MileageMax > 0 {
		appendCondition("mileage_km <= $%d", filter.MileageMax)
	}

	query := `SELECT ` + vehicleColumns + ` FROM vehicles`
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vehicles []domain.Vehicle
	for rows.Next() {
		vehicle, err := scanVehicle(rows)
		if err != nil {
			return nil, err
		}
		vehicles = append(vehicles, vehicle)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.attachImages(ctx, vehicles); err != nil {
		return nil, err
	}
	return vehicles, nil
}

// VehicleUpdate is a partial update; nil fields are left untouched.
type VehicleUpdate struct {
	Brand       *string
	Model       *string
	Plate       *string
	Year        *int
	Price       *float64
	Mileage     *int
	Status      *domain.VehicleStatus
	Description *string
}

func (r *VehicleRepository) Update(ctx context.Context, id string, update VehicleUpdate) (domain.Vehicle, error) {
	sets := []string{"updated_at = NOW()"}
	args := []any{id}

	appendSet := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if update.Brand != nil {
		appendSet("brand", *update.Brand)
	}
	if update.Model != nil {
		appendSet("model", *update.Model)
	}
	if update.Plate != nil {
		appendSet("plate", *update.Plate)
	}
	if update.Year != nil {
		appendSet("registration_year", *update.Year)
	}
	if update.Price != nil {
		appendSet("price", *update.Price)
	}
	if update.Mileage != nil {
		appendSet("mileage_km", *update.Mileage)
	}
	if update.Status != nil {
		appendSet("status", *update.Status)
	}
	if update.Description != nil {
		appendSet("description", *update.Description)
	}

	query := `UPDATE vehicles SET ` + strings.Join(sets, ", ") +
		` WHERE id = $1 RETURNING ` + vehicleColumns
	row := r.pool.QueryRow(ctx, query, args...)
	vehicle, err := scanVehicle(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Vehicle{}, domain.ErrVehicleNotFound
	}
	if isUniqueViolation(err) {
		return domain.Vehicle{}, domain.ErrPlateTaken
	}
	if err != nil {
		return domain.Vehicle{}, err
	}

	vehicle.Images, err = r.ImagesFor(ctx, id)
	return vehicle, err
}

func (r *VehicleRepository) UpdateStatus(ctx context.Context, id string, status domain.VehicleStatus) error {
	const query = `UPDATE vehicles SET status = $2, updated_at = NOW() WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id, status)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrVehicleNotFound
	}
	return nil
}

func (r *VehicleRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM vehicles WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrVehicleNotFound
	}
	return nil
}

func (r *VehicleRepository) CountByStatus(ctx context.Context, status domain.VehicleStatus) (int, error) {
	const query = `SELECT COUNT(*) FROM vehicles WHERE status = $1`
	var count int
	if err := r.pool.QueryRow(ctx, query, status).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *VehicleRepository) AddImage(ctx context.Context, image domain.VehicleImage) error {
	const query = `
		INSERT INTO vehicle_images (id, vehicle_id, object_key, url, created_at)
		VALUES ($1, $2, $3, $4, NOW())
	`
	_, err := r.pool.Exec(ctx, query, image.ID, image.VehicleID, image.ObjectKey, image.URL)
	return err
}

func (r *VehicleRepository) FindImage(ctx context.Context, vehicleID, imageID string) (domain.VehicleImage, error) {
	const query = `
		SELECT id, vehicle_id, object_key, url, created_at
		FROM vehicle_images
		WHERE id = $1 AND vehicle_id = $2
	`
	var image domain.VehicleImage
	err := r.pool.QueryRow(ctx, query, imageID, vehicleID).Scan(
		&image.ID, &image.VehicleID, &image.ObjectKey, &image.URL, &image.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.VehicleImage{}, domain.ErrImageNotFound
	}
	return image, err
}

func (r *VehicleRepository) DeleteImage(ctx context.Context, imageID string) error {
	const query = `DELETE FROM vehicle_images WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, imageID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrImageNotFound
	}
	return nil
}

func (r *VehicleRepository) ImagesFor(ctx context.Context, vehicleID string) ([]domain.VehicleImage, error) {
	const query = `
		SELECT id, vehicle_id, object_key, url, created_at
		FROM vehicle_images
		WHERE vehicle_id = $1
		ORDER BY created_at
	`
	rows, err := r.pool.Query(ctx, query, vehicleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var images []domain.VehicleImage
	for rows.Next() {
		var image domain.VehicleImage
		if err := rows.Scan(&image.ID, &image.VehicleID, &image.ObjectKey, &image.URL, &image.CreatedAt); err != nil {
			return nil, err
		}
		images = append(images, image)
	}
	return images, rows.Err()
}

func (r *VehicleRepository) attachImages(ctx context.Context, vehicles []domain.Vehicle) error {
	if len(vehicles) == 0 {
		return nil
	}

	ids := make([]string, len(vehicles))
	index := make(map[string]*domain.Vehicle, len(vehicles))
	for i := range vehicles {
		ids[i] = vehicles[i].ID
		index[vehicles[i].ID] = &vehicles[i]
	}

	const query = `
		SELECT id, vehicle_id, object_key, url, created_at
		FROM vehicle_images
		WHERE vehicle_id = ANY($1)
		ORDER BY created_at
	`
	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var image domain.VehicleImage
		if err := rows.Scan(&image.ID, &image.VehicleID, &image.ObjectKey, &image.URL, &image.CreatedAt); err != nil {
			return err
		}
		if vehicle, ok := index[image.VehicleID]; ok {
			vehicle.Images = append(vehicle.Images, image)
		}
	}
	return rows.Err()
}

func scanVehicle(row pgx.Row) (domain.Vehicle, error) {
	var vehicle domain.Vehicle
	err := row.Scan(
		&vehicle.ID,
		&vehicle.Brand,
		&vehicle.Model,
		&vehicle.Plate,
		&vehicle.Year,
		&vehicle.Price,
		&vehicle.Mileage,
		&vehicle.Status,
		&vehicle.Description,
		&vehicle.CreatedAt,
		&vehicle.UpdatedAt,
	)
	return vehicle, err
}
