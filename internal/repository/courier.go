package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Emmanuel3dev/market-server/internal/apperr"
	"github.com/Emmanuel3dev/market-server/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

const courierColumns = `id, name, phone, status, lat, lon, schedule, current_delivery_id, token`

// CourierRepo represents the courier directory.
type CourierRepo struct{ db *pgxpool.Pool }

// NewCourierRepo creates a new CourierRepo.
func NewCourierRepo(db *pgxpool.Pool) *CourierRepo { return &CourierRepo{db: db} }

type courierRow interface {
	Scan(dest ...any) error
}

func scanCourier(row courierRow) (*domain.Courier, error) {
	var (
		c           domain.Courier
		lat, lon    *float64
		scheduleRaw []byte
	)
	if err := row.Scan(&c.ID, &c.Name, &c.Phone, &c.Status, &lat, &lon, &scheduleRaw, &c.CurrentDeliveryID, &c.Token); err != nil {
		return nil, err
	}
	if lat != nil && lon != nil {
		c.Position = &domain.GeoPoint{Lat: *lat, Lon: *lon}
	}
	if len(scheduleRaw) > 0 {
		if err := json.Unmarshal(scheduleRaw, &c.Schedule); err != nil {
			return nil, fmt.Errorf("decode schedule: %w", err)
		}
	}
	return &c, nil
}

func positionColumns(p *domain.GeoPoint) (lat, lon *float64) {
	if p == nil {
		return nil, nil
	}
	return &p.Lat, &p.Lon
}

// Get - returns courier by its ID.
func (r *CourierRepo) Get(ctx context.Context, id string) (*domain.Courier, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+courierColumns+` FROM couriers WHERE id=$1`, id)
	c, err := scanCourier(row)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get courier %s: %w", id, err)
	}
	return c, nil
}

// List returns couriers ordered by id. If limit/offset are nil, returns the full list.
func (r *CourierRepo) List(ctx context.Context, limit, offset *int) ([]domain.Courier, error) {
	q := `SELECT ` + courierColumns + ` FROM couriers ORDER BY id`
	args := make([]any, 0, 2)
	if limit != nil {
		q += fmt.Sprintf(" LIMIT $%d", len(args)+1)
		args = append(args, *limit)
	}
	if offset != nil {
		q += fmt.Sprintf(" OFFSET $%d", len(args)+1)
		args = append(args, *offset)
	}

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	capacity := 0
	if limit != nil && *limit > 0 {
		capacity = *limit
	}
	out := make([]domain.Courier, 0, capacity)
	for rows.Next() {
		c, err := scanCourier(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

// Create - creates a new courier.
func (r *CourierRepo) Create(ctx context.Context, c *domain.Courier) error {
	schedule, err := json.Marshal(c.Schedule)
	if err != nil {
		return fmt.Errorf("encode schedule: %w", err)
	}
	lat, lon := positionColumns(c.Position)
	_, err = r.db.Exec(ctx,
		`INSERT INTO couriers(id, name, phone, status, lat, lon, schedule, token)
         VALUES($1,$2,$3,$4,$5,$6,$7,$8)`,
		c.ID, c.Name, c.Phone, c.Status, lat, lon, schedule, c.Token)
	if err != nil {
		if IsDuplicate(err) {
			return apperr.ErrInvalid
		}
		return fmt.Errorf("create courier: %w", err)
	}
	return nil
}

// UpdatePartial applies a partial update to a courier and returns true if a row was affected.
func (r *CourierRepo) UpdatePartial(ctx context.Context, u domain.PartialCourierUpdate) (bool, error) {
	var schedule []byte
	if u.Schedule != nil {
		raw, err := json.Marshal(u.Schedule)
		if err != nil {
			return false, fmt.Errorf("encode schedule: %w", err)
		}
		schedule = raw
	}
	lat, lon := positionColumns(u.Position)
	ct, err := r.db.Exec(ctx, `
        UPDATE couriers
        SET
            name       = COALESCE($2, name),
            phone      = COALESCE($3, phone),
            status     = COALESCE($4, status),
            lat        = COALESCE($5, lat),
            lon        = COALESCE($6, lon),
            schedule   = COALESCE($7, schedule),
            token      = COALESCE($8, token),
            updated_at = now()
        WHERE id = $1
    `, u.ID, u.Name, u.Phone, u.Status, lat, lon, schedule, u.Token)

	if err != nil {
		if IsDuplicate(err) {
			return false, apperr.ErrInvalid
		}
		return false, fmt.Errorf("update courier %s: %w", u.ID, err)
	}
	return ct.RowsAffected() > 0, nil
}

// ReleaseCourier - returns a busy courier to the available pool once its
// delivery completes. Used by downstream fulfillment, kept here with the rest
// of the status transitions.
func (r *CourierRepo) ReleaseCourier(ctx context.Context, id string) (bool, error) {
	ct, err := r.db.Exec(ctx, `
        UPDATE couriers
        SET status = $2, current_delivery_id = NULL, updated_at = now()
        WHERE id = $1 AND status = $3
    `, id, string(domain.StatusAvailable), string(domain.StatusBusy))
	if err != nil {
		return false, fmt.Errorf("release courier %s: %w", id, err)
	}
	return ct.RowsAffected() > 0, nil
}

// PurgeToken clears a push token wherever it appears in the directory.
// Best-effort cleanup after the push service reports the token unregistered.
func (r *CourierRepo) PurgeToken(ctx context.Context, token string) error {
	_, err := r.db.Exec(ctx,
		`UPDATE couriers SET token = NULL, updated_at = now() WHERE token = $1`, token)
	if err != nil {
		return fmt.Errorf("purge courier token: %w", err)
	}
	return nil
}
