package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Emmanuel3dev/market-server/internal/domain"
	"github.com/Emmanuel3dev/market-server/internal/ports/dispatchtx"
)

// DeliveryRepo represents the delivery store and the transactional dispatch
// surface over the courier directory.
type DeliveryRepo struct {
	db *pgxpool.Pool
}

// NewDeliveryRepo creates a new DeliveryRepo.
func NewDeliveryRepo(db *pgxpool.Pool) *DeliveryRepo {
	return &DeliveryRepo{db: db}
}

// WithTx opens a transaction and executes fn within it.
func (r *DeliveryRepo) WithTx(ctx context.Context, fn func(tx dispatchtx.Directory) error) (err error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			err = tx.Rollback(ctx)
			if err != nil {
				panic(err)
			}
			panic(p)
		}
	}()

	wrapped := &TxDirectory{tx: tx}

	if err := fn(wrapped); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("rollback tx: %w (original error: %s)", rbErr, err.Error())
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

// TxDirectory is the transaction-scoped dispatch directory.
type TxDirectory struct {
	tx pgx.Tx
}

// QueryAvailable - returns all couriers currently marked available.
// Rows are locked so that the subsequent TryReserve runs against the same view.
func (r *TxDirectory) QueryAvailable(ctx context.Context) ([]*domain.Courier, error) {
	rows, err := r.tx.Query(ctx, `
        SELECT `+courierColumns+`
        FROM couriers
        WHERE status = 'available'
        ORDER BY id
        FOR UPDATE SKIP LOCKED
    `)
	if err != nil {
		return nil, fmt.Errorf("query available couriers: %w", err)
	}
	defer rows.Close()

	var out []*domain.Courier
	for rows.Next() {
		c, err := scanCourier(rows)
		if err != nil {
			return nil, fmt.Errorf("scan available courier: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// TryReserve - conditionally transitions a courier available→busy and pins the
// delivery id. Returns false when the precondition no longer holds, in which
// case the caller moves on to the next candidate.
func (r *TxDirectory) TryReserve(ctx context.Context, courierID, deliveryID string) (bool, error) {
	ct, err := r.tx.Exec(ctx, `
        UPDATE couriers
        SET status = $2, current_delivery_id = $3, updated_at = now()
        WHERE id = $1 AND status = $4
    `, courierID, string(domain.StatusBusy), deliveryID, string(domain.StatusAvailable))
	if err != nil {
		return false, fmt.Errorf("reserve courier %s: %w", courierID, err)
	}
	return ct.RowsAffected() > 0, nil
}

// InsertDelivery - insert a new delivery assignment.
func (r *TxDirectory) InsertDelivery(ctx context.Context, d *domain.Delivery) error {
	_, err := r.tx.Exec(ctx, `
        INSERT INTO deliveries
            (id, boutique_id, client_id, boutique_lat, boutique_lon, client_lat, client_lon,
             courier_id, distance_km, cost, status, order_details, created_at, assigned_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
    `, d.ID, d.BoutiqueID, d.ClientID,
		d.BoutiquePos.Lat, d.BoutiquePos.Lon, d.ClientPos.Lat, d.ClientPos.Lon,
		d.CourierID, d.DistanceKm, d.Cost, string(d.Status), d.OrderDetails,
		d.CreatedAt, d.AssignedAt)
	if err != nil {
		return fmt.Errorf("insert delivery: %w", err)
	}
	return nil
}

// Get - returns a delivery by id.
func (r *DeliveryRepo) Get(ctx context.Context, id string) (*domain.Delivery, error) {
	row := r.db.QueryRow(ctx, `
        SELECT id, boutique_id, client_id, boutique_lat, boutique_lon, client_lat, client_lon,
               courier_id, distance_km, cost, status, order_details, created_at, assigned_at
        FROM deliveries
        WHERE id = $1
    `, id)

	var d domain.Delivery
	err := row.Scan(&d.ID, &d.BoutiqueID, &d.ClientID,
		&d.BoutiquePos.Lat, &d.BoutiquePos.Lon, &d.ClientPos.Lat, &d.ClientPos.Lon,
		&d.CourierID, &d.DistanceKm, &d.Cost, &d.Status, &d.OrderDetails,
		&d.CreatedAt, &d.AssignedAt)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get delivery %q: %w", id, err)
	}
	return &d, nil
}
