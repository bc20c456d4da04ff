package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
)

// ReservationRepo provides CRUD operations for reservations.  A
// reservation books one table for one user at a given date/time; no two
// reservations for the same table may fall within 90 minutes of each
// other.  All timestamp fields are assumed to be stored in UTC.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// DB exposes the underlying handle for callers that need transactions.
func (r *ReservationRepo) DB() *sql.DB { return r.db }

// Create inserts a new reservation after verifying that no existing
// reservation on the same table falls within the conflict window.  The
// check and the insert run inside a single transaction and the check
// locks matching rows with FOR UPDATE, so two concurrent attempts for an
// overlapping slot serialize instead of both passing the check.  Window
// edges are inclusive on both sides, matching the availability view the
// customer saw.  On success the reservation's ID is populated; when the
// slot is taken, ErrReservationConflict is returned.
func (r *ReservationRepo) Create(ctx context.Context, res *model.Reservation) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	const checkQ = `SELECT id FROM reservations
					WHERE table_id = ?
					  AND location = ?
					  AND (
						   (? BETWEEN date AND DATE_ADD(date, INTERVAL 90 MINUTE))
						OR (DATE_ADD(?, INTERVAL 90 MINUTE) BETWEEN date AND DATE_ADD(date, INTERVAL 90 MINUTE))
					  )
					FOR UPDATE`
	var existingID uint64
	err = tx.QueryRowContext(ctx, checkQ, res.TableID, res.Location, res.Date, res.Date).Scan(&existingID)
	switch {
	case err == nil:
		return ErrReservationConflict
	case !errors.Is(err, sql.ErrNoRows):
		return err
	}

	const insertQ = `INSERT INTO reservations (table_id, how_many, date, location, user_id)
					 VALUES (?, ?, ?, ?, ?)`
	result, err := tx.ExecContext(ctx, insertQ, res.TableID, res.Quantity, res.Date, res.Location, res.UserID)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = uint64(id)

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// UserReservation is a reservation joined with its table's attributes.
// It is returned by ListByUser for display on the customer's "my
// reservations" view.
type UserReservation struct {
	ReservationID uint64 `json:"reservationId"`
	TableID       uint64 `json:"tableId"`
	Left          int    `json:"left"`
	Top           int    `json:"top"`
	Size          int    `json:"size"`
	Inside        bool   `json:"inside"`
	Date          string `json:"date"`
	Quantity      int    `json:"quantity"`
}

// ListByUser returns all reservations for the given user joined with
// their table's position, size and location.  Reservations are ordered by
// date ascending.  When no reservations exist, an empty slice is
// returned.
func (r *ReservationRepo) ListByUser(ctx context.Context, userID uint64) ([]UserReservation, error) {
	const q = `SELECT r.id, t.id, t.x, t.y, t.size, t.inside, r.date, r.how_many
			   FROM reservations r
			   JOIN tables t ON t.id = r.table_id
			   WHERE r.user_id = ?
			   ORDER BY r.date`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]UserReservation, 0)
	for rows.Next() {
		var ur UserReservation
		var at time.Time
		if err := rows.Scan(&ur.ReservationID, &ur.TableID, &ur.Left, &ur.Top, &ur.Size, &ur.Inside, &at, &ur.Quantity); err != nil {
			return nil, err
		}
		ur.Date = at.UTC().Format(time.RFC3339)
		list = append(list, ur)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

// Delete removes a reservation row unconditionally.  Ownership checks, if
// any, must happen above this layer.  Returns ErrReservationNotFound when
// no row matched.
func (r *ReservationRepo) Delete(ctx context.Context, id uint64) error {
	const q = `DELETE FROM reservations WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrReservationNotFound
	}
	return nil
}
