package repository // repository defines data access for floor-plan tables

import (
	"context"      // context allows query cancellation and timeouts
	"database/sql" // sql provides DB primitives
	"strings"      // strings joins IN-clause placeholders
	"time"         // time carries reservation timestamps

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
)

// TableRepo provides methods to work with floor-plan tables in the
// database.  It is the only component that issues SQL against the tables
// table; availability annotations join against reservations.
type TableRepo struct {
	db *sql.DB
}

// NewTableRepo constructs a TableRepo with the given DB handle.
func NewTableRepo(db *sql.DB) *TableRepo {
	return &TableRepo{db: db}
}

// DB exposes the underlying handle so handlers can open transactions that
// span table creates and position updates.
func (r *TableRepo) DB() *sql.DB { return r.db }

// Create inserts a single table record. On success the table's ID is populated.
func (r *TableRepo) Create(ctx context.Context, t *model.Table) error {
	const q = `INSERT INTO tables (x, y, size, inside) VALUES (?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, t.Left, t.Top, t.Size, t.Inside)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	return nil
}

// CreateBulk inserts multiple tables in a single statement and populates
// their IDs.  MySQL guarantees consecutive auto-increment values for a
// single multi-row insert, so the IDs are derived from LastInsertId in
// input order.  Passing an empty slice has no effect and returns nil.
func (r *TableRepo) CreateBulk(ctx context.Context, tables []model.Table) error {
	return createBulk(ctx, r.db, tables)
}

// CreateBulkTx is CreateBulk within the scope of an existing transaction.
// The caller must commit or rollback the transaction.
func (r *TableRepo) CreateBulkTx(ctx context.Context, tx *sql.Tx, tables []model.Table) error {
	return createBulk(ctx, tx, tables)
}

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

func createBulk(ctx context.Context, ex execer, tables []model.Table) error {
	if len(tables) == 0 {
		return nil
	}
	query := `INSERT INTO tables (x, y, size, inside) VALUES `
	args := make([]interface{}, 0, len(tables)*4)
	for i, t := range tables {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?)"
		args = append(args, t.Left, t.Top, t.Size, t.Inside)
	}
	res, err := ex.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	first, err := res.LastInsertId()
	if err != nil {
		return err
	}
	for i := range tables {
		tables[i].ID = uint64(first) + uint64(i)
	}
	return nil
}

// UpdatePosition updates the stored coordinates of a table.  A zero
// rows-affected result is not reported as an error: moving a missing table
// is a silent no-op and callers depend on that.
func (r *TableRepo) UpdatePosition(ctx context.Context, id uint64, left, top int) error {
	const q = `UPDATE tables SET x = ?, y = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, q, left, top, id)
	return err
}

// UpdatePositionTx is UpdatePosition within an existing transaction.
func (r *TableRepo) UpdatePositionTx(ctx context.Context, tx *sql.Tx, id uint64, left, top int) error {
	const q = `UPDATE tables SET x = ?, y = ? WHERE id = ?`
	_, err := tx.ExecContext(ctx, q, left, top, id)
	return err
}

// Delete removes a table row. It does not cascade to reservations
// referencing the table; stale bookings for a removed table simply stop
// appearing in availability listings. Returns ErrTableNotFound when no
// row matched.
func (r *TableRepo) Delete(ctx context.Context, id uint64) error {
	const q = `DELETE FROM tables WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrTableNotFound
	}
	return nil
}

// TablePosition is a table annotated with today's reserved flag.  It is
// returned by GetPositions for the floor-plan view.  Reserved is true when
// any reservation exists for the table on the current date, regardless of
// time of day.
type TablePosition struct {
	ID       uint64 `json:"id"`
	Left     int    `json:"left"`
	Top      int    `json:"top"`
	Size     int    `json:"size"`
	Inside   bool   `json:"inside"`
	Reserved bool   `json:"reserved"`
}

// GetPositions returns all tables joined against today's reservations.
// The aggregation collapses multiple same-day reservations into a single
// boolean so each table appears exactly once.
func (r *TableRepo) GetPositions(ctx context.Context) ([]TablePosition, error) {
	const q = `SELECT t.id, t.x, t.y, t.size, t.inside,
					  MAX(CASE WHEN r.id IS NULL THEN 0 ELSE 1 END) AS reserved
			   FROM tables t
			   LEFT JOIN reservations r ON r.table_id = t.id AND DATE(r.date) = CURDATE()
			   GROUP BY t.id, t.x, t.y, t.size, t.inside
			   ORDER BY t.id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	positions := make([]TablePosition, 0)
	for rows.Next() {
		var p TablePosition
		if err := rows.Scan(&p.ID, &p.Left, &p.Top, &p.Size, &p.Inside, &p.Reserved); err != nil {
			return nil, err
		}
		positions = append(positions, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return positions, nil
}

// TableAvailability is a table annotated with the reservation timestamps
// booked on one calendar date.  The repository does not apply the
// 90-minute window; callers derive the reserved flag from the raw
// timestamps against their requested time.
type TableAvailability struct {
	ID           uint64   `json:"id"`
	Left         int      `json:"left"`
	Top          int      `json:"top"`
	Size         int      `json:"size"`
	Inside       bool     `json:"inside"`
	Reservations []string `json:"reservations"`
}

// GetAvailable returns all tables whose inside flag matches the given
// location ("inside" or "outside"), each annotated with the reservation
// timestamps on the same calendar date as the requested time.  Timestamps
// are formatted as RFC3339 in UTC.  Tables are fetched first and their
// reservations populated with a single IN query.
func (r *TableRepo) GetAvailable(ctx context.Context, location string, date time.Time) ([]TableAvailability, error) {
	const q = `SELECT id, x, y, size, inside FROM tables WHERE inside = ? ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, location == "inside")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tables := make([]TableAvailability, 0)
	index := make(map[uint64]int)
	for rows.Next() {
		var t TableAvailability
		if err := rows.Scan(&t.ID, &t.Left, &t.Top, &t.Size, &t.Inside); err != nil {
			return nil, err
		}
		t.Reservations = []string{}
		index[t.ID] = len(tables)
		tables = append(tables, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(tables) == 0 {
		return tables, nil
	}
	// Populate reservation timestamps for all tables in one query
	ids := make([]interface{}, 0, len(tables)+1)
	placeholders := make([]string, 0, len(tables))
	ids = append(ids, date)
	for _, t := range tables {
		ids = append(ids, t.ID)
		placeholders = append(placeholders, "?")
	}
	resQuery := `SELECT table_id, date FROM reservations
				 WHERE DATE(date) = DATE(?) AND table_id IN (` + strings.Join(placeholders, ",") + `)
				 ORDER BY table_id, date`
	rrows, err := r.db.QueryContext(ctx, resQuery, ids...)
	if err != nil {
		return nil, err
	}
	defer rrows.Close()
	for rrows.Next() {
		var tableID uint64
		var at time.Time
		if err := rrows.Scan(&tableID, &at); err != nil {
			return nil, err
		}
		idx, ok := index[tableID]
		if !ok {
			continue
		}
		tables[idx].Reservations = append(tables[idx].Reservations, at.UTC().Format(time.RFC3339))
	}
	if err := rrows.Err(); err != nil {
		return nil, err
	}
	return tables, nil
}
