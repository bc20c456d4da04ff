// Package picker implements the customer reservation flow: browse a
// location's tables for a date, see which are blocked by the 90-minute
// conflict window, select one, and submit the booking.
package picker

import (
	"context"
	"errors"
	"time"

	"github.com/iliyamo/restaurant-table-reservation/internal/client"
	"github.com/iliyamo/restaurant-table-reservation/internal/model"
)

// FallbackMessage is shown when a failed submission carries no server
// message.
const FallbackMessage = "Failed to reserve the table."

// window mirrors the server's conflict span. A table whose existing
// booking lies within this distance of the requested time is shown as
// reserved and cannot be selected.
const window = model.ConflictWindow

// Table is a candidate table with flags derived for the current request.
type Table struct {
	ID       uint64
	Left     int
	Top      int
	Size     int
	Inside   bool
	Reserved bool
	Selected bool
}

// Request is the in-progress reservation.
type Request struct {
	Quantity int
	Date     time.Time
	Location string
	UserID   uint64
	TableID  uint64
}

// Picker holds the customer's view of availability and the pending
// request. It is not safe for concurrent use; a picker models one
// customer session.
type Picker struct {
	api     *client.Client
	tables  []Table
	request Request
}

// New returns a picker for the given user with the defaults a fresh
// session starts from: a party of two, today, inside.
func New(api *client.Client, userID uint64) *Picker {
	return &Picker{
		api: api,
		request: Request{
			Quantity: 2,
			Date:     time.Now().UTC().Truncate(24 * time.Hour),
			Location: "inside",
			UserID:   userID,
		},
	}
}

// Request returns the pending reservation request.
func (p *Picker) Request() Request { return p.request }

// Tables returns the current table list with derived flags.
func (p *Picker) Tables() []Table {
	out := make([]Table, len(p.tables))
	copy(out, p.tables)
	return out
}

// SetQuantity updates the party size.
func (p *Picker) SetQuantity(q int) { p.request.Quantity = q }

// SetDate changes the requested time and refreshes availability, since
// the reserved flags are only meaningful relative to the requested time.
func (p *Picker) SetDate(ctx context.Context, date time.Time) error {
	p.request.Date = date.UTC()
	return p.Refresh(ctx)
}

// SetLocation changes the requested location and refreshes availability.
func (p *Picker) SetLocation(ctx context.Context, location string) error {
	p.request.Location = location
	return p.Refresh(ctx)
}

// Refresh refetches the location's tables for the requested date and
// recomputes each table's reserved flag: reserved when any of its
// reservation timestamps lies within 90 minutes (absolute difference) of
// the requested time. A previous selection is kept when its table is
// still present and free.
func (p *Picker) Refresh(ctx context.Context) error {
	fetched, err := p.api.Available(ctx, p.request.Location, p.request.Date.Format(time.RFC3339))
	if err != nil {
		return err
	}
	tables := make([]Table, 0, len(fetched))
	selectionAlive := false
	for _, t := range fetched {
		pt := Table{
			ID:       t.ID,
			Left:     t.Left,
			Top:      t.Top,
			Size:     t.Size,
			Inside:   t.Inside,
			Reserved: reservedAt(t.Reservations, p.request.Date),
		}
		if p.request.TableID != 0 && pt.ID == p.request.TableID && !pt.Reserved {
			pt.Selected = true
			selectionAlive = true
		}
		tables = append(tables, pt)
	}
	if !selectionAlive {
		p.request.TableID = 0
	}
	p.tables = tables
	return nil
}

// reservedAt reports whether any timestamp falls within the conflict
// window of the requested time. Unparseable timestamps are ignored rather
// than blocking the table.
func reservedAt(reservations []string, at time.Time) bool {
	for _, raw := range reservations {
		booked, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			continue
		}
		diff := booked.Sub(at)
		if diff < 0 {
			diff = -diff
		}
		if diff <= window {
			return true
		}
	}
	return false
}

// Select marks the given table as the reservation target. Selection is
// exclusive: picking one table clears any other. Reserved and unknown
// tables cannot be selected.
func (p *Picker) Select(tableID uint64) error {
	idx := -1
	for i := range p.tables {
		if p.tables[i].ID == tableID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return errors.New("no such table")
	}
	if p.tables[idx].Reserved {
		return errors.New("table is reserved for this time")
	}
	for i := range p.tables {
		p.tables[i].Selected = i == idx
	}
	p.request.TableID = tableID
	return nil
}

// Submit posts the pending reservation. On rejection the server's message
// is surfaced (with a generic fallback); on success availability is
// refreshed and the selection cleared.
func (p *Picker) Submit(ctx context.Context) error {
	if p.request.TableID == 0 {
		return errors.New("no table selected")
	}
	_, err := p.api.Reserve(ctx, client.ReserveRequest{
		TableID:  p.request.TableID,
		Quantity: p.request.Quantity,
		Date:     p.request.Date.Format(time.RFC3339),
		Location: p.request.Location,
		UserID:   p.request.UserID,
	})
	if err != nil {
		var apiErr *client.APIError
		if errors.As(err, &apiErr) && apiErr.Message != "" {
			return errors.New(apiErr.Message)
		}
		return errors.New(FallbackMessage)
	}
	p.request.TableID = 0
	return p.Refresh(ctx)
}
