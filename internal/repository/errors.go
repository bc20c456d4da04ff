// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. For
// example, ErrReservationConflict signals that a requested time slot
// overlaps an existing booking on the same table, while the not-found
// sentinels report lookups or deletes that matched no rows.
package repository

import "errors"

// ErrTableNotFound is returned when a table lookup or delete matches no
// rows. Handlers should translate this into an HTTP 404 response.
var ErrTableNotFound = errors.New("table not found")

// ErrReservationNotFound is returned when a reservation delete matches no
// rows. Handlers should translate this into an HTTP 404 response.
var ErrReservationNotFound = errors.New("reservation not found")

// ErrReservationConflict is returned when a reservation cannot be created
// because another reservation on the same table falls within the 90-minute
// conflict window. Handlers should translate this into an HTTP 409
// response carrying ConflictMessage.
var ErrReservationConflict = errors.New("reservation conflict")

// ConflictMessage is the human-readable text surfaced to customers when a
// reservation attempt hits the conflict window.
const ConflictMessage = "This table is already reserved during this time."
