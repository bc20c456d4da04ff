package model

import "time"

// Reservation records a user's booking of one table for a given date/time
// and party size.  Location is a denormalized copy of the table's
// inside/outside designation; the conflict window query relies on it so it
// never has to join the tables table.  All timestamps are stored in UTC.
//
// Fields:
//  ID       – primary key identifier.
//  TableID  – table being reserved (references tables.id).
//  Quantity – party size (reservations.how_many).
//  Date     – reservation date and time.
//  Location – "inside" or "outside", copied from the table.
//  UserID   – user who made the reservation.
type Reservation struct {
	ID       uint64    // reservations.id
	TableID  uint64    // reservations.table_id
	Quantity int       // reservations.how_many
	Date     time.Time // reservations.date
	Location string    // reservations.location
	UserID   uint64    // reservations.user_id
}

// ConflictWindow is the span around a reservation's date during which no
// other reservation may be made for the same table.  Both window edges are
// inclusive.
const ConflictWindow = 90 * time.Minute
