// Package queue defines message payloads exchanged over the message broker.
package queue

// ReservationConfirmedEvent is published when a reservation is successfully
// created. It contains enough information for downstream consumers to log,
// notify, or trigger analytics without querying the primary database.
type ReservationConfirmedEvent struct {
	ReservationID uint64 `json:"reservation_id"`
	TableID       uint64 `json:"table_id"`
	UserID        uint64 `json:"user_id"`
	Quantity      int    `json:"quantity"`
	Location      string `json:"location"`
	Date          string `json:"date"`
	ConfirmedAt   string `json:"confirmed_at"`
}
