// Package client provides a typed HTTP client over the table-reservation
// API. The floor-plan editor and the reservation picker talk to the server
// exclusively through it.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Table is a floor-plan table as returned by the listing endpoints.
// Reserved is populated by GET /tables (today's flag); Reservations is
// populated by GET /tables/available (raw timestamps for the requested
// date).
type Table struct {
	ID           uint64   `json:"id"`
	Left         int      `json:"left"`
	Top          int      `json:"top"`
	Size         int      `json:"size"`
	Inside       bool     `json:"inside"`
	Reserved     bool     `json:"reserved"`
	Reservations []string `json:"reservations"`
}

// NewTable describes a table to create.
type NewTable struct {
	Left   int  `json:"left"`
	Top    int  `json:"top"`
	Size   int  `json:"size"`
	Inside bool `json:"inside"`
}

// PositionUpdate moves one persisted table during a layout save.
type PositionUpdate struct {
	ID   uint64 `json:"id"`
	Left int    `json:"left"`
	Top  int    `json:"top"`
}

// Layout is the body of the atomic batch-save endpoint.
type Layout struct {
	Updates []PositionUpdate `json:"updates"`
	Creates []NewTable       `json:"creates"`
}

// ReserveRequest is the body of POST /tables/reserve.
type ReserveRequest struct {
	TableID  uint64 `json:"tableId"`
	Quantity int    `json:"quantity"`
	Date     string `json:"date"`
	Location string `json:"location"`
	UserID   uint64 `json:"userId"`
}

// UserReservation is one row of GET /reservations/user/:id.
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

// APIError carries the message body of a non-2xx response. The
// reservation conflict message travels through it to the customer.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string { return e.Message }

// Client calls the table-reservation API at BaseURL.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// New returns a Client with a sane default timeout.
func New(baseURL string) *Client {
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// do issues a request with an optional JSON body and decodes the JSON
// response into out when it is non-nil. Non-2xx responses are returned as
// *APIError carrying the server's message or error field when present.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(encoded)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var payload struct {
			Message string `json:"message"`
			Error   string `json:"error"`
		}
		if json.NewDecoder(resp.Body).Decode(&payload) == nil {
			if payload.Message != "" {
				apiErr.Message = payload.Message
			} else {
				apiErr.Message = payload.Error
			}
		}
		if apiErr.Message == "" {
			apiErr.Message = fmt.Sprintf("request failed with status %d", resp.StatusCode)
		}
		return apiErr
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// Tables fetches all table positions with today's reserved flag.
func (c *Client) Tables(ctx context.Context) ([]Table, error) {
	var tables []Table
	if err := c.do(ctx, http.MethodGet, "/tables", nil, &tables); err != nil {
		return nil, err
	}
	return tables, nil
}

// Available fetches the tables for a location annotated with the
// reservation timestamps on the given date.
func (c *Client) Available(ctx context.Context, location, date string) ([]Table, error) {
	q := url.Values{}
	q.Set("location", location)
	q.Set("date", date)
	var tables []Table
	if err := c.do(ctx, http.MethodGet, "/tables/available?"+q.Encode(), nil, &tables); err != nil {
		return nil, err
	}
	return tables, nil
}

// CreateTables creates the given tables and returns their assigned IDs in
// input order.
func (c *Client) CreateTables(ctx context.Context, tables []NewTable) ([]uint64, error) {
	var resp struct {
		TableIDs []uint64 `json:"tableIds"`
	}
	if err := c.do(ctx, http.MethodPost, "/tables/create", tables, &resp); err != nil {
		return nil, err
	}
	return resp.TableIDs, nil
}

// UpdatePosition moves a persisted table.
func (c *Client) UpdatePosition(ctx context.Context, id uint64, left, top int) error {
	body := map[string]int{"left": left, "top": top}
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/tables/update/%d", id), body, nil)
}

// DeleteTable removes a table from the floor plan.
func (c *Client) DeleteTable(ctx context.Context, id uint64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/tables/delete/%d", id), nil, nil)
}

// SaveLayout applies a batch of moves and creates atomically and returns
// the IDs assigned to the created tables in input order.
func (c *Client) SaveLayout(ctx context.Context, layout Layout) ([]uint64, error) {
	var resp struct {
		TableIDs []uint64 `json:"tableIds"`
	}
	if err := c.do(ctx, http.MethodPut, "/tables/layout", layout, &resp); err != nil {
		return nil, err
	}
	return resp.TableIDs, nil
}

// Reserve books a table. A conflict is reported as *APIError carrying the
// server's message.
func (c *Client) Reserve(ctx context.Context, req ReserveRequest) (uint64, error) {
	var resp struct {
		ReservationID uint64 `json:"reservationId"`
	}
	if err := c.do(ctx, http.MethodPost, "/tables/reserve", req, &resp); err != nil {
		return 0, err
	}
	return resp.ReservationID, nil
}

// UserReservations lists a user's reservations with table attributes.
func (c *Client) UserReservations(ctx context.Context, userID uint64) ([]UserReservation, error) {
	var list []UserReservation
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/reservations/user/%d", userID), nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// CancelReservation deletes a reservation.
func (c *Client) CancelReservation(ctx context.Context, id uint64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/reservations/%d", id), nil, nil)
}
