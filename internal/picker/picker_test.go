package picker

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/restaurant-table-reservation/internal/client"
)

// availabilityServer serves a fixed availability payload and records
// reservation attempts.
func availabilityServer(t *testing.T, payload string, reserve http.HandlerFunc) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/tables/available", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(payload))
	})
	if reserve != nil {
		mux.HandleFunc("/tables/reserve", reserve)
	}
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestRefreshFlagsTablesWithinWindow(t *testing.T) {
	at := time.Date(2026, 8, 28, 19, 0, 0, 0, time.UTC)
	payload := fmt.Sprintf(`[
		{"id":1,"left":0,"top":0,"size":4,"inside":true,"reservations":["%s"]},
		{"id":2,"left":10,"top":0,"size":4,"inside":true,"reservations":["%s"]},
		{"id":3,"left":20,"top":0,"size":2,"inside":true,"reservations":[]}
	]`,
		at.Add(-90*time.Minute).Format(time.RFC3339), // boundary: still blocks
		at.Add(91*time.Minute).Format(time.RFC3339))  // just outside the window

	srv := availabilityServer(t, payload, nil)
	p := New(client.New(srv.URL), 7)
	require.NoError(t, p.SetDate(context.Background(), at))

	tables := p.Tables()
	require.Len(t, tables, 3)
	assert.True(t, tables[0].Reserved)
	assert.False(t, tables[1].Reserved)
	assert.False(t, tables[2].Reserved)
}

func TestRefreshIgnoresUnparseableTimestamps(t *testing.T) {
	srv := availabilityServer(t,
		`[{"id":1,"left":0,"top":0,"size":4,"inside":true,"reservations":["not-a-time"]}]`, nil)
	p := New(client.New(srv.URL), 7)
	require.NoError(t, p.Refresh(context.Background()))

	tables := p.Tables()
	require.Len(t, tables, 1)
	assert.False(t, tables[0].Reserved)
}

func TestSelectIsExclusiveAndRejectsReserved(t *testing.T) {
	at := time.Date(2026, 8, 28, 19, 0, 0, 0, time.UTC)
	payload := fmt.Sprintf(`[
		{"id":1,"left":0,"top":0,"size":4,"inside":true,"reservations":["%s"]},
		{"id":2,"left":10,"top":0,"size":4,"inside":true,"reservations":[]},
		{"id":3,"left":20,"top":0,"size":2,"inside":true,"reservations":[]}
	]`, at.Add(30*time.Minute).Format(time.RFC3339))

	srv := availabilityServer(t, payload, nil)
	p := New(client.New(srv.URL), 7)
	require.NoError(t, p.SetDate(context.Background(), at))

	assert.Error(t, p.Select(1), "reserved table must not be selectable")
	assert.Error(t, p.Select(99), "unknown table must not be selectable")

	require.NoError(t, p.Select(2))
	require.NoError(t, p.Select(3))
	var selected []uint64
	for _, tbl := range p.Tables() {
		if tbl.Selected {
			selected = append(selected, tbl.ID)
		}
	}
	assert.Equal(t, []uint64{3}, selected)
	assert.Equal(t, uint64(3), p.Request().TableID)
}

func TestSubmitSurfacesConflictMessage(t *testing.T) {
	at := time.Date(2026, 8, 28, 19, 0, 0, 0, time.UTC)
	srv := availabilityServer(t,
		`[{"id":1,"left":0,"top":0,"size":4,"inside":true,"reservations":[]}]`,
		func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusConflict)
			_, _ = w.Write([]byte(`{"message":"This table is already reserved during this time."}`))
		})

	p := New(client.New(srv.URL), 7)
	require.NoError(t, p.SetDate(context.Background(), at))
	require.NoError(t, p.Select(1))

	err := p.Submit(context.Background())
	require.Error(t, err)
	assert.Equal(t, "This table is already reserved during this time.", err.Error())
	// The attempt stays selected so the customer can adjust and retry.
	assert.Equal(t, uint64(1), p.Request().TableID)
}

func TestSubmitFallsBackToGenericMessage(t *testing.T) {
	at := time.Date(2026, 8, 28, 19, 0, 0, 0, time.UTC)
	srv := availabilityServer(t,
		`[{"id":1,"left":0,"top":0,"size":4,"inside":true,"reservations":[]}]`,
		func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})

	p := New(client.New(srv.URL), 7)
	require.NoError(t, p.SetDate(context.Background(), at))
	require.NoError(t, p.Select(1))

	err := p.Submit(context.Background())
	require.Error(t, err)
	assert.Equal(t, FallbackMessage, err.Error())
}

func TestSubmitSuccessClearsSelectionAndRefreshes(t *testing.T) {
	at := time.Date(2026, 8, 28, 19, 0, 0, 0, time.UTC)
	var got client.ReserveRequest
	srv := availabilityServer(t,
		`[{"id":1,"left":0,"top":0,"size":4,"inside":true,"reservations":[]}]`,
		func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"reservationId":12}`))
		})

	p := New(client.New(srv.URL), 7)
	p.SetQuantity(4)
	require.NoError(t, p.SetDate(context.Background(), at))
	require.NoError(t, p.Select(1))

	require.NoError(t, p.Submit(context.Background()))
	assert.Equal(t, client.ReserveRequest{
		TableID:  1,
		Quantity: 4,
		Date:     "2026-08-28T19:00:00Z",
		Location: "inside",
		UserID:   7,
	}, got)
	assert.Zero(t, p.Request().TableID)
	for _, tbl := range p.Tables() {
		assert.False(t, tbl.Selected)
	}
}

func TestNewDefaults(t *testing.T) {
	p := New(client.New("http://unused"), 7)
	req := p.Request()
	assert.Equal(t, 2, req.Quantity)
	assert.Equal(t, "inside", req.Location)
	assert.Equal(t, uint64(7), req.UserID)
	assert.Zero(t, req.TableID)
}
