package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-table-reservation/internal/handler"
)

// RegisterRoutes registers routes that carry no middleware on the provided
// Echo instance.  Currently it exposes only a health check, used by load
// balancers and monitoring systems to verify that the service is up.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterFloorPlan registers the admin floor-plan endpoints.  The cache
// middleware serves repeated GET /tables hits from Redis, and the
// invalidator retires cached listings whenever the layout changes.  Either
// may be nil when Redis is not configured.
func RegisterFloorPlan(e *echo.Echo, h *handler.FloorPlanHandler, cache, invalidate echo.MiddlewareFunc) {
	e.GET("/tables", h.GetTables, mws(cache)...)

	mutating := mws(invalidate)
	e.POST("/tables/create", h.CreateTables, mutating...)
	e.PUT("/tables/update/:id", h.UpdatePosition, mutating...)
	e.DELETE("/tables/delete/:id", h.DeleteTable, mutating...)
	// Atomic batch save used by the floor-plan editor: all moves and
	// creates from one session commit together.
	e.PUT("/tables/layout", h.SaveLayout, mutating...)
}

// RegisterReservations registers the customer-facing endpoints.  The rate
// limiter throttles reservation attempts per client IP; availability reads
// share the response cache since every new booking bumps the layout
// version.
func RegisterReservations(e *echo.Echo, h *handler.ReservationHandler, cache, invalidate, limit echo.MiddlewareFunc) {
	e.GET("/tables/available", h.GetAvailable, mws(cache)...)
	e.POST("/tables/reserve", h.Reserve, mws(limit, invalidate)...)
	e.GET("/reservations/user/:id", h.UserReservations)
	e.DELETE("/reservations/:id", h.CancelReservation, mws(invalidate)...)
}

// mws filters out nil middleware so optional concerns can simply be absent.
func mws(in ...echo.MiddlewareFunc) []echo.MiddlewareFunc {
	out := make([]echo.MiddlewareFunc, 0, len(in))
	for _, m := range in {
		if m != nil {
			out = append(out, m)
		}
	}
	return out
}
