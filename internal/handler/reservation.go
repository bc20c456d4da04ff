package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
	"github.com/iliyamo/restaurant-table-reservation/internal/queue"
	"github.com/iliyamo/restaurant-table-reservation/internal/repository"
	queue_publisher "github.com/iliyamo/restaurant-table-reservation/internal/service"
)

// ReservationHandler groups the repositories required to browse
// availability and create or cancel reservations on behalf of customers.
// Publish is called after a successful reservation with the confirmed
// event; it defaults to the RabbitMQ publisher and is fire-and-forget, so
// broker outages never fail a booking.
type ReservationHandler struct {
	TableRepo       *repository.TableRepo
	ReservationRepo *repository.ReservationRepo
	Publish         func(context.Context, queue.ReservationConfirmedEvent) error
}

// NewReservationHandler constructs a new ReservationHandler with the
// provided repositories. All dependencies must be non-nil.
func NewReservationHandler(tableRepo *repository.TableRepo, reservationRepo *repository.ReservationRepo) *ReservationHandler {
	if tableRepo == nil || reservationRepo == nil {
		panic("nil repository passed to NewReservationHandler")
	}
	return &ReservationHandler{
		TableRepo:       tableRepo,
		ReservationRepo: reservationRepo,
		Publish:         queue_publisher.PublishReservationConfirmed,
	}
}

// GetAvailable handles GET /tables/available?location=&date=. It returns
// the tables matching the location, each annotated with the reservation
// timestamps booked on that calendar date. The 90-minute windowing is the
// caller's job; this endpoint only reports the raw bookings.
func (h *ReservationHandler) GetAvailable(c echo.Context) error {
	location := c.QueryParam("location")
	if location != "inside" && location != "outside" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "location must be inside or outside"})
	}
	date, err := parseDate(c.QueryParam("date"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date"})
	}
	tables, err := h.TableRepo.GetAvailable(c.Request().Context(), location, date)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch available tables"})
	}
	return c.JSON(http.StatusOK, tables)
}

// reserveRequest is the body of POST /tables/reserve. Field names mirror
// the browser client exactly.
type reserveRequest struct {
	TableID  uint64 `json:"tableId" validate:"required"`
	Quantity int    `json:"quantity" validate:"required,gt=0"`
	Date     string `json:"date" validate:"required"`
	Location string `json:"location" validate:"required,oneof=inside outside"`
	UserID   uint64 `json:"userId" validate:"required"`
}

// Reserve handles POST /tables/reserve. The conflict check and the insert
// run atomically in the repository, so an overlapping concurrent request
// cannot double-book the slot. Returns 201 with the reservation ID, 409
// with the conflict message when the window is occupied.
func (h *ReservationHandler) Reserve(c echo.Context) error {
	var body reserveRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(&body); err != nil {
		return err
	}
	date, err := parseDate(body.Date)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date"})
	}
	res := model.Reservation{
		TableID:  body.TableID,
		Quantity: body.Quantity,
		Date:     date,
		Location: body.Location,
		UserID:   body.UserID,
	}
	if err := h.ReservationRepo.Create(c.Request().Context(), &res); err != nil {
		if errors.Is(err, repository.ErrReservationConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"message": repository.ConflictMessage})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create reservation"})
	}
	if h.Publish != nil {
		event := queue.ReservationConfirmedEvent{
			ReservationID: res.ID,
			TableID:       res.TableID,
			UserID:        res.UserID,
			Quantity:      res.Quantity,
			Location:      res.Location,
			Date:          res.Date.Format(time.RFC3339),
			ConfirmedAt:   time.Now().UTC().Format(time.RFC3339),
		}
		// Detached from the request context so a slow broker cannot delay
		// or cancel the response.
		go func() { _ = h.Publish(context.Background(), event) }()
	}
	return c.JSON(http.StatusCreated, echo.Map{"reservationId": res.ID})
}

// UserReservations handles GET /reservations/user/:id. It returns the
// user's reservations joined with their table attributes.
func (h *ReservationHandler) UserReservations(c echo.Context) error {
	userID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	list, err := h.ReservationRepo.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch reservations"})
	}
	return c.JSON(http.StatusOK, list)
}

// CancelReservation handles DELETE /reservations/:id. The delete is
// unconditional; ownership enforcement is out of scope at this layer.
// Returns 204 on success and 404 when the reservation does not exist.
func (h *ReservationHandler) CancelReservation(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.ReservationRepo.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete reservation"})
	}
	return c.NoContent(http.StatusNoContent)
}
