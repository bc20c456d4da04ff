// Package handler defines HTTP handlers for the table-reservation API.
// This file implements the admin floor-plan endpoints: listing table
// positions, creating tables, moving them, deleting them, and the atomic
// layout save that applies a whole editor session in one transaction.
package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
	"github.com/iliyamo/restaurant-table-reservation/internal/repository"
)

// FloorPlanHandler bundles the repositories needed to manipulate the
// floor plan.
type FloorPlanHandler struct {
	TableRepo *repository.TableRepo
}

// NewFloorPlanHandler constructs a new FloorPlanHandler and panics if the
// repository is nil.
func NewFloorPlanHandler(tableRepo *repository.TableRepo) *FloorPlanHandler {
	if tableRepo == nil {
		panic("nil repository passed to NewFloorPlanHandler")
	}
	return &FloorPlanHandler{TableRepo: tableRepo}
}

// createTableRequest describes one table in a create or layout-save body.
// Inside is a pointer so that a missing flag is rejected instead of
// silently defaulting to outdoor.
type createTableRequest struct {
	Left   int   `json:"left"`
	Top    int   `json:"top"`
	Size   int   `json:"size" validate:"required,gt=0"`
	Inside *bool `json:"inside" validate:"required"`
}

// GetTables handles GET /tables. It returns every table with its position,
// size, location and a reserved flag derived from today's reservations.
func (h *FloorPlanHandler) GetTables(c echo.Context) error {
	positions, err := h.TableRepo.GetPositions(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch table positions"})
	}
	return c.JSON(http.StatusOK, positions)
}

// CreateTables handles POST /tables/create. The body is an array of table
// descriptors; all rows are inserted in one statement and the assigned IDs
// are returned as {"tableIds": [...]} in input order.
func (h *FloorPlanHandler) CreateTables(c echo.Context) error {
	var body []createTableRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if len(body) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "at least one table is required"})
	}
	tables := make([]model.Table, 0, len(body))
	for _, req := range body {
		if err := c.Validate(&req); err != nil {
			return err
		}
		tables = append(tables, model.Table{Left: req.Left, Top: req.Top, Size: req.Size, Inside: *req.Inside})
	}
	if err := h.TableRepo.CreateBulk(c.Request().Context(), tables); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create tables"})
	}
	ids := make([]uint64, len(tables))
	for i, t := range tables {
		ids[i] = t.ID
	}
	return c.JSON(http.StatusCreated, echo.Map{"tableIds": ids})
}

// UpdatePosition handles PUT /tables/update/:id with a {left, top} body.
// Moving a table that no longer exists is a silent no-op, matching the
// behavior the editor relies on during best-effort saves.
func (h *FloorPlanHandler) UpdatePosition(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body struct {
		Left *int `json:"left" validate:"required"`
		Top  *int `json:"top" validate:"required"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(&body); err != nil {
		return err
	}
	if err := h.TableRepo.UpdatePosition(c.Request().Context(), id, *body.Left, *body.Top); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update table"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "table updated"})
}

// DeleteTable handles DELETE /tables/delete/:id. Deletion is unconditional
// and does not cascade to reservations referencing the table. Returns 204
// on success and 404 when the table does not exist.
func (h *FloorPlanHandler) DeleteTable(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.TableRepo.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrTableNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "table not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete table"})
	}
	return c.NoContent(http.StatusNoContent)
}

// layoutUpdate moves one persisted table during a layout save.
type layoutUpdate struct {
	ID   uint64 `json:"id" validate:"required"`
	Left int    `json:"left"`
	Top  int    `json:"top"`
}

// SaveLayout handles PUT /tables/layout. It applies a whole editor session
// atomically: every position update and every create either commits
// together or not at all, so a failure partway through can no longer leave
// the floor plan half-saved. The response carries the IDs assigned to the
// created tables in input order.
func (h *FloorPlanHandler) SaveLayout(c echo.Context) error {
	var body struct {
		Updates []layoutUpdate       `json:"updates"`
		Creates []createTableRequest `json:"creates"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	for i := range body.Updates {
		if err := c.Validate(&body.Updates[i]); err != nil {
			return err
		}
	}
	creates := make([]model.Table, 0, len(body.Creates))
	for _, req := range body.Creates {
		if err := c.Validate(&req); err != nil {
			return err
		}
		creates = append(creates, model.Table{Left: req.Left, Top: req.Top, Size: req.Size, Inside: *req.Inside})
	}

	ctx := c.Request().Context()
	tx, err := h.TableRepo.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	for _, u := range body.Updates {
		if err := h.TableRepo.UpdatePositionTx(ctx, tx, u.ID, u.Left, u.Top); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to save layout"})
		}
	}
	if err := h.TableRepo.CreateBulkTx(ctx, tx, creates); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to save layout"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true

	ids := make([]uint64, len(creates))
	for i, t := range creates {
		ids[i] = t.ID
	}
	return c.JSON(http.StatusOK, echo.Map{"tableIds": ids})
}
