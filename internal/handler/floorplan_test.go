package handler

import (
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/restaurant-table-reservation/internal/repository"
)

// newFloorPlanServer wires a FloorPlanHandler over a mocked database onto
// a fresh Echo instance with the real routes.
func newFloorPlanServer(t *testing.T) (*echo.Echo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	e := echo.New()
	e.Validator = NewRequestValidator()
	h := NewFloorPlanHandler(repository.NewTableRepo(db))
	e.GET("/tables", h.GetTables)
	e.POST("/tables/create", h.CreateTables)
	e.PUT("/tables/update/:id", h.UpdatePosition)
	e.DELETE("/tables/delete/:id", h.DeleteTable)
	e.PUT("/tables/layout", h.SaveLayout)
	return e, mock
}

func doJSON(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestCreateTablesReturnsAssignedIDs(t *testing.T) {
	e, mock := newFloorPlanServer(t)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO tables (x, y, size, inside) VALUES (?, ?, ?, ?)`)).
		WithArgs(10, 20, 4, true).
		WillReturnResult(sqlmock.NewResult(1, 1))

	rec := doJSON(e, http.MethodPost, "/tables/create", `[{"left":10,"top":20,"size":4,"inside":true}]`)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"tableIds":[1]}`, rec.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateTablesRejectsEmptyBody(t *testing.T) {
	e, _ := newFloorPlanServer(t)
	rec := doJSON(e, http.MethodPost, "/tables/create", `[]`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateTablesRejectsMissingInsideFlag(t *testing.T) {
	e, _ := newFloorPlanServer(t)
	rec := doJSON(e, http.MethodPost, "/tables/create", `[{"left":10,"top":20,"size":4}]`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdatePosition(t *testing.T) {
	e, mock := newFloorPlanServer(t)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE tables SET x = ?, y = ? WHERE id = ?`)).
		WithArgs(30, 40, 2).
		WillReturnResult(sqlmock.NewResult(0, 1))

	rec := doJSON(e, http.MethodPut, "/tables/update/2", `{"left":30,"top":40}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteTableNotFound(t *testing.T) {
	e, mock := newFloorPlanServer(t)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM tables WHERE id = ?`)).
		WithArgs(99).
		WillReturnResult(sqlmock.NewResult(0, 0))

	rec := doJSON(e, http.MethodDelete, "/tables/delete/99", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteTable(t *testing.T) {
	e, mock := newFloorPlanServer(t)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM tables WHERE id = ?`)).
		WithArgs(2).
		WillReturnResult(sqlmock.NewResult(0, 1))

	rec := doJSON(e, http.MethodDelete, "/tables/delete/2", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveLayoutAppliesUpdatesAndCreatesAtomically(t *testing.T) {
	e, mock := newFloorPlanServer(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE tables SET x = ?, y = ? WHERE id = ?`)).
		WithArgs(15, 25, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO tables (x, y, size, inside) VALUES (?, ?, ?, ?)`)).
		WithArgs(0, 0, 6, false).
		WillReturnResult(sqlmock.NewResult(8, 1))
	mock.ExpectCommit()

	body := `{"updates":[{"id":1,"left":15,"top":25}],"creates":[{"left":0,"top":0,"size":6,"inside":false}]}`
	rec := doJSON(e, http.MethodPut, "/tables/layout", body)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"tableIds":[8]}`, rec.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveLayoutRollsBackWhenAnUpdateFails(t *testing.T) {
	e, mock := newFloorPlanServer(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE tables SET x = ?, y = ? WHERE id = ?`)).
		WithArgs(15, 25, 1).
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	body := `{"updates":[{"id":1,"left":15,"top":25}],"creates":[{"left":0,"top":0,"size":6,"inside":false}]}`
	rec := doJSON(e, http.MethodPut, "/tables/layout", body)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
