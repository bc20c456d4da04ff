package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
)

func newMock(t *testing.T) (*TableRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewTableRepo(db), mock
}

func TestTableRepoCreatePopulatesID(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO tables (x, y, size, inside) VALUES (?, ?, ?, ?)`)).
		WithArgs(10, 20, 4, true).
		WillReturnResult(sqlmock.NewResult(7, 1))

	table := model.Table{Left: 10, Top: 20, Size: 4, Inside: true}
	require.NoError(t, repo.Create(context.Background(), &table))
	assert.Equal(t, uint64(7), table.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTableRepoCreateBulkAssignsConsecutiveIDs(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO tables (x, y, size, inside) VALUES (?, ?, ?, ?),(?, ?, ?, ?)`)).
		WithArgs(0, 0, 2, true, 5, 5, 6, false).
		WillReturnResult(sqlmock.NewResult(11, 2))

	tables := []model.Table{
		{Left: 0, Top: 0, Size: 2, Inside: true},
		{Left: 5, Top: 5, Size: 6, Inside: false},
	}
	require.NoError(t, repo.CreateBulk(context.Background(), tables))
	assert.Equal(t, uint64(11), tables[0].ID)
	assert.Equal(t, uint64(12), tables[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTableRepoCreateBulkEmptyIsNoop(t *testing.T) {
	repo, mock := newMock(t)
	require.NoError(t, repo.CreateBulk(context.Background(), nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTableRepoUpdatePositionIgnoresMissingRow(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE tables SET x = ?, y = ? WHERE id = ?`)).
		WithArgs(30, 40, 9).
		WillReturnResult(sqlmock.NewResult(0, 0))

	// Zero rows affected is a silent no-op for position updates.
	assert.NoError(t, repo.UpdatePosition(context.Background(), 9, 30, 40))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTableRepoDelete(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM tables WHERE id = ?`)).
		WithArgs(3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	assert.NoError(t, repo.Delete(context.Background(), 3))

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM tables WHERE id = ?`)).
		WithArgs(99).
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.Delete(context.Background(), 99), ErrTableNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTableRepoGetPositions(t *testing.T) {
	repo, mock := newMock(t)

	rows := sqlmock.NewRows([]string{"id", "x", "y", "size", "inside", "reserved"}).
		AddRow(1, 10, 20, 4, true, 1).
		AddRow(2, 50, 60, 2, false, 0)
	mock.ExpectQuery("FROM tables t").WillReturnRows(rows)

	positions, err := repo.GetPositions(context.Background())
	require.NoError(t, err)
	require.Len(t, positions, 2)
	assert.Equal(t, TablePosition{ID: 1, Left: 10, Top: 20, Size: 4, Inside: true, Reserved: true}, positions[0])
	assert.Equal(t, TablePosition{ID: 2, Left: 50, Top: 60, Size: 2, Inside: false, Reserved: false}, positions[1])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTableRepoGetAvailable(t *testing.T) {
	repo, mock := newMock(t)
	date := time.Date(2026, 8, 28, 19, 0, 0, 0, time.UTC)

	tableRows := sqlmock.NewRows([]string{"id", "x", "y", "size", "inside"}).
		AddRow(1, 10, 20, 4, true).
		AddRow(2, 50, 60, 2, true)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, x, y, size, inside FROM tables WHERE inside = ?`)).
		WithArgs(true).
		WillReturnRows(tableRows)

	resRows := sqlmock.NewRows([]string{"table_id", "date"}).
		AddRow(1, date.Add(-30*time.Minute)).
		AddRow(1, date.Add(2*time.Hour))
	mock.ExpectQuery("FROM reservations").
		WithArgs(date, 1, 2).
		WillReturnRows(resRows)

	tables, err := repo.GetAvailable(context.Background(), "inside", date)
	require.NoError(t, err)
	require.Len(t, tables, 2)
	assert.Equal(t, []string{"2026-08-28T18:30:00Z", "2026-08-28T21:00:00Z"}, tables[0].Reservations)
	assert.Empty(t, tables[1].Reservations)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTableRepoGetAvailableNoTables(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, x, y, size, inside FROM tables WHERE inside = ?`)).
		WithArgs(false).
		WillReturnRows(sqlmock.NewRows([]string{"id", "x", "y", "size", "inside"}))

	tables, err := repo.GetAvailable(context.Background(), "outside", time.Now().UTC())
	require.NoError(t, err)
	assert.Empty(t, tables)
	assert.NoError(t, mock.ExpectationsWereMet())
}
