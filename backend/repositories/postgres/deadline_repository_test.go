package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tempora/deadline-service/backend/models"
	"github.com/tempora/deadline-service/backend/repositories"
	"go.uber.org/zap"
)

func newMockRepo(t *testing.T) (repositories.DeadlineRepository, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db := &DB{DB: sqlDB, logger: zap.NewNop()}
	return NewDeadlineRepository(db, zap.NewNop()), mock
}

func deadlineRows(deadlines ...*models.Deadline) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{
		"id", "title", "description", "deadline_date", "status",
		"priority", "project_id", "created_at", "updated_at",
	})
	for _, d := range deadlines {
		rows.AddRow(d.ID, d.Title, d.Description, d.DeadlineDate, d.Status,
			d.Priority, d.ProjectID, d.CreatedAt, d.UpdatedAt)
	}
	return rows
}

func TestDeadlineRepositoryCreate(t *testing.T) {
	repo, mock := newMockRepo(t)

	d := models.NewDeadline("Submit report", time.Now().Add(48*time.Hour), models.DeadlinePriorityHigh)
	mock.ExpectExec("INSERT INTO deadlines").
		WithArgs(d.ID, d.Title, d.Description, d.DeadlineDate, d.Status,
			d.Priority, d.ProjectID, d.CreatedAt, d.UpdatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Create(context.Background(), d))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeadlineRepositoryGetByID(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		d := models.NewDeadline("Report", time.Now().Add(time.Hour), models.DeadlinePriorityMedium)
		mock.ExpectQuery("SELECT (.+) FROM deadlines WHERE id").
			WithArgs(d.ID).
			WillReturnRows(deadlineRows(d))

		got, err := repo.GetByID(context.Background(), d.ID)
		require.NoError(t, err)
		assert.Equal(t, d.ID, got.ID)
		assert.Equal(t, d.Title, got.Title)
	})

	t.Run("not found maps to the sentinel error", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		d := models.NewDeadline("Missing", time.Now(), models.DeadlinePriorityLow)
		mock.ExpectQuery("SELECT (.+) FROM deadlines WHERE id").
			WithArgs(d.ID).
			WillReturnRows(deadlineRows())

		_, err := repo.GetByID(context.Background(), d.ID)
		assert.ErrorIs(t, err, repositories.ErrDeadlineNotFound)
	})
}

func TestDeadlineRepositoryList(t *testing.T) {
	t.Run("without filters", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		a := models.NewDeadline("First", time.Now().Add(time.Hour), models.DeadlinePriorityLow)
		b := models.NewDeadline("Second", time.Now().Add(2*time.Hour), models.DeadlinePriorityHigh)
		mock.ExpectQuery("SELECT (.+) FROM deadlines ORDER BY deadline_date ASC").
			WillReturnRows(deadlineRows(a, b))

		got, err := repo.List(context.Background(), repositories.DeadlineFilter{})
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "First", got[0].Title)
	})

	t.Run("with a status filter", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		status := models.DeadlineStatusPending
		mock.ExpectQuery("SELECT (.+) FROM deadlines WHERE status").
			WithArgs(status).
			WillReturnRows(deadlineRows())

		got, err := repo.List(context.Background(), repositories.DeadlineFilter{Status: &status})
		require.NoError(t, err)
		assert.Empty(t, got)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDeadlineRepositoryUpdate(t *testing.T) {
	t.Run("updates an existing row", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		d := models.NewDeadline("Report", time.Now().Add(time.Hour), models.DeadlinePriorityMedium)
		mock.ExpectExec("UPDATE deadlines").
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Update(context.Background(), d))
	})

	t.Run("zero rows affected maps to not found", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		d := models.NewDeadline("Gone", time.Now(), models.DeadlinePriorityLow)
		mock.ExpectExec("UPDATE deadlines").
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.Update(context.Background(), d), repositories.ErrDeadlineNotFound)
	})
}

func TestDeadlineRepositoryDelete(t *testing.T) {
	t.Run("deletes an existing row", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		d := models.NewDeadline("Report", time.Now(), models.DeadlinePriorityLow)
		mock.ExpectExec("DELETE FROM deadlines").
			WithArgs(d.ID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Delete(context.Background(), d.ID))
	})

	t.Run("zero rows affected maps to not found", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		d := models.NewDeadline("Gone", time.Now(), models.DeadlinePriorityLow)
		mock.ExpectExec("DELETE FROM deadlines").
			WithArgs(d.ID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.Delete(context.Background(), d.ID), repositories.ErrDeadlineNotFound)
	})
}
