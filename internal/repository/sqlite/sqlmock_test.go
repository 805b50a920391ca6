package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aashutosh585/LinkdinClone-assignment/internal/domain"
	"github.com/aashutosh585/LinkdinClone-assignment/internal/repository"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func TestUserRepository_CreateMapsUniqueViolation(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec("INSERT INTO users").
		WillReturnError(errors.New("constraint failed: UNIQUE constraint failed: users.email (2067)"))

	err := NewUserRepository(db).Create(context.Background(), &domain.User{ID: "u1", Email: "a@example.com"})
	assert.ErrorIs(t, err, repository.ErrAlreadyExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetByIDPropagatesDriverError(t *testing.T) {
	db, mock := newMock(t)
	driverErr := errors.New("disk I/O error")
	mock.ExpectQuery("SELECT .* FROM users").WithArgs("u1").WillReturnError(driverErr)

	_, err := NewUserRepository(db).GetByID(context.Background(), "u1")
	assert.ErrorIs(t, err, driverErr)
	assert.NotErrorIs(t, err, repository.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_ToggleRollsBackOnFailure(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM post_likes").WithArgs("p1", "u1").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO post_likes").WillReturnError(errors.New("FOREIGN KEY constraint failed"))
	mock.ExpectRollback()

	_, _, err := NewPostRepository(db).ToggleLike(context.Background(), "p1", "u1")
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_UpdateMissingRow(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec("UPDATE posts SET").WillReturnResult(sqlmock.NewResult(0, 0))

	err := NewPostRepository(db).Update(context.Background(), &domain.Post{ID: "p1", Content: "x"})
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
