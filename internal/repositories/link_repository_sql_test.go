package repositories

import (
	"errors"
	"testing"

	"linktree_backend/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newMySQLMock(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

// The ownership check must be part of the DELETE itself, with no prior read.
func TestDeleteOwned_SingleStatementWithOwnerPredicate(t *testing.T) {
	db, mock := newMySQLMock(t)

	mock.ExpectExec("^DELETE FROM `links` WHERE id = \\? AND user_id = \\?$").
		WithArgs(5, 1).
		WillReturnResult(sqlmock.NewResult(0, 0))

	affected, err := NewLinkRepository().DeleteOwned(db, 5, 1)
	require.NoError(t, err)
	assert.Zero(t, affected)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteOwned_PropagatesStoreError(t *testing.T) {
	db, mock := newMySQLMock(t)

	mock.ExpectExec("DELETE FROM `links`").
		WillReturnError(errors.New("db down"))

	_, err := NewLinkRepository().DeleteOwned(db, 5, 1)
	assert.EqualError(t, err, "db down")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkVerified_GuardsOnToken(t *testing.T) {
	db, mock := newMySQLMock(t)

	mock.ExpectExec("^UPDATE `users` SET .* WHERE id = \\? AND verification_code = \\?$").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := NewUserRepository().MarkVerified(db, 7, "tok")
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// A concurrent registration can slip in between the count and the INSERT.
func TestCreate_DuplicateKeyFromRaceMapsToAlreadyExists(t *testing.T) {
	db, mock := newMySQLMock(t)

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `users` WHERE email = \\?").
		WithArgs("a@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(0))
	mock.ExpectExec("INSERT INTO `users`").
		WillReturnError(&mysqldriver.MySQLError{Number: 1062, Message: "Duplicate entry 'a@x.com' for key 'idx_users_email'"})

	err := NewUserRepository().Create(db, &models.User{Email: "a@x.com", PasswordHash: "h"})
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_OtherInsertErrorsPassThrough(t *testing.T) {
	db, mock := newMySQLMock(t)

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `users`").
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(0))
	mock.ExpectExec("INSERT INTO `users`").
		WillReturnError(errors.New("db down"))

	err := NewUserRepository().Create(db, &models.User{Email: "a@x.com", PasswordHash: "h"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUserAlreadyExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}
