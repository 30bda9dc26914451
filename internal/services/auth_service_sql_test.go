package services

import (
	"testing"

	"linktree_backend/internal/repositories"
	"linktree_backend/internal/services/dto"
	"linktree_backend/pkg/apperrors"

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

func TestRegister_DuplicateKeyRaceIsDuplicateEmail(t *testing.T) {
	db, mock := newMySQLMock(t)
	mail := newRecordingProvider()
	svc := NewAuthService(repositories.NewUserRepository(), repositories.NewProfileRepository(), mail, 4)

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `users` WHERE email = \\?").
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(0))
	mock.ExpectExec("INSERT INTO `users`").
		WillReturnError(&mysqldriver.MySQLError{Number: 1062, Message: "Duplicate entry"})

	err := svc.Register(db, &dto.RegisterRequest{Email: "a@x.com", Password: "pw"}, "http://localhost")
	assert.ErrorIs(t, err, apperrors.ErrDuplicateEmail)
	assert.Empty(t, mail.lastURL)
	assert.NoError(t, mock.ExpectationsWereMet())
}
