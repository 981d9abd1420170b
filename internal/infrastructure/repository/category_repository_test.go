package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockCategoryRepository(t *testing.T) (*CategoryRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})
	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewCategoryRepository(gormDB), mock, mockDB
}

func TestCategoryRepositoryLoadAll(t *testing.T) {
	repo, mock, mockDB := newMockCategoryRepository(t)
	defer mockDB.Close()

	rows := sqlmock.NewRows([]string{"code", "name"}).
		AddRow("MLB1055", "Celulares e Smartphones").
		AddRow("MLB1648", "Informática")

	mock.ExpectQuery(`SELECT \* FROM "category_references"`).WillReturnRows(rows)

	names, err := repo.LoadAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"MLB1055": "Celulares e Smartphones",
		"MLB1648": "Informática",
	}, names)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryRepositoryLoadAllEmptyTable(t *testing.T) {
	repo, mock, mockDB := newMockCategoryRepository(t)
	defer mockDB.Close()

	mock.ExpectQuery(`SELECT \* FROM "category_references"`).
		WillReturnRows(sqlmock.NewRows([]string{"code", "name"}))

	names, err := repo.LoadAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestCategoryRepositoryLoadAllQueryError(t *testing.T) {
	repo, mock, mockDB := newMockCategoryRepository(t)
	defer mockDB.Close()

	mock.ExpectQuery(`SELECT \* FROM "category_references"`).
		WillReturnError(sql.ErrConnDone)

	_, err := repo.LoadAll(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load category references")
}
