package absence

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func TestRepository_WithTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	assert.NoError(t, err)

	mock.ExpectBegin()
	tx, err := db.Begin()
	assert.NoError(t, err)

	base := NewRepository(gormDB).(*repository)
	bound := base.WithTx(tx).(*repository)

	// Statements issued through the bound repository must run on the
	// transaction's connection, not the pool.
	assert.Same(t, tx, bound.db.Statement.ConnPool)
	assert.NotSame(t, tx, base.db.Statement.ConnPool)
	assert.NoError(t, mock.ExpectationsWereMet())
}
