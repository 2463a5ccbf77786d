package reconcile

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

func TestInsertDataset_FailureRollsBack(t *testing.T) {
	db, mock := setupMockDB(t)

	b, err := prepare(sampleDataset())
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `sets`").WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec("INSERT INTO `cards`").WillReturnError(errors.New("constraint failed"))
	mock.ExpectRollback()

	err = db.Transaction(func(tx *gorm.DB) error {
		_, err := insertDataset(tx, b)
		return err
	})

	assert.ErrorContains(t, err, "insert cards")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertDataset_OrderAndLinks(t *testing.T) {
	db, mock := setupMockDB(t)

	b, err := prepare(sampleDataset())
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `sets`").WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec("INSERT INTO `cards`").WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec("INSERT INTO `variants`").WillReturnResult(sqlmock.NewResult(0, 4))
	mock.ExpectExec("INSERT INTO `variant_set_appearances`").WillReturnResult(sqlmock.NewResult(0, 4))
	mock.ExpectExec("INSERT INTO `pricing`").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE `variants` SET `pricing_id`=\\? WHERE id IN \\(\\?\\)").
		WithArgs("pc-ext-100", "v-luke").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	var counts Counts
	err = db.Transaction(func(tx *gorm.DB) error {
		counts, err = insertDataset(tx, b)
		return err
	})

	require.NoError(t, err)
	assert.Equal(t, 1, counts.PricingLinks)
	assert.NoError(t, mock.ExpectationsWereMet())
}
