package checks

import (
	"regexp"
	"testing"

	"holocron/core/store"

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

func columns(names ...string) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"Field", "Type", "Null", "Key", "Default", "Extra"})
	for _, n := range names {
		rows.AddRow(n, "varchar(255)", "YES", "", nil, "")
	}
	return rows
}

func TestCheckSchema_NilDB(t *testing.T) {
	report, err := CheckSchema(nil, &store.Set{})
	assert.Error(t, err)
	assert.Nil(t, report)
}

func TestCheckSchema_NotATable(t *testing.T) {
	db, _ := setupMockDB(t)
	_, err := CheckSchema(db, struct{ Name string }{})
	assert.ErrorContains(t, err, "does not implement TableName")
}

func TestCheckSchema_Matched(t *testing.T) {
	db, mock := setupMockDB(t)

	mock.ExpectQuery(regexp.QuoteMeta("SHOW COLUMNS FROM `sets`")).
		WillReturnRows(columns("id", "name", "abbreviation", "release_date", "icon_path"))
	mock.ExpectQuery(regexp.QuoteMeta("SHOW COLUMNS FROM `collection_entries`")).
		WillReturnRows(columns("variant_id", "quantity", "updated_at", "extra"))

	report, err := CheckSchema(db, &store.Set{}, store.CollectionEntry{})
	require.NoError(t, err)
	assert.True(t, report.Matched)
	assert.Equal(t, StatusOK, report.Tables["sets"].Status)
	assert.Empty(t, report.Tables["collection_entries"].MissingColumns)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckSchema_MissingColumnsAndErrors(t *testing.T) {
	db, mock := setupMockDB(t)

	mock.ExpectQuery(regexp.QuoteMeta("SHOW COLUMNS FROM `variants`")).
		WillReturnRows(columns("id", "card_id", "name", "code", "details"))
	mock.ExpectQuery(regexp.QuoteMeta("SHOW COLUMNS FROM `pricing`")).
		WillReturnError(assert.AnError)
	mock.ExpectQuery(regexp.QuoteMeta("SHOW COLUMNS FROM `cards`")).
		WillReturnRows(columns())

	report, err := CheckSchema(db, &store.Variant{}, &store.Pricing{}, &store.Card{})
	require.NoError(t, err)
	assert.False(t, report.Matched)

	assert.Equal(t, StatusError, report.Tables["variants"].Status)
	assert.Equal(t, []string{"pricing_id"}, report.Tables["variants"].MissingColumns)
	assert.Equal(t, StatusError, report.Tables["pricing"].Status)
	assert.Len(t, report.Errors, 1)
	assert.Equal(t, StatusMissing, report.Tables["cards"].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}
