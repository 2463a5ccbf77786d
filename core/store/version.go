package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SchemaVersionKey is the metadata key holding the catalogue schema version.
const SchemaVersionKey = "catalog_schema_version"

// NoVersion is returned by CurrentVersion when the encyclopedia was never seeded.
const NoVersion = -1

// Status describes how a stored catalogue relates to a target version.
type Status string

const (
	// StatusFresh means no version marker exists yet.
	StatusFresh Status = "fresh"
	// StatusNeedsMigration means the stored version is below the target.
	StatusNeedsMigration Status = "needs_migration"
	// StatusUpToDate means the stored version is at or above the target.
	StatusUpToDate Status = "up_to_date"
)

// CurrentVersion returns the stored catalogue version, or NoVersion.
func (s *Store) CurrentVersion(ctx context.Context) (int, error) {
	db, err := s.Encyclopedia()
	if err != nil {
		return NoVersion, err
	}
	return ReadVersion(db.WithContext(ctx))
}

// Status compares the stored version with target.
func (s *Store) Status(ctx context.Context, target int) (Status, error) {
	current, err := s.CurrentVersion(ctx)
	if err != nil {
		return "", err
	}
	return Compare(current, target), nil
}

// Compare maps a stored version and a target to a Status.
func Compare(current, target int) Status {
	switch {
	case current == NoVersion:
		return StatusFresh
	case current < target:
		return StatusNeedsMigration
	default:
		return StatusUpToDate
	}
}

// ReadVersion reads the version marker through db, which may be a transaction.
func ReadVersion(db *gorm.DB) (int, error) {
	var row Metadata
	err := db.Where(&Metadata{Key: SchemaVersionKey}).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NoVersion, nil
	}
	if err != nil {
		return NoVersion, fmt.Errorf("%w: read schema version: %w", ErrQueryFailed, err)
	}

	version, err := strconv.Atoi(row.Value)
	if err != nil {
		return NoVersion, fmt.Errorf("corrupt schema version %q: %w", row.Value, err)
	}
	return version, nil
}

// WriteVersion records version as the catalogue schema version. It refuses
// negative versions, which would read back as NoVersion, and refuses to move
// the marker backwards.
func WriteVersion(tx *gorm.DB, version int) error {
	if version < 0 {
		return fmt.Errorf("%w: version %d is negative", ErrInvalidArgument, version)
	}
	current, err := ReadVersion(tx)
	if err != nil {
		return err
	}
	if current != NoVersion && version < current {
		return fmt.Errorf("%w: version %d is below stored version %d", ErrInvalidArgument, version, current)
	}

	row := Metadata{Key: SchemaVersionKey, Value: strconv.Itoa(version)}
	return tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&row).Error
}
