package checks

import (
	"fmt"
	"reflect"
	"strings"

	"holocron/core/database"

	"gorm.io/gorm"
)

// Table statuses.
const (
	StatusOK      = "ok"
	StatusMissing = "missing"
	StatusError   = "error"
)

// SchemaReport is the result of comparing models against a live database.
type SchemaReport struct {
	Matched bool                   `json:"matched"`
	Tables  map[string]TableReport `json:"tables"`
	Errors  []string               `json:"errors"`
}

// TableReport describes one table.
type TableReport struct {
	MissingColumns []string `json:"missing_columns"`
	Status         string   `json:"status"`
}

// CheckSchema verifies that every model's table exists with every column its
// gorm tags declare. Models must implement TableName.
func CheckSchema(db *gorm.DB, models ...any) (*SchemaReport, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}

	report := &SchemaReport{
		Matched: true,
		Tables:  make(map[string]TableReport),
		Errors:  []string{},
	}

	for _, model := range models {
		typ := reflect.TypeOf(model)
		for typ.Kind() == reflect.Pointer {
			typ = typ.Elem()
		}
		tabler, ok := reflect.New(typ).Interface().(interface{ TableName() string })
		if !ok {
			return nil, fmt.Errorf("model %s does not implement TableName", typ.Name())
		}
		tableName := tabler.TableName()

		actual, err := database.GetTableColumns(db, tableName)
		if err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("Failed to inspect table %s: %v", tableName, err))
			report.Tables[tableName] = TableReport{MissingColumns: []string{}, Status: StatusError}
			report.Matched = false
			continue
		}
		if len(actual) == 0 {
			report.Tables[tableName] = TableReport{MissingColumns: []string{}, Status: StatusMissing}
			report.Matched = false
			continue
		}

		present := make(map[string]struct{}, len(actual))
		for _, col := range actual {
			present[col.Field] = struct{}{}
		}

		tbl := TableReport{MissingColumns: []string{}, Status: StatusOK}
		for _, col := range expectedColumns(typ) {
			if _, ok := present[col]; !ok {
				tbl.MissingColumns = append(tbl.MissingColumns, col)
				tbl.Status = StatusError
				report.Matched = false
			}
		}
		report.Tables[tableName] = tbl
	}

	return report, nil
}

// expectedColumns lists the column names declared by gorm "column:" tags.
func expectedColumns(typ reflect.Type) []string {
	var cols []string
	for i := 0; i < typ.NumField(); i++ {
		if col := parseGormColumn(typ.Field(i).Tag.Get("gorm")); col != "" {
			cols = append(cols, strings.ToLower(col))
		}
	}
	return cols
}

func parseGormColumn(tag string) string {
	for _, p := range strings.Split(tag, ";") {
		if strings.HasPrefix(p, "column:") {
			return strings.TrimPrefix(p, "column:")
		}
	}
	return ""
}
