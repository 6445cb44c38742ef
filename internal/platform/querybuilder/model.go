package querybuilder

import (
	"fmt"
	"reflect"
	"strings"
)

// InsertModel builds an INSERT for a struct, mapping exported fields
// through their db tags. Fields tagged "-" or untagged are skipped.
func InsertModel(table string, model any, suffix string) (string, []any, error) {
	value := reflect.ValueOf(model)
	for value.Kind() == reflect.Pointer {
		if value.IsNil() {
			return "", nil, fmt.Errorf("model cannot be nil")
		}
		value = value.Elem()
	}
	if value.Kind() != reflect.Struct {
		return "", nil, fmt.Errorf("model must be struct")
	}

	builder := InsertInto(table)
	row := make([]any, 0, value.NumField())
	cols := make([]string, 0, value.NumField())
	for _, field := range reflect.VisibleFields(value.Type()) {
		if field.PkgPath != "" || field.Anonymous {
			continue
		}
		col := dbColumn(field.Tag.Get("db"))
		if col == "" {
			continue
		}
		cols = append(cols, col)
		row = append(row, value.FieldByIndex(field.Index).Interface())
	}
	if len(cols) == 0 {
		return "", nil, fmt.Errorf("model has no db columns")
	}

	return builder.Columns(cols...).Values(row...).Suffix(suffix).ToSQL()
}

// dbColumn extracts the column name from a db tag, dropping options
// after the first comma.
func dbColumn(tag string) string {
	name, _, _ := strings.Cut(strings.TrimSpace(tag), ",")
	name = strings.TrimSpace(name)
	if name == "-" {
		return ""
	}
	return name
}
