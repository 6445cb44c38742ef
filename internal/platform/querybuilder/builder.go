// Package querybuilder assembles Postgres statements with ordinal
// placeholders. It covers the handful of shapes the repositories need
// and rejects anything structurally incomplete at build time.
package querybuilder

import (
	"fmt"
	"strconv"
	"strings"
)

// stmt accumulates SQL text and the argument list behind it. Every
// bound value gets the next $N ordinal.
type stmt struct {
	sql  strings.Builder
	args []any
}

func (s *stmt) raw(text string) {
	s.sql.WriteString(text)
}

// bind writes the next placeholder and records its value.
func (s *stmt) bind(value any) {
	s.args = append(s.args, value)
	s.sql.WriteString("$")
	s.sql.WriteString(strconv.Itoa(len(s.args)))
}

// bindExpr copies expr, replacing each ? with the next ordinal
// placeholder. With no args the expression passes through untouched,
// which keeps literal question marks in handwritten suffixes safe.
func (s *stmt) bindExpr(expr string, exprArgs []any) {
	if len(exprArgs) == 0 {
		s.sql.WriteString(expr)
		return
	}

	next := 0
	for i := 0; i < len(expr); i++ {
		if expr[i] == '?' && next < len(exprArgs) {
			s.bind(exprArgs[next])
			next++
			continue
		}
		s.sql.WriteByte(expr[i])
	}
}

func (s *stmt) whereAll(conditions []Condition) {
	if len(conditions) == 0 {
		return
	}
	s.raw(" WHERE ")
	for i, c := range conditions {
		if i > 0 {
			s.raw(" AND ")
		}
		c.render(s)
	}
}

func (s *stmt) finish() (string, []any) {
	return s.sql.String(), s.args
}

// Condition renders one WHERE term.
type Condition interface {
	render(s *stmt)
}

type condFunc func(s *stmt)

func (f condFunc) render(s *stmt) { f(s) }

func Eq(column string, value any) Condition {
	return condFunc(func(s *stmt) {
		s.raw(column)
		s.raw(" = ")
		s.bind(value)
	})
}

// ILike matches case-insensitively against a SQL LIKE pattern.
func ILike(column, pattern string) Condition {
	return condFunc(func(s *stmt) {
		s.raw(column)
		s.raw(" ILIKE ")
		s.bind(pattern)
	})
}

// In renders column IN ($n...). An empty value list renders a clause
// that matches nothing, so callers need no special casing.
func In(column string, values []any) Condition {
	return condFunc(func(s *stmt) {
		if len(values) == 0 {
			s.raw("1=0")
			return
		}
		s.raw(column)
		s.raw(" IN (")
		for i, v := range values {
			if i > 0 {
				s.raw(", ")
			}
			s.bind(v)
		}
		s.raw(")")
	})
}

// Expr is an escape hatch for conditions the typed helpers cannot
// express; ? markers bind args in order.
func Expr(expr string, args ...any) Condition {
	return condFunc(func(s *stmt) {
		s.bindExpr(expr, args)
	})
}

type SelectBuilder struct {
	columns []string
	table   string
	joins   []string
	where   []Condition
	orderBy []string
	limit   int
}

func Select(columns ...string) *SelectBuilder {
	return &SelectBuilder{columns: append([]string(nil), columns...)}
}

func (b *SelectBuilder) From(table string) *SelectBuilder {
	b.table = table
	return b
}

func (b *SelectBuilder) Join(clause string) *SelectBuilder {
	b.joins = append(b.joins, strings.TrimSpace(clause))
	return b
}

func (b *SelectBuilder) Where(conditions ...Condition) *SelectBuilder {
	b.where = append(b.where, conditions...)
	return b
}

func (b *SelectBuilder) OrderBy(parts ...string) *SelectBuilder {
	b.orderBy = append(b.orderBy, parts...)
	return b
}

func (b *SelectBuilder) Limit(limit int) *SelectBuilder {
	b.limit = limit
	return b
}

func (b *SelectBuilder) ToSQL() (string, []any, error) {
	if len(b.columns) == 0 {
		return "", nil, fmt.Errorf("select columns are required")
	}
	if strings.TrimSpace(b.table) == "" {
		return "", nil, fmt.Errorf("select table is required")
	}

	var s stmt
	s.raw("SELECT ")
	s.raw(strings.Join(b.columns, ", "))
	s.raw(" FROM ")
	s.raw(b.table)
	for _, join := range b.joins {
		s.raw(" JOIN ")
		s.raw(join)
	}
	s.whereAll(b.where)
	if len(b.orderBy) > 0 {
		s.raw(" ORDER BY ")
		s.raw(strings.Join(b.orderBy, ", "))
	}
	if b.limit > 0 {
		s.raw(" LIMIT ")
		s.raw(strconv.Itoa(b.limit))
	}

	query, args := s.finish()
	return query, args, nil
}

type InsertBuilder struct {
	table   string
	columns []string
	rows    [][]any
	suffix  string
}

func InsertInto(table string) *InsertBuilder {
	return &InsertBuilder{table: table}
}

func (b *InsertBuilder) Columns(columns ...string) *InsertBuilder {
	b.columns = append([]string(nil), columns...)
	return b
}

// Values appends one row; call repeatedly for a multi-row insert.
func (b *InsertBuilder) Values(values ...any) *InsertBuilder {
	b.rows = append(b.rows, append([]any(nil), values...))
	return b
}

// Suffix appends trailing SQL such as ON CONFLICT or RETURNING; ?
// markers bind like Expr.
func (b *InsertBuilder) Suffix(sql string) *InsertBuilder {
	b.suffix = strings.TrimSpace(sql)
	return b
}

func (b *InsertBuilder) ToSQL() (string, []any, error) {
	if strings.TrimSpace(b.table) == "" {
		return "", nil, fmt.Errorf("insert table is required")
	}
	if len(b.columns) == 0 {
		return "", nil, fmt.Errorf("insert columns are required")
	}
	if len(b.rows) == 0 {
		return "", nil, fmt.Errorf("insert values are required")
	}
	for i, row := range b.rows {
		if len(row) != len(b.columns) {
			return "", nil, fmt.Errorf("insert row %d has %d values, expected %d", i, len(row), len(b.columns))
		}
	}

	var s stmt
	s.raw("INSERT INTO ")
	s.raw(b.table)
	s.raw(" (")
	s.raw(strings.Join(b.columns, ", "))
	s.raw(") VALUES ")
	for i, row := range b.rows {
		if i > 0 {
			s.raw(", ")
		}
		s.raw("(")
		for j, value := range row {
			if j > 0 {
				s.raw(", ")
			}
			s.bind(value)
		}
		s.raw(")")
	}
	if b.suffix != "" {
		s.raw(" ")
		s.bindExpr(b.suffix, nil)
	}

	query, args := s.finish()
	return query, args, nil
}

type assignment struct {
	column string
	render func(s *stmt)
}

type UpdateBuilder struct {
	table string
	sets  []assignment
	where []Condition
}

func Update(table string) *UpdateBuilder {
	return &UpdateBuilder{table: table}
}

func (b *UpdateBuilder) Set(column string, value any) *UpdateBuilder {
	b.sets = append(b.sets, assignment{column: column, render: func(s *stmt) {
		s.bind(value)
	}})
	return b
}

// SetExpr assigns a raw expression; ? markers bind args in order.
func (b *UpdateBuilder) SetExpr(column, expr string, args ...any) *UpdateBuilder {
	b.sets = append(b.sets, assignment{column: column, render: func(s *stmt) {
		s.bindExpr(expr, args)
	}})
	return b
}

func (b *UpdateBuilder) Where(conditions ...Condition) *UpdateBuilder {
	b.where = append(b.where, conditions...)
	return b
}

func (b *UpdateBuilder) ToSQL() (string, []any, error) {
	if strings.TrimSpace(b.table) == "" {
		return "", nil, fmt.Errorf("update table is required")
	}
	if len(b.sets) == 0 {
		return "", nil, fmt.Errorf("update sets are required")
	}

	var s stmt
	s.raw("UPDATE ")
	s.raw(b.table)
	s.raw(" SET ")
	for i, set := range b.sets {
		if i > 0 {
			s.raw(", ")
		}
		s.raw(set.column)
		s.raw(" = ")
		set.render(&s)
	}
	s.whereAll(b.where)

	query, args := s.finish()
	return query, args, nil
}

type DeleteBuilder struct {
	table string
	where []Condition
}

func DeleteFrom(table string) *DeleteBuilder {
	return &DeleteBuilder{table: table}
}

func (b *DeleteBuilder) Where(conditions ...Condition) *DeleteBuilder {
	b.where = append(b.where, conditions...)
	return b
}

// ToSQL refuses an unconditioned delete; a full-table wipe must be
// written by hand where it is intended.
func (b *DeleteBuilder) ToSQL() (string, []any, error) {
	if strings.TrimSpace(b.table) == "" {
		return "", nil, fmt.Errorf("delete table is required")
	}
	if len(b.where) == 0 {
		return "", nil, fmt.Errorf("delete conditions are required")
	}

	var s stmt
	s.raw("DELETE FROM ")
	s.raw(b.table)
	s.whereAll(b.where)

	query, args := s.finish()
	return query, args, nil
}
