// Package querysql compiles queryir searches to parameterized SQLite.
package querysql

import (
	"fmt"
	"strings"

	"github.com/roach88/owlsym/internal/ir"
	"github.com/roach88/owlsym/internal/queryir"
)

// DefaultOrderKey is used for tables without an entry in OrderKeys.
const DefaultOrderKey = "rowid ASC"

// SQLCompiler compiles queryir to SQL for SQLite.
//
// Every query ends in ORDER BY so results are deterministic. Values are
// always bound as parameters; only validated table and column names are
// written into the query text.
type SQLCompiler struct {
	// Schema is the allowlist checked before compilation.
	Schema queryir.Schema

	// OrderKeys maps a table to its ORDER BY clause body.
	OrderKeys map[string]string
}

// NewSQLCompiler creates a compiler for schema.
func NewSQLCompiler(schema queryir.Schema) *SQLCompiler {
	return &SQLCompiler{
		Schema:    schema,
		OrderKeys: make(map[string]string),
	}
}

// Compile validates q and converts it to (sql, params).
func (c *SQLCompiler) Compile(q queryir.Query) (string, []any, error) {
	if err := queryir.Validate(q, c.Schema); err != nil {
		return "", nil, err
	}

	switch query := q.(type) {
	case queryir.Select:
		return c.compileSelect(query)
	case *queryir.Select:
		return c.compileSelect(*query)
	default:
		return "", nil, fmt.Errorf("unsupported query type: %T", q)
	}
}

func (c *SQLCompiler) compileSelect(q queryir.Select) (string, []any, error) {
	var whereClause string
	var params []any
	if q.Filter != nil {
		filterSQL, filterParams, err := c.compilePredicate(q.Filter)
		if err != nil {
			return "", nil, fmt.Errorf("compile filter: %w", err)
		}
		whereClause = " WHERE " + filterSQL
		params = filterParams
	}

	sql := fmt.Sprintf("SELECT %s FROM %s%s ORDER BY %s",
		strings.Join(q.Fields, ", "),
		q.From,
		whereClause,
		c.stableOrderKey(q.From))

	if q.Limit > 0 {
		sql += " LIMIT ?"
		params = append(params, q.Limit)
	}
	return sql, params, nil
}

func (c *SQLCompiler) stableOrderKey(table string) string {
	if key, ok := c.OrderKeys[table]; ok {
		return key
	}
	return DefaultOrderKey
}

func (c *SQLCompiler) compilePredicate(p queryir.Predicate) (string, []any, error) {
	switch pred := p.(type) {
	case queryir.Equals:
		param, err := valueToParam(pred.Value)
		if err != nil {
			return "", nil, err
		}
		return pred.Field + " = ?", []any{param}, nil
	case *queryir.Equals:
		return c.compilePredicate(*pred)
	case queryir.Prefix:
		return pred.Field + ` LIKE ? ESCAPE '\'`, []any{escapeLike(pred.Value) + "%"}, nil
	case *queryir.Prefix:
		return c.compilePredicate(*pred)
	case queryir.Contains:
		return pred.Field + ` LIKE ? ESCAPE '\'`, []any{"%" + escapeLike(pred.Value) + "%"}, nil
	case *queryir.Contains:
		return c.compilePredicate(*pred)
	case queryir.AnyEquals:
		return fmt.Sprintf("EXISTS (SELECT 1 FROM json_each(%s) WHERE json_each.value = ?)", pred.Field),
			[]any{pred.Value}, nil
	case *queryir.AnyEquals:
		return c.compilePredicate(*pred)
	case queryir.AnyContains:
		return fmt.Sprintf(`EXISTS (SELECT 1 FROM json_each(%s) WHERE json_each.value LIKE ? ESCAPE '\')`, pred.Field),
			[]any{"%" + escapeLike(pred.Value) + "%"}, nil
	case *queryir.AnyContains:
		return c.compilePredicate(*pred)
	case queryir.And:
		return c.compileAnd(pred)
	case *queryir.And:
		return c.compileAnd(*pred)
	default:
		return "", nil, fmt.Errorf("unsupported predicate type: %T", p)
	}
}

func (c *SQLCompiler) compileAnd(and queryir.And) (string, []any, error) {
	if len(and.Predicates) == 0 {
		return "1 = 1", nil, nil
	}

	var parts []string
	var params []any
	for _, pred := range and.Predicates {
		sql, ps, err := c.compilePredicate(pred)
		if err != nil {
			return "", nil, err
		}
		parts = append(parts, sql)
		params = append(params, ps...)
	}
	if len(parts) == 1 {
		return parts[0], params, nil
	}
	return "(" + strings.Join(parts, " AND ") + ")", params, nil
}

// escapeLike escapes LIKE wildcards so user input matches literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func valueToParam(v ir.Value) (any, error) {
	switch val := v.(type) {
	case ir.Str:
		return string(val), nil
	case ir.Int:
		return int64(val), nil
	case ir.Bool:
		return bool(val), nil
	default:
		return nil, fmt.Errorf("unsupported value type for SQL parameter: %T", v)
	}
}
