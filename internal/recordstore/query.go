// Package recordstore is the per-tenant document/record backend behind
// §4.A's lead capture and §4.G's url-tracking change detection.
package recordstore

import (
	"fmt"
	"strings"

	pg_query "github.com/pganalyze/pg_query_go/v6"
)

// allowedTables is the read-only query surface: leads and the
// url-tracking table exposed to diagnostics/admin tooling, adapted from
// the teacher's wider knowledge-base table whitelist down to this
// spec's two record collections (§3).
var allowedTables = map[string]bool{
	"leads":        true,
	"url_tracking": true,
}

// SQLValidator enforces that an operator-supplied query is a single
// read-only SELECT touching only the tenant's own tables, using
// PostgreSQL's official parser rather than string matching so that
// comment tricks and encoding games can't smuggle a second statement
// past the check.
type SQLValidator struct{}

// NewSQLValidator constructs a SQLValidator.
func NewSQLValidator() *SQLValidator {
	return &SQLValidator{}
}

// ValidateAndNormalize parses sqlQuery, rejects anything but a single
// plain SELECT over the allowed tables, and returns the parser's
// normalized (deparsed) form.
func (v *SQLValidator) ValidateAndNormalize(sqlQuery string) (string, error) {
	if err := v.validateInput(sqlQuery); err != nil {
		return "", err
	}

	result, err := pg_query.Parse(sqlQuery)
	if err != nil {
		return "", fmt.Errorf("sql parse error: %w", err)
	}
	if len(result.Stmts) == 0 {
		return "", fmt.Errorf("empty query")
	}
	if len(result.Stmts) > 1 {
		return "", fmt.Errorf("multiple statements are not allowed")
	}

	selectStmt := result.Stmts[0].Stmt.GetSelectStmt()
	if selectStmt == nil {
		return "", fmt.Errorf("only SELECT queries are allowed")
	}
	if err := v.validateSelectStmt(selectStmt); err != nil {
		return "", err
	}

	normalized, err := pg_query.Deparse(result)
	if err != nil {
		return "", fmt.Errorf("failed to normalize sql: %w", err)
	}
	return normalized, nil
}

func (v *SQLValidator) validateInput(sql string) error {
	if strings.Contains(sql, "\x00") {
		return fmt.Errorf("invalid character in sql query")
	}
	if len(sql) < 6 {
		return fmt.Errorf("sql query too short")
	}
	if len(sql) > 4096 {
		return fmt.Errorf("sql query too long (max 4096 characters)")
	}
	return nil
}

func (v *SQLValidator) validateSelectStmt(stmt *pg_query.SelectStmt) error {
	if stmt.Op != pg_query.SetOperation_SETOP_NONE {
		return fmt.Errorf("compound queries (UNION/INTERSECT/EXCEPT) are not allowed")
	}
	if stmt.WithClause != nil {
		return fmt.Errorf("WITH clause (CTEs) is not allowed")
	}
	if stmt.IntoClause != nil {
		return fmt.Errorf("SELECT INTO is not allowed")
	}
	if len(stmt.LockingClause) > 0 {
		return fmt.Errorf("locking clauses (FOR UPDATE, etc.) are not allowed")
	}

	found := 0
	for _, fromItem := range stmt.FromClause {
		n, err := v.validateFromItem(fromItem)
		if err != nil {
			return err
		}
		found += n
	}
	if found == 0 {
		return fmt.Errorf("no valid table found in query")
	}
	return nil
}

// validateFromItem walks a FROM-clause entry, allowing plain table
// references and joins of allowed tables only.
func (v *SQLValidator) validateFromItem(node *pg_query.Node) (int, error) {
	if node == nil {
		return 0, nil
	}
	switch item := node.Node.(type) {
	case *pg_query.Node_RangeVar:
		name := item.RangeVar.Relname
		if !allowedTables[name] {
			return 0, fmt.Errorf("table %q is not allowed", name)
		}
		return 1, nil
	case *pg_query.Node_JoinExpr:
		left, err := v.validateFromItem(item.JoinExpr.Larg)
		if err != nil {
			return 0, err
		}
		right, err := v.validateFromItem(item.JoinExpr.Rarg)
		if err != nil {
			return 0, err
		}
		return left + right, nil
	default:
		return 0, fmt.Errorf("unsupported FROM clause item")
	}
}
