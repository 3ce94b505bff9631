package sqltemplate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/goliatone/go-dashboard-controls/components/dashboard"
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Statement is a parameterized query with "?" placeholders.
type Statement struct {
	SQL  string
	Args []any
}

// Build renders the view query for req and narrows it to the requested
// columns and field conditions.
func (p *Processor) Build(query string, req dashboard.ViewRequest) (Statement, error) {
	base, err := p.ProcessSelect(query, Model(req.Filters))
	if err != nil {
		return Statement{}, fmt.Errorf("view %s: %w", req.ViewID, err)
	}
	return Wrap(base, req.Columns, req.Filters.Conditions)
}

// Wrap selects columns from base as a derived table and applies conditions.
func Wrap(base string, columns []string, conditions []dashboard.FieldCondition) (Statement, error) {
	base = strings.TrimRight(strings.TrimSpace(base), ";")
	if len(columns) == 0 && len(conditions) == 0 {
		return Statement{SQL: base}, nil
	}
	projection := "*"
	if len(columns) > 0 {
		for _, col := range columns {
			if !identifierPattern.MatchString(col) {
				return Statement{}, fmt.Errorf("sqltemplate: invalid column %q", col)
			}
		}
		projection = strings.Join(columns, ", ")
	}
	where, args, err := Where(conditions)
	if err != nil {
		return Statement{}, err
	}
	sql := fmt.Sprintf("SELECT %s FROM (%s) AS filtered", projection, base)
	if where != "" {
		sql += " WHERE " + where
	}
	return Statement{SQL: sql, Args: args}, nil
}

// Where turns conditions into a conjunction with "?" placeholders.
func Where(conditions []dashboard.FieldCondition) (string, []any, error) {
	clauses := make([]string, 0, len(conditions))
	var args []any
	for _, cond := range conditions {
		if !identifierPattern.MatchString(cond.Field) {
			return "", nil, fmt.Errorf("sqltemplate: invalid field %q", cond.Field)
		}
		if len(cond.Values) == 0 {
			continue
		}
		clause, condArgs, err := condition(cond)
		if err != nil {
			return "", nil, err
		}
		clauses = append(clauses, clause)
		args = append(args, condArgs...)
	}
	return strings.Join(clauses, " AND "), args, nil
}

func condition(cond dashboard.FieldCondition) (string, []any, error) {
	field := cond.Field
	first := cond.Values[0]
	switch cond.Operator {
	case "", dashboard.SQLOperatorIn:
		return field + " IN (" + placeholders(len(cond.Values)) + ")", cond.Values, nil
	case dashboard.SQLOperatorNotIn:
		return field + " NOT IN (" + placeholders(len(cond.Values)) + ")", cond.Values, nil
	case dashboard.SQLOperatorEqual:
		return field + " = ?", []any{first}, nil
	case dashboard.SQLOperatorNotEqual:
		return field + " <> ?", []any{first}, nil
	case dashboard.SQLOperatorContain:
		return field + " LIKE ?", []any{"%" + fmt.Sprint(first) + "%"}, nil
	case dashboard.SQLOperatorGreaterThan:
		return field + " > ?", []any{first}, nil
	case dashboard.SQLOperatorLessThan:
		return field + " < ?", []any{first}, nil
	case dashboard.SQLOperatorBetween:
		if len(cond.Values) != 2 {
			return "", nil, fmt.Errorf("sqltemplate: BETWEEN on %s needs 2 values, got %d", field, len(cond.Values))
		}
		return field + " BETWEEN ? AND ?", []any{cond.Values[0], cond.Values[1]}, nil
	}
	return "", nil, fmt.Errorf("sqltemplate: unsupported operator %q", cond.Operator)
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
