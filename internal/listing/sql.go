package listing

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/odyssey-erp/backoffice/internal/datatable"
)

// Field maps a column key to a SQL expression.
type Field struct {
	Expr     string
	Mode     datatable.FilterMode
	Sortable bool
}

// Fields is a resource's whitelist of filterable and sortable columns. Keys
// outside the whitelist are ignored, never interpolated.
type Fields map[string]Field

// Clause is a built WHERE/ORDER BY pair with positional arguments.
type Clause struct {
	Where   string
	OrderBy string
	Args    []any
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Build translates q's filters and sort. fallbackOrder is used when q is
// unsorted and appended as a tiebreaker otherwise.
func (f Fields) Build(q Query, fallbackOrder string) Clause {
	var c Clause
	var conds []string
	for _, key := range slices.Sorted(maps.Keys(q.Filters)) {
		field, ok := f[key]
		if !ok || field.Mode == "" {
			continue
		}
		switch field.Mode {
		case datatable.ModeText:
			s, ok := q.Filters[key].(string)
			if !ok || strings.TrimSpace(s) == "" {
				continue
			}
			c.Args = append(c.Args, "%"+likeEscaper.Replace(s)+"%")
			conds = append(conds, fmt.Sprintf("%s ILIKE $%d", field.Expr, len(c.Args)))
		case datatable.ModeSingleSelect:
			s, ok := q.Filters[key].(string)
			if !ok || s == "" {
				continue
			}
			c.Args = append(c.Args, strings.ToLower(s))
			conds = append(conds, fmt.Sprintf("lower(%s) = $%d", field.Expr, len(c.Args)))
		case datatable.ModeMultiSelect:
			values, ok := q.Filters[key].([]string)
			if !ok || len(values) == 0 {
				continue
			}
			lowered := make([]string, len(values))
			for i, v := range values {
				lowered[i] = strings.ToLower(v)
			}
			c.Args = append(c.Args, lowered)
			conds = append(conds, fmt.Sprintf("lower(%s) = ANY($%d)", field.Expr, len(c.Args)))
		}
	}
	if len(conds) > 0 {
		c.Where = " WHERE " + strings.Join(conds, " AND ")
	}

	c.OrderBy = " ORDER BY " + fallbackOrder
	if q.Sort != nil {
		if field, ok := f[q.Sort.Key]; ok && field.Sortable {
			dir := "ASC"
			if q.Sort.Direction == datatable.Descending {
				dir = "DESC"
			}
			c.OrderBy = fmt.Sprintf(" ORDER BY %s %s, %s", field.Expr, dir, fallbackOrder)
		}
	}
	return c
}

// Paginate appends LIMIT and OFFSET placeholders after the clause's
// arguments.
func (c Clause) Paginate(q Query) (string, []any) {
	n := len(c.Args)
	args := append(slices.Clone(c.Args), q.Limit, q.Offset())
	return fmt.Sprintf(" LIMIT $%d OFFSET $%d", n+1, n+2), args
}
