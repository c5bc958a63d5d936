package postgres

import (
	"fmt"
	"strconv"
	"strings"

	"panelkit/internal/store/repositories"
)

// where accumulates filter conditions written with '?' placeholders and
// numbers them as $1, $2... in order.
type where struct {
	conds []string
	args  []any
}

func (w *where) add(cond string, args ...any) {
	var b strings.Builder
	n := len(w.args)
	for _, r := range cond {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	w.conds = append(w.conds, b.String())
	w.args = append(w.args, args...)
}

func (w *where) clause() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

// orderClause maps API sort fields to columns. Unknown fields are an error,
// so no caller-supplied text ever reaches the SQL.
func orderClause(columns map[string]string, order []repositories.Order, fallback string) (string, error) {
	if len(order) == 0 {
		return " ORDER BY " + fallback, nil
	}
	parts := make([]string, 0, len(order)+1)
	for _, o := range order {
		col, ok := columns[o.Field]
		if !ok {
			return "", fmt.Errorf("unknown ordering field %q", o.Field)
		}
		dir := "ASC"
		if o.Desc {
			dir = "DESC"
		}
		parts = append(parts, col+" "+dir)
	}
	// stable pagination
	parts = append(parts, "id ASC")
	return " ORDER BY " + strings.Join(parts, ", "), nil
}

// pageSQL returns the listing and count statements for one page.
func pageSQL(cols, table string, w *where, order string, q repositories.PageQuery) (list string, listArgs []any, count string) {
	n := len(w.args)
	list = "SELECT " + cols + " FROM " + table + w.clause() + order +
		fmt.Sprintf(" LIMIT $%d OFFSET $%d", n+1, n+2)
	listArgs = append(append([]any{}, w.args...), q.Limit, q.Offset)
	count = "SELECT count(*) FROM " + table + w.clause()
	return list, listArgs, count
}
