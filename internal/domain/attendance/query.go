package attendance

import (
	"fmt"
	"strings"
)

const selectRows = `
    SELECT a.id, a.employee_id, a.work_date, a.time_in, a.time_out,
           CASE WHEN a.time_in IS NOT NULL THEN 'present' ELSE COALESCE(a.status, 'absent') END AS status,
           e.employee_code, e.name, e.position, e.department
    FROM attendance a
    JOIN employees e ON e.id = a.employee_id`

// buildQuery renders the filtered attendance listing. Present is matched on
// time_in or the stored literal; absent and leave only exist as literals on
// rows without a clock-in.
func buildQuery(filter Filter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	next := func(value any) string {
		args = append(args, value)
		return fmt.Sprintf("$%d", len(args))
	}

	if name := strings.TrimSpace(filter.Name); name != "" {
		conds = append(conds, fmt.Sprintf(`e.name ILIKE %s ESCAPE '\'`, next(containsPattern(name))))
	}
	if position := strings.TrimSpace(filter.Position); position != "" {
		conds = append(conds, fmt.Sprintf(`e.position ILIKE %s ESCAPE '\'`, next(containsPattern(position))))
	}
	if filter.Date != nil {
		conds = append(conds, "a.work_date = "+next(*filter.Date))
	}
	if filter.EmployeeID != "" {
		conds = append(conds, "a.employee_id = "+next(filter.EmployeeID))
	}
	switch filter.Status {
	case "":
	case StatusPresent:
		conds = append(conds, fmt.Sprintf("(a.time_in IS NOT NULL OR a.status = %s)", next(string(StatusPresent))))
	default:
		conds = append(conds, fmt.Sprintf("(a.time_in IS NULL AND a.status = %s)", next(string(filter.Status))))
	}

	var b strings.Builder
	b.WriteString(selectRows)
	if len(conds) > 0 {
		b.WriteString("\n    WHERE ")
		b.WriteString(strings.Join(conds, " AND "))
	}
	b.WriteString("\n    ORDER BY a.work_date DESC, a.time_in DESC NULLS LAST, e.name")
	if filter.Limit > 0 {
		b.WriteString(" LIMIT " + next(filter.Limit))
	}
	if filter.Offset > 0 {
		b.WriteString(" OFFSET " + next(filter.Offset))
	}
	return b.String(), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func containsPattern(value string) string {
	return "%" + likeEscaper.Replace(value) + "%"
}
