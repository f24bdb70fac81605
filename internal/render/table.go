package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/flarebyte/ssr/internal/environment"
	"github.com/flarebyte/ssr/internal/ssr"
)

const absentCell = "-"

// Table renders one row per result with a column per environment. Cells for
// environments without a record show "-".
func Table(results []ssr.Result, targets []environment.Target) string {
	if len(targets) == 0 {
		targets = environment.All()
	}
	targets = environment.Unique(targets)

	headers := []string{"KEY", "NAME", "DESCRIPTION"}
	for _, t := range targets {
		headers = append(headers, strings.ToUpper(t.String()))
	}
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		row := []string{r.Key, r.Name, r.Description}
		for _, t := range targets {
			u, ok := r.URL(t)
			if !ok {
				u = absentCell
			}
			row = append(row, u)
		}
		rows = append(rows, row)
	}

	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...)
	return tbl.Render() + "\n"
}
