package export

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/arnavshah/roster-api-go/pkg/models"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

// RenderTable renders the timetable for a terminal: one row per slot, one column per position
func RenderTable(t *models.Timetable, s Settings) string {
	headers := append([]string{"Date"}, t.Positions...)

	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	for _, slot := range t.Slots() {
		row := []string{slot.Date.Format(models.DateLayout)}
		for _, position := range t.Positions {
			row = append(row, slot.Assignments[position].Text(s.HelperSeparator))
		}
		tbl.Row(row...)
	}
	return tbl.String()
}
