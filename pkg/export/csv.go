package export

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/arnavshah/roster-api-go/pkg/models"
)

const (
	csvWorkerSeparator = " & "
	csvDateLayout      = "01/02/2006"
)

// WriteCSV writes one calendar-import row per slot: subject and start date
func WriteCSV(w io.Writer, t *models.Timetable, s Settings) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"Subject", "Start Date"}); err != nil {
		return err
	}

	for _, slot := range t.Slots() {
		subject := strings.Join(slot.Texts(t.Positions, s.HelperSeparator), csvWorkerSeparator)
		if err := writer.Write([]string{subject, slot.Date.Format(csvDateLayout)}); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
