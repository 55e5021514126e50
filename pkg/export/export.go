package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/arnavshah/roster-api-go/pkg/config"
	"github.com/arnavshah/roster-api-go/pkg/models"
)

// Settings controls how timetables are rendered. It is passed to every writer explicitly.
type Settings struct {
	FileName          string
	HelperSeparator   string
	TogetherSeparator string
	ReminderDays      int
	CalendarName      string
	SheetName         string
}

// DefaultSettings mirrors the defaults of config.LoadSettings
func DefaultSettings() Settings {
	return Settings{
		FileName:          "timetable",
		HelperSeparator:   " + ",
		TogetherSeparator: " & ",
		ReminderDays:      1,
		CalendarName:      "Timetable",
		SheetName:         "Timetable",
	}
}

// FromConfig converts loaded export settings
func FromConfig(c config.ExportSettings) Settings {
	return Settings{
		FileName:          c.FileName,
		HelperSeparator:   c.HelperSeparator,
		TogetherSeparator: c.TogetherSeparator,
		ReminderDays:      c.ReminderDays,
		CalendarName:      c.CalendarName,
		SheetName:         c.SheetName,
	}
}

// Format is an export target
type Format string

const (
	FormatCSV   Format = "csv"
	FormatICS   Format = "ics"
	FormatExcel Format = "xlsx"
	FormatTable Format = "table"
)

// ParseFormat accepts a format name case-insensitively
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCSV, FormatICS, FormatExcel, FormatTable:
		return f, nil
	case "excel":
		return FormatExcel, nil
	default:
		return "", fmt.Errorf("unknown export format %q", s)
	}
}

// ContentType returns the MIME type for HTTP downloads
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatICS:
		return "text/calendar; charset=utf-8"
	case FormatExcel:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "text/plain; charset=utf-8"
	}
}

// FileName returns the download file name for the format
func (f Format) FileName(s Settings) string {
	ext := string(f)
	if f == FormatTable {
		ext = "txt"
	}
	return s.FileName + "." + ext
}

// Write renders the timetable in the given format
func Write(w io.Writer, f Format, t *models.Timetable, s Settings) error {
	switch f {
	case FormatCSV:
		return WriteCSV(w, t, s)
	case FormatICS:
		return WriteICS(w, t, s)
	case FormatExcel:
		return WriteExcel(w, t, s)
	case FormatTable:
		_, err := io.WriteString(w, RenderTable(t, s)+"\n")
		return err
	default:
		return fmt.Errorf("unknown export format %q", f)
	}
}
