package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/arnavshah/roster-api-go/pkg/config"
	"github.com/arnavshah/roster-api-go/pkg/models"
)

func sampleTimetable() *models.Timetable {
	t := models.NewTimetable([]string{"Door", "Sound"})
	t.AddSlot(models.NewSlot(time.Date(2024, 1, 14, 0, 0, 0, 0, time.UTC), map[string]models.Assignment{
		"Door":  {Worker: "Ben"},
		"Sound": {Worker: "Cleo"},
	}))
	t.AddSlot(models.NewSlot(time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC), map[string]models.Assignment{
		"Door":  {Worker: "Anna", Helper: "Gus"},
		"Sound": {Worker: "Dan"},
	}))
	return t
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, WriteCSV(&buf, sampleTimetable(), DefaultSettings()))

	require.Equal(t, "Subject,Start Date\n"+
		"Anna + Gus & Dan,01/07/2024\n"+
		"Ben & Cleo,01/14/2024\n", buf.String())
}

func TestWriteICS(t *testing.T) {
	s := DefaultSettings()
	s.ReminderDays = 2
	s.TogetherSeparator = " / "
	s.CalendarName = "Crew"
	var buf bytes.Buffer

	require.NoError(t, WriteICS(&buf, sampleTimetable(), s))

	out := buf.String()
	require.True(t, strings.HasPrefix(out, "BEGIN:VCALENDAR"))
	require.Contains(t, out, "END:VCALENDAR")
	require.Contains(t, out, "METHOD:PUBLISH")
	require.Contains(t, out, "X-WR-CALNAME:Crew")
	require.Contains(t, out, "TRIGGER:-P2D")

	cal, err := ics.ParseCalendar(strings.NewReader(out))
	require.NoError(t, err)
	events := cal.Events()
	require.Len(t, events, 2)
	require.Equal(t, "Anna + Gus / Dan", events[0].GetProperty(ics.ComponentPropertySummary).Value)
	require.Contains(t, events[0].GetProperty(ics.ComponentPropertyDtStart).Value, "20240107")
	require.Len(t, events[0].Alarms(), 1)
}

func TestEventUIDIsStable(t *testing.T) {
	d := time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC)
	require.Equal(t, eventUID(d, "Anna & Dan"), eventUID(d, "Anna & Dan"))
	require.NotEqual(t, eventUID(d, "Anna & Dan"), eventUID(d.AddDate(0, 0, 7), "Anna & Dan"))
}

func TestWriteExcel(t *testing.T) {
	s := DefaultSettings()
	s.SheetName = "Rota"
	var buf bytes.Buffer

	require.NoError(t, WriteExcel(&buf, sampleTimetable(), s))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	require.Equal(t, []string{"Rota"}, f.GetSheetList())
	rows, err := f.GetRows("Rota")
	require.NoError(t, err)
	require.Equal(t, [][]string{
		{"", "2024-01-07", "2024-01-14"},
		{"Door", "Anna + Gus", "Ben"},
		{"Sound", "Dan", "Cleo"},
	}, rows)

	width, err := f.GetColWidth("Rota", "B")
	require.NoError(t, err)
	require.Equal(t, float64(len("2024-01-07")+2), width)
}

func TestRenderTable(t *testing.T) {
	out := RenderTable(sampleTimetable(), DefaultSettings())

	require.Contains(t, out, "Date")
	require.Contains(t, out, "Anna + Gus")
	require.Less(t, strings.Index(out, "2024-01-07"), strings.Index(out, "2024-01-14"))
}

func TestFormats(t *testing.T) {
	f, err := ParseFormat(" Excel ")
	require.NoError(t, err)
	require.Equal(t, FormatExcel, f)
	require.Equal(t, "timetable.xlsx", f.FileName(DefaultSettings()))

	_, err = ParseFormat("pdf")
	require.Error(t, err)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatCSV, sampleTimetable(), DefaultSettings()))
	require.Contains(t, buf.String(), "Subject,Start Date")
}

func TestFromConfig(t *testing.T) {
	s := FromConfig(config.ExportSettings{FileName: "rota", HelperSeparator: "/", ReminderDays: 4})
	require.Equal(t, "rota", s.FileName)
	require.Equal(t, "/", s.HelperSeparator)
	require.Equal(t, 4, s.ReminderDays)
}
