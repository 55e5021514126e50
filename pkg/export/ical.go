package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"

	"github.com/arnavshah/roster-api-go/pkg/models"
)

const productID = "-//roster-api-go//Timetable//EN"

// WriteICS writes an iCalendar document with one all-day event per slot. Every event carries
// a display alarm ReminderDays before the slot.
func WriteICS(w io.Writer, t *models.Timetable, s Settings) error {
	cal := ics.NewCalendar()
	cal.SetProductId(productID)
	cal.SetCalscale("GREGORIAN")
	cal.SetMethod(ics.MethodPublish)
	cal.SetXWRCalName(s.CalendarName)

	stamp := time.Now().UTC()
	for _, slot := range t.Slots() {
		text := strings.Join(slot.Texts(t.Positions, s.HelperSeparator), s.TogetherSeparator)

		event := cal.AddEvent(eventUID(slot.Date, text))
		event.SetDtStampTime(stamp)
		event.SetAllDayStartAt(slot.Date)
		event.SetAllDayEndAt(slot.Date.AddDate(0, 0, 1))
		event.SetSummary(text)
		event.SetDescription(text)

		alarm := event.AddAlarm()
		alarm.SetAction(ics.ActionDisplay)
		alarm.SetTrigger(fmt.Sprintf("-P%dD", s.ReminderDays))
		alarm.SetProperty(ics.ComponentPropertyDescription, text)
	}

	_, err := io.WriteString(w, cal.Serialize())
	return err
}

// eventUID is stable for the same slot so re-imports update events instead of duplicating them
func eventUID(date time.Time, text string) string {
	id := uuid.NewSHA1(uuid.NameSpaceURL, []byte(date.Format(models.DateLayout)+"|"+text))
	return id.String() + "@roster-api-go"
}
