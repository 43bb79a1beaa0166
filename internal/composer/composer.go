// Package composer turns raw reservation form input into a creation request.
package composer

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"salas/internal/models"
)

var timePattern = regexp.MustCompile(`^([01]\d|2[0-3]):([0-5]\d)$`)

// ValidTime reports whether s is a 24-hour HH:MM time with both parts zero-padded.
func ValidTime(s string) bool {
	return timePattern.MatchString(s)
}

// Field names a ReservationDraft field.
type Field string

const (
	FieldStartDate Field = "startDate"
	FieldStartTime Field = "startTime"
	FieldEndDate   Field = "endDate"
	FieldEndTime   Field = "endTime"
)

// Composer combines draft dates and times into instants in its location.
type Composer struct {
	loc *time.Location
	now func() time.Time
}

// New returns a composer working in loc; nil means local time.
func New(loc *time.Location) *Composer {
	if loc == nil {
		loc = time.Local
	}
	return &Composer{loc: loc, now: time.Now}
}

// Location returns the zone drafts are interpreted in.
func (c *Composer) Location() *time.Location {
	return c.loc
}

// Validate reports whether every field of d is present and well formed.
func (c *Composer) Validate(d models.ReservationDraft) bool {
	if d.StartDate == "" || d.StartTime == "" || d.EndDate == "" || d.EndTime == "" {
		return false
	}
	if !ValidTime(d.StartTime) || !ValidTime(d.EndTime) {
		return false
	}
	if _, ok := c.parseDate(d.StartDate); !ok {
		return false
	}
	_, ok := c.parseDate(d.EndDate)
	return ok
}

// Compose builds the creation request for room from d. It returns false and
// no request when d fails Validate. Ordering, future start and overlap with
// other reservations are left to the server.
func (c *Composer) Compose(room models.Room, d models.ReservationDraft) (models.ReservationRequest, bool) {
	if !c.Validate(d) {
		return models.ReservationRequest{}, false
	}

	start, err := c.combine(d.StartDate, d.StartTime)
	if err != nil {
		return models.ReservationRequest{}, false
	}
	end, err := c.combine(d.EndDate, d.EndTime)
	if err != nil {
		return models.ReservationRequest{}, false
	}

	return models.ReservationRequest{
		RoomID:    room.ID,
		StartTime: start,
		EndTime:   end,
	}, true
}

// SetCurrentTime writes today's date into dateField and the current HH:MM
// into timeField. Names that are not a date or time field respectively are
// left alone.
func (c *Composer) SetCurrentTime(d *models.ReservationDraft, dateField, timeField Field) {
	now := c.now().In(c.loc)

	switch dateField {
	case FieldStartDate:
		d.StartDate = now.Format(models.DateLayout)
	case FieldEndDate:
		d.EndDate = now.Format(models.DateLayout)
	}

	hhmm := now.Format(models.TimeLayout)
	switch timeField {
	case FieldStartTime:
		d.StartTime = hhmm
	case FieldEndTime:
		d.EndTime = hhmm
	}
}

// combine overwrites the hour and minute of date with hhmm. Seconds are zero.
func (c *Composer) combine(date, hhmm string) (time.Time, error) {
	day, ok := c.parseDate(date)
	if !ok {
		return time.Time{}, fmt.Errorf("invalid date %q", date)
	}
	hourStr, minStr, found := strings.Cut(hhmm, ":")
	if !found {
		return time.Time{}, fmt.Errorf("invalid time %q", hhmm)
	}
	hour, err := strconv.Atoi(hourStr)
	if err != nil {
		return time.Time{}, err
	}
	minute, err := strconv.Atoi(minStr)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, c.loc), nil
}

// parseDate accepts YYYY-MM-DD or an RFC 3339 timestamp; the latter
// contributes its calendar date in the composer's location.
func (c *Composer) parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if t, err := time.ParseInLocation(models.DateLayout, s, c.loc); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.In(c.loc), true
	}
	return time.Time{}, false
}
