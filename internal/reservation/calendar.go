package reservation

import (
	"fmt"
	"net/url"
	"time"

	"github.com/jeysi05/pickle-jar-courts/internal/pricing"
)

const calendarBase = "https://calendar.google.com/calendar/render"

// BuildCalendarURL returns a Google Calendar template link for a one-hour
// event starting at the reservation's slot.
func BuildCalendarURL(res *Reservation, loc *time.Location, location string) (string, error) {
	hour, err := pricing.ParseSlotLabel(res.TimeSlot)
	if err != nil {
		return "", err
	}
	day, err := time.ParseInLocation(pricing.DateLayout, res.Date, loc)
	if err != nil {
		return "", fmt.Errorf("%w: malformed date %q", pricing.ErrInvalidInput, res.Date)
	}

	start := time.Date(day.Year(), day.Month(), day.Day(), hour, 0, 0, 0, loc).UTC()
	end := start.Add(time.Hour)
	const stamp = "20060102T150405Z"

	q := url.Values{}
	q.Set("action", "TEMPLATE")
	q.Set("text", fmt.Sprintf("BOOKING: %s (%s)", res.CustomerName, res.CourtName))
	q.Set("dates", start.Format(stamp)+"/"+end.Format(stamp))
	q.Set("details", fmt.Sprintf("Approved Booking.\nPlayer: %s\nContact: %s\nCourt: %s\nTime: %s",
		res.CustomerName, res.CustomerContact, res.CourtName, res.TimeSlot))
	q.Set("location", location)

	return calendarBase + "?" + q.Encode(), nil
}
