package reservation

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildCalendarURL(t *testing.T) {
	manila, err := time.LoadLocation("Asia/Manila")
	require.NoError(t, err)

	res := pending(3)
	res.Status = StatusApproved
	res.TimeSlot = "07:00 PM"

	raw, err := BuildCalendarURL(res, manila, "Pickle Jar Courts")
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "calendar.google.com", u.Host)
	assert.Equal(t, "/calendar/render", u.Path)

	q := u.Query()
	assert.Equal(t, "TEMPLATE", q.Get("action"))
	assert.Equal(t, "BOOKING: Ana Cruz (Centre Court)", q.Get("text"))
	// 19:00 in Manila is 11:00 UTC.
	assert.Equal(t, "20261021T110000Z/20261021T120000Z", q.Get("dates"))
	assert.Equal(t, "Pickle Jar Courts", q.Get("location"))
	assert.Contains(t, q.Get("details"), "Player: Ana Cruz")
	assert.Contains(t, q.Get("details"), "Time: 07:00 PM")
}

func TestBuildCalendarURL_BadSlot(t *testing.T) {
	res := pending(3)
	res.TimeSlot = "noon"

	_, err := BuildCalendarURL(res, time.UTC, "")
	assert.Error(t, err)
}
